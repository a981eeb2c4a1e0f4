package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/props"
)

// Templates is a set of schema templates keyed by the document type they
// apply to. It is passed around explicitly; there is no global registry.
type Templates map[string]*data.Document

// LoadTemplates reads every document file directly inside dir into a
// template set, keyed by file stem.
func LoadTemplates(dir string, opts ...props.StoreOption) (Templates, error) {
	store, err := props.NewStore(opts...)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	templates := make(Templates)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if !slices.Contains(props.Extensions, ext) {
			continue
		}

		value, err := store.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		doc, ok := value.(*data.Document)
		if !ok {
			return nil, fmt.Errorf("%w: template %s is not an object", data.ErrFormat, entry.Name())
		}

		templates[strings.TrimSuffix(entry.Name(), ext)] = doc
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no templates in %s", data.ErrNotFound, dir)
	}

	return templates, nil
}

// Check validates a document against the template selected by the value
// of its field key (e.g. "type" or "system"). An unknown template name
// fails with ErrNotFound so callers can decide whether to skip it.
func (t Templates) Check(doc *data.Document, field string, opts Options) (Report, error) {
	raw, ok := doc.Get(field)
	if !ok {
		return Report{{Kind: KindMissingKey, Path: "/" + field}}, nil
	}

	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s key must be a string", data.ErrFormat, field)
	}

	template, ok := t[name]
	if !ok {
		return nil, fmt.Errorf("%w: no template for %s %q", data.ErrNotFound, field, name)
	}

	return Schema(doc, template, opts), nil
}
