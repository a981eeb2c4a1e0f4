package textdb

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/mwantia/textdb/catalog"
	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/props"
)

// validityFiles are the accepted names of the per-directory validity
// specification, at most one of which may exist.
var validityFiles = []string{"validity.jsonl", "validity.yaml", "validity.yml"}

// On queries the node by acquisition timestamp. The directory's validity
// specification selects the applicable file set for the category
// (defaulting to "all"); the files are loaded, merged in catalog order,
// and returned as one document with placeholders bound to the node's
// directory.
//
// A non-empty pattern filters the resolved file names by an anchored
// regular expression. It is ignored when the validity entry resolves to
// a single plain file name.
func (db *DB) On(timestamp, pattern, category string) (*data.Document, error) {
	cat, err := db.Catalog()
	if err != nil {
		return nil, err
	}

	fileSet, err := cat.Resolve(timestamp, category, false)
	if err != nil {
		return nil, err
	}

	if fileSet.Scalar {
		doc, err := db.loadResolved(fileSet.Files[0])
		if err != nil {
			return nil, err
		}
		// the cached document was substituted non-strictly at load time;
		// strict mode still has to reject leftover placeholders here
		if db.store.Strict() {
			if err := props.Substitute(doc, map[string]string{props.PathVar: db.path}, true); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}

	files := fileSet.Files
	if pattern != "" {
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", data.ErrFormat, pattern, err)
		}

		matched := make([]string, 0, len(files))
		for _, name := range files {
			if re.MatchString(name) {
				matched = append(matched, name)
			}
		}
		files = matched
	}

	result := data.NewDocument()
	for _, name := range files {
		doc, err := db.loadResolved(name)
		if err != nil {
			return nil, err
		}
		props.Merge(result, doc)
	}

	bindings := map[string]string{props.PathVar: db.path}
	if err := props.Substitute(result, bindings, db.store.Strict()); err != nil {
		return nil, err
	}

	return result, nil
}

// OnTime is On for a time.Time query.
func (db *DB) OnTime(at time.Time, pattern, category string) (*data.Document, error) {
	return db.On(data.FormatTimestamp(at), pattern, category)
}

// loadResolved locates a catalog-resolved file name anywhere under the
// node's subtree and loads it through the regular item-access path.
func (db *DB) loadResolved(name string) (*data.Document, error) {
	rel, err := db.findFile(name)
	if err != nil {
		return nil, err
	}

	value, err := db.Lookup(rel)
	if err != nil {
		return nil, err
	}

	doc, ok := value.Document()
	if !ok {
		return nil, fmt.Errorf("%w: resolved file %s is not an object", data.ErrFormat, name)
	}

	return doc, nil
}

// Catalog parses the node's validity specification, cached for the
// node's lifetime. Exactly one validity file must exist in the node's
// directory.
func (db *DB) Catalog() (*catalog.Catalog, error) {
	if db.catalog != nil {
		return db.catalog, nil
	}

	var found []string
	for _, name := range validityFiles {
		candidate := filepath.Join(db.path, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = append(found, candidate)
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: no validity file in %s", data.ErrNotFound, db.path)
	case 1:
	default:
		return nil, fmt.Errorf("%w: multiple validity files in %s", data.ErrConflict, db.path)
	}

	cat, err := catalog.Read(found[0])
	if err != nil {
		return nil, err
	}

	db.catalog = cat
	return cat, nil
}

// Map builds a secondary index over the node's loaded children by the
// value found under label inside each of them. With a lazy database,
// call Scan first to populate the node. The result is cached until the
// node's content changes.
func (db *DB) Map(label string) (data.Remap, error) {
	if cached, ok := db.remaps["map:"+label]; ok {
		return cached.(data.Remap), nil
	}

	remap, err := data.BuildRemap(db.values(), label)
	if err != nil {
		return nil, err
	}

	db.cacheRemap("map:"+label, remap)
	return remap, nil
}

// Group is the non-unique variant of Map.
func (db *DB) Group(label string) (data.Groups, error) {
	if cached, ok := db.remaps["group:"+label]; ok {
		return cached.(data.Groups), nil
	}

	groups, err := data.BuildGroups(db.values(), label)
	if err != nil {
		return nil, err
	}

	db.cacheRemap("group:"+label, groups)
	return groups, nil
}

func (db *DB) cacheRemap(key string, value any) {
	if db.remaps == nil {
		db.remaps = make(map[string]any)
	}
	db.remaps[key] = value
}

func (db *DB) values() []any {
	keys := db.Keys()

	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, db.items[key])
	}

	return values
}
