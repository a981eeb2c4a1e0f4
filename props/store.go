// Package props loads structured text files (JSON/YAML) into nested
// key-value documents and implements the merge and placeholder-expansion
// rules used by the validity resolution engine.
package props

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/log"
)

// Extensions lists the supported document file extensions in resolution
// preference order.
var Extensions = []string{".json", ".yaml", ".yml"}

const defaultCacheSize = 512

// Store loads documents from disk with a bounded per-file cache.
// Loaded documents are placeholder-substituted against their directory
// and must be treated as read-only by consumers.
type Store struct {
	cache  *lru.Cache[string, any]
	strict bool
	log    *log.Logger
}

type StoreOption func(*Store) error

func WithCacheSize(size int) StoreOption {
	return func(s *Store) error {
		cache, err := lru.New[string, any](size)
		if err != nil {
			return fmt.Errorf("invalid cache size %d: %w", size, err)
		}
		s.cache = cache
		return nil
	}
}

// WithStrict makes unresolved placeholders fatal instead of leaving them
// verbatim.
func WithStrict() StoreOption {
	return func(s *Store) error {
		s.strict = true
		return nil
	}
}

func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) error {
		s.log = logger
		return nil
	}
}

func NewStore(opts ...StoreOption) (*Store, error) {
	store := &Store{
		log: log.Discard(),
	}

	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	if store.cache == nil {
		cache, err := lru.New[string, any](defaultCacheSize)
		if err != nil {
			return nil, err
		}
		store.cache = cache
	}

	return store, nil
}

// Strict reports whether unresolved placeholders are fatal.
func (s *Store) Strict() bool {
	return s.strict
}

// Resolve maps a path to the document file backing it. A bare name
// without extension is tried against every supported extension; more than
// one existing variant for the same stem is ambiguous.
func Resolve(path string) (string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}

	var found []string
	for _, ext := range Extensions {
		candidate := path + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = append(found, candidate)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s is not a valid file", data.ErrNotFound, path)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: ambiguous extension for %s", data.ErrConflict, path)
	}
}

// Load reads and parses the document at path, resolving the extension if
// needed. The result is either a *data.Document or a []any and is cached
// per resolved file. String values have the reserved "_" placeholder
// expanded to the file's directory.
func (s *Store) Load(path string) (any, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(resolved); ok {
		return cached, nil
	}

	raw, err := parseFile(resolved)
	if err != nil {
		return nil, err
	}

	value := data.ConvertValue(raw)
	switch value.(type) {
	case *data.Document, []any:
	default:
		return nil, fmt.Errorf("%w: %s does not contain an object or list", data.ErrParse, resolved)
	}

	dir, err := filepath.Abs(filepath.Dir(resolved))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrInvalidPath, resolved)
	}

	bindings := map[string]string{PathVar: dir}
	if err := Substitute(value, bindings, false); err != nil {
		return nil, err
	}

	s.log.Debug("loaded %s", resolved)
	s.cache.Add(resolved, value)

	return value, nil
}

func parseFile(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	switch filepath.Ext(path) {
	case ".json", ".jsonl":
		value, err := oj.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", data.ErrParse, path, err)
		}
		return value, nil
	case ".yaml", ".yml":
		var value any
		if err := yaml.Unmarshal(content, &value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", data.ErrParse, path, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file format %s", data.ErrParse, path)
	}
}
