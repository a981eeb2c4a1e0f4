// Package textdb projects a directory tree of structured text files
// (JSON/YAML) into a hierarchical, queryable in-memory database.
// Subdirectories become nested databases, files become documents, and
// every directory carrying a validity specification can be queried by
// acquisition timestamp through On.
package textdb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/mwantia/textdb/catalog"
	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/log"
	"github.com/mwantia/textdb/props"
)

// DB is the projection of one directory of the metadata tree. Each node
// exclusively owns its children; they are created on first access (lazy)
// or eagerly during a recursive scan. There are no parent back-references.
//
// A DB is not safe for concurrent mutation; serialize access externally
// or treat the tree as read-only after an eager Scan.
type DB struct {
	path string
	opts *Options
	log  *log.Logger

	// store is the parsed-file loader shared by every node of the tree
	store *props.Store

	items   map[string]any
	catalog *catalog.Catalog
	remaps  map[string]any
}

// New opens the database rooted at path.
func New(dbPath string, opts ...Option) (*DB, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrInvalidPath, dbPath)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a valid directory", data.ErrInvalidPath, dbPath)
	}

	logger := log.NewLogger("textdb", options.LogLevel, options.LogFile, options.NoTerminalLog)

	storeOpts := []props.StoreOption{props.WithLogger(logger.Named("props"))}
	if options.CacheSize > 0 {
		storeOpts = append(storeOpts, props.WithCacheSize(options.CacheSize))
	}
	if options.Strict {
		storeOpts = append(storeOpts, props.WithStrict())
	}

	store, err := props.NewStore(storeOpts...)
	if err != nil {
		return nil, err
	}

	db := &DB{
		path:  abs,
		opts:  options,
		log:   logger,
		store: store,
		items: make(map[string]any),
	}

	if !options.Lazy {
		if err := db.Scan(); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func (db *DB) newChild(dir string) *DB {
	return &DB{
		path:  dir,
		opts:  db.opts,
		log:   db.log,
		store: db.store,
		items: make(map[string]any),
	}
}

// Path returns the absolute directory this node projects.
func (db *DB) Path() string {
	return db.path
}

// Lookup resolves a relative path to a document, nested database, or raw
// list, walking intermediate directories one level at a time and caching
// everything it touches.
func (db *DB) Lookup(item string) (Value, error) {
	rel, err := relativeTo(db.path, item)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", err, item)
	}

	if rel == "." {
		return wrapValue(db), nil
	}

	node := db
	segments := strings.Split(rel, "/")
	for _, segment := range segments[:len(segments)-1] {
		value, err := node.access(segment)
		if err != nil {
			return Value{}, err
		}

		sub, ok := value.Namespace()
		if !ok {
			return Value{}, fmt.Errorf("%w: %s is not a directory", data.ErrNotFound,
				filepath.Join(node.path, segment))
		}
		node = sub
	}

	return node.access(segments[len(segments)-1])
}

// access resolves a single path segment against this node, loading and
// caching it on first touch. This is the only place the item store is
// mutated, so the remap cache is invalidated here.
func (db *DB) access(name string) (Value, error) {
	if name == "." {
		return wrapValue(db), nil
	}

	if hiddenName(name) && !db.opts.Hidden {
		return Value{}, fmt.Errorf("%w: %s is hidden", data.ErrNotFound, filepath.Join(db.path, name))
	}

	id := stripExt(name)
	if cached, ok := db.items[id]; ok {
		return wrapValue(cached), nil
	}

	full := filepath.Join(db.path, name)
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		child := db.newChild(full)
		if !db.opts.Lazy {
			if err := child.Scan(); err != nil {
				return Value{}, err
			}
		}

		db.items[id] = child
		db.remaps = nil

		return wrapValue(child), nil
	}

	value, err := db.store.Load(full)
	if err != nil {
		return Value{}, err
	}

	db.items[id] = value
	db.remaps = nil

	return wrapValue(value), nil
}

// Get resolves a single child by name, swallowing lookup errors. It
// satisfies data.Container so that remapping can descend through
// namespace nodes the same way it descends through documents.
func (db *DB) Get(key string) (any, bool) {
	value, err := db.access(key)
	if err != nil {
		return nil, false
	}

	return value.Any(), true
}

// Keys returns the names of all currently loaded children in sorted
// order. With a lazy database, call Scan first to populate the node.
func (db *DB) Keys() []string {
	keys := make([]string, 0, len(db.items))
	for key := range db.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// Item is one loaded child of a database node.
type Item struct {
	Name  string
	Value Value
}

// Items returns all currently loaded children, ordered by name.
func (db *DB) Items() []Item {
	keys := db.Keys()

	items := make([]Item, 0, len(keys))
	for _, key := range keys {
		items = append(items, Item{Name: key, Value: wrapValue(db.items[key])})
	}

	return items
}

// Len returns the number of currently loaded children.
func (db *DB) Len() int {
	return len(db.items)
}

// Scan eagerly loads every document file under the node's subtree.
// Parse failures are logged and skipped; repository consistency errors
// (ambiguous extensions) abort the scan.
func (db *DB) Scan() error {
	return db.ScanDir(".", true)
}

// ScanDir restricts the scan to a subdirectory and optionally disables
// recursion.
func (db *DB) ScanDir(subdir string, recursive bool) error {
	rel, err := relativeTo(db.path, subdir)
	if err != nil {
		return fmt.Errorf("%w: %s", err, subdir)
	}

	root := filepath.Join(db.path, filepath.FromSlash(rel))

	return filepath.WalkDir(root, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if walkPath == root {
				return nil
			}
			if hiddenName(d.Name()) && !db.opts.Hidden {
				return fs.SkipDir
			}
			if !recursive {
				return fs.SkipDir
			}
			return nil
		}

		if !hasSupportedExt(d.Name()) || (hiddenName(d.Name()) && !db.opts.Hidden) {
			return nil
		}
		// validity specifications describe documents, they are not items
		if slices.Contains(validityFiles, d.Name()) {
			return nil
		}

		itemRel, err := filepath.Rel(db.path, walkPath)
		if err != nil {
			return err
		}

		if _, err := db.Lookup(filepath.ToSlash(itemRel)); err != nil {
			if errors.Is(err, data.ErrParse) {
				db.log.Warn("could not scan file %s", walkPath)
				db.log.Warn("reason: %v", err)
				return nil
			}
			return err
		}

		return nil
	})
}

// findFile searches the node's subtree for the first file matching name,
// returning its path relative to the node. Names without an extension
// match any supported document extension.
func (db *DB) findFile(name string) (string, error) {
	bare := !hasSupportedExt(name)

	var found string
	err := filepath.WalkDir(db.path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if walkPath != db.path && hiddenName(d.Name()) && !db.opts.Hidden {
				return fs.SkipDir
			}
			return nil
		}

		base := d.Name()
		if base == name || (bare && hasSupportedExt(base) && stripExt(base) == name) {
			found = walkPath
			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	if found == "" {
		return "", fmt.Errorf("%w: no file named %q under %s", data.ErrNotFound, name, db.path)
	}

	rel, err := filepath.Rel(db.path, found)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}
