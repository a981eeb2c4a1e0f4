// Package catalog resolves which metadata files apply at a given
// acquisition timestamp. A catalog is built from a stream of validity
// records and holds one time-ordered timeline per category; lookups are
// right-biased (the last entry at or before the query time wins) with a
// fallback to the universal "all" category.
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/tidwall/btree"

	"github.com/mwantia/textdb/data"
)

// FileSet is the materialized result of a timeline entry: the ordered
// file names applying from that entry's time onward. Scalar is set when
// the entry came from a single plain-string apply value; such results
// bypass pattern filtering in queries.
type FileSet struct {
	Files  []string
	Scalar bool
}

func (f FileSet) Empty() bool {
	return len(f.Files) == 0
}

type entry struct {
	timestamp string
	files     FileSet
}

// Catalog maps categories to their sorted validity timelines. Immutable
// after Build.
type Catalog struct {
	timelines map[string]*btree.Map[int64, *entry]
}

// Read builds a catalog from a validity specification file.
func Read(path string) (*Catalog, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}

	catalog, err := Build(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return catalog, nil
}

// Build materializes the per-category timelines from records in file
// order. The first record of a category is always treated as a reset;
// later records apply their mode against the previous record's file set.
// Duplicate valid_from values within one category are fatal.
func Build(records []Record) (*Catalog, error) {
	catalog := &Catalog{
		timelines: make(map[string]*btree.Map[int64, *entry]),
	}

	running := make(map[string][]string)

	for _, record := range records {
		previous, seen := running[record.Category]

		mode := record.Mode
		if !seen {
			mode = ModeReset
		}

		files, err := applyMode(mode, previous, record)
		if err != nil {
			return nil, err
		}
		running[record.Category] = files

		timeline, ok := catalog.timelines[record.Category]
		if !ok {
			timeline = btree.NewMap[int64, *entry](0)
			catalog.timelines[record.Category] = timeline
		}

		if _, exists := timeline.Get(record.ValidFrom); exists {
			return nil, fmt.Errorf("%w: duplicate valid_from %s in category %q",
				data.ErrConflict, record.Timestamp, record.Category)
		}

		timeline.Set(record.ValidFrom, &entry{
			timestamp: record.Timestamp,
			files: FileSet{
				Files:  files,
				Scalar: record.Scalar && mode == ModeReset,
			},
		})
	}

	return catalog, nil
}

func applyMode(mode Mode, previous []string, record Record) ([]string, error) {
	switch mode {
	case ModeReset:
		return slices.Clone(record.Apply), nil

	case ModeAppend:
		files := slices.Clone(previous)
		for _, name := range record.Apply {
			if !slices.Contains(files, name) {
				files = append(files, name)
			}
		}
		return files, nil

	case ModeRemove:
		files := slices.Clone(previous)
		for _, name := range record.Apply {
			i := slices.Index(files, name)
			if i < 0 {
				return nil, fmt.Errorf("%w: validity record at %s removes %q, which is not in the set",
					data.ErrConflict, record.Timestamp, name)
			}
			files = slices.Delete(files, i, i+1)
		}
		return files, nil

	case ModeReplace:
		if len(record.Apply) != 2 {
			return nil, fmt.Errorf("%w: validity record at %s: replace needs exactly [old, new], got %d entries",
				data.ErrFormat, record.Timestamp, len(record.Apply))
		}

		old, replacement := record.Apply[0], record.Apply[1]
		files := slices.Clone(previous)
		i := slices.Index(files, old)
		if i < 0 {
			return nil, fmt.Errorf("%w: validity record at %s replaces %q, which is not in the set",
				data.ErrConflict, record.Timestamp, old)
		}
		files = slices.Delete(files, i, i+1)
		return append(files, replacement), nil

	default:
		return nil, fmt.Errorf("%w: unknown validity mode %d", data.ErrFormat, mode)
	}
}

// Resolve returns the file set applying at the given timestamp for a
// category. A category without a matching entry falls back to "all"
// before giving up; with allowMissing an empty FileSet is returned
// instead of ErrNotFound.
func (c *Catalog) Resolve(timestamp, category string, allowMissing bool) (FileSet, error) {
	at, err := data.ParseTimestamp(timestamp)
	if err != nil {
		return FileSet{}, err
	}

	if category == "" {
		category = DefaultCategory
	}

	if files, ok := c.lookup(at, category); ok {
		return files, nil
	}

	if category != DefaultCategory {
		if files, ok := c.lookup(at, DefaultCategory); ok {
			return files, nil
		}
	}

	if allowMissing {
		return FileSet{}, nil
	}

	return FileSet{}, fmt.Errorf("%w: no valid entries for timestamp %s, category %q",
		data.ErrNotFound, timestamp, category)
}

// ResolveAt is Resolve for a time.Time query.
func (c *Catalog) ResolveAt(at time.Time, category string, allowMissing bool) (FileSet, error) {
	return c.Resolve(data.FormatTimestamp(at), category, allowMissing)
}

func (c *Catalog) lookup(at int64, category string) (FileSet, bool) {
	timeline, ok := c.timelines[category]
	if !ok {
		return FileSet{}, false
	}

	var found *entry
	timeline.Descend(at, func(_ int64, e *entry) bool {
		found = e
		return false
	})

	if found == nil {
		return FileSet{}, false
	}

	return found.files, true
}

// Categories returns all category names in sorted order.
func (c *Catalog) Categories() []string {
	categories := make([]string, 0, len(c.timelines))
	for category := range c.timelines {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories
}
