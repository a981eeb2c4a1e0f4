package data

import (
	"fmt"
	"strings"
)

// Remap is a secondary index over a container's children: the value found
// under a label inside each child, mapped back to that child.
type Remap map[any]any

// Groups is the non-unique variant of Remap: label value to an
// ordinal-keyed set of children, ordinals starting at 0.
type Groups map[any]map[int]any

// Map remaps the document's first-level values by the value found under
// label inside each of them. Children without the label are skipped.
// A label value produced by more than one child fails with ErrConflict.
//
// The result is cached per label until the document is mutated.
func (d *Document) Map(label string) (Remap, error) {
	if cached, ok := d.remaps["map:"+label]; ok {
		return cached.(Remap), nil
	}

	remap, err := BuildRemap(d.Values(), label)
	if err != nil {
		return nil, err
	}

	d.cacheRemap("map:"+label, remap)
	return remap, nil
}

// Group is the non-unique variant of Map: children sharing a label value
// are collected under per-group ordinals.
func (d *Document) Group(label string) (Groups, error) {
	if cached, ok := d.remaps["group:"+label]; ok {
		return cached.(Groups), nil
	}

	groups, err := BuildGroups(d.Values(), label)
	if err != nil {
		return nil, err
	}

	d.cacheRemap("group:"+label, groups)
	return groups, nil
}

func (d *Document) cacheRemap(key string, value any) {
	if d.remaps == nil {
		d.remaps = make(map[string]any)
	}
	d.remaps[key] = value
}

// BuildRemap builds a unique secondary index over values. Fails with
// ErrConflict if two values produce the same label value and with
// ErrNotFound if none produces any.
func BuildRemap(values []any, label string) (Remap, error) {
	groups, err := BuildGroups(values, label)
	if err != nil {
		return nil, err
	}

	remap := make(Remap, len(groups))
	for id, group := range groups {
		if len(group) > 1 {
			return nil, fmt.Errorf("%w: %q values are not unique", ErrConflict, label)
		}
		remap[id] = group[0]
	}

	return remap, nil
}

// BuildGroups builds a non-unique secondary index over values. Values
// missing the label are skipped; a label resolving to a non-scalar fails
// with ErrFormat. An empty result fails with ErrNotFound.
func BuildGroups(values []any, label string) (Groups, error) {
	path := strings.Split(label, ".")
	groups := make(Groups)

	for _, value := range values {
		id, ok := resolveLabel(value, path)
		if !ok {
			continue
		}

		if !scalar(id) {
			return nil, fmt.Errorf("%w: %q values are not all numbers or strings", ErrFormat, label)
		}

		group, ok := groups[id]
		if !ok {
			group = make(map[int]any)
			groups[id] = group
		}
		group[len(group)] = value
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: could not find %q anywhere", ErrNotFound, label)
	}

	return groups, nil
}

func resolveLabel(value any, path []string) (any, bool) {
	current := value
	for _, key := range path {
		container, ok := current.(Container)
		if !ok {
			return nil, false
		}

		current, ok = container.Get(key)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func scalar(value any) bool {
	switch value.(type) {
	case string, int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
