package data

import (
	"sort"
	"strings"
)

// Container is anything that can resolve a single key to a value.
// Implemented by Document and by the database namespace nodes, so that
// remapping can descend through both without caring which one it holds.
type Container interface {
	Get(key string) (any, bool)
}

// Document is a nested key-value container loaded from a JSON or YAML file.
// Nested objects are converted to Documents recursively; lists stay plain
// []any slices with any object elements converted in place.
//
// Documents are mutable during construction (placeholder substitution
// happens on load) and treated as read-only by consumers afterwards.
type Document struct {
	fields map[string]any
	remaps map[string]any
}

func NewDocument() *Document {
	return &Document{
		fields: make(map[string]any),
	}
}

// Convert builds a Document from a raw decoded map, converting nested
// maps recursively and list elements in place.
func Convert(value map[string]any) *Document {
	doc := NewDocument()
	for key, v := range value {
		doc.fields[key] = convertValue(v)
	}

	return doc
}

// ConvertValue converts a raw decoded value: maps become Documents, list
// elements are converted in place, scalars pass through.
func ConvertValue(value any) any {
	return convertValue(value)
}

func convertValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return Convert(v)
	case *Document:
		return v
	case []any:
		for i, el := range v {
			v[i] = convertValue(el)
		}
		return v
	default:
		return value
	}
}

func (d *Document) Get(key string) (any, bool) {
	value, ok := d.fields[key]
	return value, ok
}

// Set stores a value under key, converting nested maps. This is the only
// mutation entry point; the cached remaps are invalidated here.
func (d *Document) Set(key string, value any) {
	d.fields[key] = convertValue(value)
	d.remaps = nil
}

// Delete removes a key. Counts as a mutation for the remap cache.
func (d *Document) Delete(key string) {
	delete(d.fields, key)
	d.remaps = nil
}

// Keys returns all keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for key := range d.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// Values returns all values, ordered by their sorted keys.
func (d *Document) Values() []any {
	keys := d.Keys()

	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, d.fields[key])
	}

	return values
}

func (d *Document) Len() int {
	return len(d.fields)
}

// At resolves a dotted path like "daq.rawid", descending through nested
// containers. Returns false as soon as a segment is missing or the current
// value is not a container.
func (d *Document) At(path string) (any, bool) {
	var current any = d
	for _, key := range strings.Split(path, ".") {
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

// Clone returns a deep copy. The remap cache is not carried over.
func (d *Document) Clone() *Document {
	clone := NewDocument()
	for key, value := range d.fields {
		clone.fields[key] = CloneValue(value)
	}

	return clone
}

// CloneValue deep-copies documents and lists; scalars are returned as-is.
func CloneValue(value any) any {
	switch v := value.(type) {
	case *Document:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = CloneValue(el)
		}
		return out
	default:
		return value
	}
}

// Unwrap converts the document back into plain nested maps and slices,
// suitable for encoding.
func (d *Document) Unwrap() map[string]any {
	out := make(map[string]any, len(d.fields))
	for key, value := range d.fields {
		out[key] = unwrapValue(value)
	}

	return out
}

// UnwrapValue is Unwrap for arbitrary document-bearing values.
func UnwrapValue(value any) any {
	return unwrapValue(value)
}

func unwrapValue(value any) any {
	switch v := value.(type) {
	case *Document:
		return v.Unwrap()
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = unwrapValue(el)
		}
		return out
	default:
		return value
	}
}
