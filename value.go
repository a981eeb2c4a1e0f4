package textdb

import "github.com/mwantia/textdb/data"

// ValueKind discriminates the closed set of things an item access can
// resolve to.
type ValueKind int

const (
	// KindDocument is a loaded structured file.
	KindDocument ValueKind = iota
	// KindNamespace is a subdirectory projected as a nested database.
	KindNamespace
	// KindList is a file whose top-level value is a list.
	KindList
)

// Value is the result of an item access: exactly one of a document, a
// nested namespace, or a raw list.
type Value struct {
	kind ValueKind
	doc  *data.Document
	sub  *DB
	list []any
}

func wrapValue(value any) Value {
	switch v := value.(type) {
	case *data.Document:
		return Value{kind: KindDocument, doc: v}
	case *DB:
		return Value{kind: KindNamespace, sub: v}
	case []any:
		return Value{kind: KindList, list: v}
	default:
		// loaders only ever produce the three kinds above
		panic("textdb: unexpected store value")
	}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// Document returns the underlying document, if this value holds one.
func (v Value) Document() (*data.Document, bool) {
	return v.doc, v.kind == KindDocument
}

// Namespace returns the underlying sub-database, if this value holds one.
func (v Value) Namespace() (*DB, bool) {
	return v.sub, v.kind == KindNamespace
}

// List returns the underlying list, if this value holds one.
func (v Value) List() ([]any, bool) {
	return v.list, v.kind == KindList
}

// Any returns the underlying value without discrimination.
func (v Value) Any() any {
	switch v.kind {
	case KindNamespace:
		return v.sub
	case KindList:
		return v.list
	default:
		return v.doc
	}
}
