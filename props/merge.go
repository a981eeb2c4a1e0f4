package props

import (
	"reflect"

	"github.com/mwantia/textdb/data"
)

// Merge deep-merges source into target: keys only in source are deep-copied
// over, nested documents are merged recursively, and differing leaf values
// are overwritten by a deep copy of the source value. The result is a union
// at the container level with last-source-wins at the leaves.
func Merge(target, source *data.Document) {
	for _, key := range source.Keys() {
		sourceValue, _ := source.Get(key)

		targetValue, ok := target.Get(key)
		if !ok {
			target.Set(key, data.CloneValue(sourceValue))
			continue
		}

		targetDoc, targetIsDoc := targetValue.(*data.Document)
		sourceDoc, sourceIsDoc := sourceValue.(*data.Document)
		if targetIsDoc && sourceIsDoc {
			Merge(targetDoc, sourceDoc)
			continue
		}

		if !equalValue(targetValue, sourceValue) {
			target.Set(key, data.CloneValue(sourceValue))
		}
	}
}

// TrimNull removes every null-valued key, nested containers first.
// Operates in place.
func TrimNull(doc *data.Document) {
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		switch v := value.(type) {
		case *data.Document:
			TrimNull(v)
		case nil:
			doc.Delete(key)
		}
	}
}

func equalValue(a, b any) bool {
	docA, okA := a.(*data.Document)
	docB, okB := b.(*data.Document)
	if okA && okB {
		return reflect.DeepEqual(docA.Unwrap(), docB.Unwrap())
	}

	return reflect.DeepEqual(a, b)
}
