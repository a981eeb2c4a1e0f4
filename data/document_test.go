package data

import (
	"reflect"
	"testing"
)

func TestConvert_NestedMaps(t *testing.T) {
	doc := Convert(map[string]any{
		"name": "V05267B",
		"geometry": map[string]any{
			"mass_in_g": 2362.0,
		},
		"strings": []any{
			map[string]any{"id": int64(1)},
			"plain",
		},
	})

	nested, ok := doc.Get("geometry")
	if !ok {
		t.Fatal("Expected 'geometry' key")
	}
	if _, ok := nested.(*Document); !ok {
		t.Fatalf("Expected nested *Document, got %T", nested)
	}

	list, ok := doc.Get("strings")
	if !ok {
		t.Fatal("Expected 'strings' key")
	}
	elements, ok := list.([]any)
	if !ok {
		t.Fatalf("Expected []any, got %T", list)
	}
	if _, ok := elements[0].(*Document); !ok {
		t.Fatalf("Expected list element converted to *Document, got %T", elements[0])
	}
	if elements[1] != "plain" {
		t.Errorf("Expected scalar list element untouched, got %v", elements[1])
	}
}

func TestDocument_At(t *testing.T) {
	doc := Convert(map[string]any{
		"daq": map[string]any{
			"rawid": int64(1104000),
		},
	})

	value, ok := doc.At("daq.rawid")
	if !ok {
		t.Fatal("At failed to resolve daq.rawid")
	}
	if value != int64(1104000) {
		t.Errorf("Expected 1104000, got %v", value)
	}

	if _, ok := doc.At("daq.rawid.deeper"); ok {
		t.Error("Expected descend through scalar to fail")
	}
	if _, ok := doc.At("missing.key"); ok {
		t.Error("Expected missing path to fail")
	}
}

func TestDocument_Clone_Independent(t *testing.T) {
	doc := Convert(map[string]any{
		"x": map[string]any{"a": int64(1)},
		"l": []any{int64(1), int64(2)},
	})

	clone := doc.Clone()

	nested, _ := clone.Get("x")
	nested.(*Document).Set("a", int64(99))

	original, _ := doc.At("x.a")
	if original != int64(1) {
		t.Errorf("Clone mutation leaked into original: %v", original)
	}

	list, _ := clone.Get("l")
	list.([]any)[0] = int64(99)

	origList, _ := doc.Get("l")
	if origList.([]any)[0] != int64(1) {
		t.Error("List clone mutation leaked into original")
	}
}

func TestDocument_Unwrap(t *testing.T) {
	raw := map[string]any{
		"data": int64(2),
		"x": map[string]any{
			"a": int64(1),
		},
	}

	if got := Convert(raw).Unwrap(); !reflect.DeepEqual(got, raw) {
		t.Errorf("Expected %v, got %v", raw, got)
	}
}

func TestDocument_KeysSorted(t *testing.T) {
	doc := Convert(map[string]any{"b": 1, "a": 2, "c": 3})

	want := []string{"a", "b", "c"}
	if got := doc.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
