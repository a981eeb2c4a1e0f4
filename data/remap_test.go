package data

import (
	"errors"
	"reflect"
	"testing"
)

func remapFixture() *Document {
	return Convert(map[string]any{
		"a": map[string]any{
			"id": int64(1),
			"group": map[string]any{
				"id": int64(3),
			},
			"data": "x",
		},
		"b": map[string]any{
			"id": int64(2),
			"group": map[string]any{
				"id": int64(4),
			},
			"data": "y",
		},
	})
}

func TestMap_ByLabel(t *testing.T) {
	doc := remapFixture()

	remap, err := doc.Map("id")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	child, ok := remap[int64(1)].(*Document)
	if !ok {
		t.Fatalf("Expected *Document under id=1, got %T", remap[int64(1)])
	}
	if value, _ := child.Get("data"); value != "x" {
		t.Errorf("Expected data=x, got %v", value)
	}
}

func TestMap_NestedLabel(t *testing.T) {
	doc := remapFixture()

	remap, err := doc.Map("group.id")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	child := remap[int64(4)].(*Document)
	if value, _ := child.Get("data"); value != "y" {
		t.Errorf("Expected data=y, got %v", value)
	}
}

func TestMap_DuplicateLabel(t *testing.T) {
	doc := Convert(map[string]any{
		"a": map[string]any{"id": int64(1)},
		"b": map[string]any{"id": int64(1)},
	})

	if _, err := doc.Map("id"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}

	groups, err := doc.Group("id")
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}

	group := groups[int64(1)]
	if len(group) != 2 {
		t.Fatalf("Expected 2 grouped children, got %d", len(group))
	}
	// ordinals start at 0 and stay dense
	if _, ok := group[0]; !ok {
		t.Error("Expected ordinal 0")
	}
	if _, ok := group[1]; !ok {
		t.Error("Expected ordinal 1")
	}
}

func TestMap_SkipsChildrenWithoutLabel(t *testing.T) {
	doc := Convert(map[string]any{
		"a": map[string]any{"id": int64(1)},
		"b": map[string]any{"other": int64(2)},
		"c": "scalar child",
	})

	remap, err := doc.Map("id")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(remap) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(remap))
	}
}

func TestMap_LabelNowhere(t *testing.T) {
	doc := Convert(map[string]any{
		"a": map[string]any{"id": int64(1)},
	})

	if _, err := doc.Map("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMap_NonScalarLabel(t *testing.T) {
	doc := Convert(map[string]any{
		"a": map[string]any{"id": map[string]any{"x": 1}},
	})

	if _, err := doc.Map("id"); !errors.Is(err, ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
}

func TestMap_CacheInvalidatedOnWrite(t *testing.T) {
	doc := remapFixture()

	first, err := doc.Map("id")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	// cached result is returned while untouched
	again, _ := doc.Map("id")
	if reflect.ValueOf(again).Pointer() != reflect.ValueOf(first).Pointer() {
		t.Fatal("Expected cached remap to be reused")
	}

	doc.Set("c", map[string]any{"id": int64(5), "data": "z"})

	remap, err := doc.Map("id")
	if err != nil {
		t.Fatalf("Map after mutation failed: %v", err)
	}
	if _, ok := remap[int64(5)]; !ok {
		t.Error("Expected remap rebuilt after mutation")
	}
}
