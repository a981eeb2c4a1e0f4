package props

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/textdb/data"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	return path
}

func TestStore_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file1.json", `{"data": 1, "nested": {"a": 2}}`)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	value, err := store.Load(filepath.Join(dir, "file1.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc, ok := value.(*data.Document)
	if !ok {
		t.Fatalf("Expected *data.Document, got %T", value)
	}
	if got, _ := doc.At("nested.a"); got != int64(2) {
		t.Errorf("Expected nested.a=2, got %v", got)
	}
}

func TestStore_LoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "data: 1\nnested:\n  a: 2\n")

	store, _ := NewStore()

	value, err := store.Load(filepath.Join(dir, "config"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := value.(*data.Document)
	if got, _ := doc.At("nested.a"); got != 2 {
		t.Errorf("Expected nested.a=2, got %v (%T)", got, got)
	}
}

func TestStore_LoadList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "list.json", `[{"id": 1}, "scalar"]`)

	store, _ := NewStore()

	value, err := store.Load(filepath.Join(dir, "list"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	list, ok := value.([]any)
	if !ok {
		t.Fatalf("Expected []any, got %T", value)
	}
	if _, ok := list[0].(*data.Document); !ok {
		t.Errorf("Expected dict list element converted, got %T", list[0])
	}
}

func TestStore_PathVarBinding(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file1.json", `{"sibling": "$_/other.json"}`)

	store, _ := NewStore()

	value, err := store.Load(filepath.Join(dir, "file1"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, _ := value.(*data.Document).Get("sibling")
	if got != filepath.Join(dir, "other.json") {
		t.Errorf("Expected %q, got %v", filepath.Join(dir, "other.json"), got)
	}
}

func TestStore_AmbiguousExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file2.json", `{"a": 1}`)
	writeFile(t, dir, "file2.yaml", "a: 1\n")

	store, _ := NewStore()

	if _, err := store.Load(filepath.Join(dir, "file2")); !errors.Is(err, data.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	store, _ := NewStore()

	if _, err := store.Load(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"data": `)

	store, _ := NewStore()

	if _, err := store.Load(filepath.Join(dir, "broken")); !errors.Is(err, data.ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestStore_CachesLoadedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "file1.json", `{"data": 1}`)

	store, _ := NewStore()

	first, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// rewrite the file on disk; the cached document must still be served
	writeFile(t, dir, "file1.json", `{"data": 2}`)

	second, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if first.(*data.Document) != second.(*data.Document) {
		t.Error("Expected cached document instance")
	}
}
