package meta

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/textdb"
	"github.com/mwantia/textdb/data"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	return root
}

func testRepo(t *testing.T) string {
	return writeRepo(t, map[string]string{
		"hardware/configuration/channelmaps/validity.jsonl": `{"valid_from": "20220628T220000Z", "apply": ["chmap.json"]}` + "\n",
		"hardware/configuration/channelmaps/chmap.json": `{
			"V05267B": {"name": "V05267B", "system": "geds"},
			"S002":    {"name": "S002", "system": "spms"},
			"MUON01":  {"name": "MUON01", "system": "pmts"}
		}`,
		"hardware/detectors/germanium/diodes/v05267b.json": `{
			"name": "V05267B", "type": "icpc",
			"production": {"mass_in_g": 2362.0}
		}`,
		"hardware/detectors/lar/sipms/s002.json": `{"name": "S002", "type": "sipm"}`,
	})
}

func TestLocalDir_Missing(t *testing.T) {
	t.Setenv(EnvRepository, "")

	if _, err := LocalDir("").Checkout(context.Background()); !errors.Is(err, data.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
}

func TestLocalDir_EnvFallback(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvRepository, root)

	path, err := LocalDir("").Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if path != root {
		t.Errorf("Expected %q, got %q", root, path)
	}
}

func TestChannelMap(t *testing.T) {
	meta, err := New(context.Background(), LocalDir(testRepo(t)), textdb.WithoutTerminalLog())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chmap, err := meta.ChannelMap("20220629T000000Z", "")
	if err != nil {
		t.Fatalf("ChannelMap failed: %v", err)
	}

	entry, _ := chmap.Get("V05267B")
	detector, ok := entry.(*data.Document)
	if !ok {
		t.Fatalf("Expected document entry, got %T", entry)
	}

	// detector database merged into the channel map entry
	if got, _ := detector.At("production.mass_in_g"); got != 2362.0 {
		t.Errorf("Expected mass merged from detector db, got %v", got)
	}
	if got, _ := detector.Get("system"); got != "geds" {
		t.Errorf("Expected channel map fields kept, got %v", got)
	}
}

func TestChannelMap_UnmatchedDetectorKept(t *testing.T) {
	meta, err := New(context.Background(), LocalDir(testRepo(t)), textdb.WithoutTerminalLog())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chmap, err := meta.ChannelMap("20220629T000000Z", "")
	if err != nil {
		t.Fatalf("ChannelMap failed: %v", err)
	}

	entry, _ := chmap.Get("MUON01")
	muon, ok := entry.(*data.Document)
	if !ok {
		t.Fatalf("Expected document entry, got %T", entry)
	}
	if _, ok := muon.Get("type"); ok {
		t.Error("Expected no detector db fields for unmatched channel")
	}
	if got, _ := muon.Get("system"); got != "pmts" {
		t.Errorf("Expected original entry kept, got %v", got)
	}
}

func TestChannelMap_DefaultTimestamp(t *testing.T) {
	meta, err := New(context.Background(), LocalDir(testRepo(t)), textdb.WithoutTerminalLog())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := meta.ChannelMap("", ""); err != nil {
		t.Fatalf("ChannelMap with default timestamp failed: %v", err)
	}
}
