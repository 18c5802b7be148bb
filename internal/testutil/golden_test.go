package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAssertGoldenFileMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.golden")
	if err := os.WriteFile(path, []byte("✅ done\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	assertGoldenFile(t, path, "✅ done\n")
}

func TestAssertGoldenFileUpdates(t *testing.T) {
	t.Setenv("UPDATE_GOLDEN", "1")
	path := filepath.Join(t.TempDir(), "nested", "fresh.golden")
	assertGoldenFile(t, path, "regenerated\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "regenerated\n" {
		t.Fatalf("unexpected golden content %q", data)
	}
}
