package reclaim

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func mkCacheDir(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "blob.bin"), []byte("cache"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestReclaimRemovesExistingDirs(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		mkCacheDir(t, root, "Cache"),
		mkCacheDir(t, root, "GPUCache"),
		filepath.Join(root, "CachedData"), // never created
	}

	cleared, outcomes := Reclaim(context.Background(), paths)
	if cleared != 2 {
		t.Fatalf("expected 2 cleared, got %d (%+v)", cleared, outcomes)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("path %s still exists", p)
		}
	}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("unexpected outcome error: %+v", o)
		}
	}
}

func TestReclaimIdempotent(t *testing.T) {
	root := t.TempDir()
	paths := []string{mkCacheDir(t, root, "Code Cache")}

	if cleared, _ := Reclaim(context.Background(), paths); cleared != 1 {
		t.Fatal("first run must clear the directory")
	}
	cleared, outcomes := Reclaim(context.Background(), paths)
	if cleared != 0 {
		t.Fatalf("second run must be a no-op, cleared %d", cleared)
	}
	if outcomes[0].Err != nil {
		t.Fatalf("second run must not error: %v", outcomes[0].Err)
	}
}

func TestReclaimNonexistentPath(t *testing.T) {
	cleared, outcomes := Reclaim(context.Background(), []string{"/nonexistent/path"})
	if cleared != 0 {
		t.Fatalf("expected cleared=0, got %d", cleared)
	}
	if len(outcomes) != 1 || outcomes[0].Err != nil || outcomes[0].Cleared {
		t.Fatalf("missing path must be a silent no-op: %+v", outcomes)
	}
}

func TestReclaimEmptyPathList(t *testing.T) {
	cleared, outcomes := Reclaim(context.Background(), nil)
	if cleared != 0 || len(outcomes) != 0 {
		t.Fatalf("unexpected result for empty list: %d %+v", cleared, outcomes)
	}
}
