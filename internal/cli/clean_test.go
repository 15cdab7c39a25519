package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCleanStale(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	old := time.Now().Add(-time.Hour)

	write := func(rel string, stale bool) string {
		t.Helper()
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if stale {
			if err := os.Chtimes(p, old, old); err != nil {
				t.Fatalf("chtimes: %v", err)
			}
		}
		return p
	}
	staleTop := write("stale.json", true)
	staleNested := write("groups/deep/stale.json", true)
	fresh := write("groups/fresh.json", false)
	other := write("notes.txt", true)

	removed, err := cleanStale(root, []string{"**/*.json"}, time.Now().Add(-time.Minute), zap.NewNop())
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	for _, p := range []string{staleTop, staleNested, filepath.Join(root, "groups", "deep")} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be gone, stat err: %v", p, err)
		}
	}
	for _, p := range []string{fresh, other, root} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to survive: %v", p, err)
		}
	}
}

func TestCleanStale_MissingRootAndBadPattern(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "nope")
	if n, err := cleanStale(missing, []string{"**/*.json"}, time.Now(), zap.NewNop()); err != nil || n != 0 {
		t.Fatalf("missing root: got %d, %v", n, err)
	}
	if _, err := cleanStale(t.TempDir(), []string{"[unclosed"}, time.Now(), zap.NewNop()); err == nil {
		t.Fatalf("expected bad pattern error")
	}
}
