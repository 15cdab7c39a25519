package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// cleanStale removes files under root that match one of patterns and were
// last modified before cutoff, then prunes directories left empty. root
// itself is never removed.
func cleanStale(root string, patterns []string, cutoff time.Time, log *zap.Logger) (int, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}
	fsys := os.DirFS(root)
	removed := 0
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return removed, fmt.Errorf("clean: pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			p := filepath.Join(root, filepath.FromSlash(rel))
			st, err := os.Lstat(p)
			if err != nil || !st.Mode().IsRegular() || !st.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(p); err != nil {
				return removed, fmt.Errorf("clean: %w", err)
			}
			log.Debug("removed stale file", zap.String("path", rel))
			removed++
		}
	}
	if err := pruneEmptyDirs(root); err != nil {
		return removed, err
	}
	return removed, nil
}

func pruneEmptyDirs(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != root {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	// deepest first, so parents see their children gone
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}
	return nil
}
