package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const watchDebounce = 150 * time.Millisecond

// watchAndGenerate runs the pipeline once, then again after every change to
// the input, overlay, config file or the generator's watch paths. Failed
// runs are logged and watching continues. It returns nil on interrupt.
func watchAndGenerate(ctx context.Context, cfg *GenerateConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	first, err := newPipeline(cfg, log, cfg.Force)
	if err != nil {
		return err
	}
	if err := first.run(ctx); err != nil {
		log.Error("generation failed", zap.Error(err))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	set := newWatchSet(w)
	if err := set.reset(cfg, first.gen.WatchPaths()); err != nil {
		return err
	}
	log.Info("watching for changes", zap.Int("files", set.len()))

	triggers := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pumpEvents(gctx, w.Events, w.Errors, set, watchDebounce, triggers, log)
	})
	g.Go(func() error {
		return rebuildLoop(gctx, cfg, set, triggers, log)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// dirWatcher is the part of *fsnotify.Watcher a watchSet needs.
type dirWatcher interface {
	Add(name string) error
}

// watchSet holds the files whose changes trigger a rebuild. A config reload
// can name other files, so the set changes while events are pumped.
type watchSet struct {
	mu      sync.Mutex
	w       dirWatcher
	targets map[string]struct{}
	dirs    map[string]struct{}
}

func newWatchSet(w dirWatcher) *watchSet {
	return &watchSet{w: w, targets: map[string]struct{}{}, dirs: map[string]struct{}{}}
}

// reset makes the targets of cfg the watched files and starts watching any
// directory not seen before. Directories are never unwatched; events from
// them are dropped once no target lives there.
func (s *watchSet) reset(cfg *GenerateConfig, extra []string) error {
	targets, err := watchTargets(cfg, extra)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for dir := range watchDirs(targets) {
		if _, ok := s.dirs[dir]; ok {
			continue
		}
		if err := s.w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		s.dirs[dir] = struct{}{}
	}
	s.targets = targets
	return nil
}

func (s *watchSet) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.targets[filepath.Clean(path)]
	return ok
}

func (s *watchSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}

// watchTargets returns the absolute paths whose changes trigger a rebuild.
// Watch paths from the generator are relative to the working directory.
func watchTargets(cfg *GenerateConfig, extra []string) (map[string]struct{}, error) {
	paths := append([]string{cfg.Input, cfg.Overlay, cfg.ConfigPath}, extra...)
	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" || isURL(p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		targets[abs] = struct{}{}
	}
	return targets, nil
}

// watchDirs returns the directories holding targets. Editors often replace
// a file instead of writing it, which only the parent directory sees.
func watchDirs(targets map[string]struct{}) map[string]struct{} {
	dirs := make(map[string]struct{}, len(targets))
	for t := range targets {
		dirs[filepath.Dir(t)] = struct{}{}
	}
	return dirs
}

// pumpEvents turns file events on targets into rebuild triggers. Bursts of
// events within debounce of each other yield one trigger, and a trigger
// that is already pending absorbs new ones.
func pumpEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error,
	set *watchSet, debounce time.Duration, triggers chan<- struct{}, log *zap.Logger) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !set.has(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			fire = time.After(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			select {
			case triggers <- struct{}{}:
			default:
			}
		}
	}
}

// rebuildLoop runs one rebuild per trigger, strictly one at a time. Each
// rebuild re-reads the configuration and overwrites the previous output. A
// config that fails to reload leaves the last good one in place, and a good
// one moves the watch to the files it names.
func rebuildLoop(ctx context.Context, cfg *GenerateConfig, set *watchSet, triggers <-chan struct{}, log *zap.Logger) error {
	current := cfg
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-triggers:
		}
		if cfg.reload != nil {
			reloaded, err := cfg.reload()
			if err != nil {
				log.Error("config reload failed, keeping previous config", zap.Error(err))
			} else {
				current = reloaded
			}
		}
		p, err := newPipeline(current, log, true)
		if err != nil {
			log.Error("rebuild failed", zap.Error(err))
			continue
		}
		if err := set.reset(current, p.gen.WatchPaths()); err != nil {
			log.Warn("watch update failed", zap.Error(err))
		}
		if err := p.run(ctx); err != nil {
			log.Error("rebuild failed", zap.Error(err))
		}
	}
}
