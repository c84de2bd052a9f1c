package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"BassTab/cache"
	"BassTab/logger"
	"BassTab/model"
	"BassTab/repository"

	"github.com/fsnotify/fsnotify"
)

// PairFile is the on-disk format for drop-directory catalog entries: the
// payload plus the slug it is published under.
type PairFile struct {
	Slug string `json:"slug"`
	model.PagePayload
}

// Watcher ingests JSON pair files dropped into a directory, validating and
// upserting them into the store and invalidating the payload cache.
type Watcher struct {
	dir     string
	repo    repository.PairRepository
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	slugs map[string]string // ingested file path -> published slug
}

// NewWatcher creates the drop directory if needed and starts watching it.
// The watcher runs until ctx is cancelled or Stop is called.
func NewWatcher(ctx context.Context, dir string, repo repository.PairRepository) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch catalog directory %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		repo:    repo,
		watcher: fsw,
		done:    make(chan struct{}),
		slugs:   make(map[string]string),
	}

	// 先处理目录中已有的文件，再进入事件循环
	w.loadExisting(ctx)
	go w.loop(ctx)

	logger.Info("catalog watcher started", logger.String("dir", dir))
	return w, nil
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) loadExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("failed to scan catalog directory", logger.ErrorField(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.unpublish(ctx, event.Name)
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.ingest(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher error", logger.ErrorField(err))
		}
	}
}

// ingest parses, validates and upserts a single pair file. A bad file is
// logged and skipped; it never takes the watcher down.
func (w *Watcher) ingest(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read pair file",
			logger.String("path", path), logger.ErrorField(err))
		return
	}

	var pf PairFile
	if err := json.Unmarshal(data, &pf); err != nil {
		logger.Warn("failed to parse pair file",
			logger.String("path", path), logger.ErrorField(err))
		return
	}

	slug, err := model.SanitizeSlug(pf.Slug)
	if err != nil {
		logger.Warn("rejecting pair file",
			logger.String("path", path), logger.ErrorField(err))
		return
	}
	if err := pf.PagePayload.Validate(); err != nil {
		logger.Warn("rejecting pair file",
			logger.String("path", path),
			logger.String("slug", slug),
			logger.ErrorField(err))
		return
	}

	if err := w.repo.Upsert(ctx, model.PairFromPayload(slug, &pf.PagePayload)); err != nil {
		logger.Error("failed to upsert pair",
			logger.String("slug", slug), logger.ErrorField(err))
		return
	}
	if err := cache.InvalidatePair(ctx, slug); err != nil {
		logger.Warn("failed to invalidate pair cache",
			logger.String("slug", slug), logger.ErrorField(err))
	}
	w.mu.Lock()
	w.slugs[path] = slug
	w.mu.Unlock()
	logger.Info("catalog pair ingested",
		logger.String("slug", slug), logger.String("path", path))
}

// unpublish removes the pair a deleted file had published, if this watcher
// ingested it. Pairs seeded or ingested elsewhere are left alone.
func (w *Watcher) unpublish(ctx context.Context, path string) {
	w.mu.Lock()
	slug, ok := w.slugs[path]
	delete(w.slugs, path)
	w.mu.Unlock()
	if !ok {
		return
	}

	if err := w.repo.Delete(ctx, slug); err != nil {
		logger.Error("failed to delete pair",
			logger.String("slug", slug), logger.ErrorField(err))
		return
	}
	if err := cache.InvalidatePair(ctx, slug); err != nil {
		logger.Warn("failed to invalidate pair cache",
			logger.String("slug", slug), logger.ErrorField(err))
	}
	logger.Info("catalog pair removed",
		logger.String("slug", slug), logger.String("path", path))
}
