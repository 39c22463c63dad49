// Package watcher ingests files dropped into a watched directory as if
// they had been uploaded over HTTP.
package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// debounceWindow suppresses the duplicate create/write events fsnotify
// emits while a file is being copied into the directory.
const debounceWindow = 2 * time.Second

// Ingestor accepts a file for ingestion.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, r io.Reader) (domain.Document, error)
}

// Watcher monitors a directory for new files with a matching extension.
type Watcher struct {
	dir    string
	ext    string
	ingest Ingestor
	logger *zap.Logger

	fs   *fsnotify.Watcher
	done chan struct{}

	mu   sync.Mutex
	seen map[string]time.Time
}

// New creates a watcher over dir for files with the given extension.
func New(dir, ext string, ingest Ingestor, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	return &Watcher{
		dir:    dir,
		ext:    ext,
		ingest: ingest,
		logger: logger,
		fs:     fs,
		done:   make(chan struct{}),
		seen:   make(map[string]time.Time),
	}, nil
}

// Start begins processing filesystem events until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
	w.logger.Info("watching directory for uploads",
		zap.String("dir", w.dir),
		zap.String("ext", w.ext),
	)
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if filepath.Ext(event.Name) != w.ext {
				continue
			}
			if !w.firstSight(event.Name) {
				continue
			}
			w.ingestFile(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// firstSight reports whether the path has not fired within the debounce window.
func (w *Watcher) firstSight(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if last, ok := w.seen[path]; ok && now.Sub(last) < debounceWindow {
		return false
	}
	w.seen[path] = now
	return true
}

func (w *Watcher) ingestFile(path string) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		w.logger.Warn("failed to open watched file",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	defer func() { _ = f.Close() }()

	doc, err := w.ingest.Ingest(context.Background(), filepath.Base(path), f)
	if err != nil {
		w.logger.Warn("failed to ingest watched file",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("ingested watched file",
		zap.String("path", path),
		zap.String("document_id", doc.ID),
	)
}
