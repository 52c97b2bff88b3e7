// Package watch turns filesystem activity into devxp occurrences. A
// fsnotify watcher covers the configured paths recursively; newly created
// source files surface as file_created record requests on a channel the
// host drains into its ingestion pipeline.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/whoamaiii/devxp/internal/domain"
)

// DefaultExtensions lists the source-file extensions tracked when the
// config names none.
var DefaultExtensions = []string{
	".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".vue",
	".java", ".rs", ".c", ".cpp", ".h", ".rb", ".sh", ".sql",
}

// skipDirs are directory names never watched: build output, dependency
// trees, and anything hidden.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// Config tunes one Watcher.
type Config struct {
	UserID     string        // attributed user; empty lets the host default apply
	Extensions []string      // tracked extensions; nil means DefaultExtensions
	Debounce   time.Duration // per-path quiet window
	BufferSize int           // request channel capacity
}

// Watcher converts file creation under the watched paths into
// domain.RecordRequest values.
type Watcher struct {
	fs         *fsnotify.Watcher
	userID     string
	extensions map[string]bool
	requests   chan domain.RecordRequest
	debounce   time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// New creates a Watcher. Call AddPath for each root, then Run.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extMap := make(map[string]bool, len(exts))
	for _, ext := range exts {
		extMap[strings.ToLower(ext)] = true
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	buf := cfg.BufferSize
	if buf <= 0 {
		buf = 64
	}

	return &Watcher{
		fs:         fsw,
		userID:     cfg.UserID,
		extensions: extMap,
		requests:   make(chan domain.RecordRequest, buf),
		debounce:   debounce,
		lastSeen:   make(map[string]time.Time),
	}, nil
}

// AddPath watches path and every non-skipped directory beneath it.
func (w *Watcher) AddPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	return filepath.Walk(abs, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != abs && shouldSkipDir(filepath.Base(p)) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			log.Printf("[watch] cannot watch %s: %v", p, err)
		}
		return nil
	})
}

// Requests returns the channel of pending record requests. Closed when Run
// returns.
func (w *Watcher) Requests() <-chan domain.RecordRequest {
	return w.requests
}

// Run processes filesystem events until ctx is done. It closes the request
// channel on return.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.requests)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] %v", err)
		}
	}
}

// Close releases the underlying watcher. Run unblocks once the event
// stream closes.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return // already gone, editor temp file
	}

	if info.IsDir() {
		// New directories join the watch so nested creations surface too.
		if shouldSkipDir(filepath.Base(ev.Name)) {
			return
		}
		if err := w.AddPath(ev.Name); err != nil {
			log.Printf("[watch] cannot watch %s: %v", ev.Name, err)
		}
		return
	}

	if !w.tracked(ev.Name) {
		return
	}
	if !w.allow(ev.Name, time.Now()) {
		return
	}

	req := domain.RecordRequest{
		UserID: w.userID,
		Type:   domain.ActFileCreated,
		Context: domain.ActivityContext{
			Lines: countLines(ev.Name),
		},
	}

	select {
	case w.requests <- req:
	default:
		log.Printf("[watch] request buffer full, dropping %s", ev.Name)
	}
}

// tracked reports whether the file's extension is watched.
func (w *Watcher) tracked(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// allow applies the per-path debounce. Atomic saves often materialize as a
// burst of creates for one path; only the first inside the window counts.
func (w *Watcher) allow(path string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if last, ok := w.lastSeen[path]; ok && now.Sub(last) < w.debounce {
		return false
	}
	w.lastSeen[path] = now
	return true
}

func shouldSkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name]
}

// countCap bounds how much of a new file the line counter reads, keeping a
// generated monster file from stalling the event loop.
const countCap = 1 << 20

// countLines counts lines in the first countCap bytes of the file.
// Unreadable files count zero.
func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(io.LimitReader(f, countCap))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		lines++
	}
	return lines
}
