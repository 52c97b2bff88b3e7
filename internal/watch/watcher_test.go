package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

func TestShouldSkipDir(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"node_modules", true},
		{"vendor", true},
		{".git", true},
		{".cache", true},
		{"__pycache__", true},
		{"target", true},
		{"src", false},
		{"internal", false},
	}
	for _, tt := range tests {
		if got := shouldSkipDir(tt.name); got != tt.want {
			t.Errorf("shouldSkipDir(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTracked(t *testing.T) {
	w, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"src/app.TS", true}, // extension matching is case-insensitive
		{"query.sql", true},
		{"notes.txt", false},
		{"README.md", false},
		{"Makefile", false},
	}
	for _, tt := range tests {
		if got := w.tracked(tt.path); got != tt.want {
			t.Errorf("tracked(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestTracked_CustomExtensions(t *testing.T) {
	w, err := New(Config{Extensions: []string{".md"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	if !w.tracked("notes.md") {
		t.Error("tracked(notes.md) = false with .md configured")
	}
	if w.tracked("main.go") {
		t.Error("tracked(main.go) = true, but .go was not configured")
	}
}

func TestAllow_Debounce(t *testing.T) {
	w, err := New(Config{Debounce: 2 * time.Second})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	t0 := time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC)
	if !w.allow("/p/a.go", t0) {
		t.Error("first sighting blocked")
	}
	if w.allow("/p/a.go", t0.Add(time.Second)) {
		t.Error("repeat inside the window allowed")
	}
	if !w.allow("/p/b.go", t0.Add(time.Second)) {
		t.Error("different path blocked by another path's window")
	}
	if !w.allow("/p/a.go", t0.Add(3*time.Second)) {
		t.Error("sighting after the window blocked")
	}
}

func TestCountLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	content := "package main\n\nfunc main() {}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if got := countLines(path); got != 3 {
		t.Errorf("countLines() = %d, want 3", got)
	}
	if got := countLines(filepath.Join(t.TempDir(), "missing.go")); got != 0 {
		t.Errorf("countLines(missing) = %d, want 0", got)
	}
}

func TestWatcher_EmitsFileCreated(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{UserID: "dev", Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.AddPath(dir); err != nil {
		t.Fatalf("AddPath() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("create file: %v", err)
	}

	select {
	case req := <-w.Requests():
		if req.Type != domain.ActFileCreated {
			t.Errorf("request type = %s, want %s", req.Type, domain.ActFileCreated)
		}
		if req.UserID != "dev" {
			t.Errorf("request user = %q, want dev", req.UserID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no request for created source file")
	}

	// Untracked extensions stay silent.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi\n"), 0644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	select {
	case req := <-w.Requests():
		t.Errorf("unexpected request for untracked file: %+v", req)
	case <-time.After(500 * time.Millisecond):
	}

	w.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()
	if err := w.AddPath(dir); err != nil {
		t.Fatalf("AddPath() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the event loop a beat to pick up the new directory.
	time.Sleep(500 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "pkg.go"), []byte("package pkg\n"), 0644); err != nil {
		t.Fatalf("create nested file: %v", err)
	}

	select {
	case req := <-w.Requests():
		if req.Type != domain.ActFileCreated {
			t.Errorf("request type = %s, want %s", req.Type, domain.ActFileCreated)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no request for file in freshly created subdirectory")
	}
}
