package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

func TestFSNotifyWatcher_Creation(t *testing.T) {
	watcher, err := NewFSNotifyWatcher(nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()
}

func TestFSNotifyWatcher_WatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medicines.csv")
	os.WriteFile(path, []byte("Medicine Name\n"), 0644)

	watcher, _ := NewFSNotifyWatcher(nil)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(path, []byte("Medicine Name\nAspirin\n"), 0644)
	}()

	select {
	case event := <-events:
		if event.Operation != ports.FileModified && event.Operation != ports.FileCreated {
			t.Errorf("expected change event, got %v", event.Operation)
		}
		if filepath.Base(event.Path) != "medicines.csv" {
			t.Errorf("unexpected path %s", event.Path)
		}
	case <-ctx.Done():
		t.Error("timeout waiting for event")
	}
}

func TestFSNotifyWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medicines.csv")

	watcher, _ := NewFSNotifyWatcher(nil)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, _ := watcher.Watch(ctx, path)

	os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("{}"), 0644)

	select {
	case <-events:
		t.Error("should not receive event for another file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFSNotifyWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medicines.csv")
	os.WriteFile(path, []byte("x"), 0644)

	watcher, _ := NewFSNotifyWatcher(nil)
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, _ := watcher.Watch(ctx, path)
	os.Remove(path)

	select {
	case event := <-events:
		if event.Operation != ports.FileDeleted {
			t.Errorf("expected delete event, got %v", event.Operation)
		}
	case <-ctx.Done():
		t.Error("timeout waiting for event")
	}
}

func TestFSNotifyWatcher_MissingDirectory(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher(nil)
	defer watcher.Stop()

	if _, err := watcher.Watch(context.Background(), "/nonexistent/dir/medicines.csv"); err == nil {
		t.Error("watching a missing directory should fail")
	}
}

func TestFSNotifyWatcher_Stop(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher(nil)
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
