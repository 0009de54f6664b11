package durablestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deepresearch/internal/domain"
)

func newStores(t *testing.T) []Store {
	t.Helper()
	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating FileStore: %v", err)
	}
	return []Store{NewMemoryStore(), fileStore}
}

func TestSaveAndLoadTaskRoundTrips(t *testing.T) {
	for _, store := range newStores(t) {
		task := domain.TaskRecord{TaskID: "t1", Status: domain.StatusAccepted, Query: "q", CreatedAt: time.Now().UTC()}
		if err := store.SaveTask(context.Background(), task); err != nil {
			t.Fatalf("%T: unexpected error saving task: %v", store, err)
		}
		loaded, err := store.LoadTask(context.Background(), "t1")
		if err != nil {
			t.Fatalf("%T: unexpected error loading task: %v", store, err)
		}
		if loaded.TaskID != "t1" || loaded.Status != domain.StatusAccepted {
			t.Errorf("%T: unexpected loaded task: %+v", store, loaded)
		}
	}
}

func TestLoadTaskMissingReturnsError(t *testing.T) {
	for _, store := range newStores(t) {
		if _, err := store.LoadTask(context.Background(), "nonexistent"); err == nil {
			t.Errorf("%T: expected an error for a missing task", store)
		}
	}
}

func TestListTasksOrderedNewestFirst(t *testing.T) {
	for _, store := range newStores(t) {
		older := domain.TaskRecord{TaskID: "older", CreatedAt: time.Now().UTC().Add(-time.Hour)}
		newer := domain.TaskRecord{TaskID: "newer", CreatedAt: time.Now().UTC()}
		_ = store.SaveTask(context.Background(), older)
		_ = store.SaveTask(context.Background(), newer)

		tasks, err := store.ListTasks(context.Background())
		if err != nil {
			t.Fatalf("%T: unexpected error: %v", store, err)
		}
		if len(tasks) != 2 {
			t.Fatalf("%T: expected 2 tasks, got %d", store, len(tasks))
		}
		if tasks[0].TaskID != "newer" {
			t.Errorf("%T: expected the newer task first, got %q", store, tasks[0].TaskID)
		}
	}
}

func TestSaveAndLoadReportRoundTrips(t *testing.T) {
	for _, store := range newStores(t) {
		if err := store.SaveReport(context.Background(), "t1", "# Report\n\nbody"); err != nil {
			t.Fatalf("%T: unexpected error: %v", store, err)
		}
		report, err := store.LoadReport(context.Background(), "t1")
		if err != nil {
			t.Fatalf("%T: unexpected error: %v", store, err)
		}
		if report != "# Report\n\nbody" {
			t.Errorf("%T: unexpected report content: %q", store, report)
		}
	}
}

func TestLoadReportMissingReturnsError(t *testing.T) {
	for _, store := range newStores(t) {
		if _, err := store.LoadReport(context.Background(), "missing"); err == nil {
			t.Errorf("%T: expected an error for a missing report", store)
		}
	}
}

func TestAppendLogDoesNotError(t *testing.T) {
	for _, store := range newStores(t) {
		if err := store.AppendLog(context.Background(), LogEntry{TaskID: "t1", Timestamp: 1, Message: "hello"}); err != nil {
			t.Errorf("%T: unexpected error: %v", store, err)
		}
	}
}

func TestFactorySelectsMemoryStoreForEmptyDir(t *testing.T) {
	store, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("expected MemoryStore for an empty artifacts dir, got %T", store)
	}
}

func TestFactorySelectsFileStoreForNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected FileStore for a non-empty artifacts dir, got %T", store)
	}

	for _, sub := range []string{"tasks", "reports", "logs"} {
		if _, statErr := os.Stat(filepath.Join(dir, "state", sub)); statErr != nil {
			t.Errorf("expected %s subdirectory to exist: %v", sub, statErr)
		}
	}
}
