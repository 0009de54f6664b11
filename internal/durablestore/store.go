// Package durablestore persists task records, reports, and log lines
// across the tasks/reports/logs partitions named by the external
// interface contract. New returns an in-process MemoryStore when no
// artifacts directory is configured and a file-backed FileStore otherwise.
package durablestore

import (
	"context"

	"deepresearch/internal/domain"
)

// LogEntry is one line in the logs partition, keyed by (taskID, timestamp).
type LogEntry struct {
	TaskID    string
	Timestamp int64
	Message   string
}

// Store is the durable persistence port. Implementations must make Task
// upserts safe for concurrent callers; the TaskManager is the only writer
// of any given task's record, but reads may race with that write.
type Store interface {
	SaveTask(ctx context.Context, task domain.TaskRecord) error
	LoadTask(ctx context.Context, taskID string) (*domain.TaskRecord, error)
	ListTasks(ctx context.Context) ([]domain.TaskRecord, error)

	SaveReport(ctx context.Context, taskID, report string) error
	LoadReport(ctx context.Context, taskID string) (string, error)

	AppendLog(ctx context.Context, entry LogEntry) error
	Close() error
}
