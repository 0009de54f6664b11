package durablestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"deepresearch/internal/domain"
)

// MemoryStore keeps every partition in process memory; records do not
// survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	tasks   map[string]domain.TaskRecord
	reports map[string]string
	logs    []LogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:   make(map[string]domain.TaskRecord),
		reports: make(map[string]string),
	}
}

func (m *MemoryStore) SaveTask(ctx context.Context, task domain.TaskRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.TaskID] = task
	return nil
}

func (m *MemoryStore) LoadTask(ctx context.Context, taskID string) (*domain.TaskRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	return &t, nil
}

func (m *MemoryStore) ListTasks(ctx context.Context) ([]domain.TaskRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.TaskRecord, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) SaveReport(ctx context.Context, taskID, report string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[taskID] = report
	return nil
}

func (m *MemoryStore) LoadReport(ctx context.Context, taskID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[taskID]
	if !ok {
		return "", fmt.Errorf("report %s not found", taskID)
	}
	return r, nil
}

func (m *MemoryStore) AppendLog(ctx context.Context, entry LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
