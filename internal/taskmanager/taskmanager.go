// Package taskmanager owns the lifecycle of research tasks. It is the
// sole writer of a TaskRecord's status: the orchestrator emits progress
// events but never persists a record itself.
package taskmanager

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"deepresearch/internal/domain"
	"deepresearch/internal/durablestore"
	"deepresearch/internal/orchestrator"
	"deepresearch/internal/progress"
)

// Manager submits research tasks, tracks their status, and serves results
// once they land.
type Manager struct {
	store       durablestore.Store
	bus         *progress.Bus
	runner      *orchestrator.Orchestrator
	runDeadline time.Duration

	mu     sync.Mutex
	cancel map[string]context.CancelFunc
}

func New(store durablestore.Store, bus *progress.Bus, runner *orchestrator.Orchestrator, runDeadline time.Duration) *Manager {
	if runDeadline <= 0 {
		runDeadline = 10 * time.Minute
	}
	return &Manager{
		store:       store,
		bus:         bus,
		runner:      runner,
		runDeadline: runDeadline,
		cancel:      make(map[string]context.CancelFunc),
	}
}

// Submit creates an accepted task record and starts the orchestrator run
// in the background, returning immediately with the new task ID.
func (m *Manager) Submit(ctx context.Context, query string, kind string, params orchestrator.RunParams) (string, error) {
	taskID := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102150405"), uuid.New().String()[:8])
	now := time.Now().UTC()

	record := domain.TaskRecord{
		TaskID:    taskID,
		Kind:      kind,
		Status:    domain.StatusAccepted,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.SaveTask(ctx, record); err != nil {
		return "", fmt.Errorf("save task: %w", err)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), m.runDeadline)
	m.mu.Lock()
	m.cancel[taskID] = cancel
	m.mu.Unlock()

	params.Query = query
	go m.run(runCtx, cancel, taskID, params)

	return taskID, nil
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, taskID string, params orchestrator.RunParams) {
	defer cancel()
	defer func() {
		m.mu.Lock()
		delete(m.cancel, taskID)
		m.mu.Unlock()
	}()

	m.transition(ctx, taskID, domain.StatusRunning, nil, "")

	result, err := m.runner.Run(ctx, taskID, params)
	if err != nil {
		log.Printf("taskmanager: task %s failed: %v", taskID, err)
		m.transition(ctx, taskID, domain.StatusFailed, nil, err.Error())
		return
	}

	if err := m.store.SaveReport(ctx, taskID, result.FinalReport); err != nil {
		log.Printf("taskmanager: task %s report save failed: %v", taskID, err)
	}
	m.transition(ctx, taskID, domain.StatusCompleted, result, "")
}

func (m *Manager) transition(ctx context.Context, taskID string, status string, result *domain.DeepResult, errMsg string) {
	existing, err := m.store.LoadTask(ctx, taskID)
	if err != nil {
		log.Printf("taskmanager: load task %s during transition: %v", taskID, err)
		return
	}
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()
	if result != nil {
		existing.Result = result
	}
	if errMsg != "" {
		existing.Error = errMsg
	}
	if err := m.store.SaveTask(ctx, *existing); err != nil {
		log.Printf("taskmanager: save task %s during transition: %v", taskID, err)
	}
}

func (m *Manager) Status(ctx context.Context, taskID string) (*domain.TaskRecord, error) {
	return m.store.LoadTask(ctx, taskID)
}

func (m *Manager) Report(ctx context.Context, taskID string) (string, error) {
	return m.store.LoadReport(ctx, taskID)
}

// Cancel aborts a running task's context, if it is still in flight.
func (m *Manager) Cancel(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.cancel[taskID]
	if !ok {
		return false
	}
	cancel()
	return true
}
