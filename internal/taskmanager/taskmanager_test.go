package taskmanager

import (
	"context"
	"testing"
	"time"

	"deepresearch/internal/domain"
	"deepresearch/internal/durablestore"
	"deepresearch/internal/evaluator"
	"deepresearch/internal/evidencestore"
	"deepresearch/internal/modelclient"
	"deepresearch/internal/orchestrator"
	"deepresearch/internal/planner"
	"deepresearch/internal/progress"
	"deepresearch/internal/researcher"
	"deepresearch/internal/searcher"
	"deepresearch/internal/writer"
)

func buildManager(t *testing.T) *Manager {
	t.Helper()
	client := modelclient.NewMockClient()
	search := searcher.NewMockSearcher()
	store := evidencestore.NewMemoryStore()

	orch := orchestrator.New(
		orchestrator.WithPlanner(planner.New(client, "mock-model")),
		orchestrator.WithResearcher(researcher.New(search, store, 2)),
		orchestrator.WithEvaluator(evaluator.New(client, "mock-model")),
		orchestrator.WithWriter(writer.New(client, store, "mock-model")),
		orchestrator.WithProgressBus(progress.NewBus(32)),
	)

	return New(durablestore.NewMemoryStore(), progress.NewBus(32), orch, time.Minute)
}

func waitForStatus(t *testing.T, m *Manager, taskID, want string) *domain.TaskRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, err := m.Status(context.Background(), taskID)
		if err == nil && record.Status == want {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for task %s to reach status %q", taskID, want)
	return nil
}

func TestSubmitRunsToCompletion(t *testing.T) {
	m := buildManager(t)
	minScore := 0.1
	taskID, err := m.Submit(context.Background(), "what is happening in AI research", domain.KindSimple, orchestrator.RunParams{
		MaxIterations: 1,
		MinScore:      &minScore,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID == "" {
		t.Fatal("expected a non-empty task ID")
	}

	record := waitForStatus(t, m, taskID, domain.StatusCompleted)
	if record.Result == nil {
		t.Fatal("expected a result on the completed record")
	}

	report, err := m.Report(context.Background(), taskID)
	if err != nil {
		t.Fatalf("unexpected error fetching report: %v", err)
	}
	if report == "" {
		t.Error("expected a non-empty saved report")
	}
}

func TestSubmitRecordIsAcceptedImmediately(t *testing.T) {
	m := buildManager(t)
	minScore := 0.99
	taskID, err := m.Submit(context.Background(), "query", domain.KindSimple, orchestrator.RunParams{MaxIterations: 1, MinScore: &minScore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := m.Status(context.Background(), taskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != domain.StatusAccepted && record.Status != domain.StatusRunning && record.Status != domain.StatusCompleted {
		t.Errorf("unexpected immediate status: %q", record.Status)
	}

	waitForStatus(t, m, taskID, domain.StatusCompleted)
}

func TestCancelUnknownTaskReturnsFalse(t *testing.T) {
	m := buildManager(t)
	if m.Cancel("does-not-exist") {
		t.Error("expected Cancel to return false for an unknown task")
	}
}

func TestStatusUnknownTaskReturnsError(t *testing.T) {
	m := buildManager(t)
	if _, err := m.Status(context.Background(), "does-not-exist"); err == nil {
		t.Error("expected an error for an unknown task")
	}
}
