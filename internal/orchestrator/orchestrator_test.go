package orchestrator

import (
	"context"
	"testing"
	"time"

	"deepresearch/internal/evaluator"
	"deepresearch/internal/evidencestore"
	"deepresearch/internal/modelclient"
	"deepresearch/internal/planner"
	"deepresearch/internal/progress"
	"deepresearch/internal/researcher"
	"deepresearch/internal/searcher"
	"deepresearch/internal/writer"
)

func ptr(f float64) *float64 { return &f }

func buildMockOrchestrator(bus *progress.Bus) *Orchestrator {
	client := modelclient.NewMockClient()
	search := searcher.NewMockSearcher()
	store := evidencestore.NewMemoryStore()

	return New(
		WithPlanner(planner.New(client, "mock-model")),
		WithResearcher(researcher.New(search, store, 3)),
		WithEvaluator(evaluator.New(client, "mock-model")),
		WithWriter(writer.New(client, store, "mock-model")),
		WithProgressBus(bus),
	)
}

func TestRunConvergesWithinMaxIterations(t *testing.T) {
	bus := progress.NewBus(32)
	o := buildMockOrchestrator(bus)

	result, err := o.Run(context.Background(), "task-1", RunParams{
		Query:         "state of vertical AI agents",
		MaxIterations: 3,
		MinScore:      ptr(0.99), // unreachable by the mock client's fixed 0.72 score, forces full iteration budget
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Iterations) != 3 {
		t.Fatalf("expected the run to exhaust all 3 iterations, got %d", len(result.Iterations))
	}
	if result.FinalReport == "" {
		t.Error("expected a non-empty final report")
	}
	if result.TotalCost.TotalTokens == 0 {
		t.Error("expected accumulated cost across the run")
	}
}

func TestRunConvergesEarlyWhenScoreClearsMinScore(t *testing.T) {
	bus := progress.NewBus(32)
	o := buildMockOrchestrator(bus)

	result, err := o.Run(context.Background(), "task-2", RunParams{
		Query:         "quick convergence query",
		MaxIterations: 5,
		MinScore:      ptr(0.5), // the mock evaluator always returns 0.72, clears this on iteration 1
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Iterations) != 1 {
		t.Fatalf("expected convergence on the first iteration, got %d iterations", len(result.Iterations))
	}
	if result.QualityScore < 0.5 {
		t.Errorf("expected a quality score above the threshold, got %v", result.QualityScore)
	}
}

// An explicit MinScore of 0 must converge after exactly one iteration,
// regardless of how low the first iteration's score is: 0 is a real
// threshold, not a stand-in for "unset".
func TestRunConvergesAfterOneIterationOnExplicitZeroMinScore(t *testing.T) {
	bus := progress.NewBus(32)
	o := buildMockOrchestrator(bus)

	result, err := o.Run(context.Background(), "task-zero-min-score", RunParams{
		Query:         "explicit zero threshold",
		MaxIterations: 5,
		MinScore:      ptr(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Iterations) != 1 {
		t.Fatalf("expected convergence after exactly 1 iteration with an explicit MinScore of 0, got %d", len(result.Iterations))
	}
	if result.QualityScore != result.Iterations[0].Completion.Overall {
		t.Errorf("expected quality score to equal iteration 1's completion overall, got %v vs %v", result.QualityScore, result.Iterations[0].Completion.Overall)
	}
}

func TestRunEmitsLifecycleEvents(t *testing.T) {
	bus := progress.NewBus(64)
	o := buildMockOrchestrator(bus)
	taskID := "task-events"
	events := bus.Subscribe(taskID)

	_, err := o.Run(context.Background(), taskID, RunParams{Query: "event stream check", MaxIterations: 1, MinScore: ptr(0.1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bus.CloseTask(taskID)

	var seenStarted, seenCompleted bool
	for event := range events {
		if event.Timestamp.IsZero() {
			t.Errorf("expected every event to carry a timestamp, got zero value for %q", event.EventType)
		}
		switch event.EventType {
		case progress.EventStarted:
			seenStarted = true
		case progress.EventCompleted:
			seenCompleted = true
		}
	}
	if !seenStarted || !seenCompleted {
		t.Errorf("expected both started and completed events, got started=%v completed=%v", seenStarted, seenCompleted)
	}
}

func TestRunReturnsCancelledOnAlreadyDoneContext(t *testing.T) {
	bus := progress.NewBus(32)
	o := buildMockOrchestrator(bus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, "task-cancel", RunParams{Query: "cancelled run", MaxIterations: 3, MinScore: ptr(0.99)})
	if err == nil {
		t.Fatal("expected an error for a pre-cancelled context")
	}
}

func TestRunParamsNormalizedClampsAndDefaults(t *testing.T) {
	p := RunParams{}.normalized()
	if p.MaxIterations != DefaultMaxIterations {
		t.Errorf("expected default max iterations %d, got %d", DefaultMaxIterations, p.MaxIterations)
	}
	if p.MinScore == nil || *p.MinScore != DefaultMinScore {
		t.Errorf("expected a nil MinScore to default to %v, got %v", DefaultMinScore, p.MinScore)
	}

	explicitZero := RunParams{MinScore: ptr(0)}.normalized()
	if explicitZero.MinScore == nil || *explicitZero.MinScore != 0 {
		t.Errorf("expected an explicit MinScore of 0 to pass through unmodified, got %v", explicitZero.MinScore)
	}

	clamped := RunParams{MaxIterations: 99, MinScore: ptr(5)}.normalized()
	if clamped.MaxIterations != 10 {
		t.Errorf("expected max iterations clamped to 10, got %d", clamped.MaxIterations)
	}
	if clamped.MinScore == nil || *clamped.MinScore != 1 {
		t.Errorf("expected min score clamped to 1, got %v", clamped.MinScore)
	}
}

func TestRunRespectsContextTimeoutMidLoop(t *testing.T) {
	bus := progress.NewBus(32)
	o := buildMockOrchestrator(bus)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := o.Run(ctx, "task-timeout", RunParams{Query: "timeout check", MaxIterations: 3, MinScore: ptr(0.99)})
	if err == nil {
		t.Fatal("expected an error once the context deadline has passed")
	}
}
