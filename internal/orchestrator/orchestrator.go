// Package orchestrator drives the iterative control loop: plan once,
// then research -> evaluate -> (gap/refine) per iteration until the
// quality threshold is met or the iteration budget is exhausted, finally
// writing a cited report.
package orchestrator

import (
	"context"
	"log"
	"time"

	"deepresearch/internal/domain"
	"deepresearch/internal/evaluator"
	"deepresearch/internal/planner"
	"deepresearch/internal/progress"
	"deepresearch/internal/researcher"
	"deepresearch/internal/writer"
)

const (
	DefaultMaxIterations = 3
	DefaultMinScore      = 0.75
	maxSubQueries        = 12
)

// RunParams bounds one orchestrator run. Budget is an opaque unit passed
// through to collaborators; the orchestrator itself never interprets it.
//
// MinScore is a pointer so an explicit 0 (converge after the first
// iteration, whatever its score) can be told apart from "not set" (use
// DefaultMinScore). A plain float64 zero value could not carry that
// distinction.
type RunParams struct {
	Query         string
	MaxIterations int
	MinScore      *float64
	Budget        int
}

func (p RunParams) normalized() RunParams {
	if p.MaxIterations <= 0 {
		p.MaxIterations = DefaultMaxIterations
	}
	if p.MaxIterations > 10 {
		p.MaxIterations = 10
	}
	score := DefaultMinScore
	if p.MinScore != nil {
		score = *p.MinScore
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	p.MinScore = &score
	return p
}

// Orchestrator is the single entry point for a research run. It never
// references a concrete provider: its collaborators are injected through
// Options and reach providers only through their interfaces.
type Orchestrator struct {
	planner    *planner.Planner
	researcher *researcher.Researcher
	evaluator  *evaluator.Evaluator
	writer     *writer.Writer
	bus        *progress.Bus
	eventLog   *progress.EventLog
}

func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one full research task to completion or failure. It never
// panics: planning failures and context cancellation are the only paths
// that return a non-nil error; every other collaborator failure degrades
// to a conservative fallback per the error taxonomy.
func (o *Orchestrator) Run(ctx context.Context, taskID string, params RunParams) (*domain.DeepResult, error) {
	params = params.normalized()
	start := time.Now()

	o.emit(taskID, progress.EventStarted, "research started", nil)

	o.emit(taskID, progress.EventPlanning, "decomposing query", nil)
	plan, planCost, err := o.planner.Plan(ctx, params.Query)
	if err != nil {
		o.emit(taskID, progress.EventFailed, "planning failed", map[string]string{"error": err.Error()})
		return nil, domain.NewError(domain.KindInvariantViolation, "orchestrator.Run", err)
	}
	capSubQueries(plan)

	var allEvidence []domain.Evidence
	var iterations []domain.Iteration
	var totalCost domain.CostBreakdown
	totalCost.Add(planCost)

	currentPlan := plan
	for k := 1; k <= params.MaxIterations; k++ {
		if err := ctx.Err(); err != nil {
			return o.cancelled(taskID)
		}

		queries := queryTexts(currentPlan)
		o.emit(taskID, progress.EventIterationStarted, "iteration started", map[string]any{"iteration": k, "queries": queries})

		evidence, err := o.researcher.Execute(ctx, currentPlan)
		if err != nil {
			log.Printf("orchestrator: researcher failed in iteration %d: %v", k, err)
			evidence = nil
		}
		if err := ctx.Err(); err != nil {
			return o.cancelled(taskID)
		}

		o.emit(taskID, progress.EventEvidence, "evidence collected", map[string]any{"count": len(evidence)})
		allEvidence = domain.MergeEvidence(allEvidence, evidence)

		completion, scoreCost := o.evaluator.Score(ctx, params.Query, allEvidence)
		o.emit(taskID, progress.EventEvaluation, "evaluation complete", completion)

		iterationCost := scoreCost
		iteration := domain.Iteration{
			Number:            k,
			QueriesExecuted:   queries,
			EvidenceCollected: evidence,
			Completion:        completion,
			Timestamp:         time.Now().UTC(),
		}

		converged := completion.Overall >= *params.MinScore || k == params.MaxIterations
		if converged {
			iteration.Cost = iterationCost
			totalCost.Add(iterationCost)
			iterations = append(iterations, iteration)
			o.emit(taskID, progress.EventIterationCompleted, "iteration complete", map[string]any{"iteration": k, "converged": true})
			break
		}

		if err := ctx.Err(); err != nil {
			iteration.Cost = iterationCost
			totalCost.Add(iterationCost)
			iterations = append(iterations, iteration)
			return o.cancelled(taskID)
		}

		gaps, gapsCost := o.evaluator.Gaps(ctx, params.Query, allEvidence, completion)
		iterationCost.Add(gapsCost)
		o.emit(taskID, progress.EventGapAnalysis, "gaps identified", map[string]any{"count": len(gaps)})

		refinements, refineCost := o.evaluator.Refine(ctx, gaps, params.Query)
		iterationCost.Add(refineCost)
		o.emit(taskID, progress.EventRefinement, "refinement queries generated", map[string]any{"count": len(refinements)})

		iteration.Gaps = gaps
		iteration.Refinements = refinements
		iteration.Cost = iterationCost
		totalCost.Add(iterationCost)
		iterations = append(iterations, iteration)
		o.emit(taskID, progress.EventIterationCompleted, "iteration complete", map[string]any{"iteration": k, "converged": false})

		if len(refinements) == 0 {
			break
		}

		currentPlan = planner.RefinementPlan(params.Query, k, refinements)
		capSubQueries(currentPlan)
	}

	o.emit(taskID, progress.EventReportGeneration, "writing report", nil)
	report, writeCost := o.writer.Write(ctx, params.Query, allEvidence)
	totalCost.Add(writeCost)
	o.emit(taskID, progress.EventReportGeneration, "report written", nil)

	last := iterations[len(iterations)-1]
	result := &domain.DeepResult{
		OriginalQuery:   params.Query,
		Iterations:      iterations,
		FinalEvidence:   allEvidence,
		FinalReport:     report,
		CompletionLevel: last.Completion.Level,
		QualityScore:    last.Completion.Overall,
		DurationSeconds: time.Since(start).Seconds(),
		TotalCost:       totalCost,
	}

	o.emit(taskID, progress.EventCompleted, "research complete", map[string]any{"qualityScore": result.QualityScore})
	return result, nil
}

func (o *Orchestrator) cancelled(taskID string) (*domain.DeepResult, error) {
	o.emit(taskID, progress.EventFailed, "cancelled", map[string]string{"reason": "cancelled"})
	return nil, domain.NewError(domain.KindCancelled, "orchestrator.Run", domain.ErrCancelled)
}

func (o *Orchestrator) emit(taskID string, eventType progress.EventType, message string, data any) {
	event := progress.Event{TaskID: taskID, Timestamp: time.Now().UTC(), EventType: eventType, Message: message, Data: data}
	if o.bus != nil {
		o.bus.Publish(event)
	}
	if o.eventLog != nil {
		if err := o.eventLog.Append(event); err != nil {
			log.Printf("orchestrator: event log append failed: %v", err)
		}
	}
}

func queryTexts(plan *domain.Plan) []string {
	texts := make([]string, len(plan.SubQueries))
	for i, sq := range plan.SubQueries {
		texts[i] = sq.Text
	}
	return texts
}

func capSubQueries(plan *domain.Plan) {
	if len(plan.SubQueries) > maxSubQueries {
		plan.SubQueries = plan.SubQueries[:maxSubQueries]
	}
}
