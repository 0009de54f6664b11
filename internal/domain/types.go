// Package domain holds the data model shared by every component of the
// research orchestrator: queries, evidence, plans, scores, and the task
// record that threads a run from acceptance through completion.
package domain

import "time"

// SubQuery is one decomposed search intent within a Plan.
type SubQuery struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

const (
	SourceWeb      = "web"
	SourceNews     = "news"
	SourceAcademic = "academic"
	SourceDocument = "document"
)

// Plan is the decomposition of a main query into sub-queries. It may grow
// across iterations as refinements append new sub-queries with fresh IDs.
type Plan struct {
	MainQuery string     `json:"mainQuery"`
	SubQueries []SubQuery `json:"subQueries"`
}

// EvidenceSource identifies where a piece of evidence came from.
type EvidenceSource struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Evidence is a normalised unit of source material: metadata plus an
// excerpt, used both to answer the query and to cite the report.
type Evidence struct {
	ID          string         `json:"id"`
	Source      EvidenceSource `json:"source"`
	Excerpt     string         `json:"excerpt"`
	ContentHash string         `json:"contentHash,omitempty"`
	Score       *float64       `json:"score,omitempty"`
	Tags        []string       `json:"tags"`
	CitKey      string         `json:"citKey"`
	ProducedBy  string         `json:"producedBy"`
	ToolCallID  string         `json:"toolCallId,omitempty"`
}

// EffectiveScore returns the upstream relevance, treating "unscored" as 0.5.
func (e Evidence) EffectiveScore() float64 {
	if e.Score == nil {
		return 0.5
	}
	return *e.Score
}

const excerptCap = 1000

// CapExcerpt truncates text to the 1000-character ingest cap.
func CapExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptCap {
		return text
	}
	return string(runes[:excerptCap])
}

// Completion levels, assigned from CompletionScore.Overall.
const (
	LevelInsufficient  = "insufficient"
	LevelPartial       = "partial"
	LevelAdequate      = "adequate"
	LevelComprehensive = "comprehensive"
)

// CompletionLevel maps a score in [0,1] to its named level.
func CompletionLevel(overall float64) string {
	switch {
	case overall < 0.4:
		return LevelInsufficient
	case overall < 0.7:
		return LevelPartial
	case overall < 0.9:
		return LevelAdequate
	default:
		return LevelComprehensive
	}
}

// CompletionScore is the evaluator's estimate of coverage quality.
type CompletionScore struct {
	Overall    float64            `json:"overall"`
	Level      string             `json:"level"`
	Coverage   map[string]float64 `json:"coverage"`
	// CoverageSpread is the standard deviation across Coverage's areas: a
	// high spread means some facets of the query are well covered while
	// others lag, independent of the Overall score.
	CoverageSpread float64 `json:"coverageSpread"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// InformationGap names a deficiency in evidence coverage.
type InformationGap struct {
	GapType        string `json:"gapType"`
	Description    string `json:"description"`
	Priority       int    `json:"priority"`
	SuggestedQuery string `json:"suggestedQuery"`
}

// RefinementQuery is a follow-up sub-query generated to close a gap.
type RefinementQuery struct {
	Text            string   `json:"text"`
	GapAddressed    string   `json:"gapAddressed"`
	Priority        int      `json:"priority"`
	ExpectedSources []string `json:"expectedSources"`
}

// Iteration records one pass through the orchestrator's loop.
type Iteration struct {
	Number           int               `json:"number"`
	QueriesExecuted  []string          `json:"queriesExecuted"`
	EvidenceCollected []Evidence       `json:"evidenceCollected"`
	Completion       CompletionScore   `json:"completion"`
	Gaps             []InformationGap  `json:"gaps"`
	Refinements      []RefinementQuery `json:"refinements"`
	Cost             CostBreakdown     `json:"cost"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Task status values. Transitions must follow Accepted -> Running ->
// (Completed | Failed); no other transition is valid.
const (
	StatusAccepted  = "accepted"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	KindSimple = "simple"
	KindDeep   = "deep"
)

// TaskRecord is the persisted identity and status of one research run.
type TaskRecord struct {
	TaskID    string      `json:"taskId"`
	Kind      string      `json:"kind"`
	Status    string      `json:"status"`
	Query     string      `json:"query"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Result    *DeepResult `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// DeepResult is the final output of an iterative research run.
type DeepResult struct {
	OriginalQuery    string      `json:"originalQuery"`
	Iterations       []Iteration `json:"iterations"`
	FinalEvidence    []Evidence  `json:"finalEvidence"`
	FinalReport      string      `json:"finalReport"`
	CompletionLevel  string      `json:"completionLevel"`
	QualityScore     float64     `json:"qualityScore"`
	DurationSeconds  float64     `json:"durationSeconds"`
	TotalCost        CostBreakdown `json:"totalCost"`
}
