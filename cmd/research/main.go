package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"deepresearch/internal/config"
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

const researcherWidth = 5

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	dim    = color.New(color.Faint)
)

// cli runs the orchestrator synchronously against one query at a time,
// printing progress events as they arrive and the final report at the end.
type cli struct {
	orch *orchestrator.Orchestrator
	bus  *progress.Bus
	cfg  *config.Config
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	model := modelclient.New(cfg.SaptivaBaseURL, cfg.SaptivaAPIKey, cfg.SaptivaConnectTimeout, cfg.SaptivaReadTimeout)
	search := searcher.New(cfg.TavilyAPIKey)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := evidencestore.New(ctx, cfg.VectorBackend, cfg.WeaviateHost)

	bus := progress.NewBus(0)
	orch := orchestrator.New(
		orchestrator.WithPlanner(planner.New(model, "alibaba/tongyi-deepresearch-30b-a3b")),
		orchestrator.WithResearcher(researcher.New(search, store, researcherWidth)),
		orchestrator.WithEvaluator(evaluator.New(model, "alibaba/tongyi-deepresearch-30b-a3b")),
		orchestrator.WithWriter(writer.New(model, store, "alibaba/tongyi-deepresearch-30b-a3b")),
		orchestrator.WithProgressBus(bus),
	)

	app := &cli{orch: orch, bus: bus, cfg: cfg}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = home + "/.deepresearch_history"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mresearch>\033[0m ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cyan.Println("deep research — type a query and press enter, or 'exit' to quit")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return
		}

		app.runOne(ctx, query)
	}
}

func (app *cli) runOne(ctx context.Context, query string) {
	taskID := fmt.Sprintf("cli-%d", time.Now().UnixNano())
	events := app.bus.Subscribe(taskID)
	defer app.bus.Unsubscribe(taskID, events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			printEvent(event)
		}
	}()

	minScore := app.cfg.MinScore
	result, err := app.orch.Run(ctx, taskID, orchestrator.RunParams{
		Query:         query,
		MaxIterations: app.cfg.MaxIterations,
		MinScore:      &minScore,
	})
	app.bus.CloseTask(taskID)
	<-done

	if err != nil {
		red.Printf("research failed: %v\n", err)
		return
	}

	fmt.Println()
	green.Printf("=== Report (quality %.2f, %s) ===\n", result.QualityScore, result.CompletionLevel)
	fmt.Println(result.FinalReport)
}

func printEvent(event progress.Event) {
	switch event.EventType {
	case progress.EventFailed:
		red.Printf("[%s] %s\n", event.EventType, event.Message)
	case progress.EventCompleted, progress.EventIterationCompleted:
		green.Printf("[%s] %s\n", event.EventType, event.Message)
	case progress.EventEvidence, progress.EventEvaluation:
		yellow.Printf("[%s] %s\n", event.EventType, event.Message)
	default:
		dim.Printf("[%s] %s\n", event.EventType, event.Message)
	}
}
