package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deepresearch/internal/api"
	"deepresearch/internal/config"
	"deepresearch/internal/durablestore"
	"deepresearch/internal/evaluator"
	"deepresearch/internal/evidencestore"
	"deepresearch/internal/modelclient"
	"deepresearch/internal/orchestrator"
	"deepresearch/internal/planner"
	"deepresearch/internal/progress"
	"deepresearch/internal/researcher"
	"deepresearch/internal/searcher"
	"deepresearch/internal/taskmanager"
	"deepresearch/internal/writer"
)

const (
	operationsModel  = "alibaba/tongyi-deepresearch-30b-a3b"
	analyticalModel  = "alibaba/tongyi-deepresearch-30b-a3b"
	researcherWidth  = 5
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := modelclient.New(cfg.SaptivaBaseURL, cfg.SaptivaAPIKey, cfg.SaptivaConnectTimeout, cfg.SaptivaReadTimeout)
	search := searcher.New(cfg.TavilyAPIKey)
	store := evidencestore.New(ctx, cfg.VectorBackend, cfg.WeaviateHost)

	bus := progress.NewBus(0)
	eventLog, err := progress.NewEventLog(cfg.ArtifactsDir, "server", time.Now().Unix())
	if err != nil {
		log.Printf("event log disabled: %v", err)
	}

	orch := orchestrator.New(
		orchestrator.WithPlanner(planner.New(model, operationsModel)),
		orchestrator.WithResearcher(researcher.New(search, store, researcherWidth)),
		orchestrator.WithEvaluator(evaluator.New(model, analyticalModel)),
		orchestrator.WithWriter(writer.New(model, store, analyticalModel)),
		orchestrator.WithProgressBus(bus),
		orchestrator.WithEventLog(eventLog),
	)

	durable, err := durablestore.New(cfg.ArtifactsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "durable store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = durable.Close() }()

	tasks := taskmanager.New(durable, bus, orch, cfg.RunDeadline)

	server := api.NewServer(tasks, bus, api.ProviderHealth{
		ModelClient: func() bool { return model.Health(ctx) },
		Searcher:    func() bool { return search.Health(ctx) },
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.SaptivaReadTimeout,
		WriteTimeout: 0, // streaming WS responses must not be cut off
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
