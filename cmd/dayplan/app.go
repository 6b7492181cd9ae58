package main

import (
	"fmt"
	"log"
	"time"

	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/memory"
	"github.com/aixgo-dev/dayplan/internal/orchestrator"
	"github.com/aixgo-dev/dayplan/internal/plan"
	"github.com/aixgo-dev/dayplan/internal/search"
	"github.com/aixgo-dev/dayplan/internal/tools"
	"github.com/aixgo-dev/dayplan/pkg/config"
)

// app bundles everything a subcommand needs.
type app struct {
	cfg       *config.Config
	assistant *orchestrator.Assistant
	plans     *plan.Store
	cleanup   func()
}

// newApp loads configuration and wires the assistant with its collaborators.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	switch {
	case metricsPort == 0:
		cfg.Metrics.Enabled = false
	case metricsPort > 0:
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = metricsPort
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// One wall clock stamps plan file names and tool time info alike.
	now := time.Now
	plans, err := plan.NewStore(cfg.PlansDir, plan.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("failed to open plan store: %w", err)
	}

	memories, cleanup, err := newMemoryStore(cfg)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(tools.Deps{
		Plans:    plans,
		Memories: memories,
		Searcher: search.NewDuckDuckGo(),
		LLM:      client,
		Model:    cfg.Model,
		Now:      now,
	})

	return &app{
		cfg:       cfg,
		assistant: orchestrator.New(client, cfg.Model, registry, plans),
		plans:     plans,
		cleanup:   cleanup,
	}, nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

func newMemoryStore(cfg *config.Config) (memory.Store, func(), error) {
	switch cfg.Memory.Backend {
	case "redis":
		store, err := memory.NewRedisStore(memory.RedisConfig{
			Addr:     cfg.Memory.RedisAddr,
			Password: cfg.Memory.RedisPassword,
			DB:       cfg.Memory.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("redis close: %v", err)
			}
		}, nil
	default:
		store, err := memory.NewFileStore(cfg.Memory.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open memory store: %w", err)
		}
		return store, func() {}, nil
	}
}
