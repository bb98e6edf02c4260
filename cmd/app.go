package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/llm"
	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/orchestrator"
	"github.com/abhisek/qgen/internal/questiongen"
	"github.com/abhisek/qgen/internal/store"
)

// pipeline is the assembled generation stack shared by serve and generate.
type pipeline struct {
	orch  *orchestrator.Orchestrator
	store *store.Store
}

func (p *pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// buildPipeline wires config → event store → provider → generator →
// orchestrator.
func buildPipeline(ctx context.Context, cfg config.Config) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &pipeline{}
	var repo store.EventRepo
	if !cfg.Store.Disabled {
		dbPath := cfg.Store.Path
		if dbPath == "" {
			var err error
			if dbPath, err = store.DefaultDBPath(); err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
		} else if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		p.store = s
		repo = s.EventRepo()
		logging.Logger.WithField("path", dbPath).Debug("llm event log opened")
	}

	mock := llm.NewMockProvider()
	mock.Responder = questiongen.SampleResponder

	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), repo, llm.WithMock(mock))
	if err != nil {
		p.Close()
		return nil, err
	}

	gen := questiongen.New(provider, questiongen.Config{
		Validators:  questiongen.DefaultConfig().Validators,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	})
	p.orch = orchestrator.New(gen, orchestrator.WithTimeout(cfg.Generation.Timeout))

	logging.Logger.WithField("provider", cfg.LLM.Provider).
		WithField("model", provider.ModelID()).
		Info("question generator ready")
	return p, nil
}
