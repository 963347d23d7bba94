// Package agent wires the churn analyst together: load the tables and the
// business brief once, then answer free-text questions statelessly.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopease/churn-analyst/agent/agents/orchestrator"
	"github.com/shopease/churn-analyst/agent/dataset"
	"github.com/shopease/churn-analyst/agent/knowledge"
	"github.com/shopease/churn-analyst/agent/synthesizer"
	"github.com/shopease/churn-analyst/agent/tool"
	configx "github.com/shopease/churn-analyst/pkg/config"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config selects the table source and the brief document.
type Config struct {
	DataDir   string `envconfig:"DATA_DIR" split_words:"true" default:"data"`
	BriefPath string `envconfig:"BRIEF_PATH" split_words:"true"`
	Source    string `envconfig:"SOURCE" split_words:"true" default:"csv"`
}

// Analyst is an immutable session: tables and brief loaded once, every Ask
// independent of the previous one.
type Analyst struct {
	orch *orchestrator.Orchestrator
}

// New assembles an analyst over already-loaded tables. A nil brief falls
// back to the embedded ShopEase brief; nil tables are allowed and make every
// tool report a data-not-loaded failure while answers still carry context.
func New(tables *dataset.Tables, brief *knowledge.Base) (*Analyst, error) {
	if brief == nil {
		brief = knowledge.Default()
	}

	orch, err := orchestrator.New(brief, tool.NewCatalog(), synthesizer.New(), tables)
	if err != nil {
		return nil, err
	}

	return &Analyst{orch: orch}, nil
}

// Load builds an analyst from configuration: CSV directory or Postgres
// source, plus an optional brief file.
func Load(ctx context.Context, cfg Config) (*Analyst, error) {
	var (
		tables *dataset.Tables
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceCSV:
		tables, err = dataset.LoadDir(cfg.DataDir)
	case SourcePostgres:
		pgCfg, cfgErr := configx.New[dataset.PostgresConfig]("ANALYST_PG")
		if cfgErr != nil {
			return nil, fmt.Errorf("postgres source config: %w", cfgErr)
		}
		tables, err = dataset.LoadPostgres(ctx, *pgCfg)
	default:
		return nil, fmt.Errorf("unknown table source %q", cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	brief := knowledge.Default()
	if strings.TrimSpace(cfg.BriefPath) != "" {
		brief, err = knowledge.LoadFile(cfg.BriefPath)
		if err != nil {
			return nil, fmt.Errorf("load business brief: %w", err)
		}
	}

	return New(tables, brief)
}

// Ask answers one free-text question. The answer is always non-empty; a
// failed analysis degrades to context-only narration.
func (a *Analyst) Ask(ctx context.Context, query string) (string, error) {
	if a == nil || a.orch == nil {
		return "", errors.New("analyst is not initialized")
	}
	return a.orch.HandleQuery(ctx, query)
}
