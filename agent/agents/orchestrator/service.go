// Package orchestrator routes a free-text analytics question to one tool,
// retrieves business context, and hands everything to the synthesizer. One
// query is one synchronous pass; failures are contained here and degrade
// the answer instead of aborting it.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
	logx "github.com/shopease/churn-analyst/pkg/logger"
)

type Orchestrator struct {
	retriever contractx.Retriever
	catalog   contractx.Catalog
	synth     contractx.Synthesizer
	tables    *dataset.Tables

	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func New(
	retriever contractx.Retriever,
	catalog contractx.Catalog,
	synth contractx.Synthesizer,
	tables *dataset.Tables,
) (*Orchestrator, error) {
	if retriever == nil {
		return nil, errors.New("context retriever is required")
	}
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}
	if synth == nil {
		return nil, errors.New("synthesizer is required")
	}

	return &Orchestrator{
		retriever: retriever,
		catalog:   catalog,
		synth:     synth,
		tables:    tables,
		log:       logx.Component("orchestrator"),
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// HandleQuery processes one query start to finish and always returns a
// non-empty answer; tool failures surface inside the answer text.
func (o *Orchestrator) HandleQuery(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	queryID := o.newID()
	started := o.now()

	retrieved := o.retriever.Retrieve(query)

	rt := route(query)
	selected, ok := o.catalog.Lookup(rt.Tool)
	if !ok {
		// The routing table only names catalog tools; treat a miss as a
		// routing miss rather than a fault.
		o.log.Warn().Str("query_id", queryID).Str("tool", rt.Tool).Err(contractx.ErrUnknownTool).Msg("routed tool not in catalog")
		selected = o.catalog.Default()
		rt = contractx.Route{Tool: selected.Name(), Plan: "summarize the data", Fallback: true}
	}

	result := o.runTool(selected)

	event := o.log.Info().
		Str("query_id", queryID).
		Str("tool", rt.Tool).
		Bool("fallback", rt.Fallback).
		Dur("took", o.now().Sub(started))
	if result.Failed() {
		event = event.Str("tool_error", result.Error)
	}
	event.Msg("query handled")

	return o.synth.Compose(contractx.ComposeRequest{
		Query:   query,
		Route:   rt,
		Context: retrieved,
		Result:  result,
	}), nil
}

// runTool invokes one tool behind a recover guard: a panicking tool becomes
// a failed result, never an escaped fault.
func (o *Orchestrator) runTool(t contractx.Tool) (result contractx.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("tool", t.Name()).Interface("panic", r).Msg("tool panicked")
			result = contractx.ToolResult{
				Tool:  t.Name(),
				Error: fmt.Sprintf("analysis unavailable: %v", r),
			}
		}
	}()
	return t.Run(o.tables)
}
