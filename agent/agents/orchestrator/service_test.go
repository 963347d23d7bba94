package orchestrator

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
	"github.com/shopease/churn-analyst/agent/synthesizer"
	"github.com/shopease/churn-analyst/agent/tool"
)

type fakeRetriever struct {
	context string
	queries []string
}

func (f *fakeRetriever) Retrieve(query string) string {
	f.queries = append(f.queries, query)
	return f.context
}

type fakeTool struct {
	name   string
	result contractx.ToolResult
	panics bool
	calls  int
}

func (f *fakeTool) Name() string     { return f.name }
func (f *fakeTool) Describe() string { return "fake tool" }

func (f *fakeTool) Run(*dataset.Tables) contractx.ToolResult {
	f.calls++
	if f.panics {
		panic("boom")
	}
	return f.result
}

type fakeCatalog struct {
	tools    map[string]contractx.Tool
	fallback contractx.Tool
}

func (f *fakeCatalog) Lookup(name string) (contractx.Tool, bool) {
	t, ok := f.tools[name]
	return t, ok
}

func (f *fakeCatalog) Default() contractx.Tool {
	return f.fallback
}

type fakeSynth struct {
	requests []contractx.ComposeRequest
}

func (f *fakeSynth) Compose(req contractx.ComposeRequest) string {
	f.requests = append(f.requests, req)
	return "answer"
}

func newTestOrchestrator(t *testing.T, retriever contractx.Retriever, catalog contractx.Catalog, synth contractx.Synthesizer) *Orchestrator {
	t.Helper()
	o, err := New(retriever, catalog, synth, nil)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func TestNewValidatesDependencies(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{fallback: &fakeTool{name: "default"}}
	synth := &fakeSynth{}

	if _, err := New(nil, catalog, synth, nil); err == nil {
		t.Fatal("expected error for nil retriever")
	}
	if _, err := New(&fakeRetriever{}, nil, synth, nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
	if _, err := New(&fakeRetriever{}, catalog, nil, nil); err == nil {
		t.Fatal("expected error for nil synthesizer")
	}
}

func TestHandleQueryRetrievesAndRoutes(t *testing.T) {
	t.Parallel()

	delivery := &fakeTool{
		name:   tool.ToolDeliveryImpact,
		result: contractx.ToolResult{Tool: tool.ToolDeliveryImpact, Summary: "gap found"},
	}
	retriever := &fakeRetriever{context: "brief context"}
	synth := &fakeSynth{}
	o := newTestOrchestrator(t, retriever, &fakeCatalog{
		tools:    map[string]contractx.Tool{tool.ToolDeliveryImpact: delivery},
		fallback: &fakeTool{name: tool.ToolDataSummary},
	}, synth)

	answer, err := o.HandleQuery(context.Background(), "Does delivery time affect churn?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "answer" {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if delivery.calls != 1 {
		t.Fatalf("delivery tool called %d times", delivery.calls)
	}
	if len(retriever.queries) != 1 || retriever.queries[0] != "Does delivery time affect churn?" {
		t.Fatalf("retriever must always be consulted: %v", retriever.queries)
	}

	req := synth.requests[0]
	if req.Context != "brief context" {
		t.Fatalf("context not passed through: %+v", req)
	}
	if req.Route.Tool != tool.ToolDeliveryImpact || req.Route.Fallback {
		t.Fatalf("unexpected route: %+v", req.Route)
	}
	if req.Result.Summary != "gap found" {
		t.Fatalf("unexpected result: %+v", req.Result)
	}
}

func TestHandleQueryToolPanicIsContained(t *testing.T) {
	t.Parallel()

	panicky := &fakeTool{name: tool.ToolChurnModel, panics: true}
	synth := &fakeSynth{}
	o := newTestOrchestrator(t, &fakeRetriever{context: "ctx"}, &fakeCatalog{
		tools:    map[string]contractx.Tool{tool.ToolChurnModel: panicky},
		fallback: &fakeTool{name: tool.ToolDataSummary},
	}, synth)

	if _, err := o.HandleQuery(context.Background(), "train the model"); err != nil {
		t.Fatalf("panic must not escape: %v", err)
	}

	result := synth.requests[0].Result
	if !result.Failed() {
		t.Fatal("expected failed result after panic")
	}
	if !strings.Contains(result.Error, "analysis unavailable") {
		t.Fatalf("unexpected failure text: %s", result.Error)
	}
}

func TestHandleQueryUnknownToolFallsBack(t *testing.T) {
	t.Parallel()

	fallback := &fakeTool{
		name:   tool.ToolDataSummary,
		result: contractx.ToolResult{Tool: tool.ToolDataSummary, Summary: "totals"},
	}
	synth := &fakeSynth{}
	// Catalog misses the delivery tool entirely.
	o := newTestOrchestrator(t, &fakeRetriever{}, &fakeCatalog{
		tools:    map[string]contractx.Tool{},
		fallback: fallback,
	}, synth)

	if _, err := o.HandleQuery(context.Background(), "delivery problems"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fallback.calls != 1 {
		t.Fatalf("fallback tool called %d times", fallback.calls)
	}
	if !synth.requests[0].Route.Fallback {
		t.Fatalf("route must be marked fallback: %+v", synth.requests[0].Route)
	}
}

func TestHandleQueryCancelledContext(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeRetriever{}, &fakeCatalog{
		fallback: &fakeTool{name: tool.ToolDataSummary},
	}, &fakeSynth{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.HandleQuery(ctx, "anything"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestHandleQueryEndToEndFallbackAnswer(t *testing.T) {
	t.Parallel()

	tables, err := dataset.Build(
		[]dataset.Customer{{ID: "C001", City: "Pune"}, {ID: "C002", City: "Delhi"}},
		nil,
		nil,
		[]dataset.ChurnLabel{
			{CustomerID: "C001", Churned: true},
			{CustomerID: "C002", Churned: false},
		},
	)
	if err != nil {
		t.Fatalf("build tables: %v", err)
	}

	o, err := New(&fakeRetriever{}, tool.NewCatalog(), synthesizer.New(), tables)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	answer, err := o.HandleQuery(context.Background(), "tell me a joke")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer == "" {
		t.Fatal("answer must never be empty")
	}
	if !strings.Contains(answer, "No specific analysis matched") {
		t.Fatalf("fallback note missing:\n%s", answer)
	}
}
