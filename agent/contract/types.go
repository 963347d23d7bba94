package contract

// Finding is one labeled value in an ordered breakdown, e.g. a churn rate
// per signup channel sorted worst-first.
type Finding struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ToolResult is the structured output of a single analysis tool. A failed
// run carries the reason in Error instead of a Go error so the orchestrator
// can degrade the answer rather than abort it.
type ToolResult struct {
	Tool      string             `json:"tool"`
	Summary   string             `json:"summary,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Breakdown []Finding          `json:"breakdown,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Failed reports whether the tool produced no usable analysis.
func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// Route describes the routing decision for one query.
type Route struct {
	Tool     string `json:"tool"`
	Plan     string `json:"plan"`
	Keyword  string `json:"keyword,omitempty"`
	Fallback bool   `json:"fallback"`
}

// ComposeRequest carries everything the synthesizer needs for one answer.
type ComposeRequest struct {
	Query   string     `json:"query"`
	Route   Route      `json:"route"`
	Context string     `json:"context"`
	Result  ToolResult `json:"result"`
}
