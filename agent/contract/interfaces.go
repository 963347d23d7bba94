package contract

import (
	"github.com/shopease/churn-analyst/agent/dataset"
)

type Retriever interface {
	Retrieve(query string) string
}

type Tool interface {
	Name() string
	Describe() string
	Run(tables *dataset.Tables) ToolResult
}

// Catalog resolves tool names chosen by the router. Default is the tool used
// when no routing rule matches.
type Catalog interface {
	Lookup(name string) (Tool, bool)
	Default() Tool
}

type Synthesizer interface {
	Compose(req ComposeRequest) string
}
