package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Tool names. The registry is closed: the planner may only request these.
const (
	PRDiffTool         = "pr_diff_tool"
	PRSummaryTool      = "pr_summary_tool"
	DocSearchTool      = "doc_search_tool"
	LearningSearchTool = "learning_search_tool"
	PRSearchTool       = "pr_search_tool"
)

// ErrUnknownTool indicates a requested tool is not in the registry.
// Dispatch fails closed: an unknown name is never invoked.
var ErrUnknownTool = errors.New("unknown tool")

// Arguments is the decoded argument set for one invocation.
type Arguments map[string]any

// String returns the named argument as a string, or "" when absent.
func (a Arguments) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Handler executes one tool invocation. Errors are reported to the caller,
// which folds them into the transcript rather than aborting the turn.
type Handler func(ctx context.Context, args Arguments) (string, error)

// Tool binds a name and schema to its handler.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	handler     Handler
}

// Registry is the fixed name-to-tool mapping.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry builds the full registry over the given dependencies.
func NewRegistry(deps *Dependencies) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	r.register(newPRDiffTool(deps))
	r.register(newPRSummaryTool(deps))
	r.register(newDocSearchTool(deps))
	r.register(newLearningSearchTool(deps))
	r.register(newPRSearchTool(deps))
	return r
}

func (r *Registry) register(t Tool) {
	r.order = append(r.order, t.Name)
	r.tools[t.Name] = t
}

// Has reports whether the named tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Invoke dispatches to the named tool. Unknown names fail closed.
func (r *Registry) Invoke(ctx context.Context, name string, args Arguments) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.handler(ctx, args)
}

// Definitions returns the tool schemas in the shape the planner model expects.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// schema builds a JSON-schema object for the given properties.
func schema(props map[string]any, required []string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
