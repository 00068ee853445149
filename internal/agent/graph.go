package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/devmate-go/internal/llm"
	"github.com/raphaelgruber/devmate-go/internal/metrics"
	"github.com/raphaelgruber/devmate-go/internal/models"
	"github.com/raphaelgruber/devmate-go/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// Node identifies a state of the orchestration graph.
type Node string

const (
	NodeRouter       Node = "router"
	NodeNL2SQL       Node = "nl2sql"
	NodePlanner      Node = "planner"
	NodeToolExecutor Node = "tool_executor"
	NodeRespond      Node = "respond"
)

// maxToolRounds caps the planner/tool-executor cycle per turn. Without a
// bound a planner that keeps requesting tools would loop forever; after the
// cap the graph forces synthesis from whatever the transcript holds.
const maxToolRounds = 6

// chatModel is the slice of the LLM wrapper the engine needs.
type chatModel interface {
	Chat(ctx context.Context, systemPrompt string, transcript []models.Message, tools []llms.Tool) (*llm.Completion, error)
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// sqlRunner is the NL2SQL subsystem.
type sqlRunner interface {
	Run(ctx context.Context, question, userID string) *models.NL2SQLResponse
}

// Engine wires the graph nodes over their collaborators. Construct once at
// process start and share across requests; all per-turn state lives in State.
type Engine struct {
	llm      chatModel
	nl2sql   sqlRunner
	registry *tools.Registry
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewEngine creates the orchestration engine. collector may be nil.
func NewEngine(model chatModel, sql sqlRunner, registry *tools.Registry, collector *metrics.Collector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{llm: model, nl2sql: sql, registry: registry, metrics: collector, logger: logger}
}

// Run executes one turn: the graph walks from the router to the terminal
// respond node and returns the final assistant reply. Errors are returned
// only for unrecoverable infrastructure failures; everything else surfaces
// as an answer.
func (e *Engine) Run(ctx context.Context, st *State) (string, error) {
	node := NodeRouter
	for {
		if err := e.exec(ctx, node, st); err != nil {
			return "", fmt.Errorf("node %s: %w", node, err)
		}
		if node == NodeRespond {
			break
		}
		node = e.Transition(node, st)
	}

	last := st.LastMessage()
	if last.Role != models.RoleAssistant {
		return "", fmt.Errorf("graph terminated without an assistant message")
	}
	return last.Content, nil
}

// exec runs a single node's side effects against the state.
func (e *Engine) exec(ctx context.Context, node Node, st *State) error {
	if e.metrics != nil {
		start := time.Now()
		defer func() { e.metrics.RecordTiming(nodeOp(node), time.Since(start)) }()
	}

	switch node {
	case NodeRouter:
		e.route(ctx, st)
		return nil
	case NodeNL2SQL:
		e.runSQL(ctx, st)
		return nil
	case NodePlanner:
		return e.plan(ctx, st)
	case NodeToolExecutor:
		e.executeTool(ctx, st)
		return nil
	case NodeRespond:
		return e.respond(ctx, st)
	default:
		return fmt.Errorf("unknown node %q", node)
	}
}

// nodeOp maps a graph node to its metrics operation name.
func nodeOp(node Node) string {
	switch node {
	case NodeRouter:
		return metrics.OpClassify
	case NodeNL2SQL:
		return metrics.OpNL2SQL
	case NodePlanner:
		return metrics.OpPlan
	case NodeToolExecutor:
		return metrics.OpToolInvoke
	default:
		return metrics.OpRespond
	}
}

// Transition is the graph's fixed conditional-edge table. It is a pure
// function of (node, state) so every edge can be tested exhaustively.
func (e *Engine) Transition(node Node, st *State) Node {
	switch node {
	case NodeRouter:
		if st.IsSQLQuery {
			return NodeNL2SQL
		}
		return NodePlanner

	case NodeNL2SQL:
		return NodeRespond

	case NodePlanner:
		call := st.LastMessage().FirstToolCall()
		if call == nil {
			return NodeRespond
		}
		if !e.registry.Has(call.Name) {
			// Fail closed: an unregistered tool is never invoked.
			e.logger.Warn("planner requested unregistered tool", "tool", call.Name)
			return NodeRespond
		}
		if st.ToolRounds() >= maxToolRounds {
			e.logger.Warn("tool round limit reached, forcing response", "rounds", st.ToolRounds())
			return NodeRespond
		}
		return NodeToolExecutor

	case NodeToolExecutor:
		return NodePlanner

	default:
		return NodeRespond
	}
}
