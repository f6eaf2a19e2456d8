// ABOUTME: Conversation loop that alternates model calls and tool dispatch
// ABOUTME: Runs one user turn until the model stops requesting function calls
package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/harper/paperchat/internal/gemini"
)

// DefaultMaxRounds caps model calls per turn when Options leaves it zero.
const DefaultMaxRounds = 10

// ErrRoundLimit is returned when a turn is still requesting function
// calls after the maximum number of model calls.
var ErrRoundLimit = errors.New("tool call round limit reached")

// Model produces the next reply for a conversation history.
type Model interface {
	Generate(ctx context.Context, history []*genai.Content) (*genai.Content, error)
}

// Dispatcher executes a named tool.
type Dispatcher interface {
	Call(ctx context.Context, name string, args map[string]any) (string, error)
}

// Options tunes a Loop.
type Options struct {
	MaxRounds int
	Parallel  bool
	// OnCall is invoked for each function call before it is dispatched.
	OnCall func(call *genai.FunctionCall)
	Logger *slog.Logger
}

// ToolCall records one dispatched function call.
type ToolCall struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args,omitempty"`
	Result string         `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Result is the outcome of one turn.
type Result struct {
	ID         string
	Text       string
	History    []*genai.Content
	ModelCalls int
	ToolCalls  []ToolCall
}

// Loop drives the model/tool exchange for a single turn.
type Loop struct {
	model Model
	tools Dispatcher
	opts  Options
}

// NewLoop creates a loop over model and tools.
func NewLoop(model Model, tools Dispatcher, opts Options) *Loop {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Loop{model: model, tools: tools, opts: opts}
}

// Turn appends input to a copy of history and calls the model until it
// answers without function calls. The returned Result always carries the
// history accumulated so far; history itself is never modified.
func (l *Loop) Turn(ctx context.Context, history []*genai.Content, input string) (*Result, error) {
	res := &Result{ID: uuid.NewString()}
	logger := l.opts.Logger.With("turn", res.ID)

	msgs := slices.Clone(history)
	msgs = append(msgs, genai.NewContentFromText(input, gemini.RoleUser))

	for round := 0; round < l.opts.MaxRounds; round++ {
		reply, err := l.model.Generate(ctx, msgs)
		res.ModelCalls++
		if err != nil {
			res.History = msgs
			return res, err
		}
		msgs = append(msgs, reply)

		calls := functionCalls(reply)
		if len(calls) == 0 {
			res.Text = replyText(reply)
			res.History = msgs
			logger.Debug("turn complete", "model_calls", res.ModelCalls, "tool_calls", len(res.ToolCalls))
			return res, nil
		}

		logger.Debug("dispatching function calls", "round", round+1, "count", len(calls))
		records := l.dispatch(ctx, calls)
		parts := make([]*genai.Part, 0, len(records))
		for i, rec := range records {
			parts = append(parts, functionResponse(calls[i], rec))
		}
		res.ToolCalls = append(res.ToolCalls, records...)
		msgs = append(msgs, &genai.Content{Role: gemini.RoleUser, Parts: parts})
	}

	logger.Warn("round limit reached", "max_rounds", l.opts.MaxRounds)
	res.History = msgs
	return res, ErrRoundLimit
}

// dispatch runs every call and returns the records in request order.
func (l *Loop) dispatch(ctx context.Context, calls []*genai.FunctionCall) []ToolCall {
	for _, call := range calls {
		if l.opts.OnCall != nil {
			l.opts.OnCall(call)
		}
	}

	records := make([]ToolCall, len(calls))
	if !l.opts.Parallel || len(calls) == 1 {
		for i, call := range calls {
			records[i] = l.call(ctx, call)
		}
		return records
	}

	// Tool failures are recorded per call, so no goroutine fails the
	// group and Wait only joins them.
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			records[i] = l.call(gctx, call)
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func (l *Loop) call(ctx context.Context, call *genai.FunctionCall) ToolCall {
	rec := ToolCall{Name: call.Name, Args: call.Args}
	out, err := l.tools.Call(ctx, call.Name, call.Args)
	if err != nil {
		rec.Error = err.Error()
		l.opts.Logger.Info("tool call failed", "tool", call.Name, "error", err)
		return rec
	}
	rec.Result = out
	return rec
}

func functionResponse(call *genai.FunctionCall, rec ToolCall) *genai.Part {
	response := map[string]any{"result": rec.Result}
	if rec.Error != "" {
		response = map[string]any{"error": rec.Error}
	}
	return &genai.Part{FunctionResponse: &genai.FunctionResponse{
		ID:       call.ID,
		Name:     call.Name,
		Response: response,
	}}
}

func functionCalls(c *genai.Content) []*genai.FunctionCall {
	if c == nil {
		return nil
	}
	var calls []*genai.FunctionCall
	for _, p := range c.Parts {
		if p != nil && p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}

func replyText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
