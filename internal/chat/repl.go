// ABOUTME: Interactive read-eval-print loop for the chatbot
// ABOUTME: Routes commands to resources and prompts and chat text to the model
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"google.golang.org/genai"

	"github.com/harper/paperchat/internal/host"
	"github.com/harper/paperchat/internal/logging"
)

// Catalog is what the REPL reads resources and prompts from.
type Catalog interface {
	ReadResource(ctx context.Context, uri string) (string, error)
	Prompts() []host.PromptInfo
	GetPrompt(ctx context.Context, name string, args map[string]string) (string, error)
}

// Recorder stores completed turns.
type Recorder interface {
	Record(turn logging.Turn) error
}

// REPLConfig wires a REPL.
type REPLConfig struct {
	In       io.Reader
	Out      io.Writer
	Session  *Session
	Catalog  Catalog
	Recorder Recorder
	Logger   *slog.Logger
}

// REPL reads lines from In until quit or EOF.
type REPL struct {
	in       io.Reader
	out      io.Writer
	session  *Session
	catalog  Catalog
	recorder Recorder
	logger   *slog.Logger
}

var (
	errColor    = color.New(color.FgRed)
	noticeColor = color.New(color.FgYellow)
	callColor   = color.New(color.FgCyan)
	infoColor   = color.New(color.FgGreen)
)

// NewREPL creates a REPL from cfg.
func NewREPL(cfg REPLConfig) *REPL {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &REPL{
		in:       cfg.In,
		out:      cfg.Out,
		session:  cfg.Session,
		catalog:  cfg.Catalog,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// PrintCall returns an OnCall hook announcing each tool call on w.
func PrintCall(w io.Writer) func(*genai.FunctionCall) {
	return func(call *genai.FunctionCall) {
		args, err := json.Marshal(call.Args)
		if err != nil {
			args = []byte(fmt.Sprint(call.Args))
		}
		_, _ = callColor.Fprintf(w, "Calling tool %s with args %s\n", call.Name, args)
	}
}

// Banner prints the startup help text.
func (r *REPL) Banner() {
	_, _ = infoColor.Fprintln(r.out, "\nMCP Chatbot Started!")
	fmt.Fprintln(r.out, "Type your queries or 'quit' to exit.")
	fmt.Fprintln(r.out, "Use @folders to see available topics")
	fmt.Fprintln(r.out, "Use @<topic> to search papers in that topic")
	fmt.Fprintln(r.out, "Use /prompts to list available prompts")
	fmt.Fprintln(r.out, "Use /prompt <name> <arg1=value1> to execute a prompt")
}

// Run processes input until quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		if !r.Handle(ctx, scanner.Text()) {
			fmt.Fprintln(r.out, "Exiting chat. Goodbye!")
			return nil
		}
	}
}

// Handle processes one input line. It returns false when the session
// should end.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	cmd := ParseCommand(line)
	switch cmd.Kind {
	case CmdEmpty:
	case CmdQuit:
		return false
	case CmdResource:
		r.readResource(ctx, cmd.URI)
	case CmdListPrompts:
		r.listPrompts()
	case CmdPromptUsage:
		fmt.Fprintln(r.out, "Usage: /prompt <name> <arg1=value1> <arg2=value2>")
	case CmdPrompt:
		r.runPrompt(ctx, cmd.Prompt, cmd.Args)
	case CmdChat:
		r.chat(ctx, cmd.Text)
	}
	return true
}

func (r *REPL) readResource(ctx context.Context, uri string) {
	text, err := r.catalog.ReadResource(ctx, uri)
	if err != nil {
		if errors.Is(err, host.ErrUnknownResource) {
			_, _ = errColor.Fprintf(r.out, "Resource '%s' not found.\n", uri)
			return
		}
		_, _ = errColor.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "\nResource: %s\n", uri)
	fmt.Fprintln(r.out, "Content:")
	if text == "" {
		fmt.Fprintln(r.out, "No content available.")
		return
	}
	fmt.Fprintln(r.out, text)
}

func (r *REPL) listPrompts() {
	prompts := r.catalog.Prompts()
	if len(prompts) == 0 {
		fmt.Fprintln(r.out, "No prompts available.")
		return
	}

	fmt.Fprintln(r.out, "\nAvailable prompts:")
	for _, p := range prompts {
		fmt.Fprintf(r.out, "- %s: %s\n", p.Name, p.Description)
		if len(p.Arguments) == 0 {
			continue
		}
		fmt.Fprintln(r.out, "  Arguments:")
		for _, arg := range p.Arguments {
			if arg.Required {
				fmt.Fprintf(r.out, "    - %s (required)\n", arg.Name)
			} else {
				fmt.Fprintf(r.out, "    - %s\n", arg.Name)
			}
		}
	}
}

func (r *REPL) runPrompt(ctx context.Context, name string, args map[string]string) {
	text, err := r.catalog.GetPrompt(ctx, name, args)
	if err != nil {
		if errors.Is(err, host.ErrUnknownPrompt) {
			_, _ = errColor.Fprintf(r.out, "Prompt '%s' not found.\n", name)
			return
		}
		_, _ = errColor.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "\nExecuting prompt '%s'...\n", name)
	r.chat(ctx, text)
}

func (r *REPL) chat(ctx context.Context, input string) {
	start := time.Now()
	res, err := r.session.Send(ctx, input)
	r.record(start, input, res, err)

	switch {
	case errors.Is(err, ErrRoundLimit):
		_, _ = noticeColor.Fprintf(r.out, "Stopped after %d model calls without a final answer; the turn was discarded.\n", res.ModelCalls)
	case err != nil:
		_, _ = errColor.Fprintf(r.out, "Error: %v\n", err)
	default:
		fmt.Fprintf(r.out, "Gemini:\n%s\n", res.Text)
	}
}

func (r *REPL) record(start time.Time, input string, res *Result, err error) {
	if r.recorder == nil || res == nil {
		return
	}

	turn := logging.Turn{
		ID:        res.ID,
		Timestamp: start,
		Input:     input,
		Output:    res.Text,
		Rounds:    res.ModelCalls,
	}
	for _, call := range res.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, call.Name)
	}
	if err != nil {
		turn.Error = err.Error()
	}

	if recErr := r.recorder.Record(turn); recErr != nil {
		r.logger.Warn("failed to write transcript", "error", recErr)
	}
}
