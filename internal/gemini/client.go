// ABOUTME: Gemini model adapter for the conversation loop
// ABOUTME: Declares catalog tools as functions and returns the first candidate
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Roles used in conversation history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxOutputTokens = 2024
)

// ErrNoCandidates is returned when the model answers without content.
var ErrNoCandidates = errors.New("model returned no candidates")

// ToolSpec is what a function declaration is built from.
type ToolSpec interface {
	Name() string
	Description() string
	InputSchema() any
}

// Options configures a Client.
type Options struct {
	Model           string
	MaxOutputTokens int32
	Logger          *slog.Logger
}

// Client sends conversation history to Gemini with the catalog's tools
// attached to every request.
type Client struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *slog.Logger
}

// NewClient creates a Gemini API client. Tools whose schema cannot be
// converted are left out with a warning.
func NewClient(ctx context.Context, apiKey string, tools []ToolSpec, opts Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxOutputTokens == 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: gc,
		model:  opts.Model,
		config: NewConfig(tools, opts.MaxOutputTokens, opts.Logger),
		logger: opts.Logger,
	}, nil
}

// NewConfig builds the generation config sent with every request.
func NewConfig(tools []ToolSpec, maxOutputTokens int32, logger *slog.Logger) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens}
	if decls := Declarations(tools, logger); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// Declarations converts tools to Gemini function declarations.
func Declarations(tools []ToolSpec, logger *slog.Logger) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		params, err := CleanSchema(t.InputSchema())
		if err != nil {
			logger.Warn("skipping tool with unusable schema", "tool", t.Name(), "error", err)
			continue
		}
		if params != nil && params.Type == genai.TypeObject && len(params.Properties) == 0 {
			params = nil
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  params,
		})
	}
	return decls
}

// Model returns the model id requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends history and returns the model's reply content.
func (c *Client) Generate(ctx context.Context, history []*genai.Content) (*genai.Content, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, history, c.config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return firstCandidate(res)
}

func firstCandidate(res *genai.GenerateContentResponse) (*genai.Content, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		if res != nil && res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidates, res.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	content := res.Candidates[0].Content
	if content.Role == "" {
		content.Role = RoleModel
	}
	return content, nil
}
