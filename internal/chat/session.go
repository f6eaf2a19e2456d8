// ABOUTME: Multi-turn chat session holding the conversation history
// ABOUTME: A failed turn leaves the history as it was before the turn
package chat

import (
	"context"
	"slices"

	"google.golang.org/genai"
)

// Session keeps history across turns.
type Session struct {
	loop    *Loop
	history []*genai.Content
}

// NewSession starts an empty conversation.
func NewSession(loop *Loop) *Session {
	return &Session{loop: loop}
}

// Send runs one turn. On error the turn is discarded so the next turn
// never starts from unanswered function calls.
func (s *Session) Send(ctx context.Context, input string) (*Result, error) {
	res, err := s.loop.Turn(ctx, s.history, input)
	if err != nil {
		return res, err
	}
	s.history = res.History
	return res, nil
}

// History returns a copy of the accumulated conversation.
func (s *Session) History() []*genai.Content {
	return slices.Clone(s.history)
}
