package service

import (
	"context"
	"errors"
)

// ErrAIUnavailable means no AI backend is configured. Callers treat it as a
// normal branch and use the lexical extractor instead.
var ErrAIUnavailable = errors.New("ai backend unavailable")

// IntentExtractor turns a shopping query into loosely structured intent.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, query string) (*AIIntent, error)
}

// AIIntent is the raw model answer. Values are free-form and must be
// normalized before use.
type AIIntent struct {
	Category *string  `json:"category"`
	Color    *string  `json:"color"`
	Keywords []string `json:"keywords"`
}

// Ensure OpenAIClient implements IntentExtractor
var _ IntentExtractor = (*OpenAIClient)(nil)
