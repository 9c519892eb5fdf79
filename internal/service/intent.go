package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

// Intent sources reported on model.Intent.Source.
const (
	SourceAI          = "ai"
	SourceFallback    = "fallback"
	SourceAIFallback  = "ai+fallback"
	fallbackTrimChars = ".,!?"
)

// IntentParser turns a chat message into a normalized model.Intent. The AI
// extractor is optional; the lexical fallback always runs when the AI answer
// lacks keywords or a category.
type IntentParser struct {
	ai        IntentExtractor
	stopwords map[string]struct{}
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewIntentParser creates a new intent parser. ai may be nil.
func NewIntentParser(ai IntentExtractor, stopwords []string, logger *zap.Logger, m *metrics.Metrics) *IntentParser {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentParser{ai: ai, stopwords: set, logger: logger, metrics: m}
}

// Parse extracts intent from query. It never fails; at worst every field of
// the returned intent is empty.
func (p *IntentParser) Parse(ctx context.Context, query string) model.Intent {
	intent := model.Intent{RawMessage: query, Keywords: []string{}}

	aiIntent, err := p.extractWithAI(ctx, query)
	switch {
	case errors.Is(err, ErrAIUnavailable):
		p.logger.Debug("AI extractor unavailable, using lexical fallback")
		p.metrics.AIFallback("unavailable")
	case err != nil:
		p.logger.Warn("AI intent extraction failed, using lexical fallback", zap.Error(err))
		p.metrics.AIFallback("error")
	default:
		p.applyAI(&intent, aiIntent)
		intent.Source = SourceAI
	}

	if len(intent.Keywords) == 0 || intent.Category == "" {
		fb := p.Fallback(query)
		if intent.Category == "" {
			intent.Category = fb.Category
		}
		if intent.Color == "" {
			intent.Color = fb.Color
		}
		if len(intent.Keywords) == 0 {
			intent.Keywords = fb.Keywords
		}
		if intent.Source == SourceAI {
			intent.Source = SourceAIFallback
		} else {
			intent.Source = SourceFallback
		}
	}

	intent.Keywords = stripRatingStopwords(intent.Keywords)
	return intent
}

func (p *IntentParser) extractWithAI(ctx context.Context, query string) (*AIIntent, error) {
	if p.ai == nil {
		return nil, ErrAIUnavailable
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrAIUnavailable
	}
	return p.ai.ExtractIntent(ctx, query)
}

// applyAI copies the AI answer onto intent, discarding values outside the
// fixed enumerations.
func (p *IntentParser) applyAI(intent *model.Intent, ai *AIIntent) {
	if ai.Category != nil {
		if c, ok := model.ParseCategory(*ai.Category); ok {
			intent.Category = c
		} else if *ai.Category != "" {
			p.logger.Debug("discarding unknown AI category", zap.String("category", *ai.Category))
		}
	}
	if ai.Color != nil {
		if c, ok := NormalizeColor(*ai.Color); ok {
			intent.Color = c
		} else if *ai.Color != "" {
			p.logger.Debug("discarding unknown AI color", zap.String("color", *ai.Color))
		}
	}
	for _, k := range ai.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			intent.Keywords = append(intent.Keywords, k)
		}
	}
}

// Fallback is the deterministic extractor. For each whitespace token (outer
// punctuation stripped) the first matching category and color are kept, and
// every token longer than two characters that is not a stopword becomes a
// keyword. Category and color words may double as keywords.
func (p *IntentParser) Fallback(query string) model.Intent {
	intent := model.Intent{RawMessage: query, Keywords: []string{}}

	for _, word := range strings.Fields(strings.ToLower(query)) {
		token := strings.Trim(word, fallbackTrimChars)

		if intent.Color == "" {
			if c, ok := lookupColor(token); ok {
				intent.Color = c
			}
		}
		if intent.Category == "" {
			if c, ok := lookupCategory(token); ok {
				intent.Category = c
			}
		}
		if _, stop := p.stopwords[token]; utf8.RuneCountInString(token) > 2 && !stop {
			intent.Keywords = append(intent.Keywords, token)
		}
	}
	return intent
}

func stripRatingStopwords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := ratingStopwords[strings.ToLower(k)]; ok {
			continue
		}
		out = append(out, k)
	}
	return out
}
