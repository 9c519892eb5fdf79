package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/config"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

type fakeExtractor struct {
	result *AIIntent
	err    error
	calls  int
}

func (f *fakeExtractor) ExtractIntent(_ context.Context, _ string) (*AIIntent, error) {
	f.calls++
	return f.result, f.err
}

func strPtr(s string) *string { return &s }

func newTestParser(ai IntentExtractor) (*IntentParser, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewIntentParser(ai, config.DefaultStopwords, nil, m), m
}

func TestIntentParser_WithoutAI(t *testing.T) {
	parser, m := newTestParser(nil)

	tests := []struct {
		name     string
		query    string
		category model.Category
		color    model.Color
		keywords []string
	}{
		{
			name:     "color and category",
			query:    "show me blue jewelry",
			category: model.CategoryJewelry,
			color:    model.ColorBlue,
			keywords: []string{"blue", "jewelry"},
		},
		{
			name:     "rating words are stripped",
			query:    "find 4.5 star electronics",
			category: model.CategoryElectronics,
			keywords: []string{"find", "4.5", "electronics"},
		},
		{
			name:     "synonym maps to canonical color",
			query:    "Navy shirt!",
			category: model.CategoryMensClothing,
			color:    model.ColorBlue,
			keywords: []string{"navy", "shirt"},
		},
		{
			name:     "first color wins",
			query:    "dark blue jacket",
			category: model.CategoryMensClothing,
			color:    model.ColorBlack,
			keywords: []string{"dark", "blue", "jacket"},
		},
		{
			name:     "empty query",
			query:    "",
			keywords: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := parser.Parse(context.Background(), tt.query)

			assert.Equal(t, tt.query, intent.RawMessage)
			assert.Equal(t, tt.category, intent.Category)
			assert.Equal(t, tt.color, intent.Color)
			assert.Equal(t, tt.keywords, intent.Keywords)
			assert.Equal(t, SourceFallback, intent.Source)
		})
	}

	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(m.AIFallbacks.WithLabelValues("unavailable")))
}

func TestIntentParser_AIComplete(t *testing.T) {
	ai := &fakeExtractor{result: &AIIntent{
		Category: strPtr("jewelery"),
		Color:    strPtr("Gold"),
		Keywords: []string{"ring", " ", "stars"},
	}}
	parser, _ := newTestParser(ai)

	intent := parser.Parse(context.Background(), "gold ring with 4 stars")

	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, model.CategoryJewelry, intent.Category)
	assert.Equal(t, model.ColorYellow, intent.Color)
	assert.Equal(t, []string{"ring"}, intent.Keywords)
	assert.Equal(t, SourceAI, intent.Source)
}

func TestIntentParser_AIPartialFilledByFallback(t *testing.T) {
	ai := &fakeExtractor{result: &AIIntent{
		Category: nil,
		Color:    strPtr("silver"),
		Keywords: []string{"backpack"},
	}}
	parser, _ := newTestParser(ai)

	intent := parser.Parse(context.Background(), "red laptop backpack")

	// Category comes from the fallback, the unknown AI color is discarded
	// and then filled too, keywords stay with the AI answer.
	assert.Equal(t, model.CategoryElectronics, intent.Category)
	assert.Equal(t, model.ColorRed, intent.Color)
	assert.Equal(t, []string{"backpack"}, intent.Keywords)
	assert.Equal(t, SourceAIFallback, intent.Source)
}

func TestIntentParser_AIErrorFallsBack(t *testing.T) {
	ai := &fakeExtractor{err: errors.New("boom")}
	parser, m := newTestParser(ai)

	intent := parser.Parse(context.Background(), "green dress")

	assert.Equal(t, model.CategoryWomensClothing, intent.Category)
	assert.Equal(t, model.ColorGreen, intent.Color)
	assert.Equal(t, SourceFallback, intent.Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AIFallbacks.WithLabelValues("error")))
}

func TestIntentParser_AIUnavailableIsNotAnError(t *testing.T) {
	ai := &fakeExtractor{err: ErrAIUnavailable}
	parser, m := newTestParser(ai)

	intent := parser.Parse(context.Background(), "laptop")

	assert.Equal(t, model.CategoryElectronics, intent.Category)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AIFallbacks.WithLabelValues("unavailable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AIFallbacks.WithLabelValues("error")))
}

func TestIntentParser_BlankQuerySkipsAI(t *testing.T) {
	ai := &fakeExtractor{result: &AIIntent{Keywords: []string{"x"}}}
	parser, _ := newTestParser(ai)

	intent := parser.Parse(context.Background(), "   ")

	assert.Zero(t, ai.calls)
	assert.Empty(t, intent.Keywords)
	assert.False(t, intent.IsShopping())
}

func TestIntentParser_CustomStopwords(t *testing.T) {
	parser := NewIntentParser(nil, []string{"Cheap"}, nil, nil)

	intent := parser.Fallback("cheap shiny necklace")
	require.Equal(t, model.CategoryJewelry, intent.Category)
	assert.Equal(t, []string{"shiny", "necklace"}, intent.Keywords)
}

func TestIntentParser_FallbackKeepsRatingWords(t *testing.T) {
	parser, _ := newTestParser(nil)

	// Fallback is raw; rating words are only dropped by Parse.
	fb := parser.Fallback("rated tablet")
	assert.Equal(t, []string{"rated", "tablet"}, fb.Keywords)

	intent := parser.Parse(context.Background(), "rated tablet")
	assert.Equal(t, []string{"tablet"}, intent.Keywords)
}

func TestIntentParser_FallbackUsesFullColorTable(t *testing.T) {
	parser, _ := newTestParser(nil)

	tests := []struct {
		query string
		color model.Color
	}{
		{"salmon fillet", model.ColorPink},
		{"mint scarf", model.ColorGreen},
		{"snow boots", model.ColorWhite},
		{"cherry lipstick", model.ColorRed},
		{"plain tee", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.color, parser.Fallback(tt.query).Color)
		})
	}
}
