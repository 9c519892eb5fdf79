package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopassist/internal/model"
)

func fixedPick(i int) func(int) int {
	return func(n int) int { return i % n }
}

func TestGreetingReply(t *testing.T) {
	assert.Equal(t, "👋 Hello there! I'm your shopping assistant.", GreetingReply("  hello THERE ", fixedPick(0)))
	assert.Equal(t, "Hello! 👋 I'm here to help you find products.", GreetingReply("hi", fixedPick(1)))
	assert.Equal(t, "Hey! Ask me for electronics, clothing, jewelry, or search for specific items!", GreetingReply("hey", fixedPick(3)))
}

func TestGeneralReply(t *testing.T) {
	for i := range generalReplies {
		assert.Equal(t, generalReplies[i], GeneralReply(fixedPick(i)))
	}
}

func TestSynthesize(t *testing.T) {
	two := []model.ScoredProduct{
		{CatalogItem: model.CatalogItem{ID: 1}, ExactColorMatch: true},
		{CatalogItem: model.CatalogItem{ID: 2}},
	}
	noColors := model.RankingMetadata{AvailableColors: []model.Color{}}

	tests := []struct {
		name      string
		products  []model.ScoredProduct
		color     model.Color
		minRating *float64
		meta      model.RankingMetadata
		want      string
	}{
		{
			name:      "nothing with rating",
			minRating: floatPtr(5),
			meta:      noColors,
			want:      "I couldn't find products with 5.0+ star ratings. Try with a lower rating or different search terms.",
		},
		{
			name:  "nothing with color",
			color: model.ColorPurple,
			meta:  noColors,
			want:  "I couldn't find purple products. Try searching without color specification.",
		},
		{
			name: "nothing at all",
			meta: noColors,
			want: "I couldn't find products matching your request. Try: 'electronics', 'clothing', or 'jewelry'.",
		},
		{
			name:     "color missing lists alternatives",
			products: two,
			color:    model.ColorBlue,
			meta:     model.RankingMetadata{AvailableColors: []model.Color{model.ColorWhite, model.ColorYellow}},
			want: "❌ Sorry, we don't have blue products available right now.\n\n" +
				"✅ However, we do have products in these colors: white, yellow.\n\n" +
				"Would you like to see products in one of these colors instead?",
		},
		{
			name:     "color missing without any detected colors",
			products: two,
			color:    model.ColorBlue,
			meta:     noColors,
			want: "❌ Sorry, we don't have blue products available right now.\n\n" +
				"✅ However, we do have products in these colors: various other colors.\n\n" +
				"Would you like to see products in one of these colors instead?",
		},
		{
			name:      "color missing with rating",
			products:  two,
			color:     model.ColorBlue,
			minRating: floatPtr(4.5),
			meta:      model.RankingMetadata{AvailableColors: []model.Color{model.ColorRed}},
			want:      "❌ Sorry, no blue products with 4.5+ stars found.\n\n✅ However, I found 2 products in red with 4.5+ stars that might interest you!",
		},
		{
			name:     "color found",
			products: two,
			color:    model.ColorRed,
			meta:     model.RankingMetadata{ExactColorFound: true, AvailableColors: []model.Color{model.ColorRed}},
			want:     "✅ I found 1 red products for you!",
		},
		{
			name:      "color found with rating",
			products:  two,
			color:     model.ColorRed,
			minRating: floatPtr(4),
			meta:      model.RankingMetadata{ExactColorFound: true},
			want:      "✅ I found 1 red products with 4.0+ star ratings!",
		},
		{
			name:      "generic with rating",
			products:  two,
			minRating: floatPtr(4.5),
			meta:      noColors,
			want:      "✅ I found 2 products with 4.5+ star ratings!",
		},
		{
			name:     "generic",
			products: two,
			meta:     noColors,
			want:     "✅ I found 2 matching products for you!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Synthesize(tt.products, tt.color, tt.minRating, tt.meta))
		})
	}
}

func TestFormatProduct(t *testing.T) {
	meta := &model.RankingMetadata{ExactColorFound: true}
	p := model.ScoredProduct{
		CatalogItem: model.CatalogItem{
			ID:          7,
			Title:       "White Gold Plated Princess",
			Price:       9.99,
			Description: strings.Repeat("a", 80),
			Category:    "jewelery",
			Image:       "https://img.test/7.jpg",
			Rating:      model.Rating{Rate: 3, Count: 400},
		},
		MatchScore:      6,
		ExactColorMatch: true,
		DetectedColor:   model.ColorWhite,
	}

	got := FormatProduct(p, meta)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "White Gold Plated Princess", got.Name)
	assert.Equal(t, "$9.99", got.Price)
	assert.Equal(t, "/product/7", got.URL)
	assert.Equal(t, "3.0/5", got.Rating)
	assert.Equal(t, "white", got.Color)
	assert.Equal(t, strings.Repeat("a", 60)+"...", got.Description)
	assert.True(t, got.ExactColorMatch)
	assert.Same(t, meta, got.Metadata)

	p.DetectedColor = ""
	p.Description = "short"
	got = FormatProduct(p, meta)
	assert.Equal(t, "Various", got.Color)
	assert.Equal(t, "short...", got.Description)
}
