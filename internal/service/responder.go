package service

import (
	"fmt"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

const technicalDifficultiesReply = "Sorry, I'm having technical difficulties. Please try again."

var greetingTemplates = []string{
	"👋 %s! I'm your shopping assistant.",
	"Hello! 👋 I'm here to help you find products.",
	"Hi there! Ready to help you shop.",
	"%s! Ask me for electronics, clothing, jewelry, or search for specific items!",
}

var generalReplies = []string{
	"I'm doing great, thanks for asking! How can I help you find products today?",
	"I'm here and ready to help! What are you looking for?",
	"All systems go! What products can I help you find?",
	"I'm your shopping assistant - ready to help you discover awesome products!",
}

// TechnicalDifficultiesReply is sent when the pipeline fails unexpectedly.
func TechnicalDifficultiesReply() string {
	return technicalDifficultiesReply
}

// GreetingReply picks a greeting template; pick(n) returns an index in [0, n).
func GreetingReply(message string, pick func(n int) int) string {
	tmpl := greetingTemplates[pick(len(greetingTemplates))]
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, utils.Capitalize(strings.TrimSpace(message)))
}

// GeneralReply picks a chit-chat reply; pick(n) returns an index in [0, n).
func GeneralReply(pick func(n int) int) string {
	return generalReplies[pick(len(generalReplies))]
}

// Synthesize renders the reply for a shopping query from the ranked result
// state. The first matching case wins: nothing found, requested color
// missing, requested color found, generic.
func Synthesize(products []model.ScoredProduct, color model.Color, minRating *float64, meta model.RankingMetadata) string {
	rating := ""
	if minRating != nil {
		rating = utils.FormatDecimal(*minRating)
	}

	if len(products) == 0 {
		switch {
		case rating != "":
			return fmt.Sprintf("I couldn't find products with %s+ star ratings. Try with a lower rating or different search terms.", rating)
		case color != "":
			return fmt.Sprintf("I couldn't find %s products. Try searching without color specification.", color)
		default:
			return "I couldn't find products matching your request. Try: 'electronics', 'clothing', or 'jewelry'."
		}
	}

	if color != "" && !meta.ExactColorFound {
		available := "various other colors"
		if len(meta.AvailableColors) > 0 {
			names := make([]string, len(meta.AvailableColors))
			for i, c := range meta.AvailableColors {
				names[i] = string(c)
			}
			available = strings.Join(names, ", ")
		}
		if rating != "" {
			return fmt.Sprintf("❌ Sorry, no %s products with %s+ stars found.\n\n✅ However, I found %d products in %s with %s+ stars that might interest you!",
				color, rating, len(products), available, rating)
		}
		return fmt.Sprintf("❌ Sorry, we don't have %s products available right now.\n\n✅ However, we do have products in these colors: %s.\n\nWould you like to see products in one of these colors instead?",
			color, available)
	}

	if color != "" {
		if matched := countExactMatches(products); matched > 0 {
			if rating != "" {
				return fmt.Sprintf("✅ I found %d %s products with %s+ star ratings!", matched, color, rating)
			}
			return fmt.Sprintf("✅ I found %d %s products for you!", matched, color)
		}
	}

	if rating != "" {
		return fmt.Sprintf("✅ I found %d products with %s+ star ratings!", len(products), rating)
	}
	return fmt.Sprintf("✅ I found %d matching products for you!", len(products))
}

func countExactMatches(products []model.ScoredProduct) int {
	n := 0
	for _, p := range products {
		if p.ExactColorMatch {
			n++
		}
	}
	return n
}

// FormatProduct builds the client-facing card for a ranked product.
func FormatProduct(p model.ScoredProduct, meta *model.RankingMetadata) model.FormattedProduct {
	color := "Various"
	if p.DetectedColor != "" {
		color = string(p.DetectedColor)
	}
	return model.FormattedProduct{
		ID:              p.ID,
		Name:            p.Title,
		Price:           utils.FormatPrice(p.Price),
		Image:           p.Image,
		URL:             fmt.Sprintf("/product/%d", p.ID),
		Category:        p.Category,
		Rating:          fmt.Sprintf("%.1f/5", p.Rating.Rate),
		Color:           color,
		MatchScore:      p.MatchScore,
		Description:     utils.Truncate(p.Description, 60, "..."),
		ExactColorMatch: p.ExactColorMatch,
		Metadata:        meta,
	}
}
