package service

import (
	"sort"
	"strconv"
	"strings"

	"shopassist/internal/model"
)

// ClassifyMessage recognises greetings and general chit-chat. Greetings take
// priority; anything else is MessageNone and goes on to intent extraction.
func ClassifyMessage(text string) model.MessageKind {
	msg := strings.ToLower(strings.TrimSpace(text))

	for _, g := range greetingPhrases {
		if msg == g || strings.HasPrefix(msg, g+" ") {
			return model.MessageGreeting
		}
	}
	for _, q := range generalPhrases {
		if strings.Contains(msg, q) {
			return model.MessageGeneral
		}
	}
	return model.MessageNone
}

// ExtractRatingThreshold finds an explicit minimum rating such as "4 stars"
// or "rated 4.5". The value is clamped to [1, 5].
func ExtractRatingThreshold(text string) (float64, bool) {
	msg := strings.ToLower(text)
	for _, re := range ratingPatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		rating, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return min(max(rating, 1), 5), true
	}
	return 0, false
}

// DetectColors returns every canonical color with a synonym appearing as a
// whole word in text, sorted by name.
func DetectColors(text string) []model.Color {
	lower := strings.ToLower(text)
	var found []model.Color
	for _, color := range model.Colors {
		if colorPatterns[color].MatchString(lower) {
			found = append(found, color)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}

// ColorMatches reports whether title or description mentions requested as a
// whole word. Non-canonical colors never match.
func ColorMatches(title, description string, requested model.Color) bool {
	re, ok := colorPatterns[requested]
	if !ok {
		return false
	}
	return re.MatchString(strings.ToLower(title + " " + description))
}
