package service

import (
	"regexp"
	"strings"

	"shopassist/internal/model"
)

var greetingPhrases = []string{
	"hi", "hello", "hey", "hii", "hiii", "hello there", "hi there",
	"good morning", "good afternoon", "good evening", "gm", "gn",
}

var generalPhrases = []string{
	"how are you", "what's up", "how do you do", "sup",
	"are you there", "can you hear me", "who are you",
	"what can you do", "help", "what is your name",
}

// ratingPatterns are tried in order against the lowercased message.
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*stars?`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*ratings?`),
	regexp.MustCompile(`rating\s*of\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`rated\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*star`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)/5`),
}

// ratingStopwords never survive as search keywords.
var ratingStopwords = map[string]struct{}{
	"rating": {}, "ratings": {}, "star": {}, "stars": {}, "rated": {},
}

type categoryEntry struct {
	category model.Category
	words    []string
}

// categoryTable is scanned in order; the first category containing a token wins.
var categoryTable = []categoryEntry{
	{model.CategoryElectronics, []string{"electronics", "phone", "laptop", "tablet", "computer", "tv", "headphone", "earphone", "charger"}},
	{model.CategoryJewelry, []string{"jewelry", "jewellery", "ring", "necklace", "bracelet", "gold", "silver", "diamond", "gem"}},
	{model.CategoryMensClothing, []string{"men's", "men", "shirt", "t-shirt", "pants", "jeans", "jacket", "hoodie", "sweater"}},
	{model.CategoryWomensClothing, []string{"women's", "women", "dress", "skirt", "blouse", "bra", "handbag", "purse", "heels"}},
}

// colorSynonyms is the single color vocabulary used for intent extraction,
// detection and matching. Order follows model.Colors.
var colorSynonyms = map[model.Color][]string{
	model.ColorRed:    {"red", "rose", "ruby", "crimson", "scarlet", "burgundy", "maroon", "cherry"},
	model.ColorBlue:   {"blue", "navy", "azure", "sky", "cobalt", "indigo", "teal", "turquoise"},
	model.ColorGreen:  {"green", "emerald", "forest", "lime", "olive", "mint", "sage", "jade"},
	model.ColorBlack:  {"black", "dark", "onyx", "ebony", "charcoal", "midnight", "jet"},
	model.ColorWhite:  {"white", "light", "ivory", "cream", "snow", "pearl", "alabaster"},
	model.ColorYellow: {"yellow", "gold", "golden", "amber", "mustard", "lemon", "sunflower"},
	model.ColorPink:   {"pink", "rose", "fuchsia", "magenta", "coral", "salmon", "blush"},
	model.ColorPurple: {"purple", "violet", "lavender", "lilac", "plum", "mauve", "orchid"},
}

// colorPatterns match any synonym of a color as a whole word.
var colorPatterns = buildColorPatterns()

func buildColorPatterns() map[model.Color]*regexp.Regexp {
	patterns := make(map[model.Color]*regexp.Regexp, len(colorSynonyms))
	for color, words := range colorSynonyms {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		patterns[color] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return patterns
}

// lookupColor returns the first color (in table order) having word as a synonym.
func lookupColor(word string) (model.Color, bool) {
	for _, color := range model.Colors {
		for _, w := range colorSynonyms[color] {
			if w == word {
				return color, true
			}
		}
	}
	return "", false
}

func lookupCategory(word string) (model.Category, bool) {
	for _, entry := range categoryTable {
		for _, w := range entry.words {
			if w == word {
				return entry.category, true
			}
		}
	}
	return "", false
}

// NormalizeColor maps a free-form color (canonical name or synonym) onto the
// canonical enumeration.
func NormalizeColor(s string) (model.Color, bool) {
	word := strings.ToLower(strings.TrimSpace(s))
	if c := model.Color(word); c.Valid() {
		return c, true
	}
	return lookupColor(word)
}
