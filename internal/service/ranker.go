package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"shopassist/internal/config"
	"shopassist/internal/model"
)

// MaxResults bounds every ranked result set.
const MaxResults = 6

// Ranker scores catalog items against an intent and selects the result set.
type Ranker struct {
	weightKeyword       int
	weightColorMatch    int
	penaltyColorMiss    int
	bonusHighRating     int
	highRatingThreshold float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(cfg config.RankingConfig) *Ranker {
	return &Ranker{
		weightKeyword:       cfg.WeightKeyword,
		weightColorMatch:    cfg.WeightColorMatch,
		penaltyColorMiss:    cfg.PenaltyColorMiss,
		bonusHighRating:     cfg.BonusHighRating,
		highRatingThreshold: cfg.HighRatingThreshold,
	}
}

// DefaultRanker uses the standard weights: +3 keyword, +5 color match,
// -2 color miss, +1 for a rating of 4.5 or more.
func DefaultRanker() *Ranker {
	return NewRanker(config.RankingConfig{
		WeightKeyword:       3,
		WeightColorMatch:    5,
		PenaltyColorMiss:    2,
		BonusHighRating:     1,
		HighRatingThreshold: 4.5,
	})
}

// Rank scores items in a single pass and returns at most MaxResults of them.
//
// Items rated below minRating are skipped entirely. Exact color matches are
// preferred over everything else; if there are none, the remaining items
// with a positive score are returned. When the intent asks for nothing
// specific (no keywords, no color) every item is kept. Ties keep catalog
// order. AvailableColors covers every scanned item, not just the returned ones.
func (r *Ranker) Rank(intent model.Intent, minRating *float64, items []model.CatalogItem) ([]model.ScoredProduct, model.RankingMetadata) {
	keywords := rankingKeywords(intent.Keywords)
	colorRequested := intent.Color != ""

	meta := model.RankingMetadata{AvailableColors: []model.Color{}}
	seen := make(map[model.Color]struct{})

	var exact, others []model.ScoredProduct
	for _, item := range items {
		if minRating != nil && item.Rating.Rate < *minRating {
			continue
		}

		title := strings.ToLower(item.Title)
		desc := strings.ToLower(item.Description)

		for _, c := range DetectColors(title + " " + desc) {
			seen[c] = struct{}{}
		}

		sp := model.ScoredProduct{CatalogItem: item}
		if colorRequested {
			sp.ExactColorMatch = ColorMatches(title, desc, intent.Color)
			meta.ColorDetectedInAny = meta.ColorDetectedInAny || sp.ExactColorMatch
		}

		if containsAnyKeyword(title, desc, keywords) {
			sp.MatchScore += r.weightKeyword
		}
		switch {
		case sp.ExactColorMatch:
			sp.MatchScore += r.weightColorMatch
			sp.DetectedColor = intent.Color
		case colorRequested:
			sp.MatchScore -= r.penaltyColorMiss
		}
		if item.Rating.Rate >= r.highRatingThreshold {
			sp.MatchScore += r.bonusHighRating
		}

		switch {
		case sp.ExactColorMatch:
			exact = append(exact, sp)
		case sp.MatchScore > 0 || (len(keywords) == 0 && !colorRequested):
			others = append(others, sp)
		}
	}

	for c := range seen {
		meta.AvailableColors = append(meta.AvailableColors, c)
	}
	sort.Slice(meta.AvailableColors, func(i, j int) bool {
		return meta.AvailableColors[i] < meta.AvailableColors[j]
	})

	selected := others
	if len(exact) > 0 {
		selected = exact
		meta.ExactColorFound = true
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].MatchScore > selected[j].MatchScore
	})
	if len(selected) > MaxResults {
		selected = selected[:MaxResults]
	}
	if selected == nil {
		selected = []model.ScoredProduct{}
	}

	return selected, meta
}

// rankingKeywords lowercases keywords and drops rating words. Short keywords
// are kept here (they still count as a specific ask) but never score.
func rankingKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range stripRatingStopwords(keywords) {
		k = strings.ToLower(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func containsAnyKeyword(title, desc string, keywords []string) bool {
	for _, k := range keywords {
		if utf8.RuneCountInString(k) <= 2 {
			continue
		}
		if strings.Contains(title, k) || strings.Contains(desc, k) {
			return true
		}
	}
	return false
}
