package model

// Rating is the catalog's aggregate review score.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// CatalogItem is a product as returned by the catalog service.
type CatalogItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ScoredProduct is a catalog item annotated by one ranking pass. Scores
// depend on the request's intent and are never reused across requests.
type ScoredProduct struct {
	CatalogItem
	MatchScore      int   `json:"match_score"`
	ExactColorMatch bool  `json:"exact_color_match"`
	DetectedColor   Color `json:"detected_color,omitempty"` // set only when ExactColorMatch
}

// RankingMetadata summarises a ranking pass over every scanned item.
type RankingMetadata struct {
	ExactColorFound    bool    `json:"exact_color_found"`
	AvailableColors    []Color `json:"available_colors"`
	ColorDetectedInAny bool    `json:"color_detected_in_any"`
}

// FormattedProduct is the client-facing product card.
type FormattedProduct struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Price           string           `json:"price"`
	Image           string           `json:"image"`
	URL             string           `json:"url"`
	Category        string           `json:"category"`
	Rating          string           `json:"rating"`
	Color           string           `json:"color"`
	MatchScore      int              `json:"match_score"`
	Description     string           `json:"description"`
	ExactColorMatch bool             `json:"exact_color_match"`
	Metadata        *RankingMetadata `json:"metadata,omitempty"`
}
