package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ChatRequest is the body of POST /chat. Message is a pointer so a missing
// field can be told apart from an empty one.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatFilters echoes the filters applied to a shopping query.
type ChatFilters struct {
	ColorRequested *Color   `json:"color_requested"`
	MinRating      *float64 `json:"min_rating"`
}

// ChatResponse is returned for every chat message.
type ChatResponse struct {
	Success   bool               `json:"success"`
	ChatID    string             `json:"chat_id,omitempty"`
	Reply     string             `json:"reply"`
	Products  []FormattedProduct `json:"products"`
	QueryType QueryType          `json:"query_type,omitempty"`
	Filters   *ChatFilters       `json:"filters,omitempty"`
	Metadata  *RankingMetadata   `json:"metadata,omitempty"`
	Intent    *Intent            `json:"intent,omitempty"`
	Took      int64              `json:"took_ms"`
	Error     string             `json:"error,omitempty"`
}

// FeedbackRequest records what a user did with a product from a chat reply.
type FeedbackRequest struct {
	ChatID    string `json:"chat_id" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"` // click, view_details, add_to_cart
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ChatLogEntry is one row of the chat_logs table.
type ChatLogEntry struct {
	ID               int64         `json:"id" db:"id"`
	ChatID           string        `json:"chat_id" db:"chat_id"`
	UserID           *string       `json:"user_id" db:"user_id"`
	Message          string        `json:"message" db:"message"`
	QueryType        string        `json:"query_type" db:"query_type"`
	Intent           JSONMap       `json:"intent" db:"intent"`
	MinRating        *float64      `json:"min_rating" db:"min_rating"`
	ProductIDs       pq.Int64Array `json:"product_ids" db:"product_ids"`
	ResultCount      int           `json:"result_count" db:"result_count"`
	ClickedProductID *int64        `json:"clicked_product_id" db:"clicked_product_id"`
	Action           *string       `json:"action" db:"action"`
	DurationMs       int64         `json:"duration_ms" db:"duration_ms"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	FeedbackAt       *time.Time    `json:"feedback_at" db:"feedback_at"`
}

// JSONMap represents a JSONB column
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONMap source %T", value)
	}
}

// IntentMap flattens an intent for storage in a JSONMap column.
func IntentMap(in Intent) JSONMap {
	m := JSONMap{
		"keywords": in.Keywords,
	}
	if in.Category != "" {
		m["category"] = string(in.Category)
	}
	if in.Color != "" {
		m["color"] = string(in.Color)
	}
	if in.Source != "" {
		m["source"] = in.Source
	}
	return m
}
