package utils

import (
	"testing"
)

type intentPayload struct {
	Category *string  `json:"category"`
	Color    *string  `json:"color"`
	Keywords []string `json:"keywords"`
}

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantCategory string
		wantKeywords int
		wantErr      bool
	}{
		{
			name:         "Pure JSON",
			input:        `{"category": "electronics", "color": "blue", "keywords": ["phone", "samsung"]}`,
			wantCategory: "electronics",
			wantKeywords: 2,
		},
		{
			name:         "JSON in markdown code block",
			input:        "```json\n{\"category\": \"jewelery\", \"color\": null, \"keywords\": [\"ring\"]}\n```",
			wantCategory: "jewelery",
			wantKeywords: 1,
		},
		{
			name:         "Bare code fence",
			input:        "```\n{\"category\": \"electronics\", \"keywords\": []}\n```",
			wantCategory: "electronics",
		},
		{
			name:         "JSON with surrounding text",
			input:        `Sure! Here it is: {"category": "men's clothing", "keywords": ["jacket"]} Hope that helps.`,
			wantCategory: "men's clothing",
			wantKeywords: 1,
		},
		{
			name:         "Trailing comma",
			input:        `{"category": "electronics", "keywords": ["tv",],}`,
			wantCategory: "electronics",
			wantKeywords: 1,
		},
		{
			name:         "Unquoted keys",
			input:        `{category: "electronics", keywords: ["laptop"]}`,
			wantCategory: "electronics",
			wantKeywords: 1,
		},
		{
			name:         "Braces inside strings",
			input:        `note {"category": "electronics", "keywords": ["{weird}"]} end`,
			wantCategory: "electronics",
			wantKeywords: 1,
		},
		{
			name:    "Empty input",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Not JSON at all",
			input:   "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got intentPayload
			err := ParseAIJSON(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantCategory != "" && (got.Category == nil || *got.Category != tt.wantCategory) {
				t.Errorf("category = %v, want %q", got.Category, tt.wantCategory)
			}
			if len(got.Keywords) != tt.wantKeywords {
				t.Errorf("keywords = %v, want %d entries", got.Keywords, tt.wantKeywords)
			}
		})
	}
}

func TestParseAIJSON_NullFields(t *testing.T) {
	var got intentPayload
	if err := ParseAIJSON(`{"category": null, "color": null, "keywords": []}`, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != nil || got.Color != nil {
		t.Errorf("expected nil category and color, got %v %v", got.Category, got.Color)
	}
}
