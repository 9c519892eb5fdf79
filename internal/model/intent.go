package model

import "strings"

// Category is one of the catalog's fixed product categories.
type Category string

const (
	CategoryElectronics    Category = "electronics"
	CategoryJewelry        Category = "jewelry"
	CategoryMensClothing   Category = "mens_clothing"
	CategoryWomensClothing Category = "womens_clothing"
)

// Categories lists every canonical category in fallback-table order.
var Categories = []Category{
	CategoryElectronics,
	CategoryJewelry,
	CategoryMensClothing,
	CategoryWomensClothing,
}

// catalogNames maps a category to the name the catalog service uses in
// /products/category/{name}. The catalog spells jewelry "jewelery".
var catalogNames = map[Category]string{
	CategoryElectronics:    "electronics",
	CategoryJewelry:        "jewelery",
	CategoryMensClothing:   "men's clothing",
	CategoryWomensClothing: "women's clothing",
}

var categoryAliases = map[string]Category{
	"electronics":      CategoryElectronics,
	"electronic":       CategoryElectronics,
	"jewelry":          CategoryJewelry,
	"jewelery":         CategoryJewelry,
	"jewellery":        CategoryJewelry,
	"mens_clothing":    CategoryMensClothing,
	"men's clothing":   CategoryMensClothing,
	"mens clothing":    CategoryMensClothing,
	"men clothing":     CategoryMensClothing,
	"womens_clothing":  CategoryWomensClothing,
	"women's clothing": CategoryWomensClothing,
	"womens clothing":  CategoryWomensClothing,
	"women clothing":   CategoryWomensClothing,
}

// CatalogName returns the catalog service's name for c, or "" if c is unset
// or unknown.
func (c Category) CatalogName() string {
	return catalogNames[c]
}

// Valid reports whether c is a canonical category.
func (c Category) Valid() bool {
	_, ok := catalogNames[c]
	return ok
}

// ParseCategory maps a free-form category label onto the enumeration.
func ParseCategory(s string) (Category, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	key = strings.ReplaceAll(key, "’", "'")
	c, ok := categoryAliases[key]
	return c, ok
}

// Color is one of the eight canonical colors.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
)

// Colors lists the canonical colors in synonym-table order. When a word is a
// synonym of more than one color ("rose"), the earlier color wins.
var Colors = []Color{
	ColorRed, ColorBlue, ColorGreen, ColorBlack,
	ColorWhite, ColorYellow, ColorPink, ColorPurple,
}

// Valid reports whether c is a canonical color.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// MessageKind is the lexical classification of a chat message.
type MessageKind string

const (
	MessageGreeting MessageKind = "greeting"
	MessageGeneral  MessageKind = "general"
	MessageNone     MessageKind = "none"
)

// QueryType is reported to clients for every handled message.
type QueryType string

const (
	QueryGreeting QueryType = "greeting"
	QueryGeneral  QueryType = "general"
	QueryShopping QueryType = "shopping"
)

// Intent is the normalized interpretation of one chat message. Empty
// Category or Color means the field is unset.
type Intent struct {
	RawMessage string   `json:"raw_message"`
	Keywords   []string `json:"keywords"`
	Category   Category `json:"category,omitempty"`
	Color      Color    `json:"color,omitempty"`
	Source     string   `json:"source,omitempty"` // ai, fallback, ai+fallback
}

// IsShopping reports whether the intent carries enough to query the catalog.
func (i Intent) IsShopping() bool {
	return i.Category != "" || len(i.Keywords) > 0
}
