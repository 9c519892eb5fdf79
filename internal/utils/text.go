package utils

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Truncate cuts s to at most n runes and appends suffix. The suffix is always
// appended, matching how product descriptions are previewed.
func Truncate(s string, n int, suffix string) string {
	if utf8.RuneCountInString(s) <= n {
		return s + suffix
	}
	runes := []rune(s)
	return string(runes[:n]) + suffix
}

// FormatDecimal renders f in its shortest form but always with a decimal
// point: 5 -> "5.0", 4.5 -> "4.5".
func FormatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatPrice renders a catalog price with a dollar prefix and no trailing
// zeros: 109.95 -> "$109.95", 695 -> "$695".
func FormatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}
