package model

import "strings"

// Wildcard is the context label used when no specific context keyword matches
const Wildcard = "_"

// SymbolFact is a single (symbol, context, interpretation) entry of the knowledge base
type SymbolFact struct {
	Symbol         string `json:"symbol" yaml:"symbol"`                 // Canonical identifier (e.g., "black_cat")
	Context        string `json:"context" yaml:"context"`               // Context label or Wildcard
	Interpretation string `json:"interpretation" yaml:"interpretation"` // Canned interpretation text
}

// LabelRule maps one context label to its trigger keywords
type LabelRule struct {
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ContextRule lists a symbol's context labels in priority order
type ContextRule struct {
	Symbol string      `json:"symbol" yaml:"symbol"`
	Labels []LabelRule `json:"labels" yaml:"labels"`
}

// CanonicalSymbol lowercases a symbol and joins its words with underscores.
// Whitespace runs and existing underscores collapse into a single "_";
// hyphens are kept so "x-ray" still matches the text "x-ray".
func CanonicalSymbol(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.Join(fields, "_")
}

// PhraseForm returns the text that a symbol identifier matches in a dream ("big_dog" -> "big dog")
func PhraseForm(symbol string) string {
	return strings.ReplaceAll(symbol, "_", " ")
}

// DisplayName is the human-readable form of a symbol identifier
func DisplayName(symbol string) string {
	return PhraseForm(symbol)
}
