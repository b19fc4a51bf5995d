package model

// DetectedSymbol is one symbol found in a dream text
type DetectedSymbol struct {
	Symbol   string `json:"symbol"`   // Canonical identifier
	Context  string `json:"context"`  // Resolved context label (may be Wildcard)
	Position int    `json:"position"` // Byte offset of the first occurrence in the lowercased text
	Window   string `json:"window"`   // Text window handed to the classifier
}

// Detection maps detected symbols to their resolved context.
// Entries are unique per symbol and ordered by first occurrence.
type Detection []DetectedSymbol

// Context returns the resolved context for a symbol and whether it was detected
func (d Detection) Context(symbol string) (string, bool) {
	for _, s := range d {
		if s.Symbol == symbol {
			return s.Context, true
		}
	}
	return "", false
}

// Symbols returns the detected identifiers in detection order
func (d Detection) Symbols() []string {
	out := make([]string, 0, len(d))
	for _, s := range d {
		out = append(out, s.Symbol)
	}
	return out
}

// Interpretation pairs a symbol's display name with its interpretation text
type Interpretation struct {
	Symbol         string `json:"symbol"`
	Interpretation string `json:"interpretation"`
}

// InterpretationResult is the per-request output of the interpreter
type InterpretationResult struct {
	Symbols         []string         `json:"symbols"`
	Interpretations []Interpretation `json:"interpretations"`
	Overall         string           `json:"overall"`

	Reflection *Reflection `json:"reflection,omitempty"` // Optional LLM reflection (never affects the fields above)
}

// Reflection contains an optional LLM-generated reflective paragraph
type Reflection struct {
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Cached   bool     `json:"cached,omitempty"`
	Warnings []string `json:"warnings,omitempty"` // e.g. symbols the reply introduced that the dream never mentioned
}
