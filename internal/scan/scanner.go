// Package scan finds known symbols in dream text and resolves their context.
package scan

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/oneiro/internal/model"
)

// DefaultWindowRadius is the number of characters taken on each side of a match
const DefaultWindowRadius = 20

// SymbolSource provides the set of known symbol identifiers
type SymbolSource interface {
	Symbols() []string
}

// ContextClassifier resolves a context label for a symbol occurrence
type ContextClassifier interface {
	Classify(symbol, window string) string
}

type symbolPhrase struct {
	symbol string
	phrase string
}

// Scanner detects symbols by phrase substring search
type Scanner struct {
	symbols    []symbolPhrase
	classifier ContextClassifier
	radius     int
}

// NewScanner creates a scanner over a snapshot of the known symbols
func NewScanner(source SymbolSource, classifier ContextClassifier, radius int) *Scanner {
	if radius <= 0 {
		radius = DefaultWindowRadius
	}

	var symbols []symbolPhrase
	for _, sym := range source.Symbols() {
		phrase := model.PhraseForm(sym)
		if phrase == "" {
			continue
		}
		symbols = append(symbols, symbolPhrase{symbol: sym, phrase: phrase})
	}

	return &Scanner{
		symbols:    symbols,
		classifier: classifier,
		radius:     radius,
	}
}

// Scan returns every known symbol mentioned in text with its resolved context.
// Only the first occurrence of a symbol is classified. Entries are ordered by
// position of that occurrence.
func (s *Scanner) Scan(text string) model.Detection {
	lower := strings.ToLower(text)

	detection := model.Detection{}
	for _, sp := range s.symbols {
		idx := strings.Index(lower, sp.phrase)
		if idx < 0 {
			continue
		}

		window := Window(lower, idx, idx+len(sp.phrase), s.radius)
		detection = append(detection, model.DetectedSymbol{
			Symbol:   sp.symbol,
			Context:  s.classifier.Classify(sp.symbol, window),
			Position: idx,
			Window:   window,
		})
	}

	sort.SliceStable(detection, func(i, j int) bool {
		if detection[i].Position != detection[j].Position {
			return detection[i].Position < detection[j].Position
		}
		return detection[i].Symbol < detection[j].Symbol
	})

	return detection
}

// Window returns text[start:end] widened by radius runes on each side,
// clamped to the text bounds. start and end are byte offsets on rune boundaries.
func Window(text string, start, end, radius int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}

	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}

	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}

	return text[lo:hi]
}
