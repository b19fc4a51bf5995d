// Package compose turns detected symbols into interpretation text and a narrative.
package compose

import (
	"fmt"
	"strings"

	"github.com/ppiankov/oneiro/internal/model"
)

const (
	// NoSymbolsMessage is the overall text when nothing could be interpreted
	NoSymbolsMessage = "I couldn't identify specific symbols in your dream. Please provide more details."

	multiHeader  = "Your dream contains several symbols:\n"
	multiClosing = "\nThese symbols together might indicate you're processing emotions or situations related to " +
		"these themes in your waking life."
)

// FactLookup resolves the interpretation for a (symbol, context) pair
type FactLookup interface {
	Lookup(symbol, context string) (string, bool)
}

// Composer builds interpretation results from detections
type Composer struct {
	facts FactLookup
}

// NewComposer creates a composer backed by the given fact store
func NewComposer(facts FactLookup) *Composer {
	return &Composer{facts: facts}
}

// Compose looks up every detected symbol and synthesizes the overall narrative.
// Symbols without any matching fact stay in Symbols but get no interpretation.
func (c *Composer) Compose(detection model.Detection) model.InterpretationResult {
	result := model.InterpretationResult{
		Symbols:         []string{},
		Interpretations: []model.Interpretation{},
	}

	for _, d := range detection {
		name := model.DisplayName(d.Symbol)
		result.Symbols = append(result.Symbols, name)

		text, ok := c.facts.Lookup(d.Symbol, d.Context)
		if !ok {
			continue
		}
		result.Interpretations = append(result.Interpretations, model.Interpretation{
			Symbol:         name,
			Interpretation: text,
		})
	}

	result.Overall = Narrative(result.Interpretations)
	return result
}

// Narrative synthesizes the overall text from the interpretation list
func Narrative(interpretations []model.Interpretation) string {
	switch len(interpretations) {
	case 0:
		return NoSymbolsMessage
	case 1:
		it := interpretations[0]
		return fmt.Sprintf("Your dream about %s suggests %s.", it.Symbol, strings.ToLower(it.Interpretation))
	}

	var b strings.Builder
	b.WriteString(multiHeader)
	for _, it := range interpretations {
		fmt.Fprintf(&b, "- The %s suggests %s.\n", it.Symbol, strings.ToLower(it.Interpretation))
	}
	b.WriteString(multiClosing)
	return b.String()
}
