// Package classify resolves the context label of a symbol from the text around it.
package classify

import (
	"strings"

	"github.com/ppiankov/oneiro/internal/model"
)

// RuleSource provides the context rule for a symbol
type RuleSource interface {
	Rule(symbol string) (model.ContextRule, bool)
}

// Classifier picks a context label using priority-ordered keyword rules
type Classifier struct {
	rules RuleSource
}

// NewClassifier creates a classifier over the given rule table
func NewClassifier(rules RuleSource) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the first label (in rule declaration order) whose keywords
// occur in window, or model.Wildcard when the symbol has no rule or nothing matches.
func (c *Classifier) Classify(symbol, window string) string {
	if c.rules == nil {
		return model.Wildcard
	}

	rule, ok := c.rules.Rule(symbol)
	if !ok {
		return model.Wildcard
	}

	window = strings.ToLower(window)
	for _, label := range rule.Labels {
		for _, keyword := range label.Keywords {
			if strings.Contains(window, keyword) {
				return label.Label
			}
		}
	}

	return model.Wildcard
}
