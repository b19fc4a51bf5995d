package kb

import (
	"fmt"

	"github.com/ppiankov/oneiro/internal/model"
)

// Warning is a data-quality finding about the knowledge base
type Warning struct {
	Symbol  string
	Context string
	Message string
}

func (w Warning) String() string {
	if w.Context == "" {
		return fmt.Sprintf("%s: %s", w.Symbol, w.Message)
	}
	return fmt.Sprintf("%s/%s: %s", w.Symbol, w.Context, w.Message)
}

// Validate cross-checks facts against the context rule table
func (s *Store) Validate() []Warning {
	var warnings []Warning

	for _, d := range s.dupes {
		warnings = append(warnings, Warning{
			Symbol:  d.Symbol,
			Context: d.Context,
			Message: "duplicate fact ignored (first declaration wins)",
		})
	}

	for _, rule := range s.rules {
		contexts := s.Contexts(rule.Symbol)
		if len(contexts) == 0 {
			warnings = append(warnings, Warning{
				Symbol:  rule.Symbol,
				Message: "context rule for a symbol with no facts",
			})
			continue
		}

		labels := make(map[string]bool)
		for _, l := range rule.Labels {
			if labels[l.Label] {
				warnings = append(warnings, Warning{
					Symbol:  rule.Symbol,
					Context: l.Label,
					Message: "label declared twice; keywords of the later entry only match after every earlier label",
				})
			}
			labels[l.Label] = true

			if _, ok := s.index[factKey{rule.Symbol, l.Label}]; !ok {
				warnings = append(warnings, Warning{
					Symbol:  rule.Symbol,
					Context: l.Label,
					Message: "context label has no fact",
				})
			}
		}

		if _, ok := s.index[factKey{rule.Symbol, model.Wildcard}]; !ok {
			warnings = append(warnings, Warning{
				Symbol:  rule.Symbol,
				Message: "no wildcard fact; unmatched contexts will have no interpretation",
			})
		}
	}

	for _, f := range s.facts {
		if f.Context == model.Wildcard {
			continue
		}
		rule, ok := s.Rule(f.Symbol)
		if !ok || !hasLabel(rule, f.Context) {
			warnings = append(warnings, Warning{
				Symbol:  f.Symbol,
				Context: f.Context,
				Message: "fact context is unreachable (no context rule label)",
			})
		}
	}

	return warnings
}

// Check returns ErrInconsistent when Validate reports any warning
func (s *Store) Check() error {
	warnings := s.Validate()
	if len(warnings) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d warning(s), first: %s", ErrInconsistent, len(warnings), warnings[0])
}

func hasLabel(rule model.ContextRule, label string) bool {
	for _, l := range rule.Labels {
		if l.Label == label {
			return true
		}
	}
	return false
}
