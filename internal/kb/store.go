// Package kb holds the read-only knowledge base of symbol facts and context rules.
package kb

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/oneiro/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultKB []byte

var (
	// ErrNoFacts is returned when the rule data defines no facts at all
	ErrNoFacts = errors.New("knowledge base has no facts")

	// ErrInvalidFact is returned for a fact without symbol or interpretation
	ErrInvalidFact = errors.New("invalid fact")

	// ErrInvalidRule is returned for a malformed context rule
	ErrInvalidRule = errors.New("invalid context rule")

	// ErrInconsistent is returned by Check when validation produced warnings
	ErrInconsistent = errors.New("knowledge base is inconsistent")
)

// document is the on-disk YAML layout
type document struct {
	Facts    []model.SymbolFact  `yaml:"facts"`
	Contexts []model.ContextRule `yaml:"contexts"`
}

type factKey struct {
	symbol  string
	context string
}

// Store is an immutable table of symbol facts plus the context rule table.
// It is safe for concurrent use.
type Store struct {
	facts     []model.SymbolFact
	index     map[factKey]string
	dupes     []model.SymbolFact
	symbols   []string
	rules     []model.ContextRule
	ruleIndex map[string]int
}

// Default returns the store built from the embedded knowledge base
func Default() (*Store, error) {
	s, err := Parse(defaultKB)
	if err != nil {
		return nil, fmt.Errorf("embedded knowledge base: %w", err)
	}
	return s, nil
}

// Load reads and parses a YAML knowledge base file
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds a store from YAML rule data
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	return New(doc.Facts, doc.Contexts)
}

// New builds a store from facts and context rules.
// Symbols, labels and keywords are normalized; an empty fact context means Wildcard.
func New(facts []model.SymbolFact, rules []model.ContextRule) (*Store, error) {
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}

	s := &Store{
		facts:     make([]model.SymbolFact, 0, len(facts)),
		index:     make(map[factKey]string, len(facts)),
		ruleIndex: make(map[string]int, len(rules)),
	}

	seen := make(map[string]bool)
	for i, f := range facts {
		fact := model.SymbolFact{
			Symbol:         model.CanonicalSymbol(f.Symbol),
			Context:        normalizeLabel(f.Context),
			Interpretation: strings.TrimSpace(f.Interpretation),
		}
		if fact.Symbol == "" {
			return nil, fmt.Errorf("%w: fact %d has no symbol", ErrInvalidFact, i)
		}
		if fact.Interpretation == "" {
			return nil, fmt.Errorf("%w: fact %d (%s/%s) has no interpretation", ErrInvalidFact, i, fact.Symbol, fact.Context)
		}
		if fact.Context == "" {
			fact.Context = model.Wildcard
		}

		key := factKey{fact.Symbol, fact.Context}
		if _, exists := s.index[key]; exists {
			// First declared fact wins
			s.dupes = append(s.dupes, fact)
			continue
		}
		s.index[key] = fact.Interpretation
		s.facts = append(s.facts, fact)

		if !seen[fact.Symbol] {
			seen[fact.Symbol] = true
			s.symbols = append(s.symbols, fact.Symbol)
		}
	}
	sort.Strings(s.symbols)

	for i, r := range rules {
		rule, err := normalizeRule(r)
		if err != nil {
			return nil, fmt.Errorf("context rule %d: %w", i, err)
		}
		if _, exists := s.ruleIndex[rule.Symbol]; exists {
			return nil, fmt.Errorf("%w: symbol %q has more than one rule entry", ErrInvalidRule, rule.Symbol)
		}
		s.ruleIndex[rule.Symbol] = len(s.rules)
		s.rules = append(s.rules, rule)
	}

	return s, nil
}

// Symbols returns the sorted set of distinct canonical symbol identifiers
func (s *Store) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Lookup returns the interpretation for (symbol, context), falling back to
// (symbol, Wildcard). The boolean is false when neither fact exists.
func (s *Store) Lookup(symbol, context string) (string, bool) {
	symbol = model.CanonicalSymbol(symbol)
	context = normalizeLabel(context)
	if context == "" {
		context = model.Wildcard
	}

	if text, ok := s.index[factKey{symbol, context}]; ok {
		return text, true
	}
	if text, ok := s.index[factKey{symbol, model.Wildcard}]; ok {
		return text, true
	}
	return "", false
}

// Facts returns a copy of the loaded facts in declaration order (duplicates removed)
func (s *Store) Facts() []model.SymbolFact {
	out := make([]model.SymbolFact, len(s.facts))
	copy(out, s.facts)
	return out
}

// Rules returns the context rule table in declaration order
func (s *Store) Rules() []model.ContextRule {
	out := make([]model.ContextRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Rule returns the context rule for a symbol
func (s *Store) Rule(symbol string) (model.ContextRule, bool) {
	i, ok := s.ruleIndex[model.CanonicalSymbol(symbol)]
	if !ok {
		return model.ContextRule{}, false
	}
	return s.rules[i], true
}

// Contexts returns the contexts that have facts for a symbol, in declaration order
func (s *Store) Contexts(symbol string) []string {
	symbol = model.CanonicalSymbol(symbol)
	var out []string
	for _, f := range s.facts {
		if f.Symbol == symbol {
			out = append(out, f.Context)
		}
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func normalizeRule(r model.ContextRule) (model.ContextRule, error) {
	rule := model.ContextRule{Symbol: model.CanonicalSymbol(r.Symbol)}
	if rule.Symbol == "" {
		return rule, fmt.Errorf("%w: missing symbol", ErrInvalidRule)
	}

	for _, l := range r.Labels {
		label := normalizeLabel(l.Label)
		if label == "" || label == model.Wildcard {
			return rule, fmt.Errorf("%w: symbol %q has an empty or wildcard label", ErrInvalidRule, rule.Symbol)
		}

		keywords := make([]string, 0, len(l.Keywords))
		for _, k := range l.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return rule, fmt.Errorf("%w: label %s/%s has no keywords", ErrInvalidRule, rule.Symbol, label)
		}

		rule.Labels = append(rule.Labels, model.LabelRule{Label: label, Keywords: keywords})
	}

	return rule, nil
}
