package kb

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/oneiro/internal/model"
)

const testKB = `
facts:
  - {symbol: water, context: calm, interpretation: Emotional tranquility}
  - {symbol: water, context: _, interpretation: Your emotional state}
  - {symbol: Big Dog, context: _, interpretation: A protector you rely on}
  - {symbol: snake, context: hidden, interpretation: A secret threat}
contexts:
  - symbol: water
    labels:
      - {label: calm, keywords: [Calm, peaceful]}
`

func TestParse_Basic(t *testing.T) {
	s, err := Parse([]byte(testKB))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"big_dog", "snake", "water"}
	if diff := cmp.Diff(want, s.Symbols()); diff != "" {
		t.Errorf("Symbols mismatch (-want +got):\n%s", diff)
	}

	rule, ok := s.Rule("water")
	if !ok {
		t.Fatal("Expected rule for water")
	}
	if rule.Labels[0].Keywords[0] != "calm" {
		t.Errorf("Expected keywords to be lowercased, got %q", rule.Labels[0].Keywords[0])
	}
}

func TestParse_HyphenatedSymbol(t *testing.T) {
	s, err := Parse([]byte(`
facts:
  - {symbol: X-Ray, context: _, interpretation: Seeing through appearances}
`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"x-ray"}, s.Symbols()); diff != "" {
		t.Errorf("Symbols mismatch (-want +got):\n%s", diff)
	}
	if got := model.PhraseForm("x-ray"); got != "x-ray" {
		t.Errorf("Expected phrase form to keep the hyphen, got %q", got)
	}
	if _, ok := s.Lookup("x-ray", model.Wildcard); !ok {
		t.Error("Expected x-ray to resolve to its wildcard fact")
	}
	if warnings := s.Validate(); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}

func TestLookup_ExactAndWildcard(t *testing.T) {
	s, err := Parse([]byte(testKB))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		symbol  string
		context string
		want    string
		found   bool
	}{
		{"water", "calm", "Emotional tranquility", true},
		{"water", "rough", "Your emotional state", true},
		{"water", model.Wildcard, "Your emotional state", true},
		{"water", "", "Your emotional state", true},
		{"big_dog", "friendly", "A protector you rely on", true},
		{"big dog", model.Wildcard, "A protector you rely on", true},
		{"snake", "hidden", "A secret threat", true},
		{"snake", model.Wildcard, "", false},
		{"unicorn", model.Wildcard, "", false},
	}

	for _, tt := range tests {
		got, found := s.Lookup(tt.symbol, tt.context)
		if found != tt.found || got != tt.want {
			t.Errorf("Lookup(%q, %q) = (%q, %v), want (%q, %v)", tt.symbol, tt.context, got, found, tt.want, tt.found)
		}
	}
}

func TestNew_DuplicateFirstWins(t *testing.T) {
	s, err := New([]model.SymbolFact{
		{Symbol: "fire", Context: "_", Interpretation: "first"},
		{Symbol: "FIRE", Context: "_", Interpretation: "second"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, _ := s.Lookup("fire", model.Wildcard)
	if got != "first" {
		t.Errorf("Expected first declaration to win, got %q", got)
	}
	if len(s.Facts()) != 1 {
		t.Errorf("Expected 1 fact after dedupe, got %d", len(s.Facts()))
	}

	warnings := s.Validate()
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "duplicate") {
		t.Errorf("Expected one duplicate warning, got %v", warnings)
	}
}

func TestNew_EmptyContextIsWildcard(t *testing.T) {
	s, err := New([]model.SymbolFact{{Symbol: "moon", Interpretation: "Cycles"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Contexts("moon"); len(got) != 1 || got[0] != model.Wildcard {
		t.Errorf("Expected wildcard context, got %v", got)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		facts []model.SymbolFact
		rules []model.ContextRule
		want  error
	}{
		{"no facts", nil, nil, ErrNoFacts},
		{"no symbol", []model.SymbolFact{{Symbol: "  ", Interpretation: "x"}}, nil, ErrInvalidFact},
		{"no interpretation", []model.SymbolFact{{Symbol: "x", Interpretation: " "}}, nil, ErrInvalidFact},
		{
			"rule without keywords",
			[]model.SymbolFact{{Symbol: "x", Interpretation: "y"}},
			[]model.ContextRule{{Symbol: "x", Labels: []model.LabelRule{{Label: "a"}}}},
			ErrInvalidRule,
		},
		{
			"wildcard label",
			[]model.SymbolFact{{Symbol: "x", Interpretation: "y"}},
			[]model.ContextRule{{Symbol: "x", Labels: []model.LabelRule{{Label: "_", Keywords: []string{"k"}}}}},
			ErrInvalidRule,
		},
		{
			"duplicate rule",
			[]model.SymbolFact{{Symbol: "x", Interpretation: "y"}},
			[]model.ContextRule{
				{Symbol: "x", Labels: []model.LabelRule{{Label: "a", Keywords: []string{"k"}}}},
				{Symbol: "X", Labels: []model.LabelRule{{Label: "b", Keywords: []string{"k"}}}},
			},
			ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.facts, tt.rules)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("facts: [unclosed")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
	if _, err := Parse([]byte("contexts: []")); !errors.Is(err, ErrNoFacts) {
		t.Errorf("Expected ErrNoFacts, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	if err := os.WriteFile(path, []byte(testKB), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Symbols()) != 3 {
		t.Errorf("Expected 3 symbols, got %d", len(s.Symbols()))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default knowledge base failed to load: %v", err)
	}

	if warnings := s.Validate(); len(warnings) != 0 {
		t.Errorf("Expected embedded knowledge base to be consistent, got %v", warnings)
	}

	got, ok := s.Lookup("water", "calm")
	if !ok || strings.ToLower(got) != "emotional tranquility" {
		t.Errorf("Unexpected water/calm interpretation: %q", got)
	}

	rule, ok := s.Rule("door")
	if !ok {
		t.Fatal("Expected door rule")
	}
	labels := []string{rule.Labels[0].Label, rule.Labels[1].Label}
	if diff := cmp.Diff([]string{"open", "locked"}, labels); diff != "" {
		t.Errorf("Door label order mismatch (-want +got):\n%s", diff)
	}

	for _, multi := range []string{"black_cat", "full_moon"} {
		if _, ok := s.Lookup(multi, model.Wildcard); !ok {
			t.Errorf("Expected multi-word symbol %s in default knowledge base", multi)
		}
	}
}
