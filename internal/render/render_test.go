package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/oneiro/internal/model"
)

func waterResult() model.InterpretationResult {
	return model.InterpretationResult{
		Symbols: []string{"water"},
		Interpretations: []model.Interpretation{
			{Symbol: "water", Interpretation: "Emotional tranquility"},
		},
		Overall: "Your dream about water suggests emotional tranquility.",
	}
}

func emptyResult() model.InterpretationResult {
	return model.InterpretationResult{
		Symbols:         []string{},
		Interpretations: []model.Interpretation{},
		Overall:         "I couldn't identify specific symbols in your dream. Please provide more details.",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestText_WithSymbols(t *testing.T) {
	out := Text(waterResult())

	for _, want := range []string{
		"DREAM ANALYSIS",
		"SYMBOLS DETECTED:",
		"  • water\n",
		"INTERPRETATION:\nYour dream about water suggests emotional tranquility.\n",
		Reminder,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "REFLECTION") {
		t.Error("text output has a reflection section without a reflection")
	}
}

func TestText_NoSymbols(t *testing.T) {
	out := Text(emptyResult())

	if !strings.Contains(out, "DREAM ANALYSIS") {
		t.Error("missing banner")
	}
	if !strings.Contains(out, emptyResult().Overall) {
		t.Error("missing overall message")
	}
	for _, unwanted := range []string{"SYMBOLS DETECTED", "INTERPRETATION", Reminder} {
		if strings.Contains(out, unwanted) {
			t.Errorf("no-symbol output should not contain %q", unwanted)
		}
	}
}

func TestText_Reflection(t *testing.T) {
	res := waterResult()
	res.Reflection = &model.Reflection{
		Provider: "ollama",
		Model:    "llama3",
		Text:     "Still water mirrors a settled mind.",
		Warnings: []string{`reflection mentions symbol "dog" that is not in the dream`},
	}

	out := Text(res)
	for _, want := range []string{"REFLECTION (ollama/llama3):", "Still water mirrors a settled mind.", `"dog"`} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestCenter(t *testing.T) {
	got := Center("abc", 9)
	if got != "   abc   " {
		t.Errorf("Center = %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	res := model.InterpretationResult{
		Symbols: []string{"water", "black cat"},
		Interpretations: []model.Interpretation{
			{Symbol: "water", Interpretation: "Emotional tranquility"},
		},
		Overall: "Your dream about water suggests emotional tranquility.",
		Reflection: &model.Reflection{
			Provider: "openai",
			Cached:   true,
		},
	}

	md := Markdown("The water was calm\nand a black cat watched", res)

	for _, want := range []string{
		"# Dream Analysis",
		"> The water was calm\n> and a black cat watched",
		"| water | Emotional tranquility |",
		"| black cat | _no interpretation_ |",
		"## Interpretation",
		"## Reflection",
		"GENERATED CONTENT",
		"- **Provider:** openai",
		"- **Cached:** true",
		"_No reflection generated._",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf).Result("The water was calm & peaceful", waterResult(), FormatJSON); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	if strings.Contains(buf.String(), `\u0026`) {
		t.Error("JSON output should not escape &")
	}

	var got struct {
		Dream string `json:"dream"`
		model.InterpretationResult
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Dream != "The water was calm & peaceful" {
		t.Errorf("unexpected dream %q", got.Dream)
	}
	if diff := cmp.Diff(waterResult(), got.InterpretationResult); diff != "" {
		t.Errorf("JSON result mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(buf.String(), "reflection") {
		t.Error("reflection key should be omitted when absent")
	}
}

func TestRenderer_Batch(t *testing.T) {
	water := waterResult()
	empty := emptyResult()
	entries := []Entry{
		{Dream: "The water was calm", Result: &water},
		{Dream: "bread", Result: &empty},
		{Dream: "lost", Err: errors.New("context canceled")},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewRenderer(&buf).Batch(entries, FormatJSON); err != nil {
			t.Fatalf("Batch failed: %v", err)
		}

		var got []map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(got))
		}
		if got[0]["overall"] != water.Overall || got[0]["index"] != float64(0) {
			t.Errorf("unexpected first entry: %v", got[0])
		}
		if got[2]["error"] != "context canceled" {
			t.Errorf("expected error on third entry, got %v", got[2])
		}
		if _, ok := got[2]["symbols"]; ok {
			t.Error("failed entry should not carry result fields")
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewRenderer(&buf).Batch(entries, FormatText); err != nil {
			t.Fatalf("Batch failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"[1/3] The water was calm", "[3/3] lost", "Error: context canceled"} {
			if !strings.Contains(out, want) {
				t.Errorf("text batch missing %q", want)
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewRenderer(&buf).Batch(entries, FormatMarkdown); err != nil {
			t.Fatalf("Batch failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"# Dream Journal Analysis", "## Dream 1", "### Symbols", "**Error:** context canceled"} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown batch missing %q", want)
			}
		}
	})
}
