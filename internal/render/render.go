// Package render writes interpretation results as text, JSON or Markdown.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/oneiro/internal/model"
)

// Format selects an output encoding
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Reminder closes every text analysis that found symbols
const Reminder = "Remember: Dream interpretations are subjective. Trust your intuition!"

const (
	lineWidth   = 60
	bannerTitle = "🔮 DREAM ANALYSIS 🔮"
)

// ParseFormat accepts text, json, markdown and md
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (supported: text, json, markdown)", s)
}

// Entry is one interpreted dream of a batch
type Entry struct {
	Dream  string
	Result *model.InterpretationResult
	Err    error
}

func (e Entry) failure() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Result == nil {
		return errNoResult
	}
	return nil
}

var errNoResult = errors.New("no result")

// Renderer writes results to an output stream
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Result writes a single interpretation in the given format
func (r *Renderer) Result(dream string, result model.InterpretationResult, format Format) error {
	switch format {
	case FormatJSON:
		return r.JSON(dream, result)
	case FormatMarkdown:
		_, err := io.WriteString(r.w, Markdown(dream, result))
		return err
	default:
		_, err := io.WriteString(r.w, Text(result))
		return err
	}
}

// Batch writes every entry of a batch in the given format, in order
func (r *Renderer) Batch(entries []Entry, format Format) error {
	switch format {
	case FormatJSON:
		return r.batchJSON(entries)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("# Dream Journal Analysis\n\n")
		for i, e := range entries {
			fmt.Fprintf(&b, "## Dream %d\n\n", i+1)
			if err := e.failure(); err != nil {
				fmt.Fprintf(&b, "> %s\n\n**Error:** %v\n\n", e.Dream, err)
				continue
			}
			b.WriteString(markdownBody(e.Dream, *e.Result, "###"))
		}
		_, err := io.WriteString(r.w, b.String())
		return err
	default:
		var b strings.Builder
		for i, e := range entries {
			fmt.Fprintf(&b, "\n[%d/%d] %s\n", i+1, len(entries), e.Dream)
			if err := e.failure(); err != nil {
				fmt.Fprintf(&b, "Error: %v\n", err)
				continue
			}
			b.WriteString(Text(*e.Result))
		}
		_, err := io.WriteString(r.w, b.String())
		return err
	}
}

// Text renders the console block: banner, detected symbols and narrative.
// With no symbols only the overall message follows the banner.
func Text(result model.InterpretationResult) string {
	var b strings.Builder
	rule := strings.Repeat("-", lineWidth)

	b.WriteString("\n" + rule + "\n")
	b.WriteString(Center(bannerTitle, lineWidth) + "\n")
	b.WriteString(rule + "\n")

	if len(result.Symbols) == 0 {
		b.WriteString("\n" + result.Overall + "\n")
		return b.String()
	}

	b.WriteString("\n🔑 SYMBOLS DETECTED:\n")
	for _, s := range result.Symbols {
		fmt.Fprintf(&b, "  • %s\n", s)
	}

	b.WriteString("\n📝 INTERPRETATION:\n")
	b.WriteString(result.Overall + "\n")

	if ref := result.Reflection; ref != nil {
		b.WriteString("\n💭 REFLECTION")
		if ref.Provider != "" {
			fmt.Fprintf(&b, " (%s)", providerLabel(ref))
		}
		b.WriteString(":\n")
		if ref.Text != "" {
			b.WriteString(ref.Text + "\n")
		}
		for _, w := range ref.Warnings {
			fmt.Fprintf(&b, "  ⚠ %s\n", w)
		}
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString(Reminder + "\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// Center pads s with spaces to width display cells
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Markdown renders a single analysis as a Markdown document
func Markdown(dream string, result model.InterpretationResult) string {
	return "# Dream Analysis\n\n" + markdownBody(dream, result, "##")
}

func markdownBody(dream string, result model.InterpretationResult, heading string) string {
	var b strings.Builder

	if dream != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(dream), "\n", "\n> "))
	}

	if len(result.Symbols) == 0 {
		b.WriteString(result.Overall + "\n\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s Symbols\n\n", heading)
	b.WriteString("| Symbol | Interpretation |\n|---|---|\n")
	interps := make(map[string]string, len(result.Interpretations))
	for _, it := range result.Interpretations {
		interps[it.Symbol] = it.Interpretation
	}
	for _, s := range result.Symbols {
		text, ok := interps[s]
		if !ok {
			text = "_no interpretation_"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", s, text)
	}

	fmt.Fprintf(&b, "\n%s Interpretation\n\n%s\n\n", heading, result.Overall)

	if ref := result.Reflection; ref != nil {
		fmt.Fprintf(&b, "%s Reflection\n\n", heading)
		b.WriteString("> **GENERATED CONTENT.** Written by a language model from the interpretations above, which were determined independently.\n\n")
		if ref.Provider != "" {
			fmt.Fprintf(&b, "- **Provider:** %s\n", providerLabel(ref))
		}
		if ref.Cached {
			b.WriteString("- **Cached:** true\n")
		}
		b.WriteString("\n")
		if ref.Text != "" {
			b.WriteString(ref.Text + "\n\n")
		} else {
			b.WriteString("_No reflection generated._\n\n")
		}
		if len(ref.Warnings) > 0 {
			b.WriteString("**Notes:**\n\n")
			for _, w := range ref.Warnings {
				fmt.Fprintf(&b, "- %s\n", w)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("_" + Reminder + "_\n\n")
	return b.String()
}

func providerLabel(ref *model.Reflection) string {
	if ref.Model == "" {
		return ref.Provider
	}
	return ref.Provider + "/" + ref.Model
}

type jsonResult struct {
	Dream string `json:"dream,omitempty"`
	model.InterpretationResult
}

type jsonEntry struct {
	Index int    `json:"index"`
	Dream string `json:"dream"`
	*model.InterpretationResult
	Error string `json:"error,omitempty"`
}

// JSON writes one result as an indented JSON object
func (r *Renderer) JSON(dream string, result model.InterpretationResult) error {
	return r.encode(jsonResult{Dream: dream, InterpretationResult: result})
}

func (r *Renderer) batchJSON(entries []Entry) error {
	out := make([]jsonEntry, 0, len(entries))
	for i, e := range entries {
		je := jsonEntry{Index: i, Dream: e.Dream, InterpretationResult: e.Result}
		if err := e.failure(); err != nil {
			je.Error = err.Error()
			je.InterpretationResult = nil
		}
		out = append(out, je)
	}
	return r.encode(out)
}

func (r *Renderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
