// Package llm generates optional reflective paragraphs about an interpreted dream.
// Reflections are produced after composition and never change the canned result.
package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/oneiro/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Reflect generates a reflective paragraph for an interpreted dream
	Reflect(ctx context.Context, req ReflectRequest) (*ReflectResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// ReflectRequest contains the input for a reflection
type ReflectRequest struct {
	// Dream is the original dream description
	Dream string

	// Result is the canned interpretation the reflection must stay within
	Result model.InterpretationResult

	// Prompt is an optional custom prompt (if empty, BuildPrompt is used)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReflectResponse contains the provider's reply
type ReflectResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (e.g., Ollama's /v1)
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 400,
	}
}

// BuildPrompt constructs the default reflection prompt. The model may only
// talk about the symbols that were detected and their listed meanings.
func BuildPrompt(dream string, result model.InterpretationResult) string {
	var b strings.Builder

	b.WriteString(`You are writing a short, gentle reflection on a dream for its dreamer.

RULES:
1. Only discuss the symbols listed below and the meanings given for them.
2. Do NOT introduce other dream symbols, omens or predictions.
3. Do NOT present interpretations as facts; they are prompts for self-reflection.
4. Write 3-4 sentences of plain prose, no lists, no headings.

Dream:
`)
	b.WriteString(quoteDream(dream))
	b.WriteString("\n\nSymbols and meanings:\n")

	if len(result.Interpretations) == 0 {
		b.WriteString("(No interpretable symbols were found)\n")
	}
	for _, it := range result.Interpretations {
		fmt.Fprintf(&b, "- %s: %s\n", it.Symbol, it.Interpretation)
	}

	b.WriteString("\nWrite the reflection now.")
	return b.String()
}

// quoteDream trims and bounds the dream text so one long entry cannot bloat the prompt
func quoteDream(dream string) string {
	dream = strings.TrimSpace(dream)
	const limit = 2000
	if len(dream) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(dream[cut]) {
			cut--
		}
		dream = dream[:cut] + " ..."
	}
	return `"` + dream + `"`
}
