// Package interpret wires the knowledge base, scanner and composer into the
// dream interpretation engine.
package interpret

import (
	"context"
	"fmt"

	"github.com/ppiankov/oneiro/internal/cache"
	"github.com/ppiankov/oneiro/internal/classify"
	"github.com/ppiankov/oneiro/internal/compose"
	"github.com/ppiankov/oneiro/internal/kb"
	"github.com/ppiankov/oneiro/internal/llm"
	"github.com/ppiankov/oneiro/internal/logging"
	"github.com/ppiankov/oneiro/internal/model"
	"github.com/ppiankov/oneiro/internal/scan"
)

// Interpreter maps dream text to an InterpretationResult.
// Interpret is stateless and safe for concurrent use.
type Interpreter struct {
	store     *kb.Store
	scanner   *scan.Scanner
	composer  *compose.Composer
	reflector *llm.Reflector
}

// New builds an interpreter over store. radius <= 0 selects the default window radius.
func New(store *kb.Store, radius int) *Interpreter {
	classifier := classify.NewClassifier(store)
	return &Interpreter{
		store:    store,
		scanner:  scan.NewScanner(store, classifier, radius),
		composer: compose.NewComposer(store),
	}
}

// FromConfig loads the knowledge base named by cfg and builds an interpreter.
// When an LLM provider is configured a reflector is attached, throttled by
// throttle (may be nil) and cached per cfg.Cache.
func FromConfig(cfg *model.Config, throttle llm.Throttle) (*Interpreter, error) {
	store, err := LoadStore(cfg.KnowledgeBase)
	if err != nil {
		return nil, err
	}

	interp := New(store, cfg.Scan.WindowRadius)

	if cfg.LLM.Provider == "" {
		return interp, nil
	}

	reflector, err := llm.NewReflector(llm.ConfigFromModel(cfg))
	if err != nil {
		return nil, fmt.Errorf("reflection provider: %w", err)
	}
	reflector.WithScanner(interp.scanner)
	reflector.WithCache(cache.FromConfig(cfg.Cache), cfg.Cache.DiskTTL)
	if throttle != nil {
		reflector.WithThrottle(throttle)
	}

	return interp.WithReflector(reflector), nil
}

// LoadStore returns the configured knowledge base, or the embedded default.
// Validation warnings are logged, or returned as an error in strict mode.
func LoadStore(cfg model.KnowledgeBaseConfig) (*kb.Store, error) {
	var (
		store *kb.Store
		err   error
	)
	if cfg.Path != "" {
		store, err = kb.Load(cfg.Path)
	} else {
		store, err = kb.Default()
	}
	if err != nil {
		return nil, err
	}

	warnings := store.Validate()
	for _, w := range warnings {
		logging.Logger.Warnw("Knowledge base warning", "symbol", w.Symbol, "context", w.Context, "message", w.Message)
	}
	if cfg.Strict {
		if err := store.Check(); err != nil {
			return nil, err
		}
	}

	logging.Logger.Debugw("Knowledge base loaded",
		"path", cfg.Path,
		"symbols", len(store.Symbols()),
		"facts", len(store.Facts()),
		"rules", len(store.Rules()),
		"warnings", len(warnings))

	return store, nil
}

// WithReflector attaches an optional reflection provider
func (i *Interpreter) WithReflector(r *llm.Reflector) *Interpreter {
	i.reflector = r
	return i
}

// Store returns the knowledge base in use
func (i *Interpreter) Store() *kb.Store {
	return i.store
}

// Reflects reports whether InterpretWithReflection will call a provider
func (i *Interpreter) Reflects() bool {
	return i.reflector.IsEnabled()
}

// Detect scans text for knowledge-base symbols and classifies their contexts
func (i *Interpreter) Detect(text string) model.Detection {
	return i.scanner.Scan(text)
}

// Interpret runs detection and composition. Empty input yields the no-symbols result.
func (i *Interpreter) Interpret(text string) model.InterpretationResult {
	return i.composer.Compose(i.scanner.Scan(text))
}

// InterpretWithReflection interprets text and, when a reflector is attached
// and at least one interpretation was found, adds a reflection. The core
// fields are identical to Interpret(text).
func (i *Interpreter) InterpretWithReflection(ctx context.Context, text string) model.InterpretationResult {
	result := i.Interpret(text)
	if !i.reflector.IsEnabled() || len(result.Interpretations) == 0 {
		return result
	}

	reflection, err := i.reflector.Reflect(ctx, text, result)
	if err != nil {
		logging.Logger.Warnw("Reflection failed", "error", err)
		return result
	}
	if reflection == nil {
		return result
	}
	for _, w := range reflection.Warnings {
		logging.Logger.Warnw("Reflection warning", "provider", reflection.Provider, "warning", w)
	}
	result.Reflection = reflection
	return result
}

// Analyze is InterpretWithReflection; it lets the interpreter drive batch workers
func (i *Interpreter) Analyze(ctx context.Context, dream string) model.InterpretationResult {
	return i.InterpretWithReflection(ctx, dream)
}
