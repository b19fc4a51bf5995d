package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/oneiro/internal/cache"
	"github.com/ppiankov/oneiro/internal/logging"
	"github.com/ppiankov/oneiro/internal/model"
)

// SymbolScanner detects knowledge-base symbols in free text
type SymbolScanner interface {
	Scan(text string) model.Detection
}

// Throttle blocks until a request to the given endpoint may proceed
type Throttle interface {
	Wait(ctx context.Context, endpoint string) error
}

// Reflector wraps a provider with caching, throttling and the symbol guard
type Reflector struct {
	provider Provider
	config   Config

	cache    cache.Cache
	cacheTTL time.Duration
	scanner  SymbolScanner
	throttle Throttle

	// Only a positive availability check is remembered
	availMu   sync.Mutex
	available bool
}

func (r *Reflector) checkAvailable(ctx context.Context) bool {
	r.availMu.Lock()
	defer r.availMu.Unlock()
	if !r.available {
		r.available = r.provider.IsAvailable(ctx)
	}
	return r.available
}

// NewReflector creates a reflector. With no provider configured it is disabled.
func NewReflector(config Config) (*Reflector, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	r := &Reflector{config: config, cache: cache.Nop{}}
	if provider != nil {
		r.provider = provider
	}
	return r, nil
}

// WithCache stores replies in c for ttl (zero = cache default)
func (r *Reflector) WithCache(c cache.Cache, ttl time.Duration) *Reflector {
	if c == nil {
		c = cache.Nop{}
	}
	r.cache = c
	r.cacheTTL = ttl
	return r
}

// WithScanner enables the symbol guard on replies
func (r *Reflector) WithScanner(s SymbolScanner) *Reflector {
	r.scanner = s
	return r
}

// WithThrottle rate-limits provider calls
func (r *Reflector) WithThrottle(t Throttle) *Reflector {
	r.throttle = t
	return r
}

// IsEnabled reports whether a provider is configured
func (r *Reflector) IsEnabled() bool {
	return r != nil && r.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (r *Reflector) ProviderName() string {
	if !r.IsEnabled() {
		return ""
	}
	return r.provider.Name()
}

// Reflect produces a reflection for an interpreted dream. Provider failures
// degrade into warnings on the returned reflection; a disabled reflector
// returns (nil, nil).
func (r *Reflector) Reflect(ctx context.Context, dream string, result model.InterpretationResult) (*model.Reflection, error) {
	if !r.IsEnabled() {
		return nil, nil
	}

	reflection := &model.Reflection{
		Provider: r.provider.Name(),
		Model:    r.config.Model,
	}

	if !r.checkAvailable(ctx) {
		reflection.Warnings = append(reflection.Warnings,
			fmt.Sprintf("LLM provider %s is not available (check API key and endpoint)", reflection.Provider))
		return reflection, nil
	}

	prompt := BuildPrompt(dream, result)
	key := cache.Key(reflection.Provider, r.config.Model, prompt)

	if data, ok := r.cache.Get(key); ok {
		reflection.Text = string(data)
		reflection.Cached = true
		reflection.Warnings = append(reflection.Warnings, r.guard(reflection.Text, result)...)
		return reflection, nil
	}

	if r.throttle != nil {
		if err := r.throttle.Wait(ctx, r.endpoint()); err != nil {
			reflection.Warnings = append(reflection.Warnings, fmt.Sprintf("reflection skipped: %v", err))
			return reflection, nil
		}
	}

	resp, err := r.provider.Reflect(ctx, ReflectRequest{
		Dream:     dream,
		Result:    result,
		Prompt:    prompt,
		Model:     r.config.Model,
		MaxTokens: r.config.MaxTokens,
	})
	if err != nil {
		logging.Logger.Warnw("Reflection failed", "provider", reflection.Provider, "error", err)
		reflection.Warnings = append(reflection.Warnings, fmt.Sprintf("reflection failed: %v", err))
		return reflection, nil
	}

	reflection.Text = resp.Text
	if resp.Model != "" {
		reflection.Model = resp.Model
	}

	if err := r.cache.Set(key, []byte(resp.Text), r.cacheTTL); err != nil {
		logging.Logger.Debugw("Failed to cache reflection", "error", err)
	}

	reflection.Warnings = append(reflection.Warnings, r.guard(resp.Text, result)...)
	return reflection, nil
}

// guard reports knowledge-base symbols the reply mentions that the dream did not
func (r *Reflector) guard(text string, result model.InterpretationResult) []string {
	if r.scanner == nil {
		return nil
	}

	detected := make(map[string]bool, len(result.Symbols))
	for _, s := range result.Symbols {
		detected[s] = true
	}

	var warnings []string
	for _, sym := range r.scanner.Scan(text).Symbols() {
		name := model.DisplayName(sym)
		if !detected[name] {
			warnings = append(warnings, fmt.Sprintf("reflection mentions symbol %q that is not in the dream", name))
		}
	}
	return warnings
}

func (r *Reflector) endpoint() string {
	if p, ok := r.provider.(interface{ BaseURL() string }); ok {
		return p.BaseURL()
	}
	return r.provider.Name()
}
