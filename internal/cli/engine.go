package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/oneiro/internal/interpret"
	"github.com/ppiankov/oneiro/internal/model"
	"github.com/ppiankov/oneiro/internal/render"
	"github.com/ppiankov/oneiro/internal/worker"
	"github.com/spf13/cobra"
)

// emptyDreamMessage is shown instead of calling the engine on blank input
const emptyDreamMessage = "Please enter a dream description."

// errEmptyDream carries the message itself; main prints it once
var errEmptyDream = errors.New(emptyDreamMessage)

var (
	outputFormat string
	reflectOn    bool
	llmProvider  string
	llmModel     string
)

// addOutputFlags registers --format on cmd
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json, markdown (default from config)")
}

// addReflectFlags registers the optional LLM reflection flags on cmd
func addReflectFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&reflectOn, "reflect", false, "add an LLM-written reflection (never changes the interpretation)")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for --reflect (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name for --reflect")
}

// session is the configured engine shared by every presentation command
type session struct {
	cfg         *model.Config
	interpreter *interpret.Interpreter
	limiter     *worker.Limiter
	format      render.Format
}

// newSession loads configuration and the knowledge base. Reflection is only
// enabled when --reflect was given.
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	if reflectOn {
		if llmProvider != "" {
			cfg.LLM.Provider = llmProvider
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.Provider == "" {
			return nil, fmt.Errorf("--reflect needs an LLM provider (set llm.provider in the config or pass --llm-provider)")
		}
		applyProviderEnv(cfg)
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	} else {
		cfg.LLM.Provider = ""
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	interp, err := interpret.FromConfig(cfg, limiter)
	if err != nil {
		return nil, err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Knowledge base: %s (%d symbols)\n", kbLabel(cfg), len(interp.Store().Symbols()))
		if interp.Reflects() {
			fmt.Fprintf(os.Stderr, "Reflection: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
	}

	return &session{cfg: cfg, interpreter: interp, limiter: limiter, format: format}, nil
}

func kbLabel(cfg *model.Config) string {
	if cfg.KnowledgeBase.Path == "" {
		return "embedded"
	}
	return cfg.KnowledgeBase.Path
}
