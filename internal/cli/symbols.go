package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/oneiro/internal/interpret"
	"github.com/ppiankov/oneiro/internal/kb"
	"github.com/ppiankov/oneiro/internal/model"
	"github.com/spf13/cobra"
)

var checkKB bool

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the knowledge base symbols and their context rules",
	Long: `List every symbol the knowledge base knows, with its context labels
and the keywords that select them, in priority order.

With --check, print consistency warnings instead and exit non-zero when
there are any.

Example:
  oneiro symbols
  oneiro symbols --kb ./my-kb.yaml --check`,
	Args: cobra.NoArgs,
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().BoolVar(&checkKB, "check", false, "validate the knowledge base and report warnings")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// --check reports warnings itself, so strict loading would hide them
	kbCfg := cfg.KnowledgeBase
	if checkKB {
		kbCfg.Strict = false
	}
	store, err := interpret.LoadStore(kbCfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkKB {
		return reportWarnings(out, store)
	}

	listSymbols(out, store)
	return nil
}

func listSymbols(out io.Writer, store *kb.Store) {
	for _, sym := range store.Symbols() {
		fmt.Fprintf(out, "%s\n", model.DisplayName(sym))

		rule, ok := store.Rule(sym)
		if !ok {
			fmt.Fprintf(out, "  (no context rules; always %q)\n", model.Wildcard)
			continue
		}
		for _, l := range rule.Labels {
			fmt.Fprintf(out, "  %-12s %s\n", l.Label, strings.Join(l.Keywords, ", "))
		}
	}
}

func reportWarnings(out io.Writer, store *kb.Store) error {
	warnings := store.Validate()
	if len(warnings) == 0 {
		fmt.Fprintf(out, "✓ Knowledge base is consistent (%d symbols, %d facts, %d rules)\n",
			len(store.Symbols()), len(store.Facts()), len(store.Rules()))
		return nil
	}

	for _, w := range warnings {
		fmt.Fprintf(out, "⚠ %s\n", w)
	}
	return fmt.Errorf("%d warnings: %w", len(warnings), kb.ErrInconsistent)
}
