package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/oneiro/internal/journal"
	"github.com/ppiankov/oneiro/internal/render"
	"github.com/ppiankov/oneiro/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputFile   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <journal>",
	Short: "Interpret every dream in a journal file or page",
	Long: `Batch interprets many dreams concurrently.

The journal is one of:
- a .txt file with one dream per line (# comments and blank lines skipped)
- an .html/.htm file, one dream per <p> or <li>
- an http(s) URL serving such a page (robots.txt is honoured)

Results are printed in journal order.

Example:
  oneiro batch dreams.txt
  oneiro batch journal.html --format markdown --output analysis.md
  oneiro batch https://example.com/my-dreams --concurrency 8 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write results to this file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	addOutputFlags(batchCmd)
	addReflectFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	s, err := newSession()
	if err != nil {
		return err
	}

	workers := s.cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Oneiro Batch Interpretation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Journal:      %s\n", source)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Format:       %s\n", s.format)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if s.interpreter.Reflects() {
		fmt.Fprintf(os.Stderr, "  Reflection:   %s/%s\n", s.cfg.LLM.Provider, s.cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	fetcher := journal.NewFetcher(s.cfg.HTTP).WithThrottle(s.limiter)

	fmt.Fprintf(os.Stderr, "⚙️  Reading journal...\n")
	dreams, err := journal.Load(ctx, source, fetcher)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d dreams\n", len(dreams))
	fmt.Fprintf(os.Stderr, "⚙️  Interpreting with %d workers...\n", workers)

	start := time.Now()
	processor := worker.NewBatchProcessor(s.interpreter, workers)
	results := processor.ProcessDreams(ctx, dreams)

	entries := make([]render.Entry, len(results))
	withSymbols, failures := 0, 0
	for i, res := range results {
		entries[i] = render.Entry{Dream: res.Dream, Result: res.Result, Err: res.Error}
		switch {
		case res.Error != nil:
			failures++
			fmt.Fprintf(os.Stderr, "✗ dream %d: %v\n", i+1, res.Error)
		case len(res.Result.Symbols) > 0:
			withSymbols++
		}
	}

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, createErr := os.Create(outputFile)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", closeErr)
			}
		}()
		out = f
	}

	if renderErr := render.NewRenderer(out).Batch(entries, s.format); renderErr != nil {
		return fmt.Errorf("render failed: %w", renderErr)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d dreams\n", len(results))
	fmt.Fprintf(os.Stderr, "  With symbols:  %d\n", withSymbols)
	fmt.Fprintf(os.Stderr, "  Failures:      %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Duration:      %v\n", time.Since(start).Round(time.Millisecond))
	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputFile)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
