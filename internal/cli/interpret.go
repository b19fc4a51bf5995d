package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/oneiro/internal/render"
	"github.com/spf13/cobra"
)

var interpretTimeout time.Duration

// interpretCmd represents the interpret command
var interpretCmd = &cobra.Command{
	Use:   "interpret [dream...]",
	Short: "Interpret a single dream description",
	Long: `Interpret one dream and print the analysis.

The dream is taken from the arguments, or read from stdin when no
arguments are given (or the only argument is "-").

Example:
  oneiro interpret "The water was calm and peaceful"
  echo "A dog was barking at a locked door" | oneiro interpret --format json
  oneiro interpret --reflect --llm-provider ollama --llm-model llama3 "I was flying"`,
	RunE: runInterpret,
}

func init() {
	rootCmd.AddCommand(interpretCmd)

	addOutputFlags(interpretCmd)
	addReflectFlags(interpretCmd)
	interpretCmd.Flags().DurationVar(&interpretTimeout, "timeout", 60*time.Second, "timeout for the reflection call")
}

func runInterpret(cmd *cobra.Command, args []string) error {
	dream, err := readDream(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(dream) == "" {
		return errEmptyDream
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), interpretTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Interpreting %d characters...\n", len([]rune(dream)))
	}

	result := s.interpreter.InterpretWithReflection(ctx, dream)
	return render.NewRenderer(cmd.OutOrStdout()).Result(dream, result, s.format)
}

// readDream joins args into one dream, or reads all of in when there are none
func readDream(in io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
