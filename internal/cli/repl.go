package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/oneiro/internal/model"
	"github.com/ppiankov/oneiro/internal/render"
	"github.com/spf13/cobra"
)

const (
	replPrompt  = "Describe your dream (or type 'exit'): "
	replGoodbye = "Thank you for using the Dream Interpreter. Goodbye!"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interpret dreams in an interactive console loop",
	Long: `Start an interactive loop: describe a dream, read the analysis, repeat.
Type 'exit' (any case) or press Ctrl-D to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s.interpreter.InterpretWithReflection)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	addReflectFlags(replCmd)
}

// interpretFunc produces the result for one dream
type interpretFunc func(ctx context.Context, dream string) model.InterpretationResult

// runREPL reads dreams line by line from in until "exit" or EOF
func runREPL(ctx context.Context, in io.Reader, out io.Writer, interpret interpretFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}

	printWelcome(out)

	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, replPrompt)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read input: %w", err)
		}
		eof := err == io.EOF
		line = strings.TrimRight(line, "\r\n")

		if eof && strings.TrimSpace(line) == "" {
			fmt.Fprintf(out, "\n\n%s\n", replGoodbye)
			return nil
		}
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			fmt.Fprintf(out, "\n%s\n", replGoodbye)
			return nil
		}

		switch {
		case strings.TrimSpace(line) == "":
			fmt.Fprintln(out, emptyDreamMessage)
		default:
			fmt.Fprint(out, render.Text(interpret(ctx, line)))
			fmt.Fprintln(out)
		}

		if eof {
			fmt.Fprintf(out, "\n%s\n", replGoodbye)
			return nil
		}
	}
}

func printWelcome(out io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, render.Center("🌙 DREAM INTERPRETER 🌙", 60))
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "\nWelcome to the Dream Interpreter!")
	fmt.Fprintln(out, "Describe your dream in detail, and I'll analyze the symbols.")
	fmt.Fprintln(out, "Type 'exit' to quit the program.")
	fmt.Fprintln(out)
}
