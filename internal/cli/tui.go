package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/oneiro/internal/model"
	"github.com/ppiankov/oneiro/internal/render"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interpret dreams in a full-screen terminal form",
	Long: `Open a terminal form with one text field. Press Enter to analyze the
dream, PgUp/PgDn to scroll the result, Esc or Ctrl-C to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		p := tea.NewProgram(
			newTUIModel(cmd.Context(), s.interpreter.InterpretWithReflection),
			tea.WithAltScreen(),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	addReflectFlags(tuiCmd)
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")).MarginBottom(1)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiResultStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// analysisMsg carries a finished interpretation back to the program
type analysisMsg struct {
	dream  string
	result model.InterpretationResult
}

// tuiModel is the windowed form: one input field and a scrollable result
type tuiModel struct {
	ctx      context.Context
	analyze  interpretFunc
	input    textinput.Model
	viewport viewport.Model
	status   string
	busy     bool
	width    int
}

func newTUIModel(ctx context.Context, analyze interpretFunc) tuiModel {
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "I was swimming in calm water..."
	ti.CharLimit = 2000
	ti.Width = 70
	ti.Focus()

	vp := viewport.New(76, 16)
	vp.SetContent("Describe your dream and press Enter.")

	return tuiModel{
		ctx:      ctx,
		analyze:  analyze,
		input:    ti,
		viewport: vp,
		width:    80,
	}
}

// Init starts the cursor blink
func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, resizes and finished analyses
func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-10, 3)
		return m, nil

	case analysisMsg:
		m.busy = false
		m.status = ""
		m.viewport.SetContent(strings.TrimLeft(render.Text(msg.result), "\n"))
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			dream := strings.TrimSpace(m.input.Value())
			if dream == "" {
				m.status = emptyDreamMessage
				return m, nil
			}
			m.busy = true
			m.status = "Analyzing..."
			return m, m.analyzeCmd(dream)

		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) analyzeCmd(dream string) tea.Cmd {
	ctx, analyze := m.ctx, m.analyze
	return func() tea.Msg {
		return analysisMsg{dream: dream, result: analyze(ctx, dream)}
	}
}

// View renders the form
func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("🌙 Dream Interpreter"))
	b.WriteString("\n")
	b.WriteString("Describe your dream:\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(tuiStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(tuiResultStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render("enter: analyze • pgup/pgdn: scroll • esc: quit"))

	return b.String()
}
