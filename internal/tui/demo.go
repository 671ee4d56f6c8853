// internal/tui/demo.go
// Package tui implements the interactive demo: type a text, score it against
// the predictor, and see per-token entropy and surprisal as terminal
// sparklines.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/subline/internal/metrics"
	"github.com/mwiater/subline/internal/predictors"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Width(10)
	sparkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	promptStyle = lipgloss.NewStyle().MarginBottom(1)
)

// sparkRunes maps normalized values onto eight block heights.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// scoredMsg carries the result of a scoring round trip back into Update.
type scoredMsg struct {
	text string
	m    *metrics.TokenMetrics
	err  error
}

// model is the Bubble Tea model for the demo.
type model struct {
	ctx       context.Context
	predictor predictors.Predictor
	input     textinput.Model
	spinner   spinner.Model
	isLoading bool
	err       error

	// cache memoizes scored texts so re-submitting a prompt never hits
	// the predictor twice.
	cache   map[string]*metrics.TokenMetrics
	current *metrics.TokenMetrics
	width   int
}

func initialModel(ctx context.Context, p predictors.Predictor) *model {
	ti := textinput.New()
	ti.Placeholder = "Type a sentence and press Enter"
	ti.CharLimit = 512
	ti.Width = 72
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:       ctx,
		predictor: p,
		input:     ti,
		spinner:   sp,
		cache:     make(map[string]*metrics.TokenMetrics),
	}
}

// scoreCmd runs one blocking scoring request off the UI loop.
func scoreCmd(ctx context.Context, p predictors.Predictor, text string) tea.Cmd {
	return func() tea.Msg {
		m, err := metrics.Calc(ctx, []string{text}, p)
		return scoredMsg{text: text, m: m, err: err}
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.isLoading {
				return m, nil
			}
			m.err = nil
			if cached, ok := m.cache[text]; ok {
				m.current = cached
				return m, nil
			}
			m.isLoading = true
			return m, tea.Batch(m.spinner.Tick, scoreCmd(m.ctx, m.predictor, text))
		}

	case scoredMsg:
		m.isLoading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cache[msg.text] = msg.m
		m.current = msg.m
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("subline demo") + "\n\n")
	b.WriteString(promptStyle.Render(m.input.View()) + "\n")

	switch {
	case m.isLoading:
		b.WriteString(m.spinner.View() + " scoring...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	case m.current != nil && m.current.SequenceCount() > 0:
		b.WriteString(m.sequenceView(m.current.Sequence(0)))
	}

	b.WriteString(helpStyle.Render("enter: score  •  esc: quit"))
	return b.String()
}

// sequenceView renders one scored sequence as token text plus aligned
// terminal sparklines.
func (m *model) sequenceView(seq metrics.SequenceView) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Tokens") + tokenStyle.Render(strings.Join(seq.Tokens, "·")) + "\n")
	b.WriteString(labelStyle.Render("Entropy") + sparkStyle.Render(blockSparkline(seq.Entropy)) + "\n")
	b.WriteString(labelStyle.Render("Surprisal") + sparkStyle.Render(blockSparkline(seq.Surprisal)) + "\n")
	b.WriteString(statStyle.Render(fmt.Sprintf("%d tokens  •  mean entropy %.3f  •  perplexity %.3f",
		seq.Length, seq.MeanEntropy, seq.Perplexity)) + "\n\n")
	return b.String()
}

// blockSparkline renders values as one block rune each, scaled over the
// finite range of the slice. NaN positions render as spaces.
func blockSparkline(values []float64) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// StartDemo initializes and runs the interactive demo UI.
func StartDemo(ctx context.Context, p predictors.Predictor) error {
	program := tea.NewProgram(initialModel(ctx, p), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("demo UI: %w", err)
	}
	return nil
}
