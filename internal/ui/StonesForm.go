package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/solver"
	"github.com/Mshel/patrolsim/internal/stones"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("205")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)

	resultHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)
)

const (
	focusValues = iota
	focusBlinks
	focusSubmit
	focusCount
)

type stonesDoneMsg struct {
	reports []solver.StoneReport
	err     error
}

// StonesFormModel asks for stone values and blink counts and shows the
// resulting totals.
type StonesFormModel struct {
	ctx         context.Context
	solver      *solver.Solver
	maxBlinks   int
	cancelRun   context.CancelFunc
	valuesInput textinput.Model
	blinksInput textinput.Model
	focusIndex  int
	running     bool
	reports     []solver.StoneReport
	err         error
	width       int
	height      int
}

func NewStonesFormModel(ctx context.Context, s *solver.Solver, cfg config.Config, w, h int) StonesFormModel {
	values := textinput.New()
	values.Placeholder = "125 17"
	values.SetValue(solver.FormatValues(cfg.Stones))
	values.Focus()
	values.CharLimit = 256
	values.Width = 40
	values.PromptStyle = focusedStyle
	values.TextStyle = focusedStyle

	blinkParts := make([]string, len(cfg.Blinks))
	for i, b := range cfg.Blinks {
		blinkParts[i] = strconv.Itoa(b)
	}
	blinks := textinput.New()
	blinks.Placeholder = "25 75"
	blinks.SetValue(strings.Join(blinkParts, " "))
	blinks.CharLimit = 64
	blinks.Width = 40

	return StonesFormModel{
		ctx:         ctx,
		solver:      s,
		maxBlinks:   cfg.MaxBlinks,
		valuesInput: values,
		blinksInput: blinks,
		focusIndex:  focusValues,
		width:       w,
		height:      h,
	}
}

func (m StonesFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m StonesFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stonesDoneMsg:
		m.running = false
		m.cancelRun = nil
		m.reports = msg.reports
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Stop()
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case "tab", "down":
			return m.setFocus((m.focusIndex + 1) % focusCount)
		case "shift+tab", "up":
			return m.setFocus((m.focusIndex + focusCount - 1) % focusCount)
		case "enter":
			if m.focusIndex != focusSubmit {
				return m.setFocus(m.focusIndex + 1)
			}
			if m.running {
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focusIndex {
	case focusValues:
		m.valuesInput, cmd = m.valuesInput.Update(msg)
	case focusBlinks:
		m.blinksInput, cmd = m.blinksInput.Update(msg)
	}
	return m, cmd
}

func (m StonesFormModel) setFocus(index int) (tea.Model, tea.Cmd) {
	m.focusIndex = index
	m.valuesInput.Blur()
	m.blinksInput.Blur()
	m.valuesInput.PromptStyle, m.valuesInput.TextStyle = blurredStyle, blurredStyle
	m.blinksInput.PromptStyle, m.blinksInput.TextStyle = blurredStyle, blurredStyle

	var cmd tea.Cmd
	switch index {
	case focusValues:
		cmd = m.valuesInput.Focus()
		m.valuesInput.PromptStyle, m.valuesInput.TextStyle = focusedStyle, focusedStyle
	case focusBlinks:
		cmd = m.blinksInput.Focus()
		m.blinksInput.PromptStyle, m.blinksInput.TextStyle = focusedStyle, focusedStyle
	}
	return m, cmd
}

// ParseBlinks reads whitespace separated blink counts between 0 and
// maxBlinks.
func ParseBlinks(text string, maxBlinks int) ([]int, error) {
	var blinks []int
	for _, field := range strings.Fields(text) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid blink count %q", field)
		}
		if n > maxBlinks {
			return nil, fmt.Errorf("blink count %d exceeds the limit of %d", n, maxBlinks)
		}
		blinks = append(blinks, n)
	}
	if len(blinks) == 0 {
		return nil, fmt.Errorf("no blink counts given")
	}
	return blinks, nil
}

func (m StonesFormModel) submit() (tea.Model, tea.Cmd) {
	values, err := stones.ParseValues(m.valuesInput.Value())
	if err == nil && len(values) == 0 {
		err = fmt.Errorf("no stones given")
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	blinks, err := ParseBlinks(m.blinksInput.Value(), m.maxBlinks)
	if err != nil {
		m.err = err
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.running = true
	m.cancelRun = cancel
	m.err = nil
	m.reports = nil
	s := m.solver
	return m, func() tea.Msg {
		defer cancel()
		reports, err := s.SolveStones(ctx, values, blinks)
		return stonesDoneMsg{reports: reports, err: err}
	}
}

// Stop cancels a running count.
func (m StonesFormModel) Stop() {
	if m.cancelRun != nil {
		m.cancelRun()
	}
}

func (m StonesFormModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Stone Blinks") + "\n\n")
	b.WriteString("Stones\n")
	b.WriteString(m.valuesInput.View() + "\n\n")
	b.WriteString("Blinks\n")
	b.WriteString(m.blinksInput.View() + "\n\n")

	if m.focusIndex == focusSubmit {
		b.WriteString(submitButtonStyle.Render("Count"))
	} else {
		b.WriteString(blurredButtonStyle.Render("Count"))
	}
	b.WriteString("\n\n")

	switch {
	case m.running:
		b.WriteString("Counting...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	case len(m.reports) > 0:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			resultHeaderStyle.Width(10).Render("Blinks"),
			resultHeaderStyle.Width(12).Render("Elapsed"),
			resultHeaderStyle.Render("Stones"),
		) + "\n")
		for _, r := range m.reports {
			b.WriteString(fmt.Sprintf(" %-9d %-11s %s\n", r.Blinks, r.Duration.Round(time.Microsecond), r.Total.String()))
		}
	}

	b.WriteString("\n" + hintStyle.Render("tab move · enter count · esc back · ctrl+c quit"))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(1, 2).Render(b.String()),
	)
}
