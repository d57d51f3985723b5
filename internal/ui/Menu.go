package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var menuEntries = []struct {
	Label  string
	Screen Screen
}{
	{"Patrol Replay", PatrolScreen},
	{"Stone Blinks", StonesScreen},
	{"Run History", HistoryScreen},
}

// MenuModel holds the state for the main menu.
type MenuModel struct {
	selected int
	width    int
	height   int
}

func NewMenuModel(w, h int) MenuModel {
	return MenuModel{selected: 0, width: w, height: h}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.selected = (m.selected + len(menuEntries) - 1) % len(menuEntries)
		case "right", "l", "tab":
			m.selected = (m.selected + 1) % len(menuEntries)
		case "enter":
			screen := menuEntries[m.selected].Screen
			return m, func() tea.Msg { return MenuSubmitMsg(screen) }
		}
	}
	return m, nil
}

var bannerAscii = `
 ┌─┐┌─┐┌┬┐┬─┐┌─┐┬    ┌─┐┬┌┬┐
 ├─┘├─┤ │ ├┬┘│ ││    └─┐││││
 ┴  ┴ ┴ ┴ ┴└─└─┘┴─┘  └─┘┴┴ ┴
`

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("87"))

	menuButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 3).
			Margin(1, 2).
			Border(lipgloss.RoundedBorder())

	menuSelectedButtonStyle = menuButtonStyle.
				Background(lipgloss.Color("87")).
				Foreground(lipgloss.Color("0"))

	hintStyle = lipgloss.NewStyle().Faint(true)
)

func (m MenuModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(bannerStyle.Render(bannerAscii))
	sb.WriteString("\n")

	buttons := make([]string, len(menuEntries))
	for i, entry := range menuEntries {
		if i == m.selected {
			buttons[i] = menuSelectedButtonStyle.Render(entry.Label)
		} else {
			buttons[i] = menuButtonStyle.Render(entry.Label)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		sb.String(),
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
		hintStyle.Render("←/→ select · enter open · q quit"),
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
