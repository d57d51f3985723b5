package ui

import (
	"errors"
	"strconv"

	"github.com/Mshel/patrolsim/internal/store"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const historyPageSize = 20

var errNoHistory = errors.New("run history is disabled")

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 0)

	historyBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("8"))
)

// HistoryViewModel lists the most recent patrol and stone runs.
type HistoryViewModel struct {
	patrolTable table.Model
	stoneTable  table.Model
	showStones  bool
	err         error
	width       int
	height      int
}

func NewHistoryViewModel(history *store.RunStore, w, h int) HistoryViewModel {
	m := HistoryViewModel{width: w, height: h}

	patrolColumns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Input", Width: 24},
		{Title: "Size", Width: 9},
		{Title: "Visited", Width: 8},
		{Title: "Loops", Width: 7},
		{Title: "Elapsed", Width: 9},
		{Title: "When", Width: 17},
	}
	stoneColumns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Stones", Width: 24},
		{Title: "Blinks", Width: 7},
		{Title: "Total", Width: 30},
		{Title: "Elapsed", Width: 9},
		{Title: "When", Width: 17},
	}

	var patrolRows, stoneRows []table.Row
	if history == nil {
		m.err = errNoHistory
	} else {
		patrolRows, stoneRows, m.err = loadHistoryRows(history)
		if m.err != nil {
			log.Error("Could not load run history", "error", m.err)
		}
	}

	m.patrolTable = table.New(
		table.WithColumns(patrolColumns),
		table.WithRows(patrolRows),
		table.WithFocused(true),
		table.WithHeight(historyPageSize/2),
	)
	m.stoneTable = table.New(
		table.WithColumns(stoneColumns),
		table.WithRows(stoneRows),
		table.WithHeight(historyPageSize/2),
	)
	return m
}

func loadHistoryRows(history *store.RunStore) ([]table.Row, []table.Row, error) {
	patrolRuns, err := history.RecentPatrolRuns(historyPageSize, 0)
	if err != nil {
		return nil, nil, err
	}
	stoneRuns, err := history.RecentStoneRuns(historyPageSize, 0)
	if err != nil {
		return nil, nil, err
	}

	patrolRows := make([]table.Row, 0, len(patrolRuns))
	for _, run := range patrolRuns {
		patrolRows = append(patrolRows, table.Row{
			strconv.Itoa(run.ID),
			run.Input,
			strconv.Itoa(run.Rows) + "x" + strconv.Itoa(run.Cols),
			strconv.Itoa(run.Visited),
			strconv.Itoa(run.LoopPositions),
			run.Duration.String(),
			store.FormatWhen(run.CreatedAt),
		})
	}

	stoneRows := make([]table.Row, 0, len(stoneRuns))
	for _, run := range stoneRuns {
		stoneRows = append(stoneRows, table.Row{
			strconv.Itoa(run.ID),
			run.Stones,
			strconv.Itoa(run.Blinks),
			run.Total,
			run.Duration.String(),
			store.FormatWhen(run.CreatedAt),
		})
	}
	return patrolRows, stoneRows, nil
}

func (m HistoryViewModel) Init() tea.Cmd { return nil }

func (m HistoryViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter":
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case "tab":
			m.showStones = !m.showStones
			if m.showStones {
				m.patrolTable.Blur()
				m.stoneTable.Focus()
			} else {
				m.stoneTable.Blur()
				m.patrolTable.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.showStones {
		m.stoneTable, cmd = m.stoneTable.Update(msg)
	} else {
		m.patrolTable, cmd = m.patrolTable.Update(msg)
	}
	return m, cmd
}

func (m HistoryViewModel) View() string {
	var content string
	if m.err != nil {
		content = lipgloss.JoinVertical(lipgloss.Center,
			historyTitleStyle.Render("RUN HISTORY"),
			errorStyle.Render(m.err.Error()),
		)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left,
			historyTitleStyle.Render("PATROL RUNS"),
			historyBorderStyle.Render(m.patrolTable.View()),
			historyTitleStyle.Render("STONE RUNS"),
			historyBorderStyle.Render(m.stoneTable.View()),
		)
	}

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			content,
			hintStyle.Render("tab switch table · ↑/↓ scroll · esc back"),
		),
	)
}
