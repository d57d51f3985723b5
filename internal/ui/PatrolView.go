package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/patrol"
	"github.com/Mshel/patrolsim/internal/solver"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type SearchState int

const (
	SearchIdle SearchState = iota
	SearchRunning
	SearchDone
	SearchFailed
)

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240"))

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("172")).Render("▒")
	floorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render("·")
	visitedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render("•")
	trapStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("O")
	guardStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	headRunes = map[patrol.Facing]string{
		patrol.Up:    "▲",
		patrol.Right: "▶",
		patrol.Down:  "▼",
		patrol.Left:  "◀",
	}
)

const (
	mapViewPercentage  = 0.70
	statusPanelPadding = 4
)

// replayTickMsg carries the generation of the tick chain that produced it;
// stale chains are dropped after a pause or restart.
type replayTickMsg struct {
	gen int
}

type searchProgressMsg struct {
	done, total int
}

type searchDoneMsg struct {
	report solver.PatrolReport
	err    error
}

// PatrolViewModel replays the guard's unobstructed patrol step by step and
// can run the obstruction search in the background.
type PatrolViewModel struct {
	ctx    context.Context
	solver *solver.Solver
	input  string
	tick   time.Duration

	grid    *patrol.Grid
	path    []patrol.State
	exited  bool
	step    int
	visited map[patrol.Cell]bool
	paused  bool
	gen     int
	loadErr error

	searchState   SearchState
	searchDone    int
	searchTotal   int
	searchUpdates chan tea.Msg
	searchResult  chan tea.Msg
	cancelSearch  context.CancelFunc
	report        solver.PatrolReport
	searchErr     error
	traps         map[patrol.Cell]bool
	spinner       spinner.Model
	progress      progress.Model

	ScreenWidth  int
	ScreenHeight int
}

func NewPatrolViewModel(ctx context.Context, s *solver.Solver, cfg config.Config, screenWidth int, screenHeight int) PatrolViewModel {
	m := PatrolViewModel{
		ctx:          ctx,
		solver:       s,
		input:        cfg.InputPath,
		tick:         cfg.ReplayTick,
		visited:      make(map[patrol.Cell]bool),
		traps:        make(map[patrol.Cell]bool),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}

	sim, err := solver.PreparePatrol(cfg.InputPath)
	if err != nil {
		log.Error("Could not load patrol grid", "input", cfg.InputPath, "error", err)
		m.loadErr = err
		return m
	}

	path, exited, err := sim.Trace(nil)
	if err != nil {
		m.loadErr = err
		return m
	}

	m.grid = sim.Grid()
	m.path = path
	m.exited = exited
	m.visited[path[0].Cell] = true
	return m
}

func (m PatrolViewModel) Init() tea.Cmd {
	if m.loadErr != nil {
		return nil
	}
	return m.nextReplayTick()
}

func (m PatrolViewModel) nextReplayTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.tick, func(time.Time) tea.Msg { return replayTickMsg{gen: gen} })
}

func (m PatrolViewModel) Finished() bool {
	return m.step >= len(m.path)-1
}

func (m PatrolViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Stop()
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case " ":
			m.paused = !m.paused
			m.gen++
			if !m.paused {
				return m, m.nextReplayTick()
			}
		case "r":
			if m.loadErr != nil {
				return m, nil
			}
			m.step = 0
			m.visited = map[patrol.Cell]bool{m.path[0].Cell: true}
			m.paused = false
			m.gen++
			return m, m.nextReplayTick()
		case "e":
			for m.step < len(m.path)-1 {
				m.step++
				m.visited[m.path[m.step].Cell] = true
			}
		case "s":
			if m.loadErr == nil && m.searchState != SearchRunning {
				return m.startSearch()
			}
		}
		return m, nil

	case replayTickMsg:
		if msg.gen != m.gen || m.paused || m.loadErr != nil || m.Finished() {
			return m, nil
		}
		m.step++
		m.visited[m.path[m.step].Cell] = true
		return m, m.nextReplayTick()

	case spinner.TickMsg:
		if m.searchState != SearchRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchProgressMsg:
		m.searchDone = msg.done
		m.searchTotal = msg.total
		return m, m.listenForSearchUpdates()

	case searchDoneMsg:
		m.cancelSearch = nil
		if msg.err != nil {
			m.searchState = SearchFailed
			m.searchErr = msg.err
			return m, nil
		}
		m.searchState = SearchDone
		m.report = msg.report
		m.traps = make(map[patrol.Cell]bool, len(msg.report.Traps))
		for _, c := range msg.report.Traps {
			m.traps[c] = true
		}
		return m, nil
	}

	return m, nil
}

func (m PatrolViewModel) startSearch() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	updates := make(chan tea.Msg, 16)
	result := make(chan tea.Msg, 1)

	m.searchState = SearchRunning
	m.searchDone = 0
	m.searchTotal = 0
	m.searchErr = nil
	m.searchUpdates = updates
	m.searchResult = result
	m.cancelSearch = cancel

	go func(s *solver.Solver, input string) {
		defer cancel()
		report, err := s.SolvePatrol(ctx, input, func(done, total int) {
			select {
			case updates <- searchProgressMsg{done: done, total: total}:
			default:
			}
		})
		result <- searchDoneMsg{report: report, err: err}
	}(m.solver, m.input)

	return m, tea.Batch(m.spinner.Tick, m.listenForSearchUpdates())
}

// Stop cancels a running obstruction search.
func (m PatrolViewModel) Stop() {
	if m.cancelSearch != nil {
		m.cancelSearch()
	}
}

func (m PatrolViewModel) listenForSearchUpdates() tea.Cmd {
	updates, result := m.searchUpdates, m.searchResult
	return func() tea.Msg {
		select {
		case msg := <-result:
			return msg
		case msg := <-updates:
			return msg
		}
	}
}

func (m PatrolViewModel) View() string {
	if m.loadErr != nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			errorStyle.Render(fmt.Sprintf("Could not load %s", m.input)),
			m.loadErr.Error(),
			hintStyle.Render("esc back · q quit"),
		)
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, content)
	}

	mapWidth := int(float64(m.ScreenWidth) * mapViewPercentage)
	statusPanelWidth := max(10, m.ScreenWidth-mapWidth-statusPanelPadding)
	mapHeight := max(1, m.ScreenHeight-2)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Render(m.renderMap(mapWidth-2, mapHeight)),
		statusPanelStyle.Width(statusPanelWidth).Render(m.renderStatusPanel()),
	)
}

// renderMap draws the part of the grid that fits in width x height, centred
// on the guard.
func (m PatrolViewModel) renderMap(width int, height int) string {
	var sb strings.Builder

	guard := m.path[m.step]
	rows, cols := m.grid.Rows(), m.grid.Cols()

	viewportW := min(cols, max(1, width))
	viewportH := min(rows, max(1, height))

	startCol := max(0, guard.Col-viewportW/2)
	if startCol+viewportW > cols {
		startCol = max(0, cols-viewportW)
	}
	endCol := min(cols, startCol+viewportW)

	startRow := max(0, guard.Row-viewportH/2)
	if startRow+viewportH > rows {
		startRow = max(0, rows-viewportH)
	}
	endRow := min(rows, startRow+viewportH)

	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			cell := patrol.Cell{Row: row, Col: col}
			switch {
			case cell == guard.Cell:
				sb.WriteString(guardStyle.Render(headRunes[guard.Facing]))
			case m.traps[cell]:
				sb.WriteString(trapStyle)
			case m.grid.IsObstacle(cell):
				sb.WriteString(obstacleStyle)
			case m.visited[cell]:
				sb.WriteString(visitedStyle)
			default:
				sb.WriteString(floorStyle)
			}
		}
		if row < endRow-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (m PatrolViewModel) renderStatusPanel() string {
	var status strings.Builder

	status.WriteString(lipgloss.NewStyle().Bold(true).Render("--- Patrol ---") + "\n")
	status.WriteString(fmt.Sprintf("Grid: %dx%d\n", m.grid.Rows(), m.grid.Cols()))
	status.WriteString(fmt.Sprintf("Step: %d/%d\n", m.step+1, len(m.path)))
	status.WriteString(fmt.Sprintf("Visited: %d\n", len(m.visited)))
	guard := m.path[m.step]
	status.WriteString(fmt.Sprintf("Facing: %s\n", headRunes[guard.Facing]))

	if m.Finished() {
		if m.exited {
			status.WriteString("Outcome: left the grid\n")
		} else {
			status.WriteString("Outcome: loops forever\n")
		}
	} else if m.paused {
		status.WriteString("Paused\n")
	}

	status.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Obstructions ---") + "\n")
	switch m.searchState {
	case SearchIdle:
		status.WriteString("Press s to search\n")
	case SearchRunning:
		percent := 0.0
		if m.searchTotal > 0 {
			percent = float64(m.searchDone) / float64(m.searchTotal)
		}
		status.WriteString(fmt.Sprintf("%s searching %d/%d\n", m.spinner.View(), m.searchDone, m.searchTotal))
		status.WriteString(m.progress.ViewAs(percent) + "\n")
	case SearchDone:
		status.WriteString(fmt.Sprintf("Loop positions: %d\n", m.report.LoopPositions))
		status.WriteString(fmt.Sprintf("Elapsed: %s\n", m.report.Duration.Round(time.Millisecond)))
	case SearchFailed:
		status.WriteString(errorStyle.Render(m.searchErr.Error()) + "\n")
	}

	status.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Controls ---") + "\n")
	status.WriteString("Space: pause · r: restart\n")
	status.WriteString("e: jump to end · s: search\n")
	status.WriteString(hintStyle.Render("esc back · q quit"))

	return status.String()
}
