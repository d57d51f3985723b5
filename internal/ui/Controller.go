package ui

import (
	"context"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/solver"
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	MenuScreen Screen = iota
	PatrolScreen
	StonesScreen
	HistoryScreen
)

// MenuSubmitMsg carries the screen picked on the menu.
type MenuSubmitMsg Screen

// BackToMenuMsg is sent by a screen when the user leaves it.
type BackToMenuMsg struct{}

// stopper is implemented by screens that run background jobs.
type stopper interface {
	Stop()
}

// ControllerModel routes messages between the menu and the active screen.
// Background jobs started by a screen derive from ctx, so they end with the
// session as well as on quit.
type ControllerModel struct {
	ctx           context.Context
	CurrentScreen Screen
	Solver        *solver.Solver
	Config        config.Config

	MenuModel   tea.Model
	ScreenModel tea.Model

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(ctx context.Context, s *solver.Solver, cfg config.Config, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		ctx:           ctx,
		Solver:        s,
		Config:        cfg,
		CurrentScreen: MenuScreen,
		MenuModel:     NewMenuModel(screenWidth, screenHeight),
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.MenuModel.Init()
}

func (m ControllerModel) View() string {
	if m.CurrentScreen == MenuScreen || m.ScreenModel == nil {
		return m.MenuModel.View()
	}
	return m.ScreenModel.View()
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		// The stones form takes free text, so only ctrl+c quits there.
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.CurrentScreen != StonesScreen) {
			m.stopScreen()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.MenuModel, _ = m.MenuModel.Update(msg)
		if m.ScreenModel != nil {
			m.ScreenModel, cmd = m.ScreenModel.Update(msg)
		}
		return m, cmd

	case MenuSubmitMsg:
		m.CurrentScreen = Screen(msg)
		switch m.CurrentScreen {
		case PatrolScreen:
			m.ScreenModel = NewPatrolViewModel(m.ctx, m.Solver, m.Config, m.ScreenWidth, m.ScreenHeight)
		case StonesScreen:
			m.ScreenModel = NewStonesFormModel(m.ctx, m.Solver, m.Config, m.ScreenWidth, m.ScreenHeight)
		case HistoryScreen:
			m.ScreenModel = NewHistoryViewModel(m.Solver.History, m.ScreenWidth, m.ScreenHeight)
		default:
			m.CurrentScreen = MenuScreen
			return m, nil
		}
		return m, m.ScreenModel.Init()

	case BackToMenuMsg:
		m.stopScreen()
		m.CurrentScreen = MenuScreen
		m.ScreenModel = nil
		return m, m.MenuModel.Init()
	}

	if m.CurrentScreen == MenuScreen || m.ScreenModel == nil {
		m.MenuModel, cmd = m.MenuModel.Update(msg)
	} else {
		m.ScreenModel, cmd = m.ScreenModel.Update(msg)
	}
	return m, cmd
}

func (m ControllerModel) stopScreen() {
	if screen, ok := m.ScreenModel.(stopper); ok {
		screen.Stop()
	}
}
