package ui

import (
	"context"
	"testing"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/solver"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuSelectsScreen(t *testing.T) {
	m := NewMenuModel(80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, MenuSubmitMsg(StonesScreen), cmd())

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyLeft})
	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, MenuSubmitMsg(HistoryScreen), cmd())
}

func TestControllerOpensAndLeavesScreens(t *testing.T) {
	c := NewControllerModel(context.Background(), solver.New(nil, 1), config.Default(), 80, 24)

	next, _ := c.Update(MenuSubmitMsg(HistoryScreen))
	c = next.(ControllerModel)
	assert.Equal(t, HistoryScreen, c.CurrentScreen)
	assert.Contains(t, c.View(), "run history is disabled")

	next, _ = c.Update(BackToMenuMsg{})
	c = next.(ControllerModel)
	assert.Equal(t, MenuScreen, c.CurrentScreen)
	assert.Nil(t, c.ScreenModel)
}

func TestControllerQuitKeys(t *testing.T) {
	c := NewControllerModel(context.Background(), solver.New(nil, 1), config.Default(), 80, 24)

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// The stones form takes text, so q is typed rather than quitting.
	next, _ := c.Update(MenuSubmitMsg(StonesScreen))
	c = next.(ControllerModel)
	next, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	c = next.(ControllerModel)
	assert.Equal(t, StonesScreen, c.CurrentScreen)
	form := c.ScreenModel.(StonesFormModel)
	assert.Contains(t, form.valuesInput.Value(), "q")
}

func TestParseBlinks(t *testing.T) {
	blinks, err := ParseBlinks("25 75  1000", 1000)
	require.NoError(t, err)
	assert.Equal(t, []int{25, 75, 1000}, blinks)

	_, err = ParseBlinks("3 x", 1000)
	assert.Error(t, err)
	_, err = ParseBlinks("-1", 1000)
	assert.Error(t, err)
	_, err = ParseBlinks("  ", 1000)
	assert.Error(t, err)
	_, err = ParseBlinks("25 999999999", 1000)
	assert.ErrorContains(t, err, "exceeds the limit")
}

// submitStones walks the stones form to its submit button and presses it,
// returning the pending count command.
func submitStones(t *testing.T, c ControllerModel) (ControllerModel, tea.Cmd) {
	t.Helper()
	next, _ := c.Update(MenuSubmitMsg(StonesScreen))
	c = next.(ControllerModel)

	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		next, cmd = c.Update(tea.KeyMsg{Type: tea.KeyEnter})
		c = next.(ControllerModel)
	}
	require.NotNil(t, cmd)
	require.True(t, c.ScreenModel.(StonesFormModel).running)
	return c, cmd
}

func TestControllerQuitCancelsRunningCount(t *testing.T) {
	c := NewControllerModel(context.Background(), solver.New(nil, 1), config.Default(), 80, 24)
	c, count := submitStones(t, c)

	_, quit := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit)
	assert.Equal(t, tea.Quit(), quit())

	msg, ok := count().(stonesDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, context.Canceled)
}

func TestControllerSessionEndCancelsRunningCount(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewControllerModel(ctx, solver.New(nil, 1), config.Default(), 80, 24)
	_, count := submitStones(t, c)

	cancel()

	msg, ok := count().(stonesDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, context.Canceled)
}
