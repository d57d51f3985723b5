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

func newStonesForm(values, blinks string) StonesFormModel {
	cfg := config.Default()
	cfg.MaxBlinks = 100
	m := NewStonesFormModel(context.Background(), solver.New(nil, 1), cfg, 200, 40)
	m.valuesInput.SetValue(values)
	m.blinksInput.SetValue(blinks)
	m.focusIndex = focusSubmit
	return m
}

func pressEnter(t *testing.T, m StonesFormModel) (StonesFormModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(StonesFormModel), cmd
}

func TestStonesFormCounts(t *testing.T) {
	m, cmd := pressEnter(t, newStonesForm("125 17", "6 25"))
	require.NotNil(t, cmd)
	assert.True(t, m.running)
	assert.Contains(t, m.View(), "Counting...")

	// A second submit while counting is ignored.
	_, again := pressEnter(t, m)
	assert.Nil(t, again)

	next, _ := m.Update(cmd())
	m = next.(StonesFormModel)
	require.NoError(t, m.err)
	assert.False(t, m.running)
	require.Len(t, m.reports, 2)
	assert.Equal(t, "22", m.reports[0].Total.String())
	assert.Equal(t, "55312", m.reports[1].Total.String())
	assert.Contains(t, m.View(), "55312")
}

func TestStonesFormCountsHugeStones(t *testing.T) {
	m, cmd := pressEnter(t, newStonesForm("999999999999999", "2"))
	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())
	m = next.(StonesFormModel)
	require.NoError(t, m.err)
	require.Len(t, m.reports, 1)
	assert.Equal(t, "1", m.reports[0].Total.String())
}

func TestStonesFormRejectsBadInput(t *testing.T) {
	cases := map[string]struct{ values, blinks, want string }{
		"bad stone":     {values: "12 x", blinks: "5", want: "invalid stone value"},
		"no stones":     {values: "   ", blinks: "5", want: "no stones given"},
		"bad blinks":    {values: "12", blinks: "five", want: "invalid blink count"},
		"no blinks":     {values: "12", blinks: "", want: "no blink counts given"},
		"too many":      {values: "12", blinks: "25 999999999", want: "exceeds the limit of 100"},
		"just too many": {values: "12", blinks: "101", want: "exceeds the limit of 100"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m, cmd := pressEnter(t, newStonesForm(tc.values, tc.blinks))
			assert.Nil(t, cmd)
			assert.False(t, m.running)
			require.Error(t, m.err)
			assert.Contains(t, m.err.Error(), tc.want)
			assert.Contains(t, m.View(), tc.want)
		})
	}
}

func TestStonesFormEscCancelsCount(t *testing.T) {
	m, count := pressEnter(t, newStonesForm("125 17", "25"))
	require.NotNil(t, count)

	_, back := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, back)
	assert.Equal(t, BackToMenuMsg{}, back())

	msg, ok := count().(stonesDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, context.Canceled)

	next, _ := m.Update(msg)
	m = next.(StonesFormModel)
	assert.False(t, m.running)
	assert.Nil(t, m.cancelRun)
}

func TestStonesFormFocusCycles(t *testing.T) {
	m := NewStonesFormModel(context.Background(), solver.New(nil, 1), config.Default(), 200, 40)
	assert.Equal(t, focusValues, m.focusIndex)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(StonesFormModel)
	assert.Equal(t, focusBlinks, m.focusIndex)
	assert.True(t, m.blinksInput.Focused())
	assert.False(t, m.valuesInput.Focused())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(StonesFormModel)
	assert.Equal(t, focusSubmit, m.focusIndex)
}
