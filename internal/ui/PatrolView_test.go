package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/patrol"
	"github.com/Mshel/patrolsim/internal/solver"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, grid string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = filepath.Join(t.TempDir(), "Input.txt")
	cfg.ReplayTick = time.Millisecond
	require.NoError(t, os.WriteFile(cfg.InputPath, []byte(grid), 0o644))
	return cfg
}

func replay(t *testing.T, m PatrolViewModel, ticks int) PatrolViewModel {
	t.Helper()
	for i := 0; i < ticks; i++ {
		next, _ := m.Update(replayTickMsg{gen: m.gen})
		m = next.(PatrolViewModel)
	}
	return m
}

func TestPatrolViewReplaysTrace(t *testing.T) {
	cfg := testConfig(t, "#..\n^..\n...\n")
	m := NewPatrolViewModel(context.Background(), solver.New(nil, 1), cfg, 200, 40)
	require.NoError(t, m.loadErr)
	require.Len(t, m.path, 4)

	m = replay(t, m, 10)
	assert.True(t, m.Finished())
	assert.Equal(t, patrol.Cell{Row: 1, Col: 2}, m.path[m.step].Cell)
	assert.Len(t, m.visited, 3)
	assert.Contains(t, m.View(), "left the grid")
}

func TestPatrolViewIgnoresStaleTicks(t *testing.T) {
	cfg := testConfig(t, "#..\n^..\n...\n")
	m := NewPatrolViewModel(context.Background(), solver.New(nil, 1), cfg, 200, 40)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(PatrolViewModel)
	require.True(t, m.paused)

	next, _ = m.Update(replayTickMsg{gen: m.gen - 1})
	m = next.(PatrolViewModel)
	assert.Equal(t, 0, m.step)
}

func TestPatrolViewSearchResult(t *testing.T) {
	cfg := testConfig(t, "#..\n^..\n...\n")
	m := NewPatrolViewModel(context.Background(), solver.New(nil, 1), cfg, 200, 40)

	report := solver.PatrolReport{LoopPositions: 1, Traps: []patrol.Cell{{Row: 2, Col: 2}}}
	next, _ := m.Update(searchDoneMsg{report: report})
	m = next.(PatrolViewModel)

	assert.Equal(t, SearchDone, m.searchState)
	assert.True(t, m.traps[patrol.Cell{Row: 2, Col: 2}])
	assert.Contains(t, m.View(), "Loop positions: 1")
}

func TestPatrolViewMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.InputPath = filepath.Join(t.TempDir(), "missing.txt")

	m := NewPatrolViewModel(context.Background(), solver.New(nil, 1), cfg, 200, 40)
	assert.ErrorIs(t, m.loadErr, os.ErrNotExist)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "Could not load")
}

func TestPatrolViewSearchStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig(t, "#..\n^..\n...\n")
	m := NewPatrolViewModel(ctx, solver.New(nil, 1), cfg, 200, 40)
	cancel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(PatrolViewModel)
	require.Equal(t, SearchRunning, m.searchState)

	listen := m.listenForSearchUpdates()
	for {
		msg := listen()
		if done, ok := msg.(searchDoneMsg); ok {
			next, _ = m.Update(done)
			m = next.(PatrolViewModel)
			break
		}
	}

	assert.Equal(t, SearchFailed, m.searchState)
	assert.ErrorIs(t, m.searchErr, context.Canceled)
	assert.Nil(t, m.cancelSearch)
}
