package patrol

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleGrid = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func mustGrid(t *testing.T, text string) *Grid {
	t.Helper()
	g, err := ReadGrid(strings.NewReader(text))
	require.NoError(t, err)
	return g
}

func TestReadGrid(t *testing.T) {
	g := mustGrid(t, exampleGrid)

	assert.Equal(t, 10, g.Rows())
	assert.Equal(t, 10, g.Cols())
	assert.Equal(t, 400, g.StateCount())
	assert.Equal(t, State{Cell: Cell{Row: 6, Col: 4}, Facing: Up}, g.Start())
	assert.True(t, g.IsObstacle(Cell{Row: 0, Col: 4}))
	assert.False(t, g.IsObstacle(Cell{Row: 0, Col: 0}))
}

func TestReadGridStripsCarriageReturns(t *testing.T) {
	g := mustGrid(t, "..\r\n.>\r\n")
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, State{Cell: Cell{Row: 1, Col: 1}, Facing: Right}, g.Start())
}

func TestNewGridErrors(t *testing.T) {
	cases := []struct {
		name string
		rows []string
		want error
	}{
		{"empty", nil, ErrMalformedGrid},
		{"ragged", []string{"...", ".^"}, ErrMalformedGrid},
		{"unknown character", []string{".x.", ".^."}, ErrMalformedGrid},
		{"no guard", []string{"...", ".#."}, ErrNoGuardStart},
		{"two guards", []string{"^..", "..v"}, ErrMultipleGuards},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGrid(tc.rows)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(exampleGrid), 0o644))

	g, err := LoadGrid(path)
	require.NoError(t, err)
	assert.Equal(t, 10, g.Rows())

	_, err = LoadGrid(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFloorCellsExcludeGuardAndObstacles(t *testing.T) {
	g := mustGrid(t, ".#\n^.\n")
	assert.Equal(t, []Cell{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, g.FloorCells())
}
