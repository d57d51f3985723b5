package patrol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	FloorCell    = '.'
	ObstacleCell = '#'
)

var (
	ErrNoGuardStart   = errors.New("no guard start found")
	ErrMultipleGuards = errors.New("more than one guard start")
	ErrMalformedGrid  = errors.New("malformed grid")
)

// Cell is a grid position.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// State is a guard position together with its facing.
type State struct {
	Cell
	Facing Facing
}

func (s State) String() string {
	return fmt.Sprintf("(%d,%d,%s)", s.Row, s.Col, s.Facing)
}

// Grid is the immutable map the guard patrols. It is validated on
// construction: rectangular, known characters only, exactly one guard.
type Grid struct {
	rows  []string
	cols  int
	start State
}

// NewGrid validates rows and returns the grid they describe.
func NewGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}

	cols := len(rows[0])
	found := false
	var start State

	for row, line := range rows {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, row, len(line), cols)
		}
		for col := 0; col < cols; col++ {
			c := line[col]
			if c == FloorCell || c == ObstacleCell {
				continue
			}

			facing, err := ParseFacing(rune(c))
			if err != nil {
				return nil, fmt.Errorf("%w: unexpected %q at %v", ErrMalformedGrid, c, Cell{row, col})
			}
			if found {
				return nil, fmt.Errorf("%w: %v and %v", ErrMultipleGuards, start.Cell, Cell{row, col})
			}
			found = true
			start = State{Cell: Cell{Row: row, Col: col}, Facing: facing}
		}
	}

	if !found {
		return nil, ErrNoGuardStart
	}

	owned := make([]string, len(rows))
	copy(owned, rows)
	return &Grid{rows: owned, cols: cols, start: start}, nil
}

// ReadGrid reads one row per line from r. Line terminators are stripped.
func ReadGrid(r io.Reader) (*Grid, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return NewGrid(rows)
}

// LoadGrid reads the grid stored at path.
func LoadGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid %s: %w", path, err)
	}
	defer f.Close()

	return ReadGrid(f)
}

// Rows and Cols give the grid dimensions.
func (g *Grid) Rows() int { return len(g.rows) }
func (g *Grid) Cols() int { return g.cols }

// StateCount is the size of the (row, col, facing) state space.
func (g *Grid) StateCount() int {
	return len(g.rows) * g.cols * facingCount
}

// Start returns the guard's initial state.
func (g *Grid) Start() State {
	return g.start
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < len(g.rows) && c.Col >= 0 && c.Col < g.cols
}

// At returns the character at c. c must be in bounds.
func (g *Grid) At(c Cell) byte {
	return g.rows[c.Row][c.Col]
}

// IsObstacle reports whether c holds an obstacle. c must be in bounds.
func (g *Grid) IsObstacle(c Cell) bool {
	return g.At(c) == ObstacleCell
}

// Line returns row r as it was read.
func (g *Grid) Line(r int) string {
	return g.rows[r]
}

// FloorCells lists every empty cell in row-major order.
func (g *Grid) FloorCells() []Cell {
	var cells []Cell
	for row, line := range g.rows {
		for col := 0; col < g.cols; col++ {
			if line[col] == FloorCell {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}
