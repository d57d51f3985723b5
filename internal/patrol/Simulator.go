package patrol

import "fmt"

// VisitedSet is the set of cells the guard stood on during one run.
type VisitedSet struct {
	cols  int
	cells []bool
	count int
}

func newVisitedSet(rows, cols int) *VisitedSet {
	return &VisitedSet{cols: cols, cells: make([]bool, rows*cols)}
}

func (v *VisitedSet) add(c Cell) {
	idx := c.Row*v.cols + c.Col
	if !v.cells[idx] {
		v.cells[idx] = true
		v.count++
	}
}

func (v *VisitedSet) Contains(c Cell) bool {
	if c.Row < 0 || c.Col < 0 || c.Col >= v.cols {
		return false
	}
	idx := c.Row*v.cols + c.Col
	return idx < len(v.cells) && v.cells[idx]
}

func (v *VisitedSet) Len() int {
	return v.count
}

// Cells lists the visited cells in row-major order.
func (v *VisitedSet) Cells() []Cell {
	result := make([]Cell, 0, v.count)
	for idx, seen := range v.cells {
		if seen {
			result = append(result, Cell{Row: idx / v.cols, Col: idx % v.cols})
		}
	}
	return result
}

// Result is the outcome of one patrol.
type Result struct {
	Visited *VisitedSet
	// Exited is false when the patrol was proven to loop forever.
	Exited bool
	// Steps counts distinct states the guard passed through.
	Steps int
}

// Simulator replays patrols over a shared grid and transition table.
// A Simulator holds no per-run state and may be used concurrently.
type Simulator struct {
	grid  *Grid
	table *TransitionTable
}

func NewSimulator(grid *Grid, table *TransitionTable) *Simulator {
	return &Simulator{grid: grid, table: table}
}

func (s *Simulator) Grid() *Grid {
	return s.grid
}

// Run patrols until the guard leaves the grid or repeats a state.
// extra, when non-nil, is treated as one more obstacle; it must not be the
// guard's start cell.
func (s *Simulator) Run(extra *Cell) (Result, error) {
	visited := newVisitedSet(s.grid.Rows(), s.grid.Cols())
	var steps int
	exited, err := s.walk(extra, visited, func(State) { steps++ })
	if err != nil {
		return Result{}, err
	}
	return Result{Visited: visited, Exited: exited, Steps: steps}, nil
}

// Trace returns every state the guard passes through, in order, and whether
// the patrol ended by leaving the grid.
func (s *Simulator) Trace(extra *Cell) ([]State, bool, error) {
	var path []State
	exited, err := s.walk(extra, newVisitedSet(s.grid.Rows(), s.grid.Cols()), func(st State) {
		path = append(path, st)
	})
	if err != nil {
		return nil, false, err
	}
	return path, exited, nil
}

func (s *Simulator) walk(extra *Cell, visited *VisitedSet, onState func(State)) (bool, error) {
	seen := make([]bool, s.table.Len())
	state := s.grid.Start()
	visited.add(state.Cell)

	for {
		if !s.table.contains(state) {
			return false, fmt.Errorf("%w: state %v outside table", ErrMissingTransition, state)
		}
		idx := s.table.index(state)
		if seen[idx] {
			return false, nil
		}
		seen[idx] = true
		onState(state)

		outcome, err := s.table.Forward(state)
		if err != nil {
			return false, err
		}

		switch outcome.Kind {
		case Exit:
			return true, nil
		case Advance:
			if extra == nil || outcome.Next.Cell != *extra {
				state = outcome.Next
				visited.add(state.Cell)
				continue
			}
		case Blocked:
		default:
			return false, fmt.Errorf("%w: unknown outcome %v at %v", ErrMissingTransition, outcome.Kind, state)
		}

		if state, err = s.table.Turn(state); err != nil {
			return false, err
		}
	}
}
