package patrol

import (
	"errors"
	"fmt"
)

var ErrMissingTransition = errors.New("missing transition")

// OutcomeKind tags the result of a forward attempt.
type OutcomeKind uint8

const (
	// Advance means the guard can step into Outcome.Next.
	Advance OutcomeKind = iota
	// Blocked means the cell ahead holds an obstacle.
	Blocked
	// Exit means the step ahead leaves the grid.
	Exit
)

func (k OutcomeKind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Blocked:
		return "blocked"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
}

// Outcome is what happens when the guard tries to move forward.
// Next is only meaningful when Kind is Advance.
type Outcome struct {
	Kind OutcomeKind
	Next State
}

// TransitionTable holds the forward and turn results for every state of a
// grid. It is read-only once built and safe to share between goroutines.
type TransitionTable struct {
	rows, cols int
	forward    []Outcome
	turn       []State
}

// BuildTransitions precomputes both tables for g, independent of where the
// guard starts.
func BuildTransitions(g *Grid) *TransitionTable {
	t := &TransitionTable{
		rows:    g.Rows(),
		cols:    g.Cols(),
		forward: make([]Outcome, g.StateCount()),
		turn:    make([]State, g.StateCount()),
	}

	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			for _, facing := range Facings {
				state := State{Cell: Cell{Row: row, Col: col}, Facing: facing}
				idx := t.index(state)

				delta := facing.Delta()
				ahead := Cell{Row: row + delta.DRow, Col: col + delta.DCol}
				switch {
				case !g.InBounds(ahead):
					t.forward[idx] = Outcome{Kind: Exit}
				case g.IsObstacle(ahead):
					t.forward[idx] = Outcome{Kind: Blocked}
				default:
					t.forward[idx] = Outcome{Kind: Advance, Next: State{Cell: ahead, Facing: facing}}
				}

				t.turn[idx] = State{Cell: state.Cell, Facing: facing.Clockwise()}
			}
		}
	}

	return t
}

func (t *TransitionTable) index(s State) int {
	return (s.Row*t.cols+s.Col)*facingCount + int(s.Facing)
}

func (t *TransitionTable) contains(s State) bool {
	return s.Row >= 0 && s.Row < t.rows && s.Col >= 0 && s.Col < t.cols && s.Facing.Valid()
}

// Forward returns the outcome of stepping ahead from s.
func (t *TransitionTable) Forward(s State) (Outcome, error) {
	if !t.contains(s) {
		return Outcome{}, fmt.Errorf("%w: forward from %v", ErrMissingTransition, s)
	}
	return t.forward[t.index(s)], nil
}

// Turn returns s rotated clockwise in place.
func (t *TransitionTable) Turn(s State) (State, error) {
	if !t.contains(s) {
		return State{}, fmt.Errorf("%w: turn from %v", ErrMissingTransition, s)
	}
	return t.turn[t.index(s)], nil
}

// Len is the number of states covered by the table.
func (t *TransitionTable) Len() int {
	return len(t.forward)
}
