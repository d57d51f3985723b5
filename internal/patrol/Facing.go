package patrol

import (
	"errors"
	"fmt"
)

var ErrInvalidFacing = errors.New("invalid facing")

// Facing is one of the four cardinal orientations the guard can face.
type Facing uint8

const (
	Up Facing = iota
	Right
	Down
	Left
)

// facingCount is the number of facings, used to size the state space.
const facingCount = 4

// Facings lists every facing in clockwise order starting from Up.
var Facings = [facingCount]Facing{Up, Right, Down, Left}

// Delta is a unit step on the grid. Rows grow downwards.
type Delta struct {
	DRow, DCol int
}

// ParseFacing decodes a guard marker character.
func ParseFacing(marker rune) (Facing, error) {
	switch marker {
	case '^':
		return Up, nil
	case '>':
		return Right, nil
	case 'v':
		return Down, nil
	case '<':
		return Left, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFacing, marker)
}

// IsGuardMarker reports whether c encodes a guard start.
func IsGuardMarker(c byte) bool {
	_, err := ParseFacing(rune(c))
	return err == nil
}

// Clockwise returns the facing after a 90 degree right turn.
func (f Facing) Clockwise() Facing {
	switch f {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	}
	panic(fmt.Sprintf("patrol: clockwise of %v", f))
}

// Delta returns the unit step taken when moving forward while facing f.
func (f Facing) Delta() Delta {
	switch f {
	case Up:
		return Delta{DRow: -1}
	case Right:
		return Delta{DCol: 1}
	case Down:
		return Delta{DRow: 1}
	case Left:
		return Delta{DCol: -1}
	}
	panic(fmt.Sprintf("patrol: delta of %v", f))
}

// Rune returns the grid marker for f.
func (f Facing) Rune() rune {
	switch f {
	case Up:
		return '^'
	case Right:
		return '>'
	case Down:
		return 'v'
	case Left:
		return '<'
	}
	panic(fmt.Sprintf("patrol: rune of %v", f))
}

// Valid reports whether f is one of the four facings.
func (f Facing) Valid() bool {
	return f < facingCount
}

func (f Facing) String() string {
	switch f {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Facing(%d)", uint8(f))
}
