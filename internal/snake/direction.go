// Package snake contains the deterministic grid simulator the learner plays
// in: board geometry, the snake body and the discrete state encoding.
package snake

// Direction is a compass heading. The values form the clockwise cycle
// Up -> Right -> Down -> Left.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft

	numDirections = 4
)

// Rotate returns the heading delta steps clockwise (negative is counter-clockwise).
func (d Direction) Rotate(delta int) Direction {
	r := (int(d) + delta) % numDirections
	if r < 0 {
		r += numDirections
	}
	return Direction(r)
}

// Delta returns the cell offset of one step in this direction.
// Rows grow downward, so Up decreases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection converts a config name into a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up", "north":
		return DirUp, true
	case "right", "east":
		return DirRight, true
	case "down", "south":
		return DirDown, true
	case "left", "west":
		return DirLeft, true
	default:
		return DirUp, false
	}
}

// Action is a move relative to the current heading.
// The numeric values double as column indexes of the value table.
type Action int

const (
	ActionStraight Action = iota
	ActionTurnRight
	ActionTurnLeft

	// NumActions is the number of distinct actions.
	NumActions = 3
)

// Apply returns the heading that results from taking the action while facing d.
func (a Action) Apply(d Direction) Direction {
	switch a {
	case ActionTurnRight:
		return d.Rotate(1)
	case ActionTurnLeft:
		return d.Rotate(-1)
	default:
		return d
	}
}

func (a Action) String() string {
	switch a {
	case ActionStraight:
		return "straight"
	case ActionTurnRight:
		return "turn-right"
	case ActionTurnLeft:
		return "turn-left"
	default:
		return "unknown"
	}
}
