package snake

import "fmt"

// StateIndex is the 7-bit discrete observation used as a value-table row.
type StateIndex uint8

// NumStates is the number of distinct StateIndex values.
const NumStates = 1 << 7

// Bit positions, most significant first.
const (
	bitDangerStraight = 6 - iota
	bitDangerLeft
	bitDangerRight
	bitFoodWest
	bitFoodEast
	bitFoodNorth
	bitFoodSouth
)

// Encode observes the world from the agent's point of view.
//
// The three danger bits probe the cells reached by going straight, turning
// left and turning right, judged against the full current body. The four
// food bits compare the food position strictly with the head; when no food
// is placed they are all zero.
func Encode(a *Agent, food Food, w *World) StateIndex {
	head := a.Head()
	heading := a.Heading()

	var s StateIndex
	set := func(bit int, on bool) {
		if on {
			s |= 1 << bit
		}
	}

	set(bitDangerStraight, w.Blocked(a.Projected(ActionStraight.Apply(heading)), a))
	set(bitDangerLeft, w.Blocked(a.Projected(ActionTurnLeft.Apply(heading)), a))
	set(bitDangerRight, w.Blocked(a.Projected(ActionTurnRight.Apply(heading)), a))

	if food.Placed {
		set(bitFoodWest, food.Pos.X < head.X)
		set(bitFoodEast, food.Pos.X > head.X)
		set(bitFoodNorth, food.Pos.Y < head.Y)
		set(bitFoodSouth, food.Pos.Y > head.Y)
	}

	return s
}

// DangerStraight reports the danger-straight bit.
func (s StateIndex) DangerStraight() bool { return s&(1<<bitDangerStraight) != 0 }

// DangerLeft reports the danger-left bit.
func (s StateIndex) DangerLeft() bool { return s&(1<<bitDangerLeft) != 0 }

// DangerRight reports the danger-right bit.
func (s StateIndex) DangerRight() bool { return s&(1<<bitDangerRight) != 0 }

// String renders the bits in encoding order, e.g. "100|0100".
func (s StateIndex) String() string {
	b := fmt.Sprintf("%07b", uint8(s))
	return b[:3] + "|" + b[3:]
}
