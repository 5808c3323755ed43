package snake

import (
	"math/rand"
)

// Position is a cell coordinate on the board: X is the column, Y the row.
type Position struct {
	X, Y int
}

// Add returns the position shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Food is the single food item on the board. Placed is false only when the
// snake covers every cell and there is nowhere left to put it.
type Food struct {
	Pos    Position
	Placed bool
}

// World owns the square board geometry, collision rules and food placement.
type World struct {
	size int
	rng  *rand.Rand
}

// NewWorld creates a size x size board. The RNG drives food placement.
func NewWorld(size int, rng *rand.Rand) *World {
	return &World{size: size, rng: rng}
}

// Size returns the side length of the board.
func (w *World) Size() int {
	return w.size
}

// OutOfBounds reports whether p lies outside [0, size) on either axis.
func (w *World) OutOfBounds(p Position) bool {
	return p.X < 0 || p.Y < 0 || p.X >= w.size || p.Y >= w.size
}

// Occupied reports whether any segment of the agent's body is at p.
func (w *World) Occupied(p Position, a *Agent) bool {
	return a.Contains(p)
}

// Blocked reports whether moving the head onto p ends the epoch.
// The whole current body counts, tail included.
func (w *World) Blocked(p Position, a *Agent) bool {
	return w.OutOfBounds(p) || w.Occupied(p, a)
}

// SpawnFood picks a cell uniformly at random among the cells not covered by
// the agent. It reports false when the board is full. The world is not
// modified; callers keep the returned position.
func (w *World) SpawnFood(a *Agent) (Position, bool) {
	free := make([]Position, 0, w.size*w.size)
	for y := 0; y < w.size; y++ {
		for x := 0; x < w.size; x++ {
			p := Position{X: x, Y: y}
			if !a.Contains(p) {
				free = append(free, p)
			}
		}
	}

	if len(free) == 0 {
		return Position{X: -1, Y: -1}, false
	}

	return free[w.rng.Intn(len(free))], true
}
