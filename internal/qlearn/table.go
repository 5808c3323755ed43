// Package qlearn implements the tabular action-value learner: a dense
// state x action table, an epsilon-default policy and the one-step
// Q-learning update.
package qlearn

import (
	"fmt"

	"github.com/vovakirdan/qsnake/internal/snake"
)

// Table is the dense action-value table. Every entry starts at zero.
type Table struct {
	q [snake.NumStates][snake.NumActions]float64
}

// NewTable returns a zeroed table.
func NewTable() *Table {
	return &Table{}
}

// check panics on indexes outside the table. Both come from internal code,
// so a bad value is a programming error.
func check(s snake.StateIndex, a snake.Action) {
	if int(s) >= snake.NumStates {
		panic(fmt.Sprintf("qlearn: state index %d out of range [0,%d)", s, snake.NumStates))
	}
	if a < 0 || int(a) >= snake.NumActions {
		panic(fmt.Sprintf("qlearn: action %d out of range [0,%d)", a, snake.NumActions))
	}
}

// Get returns Q[s, a].
func (t *Table) Get(s snake.StateIndex, a snake.Action) float64 {
	check(s, a)
	return t.q[s][a]
}

// Set overwrites Q[s, a].
func (t *Table) Set(s snake.StateIndex, a snake.Action, v float64) {
	check(s, a)
	t.q[s][a] = v
}

// Row returns a copy of the action values for state s.
func (t *Table) Row(s snake.StateIndex) [snake.NumActions]float64 {
	check(s, snake.ActionStraight)
	return t.q[s]
}

// Argmax returns the action with the largest value for s.
// Ties go to the lowest action index.
func (t *Table) Argmax(s snake.StateIndex) snake.Action {
	row := t.Row(s)
	best := 0
	for a := 1; a < snake.NumActions; a++ {
		if row[a] > row[best] {
			best = a
		}
	}
	return snake.Action(best)
}

// Max returns the largest action value for s.
func (t *Table) Max(s snake.StateIndex) float64 {
	row := t.Row(s)
	return row[t.Argmax(s)]
}

// Visited counts the states with at least one non-zero entry.
func (t *Table) Visited() int {
	n := 0
	for s := range t.q {
		for _, v := range t.q[s] {
			if v != 0 {
				n++
				break
			}
		}
	}
	return n
}
