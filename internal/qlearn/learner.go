package qlearn

import (
	"math/rand"

	"github.com/vovakirdan/qsnake/internal/snake"
)

// Params holds the fixed learning constants and the exploration schedule.
type Params struct {
	Alpha        float64 // Learning rate
	Gamma        float64 // Discount factor
	Epsilon      float64 // Initial exploration rate
	EpsilonMin   float64 // Exploration floor
	EpsilonDecay float64 // Multiplier applied after every step
}

// Learner owns the value table and the exploration state for one training run.
type Learner struct {
	table   *Table
	params  Params
	epsilon float64
	rng     *rand.Rand
}

// NewLearner creates a learner with a zeroed table. The RNG decides when to explore.
func NewLearner(p Params, rng *rand.Rand) *Learner {
	return &Learner{
		table:   NewTable(),
		params:  p,
		epsilon: p.Epsilon,
		rng:     rng,
	}
}

// Table returns the learner's value table.
func (l *Learner) Table() *Table {
	return l.table
}

// Params returns the constants the learner was built with.
func (l *Learner) Params() Params {
	return l.params
}

// Epsilon returns the current exploration rate.
func (l *Learner) Epsilon() float64 {
	return l.epsilon
}

// SetEpsilon overrides the current exploration rate.
func (l *Learner) SetEpsilon(e float64) {
	l.epsilon = e
}

// SelectAction picks the action for state s. With probability epsilon the
// exploratory default (straight) is returned, otherwise the greedy action.
func (l *Learner) SelectAction(s snake.StateIndex) snake.Action {
	if l.rng.Float64() < l.epsilon {
		return snake.ActionStraight
	}
	return l.table.Argmax(s)
}

// Update applies Q[s,a] += alpha * (reward + gamma * max Q[next] - Q[s,a])
// and returns the change made to Q[s,a].
//
// terminal does not zero the bootstrap term: the value of next is used
// even when the step ended the epoch.
func (l *Learner) Update(s snake.StateIndex, a snake.Action, reward float64, next snake.StateIndex, terminal bool) float64 {
	current := l.table.Get(s, a)
	target := reward + l.params.Gamma*l.table.Max(next)
	delta := l.params.Alpha * (target - current)
	l.table.Set(s, a, current+delta)
	return delta
}

// Decay shrinks epsilon by the decay factor, never below the floor.
func (l *Learner) Decay() {
	l.epsilon = max(l.params.EpsilonMin, l.epsilon*l.params.EpsilonDecay)
}
