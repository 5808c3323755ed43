// Package train drives the learning loop: it runs epochs of the snake
// simulation, feeds rewards to the learner and records per-epoch outcomes.
package train

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/qsnake/internal/config"
	"github.com/vovakirdan/qsnake/internal/qlearn"
	"github.com/vovakirdan/qsnake/internal/snake"
)

// Outcome describes what a single Step did.
type Outcome int

const (
	OutcomeMove      Outcome = iota // Moved onto an empty cell
	OutcomeFood                     // Ate food and grew
	OutcomeCollision                // Hit a wall or the body, epoch ended
	OutcomeReset                    // Started a new epoch, no move made
	OutcomeIdle                     // Training is complete, nothing happened
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMove:
		return "move"
	case OutcomeFood:
		return "food"
	case OutcomeCollision:
		return "collision"
	case OutcomeReset:
		return "reset"
	case OutcomeIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// StepResult reports the transition taken by one Step call.
// State, Action, Reward and Next are only meaningful for moves, food and collisions.
type StepResult struct {
	Outcome Outcome
	Phase   Phase // Phase after the step
	State   snake.StateIndex
	Action  snake.Action
	Reward  float64
	Next    snake.StateIndex
}

// Controller owns one training run: the value table that persists across
// epochs and the world state of the current epoch. It is not safe for
// concurrent use; drive it from a single goroutine.
type Controller struct {
	cfg      config.Config
	seed     int64
	rng      *rand.Rand
	world    *snake.World
	learner  *qlearn.Learner
	logger   *log.Logger
	observer func(EpochRecord)

	// Current epoch
	agent      *snake.Agent
	food       snake.Food
	score      int
	epochSteps int

	// Whole run
	highScore     int
	epoch         int // Index of the current epoch; equals len(history) while running
	totalSteps    int
	phase         Phase
	stopRequested bool
	history       []EpochRecord
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for exploration and food placement.
// It overrides the seed from the config.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
		c.seed = 0
	}
}

// WithLogger sets the logger used for epoch reports.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithObserver registers a callback invoked once per finished epoch.
func WithObserver(fn func(EpochRecord)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// New validates cfg and creates a controller positioned at the start of the first epoch.
func New(cfg config.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	c := &Controller{
		cfg:  cfg,
		seed: cfg.Seed,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Use time-based seed if not specified
	if c.rng == nil {
		if c.seed == 0 {
			c.seed = time.Now().UnixNano()
		}
		c.rng = rand.New(rand.NewSource(c.seed))
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	c.world = snake.NewWorld(cfg.Grid.Size, c.rng)
	c.learner = qlearn.NewLearner(qlearn.Params{
		Alpha:        cfg.Learning.Alpha,
		Gamma:        cfg.Learning.Gamma,
		Epsilon:      cfg.Learning.Epsilon,
		EpsilonMin:   cfg.Learning.EpsilonMin,
		EpsilonDecay: cfg.Learning.EpsilonDecay,
	}, c.rng)

	c.reset()
	return c, nil
}

// reset starts a fresh epoch: single-segment snake at the start cell, score
// zero and new food. The value table is kept.
func (c *Controller) reset() {
	c.agent = snake.NewAgent(c.cfg.Grid.Start(), c.cfg.Grid.Heading())
	c.score = 0
	c.epochSteps = 0
	c.respawnFood()
	c.phase = PhaseRunning
}

// respawnFood places new food, or marks it absent when the board is full.
func (c *Controller) respawnFood() {
	pos, ok := c.world.SpawnFood(c.agent)
	c.food = snake.Food{Pos: pos, Placed: ok}
}

// Step advances the state machine by one tick.
//
// While running it performs encode, select, turn, move, judge and update.
// After an epoch has ended the next call resets the world without moving.
// Once training is complete Step does nothing.
func (c *Controller) Step() StepResult {
	switch c.phase {
	case PhaseTrainingComplete:
		return StepResult{Outcome: OutcomeIdle, Phase: c.phase}
	case PhaseEpochEnded:
		c.reset()
		return StepResult{Outcome: OutcomeReset, Phase: c.phase}
	}

	state := snake.Encode(c.agent, c.food, c.world)
	action := c.learner.SelectAction(state)
	c.agent.Turn(action)
	newHead := c.agent.Projected(c.agent.Heading())

	c.epochSteps++
	c.totalSteps++

	res := StepResult{State: state, Action: action}

	// Collision is judged against the full body, including the tail cell.
	if c.world.Blocked(newHead, c.agent) {
		// Bootstrap from the configuration the move would have produced.
		ghost := c.agent.Clone()
		ghost.ApplyMove(newHead, false)
		next := snake.Encode(ghost, c.food, c.world)

		res.Outcome = OutcomeCollision
		res.Reward = c.cfg.Rewards.Collision
		res.Next = next
		c.learner.Update(state, action, res.Reward, next, true)
		c.learner.Decay()
		c.logStep(res)

		c.endEpoch(EndCollision)
		res.Phase = c.phase
		return res
	}

	ate := c.food.Placed && newHead == c.food.Pos
	c.agent.ApplyMove(newHead, ate)

	res.Outcome = OutcomeMove
	res.Reward = c.cfg.Rewards.Step
	if ate {
		res.Outcome = OutcomeFood
		res.Reward = c.cfg.Rewards.Food
		c.score++
		c.highScore = max(c.highScore, c.score)
		c.respawnFood()
	}

	res.Next = snake.Encode(c.agent, c.food, c.world)
	c.learner.Update(state, action, res.Reward, res.Next, false)
	c.learner.Decay()
	c.logStep(res)

	switch {
	case ate && !c.food.Placed:
		c.endEpoch(EndBoardFull)
	case c.cfg.Training.MaxStepsPerEpoch > 0 && c.epochSteps >= c.cfg.Training.MaxStepsPerEpoch:
		c.endEpoch(EndStepCap)
	}

	res.Phase = c.phase
	return res
}

// logStep emits per-step debug output.
func (c *Controller) logStep(res StepResult) {
	c.logger.Debug("step",
		"epoch", c.epoch+1,
		"step", c.epochSteps,
		"state", res.State,
		"action", res.Action,
		"outcome", res.Outcome,
		"reward", res.Reward,
	)
}

// endEpoch records the finished epoch and moves to EpochEnded, or to
// TrainingComplete when the budget is spent or a stop was requested.
func (c *Controller) endEpoch(reason EndReason) {
	rec := EpochRecord{
		Epoch: c.epoch,
		Score: c.score,
		Steps: c.epochSteps,
		End:   reason,
	}
	c.history = append(c.history, rec)

	c.logger.Info("epoch completed",
		"epoch", fmt.Sprintf("%d/%d", c.epoch+1, c.cfg.Training.Epochs),
		"score", rec.Score,
		"high", c.highScore,
		"steps", rec.Steps,
		"end", rec.End,
		"epsilon", fmt.Sprintf("%.4f", c.learner.Epsilon()),
	)
	if c.observer != nil {
		c.observer(rec)
	}

	c.epoch++
	c.phase = PhaseEpochEnded
	if c.epoch >= c.cfg.Training.Epochs || c.stopRequested {
		c.finish()
	}
}

// finish enters the terminal phase.
func (c *Controller) finish() {
	c.phase = PhaseTrainingComplete
	s := c.Summary()
	c.logger.Info("training complete",
		"epochs", s.Epochs,
		"best", s.BestScore,
		"mean", fmt.Sprintf("%.2f", s.MeanScore),
		"steps", s.TotalSteps,
	)
}

// RequestStop ends training after the current epoch finishes. If an epoch
// has just ended, training completes immediately.
func (c *Controller) RequestStop() {
	c.stopRequested = true
	if c.phase == PhaseEpochEnded {
		c.finish()
	}
}

// Run steps until training completes and returns the score history.
// Cancelling ctx acts like RequestStop: the running epoch is played out.
func (c *Controller) Run(ctx context.Context) []EpochRecord {
	for c.phase != PhaseTrainingComplete {
		if !c.stopRequested && ctx.Err() != nil {
			c.RequestStop()
			continue
		}
		c.Step()
	}
	return c.History()
}

// Phase returns the current state-machine phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Done reports whether training is complete.
func (c *Controller) Done() bool {
	return c.phase == PhaseTrainingComplete
}

// History returns a copy of the per-epoch records so far.
func (c *Controller) History() []EpochRecord {
	out := make([]EpochRecord, len(c.history))
	copy(out, c.history)
	return out
}

// Summary aggregates the history together with the learner state.
func (c *Controller) Summary() Summary {
	s := Summarize(c.history)
	s.TotalSteps = c.totalSteps
	s.FinalEpsilon = c.learner.Epsilon()
	s.Visited = c.learner.Table().Visited()
	return s
}

// Learner exposes the learner, mainly for inspection of the value table.
func (c *Controller) Learner() *qlearn.Learner {
	return c.learner
}

// Config returns the configuration the run was built with.
func (c *Controller) Config() config.Config {
	return c.cfg
}

// Seed returns the seed of the random source, or 0 when one was injected.
func (c *Controller) Seed() int64 {
	return c.seed
}

// TotalSteps returns the number of moves made across all epochs.
func (c *Controller) TotalSteps() int {
	return c.totalSteps
}
