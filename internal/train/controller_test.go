package train

import (
	"bytes"
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/qsnake/internal/config"
	"github.com/vovakirdan/qsnake/internal/snake"
)

// testConfig returns a greedy configuration on a small board.
func testConfig(size, startX, startY, epochs int) config.Config {
	cfg := config.Default()
	cfg.Seed = 1
	cfg.Grid = config.GridConfig{
		Size:         size,
		StartX:       startX,
		StartY:       startY,
		StartHeading: "right",
	}
	cfg.Learning.Epsilon = 0
	cfg.Learning.EpsilonMin = 0
	cfg.Training.Epochs = epochs
	cfg.Training.MaxStepsPerEpoch = 0
	return cfg
}

func newTestController(t *testing.T, cfg config.Config, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestFirstTickEatsFood(t *testing.T) {
	c := newTestController(t, testConfig(4, 1, 1, 1), WithRand(rand.New(rand.NewSource(3))))
	c.food = snake.Food{Pos: snake.Position{X: 2, Y: 1}, Placed: true}

	res := c.Step()

	if res.Action != snake.ActionStraight {
		t.Errorf("action = %v, expected straight on an all-zero table", res.Action)
	}
	if res.Outcome != OutcomeFood || res.Reward != 10 {
		t.Errorf("outcome = %v reward = %v, expected food/+10", res.Outcome, res.Reward)
	}
	if c.score != 1 {
		t.Errorf("score = %d, expected 1", c.score)
	}
	if c.agent.Len() != 2 {
		t.Errorf("body length = %d, expected 2", c.agent.Len())
	}
	if c.agent.Head() != (snake.Position{X: 2, Y: 1}) {
		t.Errorf("head = %v, expected (2,1)", c.agent.Head())
	}
	if !c.food.Placed {
		t.Fatal("food should respawn on a 4x4 board")
	}
	if c.food.Pos == (snake.Position{X: 1, Y: 1}) || c.food.Pos == (snake.Position{X: 2, Y: 1}) {
		t.Errorf("food respawned on the snake at %v", c.food.Pos)
	}
	if c.highScore != 1 {
		t.Errorf("high score = %d, expected 1", c.highScore)
	}

	// state 0000100 (food east only), 0.1 * (10 + 0.9*0 - 0)
	if got := c.Learner().Table().Get(res.State, snake.ActionStraight); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Q[%s, straight] = %v, expected 1.0", res.State, got)
	}
	if res.State != 0b0000100 {
		t.Errorf("state = %s, expected food-east only", res.State)
	}
	if c.Phase() != PhaseRunning {
		t.Errorf("phase = %v, expected running", c.Phase())
	}
}

func TestFatalFirstStep(t *testing.T) {
	c := newTestController(t, testConfig(1, 0, 0, 2))
	if c.food.Placed {
		t.Fatal("a 1x1 board has no room for food")
	}
	c.score = 3

	res := c.Step()

	if res.Outcome != OutcomeCollision {
		t.Fatalf("outcome = %v, expected collision", res.Outcome)
	}
	if res.Reward != -10 {
		t.Errorf("reward = %v, expected -10", res.Reward)
	}
	if c.Phase() != PhaseEpochEnded {
		t.Errorf("phase = %v, expected epoch_ended", c.Phase())
	}

	// Exactly one (state, action) pair received the update.
	tbl := c.Learner().Table()
	if tbl.Visited() != 1 {
		t.Errorf("visited states = %d, expected 1", tbl.Visited())
	}
	if got := tbl.Get(res.State, res.Action); math.Abs(got-(-1.0)) > 1e-12 {
		t.Errorf("Q[%s, %v] = %v, expected -1.0", res.State, res.Action, got)
	}
	nonZero := 0
	for s := 0; s < snake.NumStates; s++ {
		for _, v := range tbl.Row(snake.StateIndex(s)) {
			if v != 0 {
				nonZero++
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("non-zero entries = %d, expected 1", nonZero)
	}

	hist := c.History()
	if len(hist) != 1 {
		t.Fatalf("history length = %d, expected 1", len(hist))
	}
	if hist[0] != (EpochRecord{Epoch: 0, Score: 3, Steps: 1, End: EndCollision}) {
		t.Errorf("record = %+v", hist[0])
	}

	// Next call resets without moving.
	if res := c.Step(); res.Outcome != OutcomeReset || res.Phase != PhaseRunning {
		t.Errorf("second step = %+v, expected reset into running", res)
	}
	if c.score != 0 || c.agent.Len() != 1 || c.agent.Head() != (snake.Position{}) {
		t.Error("reset should restore the start state")
	}

	// Second and last epoch.
	c.Step()
	if !c.Done() {
		t.Errorf("phase = %v, expected training_complete", c.Phase())
	}
	if res := c.Step(); res.Outcome != OutcomeIdle {
		t.Errorf("step after completion = %v, expected idle", res.Outcome)
	}
	if len(c.History()) != 2 {
		t.Errorf("history length = %d, expected 2", len(c.History()))
	}
}

func TestBoardFullEndsEpoch(t *testing.T) {
	c := newTestController(t, testConfig(2, 0, 0, 3))

	// Body (0,1) (0,0) (1,0) facing right; the only free cell is (1,1).
	a := snake.NewAgent(snake.Position{X: 1, Y: 0}, snake.DirLeft)
	a.ApplyMove(snake.Position{X: 0, Y: 0}, true)
	a.Turn(snake.ActionTurnLeft)
	a.ApplyMove(snake.Position{X: 0, Y: 1}, true)
	a.Turn(snake.ActionTurnLeft)
	c.agent = a
	c.food = snake.Food{Pos: snake.Position{X: 1, Y: 1}, Placed: true}

	res := c.Step()

	if res.Outcome != OutcomeFood {
		t.Fatalf("outcome = %v, expected food", res.Outcome)
	}
	if c.food.Placed {
		t.Error("no food can be placed on a full board")
	}
	hist := c.History()
	if len(hist) != 1 || hist[0].End != EndBoardFull || hist[0].Score != 1 {
		t.Errorf("history = %+v, expected one board_full epoch with score 1", hist)
	}
	if c.Phase() != PhaseEpochEnded {
		t.Errorf("phase = %v, expected epoch_ended", c.Phase())
	}
}

func TestStepCap(t *testing.T) {
	cfg := testConfig(20, 5, 5, 4)
	cfg.Training.MaxStepsPerEpoch = 1
	c := newTestController(t, cfg)

	hist := c.Run(context.Background())

	if len(hist) != 4 {
		t.Fatalf("history length = %d, expected 4", len(hist))
	}
	for _, rec := range hist {
		if rec.Steps != 1 || rec.End != EndStepCap {
			t.Errorf("record = %+v, expected a single capped step", rec)
		}
	}
}

func TestEpsilonAfterTraining(t *testing.T) {
	cfg := testConfig(6, 2, 2, 25)
	cfg.Learning.Epsilon = 0.3
	cfg.Learning.EpsilonMin = 0.01
	cfg.Learning.EpsilonDecay = 0.995
	cfg.Training.MaxStepsPerEpoch = 300
	c := newTestController(t, cfg)

	hist := c.Run(context.Background())

	steps := 0
	for _, rec := range hist {
		steps += rec.Steps
	}
	if steps != c.TotalSteps() {
		t.Fatalf("sum of epoch steps %d != total steps %d", steps, c.TotalSteps())
	}

	want := math.Max(0.01, 0.3*math.Pow(0.995, float64(steps)))
	got := c.Learner().Epsilon()
	if math.Abs(got-want) > 1e-9*math.Max(1, want) {
		t.Errorf("epsilon after %d steps = %v, expected %v", steps, got, want)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	cfg := testConfig(8, 2, 2, 30)
	cfg.Seed = 2024
	cfg.Learning.Epsilon = 0.3
	cfg.Learning.EpsilonMin = 0.01
	cfg.Training.MaxStepsPerEpoch = 500

	h1 := newTestController(t, cfg).Run(context.Background())
	h2 := newTestController(t, cfg).Run(context.Background())

	if len(h1) != len(h2) {
		t.Fatalf("history lengths differ: %d vs %d", len(h1), len(h2))
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Fatalf("epoch %d differs: %+v vs %+v", i, h1[i], h2[i])
		}
	}
}

func TestRunStopsAfterCurrentEpochOnCancel(t *testing.T) {
	cfg := testConfig(8, 2, 2, 50)
	cfg.Training.MaxStepsPerEpoch = 200
	c := newTestController(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hist := c.Run(ctx)
	if len(hist) != 1 {
		t.Errorf("history length = %d, expected the in-flight epoch only", len(hist))
	}
	if !c.Done() {
		t.Error("controller should be complete")
	}
}

func TestRequestStopBetweenEpochs(t *testing.T) {
	c := newTestController(t, testConfig(1, 0, 0, 10))

	c.Step()
	if c.Phase() != PhaseEpochEnded {
		t.Fatalf("phase = %v, expected epoch_ended", c.Phase())
	}
	c.RequestStop()
	if !c.Done() {
		t.Errorf("phase = %v, expected training_complete", c.Phase())
	}
}

func TestObserverAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	var seen []EpochRecord
	c := newTestController(t, testConfig(1, 0, 0, 3),
		WithLogger(logger),
		WithObserver(func(rec EpochRecord) { seen = append(seen, rec) }),
	)

	c.Run(context.Background())

	if len(seen) != 3 {
		t.Errorf("observer saw %d epochs, expected 3", len(seen))
	}
	for i, rec := range seen {
		if rec.Epoch != i {
			t.Errorf("observer record %d has epoch %d", i, rec.Epoch)
		}
	}
	out := buf.String()
	if strings.Count(out, "epoch completed") != 3 {
		t.Errorf("expected 3 epoch log lines, got:\n%s", out)
	}
	if !strings.Contains(out, "training complete") {
		t.Errorf("missing completion log line:\n%s", out)
	}
}

func TestSnapshot(t *testing.T) {
	c := newTestController(t, testConfig(4, 1, 1, 5))
	c.food = snake.Food{Pos: snake.Position{X: 2, Y: 1}, Placed: true}
	c.Step()

	snap := c.Snapshot()
	if snap.GridSize != 4 || snap.TotalEpochs != 5 || snap.Epoch != 0 {
		t.Errorf("snapshot header = %+v", snap)
	}
	if len(snap.Body) != 2 || snap.Body[0] != (snake.Position{X: 2, Y: 1}) {
		t.Errorf("snapshot body = %v", snap.Body)
	}
	if snap.Score != 1 || snap.HighScore != 1 || snap.TotalSteps != 1 {
		t.Errorf("snapshot counters = %+v", snap)
	}
	if snap.DisplayEpoch() != 1 {
		t.Errorf("DisplayEpoch() = %d, expected 1", snap.DisplayEpoch())
	}

	snap.Body[0] = snake.Position{X: 9, Y: 9}
	if c.agent.Head() != (snake.Position{X: 2, Y: 1}) {
		t.Error("snapshot body must be a copy")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(4, 1, 1, 0)
	if _, err := New(cfg); err == nil {
		t.Error("expected error for zero epochs")
	}
}
