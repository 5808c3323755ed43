package train

import "github.com/vovakirdan/qsnake/internal/snake"

// Phase is the controller's state-machine position.
type Phase int

const (
	PhaseRunning          Phase = iota // Stepping the current epoch
	PhaseEpochEnded                    // Epoch recorded, waiting to reset
	PhaseTrainingComplete              // Epoch budget spent or stop requested
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseEpochEnded:
		return "epoch_ended"
	case PhaseTrainingComplete:
		return "training_complete"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of everything a front-end needs to draw one tick.
type Snapshot struct {
	GridSize    int
	Body        []snake.Position // Head first
	Heading     snake.Direction
	Food        snake.Food
	Score       int
	HighScore   int
	Epoch       int // 0-based index of the current epoch
	TotalEpochs int
	EpochSteps  int
	TotalSteps  int
	Epsilon     float64
	Phase       Phase
}

// Snapshot captures the current tick.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		GridSize:    c.world.Size(),
		Body:        c.agent.Body(),
		Heading:     c.agent.Heading(),
		Food:        c.food,
		Score:       c.score,
		HighScore:   c.highScore,
		Epoch:       c.epoch,
		TotalEpochs: c.cfg.Training.Epochs,
		EpochSteps:  c.epochSteps,
		TotalSteps:  c.totalSteps,
		Epsilon:     c.learner.Epsilon(),
		Phase:       c.phase,
	}
}

// DisplayEpoch returns the 1-based epoch number for headings, clamped to the budget.
func (s Snapshot) DisplayEpoch() int {
	return min(s.Epoch+1, s.TotalEpochs)
}
