package snake

import (
	"math/rand"
	"testing"
)

func TestEncodeBits(t *testing.T) {
	w := NewWorld(4, rand.New(rand.NewSource(1)))

	tests := []struct {
		name  string
		agent func() *Agent
		food  Food
		want  StateIndex
	}{
		{
			name:  "food east, open board",
			agent: func() *Agent { return NewAgent(Position{X: 1, Y: 1}, DirRight) },
			food:  Food{Pos: Position{X: 2, Y: 1}, Placed: true},
			want:  0b0000100,
		},
		{
			name:  "facing wall at top-left corner",
			agent: func() *Agent { return NewAgent(Position{X: 0, Y: 0}, DirUp) },
			food:  Food{Pos: Position{X: 3, Y: 3}, Placed: true},
			// straight (0,-1) and left (-1,0) are off the board, right (1,0) is free
			want: 0b1100101,
		},
		{
			name:  "food north-west",
			agent: func() *Agent { return NewAgent(Position{X: 2, Y: 2}, DirDown) },
			food:  Food{Pos: Position{X: 0, Y: 0}, Placed: true},
			want:  0b0001010,
		},
		{
			name:  "food on same column",
			agent: func() *Agent { return NewAgent(Position{X: 2, Y: 2}, DirLeft) },
			food:  Food{Pos: Position{X: 2, Y: 3}, Placed: true},
			want:  0b0000001,
		},
		{
			name:  "no food placed",
			agent: func() *Agent { return NewAgent(Position{X: 2, Y: 2}, DirLeft) },
			food:  Food{},
			want:  0,
		},
		{
			name: "own body on the right",
			agent: func() *Agent {
				// body: (1,2) head, (1,1), (2,1) tail; heading left
				a := NewAgent(Position{X: 2, Y: 1}, DirLeft)
				a.ApplyMove(Position{X: 1, Y: 1}, true)
				a.Turn(ActionTurnLeft) // now facing down
				a.ApplyMove(Position{X: 1, Y: 2}, true)
				a.Turn(ActionTurnRight) // back to left
				return a
			},
			food: Food{Pos: Position{X: 1, Y: 2}, Placed: false},
			// left turn from heading left is down (1,3): free; right is up (1,1): body
			want: 0b0010000,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.agent(), tc.food, w)
			if got != tc.want {
				t.Errorf("Encode = %s, expected %s", got, tc.want)
			}
		})
	}
}

func TestEncodeTailCountsAsDanger(t *testing.T) {
	w := NewWorld(5, rand.New(rand.NewSource(1)))

	// Square loop: head (1,1) facing right, tail (2,1) directly ahead.
	a := NewAgent(Position{X: 2, Y: 1}, DirDown)
	a.ApplyMove(Position{X: 2, Y: 2}, true)
	a.Turn(ActionTurnRight) // left
	a.ApplyMove(Position{X: 1, Y: 2}, true)
	a.Turn(ActionTurnRight) // up
	a.ApplyMove(Position{X: 1, Y: 1}, true)
	a.Turn(ActionTurnRight) // right, facing the tail at (2,1)

	s := Encode(a, Food{}, w)
	if !s.DangerStraight() {
		t.Errorf("tail cell ahead should count as danger, state = %s", s)
	}
}

func TestEncodeDeterministicAndInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	w := NewWorld(6, rng)

	for i := 0; i < 500; i++ {
		head := Position{X: rng.Intn(6), Y: rng.Intn(6)}
		a := NewAgent(head, Direction(rng.Intn(4)))
		food := Food{Pos: Position{X: rng.Intn(6), Y: rng.Intn(6)}, Placed: true}

		s1 := Encode(a, food, w)
		s2 := Encode(a, food, w)
		if s1 != s2 {
			t.Fatalf("Encode not deterministic: %s vs %s", s1, s2)
		}
		if int(s1) >= NumStates {
			t.Fatalf("state %d out of range", s1)
		}
	}
}

func TestEncodeOutOfBoundsHead(t *testing.T) {
	w := NewWorld(4, rand.New(rand.NewSource(1)))
	a := NewAgent(Position{X: 4, Y: 1}, DirRight)

	s := Encode(a, Food{Pos: Position{X: 0, Y: 0}, Placed: true}, w)
	if !s.DangerStraight() || !s.DangerLeft() || !s.DangerRight() {
		t.Errorf("every probe from outside the board should be dangerous, state = %s", s)
	}
	if int(s) >= NumStates {
		t.Errorf("state %d out of range", s)
	}
}
