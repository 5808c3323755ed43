package snake

// Agent is the simulated snake: an ordered body (head first) and a heading.
type Agent struct {
	body    []Position // Head at index 0
	heading Direction
}

// NewAgent creates a single-segment snake at start facing heading.
func NewAgent(start Position, heading Direction) *Agent {
	return &Agent{
		body:    []Position{start},
		heading: heading,
	}
}

// Head returns the position of the head segment.
func (a *Agent) Head() Position {
	return a.body[0]
}

// Heading returns the current movement direction.
func (a *Agent) Heading() Direction {
	return a.heading
}

// Len returns the number of body segments.
func (a *Agent) Len() int {
	return len(a.body)
}

// Body returns a copy of the body, head first.
func (a *Agent) Body() []Position {
	out := make([]Position, len(a.body))
	copy(out, a.body)
	return out
}

// Contains reports whether any segment is at p.
func (a *Agent) Contains(p Position) bool {
	for _, seg := range a.body {
		if seg == p {
			return true
		}
	}
	return false
}

// Projected returns the cell one step from the head in dir. It does not move the snake.
func (a *Agent) Projected(dir Direction) Position {
	dx, dy := dir.Delta()
	return a.Head().Add(dx, dy)
}

// Turn rotates the heading according to a relative action.
func (a *Agent) Turn(action Action) {
	a.heading = action.Apply(a.heading)
}

// ApplyMove puts newHead at the front of the body. Unless grew is set the
// tail segment is dropped, keeping the length unchanged.
func (a *Agent) ApplyMove(newHead Position, grew bool) {
	if grew {
		a.body = append(a.body, Position{})
	}
	copy(a.body[1:], a.body[:len(a.body)-1])
	a.body[0] = newHead
}

// Clone returns an independent copy of the agent.
func (a *Agent) Clone() *Agent {
	return &Agent{
		body:    a.Body(),
		heading: a.heading,
	}
}
