package flappy

// Observation is what a decision provider sees each tick: the bird's height
// and its vertical distance to both edges of the active pipe's gap.
type Observation struct {
	Y         float64
	GapTop    float64
	GapBottom float64
}

// Inputs returns the observation as a sensor vector.
func (o Observation) Inputs() []float64 {
	return []float64{o.Y, o.GapTop, o.GapBottom}
}

// Decider chooses whether a bird jumps this tick.
type Decider interface {
	Decide(obs Observation) (bool, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(obs Observation) (bool, error)

// Decide calls f(obs).
func (f DeciderFunc) Decide(obs Observation) (bool, error) {
	return f(obs)
}

// HumanInput latches a key press until the next tick consumes it.
type HumanInput struct {
	pressed bool
}

// Press requests a jump on the next tick.
func (h *HumanInput) Press() {
	h.pressed = true
}

// Decide returns the latched press and clears it.
func (h *HumanInput) Decide(Observation) (bool, error) {
	jump := h.pressed
	h.pressed = false
	return jump, nil
}

// Agent is one live participant: its bird, its controller and the fitness
// accumulated so far.
type Agent struct {
	ID      int
	Bird    *Bird
	Decider Decider
	Fitness float64

	retired bool
}

// Retired reports whether the world has removed this agent.
func (a *Agent) Retired() bool {
	return a.retired
}

// Scorer receives the world's per-agent events. The fitness harness uses it
// to shape fitness; the human game ignores it.
type Scorer interface {
	Survived(a *Agent)
	Collided(a *Agent)
	PassedPipe(a *Agent)
	Grounded(a *Agent)
}

type nopScorer struct{}

func (nopScorer) Survived(*Agent)   {}
func (nopScorer) Collided(*Agent)   {}
func (nopScorer) PassedPipe(*Agent) {}
func (nopScorer) Grounded(*Agent)   {}
