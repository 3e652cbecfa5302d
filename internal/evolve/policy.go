package evolve

import (
	"fmt"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
	"github.com/yaricom/goNEAT/v4/neat/network"

	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// fallbackDepth is used when the network cannot report its depth.
const fallbackDepth = 5

// AgentPolicy decides jumps with a NEAT network: the bird jumps when the
// first output exceeds the threshold.
type AgentPolicy struct {
	net       *network.Network
	depth     int
	threshold float64
	inputs    []float64
}

// NewAgentPolicy builds the genome's network.
func NewAgentPolicy(g *genetics.Genome, threshold float64) (*AgentPolicy, error) {
	net, err := g.Genesis(g.Id)
	if err != nil {
		return nil, fmt.Errorf("build network from genome %d: %w", g.Id, err)
	}

	depth, err := net.MaxActivationDepth()
	if err != nil || depth < 1 {
		depth = fallbackDepth
	}

	return &AgentPolicy{
		net:       net,
		depth:     depth,
		threshold: threshold,
		inputs:    make([]float64, 0, SensorCount),
	}, nil
}

// Decide activates the network on the observation plus the bias input.
func (p *AgentPolicy) Decide(obs flappy.Observation) (bool, error) {
	out, err := p.Activate(obs)
	if err != nil {
		return false, err
	}
	return out > p.threshold, nil
}

// Activate returns the raw network output for an observation.
func (p *AgentPolicy) Activate(obs flappy.Observation) (float64, error) {
	p.inputs = append(p.inputs[:0], obs.Y, obs.GapTop, obs.GapBottom, 1.0)

	if err := p.net.LoadSensors(p.inputs); err != nil {
		return 0, fmt.Errorf("load sensors: %w", err)
	}
	for i := 0; i < p.depth; i++ {
		if _, err := p.net.Activate(); err != nil {
			return 0, fmt.Errorf("activate: %w", err)
		}
	}

	outputs := p.net.ReadOutputs()
	if _, err := p.net.Flush(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	if len(outputs) == 0 {
		return 0, fmt.Errorf("network has no outputs")
	}
	return outputs[0], nil
}

// Complexity returns the network's node and link counts.
func (p *AgentPolicy) Complexity() (nodes, links int) {
	return p.net.NodeCount(), p.net.LinkCount()
}

// organismCandidate evaluates one goNEAT organism.
type organismCandidate struct {
	*AgentPolicy
	org *genetics.Organism
}

func (c *organismCandidate) SetFitness(fitness float64) {
	c.org.Fitness = fitness
}
