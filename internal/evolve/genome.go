package evolve

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"github.com/yaricom/goNEAT/v4/neat/network"
	"gopkg.in/yaml.v3"
)

// Network shape: three observation sensors plus a bias, one jump output.
const (
	ObservationInputs = 3
	SensorCount       = ObservationInputs + 1 // with bias
	OutputCount       = 1
)

// traitParams is the number of parameters goNEAT keeps per trait.
const traitParams = 8

func seedTrait() *neat.Trait {
	return &neat.Trait{Id: 1, Params: make([]float64, traitParams)}
}

// SeedGenome builds the starting topology: every sensor (y, gap top
// distance, gap bottom distance, bias) wired straight to the output with a
// random weight in [-1, 1].
func SeedGenome(id int, rng *rand.Rand) *genetics.Genome {
	trait := seedTrait()
	nodes := make([]*network.NNode, 0, SensorCount+OutputCount)

	for i := 1; i <= ObservationInputs; i++ {
		node := network.NewNNode(i, network.InputNeuron)
		node.ActivationType = neatmath.LinearActivation
		nodes = append(nodes, node)
	}

	bias := network.NewNNode(SensorCount, network.BiasNeuron)
	bias.ActivationType = neatmath.LinearActivation
	nodes = append(nodes, bias)

	out := network.NewNNode(SensorCount+1, network.OutputNeuron)
	out.ActivationType = neatmath.SigmoidSteepenedActivation
	nodes = append(nodes, out)

	genes := make([]*genetics.Gene, 0, SensorCount)
	for i := 0; i < SensorCount; i++ {
		weight := rng.Float64()*2 - 1
		genes = append(genes, genetics.NewGeneWithTrait(trait, weight, nodes[i], out, false, int64(i+1), 0))
	}

	return genetics.NewGenome(id, []*neat.Trait{trait}, nodes, genes)
}

// Champion is the best genome found during a run, stored as plain YAML.
type Champion struct {
	Generation int          `yaml:"generation"`
	Fitness    float64      `yaml:"fitness"`
	Score      int          `yaml:"score"`
	GenomeID   int          `yaml:"genome_id"`
	Nodes      []NodeRecord `yaml:"nodes"`
	Genes      []GeneRecord `yaml:"genes"`
}

// NodeRecord is one network node.
type NodeRecord struct {
	ID         int `yaml:"id"`
	Type       int `yaml:"type"`
	Activation int `yaml:"activation"`
}

// GeneRecord is one connection gene.
type GeneRecord struct {
	In         int     `yaml:"in"`
	Out        int     `yaml:"out"`
	Weight     float64 `yaml:"weight"`
	Recurrent  bool    `yaml:"recurrent,omitempty"`
	Enabled    bool    `yaml:"enabled"`
	Innovation int64   `yaml:"innovation"`
	Mutation   float64 `yaml:"mutation"`
}

// NewChampion snapshots a genome so later epochs cannot alter it.
func NewChampion(g *genetics.Genome, generation int, fitness float64, score int) *Champion {
	c := &Champion{
		Generation: generation,
		Fitness:    fitness,
		Score:      score,
		GenomeID:   g.Id,
		Nodes:      make([]NodeRecord, 0, len(g.Nodes)),
		Genes:      make([]GeneRecord, 0, len(g.Genes)),
	}
	for _, n := range g.Nodes {
		c.Nodes = append(c.Nodes, NodeRecord{
			ID:         n.Id,
			Type:       int(n.NeuronType),
			Activation: int(n.ActivationType),
		})
	}
	for _, gene := range g.Genes {
		if gene.Link == nil {
			continue
		}
		c.Genes = append(c.Genes, GeneRecord{
			In:         gene.Link.InNode.Id,
			Out:        gene.Link.OutNode.Id,
			Weight:     gene.Link.ConnectionWeight,
			Recurrent:  gene.Link.IsRecurrent,
			Enabled:    gene.IsEnabled,
			Innovation: gene.InnovationNum,
			Mutation:   gene.MutationNum,
		})
	}
	sort.Slice(c.Nodes, func(i, j int) bool { return c.Nodes[i].ID < c.Nodes[j].ID })
	return c
}

// Genome rebuilds a goNEAT genome from the snapshot.
func (c *Champion) Genome() (*genetics.Genome, error) {
	trait := seedTrait()
	byID := make(map[int]*network.NNode, len(c.Nodes))
	nodes := make([]*network.NNode, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("champion: duplicate node %d", n.ID)
		}
		node := network.NewNNode(n.ID, network.NodeNeuronType(n.Type))
		node.ActivationType = neatmath.NodeActivationType(n.Activation)
		byID[n.ID] = node
		nodes = append(nodes, node)
	}

	genes := make([]*genetics.Gene, 0, len(c.Genes))
	for _, g := range c.Genes {
		in, ok := byID[g.In]
		if !ok {
			return nil, fmt.Errorf("champion: gene %d references unknown node %d", g.Innovation, g.In)
		}
		out, ok := byID[g.Out]
		if !ok {
			return nil, fmt.Errorf("champion: gene %d references unknown node %d", g.Innovation, g.Out)
		}
		gene := genetics.NewGeneWithTrait(trait, g.Weight, in, out, g.Recurrent, g.Innovation, g.Mutation)
		gene.IsEnabled = g.Enabled
		genes = append(genes, gene)
	}

	return genetics.NewGenome(c.GenomeID, []*neat.Trait{trait}, nodes, genes), nil
}

// Policy builds a decision policy from the champion's network.
func (c *Champion) Policy(threshold float64) (*AgentPolicy, error) {
	g, err := c.Genome()
	if err != nil {
		return nil, err
	}
	return NewAgentPolicy(g, threshold)
}

// Save writes the champion as YAML, creating parent directories.
func (c *Champion) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("champion: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("champion: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("champion: write %s: %w", path, err)
	}
	return nil
}

// LoadChampion reads a champion written by Save.
func LoadChampion(path string) (*Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("champion: read %s: %w", path, err)
	}
	var c Champion
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("champion: parse %s: %w", path, err)
	}
	if len(c.Nodes) == 0 {
		return nil, fmt.Errorf("champion: %s has no nodes", path)
	}
	return &c, nil
}
