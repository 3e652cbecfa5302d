package evolve

import (
	"fmt"
	"os"

	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"gopkg.in/yaml.v3"
)

// DefaultNEATOptions returns goNEAT options sized for flappy training: a
// population of 50 feed-forward networks with sigmoid hidden nodes. Traits
// are never mutated; the seed genome carries a single placeholder trait.
func DefaultNEATOptions() *neat.Options {
	return &neat.Options{
		// Traits stay fixed
		TraitParamMutProb:     0,
		TraitMutationPower:    0,
		MutateRandomTraitProb: 0,
		MutateLinkTraitProb:   0,
		MutateNodeTraitProb:   0,

		// Weight mutation
		WeightMutPower:        2.5,
		MutateLinkWeightsProb: 0.8,
		MutateOnlyProb:        0.25,

		// Structural mutation rates
		MutateAddNodeProb:      0.03,
		MutateAddLinkProb:      0.08,
		MutateToggleEnableProb: 0.01,
		MutateGeneReenableProb: 0.01,
		NewLinkTries:           20,

		// Mating probabilities
		MateMultipointProb:    0.6,
		MateMultipointAvgProb: 0.4,
		MateSinglepointProb:   0.0,
		MateOnlyProb:          0.2,
		RecurOnlyProb:         0.0,
		InterspeciesMateRate:  0.001,

		// Speciation
		CompatThreshold: 3.0,
		DisjointCoeff:   1.0,
		ExcessCoeff:     1.0,
		MutdiffCoeff:    0.4,

		// Species management
		DropOffAge:      15,
		SurvivalThresh:  0.2,
		AgeSignificance: 1.0,

		PopSize: 50,

		NodeActivators:     []neatmath.NodeActivationType{neatmath.SigmoidSteepenedActivation},
		NodeActivatorsProb: []float64{1.0},

		LogLevel: string(neat.LogLevelWarning),
	}
}

// LoadNEATOptions returns the defaults, overridden by the YAML file at path
// when one is given.
func LoadNEATOptions(path string) (*neat.Options, error) {
	opts := DefaultNEATOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evolve: read neat options: %w", err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("evolve: parse neat options %s: %w", path, err)
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func checkOptions(opts *neat.Options) error {
	if opts.PopSize < 1 {
		return fmt.Errorf("evolve: neat options: pop size %d must be positive", opts.PopSize)
	}
	if len(opts.NodeActivators) == 0 || len(opts.NodeActivators) != len(opts.NodeActivatorsProb) {
		return fmt.Errorf("evolve: neat options: node activators and their probabilities must be non-empty and aligned")
	}
	return nil
}
