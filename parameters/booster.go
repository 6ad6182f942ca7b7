package parameters

import (
	"strconv"
)

// BoosterParameters is the full parameter set handed to a booster: the
// linear booster group, the learning task group and the general settings.
type BoosterParameters struct {
	// Linear holds the gblinear parameters.
	Linear LinearBoosterParameters

	// Learning holds objective, base score, metrics and seed.
	Learning LearningTaskParameters

	// Verbose maps to verbosity=1; false maps to verbosity=0.
	Verbose bool

	// Threads maps to nthread. Zero leaves the library default (all cores).
	Threads int
}

// DefaultBoosterParameters returns the defaults of every group, silent, with
// the library's thread default.
func DefaultBoosterParameters() BoosterParameters {
	return BoosterParameters{
		Linear:   DefaultLinearBoosterParameters(),
		Learning: DefaultLearningTaskParameters(),
	}
}

// AsStringPairs emits the linear pairs, the learning pairs, verbosity and,
// when Threads is positive, nthread.
func (p BoosterParameters) AsStringPairs() Pairs {
	verbosity := "0"
	if p.Verbose {
		verbosity = "1"
	}
	general := Pairs{{Name: "verbosity", Value: verbosity}}
	if p.Threads > 0 {
		general = append(general, Pair{Name: "nthread", Value: strconv.Itoa(p.Threads)})
	}
	return p.Linear.AsStringPairs().Merge(p.Learning.AsStringPairs(), general)
}

// Validate runs the checks of both parameter groups.
func (p BoosterParameters) Validate() error {
	if err := p.Linear.Validate(); err != nil {
		return err
	}
	return p.Learning.Validate()
}
