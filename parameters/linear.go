package parameters

import (
	"fmt"
	"math"
	"strconv"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

// LinearUpdate selects the coordinate descent variant used by the linear booster.
type LinearUpdate int

const (
	// Shotgun is parallel coordinate descent based on the shotgun algorithm.
	// Updates use 'hogwild' parallelism, so every run produces a slightly
	// different, nondeterministic solution.
	Shotgun LinearUpdate = iota

	// CoordDescent is ordinary coordinate descent. It is multithreaded across
	// features but still produces a deterministic solution.
	CoordDescent
)

// linearUpdates lists every variant in declaration order.
var linearUpdates = []LinearUpdate{Shotgun, CoordDescent}

// String returns the name the native library expects for the "updater" key.
func (u LinearUpdate) String() string {
	switch u {
	case Shotgun:
		return "shotgun"
	case CoordDescent:
		return "coord_descent"
	default:
		return "LinearUpdate(" + strconv.Itoa(int(u)) + ")"
	}
}

// valid reports whether u is one of the declared variants.
func (u LinearUpdate) valid() bool {
	return u >= Shotgun && u <= CoordDescent
}

// ParseLinearUpdate is the inverse of LinearUpdate.String.
func ParseLinearUpdate(s string) (LinearUpdate, error) {
	for _, u := range linearUpdates {
		if u.String() == s {
			return u, nil
		}
	}
	return Shotgun, errors.NewValidationError("updater", "unknown linear updater", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u LinearUpdate) MarshalText() ([]byte, error) {
	if !u.valid() {
		return nil, errors.NewValidationError("updater", "unknown linear updater", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *LinearUpdate) UnmarshalText(text []byte) error {
	parsed, err := ParseLinearUpdate(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// LinearBoosterParameters configures the gblinear booster.
//
// The zero value is the default configuration. Values are immutable once
// built; use the builder or the With* options to derive new ones.
type LinearBoosterParameters struct {
	// L2 regularization term on weights. Increasing it makes the model more
	// conservative. Normalised to the number of training examples.
	//
	// * default: 0.0
	lambda float32

	// L1 regularization term on weights. Increasing it makes the model more
	// conservative. Normalised to the number of training examples.
	//
	// * default: 0.0
	alpha float32

	// Linear model algorithm.
	//
	// * default: Shotgun
	updater LinearUpdate
}

// DefaultLinearBoosterParameters returns the library defaults: lambda=0,
// alpha=0, updater=shotgun.
func DefaultLinearBoosterParameters() LinearBoosterParameters {
	return LinearBoosterParameters{
		lambda:  0.0,
		alpha:   0.0,
		updater: Shotgun,
	}
}

// Lambda returns the L2 penalty.
func (p LinearBoosterParameters) Lambda() float32 { return p.lambda }

// Alpha returns the L1 penalty.
func (p LinearBoosterParameters) Alpha() float32 { return p.alpha }

// Updater returns the coordinate descent variant.
func (p LinearBoosterParameters) Updater() LinearUpdate { return p.updater }

// AsStringPairs returns the parameters in the order the native library
// receives them: booster, lambda, alpha, updater.
func (p LinearBoosterParameters) AsStringPairs() Pairs {
	return Pairs{
		{Name: "booster", Value: "gblinear"},
		{Name: "lambda", Value: formatFloat32(p.lambda)},
		{Name: "alpha", Value: formatFloat32(p.alpha)},
		{Name: "updater", Value: p.updater.String()},
	}
}

// Validate reports penalties that are negative or not finite and updaters
// outside the declared set. Construction never calls it; the native library
// is left to reject such values unless a caller opts in.
func (p LinearBoosterParameters) Validate() error {
	if err := checkPenalty("lambda", p.lambda); err != nil {
		return err
	}
	if err := checkPenalty("alpha", p.alpha); err != nil {
		return err
	}
	if !p.updater.valid() {
		return errors.NewValidationError("updater", "unknown linear updater", int(p.updater))
	}
	return nil
}

func checkPenalty(name string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.NewValidationError(name, "must be finite", v)
	}
	if v < 0 {
		return errors.NewValidationError(name, "must be non-negative", v)
	}
	return nil
}

// String implements fmt.Stringer.
func (p LinearBoosterParameters) String() string {
	return fmt.Sprintf("LinearBoosterParameters{lambda: %s, alpha: %s, updater: %s}",
		formatFloat32(p.lambda), formatFloat32(p.alpha), p.updater)
}

// formatFloat32 renders v as the shortest decimal that parses back to the
// same float32, never in exponent form.
func formatFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// LinearBoosterParametersBuilder builds LinearBoosterParameters starting from
// the defaults. Fields that are never set keep their default.
type LinearBoosterParametersBuilder struct {
	params LinearBoosterParameters
}

// NewLinearBoosterParametersBuilder returns a builder seeded with the defaults.
func NewLinearBoosterParametersBuilder() *LinearBoosterParametersBuilder {
	return &LinearBoosterParametersBuilder{params: DefaultLinearBoosterParameters()}
}

// Lambda sets the L2 penalty.
func (b *LinearBoosterParametersBuilder) Lambda(v float32) *LinearBoosterParametersBuilder {
	b.params.lambda = v
	return b
}

// Alpha sets the L1 penalty.
func (b *LinearBoosterParametersBuilder) Alpha(v float32) *LinearBoosterParametersBuilder {
	b.params.alpha = v
	return b
}

// Updater sets the coordinate descent variant.
func (b *LinearBoosterParametersBuilder) Updater(u LinearUpdate) *LinearBoosterParametersBuilder {
	b.params.updater = u
	return b
}

// Build returns the configured parameters. The builder can keep being used
// afterwards without affecting the returned value.
//
// The error is always nil for the fields above; it is part of the signature
// so fields with failing constraints can be added without an API break.
func (b *LinearBoosterParametersBuilder) Build() (LinearBoosterParameters, error) {
	return b.params, nil
}

// LinearOption configures LinearBoosterParameters in NewLinearBoosterParameters.
type LinearOption func(*LinearBoosterParameters)

// WithLambda sets the L2 penalty.
func WithLambda(v float32) LinearOption {
	return func(p *LinearBoosterParameters) {
		p.lambda = v
	}
}

// WithAlpha sets the L1 penalty.
func WithAlpha(v float32) LinearOption {
	return func(p *LinearBoosterParameters) {
		p.alpha = v
	}
}

// WithUpdater sets the coordinate descent variant.
func WithUpdater(u LinearUpdate) LinearOption {
	return func(p *LinearBoosterParameters) {
		p.updater = u
	}
}

// NewLinearBoosterParameters applies opts on top of the defaults.
func NewLinearBoosterParameters(opts ...LinearOption) LinearBoosterParameters {
	p := DefaultLinearBoosterParameters()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
