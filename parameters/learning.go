package parameters

import (
	"strconv"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

// Objective is the learning objective passed as "objective".
type Objective int

const (
	// RegSquaredError is regression with squared loss.
	RegSquaredError Objective = iota
	// RegSquaredLogError is regression with squared log loss.
	RegSquaredLogError
	// RegLogistic is logistic regression.
	RegLogistic
	// BinaryLogistic is logistic regression for binary classification, output probability.
	BinaryLogistic
	// BinaryLogitRaw is logistic regression for binary classification, output score
	// before the logistic transformation.
	BinaryLogitRaw
	// BinaryHinge is hinge loss for binary classification; predictions are 0 or 1.
	BinaryHinge
	// CountPoisson is poisson regression for count data, output mean of the distribution.
	CountPoisson
	// SurvivalCox is Cox regression for right censored survival time data.
	SurvivalCox
	// MultiSoftmax is multiclass classification with softmax; requires NumClass.
	MultiSoftmax
	// MultiSoftprob is MultiSoftmax returning per-class probabilities.
	MultiSoftprob
	// RankPairwise minimizes pairwise ranking loss.
	RankPairwise
	// RankNDCG maximizes Normalized Discounted Cumulative Gain with LambdaMART.
	RankNDCG
	// RankMAP maximizes Mean Average Precision with LambdaMART.
	RankMAP
	// RegGamma is gamma regression with log-link.
	RegGamma
	// RegTweedie is Tweedie regression with log-link.
	RegTweedie
)

var objectiveNames = map[Objective]string{
	RegSquaredError:    "reg:squarederror",
	RegSquaredLogError: "reg:squaredlogerror",
	RegLogistic:        "reg:logistic",
	BinaryLogistic:     "binary:logistic",
	BinaryLogitRaw:     "binary:logitraw",
	BinaryHinge:        "binary:hinge",
	CountPoisson:       "count:poisson",
	SurvivalCox:        "survival:cox",
	MultiSoftmax:       "multi:softmax",
	MultiSoftprob:      "multi:softprob",
	RankPairwise:       "rank:pairwise",
	RankNDCG:           "rank:ndcg",
	RankMAP:            "rank:map",
	RegGamma:           "reg:gamma",
	RegTweedie:         "reg:tweedie",
}

// String returns the native objective name.
func (o Objective) String() string {
	if name, ok := objectiveNames[o]; ok {
		return name
	}
	return "Objective(" + strconv.Itoa(int(o)) + ")"
}

// multiclass reports whether o needs num_class.
func (o Objective) multiclass() bool {
	return o == MultiSoftmax || o == MultiSoftprob
}

// ParseObjective is the inverse of Objective.String.
func ParseObjective(s string) (Objective, error) {
	for o, name := range objectiveNames {
		if name == s {
			return o, nil
		}
	}
	return RegSquaredError, errors.NewValidationError("objective", "unknown objective", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Objective) MarshalText() ([]byte, error) {
	name, ok := objectiveNames[o]
	if !ok {
		return nil, errors.NewValidationError("objective", "unknown objective", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Objective) UnmarshalText(text []byte) error {
	parsed, err := ParseObjective(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// EvaluationMetric is one value of the repeatable "eval_metric" key.
type EvaluationMetric string

const (
	MetricRMSE           EvaluationMetric = "rmse"
	MetricMAE            EvaluationMetric = "mae"
	MetricLogLoss        EvaluationMetric = "logloss"
	MetricError          EvaluationMetric = "error"
	MetricMultiError     EvaluationMetric = "merror"
	MetricMultiLogLoss   EvaluationMetric = "mlogloss"
	MetricAUC            EvaluationMetric = "auc"
	MetricNDCG           EvaluationMetric = "ndcg"
	MetricMAP            EvaluationMetric = "map"
	MetricPoissonNLogLik EvaluationMetric = "poisson-nloglik"
	MetricGammaNLogLik   EvaluationMetric = "gamma-nloglik"
	MetricCoxNLogLik     EvaluationMetric = "cox-nloglik"
	MetricGammaDeviance  EvaluationMetric = "gamma-deviance"
	MetricTweedieNLogLik EvaluationMetric = "tweedie-nloglik"
)

var knownMetrics = map[EvaluationMetric]struct{}{
	MetricRMSE: {}, MetricMAE: {}, MetricLogLoss: {}, MetricError: {},
	MetricMultiError: {}, MetricMultiLogLoss: {}, MetricAUC: {}, MetricNDCG: {},
	MetricMAP: {}, MetricPoissonNLogLik: {}, MetricGammaNLogLik: {},
	MetricCoxNLogLik: {}, MetricGammaDeviance: {}, MetricTweedieNLogLik: {},
}

// ParseEvaluationMetric rejects names outside the known set.
func ParseEvaluationMetric(s string) (EvaluationMetric, error) {
	m := EvaluationMetric(s)
	if _, ok := knownMetrics[m]; !ok {
		return "", errors.NewValidationError("eval_metric", "unknown evaluation metric", s)
	}
	return m, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EvaluationMetric) UnmarshalText(text []byte) error {
	parsed, err := ParseEvaluationMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// LearningTaskParameters configures the learning task shared by every booster.
type LearningTaskParameters struct {
	objective   Objective
	baseScore   float32
	evalMetrics []EvaluationMetric
	seed        uint64
	numClass    int
}

// DefaultLearningTaskParameters returns reg:squarederror with base_score 0.5,
// seed 0 and the library's default metric for the objective.
func DefaultLearningTaskParameters() LearningTaskParameters {
	return LearningTaskParameters{
		objective: RegSquaredError,
		baseScore: 0.5,
	}
}

// Objective returns the learning objective.
func (p LearningTaskParameters) Objective() Objective { return p.objective }

// BaseScore returns the initial prediction score of all instances.
func (p LearningTaskParameters) BaseScore() float32 { return p.baseScore }

// EvalMetrics returns a copy of the configured metrics.
func (p LearningTaskParameters) EvalMetrics() []EvaluationMetric {
	return append([]EvaluationMetric(nil), p.evalMetrics...)
}

// Seed returns the random seed.
func (p LearningTaskParameters) Seed() uint64 { return p.seed }

// NumClass returns the number of classes; 0 means unset.
func (p LearningTaskParameters) NumClass() int { return p.numClass }

// AsStringPairs emits objective, base_score, num_class (when set), one
// eval_metric per metric, then seed.
func (p LearningTaskParameters) AsStringPairs() Pairs {
	pairs := make(Pairs, 0, 4+len(p.evalMetrics))
	pairs = append(pairs,
		Pair{Name: "objective", Value: p.objective.String()},
		Pair{Name: "base_score", Value: formatFloat32(p.baseScore)},
	)
	if p.numClass > 0 {
		pairs = append(pairs, Pair{Name: "num_class", Value: strconv.Itoa(p.numClass)})
	}
	for _, m := range p.evalMetrics {
		pairs = append(pairs, Pair{Name: "eval_metric", Value: string(m)})
	}
	pairs = append(pairs, Pair{Name: "seed", Value: strconv.FormatUint(p.seed, 10)})
	return pairs
}

// Validate checks that multiclass objectives carry at least two classes.
func (p LearningTaskParameters) Validate() error {
	if p.objective.multiclass() && p.numClass < 2 {
		return errors.NewValidationError("num_class", "multiclass objective requires at least 2 classes", p.numClass)
	}
	if p.numClass < 0 {
		return errors.NewValidationError("num_class", "must be non-negative", p.numClass)
	}
	return nil
}

// LearningOption configures LearningTaskParameters.
type LearningOption func(*LearningTaskParameters)

// WithObjective sets the objective.
func WithObjective(o Objective) LearningOption {
	return func(p *LearningTaskParameters) { p.objective = o }
}

// WithBaseScore sets base_score.
func WithBaseScore(v float32) LearningOption {
	return func(p *LearningTaskParameters) { p.baseScore = v }
}

// WithEvalMetrics replaces the evaluation metrics.
func WithEvalMetrics(metrics ...EvaluationMetric) LearningOption {
	return func(p *LearningTaskParameters) {
		p.evalMetrics = append([]EvaluationMetric(nil), metrics...)
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) LearningOption {
	return func(p *LearningTaskParameters) { p.seed = seed }
}

// WithNumClass sets num_class for multiclass objectives.
func WithNumClass(n int) LearningOption {
	return func(p *LearningTaskParameters) { p.numClass = n }
}

// NewLearningTaskParameters applies opts on top of the defaults.
func NewLearningTaskParameters(opts ...LearningOption) LearningTaskParameters {
	p := DefaultLearningTaskParameters()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
