package booster

import (
	"context"
	"time"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

// Callback receives the evaluation line of every round. Returning true stops
// training after that round.
type Callback func(iteration int, eval string) bool

// TrainOption configures Train.
type TrainOption func(*trainOptions)

type trainOptions struct {
	evalSets   []EvalSet
	callbacks  []Callback
	rangeCheck bool
	logger     log.Logger
}

// WithEvalSets evaluates the booster on sets after every round.
func WithEvalSets(sets ...EvalSet) TrainOption {
	return func(o *trainOptions) { o.evalSets = append(o.evalSets, sets...) }
}

// WithCallback registers a per-round callback. Callbacks only run when eval
// sets are configured.
func WithCallback(cb Callback) TrainOption {
	return func(o *trainOptions) { o.callbacks = append(o.callbacks, cb) }
}

// WithRangeCheck validates params before training. A failed check is reported
// through errors.Warn and training continues.
func WithRangeCheck() TrainOption {
	return func(o *trainOptions) { o.rangeCheck = true }
}

// WithLogger replaces the package logger for this run.
func WithLogger(l log.Logger) TrainOption {
	return func(o *trainOptions) { o.logger = l }
}

type validator interface {
	Validate() error
}

// Train creates a booster over dtrain and the eval sets, then runs rounds
// boosting iterations. The context is checked before every round. On error
// the booster is closed and nil is returned.
func Train(ctx context.Context, lib Library, params Parameterizer, dtrain *DMatrix, rounds int, opts ...TrainOption) (*Booster, error) {
	o := &trainOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("train")
	}
	if rounds < 0 {
		return nil, errors.NewValidationError("rounds", "must be non-negative", rounds)
	}
	if params == nil {
		return nil, errors.NewValidationError("params", "must not be nil", nil)
	}
	if dtrain == nil {
		return nil, errors.NewValidationError("dtrain", "must not be nil", nil)
	}
	for _, s := range o.evalSets {
		if s.Data == nil {
			return nil, errors.NewValidationError("eval_set", "data must not be nil", s.Name)
		}
	}

	if o.rangeCheck {
		if v, ok := params.(validator); ok {
			if err := v.Validate(); err != nil {
				errors.Warn(err)
			}
		}
	}

	cache := make([]*DMatrix, 0, 1+len(o.evalSets))
	cache = append(cache, dtrain)
	for _, s := range o.evalSets {
		if s.Data != dtrain {
			cache = append(cache, s.Data)
		}
	}

	b, err := New(lib, params, cache...)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(log.BoosterIDKey, b.ID())
	logger.Info("Training started",
		log.RoundsKey, rounds,
		log.RowsKey, dtrain.Rows(),
		log.ColsKey, dtrain.Cols(),
		log.FingerprintKey, params.AsStringPairs().Fingerprint(),
	)
	start := time.Now()

	iter, err := runRounds(ctx, b, dtrain, rounds, o, logger)
	if err != nil {
		if closeErr := b.Close(); closeErr != nil {
			logger.Warn("failed to close booster after training error", log.ErrAttrKey, closeErr)
		}
		return nil, err
	}

	logger.Info("Training finished",
		log.IterationKey, iter,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return b, nil
}

// runRounds returns the number of completed rounds.
func runRounds(ctx context.Context, b *Booster, dtrain *DMatrix, rounds int, o *trainOptions, logger log.Logger) (int, error) {
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return i, errors.Wrapf(err, "training cancelled before round %d", i)
		}
		if err := b.UpdateOneIter(i, dtrain); err != nil {
			return i, err
		}
		if len(o.evalSets) == 0 {
			continue
		}

		eval, err := b.EvalOneIter(i, o.evalSets)
		if err != nil {
			return i, err
		}
		logger.Debug("Round evaluated", log.IterationKey, i, log.EvalKey, eval)

		stop, err := runCallbacks(o.callbacks, i, eval)
		if err != nil {
			return i, err
		}
		if stop {
			logger.Info("Training stopped by callback", log.IterationKey, i)
			return i + 1, nil
		}
	}
	return rounds, nil
}

func runCallbacks(callbacks []Callback, iter int, eval string) (bool, error) {
	stop := false
	for _, cb := range callbacks {
		err := errors.SafeExecute("training callback", func() error {
			if cb(iter, eval) {
				stop = true
			}
			return nil
		})
		if err != nil {
			return false, err
		}
	}
	return stop, nil
}
