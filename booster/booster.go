package booster

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goxgb/parameters"
	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

// Booster is a native booster handle. Calls on one Booster are serialized
// because the library does not allow concurrent updates of a single booster.
type Booster struct {
	lib    Library
	id     uuid.UUID
	cache  []*DMatrix
	logger log.Logger

	mu     sync.Mutex
	handle Handle
	closed bool
}

// EvalSet names a matrix for XGBoosterEvalOneIter.
type EvalSet struct {
	Name string
	Data *DMatrix
}

// New creates a booster over the cache matrices and forwards every pair of
// params, in order, through XGBoosterSetParam. params may be nil. When a pair
// is rejected the native booster is freed and the error names the pair.
//
// The cache matrices stay pinned until the booster is closed. Matrices passed
// to UpdateOneIter, EvalOneIter and Predict are pinned for the length of the
// native call, so closing them meanwhile fails with errors.ErrHandleInUse.
func New(lib Library, params Parameterizer, cache ...*DMatrix) (*Booster, error) {
	handles, releaseAll, err := pinMatrices("booster cache", cache...)
	if err != nil {
		return nil, err
	}

	h, err := lib.XGBoosterCreate(handles)
	if err != nil {
		releaseAll()
		return nil, errors.Wrap(err, "create booster")
	}

	id := uuid.New()
	b := &Booster{
		lib:    lib,
		id:     id,
		cache:  append([]*DMatrix(nil), cache...),
		handle: h,
		logger: log.GetLoggerWithName("booster").With(log.BoosterIDKey, id.String()),
	}

	var pairs parameters.Pairs
	if params != nil {
		pairs = params.AsStringPairs()
	}
	if err := b.SetParams(pairs); err != nil {
		if freeErr := lib.XGBoosterFree(h); freeErr != nil {
			b.logger.Warn("failed to free booster after rejected parameter", log.ErrAttrKey, freeErr)
		}
		releaseAll()
		return nil, err
	}

	kind, _ := pairs.Lookup("booster")
	b.logger.Debug("Booster created",
		log.OperationKey, "XGBoosterCreate",
		log.CacheSizeKey, len(cache),
		log.ParamCountKey, len(pairs),
		log.BoosterTypeKey, kind,
		log.FingerprintKey, pairs.Fingerprint(),
	)
	return b, nil
}

// ID returns the identifier attached to this booster's log records.
func (b *Booster) ID() string {
	return b.id.String()
}

// SetParam forwards one parameter.
func (b *Booster) SetParam(name, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.WithStack(errors.ErrHandleClosed)
	}
	return b.setParamLocked(name, value)
}

// SetParams forwards pairs in order and stops at the first rejected pair.
func (b *Booster) SetParams(pairs parameters.Pairs) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.WithStack(errors.ErrHandleClosed)
	}
	for _, p := range pairs {
		if err := b.setParamLocked(p.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (b *Booster) setParamLocked(name, value string) error {
	if err := b.lib.XGBoosterSetParam(b.handle, name, value); err != nil {
		return errors.NewParameterError(name, value, err)
	}
	return nil
}

// UpdateOneIter runs boosting round iter on dtrain.
func (b *Booster) UpdateOneIter(iter int, dtrain *DMatrix) error {
	hs, release, err := pinMatrices("dtrain", dtrain)
	if err != nil {
		return err
	}
	defer release()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.WithStack(errors.ErrHandleClosed)
	}
	if err := b.lib.XGBoosterUpdateOneIter(b.handle, iter, hs[0]); err != nil {
		return errors.Wrapf(err, "update iteration %d", iter)
	}
	return nil
}

// EvalOneIter evaluates the booster on sets and returns the library's
// evaluation line, e.g. "[3]\ttrain-rmse:0.41\tvalid-rmse:0.52".
func (b *Booster) EvalOneIter(iter int, sets []EvalSet) (string, error) {
	data := make([]*DMatrix, len(sets))
	names := make([]string, len(sets))
	for i, s := range sets {
		data[i] = s.Data
		names[i] = s.Name
	}
	handles, release, err := pinMatrices("eval set", data...)
	if err != nil {
		return "", err
	}
	defer release()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", errors.WithStack(errors.ErrHandleClosed)
	}
	out, err := b.lib.XGBoosterEvalOneIter(b.handle, iter, handles, names)
	if err != nil {
		return "", errors.Wrapf(err, "eval iteration %d", iter)
	}
	return out, nil
}

// PredictOption configures Predict.
type PredictOption func(*predictConfig)

type predictConfig struct {
	outputMargin bool
	treeLimit    uint
}

// WithOutputMargin returns raw margins instead of transformed predictions.
func WithOutputMargin() PredictOption {
	return func(c *predictConfig) { c.outputMargin = true }
}

// WithTreeLimit limits prediction to the first n boosting rounds. Zero uses
// all of them.
func WithTreeLimit(n uint) PredictOption {
	return func(c *predictConfig) { c.treeLimit = n }
}

// Predict returns one value per row of dmat, or rows*classes values for
// multi:softprob.
func (b *Booster) Predict(dmat *DMatrix, opts ...PredictOption) ([]float32, error) {
	var cfg predictConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	mask := 0
	if cfg.outputMargin {
		mask |= predictOutputMargin
	}

	hs, release, err := pinMatrices("predict data", dmat)
	if err != nil {
		return nil, err
	}
	defer release()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errors.WithStack(errors.ErrHandleClosed)
	}
	out, err := b.lib.XGBoosterPredict(b.handle, hs[0], mask, cfg.treeLimit)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	return out, nil
}

// PredictVec is Predict returning a gonum vector.
func (b *Booster) PredictVec(dmat *DMatrix, opts ...PredictOption) (*mat.VecDense, error) {
	out, err := b.Predict(dmat, opts...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "predict returned no values")
	}
	v := make([]float64, len(out))
	for i, f := range out {
		v[i] = float64(f)
	}
	return mat.NewVecDense(len(v), v), nil
}

// SaveRaw returns the model in the library's raw format. The buffer belongs
// to the caller.
func (b *Booster) SaveRaw() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errors.WithStack(errors.ErrHandleClosed)
	}
	raw, err := b.lib.XGBoosterGetModelRaw(b.handle)
	if err != nil {
		return nil, errors.Wrap(err, "get model raw")
	}
	return raw, nil
}

// LoadRaw replaces the model with a buffer produced by SaveRaw.
func (b *Booster) LoadRaw(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "load model raw")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.WithStack(errors.ErrHandleClosed)
	}
	if err := b.lib.XGBoosterLoadModelFromBuffer(b.handle, raw); err != nil {
		return errors.Wrap(err, "load model raw")
	}
	return nil
}

// Close frees the native booster and unpins its cache matrices. Closing twice
// is a no-op.
func (b *Booster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, d := range b.cache {
		d.release()
	}
	b.cache = nil

	if err := b.lib.XGBoosterFree(b.handle); err != nil {
		return errors.Wrap(err, "free booster")
	}
	b.logger.Debug("Booster freed", log.OperationKey, "XGBoosterFree")
	return nil
}
