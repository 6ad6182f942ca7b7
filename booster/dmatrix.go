package booster

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

// Field names accepted by XGDMatrixSetFloatInfo.
const (
	fieldLabel  = "label"
	fieldWeight = "weight"
)

// DMatrix is a dense matrix copied into the native library.
type DMatrix struct {
	lib  Library
	nrow int
	ncol int

	mu     sync.Mutex
	handle Handle
	closed bool
	refs   int // open boosters caching this matrix
}

// NewDMatrix copies a row-major nrow x ncol matrix into the library. Entries
// equal to missing are treated as absent; pass NaN when no sentinel is used.
func NewDMatrix(lib Library, data []float32, nrow, ncol int, missing float32) (*DMatrix, error) {
	if nrow <= 0 || ncol <= 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "NewDMatrix: shape %dx%d", nrow, ncol)
	}
	if len(data) != nrow*ncol {
		return nil, errors.NewDimensionError("NewDMatrix", nrow*ncol, len(data), 0)
	}

	h, err := lib.XGDMatrixCreateFromMat(data, uint64(nrow), uint64(ncol), missing)
	if err != nil {
		return nil, errors.Wrap(err, "create dmatrix")
	}

	log.GetLoggerWithName("dmatrix").Debug("DMatrix created",
		log.OperationKey, "XGDMatrixCreateFromMat",
		log.RowsKey, nrow,
		log.ColsKey, ncol,
	)
	return &DMatrix{lib: lib, nrow: nrow, ncol: ncol, handle: h}, nil
}

// NewDMatrixFromMatrix flattens m row by row into float32 and copies it into
// the library. NaN entries of m are treated as missing.
func NewDMatrixFromMatrix(lib Library, m mat.Matrix) (*DMatrix, error) {
	r, c := m.Dims()
	data := make([]float32, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, float32(m.At(i, j)))
		}
	}
	return NewDMatrix(lib, data, r, c, float32(math.NaN()))
}

// Rows returns the row count the matrix was created with.
func (d *DMatrix) Rows() int { return d.nrow }

// Cols returns the column count the matrix was created with.
func (d *DMatrix) Cols() int { return d.ncol }

// NumRow asks the library for the number of rows.
func (d *DMatrix) NumRow() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, errors.WithStack(errors.ErrHandleClosed)
	}
	n, err := d.lib.XGDMatrixNumRow(d.handle)
	if err != nil {
		return 0, errors.Wrap(err, "dmatrix num row")
	}
	return int(n), nil
}

// NumCol asks the library for the number of columns.
func (d *DMatrix) NumCol() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, errors.WithStack(errors.ErrHandleClosed)
	}
	n, err := d.lib.XGDMatrixNumCol(d.handle)
	if err != nil {
		return 0, errors.Wrap(err, "dmatrix num col")
	}
	return int(n), nil
}

// SetLabels sets one label per row.
func (d *DMatrix) SetLabels(labels []float32) error {
	return d.setFloatInfo("SetLabels", fieldLabel, labels)
}

// SetWeights sets one instance weight per row.
func (d *DMatrix) SetWeights(weights []float32) error {
	return d.setFloatInfo("SetWeights", fieldWeight, weights)
}

func (d *DMatrix) setFloatInfo(op, field string, values []float32) error {
	if len(values) != d.nrow {
		return errors.NewDimensionError(op, d.nrow, len(values), 0)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.WithStack(errors.ErrHandleClosed)
	}
	if err := d.lib.XGDMatrixSetFloatInfo(d.handle, field, values); err != nil {
		return errors.Wrapf(err, "set dmatrix %s", field)
	}
	return nil
}

// Close frees the native matrix. It fails with errors.ErrHandleInUse while a
// Booster caching the matrix is open. Closing twice is a no-op.
func (d *DMatrix) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	if d.refs > 0 {
		return errors.Wrapf(errors.ErrHandleInUse, "dmatrix cached by %d booster(s)", d.refs)
	}

	d.closed = true
	if err := d.lib.XGDMatrixFree(d.handle); err != nil {
		return errors.Wrap(err, "free dmatrix")
	}
	return nil
}

// retain pins the matrix and returns its handle. A pinned matrix cannot be
// closed; every retain must be paired with a release.
func (d *DMatrix) retain() (Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, errors.WithStack(errors.ErrHandleClosed)
	}
	d.refs++
	return d.handle, nil
}

func (d *DMatrix) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs > 0 {
		d.refs--
	}
}

// pinMatrices retains every matrix in ds. On success the returned func
// releases them; on failure nothing stays pinned. A nil matrix fails with a
// ValidationError naming what.
func pinMatrices(what string, ds ...*DMatrix) ([]Handle, func(), error) {
	handles := make([]Handle, 0, len(ds))
	pinned := make([]*DMatrix, 0, len(ds))
	releaseAll := func() {
		for _, d := range pinned {
			d.release()
		}
	}

	for _, d := range ds {
		if d == nil {
			releaseAll()
			return nil, nil, errors.NewValidationError(what, "matrix must not be nil", nil)
		}
		h, err := d.retain()
		if err != nil {
			releaseAll()
			return nil, nil, errors.Wrap(err, what)
		}
		handles = append(handles, h)
		pinned = append(pinned, d)
	}
	return handles, releaseAll, nil
}
