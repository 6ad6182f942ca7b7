package booster

import (
	"github.com/YuminosukeSato/goxgb/parameters"
)

// Handle identifies a native object owned by a Library. The zero Handle is
// never returned for a live object.
type Handle uint64

// Library is the subset of the XGBoost C API used by this package. Method
// names follow the C functions they wrap. Implementations report a non-zero
// C return code as an error carrying XGBGetLastError, and copy every buffer
// they return into Go memory.
type Library interface {
	XGBGetLastError() string

	XGDMatrixCreateFromMat(data []float32, nrow, ncol uint64, missing float32) (Handle, error)
	XGDMatrixSetFloatInfo(h Handle, field string, values []float32) error
	XGDMatrixNumRow(h Handle) (uint64, error)
	XGDMatrixNumCol(h Handle) (uint64, error)
	XGDMatrixFree(h Handle) error

	XGBoosterCreate(dmats []Handle) (Handle, error)
	XGBoosterSetParam(h Handle, name, value string) error
	XGBoosterUpdateOneIter(h Handle, iter int, dtrain Handle) error
	XGBoosterEvalOneIter(h Handle, iter int, dmats []Handle, names []string) (string, error)
	XGBoosterPredict(h Handle, dmat Handle, optionMask int, ntreeLimit uint) ([]float32, error)
	XGBoosterGetModelRaw(h Handle) ([]byte, error)
	XGBoosterLoadModelFromBuffer(h Handle, buf []byte) error
	XGBoosterFree(h Handle) error
}

// Parameterizer is anything that renders itself as ordered parameter pairs.
// parameters.LinearBoosterParameters, parameters.BoosterParameters and
// parameters.Pairs all satisfy it.
type Parameterizer interface {
	AsStringPairs() parameters.Pairs
}

// Prediction option mask bits of XGBoosterPredict.
const (
	predictOutputMargin = 1
)
