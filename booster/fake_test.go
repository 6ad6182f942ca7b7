package booster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

type fakeMatrix struct {
	data       []float32
	nrow, ncol uint64
	info       map[string][]float32
}

type fakeBooster struct {
	cache  []Handle
	params [][2]string
	model  []byte
	rounds int
}

// fakeLibrary records every call and keeps just enough state to answer them.
type fakeLibrary struct {
	mu       sync.Mutex
	next     Handle
	matrices map[Handle]*fakeMatrix
	boosters map[Handle]*fakeBooster
	calls    []string
	lastErr  string

	rejectParam string // XGBoosterSetParam fails for this name
	failUpdate  int    // XGBoosterUpdateOneIter fails at this iteration when >= 0

	// block, when set, runs at the start of UpdateOneIter, EvalOneIter and
	// Predict before the library lock is taken.
	block func(op string)
}

func (f *fakeLibrary) enter(op string) {
	if f.block != nil {
		f.block(op)
	}
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		matrices:   make(map[Handle]*fakeMatrix),
		boosters:   make(map[Handle]*fakeBooster),
		failUpdate: -1,
	}
}

func (f *fakeLibrary) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeLibrary) fail(op, msg string) error {
	f.lastErr = msg
	return errors.NewNativeError(op, msg)
}

func (f *fakeLibrary) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeLibrary) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.callLog() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeLibrary) liveMatrices() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matrices)
}

func (f *fakeLibrary) liveBoosters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.boosters)
}

func (f *fakeLibrary) XGBGetLastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *fakeLibrary) XGDMatrixCreateFromMat(data []float32, nrow, ncol uint64, missing float32) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGDMatrixCreateFromMat %dx%d", nrow, ncol)
	f.next++
	f.matrices[f.next] = &fakeMatrix{
		data: append([]float32(nil), data...),
		nrow: nrow,
		ncol: ncol,
		info: make(map[string][]float32),
	}
	return f.next, nil
}

func (f *fakeLibrary) XGDMatrixSetFloatInfo(h Handle, field string, values []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGDMatrixSetFloatInfo %s %d", field, len(values))
	m, ok := f.matrices[h]
	if !ok {
		return f.fail("XGDMatrixSetFloatInfo", "invalid handle")
	}
	m.info[field] = append([]float32(nil), values...)
	return nil
}

func (f *fakeLibrary) XGDMatrixNumRow(h Handle) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matrices[h]
	if !ok {
		return 0, f.fail("XGDMatrixNumRow", "invalid handle")
	}
	return m.nrow, nil
}

func (f *fakeLibrary) XGDMatrixNumCol(h Handle) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matrices[h]
	if !ok {
		return 0, f.fail("XGDMatrixNumCol", "invalid handle")
	}
	return m.ncol, nil
}

func (f *fakeLibrary) XGDMatrixFree(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGDMatrixFree %d", h)
	if _, ok := f.matrices[h]; !ok {
		return f.fail("XGDMatrixFree", "double free")
	}
	delete(f.matrices, h)
	return nil
}

func (f *fakeLibrary) XGBoosterCreate(dmats []Handle) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterCreate %d", len(dmats))
	for _, h := range dmats {
		if _, ok := f.matrices[h]; !ok {
			return 0, f.fail("XGBoosterCreate", "invalid dmatrix")
		}
	}
	f.next++
	f.boosters[f.next] = &fakeBooster{cache: append([]Handle(nil), dmats...)}
	return f.next, nil
}

func (f *fakeLibrary) XGBoosterSetParam(h Handle, name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterSetParam %s=%s", name, value)
	b, ok := f.boosters[h]
	if !ok {
		return f.fail("XGBoosterSetParam", "invalid booster")
	}
	if name == f.rejectParam {
		return f.fail("XGBoosterSetParam", "Unknown parameter "+name)
	}
	b.params = append(b.params, [2]string{name, value})
	return nil
}

func (f *fakeLibrary) XGBoosterUpdateOneIter(h Handle, iter int, dtrain Handle) error {
	f.enter("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterUpdateOneIter %d", iter)
	b, ok := f.boosters[h]
	if !ok {
		return f.fail("XGBoosterUpdateOneIter", "invalid booster")
	}
	if _, ok := f.matrices[dtrain]; !ok {
		return f.fail("XGBoosterUpdateOneIter", "invalid dmatrix")
	}
	if iter == f.failUpdate {
		return f.fail("XGBoosterUpdateOneIter", "update failed")
	}
	b.rounds++
	return nil
}

func (f *fakeLibrary) XGBoosterEvalOneIter(h Handle, iter int, dmats []Handle, names []string) (string, error) {
	f.enter("eval")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterEvalOneIter %d %s", iter, strings.Join(names, ","))
	if _, ok := f.boosters[h]; !ok {
		return "", f.fail("XGBoosterEvalOneIter", "invalid booster")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d]", iter)
	for _, n := range names {
		fmt.Fprintf(&sb, "\t%s-rmse:%g", n, 1/float64(iter+1))
	}
	return sb.String(), nil
}

func (f *fakeLibrary) XGBoosterPredict(h Handle, dmat Handle, optionMask int, ntreeLimit uint) ([]float32, error) {
	f.enter("predict")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterPredict mask=%d limit=%d", optionMask, ntreeLimit)
	b, ok := f.boosters[h]
	if !ok {
		return nil, f.fail("XGBoosterPredict", "invalid booster")
	}
	m, ok := f.matrices[dmat]
	if !ok {
		return nil, f.fail("XGBoosterPredict", "invalid dmatrix")
	}
	// Row sums scaled by the number of rounds stand in for a model.
	out := make([]float32, m.nrow)
	for i := range out {
		var sum float32
		for j := uint64(0); j < m.ncol; j++ {
			sum += m.data[uint64(i)*m.ncol+j]
		}
		out[i] = sum * float32(b.rounds)
	}
	return out, nil
}

func (f *fakeLibrary) XGBoosterGetModelRaw(h Handle) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterGetModelRaw")
	b, ok := f.boosters[h]
	if !ok {
		return nil, f.fail("XGBoosterGetModelRaw", "invalid booster")
	}
	if b.model != nil {
		return append([]byte(nil), b.model...), nil
	}
	return []byte(fmt.Sprintf("model rounds=%d params=%v", b.rounds, b.params)), nil
}

func (f *fakeLibrary) XGBoosterLoadModelFromBuffer(h Handle, buf []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterLoadModelFromBuffer %d", len(buf))
	b, ok := f.boosters[h]
	if !ok {
		return f.fail("XGBoosterLoadModelFromBuffer", "invalid booster")
	}
	b.model = append([]byte(nil), buf...)
	return nil
}

func (f *fakeLibrary) XGBoosterFree(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("XGBoosterFree %d", h)
	if _, ok := f.boosters[h]; !ok {
		return f.fail("XGBoosterFree", "double free")
	}
	delete(f.boosters, h)
	return nil
}
