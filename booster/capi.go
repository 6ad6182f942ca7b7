//go:build xgboost

package booster

/*
#cgo LDFLAGS: -lxgboost
#cgo CFLAGS: -I/usr/local/include

#include <stdlib.h>
#include <xgboost/c_api.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

// cLibrary calls libxgboost through cgo. Native pointers never leave this
// file; callers only see registry Handles.
type cLibrary struct {
	mu      sync.Mutex
	next    Handle
	objects map[Handle]unsafe.Pointer
}

// NewCLibrary returns the Library backed by the linked libxgboost.
func NewCLibrary() Library {
	return &cLibrary{objects: make(map[Handle]unsafe.Pointer)}
}

func (l *cLibrary) register(p unsafe.Pointer) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.objects[l.next] = p
	return l.next
}

func (l *cLibrary) lookup(op string, h Handle) (unsafe.Pointer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.objects[h]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHandleClosed, "%s: unknown handle %d", op, h)
	}
	return p, nil
}

func (l *cLibrary) forget(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.objects, h)
}

func (l *cLibrary) check(op string, ret C.int) error {
	if ret != 0 {
		return errors.NewNativeError(op, l.XGBGetLastError())
	}
	return nil
}

func (l *cLibrary) XGBGetLastError() string {
	return C.GoString(C.XGBGetLastError())
}

func (l *cLibrary) XGDMatrixCreateFromMat(data []float32, nrow, ncol uint64, missing float32) (Handle, error) {
	if len(data) == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	var out C.DMatrixHandle
	ret := C.XGDMatrixCreateFromMat(
		(*C.float)(unsafe.Pointer(&data[0])),
		C.bst_ulong(nrow),
		C.bst_ulong(ncol),
		C.float(missing),
		&out,
	)
	if err := l.check("XGDMatrixCreateFromMat", ret); err != nil {
		return 0, err
	}
	return l.register(unsafe.Pointer(out)), nil
}

func (l *cLibrary) XGDMatrixSetFloatInfo(h Handle, field string, values []float32) error {
	p, err := l.lookup("XGDMatrixSetFloatInfo", h)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	cField := C.CString(field)
	defer C.free(unsafe.Pointer(cField))

	ret := C.XGDMatrixSetFloatInfo(
		C.DMatrixHandle(p),
		cField,
		(*C.float)(unsafe.Pointer(&values[0])),
		C.bst_ulong(len(values)),
	)
	return l.check("XGDMatrixSetFloatInfo", ret)
}

func (l *cLibrary) XGDMatrixNumRow(h Handle) (uint64, error) {
	p, err := l.lookup("XGDMatrixNumRow", h)
	if err != nil {
		return 0, err
	}
	var out C.bst_ulong
	if err := l.check("XGDMatrixNumRow", C.XGDMatrixNumRow(C.DMatrixHandle(p), &out)); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

func (l *cLibrary) XGDMatrixNumCol(h Handle) (uint64, error) {
	p, err := l.lookup("XGDMatrixNumCol", h)
	if err != nil {
		return 0, err
	}
	var out C.bst_ulong
	if err := l.check("XGDMatrixNumCol", C.XGDMatrixNumCol(C.DMatrixHandle(p), &out)); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

func (l *cLibrary) XGDMatrixFree(h Handle) error {
	p, err := l.lookup("XGDMatrixFree", h)
	if err != nil {
		return err
	}
	l.forget(h)
	return l.check("XGDMatrixFree", C.XGDMatrixFree(C.DMatrixHandle(p)))
}

func (l *cLibrary) dmatrixArray(op string, hs []Handle) ([]C.DMatrixHandle, error) {
	out := make([]C.DMatrixHandle, len(hs))
	for i, h := range hs {
		p, err := l.lookup(op, h)
		if err != nil {
			return nil, err
		}
		out[i] = C.DMatrixHandle(p)
	}
	return out, nil
}

func (l *cLibrary) XGBoosterCreate(dmats []Handle) (Handle, error) {
	arr, err := l.dmatrixArray("XGBoosterCreate", dmats)
	if err != nil {
		return 0, err
	}
	var first *C.DMatrixHandle
	if len(arr) > 0 {
		first = &arr[0]
	}
	var out C.BoosterHandle
	ret := C.XGBoosterCreate(first, C.bst_ulong(len(arr)), &out)
	if err := l.check("XGBoosterCreate", ret); err != nil {
		return 0, err
	}
	return l.register(unsafe.Pointer(out)), nil
}

func (l *cLibrary) XGBoosterSetParam(h Handle, name, value string) error {
	p, err := l.lookup("XGBoosterSetParam", h)
	if err != nil {
		return err
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))

	return l.check("XGBoosterSetParam", C.XGBoosterSetParam(C.BoosterHandle(p), cName, cValue))
}

func (l *cLibrary) XGBoosterUpdateOneIter(h Handle, iter int, dtrain Handle) error {
	p, err := l.lookup("XGBoosterUpdateOneIter", h)
	if err != nil {
		return err
	}
	d, err := l.lookup("XGBoosterUpdateOneIter", dtrain)
	if err != nil {
		return err
	}
	ret := C.XGBoosterUpdateOneIter(C.BoosterHandle(p), C.int(iter), C.DMatrixHandle(d))
	return l.check("XGBoosterUpdateOneIter", ret)
}

func (l *cLibrary) XGBoosterEvalOneIter(h Handle, iter int, dmats []Handle, names []string) (string, error) {
	p, err := l.lookup("XGBoosterEvalOneIter", h)
	if err != nil {
		return "", err
	}
	if len(dmats) == 0 || len(dmats) != len(names) {
		return "", errors.NewDimensionError("XGBoosterEvalOneIter", len(dmats), len(names), 0)
	}
	arr, err := l.dmatrixArray("XGBoosterEvalOneIter", dmats)
	if err != nil {
		return "", err
	}

	cNames := make([]*C.char, len(names))
	for i, n := range names {
		cNames[i] = C.CString(n)
	}
	defer func() {
		for _, s := range cNames {
			C.free(unsafe.Pointer(s))
		}
	}()

	var out *C.char
	ret := C.XGBoosterEvalOneIter(
		C.BoosterHandle(p),
		C.int(iter),
		&arr[0],
		&cNames[0],
		C.bst_ulong(len(arr)),
		&out,
	)
	if err := l.check("XGBoosterEvalOneIter", ret); err != nil {
		return "", err
	}
	return C.GoString(out), nil
}

func (l *cLibrary) XGBoosterPredict(h Handle, dmat Handle, optionMask int, ntreeLimit uint) ([]float32, error) {
	p, err := l.lookup("XGBoosterPredict", h)
	if err != nil {
		return nil, err
	}
	d, err := l.lookup("XGBoosterPredict", dmat)
	if err != nil {
		return nil, err
	}

	var outLen C.bst_ulong
	var outResult *C.float
	ret := C.XGBoosterPredict(
		C.BoosterHandle(p),
		C.DMatrixHandle(d),
		C.int(optionMask),
		C.uint(ntreeLimit),
		C.int(0), // training
		&outLen,
		&outResult,
	)
	if err := l.check("XGBoosterPredict", ret); err != nil {
		return nil, err
	}

	// The result buffer is owned by the booster and reused by the next call.
	n := int(outLen)
	out := make([]float32, n)
	if n > 0 {
		copy(out, unsafe.Slice((*float32)(unsafe.Pointer(outResult)), n))
	}
	return out, nil
}

func (l *cLibrary) XGBoosterGetModelRaw(h Handle) ([]byte, error) {
	p, err := l.lookup("XGBoosterGetModelRaw", h)
	if err != nil {
		return nil, err
	}
	var outLen C.bst_ulong
	var outPtr *C.char
	ret := C.XGBoosterGetModelRaw(C.BoosterHandle(p), &outLen, &outPtr)
	if err := l.check("XGBoosterGetModelRaw", ret); err != nil {
		return nil, err
	}
	return C.GoBytes(unsafe.Pointer(outPtr), C.int(outLen)), nil
}

func (l *cLibrary) XGBoosterLoadModelFromBuffer(h Handle, buf []byte) error {
	p, err := l.lookup("XGBoosterLoadModelFromBuffer", h)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	cBuf := C.CBytes(buf)
	defer C.free(cBuf)

	ret := C.XGBoosterLoadModelFromBuffer(C.BoosterHandle(p), cBuf, C.bst_ulong(len(buf)))
	return l.check("XGBoosterLoadModelFromBuffer", ret)
}

func (l *cLibrary) XGBoosterFree(h Handle) error {
	p, err := l.lookup("XGBoosterFree", h)
	if err != nil {
		return err
	}
	l.forget(h)
	return l.check("XGBoosterFree", C.XGBoosterFree(C.BoosterHandle(p)))
}
