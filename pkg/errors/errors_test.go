package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParameterError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		value   string
		err     error
		wantMsg string
	}{
		{
			name:    "with native cause",
			param:   "updater",
			value:   "bogus",
			err:     fmt.Errorf("unknown updater"),
			wantMsg: "goxgb: set parameter updater=bogus: unknown updater",
		},
		{
			name:    "without cause",
			param:   "lambda",
			value:   "-1",
			err:     nil,
			wantMsg: "goxgb: set parameter lambda=-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewParameterError(tt.param, tt.value, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			formatted := fmt.Sprintf("%+v", err)
			assert.Contains(t, formatted, "errors_test.go", "expected stack trace to reference the test file")

			var paramErr *ParameterError
			require.True(t, As(err, &paramErr))
			assert.Equal(t, tt.param, paramErr.Name)
			if tt.err != nil {
				assert.True(t, Is(err, tt.err))
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("NewDMatrix", 12, 10, 0)

	want := "goxgb: NewDMatrix: dimension mismatch on axis 0 (rows). Expected 12, got 10"
	assert.Equal(t, want, err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 12, dimErr.Expected)
}

func TestNewNativeError(t *testing.T) {
	err := NewNativeError("XGBoosterCreate", "[12:00:00] bad handle")
	assert.Equal(t, "goxgb: XGBoosterCreate: [12:00:00] bad handle", err.Error())

	empty := NewNativeError("XGDMatrixFree", "")
	assert.Equal(t, "goxgb: XGDMatrixFree: native call failed", empty.Error())

	var nativeErr *NativeError
	require.True(t, As(err, &nativeErr))
	assert.Equal(t, "XGBoosterCreate", nativeErr.Op)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("updater", "unknown linear updater", "gpu_coord_descent")
	assert.Equal(t,
		"goxgb: validation failed for parameter 'updater': unknown linear updater (got: gpu_coord_descent)",
		err.Error())

	var valErr *ValidationError
	assert.True(t, As(err, &valErr))
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrHandleClosed, "in Booster.Predict")

	assert.True(t, Is(wrapped, ErrHandleClosed))
	assert.False(t, Is(wrapped, ErrHandleInUse))
	assert.Contains(t, wrapped.Error(), "in Booster.Predict")
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: %d rows", "NewDMatrix", 0)

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, strings.HasPrefix(wrapped.Error(), "in NewDMatrix: 0 rows"))
}

func TestWarnUsesZerologWhenConfigured(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	SetZerologWarnFunc(ZerologWarnFunc(logger))
	t.Cleanup(func() { SetZerologWarnFunc(nil) })

	Warn(&ValidationError{ParamName: "alpha", Reason: "must be non-negative", Value: float32(-0.5)})

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"param_name":"alpha"`)
	assert.Contains(t, out, `"type":"ValidationError"`)
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(func() { SetWarningHandler(nil) })

	Warn(New("lambda is negative"))

	require.Len(t, got, 1)
	assert.Equal(t, "lambda is negative", got[0].Error())
}
