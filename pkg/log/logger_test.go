package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

func TestTestLoggerCapturesLevelsAndFields(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("forwarding parameter", ParamNameKey, "lambda", ParamValueKey, "0")
	logger.Info("booster created", CacheSizeKey, 2)
	logger.Warn("negative penalty", ParamNameKey, "alpha")
	logger.Error("XGBoosterSetParam failed", fmt.Errorf("bad value"), ParamNameKey, "updater")

	require.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("forwarding parameter"))
	assert.True(t, logger.ContainsMessage("booster created"))
	assert.True(t, logger.ContainsField(CacheSizeKey, 2.0))
	assert.True(t, logger.ContainsField(ErrAttrKey, "bad value"))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "ERROR", entries[3]["level"])
}

func TestTestLoggerWithSharesBuffer(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	child := logger.With(ComponentKey, "booster", BoosterIDKey, "b-1")
	child.Info("round finished", IterationKey, 3)

	assert.True(t, logger.ContainsField(ComponentKey, "booster"))
	assert.True(t, logger.ContainsField(BoosterIDKey, "b-1"))
	assert.True(t, logger.ContainsField(IterationKey, 3.0))
}

func TestTestLoggerEnabled(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelError))
	assert.False(t, logger.Enabled(ctx, LevelDebug))

	logger.Debug("hidden")
	logger.Info("shown")
	assert.False(t, logger.ContainsMessage("hidden"))
	assert.True(t, logger.ContainsMessage("shown"))

	logger.Clear()
	assert.False(t, logger.ContainsMessage("shown"))
}

func TestProviderRegistry(t *testing.T) {
	provider, logger := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	t.Cleanup(ResetProvider)

	GetLogger().Info("default logger")
	GetLoggerWithName("dmatrix").Info("named logger")

	assert.True(t, logger.ContainsMessage("default logger"))
	assert.True(t, logger.ContainsField(ComponentKey, "dmatrix"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestToLogLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error"} {
		_, err := ToLogLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ToLogLevel("verbose")
	assert.Error(t, err)
}

func TestSlogLoggerWritesStacktrace(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "info"))

	logger := GetLoggerWithName("booster")
	logger.Debug("not emitted")
	logger.Error("update failed", cerrors.New("native failure"), IterationKey, 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "update failed", entry["message"])
	assert.Equal(t, "booster", entry[ComponentKey])
	assert.Equal(t, 7.0, entry[IterationKey])
	assert.Equal(t, "native failure", entry[ErrAttrKey])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelInfo)
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	logger := provider.GetLoggerWithName("booster").With(BoosterIDKey, "b-2")
	logger.Debug("not emitted")
	logger.Info("snapshot written", SnapshotBytesKey, 128)

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))

	out := buf.String()
	assert.NotContains(t, out, "not emitted")
	assert.Contains(t, out, `"component":"booster"`)
	assert.Contains(t, out, `"booster.id":"b-2"`)
	assert.Contains(t, out, `"snapshot.bytes":128`)
}

func TestZerologProviderSetLevelConcurrently(t *testing.T) {
	provider := NewZerologProvider(io.Discard, LevelInfo)
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				provider.SetLevel(LevelDebug)
			} else {
				provider.SetLevel(LevelError)
			}
		}(i)
		go func() {
			defer wg.Done()
			provider.GetLoggerWithName("train").Info("round finished")
			_ = provider.GetLogger()
		}()
	}
	wg.Wait()

	provider.SetLevel(LevelError)
	logger := provider.GetLogger()
	assert.False(t, logger.Enabled(context.Background(), LevelWarn))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}
