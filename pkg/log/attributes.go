// Package log defines standard attribute keys for booster operations.
//
// Keys follow a hierarchical naming convention ("booster.id", "params.name")
// so log pipelines can filter on a prefix.

package log

// Component and operation context.
const (
	// ComponentKey identifies the package or subsystem emitting the record.
	// Examples: "booster", "dmatrix", "xgbparams"
	ComponentKey = "component"

	// OperationKey names the native operation being performed.
	// Examples: "XGBoosterCreate", "XGBoosterSetParam"
	OperationKey = "operation"

	// BoosterIDKey is the uuid assigned to a Booster when it is created.
	BoosterIDKey = "booster.id"
)

// Data shape.
const (
	// RowsKey is the number of rows of a DMatrix.
	RowsKey = "data.rows"

	// ColsKey is the number of columns (features) of a DMatrix.
	ColsKey = "data.cols"

	// CacheSizeKey is the number of matrices cached by a booster.
	CacheSizeKey = "data.cache_size"
)

// Parameters.
const (
	// ParamNameKey is the name of a single parameter pair.
	ParamNameKey = "params.name"

	// ParamValueKey is the value of a single parameter pair.
	ParamValueKey = "params.value"

	// ParamCountKey is the number of pairs forwarded to the library.
	ParamCountKey = "params.count"

	// FingerprintKey is the xxhash fingerprint of an ordered parameter set.
	FingerprintKey = "params.fingerprint"

	// BoosterTypeKey is the value of the "booster" parameter, e.g. "gblinear".
	BoosterTypeKey = "params.booster"
)

// Training progress.
const (
	// RoundsKey is the requested number of boosting rounds.
	RoundsKey = "training.rounds"

	// IterationKey is the current boosting round.
	IterationKey = "training.iteration"

	// EvalKey is the raw evaluation string returned by the library.
	EvalKey = "training.eval"

	// DurationMsKey is the wall time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// SnapshotBytesKey is the size of a raw model buffer.
	SnapshotBytesKey = "snapshot.bytes"
)
