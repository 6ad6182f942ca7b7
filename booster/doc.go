// Package booster drives the native XGBoost library through its C API.
//
// The package owns native handles and nothing else: it never implements an
// updater, a loss or a model format. Parameter values come from the
// parameters package as ordered name/value pairs and are forwarded verbatim
// through XGBoosterSetParam.
//
// Two handle types are exposed:
//
//	DMatrix  training or prediction data copied into the library
//	Booster  a model being trained, evaluated or used for prediction
//
// Both are safe for concurrent use. Close is idempotent and every call made
// after Close fails with errors.ErrHandleClosed without reaching the library.
// A DMatrix cached by an open Booster cannot be closed until the Booster is.
//
// The native library is reached through the Library interface. The cgo
// implementation returned by NewCLibrary is only compiled with the xgboost
// build tag:
//
//	go build -tags xgboost ./...
package booster
