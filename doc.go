// Package goxgb provides typed XGBoost linear booster parameters for Go and
// a thin, handle-owning binding to the native library.
//
// goxgb does not train anything itself. It builds the ordered name/value
// pairs that XGBoost's XGBoosterSetParam expects, and forwards them to the
// C library together with the training data.
//
// # Installation
//
//	go get github.com/YuminosukeSato/goxgb
//
// The native binding needs libxgboost and is compiled with a build tag:
//
//	go build -tags xgboost ./...
//
// # Quick Start
//
// Building the parameters of a linear booster:
//
//	params, err := parameters.NewLinearBoosterParametersBuilder().
//	    Lambda(1.0).
//	    Updater(parameters.CoordDescent).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(params.AsStringPairs())
//	// booster=gblinear lambda=1 alpha=0 updater=coord_descent
//
// Training with the native library:
//
//	lib := booster.NewCLibrary()
//	dtrain, _ := booster.NewDMatrixFromMatrix(lib, X)
//	defer dtrain.Close()
//	_ = dtrain.SetLabels(y)
//
//	bst, err := booster.Train(ctx, lib, params, dtrain, 50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bst.Close()
//
// # Packages
//
//   - parameters: linear, learning task and general parameters, and their pairs
//   - booster: DMatrix and Booster handles over the C API, Train
//   - internal/config: YAML, TOML, JSON and environment configuration
//   - pkg/errors: structured errors and warnings
//   - pkg/log: structured logging
//   - cmd/xgbparams: prints the parameter pairs for a configuration
//
// # License
//
// goxgb is released under the MIT License.
package goxgb
