// Xgbparams prints the XGBoost parameter pairs for a linear booster.
//
// Sources are layered, each overriding the previous one: a .env file, XGB_*
// environment variables, the -config file, then command line flags.
//
//	xgbparams -config params.yaml -lambda 0.5 -format string
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/YuminosukeSato/goxgb/internal/config"
	"github.com/YuminosukeSato/goxgb/parameters"
	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

const (
	formatPairs  = "pairs"
	formatString = "string"
	formatJSON   = "json"
	formatTOML   = "toml"

	logFormatJSON    = "json"
	logFormatZerolog = "zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("xgbparams", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a .yaml, .yml, .toml or .json parameter file")
		envFile    = fs.String("env", ".env", "path to .env file (ignored if missing)")
		lambda     = fs.Float64("lambda", 0, "L2 regularization term on weights")
		alpha      = fs.Float64("alpha", 0, "L1 regularization term on weights")
		updater    = fs.String("updater", "", "linear updater: shotgun or coord_descent")
		objective  = fs.String("objective", "", "learning objective, e.g. reg:squarederror")
		format     = fs.String("format", formatPairs, "output format: pairs, string, json or toml")
		logLevel   = fs.String("log-level", "warn", "log level: debug, info, warn or error")
		logFormat  = fs.String("log-format", logFormatJSON, "log backend: json (slog) or zerolog")
		strict     = fs.Bool("strict", false, "fail when parameters are out of range")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := setupLogging(stderr, *logLevel, *logFormat); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("xgbparams")

	if err := loadDotEnv(*envFile); err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = cfg.Merge(fromFile)
	}
	cfg = cfg.Merge(flagOverrides(fs, *lambda, *alpha, *updater, *objective))

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		if *strict {
			return err
		}
		logger.Warn("Parameters out of range", err)
	}

	pairs := params.AsStringPairs()
	logger.Debug("Parameters resolved",
		log.ParamCountKey, len(pairs),
		log.FingerprintKey, strconv.FormatUint(pairs.Fingerprint(), 16),
	)
	return write(stdout, *format, params, pairs)
}

// setupLogging installs the log backend named by format on w.
func setupLogging(w io.Writer, level, format string) error {
	switch format {
	case logFormatJSON:
		log.ResetProvider()
		errors.SetZerologWarnFunc(nil)
		return log.SetupLoggerTo(w, level)
	case logFormatZerolog:
		lvl, err := log.ToLogLevel(level)
		if err != nil {
			return err
		}
		log.SetProvider(log.NewZerologProvider(w, log.Level(lvl)))
		return nil
	default:
		return errors.NewValidationError("log-format", "unknown log format", format)
	}
}

// loadDotEnv loads environment variables from path. A missing file is not an
// error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// flagOverrides turns the flags given on the command line into a config
// layer. Flags left at their default are not set.
func flagOverrides(fs *flag.FlagSet, lambda, alpha float64, updater, objective string) config.File {
	var f config.File
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "lambda":
			v := float32(lambda)
			f.Lambda = &v
		case "alpha":
			v := float32(alpha)
			f.Alpha = &v
		case "updater":
			f.Updater = &updater
		case "objective":
			f.Objective = &objective
		}
	})
	return f
}

func write(w io.Writer, format string, params parameters.BoosterParameters, pairs parameters.Pairs) error {
	switch format {
	case formatPairs:
		for _, p := range pairs {
			if _, err := fmt.Fprintf(w, "%s=%s\n", p.Name, p.Value); err != nil {
				return err
			}
		}
		return nil
	case formatString:
		_, err := fmt.Fprintln(w, pairs.String())
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	case formatTOML:
		return config.Encode(w, config.FromParams(params), ".toml")
	default:
		return errors.NewValidationError("format", "unknown output format", format)
	}
}
