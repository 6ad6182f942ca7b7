// Package config loads booster parameters from files and the environment.
//
// Every source decodes into File, whose fields are pointers: a nil field means
// the source did not mention it, so sources can be layered with Merge and the
// result applied on top of the parameter defaults.
package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/goxgb/parameters"
	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "XGB"

// File is the flat, source-agnostic form of parameters.BoosterParameters.
// Keys use the native parameter names.
type File struct {
	Lambda      *float32 `yaml:"lambda,omitempty" toml:"lambda,omitempty" json:"lambda,omitempty" envconfig:"LAMBDA"`
	Alpha       *float32 `yaml:"alpha,omitempty" toml:"alpha,omitempty" json:"alpha,omitempty" envconfig:"ALPHA"`
	Updater     *string  `yaml:"updater,omitempty" toml:"updater,omitempty" json:"updater,omitempty" envconfig:"UPDATER"`
	Objective   *string  `yaml:"objective,omitempty" toml:"objective,omitempty" json:"objective,omitempty" envconfig:"OBJECTIVE"`
	BaseScore   *float32 `yaml:"base_score,omitempty" toml:"base_score,omitempty" json:"base_score,omitempty" envconfig:"BASE_SCORE"`
	EvalMetrics []string `yaml:"eval_metric,omitempty" toml:"eval_metric,omitempty" json:"eval_metric,omitempty" envconfig:"EVAL_METRIC"`
	Seed        *uint64  `yaml:"seed,omitempty" toml:"seed,omitempty" json:"seed,omitempty" envconfig:"SEED"`
	NumClass    *int     `yaml:"num_class,omitempty" toml:"num_class,omitempty" json:"num_class,omitempty" envconfig:"NUM_CLASS"`
	Verbose     *bool    `yaml:"verbose,omitempty" toml:"verbose,omitempty" json:"verbose,omitempty" envconfig:"VERBOSE"`
	Threads     *int     `yaml:"nthread,omitempty" toml:"nthread,omitempty" json:"nthread,omitempty" envconfig:"NTHREAD"`
}

// Load reads a YAML, TOML or JSON file chosen by extension. Environment
// variables referenced as ${VAR} or $VAR are expanded before parsing.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return File{}, errors.Wrap(err, "config: load")
	}
	expanded := os.ExpandEnv(string(data))

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(expanded), &f)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(expanded, &f)
		if err == nil {
			for _, key := range md.Undecoded() {
				log.GetLoggerWithName("config").Warn("Unknown config key ignored",
					log.ParamNameKey, key.String())
			}
		}
	case ".json":
		err = json.Unmarshal([]byte(expanded), &f)
	default:
		return File{}, errors.NewValidationError("config", "unsupported file extension", ext)
	}
	if err != nil {
		return File{}, errors.Wrapf(err, "config: parse %s", path)
	}
	return f, nil
}

// FromParams returns the File that reproduces p when applied to the defaults.
// Every field is set except EvalMetrics when p has none.
func FromParams(p parameters.BoosterParameters) File {
	lambda, alpha := p.Linear.Lambda(), p.Linear.Alpha()
	updater := p.Linear.Updater().String()
	objective := p.Learning.Objective().String()
	baseScore := p.Learning.BaseScore()
	seed := p.Learning.Seed()
	numClass := p.Learning.NumClass()
	verbose, threads := p.Verbose, p.Threads

	f := File{
		Lambda:    &lambda,
		Alpha:     &alpha,
		Updater:   &updater,
		Objective: &objective,
		BaseScore: &baseScore,
		Seed:      &seed,
		NumClass:  &numClass,
		Verbose:   &verbose,
		Threads:   &threads,
	}
	for _, m := range p.Learning.EvalMetrics() {
		f.EvalMetrics = append(f.EvalMetrics, string(m))
	}
	return f
}

// Save writes f to path in the format chosen by its extension, so that Load
// reads back the same File.
func Save(path string, f File) error {
	out, err := os.Create(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return errors.Wrap(err, "config: save")
	}
	if err := Encode(out, f, filepath.Ext(path)); err != nil {
		_ = out.Close()
		return err
	}
	return errors.Wrap(out.Close(), "config: save")
}

// Encode writes f to w as YAML, TOML or JSON, chosen by a file extension
// such as ".toml". Unset fields are omitted.
func Encode(w io.Writer, f File, ext string) error {
	var err error
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		if err = enc.Encode(f); err == nil {
			err = enc.Close()
		}
	case ".toml":
		err = toml.NewEncoder(w).Encode(f)
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(f)
	default:
		return errors.NewValidationError("config", "unsupported file extension", ext)
	}
	return errors.Wrapf(err, "config: encode %s", ext)
}

// FromEnv reads XGB_LAMBDA, XGB_ALPHA, XGB_UPDATER, XGB_OBJECTIVE,
// XGB_BASE_SCORE, XGB_EVAL_METRIC (comma separated), XGB_SEED,
// XGB_NUM_CLASS, XGB_VERBOSE and XGB_NTHREAD. Unset variables stay nil.
func FromEnv() (File, error) {
	var f File
	if err := envconfig.Process(EnvPrefix, &f); err != nil {
		return File{}, errors.Wrap(err, "config: environment")
	}
	return f, nil
}

// Merge returns f with every field set in over replacing the one in f.
func (f File) Merge(over File) File {
	if over.Lambda != nil {
		f.Lambda = over.Lambda
	}
	if over.Alpha != nil {
		f.Alpha = over.Alpha
	}
	if over.Updater != nil {
		f.Updater = over.Updater
	}
	if over.Objective != nil {
		f.Objective = over.Objective
	}
	if over.BaseScore != nil {
		f.BaseScore = over.BaseScore
	}
	if over.EvalMetrics != nil {
		f.EvalMetrics = append([]string(nil), over.EvalMetrics...)
	}
	if over.Seed != nil {
		f.Seed = over.Seed
	}
	if over.NumClass != nil {
		f.NumClass = over.NumClass
	}
	if over.Verbose != nil {
		f.Verbose = over.Verbose
	}
	if over.Threads != nil {
		f.Threads = over.Threads
	}
	return f
}

// Apply returns base with the fields set in f replaced. Enum names are parsed
// here, so an unknown updater, objective or metric fails with a
// ValidationError.
func (f File) Apply(base parameters.BoosterParameters) (parameters.BoosterParameters, error) {
	linear := []parameters.LinearOption{
		parameters.WithLambda(base.Linear.Lambda()),
		parameters.WithAlpha(base.Linear.Alpha()),
		parameters.WithUpdater(base.Linear.Updater()),
	}
	if f.Lambda != nil {
		linear = append(linear, parameters.WithLambda(*f.Lambda))
	}
	if f.Alpha != nil {
		linear = append(linear, parameters.WithAlpha(*f.Alpha))
	}
	if f.Updater != nil {
		u, err := parameters.ParseLinearUpdate(*f.Updater)
		if err != nil {
			return base, err
		}
		linear = append(linear, parameters.WithUpdater(u))
	}

	learning := []parameters.LearningOption{
		parameters.WithObjective(base.Learning.Objective()),
		parameters.WithBaseScore(base.Learning.BaseScore()),
		parameters.WithEvalMetrics(base.Learning.EvalMetrics()...),
		parameters.WithSeed(base.Learning.Seed()),
		parameters.WithNumClass(base.Learning.NumClass()),
	}
	if f.Objective != nil {
		o, err := parameters.ParseObjective(*f.Objective)
		if err != nil {
			return base, err
		}
		learning = append(learning, parameters.WithObjective(o))
	}
	if f.BaseScore != nil {
		learning = append(learning, parameters.WithBaseScore(*f.BaseScore))
	}
	if f.EvalMetrics != nil {
		metrics := make([]parameters.EvaluationMetric, 0, len(f.EvalMetrics))
		for _, name := range f.EvalMetrics {
			m, err := parameters.ParseEvaluationMetric(strings.TrimSpace(name))
			if err != nil {
				return base, err
			}
			metrics = append(metrics, m)
		}
		learning = append(learning, parameters.WithEvalMetrics(metrics...))
	}
	if f.Seed != nil {
		learning = append(learning, parameters.WithSeed(*f.Seed))
	}
	if f.NumClass != nil {
		learning = append(learning, parameters.WithNumClass(*f.NumClass))
	}

	out := parameters.BoosterParameters{
		Linear:   parameters.NewLinearBoosterParameters(linear...),
		Learning: parameters.NewLearningTaskParameters(learning...),
		Verbose:  base.Verbose,
		Threads:  base.Threads,
	}
	if f.Verbose != nil {
		out.Verbose = *f.Verbose
	}
	if f.Threads != nil {
		out.Threads = *f.Threads
	}
	return out, nil
}

// Params applies f to the defaults.
func (f File) Params() (parameters.BoosterParameters, error) {
	return f.Apply(parameters.DefaultBoosterParameters())
}
