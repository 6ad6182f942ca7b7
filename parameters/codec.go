package parameters

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// The documents below mirror the parameter groups with exported fields so
// encoding/json and yaml.v3 can handle them. Decoding always starts from the
// defaults, so keys missing from the input keep their default value.

// jsonFloat32 is a float32 that survives JSON when it is not finite. NaN and
// the infinities are written as the strings "NaN", "+Inf" and "-Inf"; finite
// values stay plain numbers. YAML has .nan and .inf, so it needs no help.
type jsonFloat32 float32

// MarshalJSON implements json.Marshaler.
func (f jsonFloat32) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(float32(f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *jsonFloat32) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*f = jsonFloat32(v)
		return nil
	}
	var v float32
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat32(v)
	return nil
}

type linearDoc struct {
	Lambda  jsonFloat32  `json:"lambda" yaml:"lambda"`
	Alpha   jsonFloat32  `json:"alpha" yaml:"alpha"`
	Updater LinearUpdate `json:"updater" yaml:"updater"`
}

func (p LinearBoosterParameters) doc() linearDoc {
	return linearDoc{Lambda: jsonFloat32(p.lambda), Alpha: jsonFloat32(p.alpha), Updater: p.updater}
}

func (d linearDoc) params() LinearBoosterParameters {
	return LinearBoosterParameters{lambda: float32(d.Lambda), alpha: float32(d.Alpha), updater: d.Updater}
}

// MarshalJSON implements json.Marshaler.
func (p LinearBoosterParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *LinearBoosterParameters) UnmarshalJSON(data []byte) error {
	d := DefaultLinearBoosterParameters().doc()
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*p = d.params()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p LinearBoosterParameters) MarshalYAML() (interface{}, error) {
	return p.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *LinearBoosterParameters) UnmarshalYAML(value *yaml.Node) error {
	d := DefaultLinearBoosterParameters().doc()
	if err := value.Decode(&d); err != nil {
		return err
	}
	*p = d.params()
	return nil
}

type learningDoc struct {
	Objective   Objective          `json:"objective" yaml:"objective"`
	BaseScore   jsonFloat32        `json:"base_score" yaml:"base_score"`
	EvalMetrics []EvaluationMetric `json:"eval_metric,omitempty" yaml:"eval_metric,omitempty"`
	Seed        uint64             `json:"seed" yaml:"seed"`
	NumClass    int                `json:"num_class,omitempty" yaml:"num_class,omitempty"`
}

func (p LearningTaskParameters) doc() learningDoc {
	return learningDoc{
		Objective:   p.objective,
		BaseScore:   jsonFloat32(p.baseScore),
		EvalMetrics: p.EvalMetrics(),
		Seed:        p.seed,
		NumClass:    p.numClass,
	}
}

func (d learningDoc) params() LearningTaskParameters {
	return LearningTaskParameters{
		objective:   d.Objective,
		baseScore:   float32(d.BaseScore),
		evalMetrics: d.EvalMetrics,
		seed:        d.Seed,
		numClass:    d.NumClass,
	}
}

// MarshalJSON implements json.Marshaler.
func (p LearningTaskParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *LearningTaskParameters) UnmarshalJSON(data []byte) error {
	d := DefaultLearningTaskParameters().doc()
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*p = d.params()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p LearningTaskParameters) MarshalYAML() (interface{}, error) {
	return p.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *LearningTaskParameters) UnmarshalYAML(value *yaml.Node) error {
	d := DefaultLearningTaskParameters().doc()
	if err := value.Decode(&d); err != nil {
		return err
	}
	*p = d.params()
	return nil
}

// boosterDoc drops the methods of BoosterParameters so decoding into it does
// not recurse.
type boosterDoc struct {
	Linear   LinearBoosterParameters `json:"linear" yaml:"linear"`
	Learning LearningTaskParameters  `json:"learning" yaml:"learning"`
	Verbose  bool                    `json:"verbose" yaml:"verbose"`
	Threads  int                     `json:"threads,omitempty" yaml:"threads,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p BoosterParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(boosterDoc(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *BoosterParameters) UnmarshalJSON(data []byte) error {
	d := boosterDoc(DefaultBoosterParameters())
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*p = BoosterParameters(d)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p BoosterParameters) MarshalYAML() (interface{}, error) {
	return boosterDoc(p), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *BoosterParameters) UnmarshalYAML(value *yaml.Node) error {
	d := boosterDoc(DefaultBoosterParameters())
	if err := value.Decode(&d); err != nil {
		return err
	}
	*p = BoosterParameters(d)
	return nil
}
