package parameters

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
)

// Pair is one name/value entry of the native parameter map.
type Pair struct {
	Name  string
	Value string
}

// Pairs is an ordered parameter list. The native library applies pairs in
// order, so a later pair with the same name overrides an earlier one.
type Pairs []Pair

// AsStringPairs returns a copy of p, so a raw list can be passed wherever a
// parameter group is accepted.
func (p Pairs) AsStringPairs() Pairs {
	if p == nil {
		return nil
	}
	return append(make(Pairs, 0, len(p)), p...)
}

// String renders p as space separated name=value tokens.
func (p Pairs) String() string {
	var sb strings.Builder
	for i, pair := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(pair.Name)
		sb.WriteByte('=')
		sb.WriteString(pair.Value)
	}
	return sb.String()
}

// Map collapses p into a map; when a name repeats the last value wins.
func (p Pairs) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, pair := range p {
		m[pair.Name] = pair.Value
	}
	return m
}

// Lookup returns the value of the last pair named name.
func (p Pairs) Lookup(name string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Name == name {
			return p[i].Value, true
		}
	}
	return "", false
}

// Merge returns a new list with p followed by every list in others.
func (p Pairs) Merge(others ...Pairs) Pairs {
	n := len(p)
	for _, o := range others {
		n += len(o)
	}
	merged := make(Pairs, 0, n)
	merged = append(merged, p...)
	for _, o := range others {
		merged = append(merged, o...)
	}
	return merged
}

// Fingerprint hashes the ordered pairs. Equal lists hash equal; reordering
// changes the hash.
func (p Pairs) Fingerprint() uint64 {
	d := xxhash.New()
	for _, pair := range p {
		_, _ = d.WriteString(pair.Name)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(pair.Value)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// ParsePairs parses the output of Pairs.String. Any run of whitespace
// separates tokens; the value is everything after the first '='.
func ParsePairs(s string) (Pairs, error) {
	fields := strings.Fields(s)
	pairs := make(Pairs, 0, len(fields))
	for _, field := range fields {
		name, value, ok := strings.Cut(field, "=")
		if !ok || name == "" {
			return nil, errors.NewValidationError("pairs", "expected name=value", field)
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs, nil
}
