package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairsString(t *testing.T) {
	p := DefaultLinearBoosterParameters().AsStringPairs()
	assert.Equal(t, "booster=gblinear lambda=0 alpha=0 updater=shotgun", p.String())
	assert.Equal(t, "", Pairs{}.String())
}

func TestParsePairsRoundTrip(t *testing.T) {
	inputs := []Pairs{
		DefaultLinearBoosterParameters().AsStringPairs(),
		NewLinearBoosterParameters(WithLambda(0.25), WithUpdater(CoordDescent)).AsStringPairs(),
		DefaultBoosterParameters().AsStringPairs(),
	}

	for _, p := range inputs {
		parsed, err := ParsePairs(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParsePairs(t *testing.T) {
	t.Run("tolerates extra whitespace", func(t *testing.T) {
		p, err := ParsePairs("  booster=gblinear \n\tlambda=1  ")
		require.NoError(t, err)
		assert.Equal(t, Pairs{{"booster", "gblinear"}, {"lambda", "1"}}, p)
	})

	t.Run("value may contain equals and be empty", func(t *testing.T) {
		p, err := ParsePairs("a=b=c empty=")
		require.NoError(t, err)
		assert.Equal(t, Pairs{{"a", "b=c"}, {"empty", ""}}, p)
	})

	t.Run("rejects tokens without a name", func(t *testing.T) {
		for _, in := range []string{"booster", "=gblinear", "lambda=1 alpha"} {
			_, err := ParsePairs(in)
			assert.Error(t, err, in)
		}
	})
}

func TestPairsMapAndLookup(t *testing.T) {
	p := Pairs{
		{"eval_metric", "rmse"},
		{"lambda", "1"},
		{"eval_metric", "mae"},
	}

	assert.Equal(t, map[string]string{"eval_metric": "mae", "lambda": "1"}, p.Map())

	v, ok := p.Lookup("eval_metric")
	assert.True(t, ok)
	assert.Equal(t, "mae", v)

	_, ok = p.Lookup("alpha")
	assert.False(t, ok)
}

func TestPairsMerge(t *testing.T) {
	base := Pairs{{"booster", "gblinear"}}
	extra := Pairs{{"objective", "reg:squarederror"}}
	more := Pairs{{"nthread", "4"}}

	merged := base.Merge(extra, more)
	assert.Equal(t, Pairs{{"booster", "gblinear"}, {"objective", "reg:squarederror"}, {"nthread", "4"}}, merged)

	merged[0].Value = "gbtree"
	assert.Equal(t, "gblinear", base[0].Value, "merge must not alias its receiver")
}

func TestPairsFingerprint(t *testing.T) {
	a := DefaultLinearBoosterParameters().AsStringPairs()
	b := DefaultLinearBoosterParameters().AsStringPairs()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	changed := NewLinearBoosterParameters(WithUpdater(CoordDescent)).AsStringPairs()
	assert.NotEqual(t, a.Fingerprint(), changed.Fingerprint())

	swapped := Pairs{a[0], a[2], a[1], a[3]}
	assert.NotEqual(t, a.Fingerprint(), swapped.Fingerprint())

	// Separators keep "ab"+"c" distinct from "a"+"bc".
	assert.NotEqual(t,
		Pairs{{"ab", "c"}}.Fingerprint(),
		Pairs{{"a", "bc"}}.Fingerprint())
}

func TestPairsAsStringPairs(t *testing.T) {
	p := Pairs{{"nthread", "2"}}
	got := p.AsStringPairs()
	assert.Equal(t, p, got)

	got[0].Value = "8"
	got = append(got, Pair{"seed", "1"})
	assert.Equal(t, Pairs{{"nthread", "2"}}, p, "the copy does not alias the receiver")
	assert.Len(t, got, 2)

	assert.Nil(t, Pairs(nil).AsStringPairs())
}
