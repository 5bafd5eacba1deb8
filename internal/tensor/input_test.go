package tensor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"jamsd/internal/jamserr"
)

func TestParseModelInput_SniffsTypesByFirstElement(t *testing.T) {
	in, err := ParseModelInput(`{
		"adult_male": ["True", "False"],
		"age": [22.0, 23.79929292929293],
		"pclass": [3, 1]
	}`)
	require.NoError(t, err)

	_, ok := in.Get("adult_male")
	require.True(t, ok)
	ages, ok := in.Get("age")
	require.True(t, ok)
	require.Equal(t, KindFloats, ages.Kind)
	classes, ok := in.Get("pclass")
	require.True(t, ok)
	require.Equal(t, KindInts, classes.Kind)

	size, err := in.BatchSize()
	require.NoError(t, err)
	require.Equal(t, 2, size)
}

func TestParseModelInput_MixedTypesRejected(t *testing.T) {
	_, err := ParseModelInput(`{"age": [22, "23"]}`)
	require.Error(t, err)
	require.True(t, jamserr.IsBadInput(err))
}

func TestParseModelInput_EmptyArrayRejected(t *testing.T) {
	_, err := ParseModelInput(`{"age": []}`)
	require.Error(t, err)
	require.True(t, jamserr.IsBadInput(err))
}

func TestParseModelInput_BatchSizeMismatchRejected(t *testing.T) {
	_, err := ParseModelInput(`{"age": [22.0, 23.0], "fare": [1.0, 2.0, 3.0]}`)
	require.Error(t, err)
	require.True(t, jamserr.IsBadInput(err))
}

func TestModelInput_RoundTripsFeatureNamesAndLengths(t *testing.T) {
	original := `{"age": [22.0, 23.8], "pclass": [3, 1], "sex": ["male", "female"]}`
	in, err := ParseModelInput(original)
	require.NoError(t, err)

	out, err := json.Marshal(in)
	require.NoError(t, err)

	roundTripped, err := ParseModelInput(string(out))
	require.NoError(t, err)

	require.ElementsMatch(t, in.FeatureNames(), roundTripped.FeatureNames())
	for _, name := range in.FeatureNames() {
		want, _ := in.Get(name)
		got, _ := roundTripped.Get(name)
		require.Equal(t, want.Len(), got.Len())
	}
}

func TestModelInput_FloatsAreLexicographicallyOrdered(t *testing.T) {
	in, err := ParseModelInput(`{"zeta": [1.0], "alpha": [2.0], "mid": [3.0]}`)
	require.NoError(t, err)

	names, values := in.Floats()
	require.Equal(t, []string{"alpha", "mid", "zeta"}, names)
	require.Equal(t, [][]float64{{2.0}, {3.0}, {1.0}}, values)
}
