package variant_test

import (
	"testing"

	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/stretchr/testify/require"
)

func channels(records []variant.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Channel()
	}
	return out
}

func TestSort_NumericAware(t *testing.T) {
	records := []variant.Record{
		{"Channel": "a", "rmsd": "28.1"},
		{"Channel": "b", "rmsd": "3.39"},
		{"Channel": "c", "rmsd": "100"},
	}

	asc := variant.Sort(records, "rmsd", variant.Ascending)
	require.Equal(t, []string{"b", "a", "c"}, channels(asc))
	require.Equal(t, []string{"a", "b", "c"}, channels(records), "input must not be reordered")
}

func TestSort_FallsBackToStrings(t *testing.T) {
	records := []variant.Record{
		{"Channel": "KCNQ"},
		{"Channel": "BK"},
		{"Channel": "Nav1.2"},
	}
	require.Equal(t, []string{"BK", "KCNQ", "Nav1.2"}, channels(variant.Sort(records, "Channel", variant.Ascending)))

	mixed := []variant.Record{
		{"Channel": "x", "v": "10"},
		{"Channel": "y", "v": "abc"},
	}
	// "10" < "abc" as strings.
	require.Equal(t, []string{"x", "y"}, channels(variant.Sort(mixed, "v", variant.Ascending)))
}

func TestSort_Stable(t *testing.T) {
	records := []variant.Record{
		{"Channel": "first", "design": "1"},
		{"Channel": "second", "design": "0"},
		{"Channel": "third", "design": "1"},
		{"Channel": "fourth", "design": "0"},
	}
	require.Equal(t, []string{"second", "fourth", "first", "third"}, channels(variant.Sort(records, "design", variant.Ascending)))
	require.Equal(t, []string{"first", "third", "second", "fourth"}, channels(variant.Sort(records, "design", variant.Descending)))
}

func TestSort_IdempotentAndReversible(t *testing.T) {
	records := []variant.Record{
		{"Channel": "a", "mpnn": "1.67"},
		{"Channel": "b", "mpnn": "1.31"},
		{"Channel": "c", "mpnn": "1.52"},
		{"Channel": "d", "mpnn": "1.44"},
	}

	once := variant.Sort(records, "mpnn", variant.Ascending)
	twice := variant.Sort(once, "mpnn", variant.Ascending)
	require.Equal(t, once, twice)

	desc := variant.Sort(records, "mpnn", variant.Descending)
	for i := range once {
		require.Equal(t, once[i], desc[len(desc)-1-i])
	}
}

func TestSortSpec_Toggle(t *testing.T) {
	var spec variant.SortSpec
	require.False(t, spec.Active())
	require.Equal(t, "", spec.Indicator())

	spec = spec.Toggle("rmsd")
	require.Equal(t, variant.SortSpec{Column: "rmsd", Direction: variant.Ascending}, spec)
	require.Equal(t, " ↑", spec.Indicator())

	spec = spec.Toggle("rmsd")
	require.Equal(t, variant.Descending, spec.Direction)
	require.Equal(t, " ↓", spec.Indicator())

	spec = spec.Toggle("rmsd")
	require.Equal(t, variant.Ascending, spec.Direction)

	spec = spec.Toggle("rmsd").Toggle("mpnn")
	require.Equal(t, variant.SortSpec{Column: "mpnn", Direction: variant.Ascending}, spec)
}

func TestSortSpec_ApplyInactiveKeepsOrder(t *testing.T) {
	records := []variant.Record{{"Channel": "b"}, {"Channel": "a"}}
	require.Equal(t, []string{"b", "a"}, channels(variant.SortSpec{}.Apply(records)))
}

func TestParseDirection(t *testing.T) {
	dir, err := variant.ParseDirection("DESC")
	require.NoError(t, err)
	require.Equal(t, variant.Descending, dir)

	dir, err = variant.ParseDirection("")
	require.NoError(t, err)
	require.Equal(t, variant.Ascending, dir)

	_, err = variant.ParseDirection("sideways")
	require.ErrorIs(t, err, variant.ErrInvalidDirection)
}
