package stopindex

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journey.transitgo.org/internal/gtfs"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := gtfs.BuildCatalogue([]gtfs.ModeBundle{
		{ModeTag: "vline", Path: "../gtfs/testdata/vline"},
		{ModeTag: "metro", Path: "../gtfs/testdata/metro"},
	}, logger)
	require.NoError(t, err)
	return New(cat)
}

func TestLookupExact(t *testing.T) {
	idx := testIndex(t)

	ids := idx.LookupExact("Waurn Ponds Station")
	assert.Equal(t, []string{"vline:WAU"}, ids)

	// Case and surrounding whitespace are ignored.
	ids = idx.LookupExact("  waurn ponds station ")
	assert.Equal(t, []string{"vline:WAU"}, ids)

	assert.Empty(t, idx.LookupExact("Hogwarts"))
}

func TestLookupExactDuplicateNames(t *testing.T) {
	idx := testIndex(t)

	// Richmond Station exists in both bundles under the same name.
	ids := idx.LookupExact("Richmond Station")
	assert.Equal(t, []string{"metro:RIC", "vline:RIC"}, ids)
}

func TestLookupFuzzy(t *testing.T) {
	idx := testIndex(t)

	matches := idx.LookupFuzzy("Tarneit", 5, 0)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Tarneit Station", matches[0].Name)
	assert.Equal(t, "vline:TAR", matches[0].StopID)

	// Word order must not matter: token-sort similarity.
	swapped := idx.LookupFuzzy("station waurn ponds", 5, 60)
	require.NotEmpty(t, swapped)
	assert.Equal(t, "Waurn Ponds Station", swapped[0].Name)
	assert.GreaterOrEqual(t, swapped[0].Score, 90)
}

func TestLookupFuzzyScoresMonotone(t *testing.T) {
	idx := testIndex(t)

	matches := idx.LookupFuzzy("geelong", 10, 0)
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestLookupFuzzyRespectsLimitAndFloor(t *testing.T) {
	idx := testIndex(t)

	matches := idx.LookupFuzzy("station", 3, 1)
	assert.LessOrEqual(t, len(matches), 3)

	// A floor of 100 keeps only perfect matches.
	perfect := idx.LookupFuzzy("Lara Station", 10, 100)
	require.Len(t, perfect, 1)
	assert.Equal(t, "vline:LAR", perfect[0].StopID)
}

func TestLookupFuzzyEmptyQuery(t *testing.T) {
	idx := testIndex(t)
	assert.Empty(t, idx.LookupFuzzy("", 5, 0))
	assert.Empty(t, idx.LookupFuzzy("   ", 5, 0))
}

func TestBest(t *testing.T) {
	idx := testIndex(t)

	m, ok := idx.Best("waurn ponds", DefaultMinScore)
	require.True(t, ok)
	assert.Equal(t, "vline:WAU", m.StopID)

	_, ok = idx.Best("zzzzqqqq", DefaultMinScore)
	assert.False(t, ok)
}
