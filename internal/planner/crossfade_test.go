package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/trackweave/internal/ingest"
)

func mkTracks(durations ...float64) []ingest.Track {
	tracks := make([]ingest.Track, len(durations))
	for i, d := range durations {
		tracks[i] = ingest.Track{Name: trackName(i), DurationS: d}
	}
	return tracks
}

func trackName(i int) string {
	return string(rune('a'+i)) + ".mp3"
}

func TestScheduleCrossfades_Default(t *testing.T) {
	fades, warnings := ScheduleCrossfades(mkTracks(120, 200, 90), 15)
	assert.Equal(t, []float64{15, 15}, fades)
	assert.Empty(t, warnings)
}

func TestScheduleCrossfades_ShrinksForShortTrack(t *testing.T) {
	fades, warnings := ScheduleCrossfades(mkTracks(120, 8), 15)
	require.Len(t, fades, 1)
	assert.Equal(t, 4.0, fades[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"b.mp3"`)
}

func TestScheduleCrossfades_FloorsAtOneSecond(t *testing.T) {
	fades, _ := ScheduleCrossfades(mkTracks(1.2, 60), 15)
	require.Len(t, fades, 1)
	assert.Equal(t, 1.0, fades[0])
}

func TestScheduleCrossfades_NeverExceedsNeighbours(t *testing.T) {
	durations := [][]float64{
		{5, 300}, {300, 5}, {14.9, 15.1}, {0.5, 0.4}, {15, 15},
	}
	for _, pair := range durations {
		fades, _ := ScheduleCrossfades(mkTracks(pair...), 15)
		require.Len(t, fades, 1)
		assert.GreaterOrEqual(t, fades[0], MinCrossfadeS)
		// The shrunk fade fits inside the shorter track unless that track
		// is already below twice the 1s floor; then the floor wins.
		shorter := pair[0]
		if pair[1] < shorter {
			shorter = pair[1]
		}
		if shorter >= 2*MinCrossfadeS {
			assert.LessOrEqual(t, fades[0], shorter)
		}
	}
}

func TestScheduleCrossfades_EdgeCounts(t *testing.T) {
	fades, warnings := ScheduleCrossfades(nil, 15)
	assert.Empty(t, fades)
	assert.Empty(t, warnings)

	fades, _ = ScheduleCrossfades(mkTracks(100), 15)
	assert.Empty(t, fades)

	fades, _ = ScheduleCrossfades(mkTracks(100, 100), 15)
	assert.Len(t, fades, 1)
}
