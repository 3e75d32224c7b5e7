package ffmpeg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/trackweave/internal/ingest"
	"github.com/backmassage/trackweave/internal/status"
)

func TestBuildMergeGraphSingleTrack(t *testing.T) {
	g, err := BuildMergeGraph(1, nil, false)
	require.NoError(t, err)

	// One normalize node, no crossfades.
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "norm0", g.Terminal())
	assert.Equal(t, "[0:a]loudnorm=I=-20:TP=-1.5:LRA=11[norm0]", g.String())
}

func TestBuildMergeGraphFold(t *testing.T) {
	g, err := BuildMergeGraph(3, []float64{15, 7.5}, false)
	require.NoError(t, err)

	// Three normalize nodes then two crossfades.
	require.Equal(t, 5, g.Len())
	assert.Equal(t, "a2", g.Terminal())

	nodes := g.Nodes()
	first := nodes[3]
	assert.Equal(t, "acrossfade", first.Filter)
	assert.Equal(t, []string{"norm0", "norm1"}, first.Inputs)
	assert.Equal(t, Param{"d", "15"}, first.Params[0])

	second := nodes[4]
	assert.Equal(t, []string{"a1", "norm2"}, second.Inputs)
	assert.Equal(t, Param{"d", "7.5"}, second.Params[0])
}

func TestBuildMergeGraphTrimSilence(t *testing.T) {
	g, err := BuildMergeGraph(2, []float64{15}, true)
	require.NoError(t, err)

	rendered := g.String()
	assert.Contains(t, rendered, "[0:a]silenceremove=stop_periods=1:stop_duration=0.5:stop_threshold=-50dB[trim0]")
	assert.Contains(t, rendered, "[trim0]loudnorm")
	assert.Contains(t, rendered, "[trim1]loudnorm")
}

func TestBuildMergeGraphLabelContinuity(t *testing.T) {
	// Every node input must be either a stream index or a label produced by
	// an earlier node, with and without trimming.
	for _, trim := range []bool{false, true} {
		g, err := BuildMergeGraph(4, []float64{15, 15, 15}, trim)
		require.NoError(t, err)

		produced := map[string]bool{}
		for i := 0; i < 4; i++ {
			produced[fmt.Sprintf("%d:a", i)] = true
		}
		for _, n := range g.Nodes() {
			for _, in := range n.Inputs {
				assert.True(t, produced[in], "input %q consumed before production (trim=%v)", in, trim)
			}
			produced[n.Output] = true
		}
	}
}

func TestBuildMergeGraphRejectsBadArity(t *testing.T) {
	_, err := BuildMergeGraph(0, nil, false)
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))

	_, err = BuildMergeGraph(3, []float64{15}, false)
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
}

func TestMergeArgs(t *testing.T) {
	tracks := []ingest.Track{
		{Path: "/in/a.mp3"},
		{Path: "/in/b.mp3"},
	}
	g, err := BuildMergeGraph(2, []float64{15}, false)
	require.NoError(t, err)

	args := MergeArgs(tracks, g, "/out/merged.wav")
	joined := strings.Join(args, " ")

	assert.Equal(t, []string{"ffmpeg", "-hide_banner", "-nostdin"}, args[:3])
	assert.Contains(t, joined, "-i /in/a.mp3 -i /in/b.mp3")
	assert.Contains(t, joined, "-map [a1]")
	assert.Contains(t, joined, "-ar 48000 -ac 2 -sample_fmt s16 -y /out/merged.wav")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "15", formatFloat(15))
	assert.Equal(t, "7.5", formatFloat(7.5))
	assert.Equal(t, "0.1", formatFloat(0.1))
}
