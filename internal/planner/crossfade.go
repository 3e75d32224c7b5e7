// Package planner holds the pure decision logic of the pipeline: crossfade
// scheduling and track-boundary timeline reconstruction. Nothing here touches
// the filesystem or spawns processes.
package planner

import (
	"fmt"

	"github.com/backmassage/trackweave/internal/ingest"
)

// MinCrossfadeS is the floor below which a crossfade is never shrunk.
const MinCrossfadeS = 1.0

// ScheduleCrossfades computes one overlap duration per adjacent track pair.
// When the shorter neighbour cannot carry the requested fade, the fade shrinks
// to half that track's length (floored at MinCrossfadeS) so the overlap can
// never exceed either participant's own duration. Returned warnings name the
// shorter track of each shrunk pair.
func ScheduleCrossfades(tracks []ingest.Track, defaultS float64) ([]float64, []string) {
	if len(tracks) <= 1 {
		return nil, nil
	}

	fades := make([]float64, 0, len(tracks)-1)
	var warnings []string

	for i := 0; i < len(tracks)-1; i++ {
		a, b := tracks[i], tracks[i+1]
		short := a
		if b.DurationS < a.DurationS {
			short = b
		}

		fade := defaultS
		if short.DurationS < defaultS {
			fade = short.DurationS * 0.5
			if fade < MinCrossfadeS {
				fade = MinCrossfadeS
			}
			warnings = append(warnings, fmt.Sprintf(
				"track %q duration (%.1fs) < crossfade (%.1fs), reduced to %.1fs",
				short.Name, short.DurationS, defaultS, fade))
		}
		fades = append(fades, fade)
	}
	return fades, warnings
}
