package planner

import "github.com/backmassage/trackweave/internal/ingest"

// Mark is one entry of the reconstructed timestamp map: where a track starts
// in the rendered program.
type Mark struct {
	OffsetS float64
	Name    string
}

// AnalyticalOffsets reconstructs per-track start offsets from durations and
// the scheduled crossfades: each next track starts where the previous one
// ends minus the overlap consumed by the fade. The first offset is always 0
// and the sequence is monotonically non-decreasing because no fade exceeds
// its shorter participant.
//
// durations may be nominal (probed) or measured (post-trim/normalize);
// the arithmetic is the same.
func AnalyticalOffsets(durations, fades []float64) []float64 {
	if len(durations) == 0 {
		return nil
	}
	offsets := make([]float64, len(durations))
	for i := 0; i < len(durations)-1; i++ {
		fade := 0.0
		if i < len(fades) {
			fade = fades[i]
		}
		offsets[i+1] = offsets[i] + durations[i] - fade
	}
	return offsets
}

// Durations extracts the nominal duration sequence of tracks.
func Durations(tracks []ingest.Track) []float64 {
	out := make([]float64, len(tracks))
	for i, t := range tracks {
		out[i] = t.DurationS
	}
	return out
}

// Marks pairs offsets with track names into the final timestamp map.
// Offsets and tracks must have equal length.
func Marks(tracks []ingest.Track, offsets []float64) []Mark {
	marks := make([]Mark, len(tracks))
	for i, t := range tracks {
		marks[i] = Mark{OffsetS: offsets[i], Name: t.Name}
	}
	return marks
}

// ScaleForTempo rescales offsets computed against pre-tempo material onto the
// rendered timeline: a 0.75x tempo stretches the program, so every offset
// grows by 1/factor. A factor of 1 returns the input unchanged.
func ScaleForTempo(offsets []float64, factor float64) []float64 {
	if factor == 1.0 {
		return offsets
	}
	scaled := make([]float64, len(offsets))
	for i, off := range offsets {
		scaled[i] = off / factor
	}
	return scaled
}

// ReconcileDetected decides whether empirically detected boundary candidates
// can serve as ground truth: they are accepted only when the candidate count
// equals the expected track count. On mismatch the caller falls back to the
// analytical plan; the detection threshold is never retuned.
func ReconcileDetected(candidates []float64, expected int) ([]float64, bool) {
	if len(candidates) != expected {
		return nil, false
	}
	return candidates, true
}
