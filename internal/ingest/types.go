package ingest

// Track is one input audio clip with resolved metadata. The sequence order
// produced by Stage is significant and is never re-sorted afterwards.
type Track struct {
	Path       string
	Name       string
	DurationS  float64
	SampleRate int
	Channels   int
	Codec      string
	BitRate    int64 // 0 when the container does not report one.
}

// Logger is the minimal logging interface needed by the ingest stage.
// Defined here (rather than importing the logging package) so that ingest
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Result is the outcome of the ingest stage.
type Result struct {
	Tracks      []Track
	OrderSource string   // "order.txt" or "natural_sort".
	Warnings    []string // Dropped files, duplicate order entries.
}

// TotalDuration sums the nominal durations of all resolved tracks.
func (r *Result) TotalDuration() float64 {
	var total float64
	for _, t := range r.Tracks {
		total += t.DurationS
	}
	return total
}
