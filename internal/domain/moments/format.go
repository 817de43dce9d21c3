package moments

import (
	"fmt"
	"math"
)

// DefaultViewsFactor turns a normalized intensity into a view estimate.
// It is a rough heuristic carried over as-is, not a real view count.
const DefaultViewsFactor = 100_000

// Formatted is the presentation form of a Moment.
type Formatted struct {
	Time  string `json:"time"`
	Views int64  `json:"views"`
}

// Formatter renders moments for the API.
type Formatter struct {
	viewsFactor float64
}

// NewFormatter creates a Formatter with configuration options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{viewsFactor: DefaultViewsFactor}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders each moment in order.
func (f *Formatter) Format(ms []Moment) []Formatted {
	out := make([]Formatted, len(ms))
	for i, m := range ms {
		out[i] = Formatted{
			Time:  FormatClock(m.Seconds),
			Views: f.Views(m.Intensity),
		}
	}
	return out
}

// Views estimates a view count from a normalized intensity.
func (f *Formatter) Views(intensity float64) int64 {
	return int64(math.Trunc(intensity * f.viewsFactor))
}

// FormatClock renders seconds as HH:MM:SS, dropping the fractional part.
// Hours grow past two digits when needed.
func FormatClock(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
