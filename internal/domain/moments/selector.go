package moments

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/ytpeaks/internal/domain/heatmap"
)

// Default selection parameters.
const (
	DefaultMaxMoments = 10
	DefaultProximity  = 15.0 // seconds
)

// Moment is a selected marker.
type Moment struct {
	Seconds   float64
	Intensity float64
}

// Selector picks high-intensity moments that are spread apart in time.
type Selector struct {
	maxMoments int
	proximity  float64
}

// NewSelector creates a Selector with configuration options.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		maxMoments: DefaultMaxMoments,
		proximity:  DefaultProximity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxMoments returns the configured cap.
func (s *Selector) MaxMoments() int { return s.maxMoments }

// Proximity returns the configured minimum gap in seconds.
func (s *Selector) Proximity() float64 { return s.proximity }

// Select ranks markers by descending intensity and greedily accepts each
// one that is farther than the proximity gap from every moment accepted so
// far. Markers with a malformed start offset are skipped. The result is in
// chronological order and never longer than the cap.
func (s *Selector) Select(markers []heatmap.Marker) []Moment {
	type candidate struct {
		marker    heatmap.Marker
		intensity float64
	}
	ranked := make([]candidate, len(markers))
	for i, m := range markers {
		ranked[i] = candidate{marker: m, intensity: m.Intensity()}
	}
	// Stable so equal intensities keep payload order.
	slices.SortStableFunc(ranked, func(a, b candidate) int {
		return cmp.Compare(b.intensity, a.intensity)
	})

	selected := make([]Moment, 0, min(s.maxMoments, len(markers)))
	for _, c := range ranked {
		if len(selected) == s.maxMoments {
			break
		}
		secs, ok := c.marker.StartSeconds()
		if !ok {
			continue
		}
		if s.nearAny(secs, selected) {
			continue
		}
		selected = append(selected, Moment{Seconds: secs, Intensity: c.intensity})
	}

	slices.SortStableFunc(selected, func(a, b Moment) int {
		return cmp.Compare(a.Seconds, b.Seconds)
	})
	return selected
}

func (s *Selector) nearAny(secs float64, selected []Moment) bool {
	for _, m := range selected {
		if math.Abs(secs-m.Seconds) <= s.proximity {
			return true
		}
	}
	return false
}
