// Package moments ranks heat-map markers into the most-watched moments.
package moments

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithMaxMoments caps the number of selected moments. Non-positive values
// keep the default.
func WithMaxMoments(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.maxMoments = n
		}
	}
}

// WithProximity sets the minimum gap, in seconds, that must separate two
// selected moments. Negative values keep the default.
func WithProximity(seconds float64) Option {
	return func(s *Selector) {
		if seconds >= 0 {
			s.proximity = seconds
		}
	}
}

// FormatterOption applies a configuration option to the Formatter.
type FormatterOption func(*Formatter)

// WithViewsFactor overrides the intensity-to-views multiplier. Non-positive
// values keep the default.
func WithViewsFactor(factor float64) FormatterOption {
	return func(f *Formatter) {
		if factor > 0 {
			f.viewsFactor = factor
		}
	}
}
