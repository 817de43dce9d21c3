package heatmap

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Text is a JSON scalar kept as its textual form. Strings are unquoted,
// numbers and booleans keep their literal text. The page encodes marker
// fields as strings, but numbers must not break decoding of the whole blob.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// Marker is one raw heat-map data point.
type Marker struct {
	StartMillis              *Text `json:"startMillis,omitempty"`
	IntensityScoreNormalized *Text `json:"intensityScoreNormalized,omitempty"`
}

// NewMarker builds a marker from its string-encoded fields.
func NewMarker(startMillis, intensity string) Marker {
	s, i := Text(startMillis), Text(intensity)
	return Marker{StartMillis: &s, IntensityScoreNormalized: &i}
}

// Start returns the raw start offset. An absent field reads as "0".
func (m Marker) Start() string {
	if m.StartMillis == nil {
		return "0"
	}
	return string(*m.StartMillis)
}

// Intensity returns the normalized intensity. Absent or unparseable values
// read as 0.
func (m Marker) Intensity() float64 {
	if m.IntensityScoreNormalized == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(*m.IntensityScoreNormalized)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// StartSeconds parses the start offset. ok is false unless the raw value is
// a non-empty run of ASCII digits that fits in a uint64.
func (m Marker) StartSeconds() (seconds float64, ok bool) {
	raw := m.Start()
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	millis, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(millis) / 1000, true
}
