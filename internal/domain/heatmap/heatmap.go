// Package heatmap locates the "most replayed" markers embedded in a YouTube
// watch page.
//
// Location runs in two stages. ExtractInitialData scans the document for
// the ytInitialData assignment and returns the raw blob; Decode parses the
// blob and walks the optional levels down to the markers list. Every miss
// is reported as an error wrapping ErrNotFound; nothing here panics on
// unexpected page structure.
package heatmap

import (
	"encoding/json"
	"regexp"
	"strings"
)

// entityKeyPrefix marks the mutation that carries the markers entity.
const entityKeyPrefix = "Egp"

// initialDataRe captures the object assigned to ytInitialData up to the
// first statement terminator that follows it.
var initialDataRe = regexp.MustCompile(`var ytInitialData = ({.*?});`)

// Payload is the located heat-map.
type Payload struct {
	ExternalVideoID string   `json:"externalVideoId"`
	Markers         []Marker `json:"markers"`
}

type initialData struct {
	FrameworkUpdates *frameworkUpdates `json:"frameworkUpdates"`
}

type frameworkUpdates struct {
	EntityBatchUpdate *entityBatchUpdate `json:"entityBatchUpdate"`
}

type entityBatchUpdate struct {
	Mutations []mutation `json:"mutations"`
}

type mutation struct {
	EntityKey string           `json:"entityKey"`
	Payload   *mutationPayload `json:"payload"`
}

type mutationPayload struct {
	MacroMarkersListEntity *markersEntity `json:"macroMarkersListEntity"`
}

type markersEntity struct {
	ExternalVideoID string       `json:"externalVideoId"`
	MarkersList     *markersList `json:"markersList"`
}

type markersList struct {
	Markers []Marker `json:"markers"`
}

func (d *initialData) frameworkUpdates() *frameworkUpdates {
	if d == nil {
		return nil
	}
	return d.FrameworkUpdates
}

func (f *frameworkUpdates) entityBatchUpdate() *entityBatchUpdate {
	if f == nil {
		return nil
	}
	return f.EntityBatchUpdate
}

func (e *entityBatchUpdate) mutations() []mutation {
	if e == nil {
		return nil
	}
	return e.Mutations
}

func (m *mutation) markersEntity() *markersEntity {
	if m == nil || m.Payload == nil {
		return nil
	}
	return m.Payload.MacroMarkersListEntity
}

func (e *markersEntity) markers() []Marker {
	if e == nil || e.MarkersList == nil {
		return nil
	}
	return e.MarkersList.Markers
}

// empty reports whether the entity carries nothing at all, which the page
// uses as a placeholder for videos without a heat-map.
func (e *markersEntity) empty() bool {
	return e == nil || (e.ExternalVideoID == "" && e.MarkersList == nil)
}

// ExtractInitialData returns the raw ytInitialData object from html.
func ExtractInitialData(html []byte) ([]byte, bool) {
	m := initialDataRe.FindSubmatch(html)
	if len(m) < 2 {
		return nil, false
	}
	return m[1], true
}

// Decode parses a ytInitialData blob and returns the first markers entity
// found under a mutation keyed with the expected prefix.
func Decode(blob []byte) (Payload, error) {
	var data initialData
	if err := json.Unmarshal(blob, &data); err != nil {
		return Payload{}, ErrInvalidData
	}
	muts := data.frameworkUpdates().entityBatchUpdate().mutations()
	for i := range muts {
		if !strings.HasPrefix(muts[i].EntityKey, entityKeyPrefix) {
			continue
		}
		entity := muts[i].markersEntity()
		if entity.empty() {
			continue
		}
		return Payload{
			ExternalVideoID: entity.ExternalVideoID,
			Markers:         entity.markers(),
		}, nil
	}
	return Payload{}, ErrNoMarkersEntity
}

// Locate runs both stages over a full watch page.
func Locate(html []byte) (Payload, error) {
	blob, ok := ExtractInitialData(html)
	if !ok {
		return Payload{}, ErrNoInitialData
	}
	return Decode(blob)
}
