// Package timeline wraps a tab's timing data in a validated, read-only view
// so markers can be iterated and looked up without re-checking invariants on
// every access.
package timeline

import (
	"fmt"

	"BassTab/model"
)

// ErrMarkerNotFound is returned by MarkerByBar when no marker carries the
// requested bar number.
var ErrMarkerNotFound = fmt.Errorf("bar marker not found")

// Model is an immutable view over a tab's bar markers. Construction
// validates the tab once; every accessor afterwards is cheap and
// side-effect free.
//
// Marker order is the tab's playback order. Offsets are not required to be
// ascending: a repeated section may revisit an earlier position.
type Model struct {
	tab     model.Tab
	markers []model.BarMarker
	byBar   map[int]int // bar number -> index into markers
}

// New validates the tab and builds a timeline model over it. It fails with
// a *model.ValidationError when the tab text is empty, the difficulty is
// outside 1-5, there are no bar markers, or a bar number repeats. No
// partially-valid model is ever returned.
func New(tab *model.Tab) (*Model, error) {
	if err := tab.Validate(); err != nil {
		return nil, err
	}

	markers := make([]model.BarMarker, len(tab.Bars))
	copy(markers, tab.Bars)

	byBar := make(map[int]int, len(markers))
	for i, m := range markers {
		byBar[m.Bar] = i
	}

	return &Model{
		tab:     *tab,
		markers: markers,
		byBar:   byBar,
	}, nil
}

// Markers returns the bar markers in playback order. The returned slice is
// a fresh copy on every call, so a new pass always yields the same sequence
// and callers cannot mutate the model through it.
func (m *Model) Markers() []model.BarMarker {
	out := make([]model.BarMarker, len(m.markers))
	copy(out, m.markers)
	return out
}

// MarkerByBar looks up the marker for the given bar number. It fails with
// ErrMarkerNotFound (wrapped with the bar number) when absent.
func (m *Model) MarkerByBar(bar int) (model.BarMarker, error) {
	idx, ok := m.byBar[bar]
	if !ok {
		return model.BarMarker{}, fmt.Errorf("bar %d: %w", bar, ErrMarkerNotFound)
	}
	return m.markers[idx], nil
}

// First returns the first marker in playback order. It is the default seek
// target when a player is constructed for this timeline.
func (m *Model) First() model.BarMarker {
	return m.markers[0]
}

// Len returns the number of bar markers.
func (m *Model) Len() int {
	return len(m.markers)
}

// Tuning returns the tab's tuning label.
func (m *Model) Tuning() model.Tuning {
	return m.tab.Tuning
}

// Difficulty returns the tab's difficulty rank (1-5).
func (m *Model) Difficulty() int {
	return m.tab.Difficulty
}

// TabText returns the raw tab notation.
func (m *Model) TabText() string {
	return m.tab.TabText
}
