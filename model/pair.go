package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// SampleType classifies how the derivative track uses the original.
type SampleType string

const (
	SampleDirect        SampleType = "direct"        // direct loop of the original recording
	SampleInterpolation SampleType = "interpolation" // modified/filtered version of the original
	SampleReplay        SampleType = "replay"        // re-recorded by the sampling artist
)

// Valid reports whether t is one of the known sample types.
func (t SampleType) Valid() bool {
	switch t {
	case SampleDirect, SampleInterpolation, SampleReplay:
		return true
	}
	return false
}

// Tuning is a bass tuning label.
type Tuning string

const (
	TuningEADG  Tuning = "EADG"  // standard 4-string
	TuningBEADG Tuning = "BEADG" // 5-string
	TuningDADG  Tuning = "DADG"  // drop D
	TuningCGCF  Tuning = "CGCF"
)

// Valid reports whether t is one of the known tunings.
func (t Tuning) Valid() bool {
	switch t {
	case TuningEADG, TuningBEADG, TuningDADG, TuningCGCF:
		return true
	}
	return false
}

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	spotifyIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
)

// ValidYouTubeID reports whether id matches the fixed 11-character token
// shape YouTube uses for video identifiers.
func ValidYouTubeID(id string) bool {
	return youtubeIDPattern.MatchString(id)
}

// Track describes one recording of a pair: either the derivative track or
// the original work it samples. Immutable once resolved.
type Track struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      int    `json:"year"`
	YoutubeID string `json:"youtube_id"`
	SpotifyID string `json:"spotify_id,omitempty"` // optional, 22 alphanumeric chars
}

// Validate checks field constraints. The ranges follow the public catalog
// contract: titles up to 200 chars, artists up to 100, plausible years.
func (t *Track) Validate(role string) error {
	if s := strings.TrimSpace(t.Title); s == "" || len(s) > 200 {
		return invalid(role+".title", "must be 1-200 characters")
	}
	if s := strings.TrimSpace(t.Artist); s == "" || len(s) > 100 {
		return invalid(role+".artist", "must be 1-100 characters")
	}
	if t.Year < 1900 || t.Year > 2030 {
		return invalid(role+".year", fmt.Sprintf("%d outside plausible range 1900-2030", t.Year))
	}
	if !ValidYouTubeID(t.YoutubeID) {
		return invalid(role+".youtube_id", "must be exactly 11 characters of [A-Za-z0-9_-]")
	}
	if t.SpotifyID != "" && !spotifyIDPattern.MatchString(t.SpotifyID) {
		return invalid(role+".spotify_id", "must be exactly 22 alphanumeric characters")
	}
	return nil
}

// SampleMap describes how the derivative track uses the original, with the
// start offset of the sampled section in each recording.
type SampleMap struct {
	IsBassSample     bool       `json:"is_bass_sample"`
	SampleType       SampleType `json:"sample_type"`
	TrackStartSec    float64    `json:"track_start_sec"`
	OriginalStartSec float64    `json:"original_start_sec"`
	Notes            string     `json:"notes,omitempty"`
}

// Validate checks the sample mapping invariants: known type, non-negative
// offsets, bounded note length.
func (m *SampleMap) Validate() error {
	if !m.SampleType.Valid() {
		return invalid("sample_map.sample_type", fmt.Sprintf("unknown type %q", m.SampleType))
	}
	if m.TrackStartSec < 0 {
		return invalid("sample_map.track_start_sec", "must be >= 0")
	}
	if m.OriginalStartSec < 0 {
		return invalid("sample_map.original_start_sec", "must be >= 0")
	}
	if len(m.Notes) > 500 {
		return invalid("sample_map.notes", "must be at most 500 characters")
	}
	return nil
}

// BarMarker is a timestamp marker for one bar of the tab. Offsets are
// relative to the original recording's timeline, since that is the recording
// the tab transcribes.
type BarMarker struct {
	Bar      int     `json:"bar"`       // 1-indexed bar number, unique within a tab
	StartSec float64 `json:"start_sec"` // >= 0
}

// tab text must carry at least one bass string indicator to count as
// notation rather than prose.
var stringIndicators = []string{"G|", "D|", "A|", "E|", "B|"}

// Tab is an ASCII bass tab with timing markers and metadata.
//
// Marker order reflects playback order. It is NOT required to be
// time-monotonic: a repeated section may legitimately revisit an earlier
// offset, so consumers must not assume ascending StartSec.
type Tab struct {
	Tuning     Tuning      `json:"tuning"`
	Difficulty int         `json:"difficulty"` // 1 (beginner) to 5 (expert)
	TabText    string      `json:"tab_text"`
	Bars       []BarMarker `json:"bars"`
}

// Validate checks the tab invariants: known tuning, difficulty in range,
// non-empty notation, at least one marker, unique bar numbers.
func (t *Tab) Validate() error {
	if !t.Tuning.Valid() {
		return invalid("tab.tuning", fmt.Sprintf("unknown tuning %q", t.Tuning))
	}
	if t.Difficulty < 1 || t.Difficulty > 5 {
		return invalid("tab.difficulty", fmt.Sprintf("%d outside range 1-5", t.Difficulty))
	}
	if strings.TrimSpace(t.TabText) == "" {
		return invalid("tab.tab_text", "must not be empty")
	}
	hasStrings := false
	for _, ind := range stringIndicators {
		if strings.Contains(t.TabText, ind) {
			hasStrings = true
			break
		}
	}
	if !hasStrings {
		return invalid("tab.tab_text", "must contain string indicators (G|, D|, A|, E|, B|)")
	}
	if len(t.Bars) == 0 {
		return invalid("tab.bars", "at least one bar marker is required")
	}
	seen := make(map[int]struct{}, len(t.Bars))
	for _, b := range t.Bars {
		if b.Bar < 1 {
			return invalid("tab.bars", fmt.Sprintf("bar number %d must be >= 1", b.Bar))
		}
		if b.StartSec < 0 {
			return invalid("tab.bars", fmt.Sprintf("bar %d start_sec must be >= 0", b.Bar))
		}
		if _, dup := seen[b.Bar]; dup {
			return invalid("tab.bars", fmt.Sprintf("duplicate bar number %d", b.Bar))
		}
		seen[b.Bar] = struct{}{}
	}
	return nil
}

// PagePayload is the complete resolved record for one track-pair page:
// the derivative track, the original it samples, the sample mapping, and
// the tab. Created once per page view and read-only afterwards.
type PagePayload struct {
	Track     Track     `json:"track"`    // the derivative track containing the sample
	Original  Track     `json:"original"` // the original work that was sampled
	SampleMap SampleMap `json:"sample_map"`
	Tab       Tab       `json:"tab"`
}

// Validate runs all per-field checks and the cross-field timing check:
// the first bar marker must sit within one second of the mapping's start
// offset in the original, so the tab actually lines up with the sample.
func (p *PagePayload) Validate() error {
	if err := p.Track.Validate("track"); err != nil {
		return err
	}
	if err := p.Original.Validate("original"); err != nil {
		return err
	}
	if err := p.SampleMap.Validate(); err != nil {
		return err
	}
	if err := p.Tab.Validate(); err != nil {
		return err
	}
	if len(p.Tab.Bars) > 0 {
		first := p.Tab.Bars[0].StartSec
		if math.Abs(first-p.SampleMap.OriginalStartSec) > 1.0 {
			return invalid("tab.bars", fmt.Sprintf(
				"first bar at %.1fs does not align with sample start %.1fs in the original",
				first, p.SampleMap.OriginalStartSec))
		}
	}
	return nil
}
