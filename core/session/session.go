// Package session assembles one pair page's playback stack: validated
// timeline, two player controllers sharing a bootstrap, and the sync
// coordinator wiring marker selection to the source player.
package session

import (
	"fmt"

	"BassTab/core/player"
	playsync "BassTab/core/sync"
	"BassTab/core/timeline"
	"BassTab/logger"
	"BassTab/model"

	"github.com/google/uuid"
)

// PlayerStatus is the per-controller readiness snapshot surfaced to the UI
// layer for loading/error rendering.
type PlayerStatus struct {
	Role    playsync.Role `json:"role"`
	VideoID string        `json:"videoId"`
	State   string        `json:"state"`
	Error   string        `json:"error,omitempty"`
}

// Session owns the playback stack for one resolved payload. The payload is
// lent read-only; all derived state (readiness, selection) lives in the
// controllers and coordinator.
type Session struct {
	id          string
	payload     *model.PagePayload
	timeline    *timeline.Model
	derivative  *player.Controller
	source      *player.Controller
	coordinator *playsync.Coordinator
}

// New validates the payload's tab into a timeline, constructs both
// controllers against the shared bootstrap, and binds the coordinator.
//
// The derivative embed starts at the sample's offset in the derivative
// track; the source embed starts at the first marker's offset (the default
// seek target). Any validation failure aborts the whole session: no
// partially-built session exists.
func New(payload *model.PagePayload, boot *player.Bootstrap, factory player.PlayerFactory, origin string) (*Session, error) {
	tl, err := timeline.New(&payload.Tab)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}

	flags := player.DefaultDisplayFlags(origin)

	derivative, err := player.NewController(string(playsync.RoleDerivative), player.EmbedConfig{
		VideoID:        payload.Track.YoutubeID,
		StartOffsetSec: payload.SampleMap.TrackStartSec,
		Flags:          flags,
	}, boot, factory)
	if err != nil {
		return nil, fmt.Errorf("derivative player: %w", err)
	}

	source, err := player.NewController(string(playsync.RoleSource), player.EmbedConfig{
		VideoID:        payload.Original.YoutubeID,
		StartOffsetSec: tl.First().StartSec,
		Flags:          flags,
	}, boot, factory)
	if err != nil {
		derivative.Close()
		return nil, fmt.Errorf("source player: %w", err)
	}

	coord := playsync.NewCoordinator()
	coord.Bind(tl, map[playsync.Role]*player.Controller{
		playsync.RoleDerivative: derivative,
		playsync.RoleSource:     source,
	})

	s := &Session{
		id:          uuid.NewString(),
		payload:     payload,
		timeline:    tl,
		derivative:  derivative,
		source:      source,
		coordinator: coord,
	}
	logger.Info("page session created",
		logger.String("session", s.id),
		logger.String("track", payload.Track.Title),
		logger.String("original", payload.Original.Title),
		logger.Int("bars", tl.Len()))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Payload returns the resolved payload the session renders.
func (s *Session) Payload() *model.PagePayload {
	return s.payload
}

// Timeline returns the session's validated timeline.
func (s *Session) Timeline() *timeline.Model {
	return s.timeline
}

// Coordinator returns the session's sync coordinator.
func (s *Session) Coordinator() *playsync.Coordinator {
	return s.coordinator
}

// SelectBar routes a bar selection through the coordinator.
func (s *Session) SelectBar(bar int) error {
	return s.coordinator.SelectMarker(bar)
}

// Statuses reports both controllers' readiness for the UI layer.
func (s *Session) Statuses() []PlayerStatus {
	return []PlayerStatus{
		statusOf(playsync.RoleDerivative, s.derivative),
		statusOf(playsync.RoleSource, s.source),
	}
}

func statusOf(role playsync.Role, c *player.Controller) PlayerStatus {
	st := PlayerStatus{
		Role:    role,
		VideoID: c.VideoID(),
		State:   c.State().String(),
	}
	if err := c.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// Close tears both controllers down. Teardown never fails.
func (s *Session) Close() {
	s.derivative.Close()
	s.source.Close()
	logger.Debug("page session closed", logger.String("session", s.id))
}
