// Package sync binds a timeline's bar markers to the pair's player
// controllers, translating marker selection into seek calls.
package sync

import (
	"fmt"
	gosync "sync"

	"BassTab/core/player"
	"BassTab/core/timeline"
	"BassTab/logger"
	"BassTab/model"
)

// Role identifies a player's position in the pair.
type Role string

const (
	RoleDerivative Role = "derivative" // the track containing the sample
	RoleSource     Role = "source"     // the original work the tab annotates
)

// Coordinator routes marker selections to the bound controllers.
//
// Bar markers are defined against the SOURCE recording's timeline — the tab
// transcribes the original work — so selecting a marker seeks only the
// source player and deliberately leaves the derivative player untouched.
// That asymmetry is a design decision, not a missing feature.
type Coordinator struct {
	mu       gosync.Mutex
	tl       *timeline.Model
	players  map[Role]*player.Controller
	selected *model.BarMarker
}

// NewCoordinator returns an unbound coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Bind associates a timeline with the role->controller mapping. Rebinding
// clears the current selection.
func (c *Coordinator) Bind(tl *timeline.Model, players map[Role]*player.Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tl = tl
	c.players = players
	c.selected = nil
}

// SelectMarker looks up the marker for the given bar number, seeks the
// source player to its offset, and records it as the current selection for
// highlight UI. An unknown bar number fails with timeline.ErrMarkerNotFound
// (propagated, not swallowed) and issues no seek.
//
// Re-selecting the current marker re-issues the seek: the user's intent is
// always "jump there now", including after manual scrubbing.
func (c *Coordinator) SelectMarker(bar int) error {
	c.mu.Lock()
	if c.tl == nil {
		c.mu.Unlock()
		return fmt.Errorf("coordinator not bound")
	}
	marker, err := c.tl.MarkerByBar(bar)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.selected = &marker
	source := c.players[RoleSource]
	c.mu.Unlock()

	logger.Debug("marker selected",
		logger.Int("bar", marker.Bar), logger.Float64("startSec", marker.StartSec))
	if source != nil {
		source.SeekTo(marker.StartSec)
	}
	return nil
}

// Selected returns the currently selected marker, if any.
func (c *Coordinator) Selected() (model.BarMarker, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.BarMarker{}, false
	}
	return *c.selected, true
}

// Controller returns the controller bound to the given role, if any.
func (c *Coordinator) Controller(role Role) (*player.Controller, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctrl, ok := c.players[role]
	return ctrl, ok
}
