package player

import (
	"sync"

	"BassTab/logger"
	"BassTab/model"
)

// ControllerState is the lifecycle state of one embedded player.
type ControllerState int

const (
	StateUninitialized ControllerState = iota
	StateAwaitingRuntime
	StateInitializing
	StateReady
	StateError
)

func (s ControllerState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingRuntime:
		return "awaiting_runtime"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Controller manages one embedded player's lifecycle:
//
//	Uninitialized -> AwaitingRuntime -> Initializing -> Ready | Error
//
// Ready and Error are terminal (until teardown). Seek and offset queries are
// only live in Ready; before that they warn-and-drop rather than raise.
type Controller struct {
	mu       sync.Mutex
	name     string
	cfg      EmbedConfig
	boot     *Bootstrap
	factory  PlayerFactory
	state    ControllerState
	player   EmbeddedPlayer
	lastErr  error
	disposed bool
}

// NewController validates the embed configuration and registers the
// controller with the bootstrap. A malformed video identifier fails fast
// with *InvalidIdentifierError before the bootstrap is ever contacted.
//
// The returned controller is in AwaitingRuntime (or already past it, when
// the runtime was ready and the factory answered synchronously).
func NewController(name string, cfg EmbedConfig, boot *Bootstrap, factory PlayerFactory) (*Controller, error) {
	if !model.ValidYouTubeID(cfg.VideoID) {
		return nil, &InvalidIdentifierError{ID: cfg.VideoID}
	}

	c := &Controller{
		name:    name,
		cfg:     cfg,
		boot:    boot,
		factory: factory,
		state:   StateUninitialized,
	}

	c.mu.Lock()
	c.state = StateAwaitingRuntime
	c.mu.Unlock()
	boot.RequestRuntime(c.onRuntime)
	return c, nil
}

// onRuntime is the bootstrap's ready notification. A callback landing on a
// disposed controller is a no-op: the bootstrap queue does not support
// removal, so cancellation is tolerated here instead.
func (c *Controller) onRuntime(err error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = StateError
		c.lastErr = err
		c.mu.Unlock()
		logger.Warn("player runtime unavailable",
			logger.String("player", c.name), logger.ErrorField(err))
		return
	}
	c.state = StateInitializing
	c.mu.Unlock()

	logger.Debug("constructing embedded player",
		logger.String("player", c.name),
		logger.String("videoId", c.cfg.VideoID),
		logger.Float64("startSec", c.cfg.StartOffsetSec))
	c.factory.CreatePlayer(c.cfg, c)
}

// PlayerReady implements InstanceEvents.
func (c *Controller) PlayerReady(p EmbeddedPlayer) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		destroyQuietly(c.name, p)
		return
	}
	c.player = p
	c.state = StateReady
	c.mu.Unlock()
	logger.Info("player ready",
		logger.String("player", c.name), logger.String("videoId", c.cfg.VideoID))
}

// PlayerFailed implements InstanceEvents. The numeric code is mapped onto
// the closed reason set and recorded; the failure stays local to this
// controller.
func (c *Controller) PlayerFailed(code int) {
	perr := &PlaybackError{Reason: ReasonFromCode(code), Code: code}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.state = StateError
	c.lastErr = perr
	c.mu.Unlock()
	logger.Warn("player failed",
		logger.String("player", c.name),
		logger.Int("code", code),
		logger.String("reason", string(perr.Reason)))
}

// SeekTo instructs the embed to jump to the given offset and resume from
// there. Not Ready: logged warning, no-op. The caller is responsible for
// clamping against content bounds; the controller only refuses negatives.
func (c *Controller) SeekTo(seconds float64) {
	c.mu.Lock()
	if c.state != StateReady {
		state := c.state
		c.mu.Unlock()
		logger.Warn("seek ignored, player not ready",
			logger.String("player", c.name),
			logger.String("state", state.String()),
			logger.Float64("seconds", seconds))
		return
	}
	if seconds < 0 {
		c.mu.Unlock()
		logger.Warn("seek ignored, negative offset",
			logger.String("player", c.name), logger.Float64("seconds", seconds))
		return
	}
	p := c.player
	c.mu.Unlock()

	p.SeekTo(seconds, true)
}

// CurrentOffset returns the last known playback position, or 0 when the
// controller is not Ready — callers must not treat 0 as a confident reading
// in that case.
func (c *Controller) CurrentOffset() float64 {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return 0
	}
	p := c.player
	c.mu.Unlock()
	return p.CurrentOffsetSeconds()
}

// State returns the controller's lifecycle state.
func (c *Controller) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the recorded error for a controller in StateError, nil
// otherwise.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Name returns the controller's logical name ("derivative", "source").
func (c *Controller) Name() string {
	return c.name
}

// VideoID returns the embed's video identifier.
func (c *Controller) VideoID() string {
	return c.cfg.VideoID
}

// Close tears the controller down. At most one destroy call reaches the
// embed, and any error or panic it raises is caught and discarded: teardown
// never fails. Safe to call in any state, including AwaitingRuntime — a
// bootstrap callback arriving afterwards finds the controller disposed and
// does nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	p := c.player
	c.player = nil
	c.mu.Unlock()

	if p != nil {
		destroyQuietly(c.name, p)
	}
}

func destroyQuietly(name string, p EmbeddedPlayer) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("player destroy panicked",
				logger.String("player", name), logger.Any("panic", r))
		}
	}()
	if err := p.Destroy(); err != nil {
		logger.Warn("player destroy failed",
			logger.String("player", name), logger.ErrorField(err))
	}
}
