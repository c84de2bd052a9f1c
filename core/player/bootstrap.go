package player

import (
	"sync"

	"BassTab/logger"
)

// BootstrapState is the load state of the external runtime.
type BootstrapState int

const (
	BootstrapNotRequested BootstrapState = iota
	BootstrapRequesting
	BootstrapReady
)

func (s BootstrapState) String() string {
	switch s {
	case BootstrapNotRequested:
		return "not_requested"
	case BootstrapRequesting:
		return "requesting"
	case BootstrapReady:
		return "ready"
	}
	return "unknown"
}

// Bootstrap guarantees the external player runtime is requested at most once
// per process lifetime and fans the "ready" notification out to every
// registrant, no matter when they registered relative to the load.
//
// Pending callbacks are aggregated in an ordered queue and drained on
// completion — append-then-drain, never a single overwritable slot. A
// registrant that arrives after the runtime is ready fires immediately.
type Bootstrap struct {
	mu         sync.Mutex
	loader     RuntimeLoader
	state      BootstrapState
	loadFailed bool // last attempt failed; the next registration re-attempts
	pending    []func(error)
}

// NewBootstrap returns a bootstrap that loads the runtime through loader.
func NewBootstrap(loader RuntimeLoader) *Bootstrap {
	return &Bootstrap{loader: loader}
}

// State returns the current load state.
func (b *Bootstrap) State() BootstrapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Pending returns the number of callbacks waiting on the load.
func (b *Bootstrap) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// RequestRuntime registers cb for the runtime-ready notification.
//
// First call initiates the one-time load. Calls while the load is in flight
// append to the pending queue without re-initiating it. Calls after the
// runtime is ready fire cb immediately. Every callback fires exactly once,
// in registration order, with a nil error on success or a *RuntimeLoadError
// when the load failed.
func (b *Bootstrap) RequestRuntime(cb func(error)) {
	b.mu.Lock()

	switch b.state {
	case BootstrapReady:
		b.mu.Unlock()
		cb(nil)
		return

	case BootstrapRequesting:
		b.pending = append(b.pending, cb)
		if !b.loadFailed {
			b.mu.Unlock()
			return
		}
		// The previous attempt failed and its registrants were already
		// notified. This registration is the caller-initiated retry.
		b.loadFailed = false
		b.mu.Unlock()
		logger.Info("re-requesting player runtime after failed load")
		b.loader.LoadRuntime(b.loadDone)
		return
	}

	b.state = BootstrapRequesting
	b.pending = append(b.pending, cb)
	b.mu.Unlock()

	logger.Info("requesting player runtime")
	b.loader.LoadRuntime(b.loadDone)
}

// loadDone is the single completion hook installed for a load attempt.
func (b *Bootstrap) loadDone(err error) {
	b.mu.Lock()

	if err != nil {
		// Surface the failure to everyone currently waiting and stay in
		// Requesting. No automatic retry.
		cbs := b.pending
		b.pending = nil
		b.loadFailed = true
		b.mu.Unlock()

		logger.Error("player runtime load failed", logger.ErrorField(err))
		loadErr := &RuntimeLoadError{Err: err}
		for _, cb := range cbs {
			cb(loadErr)
		}
		return
	}

	b.state = BootstrapReady
	cbs := b.pending
	b.pending = nil
	b.mu.Unlock()

	logger.Info("player runtime ready", logger.Int("notified", len(cbs)))
	for _, cb := range cbs {
		cb(nil)
	}
}
