package player

import (
	"errors"
	"fmt"
	"testing"
)

func testConfig() EmbedConfig {
	return EmbedConfig{
		VideoID:        "dQw4w9WgXcQ",
		StartOffsetSec: 12.0,
		Flags:          DefaultDisplayFlags("https://basstab.example"),
	}
}

// newReadyController drives a controller all the way to Ready against the
// given fakes.
func newReadyController(t *testing.T, loader *fakeLoader, factory *fakeFactory) (*Controller, *fakePlayer) {
	t.Helper()

	c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	loader.complete(nil)

	p := &fakePlayer{}
	factory.lastEvents().PlayerReady(p)

	if c.State() != StateReady {
		t.Fatalf("state = %v after ready signal, want ready", c.State())
	}
	return c, p
}

func TestNewControllerRejectsMalformedIDWithoutBootstrapContact(t *testing.T) {
	loader := &fakeLoader{}
	boot := NewBootstrap(loader)

	c, err := NewController("source", EmbedConfig{VideoID: "nope"}, boot, &fakeFactory{})
	if c != nil {
		t.Fatal("NewController() returned a controller for a malformed identifier")
	}
	var ierr *InvalidIdentifierError
	if !errors.As(err, &ierr) {
		t.Fatalf("error = %v, want *InvalidIdentifierError", err)
	}
	if loader.loadCalls() != 0 {
		t.Fatal("bootstrap was contacted for a malformed identifier")
	}
	if boot.Pending() != 0 {
		t.Fatal("malformed identifier left a pending registration behind")
	}
}

func TestControllerLifecycleToReady(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}
	boot := NewBootstrap(loader)

	c, err := NewController("derivative", testConfig(), boot, factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	if c.State() != StateAwaitingRuntime {
		t.Fatalf("state = %v before runtime, want awaiting_runtime", c.State())
	}
	if factory.createCalls() != 0 {
		t.Fatal("factory invoked before the runtime was ready")
	}

	loader.complete(nil)
	if c.State() != StateInitializing {
		t.Fatalf("state = %v after runtime, want initializing", c.State())
	}
	if factory.createCalls() != 1 {
		t.Fatalf("factory invoked %d times, want 1", factory.createCalls())
	}

	factory.lastEvents().PlayerReady(&fakePlayer{})
	if c.State() != StateReady {
		t.Fatalf("state = %v, want ready", c.State())
	}
}

func TestSeekDroppedUnlessReady(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}

	c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}

	// Awaiting runtime: no player exists yet, so a seek must be dropped
	// silently rather than raise.
	c.SeekTo(30.0)
	if c.CurrentOffset() != 0 {
		t.Fatal("offset query before ready must report 0")
	}

	loader.complete(nil)
	p := &fakePlayer{offset: 21.5}
	factory.lastEvents().PlayerReady(p)

	c.SeekTo(30.0)
	c.SeekTo(-2.0) // negatives dropped even when ready
	if got := p.seekLog(); len(got) != 1 || got[0] != 30.0 {
		t.Fatalf("seek log = %v, want [30]", got)
	}
	if c.CurrentOffset() != 21.5 {
		t.Fatalf("CurrentOffset() = %v, want 21.5", c.CurrentOffset())
	}
}

func TestRuntimeLoadFailureMovesControllerToError(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}

	c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	loader.complete(fmt.Errorf("network down"))

	if c.State() != StateError {
		t.Fatalf("state = %v, want error", c.State())
	}
	var lerr *RuntimeLoadError
	if !errors.As(c.Err(), &lerr) {
		t.Fatalf("Err() = %v, want *RuntimeLoadError", c.Err())
	}
	if factory.createCalls() != 0 {
		t.Fatal("factory invoked despite runtime load failure")
	}
}

func TestPlayerFailedMapsErrorCodes(t *testing.T) {
	tests := []struct {
		code int
		want ErrorReason
	}{
		{2, ReasonInvalidVideo},
		{100, ReasonInvalidVideo},
		{101, ReasonEmbedRejected},
		{150, ReasonEmbedRejected},
		{5, ReasonPlayback},
		{9999, ReasonPlayback},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			loader := &fakeLoader{}
			factory := &fakeFactory{}
			c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
			if err != nil {
				t.Fatalf("NewController() = %v", err)
			}
			loader.complete(nil)

			factory.lastEvents().PlayerFailed(tt.code)

			if c.State() != StateError {
				t.Fatalf("state = %v, want error", c.State())
			}
			var perr *PlaybackError
			if !errors.As(c.Err(), &perr) {
				t.Fatalf("Err() = %v, want *PlaybackError", c.Err())
			}
			if perr.Reason != tt.want || perr.Code != tt.code {
				t.Fatalf("got reason %q code %d, want %q %d", perr.Reason, perr.Code, tt.want, tt.code)
			}
		})
	}
}

func TestCloseDestroysAtMostOnceAndSwallowsPanics(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}
	c, p := newReadyController(t, loader, factory)
	p.destroyPanic = true

	// A panicking embed must not escape teardown, and repeated Close calls
	// must not reach the embed again.
	c.Close()
	c.Close()

	if got := p.destroyCalls(); got != 1 {
		t.Fatalf("destroy called %d times, want 1", got)
	}
}

func TestCloseSwallowsDestroyError(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}
	c, p := newReadyController(t, loader, factory)
	p.destroyErr = fmt.Errorf("already gone")

	c.Close()

	if got := p.destroyCalls(); got != 1 {
		t.Fatalf("destroy called %d times, want 1", got)
	}
}

func TestLateRuntimeCallbackOnClosedControllerIsNoOp(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}

	c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}

	// Dispose while the registration is still queued in the bootstrap.
	c.Close()
	loader.complete(nil)

	if factory.createCalls() != 0 {
		t.Fatal("factory invoked for a disposed controller")
	}
	if c.State() != StateAwaitingRuntime {
		t.Fatalf("disposed controller advanced to %v", c.State())
	}
}

func TestPlayerReadyAfterCloseDestroysTheNewEmbed(t *testing.T) {
	loader := &fakeLoader{}
	factory := &fakeFactory{}

	c, err := NewController("source", testConfig(), NewBootstrap(loader), factory)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	loader.complete(nil)

	c.Close()

	// The embed finished constructing after disposal: it must be torn down
	// immediately instead of leaking.
	p := &fakePlayer{}
	factory.lastEvents().PlayerReady(p)

	if got := p.destroyCalls(); got != 1 {
		t.Fatalf("late embed destroy called %d times, want 1", got)
	}
	if c.State() == StateReady {
		t.Fatal("disposed controller reached ready")
	}
}
