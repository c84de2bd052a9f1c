package sync

import (
	"errors"
	gosync "sync"
	"testing"

	"BassTab/core/player"
	"BassTab/core/timeline"
	"BassTab/model"
)

// instantLoader completes the runtime load synchronously.
type instantLoader struct{}

func (instantLoader) LoadRuntime(done func(err error)) { done(nil) }

// recordingPlayer logs seeks; recordingFactory hands it straight back so the
// controller is Ready by the time NewController returns.
type recordingPlayer struct {
	mu    gosync.Mutex
	seeks []float64
}

func (p *recordingPlayer) SeekTo(seconds float64, resume bool) {
	p.mu.Lock()
	p.seeks = append(p.seeks, seconds)
	p.mu.Unlock()
}

func (p *recordingPlayer) CurrentOffsetSeconds() float64 { return 0 }
func (p *recordingPlayer) Destroy() error                { return nil }

func (p *recordingPlayer) seekLog() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.seeks))
	copy(out, p.seeks)
	return out
}

type recordingFactory struct {
	player *recordingPlayer
}

func (f *recordingFactory) CreatePlayer(cfg player.EmbedConfig, events player.InstanceEvents) {
	events.PlayerReady(f.player)
}

func testTimeline(t *testing.T) *timeline.Model {
	t.Helper()
	tl, err := timeline.New(&model.Tab{
		Tuning:     model.TuningEADG,
		Difficulty: 2,
		TabText:    "A|--5--3--|",
		Bars: []model.BarMarker{
			{Bar: 1, StartSec: 0.0},
			{Bar: 2, StartSec: 4.1},
		},
	})
	if err != nil {
		t.Fatalf("timeline.New() = %v", err)
	}
	return tl
}

func readyController(t *testing.T, name, videoID string) (*player.Controller, *recordingPlayer) {
	t.Helper()
	p := &recordingPlayer{}
	c, err := player.NewController(name, player.EmbedConfig{VideoID: videoID},
		player.NewBootstrap(instantLoader{}), &recordingFactory{player: p})
	if err != nil {
		t.Fatalf("NewController(%s) = %v", name, err)
	}
	if c.State() != player.StateReady {
		t.Fatalf("controller %s state = %v, want ready", name, c.State())
	}
	return c, p
}

func boundCoordinator(t *testing.T) (*Coordinator, *recordingPlayer, *recordingPlayer) {
	t.Helper()
	derivative, derivativeEmbed := readyController(t, "derivative", "_JZom_gVfuw")
	source, sourceEmbed := readyController(t, "source", "vG0ZvhD6YKI")

	coord := NewCoordinator()
	coord.Bind(testTimeline(t), map[Role]*player.Controller{
		RoleDerivative: derivative,
		RoleSource:     source,
	})
	return coord, derivativeEmbed, sourceEmbed
}

func TestSelectMarkerSeeksOnlySourcePlayer(t *testing.T) {
	coord, derivativeEmbed, sourceEmbed := boundCoordinator(t)

	if err := coord.SelectMarker(2); err != nil {
		t.Fatalf("SelectMarker(2) = %v", err)
	}

	if got := sourceEmbed.seekLog(); len(got) != 1 || got[0] != 4.1 {
		t.Fatalf("source seeks = %v, want [4.1]", got)
	}
	// Markers annotate the original recording, so the derivative player must
	// never move on selection.
	if got := derivativeEmbed.seekLog(); len(got) != 0 {
		t.Fatalf("derivative seeks = %v, want none", got)
	}

	sel, ok := coord.Selected()
	if !ok || sel.Bar != 2 {
		t.Fatalf("Selected() = %+v, %v", sel, ok)
	}
}

func TestSelectMarkerUnknownBarPropagatesWithoutSeeking(t *testing.T) {
	coord, _, sourceEmbed := boundCoordinator(t)

	err := coord.SelectMarker(99)
	if !errors.Is(err, timeline.ErrMarkerNotFound) {
		t.Fatalf("SelectMarker(99) = %v, want ErrMarkerNotFound", err)
	}
	if got := sourceEmbed.seekLog(); len(got) != 0 {
		t.Fatalf("source seeks = %v, want none on failed lookup", got)
	}
	if _, ok := coord.Selected(); ok {
		t.Fatal("failed lookup recorded a selection")
	}
}

func TestReselectingCurrentMarkerReseeks(t *testing.T) {
	coord, _, sourceEmbed := boundCoordinator(t)

	if err := coord.SelectMarker(1); err != nil {
		t.Fatalf("SelectMarker(1) = %v", err)
	}
	// After manual scrubbing the user clicks the same bar again: the jump
	// must be re-issued, not deduplicated.
	if err := coord.SelectMarker(1); err != nil {
		t.Fatalf("SelectMarker(1) again = %v", err)
	}

	if got := sourceEmbed.seekLog(); len(got) != 2 || got[0] != 0.0 || got[1] != 0.0 {
		t.Fatalf("source seeks = %v, want [0 0]", got)
	}
}

func TestSelectMarkerOnUnboundCoordinatorFails(t *testing.T) {
	coord := NewCoordinator()
	if err := coord.SelectMarker(1); err == nil {
		t.Fatal("SelectMarker on unbound coordinator = nil, want error")
	}
}

func TestRebindClearsSelection(t *testing.T) {
	coord, _, _ := boundCoordinator(t)

	if err := coord.SelectMarker(1); err != nil {
		t.Fatalf("SelectMarker(1) = %v", err)
	}
	coord.Bind(testTimeline(t), nil)

	if _, ok := coord.Selected(); ok {
		t.Fatal("rebinding kept the stale selection")
	}
}
