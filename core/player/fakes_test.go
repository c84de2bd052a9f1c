package player

import "sync"

// fakeLoader records load attempts and lets the test decide when and how
// each one completes.
type fakeLoader struct {
	mu    sync.Mutex
	calls int
	done  func(error)
}

func (l *fakeLoader) LoadRuntime(done func(err error)) {
	l.mu.Lock()
	l.calls++
	l.done = done
	l.mu.Unlock()
}

func (l *fakeLoader) loadCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// complete finishes the most recent load attempt.
func (l *fakeLoader) complete(err error) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	done(err)
}

// fakePlayer counts the calls reaching the embed handle.
type fakePlayer struct {
	mu           sync.Mutex
	seeks        []float64
	offset       float64
	destroys     int
	destroyErr   error
	destroyPanic bool
}

func (p *fakePlayer) SeekTo(seconds float64, resume bool) {
	p.mu.Lock()
	p.seeks = append(p.seeks, seconds)
	p.mu.Unlock()
}

func (p *fakePlayer) CurrentOffsetSeconds() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

func (p *fakePlayer) Destroy() error {
	p.mu.Lock()
	p.destroys++
	panicking := p.destroyPanic
	err := p.destroyErr
	p.mu.Unlock()
	if panicking {
		panic("destroy exploded")
	}
	return err
}

func (p *fakePlayer) seekLog() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.seeks))
	copy(out, p.seeks)
	return out
}

func (p *fakePlayer) destroyCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroys
}

// fakeFactory hands construction signals back to the test instead of a real
// runtime.
type fakeFactory struct {
	mu      sync.Mutex
	created []EmbedConfig
	events  []InstanceEvents
}

func (f *fakeFactory) CreatePlayer(cfg EmbedConfig, events InstanceEvents) {
	f.mu.Lock()
	f.created = append(f.created, cfg)
	f.events = append(f.events, events)
	f.mu.Unlock()
}

func (f *fakeFactory) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeFactory) lastEvents() InstanceEvents {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}
