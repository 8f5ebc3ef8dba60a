package uikit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Animation defaults.
const (
	DefaultMoveSpeed float32 = 50 // Units per second
	// AnimationStep is the interval between interpolation frames.
	AnimationStep = 16 * time.Millisecond
	// moveEpsilon is how close a fluent move must get before it lands on target.
	moveEpsilon float32 = 0.5
)

// AnimOption configures MoveTo and FadeOut.
type AnimOption func(*animOptions)

type animOptions struct {
	fluent     bool
	speed      float32
	onComplete func()
	startAlpha uint8
	endAlpha   uint8
}

func newAnimOptions(opts []AnimOption) animOptions {
	o := animOptions{speed: DefaultMoveSpeed, startAlpha: 255, endAlpha: 0}
	for _, opt := range opts {
		opt(&o)
	}
	if o.speed <= 0 {
		o.speed = DefaultMoveSpeed
	}
	return o
}

// Fluent makes MoveTo interpolate toward the target at speed units/second
// instead of jumping.
func Fluent(speed float32) AnimOption {
	return func(o *animOptions) {
		o.fluent = true
		o.speed = speed
	}
}

// OnComplete sets a callback run exactly once when the animation ends,
// whether it finished or was stopped.
func OnComplete(fn func()) AnimOption {
	return func(o *animOptions) { o.onComplete = fn }
}

// AlphaRange sets the start and end alpha of a fade.
func AlphaRange(start, end uint8) AnimOption {
	return func(o *animOptions) {
		o.startAlpha = start
		o.endAlpha = end
	}
}

// clock is the time source of the animation loops. Tests replace it to
// step animations deterministically.
type clock interface {
	Now() time.Time
	// Tick returns a channel delivering ticks every d and a func stopping it.
	Tick(d time.Duration) (<-chan time.Time, func())
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// effect serializes the background tasks animating one property.
// Starting a task cancels the previous one; the new task waits for the
// previous task to exit before stepping. Each task has a generation number,
// and writers check it under the owner's lock so stale tasks cannot write.
type effect struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// begin supersedes the running task and returns the new generation, its
// context, the predecessor's done channel (nil if none) and its own done
// channel, which the caller must close when the task exits.
func (e *effect) begin() (gen uint64, ctx context.Context, prev <-chan struct{}, done chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
	prev = e.done
	e.gen++
	ctx, e.cancel = context.WithCancel(context.Background())
	e.done = make(chan struct{})
	return e.gen, ctx, prev, e.done
}

// current reports whether gen is still the latest generation.
func (e *effect) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

// stop requests the running task to end.
func (e *effect) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// supersede cancels the running task and bumps the generation without
// starting a new task, so the caller may write the property directly.
func (e *effect) supersede() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
}

// running reports whether the latest task has not exited yet.
func (e *effect) running() bool {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	return done != nil && !isClosed(done)
}

// finish marks the task of generation gen as exited, dropping its cancel
// func if no newer task replaced it.
func (e *effect) finish(gen uint64, done chan struct{}) {
	e.mu.Lock()
	if e.gen == gen && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
	close(done)
}

// launch runs step in a goroutine after the predecessor exits. onComplete
// runs exactly once when the task ends, before done is closed.
func (e *effect) launch(step func(ctx context.Context, gen uint64), onComplete func()) <-chan struct{} {
	gen, ctx, prev, done := e.begin()
	go e.task(ctx, gen, prev, done, step, onComplete)()
	return done
}

// launchNow is launch for a single write. With no predecessor in flight the
// task runs on the caller's goroutine and has ended when launchNow returns;
// otherwise it runs once the predecessor has finished its OnComplete.
func (e *effect) launchNow(write func(gen uint64), onComplete func()) <-chan struct{} {
	gen, ctx, prev, done := e.begin()
	step := func(_ context.Context, gen uint64) { write(gen) }
	run := e.task(ctx, gen, prev, done, step, onComplete)
	if prev == nil || isClosed(prev) {
		run()
	} else {
		go run()
	}
	return done
}

func (e *effect) task(ctx context.Context, gen uint64, prev <-chan struct{}, done chan struct{},
	step func(ctx context.Context, gen uint64), onComplete func()) func() {
	return func() {
		defer e.finish(gen, done)
		if onComplete != nil {
			defer onComplete()
		}
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		step(ctx, gen)
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// stepFluentMove advances current toward target by at most speed*dt.
// It returns the new region and whether the target was reached.
func stepFluentMove(current, target Region, speed float32, dt time.Duration) (Region, bool) {
	dist := current.distance(target)
	step := speed * float32(dt.Seconds())
	if dist <= moveEpsilon || dist <= step {
		return target, true
	}
	return current.Lerp(target, step/dist), false
}

// fadeAlpha returns the alpha after elapsed of a linear fade. Intermediate
// values round toward start, so end is only reached once elapsed >= d.
func fadeAlpha(start, end uint8, elapsed, d time.Duration) (uint8, bool) {
	if d <= 0 || elapsed >= d {
		return end, true
	}
	if elapsed <= 0 {
		return start, false
	}
	p := float64(elapsed) / float64(d)
	s, e := float64(start), float64(end)
	v := s + (e-s)*p
	var out float64
	if end < start {
		out = math.Ceil(v)
	} else {
		out = math.Floor(v)
	}
	return uint8(out), false
}
