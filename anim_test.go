package uikit

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock steps animations by hand. Each advance delivers one tick to
// every live ticker and returns once all of them took it or stopped.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	changed chan struct{} // Closed when a ticker starts or stops
}

type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func useFakeClock(b *Button) *fakeClock {
	c := &fakeClock{
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		changed: make(chan struct{}),
	}
	b.clock = c
	return c
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Tick(time.Duration) (<-chan time.Time, func()) {
	t := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.notify()
	c.mu.Unlock()
	return t.c, func() {
		t.once.Do(func() { close(t.stopped) })
		c.mu.Lock()
		c.tickers = slices.DeleteFunc(c.tickers, func(x *fakeTicker) bool { return x == t })
		c.notify()
		c.mu.Unlock()
	}
}

func (c *fakeClock) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// advance moves time forward by d and ticks. It returns how many tickers
// were live and a channel closed on the next ticker change after that.
func (c *fakeClock) advance(d time.Duration) (int, <-chan struct{}) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := slices.Clone(c.tickers)
	changed := c.changed
	c.mu.Unlock()
	for _, t := range tickers {
		select {
		case t.c <- now:
		case <-t.stopped:
		}
	}
	return len(tickers), changed
}

// waitTickers blocks until n tickers are live.
func (c *fakeClock) waitTickers(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		c.mu.Lock()
		live, changed := len(c.tickers), c.changed
		c.mu.Unlock()
		if live >= n {
			return
		}
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("%d tickers live, want %d", live, n)
		}
	}
}

// runUntil ticks in AnimationStep increments until done is closed.
func (c *fakeClock) runUntil(t *testing.T, done <-chan struct{}) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("animation did not finish")
		default:
		}
		if n, changed := c.advance(AnimationStep); n == 0 {
			select {
			case <-done:
				return
			case <-changed:
			case <-deadline:
				t.Fatal("animation did not finish")
			}
		}
	}
}

// recorder collects completion events from animation goroutines.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(s string) func() {
	return func() {
		r.mu.Lock()
		r.events = append(r.events, s)
		r.mu.Unlock()
	}
}

func (r *recorder) want(t *testing.T, want ...string) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Equal(r.events, want) {
		t.Errorf("completion order = %v, want %v", r.events, want)
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("animation did not finish")
	}
}

func TestStepFluentMove(t *testing.T) {
	from := Region{X: 0, Y: 0, W: 10, H: 10}
	to := Region{X: 100, Y: 0, W: 10, H: 10}

	r, arrived := stepFluentMove(from, to, 50, time.Second)
	if arrived || !r.ApproxEqual(Region{X: 50, Y: 0, W: 10, H: 10}, 1e-3) {
		t.Errorf("first step = %+v arrived=%v, want X=50", r, arrived)
	}
	r, arrived = stepFluentMove(r, to, 50, time.Second)
	if !arrived || r != to {
		t.Errorf("second step = %+v arrived=%v, want target", r, arrived)
	}

	// Within the epsilon the move lands exactly on target.
	r, arrived = stepFluentMove(Region{X: 99.8, W: 10, H: 10}, to, 50, time.Millisecond)
	if !arrived || r != to {
		t.Errorf("epsilon step = %+v arrived=%v", r, arrived)
	}
}

func TestFadeAlpha(t *testing.T) {
	const d = time.Second
	last := uint8(255)
	for elapsed := time.Duration(0); elapsed < d; elapsed += 10 * time.Millisecond {
		a, finished := fadeAlpha(255, 0, elapsed, d)
		if finished {
			t.Fatalf("finished early at %v", elapsed)
		}
		if a > last {
			t.Fatalf("alpha rose from %d to %d at %v", last, a, elapsed)
		}
		if a == 0 {
			t.Fatalf("alpha reached 0 at %v, before %v", elapsed, d)
		}
		last = a
	}
	if a, finished := fadeAlpha(255, 0, d, d); a != 0 || !finished {
		t.Errorf("at d got %d finished=%v", a, finished)
	}
	if a, finished := fadeAlpha(0, 200, 0, 0); a != 200 || !finished {
		t.Errorf("zero duration got %d finished=%v", a, finished)
	}
	if a, _ := fadeAlpha(0, 200, d/2, d); a != 100 {
		t.Errorf("fade in half way = %d, want 100", a)
	}
}

func TestMoveToInstant(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	called := 0
	target := Region{X: 40, Y: 30, W: 20, H: 20}

	done := b.MoveTo(target, OnComplete(func() { called++ }))
	select {
	case <-done:
	default:
		t.Fatal("instant move should return a closed channel")
	}
	if called != 1 || b.Region() != target {
		t.Errorf("called=%d region=%+v", called, b.Region())
	}
}

func TestMoveToSupersedes(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	var rec recorder
	target := Region{X: 20, Y: 0, W: 10, H: 10}

	first := b.MoveTo(Region{X: 1000, Y: 1000, W: 10, H: 10}, Fluent(10), OnComplete(rec.record("a")))
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)

	done := b.MoveTo(target, Fluent(1000), OnComplete(rec.record("b")))
	waitDone(t, first)
	fc.runUntil(t, done)

	if b.Region() != target {
		t.Errorf("region = %+v, want %+v", b.Region(), target)
	}
	rec.want(t, "a", "b")
	if b.IsMoving() {
		t.Error("no move should be running")
	}
}

func TestInstantMoveWaitsForFluentMove(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	var rec recorder
	target := Region{X: 40, Y: 40, W: 10, H: 10}

	first := b.MoveTo(Region{X: 1000, W: 10, H: 10}, Fluent(10), OnComplete(rec.record("a")))
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)
	fc.advance(AnimationStep)

	done := b.MoveTo(target, OnComplete(rec.record("b")))
	waitDone(t, first)
	waitDone(t, done)

	rec.want(t, "a", "b")
	if b.Region() != target {
		t.Errorf("region = %+v, want %+v", b.Region(), target)
	}
	if b.IsMoving() {
		t.Error("no move should be running")
	}
}

func TestInstantMoveFromOnComplete(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	home := Region{W: 10, H: 10}
	back := make(chan (<-chan struct{}), 1)

	first := b.MoveTo(Region{X: 100, W: 10, H: 10}, Fluent(10000), OnComplete(func() {
		back <- b.MoveTo(home)
	}))
	fc.runUntil(t, first)
	waitDone(t, <-back)

	if b.Region() != home {
		t.Errorf("region = %+v, want %+v", b.Region(), home)
	}
}

func TestStopMove(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	target := Region{X: 10000, W: 10, H: 10}
	var calls atomic.Int32

	done := b.MoveTo(target, Fluent(100), OnComplete(func() { calls.Add(1) }))
	fc.waitTickers(t, 1)
	for range 3 {
		fc.advance(AnimationStep)
	}
	b.StopMove()
	waitDone(t, done)
	b.StopMove()

	if r := b.Region(); r == target || r.X <= 0 {
		t.Errorf("stopped move at %+v, want part way", r)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("OnComplete ran %d times, want 1", n)
	}
}

func TestDragSupersedesFluentMove(t *testing.T) {
	start := Region{X: 0, Y: 0, W: 100, H: 100}
	b := NewButton(nil, "b", start)
	fc := useFakeClock(b)
	b.SetSnapConfig(SnapConfig{})
	b.SetEditMode(true)

	done := b.MoveTo(Region{X: 5000, Y: 0, W: 100, H: 100}, Fluent(10))
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)
	fc.advance(AnimationStep)
	b.OnEditMouseDown(Vec2{X: 50, Y: 50})
	waitDone(t, done)

	// The drag is relative to wherever the move had got to.
	r := b.Region()
	b.OnEditMouseMove(Vec2{X: 60, Y: 50})
	if got := b.Region(); got.X != r.X+10 {
		t.Errorf("drag region = %+v, want X=%v", got, r.X+10)
	}
	fc.advance(AnimationStep)
	if got := b.Region(); got.X != r.X+10 {
		t.Errorf("superseded move wrote %+v after the drag began", got)
	}
}

func TestMoveToDuringDragIsIgnored(t *testing.T) {
	start := Region{X: 0, Y: 0, W: 100, H: 100}
	b := NewButton(nil, "b", start)
	b.SetSnapConfig(SnapConfig{})
	b.SetEditMode(true)
	if !b.OnEditMouseDown(Vec2{X: 50, Y: 50}) {
		t.Fatal("expected a drag")
	}

	var calls atomic.Int32
	away := Region{X: 500, Y: 500, W: 100, H: 100}
	waitDone(t, b.MoveTo(away, OnComplete(func() { calls.Add(1) })))
	waitDone(t, b.MoveTo(away, Fluent(100), OnComplete(func() { calls.Add(1) })))
	if b.Region() != start {
		t.Errorf("region = %+v, want the drag to keep %+v", b.Region(), start)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("OnComplete ran %d times, want 2", n)
	}

	b.OnEditMouseUp(Vec2{X: 50, Y: 50})
	waitDone(t, b.MoveTo(away))
	if b.Region() != away {
		t.Errorf("after the drag region = %+v, want %+v", b.Region(), away)
	}
}

func TestFadeOutMonotonic(t *testing.T) {
	const steps = 10
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)

	done := b.FadeOut(steps * AnimationStep)
	fc.waitTickers(t, 1)
	last := uint8(255)
	for i := 1; i <= steps; i++ {
		fc.advance(AnimationStep)
		a := b.Alpha()
		if a > last {
			t.Fatalf("alpha rose from %d to %d", last, a)
		}
		if a == 0 && i < steps {
			t.Fatalf("alpha reached 0 after %d of %d steps", i, steps)
		}
		last = a
	}
	waitDone(t, done)
	if b.Alpha() != 0 {
		t.Errorf("final alpha = %d, want 0", b.Alpha())
	}
}

func TestFadeOutSupersedesFade(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	var rec recorder
	var alphaAtFirst uint8

	first := b.FadeOut(time.Hour, OnComplete(func() {
		alphaAtFirst = b.Alpha()
		rec.record("a")()
	}))
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)

	second := b.FadeOut(2*AnimationStep, AlphaRange(100, 0), OnComplete(rec.record("b")))
	waitDone(t, first)
	// The second fade starts by writing 100.
	if alphaAtFirst != 255 {
		t.Errorf("first fade completed at alpha %d, after the second fade stepped", alphaAtFirst)
	}
	fc.runUntil(t, second)

	rec.want(t, "a", "b")
	if b.Alpha() != 0 {
		t.Errorf("alpha = %d, want 0", b.Alpha())
	}
}

func TestStopFadeCompletesOnce(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	var calls atomic.Int32

	done := b.FadeOut(time.Hour, OnComplete(func() { calls.Add(1) }))
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)
	b.StopFade()
	waitDone(t, done)
	b.StopFade()
	b.SetAlpha(10)

	if n := calls.Load(); n != 1 {
		t.Errorf("OnComplete ran %d times, want 1", n)
	}
	if b.IsFading() {
		t.Error("fade should be over")
	}
}

func TestMoveAndFadeRunIndependently(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)

	move := b.MoveTo(Region{X: 10000, W: 10, H: 10}, Fluent(100))
	fade := b.FadeOut(2 * AnimationStep)
	fc.waitTickers(t, 2)
	fc.runUntil(t, fade)

	if b.Alpha() != 0 {
		t.Errorf("alpha = %d, want 0", b.Alpha())
	}
	if !b.IsMoving() {
		t.Error("finishing the fade must not end the move")
	}
	if b.Region().X <= 0 {
		t.Errorf("region = %+v, want the move to step alongside the fade", b.Region())
	}

	b.StopMove()
	waitDone(t, move)
	if b.Alpha() != 0 {
		t.Error("stopping the move must not touch the alpha")
	}
}

func TestSetAlphaSupersedesFade(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	fc := useFakeClock(b)
	done := b.FadeOut(time.Hour)
	fc.waitTickers(t, 1)
	fc.advance(AnimationStep)

	b.SetAlpha(128)
	waitDone(t, done)
	if b.Alpha() != 128 {
		t.Errorf("alpha = %d, want 128", b.Alpha())
	}
	if b.IsFading() {
		t.Error("fade should be over")
	}
}

func TestFadeOutRange(t *testing.T) {
	b := NewButton(nil, "b", Region{W: 10, H: 10})
	waitDone(t, b.FadeOut(0, AlphaRange(0, 200)))
	if b.Alpha() != 200 {
		t.Errorf("alpha = %d, want 200", b.Alpha())
	}
}
