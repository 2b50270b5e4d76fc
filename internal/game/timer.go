package game

import (
	"sync"
	"time"
)

// Per-question time budget and host-advance tuning.
const (
	QuestionSeconds   = 10
	QuestionDuration  = QuestionSeconds * time.Second
	AdvanceGrace      = 500 * time.Millisecond
	VersusRevealDelay = 3 * time.Second
)

// Timer derives a per-client countdown from the server-stamped
// questionStartTime. Sync computes the remaining seconds once from the
// timestamp, then the countdown trusts local 1-second ticks instead of
// re-deriving from the wall clock each tick. A new start time cancels the
// running countdown and resyncs.
type Timer struct {
	onTick func(remaining int)
	nowFn  func() int64

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
}

// NewTimer creates a stopped timer. onTick receives the remaining seconds
// immediately on Sync and then once per second down to 0.
func NewTimer(onTick func(remaining int)) *Timer {
	return &Timer{
		onTick: onTick,
		nowFn:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Sync resets the countdown against a question start timestamp in
// milliseconds.
func (t *Timer) Sync(startTime int64) {
	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}

	elapsed := int((t.nowFn() - startTime) / 1000)
	remaining := QuestionSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > QuestionSeconds {
		remaining = QuestionSeconds
	}
	t.remaining = remaining

	var stop chan struct{}
	if remaining > 0 {
		stop = make(chan struct{})
		t.stop = stop
	}
	t.mu.Unlock()

	t.onTick(remaining)
	if stop != nil {
		go t.run(stop)
	}
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.mu.Lock()
			if t.stop != stop {
				t.mu.Unlock()
				return
			}
			t.remaining--
			remaining := t.remaining
			if remaining <= 0 {
				t.stop = nil
			}
			t.mu.Unlock()

			if remaining >= 0 {
				t.onTick(remaining)
			}
			if remaining <= 0 {
				return
			}
		case <-stop:
			return
		}
	}
}

// Stop cancels the running countdown, if any.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Remaining returns the current countdown value in seconds.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}
