package game

import (
	"context"
	"sync"
	"time"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

// Advancer is the host-only component that moves the match forward. Every
// client sees the same question start, but only the host schedules a check
// at startTime + duration + grace; the check re-reads the room and advances
// only if nobody already did. If the host client dies before the check
// fires, the match stalls; there is no other authority to take over.
type Advancer struct {
	store store.Client
	code  string
	nowFn func() int64

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
}

func NewAdvancer(st store.Client, code string) *Advancer {
	return &Advancer{
		store: st,
		code:  code,
		nowFn: func() int64 { return time.Now().UnixMilli() },
	}
}

// Schedule arms the advance check for question index at startTime. A
// previously armed check is cancelled first, so duplicate pushes for the
// same question never stack timers.
func (a *Advancer) Schedule(index int, startTime int64) {
	fireAt := startTime + QuestionDuration.Milliseconds() + AdvanceGrace.Milliseconds()
	delay := time.Duration(fireAt-a.nowFn()) * time.Millisecond
	if delay < 0 {
		delay = 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.pending != nil {
		a.pending.Stop()
	}
	a.pending = time.AfterFunc(delay, func() {
		a.fire(index)
	})
}

// Disarm stops the currently armed check, keeping the advancer usable. The
// waiting lobby and the finished screen both disarm.
func (a *Advancer) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}

// Cancel stops any armed check permanently.
func (a *Advancer) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}

func (a *Advancer) fire(index int) {
	// The AfterFunc may already be running when Cancel stops the timer; a
	// cancelled advancer must not write on behalf of a dead session.
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cheap pre-check before the transaction: if someone already advanced,
	// or the match left playing, there is nothing to do.
	doc, err := a.store.Get(ctx, roomPath(a.code))
	if err != nil || doc == nil {
		return
	}
	raw, ok := doc.(store.Document)
	if !ok {
		return
	}
	room, err := model.DecodeRoom(raw)
	if err != nil {
		return
	}
	if room.Status != model.StatusPlaying || room.QuestionIndex() != index {
		return
	}

	Advance(ctx, a.store, a.code, index)
}

// Advance transactionally moves the room past question index: it increments
// currentQuestionIndex with a fresh questionStartTime, or sets
// status=finished when the questions run out. The guard inside the
// transaction makes concurrent attempts for the same index resolve to
// exactly one winner; the loser's write is a no-op.
func Advance(ctx context.Context, st store.Client, code string, index int) error {
	return st.Transaction(ctx, roomPath(code), func(current interface{}) (interface{}, error) {
		doc, ok := current.(store.Document)
		if !ok {
			return nil, nil
		}
		room, err := model.DecodeRoom(doc)
		if err != nil {
			return nil, err
		}
		if room.Status != model.StatusPlaying || room.QuestionIndex() != index {
			return nil, nil
		}

		next := room.QuestionIndex() + 1
		if next < len(room.Questions) {
			now, err := st.Now(ctx)
			if err != nil {
				return nil, err
			}
			room.CurrentQuestionIndex = model.IntPtr(next)
			room.QuestionStartTime = now
		} else {
			room.Status = model.StatusFinished
		}
		return room.Doc()
	})
}
