package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Client with the same semantics as the Redis
// store: versioned documents, transactional mutation, and push-on-change
// fan-out. It backs tests and single-process dev mode (STORE=memory).
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*envelope
	subs map[string][]*memSub

	// clock has its own mutex so Now can be called from inside a
	// Transaction callback, where mu is already held.
	clockMu sync.Mutex
	clock   func() int64
}

// memSub is a one-slot mailbox: a publish overwrites the pending snapshot
// rather than queueing behind a slow subscriber. Intermediate snapshots may
// coalesce away, but the last write is always delivered, so every subscriber
// converges on the final state.
type memSub struct {
	mu      sync.Mutex
	pending *envelope

	notify chan struct{}
	closed chan struct{}
	once   sync.Once
}

func (s *memSub) publish(env envelope) {
	s.mu.Lock()
	s.pending = &env
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *memSub) take() (envelope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return envelope{}, false
	}
	env := *s.pending
	s.pending = nil
	return env, true
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]*envelope),
		subs:  make(map[string][]*memSub),
		clock: func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock overrides the store timestamp source. Tests use it to pin
// questionStartTime values.
func (s *MemoryStore) SetClock(clock func() int64) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.clock = clock
}

func (s *MemoryStore) Get(ctx context.Context, path string) (interface{}, error) {
	key, sub, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	env, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	copied, err := normalize(valueAt(env.Data, sub))
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *MemoryStore) mutate(key string, fn func(data interface{}) (interface{}, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.docs[key]
	if !ok {
		env = &envelope{}
	}
	// Hand fn a copy so an aborted transaction leaves the document intact.
	data, err := normalize(env.Data)
	if err != nil {
		return err
	}
	next, err := fn(data)
	if errors.Is(err, ErrAbort) {
		return nil
	}
	if err != nil {
		return err
	}
	next, err = normalize(next)
	if err != nil {
		return err
	}

	version := env.Version + 1
	if next == nil {
		delete(s.docs, key)
	} else {
		s.docs[key] = &envelope{Version: version, Data: next}
	}
	s.publishLocked(key, envelope{Version: version, Data: next})
	return nil
}

func (s *MemoryStore) publishLocked(key string, env envelope) {
	for _, sub := range s.subs[key] {
		sub.publish(env)
	}
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields Document) error {
	key, sub, err := splitPath(path)
	if err != nil {
		return err
	}
	return s.mutate(key, func(data interface{}) (interface{}, error) {
		node, ok := valueAt(data, sub).(Document)
		if !ok {
			node = Document{}
		}
		for k, v := range fields {
			if v == nil {
				delete(node, k)
			} else {
				node[k] = v
			}
		}
		return withValueAt(data, sub, node), nil
	})
}

func (s *MemoryStore) Transaction(ctx context.Context, path string, fn TxFunc) error {
	key, sub, err := splitPath(path)
	if err != nil {
		return err
	}
	return s.mutate(key, func(data interface{}) (interface{}, error) {
		next, err := fn(valueAt(data, sub))
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, ErrAbort
		}
		return withValueAt(data, sub, next), nil
	})
}

// Delete removes a whole document, pushing a nil snapshot to subscribers.
// The game never deletes rooms; tests use this to simulate a room vanishing
// out from under a live subscription.
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	key, _, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	env, ok := s.docs[key]
	if !ok {
		return nil
	}
	delete(s.docs, key)
	s.publishLocked(key, envelope{Version: env.Version + 1, Data: nil})
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, path string, fn func(interface{})) (func(), error) {
	key, _, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	sub := &memSub{
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}

	s.mu.Lock()
	s.subs[key] = append(s.subs[key], sub)
	var initial envelope
	if env, ok := s.docs[key]; ok {
		initial = *env
	}
	s.mu.Unlock()

	go func() {
		last := initial.Version
		data, err := normalize(initial.Data)
		if err == nil {
			fn(data)
		}
		for {
			select {
			case <-sub.notify:
				for {
					env, ok := sub.take()
					if !ok {
						break
					}
					if env.Version <= last {
						continue
					}
					last = env.Version
					fn(env.Data)
				}
			case <-sub.closed:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		sub.once.Do(func() {
			close(sub.closed)
			s.mu.Lock()
			list := s.subs[key]
			for i, candidate := range list {
				if candidate == sub {
					s.subs[key] = append(list[:i], list[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
	return cancel, nil
}

func (s *MemoryStore) Now(ctx context.Context) (int64, error) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.clock == nil {
		return 0, fmt.Errorf("store: no clock configured")
	}
	return s.clock(), nil
}
