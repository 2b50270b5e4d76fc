package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const txRetries = 16

// envelope wraps every stored document with a version counter so that
// subscribers can reject out-of-order deliveries.
type envelope struct {
	Version int64       `json:"v"`
	Data    interface{} `json:"data"`
}

// RedisStore keeps each document root as one Redis key holding JSON and
// pushes changes over Pub/Sub. Compare-and-set is WATCH/MULTI with a bounded
// retry loop; Now is the Redis server clock, so every client shares one
// timestamp domain.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func channel(key string) string {
	return "push:" + key
}

func (s *RedisStore) load(ctx context.Context, key string) (*envelope, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &envelope{}, nil
	}
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("store: corrupt document %s: %w", key, err)
	}
	return &env, nil
}

func (s *RedisStore) Get(ctx context.Context, path string) (interface{}, error) {
	key, sub, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	env, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return valueAt(env.Data, sub), nil
}

// mutate applies fn to the document at key under WATCH, retrying while
// concurrent writers invalidate the read. fn returning ErrAbort leaves the
// document untouched and is not an error.
func (s *RedisStore) mutate(ctx context.Context, key string, fn func(data interface{}) (interface{}, error)) error {
	txf := func(tx *redis.Tx) error {
		env := envelope{}
		raw, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			if err := json.Unmarshal([]byte(raw), &env); err != nil {
				return fmt.Errorf("store: corrupt document %s: %w", key, err)
			}
		}

		next, err := fn(env.Data)
		if err != nil {
			return err
		}
		next, err = normalize(next)
		if err != nil {
			return err
		}

		env.Version++
		env.Data = next
		payload, err := json.Marshal(&env)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, payload, 0)
			}
			pipe.Publish(ctx, channel(key), payload)
			return nil
		})
		return err
	}

	for i := 0; i < txRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		if errors.Is(err, ErrAbort) {
			return nil
		}
		return err
	}
	return fmt.Errorf("store: transaction on %s exhausted retries", key)
}

func (s *RedisStore) Update(ctx context.Context, path string, fields Document) error {
	key, sub, err := splitPath(path)
	if err != nil {
		return err
	}
	return s.mutate(ctx, key, func(data interface{}) (interface{}, error) {
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

func (s *RedisStore) Transaction(ctx context.Context, path string, fn TxFunc) error {
	key, sub, err := splitPath(path)
	if err != nil {
		return err
	}
	return s.mutate(ctx, key, func(data interface{}) (interface{}, error) {
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

func (s *RedisStore) Subscribe(ctx context.Context, path string, fn func(interface{})) (func(), error) {
	key, _, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	pubsub := s.client.Subscribe(ctx, channel(key))
	// Confirm the subscription before the initial fetch so no change can
	// slip between the two.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	ch := pubsub.Channel()

	go func() {
		var last int64
		if env, err := s.load(ctx, key); err == nil {
			last = env.Version
			fn(env.Data)
		}
		for msg := range ch {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			if env.Version <= last {
				continue
			}
			last = env.Version
			fn(env.Data)
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { pubsub.Close() })
	}
	return cancel, nil
}

func (s *RedisStore) Now(ctx context.Context) (int64, error) {
	t, err := s.client.Time(ctx).Result()
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
