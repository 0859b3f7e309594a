package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values under "<namespace>:<key>" and announces every write
// on "<namespace>:changes".
type RedisStore struct {
	client    *redis.Client
	namespace string
	origin    string
	log       logging.Logger
	w         watchers
}

type redisChange struct {
	Key     string `json:"key"`
	Origin  string `json:"origin"`
	Value   []byte `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

func NewRedisStore(client *redis.Client, namespace string, log logging.Logger) *RedisStore {
	if log == nil {
		log = logging.Nop()
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
		origin:    uuid.NewString(),
		log:       log.With("component", "redis-store"),
	}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(k string) string { return s.namespace + ":" + k }

func (s *RedisStore) channel() string { return s.namespace + ":changes" }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.w.isClosed() {
		return nil, ErrClosed
	}
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return s.write(ctx, redisChange{Key: key, Origin: s.origin, Value: value})
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.write(ctx, redisChange{Key: key, Origin: s.origin, Deleted: true})
}

func (s *RedisStore) write(ctx context.Context, c redisChange) error {
	if s.w.isClosed() {
		return ErrClosed
	}
	msg, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if c.Deleted {
			p.Del(ctx, s.key(c.Key))
		} else {
			p.Set(ctx, s.key(c.Key), c.Value, 0)
		}
		p.Publish(ctx, s.channel(), msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Key, err)
	}
	return nil
}

func (s *RedisStore) Watch(key string, fn ChangeFunc) (func(), error) {
	return s.w.add(key, fn)
}

func (s *RedisStore) Origin() string { return s.origin }

// Run subscribes to the change channel and dispatches foreign changes until
// ctx is done. ready, when non-nil, is closed once the subscription is active.
func (s *RedisStore) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := s.client.Subscribe(ctx, s.channel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel(), err)
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.dispatch(ctx, msg.Payload)
		}
	}
}

func (s *RedisStore) dispatch(ctx context.Context, payload string) {
	var c redisChange
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		s.log.Warn(ctx, "malformed change message", "error", err)
		return
	}
	if c.Origin == s.origin {
		return
	}
	var value []byte
	if !c.Deleted {
		value = c.Value
		if value == nil {
			value = []byte{}
		}
	}
	s.w.notify(c.Key, value)
}

// Close stops delivering changes. The redis client belongs to the caller.
func (s *RedisStore) Close() error {
	s.w.close()
	return nil
}
