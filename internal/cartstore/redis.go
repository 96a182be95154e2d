// Package cartstore persists carts in Redis, one JSON document per session.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/cart"
)

const (
	DefaultPrefix = "cart:"
	maxRetries    = 5
)

var ErrConcurrentUpdate = errors.New("cart changed concurrently, retries exhausted")

type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, Prefix: DefaultPrefix, TTL: ttl}
}

func (s *RedisStore) key(sid string) string {
	return s.Prefix + sid
}

// Get returns the session's cart, or an empty cart when none is stored.
func (s *RedisStore) Get(ctx context.Context, sid string) (cart.Cart, error) {
	return load(ctx, s.Client, s.key(sid))
}

// Update loads the cart, applies fn and writes it back, all under WATCH.
// A concurrent write to the same session restarts the cycle.
func (s *RedisStore) Update(ctx context.Context, sid string, fn func(*cart.Cart) error) (cart.Cart, error) {
	key := s.key(sid)
	var result cart.Cart

	txf := func(tx *redis.Tx) error {
		c, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, s.TTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = c
		return nil
	}

	for i := 0; i < maxRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return cart.Cart{}, err
	}
	return cart.Cart{}, ErrConcurrentUpdate
}

// ClearIfVersion deletes the cart only if it still has the given version.
// It reports whether the cart was cleared.
func (s *RedisStore) ClearIfVersion(ctx context.Context, sid string, version int64) (bool, error) {
	key := s.key(sid)
	cleared := false

	txf := func(tx *redis.Tx) error {
		c, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if c.Version != version {
			cleared = false
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		cleared = true
		return nil
	}

	for i := 0; i < maxRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return cleared, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return false, err
	}
	return false, ErrConcurrentUpdate
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.Client.Del(ctx, s.key(sid)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func load(ctx context.Context, c redis.Cmdable, key string) (cart.Cart, error) {
	var out cart.Cart
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return cart.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return out, nil
}
