package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "acceptance:context:"

// Store implements ports.ContextStore using Redis.
// Each scope is one hash keyed by <prefix><scope>; values are JSON encoded,
// so they come back with JSON types (numbers as float64).
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ContextStore = (*Store)(nil)

type Option func(*Store)

// WithTTL expires a scope ttl after its last write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for scopes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(scope domain.FeatureScope) string {
	return s.prefix + string(scope)
}

func (s *Store) indexKey() string {
	return s.prefix + "scopes"
}

// Get reads key from the scope hash.
func (s *Store) Get(ctx context.Context, scope domain.FeatureScope, key string) (any, bool, error) {
	raw, err := s.client.HGet(ctx, s.key(scope), key).Result()
	if errors.Is(err, backend.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes key into the scope hash and records the scope in the index.
func (s *Store) Set(ctx context.Context, scope domain.FeatureScope, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(scope), key, data)
	pipe.SAdd(ctx, s.indexKey(), string(scope))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(scope), s.ttl)
		pipe.Expire(ctx, s.indexKey(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Reset deletes every indexed scope and the index itself.
func (s *Store) Reset(ctx context.Context) error {
	scopes, err := s.Scopes(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(scopes)+1)
	for _, scope := range scopes {
		keys = append(keys, s.key(scope))
	}
	keys = append(keys, s.indexKey())

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset redis store: %w", err)
	}
	return nil
}

// Scopes lists the live scopes written since the last Reset.
// Index entries whose hash has expired are pruned.
func (s *Store) Scopes(ctx context.Context) ([]domain.FeatureScope, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	if len(members) == 0 {
		return []domain.FeatureScope{}, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(members))
	for i, m := range members {
		exists[i] = pipe.Exists(ctx, s.key(domain.FeatureScope(m)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check scopes: %w", err)
	}

	scopes := make([]domain.FeatureScope, 0, len(members))
	var stale []any
	for i, m := range members {
		if exists[i].Val() == 0 {
			stale = append(stale, m)
			continue
		}
		scopes = append(scopes, domain.FeatureScope(m))
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune scopes: %w", err)
		}
	}
	return scopes, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
