package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mverett/fabula/pkg/schema"
)

const defaultKeyPrefix = "fabula:snapshot:"

// RedisStore is a redis-backed SnapshotStore. Snapshots are stored as
// one JSON document per slot key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a redis client. An empty prefix uses the
// default "fabula:snapshot:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(slot string) string {
	return s.prefix + slot
}

func (s *RedisStore) Save(ctx context.Context, slot string, snap *Snapshot) error {
	if slot == "" {
		return schema.NewError(schema.ErrCodeValidation, "slot name is empty")
	}
	if snap == nil {
		return schema.NewError(schema.ErrCodeValidation, "snapshot is nil")
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "marshal snapshot: %s", err.Error()).WithCause(err)
	}
	if err := s.client.Set(ctx, s.key(slot), data, 0).Err(); err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "save snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, slot string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, schema.NewErrorf(schema.ErrCodeNotFound, "snapshot slot %q not found", slot)
		}
		return nil, schema.NewErrorf(schema.ErrCodeStore, "load snapshot %q: %s", slot, err.Error()).WithCause(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "unmarshal snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.key(slot)).Err(); err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "delete snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var out []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "list snapshots: %s", err.Error()).WithCause(err)
	}
	sort.Strings(out)
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
