package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// CachedPetStore serves the pet type and shelter lists from Redis.  New pet
// types drop the cached type list; shelters change only through direct
// database maintenance and rely on the TTL.  Every other method goes
// straight to the wrapped store.
type CachedPetStore struct {
	PetStore
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCachedPetStore(pets PetStore, rdb *redis.Client, prefix string, ttl time.Duration) *CachedPetStore {
	return &CachedPetStore{PetStore: pets, rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *CachedPetStore) Types(ctx context.Context) ([]model.PetType, error) {
	return remember(ctx, s, "pet_types", s.PetStore.Types)
}

func (s *CachedPetStore) Shelters(ctx context.Context) ([]model.Shelter, error) {
	return remember(ctx, s, "shelters", s.PetStore.Shelters)
}

// CreateType registers the type and drops the cached type list so the next
// form shows it.  A failed drop is logged; the TTL bounds the staleness.
func (s *CachedPetStore) CreateType(ctx context.Context, species, breed string) (uint64, error) {
	id, err := s.PetStore.CreateType(ctx, species, breed)
	if err != nil {
		return id, err
	}
	key := s.key("pet_types")
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.FromContext(ctx).Warn("lookup cache invalidation failed", "key", key, "error", err)
	}
	return id, nil
}

func (s *CachedPetStore) key(name string) string { return s.prefix + ":" + name }

// remember returns the cached value under key or loads and stores it.
// Redis failures degrade to a direct load.
func remember[T any](ctx context.Context, s *CachedPetStore, key string, load func(context.Context) (T, error)) (T, error) {
	key = s.key(key)
	var v T
	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if json.Unmarshal(raw, &v) == nil {
			return v, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.FromContext(ctx).Warn("lookup cache read failed", "key", key, "error", err)
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			logger.FromContext(ctx).Warn("lookup cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}
