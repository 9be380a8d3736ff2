// Package redisstore caches company research briefs so repeated lookups
// within the TTL skip the search collaborator entirely.
package redisstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (s *Store) Close() error { return s.rdb.Close() }

func researchKey(company string) string {
	return "research:" + strings.ToLower(strings.TrimSpace(company))
}

// GetResearch returns the cached brief, or "" on a cache miss.
func (s *Store) GetResearch(ctx context.Context, company string) (string, error) {
	v, err := s.rdb.Get(ctx, researchKey(company)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *Store) SetResearch(ctx context.Context, company, brief string) error {
	return s.rdb.Set(ctx, researchKey(company), brief, s.ttl).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
