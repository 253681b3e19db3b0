package user

import (
	"context"
	"strings"

	"github.com/tutorbase/tutorbase/internal/db"
)

// memStore is an in-memory store for user repo tests.
type memStore struct {
	kv     map[string]string
	hashes map[string]map[string]string

	hsetErr error
}

func newMemStore() *memStore {
	return &memStore{
		kv:     map[string]string{},
		hashes: map[string]map[string]string{},
	}
}

func (s *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if s.hsetErr != nil {
		return s.hsetErr
	}
	m, ok := s.hashes[key]
	if !ok {
		m = map[string]string{}
		s.hashes[key] = m
	}
	for k, v := range fields {
		m[k] = v
	}
	return nil
}

func (s *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range s.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		m, err := s.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	delete(s.hashes, key)
	delete(s.kv, key)
	return nil
}

func (s *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range s.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range s.kv {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.kv[key] = string(value)
	return nil
}

func (s *memStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if _, exists := s.kv[key]; exists {
		return false, nil
	}
	s.kv[key] = string(value)
	return true, nil
}
