package session

import (
	"context"
	"strconv"
)

// memStore is an in-memory store for session repo tests.
type memStore struct {
	hashes map[string]map[string]string
	lists  map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		hashes: map[string]map[string]string{},
		lists:  map[string][]string{},
	}
}

func (s *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
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

func (s *memStore) HIncrBy(_ context.Context, key, field string, delta int64) (int64, error) {
	m, ok := s.hashes[key]
	if !ok {
		m = map[string]string{}
		s.hashes[key] = m
	}
	cur, _ := strconv.ParseInt(m[field], 10, 64)
	cur += delta
	m[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	delete(s.hashes, key)
	delete(s.lists, key)
	return nil
}

func (s *memStore) RPush(_ context.Context, key string, values ...string) error {
	s.lists[key] = append(s.lists[key], values...)
	return nil
}

func (s *memStore) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	return append([]string(nil), s.lists[key]...), nil
}
