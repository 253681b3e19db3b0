package credit

import (
	"context"
	"strconv"
	"sync"
)

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetNXFn     func(ctx context.Context, key, field, value string) (bool, error)
	hgetAllFn    func(ctx context.Context, key string) (map[string]string, error)
	hincrByFn    func(ctx context.Context, key, field string, delta int64) (int64, error)
	hsetIfLessFn func(ctx context.Context, key, guardField string, guard int64, set map[string]string) (bool, error)
	delFn        func(ctx context.Context, key string) error
}

func (m *mockStore) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	if m.hsetNXFn != nil {
		return m.hsetNXFn(ctx, key, field, value)
	}
	return true, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	if m.hincrByFn != nil {
		return m.hincrByFn(ctx, key, field, delta)
	}
	return delta, nil
}

func (m *mockStore) HSetIfLess(
	ctx context.Context, key, guardField string, guard int64, set map[string]string,
) (bool, error) {
	if m.hsetIfLessFn != nil {
		return m.hsetIfLessFn(ctx, key, guardField, guard, set)
	}
	return true, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

// hashStore is an in-memory hash store for flow tests. It is mutex-guarded
// so concurrency tests can hammer it from many goroutines.
type hashStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newHashStore() *hashStore {
	return &hashStore{data: map[string]map[string]string{}}
}

func (h *hashStore) hash(key string) map[string]string {
	m, ok := h.data[key]
	if !ok {
		m = map[string]string{}
		h.data[key] = m
	}
	return m
}

func (h *hashStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.hash(key)
	if _, exists := m[field]; exists {
		return false, nil
	}
	m[field] = value
	return true, nil
}

func (h *hashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := map[string]string{}
	for k, v := range h.data[key] {
		out[k] = v
	}
	return out, nil
}

func (h *hashStore) HIncrBy(_ context.Context, key, field string, delta int64) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.hash(key)
	cur := parseInt64(m[field])
	cur += delta
	m[field] = formatInt64(cur)
	return cur, nil
}

func (h *hashStore) HSetIfLess(
	_ context.Context, key, guardField string, guard int64, set map[string]string,
) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.hash(key)
	if parseInt64(m[guardField]) >= guard {
		return false, nil
	}
	m[guardField] = formatInt64(guard)
	for k, v := range set {
		m[k] = v
	}
	return true, nil
}

func (h *hashStore) Del(_ context.Context, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.data, key)
	return nil
}
