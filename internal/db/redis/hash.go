package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/tutorbase/tutorbase/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HSetNX sets a single hash field only if it does not exist yet.
func (s *Store) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	cmd := s.b().Hsetnx().Key(key).Field(field).Value(value).Build()
	set, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpHSetNX, Err: err}
	}
	return set == 1, nil
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HGetAllMulti fetches all fields for multiple hashes in a single DoMulti round-trip.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))

	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("HGetAllMulti key %s: %w", keys[i], err)
		}
		out[i] = m
	}

	return out, nil
}

// HIncrBy atomically increments a numeric hash field and returns the new value.
func (s *Store) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	cmd := s.b().Hincrby().Key(key).Field(field).Increment(delta).Build()
	val, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpHIncrBy, Err: err}
	}
	return val, nil
}

// hsetIfLessScript applies the update only while the guard field is behind.
// Runs server-side, so the compare and the writes are one atomic step.
var hsetIfLessScript = rueidis.NewLuaScript(`
local guard = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if guard >= tonumber(ARGV[2]) then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
for i = 3, #ARGV, 2 do
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
return 1
`)

// HSetIfLess applies set atomically iff the numeric guardField is less than
// guard; guardField is advanced to guard as part of the same update.
func (s *Store) HSetIfLess(
	ctx context.Context, key, guardField string, guard int64, set map[string]string,
) (bool, error) {
	args := make([]string, 0, 2+2*len(set))
	args = append(args, guardField, strconv.FormatInt(guard, 10))
	for k, v := range set {
		args = append(args, k, v)
	}

	applied, err := hsetIfLessScript.Exec(ctx, s.client, []string{key}, args).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Err: err}
	}
	return applied == 1, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Scan iterates keys matching a pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
