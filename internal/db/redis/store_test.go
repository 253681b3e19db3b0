package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/tutorbase/tutorbase/internal/db"
)

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

// --- client.go ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- kv.go ---

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetNX_KeyAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "NX")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	stored, err := s.SetNX(context.Background(), "k", []byte("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored {
		t.Error("expected stored=true for absent key")
	}
}

func TestSetNX_KeyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "NX")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	stored, err := s.SetNX(context.Background(), "k", []byte("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored {
		t.Error("expected stored=false for existing key")
	}
}

// --- hash.go ---

func TestHSetNX_FieldSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HSETNX", "acct", "user_id", "u1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	set, err := s.HSetNX(context.Background(), "acct", "user_id", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set {
		t.Error("expected set=true")
	}
}

func TestHSetNX_FieldExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HSETNX", "acct", "user_id", "u1")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	set, err := s.HSetNX(context.Background(), "acct", "user_id", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set {
		t.Error("expected set=false for existing field")
	}
}

func TestHIncrBy_ReturnsNewValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HINCRBY", "acct", "used_today", "3")).
		Return(mock.Result(mock.RedisInt64(483)))

	s := NewStoreForTest(c)
	val, err := s.HIncrBy(context.Background(), "acct", "used_today", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 483 {
		t.Errorf("expected 483, got %d", val)
	}
}

func TestHIncrBy_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HINCRBY"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.HIncrBy(context.Background(), "acct", "used_today", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHSetIfLess_Applied(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "EVALSHA" || cmd[0] == "EVAL"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	applied, err := s.HSetIfLess(context.Background(),
		"acct", "last_reset", 1700000000000, map[string]string{"used_today": "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Error("expected applied=true")
	}
}

func TestHSetIfLess_GuardUpToDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "EVALSHA" || cmd[0] == "EVAL"
		})).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	applied, err := s.HSetIfLess(context.Background(),
		"acct", "last_reset", 1700000000000, map[string]string{"used_today": "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Error("expected applied=false when guard is current")
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"f1": mock.RedisString("v1"),
			"f2": mock.RedisString("v2"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["f1"] != "v1" || m["f2"] != "v2" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAllMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	results, err := s.HGetAllMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

// --- lists ---

func TestRPush_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("RPUSH", "list", "a", "b")).
		Return(mock.Result(mock.RedisInt64(2)))

	s := NewStoreForTest(c)
	if err := s.RPush(context.Background(), "list", "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRPush_Empty(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	if err := s.RPush(context.Background(), "list"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLRange_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("LRANGE", "list", "0", "-1")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("a"),
			mock.RedisString("b"),
		)))

	s := NewStoreForTest(c)
	vals, err := s.LRange(context.Background(), "list", 0, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 2 || vals[0] != "a" || vals[1] != "b" {
		t.Errorf("unexpected values: %v", vals)
	}
}
