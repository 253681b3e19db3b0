package credit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tutorbase/tutorbase/internal/domain"
)

var day1 = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestEnsure_CreatesAccountOnce(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	a, err := repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.UsedToday() != 0 || a.TotalUsed() != 0 {
		t.Errorf("fresh account has usage: %d/%d", a.UsedToday(), a.TotalUsed())
	}

	// Second Ensure must not clobber accumulated usage.
	if _, err := repo.IncrementUsage(ctx, "u1", 5, day1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if err := repo.Ensure(ctx, "u1", day1.Add(time.Hour)); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	a, err = repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read after re-ensure: %v", err)
	}
	if a.UsedToday() != 5 {
		t.Errorf("UsedToday() after re-ensure = %d, want 5", a.UsedToday())
	}
}

func TestEnsure_ConcurrentFirstAccess(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Ensure(ctx, "u1", day1)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Ensure #%d: %v", i, err)
		}
	}

	a, err := repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.UsedToday() != 0 || a.TotalUsed() != 0 {
		t.Errorf("racing creation produced usage: %d/%d", a.UsedToday(), a.TotalUsed())
	}
	if got := len(h.data); got != 1 {
		t.Errorf("store holds %d keys, want 1", got)
	}
}

func TestEnsure_EmptyUserID(t *testing.T) {
	repo := New(newHashStore())
	if err := repo.Ensure(context.Background(), "", day1); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestRead_CreatesMissingAccount(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	// No prior Ensure: first access opens the account itself.
	a, err := repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.UsedToday() != 0 || a.TotalUsed() != 0 {
		t.Errorf("lazily created account has usage: %d/%d", a.UsedToday(), a.TotalUsed())
	}
	wantDay := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !a.LastReset().Equal(wantDay) {
		t.Errorf("LastReset() = %v, want %v", a.LastReset(), wantDay)
	}

	// The account is persisted, so a debit lands on it, not a second copy.
	used, err := repo.IncrementUsage(ctx, "u1", 4, day1)
	if err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if used != 4 {
		t.Errorf("used_today = %d, want 4", used)
	}
}

func TestIncrementUsage_CreatesMissingAccount(t *testing.T) {
	ctx := context.Background()
	repo := New(newHashStore())

	used, err := repo.IncrementUsage(ctx, "u1", 2, day1)
	if err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if used != 2 {
		t.Errorf("used_today = %d, want 2", used)
	}
}

func TestRead_EmptyUserID(t *testing.T) {
	repo := New(newHashStore())
	if _, err := repo.Read(context.Background(), "", day1); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestRead_RollsOverStaleDay(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := repo.IncrementUsage(ctx, "u1", 120, day1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}

	day2 := day1.Add(24 * time.Hour)
	a, err := repo.Read(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("Read on next day: %v", err)
	}
	if a.UsedToday() != 0 {
		t.Errorf("UsedToday() after rollover = %d, want 0", a.UsedToday())
	}
	if a.TotalUsed() != 120 {
		t.Errorf("TotalUsed() after rollover = %d, want 120", a.TotalUsed())
	}
	wantDay := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !a.LastReset().Equal(wantDay) {
		t.Errorf("LastReset() = %v, want %v", a.LastReset(), wantDay)
	}

	// The rollover is persisted, not just projected.
	again, err := repo.Read(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}
	if again.UsedToday() != 0 || !again.LastReset().Equal(wantDay) {
		t.Error("rollover was not persisted")
	}
}

func TestRead_ResetLostRace_ReReads(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := repo.IncrementUsage(ctx, "u1", 50, day1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}

	day2 := day1.Add(24 * time.Hour)
	// Another writer already rolled the day over and spent 7 credits.
	if _, err := repo.IncrementUsage(ctx, "u1", 7, day2); err != nil {
		t.Fatalf("concurrent IncrementUsage: %v", err)
	}

	a, err := repo.Read(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.UsedToday() != 7 {
		t.Errorf("UsedToday() = %d, want 7 (the other writer's debit must survive)", a.UsedToday())
	}
}

func TestIncrementUsage_MovesBothCounters(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	used, err := repo.IncrementUsage(ctx, "u1", 3, day1)
	if err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if used != 3 {
		t.Errorf("returned used_today = %d, want 3", used)
	}

	used, err = repo.IncrementUsage(ctx, "u1", 4, day1)
	if err != nil {
		t.Fatalf("second IncrementUsage: %v", err)
	}
	if used != 7 {
		t.Errorf("returned used_today = %d, want 7", used)
	}

	a, err := repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.TotalUsed() != 7 {
		t.Errorf("TotalUsed() = %d, want 7", a.TotalUsed())
	}
}

func TestIncrementUsage_ResetsStaleDayFirst(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := repo.IncrementUsage(ctx, "u1", 499, day1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}

	day2 := day1.Add(24 * time.Hour)
	used, err := repo.IncrementUsage(ctx, "u1", 2, day2)
	if err != nil {
		t.Fatalf("IncrementUsage next day: %v", err)
	}
	if used != 2 {
		t.Errorf("used_today after rollover debit = %d, want 2", used)
	}

	a, err := repo.Read(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.TotalUsed() != 501 {
		t.Errorf("TotalUsed() = %d, want 501", a.TotalUsed())
	}
}

func TestIncrementUsage_NegativeCredits(t *testing.T) {
	repo := New(newHashStore())
	_, err := repo.IncrementUsage(context.Background(), "u1", -1, day1)
	if !errors.Is(err, domain.ErrInvalidUsage) {
		t.Fatalf("expected ErrInvalidUsage, got %v", err)
	}
}

func TestIncrementUsage_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	state := map[string]string{
		fieldUserID:    "u1",
		fieldUsedToday: "10",
		fieldTotalUsed: "10",
		fieldLastReset: formatInt64(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
	}

	conflicts := 2
	ms := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return state, nil
		},
		hincrByFn: func(_ context.Context, _, _ string, delta int64) (int64, error) {
			if conflicts > 0 {
				conflicts--
				return 0, domain.ErrWriteConflict
			}
			return 10 + delta, nil
		},
	}

	repo := New(ms)
	used, err := repo.IncrementUsage(ctx, "u1", 3, day1)
	if err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if used != 13 {
		t.Errorf("used_today = %d, want 13", used)
	}
	if conflicts != 0 {
		t.Errorf("expected both conflicts consumed, %d left", conflicts)
	}
}

func TestIncrementUsage_ConflictRetriesExhausted(t *testing.T) {
	ms := &mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{
				fieldUserID:    "u1",
				fieldLastReset: formatInt64(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
			}, nil
		},
		hincrByFn: func(_ context.Context, _, _ string, _ int64) (int64, error) {
			return 0, domain.ErrWriteConflict
		},
	}

	repo := New(ms)
	_, err := repo.IncrementUsage(context.Background(), "u1", 1, day1)
	if !errors.Is(err, domain.ErrWriteConflict) {
		t.Fatalf("expected ErrWriteConflict after exhausted retries, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	h := newHashStore()
	repo := New(h)

	if err := repo.Ensure(ctx, "u1", day1); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := repo.IncrementUsage(ctx, "u1", 9, day1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// A later access starts from a blank account, not the old counters.
	a, err := repo.Read(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("Read after delete: %v", err)
	}
	if a.UsedToday() != 0 || a.TotalUsed() != 0 {
		t.Errorf("usage survived delete: %d/%d", a.UsedToday(), a.TotalUsed())
	}
}
