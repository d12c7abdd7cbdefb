package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atlant-labs/prodex/internal/domain"
)

func TestBudgetTracker_RejectWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionReject, zap.NewNop())

	bt.Record(100)

	err := bt.Check(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected domain.ErrEmbeddingQuotaExceeded, got %v", err)
	}
}

func TestBudgetTracker_WarnWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionWarn, zap.NewNop())

	bt.Record(200)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for warn action, got %v", err)
	}
}

func TestBudgetTracker_MonthlyReject(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 500, BudgetActionReject, zap.NewNop())

	bt.Record(500)

	err := bt.Check(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Fatalf("expected domain.ErrEmbeddingQuotaExceeded for monthly limit, got %v", err)
	}
}

func TestBudgetTracker_UnlimitedWhenZero(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionReject, zap.NewNop())

	bt.Record(999999999)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for unlimited budget, got %v", err)
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("test", 1000, 10000, BudgetActionWarn, zap.NewNop())

	bt.Record(300)

	if daily := bt.RemainingDaily(); daily != 700 {
		t.Errorf("expected daily remaining 700, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != 9700 {
		t.Errorf("expected monthly remaining 9700, got %d", monthly)
	}
}

func TestBudgetTracker_RemainingUnlimited(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())

	if daily := bt.RemainingDaily(); daily != -1 {
		t.Errorf("expected -1 for unlimited daily, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != -1 {
		t.Errorf("expected -1 for unlimited monthly, got %d", monthly)
	}
}

type mockBudgetStore struct {
	incrs map[string]int64
	gets  map[string]int64
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{incrs: map[string]int64{}, gets: map[string]int64{}}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.incrs[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	return m.gets[key], nil
}

func TestBudgetTracker_LoadsFromStore(t *testing.T) {
	store := newMockBudgetStore()
	for k := range store.gets {
		delete(store.gets, k)
	}
	bt := NewBudgetTracker("test", 1000, 0, BudgetActionReject, zap.NewNop())

	// Pre-seed the store with today's counter.
	store.gets[bt.dailyKey(time.Now().UTC())] = 400
	bt.WithStore(context.Background(), store)

	if used := bt.DailyUsed(); used != 400 {
		t.Errorf("DailyUsed() = %d, want 400 loaded from store", used)
	}
}

func TestBudgetTracker_RecordWritesBehind(t *testing.T) {
	store := newMockBudgetStore()
	bt := NewBudgetTracker("test", 1000, 1000, BudgetActionWarn, zap.NewNop()).
		WithStore(context.Background(), store)

	bt.Record(250)

	if len(store.incrs) != 2 {
		t.Fatalf("expected 2 persisted counters (daily+monthly), got %d", len(store.incrs))
	}
	for key, val := range store.incrs {
		if val != 250 {
			t.Errorf("persisted %s = %d, want 250", key, val)
		}
	}
}
