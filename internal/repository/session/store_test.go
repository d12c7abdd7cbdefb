package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/atlant-labs/prodex/internal/db"
	"github.com/atlant-labs/prodex/internal/domain"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Del(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func TestRedisStore_SaveLoadRoundTrip(t *testing.T) {
	kv := newMockKVStore()
	s := NewRedis(kv, 24*time.Hour)
	ctx := context.Background()

	turns := []domain.Turn{
		{Role: domain.RoleUser, Content: "I need a laptop for video editing"},
		{Role: domain.RoleAssistant, Content: "Consider the ProBook X1."},
	}

	if err := s.Save(ctx, "sess-1", turns); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.ttls[sessionKeyPrefix+"sess-1"] != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", kv.ttls[sessionKeyPrefix+"sess-1"])
	}

	got, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(turns, got); diff != "" {
		t.Errorf("loaded turns mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisStore_LoadUnknownSession(t *testing.T) {
	s := NewRedis(newMockKVStore(), time.Hour)

	got, err := s.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("unknown session must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}
}

func TestRedisStore_LoadCorruptData(t *testing.T) {
	kv := newMockKVStore()
	kv.data[sessionKeyPrefix+"bad"] = []byte("{not json")
	s := NewRedis(kv, time.Hour)

	if _, err := s.Load(context.Background(), "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRedisStore_LoadStoreError(t *testing.T) {
	kv := newMockKVStore()
	kv.err = errors.New("conn refused")
	s := NewRedis(kv, time.Hour)

	if _, err := s.Load(context.Background(), "sess-1"); err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestRedisStore_Delete(t *testing.T) {
	kv := newMockKVStore()
	s := NewRedis(kv, time.Hour)
	ctx := context.Background()

	turns := []domain.Turn{{Role: domain.RoleUser, Content: "hi"}}
	if err := s.Save(ctx, "sess-1", turns); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history after delete, got %v", got)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestRedisStore_TurnsSerializeWithRoleAndContent(t *testing.T) {
	kv := newMockKVStore()
	s := NewRedis(kv, time.Hour)

	turns := []domain.Turn{{Role: domain.RoleUser, Content: "hello"}}
	if err := s.Save(context.Background(), "sess-1", turns); err != nil {
		t.Fatalf("save: %v", err)
	}

	var raw []map[string]string
	if err := json.Unmarshal(kv.data[sessionKeyPrefix+"sess-1"], &raw); err != nil {
		t.Fatalf("stored payload is not JSON: %v", err)
	}
	if raw[0]["role"] != "user" || raw[0]["content"] != "hello" {
		t.Errorf("unexpected stored shape: %v", raw)
	}
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	got, err := s.Load(ctx, "sess-1")
	if err != nil || len(got) != 0 {
		t.Fatalf("fresh store: got %v, %v", got, err)
	}

	turns := []domain.Turn{
		{Role: domain.RoleUser, Content: "budget phone?"},
		{Role: domain.RoleAssistant, Content: "The Volt 5 fits."},
	}
	if err := s.Save(ctx, "sess-1", turns); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(turns, got); diff != "" {
		t.Errorf("loaded turns mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = s.Load(ctx, "sess-1")
	if len(got) != 0 {
		t.Errorf("expected empty history after delete, got %v", got)
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Save(ctx, "sess-1", []domain.Turn{{Role: domain.RoleUser, Content: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.Load(ctx, "sess-1")
	got[0].Content = "mutated"

	again, _ := s.Load(ctx, "sess-1")
	if again[0].Content != "a" {
		t.Error("mutating a loaded slice must not affect the store")
	}
}
