package grant

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/netusage/internal/db"
)

type mockKVStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func newMockKVStore() *mockKVStore { return &mockKVStore{data: map[string][]byte{}} }

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func TestGranted_MissingKey(t *testing.T) {
	s := New(newMockKVStore(), "netusage:")

	ok, err := s.Granted(context.Background())
	if err != nil || ok {
		t.Errorf("expected false, nil; got %v, %v", ok, err)
	}
}

func TestGrantRevokeCycle(t *testing.T) {
	kv := newMockKVStore()
	s := New(kv, "netusage:")
	ctx := context.Background()

	if err := s.Grant(ctx); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if string(kv.data["netusage:permission:usage_stats"]) != "granted" {
		t.Errorf("unexpected stored value: %v", kv.data)
	}
	if ok, _ := s.Granted(ctx); !ok {
		t.Error("expected granted after Grant")
	}

	if err := s.Revoke(ctx); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := s.Granted(ctx); ok {
		t.Error("expected not granted after Revoke")
	}
}

func TestGranted_OtherValue(t *testing.T) {
	kv := newMockKVStore()
	kv.data["p:permission:usage_stats"] = []byte("denied")

	ok, err := New(kv, "p:").Granted(context.Background())
	if err != nil || ok {
		t.Errorf("expected false, nil; got %v, %v", ok, err)
	}
}

func TestStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	kv := newMockKVStore()
	kv.getErr, kv.setErr, kv.delErr = boom, boom, boom
	s := New(kv, "p:")
	ctx := context.Background()

	if _, err := s.Granted(ctx); !errors.Is(err, boom) {
		t.Errorf("Granted: expected wrapped error, got %v", err)
	}
	if err := s.Grant(ctx); !errors.Is(err, boom) {
		t.Errorf("Grant: expected wrapped error, got %v", err)
	}
	if err := s.Revoke(ctx); !errors.Is(err, boom) {
		t.Errorf("Revoke: expected wrapped error, got %v", err)
	}
}
