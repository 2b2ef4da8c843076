package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

var t0 = time.Date(2026, 3, 14, 10, 20, 0, 0, time.UTC)

func addBoth(t *testing.T, l *Ledger, sub string, at time.Time, rx, tx int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := l.Add(ctx, sub, Rx, at, rx); err != nil {
		t.Fatalf("add rx: %v", err)
	}
	if _, err := l.Add(ctx, sub, Tx, at, tx); err != nil {
		t.Fatalf("add tx: %v", err)
	}
}

func TestAdd_KeysAndTTL(t *testing.T) {
	s := newMemStore()
	l := New(s, "netusage:", 0)

	addBoth(t, l, "sub", t0, 100, 40)

	rxKey := "netusage:ledger:sub:rx:2026031410"
	txKey := "netusage:ledger:sub:tx:2026031410"
	if s.vals[rxKey] != 100 || s.vals[txKey] != 40 {
		t.Errorf("unexpected buckets: %v", s.vals)
	}
	if s.ttls[rxKey] != DefaultBucketTTL {
		t.Errorf("expected default TTL, got %v", s.ttls[rxKey])
	}
}

func TestAdd_SkipsZeroDeltas(t *testing.T) {
	s := newMemStore()
	l := New(s, "p:", time.Hour)

	committed, err := l.Add(context.Background(), "sub", Rx, t0, 0)
	if err != nil || !committed {
		t.Fatalf("zero delta: committed=%v err=%v", committed, err)
	}
	addBoth(t, l, "sub", t0, 0, 7)
	if len(s.vals) != 1 {
		t.Errorf("expected only the tx bucket, got %v", s.vals)
	}
}

func TestAdd_StoreError(t *testing.T) {
	s := newMemStore()
	s.incrErr = errors.New("conn reset")
	l := New(s, "p:", time.Hour)

	committed, err := l.Add(context.Background(), "sub", Rx, t0, 1)
	if !errors.Is(err, s.incrErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if committed {
		t.Error("failed INCRBY must not report committed")
	}
}

func TestAdd_ExpireErrorStillCommitted(t *testing.T) {
	s := newMemStore()
	s.failExpireOn, s.failExpireN = ":rx:", 1
	l := New(s, "p:", time.Hour)

	committed, err := l.Add(context.Background(), "sub", Rx, t0, 5)
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected expire error, got %v", err)
	}
	if !committed {
		t.Error("INCRBY succeeded, bytes must be reported committed")
	}
	if s.vals["p:ledger:sub:rx:2026031410"] != 5 {
		t.Errorf("unexpected buckets: %v", s.vals)
	}
}

func TestSummary_SumsBucketsInWindow(t *testing.T) {
	s := newMemStore()
	l := New(s, "p:", time.Hour)
	ctx := context.Background()

	addBoth(t, l, "sub", t0.Add(-25*time.Hour), 1000, 1000) // outside window
	addBoth(t, l, "sub", t0.Add(-24*time.Hour), 10, 1)      // start bucket
	addBoth(t, l, "sub", t0.Add(-3*time.Hour), 20, 2)
	addBoth(t, l, "sub", t0, 30, 3) // end bucket
	addBoth(t, l, "other", t0, 500, 500)

	rx, tx, err := l.Summary(ctx, "sub", traffic.TrailingWindow(t0, traffic.DefaultWindow))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rx != 60 || tx != 6 {
		t.Errorf("got rx=%d tx=%d, want 60/6", rx, tx)
	}
	if s.mgets != 1 {
		t.Errorf("expected a single MGET, got %d", s.mgets)
	}
}

func TestSummary_EmptyLedger(t *testing.T) {
	l := New(newMemStore(), "p:", time.Hour)

	rx, tx, err := l.Summary(context.Background(), "sub", traffic.TrailingWindow(t0, time.Hour))
	if err != nil || rx != 0 || tx != 0 {
		t.Errorf("expected zeros, got %d %d %v", rx, tx, err)
	}
}

func TestSummary_EmptyWindow(t *testing.T) {
	s := newMemStore()
	l := New(s, "p:", time.Hour)

	_, _, err := l.Summary(context.Background(), "sub", traffic.Window{Start: t0, End: t0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.mgets != 0 {
		t.Error("empty window must not hit the store")
	}
}

func TestSummary_WindowTooLarge(t *testing.T) {
	l := New(newMemStore(), "p:", time.Hour)

	_, _, err := l.Summary(context.Background(), "sub", traffic.TrailingWindow(t0, 365*24*time.Hour))
	if !errors.Is(err, ErrWindowTooLarge) {
		t.Errorf("expected ErrWindowTooLarge, got %v", err)
	}
}

func TestSummary_StoreErrors(t *testing.T) {
	w := traffic.TrailingWindow(t0, 2*time.Hour)

	t.Run("mget", func(t *testing.T) {
		s := newMemStore()
		s.mgetErr = errors.New("timeout")
		if _, _, err := New(s, "p:", time.Hour).Summary(context.Background(), "sub", w); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("short reply", func(t *testing.T) {
		s := newMemStore()
		s.mgetFn = func([]string) ([][]byte, error) { return [][]byte{nil}, nil }
		if _, _, err := New(s, "p:", time.Hour).Summary(context.Background(), "sub", w); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("garbage value", func(t *testing.T) {
		s := newMemStore()
		s.mgetFn = func(keys []string) ([][]byte, error) {
			out := make([][]byte, len(keys))
			out[0] = []byte("not-a-number")
			return out, nil
		}
		if _, _, err := New(s, "p:", time.Hour).Summary(context.Background(), "sub", w); err == nil {
			t.Error("expected error")
		}
	})
}
