package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockCounterProber struct {
	value int64
	err   error
}

func (m *mockCounterProber) TotalRxBytes(_ context.Context) (int64, error) { return m.value, m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCounterProber{value: 1024})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["counters"] != CheckOK {
		t.Errorf("expected counters %q, got %q", CheckOK, r.Checks["counters"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockCounterProber{value: 1024})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["counters"] != CheckOK {
		t.Errorf("expected counters %q, got %q", CheckOK, r.Checks["counters"])
	}
}

func TestCheck_CounterError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCounterProber{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["counters"] != CheckError {
		t.Errorf("expected counters %q, got %q", CheckError, r.Checks["counters"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockDBPinger{err: errors.New("db down")},
		&mockCounterProber{err: errors.New("sysfs down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Error("expected database error")
	}
	if r.Checks["counters"] != CheckError {
		t.Error("expected counters error")
	}
}

func TestCheck_NoCounters(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if _, ok := r.Checks["counters"]; ok {
		t.Error("counters check should be absent when counters is nil")
	}
}

func TestCheck_NoCounters_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Error("expected database error")
	}
	if _, ok := r.Checks["counters"]; ok {
		t.Error("counters check should be absent when counters is nil")
	}
}

func TestCheck_CounterSentinel(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCounterProber{value: -1})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["counters"] != CheckError {
		t.Errorf("expected counters %q, got %q", CheckError, r.Checks["counters"])
	}
}

type stalledPinger struct{}

func (stalledPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type stuckProber struct{ release chan struct{} }

func (p stuckProber) TotalRxBytes(context.Context) (int64, error) {
	<-p.release
	return 1, nil
}

func TestCheck_StalledComponentsTimeOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	svc := New(stalledPinger{}, stuckProber{release: release}).WithCheckTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("check took %v, deadline not applied", elapsed)
	}
	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError || r.Checks["counters"] != CheckError {
		t.Errorf("expected both checks to fail, got %v", r.Checks)
	}
}
