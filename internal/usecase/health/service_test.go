package health

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockProvider struct {
	err error
}

func (m *mockProvider) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New().
		WithPinger("warehouse", &mockPinger{}).
		WithPinger("redis", &mockPinger{}).
		WithProvider("llm", &mockProvider{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"warehouse", "redis", "llm"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_PartialFailureDegrades(t *testing.T) {
	svc := New().
		WithPinger("warehouse", &mockPinger{err: errors.New("conn refused")}).
		WithProvider("llm", &mockProvider{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["warehouse"] != CheckError {
		t.Errorf("expected warehouse %q, got %q", CheckError, r.Checks["warehouse"])
	}
	if r.Checks["llm"] != CheckOK {
		t.Errorf("expected llm %q, got %q", CheckOK, r.Checks["llm"])
	}
}

func TestCheck_AllFailing(t *testing.T) {
	svc := New().
		WithPinger("redis", &mockPinger{err: errors.New("timeout")}).
		WithProvider("llm", &mockProvider{err: errors.New("401")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoComponents(t *testing.T) {
	r := New().Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("expected no checks, got %v", r.Checks)
	}
}

func TestNames_Sorted(t *testing.T) {
	svc := New().
		WithProvider("llm", &mockProvider{}).
		WithPinger("redis", &mockPinger{}).
		WithPinger("warehouse", &mockPinger{})

	if got := svc.Names(); !reflect.DeepEqual(got, []string{"llm", "redis", "warehouse"}) {
		t.Errorf("unexpected names %v", got)
	}
}
