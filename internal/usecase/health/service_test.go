package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCounter struct {
	n   int64
	err error
}

func (m *mockCounter) Count(_ context.Context) (int64, error) { return m.n, m.err }

// --- Tests ---

func TestCheck_Healthy(t *testing.T) {
	r := New(&mockCounter{n: 1234}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Database != Connected {
		t.Errorf("expected %q, got %q", Connected, r.Database)
	}
	if r.Records != 1234 {
		t.Errorf("expected 1234 records, got %d", r.Records)
	}
	if r.Err != nil {
		t.Errorf("unexpected error: %v", r.Err)
	}
}

func TestCheck_EmptyTable(t *testing.T) {
	r := New(&mockCounter{}).Check(context.Background())

	if r.Status != Healthy || r.Records != 0 {
		t.Errorf("expected healthy with 0 records, got %+v", r)
	}
}

func TestCheck_DBDown(t *testing.T) {
	boom := errors.New("connection refused")
	r := New(&mockCounter{err: boom}).Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Database != Disconnected {
		t.Errorf("expected %q, got %q", Disconnected, r.Database)
	}
	if !errors.Is(r.Err, boom) {
		t.Errorf("expected cause to be kept, got %v", r.Err)
	}
}
