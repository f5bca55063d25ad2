package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Session{ID: "a", Transport: TransportSSE}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(Session{ID: "a"}); !errors.Is(err, ErrSessionExists) {
		t.Errorf("Register() duplicate error = %v, want %v", err, ErrSessionExists)
	}
	if err := r.Register(Session{}); !errors.Is(err, ErrIDRequired) {
		t.Errorf("Register() empty error = %v, want %v", err, ErrIDRequired)
	}

	got := r.List()
	if len(got) != 1 || got[0].ID != "a" || got[0].Transport != TransportSSE {
		t.Fatalf("List() = %+v", got)
	}
	if got[0].ConnectedAt.IsZero() {
		t.Error("ConnectedAt was not set")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Session{ID: "s1", Transport: TransportStreamable}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.Unregister("s1")
	r.Unregister("s1")
	if r.Len() != 0 {
		t.Errorf("Len() after Unregister = %d, want 0", r.Len())
	}

	// The same ID may be registered again once it is gone.
	if err := r.Register(Session{ID: "s1"}); err != nil {
		t.Errorf("Register() after Unregister error = %v", err)
	}
}

func TestRegistry_ListOrder(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = r.Register(Session{ID: "late", Transport: TransportSSE, ConnectedAt: base.Add(2 * time.Second)})
	_ = r.Register(Session{ID: "early", Transport: TransportStdio, ConnectedAt: base})
	_ = r.Register(Session{ID: "mid", Transport: TransportSSE, ConnectedAt: base.Add(time.Second)})
	_ = r.Register(Session{ID: "also-mid", Transport: TransportSSE, ConnectedAt: base.Add(time.Second)})

	var ids []string
	for _, s := range r.List() {
		ids = append(ids, s.ID)
	}
	want := []string{"early", "also-mid", "mid", "late"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("List() = %v, want %v", ids, want)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			if err := r.Register(Session{ID: id, Transport: TransportSSE}); err != nil {
				t.Errorf("Register(%s) error = %v", id, err)
			}
			_ = r.List()
			r.Unregister(id)
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
