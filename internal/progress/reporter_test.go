package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestGetAbsentOperation(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	if _, ok := r.Get("create"); ok {
		t.Error("expected no record before Wrap")
	}
}

func TestWrapLifecycle(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	err := r.Wrap("create", func(set *Setter) error {
		rec, ok := r.Get("create")
		if !ok {
			t.Fatal("expected record to exist during Wrap")
		}
		if rec.ID != "create" {
			t.Errorf("expected id 'create', got %q", rec.ID)
		}

		set.Status("creating")
		set.Progress(0.5)
		set.Info("rendering templates")

		rec, _ = r.Get("create")
		if rec.Status != "creating" || rec.Progress != 0.5 || rec.Info != "rendering templates" {
			t.Errorf("unexpected record after merge: %+v", rec)
		}

		set.ClearInfo()
		rec, _ = r.Get("create")
		if rec.Info != "" {
			t.Errorf("expected cleared info, got %q", rec.Info)
		}
		if rec.Status != "creating" {
			t.Errorf("ClearInfo must not touch status, got %q", rec.Status)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Wrap() error: %v", err)
	}

	if _, ok := r.Get("create"); ok {
		t.Error("expected record to be retired after Wrap")
	}
}

func TestWrapRetiresOnError(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	wantErr := errors.New("engine failed")

	err := r.Wrap("create", func(set *Setter) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped fn error, got %v", err)
	}
	if _, ok := r.Get("create"); ok {
		t.Error("expected record retired after failed Wrap")
	}
}

func TestWrapRejectsConcurrentSameID(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Wrap("create", func(set *Setter) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := r.Wrap("create", func(set *Setter) error { return nil })
	if !errors.Is(err, ErrOperationActive) {
		t.Errorf("expected ErrOperationActive, got %v", err)
	}
	close(release)
	wg.Wait()

	// A fresh Wrap after completion succeeds.
	if err := r.Wrap("create", func(set *Setter) error { return nil }); err != nil {
		t.Errorf("Wrap() after completion error: %v", err)
	}
}

func TestSetDroppedAfterRetire(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	var setter *Setter
	_ = r.Wrap("create", func(set *Setter) error {
		setter = set
		return nil
	})

	// A late event after completion must be silently dropped.
	setter.Status("late")
	if _, ok := r.Get("create"); ok {
		t.Error("late Set must not recreate the record")
	}
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	var got []Record
	unsubscribe := r.Subscribe(func(rec Record) {
		got = append(got, rec)
	})

	_ = r.Wrap("create", func(set *Setter) error {
		set.Status("creating")
		set.Progress(1)
		return nil
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[1].Progress != 1 {
		t.Errorf("expected final progress 1, got %v", got[1].Progress)
	}

	unsubscribe()
	_ = r.Wrap("create", func(set *Setter) error {
		set.Status("again")
		return nil
	})
	if len(got) != 2 {
		t.Error("expected no notifications after unsubscribe")
	}
}

func TestHeadlessViewRendering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := NewHeadlessView(&buf)
	r := NewReporter()
	v.Attach(r)
	defer v.Close()

	_ = r.Wrap("create", func(set *Setter) error {
		set.Status("creating")
		set.Info("fetching preset")
		return nil
	})

	out := buf.String()
	if !strings.Contains(out, "creating") {
		t.Errorf("expected status in output, got %q", out)
	}
	if !strings.Contains(out, "fetching preset") {
		t.Errorf("expected info in output, got %q", out)
	}
}
