package debugger

import "testing"

func TestWatchpointObserveFirstCallEstablishesBaseline(t *testing.T) {
	wm := NewWatchpointManager()
	wm.Add("counter")

	if _, changed := wm.Observe("counter", 5); changed {
		t.Fatal("first observation should only establish a baseline")
	}
}

func TestWatchpointObserveDetectsChange(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.Add("counter")
	wm.Observe("counter", 5)

	hit, changed := wm.Observe("counter", 6)
	if !changed {
		t.Fatal("expected change to be detected")
	}
	if hit.ID != wp.ID {
		t.Fatalf("expected hit for watchpoint %d, got %d", wp.ID, hit.ID)
	}
	if hit.HitCount != 1 {
		t.Fatalf("expected hit count 1, got %d", hit.HitCount)
	}
}

func TestWatchpointObserveIgnoresDisabled(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.Add("counter")
	wm.Observe("counter", 5)
	if err := wm.SetEnabled(wp.ID, false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if _, changed := wm.Observe("counter", 6); changed {
		t.Fatal("disabled watchpoint should not report a change")
	}
}

func TestWatchpointObserveIgnoresOtherNames(t *testing.T) {
	wm := NewWatchpointManager()
	wm.Add("counter")
	wm.Observe("counter", 5)
	if _, changed := wm.Observe("other", 100); changed {
		t.Fatal("observation of an unrelated name should never match")
	}
}
