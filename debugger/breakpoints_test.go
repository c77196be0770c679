package debugger

import "testing"

func TestBreakpointAddAndHit(t *testing.T) {
	bm := NewBreakpointManager()
	loc := Loc{Function: "main", Block: "entry", IP: 2}
	bp := bm.Add(loc, false, "")
	if bp.ID != 1 {
		t.Fatalf("expected first breakpoint id 1, got %d", bp.ID)
	}

	hit, ok := bm.Hit(loc)
	if !ok {
		t.Fatal("expected hit at installed location")
	}
	if hit.HitCount != 1 {
		t.Fatalf("expected hit count 1, got %d", hit.HitCount)
	}

	if _, ok := bm.Hit(Loc{Function: "main", Block: "entry", IP: 3}); ok {
		t.Fatal("expected no hit at uninstalled location")
	}
}

func TestTemporaryBreakpointRemovedAfterHit(t *testing.T) {
	bm := NewBreakpointManager()
	loc := Loc{Function: "f", Block: "entry", IP: 0}
	bm.Add(loc, true, "")

	if _, ok := bm.Hit(loc); !ok {
		t.Fatal("expected hit on first pass")
	}
	if bm.Count() != 0 {
		t.Fatalf("expected temporary breakpoint removed, count=%d", bm.Count())
	}
}

func TestDisabledBreakpointDoesNotHit(t *testing.T) {
	bm := NewBreakpointManager()
	loc := Loc{Function: "f", Block: "entry", IP: 0}
	bp := bm.Add(loc, false, "")
	if err := bm.SetEnabled(bp.ID, false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if _, ok := bm.Hit(loc); ok {
		t.Fatal("expected no hit on disabled breakpoint")
	}
}

func TestDeleteBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(Loc{Function: "f", Block: "entry", IP: 0}, false, "")
	if err := bm.Delete(bp.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := bm.Delete(bp.ID); err == nil {
		t.Fatal("expected error deleting already-deleted breakpoint")
	}
}
