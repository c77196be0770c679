package vm

import "testing"

func TestBuildSwitchCacheSelectsDenseForContiguousSmallRange(t *testing.T) {
	cases := []int32{0, 1, 2, 3}
	sc := buildSwitchCache(cases, 5, defaultTunables)
	if sc.backend != BackendDense {
		t.Fatalf("expected dense backend for a dense small range, got %v", sc.backend)
	}
	dest, err := sc.Lookup(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != 3 {
		t.Fatalf("expected dest 3 (case index 2 + 1), got %d", dest)
	}
}

func TestBuildSwitchCacheForcedHashed(t *testing.T) {
	tun := defaultTunables
	tun.ForcedMode = BackendHashed
	cases := []int32{10, 2000, -500}
	sc := buildSwitchCache(cases, 4, tun)
	if sc.backend != BackendHashed {
		t.Fatalf("expected forced hashed backend, got %v", sc.backend)
	}
	dest, err := sc.Lookup(-500)
	if err != nil || dest != 3 {
		t.Fatalf("expected dest 3, got dest=%d err=%v", dest, err)
	}
}

func TestSwitchCacheLookupDefaultsToZeroOnMiss(t *testing.T) {
	sc := buildSwitchCache([]int32{1, 2, 3}, 4, defaultTunables)
	dest, err := sc.Lookup(999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != 0 {
		t.Fatalf("expected default dest 0 on miss, got %d", dest)
	}
}

func TestSwitchCacheLookupOutOfRangeDestErrors(t *testing.T) {
	// numLabels smaller than the dest a case would resolve to.
	sc := buildSwitchCache([]int32{1, 2, 3}, 2, defaultTunables)
	if _, err := sc.Lookup(3); err == nil {
		t.Fatal("expected an out-of-range dest error")
	}
}

func TestSwitchCacheDuplicateCaseValuesKeepFirst(t *testing.T) {
	sc := buildSwitchCache([]int32{5, 5, 5}, 4, defaultTunables)
	dest, err := sc.Lookup(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != 1 {
		t.Fatalf("expected the first occurrence's dest (1), got %d", dest)
	}
}

func TestBuildSwitchCacheForcedLinear(t *testing.T) {
	tun := defaultTunables
	tun.ForcedMode = BackendLinear
	sc := buildSwitchCache([]int32{7, 8, 9}, 4, tun)
	if sc.backend != BackendLinear {
		t.Fatalf("expected linear backend, got %v", sc.backend)
	}
	dest, err := sc.Lookup(8)
	if err != nil || dest != 2 {
		t.Fatalf("expected dest 2, got dest=%d err=%v", dest, err)
	}
}

func TestBuildSwitchCacheForcedSorted(t *testing.T) {
	tun := defaultTunables
	tun.ForcedMode = BackendSorted
	sc := buildSwitchCache([]int32{30, 10, 20}, 4, tun)
	if sc.backend != BackendSorted {
		t.Fatalf("expected sorted backend, got %v", sc.backend)
	}
	dest, err := sc.Lookup(20)
	if err != nil || dest != 3 {
		t.Fatalf("expected dest 3, got dest=%d err=%v", dest, err)
	}
}
