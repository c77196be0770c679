package vm

import (
	"os"
	"sort"
	"strconv"
)

// SwitchBackend selects the dispatch strategy a switch cache entry uses.
type SwitchBackend int

const (
	BackendAuto SwitchBackend = iota
	BackendDense
	BackendSorted
	BackendHashed
	BackendLinear
)

// switchTunables are read once from the environment (§4.4); a package-level
// default instance backs production use, while tests can construct their
// own via loadTunablesFromEnv for isolation.
type switchTunables struct {
	DenseMaxRange   int
	DenseMinDensity float64
	HashMinCases    int
	HashMaxDensity  float64
	ForcedMode      SwitchBackend
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(name string, def float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func loadTunablesFromEnv() switchTunables {
	mode := BackendAuto
	switch os.Getenv("IL_SWITCH_MODE") {
	case "Dense":
		mode = BackendDense
	case "Sorted":
		mode = BackendSorted
	case "Hashed":
		mode = BackendHashed
	case "Linear":
		mode = BackendLinear
	}
	return switchTunables{
		DenseMaxRange:   envInt("DENSE_MAX_RANGE", 4096),
		DenseMinDensity: envFloat("DENSE_MIN_DENSITY", 0.60),
		HashMinCases:    envInt("HASH_MIN_CASES", 64),
		HashMaxDensity:  envFloat("HASH_MAX_DENSITY", 0.15),
		ForcedMode:      mode,
	}
}

var defaultTunables = loadTunablesFromEnv()

// caseEntry is one (value -> successor index) mapping, successor index 0
// reserved for the default target.
type caseEntry struct {
	value int32
	dest  int
}

// SwitchCache is the compiled dispatch table for one switch.i32 instruction
// (§4.4), keyed by instruction identity in the owning ExecState.
type SwitchCache struct {
	backend SwitchBackend

	min, max int32
	dense    []int32 // dest index, -1 = fall through to default

	sorted []caseEntry // sorted by value, binary search

	hashed map[int32]int

	linear []caseEntry

	numLabels int
}

// buildSwitchCache collects distinct case values (first occurrence wins)
// and selects a backend per the density heuristic (§4.4).
func buildSwitchCache(cases []int32, numLabels int, t switchTunables) *SwitchCache {
	seen := make(map[int32]bool, len(cases))
	entries := make([]caseEntry, 0, len(cases))
	for i, v := range cases {
		if seen[v] {
			continue
		}
		seen[v] = true
		entries = append(entries, caseEntry{value: v, dest: i + 1}) // +1: label 0 is default
	}

	sc := &SwitchCache{numLabels: numLabels}

	mode := t.ForcedMode
	if mode == BackendAuto {
		mode = selectBackend(entries, t)
	}
	sc.backend = mode

	switch mode {
	case BackendDense:
		sc.buildDense(entries)
	case BackendHashed:
		sc.buildHashed(entries)
	case BackendLinear:
		sc.linear = entries
	default:
		sc.buildSorted(entries)
	}
	return sc
}

func selectBackend(entries []caseEntry, t switchTunables) SwitchBackend {
	if len(entries) == 0 {
		return BackendSorted
	}
	minV, maxV := entries[0].value, entries[0].value
	for _, e := range entries[1:] {
		if e.value < minV {
			minV = e.value
		}
		if e.value > maxV {
			maxV = e.value
		}
	}
	rangeSize := int64(maxV) - int64(minV) + 1
	density := float64(len(entries)) / float64(rangeSize)

	if rangeSize <= int64(t.DenseMaxRange) && density >= t.DenseMinDensity {
		return BackendDense
	}
	if len(entries) >= t.HashMinCases && density < t.HashMaxDensity {
		return BackendHashed
	}
	return BackendSorted
}

func (sc *SwitchCache) buildDense(entries []caseEntry) {
	if len(entries) == 0 {
		sc.min, sc.max = 0, -1
		return
	}
	minV, maxV := entries[0].value, entries[0].value
	for _, e := range entries[1:] {
		if e.value < minV {
			minV = e.value
		}
		if e.value > maxV {
			maxV = e.value
		}
	}
	sc.min, sc.max = minV, maxV
	table := make([]int32, int64(maxV)-int64(minV)+1)
	for i := range table {
		table[i] = -1
	}
	for _, e := range entries {
		table[int64(e.value)-int64(minV)] = int32(e.dest)
	}
	sc.dense = table
}

func (sc *SwitchCache) buildSorted(entries []caseEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].value < entries[j].value })
	sc.sorted = entries
}

func (sc *SwitchCache) buildHashed(entries []caseEntry) {
	m := make(map[int32]int, len(entries))
	for _, e := range entries {
		m[e.value] = e.dest
	}
	sc.hashed = m
}

// Lookup resolves scrutinee to a successor label index, 0 (default) when
// no case matches. An out-of-range resolved index is reported as an error
// for the caller to raise InvalidOperation.
func (sc *SwitchCache) Lookup(scrutinee int32) (int, error) {
	dest := 0
	switch sc.backend {
	case BackendDense:
		if len(sc.dense) > 0 && scrutinee >= sc.min && scrutinee <= sc.max {
			if d := sc.dense[int64(scrutinee)-int64(sc.min)]; d >= 0 {
				dest = int(d)
			}
		}
	case BackendHashed:
		if d, ok := sc.hashed[scrutinee]; ok {
			dest = d
		}
	case BackendLinear:
		for _, e := range sc.linear {
			if e.value == scrutinee {
				dest = e.dest
				break
			}
		}
	default: // sorted: binary search
		entries := sc.sorted
		i := sort.Search(len(entries), func(i int) bool { return entries[i].value >= scrutinee })
		if i < len(entries) && entries[i].value == scrutinee {
			dest = entries[i].dest
		}
	}
	if dest < 0 || dest >= sc.numLabels {
		return 0, errSwitchOutOfRange
	}
	return dest, nil
}

var errSwitchOutOfRange = errSwitchRange{}

type errSwitchRange struct{}

func (errSwitchRange) Error() string { return "switch target out of range" }
