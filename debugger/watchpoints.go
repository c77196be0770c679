package debugger

import (
	"fmt"
	"sync"
)

// Watchpoint monitors a named SSA value for a change in its integer-lane
// value. Unlike the breakpoint address space, watched values are named
// variables (§4.2 ValueNames), not raw memory, so only a value-change
// comparison is offered — there is no separate read/write distinction to
// make at this level.
type Watchpoint struct {
	ID        int
	Name      string
	Enabled   bool
	HasLast   bool
	LastValue int64
	HitCount  int
}

// WatchpointManager manages all watchpoints.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager creates an empty watchpoint manager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{watchpoints: make(map[int]*Watchpoint), nextID: 1}
}

// Add installs a watchpoint on the named value.
func (wm *WatchpointManager) Add(name string) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wp := &Watchpoint{ID: wm.nextID, Name: name, Enabled: true}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

// Delete removes the watchpoint with the given ID.
func (wm *WatchpointManager) Delete(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

// SetEnabled enables or disables the watchpoint with the given ID.
func (wm *WatchpointManager) SetEnabled(id int, enabled bool) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	wp.Enabled = enabled
	return nil
}

// All returns every watchpoint, in no particular order.
func (wm *WatchpointManager) All() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	out := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		out = append(out, wp)
	}
	return out
}

// Clear removes every watchpoint.
func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watchpoints = make(map[int]*Watchpoint)
}

// Count returns the number of installed watchpoints.
func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchpoints)
}

// Observe feeds the current value of a bound variable to every enabled
// watchpoint matching its name, returning the first one whose value
// changed since the previous observation (§4.6 "variable-watch hook").
func (wm *WatchpointManager) Observe(name string, value int64) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled || wp.Name != name {
			continue
		}
		if !wp.HasLast {
			wp.HasLast = true
			wp.LastValue = value
			continue
		}
		if value != wp.LastValue {
			wp.LastValue = value
			wp.HitCount++
			result := *wp
			return &result, true
		}
	}
	return nil, false
}
