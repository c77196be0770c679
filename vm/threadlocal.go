package vm

import "sync"

// The VM core's only cross-thread mutable state (§9): a pointer to the
// currently active VM instance, and a fallback trap-token record used when
// no VM is active. Both are package-level and shared by all goroutines;
// with runs on several goroutines at once, CurrentVM reports whichever VM
// was pushed most recently and not yet restored. A single VM instance is
// strictly single-threaded (§5); this registry exists so the runtime
// bridge's package-level helpers (vm_trap, trap-token accessors) can reach
// "whichever VM is running right now" without threading a VM parameter
// through every C-ABI-shaped callback.
var (
	activeMu     sync.Mutex
	activeVM     *VM
	fallbackMu   sync.Mutex
	fallbackTok  VmError
	fallbackUsed bool
)

// pushActiveVM installs vm as the active instance for the duration of a
// run_function call, returning a restore function (the RAII guard pattern
// §4.8 describes).
func pushActiveVM(vm *VM) (restore func()) {
	activeMu.Lock()
	prev := activeVM
	activeVM = vm
	activeMu.Unlock()
	return func() {
		activeMu.Lock()
		activeVM = prev
		activeMu.Unlock()
	}
}

// CurrentVM returns the instance currently marked active, or nil.
func CurrentVM() *VM {
	activeMu.Lock()
	defer activeMu.Unlock()
	return activeVM
}

// acquireTrapToken returns writable storage for constructing a trap token:
// the active VM's per-call slot when one exists, otherwise the package-level
// fallback (§4.1 resolve_error_token, §9).
func acquireTrapToken() *VmError {
	if v := CurrentVM(); v != nil {
		return &v.trapToken
	}
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	fallbackUsed = true
	return &fallbackTok
}

// currentTrapToken returns the most recently written trap token, if any.
func currentTrapToken() *VmError {
	if v := CurrentVM(); v != nil {
		if v.trapTokenValid {
			return &v.trapToken
		}
		return nil
	}
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	if fallbackUsed {
		return &fallbackTok
	}
	return nil
}

// clearTrapToken resets both the VM-owned and fallback trap token validity
// after a trap has been fully handled.
func clearTrapToken(vm *VM) {
	if vm != nil {
		vm.trapTokenValid = false
	}
	fallbackMu.Lock()
	fallbackUsed = false
	fallbackMu.Unlock()
}
