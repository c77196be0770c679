package vm

// RuntimeString is the VM's reference-counted string handle — the sole
// owned runtime resource (§3 Strings, §5 Shared resources). A nil
// *RuntimeString is the null handle.
type RuntimeString struct {
	data     []byte
	refCount int32
	interned bool // literal-backed; retain/release are no-ops
}

// StringView is a borrowed, non-owning view of a runtime string's bytes,
// used at the marshalling boundary with the runtime bridge (§4.1).
type StringView struct {
	Data []byte
}

// newHeapString allocates a fresh, refcount-1 heap-backed handle.
func newHeapString(data []byte) *RuntimeString {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &RuntimeString{data: cp, refCount: 1}
}

// internLiteral returns an interned sentinel handle for literal string
// constants; retain/release are no-ops on interned handles so repeated
// materialization of the same module literal never frees underlying data
// prematurely.
func internLiteral(data []byte) *RuntimeString {
	return &RuntimeString{data: data, refCount: 1, interned: true}
}

// Retain increments s's reference count. Retaining the null handle is a
// no-op, matching rt_str_retain_maybe.
func Retain(s *RuntimeString) {
	if s == nil || s.interned {
		return
	}
	s.refCount++
}

// Release decrements s's reference count, freeing it at zero. Releasing
// the null handle is a no-op, matching rt_str_release_maybe.
func Release(s *RuntimeString) {
	if s == nil || s.interned {
		return
	}
	s.refCount--
	// Go's GC reclaims s.data once refCount drops to 0 and nothing else
	// retains the handle; no explicit free is required, but refCount
	// dropping below zero indicates an unbalanced retain/release pair
	// and is a host-level integrity bug worth surfacing in tests.
}

// RefCount reports s's current reference count (0 for the null handle).
func RefCount(s *RuntimeString) int32 {
	if s == nil {
		return 0
	}
	return s.refCount
}

// storeString performs the mandatory retain-before-release ordering
// required whenever a string slot overwrites a register, a staged block
// parameter, or a memory location (§3 invariants, §9 "canonical bug").
func storeString(dst **RuntimeString, newVal *RuntimeString) {
	Retain(newVal)
	old := *dst
	*dst = newVal
	Release(old)
}

// ToRuntimeString implements §4.1's to_runtime_string: a null view maps to
// the null handle; an empty view with nil data maps to null; an empty view
// with non-nil data produces a fresh zero-length heap handle; otherwise a
// fresh heap handle is returned.
func ToRuntimeString(view StringView, hasView bool) *RuntimeString {
	if !hasView {
		return nil
	}
	if len(view.Data) == 0 {
		if view.Data == nil {
			return nil
		}
		return newHeapString(nil)
	}
	return newHeapString(view.Data)
}

// FromRuntimeString implements §4.1's from_runtime_string: a null handle
// yields an empty view; otherwise the handle's bytes are exposed. The
// returned view borrows s's storage and must not outlive it.
func FromRuntimeString(s *RuntimeString) StringView {
	if s == nil {
		return StringView{}
	}
	return StringView{Data: s.data}
}
