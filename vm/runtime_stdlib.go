package vm

import (
	"fmt"
	"math"
)

// standardRuntimeFuncs is the minimal in-module reference runtime library
// (SPEC_FULL.md §6): just enough host services to exercise string
// marshalling, an abort path, and pow's domain-error/overflow
// classification, without requiring an external native codegen target.
func standardRuntimeFuncs() []RuntimeDescriptor {
	return []RuntimeDescriptor{
		{Name: "rt_len", Arity: 1, Fn: rtLen},
		{Name: "rt_abort", Arity: 1, Fn: rtAbort},
		{Name: "rt_string_from_bytes", Arity: 2, Fn: rtStringFromBytes},
		{Name: "rt_const_cstr", Arity: 1, Fn: rtConstCstr},
		{Name: "rt_string_cstr", Arity: 1, Fn: rtStringCstr},
		{Name: "rt_str_retain_maybe", Arity: 1, Fn: rtStrRetainMaybe},
		{Name: "rt_str_release_maybe", Arity: 1, Fn: rtStrReleaseMaybe},
		{Name: "rt_pow", Arity: 2, Fn: rtPow},
	}
}

func rtLen(vm *VM, args []Slot) (Slot, error) {
	view := FromRuntimeString(args[0].Str)
	return SlotFromI64(int64(len(view.Data))), nil
}

func rtAbort(vm *VM, args []Slot) (Slot, error) {
	return Slot{}, classifiedTrap(RuntimeError, fmt.Sprintf("rt_abort: code %d", args[0].I64))
}

// rtStringFromBytes reads args[1] bytes from the arena address in args[0]
// and wraps them in a fresh owned runtime string handle (§4.1
// to_runtime_string, applied to a host-supplied byte range).
func rtStringFromBytes(vm *VM, args []Slot) (Slot, error) {
	n := args[1].I64
	if n < 0 {
		return Slot{}, classifiedTrap(InvalidOperation, "rt_string_from_bytes: negative length")
	}
	b, err := vm.memory.ReadBytes(args[0].Ptr, int(n))
	if err != nil {
		return Slot{}, classifiedTrap(Bounds, err.Error())
	}
	return SlotFromStr(newHeapString(b)), nil
}

// rtConstCstr wraps a host-owned, NUL-terminated byte range already present
// in an arena as an interned (non-owning) string handle.
func rtConstCstr(vm *VM, args []Slot) (Slot, error) {
	segID, offset := unpackAddr(args[0].Ptr)
	var out []byte
	for i := 0; ; i++ {
		b, err := vm.memory.ReadN(packAddr(segID, offset+uint64(i)), 1)
		if err != nil {
			return Slot{}, classifiedTrap(Bounds, err.Error())
		}
		if b[0] == 0 {
			break
		}
		out = append(out, b[0])
	}
	return SlotFromStr(internLiteral(out)), nil
}

// rtStringCstr is the inverse of rt_const_cstr: it materializes a runtime
// string's bytes plus a trailing NUL into a fresh arena allocation owned by
// the calling frame, returning its address.
func rtStringCstr(vm *VM, args []Slot) (Slot, error) {
	view := FromRuntimeString(args[0].Str)
	es := vm.topState()
	if es == nil {
		return Slot{}, classifiedTrap(RuntimeError, "rt_string_cstr: no active frame")
	}
	addr, err := es.Frame.Stack.Alloca(uint64(len(view.Data) + 1))
	if err != nil {
		return Slot{}, classifiedTrap(Overflow, err.Error())
	}
	buf := append(append([]byte{}, view.Data...), 0)
	for i, b := range buf {
		if err := vm.memory.WriteN(addr+uint64(i), []byte{b}); err != nil {
			return Slot{}, classifiedTrap(Bounds, err.Error())
		}
	}
	return SlotFromPtr(addr), nil
}

func rtStrRetainMaybe(vm *VM, args []Slot) (Slot, error) {
	Retain(args[0].Str)
	return args[0], nil
}

func rtStrReleaseMaybe(vm *VM, args []Slot) (Slot, error) {
	Release(args[0].Str)
	return Slot{}, nil
}

// rtPow classifies math.Pow's edge cases into the trap taxonomy: a negative
// base with a non-integral exponent has no real result (DomainError); a
// finite result that overflows to +/-Inf is Overflow (§4.7 "pow"-class
// domain-error/overflow classification).
func rtPow(vm *VM, args []Slot) (Slot, error) {
	base, exp := args[0].F64, args[1].F64
	if base < 0 && exp != math.Trunc(exp) {
		return Slot{}, classifiedTrap(DomainError, "rt_pow: negative base with fractional exponent")
	}
	r := math.Pow(base, exp)
	if math.IsInf(r, 0) && !math.IsInf(base, 0) && !math.IsInf(exp, 0) {
		return Slot{}, classifiedTrap(Overflow, "rt_pow: result overflow")
	}
	return SlotFromF64(r), nil
}
