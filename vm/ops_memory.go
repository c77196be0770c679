package vm

import "github.com/lookbusy1344/ilvm-core/il"

func registerMemoryOps(m map[il.Opcode]opHandler) {
	m[il.OpAlloca] = opAlloca
	m[il.OpLoad] = opLoad
	m[il.OpStore] = opStore
	m[il.OpGep] = opGep
	m[il.OpConstStr] = opConstStr
	m[il.OpConstNull] = opConstNull
	m[il.OpAddrOf] = opAddrOf
	m[il.OpGAddr] = opGAddr
}

// opAlloca reserves n bytes in the frame's own arena (§3 "Stack arena
// lifetime"); exhaustion is reported as an Overflow trap rather than a
// panic, since a long-running interpreted program legitimately recovers
// from it via an installed handler.
func opAlloca(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	n := operand(vm, es, instr, 0)
	if n.I64 < 0 {
		return raiseAndContinue(vm, es, InvalidOperation, "alloca with negative size")
	}
	addr, err := es.Frame.Stack.Alloca(uint64(n.I64))
	if err != nil {
		return raiseAndContinue(vm, es, Overflow, err.Error())
	}
	es.Frame.StoreResult(instr, SlotFromPtr(addr))
	return ExecContinue
}

// opLoad reads a typed value from the arena. str is deliberately not a
// loadable memory type here: runtime strings are reference-counted handles,
// not a fixed-width bit pattern, so a string never round-trips through raw
// arena bytes in this design.
func opLoad(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	p := operand(vm, es, instr, 0)
	width, ok := byteWidth(instr.ResultType)
	if !ok {
		return raiseAndContinue(vm, es, InvalidOperation, "load of non-memory type "+instr.ResultType.String())
	}
	b, err := vm.memory.ReadN(p.Ptr, width)
	if err != nil {
		return raiseAndContinue(vm, es, Bounds, err.Error())
	}
	es.Frame.StoreResult(instr, decodeSlot(instr.ResultType, b))
	return ExecContinue
}

func opStore(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	p := operand(vm, es, instr, 0)
	v := operand(vm, es, instr, 1)
	ty := instr.Operands[1].Type
	if _, ok := byteWidth(ty); !ok {
		return raiseAndContinue(vm, es, InvalidOperation, "store of non-memory type "+ty.String())
	}
	b := encodeSlot(ty, v)
	if err := vm.memory.WriteN(p.Ptr, b); err != nil {
		return raiseAndContinue(vm, es, Bounds, err.Error())
	}
	return ExecContinue
}

// opGep computes base+offset with wrapping 64-bit arithmetic and no bounds
// validation: a null base with a nonzero offset produces a non-null,
// unmapped address rather than trapping immediately, matching the "compute
// now, fault on actual access" contract the load/store handlers enforce.
func opGep(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	base := operand(vm, es, instr, 0)
	offset := operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromPtr(base.Ptr+uint64(offset.I64)))
	return ExecContinue
}

func opConstStr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	if len(instr.Operands) == 0 {
		es.Frame.StoreResult(instr, SlotFromStr(vm.literalFor("")))
		return ExecContinue
	}
	es.Frame.StoreResult(instr, SlotFromStr(vm.literalFor(instr.Operands[0].ConstStr)))
	return ExecContinue
}

func opConstNull(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	switch instr.ResultType {
	case il.Str:
		es.Frame.StoreResult(instr, SlotFromStr(nil))
	default:
		es.Frame.StoreResult(instr, SlotFromPtr(0))
	}
	return ExecContinue
}

// opAddrOf yields the address of an already-materialized arena value; in
// this design every addressable local is already alloca'd, so addr.of is a
// pass-through of its ptr-typed operand.
func opAddrOf(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	p := operand(vm, es, instr, 0)
	es.Frame.StoreResult(instr, SlotFromPtr(p.Ptr))
	return ExecContinue
}

// opGAddr resolves a module-level global string constant by name, reusing
// Callee as the symbol field since g.addr's only operand is a name, not a
// value list.
func opGAddr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	s, ok := vm.lookupGlobal(instr.Callee)
	if !ok {
		return raiseAndContinue(vm, es, InvalidOperation, "unknown global "+instr.Callee)
	}
	es.Frame.StoreResult(instr, SlotFromStr(s))
	return ExecContinue
}
