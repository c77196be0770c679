package vm

import "github.com/lookbusy1344/ilvm-core/il"

func registerControlOps(m map[il.Opcode]opHandler) {
	m[il.OpBr] = opBr
	m[il.OpCbr] = opCbr
	m[il.OpSwitch] = opSwitchI32
	m[il.OpRet] = opRet
	m[il.OpCall] = opCall
}

func opBr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	var args []il.Value
	if len(instr.BranchArgs) > 0 {
		args = instr.BranchArgs[0]
	}
	return branchTo(vm, es, instr.Labels[0], args)
}

func opCbr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	cond := operand(vm, es, instr, 0)
	idx := 1
	if cond.Bool() {
		idx = 0
	}
	var args []il.Value
	if idx < len(instr.BranchArgs) {
		args = instr.BranchArgs[idx]
	}
	return branchTo(vm, es, instr.Labels[idx], args)
}

// opSwitchI32 resolves the scrutinee through the instruction's memoized
// switch cache (§4.4) and branches to the resolved successor; Labels[0] is
// always the default target, matching the cache's dest-index convention.
func opSwitchI32(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	scrutinee := operand(vm, es, instr, 0).I32()
	cache := es.switchCacheFor(instr)
	idx, err := cache.Lookup(scrutinee)
	if err != nil {
		return raiseAndContinue(vm, es, InvalidOperation, err.Error())
	}
	var args []il.Value
	if idx < len(instr.BranchArgs) {
		args = instr.BranchArgs[idx]
	}
	return branchTo(vm, es, instr.Labels[idx], args)
}

func opRet(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	var result Slot
	if len(instr.Operands) > 0 {
		result = operand(vm, es, instr, 0)
	}
	es.PendingResult = result
	return ExecReturned
}

// opCall dispatches either to another function defined in the bound module
// (true recursive interpretation, sharing this VM's execStack and trap
// machinery) or to a runtime bridge entry when the callee isn't a module
// function (§4.3.4, §4.7).
func opCall(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	fn, ok := vm.module.Functions[instr.Callee]
	if !ok {
		return vm.runtimeCall(es, instr)
	}

	args := marshalArguments(vm, es, instr)
	es.CallSite = CallSite{Block: es.Block.Label, IP: uint64(es.IP), Loc: instr.Loc}

	if vm.TCOEnabled && es.tailPositionEligible(instr, fn) {
		return vm.tailCallSelf(es, fn, args)
	}

	result := vm.callFunction(fn, args)
	assignCallResult(es, instr, result)
	return ExecContinue
}
