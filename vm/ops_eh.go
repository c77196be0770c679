package vm

import "github.com/lookbusy1344/ilvm-core/il"

func registerEhOps(m map[il.Opcode]opHandler) {
	m[il.OpEhPush] = opEhPush
	m[il.OpEhPop] = opEhPop
	m[il.OpEhEntry] = opEhEntry
	m[il.OpResumeSame] = opResumeSame
	m[il.OpResumeNext] = opResumeNext
	m[il.OpResumeLabel] = opResumeLabel
	m[il.OpTrap] = opTrapBare
	m[il.OpTrapErr] = opTrapErr
	m[il.OpTrapKind] = opTrapKind
	m[il.OpErrGetKind] = opErrGetKind
	m[il.OpErrGetCode] = opErrGetCode
	m[il.OpErrGetIP] = opErrGetIP
	m[il.OpErrGetLine] = opErrGetLine
}

// opEhPush installs a handler on the frame's EH stack, where it stays until
// a matching eh.pop (§4.3.5); Labels[0] names the landing-pad block.
func opEhPush(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	es.Frame.PushHandler(instr.Labels[0], uint64(es.IP))
	return ExecContinue
}

func opEhPop(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	es.Frame.PopHandler()
	return ExecContinue
}

// opEhEntry marks a landing-pad block's first instruction; it performs no
// work of its own (the error/resume_tok parameters are already bound by
// raise before control arrives here) and exists purely so a reader of the
// block can see where handler semantics begin.
func opEhEntry(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	return ExecContinue
}

func resumeOperand(es *ExecState, instr *il.Instruction) (Slot, bool) {
	if len(instr.Operands) == 0 {
		return Slot{}, false
	}
	s := evalOperand(es.vm, es.Frame, instr.Operands[0])
	return s, s.Resume != nil
}

// opResumeSame consumes the single-use resume token and re-executes the
// instruction that faulted (§4.3.5 resume.same).
func opResumeSame(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	s, ok := resumeOperand(es, instr)
	tok := es.Frame.ExpectResumeToken(s.Resume)
	if !ok || tok == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "resume.same: invalid or reused token")
	}
	block, bok := es.Frame.Fn.Block(tok.FaultingBlock)
	if !bok {
		return raiseAndContinue(vm, es, InvalidOperation, "resume.same: unknown faulting block")
	}
	tok.Valid = false
	es.Block = block
	es.IP = int(tok.FaultIP)
	return ExecJumped
}

// opResumeNext consumes the token and continues just past the faulting
// instruction (§4.3.5 resume.next).
func opResumeNext(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	s, ok := resumeOperand(es, instr)
	tok := es.Frame.ExpectResumeToken(s.Resume)
	if !ok || tok == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "resume.next: invalid or reused token")
	}
	block, bok := es.Frame.Fn.Block(tok.FaultingBlock)
	if !bok {
		return raiseAndContinue(vm, es, InvalidOperation, "resume.next: unknown faulting block")
	}
	tok.Valid = false
	es.Block = block
	es.IP = int(tok.NextIP)
	return ExecJumped
}

// opResumeLabel consumes the token and transfers to an explicit handler-
// chosen block instead of back into the faulting one (§4.3.5 resume.label).
func opResumeLabel(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	s, ok := resumeOperand(es, instr)
	tok := es.Frame.ExpectResumeToken(s.Resume)
	if !ok || tok == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "resume.label: invalid or reused token")
	}
	tok.Valid = false
	var args []il.Value
	if len(instr.BranchArgs) > 0 {
		args = instr.BranchArgs[0]
	}
	return branchTo(vm, es, instr.Labels[0], args)
}

// opTrapBare raises using an operand-supplied kind with no code/message
// (§4.3.5 trap).
func opTrapBare(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	kind := RuntimeError
	if len(instr.Operands) > 0 {
		kind = TrapKindFromValue(operand(vm, es, instr, 0).I32())
	}
	vm.raise(es, VmError{Kind: kind})
	return ExecJumped
}

// opTrapErr raises a fully specified trap carrying a literal code and
// optional message (§4.3.5 trap.err).
func opTrapErr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	kind := RuntimeError
	if len(instr.Operands) > 0 {
		kind = TrapKindFromValue(operand(vm, es, instr, 0).I32())
	}
	msg := ""
	if instr.HasMessage {
		msg = instr.Message
	}
	vm.raise(es, VmError{Kind: kind, Code: instr.Code, Message: msg})
	return ExecJumped
}

// opTrapKind builds a kind-valued constant for a subsequent trap/trap.err
// operand rather than raising anything itself; it is not a terminator.
func opTrapKind(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	es.Frame.StoreResult(instr, SlotFromI64(v.I64))
	return ExecContinue
}

func opErrGetKind(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	e := operand(vm, es, instr, 0)
	if e.Err == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "err.get.kind: null error handle")
	}
	es.Frame.StoreResult(instr, SlotFromI64(int64(e.Err.Kind)))
	return ExecContinue
}

func opErrGetCode(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	e := operand(vm, es, instr, 0)
	if e.Err == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "err.get.code: null error handle")
	}
	es.Frame.StoreResult(instr, SlotFromI64(int64(e.Err.Code)))
	return ExecContinue
}

func opErrGetIP(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	e := operand(vm, es, instr, 0)
	if e.Err == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "err.get.ip: null error handle")
	}
	es.Frame.StoreResult(instr, SlotFromI64(int64(e.Err.IP)))
	return ExecContinue
}

func opErrGetLine(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	e := operand(vm, es, instr, 0)
	if e.Err == nil {
		return raiseAndContinue(vm, es, InvalidOperation, "err.get.line: null error handle")
	}
	es.Frame.StoreResult(instr, SlotFromI64(int64(e.Err.Line)))
	return ExecContinue
}
