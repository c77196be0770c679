package vm

import "github.com/lookbusy1344/ilvm-core/il"

// tailPositionEligible reports whether instr is a self-recursive call
// immediately followed by a bare ret of its own result, the narrow case
// this interpreter optimizes (§4.9). Anything else — a different callee, a
// block that does work between the call and the ret, or an arity mismatch
// against fn's declared parameters — falls back to an ordinary nested call.
func (es *ExecState) tailPositionEligible(instr *il.Instruction, fn *il.Function) bool {
	if fn != es.Frame.Fn {
		return false
	}
	if len(instr.Operands) != len(fn.Params) {
		return false
	}
	next := es.IP + 1
	if next >= len(es.Block.Instrs) {
		return false
	}
	ret := es.Block.Instrs[next]
	if ret.Op != il.OpRet {
		return false
	}
	if !instr.HasResult {
		return len(ret.Operands) == 0
	}
	return len(ret.Operands) == 1 &&
		ret.Operands[0].Kind == il.ValueTemp &&
		ret.Operands[0].Temp == instr.Result
}

// tailCallSelf reuses the current frame instead of growing the Go call
// stack: it restages the callee's arguments as the entry block's branch
// arguments and repositions execution there, exactly like a branch. The
// frame's eh_stack and resume_state are untouched, so a handler installed
// before the tail call is still in scope for the reused frame.
func (vm *VM) tailCallSelf(es *ExecState, fn *il.Function, args []Slot) ExecResult {
	entry := fn.Entry()
	for i, p := range fn.Params {
		var s Slot
		if i < len(args) {
			s = args[i]
		}
		es.Frame.StageParam(p.ID, p.Type, s)
	}
	es.Block = entry
	es.IP = 0
	return ExecJumped
}
