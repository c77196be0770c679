package vm

import (
	"fmt"

	"github.com/lookbusy1344/ilvm-core/il"
)

// raise implements the unwind protocol (§4.3.5): it records ip/line
// context into err when unset, walks the VM's execution stack from es
// downward looking for the nearest installed handler, binds the handler's
// landing-pad parameters, and performs a typed non-local transfer back to
// the dispatch loop that owns the frame where the handler was found. If no
// handler exists anywhere on the stack, it formats a diagnostic and aborts
// the whole run. raise never returns.
func (vm *VM) raise(es *ExecState, err VmError) {
	if err.IP == 0 {
		err.IP = uint64(es.IP)
	}
	if err.Line == 0 {
		err.Line = es.currentLine()
	}

	idx := vm.indexOfState(es)
	for i := idx; i >= 0; i-- {
		target := vm.execStack[i]
		rec, ok := target.Frame.TopHandler()
		if !ok {
			continue
		}
		block, ok := target.Frame.Fn.Block(rec.HandlerBlock)
		if !ok {
			continue
		}
		target.Frame.ActiveError = err
		target.Frame.Resume = ResumeState{
			FaultingBlock: target.Block.Label,
			FaultIP:       uint64(target.IP),
			NextIP:        minU64(uint64(target.IP)+1, uint64(len(target.Block.Instrs))),
			Valid:         true,
		}
		if len(block.Params) >= 1 {
			target.Frame.StageParam(block.Params[0].ID, il.ErrorType, Slot{Err: &target.Frame.ActiveError})
		}
		if len(block.Params) >= 2 {
			target.Frame.StageParam(block.Params[1].ID, il.ResumeTok, Slot{Resume: &target.Frame.Resume})
		}
		target.Block = block
		target.IP = 0
		target.CurrentInstr = nil
		clearTrapToken(vm)
		panic(trapEvent{target: target, err: err})
	}

	vm.abortRun(err, es)
}

// abortRun formats the diagnostic for an unhandled trap and panics an
// abort event caught only at the outermost call entry.
func (vm *VM) abortRun(err VmError, es *ExecState) {
	info := FrameInfo{
		Function: es.Frame.Fn.Name,
		Block:    es.Block.Label,
		IP:       uint64(es.IP),
		Line:     err.Line,
	}
	msg := FormatError(err, info)
	fmt.Fprintln(vm.OutputWriter, msg)
	err.Message = msg
	panic(trapEvent{target: nil, err: err, abort: true})
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func (es *ExecState) currentLine() int32 {
	if es.CurrentInstr != nil {
		return int32(es.CurrentInstr.Loc.Line)
	}
	if es.IP < len(es.Block.Instrs) {
		return int32(es.Block.Instrs[es.IP].Loc.Line)
	}
	return -1
}

func (vm *VM) indexOfState(es *ExecState) int {
	for i := len(vm.execStack) - 1; i >= 0; i-- {
		if vm.execStack[i] == es {
			return i
		}
	}
	return len(vm.execStack) - 1
}
