package vm

import "github.com/lookbusy1344/ilvm-core/il"

// ExecResult is the outcome of one opcode handler invocation (§4.3).
type ExecResult int

const (
	ExecContinue ExecResult = iota // advance ip
	ExecJumped                     // handler already repositioned block/ip
	ExecReturned                   // function finished with a pending slot
)

// CallSite records where a nested call was made from, so a trap that
// escapes the callee can be attributed to the caller's call instruction
// (§5 Ordering).
type CallSite struct {
	Block string
	IP    uint64
	Loc   il.SourceLoc
}

// ExecState is the state owned by a dispatch strategy for one function
// invocation (§3 "Execution state"). Each call to callFunction creates one
// and pushes it onto the VM's execution stack for the duration of the call.
type ExecState struct {
	vm    *VM
	Frame *Frame

	Block *il.BasicBlock
	IP    int

	PendingResult Slot
	ExitRequested bool
	Returned      bool

	SkipBreakOnce bool

	CurrentInstr *il.Instruction
	CallSite     CallSite

	caches map[*il.Instruction]*SwitchCache
}

func newExecState(vm *VM, frame *Frame, entry *il.BasicBlock) *ExecState {
	return &ExecState{
		vm:     vm,
		Frame:  frame,
		Block:  entry,
		IP:     0,
		caches: make(map[*il.Instruction]*SwitchCache),
	}
}

// switchCacheFor returns (creating if necessary) this state's compiled
// dispatch table for instr, keyed by instruction identity (§4.4, §5
// "Inline caches ... Not shared across recursion").
func (es *ExecState) switchCacheFor(instr *il.Instruction) *SwitchCache {
	if sc, ok := es.caches[instr]; ok {
		return sc
	}
	sc := buildSwitchCache(instr.CaseValues, len(instr.Labels), es.vm.tunables)
	es.caches[instr] = sc
	return sc
}
