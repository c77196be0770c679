package vm

import "github.com/lookbusy1344/ilvm-core/il"

// opHandler is the uniform per-opcode handler signature (§4.3).
type opHandler func(vm *VM, es *ExecState, instr *il.Instruction) ExecResult

// dispatchStrategy is the interface the three interchangeable loops of
// §4.5 implement; each must honour the same step contract.
type dispatchStrategy interface {
	Step(es *ExecState)
}

// drive runs the step loop to completion, catching the typed trap-dispatch
// event (§4.5 "Trap dispatch event") when it targets this state and
// resuming; any other trapEvent (targeting an ancestor state, or an abort)
// is re-panicked so the owning frame (or the outermost RunFunction) can
// catch it. The teardown defers installed by callFunction still run as
// the panic unwinds past this frame, since Go runs deferred functions
// during panic propagation.
func (es *ExecState) drive(strategy dispatchStrategy) {
	defer func() {
		if r := recover(); r != nil {
			ev, ok := r.(trapEvent)
			if !ok {
				panic(r)
			}
			if ev.abort || ev.target != es {
				panic(ev)
			}
			es.drive(strategy)
		}
	}()

	for !es.ExitRequested {
		es.vm.totalSteps++
		if es.vm.MaxSteps > 0 && es.vm.totalSteps > es.vm.MaxSteps {
			es.vm.abortRun(VmError{Kind: stepLimitKind, Message: "step limit exceeded"}, es)
		}
		strategy.Step(es)
	}
}

// runStep implements the shared step contract (§4.5) for a strategy that
// resolves an instruction's handler via lookup. It is the common body
// behind tableStrategy and switchStrategy so every strategy observes
// identical frame/debugger/trap behaviour (§8 invariant 1).
func runStep(es *ExecState, lookup func(op il.Opcode) opHandler) {
	vm := es.vm

	// 1. Begin dispatch: clear per-iteration state.
	es.CurrentInstr = nil

	// 2. Select instruction.
	if es.IP >= len(es.Block.Instrs) {
		// Well-formed functions never fall off a block; treat as a clean
		// exit with a zero result rather than indexing out of range.
		es.PendingResult = Slot{}
		es.Returned = true
		es.ExitRequested = true
		return
	}
	instr := es.Block.Instrs[es.IP]
	es.CurrentInstr = instr

	if es.IP == 0 {
		es.Frame.ConsumeBlockParams(es.Block, func(name string, ty il.Kind, s Slot) {
			if vm.Debug != nil {
				vm.Debug.OnParamBound(es, name, ty, s)
			}
		})
	}

	if vm.Debug != nil && !es.SkipBreakOnce {
		if pause, slot := vm.Debug.BeforeInstr(es, instr); pause {
			es.PendingResult = slot
			es.Returned = true
			es.ExitRequested = true
			return
		}
	}
	es.SkipBreakOnce = false

	if vm.Stats != nil {
		vm.Stats.RecordOpcode(instr.Op)
	}

	// 3. Execute instruction.
	handler := lookup(instr.Op)
	if handler == nil {
		vm.raise(es, VmError{Kind: InvalidOperation, Message: "unknown opcode: " + string(instr.Op)})
		return
	}
	result := handler(vm, es, instr)

	// 4. Finalize.
	switch result {
	case ExecReturned:
		es.Returned = true
		es.ExitRequested = true
		return
	case ExecJumped:
		if vm.Debug != nil {
			vm.Debug.OnBlockEntered(es)
		}
	default: // ExecContinue
		es.IP++
	}

	if vm.Debug != nil {
		if pause, slot := vm.Debug.AfterInstr(es, instr); pause {
			es.PendingResult = slot
			es.Returned = true
			es.ExitRequested = true
		}
	}
}
