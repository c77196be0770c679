package vm

import (
	"io"

	"github.com/lookbusy1344/ilvm-core/il"
)

// newTestExec builds a VM and an ExecState whose frame has nRegs registers
// and whose current block is a scratch entry block, enough scaffolding for
// op-handler unit tests that don't need a full RunFunction drive loop.
func newTestExec(nRegs int) (*VM, *ExecState) {
	machine := NewVM()
	machine.OutputWriter = io.Discard
	fn := &il.Function{
		Name:       "t",
		ValueNames: make(map[int]string, nRegs),
		Blocks:     []*il.BasicBlock{{Label: "entry"}},
	}
	for i := 0; i < nRegs; i++ {
		fn.ValueNames[i] = "v"
	}
	if err := fn.BuildIndex(); err != nil {
		panic(err)
	}
	frame := NewFrame(fn, machine.memory)
	es := newExecState(machine, frame, fn.Entry())
	return machine, es
}

func i64Op(id int) il.Value    { return il.Temp(id) }
func constI64(v int64, k il.Kind) il.Value { return il.ConstInt(v, k) }

// runHandler executes handler with instr as the current instruction, after
// staging operand registers via setRegs (reg id -> slot).
func runHandler(es *ExecState, handler opHandler, instr *il.Instruction, setRegs map[int]Slot) ExecResult {
	for id, s := range setRegs {
		es.Frame.StoreRaw(id, il.I64, s)
	}
	es.CurrentInstr = instr
	return handler(es.vm, es, instr)
}

// expectTrap runs fn and reports the TrapKind of the trap it raises, or
// ok=false if fn returns normally (no panic).
func expectTrap(fn func()) (kind TrapKind, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if ev, isTrap := r.(trapEvent); isTrap {
				kind = ev.err.Kind
				ok = true
				return
			}
			panic(r)
		}
	}()
	fn()
	return 0, false
}
