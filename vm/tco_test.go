package vm

import (
	"io"
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

// countdown(n, acc) is self-tail-recursive: the call to itself is
// immediately followed by a bare ret of the call's own result, so
// tailPositionEligible should accept it and tailCallSelf should reuse the
// frame rather than growing the Go call stack (§4.9).
func countdownFunction() *il.Function {
	return &il.Function{
		Name:       "countdown",
		ReturnType: il.I64,
		Params:     []il.Param{{ID: 0, Type: il.I64, Name: "n"}, {ID: 1, Type: il.I64, Name: "acc"}},
		ValueNames: map[int]string{0: "n", 1: "acc", 2: "done", 3: "nacc", 4: "nn", 5: "call_result"},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{Op: il.OpICmpEq, HasResult: true, Result: 2, ResultType: il.I1, Operands: []il.Value{il.Temp(0), il.ConstInt(0, il.I64)}},
					{Op: il.OpCbr, Operands: []il.Value{il.Temp(2)}, Labels: []string{"base", "rec"}, BranchArgs: [][]il.Value{{}, {}}},
				},
				Terminated: true,
			},
			{
				Label: "base",
				Instrs: []*il.Instruction{
					{Op: il.OpRet, Operands: []il.Value{il.Temp(1)}},
				},
				Terminated: true,
			},
			{
				Label: "rec",
				Instrs: []*il.Instruction{
					{Op: il.OpAdd, HasResult: true, Result: 3, ResultType: il.I64, Operands: []il.Value{il.Temp(1), il.ConstInt(1, il.I64)}},
					{Op: il.OpSub, HasResult: true, Result: 4, ResultType: il.I64, Operands: []il.Value{il.Temp(0), il.ConstInt(1, il.I64)}},
					{Op: il.OpCall, HasResult: true, Result: 5, ResultType: il.I64, Callee: "countdown", Operands: []il.Value{il.Temp(4), il.Temp(3)}},
					{Op: il.OpRet, Operands: []il.Value{il.Temp(5)}},
				},
				Terminated: true,
			},
		},
	}
}

func TestTailPositionEligibleAcceptsSelfRecursiveCall(t *testing.T) {
	fn := countdownFunction()
	_, es := newTestExec(0)
	es.Frame.Fn = fn
	es.Block = fn.Blocks[2] // "rec"
	es.IP = 2                // the call instruction

	callInstr := fn.Blocks[2].Instrs[2]
	if !es.tailPositionEligible(callInstr, fn) {
		t.Fatal("expected the self-recursive call immediately followed by ret to be tail-eligible")
	}
}

func TestTCOProducesSameResultAsNonTCO(t *testing.T) {
	m := il.NewModule()
	if err := m.AddFunction(countdownFunction()); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}

	withTCO := NewVM()
	withTCO.OutputWriter = io.Discard
	withTCO.TCOEnabled = true
	if err := withTCO.BindModule(m); err != nil {
		t.Fatalf("BindModule: %v", err)
	}
	gotTCO, err := withTCO.RunFunction("countdown", []Slot{SlotFromI64(1000), SlotFromI64(0)})
	if err != nil {
		t.Fatalf("TCO run failed: %v", err)
	}

	withoutTCO := NewVM()
	withoutTCO.OutputWriter = io.Discard
	withoutTCO.TCOEnabled = false
	if err := withoutTCO.BindModule(m); err != nil {
		t.Fatalf("BindModule: %v", err)
	}
	gotPlain, err := withoutTCO.RunFunction("countdown", []Slot{SlotFromI64(1000), SlotFromI64(0)})
	if err != nil {
		t.Fatalf("non-TCO run failed: %v", err)
	}

	if gotTCO.I64 != gotPlain.I64 {
		t.Fatalf("TCO result %d disagrees with non-TCO result %d", gotTCO.I64, gotPlain.I64)
	}
	if gotTCO.I64 != 1000 {
		t.Fatalf("expected countdown(1000, 0) = 1000, got %d", gotTCO.I64)
	}
}

func TestTailCallSelfRestagesParamsAndJumpsToEntry(t *testing.T) {
	fn := countdownFunction()
	_, es := newTestExec(0)
	es.Frame.Fn = fn

	result := es.vm.tailCallSelf(es, fn, []Slot{SlotFromI64(41), SlotFromI64(9)})
	if result != ExecJumped {
		t.Fatalf("expected ExecJumped, got %v", result)
	}
	if es.Block != fn.Entry() {
		t.Fatal("expected tailCallSelf to reposition to the entry block")
	}
	if es.IP != 0 {
		t.Fatalf("expected ip reset to 0, got %d", es.IP)
	}
}
