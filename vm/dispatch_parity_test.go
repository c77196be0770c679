package vm

import (
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

// buildSumModule mirrors the sumTo function of the demo program in main.go:
// sumTo(n) accumulates 1..n via a block-parameter induction variable,
// exercising br/cbr, block params, scmp/add and function-argument binding.
func buildSumModule(t *testing.T) *il.Module {
	t.Helper()
	sumTo := &il.Function{
		Name:       "sumTo",
		ReturnType: il.I64,
		Params:     []il.Param{{ID: 0, Type: il.I64, Name: "n"}},
		ValueNames: map[int]string{0: "n", 1: "i", 2: "acc", 3: "cond", 4: "nacc", 5: "ni", 6: "result"},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{Op: il.OpBr, Labels: []string{"loop"}, BranchArgs: [][]il.Value{{il.ConstInt(1, il.I64), il.ConstInt(0, il.I64)}}},
				},
				Terminated: true,
			},
			{
				Label:  "loop",
				Params: []il.BlockParam{{ID: 1, Type: il.I64, Name: "i"}, {ID: 2, Type: il.I64, Name: "acc"}},
				Instrs: []*il.Instruction{
					{Op: il.OpSCmpGt, HasResult: true, Result: 3, ResultType: il.I1, Operands: []il.Value{il.Temp(1), il.Temp(0)}},
					{Op: il.OpCbr, Operands: []il.Value{il.Temp(3)}, Labels: []string{"done", "body"}, BranchArgs: [][]il.Value{{il.Temp(2)}, {}}},
				},
				Terminated: true,
			},
			{
				Label: "body",
				Instrs: []*il.Instruction{
					{Op: il.OpAdd, HasResult: true, Result: 4, ResultType: il.I64, Operands: []il.Value{il.Temp(2), il.Temp(1)}},
					{Op: il.OpAdd, HasResult: true, Result: 5, ResultType: il.I64, Operands: []il.Value{il.Temp(1), il.ConstInt(1, il.I64)}},
					{Op: il.OpBr, Labels: []string{"loop"}, BranchArgs: [][]il.Value{{il.Temp(5), il.Temp(4)}}},
				},
				Terminated: true,
			},
			{
				Label:  "done",
				Params: []il.BlockParam{{ID: 6, Type: il.I64, Name: "result"}},
				Instrs: []*il.Instruction{
					{Op: il.OpRet, Operands: []il.Value{il.Temp(6)}},
				},
				Terminated: true,
			},
		},
	}

	m := il.NewModule()
	if err := m.AddFunction(sumTo); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	return m
}

// TestDispatchStrategyParity pins invariant 1 (§8): table, switch and
// threaded dispatch strategies must agree on every observable result for
// the same program.
func TestDispatchStrategyParity(t *testing.T) {
	module := buildSumModule(t)

	modes := []DispatchMode{ModeTable, ModeSwitch, ModeThreaded}
	results := make([]int64, len(modes))

	for i, mode := range modes {
		machine := NewVM()
		machine.Mode = mode
		if err := machine.BindModule(module); err != nil {
			t.Fatalf("BindModule: %v", err)
		}
		result, err := machine.RunFunction("sumTo", []Slot{SlotFromI64(10)})
		if err != nil {
			t.Fatalf("mode %v: RunFunction failed: %v", mode, err)
		}
		results[i] = result.I64
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("dispatch strategies disagree: mode %v got %d, mode %v got %d",
				modes[0], results[0], modes[i], results[i])
		}
	}
	if results[0] != 55 {
		t.Fatalf("expected sumTo(10) = 55, got %d", results[0])
	}
}
