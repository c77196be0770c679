package vm

import (
	"io"
	"strings"
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

// TestUnhandledTrapAbortsWithDiagnostic exercises raise's fallthrough when no
// handler is installed anywhere on the stack: the run aborts and
// RunFunction surfaces the formatted diagnostic.
func TestUnhandledTrapAbortsWithDiagnostic(t *testing.T) {
	fn := &il.Function{
		Name:       "divzero",
		ReturnType: il.I64,
		ValueNames: map[int]string{0: "r"},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{Op: il.OpSDiv, HasResult: true, Result: 0, ResultType: il.I64,
						Operands: []il.Value{il.ConstInt(1, il.I64), il.ConstInt(0, il.I64)}},
					{Op: il.OpRet, Operands: []il.Value{il.Temp(0)}},
				},
				Terminated: true,
			},
		},
	}
	m := il.NewModule()
	if err := m.AddFunction(fn); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}

	machine := NewVM()
	machine.OutputWriter = io.Discard
	if err := machine.BindModule(m); err != nil {
		t.Fatalf("BindModule: %v", err)
	}
	_, err := machine.RunFunction("divzero", nil)
	if err == nil {
		t.Fatal("expected an error from an unhandled trap")
	}
	if !strings.Contains(err.Error(), "DivideByZero") {
		t.Fatalf("expected diagnostic mentioning DivideByZero, got %q", err.Error())
	}
}

// TestHandledTrapResumesNext installs an eh.push handler around a faulting
// div, and the landing pad uses resume.next to continue execution just past
// the faulting instruction, producing a fallback value instead of aborting.
func TestHandledTrapResumesNext(t *testing.T) {
	fn := &il.Function{
		Name:       "safeDiv",
		ReturnType: il.I64,
		ValueNames: map[int]string{0: "e", 1: "rt", 2: "q", 3: "r"},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{Op: il.OpEhPush, Labels: []string{"handler"}},
					{Op: il.OpSDiv, HasResult: true, Result: 2, ResultType: il.I64,
						Operands: []il.Value{il.ConstInt(10, il.I64), il.ConstInt(0, il.I64)}},
					{Op: il.OpEhPop},
					{Op: il.OpBr, Labels: []string{"done"}, BranchArgs: [][]il.Value{{il.Temp(2)}}},
				},
				Terminated: true,
			},
			{
				Label:  "handler",
				Params: []il.BlockParam{{ID: 0, Type: il.ErrorType, Name: "e"}, {ID: 1, Type: il.ResumeTok, Name: "rt"}},
				Instrs: []*il.Instruction{
					{Op: il.OpEhEntry},
					{Op: il.OpResumeNext, Operands: []il.Value{il.Temp(1)}},
				},
				Terminated: true,
			},
			{
				Label:  "done",
				Params: []il.BlockParam{{ID: 3, Type: il.I64, Name: "r"}},
				Instrs: []*il.Instruction{
					{Op: il.OpRet, Operands: []il.Value{il.Temp(3)}},
				},
				Terminated: true,
			},
		},
	}
	m := il.NewModule()
	if err := m.AddFunction(fn); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}

	machine := NewVM()
	machine.OutputWriter = io.Discard
	if err := machine.BindModule(m); err != nil {
		t.Fatalf("BindModule: %v", err)
	}
	result, err := machine.RunFunction("safeDiv", nil)
	if err != nil {
		t.Fatalf("expected the handler to recover, got error: %v", err)
	}
	// %2 was never stored (the div faulted before writing its result), so
	// its register still holds the zero value staged by NewFrame.
	if result.I64 != 0 {
		t.Fatalf("expected fallback result 0, got %d", result.I64)
	}
}
