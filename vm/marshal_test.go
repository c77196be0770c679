package vm

import (
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

func TestMarshalArgumentsEvaluatesEachOperand(t *testing.T) {
	_, es := newTestExec(4)
	es.Frame.StoreRaw(0, il.I64, SlotFromI64(7))

	instr := &il.Instruction{
		Op:       il.OpCall,
		Callee:   "callee",
		Operands: []il.Value{il.Temp(0), il.ConstInt(99, il.I64)},
	}
	args := marshalArguments(es.vm, es, instr)
	if len(args) != 2 {
		t.Fatalf("expected 2 marshalled args, got %d", len(args))
	}
	if args[0].I64 != 7 || args[1].I64 != 99 {
		t.Fatalf("unexpected marshalled values: %+v", args)
	}
}

func TestAssignCallResultWritesDestinationRegister(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{HasResult: true, Result: 2, ResultType: il.I64}
	assignCallResult(es, instr, SlotFromI64(42))
	if got := es.Frame.Reg(2).I64; got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCheckArityMismatch(t *testing.T) {
	if err := checkArity("rt_len", 1, 2); err == nil {
		t.Fatal("expected an arity mismatch error")
	} else if got, want := err.Error(), "rt_len: expected 1 argument(s), got 2"; got != want {
		t.Fatalf("expected message %q, got %q", want, got)
	}
	if err := checkArity("rt_len", 1, 1); err != nil {
		t.Fatalf("expected no error for matching arity, got %v", err)
	}
}
