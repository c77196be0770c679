package vm

import (
	"math"
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

func f64Operand(id int) il.Value { return il.Value{Kind: il.ValueTemp, Temp: id, Type: il.F64} }

func TestOpFAddF64(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpFAdd,
		HasResult:  true,
		Result:     2,
		ResultType: il.F64,
		Operands:   []il.Value{f64Operand(0), f64Operand(1)},
	}
	runHandler(es, opFAdd, instr, map[int]Slot{0: SlotFromF64(1.5), 1: SlotFromF64(2.25)})
	if got := es.Frame.Reg(2).F64; got != 3.75 {
		t.Fatalf("expected 3.75, got %v", got)
	}
}

func TestOpFCmpNeIsTrueForNaN(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpFCmpNe,
		HasResult:  true,
		Result:     2,
		ResultType: il.I1,
		Operands:   []il.Value{f64Operand(0), f64Operand(1)},
	}
	runHandler(es, opFCmpNe, instr, map[int]Slot{0: SlotFromF64(math.NaN()), 1: SlotFromF64(1.0)})
	if !es.Frame.Reg(2).Bool() {
		t.Fatal("expected NaN != x to be true")
	}
}

func TestOpFCmpLtIsFalseForNaN(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpFCmpLt,
		HasResult:  true,
		Result:     2,
		ResultType: il.I1,
		Operands:   []il.Value{f64Operand(0), f64Operand(1)},
	}
	runHandler(es, opFCmpLt, instr, map[int]Slot{0: SlotFromF64(math.NaN()), 1: SlotFromF64(1.0)})
	if es.Frame.Reg(2).Bool() {
		t.Fatal("expected NaN < x to be false")
	}
}

func TestOpCastFpToSiRteChkRoundsToEven(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToSiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I32,
		Operands:   []il.Value{f64Operand(0)},
	}
	runHandler(es, opCastFpToSiRteChk, instr, map[int]Slot{0: SlotFromF64(2.5)})
	if got := es.Frame.Reg(1).I64; got != 2 {
		t.Fatalf("expected round-to-even(2.5) = 2, got %d", got)
	}
}

func TestOpCastFpToSiRteChkTrapsOnNaN(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToSiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I32,
		Operands:   []il.Value{f64Operand(0)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opCastFpToSiRteChk, instr, map[int]Slot{0: SlotFromF64(math.NaN())})
	})
	if !trapped || kind != InvalidCast {
		t.Fatalf("expected InvalidCast trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpCastFpToSiRteChkTrapsOutOfRange(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToSiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I16,
		Operands:   []il.Value{f64Operand(0)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opCastFpToSiRteChk, instr, map[int]Slot{0: SlotFromF64(1e9)})
	})
	if !trapped || kind != Overflow {
		t.Fatalf("expected Overflow trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpCastFpToSiRteChkTrapsOverflowAt2Pow63(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToSiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I64,
		Operands:   []il.Value{f64Operand(0)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opCastFpToSiRteChk, instr, map[int]Slot{0: SlotFromF64(math.Exp2(63))})
	})
	if !trapped || kind != Overflow {
		t.Fatalf("expected Overflow trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpCastFpToUiRteChkRoundsNegativeZeroToSuccess(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToUiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I32,
		Operands:   []il.Value{f64Operand(0)},
	}
	runHandler(es, opCastFpToUiRteChk, instr, map[int]Slot{0: SlotFromF64(-0.4)})
	if got := es.Frame.Reg(1).I64; got != 0 {
		t.Fatalf("expected -0.4 to round to 0 and succeed, got %d", got)
	}
}

func TestOpCastFpToUiRteChkTrapsInvalidCastOnNegative(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToUiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I32,
		Operands:   []il.Value{f64Operand(0)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opCastFpToUiRteChk, instr, map[int]Slot{0: SlotFromF64(-0.6)})
	})
	if !trapped || kind != InvalidCast {
		t.Fatalf("expected InvalidCast trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpCastFpToUiRteChkTrapsOverflowAt2Pow64(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpCastFpToUiRteChk,
		HasResult:  true,
		Result:     1,
		ResultType: il.I64,
		Operands:   []il.Value{f64Operand(0)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opCastFpToUiRteChk, instr, map[int]Slot{0: SlotFromF64(math.Exp2(64))})
	})
	if !trapped || kind != Overflow {
		t.Fatalf("expected Overflow trap, got kind=%s trapped=%v", kind, trapped)
	}
}
