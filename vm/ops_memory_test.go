package vm

import (
	"testing"

	"github.com/lookbusy1344/ilvm-core/il"
)

func TestOpAllocaThenStoreThenLoadRoundTrips(t *testing.T) {
	_, es := newTestExec(6)

	allocaInstr := &il.Instruction{
		Op:         il.OpAlloca,
		HasResult:  true,
		Result:     1,
		ResultType: il.Ptr,
		Operands:   []il.Value{constI64(8, il.I64)},
	}
	runHandler(es, opAlloca, allocaInstr, nil)
	ptr := es.Frame.Reg(1)

	storeInstr := &il.Instruction{
		Op:       il.OpStore,
		Operands: []il.Value{il.Value{Kind: il.ValueTemp, Temp: 1, Type: il.Ptr}, il.Value{Kind: il.ValueTemp, Temp: 2, Type: il.I64}},
	}
	runHandler(es, opStore, storeInstr, map[int]Slot{1: ptr, 2: SlotFromI64(424242)})

	loadInstr := &il.Instruction{
		Op:         il.OpLoad,
		HasResult:  true,
		Result:     3,
		ResultType: il.I64,
		Operands:   []il.Value{il.Value{Kind: il.ValueTemp, Temp: 1, Type: il.Ptr}},
	}
	runHandler(es, opLoad, loadInstr, map[int]Slot{1: ptr})

	if got := es.Frame.Reg(3).I64; got != 424242 {
		t.Fatalf("expected 424242 round-tripped through memory, got %d", got)
	}
}

func TestOpLoadRejectsStrType(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpLoad,
		HasResult:  true,
		Result:     1,
		ResultType: il.Str,
		Operands:   []il.Value{il.Value{Kind: il.ValueTemp, Temp: 0, Type: il.Ptr}},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opLoad, instr, map[int]Slot{0: SlotFromPtr(8)})
	})
	if !trapped || kind != InvalidOperation {
		t.Fatalf("expected InvalidOperation trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpAllocaNegativeSizeTraps(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpAlloca,
		HasResult:  true,
		Result:     1,
		ResultType: il.Ptr,
		Operands:   []il.Value{constI64(-1, il.I64)},
	}
	kind, trapped := expectTrap(func() {
		runHandler(es, opAlloca, instr, nil)
	})
	if !trapped || kind != InvalidOperation {
		t.Fatalf("expected InvalidOperation trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpLoadOutOfBoundsTrapsBounds(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpLoad,
		HasResult:  true,
		Result:     1,
		ResultType: il.I64,
		Operands:   []il.Value{il.Value{Kind: il.ValueTemp, Temp: 0, Type: il.Ptr}},
	}
	// segment id 99 was never allocated.
	badPtr := packAddr(99, 0)
	kind, trapped := expectTrap(func() {
		runHandler(es, opLoad, instr, map[int]Slot{0: SlotFromPtr(badPtr)})
	})
	if !trapped || kind != Bounds {
		t.Fatalf("expected Bounds trap, got kind=%s trapped=%v", kind, trapped)
	}
}

func TestOpGepAddsOffsetWithoutBoundsCheck(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpGep,
		HasResult:  true,
		Result:     2,
		ResultType: il.Ptr,
		Operands:   []il.Value{il.Value{Kind: il.ValueTemp, Temp: 0, Type: il.Ptr}, constI64(16, il.I64)},
	}
	runHandler(es, opGep, instr, map[int]Slot{0: SlotFromPtr(100)})
	if got := es.Frame.Reg(2).Ptr; got != 116 {
		t.Fatalf("expected ptr 116, got %d", got)
	}
}

func TestOpConstNullYieldsNilStrHandle(t *testing.T) {
	_, es := newTestExec(4)
	instr := &il.Instruction{
		Op:         il.OpConstNull,
		HasResult:  true,
		Result:     1,
		ResultType: il.Str,
	}
	runHandler(es, opConstNull, instr, nil)
	if es.Frame.Reg(1).Str != nil {
		t.Fatal("expected nil string handle")
	}
}
