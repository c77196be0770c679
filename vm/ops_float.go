package vm

import (
	"math"

	"github.com/lookbusy1344/ilvm-core/il"
)

func registerFloatOps(m map[il.Opcode]opHandler) {
	m[il.OpFAdd] = opFAdd
	m[il.OpFSub] = opFSub
	m[il.OpFMul] = opFMul
	m[il.OpFDiv] = opFDiv
	m[il.OpFCmpEq] = opFCmpEq
	m[il.OpFCmpNe] = opFCmpNe
	m[il.OpFCmpLt] = opFCmpLt
	m[il.OpFCmpLe] = opFCmpLe
	m[il.OpFCmpGt] = opFCmpGt
	m[il.OpFCmpGe] = opFCmpGe
	m[il.OpSiToFp] = opSiToFp
	m[il.OpFpToSi] = opFpToSi
	m[il.OpCastFpToSiRteChk] = opCastFpToSiRteChk
	m[il.OpCastFpToUiRteChk] = opCastFpToUiRteChk
}

// isF32 reports whether instr operates on the f32 lane, chosen from the
// first operand's static type (§4.3.2 "operand-width selection").
func isF32(instr *il.Instruction) bool {
	if len(instr.Operands) > 0 {
		return instr.Operands[0].Type == il.F32
	}
	return instr.ResultType == il.F32
}

func fOperands(vm *VM, es *ExecState, instr *il.Instruction) (a, b float64, f32 bool) {
	sa, sb := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	if isF32(instr) {
		return float64(sa.F32), float64(sb.F32), true
	}
	return sa.F64, sb.F64, false
}

func storeFloat(f *Frame, instr *il.Instruction, v float64, f32 bool) {
	if f32 {
		f.StoreResult(instr, SlotFromF32(float32(v)))
		return
	}
	f.StoreResult(instr, SlotFromF64(v))
}

func opFAdd(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, f32 := fOperands(vm, es, instr)
	storeFloat(es.Frame, instr, a+b, f32)
	return ExecContinue
}

func opFSub(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, f32 := fOperands(vm, es, instr)
	storeFloat(es.Frame, instr, a-b, f32)
	return ExecContinue
}

func opFMul(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, f32 := fOperands(vm, es, instr)
	storeFloat(es.Frame, instr, a*b, f32)
	return ExecContinue
}

func opFDiv(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, f32 := fOperands(vm, es, instr)
	storeFloat(es.Frame, instr, a/b, f32)
	return ExecContinue
}

// Float comparisons follow ordered IEEE-754 semantics: any NaN operand
// makes eq/lt/le/gt/ge false and ne true (§4.3.2).
func opFCmpEq(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(a == b))
	return ExecContinue
}

func opFCmpNe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(math.IsNaN(a) || math.IsNaN(b) || a != b))
	return ExecContinue
}

func opFCmpLt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(a < b))
	return ExecContinue
}

func opFCmpLe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(a <= b))
	return ExecContinue
}

func opFCmpGt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(a > b))
	return ExecContinue
}

func opFCmpGe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b, _ := fOperands(vm, es, instr)
	es.Frame.StoreResult(instr, SlotFromBool(a >= b))
	return ExecContinue
}

func opSiToFp(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	if instr.ResultType == il.F32 {
		es.Frame.StoreResult(instr, SlotFromF32(float32(v.I64)))
	} else {
		es.Frame.StoreResult(instr, SlotFromF64(float64(v.I64)))
	}
	return ExecContinue
}

func opFpToSi(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	var f float64
	if isF32(instr) {
		f = float64(v.F32)
	} else {
		f = v.F64
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(int64(f), resultWidth(instr))))
	return ExecContinue
}

// opCastFpToSiRteChk rounds to nearest-even then traps InvalidCast for
// non-finite input, or Overflow if the rounded value does not fit the
// destination width.
func opCastFpToSiRteChk(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	var f float64
	if isF32(instr) {
		f = float64(v.F32)
	} else {
		f = v.F64
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return raiseAndContinue(vm, es, InvalidCast, "fp to signed cast of NaN/Inf")
	}
	r := math.RoundToEven(f)
	// boundsForWidth's int64 bounds lose precision once converted to
	// float64 near 2^63 (MaxInt64 rounds up to exactly 2^63), so the
	// range check uses the exact power-of-two bound directly instead.
	width := resultWidth(instr)
	upper := math.Ldexp(1, width-1)
	lower := -upper
	if r < lower || r >= upper {
		return raiseAndContinue(vm, es, Overflow, "fp to signed cast out of range")
	}
	es.Frame.StoreResult(instr, SlotFromI64(int64(r)))
	return ExecContinue
}

// opCastFpToUiRteChk rounds to nearest-even then traps InvalidCast for
// non-finite input or a rounded result still negative (e.g. -0.4 rounds to
// 0 and succeeds, but -0.6 rounds to -1 and is InvalidCast), or Overflow if
// the rounded value is at or beyond the destination width's upper bound.
func opCastFpToUiRteChk(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	var f float64
	if isF32(instr) {
		f = float64(v.F32)
	} else {
		f = v.F64
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return raiseAndContinue(vm, es, InvalidCast, "fp to unsigned cast of NaN/Inf")
	}
	r := math.RoundToEven(f)
	if r < 0 {
		return raiseAndContinue(vm, es, InvalidCast, "fp to unsigned cast of negative value")
	}
	width := resultWidth(instr)
	// Exact power-of-two exclusive bound rather than converting MaxUint64
	// to float64 (which rounds up to exactly 2^64 and would let 2^64
	// itself slip past a ">" comparison).
	upper := math.Ldexp(1, width)
	if r >= upper {
		return raiseAndContinue(vm, es, Overflow, "fp to unsigned cast out of range")
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(int64(uint64(r)), width)))
	return ExecContinue
}
