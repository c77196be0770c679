package vm

import "github.com/lookbusy1344/ilvm-core/il"

func registerIntOps(m map[il.Opcode]opHandler) {
	m[il.OpAdd] = opAdd
	m[il.OpSub] = opSub
	m[il.OpMul] = opMul
	m[il.OpIAddOvf] = opIAddOvf
	m[il.OpISubOvf] = opISubOvf
	m[il.OpIMulOvf] = opIMulOvf
	m[il.OpSDiv] = opSDiv
	m[il.OpUDiv] = opUDiv
	m[il.OpSRem] = opSRem
	m[il.OpURem] = opURem
	m[il.OpSDivChk0] = opSDivChk0
	m[il.OpUDivChk0] = opUDivChk0
	m[il.OpSRemChk0] = opSRemChk0
	m[il.OpURemChk0] = opURemChk0
	m[il.OpAnd] = opAnd
	m[il.OpOr] = opOr
	m[il.OpXor] = opXor
	m[il.OpShl] = opShl
	m[il.OpLShr] = opLShr
	m[il.OpAShr] = opAShr
	m[il.OpICmpEq] = opICmpEq
	m[il.OpICmpNe] = opICmpNe
	m[il.OpSCmpLt] = opSCmpLt
	m[il.OpSCmpLe] = opSCmpLe
	m[il.OpSCmpGt] = opSCmpGt
	m[il.OpSCmpGe] = opSCmpGe
	m[il.OpUCmpLt] = opUCmpLt
	m[il.OpUCmpLe] = opUCmpLe
	m[il.OpUCmpGt] = opUCmpGt
	m[il.OpUCmpGe] = opUCmpGe
	m[il.OpIdxChk] = opIdxChk
	m[il.OpCastSiNarrowChk] = opCastSiNarrowChk
	m[il.OpCastUiNarrowChk] = opCastUiNarrowChk
	m[il.OpCastSiToFp] = opCastSiToFp
	m[il.OpCastUiToFp] = opCastUiToFp
	m[il.OpTrunc1] = opTrunc1
	m[il.OpZext1] = opZext1
}

func opAdd(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	sum := maskWidth(a.I64+b.I64, resultWidth(instr))
	es.Frame.StoreResult(instr, SlotFromI64(sum))
	return ExecContinue
}

func opSub(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	diff := maskWidth(a.I64-b.I64, resultWidth(instr))
	es.Frame.StoreResult(instr, SlotFromI64(diff))
	return ExecContinue
}

func opMul(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	prod := maskWidth(a.I64*b.I64, resultWidth(instr))
	es.Frame.StoreResult(instr, SlotFromI64(prod))
	return ExecContinue
}

func opIAddOvf(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	width := resultWidth(instr)
	sum, ovf := addOverflows(a.I64, b.I64, width)
	if ovf {
		return raiseAndContinue(vm, es, Overflow, "integer addition overflow")
	}
	es.Frame.StoreResult(instr, SlotFromI64(sum))
	return ExecContinue
}

func opISubOvf(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	width := resultWidth(instr)
	diff, ovf := subOverflows(a.I64, b.I64, width)
	if ovf {
		return raiseAndContinue(vm, es, Overflow, "integer subtraction overflow")
	}
	es.Frame.StoreResult(instr, SlotFromI64(diff))
	return ExecContinue
}

func opIMulOvf(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	width := resultWidth(instr)
	prod, ovf := mulOverflows(a.I64, b.I64, width)
	if ovf {
		return raiseAndContinue(vm, es, Overflow, "integer multiplication overflow")
	}
	es.Frame.StoreResult(instr, SlotFromI64(prod))
	return ExecContinue
}

// sdivCore implements the shared signed-division semantics for sdiv and
// sdiv.chk0: both guard the zero divisor (Go panics on it natively) and the
// MinInt/-1 case, which overflows the result's width rather than trapping
// DivideByZero.
func sdivCore(vm *VM, es *ExecState, instr *il.Instruction, rem bool) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	if b.I64 == 0 {
		return raiseAndContinue(vm, es, DivideByZero, "signed division by zero")
	}
	width := resultWidth(instr)
	min, _ := boundsForWidth(width)
	if a.I64 == min && b.I64 == -1 {
		return raiseAndContinue(vm, es, Overflow, "signed division overflow")
	}
	var result int64
	if rem {
		result = a.I64 % b.I64
	} else {
		result = a.I64 / b.I64
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(result, width)))
	return ExecContinue
}

func udivCore(vm *VM, es *ExecState, instr *il.Instruction, rem bool) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	width := resultWidth(instr)
	ua, ub := asUnsigned(a.I64, width), asUnsigned(b.I64, width)
	if ub == 0 {
		return raiseAndContinue(vm, es, DivideByZero, "unsigned division by zero")
	}
	var result uint64
	if rem {
		result = ua % ub
	} else {
		result = ua / ub
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(int64(result), width)))
	return ExecContinue
}

func opSDiv(vm *VM, es *ExecState, instr *il.Instruction) ExecResult    { return sdivCore(vm, es, instr, false) }
func opSRem(vm *VM, es *ExecState, instr *il.Instruction) ExecResult    { return sdivCore(vm, es, instr, true) }
func opUDiv(vm *VM, es *ExecState, instr *il.Instruction) ExecResult    { return udivCore(vm, es, instr, false) }
func opURem(vm *VM, es *ExecState, instr *il.Instruction) ExecResult    { return udivCore(vm, es, instr, true) }
func opSDivChk0(vm *VM, es *ExecState, instr *il.Instruction) ExecResult { return sdivCore(vm, es, instr, false) }
func opSRemChk0(vm *VM, es *ExecState, instr *il.Instruction) ExecResult { return sdivCore(vm, es, instr, true) }
func opUDivChk0(vm *VM, es *ExecState, instr *il.Instruction) ExecResult { return udivCore(vm, es, instr, false) }
func opURemChk0(vm *VM, es *ExecState, instr *il.Instruction) ExecResult { return udivCore(vm, es, instr, true) }

func opAnd(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(a.I64&b.I64, resultWidth(instr))))
	return ExecContinue
}

func opOr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(a.I64|b.I64, resultWidth(instr))))
	return ExecContinue
}

func opXor(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(a.I64^b.I64, resultWidth(instr))))
	return ExecContinue
}

func opShl(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	shift := uint(b.I64 & 63)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(a.I64<<shift, resultWidth(instr))))
	return ExecContinue
}

func opLShr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	width := resultWidth(instr)
	shift := uint(b.I64 & 63)
	result := int64(asUnsigned(a.I64, width) >> shift)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(result, width)))
	return ExecContinue
}

func opAShr(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	shift := uint(b.I64 & 63)
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(a.I64>>shift, resultWidth(instr))))
	return ExecContinue
}

func opICmpEq(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 == b.I64))
	return ExecContinue
}

func opICmpNe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 != b.I64))
	return ExecContinue
}

func opSCmpLt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 < b.I64))
	return ExecContinue
}

func opSCmpLe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 <= b.I64))
	return ExecContinue
}

func opSCmpGt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 > b.I64))
	return ExecContinue
}

func opSCmpGe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	es.Frame.StoreResult(instr, SlotFromBool(a.I64 >= b.I64))
	return ExecContinue
}

func cmpWidth(instr *il.Instruction) int {
	if len(instr.Operands) > 0 {
		return widthOf(instr.Operands[0], 64)
	}
	return 64
}

func opUCmpLt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	w := cmpWidth(instr)
	es.Frame.StoreResult(instr, SlotFromBool(asUnsigned(a.I64, w) < asUnsigned(b.I64, w)))
	return ExecContinue
}

func opUCmpLe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	w := cmpWidth(instr)
	es.Frame.StoreResult(instr, SlotFromBool(asUnsigned(a.I64, w) <= asUnsigned(b.I64, w)))
	return ExecContinue
}

func opUCmpGt(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	w := cmpWidth(instr)
	es.Frame.StoreResult(instr, SlotFromBool(asUnsigned(a.I64, w) > asUnsigned(b.I64, w)))
	return ExecContinue
}

func opUCmpGe(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	a, b := operand(vm, es, instr, 0), operand(vm, es, instr, 1)
	w := cmpWidth(instr)
	es.Frame.StoreResult(instr, SlotFromBool(asUnsigned(a.I64, w) >= asUnsigned(b.I64, w)))
	return ExecContinue
}

// opIdxChk validates lo <= idx < hi, raising Bounds otherwise, and yields
// idx - lo so the result is already relative to lo for a subsequent gep.
func opIdxChk(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	idx, lo, hi := operand(vm, es, instr, 0), operand(vm, es, instr, 1), operand(vm, es, instr, 2)
	if idx.I64 < lo.I64 || idx.I64 >= hi.I64 {
		return raiseAndContinue(vm, es, Bounds, "index out of bounds")
	}
	es.Frame.StoreResult(instr, SlotFromI64(idx.I64-lo.I64))
	return ExecContinue
}

func opCastSiNarrowChk(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	width := resultWidth(instr)
	min, max := boundsForWidth(width)
	if v.I64 < min || v.I64 > max {
		return raiseAndContinue(vm, es, InvalidCast, "signed narrowing cast out of range")
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(v.I64, width)))
	return ExecContinue
}

func opCastUiNarrowChk(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	srcWidth := cmpWidth(instr)
	dstWidth := resultWidth(instr)
	u := asUnsigned(v.I64, srcWidth)
	if dstWidth < 64 && u >= (uint64(1)<<uint(dstWidth)) {
		return raiseAndContinue(vm, es, InvalidCast, "unsigned narrowing cast out of range")
	}
	es.Frame.StoreResult(instr, SlotFromI64(maskWidth(int64(u), dstWidth)))
	return ExecContinue
}

func opCastSiToFp(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	if instr.ResultType == il.F32 {
		es.Frame.StoreResult(instr, SlotFromF32(float32(v.I64)))
	} else {
		es.Frame.StoreResult(instr, SlotFromF64(float64(v.I64)))
	}
	return ExecContinue
}

func opCastUiToFp(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	u := asUnsigned(v.I64, cmpWidth(instr))
	if instr.ResultType == il.F32 {
		es.Frame.StoreResult(instr, SlotFromF32(float32(u)))
	} else {
		es.Frame.StoreResult(instr, SlotFromF64(float64(u)))
	}
	return ExecContinue
}

func opTrunc1(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	es.Frame.StoreResult(instr, SlotFromI64(v.I64&1))
	return ExecContinue
}

func opZext1(vm *VM, es *ExecState, instr *il.Instruction) ExecResult {
	v := operand(vm, es, instr, 0)
	if v.I64 != 0 {
		es.Frame.StoreResult(instr, SlotFromI64(1))
	} else {
		es.Frame.StoreResult(instr, SlotFromI64(0))
	}
	return ExecContinue
}
