package vm

import (
	"encoding/binary"
	"math"

	"github.com/lookbusy1344/ilvm-core/il"
)

// evalOperand resolves an instruction operand to a Slot: a register read for
// a temp, or a freshly materialized immediate for a constant (§4.2).
func evalOperand(vm *VM, f *Frame, v il.Value) Slot {
	switch v.Kind {
	case il.ValueTemp:
		return f.Reg(v.Temp)
	case il.ValueConstInt:
		return Slot{I64: v.ConstI}
	case il.ValueConstFloat:
		if v.Type == il.F32 {
			return Slot{F32: float32(v.ConstF)}
		}
		return Slot{F64: v.ConstF}
	case il.ValueConstStr:
		return SlotFromStr(vm.literalFor(v.ConstStr))
	case il.ValueConstNull:
		switch v.Type {
		case il.Ptr:
			return Slot{Ptr: 0}
		default:
			return Slot{}
		}
	default:
		return Slot{}
	}
}

func operand(vm *VM, es *ExecState, instr *il.Instruction, i int) Slot {
	if i >= len(instr.Operands) {
		return Slot{}
	}
	return evalOperand(vm, es.Frame, instr.Operands[i])
}

// branchTo stages args into target's block parameters and repositions es.
func branchTo(vm *VM, es *ExecState, label string, args []il.Value) ExecResult {
	block, ok := es.Frame.Fn.Block(label)
	if !ok {
		vm.raise(es, VmError{Kind: InvalidOperation, Message: "branch to unknown block " + label})
		return ExecJumped
	}
	for i, p := range block.Params {
		var v il.Value
		if i < len(args) {
			v = args[i]
		}
		slot := evalOperand(vm, es.Frame, v)
		es.Frame.StageParam(p.ID, p.Type, slot)
	}
	es.Block = block
	es.IP = 0
	return ExecJumped
}

func widthOf(v il.Value, def int) int {
	w := v.Type.BitWidth()
	if w == 0 {
		return def
	}
	return w
}

func resultWidth(instr *il.Instruction) int {
	w := instr.ResultType.BitWidth()
	if w == 0 {
		return 64
	}
	return w
}

// maskWidth sign-extends v as though it were a two's complement integer of
// the given bit width, matching the narrow-lane semantics of i16/i32
// arithmetic stored in a 64-bit carrier register (§3).
func maskWidth(v int64, bits int) int64 {
	if bits <= 0 || bits >= 64 {
		return v
	}
	m := int64(1) << uint(bits)
	v &= m - 1
	if v&(int64(1)<<uint(bits-1)) != 0 {
		v -= m
	}
	return v
}

func asUnsigned(v int64, bits int) uint64 {
	if bits <= 0 || bits >= 64 {
		return uint64(v)
	}
	return uint64(v) & ((uint64(1) << uint(bits)) - 1)
}

func boundsForWidth(bits int) (min, max int64) {
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	min = -(int64(1) << uint(bits-1))
	max = (int64(1) << uint(bits-1)) - 1
	return
}

func addOverflows(a, b int64, bits int) (int64, bool) {
	sum := a + b
	if bits >= 64 {
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return sum, true
		}
		return sum, false
	}
	min, max := boundsForWidth(bits)
	return sum, sum < min || sum > max
}

func subOverflows(a, b int64, bits int) (int64, bool) {
	diff := a - b
	if bits >= 64 {
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return diff, true
		}
		return diff, false
	}
	min, max := boundsForWidth(bits)
	return diff, diff < min || diff > max
}

func mulOverflows(a, b int64, bits int) (int64, bool) {
	prod := a * b
	if bits >= 64 {
		if a == 0 || b == 0 {
			return 0, false
		}
		if a == -1 && b == math.MinInt64 {
			return prod, true
		}
		if b == -1 && a == math.MinInt64 {
			return prod, true
		}
		if prod/b != a {
			return prod, true
		}
		return prod, false
	}
	min, max := boundsForWidth(bits)
	return prod, prod < min || prod > max
}

// byteWidth returns the in-memory width in bytes for a load/store of kind k.
func byteWidth(k il.Kind) (int, bool) {
	switch k {
	case il.I1:
		return 1, true
	case il.I16:
		return 2, true
	case il.I32:
		return 4, true
	case il.I64, il.Ptr:
		return 8, true
	case il.F32:
		return 4, true
	case il.F64:
		return 8, true
	default:
		return 0, false
	}
}

func encodeSlot(k il.Kind, s Slot) []byte {
	switch k {
	case il.I1:
		return []byte{byte(s.I64 & 1)}
	case il.I16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(s.I64))
		return b
	case il.I32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(s.I64))
		return b
	case il.I64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(s.I64))
		return b
	case il.Ptr:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, s.Ptr)
		return b
	case il.F32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(s.F32))
		return b
	case il.F64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(s.F64))
		return b
	default:
		return nil
	}
}

func decodeSlot(k il.Kind, b []byte) Slot {
	switch k {
	case il.I1:
		return Slot{I64: int64(b[0] & 1)}
	case il.I16:
		return Slot{I64: int64(int16(binary.LittleEndian.Uint16(b)))}
	case il.I32:
		return Slot{I64: int64(int32(binary.LittleEndian.Uint32(b)))}
	case il.I64:
		return Slot{I64: int64(binary.LittleEndian.Uint64(b))}
	case il.Ptr:
		return Slot{Ptr: binary.LittleEndian.Uint64(b)}
	case il.F32:
		return Slot{F32: math.Float32frombits(binary.LittleEndian.Uint32(b))}
	case il.F64:
		return Slot{F64: math.Float64frombits(binary.LittleEndian.Uint64(b))}
	default:
		return Slot{}
	}
}

func raiseAndContinue(vm *VM, es *ExecState, kind TrapKind, msg string) ExecResult {
	vm.raise(es, VmError{Kind: kind, Message: msg})
	return ExecJumped
}
