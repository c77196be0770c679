package vm

// Slot is the interpreter's uniform operand carrier (§3). Handlers read and
// write the field appropriate to the static type of the instruction they
// implement; the Slot itself carries no dynamic type tag.
type Slot struct {
	I64 int64
	F32 float32
	F64 float64
	Ptr uint64 // address into a frame's alloca arena; 0 is null
	Str *RuntimeString

	// Err and Resume back the error/resume_tok type kinds: a slot of
	// either kind carries a pointer to the frame-owned record it names
	// rather than a value copy (§9 "Resume tokens": "pointer-to-frame-state
	// plus a validity flag").
	Err    *VmError
	Resume *ResumeState
}

// I32 reads the slot's i64 field narrowed to int32 (i16/i32/i1 are all
// widened into I64 per §3).
func (s Slot) I32() int32 { return int32(s.I64) }

// Bool reads a canonical i1 slot as a Go bool (nonzero is true).
func (s Slot) Bool() bool { return s.I64 != 0 }

// SlotFromI64 builds an integer-lane slot.
func SlotFromI64(v int64) Slot { return Slot{I64: v} }

// SlotFromBool builds a canonical i1 slot (0 or 1).
func SlotFromBool(b bool) Slot {
	if b {
		return Slot{I64: 1}
	}
	return Slot{I64: 0}
}

// SlotFromF32 builds an f32-lane slot.
func SlotFromF32(v float32) Slot { return Slot{F32: v} }

// SlotFromF64 builds an f64-lane slot.
func SlotFromF64(v float64) Slot { return Slot{F64: v} }

// SlotFromPtr builds a ptr-lane slot.
func SlotFromPtr(addr uint64) Slot { return Slot{Ptr: addr} }

// SlotFromStr builds a str-lane slot carrying an already-owned handle
// (the caller is transferring ownership of one reference to the slot).
func SlotFromStr(s *RuntimeString) Slot { return Slot{Str: s} }
