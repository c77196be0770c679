package vm

import "github.com/lookbusy1344/ilvm-core/il"

// EHRecord is one installed exception handler (§3 Frame.eh_stack).
type EHRecord struct {
	HandlerBlock string
	SavedIP      uint64
}

// ResumeState is the single-use capability describing where to continue
// after a handler runs (§3 Frame.resume_state).
type ResumeState struct {
	FaultingBlock string
	FaultIP       uint64
	NextIP        uint64
	Valid         bool
}

// Frame is the state associated with one in-flight function call (§3).
type Frame struct {
	Fn   *il.Function
	regs []Slot

	// params stages block-parameter values written by a branch terminator
	// before control transfers, consumed on block entry.
	params map[int]*Slot

	Stack *Arena

	EHStack []EHRecord

	ActiveError VmError
	Resume      ResumeState
}

// NewFrame allocates a frame for fn with a dedicated alloca arena.
func NewFrame(fn *il.Function, space *MemorySpace) *Frame {
	return &Frame{
		Fn:     fn,
		regs:   make([]Slot, fn.NumValues()+1),
		params: make(map[int]*Slot),
		Stack:  space.NewArena(),
	}
}

// Teardown releases the frame's alloca arena. Call once the frame is no
// longer in flight.
func (f *Frame) Teardown() {
	f.Stack.Release()
}

func (f *Frame) ensureReg(id int) {
	if id >= len(f.regs) {
		grown := make([]Slot, id+1)
		copy(grown, f.regs)
		f.regs = grown
	}
}

// Reg reads register id.
func (f *Frame) Reg(id int) Slot {
	if id < 0 || id >= len(f.regs) {
		return Slot{}
	}
	return f.regs[id]
}

// StoreResult writes slot into the instruction's result register (§4.2).
// String results retain-before-release to survive self-assignment.
func (f *Frame) StoreResult(instr *il.Instruction, slot Slot) {
	if !instr.HasResult {
		return
	}
	f.ensureReg(instr.Result)
	if instr.ResultType == il.Str {
		storeString(&f.regs[instr.Result].Str, slot.Str)
		return
	}
	f.regs[instr.Result] = slot
}

// StoreRaw writes slot into register id directly (used for block-param
// transfer and EH landing-pad binding), honoring the same string discipline.
func (f *Frame) StoreRaw(id int, ty il.Kind, slot Slot) {
	f.ensureReg(id)
	if ty == il.Str {
		storeString(&f.regs[id].Str, slot.Str)
		return
	}
	f.regs[id] = slot
}

// StageParam records a branch-argument value for block parameter pid,
// retaining a new string value and releasing any previously staged (but
// not yet consumed) value (§4.2 "Branch-argument staging").
func (f *Frame) StageParam(pid int, ty il.Kind, slot Slot) {
	if existing, ok := f.params[pid]; ok && ty == il.Str {
		storeString(&existing.Str, slot.Str)
		return
	}
	if ty == il.Str {
		Retain(slot.Str)
	}
	cp := slot
	f.params[pid] = &cp
}

// ConsumeBlockParams transfers every staged parameter of block b into its
// register, clearing the staging entry (§4.2 "Block-parameter transfer").
// onWatch, if non-nil, is invoked once per transferred parameter for the
// debug controller's variable-watch hook. An entry block that declares no
// parameters takes the function's own Params instead; of those, only the
// staged ones are transferred.
func (f *Frame) ConsumeBlockParams(b *il.BasicBlock, onWatch func(name string, ty il.Kind, s Slot)) {
	if len(b.Params) == 0 && b == f.Fn.Entry() {
		for _, p := range f.Fn.Params {
			if staged, ok := f.params[p.ID]; ok {
				f.StoreRaw(p.ID, p.Type, *staged)
				delete(f.params, p.ID)
				if onWatch != nil {
					onWatch(p.Name, p.Type, *staged)
				}
			}
		}
		return
	}
	for _, p := range b.Params {
		staged, ok := f.params[p.ID]
		var s Slot
		if ok {
			s = *staged
		}
		f.StoreRaw(p.ID, p.Type, s)
		delete(f.params, p.ID)
		if onWatch != nil {
			onWatch(p.Name, p.Type, s)
		}
	}
}

// PushHandler installs a new exception handler record (eh.push).
func (f *Frame) PushHandler(handlerBlock string, ip uint64) {
	f.EHStack = append(f.EHStack, EHRecord{HandlerBlock: handlerBlock, SavedIP: ip})
}

// PopHandler removes the top handler record, a no-op when empty (eh.pop).
func (f *Frame) PopHandler() {
	if len(f.EHStack) == 0 {
		return
	}
	f.EHStack = f.EHStack[:len(f.EHStack)-1]
}

// TopHandler returns the innermost installed handler, if any.
func (f *Frame) TopHandler() (EHRecord, bool) {
	if len(f.EHStack) == 0 {
		return EHRecord{}, false
	}
	return f.EHStack[len(f.EHStack)-1], true
}

// ExpectResumeToken returns a reference to the frame's resume state only
// when slot's pointer identifies this frame's own resume-state record and
// it is still valid (§4.2).
func (f *Frame) ExpectResumeToken(tokenPtr *ResumeState) *ResumeState {
	if tokenPtr == &f.Resume && f.Resume.Valid {
		return &f.Resume
	}
	return nil
}
