package il

import "fmt"

// Param is a formal parameter of a function; its value arrives as the
// entry block's corresponding block parameter.
type Param struct {
	ID   int
	Type Kind
	Name string
}

// Function is a named, typed, SSA-form routine with ordered basic blocks.
// blocks[0] is always the entry block.
type Function struct {
	Name       string
	ReturnType Kind
	Params     []Param
	Blocks     []*BasicBlock
	ValueNames map[int]string

	blockIndex map[string]int
}

// Entry returns the function's entry block (blocks[0]).
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// BuildIndex memoizes a label->index map for O(1) successor lookup. Callers
// must invoke it once after a Function's blocks are fully populated (the VM
// facade does this when binding a Module).
func (f *Function) BuildIndex() error {
	f.blockIndex = make(map[string]int, len(f.Blocks))
	for i, b := range f.Blocks {
		if _, dup := f.blockIndex[b.Label]; dup {
			return fmt.Errorf("function %s: duplicate block label %q", f.Name, b.Label)
		}
		f.blockIndex[b.Label] = i
	}
	return nil
}

// Block resolves a label to its basic block via the memoized index.
func (f *Function) Block(label string) (*BasicBlock, bool) {
	if f.blockIndex == nil {
		for _, b := range f.Blocks {
			if b.Label == label {
				return b, true
			}
		}
		return nil, false
	}
	idx, ok := f.blockIndex[label]
	if !ok {
		return nil, false
	}
	return f.Blocks[idx], true
}

// NumValues returns the register-file size needed for this function: one
// slot per named SSA id.
func (f *Function) NumValues() int {
	return len(f.ValueNames)
}
