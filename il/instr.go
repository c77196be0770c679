package il

// SourceLoc attributes an instruction to a source position for diagnostics.
type SourceLoc struct {
	FileID int
	Line   int
	Column int
}

// Instruction is one opcode application within a basic block.
type Instruction struct {
	Op Opcode

	HasResult  bool
	Result     int
	ResultType Kind

	Operands []Value

	// Labels holds successor block labels: br has one, cbr has two,
	// switch.i32 has [default, case1, case2, ...], eh.push has one.
	Labels []string

	// BranchArgs[i] holds the argument values passed to Labels[i]'s block
	// parameters.
	BranchArgs [][]Value

	// Callee names the runtime/in-module function for call instructions.
	Callee string

	// CaseValues holds the case constants for switch.i32, parallel to
	// Labels[1:] (Labels[0] is the default successor).
	CaseValues []int32

	// Code carries the literal code operand for trap.err when present.
	Code int32
	// Message carries the optional literal message for trap.err.
	Message string
	HasMessage bool

	Loc SourceLoc
}
