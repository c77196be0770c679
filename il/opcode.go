package il

// Opcode identifies an instruction's operation. The mnemonics mirror the
// dotted names used throughout spec.md (e.g. "sdiv.chk0", "cast.fp_to_si.rte.chk").
type Opcode string

const (
	// Integer arithmetic.
	OpAdd       Opcode = "add"
	OpSub       Opcode = "sub"
	OpMul       Opcode = "mul"
	OpIAddOvf   Opcode = "iadd.ovf"
	OpISubOvf   Opcode = "isub.ovf"
	OpIMulOvf   Opcode = "imul.ovf"
	OpSDiv      Opcode = "sdiv"
	OpUDiv      Opcode = "udiv"
	OpSRem      Opcode = "srem"
	OpURem      Opcode = "urem"
	OpSDivChk0  Opcode = "sdiv.chk0"
	OpUDivChk0  Opcode = "udiv.chk0"
	OpSRemChk0  Opcode = "srem.chk0"
	OpURemChk0  Opcode = "urem.chk0"
	OpAnd       Opcode = "and"
	OpOr        Opcode = "or"
	OpXor       Opcode = "xor"
	OpShl       Opcode = "shl"
	OpLShr      Opcode = "lshr"
	OpAShr      Opcode = "ashr"
	OpICmpEq    Opcode = "icmp.eq"
	OpICmpNe    Opcode = "icmp.ne"
	OpSCmpLt    Opcode = "scmp.lt"
	OpSCmpLe    Opcode = "scmp.le"
	OpSCmpGt    Opcode = "scmp.gt"
	OpSCmpGe    Opcode = "scmp.ge"
	OpUCmpLt    Opcode = "ucmp.lt"
	OpUCmpLe    Opcode = "ucmp.le"
	OpUCmpGt    Opcode = "ucmp.gt"
	OpUCmpGe    Opcode = "ucmp.ge"
	OpIdxChk    Opcode = "idxchk"
	OpCastSiNarrowChk Opcode = "cast.si_narrow.chk"
	OpCastUiNarrowChk Opcode = "cast.ui_narrow.chk"
	OpCastSiToFp      Opcode = "cast.si_to_fp"
	OpCastUiToFp      Opcode = "cast.ui_to_fp"
	OpTrunc1          Opcode = "trunc.1"
	OpZext1           Opcode = "zext.1"

	// Float arithmetic.
	OpFAdd    Opcode = "fadd"
	OpFSub    Opcode = "fsub"
	OpFMul    Opcode = "fmul"
	OpFDiv    Opcode = "fdiv"
	OpFCmpEq  Opcode = "fcmp.eq"
	OpFCmpNe  Opcode = "fcmp.ne"
	OpFCmpLt  Opcode = "fcmp.lt"
	OpFCmpLe  Opcode = "fcmp.le"
	OpFCmpGt  Opcode = "fcmp.gt"
	OpFCmpGe  Opcode = "fcmp.ge"
	OpSiToFp  Opcode = "sitofp"
	OpFpToSi  Opcode = "fptosi"
	OpCastFpToSiRteChk Opcode = "cast.fp_to_si.rte.chk"
	OpCastFpToUiRteChk Opcode = "cast.fp_to_ui.rte.chk"

	// Memory.
	OpAlloca   Opcode = "alloca"
	OpLoad     Opcode = "load"
	OpStore    Opcode = "store"
	OpGep      Opcode = "gep"
	OpConstStr Opcode = "const.str"
	OpConstNull Opcode = "const.null"
	OpAddrOf   Opcode = "addr.of"
	OpGAddr    Opcode = "g.addr"

	// Control flow.
	OpBr     Opcode = "br"
	OpCbr    Opcode = "cbr"
	OpSwitch Opcode = "switch.i32"
	OpRet    Opcode = "ret"
	OpCall   Opcode = "call"

	// Exception handling.
	OpEhPush      Opcode = "eh.push"
	OpEhPop       Opcode = "eh.pop"
	OpEhEntry     Opcode = "eh.entry"
	OpResumeSame  Opcode = "resume.same"
	OpResumeNext  Opcode = "resume.next"
	OpResumeLabel Opcode = "resume.label"
	OpTrap        Opcode = "trap"
	OpTrapErr     Opcode = "trap.err"
	OpTrapKind    Opcode = "trap.kind"
	OpErrGetKind  Opcode = "err.get.kind"
	OpErrGetCode  Opcode = "err.get.code"
	OpErrGetIP    Opcode = "err.get.ip"
	OpErrGetLine  Opcode = "err.get.line"
)

// IsTerminator reports whether op must be the last instruction of a block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpRet, OpBr, OpCbr, OpSwitch, OpTrap, OpResumeSame, OpResumeNext, OpResumeLabel:
		return true
	default:
		return false
	}
}
