package vm

import "github.com/lookbusy1344/ilvm-core/il"

// switchStrategy dispatches via a single large switch over the opcode
// instead of a map lookup (§4.5 "Switch: a single large switch inside the
// loop with inline handler bodies"). The handler bodies themselves are
// shared with tableStrategy (they are ordinary Go functions either way);
// what differs, as spec'd, is the selection mechanism.
type switchStrategy struct{}

func (switchStrategy) Step(es *ExecState) {
	runStep(es, lookupBySwitch)
}

func lookupBySwitch(op il.Opcode) opHandler {
	switch op {
	case il.OpAdd:
		return opAdd
	case il.OpSub:
		return opSub
	case il.OpMul:
		return opMul
	case il.OpIAddOvf:
		return opIAddOvf
	case il.OpISubOvf:
		return opISubOvf
	case il.OpIMulOvf:
		return opIMulOvf
	case il.OpSDiv:
		return opSDiv
	case il.OpUDiv:
		return opUDiv
	case il.OpSRem:
		return opSRem
	case il.OpURem:
		return opURem
	case il.OpSDivChk0:
		return opSDivChk0
	case il.OpUDivChk0:
		return opUDivChk0
	case il.OpSRemChk0:
		return opSRemChk0
	case il.OpURemChk0:
		return opURemChk0
	case il.OpAnd:
		return opAnd
	case il.OpOr:
		return opOr
	case il.OpXor:
		return opXor
	case il.OpShl:
		return opShl
	case il.OpLShr:
		return opLShr
	case il.OpAShr:
		return opAShr
	case il.OpICmpEq:
		return opICmpEq
	case il.OpICmpNe:
		return opICmpNe
	case il.OpSCmpLt:
		return opSCmpLt
	case il.OpSCmpLe:
		return opSCmpLe
	case il.OpSCmpGt:
		return opSCmpGt
	case il.OpSCmpGe:
		return opSCmpGe
	case il.OpUCmpLt:
		return opUCmpLt
	case il.OpUCmpLe:
		return opUCmpLe
	case il.OpUCmpGt:
		return opUCmpGt
	case il.OpUCmpGe:
		return opUCmpGe
	case il.OpIdxChk:
		return opIdxChk
	case il.OpCastSiNarrowChk:
		return opCastSiNarrowChk
	case il.OpCastUiNarrowChk:
		return opCastUiNarrowChk
	case il.OpCastSiToFp:
		return opCastSiToFp
	case il.OpCastUiToFp:
		return opCastUiToFp
	case il.OpTrunc1:
		return opTrunc1
	case il.OpZext1:
		return opZext1
	case il.OpFAdd:
		return opFAdd
	case il.OpFSub:
		return opFSub
	case il.OpFMul:
		return opFMul
	case il.OpFDiv:
		return opFDiv
	case il.OpFCmpEq:
		return opFCmpEq
	case il.OpFCmpNe:
		return opFCmpNe
	case il.OpFCmpLt:
		return opFCmpLt
	case il.OpFCmpLe:
		return opFCmpLe
	case il.OpFCmpGt:
		return opFCmpGt
	case il.OpFCmpGe:
		return opFCmpGe
	case il.OpSiToFp:
		return opSiToFp
	case il.OpFpToSi:
		return opFpToSi
	case il.OpCastFpToSiRteChk:
		return opCastFpToSiRteChk
	case il.OpCastFpToUiRteChk:
		return opCastFpToUiRteChk
	case il.OpAlloca:
		return opAlloca
	case il.OpLoad:
		return opLoad
	case il.OpStore:
		return opStore
	case il.OpGep:
		return opGep
	case il.OpConstStr:
		return opConstStr
	case il.OpConstNull:
		return opConstNull
	case il.OpAddrOf:
		return opAddrOf
	case il.OpGAddr:
		return opGAddr
	case il.OpBr:
		return opBr
	case il.OpCbr:
		return opCbr
	case il.OpSwitch:
		return opSwitchI32
	case il.OpRet:
		return opRet
	case il.OpCall:
		return opCall
	case il.OpEhPush:
		return opEhPush
	case il.OpEhPop:
		return opEhPop
	case il.OpEhEntry:
		return opEhEntry
	case il.OpResumeSame:
		return opResumeSame
	case il.OpResumeNext:
		return opResumeNext
	case il.OpResumeLabel:
		return opResumeLabel
	case il.OpTrap:
		return opTrapBare
	case il.OpTrapErr:
		return opTrapErr
	case il.OpTrapKind:
		return opTrapKind
	case il.OpErrGetKind:
		return opErrGetKind
	case il.OpErrGetCode:
		return opErrGetCode
	case il.OpErrGetIP:
		return opErrGetIP
	case il.OpErrGetLine:
		return opErrGetLine
	default:
		return nil
	}
}
