package vm

import (
	"fmt"

	"github.com/lookbusy1344/ilvm-core/il"
)

// marshalArguments evaluates every operand of a call instruction into the
// uniform Slot carrier used to cross into the runtime bridge (§4.1
// marshal_arguments).
func marshalArguments(vm *VM, es *ExecState, instr *il.Instruction) []Slot {
	args := make([]Slot, len(instr.Operands))
	for i, v := range instr.Operands {
		args[i] = evalOperand(vm, es.Frame, v)
	}
	return args
}

// assignCallResult writes a call's result back into its destination
// register, honoring the same string retain/release discipline as any
// other result-producing instruction (§4.1 assign_call_result).
func assignCallResult(es *ExecState, instr *il.Instruction, result Slot) {
	es.Frame.StoreResult(instr, result)
}

// checkArity reports the exact diagnostic format used across the bridge
// for a mismatched call arity (§6).
func checkArity(name string, want, got int) error {
	if want != got {
		return fmt.Errorf("%s: expected %d argument(s), got %d", name, want, got)
	}
	return nil
}
