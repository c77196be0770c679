package vm

import "github.com/lookbusy1344/ilvm-core/il"

// RuntimeFunc is a host service reachable from IR via call (§4.7). It
// receives already-marshalled arguments and returns a result slot or an
// error the bridge classifies into a trap.
type RuntimeFunc func(vm *VM, args []Slot) (Slot, error)

// RuntimeDescriptor names one host entry point and its fixed arity.
type RuntimeDescriptor struct {
	Name  string
	Arity int
	Fn    RuntimeFunc
}

// RuntimeRegistry is the C-ABI-shaped bridge between IR call instructions
// and host services (§4.7): string helpers, abort, and the pow-trap
// classification surface used to exercise overflow/domain-error mapping.
type RuntimeRegistry struct {
	funcs map[string]RuntimeDescriptor
}

// NewStandardRuntimeRegistry builds the reference runtime library described
// in the ambient-stack expansion: a minimal set of host services sufficient
// to exercise string marshalling and trap classification without requiring
// an external codegen target.
func NewStandardRuntimeRegistry() *RuntimeRegistry {
	r := &RuntimeRegistry{funcs: make(map[string]RuntimeDescriptor)}
	for _, d := range standardRuntimeFuncs() {
		r.funcs[d.Name] = d
	}
	return r
}

func (r *RuntimeRegistry) lookup(name string) (RuntimeDescriptor, bool) {
	d, ok := r.funcs[name]
	return d, ok
}

// Call resolves instr's callee as a runtime bridge entry, validates arity,
// installs per-call diagnostic context, and classifies any error the host
// function returns into a trap (§4.7 step 3, "vm_trap hook").
func (vm *VM) runtimeCall(es *ExecState, instr *il.Instruction) ExecResult {
	desc, ok := vm.registry.lookup(instr.Callee)
	if !ok {
		return raiseAndContinue(vm, es, InvalidOperation, "unknown runtime function "+instr.Callee)
	}
	args := marshalArguments(vm, es, instr)
	if err := checkArity(desc.Name, desc.Arity, len(args)); err != nil {
		return raiseAndContinue(vm, es, InvalidOperation, err.Error())
	}

	vm.runtimeLoc = instr.Loc
	vm.runtimeFn = es.Frame.Fn.Name
	vm.runtimeBlock = es.Block.Label
	defer func() {
		vm.runtimeLoc = il.SourceLoc{}
		vm.runtimeFn = ""
		vm.runtimeBlock = ""
		vm.runtimeMsg = ""
	}()

	result, err := desc.Fn(vm, args)
	if err != nil {
		if te, ok := err.(trapClassified); ok {
			return raiseAndContinue(vm, es, te.kind, te.Error())
		}
		return raiseAndContinue(vm, es, RuntimeError, err.Error())
	}
	assignCallResult(es, instr, result)
	return ExecContinue
}

// trapClassified lets a host function pick the trap kind its failure maps
// to (§4.7 "pow"-class domain-error/overflow classification), instead of
// every bridge failure collapsing to RuntimeError.
type trapClassified struct {
	kind TrapKind
	msg  string
}

func (t trapClassified) Error() string { return t.msg }

func classifiedTrap(kind TrapKind, msg string) error {
	return trapClassified{kind: kind, msg: msg}
}
