package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/ilvm-core/il"
)

// DispatchMode selects among the three interchangeable dispatch strategies
// of §4.5. ModeThreaded falls back to the table strategy in this
// implementation since Go has no computed-goto; it is kept as a distinct
// value so callers and tests can still force it and observe strategy
// parity (invariant 1 in §8).
type DispatchMode int

const (
	ModeTable DispatchMode = iota
	ModeSwitch
	ModeThreaded
)

// DebugHooks lets the debug controller (package debugger) observe and
// pause dispatch without the vm package importing it back (§4.6).
type DebugHooks interface {
	// BeforeInstr is consulted before executing the next instruction; a
	// true return pauses the step loop with the given pause slot.
	BeforeInstr(es *ExecState, instr *il.Instruction) (pause bool, pauseSlot Slot)
	// AfterInstr is consulted after finalize, mirroring BeforeInstr.
	AfterInstr(es *ExecState, instr *il.Instruction) (pause bool, pauseSlot Slot)
	// OnBlockEntered notifies the controller a block was entered via a
	// jump, so last-hit breakpoint caches can be reset (§4.5 step 4).
	OnBlockEntered(es *ExecState)
	// OnParamBound notifies the controller a block parameter was bound,
	// for the variable-watch hook (§4.2, §4.6).
	OnParamBound(es *ExecState, name string, ty il.Kind, s Slot)
}

// VM is the execution facade: module binding, function lookup, entry
// points, and the active-VM registry (§4.8).
type VM struct {
	module *il.Module

	globalStrings map[string]*RuntimeString
	literalCache  map[string]*RuntimeString

	memory *MemorySpace

	execStack []*ExecState

	Mode     DispatchMode
	tunables switchTunables

	MaxSteps   uint64
	totalSteps uint64

	OutputWriter io.Writer

	Debug DebugHooks

	TCOEnabled bool

	trapToken      VmError
	trapTokenValid bool

	// runtimeContext is installed per-call so the runtime bridge can
	// attach diagnostics to the faulting site.
	runtimeLoc   il.SourceLoc
	runtimeFn    string
	runtimeBlock string
	runtimeMsg   string

	registry *RuntimeRegistry

	Stats *Statistics
}

// NewVM constructs a VM bound to no module yet; call BindModule before
// running anything.
func NewVM() *VM {
	return &VM{
		globalStrings: make(map[string]*RuntimeString),
		literalCache:  make(map[string]*RuntimeString),
		memory:        NewMemorySpace(),
		Mode:          ModeTable,
		tunables:      defaultTunables,
		MaxSteps:      DefaultMaxSteps,
		OutputWriter:  os.Stdout,
		registry:      NewStandardRuntimeRegistry(),
		Stats:         NewStatistics(),
	}
}

// BindModule materializes every global string constant into a runtime
// handle and caches function lookups (§4.8 Construction).
func (vm *VM) BindModule(m *il.Module) error {
	vm.module = m
	for name, val := range m.Globals {
		vm.globalStrings[name] = newHeapString([]byte(val))
	}
	return nil
}

// Run looks up "main" and returns its i64 result; a missing main prints a
// diagnostic and returns 1 (§4.8 Entry point).
func (vm *VM) Run(args []string) (int64, error) {
	fn, ok := vm.module.Functions["main"]
	if !ok {
		fmt.Fprintln(vm.OutputWriter, "missing main")
		return 1, nil
	}
	argSlots := make([]Slot, len(args))
	for i, a := range args {
		argSlots[i] = SlotFromStr(newHeapString([]byte(a)))
	}
	result, err := vm.RunFunction(fn.Name, argSlots)
	if err != nil {
		return 1, err
	}
	return result.I64, nil
}

// RunFunction is the public entry point for invoking a named function,
// catching an unhandled-trap abort at this outermost boundary (§4.3.5
// step 6, §4.6 step-limit abort).
func (vm *VM) RunFunction(name string, args []Slot) (result Slot, err error) {
	fn, ok := vm.module.Functions[name]
	if !ok {
		return Slot{}, fmt.Errorf("unknown function %q", name)
	}

	defer func() {
		if r := recover(); r != nil {
			ev, ok := r.(trapEvent)
			if !ok || !ev.abort {
				panic(r)
			}
			err = fmt.Errorf("%s", ev.err.Message)
			if ev.err.Kind == stepLimitKind {
				result = SlotFromI64(1)
				err = fmt.Errorf("step limit exceeded")
			}
		}
	}()

	result = vm.callFunction(fn, args)
	return result, nil
}

// stepLimitKind marks the synthetic trap raised when §4.6's max_steps is
// exceeded; it is never installed-handler-visible (§5 "the only built-in
// timeout").
const stepLimitKind TrapKind = RuntimeError + 1

// callFunction builds a frame/state for fn, binds args into the entry
// block's parameters exactly like a branch would, pushes the state onto
// the execution stack for the duration of the call, and drives the
// configured dispatch strategy to completion.
func (vm *VM) callFunction(fn *il.Function, args []Slot) Slot {
	restore := pushActiveVM(vm)
	defer restore()

	frame := NewFrame(fn, vm.memory)
	entry := fn.Entry()
	es := newExecState(vm, frame, entry)

	for i, p := range fn.Params {
		if i < len(args) {
			frame.StageParam(p.ID, p.Type, args[i])
		}
	}

	vm.execStack = append(vm.execStack, es)
	defer func() {
		vm.execStack = vm.execStack[:len(vm.execStack)-1]
		frame.Teardown()
	}()

	strategy := vm.strategyFor()
	es.drive(strategy)
	return es.PendingResult
}

func (vm *VM) strategyFor() dispatchStrategy {
	switch vm.Mode {
	case ModeSwitch:
		return switchStrategy{}
	case ModeThreaded:
		return threadedStrategy{}
	default:
		return tableStrategy{}
	}
}

// CallDepth reports how many nested calls are currently in flight, used by
// the debug controller to implement step-over/step-out (§4.6).
func (vm *VM) CallDepth() int {
	return len(vm.execStack)
}

// topState returns the innermost in-flight execution state, or nil when no
// call is active; the runtime bridge uses it to attribute an arena
// allocation made on a host function's behalf to the calling frame.
func (vm *VM) topState() *ExecState {
	if len(vm.execStack) == 0 {
		return nil
	}
	return vm.execStack[len(vm.execStack)-1]
}

// lookupGlobal resolves a global string constant by name (g.addr, §4.3.3).
func (vm *VM) lookupGlobal(name string) (*RuntimeString, bool) {
	s, ok := vm.globalStrings[name]
	return s, ok
}

// literalFor returns the interned handle for a module-level string
// literal (const.str fast path), materializing it on first use.
func (vm *VM) literalFor(text string) *RuntimeString {
	if s, ok := vm.literalCache[text]; ok {
		return s
	}
	s := internLiteral([]byte(text))
	vm.literalCache[text] = s
	return s
}

// Close releases all cached runtime strings (§4.8 Destructor).
func (vm *VM) Close() {
	vm.globalStrings = make(map[string]*RuntimeString)
	vm.literalCache = make(map[string]*RuntimeString)
}
