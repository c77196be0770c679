package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// StepMode selects how the controller decides to re-enter its own prompt
// on the next instruction.
type StepMode int

const (
	StepNone StepMode = iota
	StepInto
	StepOver
	StepOut
)

// Controller implements vm.DebugHooks: it is installed on a VM and, when a
// breakpoint or active stepping mode fires, drops into a blocking
// read-eval-print loop over In/Out before returning control to the step
// loop. Because the VM is single-threaded per instance (§5), the prompt can
// run synchronously inside the hook without any channel or goroutine
// machinery.
type Controller struct {
	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	In  *bufio.Scanner
	Out io.Writer

	VM *vm.VM

	mode        StepMode
	overDepth   int
	quit        bool
	lastCommand string
}

// NewController builds a controller reading commands from in and writing
// prompts/output to out.
func NewController(in io.Reader, out io.Writer) *Controller {
	return &Controller{
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		In:          bufio.NewScanner(in),
		Out:         out,
	}
}

var _ vm.DebugHooks = (*Controller)(nil)

func (c *Controller) locOf(es *vm.ExecState) Loc {
	return Loc{Function: es.Frame.Fn.Name, Block: es.Block.Label, IP: es.IP}
}

// BeforeInstr checks whether execution should pause here — a breakpoint
// hit, or an active single-step/step-over/step-out mode — and if so runs
// the blocking command loop. A "quit" command requests a full stop by
// returning pause=true, which unwinds the call out of RunFunction.
func (c *Controller) BeforeInstr(es *vm.ExecState, instr *il.Instruction) (bool, vm.Slot) {
	if c.quit {
		return true, vm.Slot{}
	}
	loc := c.locOf(es)

	shouldStop := false
	if bp, hit := c.Breakpoints.Hit(loc); hit {
		fmt.Fprintf(c.Out, "breakpoint %d hit at %s\n", bp.ID, loc)
		shouldStop = true
	}
	switch c.mode {
	case StepInto:
		shouldStop = true
	case StepOver, StepOut:
		if c.VM == nil || c.VM.CallDepth() <= c.overDepth {
			shouldStop = true
		}
	}

	if !shouldStop {
		return false, vm.Slot{}
	}

	c.mode = StepNone
	c.repl(es, instr)
	return c.quit, vm.Slot{}
}

// AfterInstr never pauses on its own; stepping decisions are all made in
// BeforeInstr against the next instruction.
func (c *Controller) AfterInstr(es *vm.ExecState, instr *il.Instruction) (bool, vm.Slot) {
	return false, vm.Slot{}
}

// OnBlockEntered resets nothing by itself; breakpoints are checked by
// location on every BeforeInstr regardless of how the block was entered.
func (c *Controller) OnBlockEntered(es *vm.ExecState) {}

// OnParamBound feeds a newly bound block parameter to the watchpoint set.
func (c *Controller) OnParamBound(es *vm.ExecState, name string, ty il.Kind, s vm.Slot) {
	if !ty.IsInteger() {
		return
	}
	if wp, changed := c.Watchpoints.Observe(name, s.I64); changed {
		fmt.Fprintf(c.Out, "watchpoint %d (%s) changed to %d\n", wp.ID, wp.Name, wp.LastValue)
	}
}

// repl blocks reading commands from c.In until one of them resumes
// execution (continue, step, next, finish) or quits.
func (c *Controller) repl(es *vm.ExecState, instr *il.Instruction) {
	for {
		fmt.Fprintf(c.Out, "(ilvm) %s> ", c.locOf(es))
		if !c.In.Scan() {
			c.quit = true
			return
		}
		line := strings.TrimSpace(c.In.Text())
		if line == "" {
			line = c.lastCommand
		}
		if line != "" {
			c.History.Add(line)
			c.lastCommand = line
		}
		done, err := c.dispatch(es, instr, line)
		if err != nil {
			fmt.Fprintf(c.Out, "error: %v\n", err)
			continue
		}
		if done {
			return
		}
	}
}
