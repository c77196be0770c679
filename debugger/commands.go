package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// dispatch parses and runs one command line. done reports whether the
// caller's repl loop should return control to the step loop.
func (c *Controller) dispatch(es *vm.ExecState, instr *il.Instruction, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "continue", "c":
		c.mode = StepNone
		return true, nil

	case "step", "s":
		c.mode = StepInto
		return true, nil

	case "next", "n":
		c.mode = StepOver
		c.overDepth = c.depthOf()
		return true, nil

	case "finish", "fin":
		c.mode = StepOut
		c.overDepth = c.depthOf() - 1
		return true, nil

	case "quit", "q":
		c.quit = true
		return true, nil

	case "break", "b":
		return false, c.cmdBreak(es, args)

	case "watch", "w":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: watch <name>")
		}
		wp := c.Watchpoints.Add(args[0])
		fmt.Fprintf(c.Out, "watchpoint %d on %s\n", wp.ID, wp.Name)
		return false, nil

	case "delete", "d":
		return false, c.cmdDelete(args)

	case "print", "p":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: print <name>")
		}
		return false, c.cmdPrint(es, args[0])

	case "info":
		return false, c.cmdInfo(args)

	case "where":
		fmt.Fprintf(c.Out, "%s\n", c.locOf(es))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *Controller) depthOf() int {
	if c.VM == nil {
		return 0
	}
	return c.VM.CallDepth()
}

func (c *Controller) cmdBreak(es *vm.ExecState, args []string) error {
	if len(args) < 3 {
		if len(args) == 0 {
			bp := c.Breakpoints.Add(c.locOf(es), false, "")
			fmt.Fprintf(c.Out, "breakpoint %d at %s\n", bp.ID, bp.At)
			return nil
		}
		return fmt.Errorf("usage: break <function> <block> <ip>")
	}
	ip, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid ip %q", args[2])
	}
	loc := Loc{Function: args[0], Block: args[1], IP: ip}
	bp := c.Breakpoints.Add(loc, false, "")
	fmt.Fprintf(c.Out, "breakpoint %d at %s\n", bp.ID, bp.At)
	return nil
}

func (c *Controller) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	if bErr := c.Breakpoints.Delete(id); bErr == nil {
		return nil
	}
	return c.Watchpoints.Delete(id)
}

func (c *Controller) cmdPrint(es *vm.ExecState, name string) error {
	for id, n := range es.Frame.Fn.ValueNames {
		if n == name {
			fmt.Fprintf(c.Out, "%s = %d\n", name, es.Frame.Reg(id).I64)
			return nil
		}
	}
	return fmt.Errorf("no such value %q in function %s", name, es.Frame.Fn.Name)
}

func (c *Controller) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info breakpoints|watchpoints")
	}
	switch args[0] {
	case "breakpoints", "b":
		for _, bp := range c.Breakpoints.All() {
			fmt.Fprintf(c.Out, "  %d: %s (hits=%d enabled=%v)\n", bp.ID, bp.At, bp.HitCount, bp.Enabled)
		}
	case "watchpoints", "w":
		for _, wp := range c.Watchpoints.All() {
			fmt.Fprintf(c.Out, "  %d: %s (hits=%d enabled=%v)\n", wp.ID, wp.Name, wp.HitCount, wp.Enabled)
		}
	default:
		return fmt.Errorf("unknown info target %q", args[0])
	}
	return nil
}
