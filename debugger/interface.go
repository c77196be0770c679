package debugger

import (
	"fmt"
	"io"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// RunCLI wires a Controller onto machine as its debug hook set and invokes
// the named function, starting in the paused state so the very first
// instruction drops into the prompt.
func RunCLI(machine *vm.VM, module *il.Module, fnName string, args []vm.Slot, in io.Reader, out io.Writer) (vm.Slot, error) {
	ctl := NewController(in, out)
	ctl.VM = machine
	ctl.mode = StepInto

	machine.Debug = ctl
	if err := machine.BindModule(module); err != nil {
		return vm.Slot{}, fmt.Errorf("bind module: %w", err)
	}

	return machine.RunFunction(fnName, args)
}
