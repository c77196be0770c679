// Command ilvm-core runs a small built-in IL program through the execution
// core, demonstrating the three dispatch strategies agree on the result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/ilvm-core/config"
	"github.com/lookbusy1344/ilvm-core/debugger"
	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

func main() {
	debug := flag.Bool("debug", false, "run under the interactive debugger")
	gui := flag.Bool("gui", false, "run under the graphical debugger")
	mode := flag.String("mode", "table", "dispatch mode: table, switch, threaded")
	n := flag.Int64("n", 10, "upper bound for the demo sum")
	flag.Parse()

	module := buildSumModule()

	cfg := config.DefaultConfig()
	cfg.Execution.DispatchMode = *mode

	if *gui {
		runGUI(module, *n)
		return
	}

	if *debug {
		runDebug(module, *n)
		return
	}

	for _, m := range []string{"table", "switch", "threaded"} {
		cfg.Execution.DispatchMode = m
		result, err := run(module, cfg, *n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", m, err)
			os.Exit(1)
		}
		fmt.Printf("sumTo(%d) via %s dispatch = %d\n", *n, m, result.I64)
	}
}

func run(module *il.Module, cfg *config.Config, n int64) (vm.Slot, error) {
	machine := vm.NewVM()
	machine.ApplyConfig(cfg)
	if err := machine.BindModule(module); err != nil {
		return vm.Slot{}, err
	}
	return machine.RunFunction("main", []vm.Slot{vm.SlotFromI64(n)})
}

func runDebug(module *il.Module, n int64) {
	machine := vm.NewVM()
	result, err := debugger.RunCLI(machine, module, "main", []vm.Slot{vm.SlotFromI64(n)}, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("result = %d\n", result.I64)
}

func runGUI(module *il.Module, n int64) {
	machine := vm.NewVM()
	if err := debugger.RunGUI(machine, module, "main", []vm.Slot{vm.SlotFromI64(n)}); err != nil {
		fmt.Fprintf(os.Stderr, "gui failed: %v\n", err)
		os.Exit(1)
	}
}

// buildSumModule builds a two-function module: sumTo(n) loops via a block
// parameter accumulator (the SSA idiom for a mutable induction variable)
// summing 1..n, and main forwards its argument into it.
func buildSumModule() *il.Module {
	m := il.NewModule()
	if err := m.AddFunction(sumToFunction()); err != nil {
		panic(err)
	}
	if err := m.AddFunction(mainFunction()); err != nil {
		panic(err)
	}
	return m
}

func sumToFunction() *il.Function {
	// params: %0 = n (i64)
	// entry: br loop(1, 0)          ; i, acc
	// loop(%1 i, %2 acc):
	//   %3 = scmp.gt %1, %0
	//   cbr %3, done(%2), body()
	// body:
	//   %4 = add %2, %1
	//   %5 = add %1, 1
	//   br loop(%5, %4)
	// done(%6 result):
	//   ret %6
	return &il.Function{
		Name:       "sumTo",
		ReturnType: il.I64,
		Params:     []il.Param{{ID: 0, Type: il.I64, Name: "n"}},
		ValueNames: map[int]string{
			0: "n", 1: "i", 2: "acc", 3: "done_cond", 4: "next_acc", 5: "next_i", 6: "result",
		},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{
						Op:         il.OpBr,
						Labels:     []string{"loop"},
						BranchArgs: [][]il.Value{{il.ConstInt(1, il.I64), il.ConstInt(0, il.I64)}},
					},
				},
				Terminated: true,
			},
			{
				Label: "loop",
				Params: []il.BlockParam{
					{ID: 1, Type: il.I64, Name: "i"},
					{ID: 2, Type: il.I64, Name: "acc"},
				},
				Instrs: []*il.Instruction{
					{
						Op:         il.OpSCmpGt,
						HasResult:  true,
						Result:     3,
						ResultType: il.I1,
						Operands:   []il.Value{il.Temp(1), il.Temp(0)},
					},
					{
						Op:         il.OpCbr,
						Operands:   []il.Value{il.Temp(3)},
						Labels:     []string{"done", "body"},
						BranchArgs: [][]il.Value{{il.Temp(2)}, {}},
					},
				},
				Terminated: true,
			},
			{
				Label: "body",
				Instrs: []*il.Instruction{
					{
						Op:         il.OpAdd,
						HasResult:  true,
						Result:     4,
						ResultType: il.I64,
						Operands:   []il.Value{il.Temp(2), il.Temp(1)},
					},
					{
						Op:         il.OpAdd,
						HasResult:  true,
						Result:     5,
						ResultType: il.I64,
						Operands:   []il.Value{il.Temp(1), il.ConstInt(1, il.I64)},
					},
					{
						Op:         il.OpBr,
						Labels:     []string{"loop"},
						BranchArgs: [][]il.Value{{il.Temp(5), il.Temp(4)}},
					},
				},
				Terminated: true,
			},
			{
				Label: "done",
				Params: []il.BlockParam{
					{ID: 6, Type: il.I64, Name: "result"},
				},
				Instrs: []*il.Instruction{
					{Op: il.OpRet, Operands: []il.Value{il.Temp(6)}},
				},
				Terminated: true,
			},
		},
	}
}

func mainFunction() *il.Function {
	return &il.Function{
		Name:       "main",
		ReturnType: il.I64,
		Params:     []il.Param{{ID: 0, Type: il.I64, Name: "n"}},
		ValueNames: map[int]string{0: "n", 1: "result"},
		Blocks: []*il.BasicBlock{
			{
				Label: "entry",
				Instrs: []*il.Instruction{
					{
						Op:         il.OpCall,
						HasResult:  true,
						Result:     1,
						ResultType: il.I64,
						Callee:     "sumTo",
						Operands:   []il.Value{il.Temp(0)},
					},
					{Op: il.OpRet, Operands: []il.Value{il.Temp(1)}},
				},
				Terminated: true,
			},
		},
	}
}
