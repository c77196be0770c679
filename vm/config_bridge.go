package vm

import "github.com/lookbusy1344/ilvm-core/config"

// ApplyConfig reconfigures a freshly constructed VM from loaded settings,
// overriding the environment-derived switch-cache defaults and dispatch
// mode (§4.4, §4.6).
func (vm *VM) ApplyConfig(cfg *config.Config) {
	vm.MaxSteps = cfg.Execution.MaxSteps
	vm.TCOEnabled = cfg.Execution.EnableTCO

	switch cfg.Execution.DispatchMode {
	case "switch":
		vm.Mode = ModeSwitch
	case "threaded":
		vm.Mode = ModeThreaded
	default:
		vm.Mode = ModeTable
	}

	t := vm.tunables
	t.DenseMaxRange = cfg.SwitchCache.DenseMaxRange
	t.DenseMinDensity = cfg.SwitchCache.DenseMinDensity
	t.HashMinCases = cfg.SwitchCache.HashMinCases
	t.HashMaxDensity = cfg.SwitchCache.HashMaxDensity
	switch cfg.SwitchCache.Mode {
	case "Dense":
		t.ForcedMode = BackendDense
	case "Sorted":
		t.ForcedMode = BackendSorted
	case "Hashed":
		t.ForcedMode = BackendHashed
	case "Linear":
		t.ForcedMode = BackendLinear
	default:
		t.ForcedMode = BackendAuto
	}
	vm.tunables = t
}
