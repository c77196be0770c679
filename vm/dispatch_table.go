package vm

import "github.com/lookbusy1344/ilvm-core/il"

// opTable is the function-table dispatch backend: an indexed map of opcode
// to handler, built once at package init (§4.5 "Function table: an indexed
// array of handler function pointers; clean and portable").
var opTable = buildOpTable()

func buildOpTable() map[il.Opcode]opHandler {
	m := make(map[il.Opcode]opHandler, 64)
	registerIntOps(m)
	registerFloatOps(m)
	registerMemoryOps(m)
	registerControlOps(m)
	registerEhOps(m)
	return m
}

// tableStrategy dispatches by map lookup into opTable.
type tableStrategy struct{}

func (tableStrategy) Step(es *ExecState) {
	runStep(es, func(op il.Opcode) opHandler { return opTable[op] })
}

// threadedStrategy stands in for the computed-goto ("threaded") backend
// (§4.5). Go has no computed-goto or label-as-value construct, so this
// strategy is selected only for API parity with the source VM's three
// strategies and simply reuses the table lookup; it is still exercised
// independently in the strategy-parity tests (§8 invariant 1) to pin that
// swapping strategies never changes observable behaviour.
type threadedStrategy struct{}

func (threadedStrategy) Step(es *ExecState) {
	runStep(es, func(op il.Opcode) opHandler { return opTable[op] })
}
