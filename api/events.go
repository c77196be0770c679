// Package api exposes the VM's execution state to external observers over a
// WebSocket, by implementing vm.DebugHooks and broadcasting every step as a
// BroadcastEvent. State events carry SSA-value bindings rather than a flat
// register file, since this VM has none.
package api

import (
	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// EventType names the category of a BroadcastEvent.
type EventType string

const (
	// EventTypeState carries a single-instruction state snapshot (function,
	// block, ip, the instruction's result if any).
	EventTypeState EventType = "state"
	// EventTypeOutput carries console output produced by the running program.
	EventTypeOutput EventType = "output"
	// EventTypeTrap carries an unhandled or handled trap notification.
	EventTypeTrap EventType = "trap"
	// EventTypeExecution carries lifecycle events: run started, finished.
	EventTypeExecution EventType = "execution"
)

// BroadcastEvent is the JSON payload sent to every subscribed client.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// EventHooks implements vm.DebugHooks by publishing a BroadcastEvent for
// every instruction boundary instead of pausing execution; it is meant to
// run alongside (or in place of) the debugger package's interactive
// Controller when a session just wants to observe, not single-step.
type EventHooks struct {
	SessionID string
	Bus       *Broadcaster
}

var _ vm.DebugHooks = (*EventHooks)(nil)

// BeforeInstr never pauses; it reports the instruction about to run.
func (h *EventHooks) BeforeInstr(es *vm.ExecState, instr *il.Instruction) (bool, vm.Slot) {
	h.Bus.BroadcastState(h.SessionID, map[string]interface{}{
		"function": es.Frame.Fn.Name,
		"block":    es.Block.Label,
		"ip":       es.IP,
		"opcode":   string(instr.Op),
	})
	return false, vm.Slot{}
}

// AfterInstr never pauses.
func (h *EventHooks) AfterInstr(es *vm.ExecState, instr *il.Instruction) (bool, vm.Slot) {
	return false, vm.Slot{}
}

// OnBlockEntered reports a block transition as an execution event.
func (h *EventHooks) OnBlockEntered(es *vm.ExecState) {
	h.Bus.Broadcast(BroadcastEvent{
		Type:      EventTypeExecution,
		SessionID: h.SessionID,
		Data: map[string]interface{}{
			"event":    "block-entered",
			"function": es.Frame.Fn.Name,
			"block":    es.Block.Label,
		},
	})
}

// OnParamBound reports a block-parameter binding as a state event, giving a
// subscriber enough to reconstruct SSA-value watch views without polling.
func (h *EventHooks) OnParamBound(es *vm.ExecState, name string, ty il.Kind, s vm.Slot) {
	h.Bus.Broadcast(BroadcastEvent{
		Type:      EventTypeState,
		SessionID: h.SessionID,
		Data: map[string]interface{}{
			"param": name,
			"type":  ty.String(),
			"value": s.I64,
		},
	})
}
