package vm

import "github.com/lookbusy1344/ilvm-core/il"

// Statistics is lightweight opcode-frequency instrumentation exposed on the
// VM facade as VM.Stats; it never influences execution.
type Statistics struct {
	OpcodeCounts map[il.Opcode]uint64
	TotalSteps   uint64
}

// NewStatistics returns an empty counter set.
func NewStatistics() *Statistics {
	return &Statistics{OpcodeCounts: make(map[il.Opcode]uint64)}
}

// RecordOpcode increments the counters for one retired instruction.
func (s *Statistics) RecordOpcode(op il.Opcode) {
	s.TotalSteps++
	s.OpcodeCounts[op]++
}
