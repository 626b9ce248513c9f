// Package latency provides instruction timing models for the cycle-level
// simulation. Latencies determine how long the execute stage holds an
// instruction, and therefore how long it backpressures decode.
package latency

import (
	"github.com/scholarlab/rv32sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with the default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execute-stage occupancy in cycles for the given
// instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Class {
	case insts.ClassOp, insts.ClassOpImm, insts.ClassLUI, insts.ClassAUIPC:
		return t.config.ALULatency

	case insts.ClassBranch:
		return t.config.BranchLatency

	case insts.ClassJAL, insts.ClassJALR:
		return t.config.JumpLatency

	case insts.ClassLoad:
		return t.config.LoadLatency

	case insts.ClassStore:
		return t.config.StoreLatency

	case insts.ClassSystem:
		return t.config.SystemLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Class == insts.ClassLoad || inst.Class == insts.ClassStore
}

// IsBranchOp returns true if the instruction can redirect the PC.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Class {
	case insts.ClassBranch, insts.ClassJAL, insts.ClassJALR:
		return true
	default:
		return false
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
