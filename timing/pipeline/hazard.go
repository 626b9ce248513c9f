package pipeline

import (
	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/insts"
)

// HazardUnit gates decode readiness on the register file's pending-write
// scoreboard. It only consumes dirty flags; setting and clearing them
// belongs to the pipeline's issue and write-back paths.
//
// Readiness is a pure function of current scoreboard state, recomputed
// every cycle while stalled — the dirty condition clears as a result of an
// external write-back event, and the next evaluation observes it without
// any wake-up signal.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// RegisterReady reports whether a single register is safe to use. Unused
// operands and register 0 are always ready; x0 never carries a hazard.
func (h *HazardUnit) RegisterReady(rf *emu.RegFile, reg uint8, used bool) bool {
	if !used {
		return true
	}
	return !rf.IsDirty(reg)
}

// OperandsReady reports whether all registers the instruction requires are
// free of pending writes. Sources rs1/rs2 are checked when the encoding
// class reads them. The destination is checked too, so at most one write
// per register is ever outstanding (which is what makes a single scoreboard
// bit per register sound); an instruction with no destination, or with
// destination x0, is never blocked by its own write.
//
// CSR reads are always ready: the CSR store has no pending-write state.
func (h *HazardUnit) OperandsReady(rf *emu.RegFile, inst *insts.Instruction) bool {
	if !h.RegisterReady(rf, inst.Rs1, inst.UsesRs1()) {
		return false
	}
	if !h.RegisterReady(rf, inst.Rs2, inst.UsesRs2()) {
		return false
	}
	if !h.RegisterReady(rf, inst.Rd, inst.WritesRd()) {
		return false
	}
	return true
}
