// Package emu provides the architectural state of the RV32I core: the
// register file with its pending-write scoreboard, the CSR file, and memory.
package emu

// RegFile represents the RV32I register file together with the program
// counter and the per-register pending-write ("dirty") scoreboard.
//
// Reads are combinational: they observe register contents as they stand at
// the start of the cycle. Writes are clocked: Write stages at most one
// write request per cycle and Sync, the clock edge, commits it. A write
// committing in cycle N is therefore visible to readers only from cycle
// N+1 on; the register file never forwards a same-cycle write to a read.
//
// The scoreboard bit for a register is set by the pipeline when an
// instruction that will write the register is admitted downstream
// (MarkPending) and cleared by Sync exactly when the corresponding write
// commits. The decode stage only consumes the flag via IsDirty.
type RegFile struct {
	x     [32]uint32
	dirty [32]bool
	pc    uint32

	// Staged write request; committed at the next Sync.
	pendingRd    uint8
	pendingValue uint32
	hasPending   bool

	// Staged next-PC value; committed at the next Sync.
	nextPC    uint32
	pcPending bool
}

// NewRegFile creates a register file reset to the given start address.
func NewRegFile(startPC uint32) *RegFile {
	rf := &RegFile{}
	rf.Reset(startPC)
	return rf
}

// Reset forces the defined reset state: x0 reads zero and the PC equals
// startPC. General registers are deliberately left as they are — the
// hardware does not reset them, and tests must not assume otherwise.
func (r *RegFile) Reset(startPC uint32) {
	r.x[0] = 0
	r.pc = startPC
	r.dirty = [32]bool{}
	r.hasPending = false
	r.pcPending = false
}

// Read returns the values of both source registers. Index 0 reads as zero
// regardless of stored content. Pure lookup, no side effects.
func (r *RegFile) Read(rs1, rs2 uint8) (uint32, uint32) {
	return r.ReadReg(rs1), r.ReadReg(rs2)
}

// ReadReg reads a single register value. Register 0 reads as zero.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.x[reg]
}

// Write stages a register write to commit at the next Sync. Requests with
// valid=false or rd=0 are discarded. The register file has a single write
// port: if a request is already staged this cycle, later requests are
// dropped (first writer wins).
func (r *RegFile) Write(rd uint8, value uint32, valid bool) {
	if !valid || rd == 0 || rd >= 32 {
		return
	}
	if r.hasPending {
		return
	}
	r.pendingRd = rd
	r.pendingValue = value
	r.hasPending = true
}

// IsDirty reports whether a register has a write pending from an earlier,
// not-yet-committed instruction. Register 0 is always clean.
func (r *RegFile) IsDirty(reg uint8) bool {
	if reg == 0 || reg >= 32 {
		return false
	}
	return r.dirty[reg]
}

// MarkPending sets the scoreboard bit for a destination register. Marking
// register 0 has no effect.
func (r *RegFile) MarkPending(rd uint8) {
	if rd == 0 || rd >= 32 {
		return
	}
	r.dirty[rd] = true
}

// PC returns the current program counter.
func (r *RegFile) PC() uint32 {
	return r.pc
}

// AdvancePC stages the next program counter value, committed at the next
// Sync. The PC updates every cycle unconditionally; holding it across a
// stall means supplying the same value again.
func (r *RegFile) AdvancePC(next uint32) {
	r.nextPC = next
	r.pcPending = true
}

// SetPC sets the program counter immediately, bypassing the clock. This is
// the reset/debug path, not part of the cycle-level contract.
func (r *RegFile) SetPC(pc uint32) {
	r.pc = pc
	r.pcPending = false
}

// Sync is the clock edge. It commits the staged register write, clears the
// written register's scoreboard bit in the same step (a dirty bit is never
// cleared before its write is visible to readers), and commits the staged
// next-PC value.
func (r *RegFile) Sync() {
	if r.hasPending {
		r.x[r.pendingRd] = r.pendingValue
		r.dirty[r.pendingRd] = false
		r.hasPending = false
	}
	if r.pcPending {
		r.pc = r.nextPC
		r.pcPending = false
	}
}

// ForceWrite writes a register immediately, bypassing the clock and the
// scoreboard. Test/debug side channel only. Writes to register 0 are
// discarded.
func (r *RegFile) ForceWrite(reg uint8, value uint32) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.x[reg] = value
}

// Registers returns a snapshot of all 32 register values. Test/debug side
// channel only.
func (r *RegFile) Registers() [32]uint32 {
	regs := r.x
	regs[0] = 0
	return regs
}
