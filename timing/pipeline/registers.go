// Package pipeline implements the decode and register-dependency core of a
// single-issue, in-order RV32I pipeline: ready/valid handshaking between
// stage registers, dirty-bit hazard gating in decode, and the execute
// collaborator that commits writes and clears the scoreboard.
package pipeline

// IFIDRegister holds the transfer record between Fetch and Decode: one
// {PC, instruction word} pair. The record is overwritten only under the
// capture condition and otherwise retained unchanged, so an instruction is
// never lost or duplicated across a stall.
type IFIDRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// PC is the program counter of the fetched instruction.
	PC uint32

	// InstructionWord is the raw 32-bit instruction word.
	InstructionWord uint32
}

// Capture latches a new transfer record when both the upstream producer is
// valid and this stage is ready. It returns whether the capture happened;
// otherwise the held record is unchanged (stall semantics).
func (r *IFIDRegister) Capture(upstreamValid, localReady bool, pc, word uint32) bool {
	if !upstreamValid || !localReady {
		return false
	}
	r.Valid = true
	r.PC = pc
	r.InstructionWord = word
	return true
}

// Clear resets the IF/ID register to the empty state (reset or flush).
func (r *IFIDRegister) Clear() {
	r.Valid = false
	r.PC = 0
	r.InstructionWord = 0
}

// IDEXRegister holds the decoded micro-op between Decode and Execute,
// together with the execute stage's remaining occupancy.
type IDEXRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Op is the decoded micro-op.
	Op MicroOp

	// Remaining is the number of cycles before the execute stage
	// completes the held micro-op.
	Remaining uint64
}

// Capture latches a micro-op when the decode output is valid and the
// execute stage is ready. Returns whether the capture happened.
func (r *IDEXRegister) Capture(upstreamValid, localReady bool, op MicroOp, latency uint64) bool {
	if !upstreamValid || !localReady {
		return false
	}
	r.Valid = true
	r.Op = op
	r.Remaining = latency
	return true
}

// Clear resets the ID/EX register to the empty state.
func (r *IDEXRegister) Clear() {
	r.Valid = false
	r.Op = MicroOp{}
	r.Remaining = 0
}
