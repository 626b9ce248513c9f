package pipeline

import (
	"github.com/scholarlab/rv32sim/emu"
)

// ExecuteStage is the downstream collaborator of the decode core. It
// consumes micro-ops from the ID/EX register, holds each for its
// configured latency (the source of downstream backpressure), and on
// completion commits the register write through the register file's
// clocked write port — which is also what clears the destination's dirty
// bit, exactly once per commit.
type ExecuteStage struct {
	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage(regFile *emu.RegFile, memory *emu.Memory) *ExecuteStage {
	return &ExecuteStage{
		regFile: regFile,
		memory:  memory,
	}
}

// ExecResult reports what happened during one execute step.
type ExecResult struct {
	// Completed is true when a micro-op finished this cycle.
	Completed bool
	// Redirect is true when the PC must be redirected to Target.
	Redirect bool
	// Target is the redirect address.
	Target uint32
	// TakenBranch is true when a conditional branch was taken.
	TakenBranch bool
	// Halted is true when the core must stop (EBREAK, ECALL, or an
	// illegal instruction reaching execute).
	Halted bool
	// Trapped is true when the halt was caused by an illegal instruction.
	Trapped bool
	// ExitCode is the exit code on halt (a0 for ECALL, 0 otherwise).
	ExitCode int64
}

// Ready reports whether the stage can accept a new micro-op. This is the
// downstream ready signal decode folds into its own readiness.
func (s *ExecuteStage) Ready(idex *IDEXRegister) bool {
	return !idex.Valid
}

// Step advances the held micro-op by one cycle, completing it when its
// latency has elapsed.
func (s *ExecuteStage) Step(idex *IDEXRegister) ExecResult {
	if !idex.Valid {
		return ExecResult{}
	}
	if idex.Remaining > 1 {
		idex.Remaining--
		return ExecResult{}
	}

	op := idex.Op
	idex.Clear()
	return s.complete(op)
}

// complete retires a micro-op: computes its result, performs any memory
// access, commits the register write, and resolves PC redirection.
func (s *ExecuteStage) complete(op MicroOp) ExecResult {
	result := ExecResult{Completed: true}

	switch {
	case op.Exec.Invalid:
		// Illegal opcodes arrive here as data in the control bundle.
		// This core has no trap delivery, so reaching execute stops
		// the simulation.
		result.Halted = true
		result.Trapped = true
		return result
	case op.Exec.ECall:
		result.Halted = true
		result.ExitCode = int64(s.regFile.ReadReg(10)) // a0
		return result
	case op.Exec.EBreak:
		result.Halted = true
		return result
	}

	aluResult := alu(op.Exec.ALU, op.Op1, op.Op2)

	var value uint32
	switch op.WB.Src {
	case WBALU:
		value = aluResult
	case WBMem:
		value = s.load(aluResult, op.Mem.Funct3)
	case WBCSR:
		value = op.CSRValue
	case WBLink:
		value = op.PC + 4
	}

	if op.Mem.Write {
		s.store(aluResult, op.Op3, op.Mem.Funct3)
	}

	s.regFile.Write(op.Rd, value, op.WB.RegWrite)

	switch op.PCU.Op {
	case PCJump:
		result.Redirect = true
		result.Target = op.PCU.Target
	case PCBranch:
		if branchTaken(op.PCU.Cond, op.Op1, op.Op2) {
			result.Redirect = true
			result.Target = op.PCU.Target
			result.TakenBranch = true
		}
	}

	return result
}

// alu performs the execute-stage ALU operation. Shift amounts use the low
// five bits of the second operand.
func alu(op ALUOp, a, b uint32) uint32 {
	switch op {
	case ALUAdd:
		return a + b
	case ALUSub:
		return a - b
	case ALUSll:
		return a << (b & 0x1F)
	case ALUSlt:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case ALUSltu:
		if a < b {
			return 1
		}
		return 0
	case ALUXor:
		return a ^ b
	case ALUSrl:
		return a >> (b & 0x1F)
	case ALUSra:
		return uint32(int32(a) >> (b & 0x1F))
	case ALUOr:
		return a | b
	default:
		return a & b
	}
}

// branchTaken evaluates the branch condition code against the operands.
func branchTaken(cond uint8, a, b uint32) bool {
	switch cond {
	case 0b000: // BEQ
		return a == b
	case 0b001: // BNE
		return a != b
	case 0b100: // BLT
		return int32(a) < int32(b)
	case 0b101: // BGE
		return int32(a) >= int32(b)
	case 0b110: // BLTU
		return a < b
	case 0b111: // BGEU
		return a >= b
	default:
		return false
	}
}

// load reads memory with the width and sign-extension selected by funct3.
func (s *ExecuteStage) load(addr uint32, funct3 uint8) uint32 {
	switch funct3 {
	case 0b000: // LB
		return uint32(int32(int8(s.memory.Read8(addr))))
	case 0b001: // LH
		return uint32(int32(int16(s.memory.Read16(addr))))
	case 0b010: // LW
		return s.memory.Read32(addr)
	case 0b100: // LBU
		return uint32(s.memory.Read8(addr))
	case 0b101: // LHU
		return uint32(s.memory.Read16(addr))
	default:
		return 0
	}
}

// store writes memory with the width selected by funct3.
func (s *ExecuteStage) store(addr, value uint32, funct3 uint8) {
	switch funct3 {
	case 0b000: // SB
		s.memory.Write8(addr, uint8(value))
	case 0b001: // SH
		s.memory.Write16(addr, uint16(value))
	case 0b010: // SW
		s.memory.Write32(addr, value)
	}
}
