package pipeline

import (
	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/insts"
)

// DecodeStage decodes the latched instruction word, reads the register
// file and CSR store, and resolves each operand to a register value, an
// immediate or the PC according to the opcode class. The selection is
// purely combinational; every class has a defined operand shape.
type DecodeStage struct {
	regFile *emu.RegFile
	csrs    *emu.CSRFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile, csrs *emu.CSRFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		csrs:    csrs,
		decoder: insts.NewDecoder(),
	}
}

// Decode produces the fully resolved micro-op for the given transfer
// record. There is no error return: an illegal opcode yields a micro-op
// with Exec.Invalid set for the downstream stage to interpret.
func (s *DecodeStage) Decode(pc, word uint32) MicroOp {
	inst := s.decoder.Decode(word)
	rs1Val, rs2Val := s.regFile.Read(inst.Rs1, inst.Rs2)
	imm := uint32(inst.Imm)

	op := MicroOp{
		PC:   pc,
		Inst: inst,
		Rd:   inst.Rd,
	}

	switch inst.Class {
	case insts.ClassLUI:
		op.Op1 = imm
		op.Op2 = 0
		op.WB = WBCtrl{RegWrite: true, Src: WBALU}

	case insts.ClassAUIPC:
		op.Op1 = pc
		op.Op2 = imm
		op.WB = WBCtrl{RegWrite: true, Src: WBALU}

	case insts.ClassJAL:
		op.Op1 = pc
		op.Op2 = imm
		op.WB = WBCtrl{RegWrite: true, Src: WBLink}
		op.PCU = PCCtrl{Op: PCJump, Target: pc + imm}

	case insts.ClassJALR:
		op.Op1 = rs1Val
		op.Op2 = imm
		op.WB = WBCtrl{RegWrite: true, Src: WBLink}
		// JALR clears the low bit of the computed target.
		op.PCU = PCCtrl{Op: PCJump, Target: (rs1Val + imm) &^ 1}

	case insts.ClassBranch:
		op.Op1 = rs1Val
		op.Op2 = rs2Val
		op.PCU = PCCtrl{Op: PCBranch, Cond: inst.Funct3, Target: pc + imm}

	case insts.ClassLoad:
		op.Op1 = rs1Val
		op.Op2 = imm
		op.Mem = MemCtrl{Read: true, Funct3: inst.Funct3}
		op.WB = WBCtrl{RegWrite: true, Src: WBMem}

	case insts.ClassStore:
		op.Op1 = rs1Val
		op.Op2 = imm
		op.Op3 = rs2Val
		op.Mem = MemCtrl{Write: true, Funct3: inst.Funct3}

	case insts.ClassOpImm:
		op.Op1 = rs1Val
		op.Op2 = imm
		op.Exec.ALU = aluOpFor(inst)
		op.WB = WBCtrl{RegWrite: true, Src: WBALU}

	case insts.ClassOp:
		op.Op1 = rs1Val
		op.Op2 = rs2Val
		op.Exec.ALU = aluOpFor(inst)
		op.WB = WBCtrl{RegWrite: true, Src: WBALU}

	case insts.ClassMiscMem:
		// FENCE: nothing to order in a single-issue in-order core.

	case insts.ClassSystem:
		switch {
		case inst.ECall:
			op.Exec.ECall = true
		case inst.EBreak:
			op.Exec.EBreak = true
		default:
			// CSR reads complete within the current cycle and never
			// participate in the dependency scoreboard.
			op.CSR = CSRCtrl{Read: true, Addr: inst.CSR}
			op.CSRValue = s.csrs.Read(inst.CSR)
			op.WB = WBCtrl{RegWrite: true, Src: WBCSR}
		}

	default:
		op.Exec.Invalid = true
	}

	return op
}

// aluOpFor maps funct3/funct7 to the ALU operation for ClassOp and
// ClassOpImm. Register-immediate ADDI has no SUB form; funct7 only
// distinguishes SUB and SRA for the register form and SRAI's shift.
func aluOpFor(inst *insts.Instruction) ALUOp {
	const funct7Alt = 0b0100000

	switch inst.Funct3 {
	case 0b000:
		if inst.Class == insts.ClassOp && inst.Funct7 == funct7Alt {
			return ALUSub
		}
		return ALUAdd
	case 0b001:
		return ALUSll
	case 0b010:
		return ALUSlt
	case 0b011:
		return ALUSltu
	case 0b100:
		return ALUXor
	case 0b101:
		if inst.Funct7 == funct7Alt {
			return ALUSra
		}
		return ALUSrl
	case 0b110:
		return ALUOr
	default:
		return ALUAnd
	}
}
