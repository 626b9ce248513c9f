// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. Decoding is pure bit-field extraction: every
// field (opcode, register indices, function codes, immediates) has an
// explicit accessor so extraction stays auditable per field.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00A28293) // ADDI x5, x5, 10
//	fmt.Printf("Class: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Class, inst.Rd, inst.Rs1, inst.Imm)
package insts

// Class represents an RV32I major opcode class.
type Class uint8

// RV32I major opcode classes.
const (
	ClassInvalid Class = iota
	ClassLUI          // Load upper immediate (U-type)
	ClassAUIPC        // Add upper immediate to PC (U-type)
	ClassJAL          // Jump and link (J-type)
	ClassJALR         // Jump and link register (I-type)
	ClassBranch       // Conditional branches (B-type)
	ClassLoad         // Memory loads (I-type)
	ClassStore        // Memory stores (S-type)
	ClassOpImm        // Integer register-immediate operations (I-type)
	ClassOp           // Integer register-register operations (R-type)
	ClassMiscMem      // FENCE (treated as a no-op by this core)
	ClassSystem       // ECALL, EBREAK, CSR accesses
)

// Branch function codes (funct3 for ClassBranch).
const (
	BranchEQ  uint8 = 0b000 // BEQ
	BranchNE  uint8 = 0b001 // BNE
	BranchLT  uint8 = 0b100 // BLT (signed)
	BranchGE  uint8 = 0b101 // BGE (signed)
	BranchLTU uint8 = 0b110 // BLTU
	BranchGEU uint8 = 0b111 // BGEU
)

// System function codes (funct3 for ClassSystem).
const (
	SystemPriv   uint8 = 0b000 // ECALL / EBREAK
	SystemCSRRW  uint8 = 0b001
	SystemCSRRS  uint8 = 0b010
	SystemCSRRC  uint8 = 0b011
	SystemCSRRWI uint8 = 0b101
	SystemCSRRSI uint8 = 0b110
	SystemCSRRCI uint8 = 0b111
)

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	// Word is the raw 32-bit instruction word.
	Word uint32

	// Class is the major opcode class. ClassInvalid marks an illegal or
	// unsupported encoding; it is a defined value, never silently a no-op.
	Class Class

	// Register indices.
	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	// Function codes.
	Funct3 uint8
	Funct7 uint8

	// Imm is the sign-extended immediate for the instruction's format.
	Imm int32

	// CSR is the CSR address for SYSTEM CSR accesses (bits [31:20]).
	CSR uint16

	// ECall and EBreak mark the two privileged SYSTEM encodings.
	ECall  bool
	EBreak bool
}

// UsesRs1 reports whether the instruction reads its rs1 operand.
// CSR immediate forms (CSRRWI/CSRRSI/CSRRCI) carry a zimm in the rs1 field
// and do not read the register file.
func (i *Instruction) UsesRs1() bool {
	switch i.Class {
	case ClassJALR, ClassBranch, ClassLoad, ClassStore, ClassOpImm, ClassOp:
		return true
	case ClassSystem:
		switch i.Funct3 {
		case SystemCSRRW, SystemCSRRS, SystemCSRRC:
			return true
		}
	}
	return false
}

// UsesRs2 reports whether the instruction reads its rs2 operand.
func (i *Instruction) UsesRs2() bool {
	switch i.Class {
	case ClassBranch, ClassStore, ClassOp:
		return true
	}
	return false
}

// WritesRd reports whether the instruction writes a destination register.
// A write to x0 is architecturally discarded; callers that care about the
// hazard scoreboard must additionally check Rd != 0.
func (i *Instruction) WritesRd() bool {
	switch i.Class {
	case ClassLUI, ClassAUIPC, ClassJAL, ClassJALR, ClassLoad, ClassOpImm, ClassOp:
		return true
	case ClassSystem:
		return i.IsCSR()
	}
	return false
}

// IsCSR reports whether the instruction is a CSR access.
func (i *Instruction) IsCSR() bool {
	return i.Class == ClassSystem && i.Funct3 != SystemPriv
}

// regNames maps register indices to RISC-V ABI names.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegName returns the ABI name for a register index.
func RegName(reg uint8) string {
	if reg >= 32 {
		return "?"
	}
	return regNames[reg]
}
