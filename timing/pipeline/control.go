package pipeline

import "github.com/scholarlab/rv32sim/insts"

// ALUOp selects the execute-stage ALU operation.
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUSll
	ALUSlt
	ALUSltu
	ALUXor
	ALUSrl
	ALUSra
	ALUOr
	ALUAnd
)

// ExecCtrl is the execute control group. Error-like decode outcomes are
// data here, not control flow: an illegal opcode decodes to Invalid=true
// and travels downstream like any other instruction.
type ExecCtrl struct {
	// ALU is the ALU operation applied to operands 1 and 2.
	ALU ALUOp
	// Invalid marks an illegal or unsupported encoding.
	Invalid bool
	// ECall marks the ECALL instruction.
	ECall bool
	// EBreak marks the EBREAK instruction.
	EBreak bool
}

// MemCtrl is the memory control group.
type MemCtrl struct {
	// Read is true for load instructions.
	Read bool
	// Write is true for store instructions.
	Write bool
	// Funct3 carries the access width and sign-extension code.
	Funct3 uint8
}

// CSRCtrl is the CSR control group.
type CSRCtrl struct {
	// Read is true for CSR access instructions.
	Read bool
	// Addr is the CSR address.
	Addr uint16
}

// WBSrc selects the value written back to the register file.
type WBSrc uint8

// Writeback sources.
const (
	// WBNone: no register write.
	WBNone WBSrc = iota
	// WBALU: the ALU result.
	WBALU
	// WBMem: the loaded memory value.
	WBMem
	// WBCSR: the CSR value read at decode.
	WBCSR
	// WBLink: the link address PC+4 (JAL/JALR).
	WBLink
)

// WBCtrl is the register-write control group.
type WBCtrl struct {
	// RegWrite is true if the instruction writes a register.
	RegWrite bool
	// Src selects the written value.
	Src WBSrc
}

// PCOp selects the PC-update behavior.
type PCOp uint8

// PC-update operations.
const (
	// PCNext: sequential PC+4.
	PCNext PCOp = iota
	// PCJump: unconditional redirect to Target.
	PCJump
	// PCBranch: redirect to Target if the branch condition holds.
	PCBranch
)

// PCCtrl is the PC-update control group. Target is resolved at decode:
// PC+imm for JAL and branches, (rs1+imm)&^1 for JALR.
type PCCtrl struct {
	Op PCOp
	// Cond is the branch condition code (funct3) for PCBranch.
	Cond uint8
	// Target is the redirect address.
	Target uint32
}

// MicroOp is the fully resolved ID->EXE payload: operands, destination,
// PC and the control field groups. Created fresh each cycle by the decode
// stage and consumed exactly once by execute; never mutated backward.
type MicroOp struct {
	// PC is the program counter of the instruction.
	PC uint32

	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// Resolved operands. Op3 carries the third (store-data) operand.
	Op1 uint32
	Op2 uint32
	Op3 uint32

	// Rd is the destination register index.
	Rd uint8

	// CSRValue is the CSR read result captured at decode.
	CSRValue uint32

	// Control field groups.
	Exec ExecCtrl
	Mem  MemCtrl
	CSR  CSRCtrl
	WB   WBCtrl
	PCU  PCCtrl
}
