package insts

// RV32I major opcode values (bits [6:0]).
const (
	opcodeLUI     = 0x37
	opcodeAUIPC   = 0x17
	opcodeJAL     = 0x6F
	opcodeJALR    = 0x67
	opcodeBranch  = 0x63
	opcodeLoad    = 0x03
	opcodeStore   = 0x23
	opcodeOpImm   = 0x13
	opcodeOp      = 0x33
	opcodeMiscMem = 0x0F
	opcodeSystem  = 0x73
)

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Field extraction accessors. Each accessor extracts exactly one encoding
// field so the bit slicing stays auditable against the ISA manual.

// Opcode extracts the major opcode, bits [6:0].
func Opcode(word uint32) uint8 { return uint8(word & 0x7F) }

// Rd extracts the destination register index, bits [11:7].
func Rd(word uint32) uint8 { return uint8((word >> 7) & 0x1F) }

// Funct3 extracts the 3-bit function code, bits [14:12].
func Funct3(word uint32) uint8 { return uint8((word >> 12) & 0x7) }

// Rs1 extracts the first source register index, bits [19:15].
func Rs1(word uint32) uint8 { return uint8((word >> 15) & 0x1F) }

// Rs2 extracts the second source register index, bits [24:20].
func Rs2(word uint32) uint8 { return uint8((word >> 20) & 0x1F) }

// Funct7 extracts the 7-bit function code, bits [31:25].
func Funct7(word uint32) uint8 { return uint8(word >> 25) }

// ImmI extracts the sign-extended I-type immediate, bits [31:20].
func ImmI(word uint32) int32 { return int32(word) >> 20 }

// ImmS extracts the sign-extended S-type immediate, bits [31:25] and [11:7].
func ImmS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

// ImmB extracts the sign-extended B-type immediate. The offset is in
// multiples of 2 bytes: {imm[12], imm[11], imm[10:5], imm[4:1], 0}.
func ImmB(word uint32) int32 {
	imm := (int32(word) >> 31) << 12
	imm |= int32((word>>7)&0x1) << 11
	imm |= int32((word>>25)&0x3F) << 5
	imm |= int32((word>>8)&0xF) << 1
	return imm
}

// ImmU extracts the U-type immediate, bits [31:12] shifted into place.
func ImmU(word uint32) int32 { return int32(word & 0xFFFFF000) }

// ImmJ extracts the sign-extended J-type immediate:
// {imm[20], imm[19:12], imm[11], imm[10:1], 0}.
func ImmJ(word uint32) int32 {
	imm := (int32(word) >> 31) << 20
	imm |= int32((word>>12)&0xFF) << 12
	imm |= int32((word>>20)&0x1) << 11
	imm |= int32((word>>21)&0x3FF) << 1
	return imm
}

// CSRAddr extracts the CSR address for SYSTEM instructions, bits [31:20].
func CSRAddr(word uint32) uint16 { return uint16(word >> 20) }

// Decode decodes a 32-bit RV32I instruction word. Illegal encodings produce
// ClassInvalid; the caller decides how to react, decoding never fails.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Word:   word,
		Class:  ClassInvalid,
		Rd:     Rd(word),
		Rs1:    Rs1(word),
		Rs2:    Rs2(word),
		Funct3: Funct3(word),
		Funct7: Funct7(word),
	}

	switch Opcode(word) {
	case opcodeLUI:
		inst.Class = ClassLUI
		inst.Imm = ImmU(word)
	case opcodeAUIPC:
		inst.Class = ClassAUIPC
		inst.Imm = ImmU(word)
	case opcodeJAL:
		inst.Class = ClassJAL
		inst.Imm = ImmJ(word)
	case opcodeJALR:
		d.decodeJALR(word, inst)
	case opcodeBranch:
		d.decodeBranch(word, inst)
	case opcodeLoad:
		d.decodeLoad(word, inst)
	case opcodeStore:
		d.decodeStore(word, inst)
	case opcodeOpImm:
		d.decodeOpImm(word, inst)
	case opcodeOp:
		d.decodeOp(word, inst)
	case opcodeMiscMem:
		// FENCE and FENCE.I order memory accesses; this single-issue,
		// in-order core completes every access before the next issues,
		// so both behave as no-ops.
		inst.Class = ClassMiscMem
	case opcodeSystem:
		d.decodeSystem(word, inst)
	}

	return inst
}

// decodeJALR decodes JALR. funct3 must be 000.
func (d *Decoder) decodeJALR(word uint32, inst *Instruction) {
	if inst.Funct3 != 0 {
		return
	}
	inst.Class = ClassJALR
	inst.Imm = ImmI(word)
}

// decodeBranch decodes BEQ/BNE/BLT/BGE/BLTU/BGEU. funct3 010 and 011 are
// reserved in the base ISA.
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	if inst.Funct3 == 0b010 || inst.Funct3 == 0b011 {
		return
	}
	inst.Class = ClassBranch
	inst.Imm = ImmB(word)
}

// decodeLoad decodes LB/LH/LW/LBU/LHU.
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	switch inst.Funct3 {
	case 0b000, 0b001, 0b010, 0b100, 0b101:
		inst.Class = ClassLoad
		inst.Imm = ImmI(word)
	}
}

// decodeStore decodes SB/SH/SW.
func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	switch inst.Funct3 {
	case 0b000, 0b001, 0b010:
		inst.Class = ClassStore
		inst.Imm = ImmS(word)
	}
}

// decodeOpImm decodes ADDI/SLTI/SLTIU/XORI/ORI/ANDI/SLLI/SRLI/SRAI.
// For the shift forms the upper immediate bits encode funct7 and must be
// 0000000 (SLLI/SRLI) or 0100000 (SRAI).
func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	switch inst.Funct3 {
	case 0b001: // SLLI
		if inst.Funct7 != 0 {
			return
		}
	case 0b101: // SRLI / SRAI
		if inst.Funct7 != 0 && inst.Funct7 != 0b0100000 {
			return
		}
	}
	inst.Class = ClassOpImm
	inst.Imm = ImmI(word)
	if inst.Funct3 == 0b001 || inst.Funct3 == 0b101 {
		// Shift amount is rs2's field; mask off the funct7 bits.
		inst.Imm &= 0x1F
	}
}

// decodeOp decodes the R-type ALU operations. funct7 selects between the
// base operation (0000000) and the SUB/SRA variants (0100000, only valid
// for funct3 000 and 101).
func (d *Decoder) decodeOp(word uint32, inst *Instruction) {
	switch inst.Funct7 {
	case 0b0000000:
	case 0b0100000:
		if inst.Funct3 != 0b000 && inst.Funct3 != 0b101 {
			return
		}
	default:
		return
	}
	inst.Class = ClassOp
}

// decodeSystem decodes ECALL, EBREAK and the CSR access instructions.
func (d *Decoder) decodeSystem(word uint32, inst *Instruction) {
	switch inst.Funct3 {
	case SystemPriv:
		// ECALL and EBREAK require rd = rs1 = 0.
		if inst.Rd != 0 || inst.Rs1 != 0 {
			return
		}
		switch word >> 20 {
		case 0:
			inst.Class = ClassSystem
			inst.ECall = true
		case 1:
			inst.Class = ClassSystem
			inst.EBreak = true
		}
	case SystemCSRRW, SystemCSRRS, SystemCSRRC,
		SystemCSRRWI, SystemCSRRSI, SystemCSRRCI:
		inst.Class = ClassSystem
		inst.CSR = CSRAddr(word)
	}
}
