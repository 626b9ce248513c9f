package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/timing/pipeline"
)

var _ = Describe("DecodeStage", func() {
	var (
		rf    *emu.RegFile
		csrs  *emu.CSRFile
		stage *pipeline.DecodeStage
	)

	BeforeEach(func() {
		rf = emu.NewRegFile(0)
		csrs = emu.NewCSRFile()
		stage = pipeline.NewDecodeStage(rf, csrs)
	})

	It("should resolve LUI to an immediate operand", func() {
		op := stage.Decode(0x1000, 0x123452B7) // LUI x5, 0x12345

		Expect(op.Op1).To(Equal(uint32(0x12345000)))
		Expect(op.Rd).To(Equal(uint8(5)))
		Expect(op.WB).To(Equal(pipeline.WBCtrl{RegWrite: true, Src: pipeline.WBALU}))
		Expect(op.Exec.ALU).To(Equal(pipeline.ALUAdd))
	})

	It("should resolve AUIPC to PC plus immediate", func() {
		op := stage.Decode(0x1000, 0x00001297) // AUIPC x5, 0x1

		Expect(op.Op1).To(Equal(uint32(0x1000)))
		Expect(op.Op2).To(Equal(uint32(0x1000)))
		Expect(op.WB.Src).To(Equal(pipeline.WBALU))
	})

	It("should resolve the JAL target at decode", func() {
		op := stage.Decode(0x1000, 0x008000EF) // JAL x1, +8

		Expect(op.PCU.Op).To(Equal(pipeline.PCJump))
		Expect(op.PCU.Target).To(Equal(uint32(0x1008)))
		Expect(op.WB).To(Equal(pipeline.WBCtrl{RegWrite: true, Src: pipeline.WBLink}))
		Expect(op.Rd).To(Equal(uint8(1)))
	})

	It("should resolve the JALR target from rs1 with the low bit cleared", func() {
		rf.ForceWrite(1, 0x2001)
		op := stage.Decode(0x1000, 0x00008067) // JALR x0, 0(x1)

		Expect(op.PCU.Op).To(Equal(pipeline.PCJump))
		Expect(op.PCU.Target).To(Equal(uint32(0x2000)))
	})

	It("should carry branch operands and the decode-resolved target", func() {
		rf.ForceWrite(1, 7)
		rf.ForceWrite(2, 9)
		op := stage.Decode(0x1000, 0x00208463) // BEQ x1, x2, +8

		Expect(op.PCU.Op).To(Equal(pipeline.PCBranch))
		Expect(op.PCU.Cond).To(Equal(uint8(0)))
		Expect(op.PCU.Target).To(Equal(uint32(0x1008)))
		Expect(op.Op1).To(Equal(uint32(7)))
		Expect(op.Op2).To(Equal(uint32(9)))
		Expect(op.WB.RegWrite).To(BeFalse())
	})

	It("should set up a load as base plus offset with memory write-back", func() {
		rf.ForceWrite(1, 0x2000)
		op := stage.Decode(0x1000, 0x0040A283) // LW x5, 4(x1)

		Expect(op.Op1).To(Equal(uint32(0x2000)))
		Expect(op.Op2).To(Equal(uint32(4)))
		Expect(op.Mem).To(Equal(pipeline.MemCtrl{Read: true, Funct3: 0b010}))
		Expect(op.WB).To(Equal(pipeline.WBCtrl{RegWrite: true, Src: pipeline.WBMem}))
	})

	It("should carry the store data in the third operand", func() {
		rf.ForceWrite(1, 0x2000)
		rf.ForceWrite(5, 0xCAFEBABE)
		op := stage.Decode(0x1000, 0x0050A223) // SW x5, 4(x1)

		Expect(op.Op1).To(Equal(uint32(0x2000)))
		Expect(op.Op2).To(Equal(uint32(4)))
		Expect(op.Op3).To(Equal(uint32(0xCAFEBABE)))
		Expect(op.Mem).To(Equal(pipeline.MemCtrl{Write: true, Funct3: 0b010}))
		Expect(op.WB.RegWrite).To(BeFalse())
	})

	It("should select the ALU operation for register forms", func() {
		sub := stage.Decode(0, 0x402081B3) // SUB x3, x1, x2
		or := stage.Decode(0, 0x0020E1B3)  // OR x3, x1, x2

		Expect(sub.Exec.ALU).To(Equal(pipeline.ALUSub))
		Expect(or.Exec.ALU).To(Equal(pipeline.ALUOr))
	})

	It("should select SRA for SRAI and keep ADDI as add", func() {
		srai := stage.Decode(0, 0x4020D293) // SRAI x5, x1, 2
		addi := stage.Decode(0, 0x00A00093) // ADDI x1, x0, 10

		Expect(srai.Exec.ALU).To(Equal(pipeline.ALUSra))
		Expect(addi.Exec.ALU).To(Equal(pipeline.ALUAdd))
	})

	It("should capture the CSR value at decode time", func() {
		csrs.IncrementCycle()
		csrs.IncrementCycle()
		op := stage.Decode(0x1000, 0xB00022F3) // CSRRS x5, mcycle, x0

		Expect(op.CSR).To(Equal(pipeline.CSRCtrl{Read: true, Addr: 0xB00}))
		Expect(op.CSRValue).To(Equal(uint32(2)))
		Expect(op.WB).To(Equal(pipeline.WBCtrl{RegWrite: true, Src: pipeline.WBCSR}))

		// Later counter updates must not leak into the captured value.
		csrs.IncrementCycle()
		Expect(op.CSRValue).To(Equal(uint32(2)))
	})

	It("should mark ECALL and EBREAK in the execute control group", func() {
		ecall := stage.Decode(0, 0x00000073)
		ebreak := stage.Decode(0, 0x00100073)

		Expect(ecall.Exec.ECall).To(BeTrue())
		Expect(ebreak.Exec.EBreak).To(BeTrue())
		Expect(ecall.WB.RegWrite).To(BeFalse())
	})

	It("should mark illegal words invalid rather than failing", func() {
		op := stage.Decode(0x1000, 0x00000000)

		Expect(op.Exec.Invalid).To(BeTrue())
		Expect(op.WB.RegWrite).To(BeFalse())
	})

	It("should read x0 operands as zero regardless of stored content", func() {
		op := stage.Decode(0, 0x00A00093) // ADDI x1, x0, 10
		Expect(op.Op1).To(Equal(uint32(0)))
	})
})
