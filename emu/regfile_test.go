package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scholarlab/rv32sim/emu"
)

var _ = Describe("RegFile", func() {
	var rf *emu.RegFile

	BeforeEach(func() {
		rf = emu.NewRegFile(0x1000)
	})

	Context("register zero", func() {
		It("should always read zero", func() {
			Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
		})

		It("should discard clocked writes", func() {
			rf.Write(0, 0xDEADBEEF, true)
			rf.Sync()
			Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
		})

		It("should discard forced writes", func() {
			rf.ForceWrite(0, 0xDEADBEEF)
			Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
		})

		It("should never be dirty", func() {
			rf.MarkPending(0)
			Expect(rf.IsDirty(0)).To(BeFalse())
		})
	})

	Context("clocked writes", func() {
		It("should not expose a write before Sync", func() {
			rf.ForceWrite(5, 1)
			rf.Write(5, 42, true)
			Expect(rf.ReadReg(5)).To(Equal(uint32(1)))
		})

		It("should expose a write after Sync", func() {
			rf.Write(5, 42, true)
			rf.Sync()
			Expect(rf.ReadReg(5)).To(Equal(uint32(42)))
		})

		It("should discard writes with valid=false", func() {
			rf.Write(5, 42, false)
			rf.Sync()
			Expect(rf.ReadReg(5)).To(Equal(uint32(0)))
		})

		It("should keep the first writer when two writes are staged", func() {
			rf.Write(5, 42, true)
			rf.Write(5, 99, true)
			rf.Sync()
			Expect(rf.ReadReg(5)).To(Equal(uint32(42)))
		})

		It("should commit at most one write per Sync", func() {
			rf.Write(5, 42, true)
			rf.Write(6, 99, true)
			rf.Sync()
			Expect(rf.ReadReg(5)).To(Equal(uint32(42)))
			Expect(rf.ReadReg(6)).To(Equal(uint32(0)))
		})
	})

	Context("scoreboard", func() {
		It("should report a register dirty after MarkPending", func() {
			rf.MarkPending(7)
			Expect(rf.IsDirty(7)).To(BeTrue())
			Expect(rf.IsDirty(8)).To(BeFalse())
		})

		It("should stay dirty across a Sync with no matching write", func() {
			rf.MarkPending(7)
			rf.Sync()
			Expect(rf.IsDirty(7)).To(BeTrue())
		})

		It("should clear the dirty bit when the write commits", func() {
			rf.MarkPending(7)
			rf.Write(7, 42, true)
			rf.Sync()
			Expect(rf.IsDirty(7)).To(BeFalse())
			Expect(rf.ReadReg(7)).To(Equal(uint32(42)))
		})

		It("should leave unrelated dirty bits alone when a write commits", func() {
			rf.MarkPending(7)
			rf.MarkPending(9)
			rf.Write(7, 42, true)
			rf.Sync()
			Expect(rf.IsDirty(7)).To(BeFalse())
			Expect(rf.IsDirty(9)).To(BeTrue())
		})
	})

	Context("program counter", func() {
		It("should start at the reset address", func() {
			Expect(rf.PC()).To(Equal(uint32(0x1000)))
		})

		It("should hold the staged next PC until Sync", func() {
			rf.AdvancePC(0x1004)
			Expect(rf.PC()).To(Equal(uint32(0x1000)))
			rf.Sync()
			Expect(rf.PC()).To(Equal(uint32(0x1004)))
		})

		It("should take the last staged value before the edge", func() {
			rf.AdvancePC(0x1004)
			rf.AdvancePC(0x2000)
			rf.Sync()
			Expect(rf.PC()).To(Equal(uint32(0x2000)))
		})

		It("should update immediately through SetPC", func() {
			rf.SetPC(0x4000)
			Expect(rf.PC()).To(Equal(uint32(0x4000)))
		})

		It("should drop a staged next PC when SetPC intervenes", func() {
			rf.AdvancePC(0x1004)
			rf.SetPC(0x4000)
			rf.Sync()
			Expect(rf.PC()).To(Equal(uint32(0x4000)))
		})
	})

	Context("reset", func() {
		It("should force x0 and the PC but keep other registers", func() {
			rf.ForceWrite(5, 42)
			rf.MarkPending(5)
			rf.Write(6, 99, true)
			rf.AdvancePC(0x1004)

			rf.Reset(0x8000)

			Expect(rf.PC()).To(Equal(uint32(0x8000)))
			Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
			Expect(rf.ReadReg(5)).To(Equal(uint32(42)))
			Expect(rf.IsDirty(5)).To(BeFalse())

			// The staged write and next PC must not survive the reset.
			rf.Sync()
			Expect(rf.ReadReg(6)).To(Equal(uint32(0)))
			Expect(rf.PC()).To(Equal(uint32(0x8000)))
		})
	})

	Context("debug channels", func() {
		It("should snapshot all registers with x0 forced to zero", func() {
			rf.ForceWrite(1, 11)
			rf.ForceWrite(31, 31)
			regs := rf.Registers()
			Expect(regs[0]).To(Equal(uint32(0)))
			Expect(regs[1]).To(Equal(uint32(11)))
			Expect(regs[31]).To(Equal(uint32(31)))
		})

		It("should read both sources at once", func() {
			rf.ForceWrite(1, 11)
			rf.ForceWrite(2, 22)
			a, b := rf.Read(1, 2)
			Expect(a).To(Equal(uint32(11)))
			Expect(b).To(Equal(uint32(22)))
		})
	})
})
