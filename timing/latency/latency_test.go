package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scholarlab/rv32sim/insts"
	"github.com/scholarlab/rv32sim/timing/latency"
)

var _ = Describe("Table", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	It("should give default latencies per instruction class", func() {
		add := decoder.Decode(0x002081B3)  // ADD x3, x1, x2
		addi := decoder.Decode(0x00A00093) // ADDI x1, x0, 10
		lui := decoder.Decode(0x123452B7)  // LUI x5, 0x12345
		beq := decoder.Decode(0x00208463)  // BEQ x1, x2, +8
		jal := decoder.Decode(0x008000EF)  // JAL x1, +8
		lw := decoder.Decode(0x0040A283)   // LW x5, 4(x1)
		sw := decoder.Decode(0x0050A223)   // SW x5, 4(x1)
		csr := decoder.Decode(0xB00022F3)  // CSRRS x5, 0xB00, x0

		Expect(table.GetLatency(add)).To(Equal(uint64(1)))
		Expect(table.GetLatency(addi)).To(Equal(uint64(1)))
		Expect(table.GetLatency(lui)).To(Equal(uint64(1)))
		Expect(table.GetLatency(beq)).To(Equal(uint64(1)))
		Expect(table.GetLatency(jal)).To(Equal(uint64(1)))
		Expect(table.GetLatency(lw)).To(Equal(uint64(2)))
		Expect(table.GetLatency(sw)).To(Equal(uint64(1)))
		Expect(table.GetLatency(csr)).To(Equal(uint64(1)))
	})

	It("should fall back to one cycle for nil and invalid instructions", func() {
		Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		Expect(table.GetLatency(decoder.Decode(0))).To(Equal(uint64(1)))
	})

	It("should honor a custom configuration", func() {
		config := latency.DefaultTimingConfig()
		config.LoadLatency = 5
		config.ALULatency = 3
		table = latency.NewTableWithConfig(config)

		Expect(table.GetLatency(decoder.Decode(0x0040A283))).To(Equal(uint64(5)))
		Expect(table.GetLatency(decoder.Decode(0x002081B3))).To(Equal(uint64(3)))
	})

	It("should classify memory and branch operations", func() {
		lw := decoder.Decode(0x0040A283)
		sw := decoder.Decode(0x0050A223)
		add := decoder.Decode(0x002081B3)
		beq := decoder.Decode(0x00208463)
		jalr := decoder.Decode(0x00008067)

		Expect(table.IsMemoryOp(lw)).To(BeTrue())
		Expect(table.IsMemoryOp(sw)).To(BeTrue())
		Expect(table.IsMemoryOp(add)).To(BeFalse())
		Expect(table.IsMemoryOp(nil)).To(BeFalse())

		Expect(table.IsBranchOp(beq)).To(BeTrue())
		Expect(table.IsBranchOp(jalr)).To(BeTrue())
		Expect(table.IsBranchOp(add)).To(BeFalse())
		Expect(table.IsBranchOp(nil)).To(BeFalse())
	})
})

var _ = Describe("TimingConfig", func() {
	It("should validate the defaults", func() {
		Expect(latency.DefaultTimingConfig().Validate()).To(Succeed())
	})

	It("should reject zero latencies", func() {
		config := latency.DefaultTimingConfig()
		config.LoadLatency = 0
		err := config.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("load_latency"))
	})

	It("should round-trip through a JSON file", func() {
		config := latency.DefaultTimingConfig()
		config.LoadLatency = 7
		config.JumpLatency = 3
		path := filepath.Join(GinkgoT().TempDir(), "timing.json")

		Expect(config.SaveConfig(path)).To(Succeed())
		loaded, err := latency.LoadConfig(path)

		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should keep defaults for fields absent from the file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "timing.json")
		Expect(os.WriteFile(path, []byte(`{"load_latency": 9}`), 0o644)).To(Succeed())

		loaded, err := latency.LoadConfig(path)

		Expect(err).ToNot(HaveOccurred())
		Expect(loaded.LoadLatency).To(Equal(uint64(9)))
		Expect(loaded.ALULatency).To(Equal(uint64(1)))
	})

	It("should fail on malformed JSON", func() {
		path := filepath.Join(GinkgoT().TempDir(), "timing.json")
		Expect(os.WriteFile(path, []byte("{"), 0o644)).To(Succeed())

		_, err := latency.LoadConfig(path)
		Expect(err).To(HaveOccurred())
	})

	It("should clone into an independent copy", func() {
		config := latency.DefaultTimingConfig()
		clone := config.Clone()
		clone.ALULatency = 42
		Expect(config.ALULatency).To(Equal(uint64(1)))
	})
})
