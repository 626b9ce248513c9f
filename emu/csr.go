package emu

// CSR addresses implemented by the core's performance counters.
const (
	// CSRMCycle counts elapsed cycles (mhpmcounter0 alias).
	CSRMCycle uint16 = 0xB00
	// CSRStallCount counts cycles the decode stage spent stalled.
	CSRStallCount uint16 = 0xB03
	// CSRTakenBranches counts taken branches.
	CSRTakenBranches uint16 = 0xB04
)

// CSRFile holds the core's control and status registers. Only the three
// hardware performance counters are implemented; every other address reads
// as zero. Reads complete within the current cycle and never participate
// in the register dependency scoreboard — a CSR is never dirty.
//
// The write path is owned by the core's counter increments; there is no
// instruction-driven CSR write.
type CSRFile struct {
	mcycle        uint32
	stalls        uint32
	takenBranches uint32
}

// NewCSRFile creates a CSR file with all counters at zero.
func NewCSRFile() *CSRFile {
	return &CSRFile{}
}

// Read returns the value of the CSR at the given address. Unimplemented
// addresses read as zero.
func (c *CSRFile) Read(addr uint16) uint32 {
	switch addr {
	case CSRMCycle:
		return c.mcycle
	case CSRStallCount:
		return c.stalls
	case CSRTakenBranches:
		return c.takenBranches
	default:
		return 0
	}
}

// IncrementCycle advances the cycle counter. Counters wrap at 32 bits like
// the hardware's.
func (c *CSRFile) IncrementCycle() {
	c.mcycle++
}

// IncrementStall advances the stall-cycle counter.
func (c *CSRFile) IncrementStall() {
	c.stalls++
}

// IncrementTakenBranch advances the taken-branch counter.
func (c *CSRFile) IncrementTakenBranch() {
	c.takenBranches++
}

// Reset clears all counters.
func (c *CSRFile) Reset() {
	*c = CSRFile{}
}
