package pipeline

import (
	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/timing/cache"
	"github.com/scholarlab/rv32sim/timing/latency"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions completed (retired).
	Instructions uint64
	// Stalls is the number of cycles decode held a valid instruction
	// without issuing it.
	Stalls uint64
	// DataHazards is the number of stall cycles caused by a dirty
	// source or destination register.
	DataHazards uint64
	// Flushes is the number of pipeline flushes (taken branches and
	// jumps discarding the fetched wrong-path instruction).
	Flushes uint64
	// TakenBranches is the number of taken conditional branches.
	TakenBranches uint64
	// FetchWaits is the number of cycles fetch spent waiting on the
	// instruction memory (I-cache misses).
	FetchWaits uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Option is a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithLatencyTable sets a custom latency table for instruction timing.
func WithLatencyTable(table *latency.Table) Option {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithICache routes instruction fetches through an L1 instruction cache
// with the given configuration.
func WithICache(config cache.Config) Option {
	return func(p *Pipeline) {
		backing := cache.NewMemoryBacking(p.memory)
		p.fetchStage.SetICache(cache.New(config, backing))
	}
}

// WithCSRFile sets a shared CSR file. By default the pipeline owns one.
func WithCSRFile(csrs *emu.CSRFile) Option {
	return func(p *Pipeline) {
		p.csrs = csrs
	}
}

// Pipeline composes the decode core: the fetch producer, the IF/ID stage
// register, the decode/hazard unit, the ID/EX stage register, and the
// execute collaborator. One Tick is one cycle of the single global clock;
// every stored element advances in lock-step and stalls are expressed only
// by stage registers holding their values.
type Pipeline struct {
	ifid IFIDRegister
	idex IDEXRegister

	fetchStage   *FetchStage
	decodeStage  *DecodeStage
	executeStage *ExecuteStage
	hazardUnit   *HazardUnit

	latencyTable *latency.Table

	// Shared resources.
	regFile *emu.RegFile
	memory  *emu.Memory
	csrs    *emu.CSRFile

	// In-flight fetch (I-cache miss wait).
	fetchBusy bool
	fetchWait uint64
	fetchPC   uint32
	fetchWord uint32

	startPC uint32

	stats Statistics

	halted   bool
	trapped  bool
	exitCode int64
}

// NewPipeline creates a new decode-core pipeline.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetchStage:   NewFetchStage(memory),
		hazardUnit:   NewHazardUnit(),
		regFile:      regFile,
		memory:       memory,
		latencyTable: latency.NewTable(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.csrs == nil {
		p.csrs = emu.NewCSRFile()
	}
	p.decodeStage = NewDecodeStage(regFile, p.csrs)
	p.executeStage = NewExecuteStage(regFile, memory)

	return p
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.regFile.PC()
}

// SetPC sets the program counter (reset path).
func (p *Pipeline) SetPC(pc uint32) {
	p.startPC = pc
	p.regFile.SetPC(pc)
}

// GetIFID returns the IF/ID pipeline register.
func (p *Pipeline) GetIFID() *IFIDRegister {
	return &p.ifid
}

// GetIDEX returns the ID/EX pipeline register.
func (p *Pipeline) GetIDEX() *IDEXRegister {
	return &p.idex
}

// CSRs returns the CSR file.
func (p *Pipeline) CSRs() *emu.CSRFile {
	return p.csrs
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true if the pipeline has halted.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Trapped returns true if the halt was caused by an illegal instruction.
func (p *Pipeline) Trapped() bool {
	return p.trapped
}

// ExitCode returns the exit code if the pipeline has halted.
func (p *Pipeline) ExitCode() int64 {
	return p.exitCode
}

// Run executes the pipeline until it halts. Returns the exit code.
func (p *Pipeline) Run() int64 {
	for !p.halted {
		p.Tick()
	}
	return p.exitCode
}

// RunCycles executes the pipeline for the specified number of cycles.
// Returns true if still running, false if halted.
func (p *Pipeline) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !p.halted; i++ {
		p.Tick()
	}
	return !p.halted
}

// Reset clears all pipeline state. The register file keeps its documented
// partial-reset semantics: only x0 and the PC are forced.
func (p *Pipeline) Reset() {
	p.ifid.Clear()
	p.idex.Clear()
	p.fetchBusy = false
	p.fetchWait = 0
	p.regFile.Reset(p.startPC)
	p.csrs.Reset()
	if icache := p.fetchStage.ICache(); icache != nil {
		icache.Reset()
	}
	p.stats = Statistics{}
	p.halted = false
	p.trapped = false
	p.exitCode = 0
}

// Tick executes one cycle.
//
// Evaluation order within a cycle:
//
//  1. Register-file Sync: the clock edge. Last cycle's staged write
//     commits and its dirty bit clears, so reads below observe
//     start-of-cycle state — a committed write becomes readable exactly
//     one cycle after it was requested, never sooner.
//  2. Execute: the downstream collaborator advances; on completion it
//     stages the register write and resolves redirection.
//  3. Decode: readiness is recomputed from the current scoreboard and
//     downstream readiness; the instruction issues, or the IF/ID register
//     holds it for re-evaluation next cycle.
//  4. Fetch: captures a new transfer record when IF/ID is ready, and
//     stages the next PC (the same value again while stalled).
//
// Decode runs before fetch so a word captured this cycle is decoded the
// next, giving the stage register its one-cycle latch semantics.
func (p *Pipeline) Tick() {
	if p.halted {
		return
	}

	p.stats.Cycles++
	p.csrs.IncrementCycle()

	p.regFile.Sync()

	result := p.executeStage.Step(&p.idex)
	if result.Completed {
		p.stats.Instructions++
	}
	if result.TakenBranch {
		p.stats.TakenBranches++
		p.csrs.IncrementTakenBranch()
	}
	if result.Halted {
		p.halted = true
		p.trapped = result.Trapped
		p.exitCode = result.ExitCode
		return
	}

	if !result.Redirect {
		p.decode()
	}

	p.fetch(result)
}

// decode evaluates the latched transfer record and issues it downstream
// when every required register is clean and execute is ready.
func (p *Pipeline) decode() {
	if !p.ifid.Valid {
		return
	}

	op := p.decodeStage.Decode(p.ifid.PC, p.ifid.InstructionWord)
	operandsReady := p.hazardUnit.OperandsReady(p.regFile, op.Inst)
	downstreamReady := p.executeStage.Ready(&p.idex)

	if !operandsReady || !downstreamReady {
		// ready=0 upstream, valid=0 downstream: the record stays
		// latched and is re-evaluated next cycle.
		p.stats.Stalls++
		p.csrs.IncrementStall()
		if !operandsReady {
			p.stats.DataHazards++
		}
		return
	}

	p.idex.Capture(true, true, op, p.latencyTable.GetLatency(op.Inst))
	if op.WB.RegWrite {
		p.regFile.MarkPending(op.Rd)
	}
	p.ifid.Clear()
}

// fetch produces the next transfer record and stages the next PC value.
func (p *Pipeline) fetch(result ExecResult) {
	if result.Redirect {
		// Discard the wrong-path instruction and any in-flight fetch.
		if p.ifid.Valid || p.fetchBusy {
			p.stats.Flushes++
		}
		p.ifid.Clear()
		p.fetchBusy = false
		p.fetchWait = 0
		p.regFile.AdvancePC(result.Target)
		return
	}

	pc := p.regFile.PC()

	if p.fetchBusy {
		p.stats.FetchWaits++
		p.fetchWait--
		if p.fetchWait == 0 {
			p.fetchBusy = false
			p.ifid.Capture(true, true, p.fetchPC, p.fetchWord)
			p.regFile.AdvancePC(p.fetchPC + 4)
			return
		}
		p.regFile.AdvancePC(pc)
		return
	}

	if p.ifid.Valid {
		// Backpressure: decode is still holding the latched record.
		p.regFile.AdvancePC(pc)
		return
	}

	word, fetchLatency := p.fetchStage.Fetch(pc)
	if fetchLatency <= 1 {
		p.ifid.Capture(true, true, pc, word)
		p.regFile.AdvancePC(pc + 4)
		return
	}

	// Miss: the payload becomes valid once the latency elapses; until
	// then fetch holds the PC.
	p.fetchBusy = true
	p.fetchWait = fetchLatency - 1
	p.fetchPC = pc
	p.fetchWord = word
	p.regFile.AdvancePC(pc)
}
