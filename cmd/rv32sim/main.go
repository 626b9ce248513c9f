// Package main provides the entry point for rv32sim.
// rv32sim is a cycle-level RV32I softcore pipeline simulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/insts"
	"github.com/scholarlab/rv32sim/loader"
	"github.com/scholarlab/rv32sim/timing/cache"
	"github.com/scholarlab/rv32sim/timing/core"
	"github.com/scholarlab/rv32sim/timing/latency"
	"github.com/scholarlab/rv32sim/timing/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	useICache  = flag.Bool("icache", false, "Route fetches through an L1 instruction cache")
	maxCycles  = flag.Uint64("max-cycles", 2000000, "Stop after this many cycles")
	entry      = flag.Uint64("entry", 0, "Program entry address")
	dumpRegs   = flag.Bool("dump", false, "Dump register file after the run")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program.bin|program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Image size: %d bytes\n", prog.Size())
		fmt.Printf("Entry point: 0x%X\n", uint32(*entry))
	}

	memory := emu.NewMemory()
	prog.LoadInto(memory, uint32(*entry))

	var opts []pipeline.Option
	if *configPath != "" {
		config, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := config.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithLatencyTable(latency.NewTableWithConfig(config)))
	}
	if *useICache {
		opts = append(opts, pipeline.WithICache(cache.DefaultICacheConfig()))
	}

	regFile := emu.NewRegFile(uint32(*entry))
	c := core.NewCore(regFile, memory, opts...)
	c.SetPC(uint32(*entry))

	running := c.RunCycles(*maxCycles)
	if running {
		fmt.Fprintf(os.Stderr, "Cycle limit reached after %d cycles\n", *maxCycles)
	}

	stats := c.Stats()
	if *verbose {
		fmt.Printf("\nCycles:         %d\n", stats.Cycles)
		fmt.Printf("Instructions:   %d\n", stats.Instructions)
		fmt.Printf("Stall cycles:   %d\n", stats.Stalls)
		fmt.Printf("Flushes:        %d\n", stats.Flushes)
		fmt.Printf("Taken branches: %d\n", stats.TakenBranches)
		if stats.Instructions > 0 {
			fmt.Printf("CPI:            %.2f\n",
				float64(stats.Cycles)/float64(stats.Instructions))
		}
	}

	if *dumpRegs {
		dumpRegisters(regFile)
	}

	if c.Halted() {
		os.Exit(int(c.ExitCode()))
	}
	os.Exit(1)
}

// dumpRegisters prints the register file, the test-only debug channel.
func dumpRegisters(regFile *emu.RegFile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "pc\t\t0x%08X\n", regFile.PC())
	for i, value := range regFile.Registers() {
		fmt.Fprintf(w, "x%d\t%s\t0x%08X\n", i, insts.RegName(uint8(i)), value)
	}
	w.Flush()
}
