// Package main provides the entry point for rv32sim.
// rv32sim is a cycle-level simulator of a single-issue, in-order RV32I
// softcore pipeline.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I softcore pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program.bin|program.hex>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to timing configuration JSON file")
	fmt.Println("  -icache      Route fetches through an L1 instruction cache")
	fmt.Println("  -max-cycles  Stop after this many cycles")
	fmt.Println("  -entry       Program entry address")
	fmt.Println("  -dump        Dump register file after the run")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
