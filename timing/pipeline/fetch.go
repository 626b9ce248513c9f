package pipeline

import (
	"github.com/scholarlab/rv32sim/emu"
	"github.com/scholarlab/rv32sim/timing/cache"
)

// FetchStage is the upstream producer: it supplies {pc, instruction}
// pairs and honors the stage register's ready signal as backpressure. An
// optional instruction cache adds miss latency, during which the produced
// payload is not yet valid.
type FetchStage struct {
	memory *emu.Memory
	icache *cache.Cache
}

// NewFetchStage creates a fetch stage reading directly from memory.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// SetICache routes fetches through an instruction cache.
func (s *FetchStage) SetICache(icache *cache.Cache) {
	s.icache = icache
}

// ICache returns the instruction cache, or nil when fetch reads memory
// directly.
func (s *FetchStage) ICache() *cache.Cache {
	return s.icache
}

// Fetch reads the instruction word at pc and returns it together with the
// fetch latency in cycles.
func (s *FetchStage) Fetch(pc uint32) (uint32, uint64) {
	if s.icache != nil {
		result := s.icache.Fetch(pc)
		return result.Word, result.Latency
	}
	return s.memory.Read32(pc), 1
}
