// Package cache provides an instruction cache model built on Akita cache
// components. The cache sits between the fetch stage and instruction
// memory; a miss raises the fetch latency, which the pipeline turns into
// deasserted fetch-valid cycles.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds instruction cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes the instruction memory access)
	MissLatency uint64
}

// DefaultICacheConfig returns the default instruction cache configuration:
// a small direct-fill cache sized for a softcore frontend.
func DefaultICacheConfig() Config {
	return Config{
		Size:          4 * 1024, // 4KB
		Associativity: 2,        // 2-way
		BlockSize:     16,       // 16B line (4 instructions)
		HitLatency:    1,
		MissLatency:   8,
	}
}

// FetchResult contains the result of an instruction fetch.
type FetchResult struct {
	// Hit indicates whether the fetch was a cache hit.
	Hit bool
	// Latency is the number of cycles this fetch takes.
	Latency uint64
	// Word is the fetched instruction word.
	Word uint32
}

// BackingStore is the next level of the instruction memory hierarchy.
type BackingStore interface {
	// Read fetches a block of instruction bytes.
	Read(addr uint32, size int) []byte
}

// Cache is an instruction cache. Lines are read-only: there is no write
// port, no dirty state and no writeback.
type Cache struct {
	config Config

	// Akita cache directory for tag/state and LRU victim selection.
	directory *akitacache.DirectoryImpl

	// Line storage, indexed by (setID * associativity + wayID).
	lines [][]byte

	backing BackingStore

	stats Statistics
}

// Statistics holds instruction cache performance statistics.
type Statistics struct {
	Fetches uint64
	Hits    uint64
	Misses  uint64
	Fills   uint64
}

// New creates an instruction cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	lines := make([][]byte, totalBlocks)
	for i := range lines {
		lines[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		lines:   lines,
		backing: backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// lineIndex computes the index into the line storage for a block.
func (c *Cache) lineIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Fetch reads the instruction word at addr, filling the line from the
// backing store on a miss.
func (c *Cache) Fetch(addr uint32) FetchResult {
	c.stats.Fetches++

	blockAddr := uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		return FetchResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Word:    c.wordAt(c.lines[c.lineIndex(block)], addr),
		}
	}

	c.stats.Misses++
	return c.fill(addr, blockAddr)
}

// fill handles a miss by fetching the line from the backing store.
func (c *Cache) fill(addr uint32, blockAddr uint64) FetchResult {
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		// Degenerate configuration; fall through to the backing store.
		data := c.backing.Read(uint32(blockAddr), c.config.BlockSize)
		return FetchResult{
			Latency: c.config.MissLatency,
			Word:    c.wordAt(data, addr),
		}
	}

	line := c.lines[c.lineIndex(victim)]
	copy(line, c.backing.Read(uint32(blockAddr), c.config.BlockSize))
	c.stats.Fills++

	// Lines are never dirty, so eviction needs no writeback.
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return FetchResult{
		Latency: c.config.MissLatency,
		Word:    c.wordAt(line, addr),
	}
}

// wordAt extracts the little-endian 32-bit word at addr from a line.
func (c *Cache) wordAt(line []byte, addr uint32) uint32 {
	offset := int(addr) % c.config.BlockSize
	if line == nil || offset+4 > len(line) {
		return 0
	}

	var word uint32
	for i := 0; i < 4; i++ {
		word |= uint32(line[offset+i]) << (i * 8)
	}
	return word
}

// Invalidate marks the line containing addr as invalid.
func (c *Cache) Invalidate(addr uint32) {
	blockAddr := uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
