// Package loader provides program image loading for the RV32I core.
//
// Two firmware image formats are supported: raw little-endian binaries and
// ASCII hex images (one 32-bit word per line, the format produced by the
// usual makehex-style tooling).
package loader

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Program represents a loaded program image ready for execution.
type Program struct {
	// Entry is the address where execution should begin.
	Entry uint32
	// Words contains the image as 32-bit instruction/data words.
	Words []uint32
}

// Load reads a program image, dispatching on the file extension: ".hex"
// images are parsed as ASCII hex, everything else as raw little-endian
// binary.
func Load(path string) (*Program, error) {
	if strings.EqualFold(filepath.Ext(path), ".hex") {
		return LoadHex(path)
	}
	return LoadBinary(path)
}

// LoadBinary reads a raw little-endian binary image. The image length must
// be a multiple of 4 bytes.
func LoadBinary(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loader: reading binary image")
	}
	if len(data)%4 != 0 {
		return nil, errors.Errorf(
			"loader: image size %d is not a multiple of 4", len(data))
	}

	words := make([]uint32, 0, len(data)/4)
	buf := bytes.NewReader(data)
	for {
		var w uint32
		err := binary.Read(buf, binary.LittleEndian, &w)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "loader: decoding binary image")
		}
		words = append(words, w)
	}

	return &Program{Words: words}, nil
}

// LoadHex reads an ASCII hex image: one 32-bit word in hexadecimal per
// line. Blank lines and "//" comments are skipped.
func LoadHex(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loader: reading hex image")
	}

	var words []uint32
	for n, line := range strings.Split(string(data), "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "loader: hex image line %d", n+1)
		}
		words = append(words, uint32(w))
	}

	return &Program{Words: words}, nil
}

// Size returns the image size in bytes.
func (p *Program) Size() uint32 {
	return uint32(len(p.Words)) * 4
}

// LoadInto writes the image into memory starting at base.
func (p *Program) LoadInto(mem wordWriter, base uint32) {
	for i, w := range p.Words {
		mem.Write32(base+uint32(i)*4, w)
	}
}

// wordWriter is the memory surface the loader needs.
type wordWriter interface {
	Write32(addr uint32, value uint32)
}
