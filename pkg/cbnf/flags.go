package cbnf

import (
	"fmt"
	"strings"
)

// Flags is the header feature bitset.
type Flags uint16

const (
	// FlagZstdCompressed marks a zstd-compressed payload. It affects storage
	// only, never the network architecture.
	FlagZstdCompressed Flags = 0x0001
	FlagRelative       Flags = 0x0002
	FlagHalf           Flags = 0x0004
	// FlagHorizontallyMirrored marks inputs mirrored on the king file.
	FlagHorizontallyMirrored Flags = 0x0008

	// ArchMask selects the flags that change how the network is evaluated.
	ArchMask = FlagRelative | FlagHalf | FlagHorizontallyMirrored

	// AllFlags is every flag defined by the supported header version.
	AllFlags = FlagZstdCompressed | ArchMask
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagZstdCompressed, "zstd"},
	{FlagRelative, "relative"},
	{FlagHalf, "half"},
	{FlagHorizontallyMirrored, "hm"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Undefined returns the bits of f that no defined flag covers.
func (f Flags) Undefined() Flags {
	return f &^ AllFlags
}

// Arch returns the architecture-relevant subset of f.
func (f Flags) Arch() Flags {
	return f & ArchMask
}

// Names lists the names of the defined flags set in f, in bit order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (f Flags) String() string {
	parts := f.Names()
	if rest := f.Undefined(); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", uint16(rest)))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
