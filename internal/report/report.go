// Package report renders parsed CBNF headers for people and tools.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/cosmobobak/cbnf/pkg/cbnf"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Layer is one hidden layer of a header.
type Layer struct {
	Index        int    `json:"index" yaml:"index"`
	Size         uint16 `json:"size" yaml:"size"`
	Quantization uint8  `json:"quantization" yaml:"quantization"`
	Activation   string `json:"activation" yaml:"activation"`
}

// Summary is a detached copy of every header field. Unlike cbnf.Header it
// does not alias the source buffer.
type Summary struct {
	Version            uint8    `json:"version" yaml:"version"`
	Flags              uint16   `json:"flags" yaml:"flags"`
	FlagNames          []string `json:"flag_names" yaml:"flag_names"`
	ArchFlags          uint16   `json:"arch_flags" yaml:"arch_flags"`
	LayerCount         uint8    `json:"layer_count" yaml:"layer_count"`
	Layers             []Layer  `json:"layers" yaml:"layers"`
	InputKingBucketing []int    `json:"input_king_bucketing" yaml:"input_king_bucketing,flow"`
	OutputBuckets      uint8    `json:"output_buckets" yaml:"output_buckets"`
	NameLen            uint8    `json:"name_len" yaml:"name_len"`
	Name               string   `json:"name" yaml:"name"`
	NameValidUTF8      bool     `json:"name_valid_utf8" yaml:"name_valid_utf8"`
}

// Summarize copies h into a Summary.
func Summarize(h *cbnf.Header) Summary {
	sizes := h.LayerSizes()
	quants := h.LayerQuantizations()
	acts := h.Activations()

	layers := make([]Layer, len(sizes))
	for i := range sizes {
		layers[i] = Layer{
			Index:        i,
			Size:         sizes[i],
			Quantization: quants[i],
			Activation:   acts[i].String(),
		}
	}

	_, nameErr := h.NameUTF8()
	flagNames := h.Flags().Names()
	if flagNames == nil {
		flagNames = []string{}
	}

	return Summary{
		Version:            h.Version(),
		Flags:              uint16(h.Flags()),
		FlagNames:          flagNames,
		ArchFlags:          uint16(h.ArchFlags()),
		LayerCount:         h.LayerCount(),
		Layers:             layers,
		InputKingBucketing: kingBuckets(h),
		OutputBuckets:      h.OutputBuckets(),
		NameLen:            h.NameLen(),
		Name:               h.Name(),
		NameValidUTF8:      nameErr == nil,
	}
}

// kingBuckets widens the table so encoders emit numbers rather than a byte
// string.
func kingBuckets(h *cbnf.Header) []int {
	table := h.InputKingBucketing()
	out := make([]int, len(table))
	for i, v := range table {
		out[i] = int(v)
	}
	return out
}

// Options tweak text output.
type Options struct {
	KingBuckets bool
}

// Write renders s to w in the requested format.
func Write(w io.Writer, s Summary, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(s, opts))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text formats s as an aligned human-readable block.
func Text(s Summary, opts Options) string {
	var b strings.Builder

	name := s.Name
	if !s.NameValidUTF8 {
		name = fmt.Sprintf("%q", s.Name)
	}
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Fprintf(&b, "Name:           %s\n", name)
	fmt.Fprintf(&b, "Version:        %d\n", s.Version)
	fmt.Fprintf(&b, "Flags:          0x%04x (%s)\n", s.Flags, cbnf.Flags(s.Flags))
	fmt.Fprintf(&b, "Arch flags:     0x%04x\n", s.ArchFlags)
	fmt.Fprintf(&b, "Output buckets: %d\n", s.OutputBuckets)
	fmt.Fprintf(&b, "Hidden layers:  %d\n", s.LayerCount)

	if len(s.Layers) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %-5s  %-6s  %-5s  %s\n", "LAYER", "SIZE", "QUANT", "ACTIVATION")
		for _, l := range s.Layers {
			fmt.Fprintf(&b, "  %-5d  %-6d  %-5d  %s\n", l.Index, l.Size, l.Quantization, l.Activation)
		}
	}

	if opts.KingBuckets {
		b.WriteString("\nInput king bucketing (a1..h8, rank 8 first):\n")
		b.WriteString(kingBucketBoard(s.InputKingBucketing))
	}

	return b.String()
}

// kingBucketBoard lays out the 64-entry table as an 8x8 board with rank 8 on
// top, square index = rank*8 + file.
func kingBucketBoard(table []int) string {
	if len(table) != cbnf.KingBucketCount {
		return ""
	}
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&b, "  %d ", rank+1)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&b, " %3d", table[rank*8+file])
		}
		b.WriteString("\n")
	}
	b.WriteString("     ")
	for file := 0; file < 8; file++ {
		fmt.Fprintf(&b, "   %c", 'a'+file)
	}
	b.WriteString("\n")
	return b.String()
}
