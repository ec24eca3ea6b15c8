package cbnf

import (
	"errors"
	"unicode/utf8"
)

var ErrInvalidNameEncoding = errors.New("cbnf: network name is not valid UTF-8")

// Header is a read-only view over the first HeaderSize bytes of a buffer.
//
// A Header borrows the buffer it was parsed from. It is only meaningful while
// that buffer stays alive and unmodified; slices returned by its accessors
// alias the same memory and must be treated as read-only.
type Header struct {
	raw []byte
}

// Bytes returns the raw header bytes.
func (h *Header) Bytes() []byte {
	return h.raw[:HeaderSize:HeaderSize]
}

func (h *Header) Magic() [4]byte {
	return [4]byte(h.raw[offMagic : offMagic+4])
}

func (h *Header) Version() uint8 {
	return h.raw[offVersion]
}

func (h *Header) Flags() Flags {
	return Flags(byteOrder.Uint16(h.raw[offFlags:]))
}

// ArchFlags returns the flags relevant to the network architecture, i.e.
// everything but FlagZstdCompressed.
func (h *Header) ArchFlags() Flags {
	return h.Flags().Arch()
}

// LayerCount returns the stored hidden layer count. On headers parsed without
// validation it may be zero or exceed MaxLayerCount.
func (h *Header) LayerCount() uint8 {
	return h.raw[offLayerCount]
}

// layers is LayerCount clamped to the array capacity.
func (h *Header) layers() int {
	return min(int(h.LayerCount()), MaxLayerCount)
}

// LayerSize returns the neuron count of layer i. i must be below MaxLayerCount.
func (h *Header) LayerSize(i int) uint16 {
	if i < 0 || i >= MaxLayerCount {
		panic("cbnf: layer index out of range")
	}
	return byteOrder.Uint16(h.raw[offLayerSize+2*i:])
}

// LayerSizes decodes the sizes of the first LayerCount layers.
func (h *Header) LayerSizes() []uint16 {
	out := make([]uint16, h.layers())
	for i := range out {
		out[i] = h.LayerSize(i)
	}
	return out
}

// LayerQuantization returns the quantization identifier of layer i.
func (h *Header) LayerQuantization(i int) uint8 {
	return h.LayerQuantizations()[i]
}

// LayerQuantizations returns the quantization identifiers of the first
// LayerCount layers.
func (h *Header) LayerQuantizations() []byte {
	end := offLayerQuantization + h.layers()
	return h.raw[offLayerQuantization:end:end]
}

// Activation returns the activation function of layer i. The value is not
// guaranteed to be a defined Activation.
func (h *Header) Activation(i int) Activation {
	if i < 0 || i >= MaxLayerCount {
		panic("cbnf: layer index out of range")
	}
	return Activation(h.raw[offActivations+i])
}

// Activations decodes the activations of the first LayerCount layers.
func (h *Header) Activations() []Activation {
	out := make([]Activation, h.layers())
	for i := range out {
		out[i] = h.Activation(i)
	}
	return out
}

// InputKingBucketing returns the full king bucket table.
func (h *Header) InputKingBucketing() []byte {
	const end = offInputKingBucketing + KingBucketCount
	return h.raw[offInputKingBucketing:end:end]
}

// KingBucket returns the bucket assigned to king square sq (0..63).
func (h *Header) KingBucket(sq int) uint8 {
	return h.InputKingBucketing()[sq]
}

func (h *Header) OutputBuckets() uint8 {
	return h.raw[offOutputBuckets]
}

// Reserved returns the unused reserved bytes.
func (h *Header) Reserved() []byte {
	const end = offReserved + reservedLen
	return h.raw[offReserved:end:end]
}

// NameLen returns the declared name length, which may exceed MaxNameLen.
func (h *Header) NameLen() uint8 {
	return h.raw[offNameLen]
}

// RawName returns the whole fixed-capacity name buffer.
func (h *Header) RawName() []byte {
	return h.raw[offName:headerEnd:headerEnd]
}

func (h *Header) nameBytes() []byte {
	n := min(int(h.NameLen()), MaxNameLen)
	return h.raw[offName : offName+n]
}

// Name returns the network name, truncated to MaxNameLen bytes. The bytes are
// returned as-is; use NameUTF8 for a checked decode.
func (h *Header) Name() string {
	return string(h.nameBytes())
}

// NameUTF8 returns the network name if it is valid UTF-8.
func (h *Header) NameUTF8() (string, error) {
	b := h.nameBytes()
	if !utf8.Valid(b) {
		return "", ErrInvalidNameEncoding
	}
	return string(b), nil
}
