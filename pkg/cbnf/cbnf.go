// Package cbnf implements the CBNF network header format.
//
// A CBNF file starts with a fixed 256-byte header describing a quantized
// evaluation network (layer sizes, quantization, activations, king bucketing
// and a short name). The header is followed by the weight payload, which this
// package never interprets.
//
// Multi-byte fields are stored in the byte order of the machine that produced
// the file and are read here in host byte order.
package cbnf

import "encoding/binary"

// CBNF global constants must never change.
const (
	// Magic is the file magic for all CBNF networks.
	Magic = "CBNF"

	// SupportedVersion is the only header revision this package accepts.
	SupportedVersion uint8 = 2

	// HeaderSize is the exact on-disk size of a header.
	HeaderSize = 256

	// MaxLayerCount is the capacity of the per-layer arrays.
	MaxLayerCount = 32

	// KingBucketCount is the number of entries in the input king bucketing table.
	KingBucketCount = 64

	// MaxNameLen is the number of usable name bytes; the 48th byte is reserved
	// for the terminator.
	MaxNameLen = 47

	nameCap     = 48
	reservedLen = 6
)

// Field offsets within the header.
const (
	offMagic              = 0
	offVersion            = 4
	offFlags              = 5
	offLayerCount         = 7
	offLayerSize          = 8
	offLayerQuantization  = offLayerSize + 2*MaxLayerCount
	offActivations        = offLayerQuantization + MaxLayerCount
	offInputKingBucketing = offActivations + MaxLayerCount
	offOutputBuckets      = offInputKingBucketing + KingBucketCount
	offReserved           = offOutputBuckets + 1
	offNameLen            = offReserved + reservedLen
	offName               = offNameLen + 1
	headerEnd             = offName + nameCap
)

// The layout must add up to exactly HeaderSize bytes.
var _ = [1]struct{}{}[headerEnd-HeaderSize]

// byteOrder is the order multi-byte fields are decoded in.
var byteOrder binary.ByteOrder = binary.NativeEndian
