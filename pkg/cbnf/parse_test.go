package cbnf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHeader is a mutable description used to lay out header bytes in tests.
type testHeader struct {
	magic         string
	version       uint8
	flags         Flags
	layerCount    uint8
	layerSize     []uint16
	quant         []uint8
	activations   []Activation
	kingBuckets   []uint8
	outputBuckets uint8
	reserved      []byte
	nameLen       uint8
	name          []byte
}

func validTestHeader() testHeader {
	return testHeader{
		magic:         Magic,
		version:       SupportedVersion,
		flags:         FlagHorizontallyMirrored,
		layerCount:    2,
		layerSize:     []uint16{1536, 16},
		quant:         []uint8{255, 64},
		activations:   []Activation{ActivationScrelu, ActivationRelu},
		kingBuckets:   []uint8{0, 1, 2, 3},
		outputBuckets: 8,
		nameLen:       6,
		name:          []byte("viri41"),
	}
}

func (th testHeader) bytes() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[offMagic:offMagic+4], th.magic)
	buf[offVersion] = th.version
	byteOrder.PutUint16(buf[offFlags:], uint16(th.flags))
	buf[offLayerCount] = th.layerCount
	for i, s := range th.layerSize {
		byteOrder.PutUint16(buf[offLayerSize+2*i:], s)
	}
	copy(buf[offLayerQuantization:], th.quant)
	for i, a := range th.activations {
		buf[offActivations+i] = byte(a)
	}
	copy(buf[offInputKingBucketing:], th.kingBuckets)
	buf[offOutputBuckets] = th.outputBuckets
	copy(buf[offReserved:offReserved+reservedLen], th.reserved)
	buf[offNameLen] = th.nameLen
	copy(buf[offName:headerEnd], th.name)
	return buf
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
	assert.Equal(t, kind, pe.Kind, "error: %v", err)
	assert.ErrorIs(t, err, kind.Sentinel())
}

func TestParseValidHeader(t *testing.T) {
	t.Parallel()

	buf := validTestHeader().bytes()
	h, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, [4]byte{'C', 'B', 'N', 'F'}, h.Magic())
	assert.Equal(t, SupportedVersion, h.Version())
	assert.Equal(t, FlagHorizontallyMirrored, h.Flags())
	assert.Equal(t, uint8(2), h.LayerCount())
	assert.Equal(t, []uint16{1536, 16}, h.LayerSizes())
	assert.Equal(t, []byte{255, 64}, h.LayerQuantizations())
	assert.Equal(t, []Activation{ActivationScrelu, ActivationRelu}, h.Activations())
	assert.Equal(t, uint8(3), h.KingBucket(3))
	assert.Len(t, h.InputKingBucketing(), KingBucketCount)
	assert.Equal(t, uint8(8), h.OutputBuckets())
	assert.Equal(t, "viri41", h.Name())
	assert.Len(t, h.Bytes(), HeaderSize)
}

func TestParseLengthBoundary(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(make([]byte, HeaderSize-1), true)
	requireKind(t, err, KindTooShort)

	_, err = ParseHeader(nil, false)
	requireKind(t, err, KindTooShort)

	_, err = ParseHeader(make([]byte, HeaderSize), true)
	requireKind(t, err, KindBadMagic)

	// Truncating a valid header by one byte must still report the length first.
	_, err = ParseHeader(validTestHeader().bytes()[:HeaderSize-1], false)
	requireKind(t, err, KindTooShort)
}

func TestParseMagicExactness(t *testing.T) {
	t.Parallel()

	for i := 0; i < 4; i++ {
		buf := validTestHeader().bytes()
		buf[i] ^= 0x20
		_, err := ParseHeader(buf, false)
		requireKind(t, err, KindBadMagic)
	}

	// Correct magic with garbage everywhere else never reports BadMagic.
	buf := make([]byte, HeaderSize)
	for i := range buf {
		buf[i] = 0xA5
	}
	copy(buf, Magic)
	_, err := ParseHeader(buf, true)
	require.Error(t, err)
	assert.NotEqual(t, KindBadMagic, KindOf(err))
}

func TestParseVersionGate(t *testing.T) {
	t.Parallel()

	for _, v := range []uint8{0, 1, 3, 255} {
		th := validTestHeader()
		th.version = v
		_, err := ParseHeader(th.bytes(), true)
		requireKind(t, err, KindUnsupportedVersion)

		_, err = ParseHeader(th.bytes(), false)
		requireKind(t, err, KindUnsupportedVersion)
	}
}

func TestParseSkipValidation(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.layerCount = 0
	th.outputBuckets = 0
	th.flags = 0xFFFF
	th.nameLen = 200
	th.name = []byte("0123456789012345678901234567890123456789012345678")
	buf := th.bytes()

	h, err := ParseHeader(buf, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), h.LayerCount())
	assert.Empty(t, h.LayerSizes())
	assert.Len(t, h.Name(), MaxNameLen)

	_, err = ParseHeader(buf, true)
	requireKind(t, err, KindInvalidFlags)
}

func TestParseCheckOrder(t *testing.T) {
	t.Parallel()

	// Output buckets are checked before the layer count.
	th := validTestHeader()
	th.layerCount = 0
	th.outputBuckets = 0
	_, err := ParseHeader(th.bytes(), true)
	requireKind(t, err, KindInvalidOutputBuckets)

	// Flags are checked before output buckets.
	th.flags = 0x0010
	_, err = ParseHeader(th.bytes(), true)
	requireKind(t, err, KindInvalidFlags)

	// Layer sizes before the name.
	th = validTestHeader()
	th.layerSize = []uint16{1536, 0}
	th.nameLen = 0
	th.name = []byte("x")
	_, err = ParseHeader(th.bytes(), true)
	requireKind(t, err, KindInvalidLayerSize)
}

func TestParseLayerCount(t *testing.T) {
	t.Parallel()

	for _, n := range []uint8{0, MaxLayerCount + 1, 255} {
		th := validTestHeader()
		th.layerCount = n
		_, err := ParseHeader(th.bytes(), true)
		requireKind(t, err, KindInvalidLayerCount)
	}

	th := validTestHeader()
	th.layerCount = MaxLayerCount
	th.layerSize = make([]uint16, MaxLayerCount)
	for i := range th.layerSize {
		th.layerSize[i] = uint16(i + 1)
	}
	h, err := ParseHeader(th.bytes(), true)
	require.NoError(t, err)
	assert.Len(t, h.LayerSizes(), MaxLayerCount)
	assert.Equal(t, uint16(MaxLayerCount), h.LayerSize(MaxLayerCount-1))
}

func TestParseLayerSizeScanStopsAtLayerCount(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.layerCount = 2
	th.layerSize = make([]uint16, MaxLayerCount)
	th.layerSize[0] = 10
	th.layerSize[1] = 20
	for i := 2; i < MaxLayerCount; i++ {
		if i%3 != 0 {
			th.layerSize[i] = 0xBEEF
		}
	}

	h, err := ParseHeader(th.bytes(), true)
	require.NoError(t, err)
	assert.Equal(t, []uint16{10, 20}, h.LayerSizes())
}

func TestParseInvalidLayerSizeReportsIndex(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.layerCount = 4
	th.layerSize = []uint16{8, 8, 0, 0}
	_, err := ParseHeader(th.bytes(), true)
	requireKind(t, err, KindInvalidLayerSize)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Layer)
	assert.Contains(t, err.Error(), "layer 2")
}

func TestParseNameTermination(t *testing.T) {
	t.Parallel()

	long := []byte("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstu") // 47 bytes
	require.Len(t, long, MaxNameLen)

	th := validTestHeader()
	th.nameLen = 100
	th.name = long
	h, err := ParseHeader(th.bytes(), true)
	require.NoError(t, err)
	assert.Equal(t, string(long), h.Name())

	th.name = append(append([]byte{}, long...), 'v')
	_, err = ParseHeader(th.bytes(), true)
	requireKind(t, err, KindUnterminatedName)

	// nameLen shorter than the stored text: the terminator must sit at nameLen.
	th = validTestHeader()
	th.nameLen = 3
	th.name = []byte("viri41")
	_, err = ParseHeader(th.bytes(), true)
	requireKind(t, err, KindUnterminatedName)

	th.nameLen = 0
	th.name = nil
	h, err = ParseHeader(th.bytes(), true)
	require.NoError(t, err)
	assert.Equal(t, "", h.Name())
}

func TestParseFlagMask(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.flags = 0x0010
	_, err := ParseHeader(th.bytes(), true)
	requireKind(t, err, KindInvalidFlags)

	th.flags = 0x000F
	h, err := ParseHeader(th.bytes(), true)
	require.NoError(t, err)
	assert.Equal(t, Flags(0x000E), h.ArchFlags())
	assert.Equal(t, AllFlags, h.Flags())
}

func TestParseIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	buf := append(validTestHeader().bytes(), 0xDE, 0xAD, 0xBE, 0xEF)
	h1, err := Parse(buf)
	require.NoError(t, err)

	buf[HeaderSize] = 0
	h2, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, h1.Bytes(), h2.Bytes())
	assert.Len(t, h1.Bytes(), HeaderSize)
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	bad := validTestHeader()
	bad.outputBuckets = 0
	for _, buf := range [][]byte{validTestHeader().bytes(), bad.bytes(), make([]byte, 10)} {
		for _, validate := range []bool{true, false} {
			h1, err1 := ParseHeader(buf, validate)
			h2, err2 := ParseHeader(buf, validate)
			assert.Equal(t, err1, err2)
			if h1 != nil {
				require.NotNil(t, h2)
				assert.Equal(t, h1.Bytes(), h2.Bytes())
			}
		}
	}
}

func TestParseUnalignedBuffer(t *testing.T) {
	t.Parallel()

	backing := make([]byte, HeaderSize+1)
	copy(backing[1:], validTestHeader().bytes())
	h, err := Parse(backing[1:])
	require.NoError(t, err)
	assert.Equal(t, []uint16{1536, 16}, h.LayerSizes())
}

func TestParseErrorMessages(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(make([]byte, 12), true)
	assert.EqualError(t, err, "cbnf: data too short for header: got 12 bytes, need 256")

	th := validTestHeader()
	th.version = 3
	_, err = ParseHeader(th.bytes(), true)
	assert.EqualError(t, err, "cbnf: unsupported header version: got 3, want 2")

	assert.Equal(t, ErrorKind(0), KindOf(errors.New("other")))
	assert.Equal(t, "invalid_layer_size", KindInvalidLayerSize.String())
}
