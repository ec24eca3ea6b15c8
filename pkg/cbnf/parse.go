package cbnf

// Parse parses and validates the header at the start of data.
func Parse(data []byte) (*Header, error) {
	return ParseHeader(data, true)
}

// ParseHeader parses the CBNF header at the start of data.
//
// The length, magic and version are always checked. When validate is true the
// header must also satisfy, in this order:
//   - no undefined flags are set
//   - the number of output buckets is not 0
//   - the number of hidden layers is between 1 and MaxLayerCount
//   - none of the first LayerCount hidden layer sizes are 0
//   - the network name is null-terminated within its truncated length
//
// The first failing check is returned as a *ParseError. Bytes past HeaderSize
// are never read. The returned Header aliases data.
func ParseHeader(data []byte, validate bool) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, newParseError(KindTooShort, uint64(len(data)))
	}

	h := &Header{raw: data[:HeaderSize:HeaderSize]}

	if string(h.raw[offMagic:offMagic+4]) != Magic {
		return nil, newParseError(KindBadMagic, 0)
	}

	if v := h.Version(); v != SupportedVersion {
		return nil, newParseError(KindUnsupportedVersion, uint64(v))
	}

	if !validate {
		return h, nil
	}

	if f := h.Flags(); f.Undefined() != 0 {
		return nil, newParseError(KindInvalidFlags, uint64(f))
	}

	if h.OutputBuckets() == 0 {
		return nil, newParseError(KindInvalidOutputBuckets, 0)
	}

	layerCount := h.LayerCount()
	if layerCount == 0 || layerCount > MaxLayerCount {
		return nil, newParseError(KindInvalidLayerCount, uint64(layerCount))
	}

	for layer := 0; layer < int(layerCount); layer++ {
		if h.LayerSize(layer) == 0 {
			return nil, &ParseError{Kind: KindInvalidLayerSize, Layer: layer}
		}
	}

	nameLen := min(int(h.NameLen()), MaxNameLen)
	if h.raw[offName+nameLen] != 0 {
		return nil, newParseError(KindUnterminatedName, uint64(h.NameLen()))
	}

	return h, nil
}
