package cbnf

import (
	"errors"
	"fmt"
)

var (
	ErrTooShort             = errors.New("cbnf: data too short for header")
	ErrBadMagic             = errors.New("cbnf: invalid magic")
	ErrUnsupportedVersion   = errors.New("cbnf: unsupported header version")
	ErrInvalidFlags         = errors.New("cbnf: undefined flags set")
	ErrInvalidOutputBuckets = errors.New("cbnf: output bucket count is zero")
	ErrInvalidLayerCount    = errors.New("cbnf: invalid hidden layer count")
	ErrInvalidLayerSize     = errors.New("cbnf: hidden layer size is zero")
	ErrUnterminatedName     = errors.New("cbnf: network name is not null-terminated")
)

// ErrorKind names the check a header failed.
type ErrorKind uint8

const (
	KindTooShort ErrorKind = iota + 1
	KindBadMagic
	KindUnsupportedVersion
	KindInvalidFlags
	KindInvalidOutputBuckets
	KindInvalidLayerCount
	KindInvalidLayerSize
	KindUnterminatedName
)

var kindInfo = map[ErrorKind]struct {
	name string
	err  error
}{
	KindTooShort:             {"too_short", ErrTooShort},
	KindBadMagic:             {"bad_magic", ErrBadMagic},
	KindUnsupportedVersion:   {"unsupported_version", ErrUnsupportedVersion},
	KindInvalidFlags:         {"invalid_flags", ErrInvalidFlags},
	KindInvalidOutputBuckets: {"invalid_output_buckets", ErrInvalidOutputBuckets},
	KindInvalidLayerCount:    {"invalid_layer_count", ErrInvalidLayerCount},
	KindInvalidLayerSize:     {"invalid_layer_size", ErrInvalidLayerSize},
	KindUnterminatedName:     {"unterminated_name", ErrUnterminatedName},
}

// String returns a stable snake_case identifier for k.
func (k ErrorKind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinel returns the package error value matching k.
func (k ErrorKind) Sentinel() error {
	return kindInfo[k].err
}

// ParseError describes why a buffer is not an acceptable header.
// It unwraps to one of the Err* sentinels.
type ParseError struct {
	Kind ErrorKind

	// Layer is the offending layer index for KindInvalidLayerSize, -1 otherwise.
	Layer int

	// Value is the field value that failed the check, when there is a single one.
	Value uint64
}

func (e *ParseError) Error() string {
	base := e.Kind.Sentinel()
	if base == nil {
		return "cbnf: " + e.Kind.String()
	}
	switch e.Kind {
	case KindTooShort:
		return fmt.Sprintf("%v: got %d bytes, need %d", base, e.Value, HeaderSize)
	case KindUnsupportedVersion:
		return fmt.Sprintf("%v: got %d, want %d", base, e.Value, SupportedVersion)
	case KindInvalidFlags:
		return fmt.Sprintf("%v: 0x%04x", base, e.Value)
	case KindInvalidLayerCount:
		return fmt.Sprintf("%v: %d not in 1..%d", base, e.Value, MaxLayerCount)
	case KindInvalidLayerSize:
		return fmt.Sprintf("%v: layer %d", base, e.Layer)
	default:
		return base.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Kind.Sentinel()
}

func newParseError(kind ErrorKind, value uint64) *ParseError {
	return &ParseError{Kind: kind, Layer: -1, Value: value}
}

// KindOf returns the ErrorKind carried by err, or 0 if err did not come from
// header parsing.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
