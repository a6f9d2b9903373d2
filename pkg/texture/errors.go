package texture

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a format the dispatcher does not know.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrTruncatedInput is returned when the source is shorter than one block or texel.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrMalformedBlockMode reports BC6H/BC7 blocks using a reserved mode.
	// Decoding continues past such blocks; the error only surfaces with WithStrictModes.
	ErrMalformedBlockMode = errors.New("malformed block mode")
	// ErrInvalidSurface is returned for a nil, empty or undersized destination.
	ErrInvalidSurface = errors.New("invalid surface")
	// ErrInvalidFlags is returned for contradictory decode flags.
	ErrInvalidFlags = errors.New("invalid decode flags")
)

// DecodeError carries the format and stage of a failed decode.
type DecodeError struct {
	Format Format
	Op     string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("texture: %s %s: %v", e.Op, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(format Format, op string, err error) error {
	return &DecodeError{Format: format, Op: op, Err: err}
}

// FormatOf returns the format attached to err, if err wraps a *DecodeError.
func FormatOf(err error) (Format, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Format, true
	}
	return FormatUnknown, false
}
