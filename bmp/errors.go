package bmp

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the file to decode cannot be
	// opened or inspected
	ErrSourceUnavailable = errors.New("bmp: source unavailable")

	// ErrInvalidSignature is returned when the file does not start with "BM"
	ErrInvalidSignature = errors.New("bmp: invalid signature")

	// ErrUnsupportedBitDepth is returned for anything other than 24 bits
	// per pixel
	ErrUnsupportedBitDepth = errors.New("bmp: unsupported bit depth")

	// ErrUnsupportedHeader is returned when the information header is not
	// the 40 byte BITMAPINFOHEADER variant
	ErrUnsupportedHeader = errors.New("bmp: unsupported information header")

	// ErrSizeMismatch is returned when the physical size of the file does
	// not match the size implied by its headers
	ErrSizeMismatch = errors.New("bmp: size mismatch")

	// ErrTruncatedData is returned when fewer bytes are available than the
	// headers or the pixel rows require
	ErrTruncatedData = errors.New("bmp: truncated data")

	// ErrIO is returned when writing the encoded image fails
	ErrIO = errors.New("bmp: i/o failure")

	// ErrInvalidGeometry is returned when image dimensions are negative,
	// inconsistent or cannot be represented in the on-disk headers
	ErrInvalidGeometry = errors.New("bmp: invalid geometry")
)

// ValueError reports a header value that failed validation along with the
// value that was expected. It unwraps to one of the package errors.
type ValueError struct {
	Err  error
	Got  uint64
	Want uint64
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v: got %d, want %d", e.Err, e.Got, e.Want)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
