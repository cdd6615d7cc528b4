package bmp

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
)

func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return nil
}

type decoder struct {
	r io.Reader

	config Config
	image  *Image

	tmp [HeaderSize]byte
}

func (d *decoder) readFileHeader() error {
	n, err := io.ReadFull(d.r, d.tmp[:FileHeaderSize])
	// A bad signature is reported ahead of a short header
	if n >= 2 {
		if t := get16(d.tmp[0:2]); t != Signature {
			return &ValueError{ErrInvalidSignature, uint64(t), Signature}
		}
	}
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	d.config.File.get(d.tmp[:FileHeaderSize])
	return nil
}

func (d *decoder) readInfoHeader() error {
	if err := readFull(d.r, d.tmp[FileHeaderSize:HeaderSize]); err != nil {
		return err
	}
	d.config.Info.get(d.tmp[FileHeaderSize:HeaderSize])

	if d.config.Info.BitCount != BitsPerPixel {
		return &ValueError{ErrUnsupportedBitDepth, uint64(d.config.Info.BitCount), BitsPerPixel}
	}

	if d.config.Info.Size != InfoHeaderSize {
		return &ValueError{ErrUnsupportedHeader, uint64(d.config.Info.Size), InfoHeaderSize}
	}

	return nil
}

// logicalSize returns the number of bytes a file with the decoded geometry
// must contain, saturating at math.MaxUint64.
func (d *decoder) logicalSize() uint64 {
	width, height := uint64(d.config.Info.Width), uint64(d.config.Info.Height)
	row := width*BytesPerPixel + uint64(padding(int(width%rowAlignment)))
	hi, lo := bits.Mul64(row, height)
	if hi != 0 || lo > math.MaxUint64-HeaderSize {
		return math.MaxUint64
	}
	return lo + HeaderSize
}

func (d *decoder) readPixels() error {
	width, height := d.config.Width(), d.config.Height()

	d.image = newImage(width, height, BGR)

	if d.image.rowStride == 0 {
		return nil
	}

	var pad [rowAlignment]byte
	n := padding(width)

	// Rows are stored bottom-up
	for i := 0; i < height; i++ {
		if err := readFull(d.r, d.image.Row(height-i-1)); err != nil {
			return err
		}
		if err := readFull(d.r, pad[:n]); err != nil {
			return err
		}
	}

	return nil
}

func (d *decoder) decode(r io.Reader, size int64, configOnly bool) error {
	d.r = r

	if err := d.readFileHeader(); err != nil {
		return err
	}

	if err := d.readInfoHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if logical := d.logicalSize(); size < 0 || logical != uint64(size) {
		return &ValueError{ErrSizeMismatch, uint64(size), logical}
	}

	return d.readPixels()
}

// Decode reads a 24-bit BMP image from r. The size is the total number of
// bytes available from r and must match the size implied by the headers.
// No image is returned if any validation or read fails.
func Decode(r io.Reader, size int64) (*Image, error) {
	var d decoder
	if err := d.decode(r, size, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the validated headers of a 24-bit BMP image without
// decoding the pixels.
func DecodeConfig(r io.Reader) (Config, error) {
	var d decoder
	if err := d.decode(r, 0, true); err != nil {
		return Config{}, err
	}
	return d.config, nil
}

// Load decodes the BMP image stored in the named file. The file is always
// closed before returning.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	m, err := Decode(f, info.Size())
	if err != nil {
		return nil, err
	}
	m.path = path

	return m, nil
}
