package bmp

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) write(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func headers(m *Image) (FileHeader, InfoHeader, error) {
	if err := checkGeometry(m.width, m.height); err != nil {
		return FileHeader{}, InfoHeader{}, err
	}
	if m.bytesPerPixel != BytesPerPixel || m.rowStride != m.width*m.bytesPerPixel {
		return FileHeader{}, InfoHeader{}, fmt.Errorf("%w: row stride %d for width %d", ErrInvalidGeometry, m.rowStride, m.width)
	}
	if len(m.pix) != m.height*m.rowStride {
		return FileHeader{}, InfoHeader{}, &ValueError{ErrInvalidGeometry, uint64(len(m.pix)), uint64(m.height * m.rowStride)}
	}

	size, _ := fileSize(m.width, m.height)

	ih := InfoHeader{
		Size:        InfoHeaderSize,
		Width:       uint32(m.width),
		Height:      uint32(m.height),
		Planes:      1,
		BitCount:    uint16(m.bytesPerPixel << 3),
		Compression: compressionRGB,
		SizeImage:   size - HeaderSize,
	}

	fh := FileHeader{
		Type:    Signature,
		Size:    size,
		OffBits: HeaderSize,
	}

	return fh, ih, nil
}

func (e *encoder) encode(m *Image) error {
	fh, ih, err := headers(m)
	if err != nil {
		return err
	}

	var b [HeaderSize]byte
	fh.put(b[:FileHeaderSize])
	ih.put(b[FileHeaderSize:])
	if err := e.write(b[:]); err != nil {
		return err
	}

	// Zero width rows are empty and carry no padding either
	if m.rowStride == 0 {
		return nil
	}

	var pad [rowAlignment]byte
	n := m.Padding()

	// Bottom row first
	for i := 0; i < m.height; i++ {
		if err := e.write(m.Row(m.height - i - 1)); err != nil {
			return err
		}
		if err := e.write(pad[:n]); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes m to w as an uncompressed 24-bit BMP image. Pixel bytes are
// written as they are stored, regardless of the channel mode.
func Encode(w io.Writer, m *Image) error {
	e := encoder{w: w}
	return e.encode(m)
}

// Save writes m to the named file, creating or truncating it. A failed save
// can leave a partially written file behind.
func Save(path string, m *Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	// Buffer to reduce syscalls
	w := bufio.NewWriter(f)

	if err = Encode(w, m); err != nil {
		return err
	}

	if err = w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	m.path = path

	return nil
}

// Save writes the image to the named file.
func (m *Image) Save(path string) error {
	return Save(path, m)
}
