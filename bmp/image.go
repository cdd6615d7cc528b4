package bmp

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ChannelMode is the byte order of the three channels of each pixel in the
// buffer. The decoder and encoder carry pixel bytes through unchanged, the
// mode only affects how they are interpreted as colors.
type ChannelMode int

const (
	// BGR is the order used on disk by BMP files
	BGR ChannelMode = iota
	// RGB is red first
	RGB
)

func (m ChannelMode) String() string {
	switch m {
	case BGR:
		return "BGR"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("ChannelMode(%d)", int(m))
	}
}

// Image is a 24-bit image held as contiguous rows, top row first, with no
// padding between rows.
type Image struct {
	path          string
	mode          ChannelMode
	width         int
	height        int
	bytesPerPixel int
	rowStride     int
	pix           []byte
}

func checkGeometry(width, height int) error {
	if width < 0 || height < 0 || uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}
	if _, ok := fileSize(width, height); !ok {
		return fmt.Errorf("%w: %dx%d is too large", ErrInvalidGeometry, width, height)
	}
	return nil
}

// fileSize returns the size of the encoded file and whether it fits in the
// 32-bit header fields.
func fileSize(width, height int) (uint32, bool) {
	row := uint64(width)*BytesPerPixel + uint64(padding(width))
	if height != 0 && row > (math.MaxUint32-HeaderSize)/uint64(height) {
		return 0, false
	}
	return uint32(HeaderSize + row*uint64(height)), true
}

func newImage(width, height int, mode ChannelMode) *Image {
	m := &Image{
		mode:          mode,
		width:         width,
		height:        height,
		bytesPerPixel: BytesPerPixel,
	}
	m.rowStride = m.width * m.bytesPerPixel
	m.pix = make([]byte, m.height*m.rowStride)
	return m
}

// NewImage returns a black image of the given size.
func NewImage(width, height int, mode ChannelMode) (*Image, error) {
	if err := checkGeometry(width, height); err != nil {
		return nil, err
	}
	return newImage(width, height, mode), nil
}

// FromImage converts m into a 24-bit image with channels written in the
// given order. Any alpha is discarded.
func FromImage(m image.Image, mode ChannelMode) *Image {
	b := m.Bounds()
	dst := newImage(b.Dx(), b.Dy(), mode)

	r, g, bl := 0, 1, 2
	if mode == BGR {
		r, bl = 2, 0
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Row(y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
			i := (x - b.Min.X) * dst.bytesPerPixel
			row[i+r] = c.R
			row[i+g] = c.G
			row[i+bl] = c.B
		}
	}

	return dst
}

// Path returns the file the image was loaded from or last saved to.
func (m *Image) Path() string {
	return m.path
}

// SetPath sets the path recorded against the image.
func (m *Image) SetPath(path string) {
	m.path = path
}

// Mode returns the channel order of the pixel buffer.
func (m *Image) Mode() ChannelMode {
	return m.mode
}

// Width returns the width in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the height in pixels.
func (m *Image) Height() int {
	return m.height
}

// BytesPerPixel is always 3.
func (m *Image) BytesPerPixel() int {
	return m.bytesPerPixel
}

// RowStride returns the number of bytes in each row of the buffer.
func (m *Image) RowStride() int {
	return m.rowStride
}

// Padding returns the number of zero bytes written after each row on disk.
func (m *Image) Padding() int {
	return padding(m.width)
}

// Row returns row i of the buffer where row 0 is the top of the image. The
// returned slice aliases the buffer.
func (m *Image) Row(i int) []byte {
	return m.pix[i*m.rowStride : (i+1)*m.rowStride : (i+1)*m.rowStride]
}

// Pix returns the whole pixel buffer.
func (m *Image) Pix() []byte {
	return m.pix
}

// SetPix replaces the pixel buffer with b which must be exactly
// Height*RowStride bytes.
func (m *Image) SetPix(b []byte) error {
	if len(b) != m.height*m.rowStride {
		return &ValueError{ErrInvalidGeometry, uint64(len(b)), uint64(m.height * m.rowStride)}
	}
	m.pix = b
	return nil
}

// Clear sets every byte of the buffer to c.
func (m *Image) Clear(c byte) {
	for i := range m.pix {
		m.pix[i] = c
	}
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	dup := *m
	dup.pix = append([]byte(nil), m.pix...)
	return &dup
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At implements image.Image, reading the pixel according to the channel
// mode.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	p := m.pix[y*m.rowStride+x*m.bytesPerPixel:]
	if m.mode == BGR {
		return color.RGBA{p[2], p[1], p[0], 0xff}
	}
	return color.RGBA{p[0], p[1], p[2], 0xff}
}
