/*
Package bmp implements a decoder and encoder for uncompressed 24-bit Windows
bitmap images.

A file is a 14 byte file header, a 40 byte BITMAPINFOHEADER and then the
pixel rows. Rows are stored bottom-up, three bytes per pixel, and each row is
padded with zero bytes to a multiple of four bytes. All multi-byte header
fields are little-endian on disk.

Palette-indexed images, bit depths other than 24, the larger V4/V5 header
variants and RLE compression are all rejected rather than supported. The
decoder also requires the physical size of the stream to match the size
implied by the header geometry exactly.
*/
package bmp

const (
	// Signature is the "BM" magic read as a little-endian 16-bit value
	Signature = 0x4d42

	// FileHeaderSize is the on-disk size of FileHeader in bytes
	FileHeaderSize = 14

	// InfoHeaderSize is the on-disk size of InfoHeader in bytes, also the
	// only header size value accepted by the decoder
	InfoHeaderSize = 40

	// HeaderSize is the combined size of both headers and therefore the
	// offset of the pixel data
	HeaderSize = FileHeaderSize + InfoHeaderSize

	// BitsPerPixel is the only supported bit depth
	BitsPerPixel = 24

	// BytesPerPixel is the in-memory and on-disk size of one pixel
	BytesPerPixel = BitsPerPixel >> 3

	compressionRGB = 0
	rowAlignment   = 4
)

// padding returns the number of zero bytes following each on-disk row of
// the given width.
func padding(width int) int {
	return (rowAlignment - (width*BytesPerPixel)%rowAlignment) % rowAlignment
}
