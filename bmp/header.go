package bmp

// FileHeader is the BITMAPFILEHEADER that starts every file.
type FileHeader struct {
	Type      uint16 // Must be Signature
	Size      uint32 // Size of the whole file in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // Offset of the pixel data
}

// InfoHeader is the BITMAPINFOHEADER describing the image geometry and
// pixel encoding.
type InfoHeader struct {
	Size            uint32 // Size of this header, must be InfoHeaderSize
	Width           uint32
	Height          uint32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32 // Size of the padded pixel data
	XPixelsPerMeter uint32
	YPixelsPerMeter uint32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// MarshalBinary encodes the header into its 14 byte on-disk form.
func (h *FileHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, FileHeaderSize)
	h.put(b)
	return b, nil
}

// UnmarshalBinary decodes the header from its on-disk form.
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < FileHeaderSize {
		return &ValueError{ErrTruncatedData, uint64(len(b)), FileHeaderSize}
	}
	h.get(b)
	return nil
}

func (h *FileHeader) get(b []byte) {
	h.Type = get16(b[0:2])
	h.Size = get32(b[2:6])
	h.Reserved1 = get16(b[6:8])
	h.Reserved2 = get16(b[8:10])
	h.OffBits = get32(b[10:14])
}

func (h *FileHeader) put(b []byte) {
	put16(b[0:2], h.Type)
	put32(b[2:6], h.Size)
	put16(b[6:8], h.Reserved1)
	put16(b[8:10], h.Reserved2)
	put32(b[10:14], h.OffBits)
}

// MarshalBinary encodes the header into its 40 byte on-disk form.
func (h *InfoHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, InfoHeaderSize)
	h.put(b)
	return b, nil
}

// UnmarshalBinary decodes the header from its on-disk form. The header size
// field is not validated.
func (h *InfoHeader) UnmarshalBinary(b []byte) error {
	if len(b) < InfoHeaderSize {
		return &ValueError{ErrTruncatedData, uint64(len(b)), InfoHeaderSize}
	}
	h.get(b)
	return nil
}

func (h *InfoHeader) get(b []byte) {
	h.Size = get32(b[0:4])
	h.Width = get32(b[4:8])
	h.Height = get32(b[8:12])
	h.Planes = get16(b[12:14])
	h.BitCount = get16(b[14:16])
	h.Compression = get32(b[16:20])
	h.SizeImage = get32(b[20:24])
	h.XPixelsPerMeter = get32(b[24:28])
	h.YPixelsPerMeter = get32(b[28:32])
	h.ColorsUsed = get32(b[32:36])
	h.ColorsImportant = get32(b[36:40])
}

func (h *InfoHeader) put(b []byte) {
	put32(b[0:4], h.Size)
	put32(b[4:8], h.Width)
	put32(b[8:12], h.Height)
	put16(b[12:14], h.Planes)
	put16(b[14:16], h.BitCount)
	put32(b[16:20], h.Compression)
	put32(b[20:24], h.SizeImage)
	put32(b[24:28], h.XPixelsPerMeter)
	put32(b[28:32], h.YPixelsPerMeter)
	put32(b[32:36], h.ColorsUsed)
	put32(b[36:40], h.ColorsImportant)
}

// Config holds both headers of a file that passed header validation.
type Config struct {
	File FileHeader
	Info InfoHeader
}

// Width returns the image width in pixels.
func (c Config) Width() int {
	return int(c.Info.Width)
}

// Height returns the image height in pixels.
func (c Config) Height() int {
	return int(c.Info.Height)
}

// Padding returns the number of zero bytes after each on-disk row.
func (c Config) Padding() int {
	return padding(c.Width())
}
