package bmp

import "encoding/binary"

// bigEndian never changes while the process runs so it is determined once.
var bigEndian = hostBigEndian()

// hostBigEndian stores the value 1 as a native 16-bit integer and inspects
// the lowest-addressed byte.
func hostBigEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] != 1
}

// BigEndian reports whether the host stores multi-byte integers most
// significant byte first.
func BigEndian() bool {
	return bigEndian
}

// Swap16 reverses the byte order of s.
func Swap16(s uint16) uint16 {
	return s>>8 | s<<8
}

// Swap32 reverses the byte order of s.
func Swap32(s uint32) uint32 {
	return s&0xff000000>>24 |
		s&0x00ff0000>>8 |
		s&0x0000ff00<<8 |
		s&0x000000ff<<24
}

// Header fields are copied in and out in host order and then normalised so
// the bytes on disk are always little-endian.

func get16(b []byte) uint16 {
	v := binary.NativeEndian.Uint16(b)
	if bigEndian {
		v = Swap16(v)
	}
	return v
}

func get32(b []byte) uint32 {
	v := binary.NativeEndian.Uint32(b)
	if bigEndian {
		v = Swap32(v)
	}
	return v
}

func put16(b []byte, v uint16) {
	if bigEndian {
		v = Swap16(v)
	}
	binary.NativeEndian.PutUint16(b, v)
}

func put32(b []byte, v uint32) {
	if bigEndian {
		v = Swap32(v)
	}
	binary.NativeEndian.PutUint32(b, v)
}
