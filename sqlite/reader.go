package sqlite

import (
	"encoding/binary"
	"errors"
)

// ErrShortRead is returned by the fixed-width readers when the requested
// field would run past the end of the supplied slice.
var ErrShortRead = errors.New("reader: short read")

func readUint8(b []byte, off int) (uint8, error) {
	if off < 0 || off+1 > len(b) {
		return 0, ErrShortRead
	}
	return b[off], nil
}

func readUint16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint16(b[off : off+2]), nil
}

func readUint32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint32(b[off : off+4]), nil
}

// readSignedBE interprets b (1..8 bytes) as a big-endian two's-complement
// signed integer, sign-extending from its actual width. This backs the
// width-1/2/3/4/6 integer serial types of the record decoder; the 8-byte
// serial type 6 is read with binary.BigEndian.Uint64 directly.
func readSignedBE(b []byte) int64 {
	var v int64
	if len(b) > 0 && b[0]&0x80 != 0 {
		v = -1
	}
	for _, c := range b {
		v = (v << 8) | int64(c)
	}
	return v
}
