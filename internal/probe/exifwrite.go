package probe

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// InsertOrientation returns a copy of the JPEG in data with an APP1 EXIF
// segment right after SOI. The segment holds a big-endian TIFF header and
// an IFD0 with a single Orientation entry. The --check self-test and the
// test fixtures use it to produce tagged images without an EXIF writer.
func InsertOrientation(data []byte, o Orientation) ([]byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errors.New("not a JPEG stream")
	}

	seg := []byte{0xFF, 0xE1, 0, 0}
	seg = append(seg, "Exif\x00\x00"...)
	seg = appendOrientationIFD(seg, uint16(o))
	binary.BigEndian.PutUint16(seg[2:4], uint16(len(seg)-2))

	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...), nil
}

// InsertPNGOrientation returns a copy of the PNG in data with an eXIf chunk
// right after IHDR. The chunk holds the same single-entry TIFF block that
// InsertOrientation writes.
func InsertPNGOrientation(data []byte, o Orientation) ([]byte, error) {
	// Signature, then IHDR: length, type, 13 data bytes, CRC.
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[:8]) != pngSignature || string(data[12:16]) != "IHDR" {
		return nil, errors.New("not a PNG stream")
	}

	body := append([]byte("eXIf"), appendOrientationIFD(nil, uint16(o))...)
	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(body)-4))
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...), nil
}

func appendOrientationIFD(b []byte, v uint16) []byte {
	b = append(b, 'M', 'M', 0x00, 0x2A)
	b = binary.BigEndian.AppendUint32(b, 8)      // IFD0 offset
	b = binary.BigEndian.AppendUint16(b, 1)      // entry count
	b = binary.BigEndian.AppendUint16(b, 0x0112) // Orientation
	b = binary.BigEndian.AppendUint16(b, 3)      // SHORT
	b = binary.BigEndian.AppendUint32(b, 1)      // count
	b = binary.BigEndian.AppendUint16(b, v)
	b = append(b, 0, 0)                        // value padding
	return binary.BigEndian.AppendUint32(b, 0) // next IFD
}
