package probe

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const (
	tagOrientation = 0x0112

	pngSignature = "\x89PNG\r\n\x1a\n"
	// maxEXIfChunk bounds the eXIf payload read into memory.
	maxEXIfChunk = 4 << 20
)

// ReadOrientation extracts the EXIF orientation from a JPEG or raw TIFF
// stream. Every failure (no APP1 segment, malformed IFD, missing tag, value
// out of range) collapses to OrientationUnknown.
func ReadOrientation(r io.Reader) (o Orientation) {
	// goexif can panic on truncated IFD offsets.
	defer func() {
		if recover() != nil {
			o = OrientationUnknown
		}
	}()

	x, err := exif.Decode(r)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return OrientationUnknown
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationUnknown
	}
	return tagOrientationValue(tag)
}

// readTIFFOrientation reads the Orientation entry of IFD0 in a TIFF file.
// Only the header and IFD0 are read; tag values stored out of line are
// fetched with ReadAt, and no strip data is touched.
func readTIFFOrientation(r readSeekerAt) (o Orientation) {
	defer func() {
		if recover() != nil {
			o = OrientationUnknown
		}
	}()

	var hdr [8]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return OrientationUnknown
	}
	var order binary.ByteOrder
	switch string(hdr[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return OrientationUnknown
	}
	if order.Uint16(hdr[2:4]) != 42 {
		return OrientationUnknown
	}
	if _, err := r.Seek(int64(order.Uint32(hdr[4:8])), io.SeekStart); err != nil {
		return OrientationUnknown
	}

	dir, _, err := tiff.DecodeDir(r, order)
	if err != nil {
		return OrientationUnknown
	}
	for _, tag := range dir.Tags {
		if tag.Id == tagOrientation {
			return tagOrientationValue(tag)
		}
	}
	return OrientationUnknown
}

// readPNGOrientation walks the PNG chunk list up to the first IDAT and
// decodes the eXIf chunk, when present, as a raw TIFF block.
func readPNGOrientation(r io.Reader) Orientation {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil || string(sig[:]) != pngSignature {
		return OrientationUnknown
	}

	var head [8]byte
	for {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return OrientationUnknown
		}
		length := int64(binary.BigEndian.Uint32(head[:4]))
		switch string(head[4:]) {
		case "IDAT", "IEND":
			return OrientationUnknown
		case "eXIf":
			if length > maxEXIfChunk {
				return OrientationUnknown
			}
			payload := make([]byte, length)
			if _, err := io.ReadFull(r, payload); err != nil {
				return OrientationUnknown
			}
			return ReadOrientation(bytes.NewReader(payload))
		}
		// Skip the chunk data and its CRC.
		if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
			return OrientationUnknown
		}
	}
}

func tagOrientationValue(tag *tiff.Tag) Orientation {
	v, err := tag.Int(0)
	if err != nil {
		return OrientationUnknown
	}
	return ParseOrientation(v)
}
