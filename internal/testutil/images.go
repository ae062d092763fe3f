// Package testutil writes image fixtures for tests in other packages.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/backmassage/photosift/internal/probe"
)

// NoEXIF passed as orientation writes a JPEG without an APP1 segment.
const NoEXIF = 0

// WriteJPEG encodes a blank w x h JPEG at dir/name. When orientation is
// non-zero an EXIF APP1 segment carrying that orientation tag is spliced in
// after SOI. Parent directories are created. Returns the full path.
func WriteJPEG(t *testing.T, dir, name string, w, h, orientation int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, blank(w, h), &jpeg.Options{Quality: 1}); err != nil {
		t.Fatalf("encode jpeg %s: %v", name, err)
	}
	data := buf.Bytes()
	if orientation != NoEXIF {
		data = SpliceEXIF(data, orientation)
	}
	return WriteFile(t, dir, name, data)
}

// WritePNG encodes a blank w x h PNG at dir/name.
func WritePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, blank(w, h)); err != nil {
		t.Fatalf("encode png %s: %v", name, err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WriteTaggedPNG is WritePNG with an eXIf chunk carrying orientation.
func WriteTaggedPNG(t *testing.T, dir, name string, w, h, orientation int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, blank(w, h)); err != nil {
		t.Fatalf("encode png %s: %v", name, err)
	}
	data, err := probe.InsertPNGOrientation(buf.Bytes(), probe.Orientation(orientation))
	if err != nil {
		t.Fatalf("tag png %s: %v", name, err)
	}
	return WriteFile(t, dir, name, data)
}

// WriteBMP encodes a blank w x h BMP at dir/name.
func WriteBMP(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, blank(w, h)); err != nil {
		t.Fatalf("encode bmp %s: %v", name, err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WriteTIFF encodes a blank w x h TIFF at dir/name.
func WriteTIFF(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, blank(w, h), nil); err != nil {
		t.Fatalf("encode tiff %s: %v", name, err)
	}
	return WriteFile(t, dir, name, buf.Bytes())
}

// WriteTaggedTIFF is WriteTIFF with an Orientation entry added to IFD0.
func WriteTaggedTIFF(t *testing.T, dir, name string, w, h, orientation int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, blank(w, h), nil); err != nil {
		t.Fatalf("encode tiff %s: %v", name, err)
	}
	return WriteFile(t, dir, name, SpliceTIFFOrientation(buf.Bytes(), orientation))
}

// WriteFile writes data to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SpliceEXIF returns a copy of the JPEG in data carrying an EXIF
// orientation tag with the given raw value. Values outside 1..8 are
// written as-is so tests can exercise invalid tags.
func SpliceEXIF(data []byte, orientation int) []byte {
	out, err := probe.InsertOrientation(data, probe.Orientation(orientation))
	if err != nil {
		panic(err)
	}
	return out
}

// SpliceTIFFOrientation returns a copy of the TIFF in data whose IFD0 is
// rewritten at the end of the file with an Orientation (0x0112) entry. The
// original entries keep their absolute value offsets.
func SpliceTIFFOrientation(data []byte, orientation int) []byte {
	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		panic("not a TIFF stream")
	}

	ifd := int(order.Uint32(data[4:8]))
	n := int(order.Uint16(data[ifd:]))
	entries := data[ifd+2 : ifd+2+12*n]
	next := data[ifd+2+12*n : ifd+2+12*n+4]

	tag := make([]byte, 12)
	order.PutUint16(tag[0:], 0x0112)
	order.PutUint16(tag[2:], 3) // SHORT
	order.PutUint32(tag[4:], 1)
	order.PutUint16(tag[8:], uint16(orientation))

	var table [][]byte
	inserted := false
	for i := 0; i < n; i++ {
		e := entries[12*i : 12*i+12]
		id := order.Uint16(e)
		if id == 0x0112 {
			continue
		}
		if !inserted && id > 0x0112 {
			table = append(table, tag)
			inserted = true
		}
		table = append(table, e)
	}
	if !inserted {
		table = append(table, tag)
	}

	out := append([]byte(nil), data...)
	if len(out)%2 == 1 {
		out = append(out, 0)
	}
	order.PutUint32(out[4:8], uint32(len(out)))
	count := make([]byte, 2)
	order.PutUint16(count, uint16(len(table)))
	out = append(out, count...)
	for _, e := range table {
		out = append(out, e...)
	}
	return append(out, next...)
}

func blank(w, h int) image.Image {
	return image.NewGray(image.Rect(0, 0, w, h))
}
