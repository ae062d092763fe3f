package probe

import (
	"fmt"
	"path/filepath"
)

// Orientation is the EXIF orientation code (tag 0x0112). Valid codes are
// 1 through 8; anything else, including a missing tag, is OrientationUnknown.
type Orientation int

const (
	OrientationUnknown Orientation = 0

	OrientationNormal          Orientation = 1
	OrientationMirror          Orientation = 2
	OrientationRotate180       Orientation = 3
	OrientationMirrorVertical  Orientation = 4
	OrientationMirrorRotate270 Orientation = 5
	OrientationRotate90        Orientation = 6
	OrientationMirrorRotate90  Orientation = 7
	OrientationRotate270       Orientation = 8
)

// unknownLabel names the orientation directory for files without a tag.
const unknownLabel = "Unknown"

var orientationDescriptions = map[Orientation]string{
	OrientationNormal:          "Horizontal (normal)",
	OrientationMirror:          "Mirror horizontal",
	OrientationRotate180:       "Rotate 180",
	OrientationMirrorVertical:  "Mirror vertical",
	OrientationMirrorRotate270: "Mirror horizontal and rotate 270 CW",
	OrientationRotate90:        "Rotate 90 CW",
	OrientationMirrorRotate90:  "Mirror horizontal and rotate 90 CW",
	OrientationRotate270:       "Rotate 270 CW",
}

// ParseOrientation maps a raw tag value to an Orientation.
func ParseOrientation(v int) Orientation {
	o := Orientation(v)
	if o.Known() {
		return o
	}
	return OrientationUnknown
}

// Known reports whether o is one of the eight EXIF codes.
func (o Orientation) Known() bool {
	return o >= OrientationNormal && o <= OrientationRotate270
}

// String returns the decimal code ("1".."8") or "Unknown". It is used as a
// destination directory name.
func (o Orientation) String() string {
	if !o.Known() {
		return unknownLabel
	}
	return fmt.Sprintf("%d", int(o))
}

// Description returns the EXIF specification wording for o.
func (o Orientation) Description() string {
	if d, ok := orientationDescriptions[o]; ok {
		return d
	}
	return unknownLabel
}

// SwapsAxes reports whether displaying the image correctly rotates it by a
// quarter turn, exchanging width and height.
func (o Orientation) SwapsAxes() bool {
	return o >= OrientationMirrorRotate270 && o <= OrientationRotate270
}

// Metadata is what one probe learns about one file. Width and Height are
// the stored pixel dimensions, before any orientation is applied.
type Metadata struct {
	Path        string
	Format      string // "jpeg", "png", "bmp" or "tiff"
	Width       int
	Height      int
	Orientation Orientation
	Size        int64
}

// Name returns the base name of the probed file.
func (m *Metadata) Name() string {
	return filepath.Base(m.Path)
}

// Resolution returns "WxH", or "unknown" for non-positive dimensions.
func (m *Metadata) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// DisplaySize returns the dimensions as a viewer would show them after
// applying the orientation.
func (m *Metadata) DisplaySize() (width, height int) {
	if m.Orientation.SwapsAxes() {
		return m.Height, m.Width
	}
	return m.Width, m.Height
}
