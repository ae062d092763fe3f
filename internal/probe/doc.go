// Package probe reads the facts the classifier needs from one image file:
// pixel width and height from the format header (image.DecodeConfig, no
// pixel buffer is decoded) and the EXIF orientation tag.
//
// Supported formats are JPEG and PNG from the standard library plus BMP and
// TIFF from golang.org/x/image. Orientation is read from the JPEG APP1
// segment, the PNG eXIf chunk and the TIFF IFD0. BMP files carry no EXIF and
// always report OrientationUnknown.
package probe
