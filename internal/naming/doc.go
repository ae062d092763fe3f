// Package naming builds destination paths for copied images.
//
// Layout:
//
//	<dest>/<orientation>/<bucket>/img-<uuid>.jpg
//
// The orientation segment is the EXIF code ("1".."8") or "Unknown". The
// bucket segment is the aspect-ratio label, with ':' mapped to '_' on
// Windows. Each name carries a fresh random UUID; a per-run claim registry
// rejects an id already handed out or already present on disk, so repeated
// runs into the same destination never overwrite earlier output.
package naming
