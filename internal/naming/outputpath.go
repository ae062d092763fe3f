package naming

import (
	"path/filepath"

	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
)

// Output file name pieces. The extension is always .jpg regardless of the
// source format; the content is copied byte for byte.
const (
	filePrefix = "img-"
	fileExt    = ".jpg"
)

// OutputPath builds the destination path for one image.
//
//	<root>/<orientation>/<bucket dir>/img-<id>.jpg
func OutputPath(root string, o probe.Orientation, b planner.Bucket, id string) string {
	return filepath.Join(root, o.String(), b.DirName(), filePrefix+id+fileExt)
}
