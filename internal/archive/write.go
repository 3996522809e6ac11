package archive

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"

	"github.com/klauspost/compress/zip"
)

// Write stores document as doc.kml followed by the images, PNG encoded,
// under their existing names.
func Write(w io.Writer, document []byte, images map[string]image.Image) error {
	zw := zip.NewWriter(w)

	fw, err := zw.Create("doc.kml")
	if err != nil {
		return fmt.Errorf("create doc.kml: %w", err)
	}
	if _, err := fw.Write(document); err != nil {
		return fmt.Errorf("write doc.kml: %w", err)
	}

	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := png.Encode(fw, images[name]); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
	}
	return zw.Close()
}
