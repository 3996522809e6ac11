// Package archive splits KMZ input into the KML document and its embedded images.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// ErrArchiveMissingDocument is returned when a KMZ holds no .kml entry.
var ErrArchiveMissingDocument = errors.New("kmz archive contains no .kml document")

var zipMagic = []byte("PK\x03\x04")

// Bundle is a KML document together with the images shipped alongside it.
type Bundle struct {
	// Document is the raw KML text.
	Document []byte

	// DocumentName is the archive entry the document came from, empty for plain KML.
	DocumentName string

	// Images maps archive entry names to decoded images.
	Images map[string]image.Image
}

// IsKMZ reports whether data starts like a zip archive.
func IsKMZ(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// Open returns the bundle for data. Zip input is read as KMZ: the first
// entry ending in .kml is the document and every other entry that decodes
// as an image is kept under its entry name. Anything else is plain KML.
func Open(data []byte, log *zap.Logger) (*Bundle, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !IsKMZ(data) {
		return &Bundle{Document: data, Images: map[string]image.Image{}}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open kmz: %w", err)
	}

	b := &Bundle{Images: make(map[string]image.Image)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read kmz entry %s: %w", f.Name, err)
		}

		if strings.EqualFold(path.Ext(f.Name), ".kml") {
			if b.Document == nil {
				b.Document = content
				b.DocumentName = f.Name
			} else {
				log.Debug("Additional kml entry in archive, ignoring", zap.String("entry", f.Name))
			}
			continue
		}

		img, err := DecodeImage(content)
		if err != nil {
			log.Debug("Archive entry is not an image, skipping",
				zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		b.Images[f.Name] = img
	}

	if b.Document == nil {
		return nil, ErrArchiveMissingDocument
	}
	return b, nil
}

// DecodeImage decodes PNG, JPEG, GIF or WebP data.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
