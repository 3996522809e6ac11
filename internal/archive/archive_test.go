package archive

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zip"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func testZip(t *testing.T, entries map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("Failed to write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestOpenPlainKML(t *testing.T) {
	doc := []byte(`<kml><Document/></kml>`)
	b, err := Open(doc, nil)
	if err != nil {
		t.Fatalf("Failed to open plain kml: %v", err)
	}
	if !bytes.Equal(b.Document, doc) {
		t.Errorf("Document = %q, want input unchanged", b.Document)
	}
	if len(b.Images) != 0 {
		t.Errorf("Images = %d, want 0", len(b.Images))
	}
}

func TestOpenKMZ(t *testing.T) {
	data := testZip(t, map[string][]byte{
		"files/icon.png": testPNG(t),
		"doc.kml":        []byte(`<kml/>`),
		"other.KML":      []byte(`<kml><Folder/></kml>`),
		"readme.txt":     []byte("not an image"),
	}, []string{"files/icon.png", "doc.kml", "other.KML", "readme.txt"})

	if !IsKMZ(data) {
		t.Fatal("IsKMZ = false for zip data")
	}
	b, err := Open(data, nil)
	if err != nil {
		t.Fatalf("Failed to open kmz: %v", err)
	}
	if b.DocumentName != "doc.kml" || string(b.Document) != `<kml/>` {
		t.Errorf("document = %s %q, want first kml entry", b.DocumentName, b.Document)
	}
	if len(b.Images) != 1 {
		t.Fatalf("Images = %d, want 1", len(b.Images))
	}
	img, ok := b.Images["files/icon.png"]
	if !ok {
		t.Fatal("image not keyed by entry name")
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("image width = %d, want 2", img.Bounds().Dx())
	}
}

func TestOpenKMZWithoutDocument(t *testing.T) {
	data := testZip(t, map[string][]byte{"icon.png": testPNG(t)}, []string{"icon.png"})
	_, err := Open(data, nil)
	if !errors.Is(err, ErrArchiveMissingDocument) {
		t.Errorf("error = %v, want ErrArchiveMissingDocument", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	img, err := DecodeImage(testPNG(t))
	if err != nil {
		t.Fatalf("Failed to decode png: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, []byte(`<kml/>`), map[string]image.Image{"pin.png": img}); err != nil {
		t.Fatalf("Failed to write kmz: %v", err)
	}

	b, err := Open(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("Failed to reopen kmz: %v", err)
	}
	if b.DocumentName != "doc.kml" {
		t.Errorf("DocumentName = %q, want doc.kml", b.DocumentName)
	}
	if _, ok := b.Images["pin.png"]; !ok {
		t.Error("pin.png missing after round trip")
	}
}
