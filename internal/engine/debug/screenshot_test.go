package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestScreenshotFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "floor")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (GL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(path, "floor_2024-05-01_12-30-00.000.png") {
		t.Errorf("unexpected filename %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, _, b, _ := img.At(0, 0).RGBA()
	if b == 0 || r != 0 {
		t.Errorf("top row should be blue, got r=%d b=%d", r, b)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r == 0 || b != 0 {
		t.Errorf("bottom row should be red, got r=%d b=%d", r, b)
	}
}

func TestScreenshotSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "floor")
	if _, err := s.Save(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := s.Save(nil, 0, 0); err == nil {
		t.Error("expected empty framebuffer error")
	}
}
