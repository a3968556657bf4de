// Package debug provides development helpers for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes framebuffer captures as PNG files.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewScreenshots creates a capture handler writing into dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// Save writes RGBA pixels read back from the framebuffer. Rows arrive
// bottom-up, as OpenGL returns them, and are flipped on copy.
func (s *Screenshots) Save(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("empty framebuffer %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	filename := s.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// Filename returns the path the next capture would be written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}
