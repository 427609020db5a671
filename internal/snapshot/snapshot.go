// Package snapshot writes rendered frames to timestamped PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

const timestampLayout = "2006-01-02_15-04-05"

// Writer saves frames into a directory.
type Writer struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewWriter creates a writer. An empty outputDir means the working directory.
func NewWriter(outputDir, prefix string) *Writer {
	return &Writer{outputDir: outputDir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would use.
func (w *Writer) Filename() string {
	name := fmt.Sprintf("%s_%s.png", w.prefix, w.now().Format(timestampLayout))
	if w.outputDir != "" {
		name = filepath.Join(w.outputDir, name)
	}
	return name
}

// FromPixels saves bottom-up RGBA rows as read back from the GPU.
func (w *Writer) FromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return w.FromImage(img)
}

// FromImage saves img and returns the file name.
func (w *Writer) FromImage(img image.Image) (string, error) {
	if w.outputDir != "" {
		if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := w.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	logger.Info("snapshot saved", zap.String("file", filename), zap.Stringer("size", img.Bounds().Size()))
	return filename, nil
}
