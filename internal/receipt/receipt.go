// Package receipt turns raw receipt photos into compact JPEGs the ledger
// can reference by URL. The stores never see image bytes, only the
// resulting receiptUrl.
package receipt

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// maxDimension bounds the longest image side after scaling.
	maxDimension = 1920
	// maxBytes bounds the encoded size; quality steps down until it fits.
	maxBytes = 300 * 1024

	startQuality = 85
	minQuality   = 40
	qualityStep  = 10
)

type Processor interface {
	Process(ctx context.Context, r io.Reader) (string, error)
}

// FileProcessor compresses receipts onto the local filesystem and serves
// them under /receipts/.
type FileProcessor struct {
	dir string
}

func NewFileProcessor(dir string) (*FileProcessor, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileProcessor{dir: dir}, nil
}

func (p *FileProcessor) Process(ctx context.Context, r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img = scaleDown(img)
	encoded, err := encodeBounded(img)
	if err != nil {
		return "", err
	}
	fileName := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(p.dir, fileName), encoded, 0o644); err != nil {
		return "", err
	}
	return "/receipts/" + fileName, nil
}

func scaleDown(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= maxDimension {
		return img
	}
	scale := float64(maxDimension) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeBounded(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	for quality := startQuality; ; quality -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		if buf.Len() <= maxBytes || quality <= minQuality {
			return buf.Bytes(), nil
		}
	}
}
