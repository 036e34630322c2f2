// Package imageproc turns uploaded image bytes into a two-level raster
// suitable for OCR.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidImage is returned when the payload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

const (
	black = 0
	white = 255
)

// Result is a binarized raster plus the threshold that produced it.
// Format is the registered decoder name of the source, e.g. "png" or "jpeg",
// and is empty when only OpenCV understands the encoding.
type Result struct {
	Image     *image.Gray
	Threshold uint8
	Format    string
}

// Width of the raster in pixels.
func (r Result) Width() int { return r.Image.Bounds().Dx() }

// Height of the raster in pixels.
func (r Result) Height() int { return r.Image.Bounds().Dy() }

// Preprocess decodes data as grayscale and binarizes it with an Otsu threshold.
// Pixels above the threshold become white, the rest black. Uniform input
// yields threshold 0.
func Preprocess(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrInvalidImage
	}
	gray, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer gray.Close()
	if gray.Empty() {
		return Result{}, ErrInvalidImage
	}

	binary := gocv.NewMat()
	defer binary.Close()
	t := gocv.Threshold(gray, &binary, 0, white, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	img, err := binary.ToImage()
	if err != nil {
		return Result{}, fmt.Errorf("convert raster: %w", err)
	}
	raster, ok := img.(*image.Gray)
	if !ok {
		return Result{}, fmt.Errorf("convert raster: unexpected %T", img)
	}
	return Result{Image: raster, Threshold: uint8(t), Format: sourceFormat(data)}, nil
}

func sourceFormat(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}

// EncodePNG encodes a raster as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
