// Package ocr turns a binarized raster into text.
package ocr

import (
	"context"
	"image"

	"ocr-backend/internal/settings"
)

// Engine recognizes text in a two-level raster using the given settings.
// The returned text is the engine output verbatim and may be empty.
type Engine interface {
	Recognize(ctx context.Context, raster *image.Gray, s settings.Settings) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, raster *image.Gray, s settings.Settings) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, raster *image.Gray, s settings.Settings) (string, error) {
	return f(ctx, raster, s)
}
