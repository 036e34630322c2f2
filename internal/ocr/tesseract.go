package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"ocr-backend/internal/imageproc"
	"ocr-backend/internal/settings"
)

var errNilRaster = errors.New("nil raster")

// TesseractEngine runs Tesseract through gosseract, one client per call.
type TesseractEngine struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// NewTesseractEngine returns an engine. An empty tessdataPrefix leaves
// Tesseract's own lookup (TESSDATA_PREFIX or the compiled-in path) in effect.
func NewTesseractEngine(tessdataPrefix string) *TesseractEngine {
	return &TesseractEngine{
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}
}

// Recognize encodes raster as PNG and runs a single recognition pass.
// The context is only checked before the engine starts.
func (e *TesseractEngine) Recognize(ctx context.Context, raster *image.Gray, s settings.Settings) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if raster == nil {
		return "", errNilRaster
	}
	data, err := imageproc.EncodePNG(raster)
	if err != nil {
		return "", fmt.Errorf("encode raster: %w", err)
	}

	cfgPath, err := writeEngineModeConfig(s.OEM)
	if err != nil {
		return "", err
	}
	defer os.Remove(cfgPath)

	c := e.clientFactory()
	defer c.Close()

	if err := e.configure(c, cfgPath, s); err != nil {
		return "", err
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// configure applies settings to a fresh client. The page segmentation mode
// goes through a variable because gosseract applies variables after Init,
// which resets anything set on the API before it.
func (e *TesseractEngine) configure(c *gosseract.Client, cfgPath string, s settings.Settings) error {
	c.Trim = false
	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetConfigFile(cfgPath); err != nil {
		return fmt.Errorf("set engine mode %d: %w", s.OEM, err)
	}
	if err := c.SetLanguage(s.Lang); err != nil {
		return fmt.Errorf("set language %q: %w", s.Lang, err)
	}
	if err := c.SetVariable(pageSegModeVar, strconv.Itoa(s.PSM)); err != nil {
		return fmt.Errorf("set page seg mode %d: %w", s.PSM, err)
	}
	return nil
}

const pageSegModeVar = gosseract.SettableVariable("tessedit_pageseg_mode")

// writeEngineModeConfig writes a Tesseract config file selecting the OCR
// engine mode. tessedit_ocr_engine_mode can only be set at init time.
func writeEngineModeConfig(oem int) (string, error) {
	f, err := os.CreateTemp("", "ocr-oem-*.cfg")
	if err != nil {
		return "", fmt.Errorf("create engine config: %w", err)
	}
	if _, err := fmt.Fprintf(f, "tessedit_ocr_engine_mode %d\n", oem); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write engine config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close engine config: %w", err)
	}
	return f.Name(), nil
}
