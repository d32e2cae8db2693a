package barcode

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const (
	imageWidth  = 400
	imageHeight = 120
)

// RenderCode128 encodes payload as a Code 128 barcode and returns PNG bytes
func RenderCode128(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty barcode payload")
	}

	code, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode code128: %w", err)
	}

	// Scale cannot shrink below the encoded module count, so long
	// payloads (a 36-char token is ~430 modules) widen the image
	// instead of failing.
	width := imageWidth
	if intrinsic := code.Bounds().Dx(); intrinsic > width {
		width = intrinsic
	}
	scaled, err := bc.Scale(code, width, imageHeight)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteImage renders payload and stores it under mediaDir/barcodes using
// a filename derived from the device token. Returns the relative path.
func WriteImage(mediaDir, token, payload string) (string, error) {
	data, err := RenderCode128(payload)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(mediaDir, "barcodes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir barcode dir: %w", err)
	}

	relPath := filepath.Join("barcodes", fmt.Sprintf("barcode_%s.png", token))
	if err := os.WriteFile(filepath.Join(mediaDir, relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("write barcode image: %w", err)
	}
	return relPath, nil
}
