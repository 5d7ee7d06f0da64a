// Package snapshot turns rendered frames into shareable images
package snapshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

const dataURLPrefix = "data:image/png;base64,"

// ErrNotDataURL is returned when decoding anything but a PNG data URL
var ErrNotDataURL = errors.New("not a PNG data URL")

// Downsample scales img to width×height with CatmullRom filtering. The
// renderers produce premultiplied RGBA, which is what the filter needs to
// avoid dark fringes at transparent edges.
func Downsample(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DataURL encodes img as a base64 PNG data URL
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes a PNG data URL produced by DataURL
func DecodeDataURL(url string) (image.Image, error) {
	payload, ok := strings.CutPrefix(url, dataURLPrefix)
	if !ok {
		return nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteWebP encodes img losslessly as WebP
func WriteWebP(w io.Writer, img image.Image) error {
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if err := nativewebp.Encode(w, nrgba, nil); err != nil {
		return fmt.Errorf("failed to encode WebP: %w", err)
	}
	return nil
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Save writes img to path, choosing WebP or PNG from the extension
func Save(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		encode = WriteWebP
	case ".png":
		encode = WritePNG
	default:
		return fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
