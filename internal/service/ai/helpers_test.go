package ai

import (
	"bytes"
	"encoding/base64"
	"errors"
	"framedetect/internal/config"
	"framedetect/internal/logger"
	"framedetect/internal/model"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"testing"

	"gocv.io/x/gocv"
)

// fakeModel returns canned detections and records how often it was called.
type fakeModel struct {
	detections []model.Detection
	err        error
	calls      int
	lastSize   image.Point
}

func (m *fakeModel) Name() string { return "fake" }

func (m *fakeModel) Detect(frame gocv.Mat, threshold float64) ([]model.Detection, error) {
	m.calls++
	m.lastSize = image.Pt(frame.Cols(), frame.Rows())
	if m.err != nil {
		return nil, m.err
	}
	return m.detections, nil
}

func (m *fakeModel) Close() error { return nil }

var errModel = errors.New("malformed tensor shape")

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	t.Cleanup(func() { l.Close() })
	return l
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeOutput checks the data URI prefix and decodes the JPEG payload.
func decodeOutput(t *testing.T, output string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	if len(output) <= len(prefix) || output[:len(prefix)] != prefix {
		t.Fatalf("Expected output to start with %q", prefix)
	}
	data, err := base64.StdEncoding.DecodeString(output[len(prefix):])
	if err != nil {
		t.Fatalf("Output payload is not base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output payload is not a valid JPEG: %v", err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
