package ai

import (
	"framedetect/internal/config"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewNetModel_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.pb")
	configPath := filepath.Join(dir, "model.pbtxt")

	_, err := NewNetModel(modelPath, configPath, 300, COCOLabels())
	if err == nil || !strings.Contains(err.Error(), "model file not found") {
		t.Errorf("Expected missing model error, got %v", err)
	}

	if err := os.WriteFile(modelPath, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write model: %v", err)
	}
	_, err = NewNetModel(modelPath, configPath, 300, COCOLabels())
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Expected missing config error, got %v", err)
	}
}

func TestNewModel_Backends(t *testing.T) {
	remote, err := NewModel(&config.Config{ModelBackend: config.BackendRemote, InferenceURL: "http://localhost:1/predict", InferenceTimeout: 1})
	if err != nil {
		t.Fatalf("NewModel(remote) failed: %v", err)
	}
	if remote.Name() != "remote" {
		t.Errorf("Expected remote backend, got %q", remote.Name())
	}
	remote.Close()

	if _, err := NewModel(&config.Config{ModelBackend: "tflite"}); err == nil {
		t.Error("Expected error for unknown backend")
	}

	_, err = NewModel(&config.Config{
		ModelBackend: config.BackendDNN,
		ModelPath:    filepath.Join(t.TempDir(), "missing.pb"),
		LabelsPath:   filepath.Join(t.TempDir(), "missing.txt"),
	})
	if err == nil {
		t.Error("Expected error for missing labels file")
	}
}

// ssdOutput builds reshaped network output, one [batch, class, conf, x1, y1, x2, y2] row per entry.
func ssdOutput(t *testing.T, rows [][ssdRowWidth]float32) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(len(rows), ssdRowWidth, gocv.MatTypeCV32F)
	for i, row := range rows {
		for j, value := range row {
			mat.SetFloatAt(i, j, value)
		}
	}
	return mat
}

func TestNetModel_ParseDetections(t *testing.T) {
	m := &NetModel{labels: Labels{1: "person", 3: "car"}}

	tests := []struct {
		name      string
		row       [ssdRowWidth]float32
		wantLabel string
		wantBox   image.Rectangle
		dropped   bool
	}{
		{
			name:    "at threshold",
			row:     [ssdRowWidth]float32{0, 1, 0.5, 0.25, 0.125, 0.75, 0.5},
			dropped: true,
		},
		{
			name:    "below threshold",
			row:     [ssdRowWidth]float32{0, 1, 0.3, 0.25, 0.125, 0.75, 0.5},
			dropped: true,
		},
		{
			name:      "just above threshold",
			row:       [ssdRowWidth]float32{0, 1, 0.51, 0.25, 0.125, 0.75, 0.5},
			wantLabel: "person",
			wantBox:   image.Rect(50, 12, 150, 50),
		},
		{
			name:      "outside frame is clamped",
			row:       [ssdRowWidth]float32{0, 3, 0.9, -0.25, -0.5, 1.5, 1.25},
			wantLabel: "car",
			wantBox:   image.Rect(0, 0, 200, 100),
		},
		{
			name:    "zero area",
			row:     [ssdRowWidth]float32{0, 1, 0.8, 0.5, 0.5, 0.5, 0.75},
			dropped: true,
		},
		{
			name:      "unknown class",
			row:       [ssdRowWidth]float32{0, 99, 0.7, 0, 0, 0.5, 0.5},
			wantLabel: "unknown_99",
			wantBox:   image.Rect(0, 0, 100, 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := ssdOutput(t, [][ssdRowWidth]float32{tt.row})
			defer output.Close()

			detections := m.parseDetections(output, 200, 100, DetectionThreshold)
			if tt.dropped {
				if len(detections) != 0 {
					t.Errorf("Expected row to be dropped, got %+v", detections)
				}
				return
			}

			if len(detections) != 1 {
				t.Fatalf("Expected 1 detection, got %d", len(detections))
			}
			d := detections[0]
			if d.Label != tt.wantLabel {
				t.Errorf("Expected label %q, got %q", tt.wantLabel, d.Label)
			}
			if d.Box != tt.wantBox {
				t.Errorf("Expected box %v, got %v", tt.wantBox, d.Box)
			}
			if math.Abs(d.Confidence-float64(tt.row[2])) > 1e-6 {
				t.Errorf("Expected confidence %v, got %v", tt.row[2], d.Confidence)
			}
		})
	}
}

func TestNetModel_ParseDetectionsKeepsModelOrder(t *testing.T) {
	m := &NetModel{labels: COCOLabels()}
	output := ssdOutput(t, [][ssdRowWidth]float32{
		{0, 3, 0.6, 0, 0, 0.5, 0.5},
		{0, 1, 0.4, 0, 0, 0.5, 0.5},
		{0, 1, 0.95, 0.5, 0.5, 1, 1},
	})
	defer output.Close()

	detections := m.parseDetections(output, 100, 100, DetectionThreshold)
	if len(detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(detections))
	}
	if detections[0].Label != "car" || detections[1].Label != "person" {
		t.Errorf("Expected car then person, got %q then %q", detections[0].Label, detections[1].Label)
	}
}
