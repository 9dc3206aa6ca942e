package ai

import (
	"fmt"
	"framedetect/internal/config"
	"framedetect/internal/model"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Model is the pretrained detector the service delegates inference to.
// Implementations are not required to be safe for concurrent use.
type Model interface {
	// Name identifies the backend in logs and status responses.
	Name() string
	// Detect returns detections scoring above threshold, in the order the model produced them.
	Detect(frame gocv.Mat, threshold float64) ([]model.Detection, error)
	// Close releases the model resources.
	Close() error
}

// NewModel builds the backend selected by cfg.ModelBackend.
func NewModel(cfg *config.Config) (Model, error) {
	switch cfg.ModelBackend {
	case config.BackendDNN:
		labels := COCOLabels()
		if cfg.LabelsPath != "" {
			loaded, err := LoadLabels(cfg.LabelsPath)
			if err != nil {
				return nil, err
			}
			labels = loaded
		}
		return NewNetModel(cfg.ModelPath, cfg.ConfigPath, cfg.ModelInputSize, labels)
	case config.BackendRemote:
		return NewRemoteModel(cfg.InferenceURL, time.Duration(cfg.InferenceTimeout)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown model backend: %q", cfg.ModelBackend)
	}
}

// clampBox converts corner coordinates into a rectangle kept inside the frame bounds.
func clampBox(x1, y1, x2, y2 int, cols, rows int) image.Rectangle {
	return image.Rect(x1, y1, x2, y2).Intersect(image.Rect(0, 0, cols, rows))
}
