package ai

import (
	"errors"
	"fmt"
	"framedetect/internal/logger"
	"framedetect/internal/model"
	"framedetect/internal/service/codec"
	"sync"

	"gocv.io/x/gocv"
)

// DetectionThreshold is the minimum confidence for a detection to be reported.
const DetectionThreshold = 0.5

// Every ProcessImage failure wraps exactly one of these.
var (
	ErrDecode    = errors.New("failed to decode image")
	ErrInference = errors.New("inference failed")
	ErrEncode    = errors.New("failed to encode image")
)

var errModelClosed = errors.New("model is closed")

// DetectorService owns the shared model and turns one image into the same image
// with detections drawn on it. Model calls are serialized, the rest of the
// pipeline runs concurrently.
type DetectorService struct {
	model     Model
	threshold float64
	mu        sync.Mutex
	closed    bool
	logger    *logger.Logger
}

// NewDetectorService wraps m with the fixed DetectionThreshold.
func NewDetectorService(m Model, logger *logger.Logger) *DetectorService {
	return &DetectorService{
		model:     m,
		threshold: DetectionThreshold,
		logger:    logger,
	}
}

// ModelName reports which backend serves inference.
func (s *DetectorService) ModelName() string {
	return s.model.Name()
}

// ProcessImage decodes a base64 or data URI image, runs detection, draws the
// results and returns the annotated frame as a JPEG data URI.
func (s *DetectorService) ProcessImage(input string) (string, error) {
	payload, err := codec.ParseImage(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	frame, err := gocv.IMDecode(payload.Data, gocv.IMReadColor)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer frame.Close()

	if frame.Empty() {
		return "", fmt.Errorf("%w: data is not a valid image (%d bytes, %s form)", ErrDecode, len(payload.Data), payload.Form)
	}

	detections, err := s.detect(frame)
	if err != nil {
		return "", err
	}

	annotated := frame.Clone()
	defer annotated.Close()

	if err := DrawDetections(&annotated, detections); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}

	buf, err := gocv.IMEncode(".jpg", annotated)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	if len(encoded) == 0 {
		return "", fmt.Errorf("%w: encoder returned no data", ErrEncode)
	}

	return codec.EncodeJPEG(encoded), nil
}

func (s *DetectorService) detect(frame gocv.Mat) ([]model.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: %w", ErrInference, errModelClosed)
	}

	detections, err := s.model.Detect(frame, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	for _, detection := range detections {
		s.logger.Info("Detected %s", LabelText(detection))
	}
	return detections, nil
}

// Close releases the model. Frames processed afterwards fail with ErrInference.
func (s *DetectorService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.model.Close()
}
