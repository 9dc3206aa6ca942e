package ai

import (
	"fmt"
	"framedetect/internal/model"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// ssdRowWidth is the width of one SSD output row: [batch_id, class_id, confidence, x1, y1, x2, y2].
const ssdRowWidth = 7

// NetModel runs an SSD-style network through the OpenCV DNN module.
type NetModel struct {
	net       gocv.Net
	labels    Labels
	inputSize int
}

// NewNetModel loads the network from model/config files and sets backend/target preferences.
func NewNetModel(modelPath, configPath string, inputSize int, labels Labels) (*NetModel, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if inputSize <= 0 {
		return nil, fmt.Errorf("invalid model input size: %d", inputSize)
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network")
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	return &NetModel{net: net, labels: labels, inputSize: inputSize}, nil
}

func (m *NetModel) Name() string {
	return "dnn"
}

// Detect runs the network on frame and returns detections with confidence above threshold.
func (m *NetModel) Detect(frame gocv.Mat, threshold float64) ([]model.Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("frame is empty")
	}

	// Create blob with parameters that fit ssd coco net input
	blob := gocv.BlobFromImage(frame, 1.0/127.5, image.Pt(m.inputSize, m.inputSize), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")

	output := m.net.Forward("")
	defer output.Close()

	if output.Empty() || output.Total()%ssdRowWidth != 0 {
		return nil, fmt.Errorf("unexpected network output shape %v", output.Size())
	}

	rows := output.Reshape(1, output.Total()/ssdRowWidth)
	defer rows.Close()

	return m.parseDetections(rows, frame.Cols(), frame.Rows(), threshold), nil
}

func (m *NetModel) parseDetections(rows gocv.Mat, cols, height int, threshold float64) []model.Detection {
	results := make([]model.Detection, 0)
	for i := 0; i < rows.Rows(); i++ {
		confidence := float64(rows.GetFloatAt(i, 2))
		if confidence <= threshold {
			continue
		}

		classID := int(rows.GetFloatAt(i, 1))
		x1 := int(rows.GetFloatAt(i, 3) * float32(cols))
		y1 := int(rows.GetFloatAt(i, 4) * float32(height))
		x2 := int(rows.GetFloatAt(i, 5) * float32(cols))
		y2 := int(rows.GetFloatAt(i, 6) * float32(height))

		box := clampBox(x1, y1, x2, y2, cols, height)
		if box.Empty() {
			continue
		}

		results = append(results, model.Detection{
			Box:        box,
			Label:      m.labels.Name(classID),
			Confidence: confidence,
		})
	}
	return results
}

// Close releases the underlying network.
func (m *NetModel) Close() error {
	return m.net.Close()
}
