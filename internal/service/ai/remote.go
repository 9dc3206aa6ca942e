package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"framedetect/internal/model"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"gocv.io/x/gocv"
)

// RemoteModel delegates inference to an external HTTP service.
//
// The service receives a multipart form with the JPEG frame in "file" and the
// threshold in "conf", and answers with
// {"detections":[{"x1":..,"y1":..,"x2":..,"y2":..,"label":"..","confidence":..}]}.
type RemoteModel struct {
	inferenceURL string
	client       *http.Client
}

type remoteDetection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type remoteResponse struct {
	Detections []remoteDetection `json:"detections"`
}

func NewRemoteModel(inferenceURL string, timeout time.Duration) *RemoteModel {
	return &RemoteModel{
		inferenceURL: inferenceURL,
		client:       &http.Client{Timeout: timeout},
	}
}

func (m *RemoteModel) Name() string {
	return "remote"
}

// Detect encodes frame as JPEG and sends it to the inference service.
func (m *RemoteModel) Detect(frame gocv.Mat, threshold float64) ([]model.Detection, error) {
	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	imageData := make([]byte, len(buf.GetBytes()))
	copy(imageData, buf.GetBytes())
	buf.Close()

	return m.predict(imageData, frame.Cols(), frame.Rows(), threshold)
}

func (m *RemoteModel) predict(imageData []byte, cols, rows int, threshold float64) ([]model.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write threshold field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]model.Detection, 0, len(result.Detections))
	for _, det := range result.Detections {
		if det.Confidence <= threshold {
			continue
		}
		box := clampBox(int(det.X1), int(det.Y1), int(det.X2), int(det.Y2), cols, rows)
		if box.Empty() {
			continue
		}
		detections = append(detections, model.Detection{
			Box:        box,
			Label:      det.Label,
			Confidence: det.Confidence,
		})
	}

	return detections, nil
}

// Close releases idle connections to the inference service.
func (m *RemoteModel) Close() error {
	m.client.CloseIdleConnections()
	return nil
}
