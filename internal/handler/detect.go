package handler

import (
	"encoding/json"
	"errors"
	"framedetect/internal/config"
	"framedetect/internal/logger"
	"io"
	"net/http"
)

type detectRequest struct {
	Image *string `json:"image"`
}

type detectResponse struct {
	Success        bool   `json:"success"`
	ProcessedImage string `json:"processed_image,omitempty"`
	Error          string `json:"error,omitempty"`
}

// DetectHandler handles POST /detect: one JSON image in, one annotated image out.
// Every failure is reported as {"success": false, "error": ...}.
func DetectHandler(processor ImageProcessor, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			respondJSON(w, detectResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
			return
		}

		image, err := decodeDetectRequest(w, r, cfg.MaxFrameBytes)
		if err != nil {
			logger.Warning("Invalid detect request from %s: %v", r.RemoteAddr, err)
			respondJSON(w, detectResponse{Error: err.Error()}, http.StatusInternalServerError)
			return
		}

		processed, err := processor.ProcessImage(image)
		if err != nil {
			logger.Error("Detection failed for %s: %v", r.RemoteAddr, err)
			respondJSON(w, detectResponse{Error: err.Error()}, http.StatusInternalServerError)
			return
		}

		respondJSON(w, detectResponse{Success: true, ProcessedImage: processed}, http.StatusOK)
	}
}

func decodeDetectRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, error) {
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	var req detectRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", errors.New("request body too large")
		}
		return "", errors.New("invalid JSON body: " + err.Error())
	}
	if req.Image == nil {
		return "", errors.New("missing image field")
	}
	return *req.Image, nil
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
