package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// BackendDNN runs the model in-process through the OpenCV DNN module.
	BackendDNN = "dnn"
	// BackendRemote forwards frames to an external inference service.
	BackendRemote = "remote"
)

type Config struct {
	Port             int
	ModelBackend     string
	ModelPath        string
	ConfigPath       string
	LabelsPath       string
	ModelInputSize   int
	InferenceURL     string
	InferenceTimeout int // sekundy
	LogDirectory     string
	StaticDirectory  string
	MaxFrameBytes    int64 // limit wiadomości websocket
}

// Load reads an optional .env file and then builds the Config from the environment.
func Load() *Config {
	// brak pliku .env nie jest błędem
	_ = godotenv.Load()

	return &Config{
		Port:             getEnvAsInt("PORT", 5001),
		ModelBackend:     getEnv("MODEL_BACKEND", BackendDNN),
		ModelPath:        getEnv("MODEL_PATH", filepath.Join(".", "models", "frozen_inference_graph.pb")),
		ConfigPath:       getEnv("CONFIG_PATH", filepath.Join(".", "models", "ssd_mobilenet_v1_coco_2017_11_17.pbtxt")),
		LabelsPath:       getEnv("LABELS_PATH", ""),
		ModelInputSize:   getEnvAsInt("MODEL_INPUT_SIZE", 300),
		InferenceURL:     getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		InferenceTimeout: getEnvAsInt("INFERENCE_TIMEOUT", 30),
		LogDirectory:     getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:  getEnv("STATIC_DIR", filepath.Join(".", "static")),
		MaxFrameBytes:    getEnvAsInt64("MAX_FRAME_BYTES", 10<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
