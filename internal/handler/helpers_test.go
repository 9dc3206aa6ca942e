package handler

import (
	"errors"
	"framedetect/internal/config"
	"framedetect/internal/logger"
	"strings"
	"sync"
	"testing"
)

// fakeProcessor echoes the input back with a marker, or fails for inputs starting with "bad".
type fakeProcessor struct {
	mu     sync.Mutex
	inputs []string
}

var errDecode = errors.New("failed to decode image: invalid base64 payload")

func (p *fakeProcessor) ProcessImage(input string) (string, error) {
	p.mu.Lock()
	p.inputs = append(p.inputs, input)
	p.mu.Unlock()

	if strings.HasPrefix(input, "bad") {
		return "", errDecode
	}
	return "data:image/jpeg;base64,processed-" + input, nil
}

func (p *fakeProcessor) ModelName() string { return "fake" }

func (p *fakeProcessor) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inputs)
}

func newTestEnv(t *testing.T) (*config.Config, *logger.Logger) {
	t.Helper()
	cfg := &config.Config{LogDirectory: t.TempDir(), MaxFrameBytes: 1 << 20}
	l := logger.NewLogger(cfg)
	t.Cleanup(func() { l.Close() })
	return cfg, l
}
