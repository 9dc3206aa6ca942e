package route

import (
	"framedetect/internal/config"
	"framedetect/internal/handler"
	"framedetect/internal/logger"
	"framedetect/internal/middleware"
	"framedetect/internal/service/ai"
	wshub "framedetect/internal/service/websocket"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// dynamicHTMLHandler serves /path as <staticDir>/path.html (or /path.html as is) if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		name := filepath.Clean("/" + path)
		if !strings.HasSuffix(name, ".html") {
			name += ".html"
		}
		filePath := filepath.Join(staticDir, name)

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers the landing page, static files, the detection endpoints
// and log endpoints, and wraps the mux with the CORS middleware.
func SetupRoutes(detector *ai.DetectorService, hub *wshub.HubService, cfg *config.Config, l *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Detection endpoints
	mux.HandleFunc("/detect", handler.DetectHandler(detector, cfg, l))
	mux.HandleFunc("/socket", handler.StreamWebsocketHandler(detector, hub, cfg, l))
	mux.HandleFunc("/api/status", handler.StatusHandler(detector, hub))

	// Log endpoints
	for level, fileName := range map[string]string{
		"info":    logger.InfoFile,
		"warning": logger.WarningFile,
		"error":   logger.ErrorFile,
	} {
		mux.HandleFunc("/logs/"+level, handler.ShowLogsHandler(l, fileName))
		mux.HandleFunc("/logs/"+level+"/clear", handler.ClearLogsHandler(l, fileName))
	}

	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	return middleware.CORSMiddleware(mux)
}
