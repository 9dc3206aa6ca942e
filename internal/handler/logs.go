package handler

import (
	"framedetect/internal/logger"
	"net/http"
	"os"
	"path/filepath"
)

// ShowLogsHandler serves one level log file as plain text.
func ShowLogsHandler(l *logger.Logger, fileName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveLogFile(w, r, l.Dir(), fileName)
	}
}

// ClearLogsHandler rotates one level log file. Only POST is accepted.
func ClearLogsHandler(l *logger.Logger, fileName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		l.CleanLogs(fileName)
		w.WriteHeader(http.StatusNoContent)
	}
}

// serveLogFile serves a single log file
func serveLogFile(w http.ResponseWriter, r *http.Request, logDir, filename string) {
	filePath := filepath.Join(logDir, filename)

	// Sprawdź czy plik istnieje
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}
