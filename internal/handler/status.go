package handler

import "net/http"

type statusResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Clients int    `json:"clients"`
}

// StatusHandler reports service health, the model backend and the number of stream clients.
func StatusHandler(model ModelInfo, clients ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, statusResponse{
			Status:  "ok",
			Model:   model.ModelName(),
			Clients: clients.GetClientCount(),
		}, http.StatusOK)
	}
}
