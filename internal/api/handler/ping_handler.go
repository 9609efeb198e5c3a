package handler

import (
	"customer-service/internal/api/handler/dto"
	"net/http"
)

// Ping handles GET /ping
// @Summary Liveness ping
// @Tags Ping
// @Produce json
// @Success 200 {object} dto.PingResponse
// @Router /ping [get]
func Ping(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, dto.PingResponse{Result: "Pong"})
}

// Health handles GET /health
// @Summary Health check
// @Tags Ping
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
