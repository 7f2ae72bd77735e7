package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/coffeeshop/pkg/environment"
)

// Handler serves the environment settings of one deployment target.
type Handler struct {
	cfg     environment.Config
	mux     *http.ServeMux
	handler http.Handler
}

func NewHandler(cfg environment.Config) *Handler {
	h := &Handler{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	h.setupRoutes()
	h.handler = loggingMiddleware(h.mux)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) setupRoutes() {
	h.mux.HandleFunc("/environment.json", h.handleEnvironment)
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/", h.handleNotFound)
}

// ResponseError represents an error response
type ResponseError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports liveness and the served deployment target
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, details string) {
	response := ResponseError{
		Error:   message,
		Message: details,
	}
	h.writeJSONResponse(w, status, response)
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	return false
}

// handleEnvironment returns the settings in the persisted front-end shape
func (h *Handler) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "Only GET requests are allowed")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	h.writeJSONResponse(w, http.StatusOK, h.cfg)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "Only GET requests are allowed")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Environment: h.cfg.Environment().String(),
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeErrorResponse(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
}
