package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", slog.String("error", err.Error()))
	}
}

// respondMessage writes the portal's plain {"message": ...} envelope.
func (s *Server) respondMessage(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

// respondServerError writes a 500 with a short error detail, matching the
// original handler's {message, error} shape.
func (s *Server) respondServerError(w http.ResponseWriter, message, detail string) {
	body := map[string]string{"message": message}
	if detail != "" {
		body["error"] = detail
	}
	s.respondJSON(w, http.StatusInternalServerError, body)
}
