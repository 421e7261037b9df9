package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Envelope is the standard portal response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteData writes a 200 success envelope carrying data.
func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteMessage writes a 200 success envelope with only a message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// WriteFail writes a success:false envelope.
func WriteFail(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Envelope{Success: false, Message: message})
}

// WriteBadRequest writes a 400 failure envelope
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteFail(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 failure envelope
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteFail(w, http.StatusUnauthorized, message)
}

// WriteNotFound writes a 404 failure envelope
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteFail(w, http.StatusNotFound, message)
}
