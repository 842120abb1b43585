package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error envelope rendered on every failure:
// {"error": {"type": ..., "message": ..., "code": ...}}
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error any `json:"error"`
}

// ResponseJSON writes an arbitrary JSON payload with the given status code.
func ResponseJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, payload any) {
	ResponseJSON(w, http.StatusOK, payload)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, payload any) {
	ResponseJSON(w, http.StatusCreated, payload)
}

// ------------- Error responses -------------

// ResponseError writes the standard error envelope.
func ResponseError(w http.ResponseWriter, code int, errType, message string) {
	ResponseJSON(w, code, errorEnvelope{Error: ErrorBody{
		Type:    errType,
		Message: message,
		Code:    code,
	}})
}

// ResponseValidationError renders the field-level validation map:
// {"error": {"field": "message", ...}}
func ResponseValidationError(w http.ResponseWriter, fields map[string]string) {
	ResponseJSON(w, http.StatusBadRequest, errorEnvelope{Error: fields})
}

// ResponseInternalError renders the fixed generic 500 body. Internal
// detail never reaches the client through this path.
func ResponseInternalError(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusInternalServerError, errorEnvelope{Error: ErrorBody{
		Type:    "InternalServerError",
		Message: "An unexpected error occurred.",
	}})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, "Unauthorized", message)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, "NotFound", message)
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadRequest, "BadRequest", message)
}
