package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("Response encoding failed", "error", err)
	}
}

func badRequest(w http.ResponseWriter, details []ErrorDetail) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errorBody{
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Details: details,
	}})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: errorBody{
		Code:    "UNAUTHORIZED_ERROR",
		Message: "Unauthorized",
	}})
}

func notFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: errorBody{
		Code:    "NOT_FOUND_ERROR",
		Message: resource + " not found",
	}})
}

func serverError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errorBody{
		Code:    "SERVER_ERROR",
		Message: "Internal server error",
	}})
}
