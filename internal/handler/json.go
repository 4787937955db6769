// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/filora/filora-site/internal/service"
	"github.com/filora/filora-site/internal/store"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	writeJSONStatus(w, http.StatusOK, data)
}

// writeJSONCreated writes a 201 JSON success response.
func writeJSONCreated(w http.ResponseWriter, data map[string]any) {
	writeJSONStatus(w, http.StatusCreated, data)
}

func writeJSONStatus(w http.ResponseWriter, statusCode int, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	writeJSON(w, statusCode, data)
}

// writeServiceError maps a service or store error to a JSON error response.
// entity names the record in the client-facing message.
func writeServiceError(w http.ResponseWriter, err error, entity string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "validation failed",
			"fields":  ve.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		writeJSONError(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, store.ErrInvalidReference):
		writeJSONError(w, http.StatusUnprocessableEntity, entity+" references a missing record")
	case errors.Is(err, store.ErrUnavailable):
		slog.Error("store unavailable", "entity", entity, "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		slog.Error("request failed", "entity", entity, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// decodeJSON reads a JSON request body into v. Unknown fields and trailing
// data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if dec.More() {
		return errors.New("decoding request body: unexpected trailing data")
	}
	return nil
}
