package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/statesync/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return apierr.NewNotFoundError(message)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("Invalid JSON body")
	}
	return nil
}

// pathIndex parses a non-negative integer path variable
func pathIndex(r *http.Request, name string) (int, error) {
	index, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || index < 0 {
		return 0, NewInvalidRequestError(name + " must be a non-negative integer")
	}
	return index, nil
}
