package httpapi

import (
	"encoding/json"
	"net/http"

	"jamsd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
// *jamserr.Error implements this.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeServiceError maps any error returned by the service layer to a
// status code: a jamserr-backed HTTPError maps 1:1 (spec §7), anything else
// is an unexpected failure and maps to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if he, ok := err.(HTTPError); ok {
		writeJSONError(w, he.StatusCode(), he.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
