package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/pjb98/nfl-backend/pkg/logger"
	"github.com/pjb98/nfl-backend/pkg/provider"
)

// errorResponse is the failure envelope shared by all endpoints. Data
// carries the endpoint's empty payload shape so clients can decode a
// constant structure.
type errorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(errors.Wrap(err, "failed to encode response"))
	}
}

func writeError(w http.ResponseWriter, status int, err error, emptyData interface{}) {
	logger.Error(err)
	writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: err.Error(),
		Data:    emptyData,
	})
}

// errorStatus maps an error from the cache/provider chain to an HTTP status.
// Upstream failures are the gateway's fault to report as such.
func errorStatus(err error) int {
	var fe *provider.FetchError
	if errors.As(err, &fe) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
