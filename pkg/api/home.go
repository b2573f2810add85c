package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type homeResponse struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

// Home returns the service banner and the routes it serves.
func Home(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, homeResponse{
		Message: "NFL Data API Backend",
		Status:  "running",
		Endpoints: []string{
			"/api/schedule/<season>/<week>",
			"/api/standings/<season>",
			"/api/team-stats/<season>",
		},
	})
}
