package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/pjb98/nfl-backend/pkg/cache"
	"github.com/pjb98/nfl-backend/pkg/provider"
)

type StandingsController struct {
	cache    *cache.Cache
	provider provider.Provider
}

func NewStandingsController(cache *cache.Cache, provider provider.Provider) *StandingsController {
	return &StandingsController{
		cache:    cache,
		provider: provider,
	}
}

type standingsResponse struct {
	Status string              `json:"status"`
	Data   []provider.Standing `json:"data"`
	Season int                 `json:"season"`
}

func (s *StandingsController) Handle(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	season, err := strconv.Atoi(params.ByName("season"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("season must be an integer"), []provider.Standing{})
		return
	}

	// Shared with coalesced requests; must not die with this request's
	// context.
	fetchCtx := context.WithoutCancel(r.Context())

	key := fmt.Sprintf("standings_%d", season)
	v, err := s.cache.GetOrFetch(key, func() (interface{}, error) {
		return s.provider.Standings(fetchCtx, season)
	})
	if err != nil {
		writeError(w, errorStatus(err), err, []provider.Standing{})
		return
	}

	writeJSON(w, http.StatusOK, standingsResponse{
		Status: "success",
		Data:   v.([]provider.Standing),
		Season: season,
	})
}
