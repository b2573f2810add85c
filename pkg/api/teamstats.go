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

type TeamStatsController struct {
	cache    *cache.Cache
	provider provider.Provider
}

func NewTeamStatsController(cache *cache.Cache, provider provider.Provider) *TeamStatsController {
	return &TeamStatsController{
		cache:    cache,
		provider: provider,
	}
}

type teamStatsResponse struct {
	Status string                       `json:"status"`
	Data   map[string]provider.TeamStat `json:"data"`
	Season int                          `json:"season"`
}

func (s *TeamStatsController) Handle(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	season, err := strconv.Atoi(params.ByName("season"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("season must be an integer"), map[string]provider.TeamStat{})
		return
	}

	// Shared with coalesced requests; must not die with this request's
	// context.
	fetchCtx := context.WithoutCancel(r.Context())

	key := fmt.Sprintf("team_stats_%d", season)
	v, err := s.cache.GetOrFetch(key, func() (interface{}, error) {
		return s.provider.TeamStats(fetchCtx, season)
	})
	if err != nil {
		writeError(w, errorStatus(err), err, map[string]provider.TeamStat{})
		return
	}

	writeJSON(w, http.StatusOK, teamStatsResponse{
		Status: "success",
		Data:   v.(map[string]provider.TeamStat),
		Season: season,
	})
}
