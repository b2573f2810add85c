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

type ScheduleController struct {
	cache    *cache.Cache
	provider provider.Provider
}

func NewScheduleController(cache *cache.Cache, provider provider.Provider) *ScheduleController {
	return &ScheduleController{
		cache:    cache,
		provider: provider,
	}
}

type scheduleResponse struct {
	Status string          `json:"status"`
	Data   []provider.Game `json:"data"`
	Count  int             `json:"count"`
	Season int             `json:"season"`
	Week   int             `json:"week"`
}

func (s *ScheduleController) Handle(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	season, err := strconv.Atoi(params.ByName("season"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("season must be an integer"), []provider.Game{})
		return
	}
	week, err := strconv.Atoi(params.ByName("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("week must be an integer"), []provider.Game{})
		return
	}

	// The fetch may be shared with coalesced requests for the same key, so
	// it must not die with this request's context. The adapter's own
	// timeout bounds the call.
	fetchCtx := context.WithoutCancel(r.Context())

	key := fmt.Sprintf("schedule_%d_%d", season, week)
	v, err := s.cache.GetOrFetch(key, func() (interface{}, error) {
		return s.provider.Schedule(fetchCtx, season, week)
	})
	if err != nil {
		writeError(w, errorStatus(err), err, []provider.Game{})
		return
	}

	games := v.([]provider.Game)
	writeJSON(w, http.StatusOK, scheduleResponse{
		Status: "success",
		Data:   games,
		Count:  len(games),
		Season: season,
		Week:   week,
	})
}
