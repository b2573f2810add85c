package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/pjb98/nfl-backend/pkg/cache"
)

type HealthController struct {
	cache *cache.Cache
}

func NewHealthController(cache *cache.Cache) *HealthController {
	return &HealthController{
		cache: cache,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	CacheSize int    `json:"cache_size"`
}

func (h *HealthController) Handle(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		CacheSize: h.cache.Size(),
	})
}
