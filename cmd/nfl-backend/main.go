package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"path"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/tylerb/graceful"

	redis "github.com/redis/go-redis/v9"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/pjb98/nfl-backend/pkg/api"
	"github.com/pjb98/nfl-backend/pkg/cache"
	"github.com/pjb98/nfl-backend/pkg/logger"
	"github.com/pjb98/nfl-backend/pkg/provider"
	"github.com/pjb98/nfl-backend/pkg/version"
)

func main() {
	_ = godotenv.Load(".env")
	viper.AutomaticEnv()
	viper.SetDefault("log_formatter", "text")
	viper.SetDefault("log_level", "debug")
	viper.SetDefault("addr", ":5001")
	viper.SetDefault("cache_ttl", "300s")
	viper.SetDefault("cache_dedupe", true)
	viper.SetDefault("games_url", provider.DefaultGamesURL)
	viper.SetDefault("upstream_timeout", "30s")
	viper.SetDefault("limiter", "inmem")
	viper.SetDefault("redis", "localhost:6379")

	logger.SetOutput(os.Stdout)
	logger.SetFormatter(viper.GetString("log_formatter"))
	logger.SetLevel(viper.GetString("log_level"))
	logger.AddContext("service", path.Base(os.Args[0]))
	logger.AddContext("version", version.Version)

	addr := viper.GetString("addr")
	server := &graceful.Server{
		Timeout: time.Duration(15) * time.Second,
		Server: &http.Server{
			Addr:    addr,
			Handler: loadHandler(),
		},
	}

	logger.Info("server starting at " + addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal(err)
	}
}

func loadHandler() http.Handler {

	store := cache.New(cache.Options{
		TTL:           viper.GetDuration("cache_ttl"),
		DedupeFetches: viper.GetBool("cache_dedupe"),
	})

	upstream := provider.NewNFLVerse(viper.GetString("games_url"), viper.GetDuration("upstream_timeout"))

	r := httprouter.New()
	r.GET("/", api.Home)
	r.GET("/version", api.Version)
	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	scheduleController := api.NewScheduleController(store, upstream)
	r.GET("/api/schedule/:season/:week", scheduleController.Handle)

	standingsController := api.NewStandingsController(store, upstream)
	r.GET("/api/standings/:season", standingsController.Handle)

	teamStatsController := api.NewTeamStatsController(store, upstream)
	r.GET("/api/team-stats/:season", teamStatsController.Handle)

	healthController := api.NewHealthController(store)
	r.GET("/api/health", healthController.Handle)

	limiterStore, err := loadLimiterStore()
	if err != nil {
		logger.Fatal(err)
	}
	rateLimiter := limiter.New(limiterStore, limiter.Rate{
		Period: 5 * time.Minute,
		Limit:  500,
	})

	handler := api.RateLimit(rateLimiter, r)

	return gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))(handler)
}

func loadLimiterStore() (limiter.Store, error) {
	switch viper.GetString("limiter") {
	case "inmem":
		return memory.NewStore(), nil
	case "redis":
		option, err := redis.ParseURL(fmt.Sprintf("redis://%s/0", viper.GetString("redis")))
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(option)
		return limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   "nfl",
			MaxRetry: 4,
		})
	default:
		return nil, errors.New("limiter store not supported: " + viper.GetString("limiter"))
	}
}
