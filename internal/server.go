package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spartacus-fitness/backend/internal/auth"
	"github.com/spartacus-fitness/backend/internal/config"
	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/internal/db"
	"github.com/spartacus-fitness/backend/internal/leaderboard"
	"github.com/spartacus-fitness/backend/internal/middleware"
	"github.com/spartacus-fitness/backend/internal/profiles"
	"github.com/spartacus-fitness/backend/internal/recommendations"
	"github.com/spartacus-fitness/backend/internal/stats"
	"github.com/spartacus-fitness/backend/internal/telemetry/metrics"
	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"
	"github.com/spartacus-fitness/backend/internal/workoutlog"
	"github.com/spartacus-fitness/backend/internal/workouts"
	"github.com/spartacus-fitness/backend/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	dateProvider *dates.Provider

	sessionChecker *auth.SessionChecker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("spartacus", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "spartacus-backend")
	if err != nil {
		return nil, err
	}

	return &Server{
		versionInfo:  params.VersionInfo,
		config:       params.Config,
		dbPool:       dbPool,
		redisClient:  rdb,
		dateProvider: dates.NewProvider(),

		sessionChecker: auth.NewSessionChecker(rdb),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	profilesRepo := profiles.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)

	workoutsHandler := workouts.NewHandler(workoutsRepo, s.dateProvider)
	r.HandleFunc("/api/saved-workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-saved-workouts")
	r.HandleFunc("/api/save-workout", workoutsHandler.HandleSave).Methods("POST", "OPTIONS").Name("save-workout")

	logHandler := workoutlog.NewHandler(workoutlog.NewService(
		workoutlog.NewRepo(s.dbPool),
		workoutsRepo,
		s.dateProvider,
		s.metricsManager,
	))
	r.HandleFunc("/api/log-workout", logHandler.HandleLog).Methods("POST", "OPTIONS").Name("log-workout")

	recommendationsHandler := recommendations.NewHandler(recommendations.NewService(
		recommendations.NewRepo(s.dbPool),
		profilesRepo,
		s.dateProvider,
		s.metricsManager,
	))
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	r.Handle(
		"/api/recommendations",
		middleware.RateLimit(
			reqRateLimiter,
			"recommendations",
			s.config.RecommendationsRateLimitPerMin,
			s.metricsManager,
		)(http.HandlerFunc(recommendationsHandler.HandleGet)),
	).Methods("GET", "OPTIONS").Name("recommendations")

	statsHandler := stats.NewHandler(stats.NewService(
		stats.NewRepo(s.dbPool),
		profilesRepo,
		s.dateProvider,
	))
	r.HandleFunc("/api/user-stats", statsHandler.HandleGet).Methods("GET", "OPTIONS").Name("user-stats")
	r.HandleFunc("/export/stats/csv", statsHandler.HandleExportCSV).Methods("GET", "OPTIONS").Name("export-stats")

	leaderboardHandler := leaderboard.NewHandler(leaderboard.NewRepo(s.dbPool))
	r.HandleFunc("/api/leaderboard", leaderboardHandler.HandleGet).Methods("GET", "OPTIONS").Name("leaderboard")
	r.HandleFunc("/export/leaderboard/csv", leaderboardHandler.HandleExportCSV).Methods("GET", "OPTIONS").Name("export-leaderboard")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessionChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
