package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/gymlog/catalog"
	"github.com/2beens/gymlog/internal/gymlog/dashboard"
	"github.com/2beens/gymlog/internal/gymlog/ledger"
	gymlogmcp "github.com/2beens/gymlog/internal/gymlog/mcp"
	"github.com/2beens/gymlog/internal/gymlog/plans"
	"github.com/2beens/gymlog/internal/middleware"
	"github.com/2beens/gymlog/internal/misc"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
)

const (
	defaultAutocompleteCacheSizeMB = 8
	defaultAutocompleteCacheTTL    = 5 * time.Minute
	defaultLoginRateLimitPerMin    = 15
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	authService      *auth.Service
	catalogService   *catalog.Service
	ledgerService    *ledger.Service
	plansService     *plans.Service
	dashboardService *dashboard.Service
	mcpService       *gymlogmcp.ContextService

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		MaxConns:       params.Config.PostgresMaxConns,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.Config.RunMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, err
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)

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

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymlog-backend", rdb)
	if err != nil {
		return nil, err
	}

	s := newServer(params.Config, dbPool, rdb, promRegistry, params.VersionInfo)
	s.otelShutdown = otelShutdown

	return s, nil
}

// newServer wires the gymlog services on top of already connected stores.
func newServer(
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	rdb *redis.Client,
	promRegistry *prometheus.Registry,
	versionInfo string,
) *Server {
	metricsManager := metrics.NewManager("gymlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	cacheSizeMB := cfg.AutocompleteCacheSizeMB
	if cacheSizeMB <= 0 {
		cacheSizeMB = defaultAutocompleteCacheSizeMB
	}
	cacheTTL := defaultAutocompleteCacheTTL
	if cfg.AutocompleteCacheTTLSec > 0 {
		cacheTTL = time.Duration(cfg.AutocompleteCacheTTLSec) * time.Second
	}

	catalogService := catalog.NewService(
		catalog.NewRepo(dbPool),
		freecache.NewCache(cacheSizeMB*1024*1024),
		cacheTTL,
	)
	ledgerService := ledger.NewService(ledger.NewRepo(dbPool), catalogService)
	plansService := plans.NewService(plans.NewRepo(dbPool))

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: versionInfo,

		authService:      auth.NewService(auth.NewUsersRepo(dbPool), cfg.SessionTTL(), rdb),
		catalogService:   catalogService,
		ledgerService:    ledgerService,
		plansService:     plansService,
		dashboardService: dashboard.NewService(ledgerService, plansService),
		mcpService: gymlogmcp.NewContextService(
			gymlogmcp.NewPoolSchemaRepo(dbPool),
			catalogService,
			ledgerService,
			plansService,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   func() {},
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	r.HandleFunc("/", miscHandler.HandleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	r.HandleFunc("/version", miscHandler.HandleVersion).Methods("GET", "OPTIONS").Name("version")

	loginRateLimit := s.config.LoginRateLimitAllowedPerMin
	if loginRateLimit <= 0 {
		loginRateLimit = defaultLoginRateLimitPerMin
	}
	authHandler := auth.NewHandler(s.authService, s.metricsManager)
	authSubrouter := r.PathPrefix("/a").Subrouter()
	authSubrouter.HandleFunc("/register", authHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authSubrouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	// rate limit the auth endpoints to slow down password guessing
	authSubrouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"auth",
		loginRateLimit,
		s.metricsManager,
	))

	catalogHandler := catalog.NewHandler(s.catalogService)
	r.HandleFunc("/exercises", catalogHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", catalogHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/muscle-groups", catalogHandler.HandleMuscleGroups).Methods("GET", "OPTIONS").Name("muscle-groups")
	r.HandleFunc("/exercises/autocomplete", catalogHandler.HandleAutocomplete).Methods("GET", "OPTIONS").Name("autocomplete")
	r.HandleFunc("/exercises/{id:[0-9]+}", catalogHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	ledgerHandler := ledger.NewHandler(s.ledgerService, s.metricsManager)
	r.HandleFunc("/logs", ledgerHandler.HandleRecord).Methods("POST", "OPTIONS").Name("record-log")
	r.HandleFunc("/logs/recent", ledgerHandler.HandleRecent).Methods("GET", "OPTIONS").Name("recent-logs")
	r.HandleFunc("/logs/{id:[0-9]+}", ledgerHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-log")
	r.HandleFunc("/logs/{id:[0-9]+}", ledgerHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-log")
	r.HandleFunc("/progress", ledgerHandler.HandleOverview).Methods("GET", "OPTIONS").Name("progress-overview")
	r.HandleFunc("/progress/{exerciseId:[0-9]+}", ledgerHandler.HandleProgress).Methods("GET", "OPTIONS").Name("exercise-progress")
	r.HandleFunc("/progress/{exerciseId:[0-9]+}/best", ledgerHandler.HandleBest).Methods("GET", "OPTIONS").Name("exercise-best")

	plansHandler := plans.NewHandler(s.plansService, s.metricsManager)
	r.HandleFunc("/plans", plansHandler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	r.HandleFunc("/plans", plansHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-plan")
	r.HandleFunc("/plans/active", plansHandler.HandleActive).Methods("GET", "OPTIONS").Name("active-plan")
	r.HandleFunc("/plans/exercises/{id:[0-9]+}", plansHandler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-planned-exercise")
	r.HandleFunc("/plans/{id:[0-9]+}", plansHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plans/{id:[0-9]+}", plansHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-plan")
	r.HandleFunc("/plans/{id:[0-9]+}", plansHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
	r.HandleFunc("/plans/{id:[0-9]+}/exercises", plansHandler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-planned-exercise")
	r.HandleFunc("/plans/{id:[0-9]+}/reorder", plansHandler.HandleReorder).Methods("POST", "OPTIONS").Name("reorder-plan")

	dashboardHandler := dashboard.NewHandler(s.dashboardService)
	r.HandleFunc("/dashboard", dashboardHandler.HandleGet).Methods("GET", "OPTIONS").Name("dashboard")

	r.Handle("/mcp", otelhttp.NewHandler(
		gymlogmcp.NewHTTPHandler(s.mcpService),
		"mcp",
	)).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

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
}
