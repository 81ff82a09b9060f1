package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"geostats/internal/config"
	"geostats/internal/db"
	"geostats/internal/geocode"
	"geostats/internal/ingest"
	"geostats/internal/logging"
	"geostats/internal/store"
)

func Run() error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(appCfg.LogLevel, appCfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	st := openStore(ctx, appCfg, logger.Named("db"))

	svc := ingest.NewService(st, newGeocoder(appCfg, logger), logger.Named("ingest"), ingest.Options{
		Folder:          appCfg.StoreFolder,
		BaseURL:         appCfg.StoreBaseURL,
		DefaultWorkbook: appCfg.DefaultWorkbook,
	})

	srv := &Server{
		Ingest: svc,
		Store:  st,
		Logger: logger.Named("server"),
	}

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           NewRouter(srv, appCfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server listening", zap.String("addr", "http://localhost:"+appCfg.Port))
	return httpSrv.ListenAndServe()
}

// openStore connects the configured database. Without one, or when the
// connection fails, workbooks are kept in memory.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) store.Store {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Info("no database configured, keeping workbooks in memory")
		return store.NewMemory()
	}

	database, err := db.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to connect, keeping workbooks in memory", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		return store.NewMemory()
	}
	if err := database.Migrate(ctx); err != nil {
		logger.Error("migration failed", zap.Error(err))
	}
	logger.Info("database connected and migrations applied", zap.String("driver", cfg.DatabaseDriver))
	return database
}

func newGeocoder(cfg config.Config, logger *zap.Logger) geocode.Geocoder {
	if cfg.GeocoderAPIKey == "" {
		logger.Warn("GEOCODER_API_KEY not set, guessed countries will be recorded as unknown")
		return geocode.Disabled{}
	}
	timeout := time.Duration(cfg.GeocoderTimeoutMs) * time.Millisecond
	google, err := geocode.NewGoogle(cfg.GeocoderURL, cfg.GeocoderAPIKey, timeout)
	if err != nil {
		logger.Error("geocoder unavailable, guessed countries will be recorded as unknown", zap.Error(err))
		return geocode.Disabled{}
	}
	return geocode.NewCached(google, cfg.GeocoderCachePrecision)
}

// NewRouter wires the HTTP surface. Both verbs live on "/" and dispatch on
// the action parameter.
func NewRouter(srv *Server, origins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", srv.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/", srv.handlePost).Methods(http.MethodPost)
	r.HandleFunc("/health", srv.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(zap.NewStdLog(srv.Logger)))
	return recovery(cors(r))
}
