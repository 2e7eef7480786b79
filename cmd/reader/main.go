package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/pprof"
	"path/filepath"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/messaging"
	"github.com/matst80/escape-finder/pkg/server"
	"github.com/matst80/escape-finder/pkg/storage"
	"github.com/matst80/escape-finder/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var enableProfiling = flag.Bool("profiling", false, "enable pprof on the debug listener")

func newSource(cfg *common.Config) storage.Source {
	if cfg.DatasetUrl != "" {
		return storage.NewHttpSource(cfg.DatasetUrl)
	}
	return storage.NewDiskSource(filepath.Dir(cfg.DatasetPath), filepath.Base(cfg.DatasetPath))
}

func newCache(cfg *common.Config, logger *zap.Logger) server.Cache {
	if cfg.RedisUrl == "" {
		return server.NewMemoryCache()
	}
	cache := server.NewRedisCache(cfg.RedisUrl, cfg.RedisPassword, 0)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Hook)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("redis not reachable, using memory cache", zap.String("addr", cfg.RedisUrl), zap.Error(err))
		cache.Close()
		return server.NewMemoryCache()
	}
	return cache
}

func newTracking(cfg *common.Config, logger *zap.Logger) tracking.Tracking {
	if cfg.RabbitUrl == "" {
		return tracking.NopTracking{}
	}
	tr, err := tracking.NewRabbitTracking(messaging.RabbitConfig{Url: cfg.RabbitUrl}, logger)
	if err != nil {
		logger.Warn("failed to connect to rabbitmq for tracking", zap.Error(err))
		return tracking.NopTracking{}
	}
	return tr
}

func debugHandler(ws *server.WebServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.Health)
	mux.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

func main() {
	flag.Parse()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	source := newSource(cfg)
	loader := storage.NewLoader(source, logger)
	loader.Start()

	ws := server.NewWebServer(loader, logger)
	ws.Cache = newCache(cfg, logger)
	ws.Tracking = newTracking(cfg, logger)
	if cfg.CacheTTL > 0 {
		ws.CacheTTL = cfg.CacheTTL
	}

	api := common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: ws.ClientHandler()}, cfg.Timeouts)
	debug := common.NewServerWithTimeouts(&http.Server{Addr: cfg.DebugAddress, Handler: debugHandler(ws)}, cfg.Timeouts)

	logger.Info("serving rooms", zap.Stringer("source", source), zap.Bool("profiling", *enableProfiling))
	err = common.RunServersWithShutdown(logger, cfg.Timeouts, []*http.Server{api, debug}, func(ctx context.Context) error {
		return ws.Close()
	})
	if err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
