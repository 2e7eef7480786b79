package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/index"
	"github.com/matst80/escape-finder/pkg/storage"
	"github.com/matst80/escape-finder/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escapefinder_searches_total",
		Help: "The total number of processed room searches",
	})
	facetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escapefinder_facets_total",
		Help: "The total number of facet requests",
	})
	statsRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escapefinder_stats_total",
		Help: "The total number of stats requests",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escapefinder_cache_hits_total",
		Help: "The total number of responses served from cache",
	})
	totalRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "escapefinder_rooms_total",
		Help: "The total number of rooms in the loaded dataset",
	})
)

const DefaultCacheTTL = 5 * time.Minute

type WebServer struct {
	Loader   *storage.Loader
	Cache    Cache
	Tracking tracking.Tracking
	Logger   *zap.Logger
	CacheTTL time.Duration

	indexOnce sync.Once
	index     *index.RoomIndex
}

func NewWebServer(loader *storage.Loader, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{
		Loader:   loader,
		Cache:    NewMemoryCache(),
		Tracking: tracking.NopTracking{},
		Logger:   logger,
		CacheTTL: DefaultCacheTTL,
	}
}

// RoomIndex waits for the dataset and builds the index on first use.
func (ws *WebServer) RoomIndex(ctx context.Context) (*index.RoomIndex, error) {
	rooms, err := ws.Loader.Load(ctx)
	if err != nil {
		return nil, common.NewStatusError(http.StatusServiceUnavailable, err)
	}
	ws.indexOnce.Do(func() {
		ws.index = index.NewRoomIndex(rooms)
		totalRooms.Set(float64(ws.index.Len()))
	})
	return ws.index, nil
}

func (ws *WebServer) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if !ws.Loader.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", ws.Health)
	srv.HandleFunc("GET /api/rooms", common.JsonHandler(ws.Logger, ws.Rooms))
	srv.HandleFunc("GET /api/rooms/{id}", common.JsonHandler(ws.Logger, ws.GetRoom))
	srv.HandleFunc("GET /api/facets", common.JsonHandler(ws.Logger, ws.Facets))
	srv.HandleFunc("GET /api/markers", common.JsonHandler(ws.Logger, ws.Markers))
	srv.HandleFunc("GET /api/stats", common.JsonHandler(ws.Logger, ws.Stats))
	srv.HandleFunc("GET /api/tags/{tag}", common.JsonHandler(ws.Logger, ws.Tag))
	srv.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	return srv
}

func (ws *WebServer) Close() error {
	if ws.Tracking != nil {
		if err := ws.Tracking.Close(); err != nil {
			return err
		}
	}
	return ws.Cache.Close()
}
