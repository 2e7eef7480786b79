package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/geo"
	"github.com/matst80/escape-finder/pkg/sorting"
	"github.com/matst80/escape-finder/pkg/stats"
	"github.com/matst80/escape-finder/pkg/tracking"
	"github.com/matst80/escape-finder/pkg/types"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomsResponse struct {
	Items   []format.RoomView `json:"items"`
	Total   int               `json:"total"`
	Count   int               `json:"count"`
	Summary string            `json:"summary"`
	Pills   []string          `json:"pills"`
	Query   string            `json:"query"`
}

type MarkersResponse struct {
	Markers []geo.Marker `json:"markers"`
	Bounds  *geo.Bounds  `json:"bounds,omitempty"`
}

func badRequest(err error) error {
	return common.NewStatusError(http.StatusBadRequest, err)
}

func (ws *WebServer) Rooms(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	sr, err := types.GetSearchRequestFromRequest(r)
	if err != nil {
		return badRequest(err)
	}
	idx, err := ws.RoomIndex(r.Context())
	if err != nil {
		return err
	}
	noSearches.Inc()
	query := sr.Values().Encode()
	helper := NewCacheHelper[RoomsResponse](ws.Cache, ws.Logger)
	res, err := helper.Handle(r.Context(), "rooms:"+query, func() (RoomsResponse, error) {
		rooms := sorting.Sort(idx.Filter(&sr.Criteria), sr.SortKey)
		return RoomsResponse{
			Items:   format.RoomViews(rooms),
			Total:   idx.Len(),
			Count:   len(rooms),
			Summary: format.ResultSummary(len(rooms), idx.Len()),
			Pills:   sr.Criteria.Pills(),
			Query:   query,
		}, nil
	}, ws.CacheTTL)
	if err != nil {
		return err
	}
	ws.Tracking.TrackSearch(r.Context(), tracking.NewSearchEvent(requestId, r, sr, res.Count))
	w.Header().Set("Cache-Control", "private, stale-while-revalidate=120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func (ws *WebServer) GetRoom(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return badRequest(fmt.Errorf("invalid room id %q", r.PathValue("id")))
	}
	idx, err := ws.RoomIndex(r.Context())
	if err != nil {
		return err
	}
	room, ok := idx.Get(id)
	if !ok {
		return common.NewStatusError(http.StatusNotFound, fmt.Errorf("%w: %d", ErrRoomNotFound, id))
	}
	ws.Tracking.TrackView(r.Context(), tracking.NewViewEvent(requestId, r, id))
	common.PublicHeaders(w, "300")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(format.NewRoomView(room))
}

func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	idx, err := ws.RoomIndex(r.Context())
	if err != nil {
		return err
	}
	facetRequests.Inc()
	common.PublicHeaders(w, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(idx.Facets())
}

func (ws *WebServer) Markers(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	criteria, err := types.CriteriaFromValues(r.URL.Query())
	if err != nil {
		return badRequest(err)
	}
	idx, err := ws.RoomIndex(r.Context())
	if err != nil {
		return err
	}
	res := MarkersResponse{Markers: geo.Markers(idx.Filter(criteria))}
	if bounds, ok := geo.GetBounds(res.Markers); ok {
		res.Bounds = &bounds
	}
	w.Header().Set("Cache-Control", "private, stale-while-revalidate=120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func (ws *WebServer) Stats(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	idx, err := ws.RoomIndex(r.Context())
	if err != nil {
		return err
	}
	statsRequests.Inc()
	helper := NewCacheHelper[stats.Stats](ws.Cache, ws.Logger)
	res, err := helper.Handle(r.Context(), "stats", func() (stats.Stats, error) {
		return stats.Compute(idx.All()), nil
	}, ws.CacheTTL)
	if err != nil {
		return err
	}
	common.PublicHeaders(w, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func (ws *WebServer) Tag(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
	tag := r.PathValue("tag")
	if tag == "" {
		return badRequest(errors.New("missing tag"))
	}
	common.PublicHeaders(w, "3600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(format.NewTag(tag))
}
