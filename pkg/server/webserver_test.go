package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/stats"
	"github.com/matst80/escape-finder/pkg/storage"
	"github.com/matst80/escape-finder/pkg/tracking"
	"github.com/matst80/escape-finder/pkg/types"
)

type staticSource struct {
	rooms   []types.Room
	err     error
	release chan struct{}
}

func (s *staticSource) String() string { return "static" }

func (s *staticSource) Fetch(ctx context.Context) (*types.Dataset, error) {
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return &types.Dataset{Rooms: s.rooms}, nil
}

type recordingTracking struct {
	mu       sync.Mutex
	searches []tracking.SearchEvent
	views    []tracking.ViewEvent
}

func (t *recordingTracking) TrackSearch(_ context.Context, e tracking.SearchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.searches = append(t.searches, e)
}

func (t *recordingTracking) TrackView(_ context.Context, e tracking.ViewEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.views = append(t.views, e)
}

func (t *recordingTracking) Close() error { return nil }

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}

func testRooms() []types.Room {
	return []types.Room{
		{Id: 1, Game: "Lab", Company: "Lock Co", Status: types.StatusCompleted, Win: boolPtr(true), Date: "2022-05-01",
			Tags: []string{"best"}, Players: []string{"Ann", "Bo"},
			Location: &types.Location{City: "Austin", Region: "TX", Country: "USA", Lat: floatPtr(30.2), Lng: floatPtr(-97.7)}},
		{Id: 2, Game: "Crypt", Company: "Maple Rooms", Status: types.StatusCompleted, Win: boolPtr(false), Date: "2021-03-10",
			Notes: "Very dark", Location: &types.Location{City: "Toronto", Region: "ON", Country: "Canada"}},
		{Id: 3, Game: "Vault", Company: "Lock Co", Status: types.StatusPlanned, Date: "2023-01-01",
			Tags: []string{"online"}, Location: &types.Location{Country: "USA", Lat: floatPtr(40.7), Lng: floatPtr(-74.0)}},
	}
}

func newTestServer(src storage.Source) (*WebServer, *recordingTracking, http.Handler) {
	ws := NewWebServer(storage.NewLoader(src, nil), nil)
	tr := &recordingTracking{}
	ws.Tracking = tr
	return ws, tr, ws.ClientHandler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Could not decode response %v", err)
	}
	return v
}

func roomIds(views []format.RoomView) []int {
	ret := make([]int, len(views))
	for i, v := range views {
		ret[i] = v.Id
	}
	return ret
}

func TestRoomsDefaultSort(t *testing.T) {
	_, tr, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := get(t, h, "/api/rooms")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json; charset=UTF-8" {
		t.Errorf("Unexpected content type %s", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Errorf("Expected a request id")
	}
	res := decode[RoomsResponse](t, rec)
	if diff := cmp.Diff([]int{3, 1, 2}, roomIds(res.Items)); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if res.Total != 3 || res.Count != 3 || res.Summary != "Showing all 3 rooms" || len(res.Pills) != 0 || res.Query != "" {
		t.Errorf("Unexpected response %+v", res)
	}
	if res.Items[1].KudosPath != "/room/1" || res.Items[1].DisplayDate != "May 1, 2022" {
		t.Errorf("Unexpected view %+v", res.Items[1])
	}
	if len(tr.searches) != 1 || tr.searches[0].NumberOfResults != 3 {
		t.Errorf("Expected one tracked search, got %+v", tr.searches)
	}
}

func TestRoomsFiltered(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := get(t, h, "/api/rooms?status=completed&win=wins&unknown=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	res := decode[RoomsResponse](t, rec)
	if diff := cmp.Diff([]int{1}, roomIds(res.Items)); diff != "" {
		t.Errorf("Result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Status: completed", "Result: wins"}, res.Pills); diff != "" {
		t.Errorf("Pills mismatch (-want +got):\n%s", diff)
	}
	if res.Summary != "Showing 1 of 3 rooms" || res.Query != "status=completed&win=wins" {
		t.Errorf("Unexpected response %+v", res)
	}
}

func TestRoomsSortedByGame(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	res := decode[RoomsResponse](t, get(t, h, "/api/rooms?sort=game"))
	if diff := cmp.Diff([]int{2, 1, 3}, roomIds(res.Items)); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if res.Query != "sort=game&dir=asc" && res.Query != "dir=asc&sort=game" {
		t.Errorf("Unexpected query %s", res.Query)
	}
}

func TestRoomsAreCached(t *testing.T) {
	ws, _, h := newTestServer(&staticSource{rooms: testRooms()})
	first := get(t, h, "/api/rooms?q=lab").Body.String()
	if _, found, _ := ws.Cache.Get(context.Background(), "rooms:q=lab"); !found {
		t.Fatalf("Expected the response to be cached")
	}
	second := get(t, h, "/api/rooms?q=lab").Body.String()
	if first != second {
		t.Errorf("Expected cached response to match\n%s\n%s", first, second)
	}
}

func TestInvalidCriteriaIsBadRequest(t *testing.T) {
	_, tr, h := newTestServer(&staticSource{rooms: testRooms()})
	for _, target := range []string{"/api/rooms?status=maybe", "/api/rooms?win=draw", "/api/markers?status=maybe"} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", target, rec.Code)
		}
	}
	if len(tr.searches) != 0 {
		t.Errorf("Rejected searches must not be tracked")
	}
}

func TestGetRoom(t *testing.T) {
	_, tr, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := get(t, h, "/api/rooms/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	view := decode[format.RoomView](t, rec)
	if view.Title != "#2 Crypt" || view.StatusLabel != "✗ Locked Out" || view.DisplayPlace != "Toronto, ON, Canada" {
		t.Errorf("Unexpected view %+v", view)
	}
	if len(tr.views) != 1 || tr.views[0].Room != 2 {
		t.Errorf("Expected a tracked view, got %+v", tr.views)
	}
	if rec := get(t, h, "/api/rooms/99"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if rec := get(t, h, "/api/rooms/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestFacets(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := get(t, h, "/api/facets")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var res struct {
		Tags      []string `json:"tags"`
		Years     []string `json:"years"`
		Countries []string `json:"countries"`
		Players   []string `json:"players"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"best", "online"}, res.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2021", "2022", "2023"}, res.Years); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Canada", "USA"}, res.Countries); diff != "" {
		t.Errorf("Countries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ann", "Bo"}, res.Players); diff != "" {
		t.Errorf("Players mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkers(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	res := decode[MarkersResponse](t, get(t, h, "/api/markers"))
	if len(res.Markers) != 2 || res.Markers[0].Id != 1 || res.Markers[1].Id != 3 {
		t.Fatalf("Unexpected markers %+v", res.Markers)
	}
	if res.Markers[0].Color != "#e6b84f" || res.Markers[1].Color != "#60a5fa" {
		t.Errorf("Unexpected colors %s %s", res.Markers[0].Color, res.Markers[1].Color)
	}
	if res.Bounds == nil || res.Bounds.NorthEast.Lat != 40.7 || res.Bounds.SouthWest.Lng != -97.7 {
		t.Errorf("Unexpected bounds %+v", res.Bounds)
	}

	empty := decode[MarkersResponse](t, get(t, h, "/api/markers?country=Canada"))
	if len(empty.Markers) != 0 || empty.Bounds != nil {
		t.Errorf("Expected no markers and no bounds, got %+v", empty)
	}
}

func TestStats(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := get(t, h, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	res := decode[stats.Stats](t, rec)
	expected := stats.Summary{Total: 2, Wins: 1, WinRate: 50, Regions: 2, Countries: 2, Companies: 2, Years: 3}
	if diff := cmp.Diff(expected, res.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestTag(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	res := decode[format.Tag](t, get(t, h, "/api/tags/boston-2023"))
	if diff := cmp.Diff(format.Tag{Tag: "boston-2023", Kind: format.TagTrip, Label: "Boston 2023"}, res); diff != "" {
		t.Errorf("Tag mismatch (-want +got):\n%s", diff)
	}
}

func TestHealthWaitsForLoad(t *testing.T) {
	src := &staticSource{rooms: testRooms(), release: make(chan struct{})}
	ws, _, h := newTestServer(src)
	ws.Loader.Start()
	if rec := get(t, h, "/health"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 while loading, got %d", rec.Code)
	}
	close(src.release)
	if _, err := ws.Loader.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if rec := get(t, h, "/health"); rec.Code != http.StatusOK {
		t.Errorf("Expected 200 once loaded, got %d", rec.Code)
	}
}

func TestLoadFailureIsUnavailable(t *testing.T) {
	_, _, h := newTestServer(&staticSource{err: errors.New("disk on fire")})
	if rec := get(t, h, "/api/rooms"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
	if rec := get(t, h, "/health"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after a failed load, got %d", rec.Code)
	}
}

func TestOptions(t *testing.T) {
	_, _, h := newTestServer(&staticSource{rooms: testRooms()})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "https://rooms.example")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected 202, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://rooms.example" {
		t.Errorf("Expected CORS origin header")
	}
}
