package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestJsonHandlerEncodes(t *testing.T) {
	h := JsonHandler(zap.NewNop(), func(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
		return enc.Encode(map[string]string{"id": requestId})
	})
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set(RequestIdHeader, "fixed")
	req.Header.Set("Origin", "https://rooms.example")
	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "{\"id\":\"fixed\"}\n" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get(RequestIdHeader) != "fixed" || rec.Header().Get("Access-Control-Allow-Origin") != "https://rooms.example" {
		t.Errorf("Unexpected headers %v", rec.Header())
	}
}

func TestJsonHandlerStatusErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewStatusError(http.StatusBadRequest, errors.New("bad")), http.StatusBadRequest},
		{NewStatusError(http.StatusNotFound, errors.New("missing")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := JsonHandler(zap.NewNop(), func(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
			return c.err
		})
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != c.code {
			t.Errorf("Expected %d for %v, got %d", c.code, c.err, rec.Code)
		}
		if rec.Header().Get(RequestIdHeader) == "" {
			t.Errorf("Expected a generated request id")
		}
	}
}

func TestJsonHandlerKeepsWrittenResponse(t *testing.T) {
	h := JsonHandler(zap.NewNop(), func(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error {
		w.WriteHeader(http.StatusOK)
		return errors.New("client went away")
	})
	if rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusOK {
		t.Errorf("Expected the written status to stay, got %d", rec.Code)
	}
}

func TestStatusErrorUnwraps(t *testing.T) {
	base := errors.New("base")
	if !errors.Is(NewStatusError(http.StatusTeapot, base), base) {
		t.Errorf("Expected status error to unwrap")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATASET_URL", "https://rooms.example/rooms.json")
	t.Setenv("CACHE_TTL", "90s")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatasetUrl != "https://rooms.example/rooms.json" || cfg.CacheTTL.Seconds() != 90 {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.ListenAddress != ":8080" || cfg.Timeouts.Shutdown.Seconds() != 15 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	t.Setenv("CACHE_TTL", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Errorf("Expected an error for an invalid duration")
	}
}
