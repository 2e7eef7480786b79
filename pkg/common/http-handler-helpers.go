package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIdHeader = "X-Request-Id"

// StatusError carries the HTTP status a handler error should be answered with.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func NewStatusError(code int, err error) error {
	return &StatusError{Code: code, Err: err}
}

type trackedWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *trackedWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackedWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// JsonHandler wraps a handler that encodes its response with enc. Errors
// returned before anything was written become an error response, later
// errors are only logged.
func JsonHandler(logger *zap.Logger, fn func(w http.ResponseWriter, r *http.Request, requestId string, enc *json.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		w.Header().Set(RequestIdHeader, requestId)
		genericHeaders(w, r)

		tw := &trackedWriter{ResponseWriter: w}
		err := fn(tw, r, requestId, json.NewEncoder(tw))
		if err == nil {
			return
		}
		code := http.StatusInternalServerError
		var se *StatusError
		if errors.As(err, &se) {
			code = se.Code
		}
		if code >= http.StatusInternalServerError {
			logger.Error("error handling request", zap.String("path", r.URL.Path), zap.String("request_id", requestId), zap.Error(err))
		} else {
			logger.Debug("rejected request", zap.String("path", r.URL.Path), zap.String("request_id", requestId), zap.Error(err))
		}
		if !tw.wroteHeader {
			http.Error(w, err.Error(), code)
		}
	}
}

func genericHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
	}
	w.Header().Set("Age", "0")
}

func PublicHeaders(w http.ResponseWriter, cacheTime string) {
	w.Header().Set("Cache-Control", "public, max-age="+cacheTime)
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
