package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brainbuddy/portal/core"
)

// NopLogger drops everything; tests that care about log output stub
// core.Logger themselves.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

// NewConfig returns a test config pointed at the given API base URL.
func NewConfig(baseURL string) *core.Config {
	conf := &core.Config{
		AppName:  "BrainBuddy",
		Debug:    false,
		TestMode: true,
	}
	conf.API.BaseURL = baseURL
	conf.API.Timeout = 5 * time.Second
	conf.Class.Min = 1
	conf.Class.Max = 12
	conf.Health.Interval = time.Minute
	conf.Health.Timeout = time.Second
	conf.Session.TTL = time.Hour
	conf.Session.SweepInterval = time.Minute
	return conf
}

// Handler routes one API path on a FakeAPI.
type Handler func(w http.ResponseWriter, r *http.Request)

// FakeAPI is a scriptable stand-in for the remote learning API. Paths without
// a registered handler return 404 with an API-shaped error body. Hits counts
// every request, per path.
type FakeAPI struct {
	Server   *httptest.Server
	handlers map[string]Handler
	hits     map[string]*int64
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	api := &FakeAPI{
		handlers: make(map[string]Handler),
		hits:     make(map[string]*int64),
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Server.Close)
	return api
}

func (api *FakeAPI) URL() string { return api.Server.URL }

// Handle registers a handler for path. Call before serving requests.
func (api *FakeAPI) Handle(path string, h Handler) {
	api.handlers[path] = h
	api.hits[path] = new(int64)
}

// HandleJSON registers a handler that always answers 200 with body.
func (api *FakeAPI) HandleJSON(path string, body interface{}) {
	api.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, body)
	})
}

// Hits reports how many requests path has served.
func (api *FakeAPI) Hits(path string) int64 {
	n, ok := api.hits[path]
	if !ok {
		return 0
	}
	return atomic.LoadInt64(n)
}

func (api *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if h, ok := api.handlers[r.URL.Path]; ok {
		atomic.AddInt64(api.hits[r.URL.Path], 1)
		h(w, r)
		return
	}
	WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
}

func WriteJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
