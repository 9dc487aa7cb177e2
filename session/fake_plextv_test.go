package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/clambin/plexmusic/plextv"
)

const accountToken = "12345678901234567890"

func newFakePlexTV() (*fakePlexTV, *httptest.Server, plextv.Config) {
	f := makeFakePlexTV()
	ts := httptest.NewServer(f)
	cfg := plextv.DefaultConfig().WithClientID("test-client")
	cfg.URL = ts.URL
	cfg.V2URL = ts.URL
	return f, ts, cfg
}

var _ http.Handler = &fakePlexTV{}

type fakePlexTV struct {
	http.Handler
	lock        sync.Mutex
	approved    bool
	validations int
}

func makeFakePlexTV() *fakePlexTV {
	var f fakePlexTV
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/pins", f.handlePIN)
	mux.HandleFunc("GET /api/v2/pins/{id}", f.handleValidatePIN)
	mux.HandleFunc("GET /api/v2/user", f.handleUser)
	mux.HandleFunc("GET /api/v2/resources", f.handleResources)
	f.Handler = mux
	return &f
}

func (f *fakePlexTV) approve() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.approved = true
}

func (f *fakePlexTV) validationCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.validations
}

func (f *fakePlexTV) handlePIN(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        7,
		"code":      "ABCD",
		"expiresIn": 1800,
		"authToken": nil,
	})
}

func (f *fakePlexTV) handleValidatePIN(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") != "7" {
		http.Error(w, "invalid pin id", http.StatusNotFound)
		return
	}
	f.lock.Lock()
	f.validations++
	var authToken any
	if f.approved {
		authToken = accountToken
	}
	f.lock.Unlock()
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        7,
		"code":      "ABCD",
		"authToken": authToken,
	})
}

func (f *fakePlexTV) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Plex-Token") != accountToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":       475814,
		"uuid":     "35c1a6fd2b630943",
		"username": "listener",
		"title":    "Listener",
		"email":    "listener@example.com",
	})
}

func (f *fakePlexTV) handleResources(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Plex-Token") != accountToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode([]map[string]any{
		{
			"name":             "living-room",
			"product":          "Plex Media Server",
			"clientIdentifier": "srv-1",
			"accessToken":      "srv-1-token",
			"owned":            true,
			"connections": []map[string]any{
				{"protocol": "http", "address": "192.168.0.10", "port": 32400, "uri": "http://192.168.0.10:32400", "local": true},
				{"protocol": "https", "address": "192.168.0.10", "port": 32400, "uri": "https://local.example.plex.direct:32400", "local": true},
				{"protocol": "https", "address": "1.2.3.4", "port": 32400, "uri": "https://remote.example.plex.direct:32400", "local": false},
			},
		},
		{
			// duplicate of srv-1: must be ignored
			"name":             "living-room",
			"product":          "Plex Media Server",
			"clientIdentifier": "srv-1",
			"accessToken":      "srv-1-token",
			"connections": []map[string]any{
				{"protocol": "http", "address": "192.168.0.10", "port": 32400, "uri": "http://192.168.0.10:32400", "local": true},
			},
		},
		{
			// no connections: must be dropped
			"name":             "unreachable",
			"product":          "Plex Media Server",
			"clientIdentifier": "srv-2",
			"accessToken":      "srv-2-token",
		},
		{
			// no access token: falls back to the account token
			"name":             "shared",
			"product":          "Plex Media Server",
			"clientIdentifier": "srv-3",
			"connections": []map[string]any{
				{"protocol": "https", "address": "5.6.7.8", "port": 32400, "uri": "https://shared.example.plex.direct:32400", "local": false},
			},
		},
		{
			"name":             "web-player",
			"product":          "Plex Web",
			"clientIdentifier": "player-1",
		},
	})
}
