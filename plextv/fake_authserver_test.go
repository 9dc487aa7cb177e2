package plextv

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

const legacyToken = "12345678901234567890"

var baseConfig = DefaultConfig().
	WithClientID("abc").
	WithDevice(Device{
		Product:         "TestProduct",
		Version:         "1.0",
		Platform:        "unit",
		PlatformVersion: "test",
		Device:          "dev",
		DeviceName:      "devname",
		Model:           "model",
	})

func newTestServer(cfg Config) (Config, *fakeAuthServer, *httptest.Server) {
	s := makeFakeServer(&cfg)
	ts := httptest.NewServer(s)
	cfg.URL = ts.URL
	cfg.V2URL = ts.URL
	return cfg, s, ts
}

var _ http.Handler = &fakeAuthServer{}

type fakeAuthServer struct {
	http.Handler
	config   *Config
	lock     sync.Mutex
	approved map[int]string
}

func makeFakeServer(cfg *Config) *fakeAuthServer {
	f := fakeAuthServer{
		config:   cfg,
		approved: make(map[int]string),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/pins", f.handlePIN)
	mux.HandleFunc("GET /api/v2/pins/{id}", f.handleValidatePIN)
	mux.HandleFunc("GET /api/v2/user", f.handleUser)
	mux.HandleFunc("GET /api/v2/resources", f.handleResources)
	f.Handler = mux
	return &f
}

// approve marks the pin as confirmed by the user. Subsequent validations
// return the account's token.
func (f *fakeAuthServer) approve(id int) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.approved[id] = legacyToken
}

func (f *fakeAuthServer) handlePIN(w http.ResponseWriter, r *http.Request) {
	wantHeaders := map[string]string{
		"Accept":                   "application/json",
		"X-Plex-Client-Identifier": f.config.ClientID,
		"X-Plex-Product":           f.config.Device.Product,
		"X-Plex-Version":           f.config.Device.Version,
		"X-Plex-Platform":          f.config.Device.Platform,
		"X-Plex-Platform-Version":  f.config.Device.PlatformVersion,
		"X-Plex-Device":            f.config.Device.Device,
		"X-Plex-Device-Name":       f.config.Device.DeviceName,
		"X-Plex-Model":             f.config.Device.Model,
	}
	if err := validateRequest(r, wantHeaders); err != nil {
		plexError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":               42,
		"code":             "1234",
		"expiresIn":        1800,
		"authToken":        nil,
		"clientIdentifier": f.config.ClientID,
		"product":          f.config.Device.Product,
		"createdAt":        time.Now().Format(time.RFC3339),
		"expiresAt":        time.Now().Add(30 * time.Minute).Format(time.RFC3339),
	})
}

func (f *fakeAuthServer) handleValidatePIN(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id != 42 {
		http.Error(w, "invalid pin id", http.StatusNotFound)
		return
	}
	wantHeaders := map[string]string{
		"Accept":                   "application/json",
		"X-Plex-Client-Identifier": f.config.ClientID,
	}
	if err = validateRequest(r, wantHeaders); err != nil {
		plexError(w, http.StatusBadRequest, err.Error())
		return
	}
	var authToken any
	f.lock.Lock()
	if token, ok := f.approved[id]; ok {
		authToken = token
	}
	f.lock.Unlock()
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        id,
		"code":      "1234",
		"authToken": authToken,
	})
}

func (f *fakeAuthServer) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Plex-Token") != legacyToken {
		plexUnauthorized(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":       475814,
		"uuid":     "35c1a6fd2b630943",
		"username": "listener",
		"title":    "Listener",
		"email":    "listener@example.com",
		"thumb":    "https://plex.tv/users/35c1a6fd2b630943/avatar",
	})
}

func (f *fakeAuthServer) handleResources(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Plex-Token") != legacyToken {
		plexUnauthorized(w)
		return
	}
	if v := r.URL.Query().Get("includeHttps"); v != "" && v != "1" {
		plexError(w, http.StatusBadRequest, "invalid includeHttps value")
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode([]map[string]any{
		{
			"name":             "media-server",
			"product":          "Plex Media Server",
			"clientIdentifier": "server-1",
			"accessToken":      "server-token",
			"owned":            true,
			"connections": []map[string]any{
				{"protocol": "http", "address": "192.168.0.10", "port": 32400, "uri": "http://192.168.0.10:32400", "local": true},
				{"protocol": "https", "address": "1.2.3.4", "port": 32400, "uri": "https://1-2-3-4.example.plex.direct:32400", "local": false},
			},
		},
		{
			"name":             "web-player",
			"product":          "Plex Web",
			"clientIdentifier": "player-1",
		},
	})
}

func validateRequest(r *http.Request, wantHeaders map[string]string) error {
	for k, v := range wantHeaders {
		got := r.Header.Get(k)
		if v == "*" {
			if got == "" {
				return fmt.Errorf("missing header: %s", k)
			}
		} else {
			if got != v {
				return fmt.Errorf("invalid header: %s=%s", k, got)
			}
		}
	}
	return nil
}

func plexError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{ "error": "` + msg + `" }`))
}

func plexUnauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{ "errors": [ { "code": 1001, "message": "User could not be authenticated", "status": 401 } ] }`))
}
