// Package apitest runs an in-memory GIS management backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/settings"
)

// SessionID is the session accepted by a new server
const SessionID = "test-session"

// User is the identity returned by the profile endpoint
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
}

// Map is one entry of the map listing
type Map struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ShareStatus  string `json:"share_status"`
	FeatureCount int    `json:"feature_count"`
	ModifiedAt   string `json:"modified_at,omitempty"`
	ViewURL      string `json:"view_url"`
}

// Failure is a canned error response
type Failure struct {
	Status int
	Body   string
}

// Server is a fake backend. Fields may be changed between requests
// through the setters; the handlers read them under the lock.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	sessionID  string
	user       User
	settings   settings.Group
	maps       []Map
	workspaces map[string]bool
	failures   map[string]Failure
	requests   []string
}

// New starts a fake backend closed at the end of the test
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		sessionID:  SessionID,
		user:       User{Username: "admin", Email: "admin@example.org", Name: "Admin"},
		settings:   DefaultSettings(),
		workspaces: map[string]bool{},
		failures:   map[string]Failure{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// Backend returns a backend configuration pointing to the server with a valid session
func (s *Server) Backend() *backend.Backend {
	return &backend.Backend{Endpoint: s.URL, SessionID: SessionID, Timeout: 5}
}

// DefaultSettings mirrors the configuration shapes served by the real backend
func DefaultSettings() settings.Group {
	scalar := func(k, v string) settings.Entry { return settings.Entry{Key: k, Value: settings.Scalar(v)} }
	group := func(k string, e ...settings.Entry) settings.Entry {
		return settings.Entry{Key: k, Value: settings.NewGroup(e...)}
	}
	return settings.NewGroup(
		group(settings.ServiceGeoserver,
			group("website", scalar("url", "https://geo.example.org/geoserver")),
			group("database",
				scalar("host", "db"),
				scalar("port", "5432"),
				scalar("database", "gisdb"),
				scalar("user", "admin"),
				scalar("password", "secret"),
				scalar("workspace", "geo_ws"),
			),
			group("credentials", scalar("user", "geoadmin"), scalar("password", "geopass")),
		),
		group(settings.ServiceUmap,
			group("website", scalar("url", "https://umap.example.org")),
			group("database", scalar("host", "db"), scalar("port", "5432"), scalar("database", "umap"), scalar("user", "umap")),
		),
		group(settings.ServiceTraccar,
			group("website", scalar("url", "https://traccar.example.org")),
			group("auth", scalar("token", "tok-123")),
		),
	)
}

// SetSession changes the accepted session; an empty one rejects every call
func (s *Server) SetSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

// SetSettings replaces the stored configuration
func (s *Server) SetSettings(g settings.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = g
}

// Settings returns the stored configuration
func (s *Server) Settings() settings.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetMaps replaces the map listing
func (s *Server) SetMaps(maps []Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps = maps
}

// AddWorkspace registers an existing schema
func (s *Server) AddWorkspace(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[name] = true
}

// Fail makes the route identified by "METHOD /path" answer with f
func (s *Server) Fail(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// Requests returns the routes served so far as "METHOD /path"
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many times a route was called
func (s *Server) Count(route string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == route {
			n++
		}
	}
	return n
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Get("/health", s.handleHealth)
	r.Get("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/auth/logout", s.handleLogout)
		r.Get("/user/profile", s.handleProfile)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleSettings)
			r.Post("/geoserver/validate-workspace", s.handleValidateWorkspace)
			r.Get("/{service}", s.handleService)
			r.Put("/{service}", s.handleUpdate)
		})
		r.Route("/umap/maps", func(r chi.Router) {
			r.Get("/", s.handleMaps)
			r.Post("/{id}/save-to-geoserver", s.handleSaveToGeoserver)
		})
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
		s.mu.Lock()
		s.requests = append(s.requests, route)
		f, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.Status)
			fmt.Fprint(w, f.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expected := s.sessionID
		s.mu.Unlock()

		got := ""
		if c, err := r.Cookie(backend.SessionCookie); err == nil {
			got = c.Value
		} else if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			got = strings.TrimPrefix(auth, "Bearer ")
		}
		if expected == "" || got != expected {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "timestamp": "2026-10-19T10:00:00"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://sso.example.org/auth", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: backend.SessionCookie, MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Settings())
}

func (s *Server) service(w http.ResponseWriter, r *http.Request) (string, settings.Group, bool) {
	name := chi.URLParam(r, "service")
	v, ok := s.Settings().Get(name)
	tree, isGroup := v.(settings.Group)
	if !ok || !isGroup {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Service not found"})
		return name, settings.Group{}, false
	}
	return name, tree, true
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	if _, tree, ok := s.service(w, r); ok {
		writeJSON(w, http.StatusOK, tree)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.service(w, r)
	if !ok {
		return
	}
	tree, err := settings.DecodeJSON(r.Body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body"}, "msg": err.Error()}},
		})
		return
	}

	s.mu.Lock()
	s.settings = s.settings.With(name, tree)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "Updated successfully", "data": tree})
}

func (s *Server) handleValidateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req settings.WorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	exists := s.workspaces[req.Workspace]
	s.mu.Unlock()

	res := settings.WorkspaceResult{Exists: exists, Workspace: req.Workspace}
	if exists {
		res.Message = fmt.Sprintf("Workspace '%s' exists", req.Workspace)
	} else {
		res.Message = fmt.Sprintf("Workspace '%s' not found", req.Workspace)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	maps := append([]Map{}, s.maps...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"maps": maps})
}

func (s *Server) handleSaveToGeoserver(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, map[string]string{"detail": "Not implemented"})
}
