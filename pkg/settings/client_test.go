package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eizes/gis-cli/pkg/backend"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&backend.Backend{Endpoint: server.URL, SessionID: "sess"})
}

func TestFetchAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/settings" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"geoserver":{"website":{"url":"https://g"}},"umap":{"website":{"url":"https://u"}}}`)
	})

	all, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if got := all.Text(Path{"umap", "website", "url"}); got != "https://u" {
		t.Fatalf("unexpected umap url %q", got)
	}
}

func TestFetchAllUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not authenticated"}`, http.StatusUnauthorized)
	})
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchService(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settings/traccar" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"auth":{"token":"tok"}}`)
	})
	tree, err := c.Fetch(context.Background(), "traccar")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if tree.Text(Path{"auth", "token"}) != "tok" {
		t.Fatalf("unexpected tree %v", tree.Keys())
	}
}

func TestUpdateReturnsServerTree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/settings/traccar" {
			http.NotFound(w, r)
			return
		}
		sent, err := DecodeJSON(r.Body)
		if err != nil || sent.Text(Path{"auth", "token"}) != "typed" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"message":"Updated successfully","data":{"auth":{"token":"newtok"}}}`)
	})

	buf := NewGroup(Entry{"auth", NewGroup(Entry{"token", Scalar("typed")})})
	got, err := c.Update(context.Background(), "traccar", buf)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Text(Path{"auth", "token"}) != "newtok" {
		t.Fatalf("expected the server tree, got token %q", got.Text(Path{"auth", "token"}))
	}
}

func TestUpdateErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		field   string
		message string
	}{
		{"field detail", 400, `{"detail":{"field":"database.workspace","message":"Schema not found"}}`, "database.workspace", "Schema not found"},
		{"text detail", 500, `{"detail":"Database unavailable"}`, "", "Database unavailable"},
		{"message", 400, `{"message":"Invalid payload"}`, "", "Invalid payload"},
		{"request validation", 422, `{"detail":[{"loc":["body","website","url"],"msg":"field required","type":"missing"}]}`, "website.url", "field required"},
		{"plain text", 502, "bad gateway", "", "bad gateway"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			_, err := c.Update(context.Background(), "geoserver", Group{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, apiErr.Status)
			}
			if tc.field != "" {
				if apiErr.Detail == nil || apiErr.Detail.Field != tc.field || apiErr.Detail.Message != tc.message {
					t.Fatalf("unexpected detail %+v", apiErr.Detail)
				}
				return
			}
			if apiErr.Detail != nil {
				t.Fatalf("unexpected detail %+v", apiErr.Detail)
			}
			if apiErr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, apiErr.Message)
			}
		})
	}
}

func TestValidateWorkspace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/settings/geoserver/validate-workspace" {
			http.NotFound(w, r)
			return
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, ok := req["db_password"]; ok {
			http.Error(w, "password should be omitted", http.StatusBadRequest)
			return
		}
		if req["db_port"].(float64) != 5432 {
			http.Error(w, "bad port", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(WorkspaceResult{Exists: false, Message: "Schema not found", Workspace: req["workspace"].(string)})
	})

	res, err := c.ValidateWorkspace(context.Background(), WorkspaceRequest{
		Workspace: "geo_ws",
		DBHost:    DefaultDBHost,
		DBPort:    DefaultDBPort,
		DBName:    "gisdb",
		DBUser:    "admin",
	})
	if err != nil {
		t.Fatalf("ValidateWorkspace returned error: %v", err)
	}
	if res.Exists || res.Message != "Schema not found" || res.Workspace != "geo_ws" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	if s.Loaded() {
		t.Fatalf("new store should not be loaded")
	}
	s.Fail(errors.New("boom"))
	if s.Loaded() || s.Err() == nil {
		t.Fatalf("a failed read keeps the store loading")
	}

	s.Load(NewGroup(
		Entry{"geoserver", NewGroup(Entry{"website", NewGroup(Entry{"url", Scalar("a")})})},
		Entry{"traccar", NewGroup(Entry{"auth", NewGroup(Entry{"token", Scalar("t")})})},
	))
	if !s.Loaded() || s.Err() != nil {
		t.Fatalf("expected a loaded store")
	}

	s.Merge("traccar", NewGroup(Entry{"auth", NewGroup(Entry{"token", Scalar("newtok")})}))
	tree, ok := s.Service("traccar")
	if !ok || tree.Text(Path{"auth", "token"}) != "newtok" {
		t.Fatalf("merge not applied")
	}
	if got := s.Services(); len(got) != 2 || got[0] != "geoserver" {
		t.Fatalf("unexpected services %v", got)
	}
	if _, ok := s.Service("umap"); ok {
		t.Fatalf("umap should be missing")
	}
}
