package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/eizes/gis-cli/pkg/apitest"
	"github.com/eizes/gis-cli/pkg/maps"
)

func TestMapsListEmpty(t *testing.T) {
	srv := apitest.New(t)
	configFile := writeBackendConfig(t, srv, apitest.SessionID)

	stdout, _, err := runCommand(t, "maps", "list", "--config", configFile)
	if err != nil {
		t.Fatalf("maps list returned error: %v", err)
	}
	if !strings.Contains(stdout, maps.EmptyMessage) {
		t.Fatalf("expected empty state, got: %s", stdout)
	}
}

func TestMapsListTable(t *testing.T) {
	t.Setenv("LC_ALL", "C")
	srv := apitest.New(t)
	srv.SetMaps([]apitest.Map{
		{ID: 1, Name: "Trails", ShareStatus: maps.SharePublic, FeatureCount: 12, ModifiedAt: "2026-10-01T08:30:00Z", ViewURL: "https://umap.example.org/m/1"},
		{ID: 2, Name: "Parks", ShareStatus: maps.SharePrivate, FeatureCount: 1},
	})
	configFile := writeBackendConfig(t, srv, apitest.SessionID)

	stdout, _, err := runCommand(t, "maps", "list", "--config", configFile)
	if err != nil {
		t.Fatalf("maps list returned error: %v", err)
	}
	for _, want := range []string{"NAME", "Trails", "12 features", "1 feature", "https://umap.example.org/m/1", maps.SharePrivate} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output, got: %s", want, stdout)
		}
	}
}

func TestMapsListUnauthorized(t *testing.T) {
	srv := apitest.New(t)
	configFile := writeBackendConfig(t, srv, "stale")

	_, stderr, err := runCommand(t, "maps", "list", "--config", configFile)
	if err == nil {
		t.Fatal("expected error for an expired session")
	}
	if !strings.Contains(stderr, "Could not load your maps") {
		t.Fatalf("expected error view on stderr, got: %s", stderr)
	}
}

func TestMapsPushNotImplemented(t *testing.T) {
	srv := apitest.New(t)
	configFile := writeBackendConfig(t, srv, apitest.SessionID)

	_, _, err := runCommand(t, "maps", "push", "7", "--config", configFile)
	if !errors.Is(err, maps.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	for _, r := range srv.Requests() {
		if strings.Contains(r, "save-to-geoserver") {
			t.Fatalf("placeholder must not call the backend, got %v", srv.Requests())
		}
	}
}
