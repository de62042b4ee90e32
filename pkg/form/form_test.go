package form

import (
	"reflect"
	"testing"

	"github.com/eizes/gis-cli/pkg/settings"
)

func tree(entries ...settings.Entry) settings.Group {
	return settings.NewGroup(entries...)
}

func leaf(k, v string) settings.Entry {
	return settings.Entry{Key: k, Value: settings.Scalar(v)}
}

func group(k string, entries ...settings.Entry) settings.Entry {
	return settings.Entry{Key: k, Value: tree(entries...)}
}

func TestRenderOneNodePerValue(t *testing.T) {
	cases := []struct {
		name     string
		tree     settings.Group
		sections int
		fields   int
		keys     []string
	}{
		{"empty", tree(), 0, 0, nil},
		{"flat", tree(leaf("b", "1"), leaf("a", "2")), 0, 2, []string{"b", "a"}},
		{
			"nested",
			tree(
				group("website", leaf("url", "u")),
				group("database", leaf("host", "h"), group("ssl", leaf("mode", "require"), group("certs", leaf("ca", "x")))),
				leaf("zeta", "z"),
			),
			4, 5,
			[]string{"website", "website.url", "database", "database.host", "database.ssl", "database.ssl.mode", "database.ssl.certs", "database.ssl.certs.ca", "zeta"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			nodes := Render("umap", tc.tree, Options{})
			sections, fields := Count(nodes)
			if sections != tc.sections || fields != tc.fields {
				t.Fatalf("expected %d sections and %d fields, got %d and %d", tc.sections, tc.fields, sections, fields)
			}
			var keys []string
			for _, n := range nodes {
				keys = append(keys, n.Path.Key())
			}
			if !reflect.DeepEqual(keys, tc.keys) {
				t.Fatalf("unexpected order %v", keys)
			}
		})
	}
}

func TestRenderDepthAndLabels(t *testing.T) {
	nodes := Render("umap", tree(group("website", leaf("base_url", "u"))), Options{})
	if nodes[0].Depth != 0 || nodes[1].Depth != 1 {
		t.Fatalf("unexpected depths %d %d", nodes[0].Depth, nodes[1].Depth)
	}
	if nodes[1].Label != "Base url" {
		t.Fatalf("unexpected label %q", nodes[1].Label)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		service string
		path    settings.Path
		kind    Kind
	}{
		{"traccar token", "traccar", settings.Path{"auth", "token"}, KindToken},
		{"traccar api token", "traccar", settings.Path{"auth", "api_token"}, KindToken},
		{"token outside auth", "traccar", settings.Path{"website", "token"}, KindText},
		{"token of another service", "umap", settings.Path{"auth", "token"}, KindText},
		{"password", "umap", settings.Path{"database", "password"}, KindPassword},
		{"password case insensitive", "traccar", settings.Path{"credentials", "DB_Password"}, KindPassword},
		{"workspace", "geoserver", settings.Path{"database", "workspace"}, KindWorkspace},
		{"workspace outside database", "geoserver", settings.Path{"website", "workspace"}, KindText},
		{"workspace of another service", "umap", settings.Path{"database", "workspace"}, KindText},
		{"plain", "geoserver", settings.Path{"database", "host"}, KindText},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.service, tc.path).Kind; got != tc.kind {
				t.Fatalf("expected %s, got %s", tc.kind, got)
			}
		})
	}
}

func TestRenderEditingAndMasking(t *testing.T) {
	cfg := tree(group("auth", leaf("token", "abcdef"), leaf("user", "admin")))

	view := Render("traccar", cfg, Options{})
	token := view[1]
	if !token.Disabled || !token.Masked || !token.Monospace || token.Caption == "" {
		t.Fatalf("unexpected token field in view mode: %+v", token)
	}
	if token.Display() != "******" || token.Value != "abcdef" {
		t.Fatalf("unexpected token display %q", token.Display())
	}

	edit := Render("traccar", cfg, Options{Editing: true, Revealed: map[string]bool{"auth.token": true}})
	if edit[1].Disabled || edit[1].Masked || edit[1].Display() != "abcdef" {
		t.Fatalf("unexpected revealed token field: %+v", edit[1])
	}
	if edit[2].Disabled || edit[2].Masked {
		t.Fatalf("user should be a plain editable field: %+v", edit[2])
	}
}

func TestRenderErrorBeatsFeedback(t *testing.T) {
	cfg := tree(group("database", leaf("workspace", "geo_ws"), leaf("user", "admin")))
	nodes := Render("geoserver", cfg, Options{
		Editing:  true,
		Errors:   map[string]string{"database.workspace": "Schema not found"},
		Feedback: map[string]string{"database.workspace": "Workspace exists"},
	})
	ws := nodes[1]
	if ws.Error != "Schema not found" || ws.Feedback != "" {
		t.Fatalf("expected the error to win: %+v", ws)
	}
	if ws.Action == nil || ws.Action.Disabled {
		t.Fatalf("expected an enabled validate action: %+v", ws.Action)
	}
	if nodes[2].Action != nil || nodes[2].Error != "" {
		t.Fatalf("unexpected state on user field: %+v", nodes[2])
	}

	validating := Render("geoserver", cfg, Options{Editing: true, Validating: true})
	if !validating[1].Action.Disabled {
		t.Fatalf("the action must be disabled while validating")
	}
	viewing := Render("geoserver", cfg, Options{})
	if !viewing[1].Action.Disabled {
		t.Fatalf("the action must be disabled outside edit mode")
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"abc":        "***",
		"0123456789": "********",
	}
	for in, expected := range cases {
		if got := Mask(in); got != expected {
			t.Fatalf("Mask(%q) = %q, expected %q", in, got, expected)
		}
	}
}
