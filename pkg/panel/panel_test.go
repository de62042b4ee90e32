package panel

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/eizes/gis-cli/pkg/settings"
)

type fakeUpdater struct {
	calls int
	sent  settings.Group
	tree  settings.Group
	err   error
}

func (f *fakeUpdater) Update(_ context.Context, _ string, tree settings.Group) (settings.Group, error) {
	f.calls++
	f.sent = tree
	return f.tree, f.err
}

type fakeValidator struct {
	calls int
	req   settings.WorkspaceRequest
	res   settings.WorkspaceResult
	err   error
}

func (f *fakeValidator) ValidateWorkspace(_ context.Context, req settings.WorkspaceRequest) (settings.WorkspaceResult, error) {
	f.calls++
	f.req = req
	return f.res, f.err
}

// gatedValidator holds its answer until release is closed
type gatedValidator struct {
	started chan struct{}
	release chan struct{}
	res     settings.WorkspaceResult
}

func newGatedValidator(res settings.WorkspaceResult) *gatedValidator {
	return &gatedValidator{started: make(chan struct{}), release: make(chan struct{}), res: res}
}

func (g *gatedValidator) ValidateWorkspace(ctx context.Context, _ settings.WorkspaceRequest) (settings.WorkspaceResult, error) {
	close(g.started)
	select {
	case <-g.release:
		return g.res, nil
	case <-ctx.Done():
		return settings.WorkspaceResult{}, ctx.Err()
	}
}

func scalar(k, v string) settings.Entry {
	return settings.Entry{Key: k, Value: settings.Scalar(v)}
}

func group(k string, entries ...settings.Entry) settings.Entry {
	return settings.Entry{Key: k, Value: settings.NewGroup(entries...)}
}

func geoserver() settings.Group {
	return settings.NewGroup(
		group("website", scalar("url", "https://geo")),
		group("database", scalar("workspace", "geo_ws"), scalar("database", "gisdb"), scalar("user", "admin")),
	)
}

func TestEditCancelRestoresServerValue(t *testing.T) {
	p := New("geoserver", geoserver())
	if err := p.SetField(settings.Path{"website", "url"}, "x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}

	if err := p.Edit(); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if err := p.SetField(settings.Path{"website", "url"}, "https://changed"); err != nil {
		t.Fatalf("SetField returned error: %v", err)
	}
	if p.Buffer().Text(settings.Path{"website", "url"}) != "https://changed" {
		t.Fatalf("edit not applied")
	}
	if !settings.Equal(p.Server(), geoserver()) {
		t.Fatalf("server value must not change while editing")
	}

	if err := p.Cancel(); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if p.State() != Viewing {
		t.Fatalf("expected viewing, got %s", p.State())
	}
	if !settings.Equal(p.Buffer(), geoserver()) {
		t.Fatalf("cancel must restore the server value")
	}
	if len(p.Errors()) != 0 || len(p.Feedback()) != 0 || p.Banner() != "" {
		t.Fatalf("cancel must clear errors")
	}
}

func TestSetFieldKeepsSiblings(t *testing.T) {
	p := New("geoserver", geoserver())
	_ = p.Edit()
	before := p.Buffer()
	if err := p.SetField(settings.Path{"database", "user"}, "root"); err != nil {
		t.Fatalf("SetField returned error: %v", err)
	}
	after := p.Buffer()
	for _, path := range []settings.Path{{"database", "workspace"}, {"database", "database"}, {"website", "url"}} {
		if before.Text(path) != after.Text(path) {
			t.Fatalf("%s changed", path)
		}
	}
	if before.Text(settings.Path{"database", "user"}) != "admin" {
		t.Fatalf("the previous buffer was mutated")
	}
}

func TestSetFieldRejectsUnknownPath(t *testing.T) {
	p := New("geoserver", geoserver())
	_ = p.Edit()
	for _, path := range []settings.Path{
		{"database", "worksapce"},
		{"geoserver"},
		{"database"},
		{"website", "url", "host"},
	} {
		if err := p.SetField(path, "typo"); !errors.Is(err, settings.ErrUnknownField) {
			t.Fatalf("%s: expected ErrUnknownField, got %v", path, err)
		}
	}
	if !settings.Equal(p.Buffer(), geoserver()) {
		t.Fatalf("a rejected edit must leave the buffer untouched")
	}

	u := &fakeUpdater{tree: p.Buffer()}
	if err := p.Save(context.Background(), u); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, ok := u.sent.Lookup(settings.Path{"database", "worksapce"}); ok {
		t.Fatalf("the unknown key must not be sent")
	}
}

func TestSaveSuccessReplacesBuffer(t *testing.T) {
	server := settings.NewGroup(group("auth", scalar("token", "old")))
	p := New("traccar", server)
	var merged settings.Group
	p.OnSaved(func(service string, tree settings.Group) {
		if service != "traccar" {
			t.Fatalf("unexpected service %s", service)
		}
		merged = tree
	})

	_ = p.Edit()
	_ = p.SetField(settings.Path{"auth", "token"}, "typed")
	u := &fakeUpdater{tree: settings.NewGroup(group("auth", scalar("token", "newtok")))}
	if err := p.Save(context.Background(), u); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if u.sent.Text(settings.Path{"auth", "token"}) != "typed" {
		t.Fatalf("the buffer was not sent")
	}
	if p.Buffer().Text(settings.Path{"auth", "token"}) != "newtok" {
		t.Fatalf("expected the server response in the buffer")
	}
	if p.State() != Viewing {
		t.Fatalf("expected viewing after save, got %s", p.State())
	}
	if merged.Text(settings.Path{"auth", "token"}) != "newtok" {
		t.Fatalf("OnSaved not called with the server tree")
	}
	if len(p.Errors()) != 0 || p.Banner() != "" {
		t.Fatalf("save must clear errors")
	}
}

func TestSaveFieldError(t *testing.T) {
	cases := []struct {
		name  string
		field string
		key   string
	}{
		{"dotted path", "database.workspace", "database.workspace"},
		{"service prefixed", "geoserver_workspace", "database.workspace"},
		{"bare leaf", "url", "website.url"},
		{"unknown", "other", "other"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := New("geoserver", geoserver())
			_ = p.Edit()
			_ = p.SetField(settings.Path{"website", "url"}, "typed")
			p.errors["database.user"] = "kept"

			u := &fakeUpdater{err: &settings.APIError{Status: 400, Detail: &settings.FieldDetail{Field: tc.field, Message: "Schema not found"}}}
			if err := p.Save(context.Background(), u); err == nil {
				t.Fatalf("expected an error")
			}

			expected := map[string]string{"database.user": "kept", tc.key: "Schema not found"}
			if !reflect.DeepEqual(p.Errors(), expected) {
				t.Fatalf("unexpected errors %v", p.Errors())
			}
			if p.Banner() != validationFailedBanner {
				t.Fatalf("unexpected banner %q", p.Banner())
			}
			if p.State() != Editing {
				t.Fatalf("expected editing after failure, got %s", p.State())
			}
			if p.Buffer().Text(settings.Path{"website", "url"}) != "typed" {
				t.Fatalf("the edits must survive a failed save")
			}
		})
	}
}

func TestSaveGenericErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		banner string
	}{
		{"message", &settings.APIError{Status: 500, Message: "Database unavailable"}, "Database unavailable"},
		{"no message", &settings.APIError{Status: 500}, saveFailedBanner},
		{"transport", errors.New("connection refused"), "connection refused"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := New("umap", geoserver())
			_ = p.Edit()
			_ = p.Save(context.Background(), &fakeUpdater{err: tc.err})
			if p.Banner() != tc.banner {
				t.Fatalf("expected banner %q, got %q", tc.banner, p.Banner())
			}
			if len(p.Errors()) != 0 {
				t.Fatalf("unexpected field errors %v", p.Errors())
			}
			if err := p.Cancel(); err != nil || p.State() != Viewing || p.Banner() != "" {
				t.Fatalf("cancel after a failed save should reset the panel")
			}
		})
	}
}

func TestSaveRequiresEditing(t *testing.T) {
	p := New("umap", geoserver())
	u := &fakeUpdater{}
	if err := p.Save(context.Background(), u); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
	if u.calls != 0 {
		t.Fatalf("no request expected")
	}
}

type blockingUpdater struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingUpdater) Update(_ context.Context, _ string, tree settings.Group) (settings.Group, error) {
	close(b.started)
	<-b.release
	return tree, nil
}

func TestSavingFreezesPanel(t *testing.T) {
	p := New("umap", geoserver())
	_ = p.Edit()
	b := &blockingUpdater{started: make(chan struct{}), release: make(chan struct{})}
	done := make(chan error)
	go func() { done <- p.Save(context.Background(), b) }()
	<-b.started

	if p.State() != Saving {
		t.Fatalf("expected saving, got %s", p.State())
	}
	if err := p.SetField(settings.Path{"website", "url"}, "x"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on edit, got %v", err)
	}
	if err := p.Cancel(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on cancel, got %v", err)
	}
	if err := p.Save(context.Background(), &fakeUpdater{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on a second save, got %v", err)
	}
	view := p.View()
	if view.CanSave || view.CanCancel || !view.Nodes[1].Disabled {
		t.Fatalf("controls must be disabled while saving: %+v", view)
	}

	close(b.release)
	if err := <-done; err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}

func TestValidateWorkspaceNotFound(t *testing.T) {
	p := New("geoserver", geoserver())
	_ = p.Edit()
	v := &fakeValidator{res: settings.WorkspaceResult{Exists: false, Message: "Schema not found"}}

	if _, err := p.ValidateWorkspace(context.Background(), v); err != nil {
		t.Fatalf("ValidateWorkspace returned error: %v", err)
	}
	if got := p.Errors()["database.workspace"]; got != "Schema not found" {
		t.Fatalf("expected the workspace error, got %q", got)
	}
	if v.req.DBHost != "localhost" || v.req.DBPort != 5432 || v.req.DBPassword != "" {
		t.Fatalf("unexpected defaults %+v", v.req)
	}

	// validation is advisory
	u := &fakeUpdater{tree: p.Buffer()}
	if err := p.Save(context.Background(), u); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if u.calls != 1 || p.State() != Viewing {
		t.Fatalf("save should go through")
	}
}

func TestValidateWorkspaceExists(t *testing.T) {
	p := New("geoserver", settings.NewGroup(
		group("website", scalar("url", "https://geo")),
		group("database", scalar("workspace", "geo_ws"), scalar("database", "gisdb"), scalar("user", "admin"),
			scalar("host", "localhost"), scalar("port", "5432")),
	))
	_ = p.Edit()
	_ = p.SetField(settings.Path{"database", "port"}, "6543")
	_ = p.SetField(settings.Path{"database", "host"}, "db")
	p.errors["database.workspace"] = "stale"

	v := &fakeValidator{res: settings.WorkspaceResult{Exists: true, Message: "Workspace 'geo_ws' exists"}}
	if _, err := p.ValidateWorkspace(context.Background(), v); err != nil {
		t.Fatalf("ValidateWorkspace returned error: %v", err)
	}
	if _, ok := p.Errors()["database.workspace"]; ok {
		t.Fatalf("the error should be cleared")
	}
	if p.Feedback()["database.workspace"] != "Workspace 'geo_ws' exists" {
		t.Fatalf("unexpected feedback %v", p.Feedback())
	}
	if v.req.DBPort != 6543 || v.req.DBHost != "db" {
		t.Fatalf("unexpected request %+v", v.req)
	}

	nodes := p.View().Nodes
	if nodes[3].Feedback == "" {
		t.Fatalf("the feedback should be rendered on the workspace field: %+v", nodes[3])
	}
}

func TestValidateWorkspaceFailsClosed(t *testing.T) {
	p := New("geoserver", geoserver())
	_ = p.Edit()
	v := &fakeValidator{err: errors.New("connection refused")}
	res, err := p.ValidateWorkspace(context.Background(), v)
	if err != nil {
		t.Fatalf("ValidateWorkspace returned error: %v", err)
	}
	if res.Exists {
		t.Fatalf("a failed call must report a missing workspace")
	}
	if p.Errors()["database.workspace"] != "connection refused" {
		t.Fatalf("unexpected errors %v", p.Errors())
	}
	if p.Validating() {
		t.Fatalf("validation should be finished")
	}
}

func TestValidateWorkspaceMissingParams(t *testing.T) {
	for _, key := range []string{"workspace", "database", "user"} {
		key := key
		t.Run(key, func(t *testing.T) {
			p := New("geoserver", geoserver())
			_ = p.Edit()
			_ = p.SetField(settings.Path{"database", key}, " ")
			v := &fakeValidator{}
			if _, err := p.ValidateWorkspace(context.Background(), v); !errors.Is(err, ErrMissingDatabaseParams) {
				t.Fatalf("expected ErrMissingDatabaseParams, got %v", err)
			}
			if v.calls != 0 {
				t.Fatalf("no request expected")
			}
		})
	}
}

func TestValidateWorkspaceDroppedAfterCancel(t *testing.T) {
	tests := []struct {
		name   string
		reedit bool
		result settings.WorkspaceResult
	}{
		{"cancel with missing workspace", false, settings.WorkspaceResult{Exists: false, Message: "Schema not found"}},
		{"cancel with existing workspace", false, settings.WorkspaceResult{Exists: true, Message: "Workspace 'geo_ws' exists"}},
		{"cancel then edit again", true, settings.WorkspaceResult{Exists: false, Message: "Schema not found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("geoserver", geoserver())
			_ = p.Edit()
			v := newGatedValidator(tt.result)

			done := make(chan error, 1)
			go func() {
				_, err := p.ValidateWorkspace(context.Background(), v)
				done <- err
			}()
			<-v.started
			if !p.Validating() {
				t.Fatal("expected the panel to be validating")
			}

			if err := p.Cancel(); err != nil {
				t.Fatalf("Cancel returned error: %v", err)
			}
			if tt.reedit {
				if err := p.Edit(); err != nil {
					t.Fatalf("Edit returned error: %v", err)
				}
			}
			close(v.release)
			if err := <-done; err != nil {
				t.Fatalf("ValidateWorkspace returned error: %v", err)
			}

			if len(p.Errors()) != 0 || len(p.Feedback()) != 0 {
				t.Fatalf("a late result must be dropped, got errors %v feedback %v", p.Errors(), p.Feedback())
			}
			if p.Validating() {
				t.Fatal("validation must not be pending after cancel")
			}
			if tt.reedit {
				next := &fakeValidator{res: settings.WorkspaceResult{Exists: true}}
				if _, err := p.ValidateWorkspace(context.Background(), next); err != nil {
					t.Fatalf("a new validation should start, got %v", err)
				}
				if next.calls != 1 {
					t.Fatalf("expected one call, got %d", next.calls)
				}
			}
		})
	}
}

func TestValidateWorkspaceRequiresEditing(t *testing.T) {
	p := New("geoserver", geoserver())
	v := &fakeValidator{}
	if _, err := p.ValidateWorkspace(context.Background(), v); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	p := New("umap", geoserver())
	next := settings.NewGroup(scalar("a", "1"))
	p.Refresh(next)
	if !settings.Equal(p.Buffer(), next) {
		t.Fatalf("the buffer should follow the server while viewing")
	}

	_ = p.Edit()
	_ = p.SetField(settings.Path{"a"}, "2")
	p.Refresh(settings.NewGroup(scalar("a", "3")))
	if p.Buffer().Text(settings.Path{"a"}) != "2" {
		t.Fatalf("edits must survive a refresh")
	}
}
