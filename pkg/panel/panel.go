package panel

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/eizes/gis-cli/pkg/form"
	"github.com/eizes/gis-cli/pkg/settings"
)

// State of a settings panel
type State int

const (
	// Viewing shows the last saved configuration read-only
	Viewing State = iota
	// Editing lets the user change the edit buffer
	Editing
	// Saving waits for the backend to store the buffer
	Saving
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

const (
	validationFailedBanner = "Validation failed"
	saveFailedBanner       = "Failed to save settings"
	workspaceMissingMsg    = "Workspace does not exist"
	workspaceFoundMsg      = "Workspace exists"
)

var (
	// ErrBusy is returned while a save or a validation is in flight
	ErrBusy = errors.New("an operation is already in progress")
	// ErrNotEditing is returned by edit operations outside edit mode
	ErrNotEditing = errors.New("the panel is not in edit mode")
	// ErrMissingDatabaseParams blocks a workspace validation without workspace, database and user
	ErrMissingDatabaseParams = errors.New("workspace, database and user are required to validate the workspace")
)

// Updater stores the configuration of a service
type Updater interface {
	Update(ctx context.Context, service string, tree settings.Group) (settings.Group, error)
}

// WorkspaceValidator checks the existence of a workspace schema
type WorkspaceValidator interface {
	ValidateWorkspace(ctx context.Context, req settings.WorkspaceRequest) (settings.WorkspaceResult, error)
}

// Panel holds the edit lifecycle of one service configuration. The buffer
// is only replaced through the panel methods.
type Panel struct {
	mu sync.Mutex

	service string
	server  settings.Group
	buffer  settings.Group
	state   State

	errors   map[string]string
	feedback map[string]string
	revealed map[string]bool
	banner   string

	validating bool
	// epoch changes on cancel so late validation results are dropped
	epoch int

	onSaved func(service string, tree settings.Group)
}

// New returns a panel in view mode showing tree
func New(service string, tree settings.Group) *Panel {
	return &Panel{
		service:  service,
		server:   tree,
		buffer:   tree,
		errors:   map[string]string{},
		feedback: map[string]string{},
		revealed: map[string]bool{},
	}
}

// OnSaved registers a callback receiving the server's tree after every successful save
func (p *Panel) OnSaved(fn func(service string, tree settings.Group)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSaved = fn
}

// Service returns the service name
func (p *Panel) Service() string {
	return p.service
}

// State returns the current state
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Buffer returns the tree currently displayed
func (p *Panel) Buffer() settings.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer
}

// Server returns the last configuration known to be stored in the backend
func (p *Panel) Server() settings.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.server
}

// Errors returns a copy of the field error map
func (p *Panel) Errors() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyMap(p.errors)
}

// Feedback returns a copy of the positive field messages
func (p *Panel) Feedback() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyMap(p.feedback)
}

// Banner returns the panel wide error message
func (p *Panel) Banner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

// Validating reports whether a workspace validation is in flight
func (p *Panel) Validating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.validating
}

// Refresh updates the server known value. The buffer follows it unless the user is editing.
func (p *Panel) Refresh(tree settings.Group) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.server = tree
	if p.state == Viewing {
		p.buffer = tree
	}
}

// Edit enters edit mode seeding the buffer from the server known value
func (p *Panel) Edit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case Saving:
		return ErrBusy
	case Editing:
		return nil
	}
	p.buffer = p.server
	p.state = Editing
	return nil
}

// SetField replaces the leaf at path and clears its error
func (p *Panel) SetField(path settings.Path, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Saving {
		return ErrBusy
	}
	if p.state != Editing {
		return ErrNotEditing
	}
	current, found := p.buffer.Lookup(path)
	if _, leaf := current.(settings.Scalar); !found || !leaf {
		return settings.ErrUnknownField
	}
	updated, err := settings.Set(p.buffer, path, settings.Scalar(value))
	if err != nil {
		return err
	}
	p.buffer = updated
	delete(p.errors, path.Key())
	return nil
}

// Cancel drops the edits and returns to view mode
func (p *Panel) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Saving {
		return ErrBusy
	}
	p.buffer = p.server
	p.state = Viewing
	p.errors = map[string]string{}
	p.feedback = map[string]string{}
	p.banner = ""
	p.validating = false
	p.epoch++
	return nil
}

// ToggleReveal shows or hides a masked field
func (p *Panel) ToggleReveal(path settings.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := path.Key()
	p.revealed[id] = !p.revealed[id]
}

// Save sends the buffer to the backend. On success the server's answer
// becomes the buffer and the panel returns to view mode; on failure the
// panel stays editable and the error is mapped to a field or the banner.
func (p *Panel) Save(ctx context.Context, u Updater) error {
	snapshot, err := p.beginSave()
	if err != nil {
		return err
	}
	tree, err := u.Update(ctx, p.service, snapshot)
	return p.finishSave(tree, err)
}

func (p *Panel) beginSave() (settings.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Saving || p.validating {
		return settings.Group{}, ErrBusy
	}
	if p.state != Editing {
		return settings.Group{}, ErrNotEditing
	}
	p.state = Saving
	p.banner = ""
	return p.buffer, nil
}

func (p *Panel) finishSave(tree settings.Group, err error) error {
	p.mu.Lock()
	if err != nil {
		p.state = Editing
		p.failSave(err)
		p.mu.Unlock()
		return err
	}
	p.server = tree
	p.buffer = tree
	p.state = Viewing
	p.errors = map[string]string{}
	p.feedback = map[string]string{}
	p.banner = ""
	onSaved := p.onSaved
	p.mu.Unlock()

	if onSaved != nil {
		onSaved(p.service, tree)
	}
	return nil
}

func (p *Panel) failSave(err error) {
	var apiErr *settings.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != nil {
			p.errors[p.fieldKey(apiErr.Detail.Field)] = apiErr.Detail.Message
			p.banner = validationFailedBanner
			return
		}
		if apiErr.Message != "" {
			p.banner = apiErr.Message
			return
		}
		p.banner = saveFailedBanner
		return
	}
	if msg := err.Error(); msg != "" {
		p.banner = msg
		return
	}
	p.banner = saveFailedBanner
}

// fieldKey maps a backend field identifier to a field path of the buffer.
// Dotted identifiers are paths; prefixed names such as geoserver_workspace
// and bare leaf names are looked up in the buffer.
func (p *Panel) fieldKey(field string) string {
	if path := settings.ParsePath(field); len(path) > 1 {
		return path.Key()
	}
	candidates := []string{field}
	if trimmed := strings.TrimPrefix(field, p.service+"_"); trimmed != field {
		candidates = append([]string{trimmed}, candidates...)
	}
	for _, name := range candidates {
		if key := findLeaf(p.buffer, name); key != "" {
			return key
		}
	}
	return field
}

func findLeaf(tree settings.Group, name string) string {
	found := ""
	settings.Walk(tree, func(path settings.Path, v settings.Value) {
		if found != "" {
			return
		}
		if _, ok := v.(settings.Scalar); ok && path.Last() == name {
			found = path.Key()
		}
	})
	return found
}

// WorkspaceRequest builds the validation request from the buffer's
// database group. It fails without workspace, database name and user.
func (p *Panel) WorkspaceRequest() (settings.WorkspaceRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return workspaceRequest(p.buffer)
}

func workspaceRequest(buffer settings.Group) (settings.WorkspaceRequest, error) {
	db := settings.Path{"database"}
	get := func(key string) string {
		return strings.TrimSpace(buffer.Text(db.Append(key)))
	}
	req := settings.WorkspaceRequest{
		Workspace:  get("workspace"),
		DBName:     get("database"),
		DBUser:     get("user"),
		DBHost:     get("host"),
		DBPassword: buffer.Text(db.Append("password")),
		DBPort:     settings.DefaultDBPort,
	}
	if req.Workspace == "" || req.DBName == "" || req.DBUser == "" {
		return req, ErrMissingDatabaseParams
	}
	if req.DBHost == "" {
		req.DBHost = settings.DefaultDBHost
	}
	if port, err := strconv.Atoi(get("port")); err == nil && port > 0 {
		req.DBPort = port
	}
	return req, nil
}

// WorkspacePath locates the workspace field validated by ValidateWorkspace
var WorkspacePath = settings.Path{"database", "workspace"}

// ValidateWorkspace asks the backend whether the buffer's workspace exists.
// A missing workspace or any failure of the call marks the field as
// invalid; an existing one clears its error and stores a confirmation.
func (p *Panel) ValidateWorkspace(ctx context.Context, v WorkspaceValidator) (settings.WorkspaceResult, error) {
	req, epoch, err := p.beginValidate()
	if err != nil {
		return settings.WorkspaceResult{}, err
	}
	res, err := v.ValidateWorkspace(ctx, req)
	if err != nil {
		res = settings.WorkspaceResult{Exists: false, Message: err.Error(), Workspace: req.Workspace}
	}
	p.finishValidate(epoch, res)
	return res, nil
}

func (p *Panel) beginValidate() (settings.WorkspaceRequest, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Saving || p.validating {
		return settings.WorkspaceRequest{}, 0, ErrBusy
	}
	if p.state != Editing {
		return settings.WorkspaceRequest{}, 0, ErrNotEditing
	}
	req, err := workspaceRequest(p.buffer)
	if err != nil {
		return req, 0, err
	}
	p.validating = true
	return req, p.epoch, nil
}

func (p *Panel) finishValidate(epoch int, res settings.WorkspaceResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch != p.epoch {
		return
	}
	p.validating = false
	key := WorkspacePath.Key()
	if !res.Exists {
		msg := res.Message
		if msg == "" {
			msg = workspaceMissingMsg
		}
		p.errors[key] = msg
		delete(p.feedback, key)
		return
	}
	msg := res.Message
	if msg == "" {
		msg = workspaceFoundMsg
	}
	delete(p.errors, key)
	p.feedback[key] = msg
}

// View is a snapshot of the panel ready to be drawn
type View struct {
	Service    string
	State      State
	Nodes      []form.Node
	Banner     string
	Validating bool
	CanEdit    bool
	CanSave    bool
	CanCancel  bool
}

// View renders the buffer with the current panel state
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	nodes := form.Render(p.service, p.buffer, form.Options{
		Editing:    p.state == Editing,
		Errors:     p.errors,
		Feedback:   p.feedback,
		Revealed:   p.revealed,
		Validating: p.validating,
	})
	return View{
		Service:    p.service,
		State:      p.state,
		Nodes:      nodes,
		Banner:     p.banner,
		Validating: p.validating,
		CanEdit:    p.state == Viewing,
		CanSave:    p.state == Editing && !p.validating,
		CanCancel:  p.state == Editing,
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
