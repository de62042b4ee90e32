package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/eizes/gis-cli/pkg/backend"
	"github.com/eizes/gis-cli/pkg/form"
	"github.com/eizes/gis-cli/pkg/maps"
	"github.com/eizes/gis-cli/pkg/nav"
	"github.com/eizes/gis-cli/pkg/panel"
	"github.com/eizes/gis-cli/pkg/session"
	"github.com/eizes/gis-cli/pkg/settings"
)

// ErrLoggedOut is returned by Run when the user logged out from the console
var ErrLoggedOut = errors.New("logged out")

const legendText = `[yellow]Navigation[-]
  ↑/↓  Move selection
  Enter  Open entry
  Tab  Switch pane

[yellow]Settings[-]
  Edit / Save / Cancel  Form buttons
  Ctrl+R  Show or hide a secret field
  Validate  Check the GeoServer workspace

[yellow]Maps[-]
  g  Save selected map to GeoServer

[yellow]General[-]
  r  Reload current view
  L  Log out
  q  Quit
  ?  Toggle this help`

const statusHelpText = "[yellow]Keys: [::b]q[::-] Quit · [::b]r[::-] Reload · [::b]Tab[::-] Switch pane · [::b]Ctrl+R[::-] Reveal secret · [::b]L[::-] Log out · [::b]?[::-] Help"

var mapHeaders = []string{"ID", "Name", "Sharing", "Features", "Modified"}

// Options configures the interactive console
type Options struct {
	BackendID string
	Backend   *backend.Backend
	Logger    zerolog.Logger
	// Locale formats dates of the dashboard; empty uses the environment
	Locale string
}

// Run launches the interactive terminal user interface. It returns a
// *session.LoginRequiredError when the backend rejects the session and
// ErrLoggedOut after an explicit logout.
func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return errors.New("interactive mode requires a backend")
	}

	app := tview.NewApplication()
	state := newUIState(app, opts)
	state.rootCtx = ctx

	app.SetRoot(state.pages, true)
	app.SetFocus(state.menu)
	app.SetInputCapture(state.handleKey)

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		state.mutex.Lock()
		if state.started {
			state.mutex.Unlock()
			return false
		}
		state.started = true
		state.mutex.Unlock()
		go state.authenticate(ctx)
		return false
	})

	if err := app.Run(); err != nil {
		return err
	}

	state.mutex.Lock()
	defer state.mutex.Unlock()
	return state.exitErr
}

type uiState struct {
	app       *tview.Application
	rootCtx   context.Context
	backendID string
	backend   *backend.Backend
	log       zerolog.Logger
	locale    string

	guard     *session.Guard
	client    *settings.Client
	mapClient *maps.Client
	publisher maps.Publisher

	shell  *nav.Shell
	store  *settings.Store
	panels map[string]*panel.Panel

	pages       *tview.Pages
	header      *tview.TextView
	menu        *tview.List
	content     *tview.Pages
	placeholder *tview.TextView
	loading     *tview.TextView
	banner      *tview.TextView
	form        *tview.Form
	panelView   *tview.Flex
	mapsTable   *tview.Table
	mapsError   *tview.TextView
	statusView  *tview.TextView

	mutex         *sync.Mutex
	started       bool
	user          *session.Session
	menuEntries   []nav.Entry
	fieldErrors   map[string]*tview.TextView
	mapList       []maps.Map
	legendVisible bool
	modalVisible  bool
	savedFocus    tview.Primitive
	exitErr       error
}

func newUIState(app *tview.Application, opts Options) *uiState {
	locale := opts.Locale
	if locale == "" {
		locale = maps.Locale()
	}
	mapClient := maps.NewClient(opts.Backend)
	s := &uiState{
		app:         app,
		rootCtx:     context.Background(),
		backendID:   opts.BackendID,
		backend:     opts.Backend,
		log:         opts.Logger,
		locale:      locale,
		guard:       session.NewGuard(opts.Backend),
		client:      settings.NewClient(opts.Backend),
		mapClient:   mapClient,
		publisher:   mapClient,
		shell:       nav.NewShell(),
		store:       settings.NewStore(),
		panels:      make(map[string]*panel.Panel),
		header:      tview.NewTextView().SetDynamicColors(true),
		menu:        tview.NewList().ShowSecondaryText(false),
		content:     tview.NewPages(),
		placeholder: tview.NewTextView().SetDynamicColors(true),
		loading:     tview.NewTextView().SetDynamicColors(true),
		banner:      tview.NewTextView().SetDynamicColors(true),
		form:        tview.NewForm(),
		mapsTable:   tview.NewTable().SetSelectable(true, false),
		mapsError:   tview.NewTextView().SetDynamicColors(true).SetWordWrap(true),
		statusView:  tview.NewTextView().SetDynamicColors(true),
		mutex:       &sync.Mutex{},
		fieldErrors: make(map[string]*tview.TextView),
	}

	s.header.SetText("[::b]GIS Management[::-]  Authenticating...")
	s.menu.SetBorder(true)
	s.menu.SetTitle("Menu")
	s.menu.SetSelectedFunc(func(index int, mainText, secondary string, shortcut rune) {
		s.activateMenuEntry(index)
	})

	s.placeholder.SetText("Select a service or the maps dashboard")
	s.placeholder.SetTextAlign(tview.AlignCenter)
	s.loading.SetText("[yellow]Loading settings...")
	s.loading.SetTextAlign(tview.AlignCenter)

	s.form.SetBorder(false)
	s.panelView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.banner, 1, 0, false).
		AddItem(s.form, 0, 1, true)
	s.panelView.SetBorder(true)

	s.mapsTable.SetBorder(true)
	s.mapsTable.SetTitle("My maps")
	s.mapsTable.SetFixed(1, 0)
	s.mapsError.SetBorder(true)
	s.mapsError.SetTitle("My maps")

	s.content.AddPage("placeholder", s.placeholder, true, true)
	s.content.AddPage("loading", s.loading, true, false)
	s.content.AddPage("panel", s.panelView, true, false)
	s.content.AddPage("dashboard", s.mapsTable, true, false)
	s.content.AddPage("maps-error", s.mapsError, true, false)

	statusContainer := tview.NewFlex().SetDirection(tview.FlexColumn)
	statusContainer.SetBorder(true)
	statusContainer.SetTitle("Status")
	statusContainer.AddItem(s.statusView, 0, 1, false)
	s.statusView.SetText(statusHelpText)

	layout := tview.NewFlex().
		AddItem(s.menu, 0, 1, true).
		AddItem(s.content, 0, 3, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(s.header, 1, 0, false).
		AddItem(layout, 0, 1, true).
		AddItem(statusContainer, 3, 0, false)

	s.pages = tview.NewPages()
	s.pages.AddPage("main", root, true, true)

	s.renderMenu()
	return s
}

func (s *uiState) handleKey(event *tcell.EventKey) *tcell.EventKey {
	s.mutex.Lock()
	modal := s.modalVisible
	s.mutex.Unlock()
	if modal {
		return event
	}

	// typing in a form field must not trigger shortcuts
	if _, editing := s.app.GetFocus().(*tview.InputField); editing {
		if event.Key() == tcell.KeyEsc {
			s.app.SetFocus(s.menu)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyTab, tcell.KeyBacktab:
		if s.app.GetFocus() == s.menu {
			s.focusContent()
		} else {
			s.app.SetFocus(s.menu)
		}
		return nil
	}

	switch event.Rune() {
	case 'q', 'Q':
		s.app.Stop()
		return nil
	case 'r':
		s.reload()
		return nil
	case 'L':
		s.logout()
		return nil
	case 'g':
		if s.app.GetFocus() == s.mapsTable {
			s.pushSelectedMap()
			return nil
		}
	case '?':
		s.toggleLegend()
		return nil
	}
	return event
}

func (s *uiState) queueUpdate(fn func()) {
	s.mutex.Lock()
	started := s.started
	s.mutex.Unlock()
	if !started {
		fn()
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				// queueing can fail if the application has already stopped; ignore.
			}
		}()
		s.app.QueueUpdateDraw(fn)
	}()
}

func (s *uiState) setStatus(message string) {
	s.queueUpdate(func() {
		s.statusView.SetText(message)
	})
}

func (s *uiState) stop(err error) {
	s.mutex.Lock()
	s.exitErr = err
	s.mutex.Unlock()
	s.app.Stop()
}

// authenticate gates the console on a valid session
func (s *uiState) authenticate(ctx context.Context) {
	s.setStatus("[yellow]Checking the session...")
	user, err := s.guard.Check(ctx)
	if err != nil {
		if session.IsLoginRequired(err) {
			s.log.Info().Str("backend", s.backendID).Msg("session rejected, login required")
			s.stop(err)
			return
		}
		s.log.Warn().Err(err).Msg("session check failed")
		s.queueUpdate(func() {
			s.showSessionError(ctx, err)
		})
		return
	}

	s.mutex.Lock()
	s.user = &user
	s.mutex.Unlock()
	s.queueUpdate(func() {
		s.header.SetText(formatHeader(user, s.backendID, s.backend.Endpoint))
		s.statusView.SetText(statusHelpText)
	})
	s.loadSettings(ctx)
}

func (s *uiState) showSessionError(ctx context.Context, err error) {
	s.showModal("session-error", fmt.Sprintf("Cannot verify the session:\n%v", err), []string{"Retry", "Quit"}, func(label string) {
		if label == "Retry" {
			go s.authenticate(ctx)
			return
		}
		s.stop(err)
	})
}

// loadSettings reads every service configuration into the shared store.
// A failure leaves the store loading; the status bar offers a reload.
func (s *uiState) loadSettings(ctx context.Context) {
	all, err := s.client.FetchAll(ctx)
	if err != nil {
		s.store.Fail(err)
		s.log.Warn().Err(err).Msg("settings could not be read")
		if errors.Is(err, backend.ErrUnauthorized) {
			s.setStatus("[red]The session expired, press L and log in again")
			return
		}
		s.setStatus("[yellow]Settings are not available yet, press r to reload")
		return
	}
	s.store.Load(all)
	s.log.Debug().Strs("services", s.store.Services()).Msg("settings loaded")
	s.queueUpdate(func() {
		for name, p := range s.panels {
			if tree, ok := s.store.Service(name); ok {
				p.Refresh(tree)
			}
		}
		s.showContent()
	})
}

// authenticated reports whether the session check has passed.
// Until then the menu, reload and logout are ignored.
func (s *uiState) authenticated() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.user != nil
}

func (s *uiState) reload() {
	if !s.authenticated() {
		return
	}
	switch s.shell.Selected() {
	case nav.Dashboard:
		go s.loadMaps(s.rootCtx)
	default:
		go s.loadSettings(s.rootCtx)
	}
}

func (s *uiState) logout() {
	if !s.authenticated() {
		return
	}
	s.showModal("logout", "Log out from "+s.backendID+"?", []string{"Cancel", "Log out"}, func(label string) {
		if label != "Log out" {
			return
		}
		go func() {
			if err := s.guard.Logout(s.rootCtx); err != nil {
				s.log.Warn().Err(err).Msg("logout request failed")
			}
			s.stop(ErrLoggedOut)
		}()
	})
}

func (s *uiState) renderMenu() {
	entries := s.shell.Visible()
	s.mutex.Lock()
	s.menuEntries = entries
	s.mutex.Unlock()

	current := s.menu.GetCurrentItem()
	s.menu.Clear()
	for _, e := range entries {
		s.menu.AddItem(menuLabel(e), "", 0, nil)
	}
	if current >= 0 && current < len(entries) {
		s.menu.SetCurrentItem(current)
	}
}

func (s *uiState) activateMenuEntry(index int) {
	s.mutex.Lock()
	if s.user == nil || index < 0 || index >= len(s.menuEntries) {
		s.mutex.Unlock()
		return
	}
	entry := s.menuEntries[index]
	s.mutex.Unlock()

	if entry.Category {
		s.shell.Toggle(entry.ID)
		s.renderMenu()
		return
	}
	s.shell.Select(entry.ID)
	s.renderMenu()
	s.showContent()
	if entry.ID == nav.Dashboard {
		go s.loadMaps(s.rootCtx)
	}
}

func (s *uiState) focusContent() {
	switch s.shell.Content(s.store).Kind {
	case nav.ContentPanel:
		s.app.SetFocus(s.form)
	case nav.ContentDashboard:
		s.app.SetFocus(s.mapsTable)
	}
}

func (s *uiState) showContent() {
	content := s.shell.Content(s.store)
	switch content.Kind {
	case nav.ContentPlaceholder:
		s.content.SwitchToPage("placeholder")
	case nav.ContentLoading:
		s.loading.SetText(fmt.Sprintf("[yellow]Loading the settings of %s...", content.Service))
		s.content.SwitchToPage("loading")
	case nav.ContentPanel:
		s.renderPanel(s.panelFor(content.Service, content.Tree))
		s.content.SwitchToPage("panel")
	case nav.ContentDashboard:
		s.content.SwitchToPage("dashboard")
	}
}

func (s *uiState) panelFor(service string, tree settings.Group) *panel.Panel {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if p, ok := s.panels[service]; ok {
		return p
	}
	p := panel.New(service, tree)
	p.OnSaved(s.store.Merge)
	s.panels[service] = p
	return p
}

// renderPanel rebuilds the form of a panel from its current view
func (s *uiState) renderPanel(p *panel.Panel) {
	view := p.View()
	s.panelView.SetTitle(" " + form.Label(view.Service) + " ")
	if view.Banner != "" {
		s.banner.SetText("[red]" + tview.Escape(view.Banner))
	} else {
		s.banner.SetText(stateText(view))
	}

	s.form.Clear(true)
	s.mutex.Lock()
	s.fieldErrors = make(map[string]*tview.TextView)
	s.mutex.Unlock()

	hasWorkspace := false
	for _, n := range view.Nodes {
		indent := strings.Repeat("  ", n.Depth)
		if n.Kind == form.NodeSection {
			s.form.AddTextView(indent+"[::b]"+n.Label, "", 0, 1, true, false)
			continue
		}
		if n.Action != nil {
			hasWorkspace = true
		}
		s.addField(p, view, n, indent)
	}

	switch view.State {
	case panel.Viewing:
		s.form.AddButton("Edit", func() {
			if err := p.Edit(); err != nil {
				s.setStatus("[red]" + err.Error())
				return
			}
			s.renderPanel(p)
			s.app.SetFocus(s.form)
		})
	case panel.Editing:
		if view.CanSave {
			s.form.AddButton("Save", func() { s.savePanel(p) })
		}
		if view.CanCancel {
			s.form.AddButton("Cancel", func() {
				if err := p.Cancel(); err != nil {
					s.setStatus("[red]" + err.Error())
					return
				}
				s.renderPanel(p)
			})
		}
		if hasWorkspace && !view.Validating {
			s.form.AddButton("Validate workspace", func() { s.validateWorkspace(p) })
		}
	}
}

func (s *uiState) addField(p *panel.Panel, view panel.View, n form.Node, indent string) {
	label := indent + n.Label
	if view.State != panel.Editing {
		s.form.AddTextView(label, tview.Escape(n.Display()), 0, 1, true, false)
	} else {
		path := n.Path
		input := tview.NewInputField().
			SetLabel(label).
			SetText(n.Value).
			SetFieldWidth(0)
		if n.Masked {
			input.SetMaskCharacter('*')
		}
		if n.Field.Secret() {
			input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
				if event.Key() != tcell.KeyCtrlR {
					return event
				}
				p.ToggleReveal(path)
				if maskedAfterToggle(p, path) {
					input.SetMaskCharacter('*')
				} else {
					input.SetMaskCharacter(0)
				}
				return nil
			})
		}
		input.SetChangedFunc(func(text string) {
			if err := p.SetField(path, text); err != nil {
				s.setStatus("[red]" + tview.Escape(err.Error()))
				return
			}
			s.clearFieldError(path.Key())
		})
		s.form.AddFormItem(input)
	}

	if n.Caption != "" {
		s.form.AddTextView("", "[gray]"+n.Caption, 0, 1, true, false)
	}
	switch {
	case n.Error != "":
		s.form.AddTextView("", "[red]"+tview.Escape(n.Error), 0, 1, true, false)
		if tv, ok := s.form.GetFormItem(s.form.GetFormItemCount() - 1).(*tview.TextView); ok {
			s.mutex.Lock()
			s.fieldErrors[n.Path.Key()] = tv
			s.mutex.Unlock()
		}
	case n.Feedback != "":
		s.form.AddTextView("", "[green]"+tview.Escape(n.Feedback), 0, 1, true, false)
	}
}

func maskedAfterToggle(p *panel.Panel, path settings.Path) bool {
	for _, n := range p.View().Nodes {
		if n.Kind == form.NodeField && n.Path.Key() == path.Key() {
			return n.Masked
		}
	}
	return false
}

func (s *uiState) clearFieldError(key string) {
	s.mutex.Lock()
	tv, ok := s.fieldErrors[key]
	delete(s.fieldErrors, key)
	s.mutex.Unlock()
	if ok {
		tv.SetText("")
	}
}

func (s *uiState) savePanel(p *panel.Panel) {
	s.banner.SetText("[yellow]Saving...")
	s.form.ClearButtons()
	s.statusView.SetText(fmt.Sprintf("[yellow]Saving %s...", p.Service()))
	s.app.SetFocus(s.menu)

	go func() {
		err := p.Save(s.rootCtx, s.client)
		if err != nil {
			s.log.Warn().Err(err).Str("service", p.Service()).Msg("save failed")
		} else {
			s.log.Info().Str("service", p.Service()).Msg("settings saved")
		}
		s.queueUpdate(func() {
			s.renderPanel(p)
			if err == nil {
				s.statusView.SetText(fmt.Sprintf("[green]✓ Settings of %s saved", p.Service()))
				return
			}
			if errors.Is(err, backend.ErrUnauthorized) {
				s.statusView.SetText("[red]The session expired, press L and log in again")
				return
			}
			s.statusView.SetText("[red]✗ " + tview.Escape(p.Banner()))
		})
	}()
}

func (s *uiState) validateWorkspace(p *panel.Panel) {
	if _, err := p.WorkspaceRequest(); errors.Is(err, panel.ErrMissingDatabaseParams) {
		s.showModal("prompt", "Fill in the workspace, the database name and the user of the database section before validating.", []string{"OK"}, nil)
		return
	}
	go func() {
		s.setStatus("[yellow]Validating the workspace...")
		res, err := p.ValidateWorkspace(s.rootCtx, s.client)
		s.queueUpdate(func() {
			s.renderPanel(p)
			switch {
			case err != nil:
				s.statusView.SetText("[red]" + tview.Escape(err.Error()))
			case res.Exists:
				s.statusView.SetText("[green]✓ " + tview.Escape(res.Message))
			default:
				s.statusView.SetText("[red]✗ " + tview.Escape(res.Message))
			}
		})
	}()
}

func (s *uiState) loadMaps(ctx context.Context) {
	s.queueUpdate(func() {
		setTableHeader(s.mapsTable, mapHeaders)
		fillMessageRow(s.mapsTable, len(mapHeaders), "Loading maps...")
		s.content.SwitchToPage("dashboard")
	})

	list, err := s.mapClient.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("maps could not be listed")
		view := maps.Diagnose(err)
		s.queueUpdate(func() {
			s.mapsError.SetText(formatMapsError(view))
			s.content.SwitchToPage("maps-error")
		})
		return
	}

	s.mutex.Lock()
	s.mapList = list
	s.mutex.Unlock()
	s.queueUpdate(func() {
		s.renderMapsTable(list)
		s.content.SwitchToPage("dashboard")
	})
}

func (s *uiState) renderMapsTable(list []maps.Map) {
	setTableHeader(s.mapsTable, mapHeaders)
	if len(list) == 0 {
		fillMessageRow(s.mapsTable, len(mapHeaders), maps.EmptyMessage)
		return
	}
	for i, c := range maps.Cards(list, s.locale) {
		row := i + 1
		s.mapsTable.SetCell(row, 0, tview.NewTableCell(strconv.Itoa(c.ID)))
		s.mapsTable.SetCell(row, 1, tview.NewTableCell(tview.Escape(c.Title)).SetExpansion(1))
		s.mapsTable.SetCell(row, 2, tview.NewTableCell(c.Share))
		s.mapsTable.SetCell(row, 3, tview.NewTableCell(c.Features).SetAlign(tview.AlignRight))
		s.mapsTable.SetCell(row, 4, tview.NewTableCell(c.Modified))
	}
}

func (s *uiState) pushSelectedMap() {
	row, _ := s.mapsTable.GetSelection()
	s.mutex.Lock()
	if row < 1 || row > len(s.mapList) {
		s.mutex.Unlock()
		return
	}
	m := s.mapList[row-1]
	s.mutex.Unlock()

	if err := s.publisher.SaveToGeoserver(s.rootCtx, m.ID); err != nil {
		s.setStatus("[yellow]" + tview.Escape(err.Error()))
	}
}

func (s *uiState) toggleLegend() {
	s.mutex.Lock()
	visible := s.legendVisible
	s.mutex.Unlock()
	if visible {
		s.hideModal("legend")
		return
	}
	s.showModal("legend", legendText, []string{"Close"}, nil)
	s.mutex.Lock()
	s.legendVisible = true
	s.mutex.Unlock()
}

// showModal displays a modal page; done receives the pressed button label
func (s *uiState) showModal(name, text string, buttons []string, done func(label string)) {
	s.mutex.Lock()
	if s.modalVisible {
		s.mutex.Unlock()
		return
	}
	s.modalVisible = true
	s.savedFocus = s.app.GetFocus()
	s.mutex.Unlock()

	modal := tview.NewModal().
		SetText(text).
		AddButtons(buttons)
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		s.hideModal(name)
		if done != nil {
			done(buttonLabel)
		}
	})
	s.pages.AddAndSwitchToPage(name, modal, true)
}

func (s *uiState) hideModal(name string) {
	s.mutex.Lock()
	s.modalVisible = false
	s.legendVisible = false
	focus := s.savedFocus
	s.savedFocus = nil
	s.mutex.Unlock()
	s.pages.RemovePage(name)
	if focus != nil {
		s.app.SetFocus(focus)
	}
}

func formatHeader(user session.Session, backendID, endpoint string) string {
	who := defaultIfEmpty(user.Name, user.Username)
	if user.Email != "" {
		who = fmt.Sprintf("%s (%s)", who, user.Email)
	}
	return fmt.Sprintf("[::b]GIS Management[::-]  %s  [gray]%s · %s", tview.Escape(who), tview.Escape(backendID), tview.Escape(endpoint))
}

func menuLabel(e nav.Entry) string {
	label := strings.Repeat("  ", e.Level)
	if e.Category {
		if e.Open {
			label += "▾ "
		} else {
			label += "▸ "
		}
	}
	label += e.Label
	if e.Active {
		label = "[::b]" + label + "[::-]"
	}
	return label
}

func stateText(view panel.View) string {
	switch {
	case view.State == panel.Saving:
		return "[yellow]Saving..."
	case view.Validating:
		return "[yellow]Validating the workspace..."
	case view.State == panel.Editing:
		return "[yellow]Editing · Esc leaves the form"
	default:
		return "[gray]Read only · press Edit to change the settings"
	}
}

func formatMapsError(view maps.ErrorView) string {
	var b strings.Builder
	b.WriteString("[red]" + tview.Escape(view.Message) + "[-]\n")
	if len(view.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range view.Suggestions {
			b.WriteString("  • " + tview.Escape(s) + "\n")
		}
	}
	b.WriteString("\n[yellow]Press r to retry")
	return b.String()
}

func setTableHeader(table *tview.Table, headers []string) {
	table.Clear()
	for col, header := range headers {
		cell := tview.NewTableCell(fmt.Sprintf("[::b]%s", header)).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow)
		table.SetCell(0, col, cell)
	}
}

func fillMessageRow(table *tview.Table, columns int, message string) {
	if columns <= 0 {
		columns = 1
	}
	table.SetCell(1, 0, tview.NewTableCell(message).SetSelectable(false))
	for col := 1; col < columns; col++ {
		table.SetCell(1, col, tview.NewTableCell("").SetSelectable(false))
	}
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
