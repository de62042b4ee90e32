package nav

import (
	"sync"

	"github.com/eizes/gis-cli/pkg/settings"
)

// Dashboard is the view identifier of the maps dashboard
const Dashboard = "dashboard"

// SettingsCategory is the expandable menu entry holding the services
const SettingsCategory = "settings"

// Item is a leaf of the menu
type Item struct {
	ID    string
	Label string
}

// Category is an expandable group of the menu
type Category struct {
	ID    string
	Label string
	Items []Item
}

// Menu is the fixed menu of the console
var Menu = []Category{
	{
		ID:    SettingsCategory,
		Label: "Settings",
		Items: []Item{
			{ID: settings.ServiceGeoserver, Label: "Geoserver"},
			{ID: settings.ServiceUmap, Label: "uMap"},
			{ID: settings.ServiceTraccar, Label: "Traccar"},
		},
	},
}

// DashboardItem is the top level entry of the maps dashboard
var DashboardItem = Item{ID: Dashboard, Label: "My maps"}

// ContentKind tells what the main area shows
type ContentKind int

const (
	// ContentPlaceholder is shown before anything is selected
	ContentPlaceholder ContentKind = iota
	// ContentLoading is shown while the selected service has no data
	ContentLoading
	// ContentPanel is the settings panel of a service
	ContentPanel
	// ContentDashboard is the maps dashboard
	ContentDashboard
)

// Content is what the main area should show
type Content struct {
	Kind    ContentKind
	Service string
	Tree    settings.Group
}

// Shell holds the menu state: which categories are open and which view is selected.
type Shell struct {
	mu       sync.Mutex
	open     map[string]bool
	selected string
}

// NewShell returns a shell with the settings category open and nothing selected
func NewShell() *Shell {
	return &Shell{open: map[string]bool{SettingsCategory: true}}
}

// Toggle opens or closes a category
func (s *Shell) Toggle(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[category] = !s.open[category]
}

// Open reports whether a category is expanded
func (s *Shell) Open(category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[category]
}

// Select changes the selected view. Selecting the dashboard collapses the settings category.
func (s *Shell) Select(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = view
	if view == Dashboard {
		s.open[SettingsCategory] = false
	}
}

// Selected returns the selected view
func (s *Shell) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Content resolves the selected view against the shared settings
func (s *Shell) Content(store *settings.Store) Content {
	selected := s.Selected()
	switch selected {
	case "":
		return Content{Kind: ContentPlaceholder}
	case Dashboard:
		return Content{Kind: ContentDashboard}
	}
	tree, ok := store.Service(selected)
	if !ok {
		return Content{Kind: ContentLoading, Service: selected}
	}
	return Content{Kind: ContentPanel, Service: selected, Tree: tree}
}

// Visible returns the menu entries to draw: the dashboard, each category
// and the items of open categories.
func (s *Shell) Visible() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []Entry{{ID: DashboardItem.ID, Label: DashboardItem.Label, Active: s.selected == Dashboard}}
	for _, c := range Menu {
		entries = append(entries, Entry{ID: c.ID, Label: c.Label, Category: true, Open: s.open[c.ID]})
		if !s.open[c.ID] {
			continue
		}
		for _, it := range c.Items {
			entries = append(entries, Entry{ID: it.ID, Label: it.Label, Level: 1, Active: s.selected == it.ID})
		}
	}
	return entries
}

// Entry is one drawn line of the menu
type Entry struct {
	ID       string
	Label    string
	Level    int
	Category bool
	Open     bool
	Active   bool
}
