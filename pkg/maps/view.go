package maps

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eizes/gis-cli/pkg/backend"
)

// EmptyMessage is shown when the user has no maps
const EmptyMessage = "No maps yet. Maps created in uMap will show up here."

// Known share statuses
const (
	SharePublic  = "Everyone (public)"
	ShareLink    = "Anyone with link"
	SharePrivate = "Editors and team only"
)

var shareIcons = map[string]string{
	SharePublic:  "🌍",
	ShareLink:    "🔗",
	SharePrivate: "🔒",
}

// ShareIcon returns the icon of a share status, or "" for unknown ones
func ShareIcon(status string) string {
	return shareIcons[status]
}

// Card is the display form of a map
type Card struct {
	ID          int
	Title       string
	Description string
	Share       string
	Features    string
	Modified    string
	URL         string
}

// Cards builds the dashboard cards of maps for the given locale
func Cards(maps []Map, locale string) []Card {
	cards := make([]Card, 0, len(maps))
	for _, m := range maps {
		share := m.ShareStatus
		if icon := ShareIcon(share); icon != "" {
			share = icon + " " + share
		}
		features := fmt.Sprintf("%d features", m.FeatureCount)
		if m.FeatureCount == 1 {
			features = "1 feature"
		}
		cards = append(cards, Card{
			ID:          m.ID,
			Title:       m.Name,
			Description: m.Description,
			Share:       share,
			Features:    features,
			Modified:    FormatDate(m.ModifiedAt, locale),
			URL:         m.ViewURL,
		})
	}
	return cards
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Locale returns the viewer's locale from the environment
func Locale() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// FormatDate formats a backend timestamp with the conventions of locale.
// Unparseable values are returned as they are.
func FormatDate(value, locale string) string {
	if value == "" {
		return ""
	}
	var t time.Time
	var err error
	// timestamps without an offset are already wall clock time
	for _, layout := range timeLayouts {
		if t, err = time.ParseInLocation(layout, value, time.Local); err == nil {
			break
		}
	}
	if err != nil {
		return value
	}
	return t.Local().Format(dateLayout(locale))
}

func dateLayout(locale string) string {
	// "de_DE.UTF-8" -> "de_DE"
	locale = strings.SplitN(locale, ".", 2)[0]
	locale = strings.ReplaceAll(locale, "-", "_")
	lang := strings.ToLower(strings.SplitN(locale, "_", 2)[0])

	switch {
	case locale == "en_US":
		return "01/02/2006 3:04 PM"
	case lang == "de", lang == "pl", lang == "ru", lang == "cs":
		return "02.01.2006 15:04"
	case lang == "en", lang == "fr", lang == "es", lang == "it", lang == "pt":
		return "02/01/2006 15:04"
	case lang == "nl":
		return "02-01-2006 15:04"
	default:
		return "2006-01-02 15:04"
	}
}

// ErrorView describes a failed map listing with hints for the user
type ErrorView struct {
	Message     string
	Suggestions []string
}

// Diagnose turns a listing failure into an error view
func Diagnose(err error) ErrorView {
	v := ErrorView{Message: fmt.Sprintf("Could not load your maps: %v", err)}
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		v.Suggestions = []string{
			"Your session expired, log in again",
		}
	case errors.Is(err, backend.ErrSendingRequest), errors.Is(err, backend.ErrParsingEndpoint):
		v.Suggestions = []string{
			"Check your network connection",
			"Check the backend endpoint in the configuration",
		}
	case errors.Is(err, backend.ErrNotFound):
		v.Suggestions = []string{
			"The backend has no uMap integration enabled",
		}
	default:
		v.Suggestions = []string{
			"Check that the uMap service is running",
			"Verify the uMap settings of the console",
		}
	}
	v.Suggestions = append(v.Suggestions, "Retry in a few moments")
	return v
}
