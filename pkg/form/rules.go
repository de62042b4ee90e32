package form

import (
	"regexp"
	"strings"

	"github.com/eizes/gis-cli/pkg/settings"
)

// Kind is the presentation of a leaf field.
type Kind int

const (
	// KindText is a plain single line input
	KindText Kind = iota
	// KindPassword is a masked input with a show/hide toggle
	KindPassword
	// KindToken is a masked monospaced input for API tokens
	KindToken
	// KindWorkspace is a text input paired with a validate action
	KindWorkspace
)

func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindToken:
		return "token"
	case KindWorkspace:
		return "workspace"
	default:
		return "text"
	}
}

// Secret reports whether fields of this kind are masked by default.
func (k Kind) Secret() bool {
	return k == KindPassword || k == KindToken
}

// Rule classifies a leaf by its key, its enclosing path and the owning service.
type Rule struct {
	Kind      Kind
	Caption   string
	Monospace bool
	Match     func(service string, p settings.Path) bool
}

var tokenKey = regexp.MustCompile(`(?i)^((api|access|auth)_?)?token$`)

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Kind:      KindToken,
		Caption:   "API token used by the console to talk to the tracking server.",
		Monospace: true,
		Match: func(service string, p settings.Path) bool {
			return service == settings.ServiceTraccar && tokenKey.MatchString(p.Last()) && p.Through("auth")
		},
	},
	{
		Kind:    KindPassword,
		Caption: "Hidden value. Toggle to reveal it.",
		Match: func(_ string, p settings.Path) bool {
			return strings.Contains(strings.ToLower(p.Last()), "password")
		},
	},
	{
		Kind: KindWorkspace,
		Match: func(service string, p settings.Path) bool {
			return service == settings.ServiceGeoserver && p.Last() == "workspace" && p.Parent().Last() == "database"
		},
	},
}

var textRule = Rule{Kind: KindText}

// Classify returns the first rule matching the leaf at p.
func Classify(service string, p settings.Path) Rule {
	for _, r := range Rules {
		if r.Match(service, p) {
			return r
		}
	}
	return textRule
}
