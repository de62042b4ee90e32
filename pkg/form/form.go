package form

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eizes/gis-cli/pkg/settings"
)

// NodeKind tells sections from fields.
type NodeKind int

const (
	// NodeSection is the header of a nested group
	NodeSection NodeKind = iota
	// NodeField is an input for a scalar leaf
	NodeField
)

// Action is an inline button attached to a field.
type Action struct {
	Label    string
	Disabled bool
}

// Node is one line of a rendered settings form.
type Node struct {
	Kind  NodeKind
	Depth int
	Key   string
	Path  settings.Path
	Label string

	// Field only
	Field     Kind
	Value     string
	Masked    bool
	Monospace bool
	Caption   string
	Disabled  bool
	Error     string
	Feedback  string
	Action    *Action
}

// Display returns the value as it should be shown.
func (n Node) Display() string {
	if n.Masked {
		return Mask(n.Value)
	}
	return n.Value
}

// Options carries the panel state the form depends on. Maps are keyed by
// the joined field path.
type Options struct {
	Editing    bool
	Errors     map[string]string
	Feedback   map[string]string
	Revealed   map[string]bool
	Validating bool
}

// Render flattens a configuration tree into the form nodes of a service:
// one section per group and one field per scalar, in tree order.
func Render(service string, tree settings.Group, opts Options) []Node {
	var nodes []Node
	render(service, tree, nil, opts, &nodes)
	return nodes
}

func render(service string, g settings.Group, parent settings.Path, opts Options, nodes *[]Node) {
	for _, e := range g.Entries() {
		p := parent.Append(e.Key)
		switch v := e.Value.(type) {
		case settings.Group:
			*nodes = append(*nodes, Node{
				Kind:  NodeSection,
				Depth: len(parent),
				Key:   e.Key,
				Path:  p,
				Label: Label(e.Key),
			})
			render(service, v, p, opts, nodes)
		case settings.Scalar:
			*nodes = append(*nodes, field(service, e.Key, p, string(v), opts))
		}
	}
}

func field(service, key string, p settings.Path, value string, opts Options) Node {
	rule := Classify(service, p)
	id := p.Key()
	n := Node{
		Kind:      NodeField,
		Depth:     len(p) - 1,
		Key:       key,
		Path:      p,
		Label:     Label(key),
		Field:     rule.Kind,
		Value:     value,
		Masked:    rule.Kind.Secret() && !opts.Revealed[id],
		Monospace: rule.Monospace,
		Caption:   rule.Caption,
		Disabled:  !opts.Editing,
		Error:     opts.Errors[id],
	}
	if n.Error == "" {
		n.Feedback = opts.Feedback[id]
	}
	if rule.Kind == KindWorkspace {
		label := "Validate"
		if opts.Validating {
			label = "Validating..."
		}
		n.Action = &Action{Label: label, Disabled: !opts.Editing || opts.Validating}
	}
	return n
}

// Label turns a key into a field label: underscores become spaces and the
// first letter is capitalized.
func Label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Mask hides a secret. Long secrets are capped so their length is not shown.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	const maxStars = 8
	n := utf8.RuneCountInString(value)
	if n > maxStars {
		n = maxStars
	}
	return strings.Repeat("*", n)
}

// Count returns the number of sections and fields of a rendered form.
func Count(nodes []Node) (sections, fields int) {
	for _, n := range nodes {
		if n.Kind == NodeSection {
			sections++
		} else {
			fields++
		}
	}
	return sections, fields
}
