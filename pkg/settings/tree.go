package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned when an update targets the root of a tree
	ErrEmptyPath = errors.New("empty field path")
	// ErrNotAGroup is returned when a path walks through a scalar value
	ErrNotAGroup = errors.New("path crosses a scalar value")
	// ErrUnknownField is returned when an edit targets a leaf the tree does not have
	ErrUnknownField = errors.New("unknown field")
	// ErrDottedKey is returned when a decoded key contains the path separator
	ErrDottedKey = errors.New("keys cannot contain \"" + PathSeparator + "\"")
)

// Value is a node of a configuration tree: either a Scalar or a Group.
type Value interface {
	isValue()
}

// Scalar is a leaf value of a configuration tree.
type Scalar string

// Entry is one key/value pair of a Group.
type Entry struct {
	Key   string
	Value Value
}

// Group is an ordered mapping of unique keys to values. Groups are never
// modified in place: every update returns a new Group that shares the
// untouched branches with the original.
type Group struct {
	entries []Entry
}

func (Scalar) isValue() {}
func (Group) isValue()  {}

// NewGroup builds a group from the given entries. A repeated key keeps the
// position of its first occurrence and the value of its last one.
func NewGroup(entries ...Entry) Group {
	g := Group{}
	for _, e := range entries {
		g = g.With(e.Key, e.Value)
	}
	return g
}

// Len returns the number of entries.
func (g Group) Len() int {
	return len(g.entries)
}

// Entries returns a copy of the entries in display order.
func (g Group) Entries() []Entry {
	return append([]Entry(nil), g.entries...)
}

// Keys returns the keys in display order.
func (g Group) Keys() []string {
	keys := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

func (g Group) index(key string) int {
	for i, e := range g.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (g Group) Get(key string) (Value, bool) {
	if i := g.index(key); i >= 0 {
		return g.entries[i].Value, true
	}
	return nil, false
}

// With returns a copy of g where key holds v. Existing keys keep their position.
func (g Group) With(key string, v Value) Group {
	entries := make([]Entry, len(g.entries), len(g.entries)+1)
	copy(entries, g.entries)
	if i := g.index(key); i >= 0 {
		entries[i].Value = v
	} else {
		entries = append(entries, Entry{Key: key, Value: v})
	}
	return Group{entries: entries}
}

// Lookup returns the value found at p.
func (g Group) Lookup(p Path) (Value, bool) {
	if len(p) == 0 {
		return g, true
	}
	v, ok := g.Get(p[0])
	if !ok {
		return nil, false
	}
	if len(p) == 1 {
		return v, true
	}
	child, ok := v.(Group)
	if !ok {
		return nil, false
	}
	return child.Lookup(p[1:])
}

// Text returns the scalar stored at p, or "" when there is none.
func (g Group) Text(p Path) string {
	v, ok := g.Lookup(p)
	if !ok {
		return ""
	}
	s, ok := v.(Scalar)
	if !ok {
		return ""
	}
	return string(s)
}

// Set returns a copy of g with the leaf at p replaced by v. Only the groups
// along p are copied; sibling branches are shared with g. Missing groups on
// the way are created.
func Set(g Group, p Path, v Scalar) (Group, error) {
	if len(p) == 0 {
		return g, ErrEmptyPath
	}
	if len(p) == 1 {
		if cur, ok := g.Get(p[0]); ok {
			if _, isGroup := cur.(Group); isGroup {
				return g, fmt.Errorf("%w: %q is a group", ErrNotAGroup, p[0])
			}
		}
		return g.With(p[0], v), nil
	}

	child := Group{}
	if cur, ok := g.Get(p[0]); ok {
		grp, isGroup := cur.(Group)
		if !isGroup {
			return g, fmt.Errorf("%w: %q", ErrNotAGroup, p[0])
		}
		child = grp
	}
	updated, err := Set(child, p[1:], v)
	if err != nil {
		return g, err
	}
	return g.With(p[0], updated), nil
}

// Walk visits every value of g depth first in display order. Groups are
// visited before their children.
func Walk(g Group, fn func(p Path, v Value)) {
	walk(g, nil, fn)
}

func walk(g Group, parent Path, fn func(p Path, v Value)) {
	for _, e := range g.entries {
		p := parent.Append(e.Key)
		fn(p, e.Value)
		if child, ok := e.Value.(Group); ok {
			walk(child, p, fn)
		}
	}
}

// Equal reports whether two values hold the same keys, order and scalars.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av == bv
	case Group:
		bv, ok := b.(Group)
		if !ok || len(av.entries) != len(bv.entries) {
			return false
		}
		for i := range av.entries {
			if av.entries[i].Key != bv.entries[i].Key || !Equal(av.entries[i].Value, bv.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
