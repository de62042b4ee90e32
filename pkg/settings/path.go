package settings

import "strings"

// PathSeparator joins the keys of a Path in its string form
const PathSeparator = "."

// Path is the ordered sequence of keys that locates a value in a tree.
type Path []string

// ParsePath splits a dotted path such as "database.workspace".
func ParsePath(s string) Path {
	s = strings.Trim(strings.TrimSpace(s), PathSeparator)
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, PathSeparator))
}

// Key returns the joined form used to index per-field state.
func (p Path) Key() string {
	return strings.Join(p, PathSeparator)
}

func (p Path) String() string {
	return p.Key()
}

// Append returns a new path extended with key; p is left untouched.
func (p Path) Append(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Last returns the final key, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its final key.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Through reports whether any group above the leaf is named key (case-insensitive).
func (p Path) Through(key string) bool {
	for _, k := range p.Parent() {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
