package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	goyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the group as a JSON object keeping the entry order.
func (g Group) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, e := range g.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var val []byte
		switch v := e.Value.(type) {
		case Scalar:
			val, err = json.Marshal(string(v))
		case Group:
			val, err = v.MarshalJSON()
		default:
			err = fmt.Errorf("unsupported value for key %q", e.Key)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order of the document.
// Numbers and booleans become their literal text and null becomes "".
func (g *Group) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("configuration tree must be a JSON object")
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

func decodeObject(dec *json.Decoder) (Group, error) {
	g := Group{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return g, err
		}
		key, ok := tok.(string)
		if !ok {
			return g, fmt.Errorf("unexpected object key %v", tok)
		}
		if strings.Contains(key, PathSeparator) {
			return g, fmt.Errorf("%w: %q", ErrDottedKey, key)
		}
		v, err := decodeValue(dec, key)
		if err != nil {
			return g, err
		}
		g = g.With(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return g, err
	}
	return g, nil
}

func decodeValue(dec *json.Decoder, key string) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return decodeObject(dec)
		}
		return nil, fmt.Errorf("unsupported array value for key %q", key)
	case string:
		return Scalar(v), nil
	case json.Number:
		return Scalar(v.String()), nil
	case bool:
		return Scalar(strconv.FormatBool(v)), nil
	case nil:
		return Scalar(""), nil
	default:
		return nil, fmt.Errorf("unsupported value for key %q", key)
	}
}

// DecodeJSON reads a configuration tree from r.
func DecodeJSON(r io.Reader) (Group, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Group{}, err
	}
	var g Group
	if err := g.UnmarshalJSON(data); err != nil {
		return Group{}, err
	}
	return g, nil
}

// MapSlice converts the group into an ordered YAML mapping.
func (g Group) MapSlice() goyaml.MapSlice {
	out := make(goyaml.MapSlice, 0, len(g.entries))
	for _, e := range g.entries {
		switch v := e.Value.(type) {
		case Scalar:
			out = append(out, goyaml.MapItem{Key: e.Key, Value: string(v)})
		case Group:
			out = append(out, goyaml.MapItem{Key: e.Key, Value: v.MapSlice()})
		}
	}
	return out
}

// EncodeYAML renders the group as YAML keeping the entry order.
func EncodeYAML(g Group) ([]byte, error) {
	return goyaml.Marshal(g.MapSlice())
}

// DecodeYAML parses a YAML mapping into a configuration tree keeping the
// order of the document.
func DecodeYAML(data []byte) (Group, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Group{}, err
	}
	if doc.Kind == 0 {
		return Group{}, nil
	}
	node := &doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Group{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return Group{}, fmt.Errorf("line %d: configuration tree must be a mapping", node.Line)
	}
	return decodeMapping(node)
}

func decodeMapping(node *yaml.Node) (Group, error) {
	g := Group{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if valNode.Kind == yaml.AliasNode {
			valNode = valNode.Alias
		}
		key := keyNode.Value
		if strings.Contains(key, PathSeparator) {
			return g, fmt.Errorf("line %d: %w: %q", keyNode.Line, ErrDottedKey, key)
		}
		switch valNode.Kind {
		case yaml.MappingNode:
			child, err := decodeMapping(valNode)
			if err != nil {
				return g, err
			}
			g = g.With(key, child)
		case yaml.ScalarNode:
			if valNode.Tag == "!!null" {
				g = g.With(key, Scalar(""))
				continue
			}
			g = g.With(key, Scalar(valNode.Value))
		default:
			return g, fmt.Errorf("line %d: unsupported value for key %q", valNode.Line, key)
		}
	}
	return g, nil
}
