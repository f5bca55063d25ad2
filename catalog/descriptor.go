package catalog

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ArgType is the declared type of an operation argument.
type ArgType string

// Argument types used by CyberChef operation schemas.
const (
	ArgString              ArgType = "string"
	ArgShortString         ArgType = "shortString"
	ArgBinaryString        ArgType = "binaryString"
	ArgBinaryShortString   ArgType = "binaryShortString"
	ArgText                ArgType = "text"
	ArgByteArray           ArgType = "byteArray"
	ArgNumber              ArgType = "number"
	ArgBoolean             ArgType = "boolean"
	ArgOption              ArgType = "option"
	ArgEditableOption      ArgType = "editableOption"
	ArgEditableOptionShort ArgType = "editableOptionShort"
	ArgSelector            ArgType = "argSelector"
	ArgPopulateOption      ArgType = "populateOption"
	ArgPopulateMultiOption ArgType = "populateMultiOption"
	ArgToggleString        ArgType = "toggleString"
)

// ArgSpec describes one positional argument of an operation.
//
// Only name, type and value are interpreted. Every other schema key is kept
// in Extra. Specs decoded from a catalog document also keep their source
// node, so MarshalJSON reproduces the schema with its original key order
// and explicit nulls.
type ArgSpec struct {
	Name  string         `yaml:"name"`
	Type  ArgType        `yaml:"type"`
	Value any            `yaml:"value"`
	Extra map[string]any `yaml:",inline"`

	node *yaml.Node
}

// UnmarshalYAML decodes the named fields and remembers the source node.
func (a *ArgSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain ArgSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = ArgSpec(p)
	a.node = node
	return nil
}

// MarshalJSON writes the source schema when there is one. Specs built in
// code flatten Extra next to the named fields instead.
func (a ArgSpec) MarshalJSON() ([]byte, error) {
	if a.node != nil {
		var buf bytes.Buffer
		if err := writeNode(&buf, a.node); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	out := make(map[string]any, len(a.Extra)+3)
	for k, v := range a.Extra {
		out[k] = v
	}
	out["name"] = a.Name
	out["type"] = a.Type
	if a.Value != nil {
		out["value"] = a.Value
	}
	return json.Marshal(out)
}

// writeNode renders a YAML node tree as JSON, keeping mapping order.
func writeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		return writeScalar(buf, v)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// Default returns the value a caller should submit when it has no opinion.
// Option lists default to their first entry; editable options submit the
// entry's value, selectors its name.
func (a ArgSpec) Default() any {
	switch v := a.Value.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
		if m, ok := v[0].(map[string]any); ok {
			if value, ok := m["value"]; ok {
				return value
			}
			return m["name"]
		}
		return v[0]
	default:
		return v
	}
}

// Descriptor is the catalog metadata for one operation.
// Descriptors are immutable once loaded.
type Descriptor struct {
	Module      string    `yaml:"module"`
	Description string    `yaml:"description"`
	InfoURL     string    `yaml:"infoURL"`
	InputType   string    `yaml:"inputType"`
	OutputType  string    `yaml:"outputType"`
	FlowControl bool      `yaml:"flowControl"`
	ManualBake  bool      `yaml:"manualBake"`
	Args        []ArgSpec `yaml:"args"`
	Checks      []any     `yaml:"checks"`
}

// Entry pairs a canonical operation name with its descriptor.
type Entry struct {
	Name string
	*Descriptor
}

// Match is the caller-facing view of an entry returned by describe.
type Match struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ArgSpec `json:"args"`
}

// Match returns the describe view of e.
func (e Entry) Match() Match {
	m := Match{Name: e.Name}
	if e.Descriptor != nil {
		m.Description = e.Description
		m.Args = e.Args
	}
	return m
}
