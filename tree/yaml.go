package tree

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses r as YAML and returns the document's root as a Node.
// Mapping key order is taken from yaml.Node.Content, which yaml.v3
// preserves in source order, so round-tripping through DecodeYAML/EncodeYAML
// never reorders a document's keys.
func DecodeYAML(r io.Reader) (Node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Node{}, fmt.Errorf("tree: decode YAML: %w", err)
	}
	return fromYAMLNode(&doc)
}

// EncodeYAML serializes n back into a YAML document.
func EncodeYAML(n Node) ([]byte, error) {
	yn, err := toYAMLNode(n)
	if err != nil {
		return nil, fmt.Errorf("tree: encode YAML: %w", err)
	}
	return yaml.Marshal(yn)
}

func fromYAMLNode(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.MappingNode:
		out := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := fromYAMLNode(n.Content[i])
			if err != nil {
				return Node{}, err
			}
			keyStr, err := key.String()
			if err != nil {
				return Node{}, fmt.Errorf("tree: non-scalar mapping key: %w", err)
			}
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return Node{}, err
			}
			out.Set(keyStr, val)
		}
		return out, nil
	case yaml.SequenceNode:
		items := make([]Node, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return Node{}, err
			}
			items = append(items, item)
		}
		return NewSequence(items...), nil
	case yaml.ScalarNode:
		return NewScalar(scalarValueOf(n)), nil
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	default:
		return Node{}, fmt.Errorf("tree: unsupported YAML node kind %v", n.Kind)
	}
}

// scalarValueOf decodes a YAML scalar node into the narrowest Go type that
// preserves its documented tag: null -> nil, bool -> bool, int -> int64,
// float -> float64, everything else -> string.
func scalarValueOf(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return i
		}
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	}
	return n.Value
}

func toYAMLNode(n Node) (*yaml.Node, error) {
	switch n.Kind {
	case ScalarKind:
		yn := &yaml.Node{Kind: yaml.ScalarNode}
		if err := yn.Encode(n.scalar); err != nil {
			return nil, err
		}
		return yn, nil
	case MappingKind:
		yn := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			keyNode := &yaml.Node{Kind: yaml.ScalarNode}
			if err := keyNode.Encode(k); err != nil {
				return nil, err
			}
			valNode, err := toYAMLNode(v)
			if err != nil {
				return nil, err
			}
			yn.Content = append(yn.Content, keyNode, valNode)
		}
		return yn, nil
	case SequenceKind:
		yn := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range n.Items() {
			itemNode, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			yn.Content = append(yn.Content, itemNode)
		}
		return yn, nil
	default:
		return nil, fmt.Errorf("tree: unknown Node Kind %v", n.Kind)
	}
}
