package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DecodeJSON parses r as JSON and returns the document's root as a Node.
//
// JSON object key order is not preserved: encoding/json decodes objects
// into Go maps, which have no ordering, so keys are re-sorted
// lexicographically for determinism. No third-party JSON library appears
// anywhere in the reference corpus, so this is the one ambient piece built
// directly on the standard library rather than adapted from an example
// (see DESIGN.md). JSON arrays keep their order, so deme order and
// migration order survive; only the order of object keys is lost.
func DecodeJSON(r io.Reader) (Node, error) {
	var raw any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Node{}, fmt.Errorf("tree: decode JSON: %w", err)
	}
	return fromJSONValue(raw)
}

func fromJSONValue(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return NewScalar(nil), nil
	case bool:
		return NewScalar(val), nil
	case string:
		return NewScalar(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return NewScalar(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Node{}, fmt.Errorf("tree: invalid JSON number %q: %w", val.String(), err)
		}
		return NewScalar(f), nil
	case []any:
		items := make([]Node, 0, len(val))
		for _, elem := range val {
			item, err := fromJSONValue(elem)
			if err != nil {
				return Node{}, err
			}
			items = append(items, item)
		}
		return NewSequence(items...), nil
	case map[string]any:
		out := NewMapping()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := fromJSONValue(val[k])
			if err != nil {
				return Node{}, err
			}
			out.Set(k, child)
		}
		return out, nil
	default:
		return Node{}, fmt.Errorf("tree: unsupported JSON value of type %T", v)
	}
}

// EncodeJSON serializes n as JSON.
func EncodeJSON(n Node) ([]byte, error) {
	v, err := toJSONValue(n)
	if err != nil {
		return nil, fmt.Errorf("tree: encode JSON: %w", err)
	}
	return json.Marshal(v)
}

func toJSONValue(n Node) (any, error) {
	switch n.Kind {
	case ScalarKind:
		return n.scalar, nil
	case SequenceKind:
		items := n.Items()
		out := make([]any, len(items))
		for i, item := range items {
			v, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case MappingKind:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			jv, err := toJSONValue(v)
			if err != nil {
				return nil, err
			}
			out[k] = jv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tree: unknown Node Kind %v", n.Kind)
	}
}
