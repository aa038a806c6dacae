package schema

import (
	"bytes"
	"encoding/json"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/mrz1836/taskschema/internal/errors"
)

// encodeIndented serializes value with two-space indentation, keeping the key
// order of ordered maps and leaving <, > and & unescaped.
//
// OrderedMap.MarshalJSON escapes HTML with its own encoder, so ordered maps are
// written here key by key. Any other composite value is first marshaled and
// decoded back into an ordered tree, which undoes that escaping.
func encodeIndented(value any) ([]byte, error) {
	var compact bytes.Buffer
	if err := encodeNode(&compact, value); err != nil {
		return nil, errors.Wrap(err, "failed to encode schema")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, errors.Wrap(err, "failed to indent schema")
	}
	return out.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		return encodeObject(buf, v)
	case orderedmap.OrderedMap:
		return encodeObject(buf, &v)
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case nil, string, bool, float64, json.Number:
		return encodeLeaf(buf, v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		node, err := decodeNode(data)
		if err != nil {
			return err
		}
		return encodeNode(buf, node)
	}
}

func encodeObject(buf *bytes.Buffer, m *orderedmap.OrderedMap) error {
	if m == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeLeaf(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		child, _ := m.Get(key)
		if err := encodeNode(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeLeaf(buf *bytes.Buffer, value any) error {
	var leaf bytes.Buffer
	enc := json.NewEncoder(&leaf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(leaf.Bytes(), "\n"))
	return nil
}

// decodeNode turns marshaled JSON back into ordered maps, []any and scalars.
func decodeNode(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.ErrEmptyValue
	}

	switch data[0] {
	case '{':
		m := orderedmap.New()
		if err := json.Unmarshal(data, m); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		// Arrays are decoded through a wrapper object so that objects inside
		// them become ordered maps too.
		wrapper := orderedmap.New()
		wrapped := append(append([]byte(`{"v":`), data...), '}')
		if err := json.Unmarshal(wrapped, wrapper); err != nil {
			return nil, err
		}
		items, _ := wrapper.Get("v")
		return items, nil
	default:
		var scalar any
		if err := json.Unmarshal(data, &scalar); err != nil {
			return nil, err
		}
		return scalar, nil
	}
}
