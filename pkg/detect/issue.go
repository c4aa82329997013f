package detect

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/layout"
)

// Issue categories, in detector execution order.
const (
	CategoryContentDescription = "Content Description"
	CategoryTouchTarget        = "Touch Target Size"
	CategoryColorContrast      = "Color Contrast"
	CategoryHeadingHierarchy   = "Heading Hierarchy"
)

// Issue severities.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// Issue is a single accessibility defect found by a detector.
type Issue struct {
	Category      string
	Severity      string
	ElementInfo   ElementInfo
	Description   string
	FixSuggestion string
	Bounds        *layout.Bounds
}

// Field is one diagnostic key/value pair.
type Field struct {
	Key   string
	Value any
}

// ElementInfo carries ordered diagnostic fields about the offending
// element. Field order is preserved through JSON and YAML.
type ElementInfo []Field

// Get returns the value for key, or nil when absent.
func (info ElementInfo) Get(key string) any {
	for _, f := range info {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON encodes the fields as a JSON object in declaration order.
func (info ElementInfo) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range info {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving its key order. Nested
// objects decode to ElementInfo, arrays to []any, numbers to int64
// when integral and float64 otherwise.
func (info *ElementInfo) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode element info")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(errors.ErrCodeInvalidFormat, "element info must be a JSON object")
	}
	decoded, err := decodeOrderedObject(dec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode element info")
	}
	*info = decoded
	return nil
}

// decodeOrderedObject reads the members of an object whose opening
// brace is already consumed, including the closing brace.
func decodeOrderedObject(dec *json.Decoder) (ElementInfo, error) {
	obj := ElementInfo{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		val, err := decodeOrderedValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Field{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return obj, nil
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeOrderedObject(dec)
		case '[':
			arr := []any{}
			for dec.More() {
				v, err := decodeOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return tok, nil // string, bool, nil
	}
}

// MarshalYAML encodes the fields as a mapping in declaration order.
func (info ElementInfo) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range info {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(f.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
