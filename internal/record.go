package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

// Record is an ordered mapping of column name to scalar value.
// Column order follows the order keys appeared in the backend response.
type Record struct {
	keys   []string
	values map[string]any
}

// RecordOf builds a record from alternating key/value arguments
func RecordOf(kv ...any) Record {
	if len(kv)%2 != 0 {
		panic("RecordOf: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		r.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return r
}

// Set stores a value; a new key is appended after the existing columns
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Text returns the display form of the value under key, or "" when absent
func (r Record) Text(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Keys returns the column names in order
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of columns
func (r Record) Len() int {
	return len(r.keys)
}

// FoldKey returns the first column whose name equals name ignoring case
func (r Record) FoldKey(name string) (string, bool) {
	for _, k := range r.keys {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object keeping its key order
func (r *Record) UnmarshalJSON(data []byte) error {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	obj, err := v.Object()
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	*r = Record{}
	obj.Visit(func(key []byte, val *fastjson.Value) {
		r.Set(string(key), scalarOf(val))
	})
	return nil
}

// MarshalJSON encodes the record as a JSON object in column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as a mapping node in column order
func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.keys {
		var val yaml.Node
		if n, ok := r.values[k].(json.Number); ok {
			val = yaml.Node{Kind: yaml.ScalarNode, Tag: numberTag(n), Value: n.String()}
		} else if err := val.Encode(r.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

func numberTag(n json.Number) string {
	if _, err := n.Int64(); err == nil {
		return "!!int"
	}
	return "!!float"
}

func scalarOf(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return json.Number(v.String())
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	default:
		// nested objects and arrays keep their JSON text
		return v.String()
	}
}

// FormatValue renders a record value as plain text
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Dataset is an ordered sequence of records sharing a column set
type Dataset []Record

// Columns returns the canonical column set: the keys of the first record
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0].Keys()
}

// Empty reports whether the dataset has no records
func (d Dataset) Empty() bool {
	return len(d) == 0
}
