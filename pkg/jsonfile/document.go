package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type field struct {
	key   string
	value json.RawMessage
}

// Document is a JSON object that preserves key order and the raw encoding of
// every value. The zero value is an empty document ready to use.
//
// Document is not safe for concurrent mutation.
type Document struct {
	fields []field
	index  map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Parse decodes data, which must hold a single JSON object.
func Parse(data []byte) (*Document, error) {
	d := NewDocument()
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Len returns the number of top-level keys.
func (d *Document) Len() int { return len(d.fields) }

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.key
	}
	return keys
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Raw returns the raw JSON value stored under key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.fields[i].value, true
}

// Decode unmarshals the value under key into v. It reports false without
// touching v when the key is absent.
func (d *Document) Decode(key string, v any) (bool, error) {
	raw, ok := d.Raw(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("field %q: %w", key, err)
	}
	return true, nil
}

// Object returns the value under key as a nested Document.
// It reports false when the key is absent and fails when the value is not
// an object.
func (d *Document) Object(key string) (*Document, bool, error) {
	raw, ok := d.Raw(key)
	if !ok {
		return nil, false, nil
	}
	sub, err := Parse(raw)
	if err != nil {
		return nil, true, fmt.Errorf("field %q: %w", key, err)
	}
	return sub, true, nil
}

// Set encodes v and stores it under key. Existing keys keep their position;
// new keys are appended.
func (d *Document) Set(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	d.SetRaw(key, raw)
	return nil
}

// SetRaw stores an already encoded JSON value under key.
func (d *Document) SetRaw(key string, raw json.RawMessage) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	value := append(json.RawMessage(nil), raw...)
	if i, ok := d.index[key]; ok {
		d.fields[i].value = value
		return
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, field{key: key, value: value})
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		fields: make([]field, len(d.fields)),
		index:  make(map[string]int, len(d.fields)),
	}
	for i, f := range d.fields {
		c.fields[i] = field{key: f.key, value: append(json.RawMessage(nil), f.value...)}
		c.index[f.key] = i
	}
	return c
}

// MarshalJSON encodes the document compactly in key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, f.value); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the document contents with the object in data.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("empty document")
	}
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, found %v", tok)
	}

	d.fields = nil
	d.index = make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, found %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		d.SetRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected data after document: %v", tok)
	}
	return nil
}

// Encode renders v as indented JSON followed by a single newline.
// HTML characters are written as-is.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var _ json.Marshaler = (*Document)(nil)
var _ json.Unmarshaler = (*Document)(nil)
