package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// document is a JSON object whose top-level key order is preserved. The
// exported file must keep the dashboard's original key order (with the
// portability keys first and the identity fields last), which encoding/json
// maps cannot express.
type document struct {
	keys   []string
	values map[string]json.RawMessage
}

func newDocument() *document {
	return &document{values: make(map[string]json.RawMessage)}
}

// parseDocument decodes a JSON object while recording key order. Values stay
// raw so nested content round-trips untouched.
func parseDocument(data []byte) (*document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode dashboard body: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("dashboard body is not a JSON object")
	}

	doc := newDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode dashboard key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("dashboard body has a non-string key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode dashboard field %q: %w", key, err)
		}
		doc.set(key, raw)
	}
	return doc, nil
}

// get returns the raw value for key.
func (d *document) get(key string) (json.RawMessage, bool) {
	v, ok := d.values[key]
	return v, ok
}

// set stores a value. A new key is appended; an existing key keeps its
// position and has its value replaced.
func (d *document) set(key string, val json.RawMessage) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = val
}

// marshalIndent serializes the document with 2-space indentation, emitting
// keys in their recorded order.
func (d *document) marshalIndent() ([]byte, error) {
	if len(d.keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", key, err)
		}
		buf.Write(keyJSON)
		buf.WriteString(": ")
		if err := json.Indent(&buf, d.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("indent field %q: %w", key, err)
		}
	}
	buf.WriteString("\n}")
	return buf.Bytes(), nil
}
