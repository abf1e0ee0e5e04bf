package users

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// tableDoc is the in-memory form of the user-table document. JSON objects
// written by the application preserve key insertion order, and contributor
// listings depend on it, so the stock map-based decoding is not enough: the
// codec below tracks key order explicitly.
type tableDoc struct {
	order   []string
	records map[string]Record
}

func (d *tableDoc) set(username string, rec Record) {
	if d.records == nil {
		d.records = make(map[string]Record)
	}
	if _, ok := d.records[username]; !ok {
		d.order = append(d.order, username)
	}
	d.records[username] = rec
}

func (d *tableDoc) remove(username string) {
	delete(d.records, username)
	for i, name := range d.order {
		if name == username {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

func (d *tableDoc) UnmarshalJSON(data []byte) error {
	d.order = nil
	d.records = make(map[string]Record)

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("user table: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		username, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("user table: expected string key, got %v", keyTok)
		}

		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("user table: record %q: %w", username, err)
		}
		d.set(username, rec)
	}

	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (d tableDoc) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, username := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(username)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.records[username])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
