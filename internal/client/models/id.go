package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a remote entity. The backend emits ids as JSON numbers or
// strings depending on the collection, so ID accepts both and compares by
// string value.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool {
	return id == ""
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer-looking ids back as numbers so they round-trip
// to the backend unchanged.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isInteger() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// isInteger reports whether the id is the canonical decimal form of an
// int64, the only form that is also a valid JSON number.
func (id ID) isInteger() bool {
	s := string(id)
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}
