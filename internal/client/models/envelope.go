package models

import (
	"encoding/json"
	"fmt"
)

// StatusOK is the envelope status the API uses for success.
const StatusOK = 200

// Envelope is the uniform wrapper every API response carries.
type Envelope[T any] struct {
	Detail string         `json:"detail"`
	Status int            `json:"status"`
	Data   T              `json:"data"`
	Meta   map[string]any `json:"meta"`
}

// OK reports whether the embedded status signals success.
func (e *Envelope[T]) OK() bool {
	return e.Status == StatusOK
}

// Decode re-types a raw envelope, unmarshalling Data into T.
// A null or absent payload leaves Data at its zero value.
func Decode[T any](raw *Envelope[json.RawMessage]) (*Envelope[T], error) {
	out := &Envelope[T]{Detail: raw.Detail, Status: raw.Status, Meta: raw.Meta}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
		return nil, fmt.Errorf("decode envelope data: %w", err)
	}
	return out, nil
}
