// Package wire encodes and decodes the JSON payloads handed to host
// callbacks.
//
// added and updated carry an object {"id","text","date"}; deleted carries
// the bare id as a JSON string.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/Makepad-fr/todogui/internal/model"
)

var (
	// ErrMarshal means a payload could not be serialized.
	ErrMarshal = errors.New("wire: marshal failed")
	// ErrMalformed means a payload does not match the shape for its kind.
	ErrMalformed = errors.New("wire: malformed payload")
)

type itemPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date int64  `json:"date"`
}

// Notification is the host-side view of a decoded payload. Text and Date
// are zero for deleted.
type Notification struct {
	Kind model.Kind
	ID   uuid.UUID
	Text string
	Date int64
}

// Encode serializes it in the shape required for k.
func Encode(k model.Kind, it model.TodoItem) ([]byte, error) {
	switch k {
	case model.Added, model.Updated:
		return EncodeItem(it)
	case model.Deleted:
		return EncodeDeleted(it.ID)
	}
	return nil, fmt.Errorf("%w: unknown kind %v", ErrMarshal, k)
}

// EncodeItem renders {"id":"<uuid>","text":"<text>","date":<ms>}.
func EncodeItem(it model.TodoItem) ([]byte, error) {
	if !utf8.ValidString(it.Text) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrMarshal)
	}
	b, err := json.Marshal(itemPayload{ID: it.ID.String(), Text: it.Text, Date: it.Date})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return b, nil
}

// EncodeDeleted renders the bare id string "<uuid>".
func EncodeDeleted(id uuid.UUID) ([]byte, error) {
	b, err := json.Marshal(id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return b, nil
}

// Decode parses a payload of kind k.
func Decode(k model.Kind, payload []byte) (Notification, error) {
	if !gjson.ValidBytes(payload) {
		return Notification{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	r := gjson.ParseBytes(payload)
	n := Notification{Kind: k}

	switch k {
	case model.Deleted:
		if r.Type != gjson.String {
			return Notification{}, fmt.Errorf("%w: deleted payload must be a string", ErrMalformed)
		}
		id, err := uuid.Parse(r.String())
		if err != nil {
			return Notification{}, fmt.Errorf("%w: id: %v", ErrMalformed, err)
		}
		n.ID = id
		return n, nil

	case model.Added, model.Updated:
		if !r.IsObject() {
			return Notification{}, fmt.Errorf("%w: %s payload must be an object", ErrMalformed, k)
		}
		idv, text, date := r.Get("id"), r.Get("text"), r.Get("date")
		if idv.Type != gjson.String || text.Type != gjson.String || date.Type != gjson.Number {
			return Notification{}, fmt.Errorf("%w: missing or mistyped field", ErrMalformed)
		}
		id, err := uuid.Parse(idv.String())
		if err != nil {
			return Notification{}, fmt.Errorf("%w: id: %v", ErrMalformed, err)
		}
		n.ID, n.Text, n.Date = id, text.String(), date.Int()
		return n, nil
	}
	return Notification{}, fmt.Errorf("%w: unknown kind %v", ErrMalformed, k)
}
