package wire

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Makepad-fr/todogui/internal/model"
)

var u1 = uuid.MustParse("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

func TestEncodeScenario(t *testing.T) {
	added := model.TodoItem{ID: u1, Text: "Buy milk", Date: 1704067200000}
	edited := model.TodoItem{ID: u1, Text: "Buy oat milk", Date: 1704067200000}

	tests := []struct {
		name string
		kind model.Kind
		item model.TodoItem
		want string
	}{
		{"added", model.Added, added, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","text":"Buy milk","date":1704067200000}`},
		{"updated", model.Updated, edited, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","text":"Buy oat milk","date":1704067200000}`},
		{"deleted", model.Deleted, edited, `"3f2504e0-4f89-41d3-9a0c-0305e82c3301"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.kind, tt.item)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode = %s\nwant     %s", got, tt.want)
			}
			if err := Validate(tt.kind, got); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	items := []model.TodoItem{
		{ID: uuid.New(), Text: "plain", Date: 0},
		{ID: uuid.New(), Text: `quotes " and \ backslash`, Date: -86400000},
		{ID: uuid.New(), Text: "unicode ✔ ☐ 日本", Date: 4102444800000},
		{ID: uuid.New(), Text: "<html> & stuff\n", Date: 1704067200123},
	}
	for _, it := range items {
		for _, k := range []model.Kind{model.Added, model.Updated} {
			b, err := Encode(k, it)
			if err != nil {
				t.Fatalf("Encode(%v, %q): %v", k, it.Text, err)
			}
			n, err := Decode(k, b)
			if err != nil {
				t.Fatalf("Decode(%s): %v", b, err)
			}
			if n.ID != it.ID || n.Text != it.Text || n.Date != it.Date || n.Kind != k {
				t.Errorf("round trip mismatch: %+v vs %+v", n, it)
			}
		}
		b, err := Encode(model.Deleted, it)
		if err != nil {
			t.Fatal(err)
		}
		n, err := Decode(model.Deleted, b)
		if err != nil {
			t.Fatalf("Decode deleted: %v", err)
		}
		if n.ID != it.ID {
			t.Errorf("deleted id = %s, want %s", n.ID, it.ID)
		}
	}
}

func TestMarshalFailure(t *testing.T) {
	_, err := Encode(model.Added, model.TodoItem{ID: u1, Text: "bad \xff byte"})
	if !errors.Is(err, ErrMarshal) {
		t.Fatalf("expected ErrMarshal, got %v", err)
	}
	if _, err := Encode(model.Kind(9), model.TodoItem{ID: u1, Text: "x"}); !errors.Is(err, ErrMarshal) {
		t.Fatalf("expected ErrMarshal for unknown kind, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		kind    model.Kind
		payload string
	}{
		{"not json", model.Added, `{"id":`},
		{"deleted as object", model.Deleted, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301"}`},
		{"added as string", model.Added, `"3f2504e0-4f89-41d3-9a0c-0305e82c3301"`},
		{"bad uuid", model.Updated, `{"id":"nope","text":"a","date":1}`},
		{"date as string", model.Added, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","text":"a","date":"1"}`},
		{"missing text", model.Added, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","date":1}`},
		{"deleted bad uuid", model.Deleted, `"zzz"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.kind, []byte(tt.payload)); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%s) err = %v, want ErrMalformed", tt.payload, err)
			}
		})
	}
}

func TestValidateAcceptsEmptyText(t *testing.T) {
	it := model.TodoItem{ID: u1, Text: "", Date: 1}
	for _, k := range []model.Kind{model.Added, model.Updated} {
		payload, err := Encode(k, it)
		if err != nil {
			t.Fatal(err)
		}
		if err := Validate(k, payload); err != nil {
			t.Errorf("Validate(%v, %s) = %v", k, payload, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		kind    model.Kind
		payload string
	}{
		{"extra field", model.Added, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","text":"a","date":1,"x":true}`},
		{"fractional date", model.Updated, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","text":"a","date":1.5}`},
		{"missing text", model.Added, `{"id":"3f2504e0-4f89-41d3-9a0c-0305e82c3301","date":1}`},
		{"bad id", model.Updated, `{"id":"nope","text":"a","date":1}`},
		{"deleted not uuid", model.Deleted, `"hello"`},
		{"deleted object", model.Deleted, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.kind, []byte(tt.payload)); !errors.Is(err, ErrMalformed) {
				t.Errorf("Validate(%s) err = %v, want ErrMalformed", tt.payload, err)
			}
		})
	}
}
