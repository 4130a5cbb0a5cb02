package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"added", Added, true},
		{"updated", Updated, true},
		{"deleted", Deleted, true},
		{"todoAdded", Added, true},
		{"todoUpdated", Updated, true},
		{"todoDeleted", Deleted, true},
		{"", 0, false},
		{"Added", 0, false},
		{"removed", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds {
		back, ok := ParseKind(k.String())
		if !ok || back != k {
			t.Errorf("kind %d does not round-trip through %q", int(k), k.String())
		}
	}
	if Kind(7).Valid() {
		t.Error("Kind(7) should not be valid")
	}
}

func TestLabelAndDays(t *testing.T) {
	day := time.Date(2024, time.March, 5, 15, 30, 0, 0, time.Local)
	ms := DayMillis(day)
	if got := FormatDay(ms); got != "2024-03-05" {
		t.Errorf("FormatDay = %q, want 2024-03-05", got)
	}
	parsed, err := ParseDay("2024-03-05")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if parsed != ms {
		t.Errorf("ParseDay = %d, want %d", parsed, ms)
	}
	if _, err := ParseDay("05/03/2024"); err == nil {
		t.Error("expected error for malformed date")
	}

	it := TodoItem{ID: uuid.New(), Text: "Buy milk", Date: ms}
	if got := it.Label(); got != "Buy milk - 2024-03-05" {
		t.Errorf("Label = %q", got)
	}
}

func TestRef(t *testing.T) {
	id := uuid.New()
	r := ByID(id)
	if got, ok := r.ID(); !ok || got != id {
		t.Errorf("ByID ref lost its id")
	}
	if _, ok := r.Index(); ok {
		t.Error("ByID ref should not be positional")
	}
	p := ByIndex(3)
	if i, ok := p.Index(); !ok || i != 3 {
		t.Errorf("ByIndex ref = %d, %v", i, ok)
	}
	if p.String() != "#3" {
		t.Errorf("String = %q", p.String())
	}
}
