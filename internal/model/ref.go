package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Ref addresses an item either by ID or by 0-based position.
type Ref struct {
	id    uuid.UUID
	index int
	byID  bool
}

// ByID references an item by its ID.
func ByID(id uuid.UUID) Ref { return Ref{id: id, byID: true} }

// ByIndex references an item by its position in the list.
func ByIndex(i int) Ref { return Ref{index: i} }

// ID returns the referenced ID and whether the ref is ID-based.
func (r Ref) ID() (uuid.UUID, bool) { return r.id, r.byID }

// Index returns the referenced position and whether the ref is positional.
func (r Ref) Index() (int, bool) { return r.index, !r.byID }

func (r Ref) String() string {
	if r.byID {
		return r.id.String()
	}
	return fmt.Sprintf("#%d", r.index)
}
