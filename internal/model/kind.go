package model

import "fmt"

// Kind identifies a change notification.
type Kind int

const (
	Added Kind = iota
	Updated
	Deleted
)

// Kinds lists every notification kind in declaration order.
var Kinds = []Kind{Added, Updated, Deleted}

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= Added && k <= Deleted }

// ParseKind maps a host-facing event name to a Kind. The older
// todoAdded/todoUpdated/todoDeleted names are accepted too.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "added", "todoAdded":
		return Added, true
	case "updated", "todoUpdated":
		return Updated, true
	case "deleted", "todoDeleted":
		return Deleted, true
	}
	return 0, false
}
