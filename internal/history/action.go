package history

import (
	"fmt"
	"strings"
)

// ActionType classifies the edit a snapshot follows.
type ActionType string

// Action types.
const (
	Text      ActionType = "TEXT"
	Format    ActionType = "FORMAT"
	Structure ActionType = "STRUCTURE"
	Paste     ActionType = "PASTE"
	Delete    ActionType = "DELETE"
)

// Actions returns every action type.
func Actions() []ActionType {
	return []ActionType{Text, Format, Structure, Paste, Delete}
}

// ParseAction resolves an action name, ignoring case.
func ParseAction(s string) (ActionType, error) {
	a := ActionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// String returns the action name.
func (a ActionType) String() string {
	return string(a)
}

// Batchable returns true if consecutive saves of this type may coalesce.
func (a ActionType) Batchable() bool {
	return a == Text
}
