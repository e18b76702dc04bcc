package task

import (
	"database/sql/driver"
	"fmt"
	"strings"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// State represents the lifecycle state of a task.
type State string

const (
	StateDoing State = "Doing" // open, the default
	StateDone  State = "Done"
	StateDead  State = "Dead" // abandoned
)

// ValidStates returns all valid state values.
func ValidStates() []State {
	return []State{StateDoing, StateDone, StateDead}
}

// Valid returns true if s is one of the canonical state values.
func (s State) Valid() bool {
	switch s {
	case StateDoing, StateDone, StateDead:
		return true
	default:
		return false
	}
}

// ParseState parses a state name case-insensitively, so "DONE" and "done"
// both yield StateDone.
func ParseState(s string) (State, error) {
	for _, st := range ValidStates() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", tberrors.ErrStateUnknown(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, tberrors.ErrStateUnknown(string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	st, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Value implements driver.Valuer.
func (s State) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, tberrors.ErrStateUnknown(string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *State) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return tberrors.ErrStateUnknown("NULL")
	default:
		return tberrors.ErrStateUnknown(fmt.Sprintf("%v", v))
	}
}
