package workflow

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Action is a stage decision on a request or line item.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// MaxRejectNoteLen bounds the rejection note, in characters.
const MaxRejectNoteLen = 500

var (
	ErrNoteRequired = errors.New("a note explaining the rejection is required")
	ErrNoteTooLong  = errors.New("note too long: 500 characters maximum")
)

// ParseAction normalizes and validates an action string.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	default:
		return "", ErrInvalidAction
	}
}

// ValidateRejectNote enforces the non-empty, 500-character bound on
// rejection notes. Length is counted in characters, not bytes.
func ValidateRejectNote(note string) error {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return ErrNoteRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxRejectNoteLen {
		return ErrNoteTooLong
	}
	return nil
}
