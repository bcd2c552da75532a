// Package wizard drives the step-wise collection of observation schemas and
// observation records from discrete input events. It performs no I/O of its
// own: completed work is handed to a committer at the final confirmation.
package wizard

// EventKind is the type of a discrete input event.
type EventKind int

const (
	EventChar EventKind = iota
	EventBackspace
	EventLeft
	EventRight
	EventConfirm
	EventCancel
)

// Event is one input consumed per tick.
type Event struct {
	Kind EventKind
	Char rune
}

func Char(r rune) Event { return Event{Kind: EventChar, Char: r} }
func Backspace() Event { return Event{Kind: EventBackspace} }
func Left() Event { return Event{Kind: EventLeft} }
func Right() Event { return Event{Kind: EventRight} }
func Confirm() Event { return Event{Kind: EventConfirm} }
func Cancel() Event { return Event{Kind: EventCancel} }

// Type returns the events for typing s followed by a confirmation.
func Type(s string) []Event {
	evs := make([]Event, 0, len(s)+1)
	for _, r := range s {
		evs = append(evs, Char(r))
	}
	return append(evs, Confirm())
}

// View is a pure description of what to render for the current step.
type View struct {
	Tag          string
	Title        string
	Prompt       string
	Hint         string
	Input        string
	Caret        int
	Confirmation string
	Err          error
}
