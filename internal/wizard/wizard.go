package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"obst/internal/domain"
	"obst/internal/input"
	"obst/internal/schema"
)

// MaxFields bounds the field count answer: counts must be below it.
const MaxFields = 256

// State is a step of the definition wizard.
type State int

const (
	StateCollectName State = iota
	StateCollectDateFlag
	StateCollectFieldCount
	StateCollectFieldName
	StateCollectFieldType
	StateReview
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCollectName:
		return "CollectName"
	case StateCollectDateFlag:
		return "CollectDateFlag"
	case StateCollectFieldCount:
		return "CollectFieldCount"
	case StateCollectFieldName:
		return "CollectFieldName"
	case StateCollectFieldType:
		return "CollectFieldType"
	case StateReview:
		return "Review"
	case StateCommitted:
		return "Committed"
	case StateCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateCancelled
}

// Committer receives the completed schema when the review is confirmed.
type Committer interface {
	Commit(ctx context.Context, s *domain.ObservationSchema) error
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(ctx context.Context, s *domain.ObservationSchema) error

func (f CommitFunc) Commit(ctx context.Context, s *domain.ObservationSchema) error {
	return f(ctx, s)
}

// Wizard collects an ObservationSchema one input event at a time.
// States advance in a fixed order; malformed input re-prompts the same
// state and only an explicit cancel abandons the run.
type Wizard struct {
	log       *slog.Logger
	committer Committer

	state     State
	schema    domain.ObservationSchema
	count     int
	index     int
	fieldName string
	buf       input.Buffer
	err       error
}

// New starts a wizard in CollectName.
func New(committer Committer, log *slog.Logger) *Wizard {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Wizard{log: log, committer: committer, state: StateCollectName}
}

func (w *Wizard) State() State { return w.state }

// Err is the error of the last rejected input or commit, if any.
func (w *Wizard) Err() error { return w.err }

// FieldIndex is the index of the field being collected.
func (w *Wizard) FieldIndex() int { return w.index }

// FieldCount is the number of user fields requested.
func (w *Wizard) FieldCount() int { return w.count }

// Schema returns a copy of the schema assembled so far.
func (w *Wizard) Schema() domain.ObservationSchema {
	s := w.schema
	s.Fields = append([]domain.FieldDefinition(nil), w.schema.Fields...)
	return s
}

// Apply consumes one event and returns the resulting state.
func (w *Wizard) Apply(ctx context.Context, ev Event) State {
	if w.state.Terminal() {
		return w.state
	}

	switch ev.Kind {
	case EventCancel:
		w.cancel()
	case EventConfirm:
		w.confirm(ctx)
	default:
		if w.state != StateReview {
			edit(&w.buf, ev)
		}
	}
	return w.state
}

func (w *Wizard) cancel() {
	w.log.Debug("wizard cancelled", "state", w.state.String())
	w.schema = domain.ObservationSchema{}
	w.buf = input.Buffer{}
	w.count, w.index, w.fieldName, w.err = 0, 0, "", nil
	w.state = StateCancelled
}

func (w *Wizard) confirm(ctx context.Context) {
	text := strings.TrimSpace(w.buf.Snapshot())

	var err error
	switch w.state {
	case StateCollectName:
		err = w.commitName(text)
	case StateCollectDateFlag:
		err = w.commitDateFlag(text)
	case StateCollectFieldCount:
		err = w.commitFieldCount(text)
	case StateCollectFieldName:
		err = w.commitFieldName(text)
	case StateCollectFieldType:
		err = w.commitFieldType(text)
	case StateReview:
		w.commitReview(ctx)
		return
	}

	w.buf.Clear()
	if err != nil {
		w.err = &domain.InputError{State: w.state.String(), Input: text, Err: err}
		w.log.Debug("input rejected", "state", w.state.String(), "input", text, "error", err)
		return
	}
	w.err = nil
}

func (w *Wizard) commitName(text string) error {
	if text == "" {
		return errors.New("a name is required")
	}
	if err := schema.ValidateIdentifier(text); err != nil {
		return err
	}
	w.schema.Name = text
	w.advance(StateCollectDateFlag)
	return nil
}

func (w *Wizard) commitDateFlag(text string) error {
	yes, ok := domain.ParseYesNo(text)
	if !ok {
		return errors.New("answer y or n")
	}
	w.schema.Timestamped = yes
	w.advance(StateCollectFieldCount)
	return nil
}

func (w *Wizard) commitFieldCount(text string) error {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 || n >= MaxFields {
		return fmt.Errorf("%w: enter a whole number from 0 to %d", domain.ErrInvalidValue, MaxFields-1)
	}
	w.count = n
	w.index = 0
	if n == 0 {
		w.advance(StateReview)
	} else {
		w.advance(StateCollectFieldName)
	}
	return nil
}

func (w *Wizard) commitFieldName(text string) error {
	if text == "" {
		return errors.New("a field name is required")
	}
	if err := schema.ValidateIdentifier(text); err != nil {
		return err
	}
	if w.schema.HasField(text) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateField, text)
	}
	w.fieldName = text
	w.advance(StateCollectFieldType)
	return nil
}

func (w *Wizard) commitFieldType(text string) error {
	selector, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("%w: choose %s", domain.ErrUnknownType, domain.MenuText())
	}
	ft, err := domain.TypeForSelector(selector)
	if err != nil {
		return err
	}

	w.schema.Fields = append(w.schema.Fields, domain.FieldDefinition{Name: w.fieldName, Type: ft})
	w.fieldName = ""
	w.index++
	if w.index < w.count {
		w.advance(StateCollectFieldName)
	} else {
		w.advance(StateReview)
	}
	return nil
}

func (w *Wizard) commitReview(ctx context.Context) {
	s := w.Schema()
	if err := w.committer.Commit(ctx, &s); err != nil {
		// The schema stays intact so the user can retry or cancel.
		w.err = err
		w.log.Warn("commit failed", "table", s.Name, "error", err)
		return
	}
	w.err = nil
	w.advance(StateCommitted)
}

func (w *Wizard) advance(next State) {
	w.log.Debug("wizard transition", "from", w.state.String(), "to", next.String(), "field", w.index)
	w.state = next
}

// View describes the current step for rendering.
func (w *Wizard) View() View {
	v := View{
		Tag:   w.state.String(),
		Title: "New Observation",
		Input: w.buf.Snapshot(),
		Caret: w.buf.Caret(),
		Err:   w.err,
	}

	switch w.state {
	case StateCollectName:
		v.Prompt = "Observation name:"
	case StateCollectDateFlag:
		v.Prompt = "Record the date with each observation? (y/n)"
	case StateCollectFieldCount:
		v.Prompt = fmt.Sprintf("How many fields? (0-%d)", MaxFields-1)
	case StateCollectFieldName:
		v.Prompt = fmt.Sprintf("Name of field %d of %d:", w.index+1, w.count)
	case StateCollectFieldType:
		v.Prompt = fmt.Sprintf("Type of field %q:", w.fieldName)
		v.Hint = domain.MenuText()
	case StateReview:
		v.Prompt = "Create this observation?"
		v.Hint = "enter to confirm, esc to cancel"
		v.Confirmation = Describe(&w.schema)
	case StateCommitted:
		v.Prompt = fmt.Sprintf("Observation %s saved.", w.schema.Name)
	case StateCancelled:
		v.Prompt = "Cancelled."
	}
	return v
}

// Describe renders a schema as "Name (col TYPE, ...)".
func Describe(s *domain.ObservationSchema) string {
	cols := s.Columns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + " " + c.StorageType()
	}
	return fmt.Sprintf("%s (%s)", s.Name, strings.Join(parts, ", "))
}

func edit(buf *input.Buffer, ev Event) {
	switch ev.Kind {
	case EventChar:
		buf.Insert(ev.Char)
	case EventBackspace:
		buf.Backspace()
	case EventLeft:
		buf.Left()
	case EventRight:
		buf.Right()
	}
}
