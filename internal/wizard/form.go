package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"obst/internal/domain"
	"obst/internal/input"
)

// FormState is a step of the record form.
type FormState int

const (
	FormCollectValue FormState = iota
	FormReview
	FormCommitted
	FormCancelled
)

func (s FormState) String() string {
	switch s {
	case FormCollectValue:
		return "CollectValue"
	case FormReview:
		return "Review"
	case FormCommitted:
		return "Committed"
	case FormCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("FormState(%d)", int(s))
	}
}

func (s FormState) Terminal() bool {
	return s == FormCommitted || s == FormCancelled
}

// RecordCommitter stores one record. values align with s.Fields; the
// implicit Date column is not part of them.
type RecordCommitter interface {
	Append(ctx context.Context, s *domain.ObservationSchema, values []any) error
}

// AppendFunc adapts a function to RecordCommitter.
type AppendFunc func(ctx context.Context, s *domain.ObservationSchema, values []any) error

func (f AppendFunc) Append(ctx context.Context, s *domain.ObservationSchema, values []any) error {
	return f(ctx, s, values)
}

// Form collects one value per user field of an existing observation.
type Form struct {
	log       *slog.Logger
	committer RecordCommitter

	schema *domain.ObservationSchema
	state  FormState
	index  int
	values []any
	raw    []string
	buf    input.Buffer
	err    error
}

// NewForm starts a form for s. A schema with no user fields goes straight
// to review.
func NewForm(s *domain.ObservationSchema, committer RecordCommitter, log *slog.Logger) *Form {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	f := &Form{
		log:       log,
		committer: committer,
		schema:    s,
		values:    make([]any, 0, len(s.Fields)),
		raw:       make([]string, 0, len(s.Fields)),
	}
	if len(s.Fields) == 0 {
		f.state = FormReview
	}
	return f
}

func (f *Form) State() FormState { return f.state }
func (f *Form) Err() error { return f.err }

// Values returns the parsed values collected so far.
func (f *Form) Values() []any {
	return append([]any(nil), f.values...)
}

// Apply consumes one event and returns the resulting state.
func (f *Form) Apply(ctx context.Context, ev Event) FormState {
	if f.state.Terminal() {
		return f.state
	}

	switch ev.Kind {
	case EventCancel:
		f.log.Debug("form cancelled", "table", f.schema.Name, "field", f.index)
		f.values, f.raw, f.buf, f.err = nil, nil, input.Buffer{}, nil
		f.state = FormCancelled
	case EventConfirm:
		if f.state == FormReview {
			f.commit(ctx)
		} else {
			f.collect()
		}
	default:
		if f.state == FormCollectValue {
			edit(&f.buf, ev)
		}
	}
	return f.state
}

func (f *Form) collect() {
	field := f.schema.Fields[f.index]
	text := strings.TrimSpace(f.buf.Snapshot())
	f.buf.Clear()

	v, err := domain.ParseValue(field.Type, text)
	if err != nil {
		f.err = &domain.InputError{State: FormCollectValue.String(), Input: text, Err: err}
		return
	}
	f.err = nil
	f.values = append(f.values, v)
	f.raw = append(f.raw, text)
	f.index++
	if f.index == len(f.schema.Fields) {
		f.state = FormReview
	}
}

func (f *Form) commit(ctx context.Context) {
	if err := f.committer.Append(ctx, f.schema, f.Values()); err != nil {
		f.err = err
		f.log.Warn("append failed", "table", f.schema.Name, "error", err)
		return
	}
	f.err = nil
	f.state = FormCommitted
}

// View describes the current step for rendering.
func (f *Form) View() View {
	v := View{
		Tag:   f.state.String(),
		Title: "Add Observation: " + f.schema.Name,
		Input: f.buf.Snapshot(),
		Caret: f.buf.Caret(),
		Err:   f.err,
	}

	switch f.state {
	case FormCollectValue:
		field := f.schema.Fields[f.index]
		v.Prompt = fmt.Sprintf("%s (%d of %d):", field.Name, f.index+1, len(f.schema.Fields))
		v.Hint = valueHint(field)
	case FormReview:
		v.Prompt = "Record this observation?"
		v.Hint = "enter to confirm, esc to cancel"
		v.Confirmation = f.summary()
	case FormCommitted:
		v.Prompt = "Observation recorded."
	case FormCancelled:
		v.Prompt = "Cancelled."
	}
	return v
}

func (f *Form) summary() string {
	parts := make([]string, 0, len(f.raw)+1)
	if f.schema.Timestamped {
		parts = append(parts, f.schema.TimestampField()+"=now")
	}
	for i, r := range f.raw {
		parts = append(parts, f.schema.Fields[i].Name+"="+r)
	}
	return strings.Join(parts, ", ")
}

func valueHint(field domain.FieldDefinition) string {
	switch field.Type {
	case domain.FieldTypeInteger:
		return "whole number"
	case domain.FieldTypeFloat:
		return "number"
	case domain.FieldTypeBoolean:
		return "y/n"
	case domain.FieldTypeTimestamp:
		return "YYYY-MM-DD HH:MM"
	default:
		return "text (" + field.Declared + ")"
	}
}
