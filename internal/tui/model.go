package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"obst/internal/domain"
	"obst/internal/service"
	"obst/internal/wizard"
)

// Observations is what the terminal UI needs from the service layer.
type Observations interface {
	Define(ctx context.Context, s *domain.ObservationSchema) (*service.DefineResult, error)
	ListObservations(ctx context.Context) ([]domain.TableInfo, error)
	Load(ctx context.Context, table string) (*domain.ObservationSchema, error)
	Append(ctx context.Context, s *domain.ObservationSchema, values []any) error
}

type mode int

const (
	modeMenu mode = iota
	modeDefine
	modePick
	modeFill
)

func (m mode) String() string {
	switch m {
	case modeMenu:
		return "menu"
	case modeDefine:
		return "define"
	case modePick:
		return "pick"
	case modeFill:
		return "fill"
	default:
		return "unknown"
	}
}

// defineOutcome carries the service result out of the wizard's committer.
type defineOutcome struct {
	result *service.DefineResult
}

// Model is the bubbletea model driving the start menu, the definition
// wizard, the observation picker and the record form.
type Model struct {
	ctx  context.Context
	svc  Observations
	log  *slog.Logger
	keys keyMap
	help help.Model

	mode     mode
	showHelp bool
	width    int

	wizard  *wizard.Wizard
	outcome *defineOutcome
	form    *wizard.Form

	tables []domain.TableInfo
	cursor int

	status    string
	statusErr bool
}

func NewModel(ctx context.Context, svc Observations, log *slog.Logger) Model {
	return Model{
		ctx:  ctx,
		svc:  svc,
		log:  log,
		keys: keys,
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeMenu:
			return m.updateMenu(msg)
		case modeDefine:
			return m.updateDefine(msg), nil
		case modePick:
			return m.updatePick(msg), nil
		case modeFill:
			return m.updateFill(msg), nil
		}
	}
	return m, nil
}

// ── Start menu ─────────────────────────────────────────────

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.New):
		return m.startDefine(), nil
	case key.Matches(msg, m.keys.Add):
		return m.startPick(), nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) toMenu(status string, isErr bool) Model {
	m.mode = modeMenu
	m.wizard, m.outcome, m.form = nil, nil, nil
	m.tables, m.cursor = nil, 0
	m.status, m.statusErr = status, isErr
	return m
}

// ── Definition wizard ──────────────────────────────────────

func (m Model) startDefine() Model {
	log := m.log.With("session", uuid.NewString())
	outcome := &defineOutcome{}
	svc := m.svc
	commit := wizard.CommitFunc(func(ctx context.Context, s *domain.ObservationSchema) error {
		res, err := svc.Define(ctx, s)
		if err != nil {
			return err
		}
		outcome.result = res
		return nil
	})

	log.Debug("definition started")
	m.mode = modeDefine
	m.wizard = wizard.New(commit, log)
	m.outcome = outcome
	m.status = ""
	return m
}

func (m Model) updateDefine(msg tea.KeyMsg) Model {
	for _, ev := range eventsFor(msg) {
		m.wizard.Apply(m.ctx, ev)
	}

	switch m.wizard.State() {
	case wizard.StateCommitted:
		res := m.outcome.result
		if res != nil && !res.Created {
			return m.toMenu(fmt.Sprintf("Observation %s already exists.", res.Table), false)
		}
		s := m.wizard.Schema()
		return m.toMenu(fmt.Sprintf("Observation %s created.", s.Name), false)
	case wizard.StateCancelled:
		return m.toMenu("Cancelled.", false)
	}
	return m
}

// ── Observation picker ─────────────────────────────────────

func (m Model) startPick() Model {
	tables, err := m.svc.ListObservations(m.ctx)
	if err != nil {
		return m.toMenu(errorText(err), true)
	}
	if len(tables) == 0 {
		return m.toMenu("No observations yet. Press 1 to define one.", false)
	}
	m.mode = modePick
	m.tables = tables
	m.cursor = 0
	m.status = ""
	return m
}

func (m Model) updatePick(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.toMenu("", false)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tables)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		table := m.tables[m.cursor].Name
		obs, err := m.svc.Load(m.ctx, table)
		if err != nil {
			if errors.Is(err, domain.ErrTableNotFound) {
				m = m.startPick()
			}
			m.status, m.statusErr = errorText(err), true
			return m
		}
		return m.startFill(obs)
	}
	return m
}

// ── Record form ────────────────────────────────────────────

func (m Model) startFill(obs *domain.ObservationSchema) Model {
	log := m.log.With("session", uuid.NewString(), "table", obs.Name)
	log.Debug("record started", "fields", len(obs.Fields))
	m.mode = modeFill
	m.form = wizard.NewForm(obs, wizard.AppendFunc(m.svc.Append), log)
	m.status = ""
	return m
}

func (m Model) updateFill(msg tea.KeyMsg) Model {
	for _, ev := range eventsFor(msg) {
		m.form.Apply(m.ctx, ev)
	}

	switch m.form.State() {
	case wizard.FormCommitted:
		return m.toMenu("Observation recorded.", false)
	case wizard.FormCancelled:
		return m.toMenu("Cancelled.", false)
	}
	return m
}

// eventsFor translates a key press into input events. Pasted text arrives
// as several runes in one message.
func eventsFor(msg tea.KeyMsg) []wizard.Event {
	switch msg.Type {
	case tea.KeyRunes:
		evs := make([]wizard.Event, len(msg.Runes))
		for i, r := range msg.Runes {
			evs[i] = wizard.Char(r)
		}
		return evs
	case tea.KeySpace:
		return []wizard.Event{wizard.Char(' ')}
	case tea.KeyBackspace:
		return []wizard.Event{wizard.Backspace()}
	case tea.KeyLeft:
		return []wizard.Event{wizard.Left()}
	case tea.KeyRight:
		return []wizard.Event{wizard.Right()}
	case tea.KeyEnter:
		return []wizard.Event{wizard.Confirm()}
	case tea.KeyEsc:
		return []wizard.Event{wizard.Cancel()}
	}
	return nil
}

// ── Rendering ──────────────────────────────────────────────

func (m Model) View() string {
	var sections []string

	switch m.mode {
	case modeMenu:
		sections = append(sections, m.renderMenu())
	case modeDefine:
		sections = append(sections, renderStep(m.wizard.View()))
	case modePick:
		sections = append(sections, m.renderPicker())
	case modeFill:
		sections = append(sections, renderStep(m.form.View()))
	}

	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.shortHelp()))
	}

	return appStyle.Render(strings.Join(sections, "\n\n"))
}

func (m Model) shortHelp() []key.Binding {
	switch m.mode {
	case modeMenu:
		return []key.Binding{m.keys.New, m.keys.Add, m.keys.Quit, m.keys.Help}
	case modePick:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Confirm, m.keys.Cancel, m.keys.Abort}
	default:
		return m.keys.ShortHelp()
	}
}

func (m Model) renderMenu() string {
	title := titleStyle.Render("ObSt observation tracking tool")
	items := []string{
		promptStyle.Render("<1>") + " New Observation",
		promptStyle.Render("<2>") + " Add Observation",
		promptStyle.Render("<Q>") + " Quit",
	}
	return title + "\n" + strings.Join(items, "\n")
}

func (m Model) renderPicker() string {
	lines := []string{titleStyle.Render("Add Observation"), promptStyle.Render("Choose an observation:")}
	for i, t := range m.tables {
		rows := fmt.Sprintf("%d rows", t.Rows)
		if t.Rows < 0 {
			rows = "? rows"
		}
		line := fmt.Sprintf("%s  %s", t.Name, hintStyle.Render(rows))
		if i == m.cursor {
			line = selectedStyle.Render("> " + t.Name) + "  " + hintStyle.Render(rows)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderStep(v wizard.View) string {
	lines := []string{titleStyle.Render(v.Title), promptStyle.Render(v.Prompt)}
	if v.Hint != "" {
		lines = append(lines, hintStyle.Render(v.Hint))
	}
	if v.Confirmation != "" {
		lines = append(lines, confirmStyle.Render(v.Confirmation))
	} else {
		lines = append(lines, inputStyle.Render(renderInput(v.Input, v.Caret)))
	}
	if v.Err != nil {
		lines = append(lines, errorStyle.Render(errorText(v.Err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderInput(text string, caret int) string {
	runes := []rune(text)
	if caret < 0 || caret > len(runes) {
		caret = len(runes)
	}
	at := " "
	after := ""
	if caret < len(runes) {
		at = string(runes[caret])
		after = string(runes[caret+1:])
	}
	return string(runes[:caret]) + caretStyle.Render(at) + after
}

func errorText(err error) string {
	return fmt.Sprintf("%s error: %v", domain.Kind(err), err)
}
