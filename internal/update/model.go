package update

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vitaflowd/vitaflow/internal/lifecycle"
	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/notify"
	"github.com/vitaflowd/vitaflow/internal/repository"
	"github.com/vitaflowd/vitaflow/internal/scheduler"
)

// View selects the active left-pane screen.
type View int

const (
	ViewChecklist View = iota
	ViewAdd
	ViewImport
)

// Extractor turns free regimen text into supplement candidates.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]model.NewSupplementInput, error)
}

// ReminderDueMsg delivers one scheduler event into the update loop.
type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

// ReminderChannelClosedMsg arrives once the scheduler shuts down.
type ReminderChannelClosedMsg struct{}

// DayRolledOverMsg signals that the midnight rollover already cleared the
// taken flags through the repository; the UI only refreshes its display.
type DayRolledOverMsg struct{}

// ExtractResultMsg is the outcome of one text interpretation call.
type ExtractResultMsg struct {
	Inputs []model.NewSupplementInput
	Err    error
}

// ClearStatusMsg expires a transient status line. Seq guards against
// clearing a newer message with an older timer.
type ClearStatusMsg struct {
	Seq int
}

var addFieldLabels = []string{"name", "dosage", "frequency", "reminder", "notes"}

var categoryCycle = []model.Category{
	model.CategoryOther,
	model.CategoryVitamin,
	model.CategoryMedicine,
	model.CategoryProtein,
}

// Model is the whole application state for the terminal UI.
type Model struct {
	repo      *repository.Repository
	engine    *scheduler.Engine
	notifier  notify.Notifier
	extractor Extractor
	log       *zap.Logger

	view            View
	items           []model.Supplement
	cursor          int
	confirmDelete   bool
	helpVisible     bool
	notificationsOn bool
	lastReminder    string
	banner          string
	status          string
	statusSeq       int
	quitting        bool

	progressBar progress.Model

	addInputs   []textinput.Model
	addFocus    int
	addCategory int
	addErr      string

	importArea    textarea.Model
	importSpinner spinner.Model
	importBusy    bool
	importErr     string
	importPreview []model.NewSupplementInput

	paletteOpen  bool
	paletteInput textinput.Model
}

func NewModel(repo *repository.Repository, engine *scheduler.Engine, notifier notify.Notifier, extractor Extractor, log *zap.Logger, notificationsOn bool) *Model {
	if log == nil {
		log = zap.NewNop()
	}

	inputs := make([]textinput.Model, len(addFieldLabels))
	for i, label := range addFieldLabels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		switch label {
		case "reminder":
			in.Placeholder = "HH:MM (optional)"
			in.CharLimit = 5
		case "notes":
			in.Placeholder = "optional"
		}
		inputs[i] = in
	}

	area := textarea.New()
	area.Placeholder = "Paste your regimen text, e.g. \"vitamin c 500mg every morning at 8\""
	area.SetWidth(52)
	area.SetHeight(6)

	palette := textinput.New()
	palette.Prompt = "/"
	palette.Placeholder = "take <name> | add <name> <dosage> | remove <name> | remind <name> <HH:MM> | import <text>"
	palette.CharLimit = 200

	m := &Model{
		repo:            repo,
		engine:          engine,
		notifier:        notifier,
		extractor:       extractor,
		log:             log,
		notificationsOn: notificationsOn,
		progressBar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		addInputs:       inputs,
		importArea:      area,
		importSpinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		paletteInput:    palette,
	}
	m.refreshItems()
	return m
}

// SetStartupNotices surfaces what happened while loading state: seed install,
// the daily reset, or a corrupt-blob fallback.
func (m *Model) SetStartupNotices(res lifecycle.Result) {
	switch {
	case res.LoadWarning != nil:
		m.status = "error: stored data was unreadable, starting from defaults"
		m.log.Warn("corrupt collection blob, seeded defaults", zap.Error(res.LoadWarning))
	case res.Seeded:
		m.banner = "Welcome! A starter checklist was added for you."
	case res.Reset:
		m.banner = "New day: check-ins reset for " + lifecycle.LocalDay(time.Now())
	}
}

// WaitForReminder blocks on the scheduler channel and converts one event into
// a message; the update loop re-issues it after each delivery.
func WaitForReminder(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return ReminderChannelClosedMsg{}
		}
		return ReminderDueMsg{Event: ev}
	}
}

func extractCmd(ex Extractor, text string) tea.Cmd {
	return func() tea.Msg {
		if ex == nil {
			return ExtractResultMsg{Err: errors.New("text import is not configured, set VITAFLOW_GEMINI_API_KEY")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		inputs, err := ex.Extract(ctx, text)
		return ExtractResultMsg{Inputs: inputs, Err: err}
	}
}

const statusTTL = 4 * time.Second

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func (m *Model) refreshItems() {
	m.items = m.repo.Sorted()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.items) == 0 {
		m.confirmDelete = false
	}
}

func (m *Model) selected() (model.Supplement, bool) {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return model.Supplement{}, false
	}
	return m.items[m.cursor], true
}
