package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/notify"
	"github.com/vitaflowd/vitaflow/internal/scheduler"
	"github.com/vitaflowd/vitaflow/internal/views"
)

func (m *Model) Init() tea.Cmd {
	if m.engine == nil {
		return nil
	}
	return WaitForReminder(m.engine.C())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReminderDueMsg:
		cmd := m.handleReminder(msg.Event)
		return m, tea.Batch(cmd, WaitForReminder(m.engine.C()))

	case ReminderChannelClosedMsg:
		return m, nil

	case DayRolledOverMsg:
		m.refreshItems()
		m.banner = "New day: check-ins reset"
		return m, nil

	case ExtractResultMsg:
		return m, m.handleExtractResult(msg)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.importBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.importSpinner, cmd = m.importSpinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.paletteOpen {
		return m.handlePaletteKey(msg)
	}
	switch m.view {
	case ViewAdd:
		return m.handleAddKey(msg)
	case ViewImport:
		return m.handleImportKey(msg)
	default:
		return m.handleChecklistKey(msg)
	}
}

func (m *Model) handleReminder(ev scheduler.ReminderEvent) tea.Cmd {
	m.lastReminder = views.RenderReminderLine(ev.Name, ev.At)
	n := notify.FromEvent(ev)
	if m.notificationsOn && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Warn("notification send failed",
				zap.String("item", ev.ItemID),
				zap.String("tag", ev.Tag),
				zap.Error(err))
			return m.setStatus("error: could not deliver notification for " + ev.Name)
		}
	}
	return m.setStatus(n.Title)
}

func (m *Model) handleExtractResult(msg ExtractResultMsg) tea.Cmd {
	m.importBusy = false
	if msg.Err != nil {
		m.importErr = "Could not understand that text. You can edit it and retry."
		m.log.Warn("text interpretation failed", zap.Error(msg.Err))
		return nil
	}
	if len(msg.Inputs) == 0 {
		m.importErr = "No supplements found in that text."
		return nil
	}
	m.importErr = ""
	m.importPreview = msg.Inputs
	return nil
}

func (m *Model) handleChecklistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		switch msg.String() {
		case "y":
			m.confirmDelete = false
			item, ok := m.selected()
			if !ok {
				return m, nil
			}
			if err := m.repo.Remove(item.ID); err != nil {
				return m, m.setStatus("error: " + err.Error())
			}
			m.refreshItems()
			return m, m.setStatus("removed " + item.Name)
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		updated, err := m.repo.ToggleTaken(item.ID)
		if err != nil {
			return m, m.setStatus("error: " + err.Error())
		}
		m.refreshItems()
		if updated.Taken {
			return m, m.setStatus(updated.Name + " checked off")
		}
		return m, m.setStatus(updated.Name + " unchecked")
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	case "a":
		return m, m.openAddForm()
	case "i":
		return m, m.openImport()
	case "n":
		return m, m.toggleNotifications()
	case "/":
		m.paletteOpen = true
		m.paletteInput.SetValue("")
		return m, m.paletteInput.Focus()
	case "?":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m *Model) toggleNotifications() tea.Cmd {
	m.notificationsOn = !m.notificationsOn
	if m.engine != nil {
		if m.notificationsOn {
			m.engine.Arm()
		} else {
			m.engine.Disarm()
		}
	}
	if m.notificationsOn {
		return m.setStatus("reminders on")
	}
	return m.setStatus("reminders off")
}

func (m *Model) openAddForm() tea.Cmd {
	m.view = ViewAdd
	m.addFocus = 0
	m.addCategory = 0
	m.addErr = ""
	for i := range m.addInputs {
		m.addInputs[i].SetValue("")
		m.addInputs[i].Blur()
	}
	return tea.Batch(m.addInputs[0].Focus(), textinput.Blink)
}

func (m *Model) openImport() tea.Cmd {
	m.view = ViewImport
	m.importBusy = false
	m.importErr = ""
	m.importPreview = nil
	m.importArea.SetValue("")
	return m.importArea.Focus()
}

// categoryRow is the pseudo-field after the last text input.
func (m *Model) categoryRow() int { return len(m.addInputs) }

func (m *Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewChecklist
		return m, nil
	case "tab", "down":
		return m, m.focusAddField(m.addFocus + 1)
	case "shift+tab", "up":
		return m, m.focusAddField(m.addFocus - 1)
	case "enter":
		return m, m.submitAddForm()
	case "c":
		if m.addFocus == m.categoryRow() {
			m.addCategory = (m.addCategory + 1) % len(categoryCycle)
			return m, nil
		}
	}
	if m.addFocus < len(m.addInputs) {
		var cmd tea.Cmd
		m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusAddField(next int) tea.Cmd {
	total := len(m.addInputs) + 1
	m.addFocus = ((next % total) + total) % total
	var cmd tea.Cmd
	for i := range m.addInputs {
		if i == m.addFocus {
			cmd = m.addInputs[i].Focus()
		} else {
			m.addInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) submitAddForm() tea.Cmd {
	input := model.NewSupplementInput{
		Name:         strings.TrimSpace(m.addInputs[0].Value()),
		Dosage:       strings.TrimSpace(m.addInputs[1].Value()),
		Frequency:    strings.TrimSpace(m.addInputs[2].Value()),
		ReminderTime: strings.TrimSpace(m.addInputs[3].Value()),
		Notes:        strings.TrimSpace(m.addInputs[4].Value()),
		Category:     categoryCycle[m.addCategory],
	}
	added, err := m.repo.Add([]model.NewSupplementInput{input})
	if err != nil {
		m.addErr = err.Error()
		return nil
	}
	m.view = ViewChecklist
	m.refreshItems()
	return m.setStatus("added " + added[0].Name)
}

func (m *Model) handleImportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewChecklist
		m.importPreview = nil
		m.importErr = ""
		m.importBusy = false
		return m, nil
	case "enter":
		if m.importBusy {
			return m, nil
		}
		if len(m.importPreview) > 0 {
			return m, m.applyImportPreview()
		}
		text := strings.TrimSpace(m.importArea.Value())
		if text == "" {
			m.importErr = "Paste some text first."
			return m, nil
		}
		m.importBusy = true
		m.importErr = ""
		return m, tea.Batch(m.importSpinner.Tick, extractCmd(m.extractor, text))
	}
	if m.importBusy {
		return m, nil
	}
	var cmd tea.Cmd
	m.importArea, cmd = m.importArea.Update(msg)
	return m, cmd
}

func (m *Model) applyImportPreview() tea.Cmd {
	added, err := m.repo.Add(m.importPreview)
	if err != nil {
		m.importErr = "Could not add the extracted items: " + err.Error()
		return nil
	}
	m.importPreview = nil
	m.view = ViewChecklist
	m.refreshItems()
	return m.setStatus(fmt.Sprintf("imported %d items", len(added)))
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var left string
	switch m.view {
	case ViewAdd:
		left = m.viewAddForm()
	case ViewImport:
		left = m.viewImportPanel()
	default:
		left = m.viewChecklist()
	}

	var right string
	if m.helpVisible {
		right = views.RenderHelpPanel(views.HelpPanelData{Bindings: helpBindings})
	} else {
		right = m.viewDetailPane()
	}

	status := m.status
	if m.paletteOpen {
		status = "command: " + m.paletteInput.View()
	} else if status == "" && m.lastReminder != "" {
		status = m.lastReminder
	}

	return views.RenderApp(views.AppData{
		Header:     "VitaFlow",
		Banner:     m.banner,
		LeftPane:   left,
		RightPane:  right,
		StatusLine: status,
		Footer:     footerHints(m.notificationsOn),
	})
}

var helpBindings = []string{
	"j/k, up/down   move cursor",
	"space, enter   toggle taken",
	"a              add a supplement",
	"i              import from text",
	"d, then y      delete selected",
	"n              toggle reminders",
	"/              command palette",
	"?              close help",
	"q, ctrl+c      quit",
}

func footerHints(notificationsOn bool) string {
	state := "off"
	if notificationsOn {
		state = "on"
	}
	return fmt.Sprintf("space toggle · a add · i import · d delete · n reminders (%s) · / command · ? help · q quit", state)
}

func (m *Model) viewChecklist() string {
	p := m.repo.Progress()
	return views.RenderChecklistPanel(views.ChecklistPanelData{
		ProgressView:  m.progressBar.ViewAs(p.Percentage / 100),
		Completed:     p.Completed,
		Total:         p.Total,
		Items:         toChecklistItems(m.items),
		Cursor:        m.cursor,
		ConfirmDelete: m.confirmDelete,
	})
}

func (m *Model) viewDetailPane() string {
	item, ok := m.selected()
	if !ok {
		return views.RenderDetailPane(views.DetailPaneData{})
	}
	return views.RenderDetailPane(views.DetailPaneData{
		Name:         item.Name,
		Dosage:       item.Dosage,
		Frequency:    item.Frequency,
		Category:     string(item.Category),
		ReminderTime: item.ReminderTime,
		NotesView:    views.RenderMarkdown(item.Notes),
	})
}

func (m *Model) viewAddForm() string {
	fieldViews := make([]string, len(m.addInputs))
	for i := range m.addInputs {
		fieldViews[i] = m.addInputs[i].View()
	}
	return views.RenderAddForm(views.AddFormData{
		FieldLabels: addFieldLabels,
		FieldViews:  fieldViews,
		Focused:     m.addFocus,
		Category:    string(categoryCycle[m.addCategory]),
		ErrorText:   m.addErr,
	})
}

func (m *Model) viewImportPanel() string {
	return views.RenderImportPanel(views.ImportPanelData{
		TextareaView: m.importArea.View(),
		SpinnerView:  m.importSpinner.View(),
		InFlight:     m.importBusy,
		ErrorText:    m.importErr,
		Preview:      toPreviewItems(m.importPreview),
	})
}

func toChecklistItems(items []model.Supplement) []views.ChecklistItemData {
	out := make([]views.ChecklistItemData, len(items))
	for i, item := range items {
		out[i] = views.ChecklistItemData{
			ID:           item.ID,
			Name:         item.Name,
			Dosage:       item.Dosage,
			Category:     string(item.Category),
			ReminderTime: item.ReminderTime,
			Taken:        item.Taken,
		}
	}
	return out
}

func toPreviewItems(inputs []model.NewSupplementInput) []views.ChecklistItemData {
	out := make([]views.ChecklistItemData, len(inputs))
	for i, in := range inputs {
		out[i] = views.ChecklistItemData{
			Name:         in.Name,
			Dosage:       in.Dosage,
			Category:     string(in.Category),
			ReminderTime: in.ReminderTime,
		}
	}
	return out
}
