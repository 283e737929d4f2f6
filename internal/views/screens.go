package views

import (
	"fmt"
	"strings"
)

type ChecklistItemData struct {
	ID           string
	Name         string
	Dosage       string
	Category     string
	ReminderTime string
	Taken        bool
}

type ChecklistPanelData struct {
	ProgressView  string
	Completed     int
	Total         int
	Items         []ChecklistItemData
	Cursor        int
	ConfirmDelete bool
}

func RenderChecklistPanel(data ChecklistPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Today  %d/%d taken\n", data.Completed, data.Total))
	b.WriteString(data.ProgressView)
	b.WriteString("\n\n")

	if len(data.Items) == 0 {
		b.WriteString("No supplements yet. Press a to add one, or i to import from text.")
		return b.String()
	}

	for i, item := range data.Items {
		marker := "[ ]"
		if item.Taken {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s", marker, item.Name)
		if item.Dosage != "" {
			line += "  " + item.Dosage
		}
		if item.ReminderTime != "" {
			line += "  @" + item.ReminderTime
		}
		if item.Category != "" && item.Category != "other" {
			line += "  (" + item.Category + ")"
		}
		if item.Taken {
			line = takenStyle.Render(line)
		}
		if i == data.Cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if data.ConfirmDelete {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("delete selected item? y/n"))
	}
	return b.String()
}

type DetailPaneData struct {
	Name         string
	Dosage       string
	Frequency    string
	Category     string
	ReminderTime string
	NotesView    string
}

func RenderDetailPane(data DetailPaneData) string {
	if data.Name == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details: " + data.Name + "\n")
	if data.Dosage != "" {
		b.WriteString("dosage: " + data.Dosage + "\n")
	}
	if data.Frequency != "" {
		b.WriteString("frequency: " + data.Frequency + "\n")
	}
	if data.Category != "" {
		b.WriteString("category: " + data.Category + "\n")
	}
	if data.ReminderTime != "" {
		b.WriteString("reminder: " + data.ReminderTime + " daily\n")
	}
	if data.NotesView != "" {
		b.WriteString("\n" + data.NotesView + "\n")
	}
	return b.String()
}

type AddFormData struct {
	FieldLabels []string
	FieldViews  []string
	Focused     int
	Category    string
	ErrorText   string
}

func RenderAddForm(data AddFormData) string {
	var b strings.Builder
	b.WriteString("Add supplement (tab: next field, enter: save, esc: cancel)\n\n")
	for i, label := range data.FieldLabels {
		prefix := "  "
		if i == data.Focused {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s\n", prefix, label, data.FieldViews[i]))
	}
	b.WriteString(fmt.Sprintf("  %-10s %s (c to cycle)\n", "category", data.Category))
	if data.ErrorText != "" {
		b.WriteString("\n" + errorStyle.Render(data.ErrorText))
	}
	return b.String()
}

type ImportPanelData struct {
	TextareaView string
	SpinnerView  string
	InFlight     bool
	ErrorText    string
	Preview      []ChecklistItemData
}

func RenderImportPanel(data ImportPanelData) string {
	var b strings.Builder
	b.WriteString("Import from text (enter: interpret, esc: cancel)\n\n")
	b.WriteString(data.TextareaView)
	b.WriteString("\n")
	if data.InFlight {
		b.WriteString("\n" + data.SpinnerView + " interpreting...\n")
	}
	if data.ErrorText != "" {
		b.WriteString("\n" + errorStyle.Render(data.ErrorText) + "\n")
		b.WriteString("You can retry, or press esc and add items manually.\n")
	}
	if len(data.Preview) > 0 {
		b.WriteString("\nExtracted entries:\n")
		for _, item := range data.Preview {
			line := "  + " + item.Name
			if item.Dosage != "" {
				line += "  " + item.Dosage
			}
			if item.ReminderTime != "" {
				line += "  @" + item.ReminderTime
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\nenter: add all, esc: discard\n")
	}
	return b.String()
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help\n")
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	if data.HelpView != "" {
		b.WriteString(data.HelpView)
	}
	return b.String()
}

func RenderReminderLine(name, at string) string {
	return fmt.Sprintf("last reminder: %s @ %s", name, at)
}
