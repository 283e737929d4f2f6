package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaflowd/vitaflow/internal/commands"
	"github.com/vitaflowd/vitaflow/internal/model"
)

func (m *Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.paletteOpen = false
		m.paletteInput.Blur()
		return m, nil
	case "enter":
		raw := m.paletteInput.Value()
		m.paletteOpen = false
		m.paletteInput.Blur()
		return m, m.executePalette(raw)
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func (m *Model) executePalette(raw string) tea.Cmd {
	cmd, err := commands.Parse(raw)
	if err != nil {
		return m.setStatus("error: " + err.Error())
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Take: func(a commands.TakeArgs) (commands.Result, error) {
			item, err := m.findByTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			updated, err := m.repo.ToggleTaken(item.ID)
			if err != nil {
				return commands.Result{}, err
			}
			state := "unchecked"
			if updated.Taken {
				state = "checked off"
			}
			return commands.Result{Message: updated.Name + " " + state}, nil
		},
		Add: func(a commands.AddArgs) (commands.Result, error) {
			added, err := m.repo.Add([]model.NewSupplementInput{{Name: a.Name, Dosage: a.Dosage}})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "added " + added[0].Name}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			item, err := m.findByTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.repo.Remove(item.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "removed " + item.Name}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			item, err := m.findByTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.repo.SetReminder(item.ID, a.Time); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: item.Name + " reminder set to " + a.Time}, nil
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			m.view = ViewImport
			m.importBusy = true
			m.importErr = ""
			m.importPreview = nil
			m.importArea.SetValue(a.Text)
			followUp = tea.Batch(m.importSpinner.Tick, extractCmd(m.extractor, a.Text))
			return commands.Result{Message: "interpreting..."}, nil
		},
	})
	if err != nil {
		return m.setStatus("error: " + err.Error())
	}

	m.refreshItems()
	status := m.setStatus(res.Message)
	if followUp != nil {
		return tea.Batch(status, followUp)
	}
	return status
}

// findByTarget resolves a palette target against the collection: exact id,
// then exact name, then a name prefix that matches exactly one item, all
// case-insensitive. An ambiguous prefix is an error, not a guess.
func (m *Model) findByTarget(target string) (model.Supplement, error) {
	want := normalizeTarget(target)
	if want == "" {
		return model.Supplement{}, fmt.Errorf("no supplement matches %q", target)
	}
	snap := m.repo.Snapshot()
	for _, item := range snap {
		if normalizeTarget(item.ID) == want {
			return item, nil
		}
	}
	for _, item := range snap {
		if normalizeTarget(item.Name) == want {
			return item, nil
		}
	}
	var hits []model.Supplement
	for _, item := range snap {
		if hasFold(item.Name, want) {
			hits = append(hits, item)
		}
	}
	switch len(hits) {
	case 1:
		return hits[0], nil
	case 0:
		return model.Supplement{}, fmt.Errorf("no supplement matches %q", target)
	default:
		return model.Supplement{}, fmt.Errorf("%q matches %d supplements, use more of the name", target, len(hits))
	}
}

func normalizeTarget(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hasFold(name, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(name), prefix)
}
