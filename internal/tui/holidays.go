package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

// holidaysModel lists custom holidays and lets the user add or disable them.
type holidaysModel struct {
	store  *store.Store
	width  int
	height int

	holidays []store.CustomHoliday
	cursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName        *string
	formFrom        *string
	formTo          *string
	formDescription *string
}

func newHolidaysModel(s *store.Store) holidaysModel {
	name, from, to, desc := "", "", "", ""
	return holidaysModel{
		store:           s,
		formName:        &name,
		formFrom:        &from,
		formTo:          &to,
		formDescription: &desc,
	}
}

func (h *holidaysModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

func (h holidaysModel) refresh() tea.Cmd {
	return func() tea.Msg {
		holidays, err := h.store.ListHolidays(true)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return holidaysDataMsg{holidays: holidays}
	}
}

func (h holidaysModel) update(msg tea.Msg) (holidaysModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case holidaysDataMsg:
		h.holidays = msg.holidays
		h.cursor = clamp(h.cursor, 0, max(len(h.holidays)-1, 0))
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.holidays)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.New):
			return h.showForm()
		case key.Matches(msg, keys.Toggle):
			if len(h.holidays) > 0 {
				return h, h.toggle(h.holidays[h.cursor])
			}
		}
	}
	return h, nil
}

// toggle flips a holiday and reloads the list. Reports are rebuilt by the app
// once the list arrives.
func (h holidaysModel) toggle(hol store.CustomHoliday) tea.Cmd {
	return func() tea.Msg {
		if err := h.store.SetHolidayActive(hol.ID, !hol.Active); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		holidays, err := h.store.ListHolidays(true)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return holidaysDataMsg{holidays: holidays, changed: true}
	}
}

func validDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := period.ParseDate(s)
	return err
}

func (h holidaysModel) showForm() (holidaysModel, tea.Cmd) {
	*h.formName = ""
	*h.formFrom = ""
	*h.formTo = ""
	*h.formDescription = ""

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(h.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("First day (YYYY-MM-DD)").Value(h.formFrom).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("first day is required")
					}
					return validDate(s)
				}),
			huh.NewInput().Title("Last day (blank for a single day)").Value(h.formTo).
				Validate(validDate),
			huh.NewInput().Title("Description").Value(h.formDescription),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h holidaysModel) updateForm(msg tea.Msg) (holidaysModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		return h, h.save()
	}
	return h, cmd
}

func (h holidaysModel) save() tea.Cmd {
	name, from, to, desc := *h.formName, *h.formFrom, *h.formTo, *h.formDescription
	return func() tea.Msg {
		if strings.TrimSpace(to) == "" {
			to = from
		}
		r, err := period.ParseRange(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if _, err := h.store.CreateHoliday(strings.TrimSpace(name), r.From, r.To, desc); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		holidays, err := h.store.ListHolidays(true)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return holidaysDataMsg{holidays: holidays, changed: true}
	}
}

func (h holidaysModel) view() string {
	w := h.width - 4
	if h.formActive && h.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Holiday"), "", h.form.View()),
		)
	}

	title := titleStyle.Render("Custom Holidays")
	if len(h.holidays) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No custom holidays. Press n to add one."),
		))
	}

	rows := []string{title, ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-10s %-10s %s", "Name", "From", "To", "Description")))
	for i, hol := range h.holidays {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := style.Render(fmt.Sprintf("%s%-24s %s %s %s", cursor, hol.Name,
			hol.StartDate.Format(time.DateOnly), hol.EndDate.Format(time.DateOnly), hol.Description))
		if !hol.Active {
			line += mutedStyle.Render(" (inactive)")
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  d: enable/disable"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
