package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerHeadStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(1, 0, 0, 2)
	pickerQueryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Padding(0, 0, 1, 2)
	pickerRowStyle   = lipgloss.NewStyle().PaddingLeft(4)
	pickerCurStyle   = lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("39"))
	pickerEmptyStyle = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("241")).Italic(true)
	pickerKeysStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(1, 0, 0, 2)
)

// TenantOption is one selectable tenant in the picker.
type TenantOption struct {
	ID      string
	Inboxes int // configured inboxes writing to this tenant
	Records int // records already stored
}

// filterTenants keeps the tenants whose ID contains query, ignoring case.
func filterTenants(tenants []TenantOption, query string) []TenantOption {
	if query == "" {
		return tenants
	}
	q := strings.ToLower(query)
	var out []TenantOption
	for _, t := range tenants {
		if strings.Contains(strings.ToLower(t.ID), q) {
			out = append(out, t)
		}
	}
	return out
}

type pickerModel struct {
	all     []TenantOption
	visible []TenantOption
	query   string
	cursor  int
	chosen  string
	done    bool
}

func newPickerModel(tenants []TenantOption) pickerModel {
	return pickerModel{all: tenants, visible: tenants}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		// Esc clears an active filter first, quits on an empty one.
		if m.query == "" {
			return m, tea.Quit
		}
		m.setQuery("")
	case tea.KeyUp:
		m.cursor = clamp(m.cursor-1, 0, len(m.visible)-1)
	case tea.KeyDown:
		m.cursor = clamp(m.cursor+1, 0, len(m.visible)-1)
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.setQuery(string(r[:len(r)-1]))
		}
	case tea.KeyEnter:
		if len(m.visible) > 0 {
			m.chosen = m.visible[m.cursor].ID
			m.done = true
			return m, tea.Quit
		}
	case tea.KeyRunes:
		m.setQuery(m.query + string(key.Runes))
	}
	return m, nil
}

func (m *pickerModel) setQuery(q string) {
	m.query = q
	m.visible = filterTenants(m.all, q)
	m.cursor = clamp(m.cursor, 0, len(m.visible)-1)
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerHeadStyle.Render("Review jobs for which tenant?"))
	b.WriteString("\n")
	if m.query != "" {
		b.WriteString(pickerQueryStyle.Render("filter: " + m.query))
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(pickerEmptyStyle.Render("no tenant matches"))
		b.WriteString("\n")
	}
	for i, t := range m.visible {
		row := fmt.Sprintf("%-24s %3d jobs  %d inbox(es)", t.ID, t.Records, t.Inboxes)
		if i == m.cursor {
			b.WriteString(pickerCurStyle.Render("▸ " + row))
		} else {
			b.WriteString(pickerRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString(pickerKeysStyle.Render("type to filter  ↑/↓ move  enter open  esc clear/quit"))
	return b.String()
}

// RunTenantPicker asks the user to choose a tenant. ok is false when the
// user quit without choosing.
func RunTenantPicker(tenants []TenantOption) (id string, ok bool, err error) {
	result, err := tea.NewProgram(newPickerModel(tenants)).Run()
	if err != nil {
		return "", false, err
	}
	final := result.(pickerModel)
	return final.chosen, final.done, nil
}
