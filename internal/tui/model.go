package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/windows"
)

// windowItem is a list item for one window.
type windowItem struct {
	rec windows.Record
}

func (i windowItem) Title() string {
	if i.rec.Title == "" {
		return i.rec.AppName
	}
	return i.rec.Title
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s #%d  %s", i.rec.AppName, i.rec.Index, i.rec.ID)
}

func (i windowItem) FilterValue() string { return i.rec.AppName + " " + i.rec.Title }

type (
	windowsLoadedMsg struct {
		records []windows.Record
		err     error
	}
	activatedMsg struct {
		rec     windows.Record
		success bool
		err     error
	}
	closedMsg struct {
		rec windows.Record
		err error
	}
	arrangedMsg struct {
		result engine.ArrangeResult
		err    error
	}
)

type model struct {
	backend  Backend
	appNames []string
	list     list.Model

	status  string
	isError bool
	chosen  *windows.Record

	width  int
	height int
}

func newModel(backend Backend, appNames []string) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return model{
		backend:  backend,
		appNames: appNames,
		list:     l,
		status:   "loading windows...",
	}
}

func (m model) loadWindows() tea.Msg {
	records, err := m.backend.ListWindows(m.appNames)
	return windowsLoadedMsg{records: records, err: err}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.loadWindows
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-2, 1))
		return m, nil

	case windowsLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		items := make([]list.Item, len(msg.records))
		for i, rec := range msg.records {
			items[i] = windowItem{rec: rec}
		}
		cmd := m.list.SetItems(items)
		m.setStatus(fmt.Sprintf("%d windows", len(items)), false)
		return m, cmd

	case activatedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		if !msg.success {
			m.setStatus("could not activate "+msg.rec.ID, true)
			return m, nil
		}
		rec := msg.rec
		m.chosen = &rec
		return m, tea.Quit

	case closedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("closed "+msg.rec.ID, false)
		return m, m.loadWindows

	case arrangedMsg:
		switch {
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		case !msg.result.Success:
			m.setStatus("arrange failed: "+msg.result.Error, true)
		default:
			m.setStatus(fmt.Sprintf("arranged %d windows", msg.result.Arranged), false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if rec, ok := m.selected(); ok {
				return m, m.activate(rec)
			}
			return m, nil
		case "x":
			if rec, ok := m.selected(); ok {
				return m, m.close(rec)
			}
			return m, nil
		case "g":
			m.setStatus("arranging...", false)
			return m, m.arrange
		case "r":
			m.setStatus("loading windows...", false)
			return m, m.loadWindows
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

func (m model) selected() (windows.Record, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	if !ok {
		return windows.Record{}, false
	}
	return item.rec, true
}

func (m model) activate(rec windows.Record) tea.Cmd {
	return func() tea.Msg {
		ok, err := m.backend.ActivateWindow(rec.ID)
		return activatedMsg{rec: rec, success: ok, err: err}
	}
}

func (m model) close(rec windows.Record) tea.Cmd {
	return func() tea.Msg {
		_, err := m.backend.CloseWindow(rec.ID)
		return closedMsg{rec: rec, err: err}
	}
}

func (m model) arrange() tea.Msg {
	res, err := m.backend.ArrangeGrid(m.appNames, engine.Options{})
	return arrangedMsg{result: res, err: err}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		renderStatusBar(m.status, m.isError, m.width),
		renderHelpBar(m.width),
	)
}

func renderStatusBar(text string, isError bool, width int) string {
	color := lipgloss.Color("42")
	if isError {
		color = lipgloss.Color("196")
	}
	dot := lipgloss.NewStyle().Foreground(color).Render("●")

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(dot + " " + text)
}

func renderHelpBar(width int) string {
	help := "enter: activate  x: close  g: arrange grid  r: refresh  /: filter  q: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
