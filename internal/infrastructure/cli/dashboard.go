package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/printhooks/pkg/application"
	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/spf13/cobra"
)

// toastTTL is how long a self-hiding notification stays on screen.
const toastTTL = 5 * time.Second

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI for the profile collection and host notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("PRINTHOOKS_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(commandContext(cmd))
		defer cancel()

		services, err := loadServices(ctx, root, io.Discard)
		if err != nil {
			return err
		}

		notes := make(chan notify.Notification, 16)
		services.Hub.Subscribe(func(n notify.Notification) {
			select {
			case notes <- n:
			default:
			}
		})
		if listen, _ := cmd.Flags().GetBool("listen"); listen {
			go func() {
				_ = services.PushClient().Run(ctx, services.Hub)
			}()
		}

		m := newDashboardModel(services.Profiles, services.TestFire, notes)
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Bool("listen", true, "Show notifications pushed by the host")
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

type toast struct {
	note notify.Notification
}

type notificationMsg notify.Notification

type expireMsg struct {
	id string
}

type testFireDoneMsg struct {
	result *application.TestFireResult
	err    error
}

type dashboardModel struct {
	profiles *application.ProfileService
	fire     *application.TestFireService
	notes    <-chan notify.Notification

	table  table.Model
	toasts []toast
	status string
	busy   bool
}

func newDashboardModel(profiles *application.ProfileService, fire *application.TestFireService, notes <-chan notify.Notification) dashboardModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Sel", Width: 3},
		{Title: "State", Width: 8},
		{Title: "Method", Width: 6},
		{Title: "Test event", Width: 24},
		{Title: "URL", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	m := dashboardModel{profiles: profiles, fire: fire, notes: notes, table: t}
	m.refresh()
	return m
}

func (m *dashboardModel) refresh() {
	sel := m.profiles.Selected()
	rows := []table.Row{}
	for i, p := range m.profiles.Profiles() {
		marker := ""
		if i == sel {
			marker = "*"
		}
		state := "on"
		if !p.Enabled {
			state = "off"
		}
		rows = append(rows, table.Row{fmt.Sprint(i), marker, state, p.HTTPMethod, p.TestEvent, p.URL})
	}
	m.table.SetRows(rows)
	if sel >= 0 {
		m.table.SetCursor(sel)
	}
}

func (m *dashboardModel) persist(action string) {
	if err := m.profiles.Save(); err != nil {
		m.status = fmt.Sprintf("%s, draft not saved: %v", action, err)
		return
	}
	m.status = action
}

func (m dashboardModel) waitForNotification() tea.Cmd {
	if m.notes == nil {
		return nil
	}
	notes := m.notes
	return func() tea.Msg {
		n, ok := <-notes
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

func (m dashboardModel) Init() tea.Cmd { return m.waitForNotification() }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case notificationMsg:
		n := notify.Notification(msg)
		m.toasts = append(m.toasts, toast{note: n})
		cmds := []tea.Cmd{m.waitForNotification()}
		if n.Hide {
			id := n.ID
			cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg { return expireMsg{id: id} }))
		}
		return m, tea.Batch(cmds...)

	case expireMsg:
		m.dismiss(msg.id)
		return m, nil

	case testFireDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = MapError(msg.err).Error()
		} else {
			m.status = fmt.Sprintf("Saved, test %s sent for profile %d", msg.result.Event, msg.result.Index)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cursor := m.table.Cursor()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "a", "c", "d", "p":
		// The collection is frozen until the running save-and-test settles.
		if m.busy {
			m.status = "Save and test in progress, changes are disabled"
			return m, nil
		}
	}

	switch msg.String() {
	case "enter":
		sel := m.profiles.Select(cursor)
		m.refresh()
		m.persist(fmt.Sprintf("Selected profile %d", sel))
		return m, nil
	case "a":
		idx := m.profiles.Add()
		m.refresh()
		m.persist(fmt.Sprintf("Added profile %d", idx))
		return m, nil
	case "c":
		idx, err := m.profiles.CopyAt(cursor)
		if err != nil {
			m.status = MapError(err).Error()
			return m, nil
		}
		m.refresh()
		m.persist(fmt.Sprintf("Copied profile %d to %d", cursor, idx))
		return m, nil
	case "d":
		if err := m.profiles.RemoveAt(cursor); err != nil {
			m.status = MapError(err).Error()
			return m, nil
		}
		m.refresh()
		m.persist(fmt.Sprintf("Removed profile %d", cursor))
		return m, nil
	case "p":
		if _, err := m.profiles.ApplyTemplate(""); err != nil {
			m.status = MapError(err).Error()
			return m, nil
		}
		m.refresh()
		m.persist(fmt.Sprintf("Applied %s", m.profiles.TemplateName()))
		return m, nil
	case "t":
		if m.busy || m.fire == nil {
			return m, nil
		}
		m.busy = true
		m.status = "Saving..."
		fire := m.fire
		return m, func() tea.Msg {
			res, err := fire.SaveAndTest(context.Background())
			return testFireDoneMsg{result: res, err: err}
		}
	case "x":
		if len(m.toasts) > 0 {
			m.toasts = m.toasts[1:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *dashboardModel) dismiss(id string) {
	for i, t := range m.toasts {
		if t.note.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m dashboardModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("printhooks  template: %s", m.profiles.TemplateName()))

	toastView := ""
	for _, t := range m.toasts {
		toastView += renderNotification(t.note) + "\n"
	}

	status := m.status
	if m.busy {
		status = fmt.Sprintf("%s (%s)", status, m.fire.State())
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"\nProfiles:",
			m.table.View(),
			toastView,
			status,
			"\n[enter] Select  [a] Add  [c] Copy  [d] Remove  [p] Apply template  [t] Save & test  [x] Dismiss  [q] Quit",
		),
	) + "\n"
}
