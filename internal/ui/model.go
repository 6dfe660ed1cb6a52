package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sovego/ytrack/internal/issuecache"
	"github.com/sovego/ytrack/internal/logsafe"
)

type tickMsg time.Time

// logResultMsg reports the outcome of an asynchronous worklog submission.
type logResultMsg struct {
	issueKey string
	minutes  int64
	err      error
}

// todayLoggedMsg carries the refreshed logged-today total.
type todayLoggedMsg struct {
	seconds uint64
	err     error
}

const (
	flashTTL             = 5 * time.Second
	todayRefreshInterval = 5 * time.Minute
)

type model struct {
	opts   Options
	keys   keyMap
	styles styles
	help   help.Model

	snapshot issuecache.Snapshot
	cursor   int
	width    int
	height   int

	today        uint64
	todayKnown   bool
	todayFetched time.Time

	flash      string
	flashError bool
	flashUntil time.Time
}

func newModel(opts Options) model {
	return model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		styles:   defaultStyles(),
		help:     help.New(),
		snapshot: opts.Cache.Snapshot(),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.snapshot = m.opts.Cache.Snapshot()
		m.clampCursor()
		if time.Time(msg).After(m.flashUntil) && !m.flashUntil.IsZero() {
			m.flash = ""
			m.flashUntil = time.Time{}
		}
		if state, due := m.opts.Timer.NotificationDue(m.opts.Settings.NotificationInterval()); due {
			m.setFlash(fmt.Sprintf("Timer on %s running for %s", state.IssueKey, formatElapsed(state.Elapsed)), false)
		}
		cmds := []tea.Cmd{tick()}
		if m.opts.TodayLogged != nil && time.Time(msg).Sub(m.todayFetched) >= todayRefreshInterval {
			m.todayFetched = time.Time(msg)
			cmds = append(cmds, m.fetchTodayLogged())
		}
		return m, tea.Batch(cmds...)

	case todayLoggedMsg:
		if msg.err == nil {
			m.today = msg.seconds
			m.todayKnown = true
		}
		return m, nil

	case logResultMsg:
		if msg.err != nil {
			m.setFlash("Log failed: "+logsafe.Redact(msg.err.Error()), true)
			return m, nil
		}
		m.setFlash(fmt.Sprintf("Logged %dm on %s", msg.minutes, msg.issueKey), false)
		return m, m.fetchTodayLogged()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snapshot.Issues)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.snapshot.Issues); n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.StartTimer):
		if m.cursor < len(m.snapshot.Issues) {
			issue := m.snapshot.Issues[m.cursor]
			prev := m.opts.Timer.Snapshot()
			m.opts.Timer.Start(issue.Key, issue.Summary)
			if prev.Active && prev.IssueKey != issue.Key {
				m.setFlash(fmt.Sprintf("Switched timer from %s to %s", prev.IssueKey, issue.Key), false)
			} else {
				m.setFlash("Timer started on "+issue.Key, false)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.StopTimer):
		elapsed, issueKey := m.opts.Timer.Stop()
		if issueKey == "" {
			m.setFlash("No timer running", true)
			return m, nil
		}
		if m.opts.LogWork == nil {
			m.setFlash(fmt.Sprintf("Stopped %s after %s", issueKey, formatElapsed(elapsed)), false)
			return m, nil
		}
		m.setFlash(fmt.Sprintf("Logging %s on %s...", formatElapsed(elapsed), issueKey), false)
		return m, m.submitWorklog(issueKey, elapsed)
	}
	return m, nil
}

// fetchTodayLogged refreshes the logged-today total off the update loop.
func (m model) fetchTodayLogged() tea.Cmd {
	fetch := m.opts.TodayLogged
	if fetch == nil {
		return nil
	}
	ctx := m.opts.Context
	return func() tea.Msg {
		seconds, err := fetch(ctx)
		return todayLoggedMsg{seconds: seconds, err: err}
	}
}

// submitWorklog runs the API call off the update loop.
func (m model) submitWorklog(issueKey string, elapsedSeconds int64) tea.Cmd {
	logWork := m.opts.LogWork
	ctx := m.opts.Context
	return func() tea.Msg {
		minutes := (elapsedSeconds + 59) / 60
		if minutes == 0 {
			minutes = 1
		}
		err := logWork(ctx, issueKey, elapsedSeconds, "")
		return logResultMsg{issueKey: issueKey, minutes: minutes, err: err}
	}
}

func (m *model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
	m.flashUntil = time.Now().Add(flashTTL)
}

func (m *model) clampCursor() {
	if n := len(m.snapshot.Issues); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) View() string {
	var b strings.Builder

	header := "My Issues"
	if m.snapshot.TotalCount >= 0 {
		header = fmt.Sprintf("My Issues (%d)", m.snapshot.TotalCount)
	}
	b.WriteString(m.styles.Header.Render(header))
	if m.snapshot.IsOffline() {
		b.WriteString("  " + m.styles.Offline.Render("OFFLINE"))
	} else if !m.snapshot.LastUpdated.IsZero() {
		b.WriteString("  " + m.styles.Dim.Render("updated "+m.snapshot.LastUpdated.Format("15:04:05")))
	}
	b.WriteString("\n\n")

	if len(m.snapshot.Issues) == 0 {
		b.WriteString(m.styles.Dim.Render("No issues to show.") + "\n")
	}
	for i, issue := range m.snapshot.Issues {
		line := m.styles.IssueKey.Render(issue.Key)
		if summary := logsafe.CollapseWhitespace(issue.Summary); summary != "" {
			line += " " + truncate(summary, 60)
		}
		if issue.Status != nil {
			if display := issue.Status.Display(); display != "" {
				line += " " + m.styles.Status.Render("["+display+"]")
			}
		}
		if i == m.cursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if state := m.opts.Timer.Snapshot(); state.Active {
		b.WriteString(m.styles.TimerLine.Render(
			fmt.Sprintf("⏱ %s  %s", state.IssueKey, formatElapsed(state.Elapsed))) + "\n")
	}
	if m.todayKnown {
		b.WriteString(m.styles.Dim.Render(todayLine(m.today, m.opts.Settings.WorkdayHours)) + "\n")
	}
	if m.flash != "" {
		style := m.styles.Flash
		if m.flashError {
			style = m.styles.FlashError
		}
		b.WriteString(style.Render(m.flash) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
