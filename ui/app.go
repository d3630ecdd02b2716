// Package ui implements the bubbletea dashboard: a live view of every
// configured service's monitoring state plus a feed of recently posted
// events, replacing the teacher's RCA/cgroup/ebpf pages (which have no
// analog in a declarative rule checker).
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/validatord/engine"
	"github.com/ftahirops/validatord/model"
)

type tickMsg time.Time

// Model is the bubbletea root model for the dashboard.
type Model struct {
	sched    *engine.Scheduler
	services []*model.Service
	feed     *EventFeed
	interval time.Duration

	width, height int
	lastFailures  int
	lastTick      time.Time
	paused        bool
}

// NewModel builds the dashboard model. feed is the EventFeed wrapping the
// scheduler's event.Bridge; it records every post the scheduler makes,
// including repeats that the bridge drops before they reach the event store.
func NewModel(sched *engine.Scheduler, services []*model.Service, feed *EventFeed, interval time.Duration) Model {
	return Model{sched: sched, services: services, feed: feed, interval: interval}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), m.runTick())
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type cycleDoneMsg struct {
	failures int
	at       time.Time
}

func (m Model) runTick() tea.Cmd {
	return func() tea.Msg {
		n := m.sched.Tick()
		return cycleDoneMsg{failures: n, at: time.Now()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sched.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, nil
		}
		return m, nil

	case tickMsg:
		if m.paused {
			return m, tickCmd(m.interval)
		}
		return m, tea.Batch(tickCmd(m.interval), m.runTick())

	case cycleDoneMsg:
		m.lastFailures = msg.failures
		m.lastTick = msg.at
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("validatord") + "  " + dimStyle.Render(m.lastTick.Format("15:04:05")))
	if m.paused {
		b.WriteString("  " + warnStyle.Render("PAUSED"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderServices())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n" + helpStyle.Render("q: quit   space: pause"))
	return b.String()
}

func (m Model) renderServices() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %-10s %s", "SERVICE", "TYPE", "STATE")))
	b.WriteString("\n")
	for _, svc := range m.services {
		state := "monitored"
		style := okStyle
		switch {
		case svc.Monitor.Has(model.MonitorWaiting):
			state, style = "waiting", dimStyle
		case svc.Monitor&model.MonitorYes == 0:
			state, style = "not monitored", critStyle
		}
		b.WriteString(fmt.Sprintf("%-20s %-10s %s\n", svc.Name, svc.Type.String(), style.Render(state)))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderEvents() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-16s %-12s %-10s %s", "SERVICE", "EVENT", "STATE", "MESSAGE")))
	b.WriteString("\n")

	events := m.feed.Recent()
	start := 0
	if max := 15; len(events) > max {
		start = len(events) - max
	}
	for _, e := range events[start:] {
		style := okStyle
		switch e.State {
		case model.StateFailed:
			style = critStyle
		case model.StateChanged:
			style = warnStyle
		}
		b.WriteString(fmt.Sprintf("%-16s %-12s %s %s\n", e.Service, e.Kind.String(), style.Render(fmt.Sprintf("%-10s", e.State.String())), e.Message))
	}
	return panelStyle.Render(b.String())
}
