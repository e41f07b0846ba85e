package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/agentmarket/internal/sim"
	"github.com/zappabad/agentmarket/tui/panels"
	"github.com/zappabad/agentmarket/tui/styles"
)

const autoStepInterval = 800 * time.Millisecond

type autoTickMsg time.Time

// Model is the main TUI application model. It is a pure consumer of
// the simulator: it reads snapshots and history and calls Step/Reset.
type Model struct {
	sim *sim.Simulator

	chartPanel  *panels.PriceChartPanel
	marketPanel *panels.MarketPanel
	agentsPanel *panels.AgentsPanel
	newsPanel   *panels.NewsPanel

	auto      bool
	statusMsg string
	width     int
	height    int
	ready     bool
}

// NewModel creates a new TUI model around a simulator.
func NewModel(s *sim.Simulator) *Model {
	m := &Model{
		sim:         s,
		chartPanel:  panels.NewPriceChartPanel(),
		marketPanel: panels.NewMarketPanel(),
		agentsPanel: panels.NewAgentsPanel(),
		newsPanel:   panels.NewNewsPanel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case " ":
			m.step()

		case "a":
			m.auto = !m.auto
			if m.auto {
				m.statusMsg = "auto-run on"
				cmds = append(cmds, m.autoTick())
			} else {
				m.statusMsg = "auto-run off"
			}

		case "r":
			if err := m.sim.Reset(); err != nil {
				m.statusMsg = fmt.Sprintf("reset failed: %v", err)
				break
			}
			m.newsPanel.Reset()
			m.refresh()
			m.statusMsg = "world reset"
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case autoTickMsg:
		if m.auto {
			m.step()
			cmds = append(cmds, m.autoTick())
		}
	}

	var cmd tea.Cmd
	m.newsPanel, cmd = m.newsPanel.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) step() {
	rec := m.sim.Step(context.Background())
	m.newsPanel.Add(rec.News)
	m.marketPanel.SetVolumes(rec.BuyVolume, rec.SellVolume)
	m.refresh()
	m.statusMsg = fmt.Sprintf("step %d  price %.2f  sentiment %.3f",
		rec.Step, rec.Price, rec.Sentiment)
}

func (m *Model) refresh() {
	snap := m.sim.Snapshot()
	m.chartPanel.SetSeries(m.sim.PriceHistory())
	m.marketPanel.SetStats(snap.Stats, snap.Sentiment)
	m.agentsPanel.SetAgents(snap.Agents, snap.Price)
}

func (m *Model) autoTick() tea.Cmd {
	return tea.Tick(autoStepInterval, func(t time.Time) tea.Msg {
		return autoTickMsg(t)
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Layout:
	// ┌───────────────────────────┬───────────────┐
	// │           Chart           │    Market     │
	// ├───────────────────────────┴───────────────┤
	// │                  Agents                   │
	// ├───────────────────────────────────────────┤
	// │                   News                    │
	// └───────────────────────────────────────────┘
	leftWidth := m.width * 2 / 3
	rightWidth := m.width - leftWidth

	topHeight := (m.height - 1) / 2
	agentsHeight := (m.height - 1 - topHeight) / 2
	newsHeight := m.height - 1 - topHeight - agentsHeight

	m.chartPanel.SetSize(leftWidth, topHeight)
	m.marketPanel.SetSize(rightWidth, topHeight)
	m.agentsPanel.SetSize(m.width, agentsHeight)
	m.newsPanel.SetSize(m.width, newsHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.chartPanel.View(),
		m.marketPanel.View(),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		topRow,
		m.agentsPanel.View(),
		m.newsPanel.View(),
		m.statusBar(),
	)
	return body
}

func (m *Model) statusBar() string {
	key := func(k, desc string) string {
		return styles.StatusBarKeyStyle.Render(k) + " " + desc
	}
	help := fmt.Sprintf("%s  %s  %s  %s",
		key("space", "step"), key("a", "auto"), key("r", "reset"), key("q", "quit"))

	status := m.statusMsg
	if status == "" {
		status = "ready"
	}
	return styles.StatusBarStyle.Width(m.width).Render(help + "  │  " + status)
}
