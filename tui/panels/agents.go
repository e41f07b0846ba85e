package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/sim"
	"github.com/zappabad/agentmarket/tui/styles"
)

// AgentsPanel shows every agent's belief and portfolio.
type AgentsPanel struct {
	agents []sim.AgentSnapshot
	price  float64
	width  int
	height int
}

// NewAgentsPanel creates a new agents panel.
func NewAgentsPanel() *AgentsPanel {
	return &AgentsPanel{}
}

// SetSize sets the panel dimensions.
func (p *AgentsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetAgents updates the displayed population. price is used for
// mark-to-market portfolio values.
func (p *AgentsPanel) SetAgents(agents []sim.AgentSnapshot, price float64) {
	p.agents = agents
	p.price = price
}

// View renders the panel.
func (p *AgentsPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-3s %-11s %-8s %6s %5s %6s %9s %8s %9s",
		"ID", "Type", "Outlook", "Sent", "Conf", "Act", "Cash", "Shares", "Value")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for _, a := range p.agents {
		outlook := styles.MutedStyle
		switch a.Belief.Outlook {
		case agent.OutlookBullish:
			outlook = styles.BullStyle
		case agent.OutlookBearish:
			outlook = styles.BearStyle
		}

		act := "-"
		if a.Intention.Action != agent.ActionHold || a.IntendedSize > 0 {
			act = a.Intention.Action.String()
		}

		row := fmt.Sprintf("%-3d %-11s %s %s %5.2f %6s %9.2f %8.2f %9.2f",
			a.ID,
			a.Type,
			outlook.Render(fmt.Sprintf("%-8s", a.Belief.Outlook)),
			styles.Signed(a.Belief.Sentiment, "%6.2f"),
			a.Belief.Confidence,
			act,
			a.Portfolio.Cash,
			a.Portfolio.Shares,
			a.Portfolio.Value(p.price),
		)
		content.WriteString(styles.RowStyle.Render(row))
		content.WriteString("\n")
	}

	title := styles.RenderTitle("Agents")
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}
