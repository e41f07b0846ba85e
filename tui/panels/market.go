package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/agentmarket/internal/market"
	"github.com/zappabad/agentmarket/tui/styles"
)

// MarketPanel summarizes market state and crowd mood.
type MarketPanel struct {
	stats      market.Stats
	sentiment  float64
	buyVolume  float64
	sellVolume float64
	width      int
	height     int
}

// NewMarketPanel creates a new market summary panel.
func NewMarketPanel() *MarketPanel {
	return &MarketPanel{}
}

// SetSize sets the panel dimensions.
func (p *MarketPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetStats updates the market statistics.
func (p *MarketPanel) SetStats(stats market.Stats, sentiment float64) {
	p.stats = stats
	p.sentiment = sentiment
}

// SetVolumes updates the last step's volumes.
func (p *MarketPanel) SetVolumes(buy, sell float64) {
	p.buyVolume = buy
	p.sellVolume = sell
}

// View renders the panel.
func (p *MarketPanel) View() string {
	label := func(s string) string { return styles.HeaderStyle.Render(fmt.Sprintf("%-11s", s)) }

	rows := []string{
		label("Price") + fmt.Sprintf("%.2f", p.stats.Price),
		label("Change") + styles.Signed(p.stats.Change, "%.2f") +
			styles.Signed(p.stats.ChangePct, " (%.2f%%)"),
		label("Range") + fmt.Sprintf("%.2f – %.2f", p.stats.Min, p.stats.Max),
		label("Volatility") + fmt.Sprintf("%.4f", p.stats.Volatility),
		label("Sentiment") + styles.Signed(p.sentiment, "%.3f") + p.mood(),
		label("Volume") + styles.BullStyle.Render(fmt.Sprintf("▲%.1f", p.buyVolume)) +
			" " + styles.BearStyle.Render(fmt.Sprintf("▼%.1f", p.sellVolume)),
	}

	title := styles.RenderTitle("Market")
	panel := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *MarketPanel) mood() string {
	switch {
	case p.sentiment > 0.2:
		return styles.BullStyle.Render("  bullish crowd")
	case p.sentiment < -0.2:
		return styles.BearStyle.Render("  bearish crowd")
	default:
		return styles.MutedStyle.Render("  mixed crowd")
	}
}
