package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/agentmarket/tui/styles"
)

// PriceChartPanel draws the price series as a simple column chart.
type PriceChartPanel struct {
	series []float64
	width  int
	height int
}

// NewPriceChartPanel creates a new price chart panel.
func NewPriceChartPanel() *PriceChartPanel {
	return &PriceChartPanel{}
}

// SetSize sets the panel dimensions.
func (p *PriceChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSeries replaces the plotted price series.
func (p *PriceChartPanel) SetSeries(series []float64) {
	p.series = series
}

// View renders the panel.
func (p *PriceChartPanel) View() string {
	plotW := p.width - 12 // room for the axis labels
	plotH := p.height - 4
	if plotW < 2 {
		plotW = 2
	}
	if plotH < 2 {
		plotH = 2
	}

	var content string
	if len(p.series) < 2 {
		content = styles.MutedStyle.Render("Waiting for data...")
	} else {
		content = p.plot(plotW, plotH)
	}

	title := styles.RenderTitle("Price")
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *PriceChartPanel) plot(w, h int) string {
	series := p.series
	if len(series) > w {
		series = series[len(series)-w:]
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	// rows[0] is the top of the chart
	rows := make([][]rune, h)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", len(series)))
	}
	up := series[len(series)-1] >= series[0]
	for x, v := range series {
		y := int(float64(h-1) * (hi - v) / span)
		rows[y][x] = '•'
	}

	mark := styles.PriceUpStyle
	if !up {
		mark = styles.PriceDownStyle
	}

	var b strings.Builder
	for i, row := range rows {
		label := "        "
		switch i {
		case 0:
			label = fmt.Sprintf("%8.2f", hi)
		case h - 1:
			label = fmt.Sprintf("%8.2f", lo)
		}
		b.WriteString(styles.ChartAxisStyle.Render(label + " ┤"))
		b.WriteString(mark.Render(string(row)))
		if i < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
