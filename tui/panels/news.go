package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/agentmarket/internal/news"
	"github.com/zappabad/agentmarket/tui/styles"
)

// NewsPanel displays the news tape, newest at the bottom.
type NewsPanel struct {
	vp       viewport.Model
	items    []news.Event
	maxItems int
	width    int
	height   int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{
		vp:       viewport.New(0, 0),
		maxItems: 100,
	}
}

// Update lets the viewport handle scrolling keys.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

// Add appends a news event to the tape.
func (p *NewsPanel) Add(ev news.Event) {
	p.items = append(p.items, ev)
	if len(p.items) > p.maxItems {
		p.items = p.items[len(p.items)-p.maxItems:]
	}
	p.refresh()
	p.vp.GotoBottom()
}

// Reset clears the tape.
func (p *NewsPanel) Reset() {
	p.items = nil
	p.refresh()
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = width - 4
	p.vp.Height = height - 4
	p.refresh()
}

func (p *NewsPanel) refresh() {
	lines := make([]string, 0, len(p.items))
	for _, ev := range p.items {
		tag := styles.MutedStyle.Render(fmt.Sprintf("[%3d]", ev.Step))

		var catStyle lipgloss.Style
		switch ev.Category {
		case news.CategoryPositive:
			catStyle = styles.BullStyle
		case news.CategoryNegative:
			catStyle = styles.BearStyle
		default:
			catStyle = styles.MutedStyle
		}
		cat := catStyle.Render(fmt.Sprintf("%-8s", ev.Category))

		headline := ev.Headline
		if max := p.vp.Width - 18; max > 3 && len(headline) > max {
			headline = headline[:max-3] + "..."
		}
		headlineStyle := styles.NewsNormalStyle
		if ev.Magnitude > 0.8 {
			headlineStyle = styles.NewsImportantStyle
		}

		lines = append(lines, fmt.Sprintf("%s %s %s", tag, cat, headlineStyle.Render(headline)))
	}
	if len(lines) == 0 {
		lines = []string{styles.MutedStyle.Render("No news yet")}
	}
	p.vp.SetContent(strings.Join(lines, "\n"))
}

// View renders the panel.
func (p *NewsPanel) View() string {
	title := styles.RenderTitle("News")
	panel := lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View())
	return styles.PanelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}
