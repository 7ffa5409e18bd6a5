package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData is the fully assembled frame for one redraw. StatusIsError drives
// the status styling; renderers never sniff the text itself.
type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Notification  string
	Footer        string
}

// The quest list and heatmap grid need more columns than the metadata and
// insight panes, so the frame splits unevenly.
const (
	leftPaneWidth  = 62
	rightPaneWidth = 44
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	var row string
	if strings.TrimSpace(data.RightPane) == "" {
		// Single-pane screens like the timeline get the full width. The
		// extra 2 covers the second pane's border that is not drawn.
		row = panelStyle.Width(leftPaneWidth + rightPaneWidth + 2).Render(data.LeftPane)
	} else {
		left := panelStyle.Width(leftPaneWidth).Render(data.LeftPane)
		right := panelStyle.Width(rightPaneWidth).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusIsError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		// Reminder pops ride above the footer so they survive view switches.
		lines = append(lines, alertStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders the journal reflection for the preview pane. The
// wrap width matches the pane interior so glamour does the line breaking.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(rightPaneWidth-4),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
