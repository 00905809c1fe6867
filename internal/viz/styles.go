package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// styles is the panel's lipgloss set for one theme.
type styles struct {
	panel     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	keyHint   lipgloss.Style
	graph     lipgloss.Style
	separator lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(panelWidth - 1),
		header: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		running:   lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
		keyHint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:     lipgloss.NewStyle().Foreground(t.Title),
		separator: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// GradientText colors each rune of text along the RGB blend from start to
// end. Unparseable colors leave the text plain.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err1 := colorful.Hex(string(start))
	to, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(from.BlendRgb(to, t).Clamped().Hex())
		result.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return result.String()
}

func Separator(width int, style lipgloss.Style) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return style.Render(left + " ◆ " + right)
}
