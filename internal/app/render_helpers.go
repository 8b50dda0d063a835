package app

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/dodorz/contline/internal/config"
)

func getBorder() lipgloss.Border {
	return config.GetBorderForStyle()
}

func getNormalBorder() lipgloss.Border {
	return lipgloss.RoundedBorder()
}

// addToBorder prepends a top border carrying title to a box rendered
// without its top edge.
func addToBorder(content string, borderColor color.Color, title string) string {
	border := getBorder()
	width := max(lipgloss.Width(content)-2, 0)
	style := lipgloss.NewStyle().Foreground(borderColor)

	title = strings.TrimSpace(title)
	if title != "" && width >= 4 {
		title = " " + ansi.Truncate(title, width-4, "…") + " "
	} else {
		title = ""
	}

	fill := max(width-1-ansi.StringWidth(title), 0)
	var top string
	if title != "" {
		top = style.Render(border.TopLeft+border.Top) +
			style.Bold(true).Render(title) +
			style.Render(strings.Repeat(border.Top, fill)+border.TopRight)
	} else {
		top = style.Render(border.TopLeft + strings.Repeat(border.Top, width) + border.TopRight)
	}
	return top + "\n" + content
}

// clipLines cuts content to at most width columns and height lines. Cut
// lines get a reset so styles do not bleed into the next layer.
func clipLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "") + "\x1b[0m"
		}
	}
	return strings.Join(lines, "\n")
}
