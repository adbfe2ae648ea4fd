package output

import (
	"fmt"
	"strings"
)

// PercentBar renders a visual bar for a 0-100 percentage. Values above 100
// (an over-subscribed event) fill the bar but keep their label.
// Example: "████████░░ 80%"
func PercentBar(pct int, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case pct >= 70:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case pct >= 40:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%d%%", pct)))
}

// KeyValue renders a label/value line in the standard metric layout.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), StyleValue.Render(value))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
