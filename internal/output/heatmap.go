package output

import "strings"

// shades runs from empty to the busiest cell.
var shades = []string{"·", "░", "▒", "▓", "█"}

// Heatmap renders a grid of counts as shaded cells, one row per label.
// Intensity is relative to the largest cell; an all-zero grid renders
// every cell as empty.
func Heatmap(rowLabels []string, colHeader string, cells [][]int) string {
	peak := 0
	labelWidth := 0
	for i, row := range cells {
		for _, v := range row {
			peak = max(peak, v)
		}
		if i < len(rowLabels) {
			labelWidth = max(labelWidth, visualLen(rowLabels[i]))
		}
	}

	var sb strings.Builder
	if colHeader != "" {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat(" ", labelWidth+1))
		sb.WriteString(StyleMuted.Render(colHeader))
		sb.WriteString("\n")
	}
	for i, row := range cells {
		label := ""
		if i < len(rowLabels) {
			label = rowLabels[i]
		}
		sb.WriteString(" ")
		sb.WriteString(pad(label, labelWidth))
		sb.WriteString(" ")
		for _, v := range row {
			sb.WriteString(shade(v, peak))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func shade(v, peak int) string {
	if v <= 0 || peak <= 0 {
		return StyleMuted.Render(shades[0])
	}
	idx := (v*(len(shades)-1) + peak - 1) / peak
	return StyleHeat.Render(shades[min(idx, len(shades)-1)])
}
