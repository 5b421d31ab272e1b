package reporting

import (
	"fmt"
	"strings"

	"metabolic-lab/internal/domain"
)

// RenderCSV renders a smoothed trend series as CSV string. The sma
// cell stays empty while the moving-average window is still filling.
func RenderCSV(points []domain.TrendPoint) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,raw,smoothed,sma\n")

	// Rows
	for _, p := range points {
		sma := ""
		if p.SMA != nil {
			sma = fmt.Sprintf("%.2f", *p.SMA)
		}
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%s\n", p.Day, p.Raw, p.Smoothed, sma))
	}

	return sb.String()
}
