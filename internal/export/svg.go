// Package export renders recorded runs into standalone artifacts.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/vehlab/internal/vdyn"
)

// TrajectorySVG renders the ground-plane path of a telemetry series as a
// standalone SVG. The view is padded 10% beyond the path extent and the
// vertical axis is flipped so +y points up.
func TrajectorySVG(series []vdyn.Telemetry, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}
	if strokeColor == "" {
		strokeColor = "#00ff88"
	}

	minX, maxX := series[0].X, series[0].X
	minY, maxY := series[0].Y, series[0].Y
	for _, tel := range series {
		if tel.X < minX {
			minX = tel.X
		}
		if tel.X > maxX {
			maxX = tel.X
		}
		if tel.Y < minY {
			minY = tel.Y
		}
		if tel.Y > maxY {
			maxY = tel.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, tel := range series {
		x := (tel.X - minX) / rangeX * float64(width)
		y := float64(height) - (tel.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteTrajectorySVG writes the rendered path to a file.
func WriteTrajectorySVG(path string, series []vdyn.Telemetry, width, height int) error {
	svg := TrajectorySVG(series, width, height, "")
	if svg == "" {
		return fmt.Errorf("export: not enough samples to render")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
