package render

import "github.com/UnknownOlympus/heatmap/internal/models"

const (
	coverageFill   = "#E91E6320"
	coverageStroke = "#E91E63"

	defaultMarkerColor = "#2196F3"
)

// densityStyle is one row of the heatmap bucket table.
type densityStyle struct {
	maxDensity   int // inclusive upper bound, 0 for the catch-all row
	radiusMeters float64
	fill         string
	stroke       string
}

var densityTable = []densityStyle{
	{maxDensity: 2, radiusMeters: 150, fill: "#2196F366", stroke: "#2196F3"},
	{maxDensity: 5, radiusMeters: 250, fill: "#4CAF5066", stroke: "#4CAF50"},
	{maxDensity: 10, radiusMeters: 350, fill: "#FFEB3B66", stroke: "#FBC02D"},
	{maxDensity: 20, radiusMeters: 450, fill: "#FF980066", stroke: "#FF9800"},
	{maxDensity: 0, radiusMeters: 600, fill: "#F4433666", stroke: "#F44336"},
}

// styleForDensity picks the bucket for a density value.
func styleForDensity(density int) densityStyle {
	for _, row := range densityTable[:len(densityTable)-1] {
		if density <= row.maxDensity {
			return row
		}
	}

	return densityTable[len(densityTable)-1]
}

var statusColors = map[string]string{
	models.StatusMatched: "#4CAF50",
	models.StatusLiked:   "#E91E63",
	models.StatusPassed:  "#9E9E9E",
	models.StatusPending: "#FFC107",
}

func colorForStatus(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}

	return defaultMarkerColor
}

func sizeForCount(userCount int) models.MarkerSize {
	switch {
	case userCount > 50:
		return models.SizeLarge
	case userCount > 10:
		return models.SizeMedium
	default:
		return models.SizeSmall
	}
}
