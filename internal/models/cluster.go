package models

import "sort"

// Relationship statuses reported in a cluster's status breakdown.
const (
	StatusMatched = "matched"
	StatusLiked   = "liked"
	StatusPassed  = "passed"
	StatusPending = "pending"
)

// ClusterSummary is a backend-aggregated group of nearby users represented as one point.
// A fetch response produces a fresh slice of summaries that replaces the previous one wholesale.
type ClusterSummary struct {
	ID                 string         `json:"id"`
	Position           GeoCoordinate  `json:"position"`
	UserCount          int            `json:"userCount"`
	DensityScore       int            `json:"densityScore"`
	StatusBreakdown    map[string]int `json:"statusBreakdown"`
	AverageAge         float64        `json:"averageAge"`
	GenderDistribution map[string]int `json:"genderDistribution,omitempty"`
	AgeDistribution    map[string]int `json:"ageDistribution,omitempty"`
}

// DominantStatus returns the status label with the highest count in the breakdown.
// An exact tie involving "matched" resolves to "matched"; any other tie resolves
// to the alphabetically first label. An empty breakdown yields "".
func (c ClusterSummary) DominantStatus() string {
	labels := make([]string, 0, len(c.StatusBreakdown))
	for label := range c.StatusBreakdown {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best, bestCount := "", -1
	for _, label := range labels {
		count := c.StatusBreakdown[label]
		switch {
		case count > bestCount:
			best, bestCount = label, count
		case count == bestCount && label == StatusMatched:
			best = label
		}
	}

	return best
}

// BreakdownTotal sums the counts of the status breakdown.
func (c ClusterSummary) BreakdownTotal() int {
	total := 0
	for _, count := range c.StatusBreakdown {
		total += count
	}

	return total
}

// Clone returns a deep copy of the summary.
func (c ClusterSummary) Clone() ClusterSummary {
	c.StatusBreakdown = cloneCounts(c.StatusBreakdown)
	c.GenderDistribution = cloneCounts(c.GenderDistribution)
	c.AgeDistribution = cloneCounts(c.AgeDistribution)

	return c
}

// HeatmapPoint is a density sample returned by the heatmap endpoint.
type HeatmapPoint struct {
	Position  GeoCoordinate `json:"position"`
	Density   int           `json:"density"`
	UserCount int           `json:"userCount"`
}

func cloneCounts(src map[string]int) map[string]int {
	if src == nil {
		return nil
	}
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}
