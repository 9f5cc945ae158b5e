// Package stats derives dashboard metrics and chart distributions from a
// normalized property list. Everything here is a pure function of its input.
package stats

import (
	"math"
	"sort"
	"strconv"

	"suburbdash/server/internal/models"
)

// UnknownPropertyType labels properties without a type
const UnknownPropertyType = "Unknown"

// Report bundles the summary and the three distributions
type Report struct {
	Metrics                  *models.MetricsSummary `json:"metrics"`
	BedroomDistribution      models.Distribution    `json:"bedroomDistribution"`
	BathroomDistribution     models.Distribution    `json:"bathroomDistribution"`
	PropertyTypeDistribution models.Distribution    `json:"propertyTypeDistribution"`
}

func Compute(properties []models.Property) Report {
	return Report{
		Metrics:                  Summarize(properties),
		BedroomDistribution:      BedroomDistribution(properties),
		BathroomDistribution:     BathroomDistribution(properties),
		PropertyTypeDistribution: PropertyTypeDistribution(properties),
	}
}

// Summarize returns nil for an empty list; there is nothing to display.
func Summarize(properties []models.Property) *models.MetricsSummary {
	if len(properties) == 0 {
		return nil
	}

	summary := &models.MetricsSummary{TotalProperties: len(properties)}

	var bedSum, bathSum float64
	var bedCount, bathCount int
	suburbs := make(map[string]struct{})

	for _, p := range properties {
		if v, ok := positive(p.Bedrooms); ok {
			bedSum += v
			bedCount++
		}
		if v, ok := positive(p.Bathrooms); ok {
			bathSum += v
			bathCount++
		}
		if _, ok := positive(p.Carspaces); ok {
			summary.WithParkingCount++
		}
		if isRealSuburb(p.Suburb) {
			suburbs[*p.Suburb] = struct{}{}
		}
	}

	summary.AvgBedrooms = average(bedSum, bedCount)
	summary.AvgBathrooms = average(bathSum, bathCount)
	summary.DistinctSuburbCount = len(suburbs)

	return summary
}

func BedroomDistribution(properties []models.Property) models.Distribution {
	return numericDistribution(properties, "bed", func(p models.Property) *float64 { return p.Bedrooms })
}

func BathroomDistribution(properties []models.Property) models.Distribution {
	return numericDistribution(properties, "bath", func(p models.Property) *float64 { return p.Bathrooms })
}

// PropertyTypeDistribution counts every property by type in first-seen order
func PropertyTypeDistribution(properties []models.Property) models.Distribution {
	c := newCounter()
	for _, p := range properties {
		label := UnknownPropertyType
		if p.PropertyType != nil && *p.PropertyType != "" {
			label = *p.PropertyType
		}
		c.add(label)
	}
	return c.distribution()
}

// numericDistribution groups valid positive values under "<n> <unit>" and
// sorts by the leading integer of the label; equal keys keep first-seen order.
func numericDistribution(properties []models.Property, unit string, field func(models.Property) *float64) models.Distribution {
	c := newCounter()
	for _, p := range properties {
		v, ok := positive(field(p))
		if !ok {
			continue
		}
		c.add(FormatNumber(v) + " " + unit)
	}

	dist := c.distribution()
	sort.SliceStable(dist, func(i, j int) bool {
		return leadingInt(dist[i].Name) < leadingInt(dist[j].Name)
	})
	return dist
}

// counter keeps per-label counts in insertion order
type counter struct {
	index map[string]int
	dist  models.Distribution
}

func newCounter() *counter {
	return &counter{index: make(map[string]int), dist: models.Distribution{}}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.dist[i].Value++
		return
	}
	c.index[label] = len(c.dist)
	c.dist = append(c.dist, models.DistributionEntry{Name: label, Value: 1})
}

func (c *counter) distribution() models.Distribution {
	return c.dist
}

// positive reports whether v holds a finite value strictly above zero
func positive(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, false
	}
	return *v, true
}

func average(sum float64, count int) string {
	if count == 0 {
		return "0"
	}
	// halves round away from zero: 2.25 -> 2.3
	return strconv.FormatFloat(math.Round(sum/float64(count)*10)/10, 'f', 1, 64)
}

// isRealSuburb filters out missing values and stringified null artifacts
func isRealSuburb(s *string) bool {
	if s == nil {
		return false
	}
	switch *s {
	case "", "null", "undefined":
		return false
	}
	return true
}

// FormatNumber renders a value the shortest way: 3, 2.5
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// leadingInt parses the integer prefix of a label, e.g. 3 for "3.5 bath"
func leadingInt(label string) int {
	end := 0
	if end < len(label) && (label[end] == '-' || label[end] == '+') {
		end++
	}
	digits := end
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	if end == digits {
		return math.MaxInt
	}
	n, err := strconv.Atoi(label[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}
