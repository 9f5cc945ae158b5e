package stats

import (
	"fmt"

	"suburbdash/server/internal/models"
)

// DefaultDisplayRows is the size of the property table slice
const DefaultDisplayRows = 10

const missingValue = "-"

// BuildDashboard renders the metrics, charts and the first displayRows table
// rows for a result set. A nil result yields an empty dashboard.
func BuildDashboard(result *models.SearchResult, displayRows int) models.Dashboard {
	if displayRows <= 0 {
		displayRows = DefaultDisplayRows
	}

	var properties []models.Property
	dash := models.Dashboard{Rows: []models.TableRow{}}
	if result != nil {
		properties = result.Properties
		dash.Suburb = result.Suburb
		dash.PropertyType = result.PropertyType
	}

	report := Compute(properties)
	dash.Count = len(properties)
	dash.Metrics = report.Metrics
	dash.BedroomDistribution = report.BedroomDistribution
	dash.BathroomDistribution = report.BathroomDistribution
	dash.PropertyTypeDistribution = report.PropertyTypeDistribution

	shown := properties
	if len(shown) > displayRows {
		shown = shown[:displayRows]
	}
	for _, p := range shown {
		dash.Rows = append(dash.Rows, tableRow(p))
	}
	dash.ShownRows = len(dash.Rows)
	dash.TotalRows = len(properties)
	if dash.TotalRows > dash.ShownRows {
		dash.Notice = fmt.Sprintf("Showing %d of %d properties", dash.ShownRows, dash.TotalRows)
	}

	return dash
}

func tableRow(p models.Property) models.TableRow {
	row := models.TableRow{
		Address:   p.Address,
		Bedrooms:  cell(p.Bedrooms),
		Bathrooms: cell(p.Bathrooms),
		Parking:   cell(p.Carspaces),
		LandSize:  missingValue,
	}
	if v, ok := nonZero(p.LandSize); ok {
		row.LandSize = FormatNumber(v) + " m²"
	}
	return row
}

// cell shows a number, or "-" when it is missing or zero
func cell(v *float64) string {
	if n, ok := nonZero(v); ok {
		return FormatNumber(n)
	}
	return missingValue
}

func nonZero(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}
