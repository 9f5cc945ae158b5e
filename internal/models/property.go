package models

import "encoding/json"

// Property is a normalized listing. Optional fields are nil when the provider
// did not send a usable value and serialize as null.
type Property struct {
	Address      string          `json:"address"`
	Street       *string         `json:"street"`
	Suburb       *string         `json:"suburb"`
	State        *string         `json:"state"`
	Bedrooms     *float64        `json:"bedrooms"`
	Bathrooms    *float64        `json:"bathrooms"`
	Carspaces    *float64        `json:"carspaces"`
	LandSize     *float64        `json:"landSize"`
	BuildingSize *float64        `json:"buildingSize"`
	Price        *float64        `json:"price"`
	PropertyType *string         `json:"propertyType"`
	Description  *string         `json:"description"`
	SaleDate     *string         `json:"saleDate"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

// SearchResult is the outcome of one fetch for a suburb and property type
type SearchResult struct {
	Properties   []Property `json:"properties"`
	Count        int        `json:"count"`
	Suburb       string     `json:"suburb"`
	PropertyType string     `json:"propertyType"`
}

type MetricsSummary struct {
	TotalProperties     int    `json:"totalProperties"`
	AvgBedrooms         string `json:"avgBedrooms"`
	AvgBathrooms        string `json:"avgBathrooms"`
	DistinctSuburbCount int    `json:"distinctSuburbCount"`
	WithParkingCount    int    `json:"withParkingCount"`
}

// DistributionEntry is one chart category and its count
type DistributionEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Distribution []DistributionEntry

// TableRow is a display-ready property row; missing values render as "-"
type TableRow struct {
	Address   string `json:"address"`
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
	Parking   string `json:"parking"`
	LandSize  string `json:"landSize"`
}

// Dashboard is everything the dashboard page renders for one result set
type Dashboard struct {
	Suburb                   string          `json:"suburb"`
	PropertyType             string          `json:"propertyType"`
	Count                    int             `json:"count"`
	Metrics                  *MetricsSummary `json:"metrics"`
	BedroomDistribution      Distribution    `json:"bedroomDistribution"`
	BathroomDistribution     Distribution    `json:"bathroomDistribution"`
	PropertyTypeDistribution Distribution    `json:"propertyTypeDistribution"`
	Rows                     []TableRow      `json:"rows"`
	ShownRows                int             `json:"shownRows"`
	TotalRows                int             `json:"totalRows"`
	Notice                   string          `json:"notice,omitempty"`
}
