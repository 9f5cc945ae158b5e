package config

import "strings"

// PropertyType is a search option offered by the dashboard's type selector
type PropertyType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SupportedPropertyTypes lists the property types offered in the search form
var SupportedPropertyTypes = []PropertyType{
	{Value: "house", Label: "House"},
	{Value: "unit", Label: "Unit"},
	{Value: "townhouse", Label: "Townhouse"},
	{Value: "apartment", Label: "Apartment"},
	// Add more types here as the provider supports them
}

// GetPropertyTypeValues returns the query values of the supported types
func GetPropertyTypeValues() []string {
	values := make([]string, len(SupportedPropertyTypes))
	for i, pt := range SupportedPropertyTypes {
		values[i] = pt.Value
	}
	return values
}

// GetPropertyType returns a supported type by value, or nil. Matching ignores case.
func GetPropertyType(value string) *PropertyType {
	for _, pt := range SupportedPropertyTypes {
		if strings.EqualFold(pt.Value, strings.TrimSpace(value)) {
			return &pt
		}
	}
	return nil
}
