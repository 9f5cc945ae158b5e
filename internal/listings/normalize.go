package listings

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"suburbdash/server/internal/models"
)

// UnknownAddress is used when a listing carries no usable address parts
const UnknownAddress = "Unknown"

type rawListing struct {
	AreaName   FlexString    `json:"area_name"`
	Address    rawAddress    `json:"address"`
	Attributes rawAttributes `json:"attributes"`
	SalePrice  FlexNumber    `json:"sale_price"`
	SaleDate   FlexString    `json:"sale_date"`
}

type rawAddress struct {
	Street FlexString `json:"street"`
	Sal    FlexString `json:"sal"`
	State  FlexString `json:"state"`
}

// UnmarshalJSON ignores anything that is not an object
func (a *rawAddress) UnmarshalJSON(data []byte) error {
	*a = rawAddress{}
	if !isObject(data) {
		return nil
	}
	type plain rawAddress
	return json.Unmarshal(data, (*plain)(a))
}

type rawAttributes struct {
	Bedrooms     FlexNumber `json:"bedrooms"`
	Bathrooms    FlexNumber `json:"bathrooms"`
	Carspaces    FlexNumber `json:"carspaces"`
	LandSize     FlexNumber `json:"land_size"`
	BuildingSize FlexNumber `json:"building_size"`
	Price        FlexNumber `json:"price"`
	PropertyType FlexString `json:"property_type"`
	Description  FlexString `json:"description"`
}

func (a *rawAttributes) UnmarshalJSON(data []byte) error {
	*a = rawAttributes{}
	if !isObject(data) {
		return nil
	}
	type plain rawAttributes
	return json.Unmarshal(data, (*plain)(a))
}

// DecodeResults parses a repaired payload and returns the elements of its
// results array. A payload without a results array yields no elements.
func DecodeResults(body []byte) ([]json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if !isObject(doc) {
		return nil, nil
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, &ParseError{Err: err}
	}

	results := bytes.TrimSpace(envelope.Results)
	if len(results) == 0 || results[0] != '[' {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(results, &items); err != nil {
		return nil, &ParseError{Err: err}
	}
	return items, nil
}

// Normalize maps decoded result elements to properties. Elements that are not
// objects are skipped.
func Normalize(items []json.RawMessage, logger *logrus.Logger) []models.Property {
	properties := make([]models.Property, 0, len(items))
	for i, item := range items {
		p, ok := NormalizeListing(item)
		if !ok {
			if logger != nil {
				logger.WithField("index", i).Warn("Skipping listing that is not an object")
			}
			continue
		}
		properties = append(properties, p)
	}
	return properties
}

// NormalizeListing maps one raw listing to a Property
func NormalizeListing(item json.RawMessage) (models.Property, bool) {
	if !isObject(item) {
		return models.Property{}, false
	}

	var raw rawListing
	if err := json.Unmarshal(item, &raw); err != nil {
		return models.Property{}, false
	}

	return models.Property{
		Address:      composeAddress(raw),
		Street:       raw.Address.Street.Ptr(),
		Suburb:       raw.Address.Sal.Ptr(),
		State:        raw.Address.State.Ptr(),
		Bedrooms:     raw.Attributes.Bedrooms.Ptr(),
		Bathrooms:    raw.Attributes.Bathrooms.Ptr(),
		Carspaces:    raw.Attributes.Carspaces.Ptr(),
		LandSize:     raw.Attributes.LandSize.Ptr(),
		BuildingSize: raw.Attributes.BuildingSize.Ptr(),
		Price:        pickPrice(raw),
		PropertyType: raw.Attributes.PropertyType.Ptr(),
		Description:  raw.Attributes.Description.Ptr(),
		SaleDate:     raw.SaleDate.Ptr(),
		Raw:          []byte(item),
	}, true
}

// composeAddress prefers the area name, then "street, suburb" from whichever
// parts exist, then UnknownAddress.
func composeAddress(raw rawListing) string {
	if raw.AreaName.Valid {
		return raw.AreaName.Value
	}

	var parts []string
	if raw.Address.Street.Valid {
		parts = append(parts, raw.Address.Street.Value)
	}
	if raw.Address.Sal.Valid {
		parts = append(parts, raw.Address.Sal.Value)
	}
	if len(parts) == 0 {
		return UnknownAddress
	}
	return strings.Join(parts, ", ")
}

// pickPrice uses the listed price unless it is missing or zero, then the sale price
func pickPrice(raw rawListing) *float64 {
	if raw.Attributes.Price.Valid && raw.Attributes.Price.Value != 0 {
		return raw.Attributes.Price.Ptr()
	}
	return raw.SalePrice.Ptr()
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}
