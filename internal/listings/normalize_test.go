package listings

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suburbdash/server/internal/models"
)

func normalizeBody(t *testing.T, body string) []models.Property {
	t.Helper()
	items, err := DecodeResults(Repair([]byte(body)))
	require.NoError(t, err)
	return Normalize(items, logrus.New())
}

func TestNormalize_Scenario(t *testing.T) {
	body := `{"results": [{"area_name": "12 Main St", "attributes": {"bedrooms": 3, "bathrooms": "nan", "price": 500000, "property_type": "house"}}]}`

	properties := normalizeBody(t, body)
	require.Len(t, properties, 1)

	p := properties[0]
	assert.Equal(t, "12 Main St", p.Address)
	require.NotNil(t, p.Bedrooms)
	assert.Equal(t, 3.0, *p.Bedrooms)
	assert.Nil(t, p.Bathrooms)
	require.NotNil(t, p.Price)
	assert.Equal(t, 500000.0, *p.Price)
	require.NotNil(t, p.PropertyType)
	assert.Equal(t, "house", *p.PropertyType)
	assert.Nil(t, p.Carspaces)
	assert.Nil(t, p.Suburb)
	assert.NotEmpty(t, p.Raw)
}

func TestNormalize_NaNTokens(t *testing.T) {
	body := `{"results": [
		{"area_name": "1 A St", "address": {"street": "1 A St", "sal": "Belmont North", "state": "NSW"},
		 "attributes": {"bedrooms": "nan", "bathrooms": NaN, "carspaces": 2, "land_size": NaN, "building_size": "nan"},
		 "sale_price": NaN, "sale_date": "nan"}
	]}`

	properties := normalizeBody(t, body)
	require.Len(t, properties, 1)

	p := properties[0]
	assert.Nil(t, p.Bedrooms)
	assert.Nil(t, p.Bathrooms)
	assert.Nil(t, p.LandSize)
	assert.Nil(t, p.BuildingSize)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.SaleDate)
	require.NotNil(t, p.Carspaces)
	assert.Equal(t, 2.0, *p.Carspaces)
	require.NotNil(t, p.State)
	assert.Equal(t, "NSW", *p.State)
}

func TestNormalize_Address(t *testing.T) {
	tests := []struct {
		name     string
		listing  string
		expected string
	}{
		{
			name:     "Area name preferred",
			listing:  `{"area_name": "12 Main St", "address": {"street": "5 Other Rd", "sal": "Belmont"}}`,
			expected: "12 Main St",
		},
		{
			name:     "Street and suburb",
			listing:  `{"address": {"street": "5 Other Rd", "sal": "Belmont"}}`,
			expected: "5 Other Rd, Belmont",
		},
		{
			name:     "Blank area name falls back",
			listing:  `{"area_name": "  ", "address": {"street": "5 Other Rd", "sal": "Belmont"}}`,
			expected: "5 Other Rd, Belmont",
		},
		{
			name:     "Suburb only",
			listing:  `{"address": {"sal": "Belmont"}}`,
			expected: "Belmont",
		},
		{
			name:     "Street only",
			listing:  `{"address": {"street": "5 Other Rd", "sal": null}}`,
			expected: "5 Other Rd",
		},
		{
			name:     "Nothing usable",
			listing:  `{"address": "not an object"}`,
			expected: UnknownAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := NormalizeListing([]byte(tt.listing))
			require.True(t, ok)
			assert.Equal(t, tt.expected, p.Address)
			assert.NotEmpty(t, p.Address)
		})
	}
}

func TestNormalize_Price(t *testing.T) {
	tests := []struct {
		name     string
		listing  string
		expected *float64
	}{
		{
			name:     "Listed price",
			listing:  `{"attributes": {"price": 650000}, "sale_price": 600000}`,
			expected: ptr(650000),
		},
		{
			name:     "Missing price uses sale price",
			listing:  `{"attributes": {}, "sale_price": 600000}`,
			expected: ptr(600000),
		},
		{
			name:     "Zero price uses sale price",
			listing:  `{"attributes": {"price": 0}, "sale_price": 600000}`,
			expected: ptr(600000),
		},
		{
			name:     "Numeric string",
			listing:  `{"attributes": {"price": "1,250,000"}}`,
			expected: ptr(1250000),
		},
		{
			name:     "Neither present",
			listing:  `{"attributes": {"price": null}}`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := NormalizeListing([]byte(tt.listing))
			require.True(t, ok)
			assert.Equal(t, tt.expected, p.Price)
		})
	}
}

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		value float64
	}{
		{`3`, true, 3},
		{`2.5`, true, 2.5},
		{`-1`, true, -1},
		{`"4"`, true, 4},
		{`" 12.5 "`, true, 12.5},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"nan"`, false, 0},
		{`"NaN"`, false, 0},
		{`"Infinity"`, false, 0},
		{`"three"`, false, 0},
		{`true`, false, 0},
		{`{"a": 1}`, false, 0},
	}

	for _, tt := range tests {
		var n FlexNumber
		err := n.UnmarshalJSON([]byte(tt.input))
		assert.NoError(t, err, "input %s", tt.input)
		assert.Equal(t, tt.valid, n.Valid, "input %s", tt.input)
		assert.Equal(t, tt.value, n.Value, "input %s", tt.input)
	}
}

func TestDecodeResults(t *testing.T) {
	t.Run("Missing results", func(t *testing.T) {
		items, err := DecodeResults([]byte(`{"message": "no data"}`))
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Results not an array", func(t *testing.T) {
		items, err := DecodeResults([]byte(`{"results": {"area_name": "x"}}`))
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Top level array", func(t *testing.T) {
		items, err := DecodeResults([]byte(`[1, 2]`))
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := DecodeResults([]byte(`{"results": [`))
		require.Error(t, err)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("Non-object elements are skipped", func(t *testing.T) {
		items, err := DecodeResults([]byte(`{"results": [1, "two", {"area_name": "3 C St"}, null]}`))
		require.NoError(t, err)
		assert.Len(t, items, 4)

		properties := Normalize(items, logrus.New())
		require.Len(t, properties, 1)
		assert.Equal(t, "3 C St", properties[0].Address)
	})
}

func ptr(v float64) *float64 {
	return &v
}
