package listings

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FlexNumber decodes a numeric field that may arrive as a number, a numeric
// string, null, or a NaN marker. Anything that is not a finite number leaves
// it invalid instead of failing the whole payload.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" || isNaNMarker(s) {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n.set(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	n.set(v)
	return nil
}

func (n *FlexNumber) set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	n.Value = v
	n.Valid = true
}

// Ptr returns the value as an optional float
func (n FlexNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// FlexString decodes an optional text field. Blank strings, NaN markers and
// non-string values are treated as absent.
type FlexString struct {
	Value string
	Valid bool
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" || isNaNMarker(v) {
		return nil
	}
	s.Value = v
	s.Valid = true
	return nil
}

func (s FlexString) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

func isNaNMarker(s string) bool {
	return strings.EqualFold(s, "nan")
}
