package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// DimensionKind is the tag of a DimensionValue.
type DimensionKind string

const (
	DimString  DimensionKind = "string"
	DimInt     DimensionKind = "int"
	DimDecimal DimensionKind = "decimal"
	DimBool    DimensionKind = "bool"
	DimDate    DimensionKind = "date"
)

const (
	MaxDimensions      = 20
	maxDimensionKeyLen = 64
	maxDimensionStrLen = 256
	dimensionDateFmt   = "2006-01-02"
)

var dimensionKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// DimensionValue holds exactly one of a string, integer, decimal, bool or date.
// The zero value is invalid.
type DimensionValue struct {
	kind DimensionKind
	s    string
	i    int64
	d    decimal.Decimal
	b    bool
	t    time.Time
}

func StringDimension(v string) DimensionValue { return DimensionValue{kind: DimString, s: v} }
func IntDimension(v int64) DimensionValue     { return DimensionValue{kind: DimInt, i: v} }
func BoolDimension(v bool) DimensionValue     { return DimensionValue{kind: DimBool, b: v} }

func DecimalDimension(v decimal.Decimal) DimensionValue {
	return DimensionValue{kind: DimDecimal, d: v}
}

func DateDimension(v time.Time) DimensionValue {
	return DimensionValue{kind: DimDate, t: StartOfDay(v.UTC())}
}

func (v DimensionValue) Kind() DimensionKind { return v.kind }

// Any returns the underlying Go value.
func (v DimensionValue) Any() any {
	switch v.kind {
	case DimString:
		return v.s
	case DimInt:
		return v.i
	case DimDecimal:
		return v.d
	case DimBool:
		return v.b
	case DimDate:
		return v.t
	}
	return nil
}

func (v DimensionValue) Equal(o DimensionValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case DimString:
		return v.s == o.s
	case DimInt:
		return v.i == o.i
	case DimDecimal:
		return v.d.Equal(o.d)
	case DimBool:
		return v.b == o.b
	case DimDate:
		return v.t.Equal(o.t)
	}
	return true
}

type dimensionJSON struct {
	Type  DimensionKind   `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (v DimensionValue) MarshalJSON() ([]byte, error) {
	var raw any
	switch v.kind {
	case DimString:
		raw = v.s
	case DimInt:
		raw = v.i
	case DimDecimal:
		raw = v.d.String()
	case DimBool:
		raw = v.b
	case DimDate:
		raw = v.t.Format(dimensionDateFmt)
	default:
		return nil, fmt.Errorf("dimension value has no type")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dimensionJSON{Type: v.kind, Value: b})
}

func (v *DimensionValue) UnmarshalJSON(data []byte) error {
	var wire dimensionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case DimString:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("dimension string value: %w", err)
		}
		*v = StringDimension(s)
	case DimInt:
		var i int64
		if err := json.Unmarshal(wire.Value, &i); err != nil {
			return fmt.Errorf("dimension int value: %w", err)
		}
		*v = IntDimension(i)
	case DimDecimal:
		var d decimal.Decimal
		if err := d.UnmarshalJSON(wire.Value); err != nil {
			return fmt.Errorf("dimension decimal value: %w", err)
		}
		if err := checkBounds(d); err != nil {
			return fmt.Errorf("dimension decimal value: %w", err)
		}
		*v = DecimalDimension(d)
	case DimBool:
		var b bool
		if err := json.Unmarshal(wire.Value, &b); err != nil {
			return fmt.Errorf("dimension bool value: %w", err)
		}
		*v = BoolDimension(b)
	case DimDate:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("dimension date value: %w", err)
		}
		t, err := time.Parse(dimensionDateFmt, s)
		if err != nil {
			return fmt.Errorf("dimension date value: %w", err)
		}
		*v = DateDimension(t)
	default:
		return fmt.Errorf("unsupported dimension type %q", wire.Type)
	}
	return nil
}

// Dimensions tags an entry or line with analytic values such as a cost center.
type Dimensions map[string]DimensionValue

// Validate checks the key set and value tags.
func (d Dimensions) Validate() error {
	if len(d) > MaxDimensions {
		return fmt.Errorf("too many dimensions: %d (max %d)", len(d), MaxDimensions)
	}
	for k, v := range d {
		if len(k) == 0 || len(k) > maxDimensionKeyLen || !dimensionKeyPattern.MatchString(k) {
			return fmt.Errorf("invalid dimension key %q", k)
		}
		switch v.kind {
		case DimString:
			if len(v.s) > maxDimensionStrLen {
				return fmt.Errorf("dimension %q value too long", k)
			}
		case DimInt, DimDecimal, DimBool, DimDate:
		default:
			return fmt.Errorf("dimension %q has no value", k)
		}
	}
	return nil
}

// Clone copies the map. Values are immutable so a shallow copy is enough.
func (d Dimensions) Clone() Dimensions {
	if d == nil {
		return nil
	}
	c := make(Dimensions, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
