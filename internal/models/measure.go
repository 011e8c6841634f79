package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// MeasureState tells whether a statistic could be computed.
type MeasureState int

const (
	// Defined carries a finite value.
	Defined MeasureState = iota
	// Undefined marks a statistic without enough data (single-sample
	// std-dev, 0 to 0 change).
	Undefined
	// Unbounded marks a change measured against a zero baseline.
	Unbounded
)

// Measure is a float statistic that may be degenerate. Degenerate states are
// carried explicitly instead of being coerced to zero.
type Measure struct {
	Value float64
	State MeasureState
}

// Of wraps a finite value. NaN becomes Undefined and infinities Unbounded.
func Of(v float64) Measure {
	switch {
	case math.IsNaN(v):
		return Measure{State: Undefined}
	case math.IsInf(v, 0):
		return Measure{State: Unbounded}
	}
	return Measure{Value: v}
}

// UndefinedMeasure returns a measure with no value.
func UndefinedMeasure() Measure { return Measure{State: Undefined} }

// UnboundedMeasure returns a measure against a zero baseline.
func UnboundedMeasure() Measure { return Measure{State: Unbounded} }

// PercentChange computes (current-base)/base*100 rounded to places.
// A zero base gives Undefined when current is also zero, Unbounded otherwise.
func PercentChange(base, current float64, places int) Measure {
	if base == 0 {
		if current == 0 {
			return UndefinedMeasure()
		}
		return UnboundedMeasure()
	}
	return Of(Round((current-base)/base*100, places))
}

// IsDefined reports whether the measure carries a value.
func (m Measure) IsDefined() bool { return m.State == Defined }

// Float returns the value, NaN when undefined and +Inf when unbounded.
func (m Measure) Float() float64 {
	switch m.State {
	case Undefined:
		return math.NaN()
	case Unbounded:
		return math.Inf(1)
	}
	return m.Value
}

// Round returns the measure rounded to places decimals.
func (m Measure) Round(places int) Measure {
	if m.State != Defined {
		return m
	}
	return Measure{Value: Round(m.Value, places)}
}

func (m Measure) String() string {
	switch m.State {
	case Undefined:
		return "undefined"
	case Unbounded:
		return "unbounded"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON renders a number, null or "unbounded".
func (m Measure) MarshalJSON() ([]byte, error) {
	switch m.State {
	case Undefined:
		return []byte("null"), nil
	case Unbounded:
		return json.Marshal("unbounded")
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = UndefinedMeasure()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "unbounded" {
			*m = UnboundedMeasure()
			return nil
		}
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Of(v)
	return nil
}

// MarshalCSV renders the measure for delimited exports; undefined is empty.
func (m Measure) MarshalCSV() (string, error) {
	if m.State == Undefined {
		return "", nil
	}
	return m.String(), nil
}

// Round rounds half away from zero to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
