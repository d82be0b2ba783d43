package calendar

import "github.com/shopspring/decimal"

// =============================================================================
// HOURS - Decimal quantity of hours
// =============================================================================

// Hours is a signed quantity of hours. decimal.Decimal keeps half-hour and
// quarter-hour entries exact; float64 drift would show up in month totals.
type Hours struct {
	Value decimal.Decimal
}

func HoursFromFloat(v float64) Hours { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFromInt(v int) Hours       { return Hours{Value: decimal.NewFromInt(int64(v))} }

// ParseHours parses a decimal string such as "7.5".
func ParseHours(s string) (Hours, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Hours{}, err
	}
	return Hours{Value: d}, nil
}

var ZeroHours = Hours{}

func (h Hours) Add(o Hours) Hours { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours        { return Hours{Value: h.Value.Neg()} }

func (h Hours) IsZero() bool     { return h.Value.IsZero() }
func (h Hours) IsNegative() bool { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool { return h.Value.IsPositive() }

func (h Hours) Equal(o Hours) bool       { return h.Value.Equal(o.Value) }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool    { return h.Value.LessThan(o.Value) }

// ClampNonNegative returns h, or zero when h is negative.
func (h Hours) ClampNonNegative() Hours {
	if h.IsNegative() {
		return ZeroHours
	}
	return h
}

func (h Hours) Float64() float64 {
	f, _ := h.Value.Float64()
	return f
}

func (h Hours) String() string { return h.Value.String() }

func (h Hours) MarshalJSON() ([]byte, error) { return h.Value.MarshalJSON() }

func (h *Hours) UnmarshalJSON(b []byte) error { return h.Value.UnmarshalJSON(b) }
