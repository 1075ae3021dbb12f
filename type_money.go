package points

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ValueCurrency is the currency of benefit values.
const ValueCurrency = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money of value in the given currency.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	var v decimal.Decimal
	switch x := any(value).(type) {
	case decimal.Decimal:
		v = x
	case float64:
		v = decimal.NewFromFloat(x)
	case int:
		v = decimal.NewFromInt(int64(x))
	case int64:
		v = decimal.NewFromInt(x)
	}
	return Money{value: v, cur: currency}
}

// USD is a shortcut for M(value, "USD").
func USD[T float64 | int | int64 | decimal.Decimal](value T) Money { return M(value, ValueCurrency) }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.Currency()).Currency()
}

// String returns the string representation of the money value, like "$1,234.50".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// Currency returns the ISO code of the currency, USD by default.
func (m Money) Currency() string {
	if m.cur == "" {
		return ValueCurrency
	}
	return m.cur
}

func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.Currency() == n.Currency() }

// Add returns m+n, both must share the same currency.
func (m Money) Add(n Money) Money {
	if m.Currency() != n.Currency() {
		panic("currency mismatch " + m.Currency() + "!=" + n.Currency())
	}
	return Money{value: m.value.Add(n.value), cur: m.Currency()}
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON reads a JSON number or numeric string, in ValueCurrency.
func (m *Money) UnmarshalJSON(b []byte) error {
	var v decimal.Decimal
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	*m = USD(v)
	return nil
}

// MarshalText is used by the yaml and toml encoders.
func (m Money) MarshalText() ([]byte, error) { return []byte(m.value.String()), nil }

// UnmarshalText accepts "300", "300.50" or "$300.50".
func (m *Money) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "$")
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", text, err)
	}
	*m = USD(v)
	return nil
}
