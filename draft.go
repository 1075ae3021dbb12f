package points

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/etnz/points/date"
	"github.com/shopspring/decimal"
)

// Defaults used when a draft leaves a field empty.
const (
	DefaultProgramName  = "Unknown Program"
	DefaultProvider     = "Unknown Provider"
	DefaultCurrencyName = "Points"
)

// Draft is a candidate program with loosely typed fields, as returned by an
// AI extraction. It must go through Program before being added to a Store.
type Draft struct {
	ProgramName    string           `json:"programName"`
	Provider       string           `json:"provider"`
	Balance        *decimal.Decimal `json:"balance"`
	CurrencyName   string           `json:"currencyName"`
	ExpirationDate string           `json:"expirationDate"`
	Type           string           `json:"type"`
	Benefits       []DraftBenefit   `json:"benefits"`
}

// DraftBenefit is a candidate benefit.
type DraftBenefit struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Type           string           `json:"type"`
	Count          *decimal.Decimal `json:"count"`
	ExpirationDate string           `json:"expirationDate"`
}

// UnmarshalJSON also accepts a bare string as the benefit title.
func (b *DraftBenefit) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		*b = DraftBenefit{Title: title}
		return nil
	}
	type plain DraftBenefit
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = DraftBenefit(p)
	return nil
}

// ValidationError describes why a draft field cannot be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// noDate lists the values meaning "no expiration".
var noDate = []string{"", "null", "none", "never", "n/a", "na"}

// parseDraftDate reads an optional YYYY-MM-DD date.
func parseDraftDate(field, s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	for _, n := range noDate {
		if strings.EqualFold(s, n) {
			return date.Date{}, nil
		}
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, invalid(field, "%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}

// wholeNumber rounds v to an integer in [0, max].
func wholeNumber(field string, v decimal.Decimal, max uint64) (uint64, error) {
	if v.IsNegative() {
		return 0, invalid(field, "must not be negative, got %s", v)
	}
	r := v.Round(0)
	if !r.Equal(v) {
		log.Printf("draft %s %s rounded to %s", field, v, r)
	}
	if r.GreaterThan(decimal.NewFromUint64(max)) {
		return 0, invalid(field, "%s is too large", v)
	}
	return r.BigInt().Uint64(), nil
}

// Program validates the draft and turns it into a Program with the given id.
//
// Coercion policy:
//   - an unknown program type becomes Other, an unknown benefit type Generic;
//   - empty name, provider and currency get DefaultProgramName, DefaultProvider
//     and DefaultCurrencyName;
//   - a missing balance is 0, a fractional balance or count is rounded;
//   - a missing or zero count is 1.
//
// Negative numbers, invalid dates and benefits without a title are errors. All
// errors are returned together, each one is a *ValidationError.
func (d Draft) Program(id string, now time.Time) (Program, error) {
	var errs []error

	p := Program{
		ID:           id,
		Name:         orDefault(d.ProgramName, DefaultProgramName),
		Provider:     orDefault(d.Provider, DefaultProvider),
		CurrencyName: orDefault(d.CurrencyName, DefaultCurrencyName),
		Type:         CoerceProgramType(d.Type),
		Benefits:     []Benefit{},
		LastUpdated:  now,
	}
	if _, err := ParseProgramType(d.Type); err != nil && d.Type != "" {
		log.Printf("draft type %q is unknown, using %q", d.Type, p.Type)
	}

	if d.Balance != nil {
		balance, err := wholeNumber("balance", *d.Balance, uint64(MaxBalance))
		if err != nil {
			errs = append(errs, err)
		}
		p.Balance = Points(balance)
	}

	exp, err := parseDraftDate("expirationDate", d.ExpirationDate)
	if err != nil {
		errs = append(errs, err)
	}
	p.ExpirationDate = exp

	for i, db := range d.Benefits {
		field := fmt.Sprintf("benefits[%d]", i)
		b := Benefit{
			ID:          NextBenefitID(p.Benefits),
			Title:       strings.TrimSpace(db.Title),
			Description: strings.TrimSpace(db.Description),
			Type:        CoerceBenefitType(db.Type),
			Count:       1,
		}
		if b.Title == "" {
			errs = append(errs, invalid(field+".title", "is required"))
		}
		if db.Count != nil && !db.Count.IsZero() {
			count, err := wholeNumber(field+".count", *db.Count, math.MaxInt32)
			if err != nil {
				errs = append(errs, err)
			} else if count > 0 {
				b.Count = int(count)
			}
		}
		exp, err := parseDraftDate(field+".expirationDate", db.ExpirationDate)
		if err != nil {
			errs = append(errs, err)
		}
		b.ExpirationDate = exp
		p.Benefits = append(p.Benefits, b)
	}

	if len(errs) > 0 {
		return Program{}, errors.Join(errs...)
	}
	return p, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
