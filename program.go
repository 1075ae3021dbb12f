package points

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/points/date"
	"github.com/google/uuid"
)

// ErrInvalidProgram is wrapped by all program validation errors.
var ErrInvalidProgram = errors.New("invalid program")

// ProgramType is the category of a loyalty program.
type ProgramType string

// Program types, the values are the persisted strings.
const (
	Airline    ProgramType = "Airline"
	Hotel      ProgramType = "Hotel"
	CreditCard ProgramType = "Credit Card"
	Other      ProgramType = "Other"
)

// ProgramTypes lists all program types in display order.
var ProgramTypes = []ProgramType{Airline, Hotel, CreditCard, Other}

// BenefitType is the category of a benefit.
type BenefitType string

// Benefit types, the values are the persisted strings.
const (
	Generic       BenefitType = "Generic"
	FreeNight     BenefitType = "Free Night"
	CompanionFare BenefitType = "Companion Fare"
	TravelCredit  BenefitType = "Travel Credit"
	DiningCredit  BenefitType = "Dining Credit"
	RideCredit    BenefitType = "Ride Credit"
	LoungeAccess  BenefitType = "Lounge Access"
	Insurance     BenefitType = "Insurance"
	Status        BenefitType = "Status"
)

// BenefitTypes lists all benefit types.
var BenefitTypes = []BenefitType{Generic, FreeNight, CompanionFare, TravelCredit, DiningCredit, RideCredit, LoungeAccess, Insurance, Status}

// normalizeName reduces "Credit Card", "credit-card" or "CREDIT_CARD" to "creditcard".
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// ParseProgramType parses a program type leniently (case, spaces, dashes and
// underscores are ignored).
func ParseProgramType(s string) (ProgramType, error) {
	n := normalizeName(s)
	for _, t := range ProgramTypes {
		if normalizeName(string(t)) == n {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown program type %q", s)
}

// CoerceProgramType is like ParseProgramType but defaults to Other.
func CoerceProgramType(s string) ProgramType {
	t, err := ParseProgramType(s)
	if err != nil {
		return Other
	}
	return t
}

// ParseBenefitType parses a benefit type leniently.
func ParseBenefitType(s string) (BenefitType, error) {
	n := normalizeName(s)
	for _, t := range BenefitTypes {
		if normalizeName(string(t)) == n {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown benefit type %q", s)
}

// CoerceBenefitType is like ParseBenefitType but defaults to Generic.
func CoerceBenefitType(s string) BenefitType {
	t, err := ParseBenefitType(s)
	if err != nil {
		return Generic
	}
	return t
}

// Benefit is a perk, credit or certificate attached to a Program.
type Benefit struct {
	ID          string      `json:"id" yaml:"id" toml:"id"`
	Title       string      `json:"title" yaml:"title" toml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Type        BenefitType `json:"type" yaml:"type" toml:"type"`
	// Count is the number of identical benefits, like 2 free night certificates.
	Count          int       `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	ExpirationDate date.Date `json:"expirationDate,omitzero" yaml:"expirationDate,omitempty" toml:"expirationDate,omitempty"`
	// Value is an advisory estimate, it is never part of a balance.
	Value *Money `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Quantity returns the count of this benefit, a missing count means 1.
func (b Benefit) Quantity() int {
	if b.Count == 0 {
		return 1
	}
	return b.Count
}

// Validate checks the benefit invariants.
func (b Benefit) Validate() error {
	var errs error
	if b.ID == "" {
		errs = errors.Join(errs, errors.New("benefit id is missing"))
	}
	if strings.TrimSpace(b.Title) == "" {
		errs = errors.Join(errs, fmt.Errorf("benefit %q has no title", b.ID))
	}
	if b.Count < 0 {
		errs = errors.Join(errs, fmt.Errorf("benefit %q count must be positive, got %d", b.ID, b.Count))
	}
	if !slices.Contains(BenefitTypes, b.Type) {
		errs = errors.Join(errs, fmt.Errorf("benefit %q has an unknown type %q", b.ID, b.Type))
	}
	if b.Value != nil && b.Value.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("benefit %q value must not be negative, got %s", b.ID, b.Value))
	}
	return errs
}

// Program is one loyalty account.
type Program struct {
	ID             string      `json:"id" yaml:"id" toml:"id"`
	Name           string      `json:"name" yaml:"name" toml:"name"`
	Provider       string      `json:"provider" yaml:"provider" toml:"provider"`
	Type           ProgramType `json:"type" yaml:"type" toml:"type"`
	Balance        Points      `json:"balance" yaml:"balance" toml:"balance"`
	CurrencyName   string      `json:"currencyName" yaml:"currencyName" toml:"currencyName"`
	ExpirationDate date.Date   `json:"expirationDate,omitzero" yaml:"expirationDate,omitempty" toml:"expirationDate,omitempty"`
	Benefits       []Benefit   `json:"benefits" yaml:"benefits" toml:"benefits"`
	Notes          string      `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	LastUpdated    time.Time   `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
}

// Title returns the "provider name" label of the program, like "Chase Sapphire Reserve".
// The provider is not repeated when the name already starts with it.
func (p Program) Title() string {
	if p.Provider != "" && strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(p.Provider)) {
		return p.Name
	}
	return strings.TrimSpace(p.Provider + " " + p.Name)
}

// Clone returns a deep copy of p, the benefits are not shared.
func (p Program) Clone() Program {
	p.Benefits = slices.Clone(p.Benefits)
	if p.Benefits == nil {
		p.Benefits = []Benefit{}
	}
	for i, b := range p.Benefits {
		if b.Value != nil {
			v := *b.Value
			p.Benefits[i].Value = &v
		}
	}
	return p
}

// Benefit returns the benefit with that id.
func (p Program) Benefit(id string) (Benefit, bool) {
	for _, b := range p.Benefits {
		if b.ID == id {
			return b, true
		}
	}
	return Benefit{}, false
}

// Validate checks the program invariants, including its benefits'.
func (p Program) Validate() error {
	var errs error
	if p.ID == "" {
		errs = errors.Join(errs, errors.New("program id is missing"))
	}
	if !slices.Contains(ProgramTypes, p.Type) {
		errs = errors.Join(errs, fmt.Errorf("unknown program type %q", p.Type))
	}
	if p.Balance > MaxBalance {
		errs = errors.Join(errs, fmt.Errorf("balance %d is larger than %d", uint64(p.Balance), uint64(MaxBalance)))
	}
	seen := make(map[string]bool, len(p.Benefits))
	for _, b := range p.Benefits {
		if err := b.Validate(); err != nil {
			errs = errors.Join(errs, err)
		}
		if seen[b.ID] {
			errs = errors.Join(errs, fmt.Errorf("benefit id %q is not unique", b.ID))
		}
		seen[b.ID] = true
	}
	if errs != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidProgram, p.ID, errs)
	}
	return nil
}

// withDefaults fills the optional fields that have a default value and
// spells known types the canonical way ("credit-card" is CreditCard).
func (p Program) withDefaults() Program {
	p = p.Clone()
	if t, err := ParseProgramType(string(p.Type)); err == nil {
		p.Type = t
	}
	for i := range p.Benefits {
		b := &p.Benefits[i]
		if b.Count == 0 {
			b.Count = 1
		}
		if t, err := ParseBenefitType(string(b.Type)); err == nil {
			b.Type = t
		}
	}
	return p
}

// NewID returns a fresh program id.
func NewID() string { return uuid.NewString() }

// NextBenefitID returns an id of the form "b<n>" that no benefit in the list uses.
func NextBenefitID(benefits []Benefit) string {
	n := len(benefits) + 1
	for {
		id := "b" + strconv.Itoa(n)
		if !slices.ContainsFunc(benefits, func(b Benefit) bool { return b.ID == id }) {
			return id
		}
		n++
	}
}
