package points

import (
	"strings"

	"github.com/etnz/points/date"
)

// This file contains the derived views of a portfolio. They are pure functions
// of a snapshot of programs and recomputed on every use.

// DefaultHorizonMonths is the window used to flag programs as expiring soon.
const DefaultHorizonMonths = 6

// LoungeKeywords are matched against benefit titles to count lounge access.
var LoungeKeywords = []string{"lounge", "priority"}

// TotalBalance returns the sum of all balances, capped to MaxBalance.
func TotalBalance(programs []Program) Points {
	var total Points
	for _, p := range programs {
		if p.Balance > MaxBalance-total {
			return MaxBalance
		}
		total += p.Balance
	}
	return total
}

// TypeTotal is the total balance of all programs of one type.
type TypeTotal struct {
	Type  ProgramType
	Total Points
	Count int
}

// BalanceByType returns the total balance per program type, in ProgramTypes
// order. Types with a zero total are omitted.
func BalanceByType(programs []Program) []TypeTotal {
	totals := make([]TypeTotal, 0, len(ProgramTypes))
	for _, t := range ProgramTypes {
		of := FilterByType(programs, t)
		tt := TypeTotal{Type: t, Total: TotalBalance(of), Count: len(of)}
		if tt.Total > 0 {
			totals = append(totals, tt)
		}
	}
	return totals
}

// FilterByType returns the programs of type t, in source order.
func FilterByType(programs []Program, t ProgramType) []Program {
	var filtered []Program
	for _, p := range programs {
		if p.Type == t {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// isExpiring is the rule shared by programs and benefits: the date is set,
// strictly after today and no later than today plus the horizon.
func isExpiring(on, today date.Date, months int) bool {
	if on.IsZero() {
		return false
	}
	return on.After(today) && !on.After(today.AddMonth(months))
}

// Expiring returns the programs whose expiration date falls within the next
// months, in source order. Programs without expiration never expire.
func Expiring(programs []Program, today date.Date, months int) []Program {
	var expiring []Program
	for _, p := range programs {
		if isExpiring(p.ExpirationDate, today, months) {
			expiring = append(expiring, p)
		}
	}
	return expiring
}

// BenefitExpiring reports whether a benefit expires within the next months.
// The program's own expiration date is not considered.
func BenefitExpiring(b Benefit, today date.Date, months int) bool {
	return isExpiring(b.ExpirationDate, today, months)
}

// ProgramBenefit is a benefit together with the program that owns it.
type ProgramBenefit struct {
	Program Program
	Benefit Benefit
}

// ExpiringBenefits returns all benefits expiring within the next months.
func ExpiringBenefits(programs []Program, today date.Date, months int) []ProgramBenefit {
	var expiring []ProgramBenefit
	for _, p := range programs {
		for _, b := range p.Benefits {
			if BenefitExpiring(b, today, months) {
				expiring = append(expiring, ProgramBenefit{Program: p, Benefit: b})
			}
		}
	}
	return expiring
}

// Head returns at most the first n programs.
func Head(programs []Program, n int) []Program {
	if n >= 0 && len(programs) > n {
		return programs[:n]
	}
	return programs
}

// HasBenefit reports whether one of the program's benefit titles contains one
// of the keywords, ignoring case.
func HasBenefit(p Program, keywords ...string) bool {
	for _, b := range p.Benefits {
		title := strings.ToLower(b.Title)
		for _, k := range keywords {
			if strings.Contains(title, strings.ToLower(k)) {
				return true
			}
		}
	}
	return false
}

// CountWithBenefit returns the number of programs having a benefit matching one of the keywords.
func CountWithBenefit(programs []Program, keywords ...string) int {
	n := 0
	for _, p := range programs {
		if HasBenefit(p, keywords...) {
			n++
		}
	}
	return n
}

// BenefitValue returns the sum of the estimated values of all benefits.
// It is advisory only and has nothing to do with balances.
func BenefitValue(programs []Program) Money {
	total := USD(0)
	for _, p := range programs {
		for _, b := range p.Benefits {
			if b.Value != nil {
				total = total.Add(*b.Value)
			}
		}
	}
	return total
}

// ProgramSummary is the flattened view of a program given to the advisor.
type ProgramSummary struct {
	Program    string `json:"program"`
	Type       string `json:"type"`
	Balance    string `json:"balance"`
	Expiration string `json:"expiration"`
	Benefits   string `json:"benefits"`
}

// Summarize flattens programs for the advisor.
func Summarize(programs []Program) []ProgramSummary {
	summaries := make([]ProgramSummary, 0, len(programs))
	for _, p := range programs {
		expiration := "Never"
		if !p.ExpirationDate.IsZero() {
			expiration = p.ExpirationDate.String()
		}
		benefits := make([]string, 0, len(p.Benefits))
		for _, b := range p.Benefits {
			benefits = append(benefits, describeBenefit(b))
		}
		summaries = append(summaries, ProgramSummary{
			Program:    p.Title(),
			Type:       string(p.Type),
			Balance:    strings.TrimSpace(p.Balance.String() + " " + p.CurrencyName),
			Expiration: expiration,
			Benefits:   strings.Join(benefits, ", "),
		})
	}
	return summaries
}

// describeBenefit returns a one line description, like "2x Free Night Award (expires 2026-12-31)".
func describeBenefit(b Benefit) string {
	var s strings.Builder
	if b.Quantity() > 1 {
		s.WriteString(Points(b.Quantity()).String())
		s.WriteString("x ")
	}
	s.WriteString(b.Title)
	var details []string
	if b.Description != "" {
		details = append(details, b.Description)
	}
	if !b.ExpirationDate.IsZero() {
		details = append(details, "expires "+b.ExpirationDate.String())
	}
	if len(details) > 0 {
		s.WriteString(" (" + strings.Join(details, "; ") + ")")
	}
	return s.String()
}
