package renderer

import (
	"github.com/etnz/points"
	"github.com/etnz/points/date"
)

// Number of programs shown in the dashboard sections.
const (
	expiringShown   = 2
	highlightsShown = 5
)

// Dashboard is the overview of the portfolio.
type Dashboard struct {
	Date             date.Date
	HorizonMonths    int
	Total            points.Points
	Programs         int
	Expiring         []points.Program
	ExpiringTop      []points.Program
	ExpiringBenefits []points.ProgramBenefit
	Lounge           int
	BenefitValue     points.Money
	Allocation       []Allocation
	Highlights       []points.Program
}

// Allocation is the share of one program type in the total balance.
type Allocation struct {
	Type    points.ProgramType
	Total   points.Points
	Count   int
	Percent float64
}

// NewDashboard computes the dashboard of programs on a given day.
func NewDashboard(programs []points.Program, today date.Date, months int) *Dashboard {
	d := &Dashboard{
		Date:             today,
		HorizonMonths:    months,
		Total:            points.TotalBalance(programs),
		Programs:         len(programs),
		Expiring:         points.Expiring(programs, today, months),
		ExpiringBenefits: points.ExpiringBenefits(programs, today, months),
		Lounge:           points.CountWithBenefit(programs, points.LoungeKeywords...),
		BenefitValue:     points.BenefitValue(programs),
		Highlights:       points.Head(programs, highlightsShown),
	}
	d.ExpiringTop = points.Head(d.Expiring, expiringShown)
	for _, tt := range points.BalanceByType(programs) {
		d.Allocation = append(d.Allocation, Allocation{
			Type:    tt.Type,
			Total:   tt.Total,
			Count:   tt.Count,
			Percent: 100 * float64(tt.Total) / float64(d.Total),
		})
	}
	return d
}

// ProgramList is a list of programs, optionally restricted to one type.
type ProgramList struct {
	Type     points.ProgramType
	Programs []points.Program
	Total    points.Points
}

// NewProgramList lists programs of type t, all of them if t is empty.
func NewProgramList(programs []points.Program, t points.ProgramType) *ProgramList {
	if t != "" {
		programs = points.FilterByType(programs, t)
	}
	return &ProgramList{Type: t, Programs: programs, Total: points.TotalBalance(programs)}
}

// ProgramDetail is one program seen on a given day.
type ProgramDetail struct {
	Program      points.Program
	Date         date.Date
	ExpiringSoon bool
	DaysLeft     int
	BenefitValue points.Money
	Expiring     map[string]bool // benefit ids expiring soon
}

// NewProgramDetail prepares the detail of p.
func NewProgramDetail(p points.Program, today date.Date, months int) *ProgramDetail {
	d := &ProgramDetail{
		Program:      p,
		Date:         today,
		ExpiringSoon: len(points.Expiring([]points.Program{p}, today, months)) > 0,
		BenefitValue: points.BenefitValue([]points.Program{p}),
		Expiring:     make(map[string]bool),
	}
	if !p.ExpirationDate.IsZero() {
		d.DaysLeft = today.DaysUntil(p.ExpirationDate)
	}
	for _, b := range p.Benefits {
		d.Expiring[b.ID] = points.BenefitExpiring(b, today, months)
	}
	return d
}

// ExpiringReport lists what expires within a horizon.
type ExpiringReport struct {
	Date     date.Date
	Months   int
	Until    date.Date
	Programs []points.Program
	Benefits []points.ProgramBenefit
}

// NewExpiringReport computes what expires within the next months.
func NewExpiringReport(programs []points.Program, today date.Date, months int) *ExpiringReport {
	return &ExpiringReport{
		Date:     today,
		Months:   months,
		Until:    today.AddMonth(months),
		Programs: points.Expiring(programs, today, months),
		Benefits: points.ExpiringBenefits(programs, today, months),
	}
}

// IsEmpty reports whether nothing expires.
func (e *ExpiringReport) IsEmpty() bool { return len(e.Programs) == 0 && len(e.Benefits) == 0 }
