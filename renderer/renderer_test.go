package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/points"
	"github.com/etnz/points/date"
	"github.com/google/go-cmp/cmp"
)

var (
	now   = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
	today = date.Of(now)
)

// portfolio is the seed plus a program expiring soon and a benefit expiring soon.
func portfolio() []points.Program {
	programs := points.Seed(now)
	programs[2].ExpirationDate = date.New(2027, time.January, 31)
	value := points.USD(95)
	programs[2].Benefits[0].ExpirationDate = date.New(2026, time.December, 1)
	programs[2].Benefits[0].Value = &value
	return programs
}

// assertContains checks that got contains all wants.
func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard(portfolio(), today, points.DefaultHorizonMonths)

	if d.Total != 255630 || d.Programs != 3 || d.Lounge != 1 {
		t.Errorf("NewDashboard() = total %v, programs %d, lounge %d", d.Total, d.Programs, d.Lounge)
	}
	if len(d.Expiring) != 1 || d.Expiring[0].ID != "3" {
		t.Errorf("Expiring = %v, want program 3", d.Expiring)
	}
	want := []Allocation{
		{Type: points.Airline, Total: 45200, Count: 1, Percent: 100 * 45200.0 / 255630},
		{Type: points.Hotel, Total: 85000, Count: 1, Percent: 100 * 85000.0 / 255630},
		{Type: points.CreditCard, Total: 125430, Count: 1, Percent: 100 * 125430.0 / 255630},
	}
	if diff := cmp.Diff(want, d.Allocation); diff != "" {
		t.Errorf("Allocation mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDashboard(t *testing.T) {
	got := RenderDashboard(NewDashboard(portfolio(), today, points.DefaultHorizonMonths))
	assertContains(t, got,
		"# Points Dashboard on 2026-10-18",
		"| 255,630 | 1 | 1 cards |",
		"Across 3 programs.",
		"Benefits are worth about $95.00.",
		"- **Marriott Bonvoy**: 2027-01-31",
		"- Free Night Award (Marriott Bonvoy): 2026-12-01",
		"| Credit Card | 1 | 125,430 | 49.1% |",
		"| Chase | Sapphire Reserve | 125,430 UR Points |",
	)
	if strings.Contains(got, "error") {
		t.Errorf("rendering failed:\n%s", got)
	}
}

func TestRenderDashboardEmpty(t *testing.T) {
	got := RenderDashboard(NewDashboard(nil, today, points.DefaultHorizonMonths))
	assertContains(t, got, "| 0 | 0 | 0 cards |", "All points are safe!", "No points yet.", "No programs yet")
}

func TestRenderDashboardMoreExpiring(t *testing.T) {
	var programs []points.Program
	for i, name := range []string{"A", "B", "C", "D"} {
		programs = append(programs, points.Program{
			ID: name, Name: name, Type: points.Other, Balance: 10,
			ExpirationDate: today.Add(10 * (i + 1)),
		})
	}
	got := RenderDashboard(NewDashboard(programs, today, 6))
	assertContains(t, got, "- **A**: 2026-10-28", "- **B**: 2026-11-07", "- and 2 more")
	if strings.Contains(got, "- **C**") {
		t.Errorf("dashboard shows more than 2 expiring programs:\n%s", got)
	}
}

func TestRenderPrograms(t *testing.T) {
	got := RenderPrograms(NewProgramList(portfolio(), points.Hotel))
	assertContains(t, got, "# Programs (Hotel)", "| 3 | Marriott Bonvoy | Hotel | 85,000 Points | 2027-01-31 | 1 |", "**Total:** 85,000")
	if strings.Contains(got, "Chase") {
		t.Errorf("filtered list contains other types:\n%s", got)
	}

	got = RenderPrograms(NewProgramList(portfolio(), ""))
	assertContains(t, got, "# Programs\n", "| 1 | Chase Sapphire Reserve | Credit Card | 125,430 UR Points | Never | 3 |", "**Total:** 255,630")

	got = RenderPrograms(NewProgramList(portfolio(), points.Other))
	assertContains(t, got, "No programs found in this category.")
}

func TestRenderProgram(t *testing.T) {
	p := portfolio()[2]
	p.Notes = "Status match pending."
	got := RenderProgram(NewProgramDetail(p, today, points.DefaultHorizonMonths))
	assertContains(t, got,
		"# Marriott Bonvoy",
		"- **Balance:** 85,000 Points",
		"- **Expires:** 2027-01-31 (105 days left) **expiring soon**",
		"- **Last updated:** 2026-10-18 09:30",
		"| b5 | Free Night Award | Free Night | 1 | 2026-12-01 **soon** | $95.00 |",
		"Estimated value: $95.00",
		"## Notes\n\nStatus match pending.",
	)

	got = RenderProgram(NewProgramDetail(points.Program{ID: "x", Name: "Empty", Type: points.Other}, today, 6))
	assertContains(t, got, "- **Expires:** Never\n", "No benefits.")
	if strings.Contains(got, "## Notes") {
		t.Errorf("empty notes are rendered:\n%s", got)
	}
}

func TestRenderExpiring(t *testing.T) {
	r := NewExpiringReport(portfolio(), today, 3)
	if r.IsEmpty() {
		t.Fatal("IsEmpty() = true")
	}
	got := RenderExpiring(r)
	assertContains(t, got,
		"# Expiring before 2027-01-18",
		"All points are safe!",
		"| Free Night Award | Marriott Bonvoy | 2026-12-01 | 44 |",
	)

	if r := NewExpiringReport(points.Seed(now), today, 6); !r.IsEmpty() {
		t.Errorf("seed has expiring items: %+v", r)
	}
}
