package points

import (
	"math"
	"strconv"
	"testing"

	"github.com/etnz/points/date"
	"github.com/google/go-cmp/cmp"
)

func TestBalanceByType(t *testing.T) {
	programs := []Program{
		{ID: "a", Type: Airline, Balance: 100},
		{ID: "b", Type: Airline, Balance: 200},
		{ID: "c", Type: Hotel, Balance: 50},
		{ID: "d", Type: Other, Balance: 0},
	}
	want := []TypeTotal{
		{Type: Airline, Total: 300, Count: 2},
		{Type: Hotel, Total: 50, Count: 1},
	}
	if diff := cmp.Diff(want, BalanceByType(programs)); diff != "" {
		t.Errorf("BalanceByType() mismatch (-want +got):\n%s", diff)
	}
	if got := BalanceByType(nil); len(got) != 0 {
		t.Errorf("BalanceByType(nil) = %v, want empty", got)
	}
}

func TestExpiring(t *testing.T) {
	today := date.New(2026, 10, 18)
	tests := []struct {
		on   string
		want bool
	}{
		{"", false},
		{"2025-12-31", false},
		{"2026-10-17", false},
		{"2026-10-18", false},
		{"2026-10-19", true},
		{"2027-01-01", true},
		{"2027-04-18", true},
		{"2027-04-19", false},
		{"2027-05-18", false},
		{"2030-01-01", false},
	}
	for _, tt := range tests {
		var on date.Date
		if tt.on != "" {
			on = date.MustParse(tt.on)
		}
		programs := []Program{{ID: "1", ExpirationDate: on}}
		got := len(Expiring(programs, today, DefaultHorizonMonths)) == 1
		if got != tt.want {
			t.Errorf("Expiring(%q) = %v, want %v", tt.on, got, tt.want)
		}
		if got := BenefitExpiring(Benefit{ExpirationDate: on}, today, DefaultHorizonMonths); got != tt.want {
			t.Errorf("BenefitExpiring(%q) = %v, want %v", tt.on, got, tt.want)
		}
	}
}

func TestExpiringBenefitsIgnoresProgramDate(t *testing.T) {
	today := date.New(2026, 10, 18)
	programs := []Program{
		{ID: "1", ExpirationDate: date.New(2026, 11, 1), Benefits: []Benefit{
			{ID: "b1", Title: "never"},
			{ID: "b2", Title: "soon", ExpirationDate: date.New(2026, 12, 1)},
		}},
	}
	got := ExpiringBenefits(programs, today, 6)
	if len(got) != 1 || got[0].Benefit.ID != "b2" || got[0].Program.ID != "1" {
		t.Errorf("ExpiringBenefits() = %+v, want only b2", got)
	}
}

func TestHead(t *testing.T) {
	seed := Seed(testNow)
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{2, 2},
		{5, 3},
		{-1, 3},
	}
	for _, tt := range tests {
		if got := len(Head(seed, tt.n)); got != tt.want {
			t.Errorf("len(Head(seed, %d)) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCountWithBenefit(t *testing.T) {
	if got := CountWithBenefit(Seed(testNow), LoungeKeywords...); got != 1 {
		t.Errorf("CountWithBenefit(seed) = %d, want 1", got)
	}
	programs := []Program{
		{ID: "1", Benefits: []Benefit{{Title: "Sky Club LOUNGE"}, {Title: "Priority boarding"}}},
		{ID: "2", Benefits: []Benefit{{Title: "Free bag"}}},
		{ID: "3", Benefits: []Benefit{{Title: "priority check-in"}}},
	}
	if got := CountWithBenefit(programs, LoungeKeywords...); got != 2 {
		t.Errorf("CountWithBenefit() = %d, want 2", got)
	}
}

func TestFilterByType(t *testing.T) {
	got := FilterByType(Seed(testNow), Hotel)
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("FilterByType(Hotel) = %v, want program 3", got)
	}
	if got := FilterByType(Seed(testNow), Other); len(got) != 0 {
		t.Errorf("FilterByType(Other) = %v, want none", got)
	}
}

func TestBenefitValue(t *testing.T) {
	v1, v2 := USD(300), USD(100.5)
	programs := []Program{
		{ID: "1", Benefits: []Benefit{{ID: "b1", Value: &v1}, {ID: "b2"}}},
		{ID: "2", Benefits: []Benefit{{ID: "b1", Value: &v2}}},
	}
	if got, want := BenefitValue(programs), USD(400.5); !got.Equal(want) {
		t.Errorf("BenefitValue() = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(Seed(testNow))
	want := []ProgramSummary{
		{
			Program:    "Chase Sapphire Reserve",
			Type:       "Credit Card",
			Balance:    "125,430 UR Points",
			Expiration: "Never",
			Benefits:   "$300 Travel Credit (Annual reimbursement for travel purchases.), Priority Pass Select (Access to airport lounges worldwide.), TSA PreCheck/Global Entry Credit (Up to $100 statement credit every 4 years.)",
		},
		{
			Program:    "Delta SkyMiles",
			Type:       "Airline",
			Balance:    "45,200 Miles",
			Expiration: "Never",
			Benefits:   "Main Cabin 1 Boarding (Board early with Main Cabin 1.)",
		},
		{
			Program:    "Marriott Bonvoy",
			Type:       "Hotel",
			Balance:    "85,000 Points",
			Expiration: "2025-12-31",
			Benefits:   "Free Night Award (One free night up to 35k points.)",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeBenefit(t *testing.T) {
	b := Benefit{Title: "Free Night Award", Count: 2, ExpirationDate: date.New(2026, 12, 31)}
	if got, want := describeBenefit(b), "2x Free Night Award (expires 2026-12-31)"; got != want {
		t.Errorf("describeBenefit() = %q, want %q", got, want)
	}
}

func TestTotalBalanceCapped(t *testing.T) {
	tests := []struct {
		balances []Points
		want     Points
	}{
		{nil, 0},
		{[]Points{100, 200}, 300},
		{[]Points{MaxBalance, 0}, MaxBalance},
		{[]Points{MaxBalance, 2}, MaxBalance},
		{[]Points{MaxBalance - 1, 1, 5}, MaxBalance},
	}
	for _, tt := range tests {
		var programs []Program
		for i, b := range tt.balances {
			programs = append(programs, Program{ID: strconv.Itoa(i), Type: Hotel, Balance: b})
		}
		if got := TotalBalance(programs); got != tt.want {
			t.Errorf("TotalBalance(%v) = %v, want %v", tt.balances, got, tt.want)
		}
		if got := BalanceByType(programs); len(got) > 0 && got[0].Total != tt.want {
			t.Errorf("BalanceByType(%v) = %v, want %v", tt.balances, got[0].Total, tt.want)
		}
	}
}

func TestPointsString(t *testing.T) {
	tests := []struct {
		p    Points
		want string
	}{
		{0, "0"},
		{999, "999"},
		{125430, "125,430"},
		{MaxBalance, "9,223,372,036,854,775,807"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Points(%d).String() = %q, want %q", uint64(tt.p), got, tt.want)
		}
	}
}
