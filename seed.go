package points

import (
	"time"

	"github.com/etnz/points/date"
)

// Seed returns the example portfolio used when nothing is persisted yet.
// Its total balance is 255,630 points.
func Seed(now time.Time) []Program {
	return []Program{
		{
			ID:           "1",
			Name:         "Sapphire Reserve",
			Provider:     "Chase",
			Type:         CreditCard,
			Balance:      125430,
			CurrencyName: "UR Points",
			LastUpdated:  now,
			Benefits: []Benefit{
				{ID: "b1", Title: "$300 Travel Credit", Description: "Annual reimbursement for travel purchases.", Type: TravelCredit, Count: 1},
				{ID: "b2", Title: "Priority Pass Select", Description: "Access to airport lounges worldwide.", Type: LoungeAccess, Count: 1},
				{ID: "b3", Title: "TSA PreCheck/Global Entry Credit", Description: "Up to $100 statement credit every 4 years.", Type: TravelCredit, Count: 1},
			},
		},
		{
			ID:           "2",
			Name:         "SkyMiles",
			Provider:     "Delta",
			Type:         Airline,
			Balance:      45200,
			CurrencyName: "Miles",
			LastUpdated:  now,
			Benefits: []Benefit{
				{ID: "b4", Title: "Main Cabin 1 Boarding", Description: "Board early with Main Cabin 1.", Type: Status, Count: 1},
			},
		},
		{
			ID:             "3",
			Name:           "Marriott Bonvoy",
			Provider:       "Marriott",
			Type:           Hotel,
			Balance:        85000,
			CurrencyName:   "Points",
			ExpirationDate: date.New(2025, time.December, 31),
			LastUpdated:    now,
			Benefits: []Benefit{
				{ID: "b5", Title: "Free Night Award", Description: "One free night up to 35k points.", Type: FreeNight, Count: 1},
			},
		},
	}
}
