package categorize

import "strings"

// Expense categories, in display order. Other is the catch-all.
const (
	FoodAndDining  = "Food & Dining"
	Transportation = "Transportation"
	Accommodation  = "Accommodation"
	Activities     = "Activities & Entertainment"
	Shopping       = "Shopping"
	Healthcare     = "Healthcare"
	Groceries      = "Groceries"
	GasAndFuel     = "Gas & Fuel"
	Utilities      = "Utilities"
	Insurance      = "Insurance"
	Education      = "Education"
	PersonalCare   = "Personal Care"
	Gifts          = "Gifts & Donations"
	Other          = "Other"
)

// Categories lists every valid category.
var Categories = []string{
	FoodAndDining,
	Transportation,
	Accommodation,
	Activities,
	Shopping,
	Healthcare,
	Groceries,
	GasAndFuel,
	Utilities,
	Insurance,
	Education,
	PersonalCare,
	Gifts,
	Other,
}

// Descriptions guide the model when choosing a category.
var Descriptions = map[string]string{
	FoodAndDining:  "Restaurants, cafes, bars, food delivery, dining out",
	Transportation: "Flights, trains, buses, taxis, car rentals, ride-sharing, parking",
	Accommodation:  "Hotels, Airbnb, hostels, vacation rentals, lodging",
	Activities:     "Tours, museums, shows, sports, movies, concerts, attractions",
	Shopping:       "Clothing, electronics, souvenirs, general retail purchases",
	Healthcare:     "Medical expenses, pharmacy, doctor visits, health services",
	Groceries:      "Supermarket shopping, food for home cooking",
	GasAndFuel:     "Gas stations, fuel for vehicles",
	Utilities:      "Electricity, water, internet, phone bills, home services",
	Insurance:      "Car insurance, health insurance, travel insurance",
	Education:      "Courses, books, educational materials, training",
	PersonalCare:   "Haircuts, spa, cosmetics, personal hygiene products",
	Gifts:          "Presents, charitable donations, tips",
	Other:          "Anything that doesn't fit the above categories",
}

// Canonical returns the category matching name case-insensitively, and
// whether there was one.
func Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
