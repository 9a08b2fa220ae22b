package core

// Tip is a static piece of financial advice shown alongside the goals.
type Tip struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Color       string
}

var tips = []Tip{
	{
		ID:          "save-food",
		Title:       "Cut down on eating out",
		Description: "Cooking at home a few days a week can save up to 30% of your food budget.",
		Icon:        "restaurant",
		Color:       "#FF6B6B",
	},
	{
		ID:          "invest-long-term",
		Title:       "Invest for the long term",
		Description: "Regular monthly investing smooths out market swings over time.",
		Icon:        "trending-up",
		Color:       "#2ecc71",
	},
	{
		ID:          "track-expenses",
		Title:       "Track every expense",
		Description: "Recording each expense shows where your money really goes.",
		Icon:        "analytics",
		Color:       "#3498db",
	},
}

// Tips returns the tip catalog.
func Tips() []Tip {
	return append([]Tip(nil), tips...)
}
