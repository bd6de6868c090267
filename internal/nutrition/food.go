package nutrition

import "time"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FoodEntry is one food diary line: what was eaten, how much of it, and
// the macros for that amount. FdcID links back to the FoodData Central
// food the entry was picked from, when it was.
type FoodEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	EntryDate time.Time `json:"entryDate"`
	MealType  string    `json:"mealType"`
	FoodName  string    `json:"foodName"`
	FdcID     *int      `json:"fdcId,omitempty"`
	Grams     float64   `json:"grams"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Fat       float64   `json:"fat"`
	Carbs     float64   `json:"carbs"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyTotals sums the macros of all entries on one date.
type DailyTotals struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Fat      float64   `json:"fat"`
	Carbs    float64   `json:"carbs"`
	Entries  int       `json:"entries"`
}

func ValidMealType(mealType string) bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}
