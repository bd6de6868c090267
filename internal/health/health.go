package health

import "time"

// WeightEntry is one body weight measurement.
type WeightEntry struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	EntryDate  time.Time `json:"entryDate"`
	Weight     float64   `json:"weight"`
	WeightUnit string    `json:"weightUnit"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WaterEntry is one day's water intake, in milliliters.
type WaterEntry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	EntryDate   time.Time `json:"entryDate"`
	Milliliters int       `json:"milliliters"`
	CreatedAt   time.Time `json:"createdAt"`
}
