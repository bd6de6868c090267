package progression

import "time"

// SetHistoryEntry is one logged set, flattened out of the
// workout log -> workout exercise -> workout set hierarchy.
type SetHistoryEntry struct {
	WorkoutLogID int       `json:"workoutLogId"`
	WorkoutDate  time.Time `json:"workoutDate"`
	Title        string    `json:"title"`
	ExerciseName string    `json:"exerciseName"`
	Laterality   string    `json:"laterality"`
	SetNumber    int       `json:"setNumber"`
	RepsLeft     int       `json:"repsLeft"`
	RepsRight    int       `json:"repsRight"`
	Weight       float64   `json:"weight"`
	WeightUnit   string    `json:"weightUnit"`
}

// PersonalRecord is the best estimated 1RM ever achieved for one
// program exercise, together with the set that produced it.
type PersonalRecord struct {
	Weight           float64 `json:"weight"`
	WeightUnit       string  `json:"weightUnit"`
	RepsLeft         int     `json:"repsLeft"`
	RepsRight        int     `json:"repsRight"`
	Reps             int     `json:"reps"`
	BestOneRepMax    float64 `json:"bestOneRepMax"`
	InitialOneRepMax float64 `json:"initialOneRepMax"`
}

type SessionSet struct {
	SetNumber  int     `json:"setNumber"`
	RepsLeft   int     `json:"repsLeft"`
	RepsRight  int     `json:"repsRight"`
	Reps       float64 `json:"reps"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

// SessionSummary aggregates all sets of one exercise within one workout log.
// SessionVolume sums avg-reps x weight per set; it is deliberately a
// different metric than the reps-agnostic volumes in ProgressionReport.
type SessionSummary struct {
	WorkoutLogID  int          `json:"workoutLogId"`
	Date          time.Time    `json:"date"`
	Title         string       `json:"title"`
	ExerciseName  string       `json:"exerciseName"`
	Laterality    string       `json:"laterality"`
	WeightUnit    string       `json:"weightUnit"`
	Sets          []SessionSet `json:"sets"`
	MaxWeight     float64      `json:"maxWeight"`
	AverageWeight float64      `json:"averageWeight"`
	SessionVolume float64      `json:"sessionVolume"`
}

type WeightPoint struct {
	Date       time.Time `json:"date"`
	Weight     float64   `json:"weight"`
	WeightUnit string    `json:"weightUnit"`
	SetNumber  int       `json:"setNumber"`
}

type VolumePoint struct {
	Date   time.Time `json:"date"`
	Volume float64   `json:"volume"`
}

type ProgressionStats struct {
	WeightIncrease float64 `json:"weightIncrease"`
	WeightUnit     string  `json:"weightUnit"`
	TotalVolume    float64 `json:"totalVolume"`
	TotalSets      int     `json:"totalSets"`
}

type ProgressionReport struct {
	Stats             ProgressionStats  `json:"stats"`
	WeightProgression []WeightPoint     `json:"weightProgression"`
	VolumeProgression []VolumePoint     `json:"volumeProgression"`
	SessionHistory    []*SessionSummary `json:"sessionHistory"`
}
