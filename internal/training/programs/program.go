package programs

import "time"

// Program is a user defined training plan: an ordered list of days, each
// with its prescribed exercises. At most one program per user is active.
type Program struct {
	ID          int          `json:"id"`
	UserID      int          `json:"userId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
	Days        []ProgramDay `json:"days,omitempty"`
}

type ProgramDay struct {
	ID        int               `json:"id"`
	ProgramID int               `json:"programId"`
	DayNumber int               `json:"dayNumber"`
	Name      string            `json:"name"`
	Exercises []ProgramExercise `json:"exercises,omitempty"`
}

type ProgramExercise struct {
	ID            int    `json:"id"`
	ProgramDayID  int    `json:"programDayId"`
	ExerciseName  string `json:"exerciseName"`
	BodyPart      string `json:"bodyPart"`
	Laterality    string `json:"laterality"`
	Sets          int    `json:"sets"`
	MinReps       int    `json:"minReps"`
	MaxReps       int    `json:"maxReps"`
	ExerciseOrder int    `json:"exerciseOrder"`
}
