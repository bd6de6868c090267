package logs

import "time"

const (
	StatusIncomplete = "incomplete"
	StatusCompleted  = "completed"
)

// WorkoutLog is one training session: all exercises and sets a user
// performed for one program on one calendar date.
type WorkoutLog struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	ProgramID    int       `json:"programId"`
	ProgramDayID int       `json:"programDayId"`
	Title        string    `json:"title"`
	WorkoutDate  time.Time `json:"workoutDate"`
	Status       string    `json:"status"`
}

// WorkoutExercise snapshots the program exercise at logging time. The
// name / body part / laterality are copied in, not joined at read time,
// so history stays stable when the program definition changes later.
type WorkoutExercise struct {
	ID                int    `json:"id"`
	WorkoutLogID      int    `json:"workoutLogId"`
	ProgramExerciseID int    `json:"programExerciseId"`
	ExerciseName      string `json:"exerciseName"`
	BodyPart          string `json:"bodyPart"`
	Laterality        string `json:"laterality"`
	ExerciseOrder     int    `json:"exerciseOrder"`
	Notes             string `json:"notes"`
}

type WorkoutSet struct {
	ID                int       `json:"id"`
	WorkoutExerciseID int       `json:"workoutExerciseId"`
	SetNumber         int       `json:"setNumber"`
	RepsLeft          int       `json:"repsLeft"`
	RepsRight         int       `json:"repsRight"`
	Weight            float64   `json:"weight"`
	WeightUnit        string    `json:"weightUnit"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewSetEntry is everything needed to log one set: the log and exercise
// coordinates plus the snapshot fields and the set itself.
type NewSetEntry struct {
	UserID       int
	ProgramID    int
	ProgramDayID int
	WorkoutDate  time.Time
	Title        string

	ProgramExerciseID int
	ExerciseName      string
	BodyPart          string
	Laterality        string
	ExerciseOrder     int
	Notes             string

	SetNumber  int
	RepsLeft   int
	RepsRight  int
	Weight     float64
	WeightUnit string
}

// PreviousSet is the most recent earlier performance of the same set
// number of the same exercise, shown next to the current set.
type PreviousSet struct {
	WorkoutDate time.Time `json:"workoutDate"`
	RepsLeft    int       `json:"repsLeft"`
	RepsRight   int       `json:"repsRight"`
	Weight      float64   `json:"weight"`
	WeightUnit  string    `json:"weightUnit"`
}

type SetView struct {
	WorkoutSet
	Previous *PreviousSet `json:"previous"`
}

type ExerciseView struct {
	WorkoutExercise
	Sets []SetView `json:"sets"`
}

type LogView struct {
	WorkoutLog
	Exercises []ExerciseView `json:"exercises"`
}
