package logs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrLogNotFound      = errors.New("workout log not found")
	ErrLogExists        = errors.New("workout log already exists")
	ErrExerciseNotFound = errors.New("workout exercise not found")
	ErrExerciseExists   = errors.New("workout exercise already exists")
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// query primitives can run standalone or inside a shared transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// GetLogByDate finds the single workout log for (user, program, date).
func (r *Repo) GetLogByDate(ctx context.Context, q Querier, userID, programID int, date time.Time) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.getLogByDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	wl := &WorkoutLog{}
	err = q.QueryRow(ctx, `
		SELECT id, user_id, program_id, program_day_id, title, workout_date, status
		FROM workout_log
		WHERE user_id = $1 AND program_id = $2 AND workout_date = $3
	`, userID, programID, date).Scan(
		&wl.ID, &wl.UserID, &wl.ProgramID, &wl.ProgramDayID,
		&wl.Title, &wl.WorkoutDate, &wl.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return wl, nil
}

// InsertLog creates a new workout log. On a (user, program, date)
// conflict it inserts nothing and returns ErrLogExists, leaving any
// surrounding transaction usable.
func (r *Repo) InsertLog(ctx context.Context, q Querier, wl WorkoutLog) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.insertLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = q.QueryRow(ctx, `
		INSERT INTO workout_log (user_id, program_id, program_day_id, title, workout_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, program_id, workout_date) DO NOTHING
		RETURNING id
	`,
		wl.UserID, wl.ProgramID, wl.ProgramDayID, wl.Title, wl.WorkoutDate, wl.Status,
	).Scan(&wl.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLogExists
	}
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

// GetExercise finds the single workout exercise for (log, program exercise).
func (r *Repo) GetExercise(ctx context.Context, q Querier, workoutLogID, programExerciseID int) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.getExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	we := &WorkoutExercise{}
	err = q.QueryRow(ctx, `
		SELECT id, workout_log_id, program_exercise_id, exercise_name, body_part, laterality, exercise_order, notes
		FROM workout_exercise
		WHERE workout_log_id = $1 AND program_exercise_id = $2
	`, workoutLogID, programExerciseID).Scan(
		&we.ID, &we.WorkoutLogID, &we.ProgramExerciseID, &we.ExerciseName,
		&we.BodyPart, &we.Laterality, &we.ExerciseOrder, &we.Notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return we, nil
}

// InsertExercise creates a new workout exercise snapshot. On a
// (log, program exercise) conflict it returns ErrExerciseExists.
func (r *Repo) InsertExercise(ctx context.Context, q Querier, we WorkoutExercise) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.insertExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = q.QueryRow(ctx, `
		INSERT INTO workout_exercise
			(workout_log_id, program_exercise_id, exercise_name, body_part, laterality, exercise_order, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (workout_log_id, program_exercise_id) DO NOTHING
		RETURNING id
	`,
		we.WorkoutLogID, we.ProgramExerciseID, we.ExerciseName,
		we.BodyPart, we.Laterality, we.ExerciseOrder, we.Notes,
	).Scan(&we.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseExists
	}
	if err != nil {
		return nil, err
	}
	return &we, nil
}

// InsertSet always creates a new row, even when the same set number was
// already logged for this exercise. Re-logging set 1 twice is two rows.
func (r *Repo) InsertSet(ctx context.Context, q Querier, ws WorkoutSet) (_ *WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.insertSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = q.QueryRow(ctx, `
		INSERT INTO workout_set (workout_exercise_id, set_number, reps_left, reps_right, weight, weight_unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`,
		ws.WorkoutExerciseID, ws.SetNumber, ws.RepsLeft, ws.RepsRight, ws.Weight, ws.WeightUnit,
	).Scan(&ws.ID, &ws.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

type PreviousSetParams struct {
	UserID            int
	ProgramID         int
	ProgramDayID      int
	ProgramExerciseID int
	SetNumber         int
	Before            time.Time
}

// PreviousSet returns the most recent performance of the same set number
// of the same exercise strictly before the anchor date, or nil when the
// user never logged it earlier.
func (r *Repo) PreviousSet(ctx context.Context, params PreviousSetParams) (_ *PreviousSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.previousSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_exercise.id", params.ProgramExerciseID))
	span.SetAttributes(attribute.Int("set.number", params.SetNumber))

	prev := &PreviousSet{}
	var weightStr string
	err = r.db.QueryRow(ctx, `
		SELECT wl.workout_date, ws.reps_left, ws.reps_right, ws.weight::text, ws.weight_unit
		FROM workout_set ws
		JOIN workout_exercise we ON ws.workout_exercise_id = we.id
		JOIN workout_log wl ON we.workout_log_id = wl.id
		WHERE wl.user_id = $1
		  AND wl.program_id = $2
		  AND wl.program_day_id = $3
		  AND we.program_exercise_id = $4
		  AND ws.set_number = $5
		  AND wl.workout_date < $6
		ORDER BY wl.workout_date DESC
		LIMIT 1
	`,
		params.UserID, params.ProgramID, params.ProgramDayID,
		params.ProgramExerciseID, params.SetNumber, params.Before,
	).Scan(&prev.WorkoutDate, &prev.RepsLeft, &prev.RepsRight, &weightStr, &prev.WeightUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prev.Weight, err = strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return nil, fmt.Errorf("parse weight %q: %w", weightStr, err)
	}
	return prev, nil
}

// GetLogForDate assembles the nested log -> exercises -> sets view,
// each set annotated with its previous performance.
func (r *Repo) GetLogForDate(ctx context.Context, userID, programID int, date time.Time) (_ *LogView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.getLogForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("program.id", programID))

	wl, err := r.GetLogByDate(ctx, r.db, userID, programID, date)
	if err != nil {
		return nil, err
	}

	view := &LogView{
		WorkoutLog: *wl,
		Exercises:  make([]ExerciseView, 0),
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, workout_log_id, program_exercise_id, exercise_name, body_part, laterality, exercise_order, notes
		FROM workout_exercise
		WHERE workout_log_id = $1
		ORDER BY exercise_order ASC
	`, wl.ID)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var we WorkoutExercise
		if err := rows.Scan(
			&we.ID, &we.WorkoutLogID, &we.ProgramExerciseID, &we.ExerciseName,
			&we.BodyPart, &we.Laterality, &we.ExerciseOrder, &we.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		view.Exercises = append(view.Exercises, ExerciseView{
			WorkoutExercise: we,
			Sets:            make([]SetView, 0),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercises rows: %w", err)
	}

	for i := range view.Exercises {
		if err := r.attachSets(ctx, &view.Exercises[i], wl); err != nil {
			return nil, err
		}
	}

	return view, nil
}

func (r *Repo) attachSets(ctx context.Context, exercise *ExerciseView, wl *WorkoutLog) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, workout_exercise_id, set_number, reps_left, reps_right, weight::text, weight_unit, created_at
		FROM workout_set
		WHERE workout_exercise_id = $1
		ORDER BY set_number ASC, id ASC
	`, exercise.ID)
	if err != nil {
		return fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ws WorkoutSet
		var weightStr string
		if err := rows.Scan(
			&ws.ID, &ws.WorkoutExerciseID, &ws.SetNumber, &ws.RepsLeft, &ws.RepsRight,
			&weightStr, &ws.WeightUnit, &ws.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan set: %w", err)
		}
		ws.Weight, err = strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return fmt.Errorf("parse weight %q: %w", weightStr, err)
		}
		exercise.Sets = append(exercise.Sets, SetView{WorkoutSet: ws})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sets rows: %w", err)
	}

	for i := range exercise.Sets {
		prev, err := r.PreviousSet(ctx, PreviousSetParams{
			UserID:            wl.UserID,
			ProgramID:         wl.ProgramID,
			ProgramDayID:      wl.ProgramDayID,
			ProgramExerciseID: exercise.ProgramExerciseID,
			SetNumber:         exercise.Sets[i].SetNumber,
			Before:            wl.WorkoutDate,
		})
		if err != nil {
			return err
		}
		exercise.Sets[i].Previous = prev
	}
	return nil
}

// UpdateStatus marks the user's workout log completed or incomplete.
func (r *Repo) UpdateStatus(ctx context.Context, userID, logID int, status string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.updateStatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("log.id", logID))
	span.SetAttributes(attribute.String("log.status", status))

	tag, err := r.db.Exec(ctx, `
		UPDATE workout_log SET status = $1 WHERE id = $2 AND user_id = $3
	`, status, logID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

// CompletedCount returns how many workouts the user has completed.
// Query failures are returned to the caller, not folded into zero.
func (r *Repo) CompletedCount(ctx context.Context, userID int) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.completedCount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_log WHERE user_id = $1 AND status = $2
	`, userID, StatusCompleted).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
