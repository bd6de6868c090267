package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProgramNotFound  = errors.New("program not found")
	ErrDayNotFound      = errors.New("program day not found")
	ErrExerciseNotFound = errors.New("program exercise not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, program Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_program (user_id, name, description, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		program.UserID, program.Name, program.Description, program.Active,
	).Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// List returns the user's programs, without the nested days.
func (r *Repo) List(ctx context.Context, userID int) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, description, active, created_at
		FROM workout_program
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	programs := make([]Program, 0)
	for rows.Next() {
		var p Program
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("programs rows: %w", err)
	}
	return programs, nil
}

// Get returns one program with its days and exercises nested in.
func (r *Repo) Get(ctx context.Context, userID, programID int) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program.id", programID))

	p := &Program{}
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, name, description, active, created_at
		FROM workout_program
		WHERE id = $1 AND user_id = $2
	`, programID, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Active, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Days, err = r.daysWithExercises(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) daysWithExercises(ctx context.Context, programID int) ([]ProgramDay, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, program_id, day_number, name
		FROM program_day
		WHERE program_id = $1
		ORDER BY day_number ASC
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := make([]ProgramDay, 0)
	for rows.Next() {
		var d ProgramDay
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.DayNumber, &d.Name); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("days rows: %w", err)
	}

	for i := range days {
		exRows, err := r.db.Query(ctx, `
			SELECT id, program_day_id, exercise_name, body_part, laterality,
				sets, min_reps, max_reps, exercise_order
			FROM program_exercise
			WHERE program_day_id = $1
			ORDER BY exercise_order ASC
		`, days[i].ID)
		if err != nil {
			return nil, fmt.Errorf("query exercises: %w", err)
		}

		days[i].Exercises = make([]ProgramExercise, 0)
		for exRows.Next() {
			var e ProgramExercise
			if err := exRows.Scan(
				&e.ID, &e.ProgramDayID, &e.ExerciseName, &e.BodyPart, &e.Laterality,
				&e.Sets, &e.MinReps, &e.MaxReps, &e.ExerciseOrder,
			); err != nil {
				exRows.Close()
				return nil, fmt.Errorf("scan exercise: %w", err)
			}
			days[i].Exercises = append(days[i].Exercises, e)
		}
		exRows.Close()
		if err := exRows.Err(); err != nil {
			return nil, fmt.Errorf("exercises rows: %w", err)
		}
	}

	return days, nil
}

func (r *Repo) Update(ctx context.Context, program Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program.id", program.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE workout_program SET name = $1, description = $2
		WHERE id = $3 AND user_id = $4
	`, program.Name, program.Description, program.ID, program.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Delete removes the program; days, exercises and nothing else go with
// it through the FK cascade. Workout history rows survive.
func (r *Repo) Delete(ctx context.Context, userID, programID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program.id", programID))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM workout_program WHERE id = $1 AND user_id = $2
	`, programID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Activate makes the given program the user's single active one. Both
// updates run in one transaction so two programs are never active at
// the same time.
func (r *Repo) Activate(ctx context.Context, userID, programID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.activate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program.id", programID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		UPDATE workout_program SET active = FALSE WHERE user_id = $1 AND id != $2
	`, userID, programID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE workout_program SET active = TRUE WHERE id = $1 AND user_id = $2
	`, programID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) AddDay(ctx context.Context, userID int, day ProgramDay) (_ *ProgramDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.addDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO program_day (program_id, day_number, name)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM workout_program WHERE id = $1 AND user_id = $4)
		RETURNING id
	`, day.ProgramID, day.DayNumber, day.Name, userID).Scan(&day.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *Repo) AddExercise(ctx context.Context, userID int, exercise ProgramExercise) (_ *ProgramExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO program_exercise
			(program_day_id, exercise_name, body_part, laterality, sets, min_reps, max_reps, exercise_order)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE EXISTS (
			SELECT 1 FROM program_day pd
			JOIN workout_program wp ON pd.program_id = wp.id
			WHERE pd.id = $1 AND wp.user_id = $9
		)
		RETURNING id
	`,
		exercise.ProgramDayID, exercise.ExerciseName, exercise.BodyPart, exercise.Laterality,
		exercise.Sets, exercise.MinReps, exercise.MaxReps, exercise.ExerciseOrder, userID,
	).Scan(&exercise.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *Repo) DeleteExercise(ctx context.Context, userID, exerciseID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM program_exercise pe
		USING program_day pd, workout_program wp
		WHERE pe.id = $1
		  AND pe.program_day_id = pd.id
		  AND pd.program_id = wp.id
		  AND wp.user_id = $2
	`, exerciseID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
