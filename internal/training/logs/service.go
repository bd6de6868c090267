package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

type logsRepo interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	GetLogByDate(ctx context.Context, q Querier, userID, programID int, date time.Time) (*WorkoutLog, error)
	InsertLog(ctx context.Context, q Querier, wl WorkoutLog) (*WorkoutLog, error)
	GetExercise(ctx context.Context, q Querier, workoutLogID, programExerciseID int) (*WorkoutExercise, error)
	InsertExercise(ctx context.Context, q Querier, we WorkoutExercise) (*WorkoutExercise, error)
	InsertSet(ctx context.Context, q Querier, ws WorkoutSet) (*WorkoutSet, error)
	GetLogForDate(ctx context.Context, userID, programID int, date time.Time) (*LogView, error)
	UpdateStatus(ctx context.Context, userID, logID int, status string) error
	CompletedCount(ctx context.Context, userID int) (int, error)
}

type Service struct {
	repo logsRepo
}

func NewService(repo logsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// LogSet runs the whole find-or-create chain in one transaction:
// resolve the workout log by (user, program, date), resolve the exercise
// by (log, program exercise), then insert a new set. Any failure rolls
// the whole unit back, so a log without its set is never observable.
func (s *Service) LogSet(ctx context.Context, entry NewSetEntry) (_ *WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logs.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))
	span.SetAttributes(attribute.Int("program_exercise.id", entry.ProgramExerciseID))

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
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

	wl, err := s.resolveLog(ctx, tx, entry)
	if err != nil {
		return nil, fmt.Errorf("resolve workout log: %w", err)
	}

	we, err := s.resolveExercise(ctx, tx, wl.ID, entry)
	if err != nil {
		return nil, fmt.Errorf("resolve workout exercise: %w", err)
	}

	ws, err := s.repo.InsertSet(ctx, tx, WorkoutSet{
		WorkoutExerciseID: we.ID,
		SetNumber:         entry.SetNumber,
		RepsLeft:          entry.RepsLeft,
		RepsRight:         entry.RepsRight,
		Weight:            entry.Weight,
		WeightUnit:        entry.WeightUnit,
	})
	if err != nil {
		return nil, fmt.Errorf("insert set: %w", err)
	}

	return ws, nil
}

// resolveLog finds the log for (user, program, date) or creates it. When
// the insert loses a race to a concurrent writer the existing row is
// fetched and reused.
func (s *Service) resolveLog(ctx context.Context, tx pgx.Tx, entry NewSetEntry) (*WorkoutLog, error) {
	wl, err := s.repo.GetLogByDate(ctx, tx, entry.UserID, entry.ProgramID, entry.WorkoutDate)
	if err == nil {
		return wl, nil
	}
	if !errors.Is(err, ErrLogNotFound) {
		return nil, err
	}

	wl, err = s.repo.InsertLog(ctx, tx, WorkoutLog{
		UserID:       entry.UserID,
		ProgramID:    entry.ProgramID,
		ProgramDayID: entry.ProgramDayID,
		Title:        entry.Title,
		WorkoutDate:  entry.WorkoutDate,
		Status:       StatusIncomplete,
	})
	if errors.Is(err, ErrLogExists) {
		return s.repo.GetLogByDate(ctx, tx, entry.UserID, entry.ProgramID, entry.WorkoutDate)
	}
	return wl, err
}

func (s *Service) resolveExercise(ctx context.Context, tx pgx.Tx, workoutLogID int, entry NewSetEntry) (*WorkoutExercise, error) {
	we, err := s.repo.GetExercise(ctx, tx, workoutLogID, entry.ProgramExerciseID)
	if err == nil {
		return we, nil
	}
	if !errors.Is(err, ErrExerciseNotFound) {
		return nil, err
	}

	we, err = s.repo.InsertExercise(ctx, tx, WorkoutExercise{
		WorkoutLogID:      workoutLogID,
		ProgramExerciseID: entry.ProgramExerciseID,
		ExerciseName:      entry.ExerciseName,
		BodyPart:          entry.BodyPart,
		Laterality:        entry.Laterality,
		ExerciseOrder:     entry.ExerciseOrder,
		Notes:             entry.Notes,
	})
	if errors.Is(err, ErrExerciseExists) {
		return s.repo.GetExercise(ctx, tx, workoutLogID, entry.ProgramExerciseID)
	}
	return we, err
}

func (s *Service) GetLogForDate(ctx context.Context, userID, programID int, date time.Time) (*LogView, error) {
	return s.repo.GetLogForDate(ctx, userID, programID, date)
}

// Complete marks the workout log as done.
func (s *Service) Complete(ctx context.Context, userID, logID int) error {
	return s.repo.UpdateStatus(ctx, userID, logID, StatusCompleted)
}

func (s *Service) CompletedCount(ctx context.Context, userID int) (int, error) {
	return s.repo.CompletedCount(ctx, userID)
}
