package progression

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

type HistoryParams struct {
	UserID            int
	ProgramID         int
	ProgramExerciseID int
	From              *time.Time
	To                *time.Time
}

// querier is the single query primitive the history reader needs,
// satisfied by *pgxpool.Pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repo struct {
	db querier
}

func NewRepo(db querier) *Repo {
	return &Repo{
		db: db,
	}
}

// FetchHistory returns every logged set for the given user / program /
// program exercise, ordered by workout date, exercise order, set number.
// An empty result is a valid outcome, not an error.
func (r *Repo) FetchHistory(ctx context.Context, params HistoryParams) (_ []SetHistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.fetchHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	span.SetAttributes(attribute.Int("program.id", params.ProgramID))
	span.SetAttributes(attribute.Int("program_exercise.id", params.ProgramExerciseID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				wl.id, wl.workout_date, wl.title, we.exercise_name, we.laterality,
				ws.set_number, ws.reps_left, ws.reps_right, ws.weight::text, ws.weight_unit
			FROM workout_set ws
			JOIN workout_exercise we ON ws.workout_exercise_id = we.id
			JOIN workout_log wl ON we.workout_log_id = wl.id
			WHERE wl.user_id = $1
				AND wl.program_id = $2
				AND we.program_exercise_id = $3
				AND ($4::date IS NULL OR wl.workout_date >= $4)
				AND ($5::date IS NULL OR wl.workout_date <= $5)
			ORDER BY wl.workout_date ASC, we.exercise_order ASC, ws.set_number ASC`,
		params.UserID, params.ProgramID, params.ProgramExerciseID,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	entries := make([]SetHistoryEntry, 0)
	for rows.Next() {
		var e SetHistoryEntry
		var weightStr string
		if err := rows.Scan(
			&e.WorkoutLogID, &e.WorkoutDate, &e.Title, &e.ExerciseName, &e.Laterality,
			&e.SetNumber, &e.RepsLeft, &e.RepsRight, &weightStr, &e.WeightUnit,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		// weight is numeric on the wire, parse it at the boundary
		e.Weight, err = strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Errorf("parse weight %q: %w", weightStr, err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return entries, nil
}
