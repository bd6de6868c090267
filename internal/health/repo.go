package health

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNotFound = errors.New("entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddWeight(ctx context.Context, entry WeightEntry) (_ *WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.addWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO weight_entry (user_id, entry_date, weight, weight_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		entry.UserID, entry.EntryDate, entry.Weight, entry.WeightUnit,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWeight returns the user's weight entries in the date range, oldest
// first. From and to are optional.
func (r *Repo) ListWeight(ctx context.Context, userID int, from, to *time.Time) (_ []WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.listWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, entry_date, weight::text, weight_unit, created_at
		FROM weight_entry
		WHERE user_id = $1
		  AND ($2::date IS NULL OR entry_date >= $2)
		  AND ($3::date IS NULL OR entry_date <= $3)
		ORDER BY entry_date ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query weight entries: %w", err)
	}
	defer rows.Close()

	entries := make([]WeightEntry, 0)
	for rows.Next() {
		var e WeightEntry
		var weightStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.EntryDate, &weightStr, &e.WeightUnit, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weight entry: %w", err)
		}
		if e.Weight, err = strconv.ParseFloat(weightStr, 64); err != nil {
			return nil, fmt.Errorf("parse weight %q: %w", weightStr, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("weight entries rows: %w", err)
	}
	return entries, nil
}

func (r *Repo) DeleteWeight(ctx context.Context, userID, entryID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.deleteWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM weight_entry WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repo) AddWater(ctx context.Context, entry WaterEntry) (_ *WaterEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.addWater")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO water_entry (user_id, entry_date, milliliters)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`,
		entry.UserID, entry.EntryDate, entry.Milliliters,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// WaterTotalForDate sums the day's intake in milliliters.
func (r *Repo) WaterTotalForDate(ctx context.Context, userID int, date time.Time) (total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.waterTotalForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(milliliters), 0)
		FROM water_entry
		WHERE user_id = $1 AND entry_date = $2
	`, userID, date).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
