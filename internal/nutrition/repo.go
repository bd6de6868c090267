package nutrition

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

var ErrEntryNotFound = errors.New("food entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry FoodEntry) (_ *FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("meal.type", entry.MealType))

	err = r.db.QueryRow(ctx, `
		INSERT INTO food_entry
			(user_id, entry_date, meal_type, food_name, fdc_id, grams, calories, protein, fat, carbs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`,
		entry.UserID, entry.EntryDate, entry.MealType, entry.FoodName, entry.FdcID,
		entry.Grams, entry.Calories, entry.Protein, entry.Fat, entry.Carbs,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForDate returns the user's diary entries for one date, in the
// order they were added.
func (r *Repo) ListForDate(ctx context.Context, userID int, date time.Time) (_ []FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.listForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, entry_date, meal_type, food_name, fdc_id,
			grams::text, calories::text, protein::text, fat::text, carbs::text, created_at
		FROM food_entry
		WHERE user_id = $1 AND entry_date = $2
		ORDER BY created_at ASC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("query food entries: %w", err)
	}
	defer rows.Close()

	entries := make([]FoodEntry, 0)
	for rows.Next() {
		var e FoodEntry
		var grams, calories, protein, fat, carbs string
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.EntryDate, &e.MealType, &e.FoodName, &e.FdcID,
			&grams, &calories, &protein, &fat, &carbs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		if e.Grams, err = strconv.ParseFloat(grams, 64); err != nil {
			return nil, fmt.Errorf("parse grams %q: %w", grams, err)
		}
		if e.Calories, err = strconv.ParseFloat(calories, 64); err != nil {
			return nil, fmt.Errorf("parse calories %q: %w", calories, err)
		}
		if e.Protein, err = strconv.ParseFloat(protein, 64); err != nil {
			return nil, fmt.Errorf("parse protein %q: %w", protein, err)
		}
		if e.Fat, err = strconv.ParseFloat(fat, 64); err != nil {
			return nil, fmt.Errorf("parse fat %q: %w", fat, err)
		}
		if e.Carbs, err = strconv.ParseFloat(carbs, 64); err != nil {
			return nil, fmt.Errorf("parse carbs %q: %w", carbs, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("food entries rows: %w", err)
	}
	return entries, nil
}

func (r *Repo) Delete(ctx context.Context, userID, entryID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entry.id", entryID))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM food_entry WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// GetDailyTotals sums macros over all entries of the date. A day with no
// entries is all zeroes, not an error.
func (r *Repo) GetDailyTotals(ctx context.Context, userID int, date time.Time) (_ *DailyTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.getDailyTotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	totals := &DailyTotals{Date: date}
	var calories, protein, fat, carbs string
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(calories), 0)::text,
			COALESCE(SUM(protein), 0)::text,
			COALESCE(SUM(fat), 0)::text,
			COALESCE(SUM(carbs), 0)::text,
			COUNT(*)
		FROM food_entry
		WHERE user_id = $1 AND entry_date = $2
	`, userID, date).Scan(&calories, &protein, &fat, &carbs, &totals.Entries)
	if err != nil {
		return nil, err
	}

	if totals.Calories, err = strconv.ParseFloat(calories, 64); err != nil {
		return nil, fmt.Errorf("parse calories %q: %w", calories, err)
	}
	if totals.Protein, err = strconv.ParseFloat(protein, 64); err != nil {
		return nil, fmt.Errorf("parse protein %q: %w", protein, err)
	}
	if totals.Fat, err = strconv.ParseFloat(fat, 64); err != nil {
		return nil, fmt.Errorf("parse fat %q: %w", fat, err)
	}
	if totals.Carbs, err = strconv.ParseFloat(carbs, 64); err != nil {
		return nil, fmt.Errorf("parse carbs %q: %w", carbs, err)
	}
	return totals, nil
}
