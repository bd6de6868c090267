package progression

import (
	"context"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"
	"github.com/fitstack/liftlog/pkg"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=progression_test

type historyRepo interface {
	FetchHistory(ctx context.Context, params HistoryParams) ([]SetHistoryEntry, error)
}

type Analyzer struct {
	repo historyRepo
}

func NewAnalyzer(repo historyRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// EstimateOneRepMax estimates the one-repetition maximum with the Epley
// formula: weight * (1 + reps/30), kept at two decimal places.
func EstimateOneRepMax(weight, reps float64) float64 {
	return pkg.RoundTo2Decimals(weight * (1 + reps/30))
}

// PersonalRecord scans the full set history of a program exercise and
// returns the set with the highest estimated 1RM. The estimate of each
// set uses the stronger side (max of left/right reps); the initial 1RM
// baseline uses the left/right average of the very first set instead.
// Returns nil when there is no history yet.
func (a *Analyzer) PersonalRecord(ctx context.Context, userID, programID, programExerciseID int) (_ *PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progression.personalRecord")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_exercise.id", programExerciseID))

	entries, err := a.repo.FetchHistory(ctx, HistoryParams{
		UserID:            userID,
		ProgramID:         programID,
		ProgramExerciseID: programExerciseID,
	})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	first := entries[0]
	initialOneRepMax := EstimateOneRepMax(first.Weight, avgReps(first.RepsLeft, first.RepsRight))

	var bestSet *SetHistoryEntry
	var bestOneRepMax float64
	for i := range entries {
		e := entries[i]
		oneRepMax := EstimateOneRepMax(e.Weight, float64(maxReps(e.RepsLeft, e.RepsRight)))
		// strict > keeps the earliest set on ties
		if oneRepMax > bestOneRepMax {
			bestOneRepMax = oneRepMax
			bestSet = &entries[i]
		}
	}

	if bestSet == nil {
		// degenerate (all estimates zero or below), but not fatal
		return &PersonalRecord{}, nil
	}

	return &PersonalRecord{
		Weight:           bestSet.Weight,
		WeightUnit:       bestSet.WeightUnit,
		RepsLeft:         bestSet.RepsLeft,
		RepsRight:        bestSet.RepsRight,
		Reps:             maxReps(bestSet.RepsLeft, bestSet.RepsRight),
		BestOneRepMax:    bestOneRepMax,
		InitialOneRepMax: initialOneRepMax,
	}, nil
}

// Progression derives the load and volume time series plus summary stats
// for one program exercise within the given date range.
// Returns nil when no sets were logged in the range.
func (a *Analyzer) Progression(ctx context.Context, params HistoryParams) (_ *ProgressionReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progression.progression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_exercise.id", params.ProgramExerciseID))

	entries, err := a.repo.FetchHistory(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	// NOTE: TotalVolume and VolumeProgression sum raw loads only (reps
	// ignored), while SessionSummary.SessionVolume factors reps in. The
	// three metrics are intentionally kept distinct.
	var totalVolume float64
	weightProgression := make([]WeightPoint, 0, len(entries))
	for _, e := range entries {
		totalVolume += e.Weight
		weightProgression = append(weightProgression, WeightPoint{
			Date:       e.WorkoutDate,
			Weight:     e.Weight,
			WeightUnit: e.WeightUnit,
			SetNumber:  e.SetNumber,
		})
	}

	sessionHistory := buildSessionHistory(entries)

	volumeProgression := make([]VolumePoint, 0, len(sessionHistory))
	for _, session := range sessionHistory {
		var sessionLoadSum float64
		for _, set := range session.Sets {
			sessionLoadSum += set.Weight
		}
		volumeProgression = append(volumeProgression, VolumePoint{
			Date:   session.Date,
			Volume: sessionLoadSum,
		})
	}

	return &ProgressionReport{
		Stats: ProgressionStats{
			WeightIncrease: weightProgression[len(weightProgression)-1].Weight - weightProgression[0].Weight,
			WeightUnit:     entries[0].WeightUnit,
			TotalVolume:    totalVolume,
			TotalSets:      len(entries),
		},
		WeightProgression: weightProgression,
		VolumeProgression: volumeProgression,
		SessionHistory:    sessionHistory,
	}, nil
}

// buildSessionHistory groups the flat set entries into per-session
// summaries, in first-seen session order. Aggregate fields are re-derived
// from the full running set list after every append, so the averages stay
// exact regardless of how many sets a session ends up with.
func buildSessionHistory(entries []SetHistoryEntry) []*SessionSummary {
	sessions := make([]*SessionSummary, 0)
	sessionByLogID := make(map[int]*SessionSummary)

	for _, e := range entries {
		session, ok := sessionByLogID[e.WorkoutLogID]
		if !ok {
			session = &SessionSummary{
				WorkoutLogID: e.WorkoutLogID,
				Date:         e.WorkoutDate,
				Title:        e.Title,
				ExerciseName: e.ExerciseName,
				Laterality:   e.Laterality,
				WeightUnit:   e.WeightUnit,
				Sets:         make([]SessionSet, 0),
			}
			sessionByLogID[e.WorkoutLogID] = session
			sessions = append(sessions, session)
		}

		session.Sets = append(session.Sets, SessionSet{
			SetNumber:  e.SetNumber,
			RepsLeft:   e.RepsLeft,
			RepsRight:  e.RepsRight,
			Reps:       avgReps(e.RepsLeft, e.RepsRight),
			Weight:     e.Weight,
			WeightUnit: e.WeightUnit,
		})

		var maxWeight, weightSum, volume float64
		for _, set := range session.Sets {
			if set.Weight > maxWeight {
				maxWeight = set.Weight
			}
			weightSum += set.Weight
			volume += set.Reps * set.Weight
		}
		session.MaxWeight = maxWeight
		session.AverageWeight = weightSum / float64(len(session.Sets))
		session.SessionVolume = volume
	}

	return sessions
}

func avgReps(left, right int) float64 {
	return float64(left+right) / 2
}

func maxReps(left, right int) int {
	if left > right {
		return left
	}
	return right
}
