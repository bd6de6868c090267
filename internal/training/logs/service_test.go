package logs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitstack/liftlog/internal/training/logs"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txStub struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *txStub) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *txStub) Rollback(_ context.Context) error {
	t.rolledBack = true
	return nil
}

// memRepo keeps logs / exercises / sets in memory and mirrors the
// conflict behavior of the unique constraints on workout_log and
// workout_exercise.
type memRepo struct {
	tx     *txStub
	nextID int

	logs      []*logs.WorkoutLog
	exercises []*logs.WorkoutExercise
	sets      []*logs.WorkoutSet

	missFirstLogLookup bool
	failSetInsert      bool
}

func (m *memRepo) Begin(_ context.Context) (pgx.Tx, error) {
	m.tx = &txStub{}
	return m.tx, nil
}

func (m *memRepo) id() int {
	m.nextID++
	return m.nextID
}

func (m *memRepo) GetLogByDate(_ context.Context, _ logs.Querier, userID, programID int, date time.Time) (*logs.WorkoutLog, error) {
	if m.missFirstLogLookup {
		m.missFirstLogLookup = false
		return nil, logs.ErrLogNotFound
	}
	for _, wl := range m.logs {
		if wl.UserID == userID && wl.ProgramID == programID && wl.WorkoutDate.Equal(date) {
			return wl, nil
		}
	}
	return nil, logs.ErrLogNotFound
}

func (m *memRepo) InsertLog(_ context.Context, _ logs.Querier, wl logs.WorkoutLog) (*logs.WorkoutLog, error) {
	for _, existing := range m.logs {
		if existing.UserID == wl.UserID && existing.ProgramID == wl.ProgramID && existing.WorkoutDate.Equal(wl.WorkoutDate) {
			return nil, logs.ErrLogExists
		}
	}
	wl.ID = m.id()
	m.logs = append(m.logs, &wl)
	return &wl, nil
}

func (m *memRepo) GetExercise(_ context.Context, _ logs.Querier, workoutLogID, programExerciseID int) (*logs.WorkoutExercise, error) {
	for _, we := range m.exercises {
		if we.WorkoutLogID == workoutLogID && we.ProgramExerciseID == programExerciseID {
			return we, nil
		}
	}
	return nil, logs.ErrExerciseNotFound
}

func (m *memRepo) InsertExercise(_ context.Context, _ logs.Querier, we logs.WorkoutExercise) (*logs.WorkoutExercise, error) {
	for _, existing := range m.exercises {
		if existing.WorkoutLogID == we.WorkoutLogID && existing.ProgramExerciseID == we.ProgramExerciseID {
			return nil, logs.ErrExerciseExists
		}
	}
	we.ID = m.id()
	m.exercises = append(m.exercises, &we)
	return &we, nil
}

func (m *memRepo) InsertSet(_ context.Context, _ logs.Querier, ws logs.WorkoutSet) (*logs.WorkoutSet, error) {
	if m.failSetInsert {
		return nil, errors.New("insert set failed")
	}
	ws.ID = m.id()
	ws.CreatedAt = time.Now()
	m.sets = append(m.sets, &ws)
	return &ws, nil
}

func (m *memRepo) GetLogForDate(_ context.Context, _, _ int, _ time.Time) (*logs.LogView, error) {
	return nil, logs.ErrLogNotFound
}

func (m *memRepo) UpdateStatus(_ context.Context, userID, logID int, status string) error {
	for _, wl := range m.logs {
		if wl.ID == logID && wl.UserID == userID {
			wl.Status = status
			return nil
		}
	}
	return logs.ErrLogNotFound
}

func (m *memRepo) CompletedCount(_ context.Context, userID int) (int, error) {
	count := 0
	for _, wl := range m.logs {
		if wl.UserID == userID && wl.Status == logs.StatusCompleted {
			count++
		}
	}
	return count, nil
}

func newSetEntry(programExerciseID, setNumber int) logs.NewSetEntry {
	return logs.NewSetEntry{
		UserID:            1,
		ProgramID:         2,
		ProgramDayID:      3,
		WorkoutDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Title:             "Push A",
		ProgramExerciseID: programExerciseID,
		ExerciseName:      "Bench Press",
		BodyPart:          "chest",
		Laterality:        "bilateral",
		ExerciseOrder:     1,
		SetNumber:         setNumber,
		RepsLeft:          8,
		RepsRight:         8,
		Weight:            100,
		WeightUnit:        "kg",
	}
}

func TestService_LogSet_CreatesLogExerciseAndSet(t *testing.T) {
	repo := &memRepo{}
	service := logs.NewService(repo)

	ws, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)
	require.NotNil(t, ws)

	require.Len(t, repo.logs, 1)
	require.Len(t, repo.exercises, 1)
	require.Len(t, repo.sets, 1)
	assert.Equal(t, logs.StatusIncomplete, repo.logs[0].Status)
	assert.Equal(t, "Bench Press", repo.exercises[0].ExerciseName)
	assert.Equal(t, repo.exercises[0].ID, ws.WorkoutExerciseID)
	assert.True(t, repo.tx.committed)
	assert.False(t, repo.tx.rolledBack)
}

func TestService_LogSet_ReusesLogAndExercise(t *testing.T) {
	repo := &memRepo{}
	service := logs.NewService(repo)

	_, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)
	_, err = service.LogSet(context.Background(), newSetEntry(10, 2))
	require.NoError(t, err)
	_, err = service.LogSet(context.Background(), newSetEntry(11, 1))
	require.NoError(t, err)

	// one log for the day, one exercise per program exercise, one set per call
	assert.Len(t, repo.logs, 1)
	assert.Len(t, repo.exercises, 2)
	assert.Len(t, repo.sets, 3)
}

func TestService_LogSet_RelogSameSetNumber(t *testing.T) {
	repo := &memRepo{}
	service := logs.NewService(repo)

	_, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)
	_, err = service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)

	// re-logging set 1 makes a second row, never an update
	assert.Len(t, repo.sets, 2)
	assert.Len(t, repo.exercises, 1)
}

func TestService_LogSet_LostInsertRace(t *testing.T) {
	repo := &memRepo{
		missFirstLogLookup: true,
	}
	existing := &logs.WorkoutLog{
		ID:          77,
		UserID:      1,
		ProgramID:   2,
		WorkoutDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      logs.StatusIncomplete,
	}
	repo.logs = append(repo.logs, existing)
	service := logs.NewService(repo)

	ws, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)
	require.NotNil(t, ws)

	// the conflicting insert falls back to the row the other writer made
	assert.Len(t, repo.logs, 1)
	require.Len(t, repo.exercises, 1)
	assert.Equal(t, 77, repo.exercises[0].WorkoutLogID)
}

func TestService_LogSet_RollbackOnSetInsertFailure(t *testing.T) {
	repo := &memRepo{
		failSetInsert: true,
	}
	service := logs.NewService(repo)

	ws, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.Error(t, err)
	assert.Nil(t, ws)
	assert.True(t, repo.tx.rolledBack)
	assert.False(t, repo.tx.committed)
}

func TestService_Complete(t *testing.T) {
	repo := &memRepo{}
	service := logs.NewService(repo)

	_, err := service.LogSet(context.Background(), newSetEntry(10, 1))
	require.NoError(t, err)

	count, err := service.CompletedCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, service.Complete(context.Background(), 1, repo.logs[0].ID))

	count, err = service.CompletedCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, service.Complete(context.Background(), 1, 999), logs.ErrLogNotFound)
}
