package programs_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/training/programs"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	nextID        int
	programs      []*programs.Program
	daysByID      map[int]*programs.ProgramDay
	exercisesByID map[int]*programs.ProgramExercise
}

func newRepoMock() *repoMock {
	return &repoMock{
		daysByID:      map[int]*programs.ProgramDay{},
		exercisesByID: map[int]*programs.ProgramExercise{},
	}
}

func (m *repoMock) id() int {
	m.nextID++
	return m.nextID
}

func (m *repoMock) Add(_ context.Context, program programs.Program) (*programs.Program, error) {
	program.ID = m.id()
	program.CreatedAt = time.Now()
	m.programs = append(m.programs, &program)
	return &program, nil
}

func (m *repoMock) List(_ context.Context, userID int) ([]programs.Program, error) {
	list := make([]programs.Program, 0)
	for _, p := range m.programs {
		if p.UserID == userID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (m *repoMock) Get(_ context.Context, userID, programID int) (*programs.Program, error) {
	for _, p := range m.programs {
		if p.ID == programID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, programs.ErrProgramNotFound
}

func (m *repoMock) Update(_ context.Context, program programs.Program) error {
	for _, p := range m.programs {
		if p.ID == program.ID && p.UserID == program.UserID {
			p.Name = program.Name
			p.Description = program.Description
			return nil
		}
	}
	return programs.ErrProgramNotFound
}

func (m *repoMock) Delete(_ context.Context, userID, programID int) error {
	for i, p := range m.programs {
		if p.ID == programID && p.UserID == userID {
			m.programs = append(m.programs[:i], m.programs[i+1:]...)
			return nil
		}
	}
	return programs.ErrProgramNotFound
}

func (m *repoMock) Activate(_ context.Context, userID, programID int) error {
	var target *programs.Program
	for _, p := range m.programs {
		if p.ID == programID && p.UserID == userID {
			target = p
		}
	}
	if target == nil {
		return programs.ErrProgramNotFound
	}
	for _, p := range m.programs {
		if p.UserID == userID {
			p.Active = p == target
		}
	}
	return nil
}

func (m *repoMock) AddDay(_ context.Context, userID int, day programs.ProgramDay) (*programs.ProgramDay, error) {
	if _, err := m.Get(context.Background(), userID, day.ProgramID); err != nil {
		return nil, err
	}
	day.ID = m.id()
	m.daysByID[day.ID] = &day
	return &day, nil
}

func (m *repoMock) AddExercise(_ context.Context, _ int, exercise programs.ProgramExercise) (*programs.ProgramExercise, error) {
	if _, ok := m.daysByID[exercise.ProgramDayID]; !ok {
		return nil, programs.ErrDayNotFound
	}
	exercise.ID = m.id()
	m.exercisesByID[exercise.ID] = &exercise
	return &exercise, nil
}

func (m *repoMock) DeleteExercise(_ context.Context, _ int, exerciseID int) error {
	if _, ok := m.exercisesByID[exerciseID]; !ok {
		return programs.ErrExerciseNotFound
	}
	delete(m.exercisesByID, exerciseID)
	return nil
}

func programsRequest(t *testing.T, userID int, method, target, body string, pathVars map[string]string) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, target, nil)
	} else {
		req, err = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	if pathVars != nil {
		req = mux.SetURLVars(req, pathVars)
	}
	return req
}

func addProgram(t *testing.T, h *programs.Handler, userID int, name string) programs.Program {
	t.Helper()
	rec := httptest.NewRecorder()
	body := fmt.Sprintf(`{"name": %q, "description": %q}`, name, gofakeit.Sentence(5))
	h.HandleAdd(rec, programsRequest(t, userID, "POST", "/training/program", body, nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data programs.Program `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestHandler_AddAndList(t *testing.T) {
	repo := newRepoMock()
	h := programs.NewHandler(repo)

	added := addProgram(t, h, 1, "Push Pull Legs")
	assert.Equal(t, 1, added.UserID)
	assert.False(t, added.Active)

	addProgram(t, h, 2, "Other Users Program")

	rec := httptest.NewRecorder()
	h.HandleList(rec, programsRequest(t, 1, "GET", "/training/program", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []programs.Program `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Push Pull Legs", resp.Data[0].Name)
}

func TestHandler_Add_MissingName(t *testing.T) {
	h := programs.NewHandler(newRepoMock())

	rec := httptest.NewRecorder()
	h.HandleAdd(rec, programsRequest(t, 1, "POST", "/training/program", `{"description": "nameless"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	h := programs.NewHandler(newRepoMock())

	rec := httptest.NewRecorder()
	h.HandleGet(rec, programsRequest(t, 1, "GET", "/training/program/55", "", map[string]string{"id": "55"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Activate(t *testing.T) {
	repo := newRepoMock()
	h := programs.NewHandler(repo)

	first := addProgram(t, h, 1, "Old Program")
	second := addProgram(t, h, 1, "New Program")
	require.NoError(t, repo.Activate(context.Background(), 1, first.ID))

	rec := httptest.NewRecorder()
	h.HandleActivate(rec, programsRequest(t, 1, "PUT",
		fmt.Sprintf("/training/program/%d/activate", second.ID), "",
		map[string]string{"id": fmt.Sprintf("%d", second.ID)},
	))
	require.Equal(t, http.StatusOK, rec.Code)

	// the previously active program got flipped off
	activeCount := 0
	for _, p := range repo.programs {
		if p.Active {
			activeCount++
			assert.Equal(t, second.ID, p.ID)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestHandler_AddDayAndExercise(t *testing.T) {
	repo := newRepoMock()
	h := programs.NewHandler(repo)

	program := addProgram(t, h, 1, "Upper Lower")

	rec := httptest.NewRecorder()
	h.HandleAddDay(rec, programsRequest(t, 1, "POST",
		fmt.Sprintf("/training/program/%d/day", program.ID),
		`{"dayNumber": 1, "name": "Upper A"}`,
		map[string]string{"id": fmt.Sprintf("%d", program.ID)},
	))
	require.Equal(t, http.StatusCreated, rec.Code)

	var dayResp struct {
		Data programs.ProgramDay `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dayResp))
	assert.Equal(t, program.ID, dayResp.Data.ProgramID)

	rec = httptest.NewRecorder()
	h.HandleAddExercise(rec, programsRequest(t, 1, "POST",
		fmt.Sprintf("/training/program/day/%d/exercise", dayResp.Data.ID),
		`{"exerciseName": "Bench Press", "bodyPart": "chest", "laterality": "bilateral", "sets": 3, "minReps": 5, "maxReps": 8, "exerciseOrder": 1}`,
		map[string]string{"dayId": fmt.Sprintf("%d", dayResp.Data.ID)},
	))
	require.Equal(t, http.StatusCreated, rec.Code)

	var exResp struct {
		Data programs.ProgramExercise `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exResp))
	assert.Equal(t, "Bench Press", exResp.Data.ExerciseName)
	assert.Equal(t, dayResp.Data.ID, exResp.Data.ProgramDayID)
}

func TestHandler_AddExercise_BadLaterality(t *testing.T) {
	h := programs.NewHandler(newRepoMock())

	rec := httptest.NewRecorder()
	h.HandleAddExercise(rec, programsRequest(t, 1, "POST",
		"/training/program/day/1/exercise",
		`{"exerciseName": "Split Squat", "laterality": "one-legged"}`,
		map[string]string{"dayId": "1"},
	))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Unauthorized(t *testing.T) {
	h := programs.NewHandler(newRepoMock())

	req, err := http.NewRequest("GET", "/training/program", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
