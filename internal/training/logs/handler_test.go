package logs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/telemetry/metrics"
	"github.com/fitstack/liftlog/internal/training/logs"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logSetReqJSON = `{
	"programId": 2,
	"programDayId": 3,
	"workoutDate": "2024-01-01",
	"title": "Push A",
	"programExerciseId": 10,
	"exerciseName": "Bench Press",
	"bodyPart": "chest",
	"laterality": "bilateral",
	"exerciseOrder": 1,
	"setNumber": 1,
	"repsLeft": 8,
	"repsRight": 8,
	"weight": 100,
	"weightUnit": "kg"
}`

func authedRequest(t *testing.T, method, target, body string) *http.Request {
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
	return req.WithContext(auth.ContextWithUserID(req.Context(), 1))
}

func TestHandler_HandleLogSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	metricsManager := metrics.NewTestManager()
	h := logs.NewHandler(serviceMock, metricsManager)

	serviceMock.EXPECT().
		LogSet(gomock.Any(), logs.NewSetEntry{
			UserID:            1,
			ProgramID:         2,
			ProgramDayID:      3,
			WorkoutDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Title:             "Push A",
			ProgramExerciseID: 10,
			ExerciseName:      "Bench Press",
			BodyPart:          "chest",
			Laterality:        "bilateral",
			ExerciseOrder:     1,
			SetNumber:         1,
			RepsLeft:          8,
			RepsRight:         8,
			Weight:            100,
			WeightUnit:        "kg",
		}).
		Return(&logs.WorkoutSet{
			ID:                5,
			WorkoutExerciseID: 4,
			SetNumber:         1,
			RepsLeft:          8,
			RepsRight:         8,
			Weight:            100,
			WeightUnit:        "kg",
		}, nil)

	rec := httptest.NewRecorder()
	h.HandleLogSet(rec, authedRequest(t, "POST", "/training/log/set", logSetReqJSON))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status string           `json:"status"`
		Data   *logs.WorkoutSet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 5, resp.Data.ID)

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSetsLogged))
}

func TestHandler_HandleLogSet_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	h := logs.NewHandler(serviceMock, metrics.NewTestManager())

	for name, body := range map[string]string{
		"empty":          `{}`,
		"bad weightUnit": strings.Replace(logSetReqJSON, `"kg"`, `"stone"`, 1),
		"bad setNumber":  strings.Replace(logSetReqJSON, `"setNumber": 1`, `"setNumber": 0`, 1),
		"bad date":       strings.Replace(logSetReqJSON, `"2024-01-01"`, `"january first"`, 1),
		"not json":       `not json at all`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleLogSet(rec, authedRequest(t, "POST", "/training/log/set", body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_HandleLogSet_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	metricsManager := metrics.NewTestManager()
	h := logs.NewHandler(serviceMock, metricsManager)

	serviceMock.EXPECT().
		LogSet(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("insert set: tx aborted"))

	rec := httptest.NewRecorder()
	h.HandleLogSet(rec, authedRequest(t, "POST", "/training/log/set", logSetReqJSON))

	// one opaque failure regardless of which step broke
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "database error while creating workout log")
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterSetsLogged))
}

func TestHandler_HandleGetLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	h := logs.NewHandler(serviceMock, metrics.NewTestManager())

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	serviceMock.EXPECT().
		GetLogForDate(gomock.Any(), 1, 2, date).
		Return(&logs.LogView{
			WorkoutLog: logs.WorkoutLog{
				ID:          7,
				UserID:      1,
				ProgramID:   2,
				WorkoutDate: date,
				Status:      logs.StatusIncomplete,
			},
			Exercises: []logs.ExerciseView{},
		}, nil)

	rec := httptest.NewRecorder()
	h.HandleGetLog(rec, authedRequest(t, "GET", "/training/log?program_id=2&date=2024-01-01", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string        `json:"status"`
		Data   *logs.LogView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, 7, resp.Data.ID)
}

func TestHandler_HandleGetLog_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	h := logs.NewHandler(serviceMock, metrics.NewTestManager())

	serviceMock.EXPECT().
		GetLogForDate(gomock.Any(), 1, 2, gomock.Any()).
		Return(nil, logs.ErrLogNotFound)

	rec := httptest.NewRecorder()
	h.HandleGetLog(rec, authedRequest(t, "GET", "/training/log?program_id=2&date=2024-01-01", ""))

	// no log for the date is empty data, not a 404
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, `null`, string(resp["data"]))
}

func TestHandler_HandleComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	metricsManager := metrics.NewTestManager()
	h := logs.NewHandler(serviceMock, metricsManager)

	serviceMock.EXPECT().Complete(gomock.Any(), 1, 7).Return(nil)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(
		authedRequest(t, "PUT", "/training/log/7/complete", ""),
		map[string]string{"id": "7"},
	)
	h.HandleComplete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterWorkoutsCompleted))
}

func TestHandler_HandleCompletedCount_ErrorSurfaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	h := logs.NewHandler(serviceMock, metrics.NewTestManager())

	serviceMock.EXPECT().
		CompletedCount(gomock.Any(), 1).
		Return(0, errors.New("db gone"))

	rec := httptest.NewRecorder()
	h.HandleCompletedCount(rec, authedRequest(t, "GET", "/training/log/completed/count", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_HandleCompletedCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMocklogsService(ctrl)
	h := logs.NewHandler(serviceMock, metrics.NewTestManager())

	serviceMock.EXPECT().CompletedCount(gomock.Any(), 1).Return(12, nil)

	rec := httptest.NewRecorder()
	h.HandleCompletedCount(rec, authedRequest(t, "GET", "/training/log/completed/count", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Data["count"])
}
