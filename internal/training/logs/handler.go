package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/telemetry/metrics"
	"github.com/fitstack/liftlog/internal/telemetry/tracing"
	"github.com/fitstack/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=logs_test

type logsService interface {
	LogSet(ctx context.Context, entry NewSetEntry) (*WorkoutSet, error)
	GetLogForDate(ctx context.Context, userID, programID int, date time.Time) (*LogView, error)
	Complete(ctx context.Context, userID, logID int) error
	CompletedCount(ctx context.Context, userID int) (int, error)
}

type Handler struct {
	service logsService
	metrics *metrics.Manager
}

func NewHandler(service logsService, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/log/set", handler.HandleLogSet).Methods("POST", "OPTIONS")
	router.HandleFunc("/log", handler.HandleGetLog).Methods("GET", "OPTIONS")
	router.HandleFunc("/log/{id}/complete", handler.HandleComplete).Methods("PUT", "OPTIONS")
	router.HandleFunc("/log/completed/count", handler.HandleCompletedCount).Methods("GET", "OPTIONS")
}

type LogSetRequest struct {
	ProgramID    int    `json:"programId"`
	ProgramDayID int    `json:"programDayId"`
	WorkoutDate  string `json:"workoutDate"`
	Title        string `json:"title"`

	ProgramExerciseID int    `json:"programExerciseId"`
	ExerciseName      string `json:"exerciseName"`
	BodyPart          string `json:"bodyPart"`
	Laterality        string `json:"laterality"`
	ExerciseOrder     int    `json:"exerciseOrder"`
	Notes             string `json:"notes"`

	SetNumber  int     `json:"setNumber"`
	RepsLeft   int     `json:"repsLeft"`
	RepsRight  int     `json:"repsRight"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

func (req *LogSetRequest) validate() error {
	if req.ProgramID <= 0 || req.ProgramDayID <= 0 || req.ProgramExerciseID <= 0 {
		return errors.New("invalid program / day / exercise id")
	}
	if req.SetNumber < 1 {
		return errors.New("set number must be 1 or greater")
	}
	if req.RepsLeft < 0 || req.RepsRight < 0 {
		return errors.New("rep counts cannot be negative")
	}
	if req.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if req.WeightUnit != "kg" && req.WeightUnit != "lb" {
		return fmt.Errorf("unknown weight unit: %s", req.WeightUnit)
	}
	return nil
}

// HandleLogSet records one performed set, creating the owning workout
// log and exercise on first touch of the day.
func (handler *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.logSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req LogSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workoutDate, err := time.Parse(dateLayout, req.WorkoutDate)
	if err != nil {
		http.Error(w, "invalid workout date", http.StatusBadRequest)
		return
	}

	ws, err := handler.service.LogSet(ctx, NewSetEntry{
		UserID:            userID,
		ProgramID:         req.ProgramID,
		ProgramDayID:      req.ProgramDayID,
		WorkoutDate:       workoutDate,
		Title:             req.Title,
		ProgramExerciseID: req.ProgramExerciseID,
		ExerciseName:      req.ExerciseName,
		BodyPart:          req.BodyPart,
		Laterality:        req.Laterality,
		ExerciseOrder:     req.ExerciseOrder,
		Notes:             req.Notes,
		SetNumber:         req.SetNumber,
		RepsLeft:          req.RepsLeft,
		RepsRight:         req.RepsRight,
		Weight:            req.Weight,
		WeightUnit:        req.WeightUnit,
	})
	if err != nil {
		log.Errorf("log set for user %d: %s", userID, err)
		http.Error(w, "database error while creating workout log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSetsLogged.Inc()
	pkg.WriteAPIResponse(w, "set logged", ws, http.StatusCreated)
}

// HandleGetLog returns the nested log view for ?program_id&date, with
// data: null when nothing was logged on that date.
func (handler *Handler) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.getLog")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(r.URL.Query().Get("program_id"))
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	view, err := handler.service.GetLogForDate(ctx, userID, programID, date)
	if errors.Is(err, ErrLogNotFound) {
		pkg.WriteAPIResponse(w, "no workout logged for this date", nil, http.StatusOK)
		return
	}
	if err != nil {
		log.Errorf("get log for user %d: %s", userID, err)
		http.Error(w, "failed to get workout log", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "workout log retrieved", view, http.StatusOK)
}

// HandleComplete marks a workout log as completed.
func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.complete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	logID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid log id", http.StatusBadRequest)
		return
	}

	if err := handler.service.Complete(ctx, userID, logID); err != nil {
		if errors.Is(err, ErrLogNotFound) {
			http.Error(w, "workout log not found", http.StatusNotFound)
			return
		}
		log.Errorf("complete log %d for user %d: %s", logID, userID, err)
		http.Error(w, "failed to complete workout log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsCompleted.Inc()
	pkg.WriteAPIResponse(w, "workout completed", nil, http.StatusOK)
}

// HandleCompletedCount returns how many workouts the user completed so
// far. Count failures surface as errors instead of a silent zero.
func (handler *Handler) HandleCompletedCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.completedCount")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := handler.service.CompletedCount(ctx, userID)
	if err != nil {
		log.Errorf("completed count for user %d: %s", userID, err)
		http.Error(w, "failed to get completed workouts count", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "completed workouts count retrieved", map[string]int{"count": count}, http.StatusOK)
}
