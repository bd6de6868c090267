package programs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/telemetry/tracing"
	"github.com/fitstack/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type programsRepo interface {
	Add(ctx context.Context, program Program) (*Program, error)
	List(ctx context.Context, userID int) ([]Program, error)
	Get(ctx context.Context, userID, programID int) (*Program, error)
	Update(ctx context.Context, program Program) error
	Delete(ctx context.Context, userID, programID int) error
	Activate(ctx context.Context, userID, programID int) error
	AddDay(ctx context.Context, userID int, day ProgramDay) (*ProgramDay, error)
	AddExercise(ctx context.Context, userID int, exercise ProgramExercise) (*ProgramExercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID int) error
}

type Handler struct {
	repo programsRepo
}

func NewHandler(repo programsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.HandleAdd).Methods("POST", "OPTIONS")
	router.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS")
	router.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/{id}/activate", handler.HandleActivate).Methods("PUT", "OPTIONS")
	router.HandleFunc("/{id}/day", handler.HandleAddDay).Methods("POST", "OPTIONS")
	router.HandleFunc("/day/{dayId}/exercise", handler.HandleAddExercise).Methods("POST", "OPTIONS")
	router.HandleFunc("/exercise/{exerciseId}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if program.Name == "" {
		http.Error(w, "program name is required", http.StatusBadRequest)
		return
	}

	program.UserID = userID
	program.Active = false
	added, err := handler.repo.Add(ctx, program)
	if err != nil {
		log.Errorf("add program for user %d: %s", userID, err)
		http.Error(w, "failed to add program", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program created", added, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programs, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list programs for user %d: %s", userID, err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "programs retrieved", programs, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}

	program, err := handler.repo.Get(ctx, userID, programID)
	if errors.Is(err, ErrProgramNotFound) {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get program %d for user %d: %s", programID, userID, err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program retrieved", program, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if program.Name == "" {
		http.Error(w, "program name is required", http.StatusBadRequest)
		return
	}

	program.ID = programID
	program.UserID = userID
	if err := handler.repo.Update(ctx, program); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("update program %d for user %d: %s", programID, userID, err)
		http.Error(w, "failed to update program", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program updated", nil, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, programID); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete program %d for user %d: %s", programID, userID, err)
		http.Error(w, "failed to delete program", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program deleted", nil, http.StatusOK)
}

// HandleActivate makes this the user's active program and deactivates
// all the others.
func (handler *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.activate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Activate(ctx, userID, programID); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("activate program %d for user %d: %s", programID, userID, err)
		http.Error(w, "failed to activate program", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program activated", nil, http.StatusOK)
}

func (handler *Handler) HandleAddDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.addDay")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid program id", http.StatusBadRequest)
		return
	}

	var day ProgramDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if day.DayNumber < 1 {
		http.Error(w, "day number must be 1 or greater", http.StatusBadRequest)
		return
	}

	day.ProgramID = programID
	added, err := handler.repo.AddDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("add day to program %d for user %d: %s", programID, userID, err)
		http.Error(w, "failed to add program day", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program day created", added, http.StatusCreated)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.addExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dayID, err := strconv.Atoi(mux.Vars(r)["dayId"])
	if err != nil {
		http.Error(w, "invalid day id", http.StatusBadRequest)
		return
	}

	var exercise ProgramExercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if exercise.ExerciseName == "" {
		http.Error(w, "exercise name is required", http.StatusBadRequest)
		return
	}
	if exercise.Laterality != "bilateral" && exercise.Laterality != "unilateral" {
		http.Error(w, "laterality must be bilateral or unilateral", http.StatusBadRequest)
		return
	}

	exercise.ProgramDayID = dayID
	added, err := handler.repo.AddExercise(ctx, userID, exercise)
	if err != nil {
		if errors.Is(err, ErrDayNotFound) {
			http.Error(w, "program day not found", http.StatusNotFound)
			return
		}
		log.Errorf("add exercise to day %d for user %d: %s", dayID, userID, err)
		http.Error(w, "failed to add program exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program exercise created", added, http.StatusCreated)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.deleteExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exerciseID, err := strconv.Atoi(mux.Vars(r)["exerciseId"])
	if err != nil {
		http.Error(w, "invalid exercise id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteExercise(ctx, userID, exerciseID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "program exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete exercise %d for user %d: %s", exerciseID, userID, err)
		http.Error(w, "failed to delete program exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "program exercise deleted", nil, http.StatusOK)
}
