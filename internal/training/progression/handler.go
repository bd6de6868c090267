package progression

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/telemetry/tracing"
	"github.com/fitstack/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progression_test

type analyzer interface {
	PersonalRecord(ctx context.Context, userID, programID, programExerciseID int) (*PersonalRecord, error)
	Progression(ctx context.Context, params HistoryParams) (*ProgressionReport, error)
}

type Handler struct {
	analyzer analyzer
}

func NewHandler(analyzer analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/program/{programId}/exercise/{programExerciseId}/pr", handler.HandlePersonalRecord).Methods("GET", "OPTIONS")
	router.HandleFunc("/program/{programId}/exercise/{programExerciseId}/progression", handler.HandleProgression).Methods("GET", "OPTIONS")
}

// HandlePersonalRecord returns the best estimated one rep max ever logged
// for the given program exercise, or data: null when nothing was logged yet.
func (handler *Handler) HandlePersonalRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.personalRecord")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, programExerciseID, err := exerciseScopeFromRequest(r)
	if err != nil {
		http.Error(w, "invalid path params", http.StatusBadRequest)
		return
	}

	record, err := handler.analyzer.PersonalRecord(ctx, userID, programID, programExerciseID)
	if err != nil {
		log.Errorf("get personal record for exercise %d: %s", programExerciseID, err)
		http.Error(w, "failed to get personal record", http.StatusInternalServerError)
		return
	}

	if record == nil {
		pkg.WriteAPIResponse(w, "no sets logged for this exercise yet", nil, http.StatusOK)
		return
	}

	pkg.WriteAPIResponse(w, "personal record retrieved", record, http.StatusOK)
}

// HandleProgression returns the weight / volume time series and summary
// stats for the given program exercise, optionally bounded by from / to
// date query params (2006-01-02).
func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.progression")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	programID, programExerciseID, err := exerciseScopeFromRequest(r)
	if err != nil {
		http.Error(w, "invalid path params", http.StatusBadRequest)
		return
	}

	params := HistoryParams{
		UserID:            userID,
		ProgramID:         programID,
		ProgramExerciseID: programExerciseID,
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	report, err := handler.analyzer.Progression(ctx, params)
	if err != nil {
		log.Errorf("get progression for exercise %d: %s", programExerciseID, err)
		http.Error(w, "failed to get progression", http.StatusInternalServerError)
		return
	}

	if report == nil {
		pkg.WriteAPIResponse(w, "no sets logged in the given range", nil, http.StatusOK)
		return
	}

	pkg.WriteAPIResponse(w, "progression retrieved", report, http.StatusOK)
}

func exerciseScopeFromRequest(r *http.Request) (programID int, programExerciseID int, err error) {
	vars := mux.Vars(r)
	programID, err = strconv.Atoi(vars["programId"])
	if err != nil {
		return 0, 0, err
	}
	programExerciseID, err = strconv.Atoi(vars["programExerciseId"])
	if err != nil {
		return 0, 0, err
	}
	return programID, programExerciseID, nil
}
