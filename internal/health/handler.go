package health

import (
	"context"
	"encoding/json"
	"errors"
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

type healthRepo interface {
	AddWeight(ctx context.Context, entry WeightEntry) (*WeightEntry, error)
	ListWeight(ctx context.Context, userID int, from, to *time.Time) ([]WeightEntry, error)
	DeleteWeight(ctx context.Context, userID, entryID int) error
	AddWater(ctx context.Context, entry WaterEntry) (*WaterEntry, error)
	WaterTotalForDate(ctx context.Context, userID int, date time.Time) (int, error)
}

type Handler struct {
	repo healthRepo
}

func NewHandler(repo healthRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/weight", handler.HandleAddWeight).Methods("POST", "OPTIONS")
	router.HandleFunc("/weight", handler.HandleListWeight).Methods("GET", "OPTIONS")
	router.HandleFunc("/weight/{id}", handler.HandleDeleteWeight).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/water", handler.HandleAddWater).Methods("POST", "OPTIONS")
	router.HandleFunc("/water/total", handler.HandleWaterTotal).Methods("GET", "OPTIONS")
}

type addWeightRequest struct {
	EntryDate  string  `json:"entryDate"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

func (handler *Handler) HandleAddWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.addWeight")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Weight <= 0 {
		http.Error(w, "weight must be positive", http.StatusBadRequest)
		return
	}
	if req.WeightUnit != "kg" && req.WeightUnit != "lb" {
		http.Error(w, "unknown weight unit", http.StatusBadRequest)
		return
	}
	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		http.Error(w, "invalid entry date", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddWeight(ctx, WeightEntry{
		UserID:     userID,
		EntryDate:  entryDate,
		Weight:     req.Weight,
		WeightUnit: req.WeightUnit,
	})
	if err != nil {
		log.Errorf("add weight entry for user %d: %s", userID, err)
		http.Error(w, "failed to add weight entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "weight entry created", added, http.StatusCreated)
}

func (handler *Handler) HandleListWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.listWeight")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var from, to *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = &parsed
	}

	entries, err := handler.repo.ListWeight(ctx, userID, from, to)
	if err != nil {
		log.Errorf("list weight entries for user %d: %s", userID, err)
		http.Error(w, "failed to list weight entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "weight entries retrieved", entries, http.StatusOK)
}

func (handler *Handler) HandleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.deleteWeight")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteWeight(ctx, userID, entryID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "weight entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete weight entry %d for user %d: %s", entryID, userID, err)
		http.Error(w, "failed to delete weight entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "weight entry deleted", nil, http.StatusOK)
}

type addWaterRequest struct {
	EntryDate   string `json:"entryDate"`
	Milliliters int    `json:"milliliters"`
}

func (handler *Handler) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.addWater")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Milliliters <= 0 {
		http.Error(w, "milliliters must be positive", http.StatusBadRequest)
		return
	}
	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		http.Error(w, "invalid entry date", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddWater(ctx, WaterEntry{
		UserID:      userID,
		EntryDate:   entryDate,
		Milliliters: req.Milliliters,
	})
	if err != nil {
		log.Errorf("add water entry for user %d: %s", userID, err)
		http.Error(w, "failed to add water entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "water entry created", added, http.StatusCreated)
}

func (handler *Handler) HandleWaterTotal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.waterTotal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	total, err := handler.repo.WaterTotalForDate(ctx, userID, date)
	if err != nil {
		log.Errorf("water total for user %d: %s", userID, err)
		http.Error(w, "failed to get water total", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "water total retrieved", map[string]int{"milliliters": total}, http.StatusOK)
}
