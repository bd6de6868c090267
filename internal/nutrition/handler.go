package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitstack/liftlog/internal/auth"
	"github.com/fitstack/liftlog/internal/nutrition/usda"
	"github.com/fitstack/liftlog/internal/telemetry/metrics"
	"github.com/fitstack/liftlog/internal/telemetry/tracing"
	"github.com/fitstack/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type nutritionRepo interface {
	Add(ctx context.Context, entry FoodEntry) (*FoodEntry, error)
	ListForDate(ctx context.Context, userID int, date time.Time) ([]FoodEntry, error)
	Delete(ctx context.Context, userID, entryID int) error
	GetDailyTotals(ctx context.Context, userID int, date time.Time) (*DailyTotals, error)
}

type foodSearcher interface {
	SearchFoods(ctx context.Context, query string, pageSize int) (*usda.SearchResult, error)
}

type Handler struct {
	repo     nutritionRepo
	searcher foodSearcher
	metrics  *metrics.Manager
}

func NewHandler(repo nutritionRepo, searcher foodSearcher, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		searcher: searcher,
		metrics:  metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/entry", handler.HandleAddEntry).Methods("POST", "OPTIONS")
	router.HandleFunc("/entries", handler.HandleListEntries).Methods("GET", "OPTIONS")
	router.HandleFunc("/entry/{id}", handler.HandleDeleteEntry).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/totals", handler.HandleDailyTotals).Methods("GET", "OPTIONS")
	router.HandleFunc("/food/search", handler.HandleFoodSearch).Methods("GET", "OPTIONS")
}

type AddEntryRequest struct {
	EntryDate string  `json:"entryDate"`
	MealType  string  `json:"mealType"`
	FoodName  string  `json:"foodName"`
	FdcID     *int    `json:"fdcId,omitempty"`
	Grams     float64 `json:"grams"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Fat       float64 `json:"fat"`
	Carbs     float64 `json:"carbs"`
}

func (handler *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.addEntry")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.FoodName == "" {
		http.Error(w, "food name is required", http.StatusBadRequest)
		return
	}
	if !ValidMealType(req.MealType) {
		http.Error(w, "unknown meal type", http.StatusBadRequest)
		return
	}
	if req.Grams <= 0 {
		http.Error(w, "grams must be positive", http.StatusBadRequest)
		return
	}

	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		http.Error(w, "invalid entry date", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, FoodEntry{
		UserID:    userID,
		EntryDate: entryDate,
		MealType:  req.MealType,
		FoodName:  req.FoodName,
		FdcID:     req.FdcID,
		Grams:     req.Grams,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Fat:       req.Fat,
		Carbs:     req.Carbs,
	})
	if err != nil {
		log.Errorf("add food entry for user %d: %s", userID, err)
		http.Error(w, "failed to add food entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterFoodEntries.Inc()
	pkg.WriteAPIResponse(w, "food entry created", added, http.StatusCreated)
}

func (handler *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.listEntries")
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

	entries, err := handler.repo.ListForDate(ctx, userID, date)
	if err != nil {
		log.Errorf("list food entries for user %d: %s", userID, err)
		http.Error(w, "failed to list food entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "food entries retrieved", entries, http.StatusOK)
}

func (handler *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.deleteEntry")
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

	if err := handler.repo.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "food entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete food entry %d for user %d: %s", entryID, userID, err)
		http.Error(w, "failed to delete food entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "food entry deleted", nil, http.StatusOK)
}

func (handler *Handler) HandleDailyTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.dailyTotals")
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

	totals, err := handler.repo.GetDailyTotals(ctx, userID, date)
	if err != nil {
		log.Errorf("daily totals for user %d: %s", userID, err)
		http.Error(w, "failed to get daily totals", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "daily totals retrieved", totals, http.StatusOK)
}

// HandleFoodSearch proxies a food search to FoodData Central.
func (handler *Handler) HandleFoodSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.foodSearch")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	pageSize := 0
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		var err error
		if pageSize, err = strconv.Atoi(pageSizeStr); err != nil {
			http.Error(w, "invalid page size", http.StatusBadRequest)
			return
		}
	}

	result, err := handler.searcher.SearchFoods(ctx, query, pageSize)
	if err != nil {
		log.Errorf("usda food search %q: %s", query, err)
		http.Error(w, "failed to search foods", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIResponse(w, "foods retrieved", result, http.StatusOK)
}
