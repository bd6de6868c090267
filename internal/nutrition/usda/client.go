package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fitstack/liftlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// example API call
// https://api.nal.usda.gov/fdc/v1/foods/search?query=cheddar&api_key=TODO

const (
	oneHour           = 60 * 60
	searchCacheExpire = oneHour * 24

	defaultPageSize = 10
	maxPageSize     = 50
)

// FoodData Central nutrient numbers for the macros we track.
const (
	nutrientIDEnergy  = 1008
	nutrientIDProtein = 1003
	nutrientIDFat     = 1004
	nutrientIDCarbs   = 1005
)

type Nutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

type Food struct {
	FdcID         int        `json:"fdcId"`
	Description   string     `json:"description"`
	DataType      string     `json:"dataType"`
	BrandName     string     `json:"brandName,omitempty"`
	FoodNutrients []Nutrient `json:"foodNutrients"`
}

// Macros are per 100g, as reported by FoodData Central.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

func (f Food) Macros() Macros {
	var m Macros
	for _, n := range f.FoodNutrients {
		switch n.NutrientID {
		case nutrientIDEnergy:
			m.Calories = n.Value
		case nutrientIDProtein:
			m.Protein = n.Value
		case nutrientIDFat:
			m.Fat = n.Value
		case nutrientIDCarbs:
			m.Carbs = n.Value
		}
	}
	return m
}

type SearchResult struct {
	TotalHits int    `json:"totalHits"`
	Foods     []Food `json:"foods"`
}

type Client struct {
	cache      *freecache.Cache
	baseURL    string // https://api.nal.usda.gov/fdc
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Client{
		cache:      freecache.NewCache(cacheSize),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SearchFoods queries FoodData Central for foods matching the query.
// Responses are cached for a day since the food database barely changes.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) (result *SearchResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usdaClient.searchFoods")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("query", query))

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	result = &SearchResult{}

	cacheKey := fmt.Sprintf("search::%s::%d", query, pageSize)
	if cachedBytes, err := c.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found usda search result for %q in cache", query)
		if err = json.Unmarshal(cachedBytes, result); err == nil {
			return result, nil
		} else {
			log.Errorf("failed to unmarshal cached usda search result for %q: %s", query, err)
		}
	}

	searchURL := fmt.Sprintf(
		"%s/v1/foods/search?query=%s&pageSize=%d&api_key=%s",
		c.baseURL, url.QueryEscape(query), pageSize, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usda api returned status %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read usda api response bytes: %w", err)
	}

	if err := json.Unmarshal(respBytes, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal usda api response bytes: %w", err)
	}

	if err = c.cache.Set([]byte(cacheKey), respBytes, searchCacheExpire); err != nil {
		log.Errorf("failed to write usda search cache for %q: %s", query, err)
	}

	return result, nil
}
