package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/discounts"
	"github.com/musemap/trip-service/internal/eligibility"
	"github.com/musemap/trip-service/internal/visits"
)

var handlersTestNow = time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	source := &catalog.StaticSource{
		MuseumList: []catalog.Museum{
			{
				MuseumID:     "art-institute",
				Name:         "Art Institute",
				Lat:          41.8796,
				Lng:          -87.6237,
				City:         "Chicago",
				OpeningHours: "Mon-Sun 10-5",
			},
		},
		RuleSet: catalog.RuleTable{
			"art-institute": {
				BasePrices: map[string]float64{"adult": 32},
				Currency:   "USD",
				Discounts: []discounts.Definition{{
					ID:    "snap",
					Name:  "SNAP/EBT",
					Types: []eligibility.Type{eligibility.TypeSnapEBT},
					Value: "flat:3",
				}},
			},
		},
	}

	repo := visits.NewMemoryRepository()
	svc := visits.NewService(repo, source, nil).WithClock(func() time.Time { return handlersTestNow })
	Init(svc, source)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)
	router.POST("/internal/visits", CreateVisit)
	router.GET("/internal/visits", ListVisits)
	router.GET("/internal/visits/:visitId", GetVisit)
	router.PUT("/internal/visits/:visitId", UpdateVisit)
	router.DELETE("/internal/visits/:visitId", DeleteVisit)
	router.POST("/internal/visits/:visitId/generate", GenerateVisit)
	router.POST("/internal/visits/:visitId/duplicate", DuplicateVisit)
	router.POST("/internal/plan/preview", PreviewPlan)
	router.POST("/internal/discounts/evaluate", EvaluateDiscounts)
	router.GET("/internal/eligibility/catalog", EligibilityCatalog)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func visitBody() map[string]any {
	return map[string]any{
		"name":      "Chicago weekend",
		"dateMode":  "fixed",
		"startDate": "2026-09-01",
		"endDate":   "2026-09-02",
		"mode":      "money",
		"stops":     []map[string]any{{"city": "Chicago"}},
	}
}

func createTestVisit(t *testing.T, router *gin.Engine, user string) string {
	t.Helper()
	w := doJSON(t, router, "POST", "/internal/visits", user, visitBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created visits.Visit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestCreateVisitRequiresUserHeader(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/internal/visits", "", visitBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateVisitValidatesBody(t *testing.T) {
	router := setupTestRouter(t)

	body := visitBody()
	delete(body, "stops")
	w := doJSON(t, router, "POST", "/internal/visits", "u1", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = visitBody()
	body["mode"] = "fastest"
	w = doJSON(t, router, "POST", "/internal/visits", "u1", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVisitLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	id := createTestVisit(t, router, "u1")

	// Get
	w := doJSON(t, router, "GET", "/internal/visits/"+id, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Another user cannot see it
	w = doJSON(t, router, "GET", "/internal/visits/"+id, "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Generate
	w = doJSON(t, router, "POST", "/internal/visits/"+id+"/generate", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var generated visits.Visit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	require.NotNil(t, generated.Results)
	assert.Len(t, generated.Results.Itinerary, 2)
	assert.Len(t, generated.Results.TicketPlan, 1)

	// Delete
	w = doJSON(t, router, "DELETE", "/internal/visits/"+id, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "GET", "/internal/visits/"+id, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateInvalidRangeIsBadRequest(t *testing.T) {
	router := setupTestRouter(t)

	body := visitBody()
	body["startDate"] = "2026-09-05"
	body["endDate"] = "2026-09-01"
	w := doJSON(t, router, "POST", "/internal/visits", "u1", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created visits.Visit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, "POST", "/internal/visits/"+created.ID+"/generate", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateVisit(t *testing.T) {
	router := setupTestRouter(t)

	id := createTestVisit(t, router, "u1")
	w := doJSON(t, router, "POST", "/internal/visits/"+id+"/duplicate", "u1", map[string]any{"name": "Fall trip"})
	require.Equal(t, http.StatusCreated, w.Code)

	var dup visits.Visit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	assert.NotEqual(t, id, dup.ID)
	assert.Equal(t, "Fall trip", dup.Name)
	assert.Nil(t, dup.Results)
}

func TestPreviewPlanDoesNotPersist(t *testing.T) {
	router := setupTestRouter(t)

	body := visitBody()
	delete(body, "name") // preview has no name
	w := doJSON(t, router, "POST", "/internal/plan/preview", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results visits.Results
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results.Itinerary, 2)

	// Nothing saved for any user
	w = doJSON(t, router, "GET", "/internal/visits", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Zero(t, list.Total)
}

func TestEvaluateDiscountsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	items, err := eligibility.Serialize([]eligibility.Item{{Type: eligibility.TypeSnapEBT}})
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/internal/discounts/evaluate", "", map[string]any{
		"museumId":      "art-institute",
		"eligibilities": items,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		BasePrice *float64        `json:"basePrice"`
		BestPrice *float64        `json:"bestPrice"`
		Rows      []discounts.Row `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.BasePrice)
	assert.Equal(t, 32.0, *response.BasePrice)
	require.NotNil(t, response.BestPrice)
	assert.Equal(t, 3.0, *response.BestPrice)
	require.Len(t, response.Rows, 1)
	assert.True(t, response.Rows[0].Qualifies)
}

func TestEvaluateDiscountsUnknownMuseum(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/internal/discounts/evaluate", "", map[string]any{
		"museumId": "nope",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEligibilityCatalogEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/internal/eligibility/catalog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Types []eligibility.Info `json:"types"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotZero(t, response.Total)
	assert.Equal(t, eligibility.TypeSnapEBT, response.Types[0].Type)
}

func TestHealthEndpointWithoutDatabase(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "not configured", response.Database)
}
