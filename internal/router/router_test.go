package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prodash/internal/config"
	"prodash/internal/logger"
	"prodash/internal/middleware"
	"prodash/internal/models"
	"prodash/internal/testutil"
	"prodash/internal/validator"
)

// testApp holds the full application stack backed by in-memory SQLite.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Replace(zap.NewNop())
	validator.Register()
}

func testConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return &testApp{DB: db, Router: New(testConfig(), Options{DB: db})}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

// signup registers and logs in a user, returning the access and refresh tokens.
func (app *testApp) signup(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":"tester","email":%q,"password":%q,"confirm_password":%q}`, email, password, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

func (app *testApp) create(t *testing.T, path, body, token string) float64 {
	t.Helper()
	rec := app.request("POST", path, body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	for _, v := range parseJSON(t, rec) {
		if obj, ok := v.(map[string]interface{}); ok {
			return obj["id"].(float64)
		}
	}
	t.Fatalf("no entity in response %s", rec.Body.String())
	return 0
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %s", rec.Body.String())
	return errObj["code"].(string)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", parseJSON(t, rec)["status"])
}

func TestUnknownRoute(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/budgets", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestAuthFlow_LoginProfileRefreshLogout(t *testing.T) {
	app := setupApp(t)
	access, refresh := app.signup(t, "Ada@Example.com", "password123")

	rec := app.request("GET", "/api/v1/profile", "", access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])

	rec = app.request("POST", "/api/v1/auth/refresh-token", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := parseJSON(t, rec)["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	// The superseded token no longer matches the stored digest.
	rec = app.request("POST", "/api/v1/auth/refresh-token", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request("POST", "/api/v1/auth/logout", fmt.Sprintf(`{"refresh_token":%q}`, rotated), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.request("POST", "/api/v1/auth/refresh-token", fmt.Sprintf(`{"refresh_token":%q}`, rotated), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request("GET", "/api/v1/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskFlow_BoardAndCursorWalk(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "tasks@test.com", "password123")

	statuses := []string{"To Do", "To Do", "In Progress", "Done", "Done"}
	for i, status := range statuses {
		app.create(t, "/api/v1/tasks", fmt.Sprintf(
			`{"title":"Task %d","status":%q,"start_date":"2025-03-%02dT09:00:00Z"}`, i+1, status, i+1), token)
	}
	// Outside the month; must not appear in either view.
	app.create(t, "/api/v1/tasks", `{"title":"April","start_date":"2025-04-01T09:00:00Z"}`, token)

	rec := app.request("GET", "/api/v1/tasks/view?year=2025&month=3", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board := parseJSON(t, rec)
	assert.EqualValues(t, 5, board["total_count"])
	columns := board["columns"].(map[string]interface{})
	require.Len(t, columns, 3)
	for key, want := range map[string]float64{"todo": 2, "in_progress": 1, "done": 2} {
		col := columns[key].(map[string]interface{})
		assert.Equal(t, want, col["total_count"], key)
		assert.Len(t, col["items"], int(want), key)
	}

	var titles []string
	cursor := ""
	for page := 0; page < 5; page++ {
		path := "/api/v1/tasks/view?mode=list&year=2025&month=3&limit=2&sort=asc"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		rec = app.request("GET", path, "", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := parseJSON(t, rec)
		assert.EqualValues(t, 5, list["total_count"])
		for _, item := range list["results"].([]interface{}) {
			titles = append(titles, item.(map[string]interface{})["title"].(string))
		}
		if list["has_next_page"] != true {
			assert.Nil(t, list["next_cursor"])
			break
		}
		cursor = list["next_cursor"].(string)
	}
	assert.Equal(t, []string{"Task 1", "Task 2", "Task 3", "Task 4", "Task 5"}, titles)

	rec = app.request("GET", "/api/v1/tasks/view?mode=list&limit=101", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PAGE_SIZE_TOO_LARGE", errorCode(t, rec))

	rec = app.request("GET", "/api/v1/tasks/view?mode=list&cursor=garbage", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CURSOR", errorCode(t, rec))
}

func TestTaskFlow_ReminderAndDeletes(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "remind@test.com", "password123")

	id := app.create(t, "/api/v1/tasks",
		`{"title":"Renew passport","start_date":"2025-03-02T09:00:00Z","notify_at":"2025-03-01T09:00:00Z"}`, token)

	var count int64
	require.NoError(t, app.DB.Model(&models.Notification{}).Where("source_id = ?", uint(id)).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec := app.request("PATCH", fmt.Sprintf("/api/v1/tasks/%.0f/soft-delete", id), "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.request("GET", fmt.Sprintf("/api/v1/tasks/%.0f", id), "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Another user cannot see or delete it.
	other, _ := app.signup(t, "other@test.com", "password123")
	otherID := app.create(t, "/api/v1/tasks", `{"title":"Mine","start_date":"2025-03-02T09:00:00Z"}`, other)
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/tasks/%.0f", otherID), "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, rec))
}

func TestExpenseFlow_ListAndAnalytics(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "money@test.com", "password123")

	app.create(t, "/api/v1/expenses", `{"title":"Salary","amount":"1000","category":"Work","type":"income","expense_date":"2025-02-01T00:00:00Z"}`, token)
	app.create(t, "/api/v1/expenses", `{"title":"Food","amount":"100","category":"Food","type":"expense","expense_date":"2025-02-10T00:00:00Z"}`, token)
	app.create(t, "/api/v1/expenses", `{"title":"Groceries","amount":"120","category":"Food","type":"expense","expense_date":"2025-03-05T00:00:00Z"}`, token)
	app.create(t, "/api/v1/expenses", `{"title":"Bus","amount":"30","category":"Transport","type":"expense","expense_date":"2025-03-06T00:00:00Z"}`, token)

	rec := app.request("GET", "/api/v1/expenses?year=2025&month=3&page_size=1", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := parseJSON(t, rec)
	assert.EqualValues(t, 2, page["total_count"])
	assert.EqualValues(t, 2, page["total_page"])
	assert.Equal(t, true, page["has_next_page"])
	results := page["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Bus", results[0].(map[string]interface{})["title"])

	analytics := page["additional_data"].(map[string]interface{})
	breakdown := analytics["expense_breakdown"].(map[string]interface{})
	total, err := decimal.NewFromString(breakdown["total"].(string))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(150)), "total %s", total)
	assert.EqualValues(t, 50, breakdown["change"])
	assert.Len(t, breakdown["categories"], 2)

	rec = app.request("GET", "/api/v1/expenses/analytics?year=2025&month=3", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	series := parseJSON(t, rec)["income_vs_expense"].(map[string]interface{})
	assert.Len(t, series["labels"], 3)
	values := series["values"].([]interface{})
	require.Len(t, values, 3)
	feb, err := decimal.NewFromString(values[1].(string))
	require.NoError(t, err)
	assert.True(t, feb.Equal(decimal.NewFromInt(900)), "february net %s", feb)

	rec = app.request("GET", "/api/v1/expenses?page_size=500", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PAGE_SIZE_TOO_LARGE", errorCode(t, rec))
}

func TestMeetingFlow_ICSExport(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "meet@test.com", "password123")

	rec := app.request("POST", "/api/v1/meeting-schedules",
		`{"title":"Backwards","start_time":"2025-03-03T10:00:00Z","end_time":"2025-03-03T09:00:00Z"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TIME_RANGE", errorCode(t, rec))

	id := app.create(t, "/api/v1/meeting-schedules",
		`{"title":"Planning","description":"Q2","start_time":"2025-03-03T09:00:00Z","end_time":"2025-03-03T10:00:00Z"}`, token)

	rec = app.request("GET", fmt.Sprintf("/api/v1/meeting-schedules/%.0f/ics", id), "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf(`attachment; filename="meeting-%.0f.ics"`, id), rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Planning")
	assert.Contains(t, body, fmt.Sprintf("meeting-%.0f@prodash", id))

	rec = app.request("GET", "/api/v1/meeting-schedules?q=plan", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, parseJSON(t, rec)["total_count"])
}

func TestCountryLogFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "visa@test.com", "password123")

	id := app.create(t, "/api/v1/country-logs",
		`{"country_name":"Japan","visa_type":"Tourist","entry_date":"2025-01-10T00:00:00Z","visa_limit_days":90,"notify_at":"2025-04-01T00:00:00Z"}`, token)

	rec := app.request("GET", "/api/v1/country-logs?q=jap", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, parseJSON(t, rec)["total_count"])

	rec = app.request("DELETE", fmt.Sprintf("/api/v1/country-logs/%.0f", id), "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, app.DB.Unscoped().Model(&models.CountryLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImageUpload_WithoutStorage(t *testing.T) {
	app := setupApp(t)
	token, _ := app.signup(t, "img@test.com", "password123")

	rec := app.request("POST", "/api/v1/images/upload", `{"base64":"data:image/png;base64,iVBORw0KGgo="}`, token)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_NOT_CONFIGURED", errorCode(t, rec))
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := &testApp{DB: db, Router: New(testConfig(), Options{
		DB:          db,
		AuthLimiter: middleware.NewIPRateLimiter(0.001, 2),
	})}

	body := `{"email":"nobody@test.com","password":"password123"}`
	assert.Equal(t, http.StatusUnauthorized, app.request("POST", "/api/v1/auth/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, app.request("POST", "/api/v1/auth/login", body, "").Code)

	rec := app.request("POST", "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, rec))

	// Protected routes are not throttled by the auth budget.
	assert.Equal(t, http.StatusOK, app.request("GET", "/api/health", "", "").Code)
}

func TestCORS_Preflight(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
