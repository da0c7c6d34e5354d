package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/internal/util"
	"quadrant_planner_backend/pkg/database"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	limits := config.DefaultLimits()
	now := func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) }
	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db, nil, 0)
	locker := repository.NewUserLocker(db, limits.TxRetries)

	goals := NewGoalController(service.NewGoalService(goalRepo, analyticsRepo, locker, limits))
	tasks := NewTaskController(service.NewTaskService(taskRepo, goalRepo, analyticsRepo, locker, limits, now))
	subtasks := NewSubtaskController(service.NewSubtaskService(repository.NewSubtaskRepository(db), taskRepo, locker, limits))
	analytics := NewAnalyticsController(service.NewAnalyticsService(analyticsRepo, limits,
		config.AnalyticsConfig{TrendDefaultDays: 30, TrendMaxDays: 366}, now))

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("user", &util.Claims{UserID: id})
		}
		c.Next()
	})
	api.POST("/goals", goals.CreateGoal)
	api.GET("/goals", goals.ListGoals)
	api.PUT("/goals/:id", goals.UpdateGoal)
	api.DELETE("/goals/:id", goals.ArchiveGoal)
	api.POST("/tasks", tasks.CreateTask)
	api.GET("/tasks", tasks.ListTasks)
	api.GET("/tasks/staging", tasks.GetStagingZone)
	api.GET("/tasks/:id", tasks.GetTask)
	api.PATCH("/tasks/:id/move", tasks.MoveTask)
	api.DELETE("/tasks/:id", tasks.DeleteTask)
	api.POST("/tasks/:id/subtasks", subtasks.CreateSubtask)
	api.GET("/analytics/dashboard", analytics.GetDashboard)
	api.GET("/analytics/trends", analytics.GetTrends)
	api.GET("/analytics/timeframes", analytics.GetTimeframeAnalysis)
	api.GET("/analytics/priorities", analytics.GetPriorityAnalysis)
	api.GET("/analytics/velocity", analytics.GetCompletionVelocity)
	api.GET("/analytics/score", analytics.GetProductivityScore)
	api.PUT("/tasks/:id", tasks.UpdateTask)
	return r
}

func doJSON(r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestTaskAPIStagingCapacity(t *testing.T) {
	r := newTestRouter(t)
	body := map[string]any{"title": "idea", "quadrant": "staging"}

	for i := 0; i < 5; i++ {
		w := doJSON(r, http.MethodPost, "/api/tasks", "u1", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(r, http.MethodPost, "/api/tasks", "u1", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "staging zone is full")

	w = doJSON(r, http.MethodGet, "/api/tasks/staging", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var zone model.StagingZone
	decodeData(t, w, &zone)
	assert.Equal(t, 5, zone.Status.CurrentCount)
	assert.True(t, zone.Status.IsFull)
}

func TestTaskAPIErrors(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/tasks", "", map[string]any{"title": "x", "quadrant": "Q1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": "x", "quadrant": "Q7"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/tasks/"+model.GenerateUUID(), "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": "x", "quadrant": "Q1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task model.Task
	decodeData(t, w, &task)

	// 其他用户看不到
	w = doJSON(r, http.MethodGet, "/api/tasks/"+task.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/tasks/"+task.ID+"/move", "u1", map[string]any{"quadrant": "Q2", "position": 0})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &task)
	assert.Equal(t, model.QuadrantQ2, task.Quadrant)

	w = doJSON(r, http.MethodPost, "/api/tasks/"+task.ID+"/subtasks", "u1", map[string]any{"title": "step"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/tasks/"+task.ID, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, "/api/tasks/"+task.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoalAPI(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/goals", "u1", map[string]any{"title": "Run", "category": "health", "timeframe": "1_year"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var goal model.Goal
	decodeData(t, w, &goal)

	w = doJSON(r, http.MethodDelete, "/api/goals/"+goal.ID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/goals/"+goal.ID, "u1", map[string]any{"archived": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/goals", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List  []model.Goal `json:"list"`
		Total int64        `json:"total"`
		Limit int          `json:"limit"`
	}
	decodeData(t, w, &page)
	assert.Empty(t, page.List)
	assert.Zero(t, page.Total)
	assert.Equal(t, 50, page.Limit)

	w = doJSON(r, http.MethodGet, "/api/goals?archived=true", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &page)
	assert.Len(t, page.List, 1)
}

func TestAnalyticsAPI(t *testing.T) {
	r := newTestRouter(t)

	for _, q := range []string{"Q2", "Q2", "Q1", "staging"} {
		w := doJSON(r, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": "t", "quadrant": q})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/analytics/dashboard?period=7_days", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash model.Dashboard
	decodeData(t, w, &dash)
	assert.Len(t, dash.Trends, 7)
	assert.Equal(t, 4, dash.Metrics.Quadrants.TotalActiveTasks)
	assert.Equal(t, 50.0, dash.Metrics.Quadrants.Q2FocusPercentage)
	require.NotEmpty(t, dash.Insights)
	assert.Equal(t, "q2-focus-good", dash.Insights[0].ID)

	w = doJSON(r, http.MethodGet, "/api/analytics/trends?start_date=2025-03-12&end_date=2025-03-01", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/analytics/dashboard?period=forever", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsBreakdownAPI(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/goals", "u1", map[string]any{"title": "Learn Go", "category": "learning", "timeframe": "6_months"})
	require.Equal(t, http.StatusCreated, w.Code)
	var goal model.Goal
	decodeData(t, w, &goal)

	w = doJSON(r, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": "t", "quadrant": "Q2", "priority": "high", "goalId": goal.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task model.Task
	decodeData(t, w, &task)

	w = doJSON(r, http.MethodGet, "/api/analytics/timeframes", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timeframes []model.TimeframeSummary
	decodeData(t, w, &timeframes)
	require.Len(t, timeframes, 1)
	assert.Equal(t, model.Timeframe6Months, timeframes[0].Timeframe)
	assert.Equal(t, 1, timeframes[0].TotalTasks)

	w = doJSON(r, http.MethodGet, "/api/analytics/priorities", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var priorities []model.PriorityAnalysis
	decodeData(t, w, &priorities)
	require.Len(t, priorities, 4)
	assert.Equal(t, model.PriorityHigh, priorities[2].Priority)
	assert.Equal(t, 1, priorities[2].TotalTasks)

	w = doJSON(r, http.MethodGet, "/api/analytics/velocity?period=7_days", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var velocity model.CompletionVelocity
	decodeData(t, w, &velocity)
	assert.Equal(t, 7, velocity.Days)
	assert.Equal(t, model.VelocityStable, velocity.Trend)

	w = doJSON(r, http.MethodGet, "/api/analytics/velocity?period=weekly", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/analytics/score", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var score model.ProductivityScore
	decodeData(t, w, &score)
	assert.NotEmpty(t, score.Recommendations)

	// 解除目标关联
	w = doJSON(r, http.MethodPut, "/api/tasks/"+task.ID, "u1", map[string]any{"clearGoal": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Task
	decodeData(t, w, &updated)
	assert.Nil(t, updated.GoalID)

	w = doJSON(r, http.MethodPut, "/api/tasks/"+task.ID, "u1", map[string]any{"clearGoal": true, "goalId": goal.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/goals?search=go", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List []model.Goal `json:"list"`
	}
	decodeData(t, w, &page)
	assert.Len(t, page.List, 1)
}
