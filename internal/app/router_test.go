package app

import (
	"encoding/json"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/controller"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	c := &controllers{
		goal:      &controller.GoalController{},
		task:      &controller.TaskController{},
		subtask:   &controller.SubtaskController{},
		analytics: &controller.AnalyticsController{},
		health:    &controller.HealthController{},
	}
	(&App{}).registerRoutes(router, c, &config.Config{})

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	var documented int
	for _, route := range router.Routes() {
		path, ok := strings.CutPrefix(route.Path, "/api")
		if !ok {
			continue
		}
		path = pathParam.ReplaceAllString(path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "undocumented path %s", path) {
			_, ok = ops[strings.ToLower(route.Method)]
			assert.True(t, ok, "undocumented operation %s %s", route.Method, path)
		}
		documented++
	}
	assert.Equal(t, documented, countOperations(doc.Paths))
}

func countOperations(paths map[string]map[string]json.RawMessage) int {
	n := 0
	for _, ops := range paths {
		n += len(ops)
	}
	return n
}
