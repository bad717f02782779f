package todov1_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/todo-api/handlers/todov1"
	"github.com/sahilchouksey/todo-api/model"
	"github.com/sahilchouksey/todo-api/router"
	"github.com/sahilchouksey/todo-api/utils/response"
)

type testStore struct {
	db *gorm.DB
}

func (s *testStore) DB() *gorm.DB       { return s.db }
func (s *testStore) Init() error        { return s.db.AutoMigrate(&model.Todo{}) }
func (s *testStore) Close() error       { return nil }
func (s *testStore) HealthCheck() error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("REDIS_URL", "")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "todo.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := &testStore{db: db}
	require.NoError(t, store.Init())

	app := fiber.New()
	router.SetupRoutes(app, store)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type validationBody struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	ValidationErrors map[string]string `json:"validationErrors"`
	Path             string            `json:"path"`
}

type paginatedTodos struct {
	Data       []todov1.TodoResponse   `json:"data"`
	Pagination response.PaginationMeta `json:"pagination"`
}

func dateIn(days int) *model.Date {
	d := model.DateOf(time.Now().UTC().AddDate(0, 0, days))
	return &d
}

func TestCreateTodoValidatesDescription(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/todos", fiber.Map{
		"priority": "HIGH",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body validationBody
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusBadRequest, body.Status)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.ValidationErrors, "description")
	assert.Equal(t, "/api/v1/todos", body.Path)
}

func TestCreateTodoRejectsBlankDescription(t *testing.T) {
	app, db := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/todos", fiber.Map{
		"description": "   ",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body validationBody
	decodeBody(t, resp, &body)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.ValidationErrors, "description")

	var count int64
	require.NoError(t, db.Model(&model.Todo{}).Count(&count).Error)
	assert.Zero(t, count, "no record for a whitespace-only description")
}

func TestCreateTodoRejectsEmptyDateString(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/todos", fiber.Map{
		"description": "plan offsite",
		"endDate":     "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateTodoValidatesPriority(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/todos", fiber.Map{
		"description": "x",
		"priority":    "CRITICAL",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body validationBody
	decodeBody(t, resp, &body)
	assert.Contains(t, body.ValidationErrors, "priority")
}

func TestCreateTodoReturnsDerivedFlags(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/todos", fiber.Map{
		"description": "  plan offsite  ",
		"endDate":     dateIn(2).String(),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created todov1.TodoResponse
	decodeBody(t, resp, &created)
	assert.Equal(t, "plan offsite", created.Description, "description is trimmed before storage")
	assert.False(t, created.Completed)
	assert.False(t, created.IsOverdue)
	assert.False(t, created.IsDueToday)
	assert.True(t, created.IsDueSoon)
}

func TestListTodosPaginatedEnvelope(t *testing.T) {
	app, db := newTestApp(t)

	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&model.Todo{Description: "routine task"}).Error)
	}
	require.NoError(t, db.Create(&model.Todo{Description: "special errand", Completed: true}).Error)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos?page=2&limit=5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body paginatedTodos
	decodeBody(t, resp, &body)
	assert.Len(t, body.Data, 5)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.Equal(t, 5, body.Pagination.PerPage)
	assert.Equal(t, int64(13), body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.TotalPages)
}

func TestListTodosComposesSearchAndFilter(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "buy milk"}).Error)
	require.NoError(t, db.Create(&model.Todo{Description: "buy milk again", Completed: true}).Error)
	require.NoError(t, db.Create(&model.Todo{Description: "write report"}).Error)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos?search=milk&filter=pending", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body paginatedTodos
	decodeBody(t, resp, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "buy milk", body.Data[0].Description)
	assert.Equal(t, int64(1), body.Pagination.Total)
}

func TestGetTodoRejectsBadID(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/v1/todos/abc", "/api/v1/todos/0", "/api/v1/todos/-4"} {
		resp := doJSON(t, app, fiber.MethodGet, path, nil)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "path %s", path)

		var body response.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, fiber.StatusBadRequest, body.Status)
	}
}

func TestGetTodoNotFoundBody(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/9999", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body response.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusNotFound, body.Status)
	assert.Equal(t, "/api/v1/todos/9999", body.Path)
	assert.False(t, body.Timestamp.IsZero())
}

func TestUpdateTodoRequiresVersion(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "sync calendars"}).Error)

	resp := doJSON(t, app, fiber.MethodPut, "/api/v1/todos/1", fiber.Map{
		"description": "sync calendars weekly",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body validationBody
	decodeBody(t, resp, &body)
	assert.Contains(t, body.ValidationErrors, "version")
}

func TestUpdateTodoStaleVersionConflicts(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "sign lease"}).Error)

	resp := doJSON(t, app, fiber.MethodPut, "/api/v1/todos/1", fiber.Map{
		"description": "sign lease today",
		"version":     0,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated todov1.TodoResponse
	decodeBody(t, resp, &updated)
	assert.Equal(t, int64(1), updated.Version)

	resp = doJSON(t, app, fiber.MethodPut, "/api/v1/todos/1", fiber.Map{
		"description": "stale write",
		"version":     0,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var conflict response.ErrorResponse
	decodeBody(t, resp, &conflict)
	assert.Equal(t, fiber.StatusConflict, conflict.Status)
	assert.Equal(t, "Concurrent modification detected", conflict.Error)
}

func TestDeleteTodoReturnsNoContent(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "temp"}).Error)

	resp := doJSON(t, app, fiber.MethodDelete, "/api/v1/todos/1", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/v1/todos/1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestToggleTodoBumpsVersion(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "mow lawn"}).Error)

	resp := doJSON(t, app, fiber.MethodPatch, "/api/v1/todos/1/toggle", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var toggled todov1.TodoResponse
	decodeBody(t, resp, &toggled)
	assert.True(t, toggled.Completed)
	assert.Equal(t, int64(1), toggled.Version)
}

func TestPriorityNameRejectedWithStructuredError(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/priority/whenever", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body response.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusBadRequest, body.Status)
	assert.Contains(t, body.Message, "whenever")
}

func TestDateRangeRejectedWithStructuredError(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/date-range?startDate=soon&endDate=2024-01-31", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body response.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusBadRequest, body.Status)
}

func TestOverdueFlagsAreMutuallyExclusive(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "late", EndDate: dateIn(-2)}).Error)
	require.NoError(t, db.Create(&model.Todo{Description: "late done", EndDate: dateIn(-2), Completed: true}).Error)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/overdue", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var todos []todov1.TodoResponse
	decodeBody(t, resp, &todos)
	require.Len(t, todos, 1)
	assert.Equal(t, "late", todos[0].Description)
	assert.True(t, todos[0].IsOverdue)
	assert.False(t, todos[0].IsDueToday)
}

func TestDueTodayFlags(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Todo{Description: "today open", EndDate: dateIn(0)}).Error)
	require.NoError(t, db.Create(&model.Todo{Description: "today done", EndDate: dateIn(0), Completed: true}).Error)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/due-today", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var todos []todov1.TodoResponse
	decodeBody(t, resp, &todos)
	require.Len(t, todos, 2)
	for _, todo := range todos {
		assert.True(t, todo.IsDueToday)
		assert.False(t, todo.IsOverdue)
	}
	assert.True(t, todos[0].IsDueSoon, "an open todo due today is also due soon")
	assert.False(t, todos[1].IsDueSoon, "completed todos are never due soon")
}

func TestGetTodosByCollaboratorCaseInsensitive(t *testing.T) {
	app, db := newTestApp(t)

	collabs := "Dana, Eli"
	require.NoError(t, db.Create(&model.Todo{Description: "handoff", Collaborators: &collabs}).Error)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/todos/collaborator/DANA", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var todos []todov1.TodoResponse
	decodeBody(t, resp, &todos)
	assert.Len(t, todos, 1)
}
