package todo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/model"
	"github.com/sahilchouksey/todo-api/services"
	"gorm.io/gorm"
)

// TodoHandler is the legacy /api/todos surface. It keeps the historical
// contract: no payload validation, mutually exclusive list parameters and
// a bare 500 for anything unexpected.
type TodoHandler struct {
	service *services.TodoService
}

// NewTodoHandler creates the legacy todo handler
func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{service: services.NewTodoService(db)}
}

// CreateTodo handles POST /api/todos
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var todo model.Todo
	if err := c.BodyParser(&todo); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if todo.Priority != nil && !todo.Priority.Valid() {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if err := h.service.CreateTodo(&todo); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// ListTodos handles GET /api/todos?sort=&filter=&search=
//
// Resolution order is fixed and mutually exclusive: a non-empty search
// wins, then a filter name, then sort=priority, then everything. An
// unrecognized filter name falls back to everything.
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	var (
		todos []model.Todo
		err   error
	)

	search := c.Query("search")
	filter := c.Query("filter")
	sort := c.Query("sort")

	switch {
	case search != "":
		todos, err = h.service.SearchTodosByDescription(search)
	case filter != "":
		switch strings.ToLower(filter) {
		case "completed":
			todos, err = h.service.GetTodosByStatus(true)
		case "pending":
			todos, err = h.service.GetTodosByStatus(false)
		case "overdue":
			todos, err = h.service.GetOverdueTodos()
		case "due-today":
			todos, err = h.service.GetTodosDueToday()
		case "high-priority":
			todos, err = h.service.GetTodosByPriority(model.PriorityHigh)
		case "urgent":
			todos, err = h.service.GetTodosByPriority(model.PriorityUrgent)
		default:
			todos, err = h.service.GetAllTodos()
		}
	case sort == "priority":
		todos, err = h.service.GetAllTodosOrdered()
	default:
		todos, err = h.service.GetAllTodos()
	}

	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todos)
}

// GetTodo handles GET /api/todos/:id
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	todo, err := h.service.GetTodoByID(id)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todo)
}

// UpdateTodo handles PUT /api/todos/:id. Fields absent from the payload
// keep their stored value; there is no version check on this surface.
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	var patch services.TodoPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	todo, err := h.service.UpdateTodo(id, patch)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todo)
}

// DeleteTodo handles DELETE /api/todos/:id
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if err := h.service.DeleteTodo(id); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTodo handles PATCH /api/todos/:id/toggle
func (h *TodoHandler) ToggleTodo(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	todo, err := h.service.ToggleTodoCompletion(id)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todo)
}

// GetTodosByPriority handles GET /api/todos/priority/:priority. A bad
// priority name is the one client error this surface reports as 400.
func (h *TodoHandler) GetTodosByPriority(c *fiber.Ctx) error {
	priority, err := model.ParsePriority(c.Params("priority"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	todos, err := h.service.GetTodosByPriority(priority)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todos)
}

// GetTodosByCollaborator handles GET /api/todos/collaborator/:collaborator
func (h *TodoHandler) GetTodosByCollaborator(c *fiber.Ctx) error {
	todos, err := h.service.GetTodosByCollaborator(c.Params("collaborator"))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todos)
}

// GetTodosByDateRange handles GET /api/todos/date-range?startDate=&endDate=
func (h *TodoHandler) GetTodosByDateRange(c *fiber.Ctx) error {
	start, err := model.ParseDate(c.Query("startDate"))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	end, err := model.ParseDate(c.Query("endDate"))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	todos, err := h.service.GetTodosByDateRange(start, end)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(todos)
}
