package todov1

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/services"
	"github.com/sahilchouksey/todo-api/utils/response"
	"github.com/sahilchouksey/todo-api/utils/validation"
	"gorm.io/gorm"
)

// TodoHandler is the /api/v1/todos surface: validated payloads, paginated
// lists and structured error bodies.
type TodoHandler struct {
	service   *services.TodoServiceModern
	validator *validation.Validator
}

// NewTodoHandler creates the v1 todo handler
func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{
		service:   services.NewTodoServiceModern(db),
		validator: validation.NewValidator(),
	}
}

// respondError maps service error kinds to structured responses.
func (h *TodoHandler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConcurrentModification):
		return response.Conflict(c, "The todo has been modified by another request. Please refresh and try again.")
	default:
		return response.InternalServerError(c, "")
	}
}

func (h *TodoHandler) paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// CreateTodo handles POST /api/v1/todos
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var req services.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Sanitize before validating so a whitespace-only description is
	// rejected as missing rather than stored empty.
	req.Description = validation.SanitizeString(req.Description)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	todo, err := h.service.CreateTodo(req)
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Created(c, NewTodoResponse(*todo))
}

// ListTodos handles GET /api/v1/todos
//
// Unlike the legacy surface, search and filter compose as AND predicates
// and the result is paginated.
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")
	filter := c.Query("filter", "")
	sort := c.Query("sort", "")

	todos, total, err := h.service.ListTodos(search, filter, sort, page, limit)
	if err != nil {
		return h.respondError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, NewTodoResponses(todos), pagination)
}

// GetTodo handles GET /api/v1/todos/:id
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	id, err := h.paramID(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	todo, err := h.service.GetTodoByID(id)
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponse(*todo))
}

// UpdateTodo handles PUT /api/v1/todos/:id. The payload must carry the
// version the client read; a stale version is rejected with 409.
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	id, err := h.paramID(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req services.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	todo, err := h.service.UpdateTodo(id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponse(*todo))
}

// DeleteTodo handles DELETE /api/v1/todos/:id
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	id, err := h.paramID(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.service.DeleteTodo(id); err != nil {
		return h.respondError(c, err)
	}
	return response.NoContent(c)
}

// ToggleTodo handles PATCH /api/v1/todos/:id/toggle
func (h *TodoHandler) ToggleTodo(c *fiber.Ctx) error {
	id, err := h.paramID(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	todo, err := h.service.ToggleTodoCompletion(id)
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponse(*todo))
}

// GetTodosByPriority handles GET /api/v1/todos/priority/:priority
func (h *TodoHandler) GetTodosByPriority(c *fiber.Ctx) error {
	todos, err := h.service.GetTodosByPriorityName(c.Params("priority"))
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponses(todos))
}

// GetTodosByCollaborator handles GET /api/v1/todos/collaborator/:collaborator
func (h *TodoHandler) GetTodosByCollaborator(c *fiber.Ctx) error {
	todos, err := h.service.GetTodosByCollaborator(c.Params("collaborator"))
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponses(todos))
}

// GetTodosByDateRange handles GET /api/v1/todos/date-range?startDate=&endDate=
func (h *TodoHandler) GetTodosByDateRange(c *fiber.Ctx) error {
	todos, err := h.service.GetTodosByDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponses(todos))
}

// GetOverdueTodos handles GET /api/v1/todos/overdue
func (h *TodoHandler) GetOverdueTodos(c *fiber.Ctx) error {
	todos, err := h.service.GetOverdueTodos()
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponses(todos))
}

// GetTodosDueToday handles GET /api/v1/todos/due-today
func (h *TodoHandler) GetTodosDueToday(c *fiber.Ctx) error {
	todos, err := h.service.GetTodosDueToday()
	if err != nil {
		return h.respondError(c, err)
	}
	return response.Success(c, NewTodoResponses(todos))
}
