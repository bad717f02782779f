package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sahilchouksey/todo-api/model"
	"gorm.io/gorm"
)

// CreateTodoRequest is the validated creation payload of the v1 surface.
// Completed is not accepted; new todos always start pending.
type CreateTodoRequest struct {
	Description   string          `json:"description" validate:"required,max=1000"`
	StartDate     *model.Date     `json:"startDate"`
	EndDate       *model.Date     `json:"endDate"`
	Priority      *model.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Comments      *string         `json:"comments" validate:"omitempty,max=2000"`
	Collaborators *string         `json:"collaborators" validate:"omitempty,max=500"`
}

// UpdateTodoRequest is the validated partial-update payload of the v1
// surface. Version is required: the write only lands if the stored
// version still matches it.
type UpdateTodoRequest struct {
	Description   *string         `json:"description" validate:"omitempty,max=1000"`
	StartDate     *model.Date     `json:"startDate"`
	EndDate       *model.Date     `json:"endDate"`
	Priority      *model.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Comments      *string         `json:"comments" validate:"omitempty,max=2000"`
	Collaborators *string         `json:"collaborators" validate:"omitempty,max=500"`
	Completed     *bool           `json:"completed"`
	Version       *int64          `json:"version" validate:"required"`
}

func (r UpdateTodoRequest) patch() TodoPatch {
	return TodoPatch{
		Description:   r.Description,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Priority:      r.Priority,
		Comments:      r.Comments,
		Collaborators: r.Collaborators,
		Completed:     r.Completed,
	}
}

// TodoServiceModern backs the validated, paginated /api/v1/todos surface.
// Unlike the legacy service, its list operation composes search and filter
// as AND predicates and its update is guarded by an optimistic version
// check.
type TodoServiceModern struct {
	db *gorm.DB
}

func NewTodoServiceModern(db *gorm.DB) *TodoServiceModern {
	return &TodoServiceModern{db: db}
}

func (s *TodoServiceModern) CreateTodo(req CreateTodoRequest) (*model.Todo, error) {
	todo := &model.Todo{
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Priority:      req.Priority,
		Comments:      req.Comments,
		Collaborators: req.Collaborators,
		Completed:     false,
	}

	if err := s.db.Create(todo).Error; err != nil {
		return nil, err
	}

	log.Printf("Created todo %d", todo.ID)
	return todo, nil
}

// ListTodos conjoins the search and filter predicates, optionally applies
// the priority ordering, and paginates. Unrecognized filter names
// contribute no predicate; search still applies.
func (s *TodoServiceModern) ListTodos(search, filter, sort string, page, limit int) ([]model.Todo, int64, error) {
	query := s.db.Model(&model.Todo{})

	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	switch strings.ToLower(filter) {
	case "completed":
		query = query.Where("completed = ?", true)
	case "pending":
		query = query.Where("completed = ?", false)
	case "overdue":
		query = query.Where("end_date < ? AND completed = ?", model.Today(), false)
	case "due-today":
		query = query.Where("end_date = ?", model.Today())
	case "high-priority":
		query = query.Where("priority = ?", string(model.PriorityHigh))
	case "urgent":
		query = query.Where("priority = ?", string(model.PriorityUrgent))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sort == "priority" {
		query = query.Order(priorityOrder)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var todos []model.Todo
	err := query.Limit(limit).Offset((page - 1) * limit).Find(&todos).Error
	return todos, total, err
}

func (s *TodoServiceModern) GetTodoByID(id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := s.db.First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo merges the present request fields onto the stored todo and
// writes it back with a compare-and-swap on the version column. A missed
// swap on an existing todo means another writer got there first.
func (s *TodoServiceModern) UpdateTodo(id int64, req UpdateTodoRequest) (*model.Todo, error) {
	todo, err := s.GetTodoByID(id)
	if err != nil {
		return nil, err
	}

	req.patch().Apply(todo)

	var priority, startDate, endDate interface{}
	if todo.Priority != nil {
		priority = string(*todo.Priority)
	}
	if todo.StartDate != nil {
		startDate = *todo.StartDate
	}
	if todo.EndDate != nil {
		endDate = *todo.EndDate
	}

	updates := map[string]interface{}{
		"description":   todo.Description,
		"start_date":    startDate,
		"end_date":      endDate,
		"priority":      priority,
		"comments":      todo.Comments,
		"collaborators": todo.Collaborators,
		"completed":     todo.Completed,
		"version":       *req.Version + 1,
		"updated_at":    time.Now().UTC(),
	}

	result := s.db.Model(&model.Todo{}).
		Where("id = ? AND version = ?", id, *req.Version).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConcurrentModification
	}

	log.Printf("Updated todo %d", id)
	return s.GetTodoByID(id)
}

func (s *TodoServiceModern) DeleteTodo(id int64) error {
	todo, err := s.GetTodoByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(todo).Error; err != nil {
		return err
	}
	log.Printf("Deleted todo %d", id)
	return nil
}

// ToggleTodoCompletion flips completed. The operation carries no payload
// and therefore no version token; it still bumps the version.
func (s *TodoServiceModern) ToggleTodoCompletion(id int64) (*model.Todo, error) {
	todo, err := s.GetTodoByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"completed": !todo.Completed,
		"version":   todo.Version + 1,
	}
	if err := s.db.Model(todo).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetTodoByID(id)
}

// GetTodosByPriorityName validates the name against the enum before
// querying.
func (s *TodoServiceModern) GetTodosByPriorityName(name string) ([]model.Todo, error) {
	priority, err := model.ParsePriority(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid priority", ErrInvalidArgument, name)
	}

	var todos []model.Todo
	return todos, s.db.Where("priority = ?", string(priority)).Find(&todos).Error
}

// GetTodosByDateRange returns todos whose own range is fully bounded by
// [start, end].
func (s *TodoServiceModern) GetTodosByDateRange(startDate, endDate string) ([]model.Todo, error) {
	start, err := model.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed startDate %q", ErrInvalidArgument, startDate)
	}
	end, err := model.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed endDate %q", ErrInvalidArgument, endDate)
	}

	var todos []model.Todo
	return todos, s.db.Where("start_date >= ? AND end_date <= ?", start, end).Find(&todos).Error
}

func (s *TodoServiceModern) GetOverdueTodos() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("end_date < ? AND completed = ?", model.Today(), false).Find(&todos).Error
}

func (s *TodoServiceModern) GetTodosDueToday() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("end_date = ?", model.Today()).Find(&todos).Error
}

func (s *TodoServiceModern) GetTodosByCollaborator(collaborator string) ([]model.Todo, error) {
	var todos []model.Todo
	pattern := "%" + strings.ToLower(collaborator) + "%"
	return todos, s.db.Where("LOWER(collaborators) LIKE ?", pattern).Find(&todos).Error
}
