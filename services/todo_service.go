package services

import (
	"errors"
	"strings"
	"time"

	"github.com/sahilchouksey/todo-api/model"
	"gorm.io/gorm"
)

// priorityOrder ranks URGENT first and todos without a priority last,
// breaking ties by end date with undated todos after dated ones.
const priorityOrder = "CASE priority " +
	"WHEN 'URGENT' THEN 1 " +
	"WHEN 'HIGH' THEN 2 " +
	"WHEN 'MEDIUM' THEN 3 " +
	"WHEN 'LOW' THEN 4 " +
	"ELSE 5 END, end_date ASC NULLS LAST"

// TodoService backs the legacy /api/todos surface. Its finders are fixed
// single-predicate queries; the legacy handler picks exactly one of them
// per request.
type TodoService struct {
	db *gorm.DB
}

func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

// CreateTodo persists a new todo. Identity, timestamps and version are
// assigned by the store; completed always starts false.
func (s *TodoService) CreateTodo(todo *model.Todo) error {
	todo.ID = 0
	todo.Completed = false
	todo.Version = 0
	todo.CreatedAt = time.Time{}
	todo.UpdatedAt = time.Time{}
	return s.db.Create(todo).Error
}

func (s *TodoService) GetAllTodos() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Find(&todos).Error
}

// GetAllTodosOrdered returns every todo sorted by priority rank.
func (s *TodoService) GetAllTodosOrdered() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Order(priorityOrder).Find(&todos).Error
}

func (s *TodoService) GetTodoByID(id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := s.db.First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo merges the present patch fields onto the stored todo and
// writes it back. Last write wins on this surface; the version still
// advances so v1 clients detect the write.
func (s *TodoService) UpdateTodo(id int64, patch TodoPatch) (*model.Todo, error) {
	todo, err := s.GetTodoByID(id)
	if err != nil {
		return nil, err
	}

	patch.Apply(todo)
	todo.Version++

	if err := s.db.Save(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) DeleteTodo(id int64) error {
	todo, err := s.GetTodoByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(todo).Error
}

// ToggleTodoCompletion flips completed and leaves every other field
// untouched.
func (s *TodoService) ToggleTodoCompletion(id int64) (*model.Todo, error) {
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

func (s *TodoService) GetTodosByStatus(completed bool) ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("completed = ?", completed).Find(&todos).Error
}

func (s *TodoService) GetTodosByPriority(priority model.Priority) ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("priority = ?", string(priority)).Find(&todos).Error
}

// SearchTodosByDescription matches a case-insensitive substring of the
// description. LOWER/LIKE instead of ILIKE so the query runs on every
// supported dialect.
func (s *TodoService) SearchTodosByDescription(search string) ([]model.Todo, error) {
	var todos []model.Todo
	pattern := "%" + strings.ToLower(search) + "%"
	return todos, s.db.Where("LOWER(description) LIKE ?", pattern).Find(&todos).Error
}

func (s *TodoService) GetTodosByCollaborator(collaborator string) ([]model.Todo, error) {
	var todos []model.Todo
	pattern := "%" + strings.ToLower(collaborator) + "%"
	return todos, s.db.Where("LOWER(collaborators) LIKE ?", pattern).Find(&todos).Error
}

// GetOverdueTodos returns open todos whose end date has passed. Completed
// todos are never overdue.
func (s *TodoService) GetOverdueTodos() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("end_date < ? AND completed = ?", model.Today(), false).Find(&todos).Error
}

// GetTodosDueToday returns todos ending today regardless of completion.
func (s *TodoService) GetTodosDueToday() ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("end_date = ?", model.Today()).Find(&todos).Error
}

// GetTodosByDateRange returns todos whose own range is fully bounded by
// the query range, not todos merely overlapping it.
func (s *TodoService) GetTodosByDateRange(start, end model.Date) ([]model.Todo, error) {
	var todos []model.Todo
	return todos, s.db.Where("start_date >= ? AND end_date <= ?", start, end).Find(&todos).Error
}
