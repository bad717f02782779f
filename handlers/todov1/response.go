package todov1

import (
	"time"

	"github.com/sahilchouksey/todo-api/model"
)

// dueSoonDays is the window for the isDueSoon flag.
const dueSoonDays = 3

// TodoResponse mirrors the stored record and adds the due-state booleans
// computed at response-build time. isDueSoon is true for already-overdue
// todos as well, by construction.
type TodoResponse struct {
	ID            int64           `json:"id"`
	Description   string          `json:"description"`
	StartDate     *model.Date     `json:"startDate"`
	EndDate       *model.Date     `json:"endDate"`
	Priority      *model.Priority `json:"priority"`
	Comments      *string         `json:"comments"`
	Collaborators *string         `json:"collaborators"`
	Completed     bool            `json:"completed"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Version       int64           `json:"version"`
	IsOverdue     bool            `json:"isOverdue"`
	IsDueToday    bool            `json:"isDueToday"`
	IsDueSoon     bool            `json:"isDueSoon"`
}

// NewTodoResponse builds the response body for a stored todo.
func NewTodoResponse(todo model.Todo) TodoResponse {
	today := model.Today()

	var overdue, dueToday, dueSoon bool
	if todo.EndDate != nil {
		overdue = todo.EndDate.Before(today.Time) && !todo.Completed
		dueToday = todo.EndDate.Equal(today.Time)
		dueSoon = todo.EndDate.Before(today.AddDate(0, 0, dueSoonDays+1)) && !todo.Completed
	}

	return TodoResponse{
		ID:            todo.ID,
		Description:   todo.Description,
		StartDate:     todo.StartDate,
		EndDate:       todo.EndDate,
		Priority:      todo.Priority,
		Comments:      todo.Comments,
		Collaborators: todo.Collaborators,
		Completed:     todo.Completed,
		CreatedAt:     todo.CreatedAt,
		UpdatedAt:     todo.UpdatedAt,
		Version:       todo.Version,
		IsOverdue:     overdue,
		IsDueToday:    dueToday,
		IsDueSoon:     dueSoon,
	}
}

// NewTodoResponses maps a result set.
func NewTodoResponses(todos []model.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, NewTodoResponse(todo))
	}
	return responses
}
