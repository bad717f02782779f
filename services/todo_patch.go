package services

import "github.com/sahilchouksey/todo-api/model"

// TodoPatch carries a partial update. Nil fields leave the stored value
// unchanged, so a patch cannot clear a field back to null; clearing takes
// an explicit empty value where the field's type allows one.
type TodoPatch struct {
	Description   *string         `json:"description"`
	StartDate     *model.Date     `json:"startDate"`
	EndDate       *model.Date     `json:"endDate"`
	Priority      *model.Priority `json:"priority"`
	Comments      *string         `json:"comments"`
	Collaborators *string         `json:"collaborators"`
	Completed     *bool           `json:"completed"`
}

// Apply merges the present fields onto the todo.
func (p TodoPatch) Apply(todo *model.Todo) {
	if p.Description != nil {
		todo.Description = *p.Description
	}
	if p.StartDate != nil {
		todo.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		todo.EndDate = p.EndDate
	}
	if p.Priority != nil {
		todo.Priority = p.Priority
	}
	if p.Comments != nil {
		todo.Comments = p.Comments
	}
	if p.Collaborators != nil {
		todo.Collaborators = p.Collaborators
	}
	if p.Completed != nil {
		todo.Completed = *p.Completed
	}
}
