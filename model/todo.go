package model

import (
	"errors"
	"strings"
	"time"
)

// Priority is the urgency level of a todo. Values are stored as their
// upper-case names.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority resolves a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank is the sort position of a priority: URGENT first, todos without a
// priority after everything else. The order is total, so every record has
// a defined rank.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Todo is the single persisted record of the service. CreatedAt and
// UpdatedAt are maintained by GORM; UpdatedAt is refreshed on every write.
// Version is the optimistic-concurrency token checked by the v1 update.
type Todo struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Description   string    `gorm:"type:text" json:"description"`
	StartDate     *Date     `gorm:"type:date" json:"startDate"`
	EndDate       *Date     `gorm:"type:date" json:"endDate"`
	Priority      *Priority `gorm:"type:varchar(10)" json:"priority"`
	Comments      *string   `gorm:"type:text" json:"comments"`
	Collaborators *string   `gorm:"type:varchar(500)" json:"collaborators"`
	Completed     bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Version       int64     `gorm:"not null;default:0" json:"version"`
}
