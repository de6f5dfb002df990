// Package lifecycle validates and normalizes task data before it is stored.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// WarningDueDateFarAhead is advisory; the mutation still goes through.
const WarningDueDateFarAhead = "Due date is more than 12 months ahead!"

// farAheadDays is how far out a due date may be before it draws a warning.
const farAheadDays = 365

// UserLookup answers whether a username exists.
type UserLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// Input is the raw task form.
type Input struct {
	Title      string
	AssignedTo string
	DueDate    string
	Status     string
}

// Prepared is validated, normalized task data ready for storage.
type Prepared struct {
	Title      string
	AssignedTo string
	DueDate    time.Time
	Status     string
	Warning    string
}

// Apply copies the prepared fields onto t.
func (p *Prepared) Apply(t *model.Task) {
	due := p.DueDate
	t.Title = p.Title
	t.AssignedTo = p.AssignedTo
	t.DueDate = &due
	t.Status = p.Status
}

// Prepare checks a task form against the lifecycle rules. today is truncated
// to a calendar date; only its year, month and day matter.
func Prepare(ctx context.Context, users UserLookup, in Input, today time.Time) (*Prepared, error) {
	assignee := strings.TrimSpace(in.AssignedTo)
	exists := false
	if assignee != "" {
		var err error
		exists, err = users.ExistsByUsername(ctx, assignee)
		if err != nil {
			return nil, fmt.Errorf("lookup assignee: %w", err)
		}
	}
	if !exists {
		return nil, apperrors.ErrAssigneeNotFound
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	day := Date(today)
	prepared := &Prepared{
		Title:      title,
		AssignedTo: assignee,
		DueDate:    day,
		Status:     strings.TrimSpace(in.Status),
	}
	if prepared.Status == "" {
		prepared.Status = model.DefaultStatus
	}

	raw := strings.TrimSpace(in.DueDate)
	if raw == "" {
		return prepared, nil
	}

	due, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, apperrors.ErrInvalidDueDate
	}
	if !due.After(day) {
		return nil, apperrors.ErrDueDateNotFuture
	}
	if due.After(day.AddDate(0, 0, farAheadDays)) {
		prepared.Warning = WarningDueDateFarAhead
	}
	prepared.DueDate = due
	return prepared, nil
}

// ValidateStatus accepts any non-empty status. There is no transition graph.
func ValidateStatus(status string) (string, error) {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return "", apperrors.ErrStatusRequired
	}
	return trimmed, nil
}

// Date returns midnight UTC of t's calendar day in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
