package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

type stubUsers map[string]bool

func (s stubUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return s[username], nil
}

type failingUsers struct{}

func (failingUsers) ExistsByUsername(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

var (
	today = time.Date(2026, 10, 15, 17, 30, 0, 0, time.UTC)
	users = stubUsers{"alice": true, "bob": true}
)

func day(offset int) string {
	return Date(today).AddDate(0, 0, offset).Format(model.DateLayout)
}

func TestPrepare_Deploy(t *testing.T) {
	p, err := Prepare(context.Background(), users, Input{
		Title:      "Deploy",
		AssignedTo: "alice",
		DueDate:    day(1),
		Status:     "To Do",
	}, today)
	require.NoError(t, err)
	assert.Equal(t, "Deploy", p.Title)
	assert.Equal(t, "To Do", p.Status)
	assert.Equal(t, day(1), p.DueDate.Format(model.DateLayout))
	assert.Empty(t, p.Warning)
}

func TestPrepare_DefaultsDueDateAndStatus(t *testing.T) {
	p, err := Prepare(context.Background(), users, Input{Title: "Write docs", AssignedTo: "bob"}, today)
	require.NoError(t, err)
	assert.Equal(t, Date(today), p.DueDate)
	assert.Equal(t, model.DefaultStatus, p.Status)
}

func TestPrepare_DueDateRules(t *testing.T) {
	tests := []struct {
		name    string
		due     string
		wantErr error
		warn    bool
	}{
		{"yesterday", day(-1), apperrors.ErrDueDateNotFuture, false},
		{"today", day(0), apperrors.ErrDueDateNotFuture, false},
		{"tomorrow", day(1), nil, false},
		{"exactly a year", day(365), nil, false},
		{"a year and a day", day(366), nil, true},
		{"four hundred days", day(400), nil, true},
		{"garbage", "next tuesday", apperrors.ErrInvalidDueDate, false},
		{"wrong layout", "15/10/2027", apperrors.ErrInvalidDueDate, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Prepare(context.Background(), users, Input{Title: "T", AssignedTo: "alice", DueDate: tt.due}, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.DueDate.After(Date(today)))
			if tt.warn {
				assert.Equal(t, WarningDueDateFarAhead, p.Warning)
			} else {
				assert.Empty(t, p.Warning)
			}
		})
	}
}

func TestPrepare_UnknownAssigneeWinsOverDate(t *testing.T) {
	for _, due := range []string{"", day(-3), day(0), day(5), "bogus"} {
		_, err := Prepare(context.Background(), users, Input{Title: "T", AssignedTo: "ghost", DueDate: due}, today)
		assert.ErrorIs(t, err, apperrors.ErrAssigneeNotFound, due)
		assert.Equal(t, "Assigned user does not exist.", err.Error())
	}

	_, err := Prepare(context.Background(), users, Input{Title: "T", AssignedTo: "  "}, today)
	assert.ErrorIs(t, err, apperrors.ErrAssigneeNotFound)
}

func TestPrepare_TitleRequired(t *testing.T) {
	_, err := Prepare(context.Background(), users, Input{Title: "   ", AssignedTo: "alice"}, today)
	assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
}

func TestPrepare_LookupFailure(t *testing.T) {
	_, err := Prepare(context.Background(), failingUsers{}, Input{Title: "T", AssignedTo: "alice"}, today)
	require.Error(t, err)
	assert.False(t, apperrors.IsValidation(err))
}

func TestPrepared_Apply(t *testing.T) {
	p, err := Prepare(context.Background(), users, Input{Title: "Ship", AssignedTo: "bob", DueDate: day(2), Status: "Doing"}, today)
	require.NoError(t, err)

	var task model.Task
	p.Apply(&task)
	assert.Equal(t, "Ship", task.Title)
	assert.Equal(t, "bob", task.AssignedTo)
	assert.Equal(t, "Doing", task.Status)
	assert.Equal(t, day(2), task.DueDateString())
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{"To Do", "Done", "blocked on legal", "🚀"} {
		got, err := ValidateStatus(status)
		assert.NoError(t, err)
		assert.Equal(t, status, got)
	}
	_, err := ValidateStatus("  ")
	assert.ErrorIs(t, err, apperrors.ErrStatusRequired)
}
