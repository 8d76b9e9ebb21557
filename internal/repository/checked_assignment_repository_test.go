package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

func TestCheckedAssignmentToggleCreatesWhenAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckedAssignmentRepository(db)

	mark := models.CheckedAssignment{UserID: 1, ClassName: "Algorithms", EventID: "evt-1"}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checked_assignments")).
		WithArgs(int64(1), "Algorithms", "evt-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checked_assignments")).
		WithArgs(int64(1), "Algorithms", "evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	checked, err := repo.Toggle(context.Background(), mark)
	require.NoError(t, err)
	assert.True(t, checked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckedAssignmentToggleRemovesWhenPresent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckedAssignmentRepository(db)

	mark := models.CheckedAssignment{UserID: 1, EventID: "evt-2"}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checked_assignments")).
		WithArgs(int64(1), "", "evt-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	checked, err := repo.Toggle(context.Background(), mark)
	require.NoError(t, err)
	assert.False(t, checked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckedAssignmentListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckedAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, class_name, event_id FROM checked_assignments WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "class_name", "event_id"}).AddRow(1, "", "evt-2"))

	marks, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "evt-2", marks[0].EventID)
}
