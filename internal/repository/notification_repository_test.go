package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

func TestNotificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications (email, text) VALUES ($1, $2) RETURNING id, created_at")).
		WithArgs("alice@example.com", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(41, now))

	n := &models.Notification{Email: "alice@example.com", Text: "hello"}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, int64(41), n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, text, created_at FROM notifications ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "text", "created_at"}).
			AddRow(1, "a@example.com", "one", now).
			AddRow(2, "b@example.com", "two", now))

	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryDeleteByIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE id = ANY($1)")).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByIDs(context.Background(), []int64{1, 2}))
	require.NoError(t, repo.DeleteByIDs(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
