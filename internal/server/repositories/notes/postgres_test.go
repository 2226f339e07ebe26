package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	saveQuery   = `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*owner_id,\s*title,\s*content,\s*color\).*ON\s+CONFLICT\s+\(id\).*WHERE\s+notes\.owner_id\s*=\s*EXCLUDED\.owner_id\s+RETURNING\s+created_at\s*$`
	listQuery   = `(?s)^SELECT\s+id,\s*owner_id,\s*title,\s*content,\s*color,\s*created_at\s+FROM\s+notes\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`
	getQuery    = `(?s)^SELECT\s+id,\s*owner_id,\s*title,\s*content,\s*color,\s*created_at\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteQuery = `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s*$`
)

var noteColumns = []string{"id", "owner_id", "title", "content", "color", "created_at"}

func TestSave_NewNoteGetsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(saveQuery).
		WithArgs(sqlmock.AnyArg(), "u1", "title", "body", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Save(context.Background(), &models.Note{OwnerID: "u1", Title: "title", Content: "body", Color: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ForeignIDIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(saveQuery).
		WithArgs("n1", "u2", "t", "", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	_, err := repo.Save(context.Background(), &models.Note{ID: "n1", OwnerID: "u2", Title: "t"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(saveQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Save(context.Background(), &models.Note{ID: "n1", OwnerID: "u1", Title: "t"})
	assert.ErrorContains(t, err, "db error: db down")
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(listQuery).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(noteColumns).
			AddRow("n2", "u1", "second", "b", int64(2), now).
			AddRow("n1", "u1", "first", "a", int64(1), now.Add(-time.Minute)))
	mock.ExpectQuery(listQuery).WithArgs("u2").
		WillReturnRows(sqlmock.NewRows(noteColumns))
	mock.ExpectQuery(listQuery).WithArgs("u3").WillReturnError(errors.New("db err"))

	got, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, int64(1), got[1].Color)

	empty, err := repo.ListByOwner(context.Background(), "u2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = repo.ListByOwner(context.Background(), "u3")
	assert.ErrorContains(t, err, "failed to select notes")
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQuery).WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(noteColumns).AddRow("n1", "u1", "t", "c", int64(3), time.Now()))
	mock.ExpectQuery(getQuery).WithArgs("n2").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)

	_, err = repo.GetByID(context.Background(), "n2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQuery).WithArgs("n1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQuery).WithArgs("n1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQuery).WithArgs("n1", "u3").WillReturnError(errors.New("db err"))

	require.NoError(t, repo.Delete(context.Background(), "n1", "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "n1", "u2"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), "n1", "u3"), "db error")
}
