// internal/notify/suppression/oracle_test.go
package suppression

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOracle_HasSubmittedAssignment(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	o := New(db)

	submitted, err := o.HasSubmittedAssignment(context.Background(), 3, 7)
	assert.NoError(t, err)
	assert.True(t, submitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_HasAttemptedQuiz(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	o := New(db)

	attempted, err := o.HasAttemptedQuiz(context.Background(), 11, 7)
	assert.NoError(t, err)
	assert.False(t, attempted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnError(errors.New("connection refused"))

	o := New(db)

	_, err = o.HasAttemptedQuiz(context.Background(), 1, 1)
	assert.Error(t, err)
}
