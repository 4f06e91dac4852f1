// internal/notify/recipient/resolver_test.go
package recipient

import (
	"context"
	"testing"

	"github.com/Nasrulloh23256/NesabaLearn/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Broadcast(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow(1, "Andi", "andi@example.com").
		AddRow(2, "Budi", "budi@example.com").
		AddRow(3, "Citra", "citra@example.com")

	mock.ExpectQuery(`SELECT id, name, email FROM users`).
		WithArgs(models.RoleMember).
		WillReturnRows(rows)

	r := New(db)

	users, err := r.Broadcast(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "andi@example.com", users[0].Email)
	assert.Equal(t, models.RoleMember, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolver_Broadcast_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email FROM users`).
		WithArgs(models.RoleMember).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))

	r := New(db)

	users, err := r.Broadcast(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, users)
}

func TestResolver_ByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, email, role FROM users`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "role"}).
			AddRow("Dewi", "dewi@example.com", models.RoleMember))

	r := New(db)

	u, err := r.ByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, "dewi@example.com", u.Email)
}

func TestResolver_ByID_Vanished(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, email, role FROM users`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "role"}))

	r := New(db)

	u, err := r.ByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, u)
}
