// internal/notify/recipient/resolver.go
package recipient

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Nasrulloh23256/NesabaLearn/internal/models"
)

// Resolver enumerates notification audiences. Broadcast kinds go to every
// member-role user with a delivery address; quiz results go to one user.
type Resolver struct {
	db *sql.DB
}

func New(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

// Broadcast returns a snapshot of all users holding the member role with a
// non-null email. An empty result is not an error.
func (r *Resolver) Broadcast(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email FROM users WHERE role = $1 AND email IS NOT NULL`,
		models.RoleMember,
	)
	if err != nil {
		return nil, fmt.Errorf("list broadcast recipients: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u := models.User{Role: models.RoleMember}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}
	return users, nil
}

// ByID looks up a single user. Returns (nil, nil) when the user no longer
// exists; a vanished recipient is simply absent, not an error.
func (r *Resolver) ByID(ctx context.Context, userID int64) (*models.User, error) {
	u := models.User{ID: userID}
	var email sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT name, email, role FROM users WHERE id = $1`,
		userID,
	).Scan(&u.Name, &email, &u.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	u.Email = email.String
	return &u, nil
}
