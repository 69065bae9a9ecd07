package domain

import (
	"context"
	"time"

	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// Role is the access level of a staff account.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleOps     Role = "OPS"
	RoleCashier Role = "CASHIER"
)

// Valid reports whether the role is one of the declared values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOps, RoleCashier:
		return true
	}
	return false
}

// User is a staff account. Cashiers own the sales they ring up.
type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash       *string   `json:"-"`
	Role               Role      `json:"role" gorm:"type:varchar(16);not null;default:'CASHIER'"`
	MustChangePassword bool      `json:"must_change_password" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (User) TableName() string {
	return "users"
}

// Columns is the user column metadata used for request validation.
var Columns = query.NewColumns(
	[]string{"id", "name", "email", "password_hash", "role", "must_change_password", "created_at", "updated_at"},
	nil,
	[]string{"id", "email"},
)

// UserRepository defines the contract for user data access.
type UserRepository interface {
	gormrepo.Ops[User]
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByRole(ctx context.Context, role Role, take, skip int) ([]User, error)
}
