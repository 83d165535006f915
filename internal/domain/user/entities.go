package user

import (
	"time"
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBorrower, RoleLender, RoleAdmin:
		return true
	}
	return false
}

// SelfService reports whether the role may be chosen at public registration.
// Admins are provisioned out of band.
func (r Role) SelfService() bool { return r == RoleBorrower || r == RoleLender }

type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex:ux_users_username" json:"username"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Identity is what the identity provider resolves a request to.
type Identity struct {
	UserID string
	Role   Role
}
