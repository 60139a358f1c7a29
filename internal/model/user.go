package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleAdmin is the administrator role
	RoleAdmin = "admin"
	// RoleRecruiter is the regular recruiter role
	RoleRecruiter = "recruiter"
)

// User is the gorm model for an authenticated account.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string   `json:"email"`
	Tel      *string   `json:"tel"`
	Password string    `json:"-"`
	Role     string    `gorm:"type:text;not null" json:"role"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
