package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a closed two-value enum. Anything else is rejected at the
// boundary so a typo can never create a third privilege tier.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        Role      `gorm:"size:20;default:'employee'" json:"role"`
	IsApproved  bool      `gorm:"default:false" json:"isApproved"`
	PhoneNumber string    `gorm:"not null;size:32;uniqueIndex" json:"phoneNumber"`

	// Present only while a password recovery is in flight.
	OTP       *string    `gorm:"size:6" json:"-"`
	OTPExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
