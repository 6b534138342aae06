package models

import (
	"time"
)

// User is the login identity backing both DEOs and advisors.
type User struct {
	ID         int64      `json:"id" db:"id" example:"1"`
	Username   string     `json:"username" db:"username" example:"deo.cs"`
	Password   string     `json:"-" db:"password"`
	Email      *string    `json:"email,omitempty" db:"email" example:"deo@university.edu"`
	FirstName  string     `json:"first_name" db:"first_name" example:"Ayesha"`
	LastName   string     `json:"last_name" db:"last_name" example:"Khan"`
	Role       Role       `json:"role" db:"role" example:"deo"`
	IsActive   bool       `json:"is_active" db:"is_active" example:"true"`
	LastLogin  *time.Time `json:"last_login,omitempty" db:"last_login"`
	DateJoined time.Time  `json:"date_joined" db:"date_joined"`
}

// DEO is the departmental administrator profile attached to a user.
type DEO struct {
	ID             int64   `json:"id" db:"id"`
	UserID         int64   `json:"user_id" db:"user_id"`
	DepartmentName *string `json:"department_name" db:"department_name"`
	User           *User   `json:"user,omitempty"`
}

// Advisor is a faculty member scoped under a DEO.
type Advisor struct {
	ID        int64        `json:"id" db:"id"`
	UserID    int64        `json:"user_id" db:"user_id"`
	DEOID     *int64       `json:"deo" db:"deo_id"`
	Faculty   *string      `json:"faculty" db:"faculty"`
	Seniority *Seniority   `json:"seniority" db:"seniority"`
	Year      *AdvisorYear `json:"year" db:"year"`
	User      *User        `json:"user,omitempty"`
}

// RefreshToken is an issued refresh token tracked for blacklisting.
type RefreshToken struct {
	ID            int64      `db:"id"`
	JTI           string     `db:"jti"`
	UserID        int64      `db:"user_id"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	BlacklistedAt *time.Time `db:"blacklisted_at"`
}

// IsBlacklisted reports whether the token has been revoked.
func (t *RefreshToken) IsBlacklisted() bool {
	return t.BlacklistedAt != nil
}
