package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/email"
)

// AppUser is the base identity record shared by both roles.
type AppUser struct {
	ID           uuid.UUID
	Name         string
	Email        email.Address
	PasswordHash auth.Argon2Hash
	Type         auth.UserType
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter filters users in Find queries. Empty fields are ignored.
type UserFilter struct {
	IDs    []uuid.UUID
	Emails []email.Address
	Types  []auth.UserType
}

// Employer extends an AppUser with type employer. Exactly one employer
// row exists per employer-typed user.
type Employer struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Budget float64
}

// EmployerFilter filters employers in Find queries. Empty fields are ignored.
type EmployerFilter struct {
	IDs     []uuid.UUID
	UserIDs []uuid.UUID
}

// Freelancer extends an AppUser with type freelancer. Exactly one
// freelancer row exists per freelancer-typed user.
type Freelancer struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Bio            string
	ProfilePicture string
}

// FreelancerFilter filters freelancers in Find queries. Empty fields are ignored.
type FreelancerFilter struct {
	IDs     []uuid.UUID
	UserIDs []uuid.UUID
}
