package market

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is an open enumeration, job posts can carry statuses we
// don't know about. Only StatusOpen has meaning to this app: it marks
// the posts that show up in the listing.
type JobStatus string

const (
	StatusOpen   JobStatus = "open"
	StatusClosed JobStatus = "closed"
)

// JobPost is a pet care job posted by an employer.
type JobPost struct {
	ID          uuid.UUID
	EmployerID  uuid.UUID
	PetID       uuid.UUID
	Title       string
	Description string
	DateStart   time.Time
	DateEnd     time.Time
	Status      JobStatus
	HourlyRate  float64
	CreatedAt   time.Time
}

// JobListing is a job post joined with the display data of its
// employer and pet.
type JobListing struct {
	JobPost
	EmployerName     string
	EmployerLocation string
	PetName          string
	PetType          string
}
