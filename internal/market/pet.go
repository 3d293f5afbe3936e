package market

import (
	"time"

	"github.com/google/uuid"
)

// Pet is owned by exactly one employer. Age and SpecialNeeds are
// optional, a nil pointer means the field was never provided and is
// stored as NULL, not as a zero value.
type Pet struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	PetType      string
	Age          *int
	SpecialNeeds *string
	CreatedAt    time.Time
}

// PetFilter filters pets in Find queries. Empty fields are ignored.
type PetFilter struct {
	IDs      []uuid.UUID
	OwnerIDs []uuid.UUID
}

// NewPet is the input for creating a pet. The schema tags match the
// field names of the add-pet form.
type NewPet struct {
	Name         string  `schema:"pet_name"`
	PetType      string  `schema:"pet_type"`
	Age          *int    `schema:"pet_age"`
	SpecialNeeds *string `schema:"special_needs"`
}
