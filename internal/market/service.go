package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/email"
	"github.com/pawmatch/pawmatch/internal/errorz"
)

const (
	// Defaults for freshly registered freelancers.
	defaultBio            = "new freelancer"
	defaultProfilePicture = "default.jpg"
)

// Registration is the input for registering a new user. The type field
// comes from the query string of the register route, the rest from the
// form body.
type Registration struct {
	Name     string        `schema:"name"`
	Email    email.Address `schema:"email"`
	Password auth.Password `schema:"password"`
	Location string        `schema:"location"`
	Type     auth.UserType `schema:"type"`
}

// Credentials is the input for authenticating a user.
type Credentials struct {
	Email    email.Address `schema:"email"`
	Password auth.Password `schema:"password"`
}

// ProfileUpdate is the input for updating a profile. Name and Location
// always apply. The pointer fields only apply to the matching role and
// only when non-nil.
type ProfileUpdate struct {
	Name           string   `schema:"name"`
	Location       string   `schema:"location"`
	Budget         *float64 `schema:"budget"`
	Bio            *string  `schema:"bio"`
	ProfilePicture *string  `schema:"profile_picture"`
}

// Profile is the role-appropriate view of a user's profile. Exactly one
// of Employer/Freelancer is set, matching Type.
type Profile struct {
	Name     string
	Location string
	Type     auth.UserType

	Employer   *EmployerProfile
	Freelancer *FreelancerProfile
}

// EmployerProfile is the employer part of a profile.
type EmployerProfile struct {
	Budget float64
	Pets   []Pet
}

// FreelancerProfile is the freelancer part of a profile.
type FreelancerProfile struct {
	Bio            string
	ProfilePicture string
}

// Service provides the main rules of the marketplace: registration,
// authentication, profile management and the job listing.
type Service struct {
	store Store

	// comparisonHash is used to compare passwords when no user was found.
	comparisonHash auth.Argon2Hash

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewService(s Store) (*Service, error) {
	// Hash a random value so Authenticate can burn the same amount of
	// CPU when no user matches the provided email.
	pwd, err := auth.ParsePassword(uuid.New().String())
	if err != nil {
		return nil, err
	}

	hash, err := pwd.Hash()
	if err != nil {
		return nil, err
	}

	return &Service{
		store:          s,
		comparisonHash: hash,
		NowFunc:        time.Now,
	}, nil
}

// Register creates a new user with exactly one extension row matching
// the registered type. Both rows are created in a single transaction.
// A duplicate email surfaces as errorz.ErrConstraintViolated.
func (s *Service) Register(ctx context.Context, reg Registration) (auth.Identity, error) {
	if _, err := auth.ParseUserType(string(reg.Type)); err != nil {
		return auth.Identity{}, errorz.InvalidInput{errorz.Keyed{Key: "type", Err: err}}
	}

	// A zero password never went through ParsePassword, hashing it
	// would create an account with an empty plaintext.
	if reg.Password.IsZero() {
		return auth.Identity{}, errorz.InvalidInput{errorz.Keyed{Key: "password", Err: auth.ErrInvalidPassword}}
	}

	pwdHash, err := reg.Password.Hash()
	if err != nil {
		return auth.Identity{}, err
	}

	now := s.NowFunc()

	user := AppUser{
		ID:           uuid.New(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: pwdHash,
		Type:         reg.Type,
		Location:     reg.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.inTx(ctx, func(tx Tx) error {
		if txErr := tx.CreateUser(&user); txErr != nil {
			return txErr
		}

		switch reg.Type {
		case auth.UserTypeEmployer:
			return tx.CreateEmployer(&Employer{
				ID:     uuid.New(),
				UserID: user.ID,
				Budget: 0,
			})
		case auth.UserTypeFreelancer:
			return tx.CreateFreelancer(&Freelancer{
				ID:             uuid.New(),
				UserID:         user.ID,
				Bio:            defaultBio,
				ProfilePicture: defaultProfilePicture,
			})
		}

		return auth.ErrInvalidUserType
	})
	if err != nil {
		return auth.Identity{}, err
	}

	return auth.Identity{
		UserID:   user.ID,
		UserType: user.Type,
		Email:    user.Email,
	}, nil
}

// Authenticate checks the provided credentials and returns the identity
// of the matching user. A mismatch or unknown email both surface as
// errorz.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, c Credentials) (auth.Identity, error) {
	users, err := s.store.FindUsers(ctx, &UserFilter{
		Emails: []email.Address{c.Email},
	})
	if err != nil {
		return auth.Identity{}, err
	}

	if len(users) != 1 {
		// Even if no user is found we compare to a hash to prevent timing
		// differences that could result in user enumeration attacks.
		_ = c.Password.Match(s.comparisonHash)
		return auth.Identity{}, errorz.ErrInvalidCredentials
	}

	if !c.Password.Match(users[0].PasswordHash) {
		return auth.Identity{}, errorz.ErrInvalidCredentials
	}

	return auth.Identity{
		UserID:   users[0].ID,
		UserType: users[0].Type,
		Email:    users[0].Email,
	}, nil
}

// Profile assembles the profile view matching the identity's role.
// A missing extension row means the registration invariant was broken
// and surfaces as errorz.ErrNotFound.
func (s *Service) Profile(ctx context.Context, ident auth.Identity) (Profile, error) {
	if err := auth.Authenticated(ident); err != nil {
		return Profile{}, err
	}

	users, err := s.store.FindUsers(ctx, &UserFilter{IDs: []uuid.UUID{ident.UserID}})
	if err != nil {
		return Profile{}, err
	}

	if len(users) != 1 {
		return Profile{}, fmt.Errorf("user %s missing: %w", ident.UserID, errorz.ErrNotFound)
	}

	user := users[0]

	p := Profile{
		Name:     user.Name,
		Location: user.Location,
		Type:     user.Type,
	}

	switch user.Type {
	case auth.UserTypeEmployer:
		employer, err := s.findEmployer(ctx, user.ID)
		if err != nil {
			return Profile{}, err
		}

		pets, err := s.store.FindPets(ctx, &PetFilter{OwnerIDs: []uuid.UUID{employer.ID}})
		if err != nil {
			return Profile{}, err
		}

		p.Employer = &EmployerProfile{
			Budget: employer.Budget,
			Pets:   pets,
		}
	case auth.UserTypeFreelancer:
		freelancers, err := s.store.FindFreelancers(ctx, &FreelancerFilter{UserIDs: []uuid.UUID{user.ID}})
		if err != nil {
			return Profile{}, err
		}

		if len(freelancers) != 1 {
			return Profile{}, fmt.Errorf("freelancer row for user %s missing: %w", user.ID, errorz.ErrNotFound)
		}

		p.Freelancer = &FreelancerProfile{
			Bio:            freelancers[0].Bio,
			ProfilePicture: freelancers[0].ProfilePicture,
		}
	default:
		return Profile{}, auth.ErrInvalidUserType
	}

	return p, nil
}

// UpdateProfile updates the base row and, depending on the identity's
// role, the matching extension row. Validation happens before the first
// write and both rows are updated in a single transaction, so a failure
// never leaves the base row changed while the extension row is not.
func (s *Service) UpdateProfile(ctx context.Context, ident auth.Identity, update ProfileUpdate) error {
	if err := auth.Authenticated(ident); err != nil {
		return err
	}

	if ident.UserType == auth.UserTypeEmployer && update.Budget != nil {
		if err := validBudget(*update.Budget); err != nil {
			return errorz.InvalidInput{errorz.Keyed{Key: "budget", Err: err}}
		}
	}

	now := s.NowFunc()

	return s.inTx(ctx, func(tx Tx) error {
		users, err := tx.FindUsers(&UserFilter{IDs: []uuid.UUID{ident.UserID}})
		if err != nil {
			return err
		}

		if len(users) != 1 {
			return fmt.Errorf("user %s missing: %w", ident.UserID, errorz.ErrNotFound)
		}

		user := users[0]
		user.Name = update.Name
		user.Location = update.Location
		user.UpdatedAt = now

		if err := tx.UpdateUser(&user); err != nil {
			return err
		}

		switch user.Type {
		case auth.UserTypeEmployer:
			if update.Budget == nil {
				return nil
			}

			employers, err := tx.FindEmployers(&EmployerFilter{UserIDs: []uuid.UUID{user.ID}})
			if err != nil {
				return err
			}

			if len(employers) != 1 {
				return fmt.Errorf("employer row for user %s missing: %w", user.ID, errorz.ErrNotFound)
			}

			employers[0].Budget = *update.Budget

			return tx.UpdateEmployer(&employers[0])
		case auth.UserTypeFreelancer:
			if update.Bio == nil && update.ProfilePicture == nil {
				return nil
			}

			freelancers, err := tx.FindFreelancers(&FreelancerFilter{UserIDs: []uuid.UUID{user.ID}})
			if err != nil {
				return err
			}

			if len(freelancers) != 1 {
				return fmt.Errorf("freelancer row for user %s missing: %w", user.ID, errorz.ErrNotFound)
			}

			if update.Bio != nil {
				freelancers[0].Bio = *update.Bio
			}
			if update.ProfilePicture != nil {
				freelancers[0].ProfilePicture = *update.ProfilePicture
			}

			return tx.UpdateFreelancer(&freelancers[0])
		}

		return auth.ErrInvalidUserType
	})
}

// AddPet creates a pet owned by the identity's employer record.
//
// The role check runs before validation, a freelancer is denied no
// matter what the payload looks like. Optional fields that were not
// provided are stored as absent, never as zero values.
func (s *Service) AddPet(ctx context.Context, ident auth.Identity, newPet NewPet) (Pet, error) {
	if err := auth.Authenticated(ident); err != nil {
		return Pet{}, err
	}

	if err := auth.HasRole(ident, auth.UserTypeEmployer); err != nil {
		return Pet{}, err
	}

	var invalid errorz.InvalidInput
	if newPet.Name == "" {
		invalid = append(invalid, errorz.Keyed{Key: "pet_name", Err: errors.New("is required")})
	}
	if newPet.PetType == "" {
		invalid = append(invalid, errorz.Keyed{Key: "pet_type", Err: errors.New("is required")})
	}
	if len(invalid) > 0 {
		return Pet{}, invalid
	}

	employer, err := s.findEmployer(ctx, ident.UserID)
	if err != nil {
		return Pet{}, err
	}

	// Always passes while employer is resolved by the identity's own
	// user id. It only bites if that resolution ever changes, for
	// example an employer id taken from the request.
	if err := auth.Owns(ident, employer.UserID); err != nil {
		return Pet{}, err
	}

	pet := Pet{
		ID:           uuid.New(),
		OwnerID:      employer.ID,
		Name:         newPet.Name,
		PetType:      newPet.PetType,
		Age:          newPet.Age,
		SpecialNeeds: newPet.SpecialNeeds,
		CreatedAt:    s.NowFunc(),
	}

	err = s.inTx(ctx, func(tx Tx) error {
		return tx.CreatePet(&pet)
	})
	if err != nil {
		return Pet{}, err
	}

	return pet, nil
}

// OpenJobs returns all open job posts, most recently created first.
// Any authenticated identity may list jobs, the result is not filtered
// by viewer.
func (s *Service) OpenJobs(ctx context.Context, ident auth.Identity) ([]JobListing, error) {
	if err := auth.Authenticated(ident); err != nil {
		return nil, err
	}

	return s.store.ListOpenJobs(ctx)
}

// findEmployer loads the employer row belonging to the given user.
// A missing row surfaces as errorz.ErrNotFound, under correct
// invariants that cannot happen for an employer-typed identity.
func (s *Service) findEmployer(ctx context.Context, userID uuid.UUID) (Employer, error) {
	employers, err := s.store.FindEmployers(ctx, &EmployerFilter{UserIDs: []uuid.UUID{userID}})
	if err != nil {
		return Employer{}, err
	}

	if len(employers) != 1 {
		return Employer{}, fmt.Errorf("employer row for user %s missing: %w", userID, errorz.ErrNotFound)
	}

	return employers[0], nil
}

func validBudget(budget float64) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		return errors.New("must be a number")
	}

	if budget < 0 {
		return errors.New("must not be negative")
	}

	return nil
}

func (s *Service) inTx(ctx context.Context, f func(tx Tx) error) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}

	err = f(tx)
	if err != nil {
		rBackErr := tx.Rollback()
		if rBackErr != nil {
			err = errors.Join(err, rBackErr)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}
