// Package db implements market.Store on top of SQLite.
package db

import (
	"context"
	"database/sql"

	"github.com/pawmatch/pawmatch/internal/market"
)

// Store is responsible for interacting with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store.
func New(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (market.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx: tx,
	}, nil
}

// FindUsers queries for users based on the provided filter.
// It returns an empty slice if no users are found.
func (s *Store) FindUsers(ctx context.Context, filter *market.UserFilter) ([]market.AppUser, error) {
	return selectUsers(s.queryFunc(ctx), filter)
}

// FindEmployers queries for employers based on the provided filter.
func (s *Store) FindEmployers(ctx context.Context, filter *market.EmployerFilter) ([]market.Employer, error) {
	return selectEmployers(s.queryFunc(ctx), filter)
}

// FindFreelancers queries for freelancers based on the provided filter.
func (s *Store) FindFreelancers(ctx context.Context, filter *market.FreelancerFilter) ([]market.Freelancer, error) {
	return selectFreelancers(s.queryFunc(ctx), filter)
}

// FindPets queries for pets based on the provided filter.
func (s *Store) FindPets(ctx context.Context, filter *market.PetFilter) ([]market.Pet, error) {
	return selectPets(s.queryFunc(ctx), filter)
}

// ListOpenJobs returns all open job posts joined with employer and pet
// display data, most recently created first.
func (s *Store) ListOpenJobs(ctx context.Context) ([]market.JobListing, error) {
	return selectOpenJobs(s.queryFunc(ctx))
}

func (s *Store) queryFunc(ctx context.Context) queryFunc {
	return func(query string, params ...any) (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query, params...)
	}
}
