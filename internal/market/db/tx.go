package db

import (
	"database/sql"

	"github.com/pawmatch/pawmatch/internal/market"
)

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// CreateUser creates a user in the database.
func (t *Tx) CreateUser(u *market.AppUser) error {
	return insertUser(t.tx.Exec, u)
}

// UpdateUser updates a user in the database.
// It returns errorz.ErrNotFound if no user is found.
func (t *Tx) UpdateUser(u *market.AppUser) error {
	return updateUser(t.tx.Exec, u)
}

// FindUsers queries for users based on the provided filter.
// It returns an empty slice if no users are found.
func (t *Tx) FindUsers(filter *market.UserFilter) ([]market.AppUser, error) {
	return selectUsers(t.tx.Query, filter)
}

// CreateEmployer creates an employer extension row in the database.
func (t *Tx) CreateEmployer(e *market.Employer) error {
	return insertEmployer(t.tx.Exec, e)
}

// UpdateEmployer updates an employer in the database.
// It returns errorz.ErrNotFound if no employer is found.
func (t *Tx) UpdateEmployer(e *market.Employer) error {
	return updateEmployer(t.tx.Exec, e)
}

// FindEmployers queries for employers based on the provided filter.
func (t *Tx) FindEmployers(filter *market.EmployerFilter) ([]market.Employer, error) {
	return selectEmployers(t.tx.Query, filter)
}

// CreateFreelancer creates a freelancer extension row in the database.
func (t *Tx) CreateFreelancer(f *market.Freelancer) error {
	return insertFreelancer(t.tx.Exec, f)
}

// UpdateFreelancer updates a freelancer in the database.
// It returns errorz.ErrNotFound if no freelancer is found.
func (t *Tx) UpdateFreelancer(f *market.Freelancer) error {
	return updateFreelancer(t.tx.Exec, f)
}

// FindFreelancers queries for freelancers based on the provided filter.
func (t *Tx) FindFreelancers(filter *market.FreelancerFilter) ([]market.Freelancer, error) {
	return selectFreelancers(t.tx.Query, filter)
}

// CreatePet creates a pet in the database. Optional fields that are nil
// are stored as NULL.
func (t *Tx) CreatePet(p *market.Pet) error {
	return insertPet(t.tx.Exec, p)
}

// CreateJobPost creates a job post in the database.
func (t *Tx) CreateJobPost(j *market.JobPost) error {
	return insertJobPost(t.tx.Exec, j)
}
