package market

import "context"

// Store provides access to the persisted marketplace records.
//
// The Find methods outside of a transaction are used for read paths,
// writes always go through a Tx so multi-row changes are atomic.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)

	FindUsers(ctx context.Context, filter *UserFilter) ([]AppUser, error)
	FindEmployers(ctx context.Context, filter *EmployerFilter) ([]Employer, error)
	FindFreelancers(ctx context.Context, filter *FreelancerFilter) ([]Freelancer, error)
	FindPets(ctx context.Context, filter *PetFilter) ([]Pet, error)

	// ListOpenJobs returns all open job posts joined with employer and
	// pet display data, most recently created first.
	ListOpenJobs(ctx context.Context) ([]JobListing, error)
}

// Tx is a transaction on the store. Implementations map their errors
// to errorz sentinels where appropriate.
type Tx interface {
	Commit() error
	Rollback() error

	CreateUser(u *AppUser) error
	UpdateUser(u *AppUser) error
	FindUsers(filter *UserFilter) ([]AppUser, error)

	CreateEmployer(e *Employer) error
	UpdateEmployer(e *Employer) error
	FindEmployers(filter *EmployerFilter) ([]Employer, error)

	CreateFreelancer(f *Freelancer) error
	UpdateFreelancer(f *Freelancer) error
	FindFreelancers(filter *FreelancerFilter) ([]Freelancer, error)

	CreatePet(p *Pet) error
	CreateJobPost(j *JobPost) error
}
