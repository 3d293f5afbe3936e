package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/db"
	"github.com/pawmatch/pawmatch/internal/email"
	"github.com/pawmatch/pawmatch/internal/errorz"
	"github.com/pawmatch/pawmatch/internal/market"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)

func insertUser(ef execFunc, u *market.AppUser) error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	var q db.Query
	q.Unsafe(`INSERT INTO app_user (id, name, email, password_hash, type, location, created_at, updated_at) VALUES (`)
	q.Params(u.ID, u.Name, string(u.Email), u.PasswordHash.String(), string(u.Type), u.Location, u.CreatedAt, u.UpdatedAt)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateUser(ef execFunc, u *market.AppUser) error {
	var q db.Query
	q.Unsafe(`UPDATE app_user SET `)

	q.Unsafe(`name = `)
	q.Param(u.Name)

	q.Unsafe(`, email = `)
	q.Param(string(u.Email))

	q.Unsafe(`, password_hash = `)
	q.Param(u.PasswordHash.String())

	q.Unsafe(`, location = `)
	q.Param(u.Location)

	q.Unsafe(`, updated_at = `)
	q.Param(u.UpdatedAt)

	// Deliberately no way to change type, the extension row it points
	// at is fixed at registration.
	q.Unsafe(` WHERE id = `)
	q.Param(u.ID)

	return execAffectingOne(ef, &q, "user")
}

func selectUsers(qf queryFunc, f *market.UserFilter) ([]market.AppUser, error) {
	var q db.Query
	q.Unsafe(`SELECT id, name, email, password_hash, type, location, created_at, updated_at FROM app_user WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.Emails) > 0 {
		q.Unsafe(`AND email IN (`)
		q.Params(anySlice(f.Emails)...)
		q.Unsafe(`) `)
	}

	if len(f.Types) > 0 {
		q.Unsafe(`AND type IN (`)
		q.Params(anySlice(f.Types)...)
		q.Unsafe(`) `)
	}

	q.Unsafe(`ORDER BY created_at ASC`)

	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]market.AppUser, 0)
	for rows.Next() {
		var u market.AppUser
		var addr, userType string
		err := rows.Scan(&u.ID, &u.Name, &addr, &u.PasswordHash, &userType, &u.Location, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		u.Email = email.Address(addr)
		u.Type = auth.UserType(userType)

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func insertEmployer(ef execFunc, e *market.Employer) error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	var q db.Query
	q.Unsafe(`INSERT INTO employer (id, user_id, budget) VALUES (`)
	q.Params(e.ID, e.UserID, e.Budget)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateEmployer(ef execFunc, e *market.Employer) error {
	var q db.Query
	q.Unsafe(`UPDATE employer SET budget = `)
	q.Param(e.Budget)
	q.Unsafe(` WHERE id = `)
	q.Param(e.ID)

	return execAffectingOne(ef, &q, "employer")
}

func selectEmployers(qf queryFunc, f *market.EmployerFilter) ([]market.Employer, error) {
	var q db.Query
	q.Unsafe(`SELECT id, user_id, budget FROM employer WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.UserIDs) > 0 {
		q.Unsafe(`AND user_id IN (`)
		q.Params(anySlice(f.UserIDs)...)
		q.Unsafe(`) `)
	}

	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]market.Employer, 0)
	for rows.Next() {
		var e market.Employer
		err := rows.Scan(&e.ID, &e.UserID, &e.Budget)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func insertFreelancer(ef execFunc, f *market.Freelancer) error {
	if f.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	var q db.Query
	q.Unsafe(`INSERT INTO freelancer (id, user_id, bio, profile_picture) VALUES (`)
	q.Params(f.ID, f.UserID, f.Bio, f.ProfilePicture)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateFreelancer(ef execFunc, f *market.Freelancer) error {
	var q db.Query
	q.Unsafe(`UPDATE freelancer SET bio = `)
	q.Param(f.Bio)
	q.Unsafe(`, profile_picture = `)
	q.Param(f.ProfilePicture)
	q.Unsafe(` WHERE id = `)
	q.Param(f.ID)

	return execAffectingOne(ef, &q, "freelancer")
}

func selectFreelancers(qf queryFunc, f *market.FreelancerFilter) ([]market.Freelancer, error) {
	var q db.Query
	q.Unsafe(`SELECT id, user_id, bio, profile_picture FROM freelancer WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.UserIDs) > 0 {
		q.Unsafe(`AND user_id IN (`)
		q.Params(anySlice(f.UserIDs)...)
		q.Unsafe(`) `)
	}

	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]market.Freelancer, 0)
	for rows.Next() {
		var fl market.Freelancer
		err := rows.Scan(&fl.ID, &fl.UserID, &fl.Bio, &fl.ProfilePicture)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, fl)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func insertPet(ef execFunc, p *market.Pet) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	var q db.Query
	q.Unsafe(`INSERT INTO pet (id, owner_id, name, pet_type, age, special_needs, created_at) VALUES (`)
	// Nil pointers become NULL, absent optional fields stay absent.
	q.Params(p.ID, p.OwnerID, p.Name, p.PetType, p.Age, p.SpecialNeeds, p.CreatedAt)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func selectPets(qf queryFunc, f *market.PetFilter) ([]market.Pet, error) {
	var q db.Query
	q.Unsafe(`SELECT id, owner_id, name, pet_type, age, special_needs, created_at FROM pet WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.OwnerIDs) > 0 {
		q.Unsafe(`AND owner_id IN (`)
		q.Params(anySlice(f.OwnerIDs)...)
		q.Unsafe(`) `)
	}

	q.Unsafe(`ORDER BY created_at ASC`)

	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]market.Pet, 0)
	for rows.Next() {
		var p market.Pet
		err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.PetType, &p.Age, &p.SpecialNeeds, &p.CreatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func insertJobPost(ef execFunc, j *market.JobPost) error {
	if j.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	var q db.Query
	q.Unsafe(`INSERT INTO job_post (id, employer_id, pet_id, title, description, date_start, date_end, status, hourly_rate, created_at) VALUES (`)
	q.Params(j.ID, j.EmployerID, j.PetID, j.Title, j.Description, j.DateStart, j.DateEnd, string(j.Status), j.HourlyRate, j.CreatedAt)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func selectOpenJobs(qf queryFunc) ([]market.JobListing, error) {
	var q db.Query
	q.Unsafe(`SELECT
		jp.id, jp.employer_id, jp.pet_id, jp.title, jp.description,
		jp.date_start, jp.date_end, jp.status, jp.hourly_rate, jp.created_at,
		u.name, u.location, p.name, p.pet_type
	FROM job_post jp
	JOIN employer e ON jp.employer_id = e.id
	JOIN app_user u ON e.user_id = u.id
	JOIN pet p ON jp.pet_id = p.id
	WHERE jp.status = `)
	q.Param(string(market.StatusOpen))
	q.Unsafe(` ORDER BY jp.created_at DESC`)

	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]market.JobListing, 0)
	for rows.Next() {
		var l market.JobListing
		var status string
		err := rows.Scan(
			&l.ID, &l.EmployerID, &l.PetID, &l.Title, &l.Description,
			&l.DateStart, &l.DateEnd, &status, &l.HourlyRate, &l.CreatedAt,
			&l.EmployerName, &l.EmployerLocation, &l.PetName, &l.PetType,
		)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		l.Status = market.JobStatus(status)

		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

// execAffectingOne runs an update that must affect exactly one row,
// zero affected rows surface as errorz.ErrNotFound.
func execAffectingOne(ef execFunc, q *db.Query, entity string) error {
	s, params := q.Get()

	result, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errorz.MapDBErr(err)
	}

	if rows == 0 {
		return fmt.Errorf("%s not found: %w", entity, errorz.ErrNotFound)
	}

	return nil
}

func anySlice[T any](s []T) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out
}
