// Package catalog reads the read-only reference tables: job openings, mentors
// and user accounts. Rows come from sample CSV files or from the warehouse.
package catalog

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

type Job struct {
	Title           string `db:"title" json:"title"`
	Company         string `db:"company" json:"company"`
	Description     string `db:"description" json:"description"`
	RequiredSkills  string `db:"required_skills" json:"required_skills"`
	ExperienceLevel string `db:"experience_level" json:"experience_level"`
	Location        string `db:"location" json:"location"`
	Salary          string `db:"salary" json:"salary,omitempty"`
	JobURL          string `db:"job_url" json:"job_url,omitempty"`
}

type Mentor struct {
	Name            string `db:"name" json:"name"`
	Email           string `db:"email" json:"email"`
	Expertise       string `db:"expertise" json:"expertise"`
	Bio             string `db:"bio" json:"bio"`
	ExperienceYears int    `db:"experience_years" json:"experience_years"`
}

type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
	Name     string `db:"name" json:"name"`
}

// Tables as named in the warehouse.
const (
	TableUsers   = "roles"
	TableJobs    = "job_openings"
	TableMentors = "mentors"
)

var ErrUnknownTable = errors.New("unknown catalog table")

type Source interface {
	Jobs(ctx context.Context) ([]Job, error)
	Mentors(ctx context.Context) ([]Mentor, error)
	Users(ctx context.Context) ([]User, error)
}

// Snapshot is the jobs and mentors a recommendation is computed from.
type Snapshot struct {
	Jobs    []Job
	Mentors []Mentor
}

// Load reads jobs and mentors concurrently.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := src.Jobs(ctx)
		snap.Jobs = jobs
		return err
	})
	g.Go(func() error {
		mentors, err := src.Mentors(ctx)
		snap.Mentors = mentors
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
