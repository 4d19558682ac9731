package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/muhammadolammi/skillbridge/internal/database"
)

// SQLSource reads the catalog tables from the warehouse namespace.
type SQLSource struct {
	db      *sqlx.DB
	dialect database.Dialect
	ns      database.Namespace
}

func NewSQLSource(db *sqlx.DB, ns database.Namespace) (*SQLSource, error) {
	dialect, err := database.DialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &SQLSource{db: db, dialect: dialect, ns: ns}, nil
}

type jobRow struct {
	Title           sql.NullString `db:"title"`
	Company         sql.NullString `db:"company"`
	Description     sql.NullString `db:"description"`
	RequiredSkills  sql.NullString `db:"required_skills"`
	ExperienceLevel sql.NullString `db:"experience_level"`
	Location        sql.NullString `db:"location"`
	Salary          sql.NullString `db:"salary"`
	JobURL          sql.NullString `db:"job_url"`
}

type mentorRow struct {
	Name            sql.NullString `db:"name"`
	Email           sql.NullString `db:"email"`
	Expertise       sql.NullString `db:"expertise"`
	Bio             sql.NullString `db:"bio"`
	ExperienceYears sql.NullInt64  `db:"experience_years"`
}

type userRow struct {
	ID       sql.NullString `db:"id"`
	Username sql.NullString `db:"username"`
	Email    sql.NullString `db:"email"`
	Password sql.NullString `db:"password"`
	Role     sql.NullString `db:"role"`
	Name     sql.NullString `db:"name"`
}

func (s *SQLSource) selectAll(ctx context.Context, dest any, table, columns string) error {
	loc := s.dialect.Qualify(s.ns, table)
	if err := s.db.SelectContext(ctx, dest, "SELECT "+columns+" FROM "+loc); err != nil {
		return fmt.Errorf("error querying %q: %w", table, err)
	}
	return nil
}

func (s *SQLSource) Jobs(ctx context.Context) ([]Job, error) {
	var rows []jobRow
	err := s.selectAll(ctx, &rows, TableJobs,
		"title, company, description, required_skills, experience_level, location, salary, job_url")
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, Job{
			Title:           r.Title.String,
			Company:         r.Company.String,
			Description:     r.Description.String,
			RequiredSkills:  r.RequiredSkills.String,
			ExperienceLevel: r.ExperienceLevel.String,
			Location:        r.Location.String,
			Salary:          r.Salary.String,
			JobURL:          r.JobURL.String,
		})
	}
	return jobs, nil
}

func (s *SQLSource) Mentors(ctx context.Context) ([]Mentor, error) {
	var rows []mentorRow
	if err := s.selectAll(ctx, &rows, TableMentors, "name, email, expertise, bio, experience_years"); err != nil {
		return nil, err
	}
	mentors := make([]Mentor, 0, len(rows))
	for _, r := range rows {
		mentors = append(mentors, Mentor{
			Name:            r.Name.String,
			Email:           r.Email.String,
			Expertise:       r.Expertise.String,
			Bio:             r.Bio.String,
			ExperienceYears: int(r.ExperienceYears.Int64),
		})
	}
	return mentors, nil
}

func (s *SQLSource) Users(ctx context.Context) ([]User, error) {
	var rows []userRow
	if err := s.selectAll(ctx, &rows, TableUsers, "id, username, email, password, role, name"); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		role := r.Role.String
		if role == "" {
			role = "mentee"
		}
		users = append(users, User{
			ID:       r.ID.String,
			Username: r.Username.String,
			Email:    r.Email.String,
			Password: r.Password.String,
			Role:     role,
			Name:     r.Name.String,
		})
	}
	return users, nil
}
