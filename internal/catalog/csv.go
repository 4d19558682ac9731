package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var sampleFiles = map[string]string{
	TableUsers:   "roles_sample.csv",
	TableJobs:    "job_openings_sample.csv",
	TableMentors: "mentors_sample.csv",
}

// CSVSource reads the sample catalog files from a local directory.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// records returns the rows of table keyed by lower-cased header names.
func (s *CSVSource) records(table string) ([]map[string]string, error) {
	name, ok := sampleFiles[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", table, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var out []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", table, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		out = append(out, row)
	}
}

func (s *CSVSource) Jobs(_ context.Context) ([]Job, error) {
	rows, err := s.records(TableJobs)
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, Job{
			Title:           r["title"],
			Company:         r["company"],
			Description:     r["description"],
			RequiredSkills:  r["required_skills"],
			ExperienceLevel: r["experience_level"],
			Location:        r["location"],
			Salary:          r["salary"],
			JobURL:          r["job_url"],
		})
	}
	return jobs, nil
}

// Mentors returns no rows when the mentors file is absent.
func (s *CSVSource) Mentors(_ context.Context) ([]Mentor, error) {
	rows, err := s.records(TableMentors)
	if errors.Is(err, os.ErrNotExist) {
		return []Mentor{}, nil
	}
	if err != nil {
		return nil, err
	}
	mentors := make([]Mentor, 0, len(rows))
	for _, r := range rows {
		years, _ := strconv.Atoi(r["experience_years"])
		mentors = append(mentors, Mentor{
			Name:            r["name"],
			Email:           r["email"],
			Expertise:       r["expertise"],
			Bio:             r["bio"],
			ExperienceYears: years,
		})
	}
	return mentors, nil
}

func (s *CSVSource) Users(_ context.Context) ([]User, error) {
	rows, err := s.records(TableUsers)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		role := r["role"]
		if role == "" {
			role = "mentee"
		}
		users = append(users, User{
			ID:       r["id"],
			Username: r["username"],
			Email:    r["email"],
			Password: r["password"],
			Role:     strings.ToLower(role),
			Name:     r["name"],
		})
	}
	return users, nil
}
