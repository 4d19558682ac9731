// Package matching ranks catalog rows against a mentee profile by plain
// lexical skill overlap.
package matching

import (
	"sort"
	"strings"

	"github.com/muhammadolammi/skillbridge/internal/catalog"
)

const (
	maxJobs    = 5
	maxMentors = 3
)

type JobMatch struct {
	catalog.Job
	SkillMatch float64 `json:"skill_match"`
}

type MentorMatch struct {
	catalog.Mentor
	MatchScore int `json:"match_score"`
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SkillMatch is the percentage of required skills the mentee has.
func SkillMatch(menteeSkills []string, required string) float64 {
	req := SplitList(strings.ToLower(required))
	if len(menteeSkills) == 0 || len(req) == 0 {
		return 0
	}
	have := make(map[string]bool, len(menteeSkills))
	for _, s := range menteeSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched := 0
	for _, r := range req {
		if have[r] {
			matched++
		}
	}
	return float64(matched) / float64(len(req)) * 100
}

// ExperienceLevels maps age to the job levels worth showing.
func ExperienceLevels(age int) []string {
	switch {
	case age < 25:
		return []string{"entry-level", "junior"}
	case age < 35:
		return []string{"junior", "mid-level"}
	default:
		return []string{"mid-level", "senior", "lead"}
	}
}

// FilterByExperience keeps jobs at the levels for age. When nothing is left
// every job is returned.
func FilterByExperience(jobs []catalog.Job, age int) []catalog.Job {
	levels := ExperienceLevels(age)
	var out []catalog.Job
	for _, j := range jobs {
		level := strings.ToLower(strings.TrimSpace(j.ExperienceLevel))
		for _, l := range levels {
			if level == l {
				out = append(out, j)
				break
			}
		}
	}
	if len(out) == 0 {
		return jobs
	}
	return out
}

// RankJobs returns up to five jobs with any skill overlap, best first.
func RankJobs(jobs []catalog.Job, skills []string) []JobMatch {
	out := []JobMatch{}
	if len(skills) == 0 {
		return out
	}
	for _, j := range jobs {
		if m := SkillMatch(skills, j.RequiredSkills); m > 0 {
			out = append(out, JobMatch{Job: j, SkillMatch: m})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].SkillMatch > out[b].SkillMatch })
	if len(out) > maxJobs {
		out = out[:maxJobs]
	}
	return out
}

// RankMentors scores each mentor by how many of the comma separated interests
// appear in their expertise and returns the top three with a positive score.
func RankMentors(mentors []catalog.Mentor, interests string) []MentorMatch {
	out := []MentorMatch{}
	wanted := SplitList(strings.ToLower(interests))
	if len(wanted) == 0 {
		return out
	}
	for _, m := range mentors {
		expertise := strings.ToLower(m.Expertise)
		score := 0
		for _, w := range wanted {
			if strings.Contains(expertise, w) {
				score++
			}
		}
		if score > 0 {
			out = append(out, MentorMatch{Mentor: m, MatchScore: score})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].MatchScore > out[b].MatchScore })
	if len(out) > maxMentors {
		out = out[:maxMentors]
	}
	return out
}
