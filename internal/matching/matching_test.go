package matching

import (
	"testing"

	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillMatch(t *testing.T) {
	assert.Equal(t, 50.0, SkillMatch([]string{"Python", " SQL "}, "python, sql, docker, aws"))
	assert.Equal(t, 100.0, SkillMatch([]string{"excel"}, "Excel"))
	assert.Zero(t, SkillMatch(nil, "python"))
	assert.Zero(t, SkillMatch([]string{"python"}, ""))
}

func TestFilterByExperience(t *testing.T) {
	jobs := []catalog.Job{
		{Title: "a", ExperienceLevel: "Entry-Level"},
		{Title: "b", ExperienceLevel: "mid-level"},
		{Title: "c", ExperienceLevel: "senior"},
	}
	young := FilterByExperience(jobs, 22)
	require.Len(t, young, 1)
	assert.Equal(t, "a", young[0].Title)

	assert.Len(t, FilterByExperience(jobs, 30), 1)
	assert.Len(t, FilterByExperience(jobs, 40), 2)

	onlySenior := []catalog.Job{{Title: "c", ExperienceLevel: "senior"}}
	assert.Equal(t, onlySenior, FilterByExperience(onlySenior, 20), "empty filter falls back to all jobs")
}

func TestRankJobs(t *testing.T) {
	var jobs []catalog.Job
	for _, req := range []string{"go", "python, sql", "python", "java", "sql, go, docker", "sql", "python, java"} {
		jobs = append(jobs, catalog.Job{Title: req, RequiredSkills: req})
	}
	ranked := RankJobs(jobs, []string{"python", "sql"})
	require.Len(t, ranked, 5)
	assert.Equal(t, 100.0, ranked[0].SkillMatch)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].SkillMatch, ranked[i].SkillMatch)
		assert.Positive(t, ranked[i].SkillMatch)
	}
	assert.Empty(t, RankJobs(jobs, nil))
}

func TestRankMentors(t *testing.T) {
	mentors := []catalog.Mentor{
		{Name: "ux", Expertise: "UX Design"},
		{Name: "data", Expertise: "Data Science, Machine Learning"},
		{Name: "cloud", Expertise: "Cloud Computing, DevOps"},
		{Name: "ml", Expertise: "Machine Learning"},
	}
	ranked := RankMentors(mentors, "machine learning, data science")
	require.Len(t, ranked, 2)
	assert.Equal(t, "data", ranked[0].Name)
	assert.Equal(t, 2, ranked[0].MatchScore)
	assert.Equal(t, "ml", ranked[1].Name)

	assert.Empty(t, RankMentors(mentors, "  "))
}
