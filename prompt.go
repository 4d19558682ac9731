package main

import (
	"fmt"
	"strings"

	"github.com/muhammadolammi/skillbridge/internal/catalog"
)

const coachSystemPrompt = "You are a career coach. Provide practical, personalized career advice."

const jobMatchingSystemPrompt = `You are an expert AI Career Coach specializing in matching candidates with ideal job opportunities based on their skills, experience, and career goals.

Your role is to:
1. Analyze the mentee's profile including age, skills, experience level, and educational background
2. Review available job openings from the company's database
3. Identify the best matching opportunities based on skill alignment and career progression potential
4. Provide personalized recommendations with clear justifications

When analyzing job matches, consider:
- Core skill requirements vs. candidate's skills
- Experience level alignment
- Growth potential and learning opportunities
- Salary expectations if available
- Location preferences if mentioned

Be encouraging but realistic about career prospects. Focus on opportunities where the candidate has at least 70% of required skills.
Format your recommendations clearly with job titles, companies, match scores, and specific reasons why each role is suitable.`

const assessmentSystemPrompt = `You are an expert AI Career Coach providing an initial assessment of a mentee's career profile.

Your role is to:
1. Synthesize the mentee's profile information (age, background, skills, interests)
2. Assess current career readiness level
3. Identify key strengths and potential areas for development
4. Suggest primary and alternative career paths based on their profile
5. Provide motivating feedback and next steps

Be supportive and encouraging while being honest about current capabilities and market demand.
Acknowledge the mentee's strengths and help them understand how to leverage them.
Focus on actionable insights that can guide their career development.`

// profileBlock renders the profile lines the mock backend also reads back.
func profileBlock(p Profile) string {
	skills := strings.Join(p.Skills, ", ")
	if skills == "" {
		skills = "Not specified"
	}
	interests := p.Interests
	if interests == "" {
		interests = "Not specified"
	}
	return fmt.Sprintf("- Name: %s\n- Current Skills: %s\n- Career Interests: %s\n- Age: %d\n",
		p.Name, skills, interests, p.Age)
}

func upskillingPrompt(p Profile) string {
	return "Based on this mentee's profile:\n" + profileBlock(p) + `
Provide a concise upskilling plan (max 200 words) with:
1. Top 3 skills to learn next
2. Recommended learning path (short-term, medium-term, long-term)
3. Estimated time commitment

Keep it practical and actionable.`
}

func assessmentPrompt(p Profile) string {
	var resumeSection string
	if p.Resume != "" {
		text := p.Resume
		if len(text) > 1000 {
			text = text[:1000] + "..."
		}
		resumeSection = "Resume/Background:\n" + text + "\n\n"
	}
	return "A new mentee has just joined our coaching program. Please provide an initial assessment of their career profile.\n\n" +
		"Mentee Information:\n" + profileBlock(p) + "\n" + resumeSection + `Please provide:
1. Career Readiness Assessment (novice/intermediate/advanced)
2. Key Strengths
3. Areas for Development
4. Suggested Career Paths (primary and alternative)
5. Immediate Action Items (top 3 things to focus on)
6. Motivating Message

Be encouraging while being realistic about the current job market and their positioning.`
}

func jobMatchPrompt(p Profile, jobs []catalog.Job) string {
	return "Mentee profile:\n" + profileBlock(p) + `
Please analyze the following available job openings and provide your top 3-5 recommendations.

Available Job Openings:
` + formatJobs(jobs) + `
Please provide:
1. Top recommended jobs with match scores (0-100%)
2. Why each role is a good fit
3. Any skill gaps that should be addressed before applying
4. Recommended next steps for the mentee

Focus on realistic opportunities where the mentee has strong potential to succeed.`
}

func formatJobs(jobs []catalog.Job) string {
	if len(jobs) == 0 {
		return "No job openings currently available.\n"
	}
	var b strings.Builder
	for i, j := range jobs {
		fmt.Fprintf(&b, "Job #%d\nTitle: %s\nCompany: %s\nDescription: %s\nRequired Skills: %s\nExperience Level: %s\nLocation: %s\n",
			i+1, j.Title, j.Company, j.Description, j.RequiredSkills, j.ExperienceLevel, j.Location)
		if j.Salary != "" {
			fmt.Fprintf(&b, "Salary: %s\n", j.Salary)
		}
		if j.JobURL != "" {
			fmt.Fprintf(&b, "Apply: %s\n", j.JobURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// prompts returns the system and user prompt for a plan kind.
func prompts(kind PlanKind, p Profile, jobs []catalog.Job) (string, string) {
	switch kind {
	case PlanAssessment:
		return assessmentSystemPrompt, assessmentPrompt(p)
	case PlanJobMatch:
		return jobMatchingSystemPrompt, jobMatchPrompt(p, jobs)
	default:
		return coachSystemPrompt, upskillingPrompt(p)
	}
}
