package llm

import (
	"context"
	"strings"
	"text/template"
)

const MockName = "mock"

var mockPlan = template.Must(template.New("plan").Parse(`**Personalized Upskilling Plan for {{.Name}}**

**Top 3 Skills to Learn Next:**
1. **Advanced Python/Data Engineering** - Builds on your current skills ({{.Skills}}) and aligns with high-demand roles
2. **Cloud Architecture (AWS/GCP)** - Critical for modern {{.Interests}} roles
3. **System Design & Scalability** - Essential for senior positions and architectural roles

**Recommended Learning Path:**

**Short-term (0-3 months):**
- Complete a cloud certification course (AWS Solutions Architect Associate)
- Build 1-2 projects using cloud services relevant to {{.Interests}}
- Time commitment: 7-10 hours/week

**Medium-term (3-6 months):**
- Deepen expertise in microservices and containerization (Docker, Kubernetes)
- Contribute to open-source projects in your area of interest
- Take advanced courses on system design
- Time commitment: 8-12 hours/week

**Long-term (6-12 months):**
- Pursue role-based certifications (Cloud Architect, DevOps Engineer)
- Lead technical projects showcasing new skills
- Network with industry experts and mentors
- Time commitment: 5-8 hours/week

**Key Milestones:**
- Month 1-2: Foundation in cloud services
- Month 3: First cloud-based project
- Month 6: Cloud certification earned
- Month 12: Advanced project completion + mentoring others

**Resources:**
- Coursera, Udemy for structured learning
- LeetCode, HackerRank for practice
- GitHub for showcasing projects
- Local meetups and conferences for networking

This roadmap should help you advance toward your goals in {{.Interests}}. Start with foundation-building and progressively take on more complex projects!`))

// Mock renders a fixed plan from the profile lines of the user prompt. It needs
// no network and never fails, so it closes every chain.
type Mock struct{}

func (Mock) Name() string { return MockName }

func (Mock) Generate(_ context.Context, _, user string) (string, error) {
	var b strings.Builder
	err := mockPlan.Execute(&b, map[string]string{
		"Name":      profileField(user, "Name:"),
		"Skills":    profileField(user, "Current Skills:"),
		"Interests": profileField(user, "Career Interests:"),
		"Age":       profileField(user, "Age:"),
	})
	if err != nil {
		return "", serviceErr(MockName, "render plan: %w", err)
	}
	return b.String(), nil
}

// profileField returns the rest of the line after label, without list dashes.
func profileField(message, label string) string {
	i := strings.Index(message, label)
	if i < 0 {
		return "your field"
	}
	rest := message[i+len(label):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	v := strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), "-"))
	if v == "" {
		return "your field"
	}
	return v
}
