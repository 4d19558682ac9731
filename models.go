package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadolammi/skillbridge/internal/auth"
	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/llm"
	"github.com/muhammadolammi/skillbridge/internal/matching"
	"github.com/muhammadolammi/skillbridge/internal/notify"
	"github.com/muhammadolammi/skillbridge/internal/resume"
	"github.com/muhammadolammi/skillbridge/internal/storage"
	"github.com/rs/zerolog"
)

// App holds the process-wide dependencies shared by the CLI and the HTTP API.
type App struct {
	Config   Config
	Log      zerolog.Logger
	DB       *sqlx.DB // nil without a warehouse
	Store    *storage.Store
	Catalog  catalog.Source
	Auth     *auth.Service
	Chain    *llm.Chain
	Notifier notify.Publisher
	Resumes  *resume.Downloader // nil without R2
	Validate *validator.Validate
}

// Profile is the mentee profile collected before recommendations and plans.
type Profile struct {
	Name      string   `json:"name" validate:"required,max=120"`
	Age       int      `json:"age" validate:"gte=10,lte=100"`
	Skills    []string `json:"skills" validate:"max=50,dive,max=60"`
	Interests string   `json:"interests" validate:"max=500"`
	Resume    string   `json:"resume,omitempty"`
}

type PlanKind string

const (
	PlanUpskilling PlanKind = "upskilling"
	PlanAssessment PlanKind = "assessment"
	PlanJobMatch   PlanKind = "job-match"
)

type GeneratePlanRequest struct {
	Profile
	Kind PlanKind `json:"kind" validate:"omitempty,oneof=upskilling assessment job-match"`
}

type GeneratedPlan struct {
	Plan     database.Plan `json:"plan"`
	Backend  string        `json:"backend"`
	Failures []llm.Failure `json:"failures,omitempty"`
}

type Recommendations struct {
	Jobs    []matching.JobMatch    `json:"jobs"`
	Mentors []matching.MentorMatch `json:"mentors"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

type ProfileResponse struct {
	Profile       Profile         `json:"profile"`
	ExistingPlans []database.Plan `json:"existing_plans"`
}

type UpdateProgressRequest struct {
	Progress *int   `json:"progress" validate:"required"`
	Notes    string `json:"notes" validate:"max=2000"`
}

type MentorRequestPayload struct {
	MentorEmail string `json:"mentor_email" validate:"required,email"`
	MentorName  string `json:"mentor_name" validate:"required"`
	MenteeName  string `json:"mentee_name"`
	Notes       string `json:"notes" validate:"max=500"`
}

type RespondPayload struct {
	Status database.RequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
	Notes  string                 `json:"notes" validate:"max=500"`
}

type ResumeFromStorageRequest struct {
	ObjectKey string `json:"object_key" validate:"required"`
	Mime      string `json:"mime"`
}

type ResumeResponse struct {
	TextPreview string   `json:"text_preview"`
	Skills      []string `json:"skills"`
}

type MenteeProgress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Progress   int    `json:"progress"`
	NumPlans   int    `json:"num_plans"`
	AcceptedAt string `json:"accepted_at,omitempty"`
}

type MentorDashboard struct {
	Pending         int                      `json:"pending"`
	Accepted        int                      `json:"accepted"`
	PendingRequests []database.MentorRequest `json:"pending_requests"`
	Mentees         []MenteeProgress         `json:"mentees"`
	AverageProgress int                      `json:"average_progress"`
}
