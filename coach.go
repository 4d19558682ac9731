package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadolammi/skillbridge/internal/auth"
	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/matching"
	"github.com/muhammadolammi/skillbridge/internal/storage"
)

const meetingPlace = "Better Youth Office"

var (
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("forbidden")
)

// Recommend ranks jobs at the mentee's experience level and mentors whose
// expertise covers the mentee's interests.
func (app *App) Recommend(ctx context.Context, p Profile) (Recommendations, error) {
	snap, err := catalog.Load(ctx, app.Catalog)
	if err != nil {
		return Recommendations{}, fmt.Errorf("load catalog: %w", err)
	}
	jobs := matching.FilterByExperience(snap.Jobs, p.Age)
	return Recommendations{
		Jobs:    matching.RankJobs(jobs, p.Skills),
		Mentors: matching.RankMentors(snap.Mentors, p.Interests),
	}, nil
}

// GeneratePlan asks the backend chain for a plan and stores it for email.
func (app *App) GeneratePlan(ctx context.Context, email string, req GeneratePlanRequest) (GeneratedPlan, error) {
	var jobs []catalog.Job
	if req.Kind == PlanJobMatch {
		snap, err := catalog.Load(ctx, app.Catalog)
		if err != nil {
			return GeneratedPlan{}, fmt.Errorf("load catalog: %w", err)
		}
		jobs = matching.FilterByExperience(snap.Jobs, req.Age)
	}

	system, user := prompts(req.Kind, req.Profile, jobs)
	res, err := app.Chain.Generate(ctx, system, user)
	if err != nil {
		return GeneratedPlan{Failures: res.Failures}, err
	}

	plan, err := app.Store.CreatePlan(ctx, storage.NewPlan{
		Email:      email,
		MenteeName: req.Name,
		Plan:       res.Text,
	})
	if err != nil {
		return GeneratedPlan{}, fmt.Errorf("save plan: %w", err)
	}
	return GeneratedPlan{Plan: plan, Backend: res.Backend, Failures: res.Failures}, nil
}

// notify stores a notification and publishes it. Publishing failures are logged only.
func (app *App) notify(ctx context.Context, in storage.NewNotification) {
	n, err := app.Store.CreateNotification(ctx, in)
	if err != nil {
		app.Log.Error().Err(err).Str("type", in.Type).Msg("failed to save notification")
		return
	}
	if err := app.Notifier.Publish(ctx, n); err != nil {
		app.Log.Warn().Err(err).Str("notification_id", n.ID).Msg("failed to publish notification")
	}
}

func (app *App) RequestMentor(ctx context.Context, mentee auth.User, in MentorRequestPayload) (database.MentorRequest, error) {
	name := in.MenteeName
	if name == "" {
		name = mentee.Name
	}
	req, err := app.Store.CreateMentorRequest(ctx, storage.NewMentorRequest{
		MenteeEmail: mentee.Email,
		MenteeName:  name,
		MentorEmail: in.MentorEmail,
		MentorName:  in.MentorName,
		Notes:       in.Notes,
	})
	if err != nil {
		return database.MentorRequest{}, err
	}
	app.notify(ctx, storage.NewNotification{
		RecipientEmail: in.MentorEmail,
		RecipientName:  in.MentorName,
		Type:           "mentor_request",
		Title:          fmt.Sprintf("New mentorship request from %s", name),
		Message:        fmt.Sprintf("%s would like you to be their mentor.", name),
		RelatedID:      req.ID,
	})
	return req, nil
}

// RespondToRequest accepts or rejects one of mentor's pending requests and
// tells the mentee.
func (app *App) RespondToRequest(ctx context.Context, mentor auth.User, id string, in RespondPayload) (bool, error) {
	pending, err := app.Store.MentorRequestsForMentor(ctx, mentor.Email, database.StatusPending)
	if err != nil {
		return false, err
	}
	var req *database.MentorRequest
	for i := range pending {
		if pending[i].ID == id {
			req = &pending[i]
			break
		}
	}
	if req == nil {
		return false, errNotFound
	}

	notes := in.Notes
	if notes == "" {
		verb := "Accepted"
		if in.Status == database.StatusRejected {
			verb = "Declined"
		}
		notes = fmt.Sprintf("%s connection request from %s", verb, req.MenteeName)
	}
	ok, err := app.Store.RespondToMentorRequest(ctx, id, in.Status, notes)
	if err != nil || !ok {
		return ok, err
	}

	n := storage.NewNotification{
		RecipientEmail: req.MenteeEmail,
		RecipientName:  req.MenteeName,
		RelatedID:      req.ID,
	}
	if in.Status == database.StatusAccepted {
		n.Type = "mentor_accepted"
		n.Title = fmt.Sprintf("%s Accepted Your Request", mentor.Name)
		n.Message = fmt.Sprintf("Great news! %s has accepted your mentorship request. Please meet them at %s.", mentor.Name, meetingPlace)
	} else {
		n.Type = "mentor_rejected"
		n.Title = fmt.Sprintf("%s Declined Your Request", mentor.Name)
		n.Message = fmt.Sprintf("%s has declined your mentorship request. Don't worry - keep exploring other opportunities!", mentor.Name)
	}
	app.notify(ctx, n)
	return true, nil
}

// Dashboard summarises a mentor's requests and the plan progress of accepted mentees.
func (app *App) Dashboard(ctx context.Context, mentor auth.User) (MentorDashboard, error) {
	all, err := app.Store.MentorRequestsForMentor(ctx, mentor.Email, "")
	if err != nil {
		return MentorDashboard{}, err
	}
	d := MentorDashboard{PendingRequests: []database.MentorRequest{}, Mentees: []MenteeProgress{}}
	total := 0
	for _, req := range all {
		switch req.Status {
		case database.StatusPending:
			d.Pending++
			d.PendingRequests = append(d.PendingRequests, req)
		case database.StatusAccepted:
			d.Accepted++
			mp := MenteeProgress{Name: req.MenteeName, Email: req.MenteeEmail}
			if req.RespondedAt != nil {
				mp.AcceptedAt = req.RespondedAt.Format(time.RFC3339)
			}
			plans, err := app.Store.PlansByEmail(ctx, req.MenteeEmail)
			if err != nil {
				app.Log.Warn().Err(err).Str("mentee", req.MenteeEmail).Msg("could not load mentee plans")
			}
			if len(plans) > 0 {
				sum := 0
				for _, p := range plans {
					sum += p.Progress
				}
				mp.Progress = sum / len(plans)
				mp.NumPlans = len(plans)
			}
			total += mp.Progress
			d.Mentees = append(d.Mentees, mp)
		}
	}
	if len(d.Mentees) > 0 {
		d.AverageProgress = total / len(d.Mentees)
	}
	return d, nil
}

// ownsPlan reports whether id is one of email's plans.
func (app *App) ownsPlan(ctx context.Context, email, id string) (bool, error) {
	plans, err := app.Store.PlansByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	for _, p := range plans {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}
