package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/resume"
)

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (app *App) loginHandler(c *gin.Context) {
	var req LoginRequest
	if !app.bindJSON(c, &req) {
		return
	}
	token, user, err := app.Auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (app *App) logoutHandler(c *gin.Context) {
	app.Auth.Logout(bearerToken(c))
	c.Status(http.StatusNoContent)
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (app *App) profileHandler(c *gin.Context) {
	var p Profile
	if !app.bindJSON(c, &p) {
		return
	}
	p.Skills = normalizeSkills(p.Skills)
	plans, err := app.Store.PlansByMenteeName(c.Request.Context(), p.Name)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	// names are not unique; only the caller's own plans are returned
	email := currentUser(c).Email
	mine := make([]database.Plan, 0, len(plans))
	for _, plan := range plans {
		if strings.EqualFold(plan.Email, email) {
			mine = append(mine, plan)
		}
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: p, ExistingPlans: mine})
}

// resumeHandler accepts a multipart "file" upload or a JSON reference to an
// object already uploaded to R2.
func (app *App) resumeHandler(c *gin.Context) {
	var (
		data []byte
		mime string
		err  error
	)
	if fh, ferr := c.FormFile("file"); ferr == nil {
		if mime, err = resume.Validate(fh.Filename, fh.Size); err != nil {
			app.respondWithAppError(c, err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "could not read upload")
			return
		}
		defer f.Close()
		if data, err = resume.ReadUpload(f); err != nil {
			app.respondWithAppError(c, err)
			return
		}
	} else {
		var req ResumeFromStorageRequest
		if !app.bindJSON(c, &req) {
			return
		}
		if app.Resumes == nil {
			respondWithError(c, http.StatusServiceUnavailable, "resume storage is not configured")
			return
		}
		mime = req.Mime
		if mime == "" {
			if mime, err = resume.MimeFor(req.ObjectKey); err != nil {
				app.respondWithAppError(c, err)
				return
			}
		}
		if data, err = app.Resumes.Download(c.Request.Context(), req.ObjectKey); err != nil {
			app.Log.Warn().Err(err).Str("object_key", req.ObjectKey).Msg("resume download failed")
			respondWithError(c, http.StatusBadGateway, "could not download resume")
			return
		}
	}

	text, err := resume.ExtractText(mime, data)
	if err != nil {
		respondWithError(c, http.StatusUnprocessableEntity, "text extraction error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, ResumeResponse{TextPreview: preview(text, 500), Skills: resume.ExtractSkills(text)})
}

func (app *App) recommendationsHandler(c *gin.Context) {
	var p Profile
	if !app.bindJSON(c, &p) {
		return
	}
	p.Skills = normalizeSkills(p.Skills)
	recs, err := app.Recommend(c.Request.Context(), p)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (app *App) createPlanHandler(c *gin.Context) {
	var req GeneratePlanRequest
	if !app.bindJSON(c, &req) {
		return
	}
	req.Skills = normalizeSkills(req.Skills)
	out, err := app.GeneratePlan(c.Request.Context(), currentUser(c).Email, req)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (app *App) listPlansHandler(c *gin.Context) {
	plans, err := app.Store.PlansByEmail(c.Request.Context(), currentUser(c).Email)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (app *App) updatePlanHandler(c *gin.Context) {
	var req UpdateProgressRequest
	if !app.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	owned, err := app.ownsPlan(ctx, currentUser(c).Email, id)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	if !owned {
		app.respondWithAppError(c, errNotFound)
		return
	}
	ok, err := app.Store.UpdatePlanProgress(ctx, id, *req.Progress, req.Notes)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	if !ok {
		app.respondWithAppError(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (app *App) createMentorRequestHandler(c *gin.Context) {
	var req MentorRequestPayload
	if !app.bindJSON(c, &req) {
		return
	}
	user := currentUser(c)
	if user.IsMentor() {
		app.respondWithAppError(c, errForbidden)
		return
	}
	out, err := app.RequestMentor(c.Request.Context(), user, req)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// listMentorRequestsHandler lists received requests for mentors and sent ones for mentees.
func (app *App) listMentorRequestsHandler(c *gin.Context) {
	user := currentUser(c)
	var (
		out []database.MentorRequest
		err error
	)
	if user.IsMentor() {
		out, err = app.Store.MentorRequestsForMentor(c.Request.Context(), user.Email, database.RequestStatus(c.Query("status")))
	} else {
		out, err = app.Store.MentorRequestsForMentee(c.Request.Context(), user.Email)
	}
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (app *App) respondMentorRequestHandler(c *gin.Context) {
	var req RespondPayload
	if !app.bindJSON(c, &req) {
		return
	}
	ok, err := app.RespondToRequest(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	if !ok {
		respondWithError(c, http.StatusConflict, "request was already answered")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (app *App) dashboardHandler(c *gin.Context) {
	d, err := app.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (app *App) notificationsHandler(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.Query("unread"))
	out, err := app.Store.Notifications(c.Request.Context(), currentUser(c).Email, unread)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (app *App) markNotificationReadHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	mine, err := app.Store.Notifications(ctx, currentUser(c).Email, false)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	found := false
	for _, n := range mine {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		app.respondWithAppError(c, errNotFound)
		return
	}
	marked, err := app.Store.MarkNotificationRead(ctx, id)
	if err != nil {
		app.respondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}
