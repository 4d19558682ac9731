package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/muhammadolammi/skillbridge/internal/auth"
	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/llm"
	"github.com/muhammadolammi/skillbridge/internal/notify"
	"github.com/muhammadolammi/skillbridge/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	src := catalog.NewCSVSource("data")
	app := &App{
		Config:   Config{DataDir: t.TempDir()},
		Log:      zerolog.Nop(),
		Store:    storage.New(nil, storage.ResolverConfig{}, t.TempDir()),
		Catalog:  src,
		Auth:     auth.NewService(src, 0),
		Chain:    llm.NewChain(zerolog.Nop(), llm.Mock{}),
		Notifier: notify.Nop{},
		Validate: validator.New(),
	}
	return app, newRouter(app)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, user string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/login", "", LoginRequest{Login: user, Password: "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSetupRoutesRegistersAPI(t *testing.T) {
	_, router := testApp(t)
	want := []struct{ method, path string }{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/api/login"},
		{"POST", "/api/plans"},
		{"PATCH", "/api/plans/:id"},
		{"POST", "/api/mentor-requests/:id/respond"},
		{"GET", "/api/mentor/dashboard"},
		{"POST", "/api/notifications/:id/read"},
	}
	routes := router.Routes()
	for _, exp := range want {
		found := false
		for _, r := range routes {
			if r.Method == exp.method && r.Path == exp.path {
				found = true
				break
			}
		}
		assert.True(t, found, "route %s %s not registered", exp.method, exp.path)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, router := testApp(t)
	w := doJSON(t, router, http.MethodPost, "/api/login", "", LoginRequest{Login: "jane_mentee", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	_, router := testApp(t)
	token := login(t, router, "JANE.MENTEE@betteryouth.org")

	w := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me auth.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "Jane Adeyemi", me.Name)
	assert.Equal(t, auth.RoleMentee, me.Role)

	w = doJSON(t, router, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlanLifecycle(t *testing.T) {
	_, router := testApp(t)
	token := login(t, router, "jane_mentee")

	profile := Profile{Name: "Jane Adeyemi", Age: 22, Skills: []string{"SQL, Excel"}, Interests: "data analysis"}
	w := doJSON(t, router, http.MethodPost, "/api/plans", token, GeneratePlanRequest{Profile: profile})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out GeneratedPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, llm.MockName, out.Backend)
	assert.Contains(t, out.Plan.Plan, "Jane Adeyemi")
	assert.Equal(t, "jane.mentee@betteryouth.org", out.Plan.Email)

	w = doJSON(t, router, http.MethodGet, "/api/plans", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []database.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	require.Len(t, plans, 1)

	w = doJSON(t, router, http.MethodPatch, "/api/plans/"+out.Plan.ID, token, map[string]any{"progress": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/plans/"+out.Plan.ID, token, map[string]any{"progress": 40, "notes": "week one done"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPatch, "/api/plans/unknown", token, map[string]any{"progress": 40})
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := login(t, router, "tunde_mentee")
	w = doJSON(t, router, http.MethodPatch, "/api/plans/"+out.Plan.ID, other, map[string]any{"progress": 90})
	assert.Equal(t, http.StatusNotFound, w.Code, "plans of other users are invisible")

	w = doJSON(t, router, http.MethodPost, "/api/profile", token, profile)
	require.Equal(t, http.StatusOK, w.Code)
	var pr ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pr))
	require.Len(t, pr.ExistingPlans, 1)
	assert.Equal(t, 40, pr.ExistingPlans[0].Progress)
	assert.Equal(t, []string{"sql", "excel"}, pr.Profile.Skills)
}

func TestProfileListsOnlyOwnPlans(t *testing.T) {
	_, router := testApp(t)
	jane := login(t, router, "jane_mentee")
	tunde := login(t, router, "tunde_mentee")

	shared := Profile{Name: "Jane Adeyemi", Age: 22, Interests: "data"}
	for _, token := range []string{jane, tunde} {
		w := doJSON(t, router, http.MethodPost, "/api/plans", token, GeneratePlanRequest{Profile: shared})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodPost, "/api/profile", tunde, shared)
	require.Equal(t, http.StatusOK, w.Code)
	var pr ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pr))
	require.Len(t, pr.ExistingPlans, 1)
	assert.Equal(t, "tunde.mentee@betteryouth.org", pr.ExistingPlans[0].Email)
}

func TestPreviewKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", preview("  short  ", 10))
	assert.Equal(t, "ab...", preview("abé", 3))
	assert.Equal(t, "abé...", preview("abéz", 4))
}

func TestPlanRequestValidation(t *testing.T) {
	_, router := testApp(t)
	token := login(t, router, "jane_mentee")
	w := doJSON(t, router, http.MethodPost, "/api/plans", token, map[string]any{"age": 22})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/plans", token, map[string]any{"name": "Jane", "age": 22, "kind": "poetry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerationExhaustedIsBadGateway(t *testing.T) {
	app, router := testApp(t)
	app.Chain = llm.NewChain(zerolog.Nop(), llm.NewServing("", "", ""))
	token := login(t, router, "jane_mentee")

	w := doJSON(t, router, http.MethodPost, "/api/plans", token, GeneratePlanRequest{Profile: Profile{Name: "Jane", Age: 22}})
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, generationHelp, body["remediation"])
	assert.Len(t, body["failures"], 1)
}

func TestRecommendations(t *testing.T) {
	_, router := testApp(t)
	token := login(t, router, "jane_mentee")
	w := doJSON(t, router, http.MethodPost, "/api/recommendations", token,
		Profile{Name: "Jane", Age: 22, Skills: []string{"sql", "excel", "python"}, Interests: "data"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var recs Recommendations
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.NotEmpty(t, recs.Jobs)
	assert.LessOrEqual(t, len(recs.Jobs), 5)
	assert.LessOrEqual(t, len(recs.Mentors), 3)
}

func TestMentorRequestFlow(t *testing.T) {
	_, router := testApp(t)
	mentee := login(t, router, "jane_mentee")
	mentor := login(t, router, "john_mentor")

	w := doJSON(t, router, http.MethodPost, "/api/mentor-requests", mentee, MentorRequestPayload{
		MentorEmail: "john.mentor@betteryouth.org", MentorName: "John Okafor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var req database.MentorRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &req))
	assert.Equal(t, database.StatusPending, req.Status)
	assert.Equal(t, "Jane Adeyemi", req.MenteeName)

	w = doJSON(t, router, http.MethodPost, "/api/mentor-requests/"+req.ID+"/respond", mentee, RespondPayload{Status: database.StatusAccepted})
	assert.Equal(t, http.StatusForbidden, w.Code, "mentees cannot respond")

	w = doJSON(t, router, http.MethodGet, "/api/notifications?unread=true", mentor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []database.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "mentor_request", notes[0].Type)
	assert.Equal(t, req.ID, notes[0].RelatedID)

	w = doJSON(t, router, http.MethodGet, "/api/mentor-requests?status=pending", mentor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []database.MentorRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	w = doJSON(t, router, http.MethodPost, "/api/mentor-requests/"+req.ID+"/respond", mentor, RespondPayload{Status: database.StatusAccepted})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/mentor-requests/"+req.ID+"/respond", mentor, RespondPayload{Status: database.StatusRejected})
	assert.Equal(t, http.StatusNotFound, w.Code, "answered requests are no longer pending")

	w = doJSON(t, router, http.MethodGet, "/api/notifications", mentee, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "mentor_accepted", notes[0].Type)
	assert.Contains(t, notes[0].Message, meetingPlace)

	w = doJSON(t, router, http.MethodPost, "/api/notifications/"+notes[0].ID+"/read", mentor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "cannot mark another user's notification")
	w = doJSON(t, router, http.MethodPost, "/api/notifications/"+notes[0].ID+"/read", mentee, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/notifications?unread=true", mentee, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Empty(t, notes)

	w = doJSON(t, router, http.MethodGet, "/api/mentor/dashboard", mentor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d MentorDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, 0, d.Pending)
	assert.Equal(t, 1, d.Accepted)
	require.Len(t, d.Mentees, 1)
	assert.Equal(t, "jane.mentee@betteryouth.org", d.Mentees[0].Email)
}

func TestResumeUpload(t *testing.T) {
	_, router := testApp(t)
	token := login(t, router, "jane_mentee")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Analyst with Python, SQL and Tableau experience."))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out ResumeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Skills, "python")
	assert.Contains(t, out.Skills, "sql")

	w = doJSON(t, router, http.MethodPost, "/api/resume", token, ResumeFromStorageRequest{ObjectKey: "cv.pdf"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
