package main

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/muhammadolammi/skillbridge/internal/auth"
	"github.com/muhammadolammi/skillbridge/internal/llm"
	"github.com/muhammadolammi/skillbridge/internal/resume"
	"github.com/muhammadolammi/skillbridge/internal/storage"
)

const generationHelp = "Configure DATABRICKS_TOKEN and DATABRICKS_LLM_ENDPOINT, or AZURE_ENDPOINT and AZURE_API_KEY, or GOOGLE_API_KEY, then try again."

func respondWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// bindJSON decodes and validates the request body into dst.
func (app *App) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := app.Validate.Struct(dst); err != nil {
		respondWithError(c, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return "invalid fields: " + strings.Join(msgs, ", ")
}

// respondWithAppError maps domain errors to HTTP statuses.
func (app *App) respondWithAppError(c *gin.Context, err error) {
	var exhausted *llm.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":       "could not generate a plan",
			"remediation": generationHelp,
			"failures":    exhausted.Failures,
		})
	case errors.Is(err, storage.ErrProgressOutOfRange), errors.Is(err, storage.ErrInvalidStatus),
		errors.Is(err, resume.ErrUnsupported), errors.Is(err, resume.ErrEmpty):
		respondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, resume.ErrTooLarge):
		respondWithError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		respondWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errNotFound):
		respondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errForbidden):
		respondWithError(c, http.StatusForbidden, err.Error())
	default:
		app.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		respondWithError(c, http.StatusInternalServerError, "internal error")
	}
}

// normalizeSkills trims, lower-cases and de-duplicates skills, keeping order.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		for _, part := range strings.Split(s, ",") {
			p := strings.ToLower(strings.TrimSpace(part))
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
