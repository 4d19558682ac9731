package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/skillbridge/internal/auth"
)

const userKey = "user"

func (app *App) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := app.Log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = app.Log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (app *App) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := app.Auth.Lookup(bearerToken(c))
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func requireMentor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsMentor() {
			respondWithError(c, http.StatusForbidden, "mentor role required")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) auth.User {
	u, _ := c.Get(userKey)
	user, _ := u.(auth.User)
	return user
}
