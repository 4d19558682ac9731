package auth

import (
	"context"
	"testing"
	"time"

	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticUsers []catalog.User

func (s staticUsers) Users(context.Context) ([]catalog.User, error) { return s, nil }

func testUsers(t *testing.T) staticUsers {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return staticUsers{
		{ID: "1", Username: "john_mentor", Email: "John@Example.com", Password: "password", Role: "Mentor", Name: "John"},
		{ID: "2", Username: "jane_mentee", Email: "jane@example.com", Password: string(hash), Role: "", Name: "Jane"},
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(testUsers(t), 0)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "JOHN_MENTOR", "password")
	require.NoError(t, err)
	assert.True(t, u.IsMentor())
	assert.Equal(t, "John@Example.com", u.Email)

	u, err = svc.Authenticate(ctx, "john@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	u, err = svc.Authenticate(ctx, "jane@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, RoleMentee, u.Role)

	_, err = svc.Authenticate(ctx, "jane@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessions(t *testing.T) {
	svc := NewService(testUsers(t), time.Hour)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	token, user, err := svc.Login(context.Background(), "john_mentor", "password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Lookup(token)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	now = now.Add(2 * time.Hour)
	_, err = svc.Lookup(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	now = now.Add(-2 * time.Hour)
	token, _, err = svc.Login(context.Background(), "john_mentor", "password")
	require.NoError(t, err)
	svc.Logout(token)
	_, err = svc.Lookup(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
