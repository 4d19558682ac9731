package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueries(t *testing.T) (*Queries, context.Context) {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, WarehouseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "warehouse.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	q, err := New(db)
	require.NoError(t, err)
	return q, ctx
}

func createTable(t *testing.T, q *Queries, ctx context.Context, kind RecordKind) string {
	t.Helper()
	loc := q.Qualify(Namespace{Catalog: "main", Schema: "main"}, kind)
	require.NoError(t, q.CreateTable(ctx, loc, kind))
	return loc
}

func ts(s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestDialectQuoting(t *testing.T) {
	assert.Equal(t, "`cat`.`sch`.`upskilling_plans`", Databricks.Qualify(Namespace{"cat", "sch"}, "upskilling_plans"))
	assert.Equal(t, `"db"."public"."notifications"`, Postgres.Qualify(Namespace{"db", "public"}, "notifications"))
	assert.Equal(t, `"main"."mentor_requests"`, SQLite.Qualify(Namespace{"main", "main"}, "mentor_requests"))
	assert.Equal(t, `"plans"`, SQLite.Qualify(Namespace{}, "plans"))

	assert.Equal(t, "`we``ird`", Databricks.Quote("we`ird"))
	assert.Equal(t, `"a""b"`, Postgres.Quote(`a"b`))
}

func TestDialectCompleteness(t *testing.T) {
	assert.False(t, Databricks.Complete(Namespace{Schema: "default"}))
	assert.True(t, Databricks.Complete(Namespace{"main", "default"}))
	assert.True(t, SQLite.Complete(Namespace{Schema: "main"}))
	assert.False(t, SQLite.Complete(Namespace{}))
}

func TestCreateSchemaSQL(t *testing.T) {
	stmt, ok := Databricks.CreateSchemaSQL(Namespace{"hackathon", "career"})
	require.True(t, ok)
	assert.Equal(t, "CREATE SCHEMA IF NOT EXISTS `hackathon`.`career`", stmt)

	stmt, ok = Postgres.CreateSchemaSQL(Namespace{"app", "career"})
	require.True(t, ok)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "career"`, stmt)

	_, ok = SQLite.CreateSchemaSQL(Namespace{"main", "main"})
	assert.False(t, ok)
}

func TestCreateTableSQLUsesCanonicalLayout(t *testing.T) {
	stmt := Databricks.CreateTableSQL("`c`.`s`.`notifications`", KindNotifications)
	assert.Contains(t, stmt, "CREATE TABLE IF NOT EXISTS `c`.`s`.`notifications`")
	assert.Contains(t, stmt, "is_read BOOLEAN")
	assert.Contains(t, stmt, "read_at TIMESTAMP")
	assert.Contains(t, stmt, "USING DELTA")

	stmt = Postgres.CreateTableSQL(`"plans"`, KindPlans)
	assert.Contains(t, stmt, "progress INTEGER")
	assert.NotContains(t, stmt, "DELTA")
}

func TestCurrentNamespaceAndProbe(t *testing.T) {
	q, ctx := setupQueries(t)

	ns, err := q.CurrentNamespace(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", ns.Schema)

	loc := q.Qualify(ns, KindPlans)
	assert.Error(t, q.ProbeTable(ctx, loc), "table does not exist yet")

	require.NoError(t, q.CreateTable(ctx, loc, KindPlans))
	assert.NoError(t, q.ProbeTable(ctx, loc), "empty table still probes fine")
	assert.Error(t, q.CreateSchema(ctx, ns), "sqlite has no schema DDL")
}

func TestPlanQueries(t *testing.T) {
	q, ctx := setupQueries(t)
	loc := createTable(t, q, ctx, KindPlans)

	older := Plan{ID: "p1", Email: "jane@example.com", MenteeName: "Jane", CreatedAt: ts("2024-01-01 10:00:00"),
		Plan: "learn go; it's fun", Progress: 0, LastUpdated: ts("2024-01-01 10:00:00")}
	newer := Plan{ID: "p2", Email: "jane@example.com", MenteeName: "Jane", CreatedAt: ts("2024-01-03 09:00:00"),
		Plan: "learn sql", Progress: 10, Notes: "started", LastUpdated: ts("2024-01-03 09:00:00")}
	other := Plan{ID: "p3", Email: "bob@example.com", MenteeName: "Bob", CreatedAt: ts("2024-01-02 00:00:00"),
		LastUpdated: ts("2024-01-02 00:00:00")}
	for _, p := range []Plan{older, newer, other} {
		require.NoError(t, q.InsertPlan(ctx, loc, p))
	}

	plans, err := q.GetPlansByEmail(ctx, loc, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "p2", plans[0].ID)
	assert.Equal(t, "learn go; it's fun", plans[1].Plan)
	assert.True(t, older.CreatedAt.Equal(plans[1].CreatedAt))

	byName, err := q.GetPlansByMenteeName(ctx, loc, "Bob")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "p3", byName[0].ID)

	found, err := q.UpdatePlanProgress(ctx, loc, UpdatePlanProgressParams{
		ID: "p1", Progress: 55, Notes: "halfway", LastUpdated: ts("2024-02-01 08:00:00"),
	})
	require.NoError(t, err)
	assert.True(t, found)

	plans, err = q.GetPlansByEmail(ctx, loc, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 55, plans[1].Progress)
	assert.Equal(t, "halfway", plans[1].Notes)
	assert.True(t, plans[1].LastUpdated.After(plans[1].CreatedAt))

	found, err = q.UpdatePlanProgress(ctx, loc, UpdatePlanProgressParams{ID: "missing", LastUpdated: time.Now()})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMentorRequestQueries(t *testing.T) {
	q, ctx := setupQueries(t)
	loc := createTable(t, q, ctx, KindMentorRequests)

	req := MentorRequest{ID: "r1", MenteeEmail: "jane@example.com", MenteeName: "Jane",
		MentorEmail: "john@example.com", MentorName: "John", Status: StatusPending,
		CreatedAt: ts("2024-03-01 12:00:00"), Notes: "Connection request sent"}
	require.NoError(t, q.InsertMentorRequest(ctx, loc, req))

	pending, err := q.GetMentorRequestsByMentor(ctx, loc, "john@example.com", StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].RespondedAt)

	ok, err := q.RespondToMentorRequest(ctx, loc, RespondToMentorRequestParams{
		ID: "r1", Status: StatusAccepted, Notes: "welcome", RespondedAt: ts("2024-03-02 12:00:00"),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.RespondToMentorRequest(ctx, loc, RespondToMentorRequestParams{
		ID: "r1", Status: StatusRejected, RespondedAt: ts("2024-03-03 12:00:00"),
	})
	require.NoError(t, err)
	assert.False(t, ok, "only pending requests transition")

	pending, err = q.GetMentorRequestsByMentor(ctx, loc, "john@example.com", StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	accepted, err := q.GetMentorRequestsByMentor(ctx, loc, "john@example.com", StatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	require.NotNil(t, accepted[0].RespondedAt)
	assert.Equal(t, "welcome", accepted[0].Notes)

	sent, err := q.GetMentorRequestsByMentee(ctx, loc, "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestNotificationQueries(t *testing.T) {
	q, ctx := setupQueries(t)
	loc := createTable(t, q, ctx, KindNotifications)

	n := Notification{ID: "n1", RecipientEmail: "jane@example.com", RecipientName: "Jane", Type: "mentor_accepted",
		Title: "Accepted", Message: "See you at the office", RelatedID: "r1", CreatedAt: ts("2024-03-02 12:00:00")}
	require.NoError(t, q.InsertNotification(ctx, loc, n))

	unread, err := q.GetNotifications(ctx, loc, "jane@example.com", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)
	assert.Nil(t, unread[0].ReadAt)

	ok, err := q.MarkNotificationRead(ctx, loc, "n1", ts("2024-03-02 13:00:00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.MarkNotificationRead(ctx, loc, "n1", ts("2024-03-05 13:00:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	unread, err = q.GetNotifications(ctx, loc, "jane@example.com", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := q.GetNotifications(ctx, loc, "jane@example.com", false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)
	require.NotNil(t, all[0].ReadAt)
	assert.True(t, ts("2024-03-02 13:00:00").Equal(*all[0].ReadAt))
}
