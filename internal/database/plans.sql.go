package database

import (
	"context"
	"time"
)

const insertPlan = `-- name: InsertPlan :exec
INSERT INTO %s (id, email, mentee_name, created_at, plan, progress, notes, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertPlan(ctx context.Context, location string, arg Plan) error {
	_, err := q.exec(ctx, sprintfTable(insertPlan, location),
		arg.ID,
		arg.Email,
		arg.MenteeName,
		arg.CreatedAt,
		arg.Plan,
		arg.Progress,
		arg.Notes,
		arg.LastUpdated,
	)
	return err
}

const getPlansByEmail = `-- name: GetPlansByEmail :many
SELECT %s FROM %s WHERE email = ? ORDER BY created_at DESC
`

func (q *Queries) GetPlansByEmail(ctx context.Context, location, email string) ([]Plan, error) {
	items := []Plan{}
	err := q.selectAll(ctx, &items, sprintfSelect(getPlansByEmail, KindPlans, location), email)
	return items, err
}

const getPlansByMenteeName = `-- name: GetPlansByMenteeName :many
SELECT %s FROM %s WHERE mentee_name = ? ORDER BY created_at DESC
`

func (q *Queries) GetPlansByMenteeName(ctx context.Context, location, menteeName string) ([]Plan, error) {
	items := []Plan{}
	err := q.selectAll(ctx, &items, sprintfSelect(getPlansByMenteeName, KindPlans, location), menteeName)
	return items, err
}

const updatePlanProgress = `-- name: UpdatePlanProgress :execrows
UPDATE %s
SET progress = ?, notes = ?, last_updated = ?
WHERE id = ?
`

type UpdatePlanProgressParams struct {
	ID          string
	Progress    int
	Notes       string
	LastUpdated time.Time
}

func (q *Queries) UpdatePlanProgress(ctx context.Context, location string, arg UpdatePlanProgressParams) (bool, error) {
	res, err := q.exec(ctx, sprintfTable(updatePlanProgress, location),
		arg.Progress,
		arg.Notes,
		arg.LastUpdated,
		arg.ID,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}
