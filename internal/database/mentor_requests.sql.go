package database

import (
	"context"
	"time"
)

const insertMentorRequest = `-- name: InsertMentorRequest :exec
INSERT INTO %s (id, mentee_email, mentee_name, mentor_email, mentor_name, status, created_at, responded_at, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertMentorRequest(ctx context.Context, location string, arg MentorRequest) error {
	_, err := q.exec(ctx, sprintfTable(insertMentorRequest, location),
		arg.ID,
		arg.MenteeEmail,
		arg.MenteeName,
		arg.MentorEmail,
		arg.MentorName,
		string(arg.Status),
		arg.CreatedAt,
		arg.RespondedAt,
		arg.Notes,
	)
	return err
}

const getMentorRequestsByMentor = `-- name: GetMentorRequestsByMentor :many
SELECT %s FROM %s WHERE mentor_email = ? ORDER BY created_at DESC
`

const getMentorRequestsByMentorAndStatus = `-- name: GetMentorRequestsByMentorAndStatus :many
SELECT %s FROM %s WHERE mentor_email = ? AND status = ? ORDER BY created_at DESC
`

// GetMentorRequestsByMentor lists requests addressed to mentorEmail; an empty
// status matches every status.
func (q *Queries) GetMentorRequestsByMentor(ctx context.Context, location, mentorEmail string, status RequestStatus) ([]MentorRequest, error) {
	items := []MentorRequest{}
	if status == "" {
		err := q.selectAll(ctx, &items, sprintfSelect(getMentorRequestsByMentor, KindMentorRequests, location), mentorEmail)
		return items, err
	}
	err := q.selectAll(ctx, &items, sprintfSelect(getMentorRequestsByMentorAndStatus, KindMentorRequests, location), mentorEmail, string(status))
	return items, err
}

const getMentorRequestsByMentee = `-- name: GetMentorRequestsByMentee :many
SELECT %s FROM %s WHERE mentee_email = ? ORDER BY created_at DESC
`

func (q *Queries) GetMentorRequestsByMentee(ctx context.Context, location, menteeEmail string) ([]MentorRequest, error) {
	items := []MentorRequest{}
	err := q.selectAll(ctx, &items, sprintfSelect(getMentorRequestsByMentee, KindMentorRequests, location), menteeEmail)
	return items, err
}

const respondToMentorRequest = `-- name: RespondToMentorRequest :execrows
UPDATE %s
SET status = ?, responded_at = ?, notes = ?
WHERE id = ? AND status = ?
`

type RespondToMentorRequestParams struct {
	ID          string
	Status      RequestStatus
	Notes       string
	RespondedAt time.Time
}

// RespondToMentorRequest moves a pending request to a terminal status. It
// reports false when no pending request has that id.
func (q *Queries) RespondToMentorRequest(ctx context.Context, location string, arg RespondToMentorRequestParams) (bool, error) {
	res, err := q.exec(ctx, sprintfTable(respondToMentorRequest, location),
		string(arg.Status),
		arg.RespondedAt,
		arg.Notes,
		arg.ID,
		string(StatusPending),
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}
