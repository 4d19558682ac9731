package database

import (
	"context"
	"time"
)

const insertNotification = `-- name: InsertNotification :exec
INSERT INTO %s (id, recipient_email, recipient_name, type, title, message, related_id, created_at, read_at, is_read)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertNotification(ctx context.Context, location string, arg Notification) error {
	_, err := q.exec(ctx, sprintfTable(insertNotification, location),
		arg.ID,
		arg.RecipientEmail,
		arg.RecipientName,
		arg.Type,
		arg.Title,
		arg.Message,
		arg.RelatedID,
		arg.CreatedAt,
		arg.ReadAt,
		arg.IsRead,
	)
	return err
}

const getNotifications = `-- name: GetNotifications :many
SELECT %s FROM %s WHERE recipient_email = ? ORDER BY created_at DESC
`

const getUnreadNotifications = `-- name: GetUnreadNotifications :many
SELECT %s FROM %s WHERE recipient_email = ? AND is_read = ? ORDER BY created_at DESC
`

func (q *Queries) GetNotifications(ctx context.Context, location, recipientEmail string, unreadOnly bool) ([]Notification, error) {
	items := []Notification{}
	if unreadOnly {
		err := q.selectAll(ctx, &items, sprintfSelect(getUnreadNotifications, KindNotifications, location), recipientEmail, false)
		return items, err
	}
	err := q.selectAll(ctx, &items, sprintfSelect(getNotifications, KindNotifications, location), recipientEmail)
	return items, err
}

const markNotificationRead = `-- name: MarkNotificationRead :execrows
UPDATE %s
SET is_read = ?, read_at = ?
WHERE id = ? AND is_read = ?
`

// MarkNotificationRead flips an unread notification to read. It reports false
// when the id is unknown or the notification was already read.
func (q *Queries) MarkNotificationRead(ctx context.Context, location, id string, readAt time.Time) (bool, error) {
	res, err := q.exec(ctx, sprintfTable(markNotificationRead, location), true, readAt, id, false)
	if err != nil {
		return false, err
	}
	return affected(res)
}
