package database

import (
	"time"
)

// TimeLayout is the textual timestamp format shared by the flat-file store and CLI output.
const TimeLayout = "2006-01-02 15:04:05"

// RecordKind names one of the three persisted record types. The value doubles as the table name.
type RecordKind string

const (
	KindPlans          RecordKind = "upskilling_plans"
	KindMentorRequests RecordKind = "mentor_requests"
	KindNotifications  RecordKind = "notifications"
)

// Kinds lists every record kind in a stable order.
var Kinds = []RecordKind{KindPlans, KindMentorRequests, KindNotifications}

func (k RecordKind) Table() string { return string(k) }

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether s is a status a pending request may move to.
func (s RequestStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Plan struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	MenteeName  string    `db:"mentee_name" json:"mentee_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Plan        string    `db:"plan" json:"plan"`
	Progress    int       `db:"progress" json:"progress"`
	Notes       string    `db:"notes" json:"notes"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

type MentorRequest struct {
	ID          string        `db:"id" json:"id"`
	MenteeEmail string        `db:"mentee_email" json:"mentee_email"`
	MenteeName  string        `db:"mentee_name" json:"mentee_name"`
	MentorEmail string        `db:"mentor_email" json:"mentor_email"`
	MentorName  string        `db:"mentor_name" json:"mentor_name"`
	Status      RequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	RespondedAt *time.Time    `db:"responded_at" json:"responded_at,omitempty"`
	Notes       string        `db:"notes" json:"notes"`
}

type Notification struct {
	ID             string     `db:"id" json:"id"`
	RecipientEmail string     `db:"recipient_email" json:"recipient_email"`
	RecipientName  string     `db:"recipient_name" json:"recipient_name"`
	Type           string     `db:"type" json:"type"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	RelatedID      string     `db:"related_id" json:"related_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
	IsRead         bool       `db:"is_read" json:"is_read"`
}
