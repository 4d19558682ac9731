package database

import "fmt"

type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeBool
	TypeTimestamp
)

type Column struct {
	Name string
	Type ColumnType
}

var planColumns = []Column{
	{"id", TypeString},
	{"email", TypeString},
	{"mentee_name", TypeString},
	{"created_at", TypeTimestamp},
	{"plan", TypeString},
	{"progress", TypeInt},
	{"notes", TypeString},
	{"last_updated", TypeTimestamp},
}

var mentorRequestColumns = []Column{
	{"id", TypeString},
	{"mentee_email", TypeString},
	{"mentee_name", TypeString},
	{"mentor_email", TypeString},
	{"mentor_name", TypeString},
	{"status", TypeString},
	{"created_at", TypeTimestamp},
	{"responded_at", TypeTimestamp},
	{"notes", TypeString},
}

var notificationColumns = []Column{
	{"id", TypeString},
	{"recipient_email", TypeString},
	{"recipient_name", TypeString},
	{"type", TypeString},
	{"title", TypeString},
	{"message", TypeString},
	{"related_id", TypeString},
	{"created_at", TypeTimestamp},
	{"read_at", TypeTimestamp},
	{"is_read", TypeBool},
}

// Columns returns the canonical column layout of a record kind.
// The order is also the flat-file header order.
func Columns(kind RecordKind) []Column {
	switch kind {
	case KindMentorRequests:
		return mentorRequestColumns
	case KindNotifications:
		return notificationColumns
	default:
		return planColumns
	}
}

// ColumnNames returns the canonical column names of a record kind.
func ColumnNames(kind RecordKind) []string {
	cols := Columns(kind)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func selectList(kind RecordKind) string {
	names := ColumnNames(kind)
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

// sprintfTable splices the resolved (already quoted) table location into a statement.
func sprintfTable(stmt, location string) string {
	return fmt.Sprintf(stmt, location)
}

func sprintfSelect(stmt string, kind RecordKind, location string) string {
	return fmt.Sprintf(stmt, selectList(kind), location)
}
