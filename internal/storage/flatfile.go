package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/muhammadolammi/skillbridge/internal/database"
)

// row is one decoded flat-file record keyed by column name.
type row map[string]string

// FlatFile keeps one CSV file per record kind under dir. It has no locking and
// assumes a single writer process.
type FlatFile struct {
	dir string
}

func NewFlatFile(dir string) *FlatFile {
	return &FlatFile{dir: dir}
}

func (f *FlatFile) path(kind database.RecordKind) string {
	return filepath.Join(f.dir, string(kind)+".csv")
}

// appendRow writes r in canonical column order, creating the file and its
// header row first if needed.
func (f *FlatFile) appendRow(kind database.RecordKind, r row) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	p := f.path(kind)
	_, statErr := os.Stat(p)
	fresh := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := database.ColumnNames(kind)
	if fresh {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(r.values(header)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// readRows returns every row of kind's file. A missing file yields no rows.
func (f *FlatFile) readRows(kind database.RecordKind) ([]row, error) {
	file, err := os.Open(f.path(kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fault(FaultCorrupt, kind, "read", err)
	}
	defer file.Close()

	rd := csv.NewReader(file)
	rd.FieldsPerRecord = -1
	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fault(FaultCorrupt, kind, "read header", err)
	}

	var rows []row
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fault(FaultCorrupt, kind, "read", err)
		}
		r := make(row, len(header))
		for i, name := range header {
			if i < len(rec) {
				r[name] = rec[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// listBy filters rows on exact equality of field and sorts them newest first.
// created_at compares lexicographically, which is chronological for TimeLayout.
func (f *FlatFile) listBy(kind database.RecordKind, match func(row) bool) ([]row, error) {
	rows, err := f.readRows(kind)
	if err != nil {
		return nil, err
	}
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i]["created_at"] > out[j]["created_at"]
	})
	return out, nil
}

// update applies mutate to the row with the given id and rewrites the whole
// file. mutate reports whether it changed the row; false leaves the file alone.
func (f *FlatFile) update(kind database.RecordKind, id string, mutate func(row) bool) (bool, error) {
	rows, err := f.readRows(kind)
	if err != nil || rows == nil {
		return false, err
	}
	found := false
	for _, r := range rows {
		if r["id"] == id && mutate(r) {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, f.rewrite(kind, rows)
}

func (f *FlatFile) rewrite(kind database.RecordKind, rows []row) error {
	tmp, err := os.CreateTemp(f.dir, string(kind)+".*.tmp")
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", kind, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	header := database.ColumnNames(kind)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.values(header)); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(kind))
}

func (r row) values(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		out[i] = r[name]
	}
	return out
}

// Plans

func (f *FlatFile) InsertPlan(p database.Plan) error {
	return f.appendRow(database.KindPlans, row{
		"id":           p.ID,
		"email":        p.Email,
		"mentee_name":  p.MenteeName,
		"created_at":   formatTime(p.CreatedAt),
		"plan":         p.Plan,
		"progress":     strconv.Itoa(p.Progress),
		"notes":        p.Notes,
		"last_updated": formatTime(p.LastUpdated),
	})
}

func (f *FlatFile) PlansBy(field, value string) ([]database.Plan, error) {
	rows, err := f.listBy(database.KindPlans, func(r row) bool { return r[field] == value })
	if err != nil {
		return nil, err
	}
	plans := make([]database.Plan, 0, len(rows))
	for _, r := range rows {
		p, err := planFromRow(r)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (f *FlatFile) UpdatePlanProgress(arg database.UpdatePlanProgressParams) (bool, error) {
	return f.update(database.KindPlans, arg.ID, func(r row) bool {
		r["progress"] = strconv.Itoa(arg.Progress)
		r["notes"] = arg.Notes
		r["last_updated"] = formatTime(arg.LastUpdated)
		return true
	})
}

func planFromRow(r row) (database.Plan, error) {
	var (
		p   database.Plan
		err error
	)
	p.ID, p.Email, p.MenteeName, p.Plan, p.Notes = r["id"], r["email"], r["mentee_name"], r["plan"], r["notes"]
	if p.CreatedAt, err = parseTime(r["created_at"]); err != nil {
		return p, fault(FaultCorrupt, database.KindPlans, "decode created_at", err)
	}
	if p.LastUpdated, err = parseTime(r["last_updated"]); err != nil {
		return p, fault(FaultCorrupt, database.KindPlans, "decode last_updated", err)
	}
	if r["progress"] != "" {
		if p.Progress, err = strconv.Atoi(r["progress"]); err != nil {
			return p, fault(FaultCorrupt, database.KindPlans, "decode progress", err)
		}
	}
	return p, nil
}

// Mentor requests

func (f *FlatFile) InsertMentorRequest(m database.MentorRequest) error {
	return f.appendRow(database.KindMentorRequests, row{
		"id":           m.ID,
		"mentee_email": m.MenteeEmail,
		"mentee_name":  m.MenteeName,
		"mentor_email": m.MentorEmail,
		"mentor_name":  m.MentorName,
		"status":       string(m.Status),
		"created_at":   formatTime(m.CreatedAt),
		"responded_at": formatTimePtr(m.RespondedAt),
		"notes":        m.Notes,
	})
}

// MentorRequestsBy lists requests where field equals value; a non-empty status
// narrows the result further.
func (f *FlatFile) MentorRequestsBy(field, value string, status database.RequestStatus) ([]database.MentorRequest, error) {
	rows, err := f.listBy(database.KindMentorRequests, func(r row) bool {
		return r[field] == value && (status == "" || r["status"] == string(status))
	})
	if err != nil {
		return nil, err
	}
	out := make([]database.MentorRequest, 0, len(rows))
	for _, r := range rows {
		m, err := mentorRequestFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *FlatFile) RespondToMentorRequest(arg database.RespondToMentorRequestParams) (bool, error) {
	return f.update(database.KindMentorRequests, arg.ID, func(r row) bool {
		if r["status"] != string(database.StatusPending) {
			return false
		}
		r["status"] = string(arg.Status)
		r["notes"] = arg.Notes
		r["responded_at"] = formatTime(arg.RespondedAt)
		return true
	})
}

func mentorRequestFromRow(r row) (database.MentorRequest, error) {
	m := database.MentorRequest{
		ID:          r["id"],
		MenteeEmail: r["mentee_email"],
		MenteeName:  r["mentee_name"],
		MentorEmail: r["mentor_email"],
		MentorName:  r["mentor_name"],
		Status:      database.RequestStatus(r["status"]),
		Notes:       r["notes"],
	}
	var err error
	if m.CreatedAt, err = parseTime(r["created_at"]); err != nil {
		return m, fault(FaultCorrupt, database.KindMentorRequests, "decode created_at", err)
	}
	if m.RespondedAt, err = parseTimePtr(r["responded_at"]); err != nil {
		return m, fault(FaultCorrupt, database.KindMentorRequests, "decode responded_at", err)
	}
	return m, nil
}

// Notifications

func (f *FlatFile) InsertNotification(n database.Notification) error {
	return f.appendRow(database.KindNotifications, row{
		"id":              n.ID,
		"recipient_email": n.RecipientEmail,
		"recipient_name":  n.RecipientName,
		"type":            n.Type,
		"title":           n.Title,
		"message":         n.Message,
		"related_id":      n.RelatedID,
		"created_at":      formatTime(n.CreatedAt),
		"read_at":         formatTimePtr(n.ReadAt),
		"is_read":         strconv.FormatBool(n.IsRead),
	})
}

func (f *FlatFile) Notifications(recipientEmail string, unreadOnly bool) ([]database.Notification, error) {
	rows, err := f.listBy(database.KindNotifications, func(r row) bool {
		return r["recipient_email"] == recipientEmail && (!unreadOnly || !truthy(r["is_read"]))
	})
	if err != nil {
		return nil, err
	}
	out := make([]database.Notification, 0, len(rows))
	for _, r := range rows {
		n, err := notificationFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *FlatFile) MarkNotificationRead(id string, readAt time.Time) (bool, error) {
	return f.update(database.KindNotifications, id, func(r row) bool {
		if truthy(r["is_read"]) {
			return false
		}
		r["is_read"] = "true"
		r["read_at"] = formatTime(readAt)
		return true
	})
}

func notificationFromRow(r row) (database.Notification, error) {
	n := database.Notification{
		ID:             r["id"],
		RecipientEmail: r["recipient_email"],
		RecipientName:  r["recipient_name"],
		Type:           r["type"],
		Title:          r["title"],
		Message:        r["message"],
		RelatedID:      r["related_id"],
		IsRead:         truthy(r["is_read"]),
	}
	var err error
	if n.CreatedAt, err = parseTime(r["created_at"]); err != nil {
		return n, fault(FaultCorrupt, database.KindNotifications, "decode created_at", err)
	}
	if n.ReadAt, err = parseTimePtr(r["read_at"]); err != nil {
		return n, fault(FaultCorrupt, database.KindNotifications, "decode read_at", err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(database.TimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(database.TimeLayout, s, time.UTC)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// truthy accepts the boolean spellings older files were written with.
func truthy(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
