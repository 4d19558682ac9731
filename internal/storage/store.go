// Package storage is the single persistence entry point. Each record kind is
// bound once to a warehouse table when one is usable; otherwise, or when a
// warehouse call fails, records go to local CSV files.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	backendWarehouse = "warehouse"
	backendFlatFile  = "flatfile"

	// DefaultRequestNotes is stored when a mentee sends a request without a note.
	DefaultRequestNotes = "Connection request sent"
)

type NewPlan struct {
	Email      string
	MenteeName string
	Plan       string
	Progress   int
	Notes      string
}

type NewMentorRequest struct {
	MenteeEmail string
	MenteeName  string
	MentorEmail string
	MentorName  string
	Notes       string
}

type NewNotification struct {
	RecipientEmail string
	RecipientName  string
	Type           string
	Title          string
	Message        string
	RelatedID      string
}

type Store struct {
	queries  *database.Queries
	bindings *Bindings
	files    *FlatFile
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now; tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New builds a Store. queries may be nil, in which case every kind lives in
// flat files under dataDir.
func New(queries *database.Queries, cfg ResolverConfig, dataDir string, opts ...Option) *Store {
	s := &Store{
		queries: queries,
		files:   NewFlatFile(dataDir),
		log:     zerolog.Nop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "storage").Logger()

	var prober SchemaProber
	if queries != nil {
		prober = queries
	}
	s.bindings = NewBindings(NewResolver(prober, cfg), s.log)
	return s
}

// Binding reports where kind is stored, resolving it on first use.
func (s *Store) Binding(ctx context.Context, kind database.RecordKind) (Binding, error) {
	return s.bindings.Get(ctx, kind)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// dispatch runs warehouse against the bound table when the kind is usable and
// falls back to flat for this call only when it fails. The cached binding is
// left as is.
func dispatch[T any](ctx context.Context, s *Store, kind database.RecordKind, op string,
	warehouse func(location string) (T, error), flat func() (T, error)) (T, error) {
	binding, _ := s.bindings.Get(ctx, kind)
	if binding.Usable && s.queries != nil {
		v, err := warehouse(binding.Location)
		if err == nil {
			metrics.ObserveStorage(string(kind), backendWarehouse, metrics.OutcomeOK)
			return v, nil
		}
		metrics.ObserveStorage(string(kind), backendWarehouse, metrics.OutcomeFallback)
		s.log.Warn().Err(fault(FaultQuery, kind, op, err)).
			Str("kind", string(kind)).Str("op", op).Str("location", binding.Location).
			Msg("warehouse call failed, using flat file for this call")
	}

	v, err := flat()
	if err != nil {
		metrics.ObserveStorage(string(kind), backendFlatFile, metrics.OutcomeError)
		return v, err
	}
	metrics.ObserveStorage(string(kind), backendFlatFile, metrics.OutcomeOK)
	return v, nil
}

// exec adapts a write that only returns an error to dispatch.
func exec(err error) (struct{}, error) { return struct{}{}, err }

func (s *Store) CreatePlan(ctx context.Context, in NewPlan) (database.Plan, error) {
	if in.Progress < 0 || in.Progress > 100 {
		return database.Plan{}, ErrProgressOutOfRange
	}
	now := s.timestamp()
	p := database.Plan{
		ID:          s.newID(),
		Email:       in.Email,
		MenteeName:  in.MenteeName,
		CreatedAt:   now,
		Plan:        in.Plan,
		Progress:    in.Progress,
		Notes:       in.Notes,
		LastUpdated: now,
	}
	_, err := dispatch(ctx, s, database.KindPlans, "insert",
		func(loc string) (struct{}, error) { return exec(s.queries.InsertPlan(ctx, loc, p)) },
		func() (struct{}, error) { return exec(s.files.InsertPlan(p)) })
	if err != nil {
		return database.Plan{}, err
	}
	return p, nil
}

func (s *Store) PlansByEmail(ctx context.Context, email string) ([]database.Plan, error) {
	return dispatch(ctx, s, database.KindPlans, "list by email",
		func(loc string) ([]database.Plan, error) { return s.queries.GetPlansByEmail(ctx, loc, email) },
		func() ([]database.Plan, error) { return s.files.PlansBy("email", email) })
}

func (s *Store) PlansByMenteeName(ctx context.Context, name string) ([]database.Plan, error) {
	return dispatch(ctx, s, database.KindPlans, "list by mentee",
		func(loc string) ([]database.Plan, error) { return s.queries.GetPlansByMenteeName(ctx, loc, name) },
		func() ([]database.Plan, error) { return s.files.PlansBy("mentee_name", name) })
}

// UpdatePlanProgress sets progress and notes and reports whether the plan exists.
func (s *Store) UpdatePlanProgress(ctx context.Context, id string, progress int, notes string) (bool, error) {
	if progress < 0 || progress > 100 {
		return false, ErrProgressOutOfRange
	}
	arg := database.UpdatePlanProgressParams{ID: id, Progress: progress, Notes: notes, LastUpdated: s.timestamp()}
	return dispatch(ctx, s, database.KindPlans, "update progress",
		func(loc string) (bool, error) { return s.queries.UpdatePlanProgress(ctx, loc, arg) },
		func() (bool, error) { return s.files.UpdatePlanProgress(arg) })
}

func (s *Store) CreateMentorRequest(ctx context.Context, in NewMentorRequest) (database.MentorRequest, error) {
	notes := in.Notes
	if notes == "" {
		notes = DefaultRequestNotes
	}
	m := database.MentorRequest{
		ID:          s.newID(),
		MenteeEmail: in.MenteeEmail,
		MenteeName:  in.MenteeName,
		MentorEmail: in.MentorEmail,
		MentorName:  in.MentorName,
		Status:      database.StatusPending,
		CreatedAt:   s.timestamp(),
		Notes:       notes,
	}
	_, err := dispatch(ctx, s, database.KindMentorRequests, "insert",
		func(loc string) (struct{}, error) { return exec(s.queries.InsertMentorRequest(ctx, loc, m)) },
		func() (struct{}, error) { return exec(s.files.InsertMentorRequest(m)) })
	if err != nil {
		return database.MentorRequest{}, err
	}
	return m, nil
}

// MentorRequestsForMentor lists requests received by a mentor. An empty status lists all.
func (s *Store) MentorRequestsForMentor(ctx context.Context, mentorEmail string, status database.RequestStatus) ([]database.MentorRequest, error) {
	return dispatch(ctx, s, database.KindMentorRequests, "list by mentor",
		func(loc string) ([]database.MentorRequest, error) {
			return s.queries.GetMentorRequestsByMentor(ctx, loc, mentorEmail, status)
		},
		func() ([]database.MentorRequest, error) {
			return s.files.MentorRequestsBy("mentor_email", mentorEmail, status)
		})
}

func (s *Store) MentorRequestsForMentee(ctx context.Context, menteeEmail string) ([]database.MentorRequest, error) {
	return dispatch(ctx, s, database.KindMentorRequests, "list by mentee",
		func(loc string) ([]database.MentorRequest, error) {
			return s.queries.GetMentorRequestsByMentee(ctx, loc, menteeEmail)
		},
		func() ([]database.MentorRequest, error) {
			return s.files.MentorRequestsBy("mentee_email", menteeEmail, "")
		})
}

// RespondToMentorRequest moves a pending request to accepted or rejected. It
// returns false when the request does not exist or was already answered.
func (s *Store) RespondToMentorRequest(ctx context.Context, id string, status database.RequestStatus, notes string) (bool, error) {
	if !status.Terminal() {
		return false, ErrInvalidStatus
	}
	arg := database.RespondToMentorRequestParams{ID: id, Status: status, Notes: notes, RespondedAt: s.timestamp()}
	return dispatch(ctx, s, database.KindMentorRequests, "respond",
		func(loc string) (bool, error) { return s.queries.RespondToMentorRequest(ctx, loc, arg) },
		func() (bool, error) { return s.files.RespondToMentorRequest(arg) })
}

func (s *Store) CreateNotification(ctx context.Context, in NewNotification) (database.Notification, error) {
	n := database.Notification{
		ID:             s.newID(),
		RecipientEmail: in.RecipientEmail,
		RecipientName:  in.RecipientName,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		RelatedID:      in.RelatedID,
		CreatedAt:      s.timestamp(),
	}
	_, err := dispatch(ctx, s, database.KindNotifications, "insert",
		func(loc string) (struct{}, error) { return exec(s.queries.InsertNotification(ctx, loc, n)) },
		func() (struct{}, error) { return exec(s.files.InsertNotification(n)) })
	if err != nil {
		return database.Notification{}, err
	}
	return n, nil
}

func (s *Store) Notifications(ctx context.Context, recipientEmail string, unreadOnly bool) ([]database.Notification, error) {
	return dispatch(ctx, s, database.KindNotifications, "list",
		func(loc string) ([]database.Notification, error) {
			return s.queries.GetNotifications(ctx, loc, recipientEmail, unreadOnly)
		},
		func() ([]database.Notification, error) { return s.files.Notifications(recipientEmail, unreadOnly) })
}

// MarkNotificationRead reports whether an unread notification was marked.
// Marking twice keeps the first read time and returns false.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	readAt := s.timestamp()
	return dispatch(ctx, s, database.KindNotifications, "mark read",
		func(loc string) (bool, error) { return s.queries.MarkNotificationRead(ctx, loc, id, readAt) },
		func() (bool, error) { return s.files.MarkNotificationRead(id, readAt) })
}
