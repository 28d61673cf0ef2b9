package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

// memNotificationRepo is an in-memory NotificationRepository that enforces
// the same at-most-one-unread-per-(user, type, source) constraint the
// partial unique index does.
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification

	CreateErr    error
	CreateErrFor map[uuid.UUID]error // keyed by UserID
	FindErr      error
}

func (m *memNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err, ok := m.CreateErrFor[n.UserID]; ok {
		return err
	}
	for _, existing := range m.notifications {
		if existing.IsRead || existing.UserID != n.UserID || existing.Type != n.Type {
			continue
		}
		if existing.SourceID != nil && n.SourceID != nil && *existing.SourceID == *n.SourceID {
			return entity.ErrDuplicate
		}
	}

	clone := *n
	m.notifications = append(m.notifications, &clone)
	return nil
}

func (m *memNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			clone := *n
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memNotificationRepo) FindUnreadByTrigger(ctx context.Context, userID uuid.UUID, notificationType entity.NotificationType, sourceID uuid.UUID) (*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, n := range m.notifications {
		if n.IsRead || n.UserID != userID || n.Type != notificationType {
			continue
		}
		if n.SourceID != nil && *n.SourceID == sourceID {
			clone := *n
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memNotificationRepo) List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, sortBy entity.NotificationSort) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.Type != nil && n.Type != *filter.Type {
			continue
		}
		if filter.Priority != nil && n.Priority != *filter.Priority {
			continue
		}
		if filter.IsRead != nil && n.IsRead != *filter.IsRead {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch sortBy.Field {
		case entity.SortByPriority:
			less = out[i].Priority.Rank() < out[j].Priority.Rank()
		case entity.SortByType:
			less = out[i].Type < out[j].Type
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if sortBy.Ascending {
			return less
		}
		return !less
	})

	return out, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *memNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var changed int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (m *memNotificationRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *memNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

// stubTaskRepo holds a fixed task set and answers queries by filtering it,
// mirroring the repository's range semantics.
type stubTaskRepo struct {
	Tasks []*entity.Task
	Err   error
}

func (s *stubTaskRepo) FindDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Task
	for _, t := range s.Tasks {
		if t.DueAt == nil || t.Status == entity.TaskStatusDone {
			continue
		}
		if !t.DueAt.Before(from) && t.DueAt.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) FindOverdue(ctx context.Context, now time.Time) ([]*entity.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Task
	for _, t := range s.Tasks {
		if t.DueAt == nil || t.Status == entity.TaskStatusDone {
			continue
		}
		if t.DueAt.Before(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) FindStale(ctx context.Context, cutoff time.Time) ([]*entity.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Task
	for _, t := range s.Tasks {
		if t.Status == entity.TaskStatusDone {
			continue
		}
		if t.UpdatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubProspectRepo struct {
	Prospects []*entity.Prospect
	Err       error
}

func (s *stubProspectRepo) FindFollowUpBetween(ctx context.Context, from, to time.Time) ([]*entity.Prospect, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Prospect
	for _, p := range s.Prospects {
		if p.FollowUpAt == nil {
			continue
		}
		if !p.FollowUpAt.Before(from) && p.FollowUpAt.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProspectRepo) FindFollowUpOverdue(ctx context.Context, now time.Time) ([]*entity.Prospect, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Prospect
	for _, p := range s.Prospects {
		if p.FollowUpAt == nil {
			continue
		}
		if p.FollowUpAt.Before(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubProjectRepo struct {
	Projects []*entity.Project
	Err      error
}

func (s *stubProjectRepo) FindDeadlineBetween(ctx context.Context, from, to time.Time) ([]*entity.Project, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Project
	for _, p := range s.Projects {
		if p.Deadline == nil || p.Completed {
			continue
		}
		if !p.Deadline.Before(from) && p.Deadline.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProjectRepo) FindDeadlinePassed(ctx context.Context, now time.Time) ([]*entity.Project, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Project
	for _, p := range s.Projects {
		if p.Deadline == nil || p.Completed {
			continue
		}
		if p.Deadline.Before(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubBookingRepo struct {
	Bookings   []*entity.Booking
	FindErr    error
	MarkErr    error
	MarkedSent []uuid.UUID
}

func (s *stubBookingRepo) FindUpcomingWithoutReminder(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	var out []*entity.Booking
	for _, b := range s.Bookings {
		if b.ReminderSent {
			continue
		}
		if !b.StartsAt.Before(from) && b.StartsAt.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingRepo) MarkReminderSent(ctx context.Context, bookingID uuid.UUID) error {
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.MarkedSent = append(s.MarkedSent, bookingID)
	return nil
}

type stubMailer struct {
	FailFor map[uuid.UUID]error // keyed by booking ID
	Sent    []uuid.UUID
}

func (s *stubMailer) SendBookingReminder(ctx context.Context, booking *entity.Booking) error {
	if err, ok := s.FailFor[booking.ID]; ok {
		return err
	}
	s.Sent = append(s.Sent, booking.ID)
	return nil
}

type stubPublisher struct {
	Published []*entity.Notification
	Err       error
}

func (s *stubPublisher) PublishNotificationCreated(ctx context.Context, n *entity.Notification) error {
	if s.Err != nil {
		return s.Err
	}
	s.Published = append(s.Published, n)
	return nil
}

// memActionRepo is an in-memory append-only action log
type memActionRepo struct {
	actions []*entity.ProspectAction

	AppendErr error
}

func (m *memActionRepo) Append(ctx context.Context, action *entity.ProspectAction) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	clone := *action
	m.actions = append(m.actions, &clone)
	return nil
}

func (m *memActionRepo) History(ctx context.Context, listID, prospectID uuid.UUID) ([]*entity.ProspectAction, error) {
	var out []*entity.ProspectAction
	// newest first
	for i := len(m.actions) - 1; i >= 0; i-- {
		a := m.actions[i]
		if a.ListID == listID && a.ProspectID == prospectID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memActionRepo) LatestApplied(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error) {
	for i := len(m.actions) - 1; i >= 0; i-- {
		a := m.actions[i]
		if a.ListID == listID && a.ProspectID == prospectID && !a.Undone {
			clone := *a
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

// LatestUndone walks forwards: the entry undone last is the oldest undone
// one, since undo itself walks backwards.
func (m *memActionRepo) LatestUndone(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error) {
	for _, a := range m.actions {
		if a.ListID == listID && a.ProspectID == prospectID && a.Undone {
			clone := *a
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memActionRepo) SetUndone(ctx context.Context, actionID uuid.UUID, undone bool) error {
	for _, a := range m.actions {
		if a.ID == actionID {
			a.Undone = undone
			return nil
		}
	}
	return entity.ErrNotFound
}

func timePtr(t time.Time) *time.Time { return &t }
