package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
)

type fakeQueueRepo struct {
	mu      sync.Mutex
	nextID  int
	entries []*models.QueueEntry
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{nextID: 1}
}

func (r *fakeQueueRepo) Join(ctx context.Context, entries []*models.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxPos := 0
	for _, e := range r.entries {
		if len(entries) > 0 && e.EventID == entries[0].EventID &&
			e.Status == models.QueueStatusWaiting && e.Position > maxPos {
			maxPos = e.Position
		}
	}
	for _, entry := range entries {
		entry.ID = r.nextID
		r.nextID++
		maxPos++
		entry.Position = maxPos
		entry.Status = models.QueueStatusWaiting
		entry.JoinedAt = time.Now()
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *fakeQueueRepo) ListWaiting(ctx context.Context, eventID int) ([]*models.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.QueueEntry
	for _, e := range r.entries {
		if e.EventID == eventID && e.Status == models.QueueStatusWaiting {
			c := *e
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeQueueRepo) FindWaitingByUser(ctx context.Context, eventID, userID int) (*models.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.EventID == eventID && e.UserID == userID && e.Status == models.QueueStatusWaiting {
			c := *e
			return &c, nil
		}
	}
	return nil, repositories.ErrQueueEntryNotFound
}

func (r *fakeQueueRepo) MarkPlaying(ctx context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, e := range r.entries {
		if wanted[e.ID] {
			e.Status = models.QueueStatusPlaying
		}
	}
	return nil
}

func (r *fakeQueueRepo) DeleteByIDs(ctx context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !wanted[e.ID] {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *fakeQueueRepo) DeletePlayingByUsers(ctx context.Context, eventID int, userIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.EventID == eventID && e.Status == models.QueueStatusPlaying && wanted[e.UserID] {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return nil
}

func (r *fakeQueueRepo) UpdatePositions(ctx context.Context, entries []*models.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, update := range entries {
		for _, e := range r.entries {
			if e.ID == update.ID {
				e.Position = update.Position
			}
		}
	}
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[int]*models.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = len(r.events) + 1
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	c := *event
	return &c, nil
}

func (r *fakeEventRepo) List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Event
	for _, e := range r.events {
		if statusFilter == nil || e.Status == *statusFilter {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	c := *event
	r.events[event.ID] = &c
	return nil
}

func (r *fakeEventRepo) UpdateStatus(ctx context.Context, id int, status models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (r *fakeEventRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.PhotoKey = photoKey
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	nextID      int
	assignments []*models.CourtAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{nextID: 1}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *models.CourtAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.assignments {
		if existing.EventID == a.EventID && existing.CourtNumber == a.CourtNumber && existing.EndedAt == nil {
			return repositories.ErrCourtOccupied
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.assignments = append(r.assignments, a)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id int) (*models.CourtAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, repositories.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) ListActive(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CourtAssignment
	for _, a := range r.assignments {
		if a.EventID == eventID && a.EndedAt == nil {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListByEvent(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CourtAssignment
	for _, a := range r.assignments {
		if a.EventID == eventID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*models.CourtAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CourtAssignment
	for _, a := range r.assignments {
		if a.EndedAt == nil && a.StartedAt.Before(cutoff) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Close(ctx context.Context, id int, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.ID == id {
			if a.EndedAt != nil {
				return repositories.ErrAssignmentAlreadyClosed
			}
			a.EndedAt = &endedAt
			return nil
		}
	}
	return repositories.ErrAssignmentNotFound
}

type recordedActivity struct {
	eventID *int
	adminID int
	action  string
	detail  string
}

type fakeActivityService struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (s *fakeActivityService) Record(ctx context.Context, eventID *int, adminID int, action, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, recordedActivity{eventID: eventID, adminID: adminID, action: action, detail: detail})
}

func (s *fakeActivityService) Recent(ctx context.Context, limit int) ([]*models.ActivityEntry, error) {
	return nil, nil
}

func (s *fakeActivityService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.action
	}
	return out
}

type recordingHub struct {
	mu       sync.Mutex
	messages []rotation.Message
}

func (h *recordingHub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msg, ok := message.(rotation.Message); ok {
		h.messages = append(h.messages, msg)
	}
}

func (h *recordingHub) messageTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.Type
	}
	return out
}

type recordingNotifier struct {
	mu              sync.Mutex
	courtAssigned   [][]int
	positionChanges []rotation.PositionChange
}

func (n *recordingNotifier) NotifyCourtAssigned(ctx context.Context, event *models.Event, courtNumber int, userIDs []int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.courtAssigned = append(n.courtAssigned, userIDs)
}

func (n *recordingNotifier) NotifyPositionChanges(ctx context.Context, event *models.Event, changes []rotation.PositionChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.positionChanges = append(n.positionChanges, changes...)
}

type denyAllAdmission struct{}

func (denyAllAdmission) CanJoin(ctx context.Context, eventID, userID int) error {
	return ErrEventAdmissionDenied
}

func activeDoublesEvent(id, courts int) *models.Event {
	return &models.Event{
		ID:           id,
		Name:         "open play",
		OrganizerID:  1,
		CourtCount:   courts,
		TeamSize:     2,
		RotationType: models.RotationWinnersStay,
		Status:       models.EventStatusActive,
	}
}
