package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) ListPublished(ctx context.Context, limit, offset int) ([]Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Event
	for _, event := range f.events {
		if event.Status == StatusPublished {
			result = append(result, *event)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Event
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			result = append(result, *event)
		}
	}
	return result, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to EventStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok || event.Status != from {
		return false, nil
	}
	event.Status = to
	return true, nil
}

func TestCreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewService(repo, nil, 0)
	organizerID := uuid.New()

	event, err := service.CreateEvent(context.Background(), organizerID, CreateEventRequest{
		Title:    "Tech Conference 2026",
		Venue:    "Convention Center",
		StartsAt: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, event.Status, "new events start as drafts")
	assert.Equal(t, organizerID, event.OrganizerID)
}

func TestPublishEvent(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewService(repo, nil, 0)
	organizerID := uuid.New()

	event, err := service.CreateEvent(context.Background(), organizerID, CreateEventRequest{
		Title:    "Pitch Night",
		Venue:    "Innovation Center",
		StartsAt: time.Now().AddDate(0, 0, 15),
	})
	require.NoError(t, err)

	// Someone else's event cannot be published
	_, err = service.PublishEvent(context.Background(), event.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)

	published, err := service.PublishEvent(context.Background(), event.ID, organizerID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, published.Status)

	// Publishing is one way
	_, err = service.PublishEvent(context.Background(), event.ID, organizerID)
	assert.ErrorIs(t, err, ErrNotPublishable)
}

func TestPublishEvent_NotFound(t *testing.T) {
	service := NewService(newFakeEventRepo(), nil, 0)

	_, err := service.PublishEvent(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublishedHidesDrafts(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewService(repo, nil, 0)
	organizerID := uuid.New()

	draft, err := service.CreateEvent(context.Background(), organizerID, CreateEventRequest{
		Title: "Draft Event", Venue: "Somewhere", StartsAt: time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	live, err := service.CreateEvent(context.Background(), organizerID, CreateEventRequest{
		Title: "Live Event", Venue: "Elsewhere", StartsAt: time.Now().AddDate(0, 0, 20),
	})
	require.NoError(t, err)
	_, err = service.PublishEvent(context.Background(), live.ID, organizerID)
	require.NoError(t, err)

	listed, total, err := service.ListPublished(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, live.ID, listed[0].ID)
	assert.NotEqual(t, draft.ID, listed[0].ID)
}
