package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"govx-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeStore struct {
	mu        sync.Mutex
	inserted  []models.Notification
	seen      map[string]bool
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[string]bool{}}
}

func (f *fakeStore) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}

	n := document.(models.Notification)
	key := n.RelatedIssue.Hex() + "/" + n.EventKey
	if f.seen[key] {
		// Simulate the unique (relatedIssue, eventKey) index.
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	f.seen[key] = true
	f.inserted = append(f.inserted, n)
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (f *fakeStore) notifications() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification{}, f.inserted...)
}

type fakeBus struct {
	mu        sync.Mutex
	published []interface{}
	err       error
}

func (f *fakeBus) Publish(message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, message)
	return nil
}

func (f *fakeBus) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func fixtureIssue() *models.Issue {
	return &models.Issue{
		ID:         primitive.NewObjectID(),
		Title:      "Streetlight out on MG Road",
		Priority:   models.PriorityMedium,
		Status:     models.UnderReview,
		ReportedBy: primitive.NewObjectID(),
	}
}

func fixtureEntry(to models.IssueStatus, note string) models.TimelineEntry {
	return models.TimelineEntry{
		FromState: models.UnderReview,
		ToState:   to,
		Actor:     primitive.NewObjectID(),
		ActorRole: string(models.RoleDepartment),
		Timestamp: time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
		Note:      note,
	}
}

func TestTransitionEmitsStatusUpdate(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	d := New(store, bus)

	issue := fixtureIssue()
	d.IssueTransitioned(issue, fixtureEntry(models.Accepted, ""))

	got := store.notifications()
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	n := got[0]
	if n.Type != models.StatusUpdate {
		t.Errorf("type = %s, want status_update", n.Type)
	}
	if n.User != issue.ReportedBy {
		t.Error("notification must go to the reporting citizen")
	}
	if n.RelatedIssue != issue.ID {
		t.Error("notification must reference the issue")
	}
	if n.Priority != issue.Priority {
		t.Error("priority must be snapshotted from the issue")
	}
	if n.EventKey == "" {
		t.Error("event key missing")
	}
	if bus.count() != 1 {
		t.Errorf("expected 1 publish, got %d", bus.count())
	}
}

func TestDuplicateEmissionIsNoOp(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	d := New(store, bus)

	issue := fixtureIssue()
	entry := fixtureEntry(models.Accepted, "")

	// At-least-once delivery: the same event may be dispatched twice.
	d.IssueTransitioned(issue, entry)
	d.IssueTransitioned(issue, entry)

	if got := len(store.notifications()); got != 1 {
		t.Errorf("expected 1 stored notification, got %d", got)
	}
	if bus.count() != 1 {
		t.Errorf("duplicate emission must not re-publish, got %d publishes", bus.count())
	}
}

func TestBusFailureDoesNotPropagate(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{err: errors.New("broker down")}
	d := New(store, bus)

	// Must not panic or surface the error; the record is still stored.
	d.IssueTransitioned(fixtureIssue(), fixtureEntry(models.Declined, "not a civic issue"))

	if got := len(store.notifications()); got != 1 {
		t.Errorf("expected notification stored despite bus failure, got %d", got)
	}
}

func TestStoreFailureDoesNotPropagate(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("mongo down")
	bus := &fakeBus{}
	d := New(store, bus)

	d.IssueTransitioned(fixtureIssue(), fixtureEntry(models.Accepted, ""))

	if bus.count() != 0 {
		t.Error("nothing should be published when the record was not stored")
	}
}

func TestNilBusIsTolerated(t *testing.T) {
	store := newFakeStore()
	d := New(store, nil)

	d.IssueTransitioned(fixtureIssue(), fixtureEntry(models.Accepted, ""))

	if got := len(store.notifications()); got != 1 {
		t.Errorf("expected 1 stored notification, got %d", got)
	}
}

func TestEngagementThresholds(t *testing.T) {
	cases := []struct {
		kind  string
		count int64
		emit  bool
	}{
		{"comment", 1, true},
		{"comment", 2, false},
		{"like", 10, true},
		{"like", 20, true},
		{"like", 7, false},
		{"like", 0, false},
		{"repost", 1, false},
	}

	for _, tc := range cases {
		store := newFakeStore()
		d := New(store, nil)

		d.EngagementEvent(fixtureIssue(), tc.kind, tc.count)

		got := len(store.notifications())
		if tc.emit && got != 1 {
			t.Errorf("%s count=%d: expected emission, got %d", tc.kind, tc.count, got)
		}
		if !tc.emit && got != 0 {
			t.Errorf("%s count=%d: expected no emission, got %d", tc.kind, tc.count, got)
		}
		if tc.emit && store.notifications()[0].Type != models.CommunityInteraction {
			t.Errorf("%s count=%d: wrong notification type", tc.kind, tc.count)
		}
	}
}
