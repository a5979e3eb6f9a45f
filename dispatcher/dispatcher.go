// Package dispatcher turns lifecycle transitions and engagement milestones
// into Notification records for the reporting citizen. Dispatch is a side
// effect, not part of the transactional boundary: every failure here is
// logged and swallowed so it can never roll back or block the operation
// that triggered it. Delivery is at-least-once; a unique
// (relatedIssue, eventKey) index makes duplicate emissions no-ops.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"govx-be/models"

	"github.com/apex/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dispatchTimeout = 10 * time.Second

// notificationStore is the slice of *mongo.Collection the dispatcher needs.
// It is an interface so tests can run without a database.
type notificationStore interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Bus is the delivery channel for emitted notifications. Publish errors are
// tolerated: the stored record is the source of truth, the bus is transport.
type Bus interface {
	Publish(message interface{}) error
}

type Dispatcher struct {
	notifications notificationStore
	bus           Bus
}

// New creates a Dispatcher. bus may be nil when no broker is configured;
// notifications are then only persisted for the in-app feed.
func New(notifications notificationStore, bus Bus) *Dispatcher {
	return &Dispatcher{notifications: notifications, bus: bus}
}

// IssueTransitioned emits a status_update notification to the reporting
// citizen. Safe to call in a goroutine; it manages its own timeout.
func (d *Dispatcher) IssueTransitioned(issue *models.Issue, entry models.TimelineEntry) {
	n := models.Notification{
		User:         issue.ReportedBy,
		Type:         models.StatusUpdate,
		RelatedIssue: issue.ID,
		EventKey:     fmt.Sprintf("transition:%s:%d", entry.ToState, entry.Timestamp.UnixNano()),
		Priority:     issue.Priority,
		Message:      transitionMessage(issue, entry),
		CreatedAt:    time.Now(),
	}
	d.emit(n)
}

// EngagementEvent emits a community_interaction notification when an
// engagement counter crosses a milestone: the first comment, and every
// tenth like. Other counts are ignored.
func (d *Dispatcher) EngagementEvent(issue *models.Issue, kind string, count int64) {
	var message, eventKey string
	switch {
	case kind == "comment" && count == 1:
		eventKey = "comment:first"
		message = fmt.Sprintf("Your issue %q received its first comment", issue.Title)
	case kind == "like" && count > 0 && count%10 == 0:
		eventKey = fmt.Sprintf("like:%d", count)
		message = fmt.Sprintf("Your issue %q has reached %d likes", issue.Title, count)
	default:
		return
	}

	d.emit(models.Notification{
		User:         issue.ReportedBy,
		Type:         models.CommunityInteraction,
		RelatedIssue: issue.ID,
		EventKey:     eventKey,
		Priority:     issue.Priority,
		Message:      message,
		CreatedAt:    time.Now(),
	})
}

func (d *Dispatcher) emit(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if _, err := d.notifications.InsertOne(ctx, n); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Already emitted for this event; at-least-once made a duplicate.
			return
		}
		log.WithError(err).Error("failed to store notification")
		return
	}

	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(n); err != nil {
		log.WithError(err).Warn("failed to publish notification")
	}
}

func transitionMessage(issue *models.Issue, entry models.TimelineEntry) string {
	switch entry.ToState {
	case models.Declined:
		return fmt.Sprintf("Your issue %q was declined: %s", issue.Title, entry.Note)
	case models.Resolved:
		return fmt.Sprintf("Your issue %q has been resolved", issue.Title)
	default:
		return fmt.Sprintf("Your issue %q is now %s", issue.Title, entry.ToState)
	}
}
