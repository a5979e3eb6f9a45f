package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationType enum
type NotificationType string

const (
	StatusUpdate         NotificationType = "status_update"
	CommunityInteraction NotificationType = "community_interaction"
	System               NotificationType = "system"
)

// Notification is an event emitted to a citizen. RelatedIssue is a weak
// reference: lookups against it must fail soft if the issue is gone.
// Priority is a snapshot of the issue's priority at emission time.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Type         NotificationType   `bson:"type" json:"type"`
	RelatedIssue primitive.ObjectID `bson:"relatedIssue" json:"relatedIssueId"`
	EventKey     string             `bson:"eventKey" json:"-"`
	Priority     IssuePriority      `bson:"priority,omitempty" json:"priority,omitempty"`
	Message      string             `bson:"message" json:"message"`
	Read         bool               `bson:"read" json:"read"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureNotificationIndex creates a unique compound index for
// (relatedIssue, eventKey). Dispatch is at-least-once; the index makes a
// duplicate emission a no-op instead of a second notification.
func EnsureNotificationIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "relatedIssue", Value: 1}, {Key: "eventKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
