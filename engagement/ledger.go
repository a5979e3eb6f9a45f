// Package engagement tracks community interaction counters per issue:
// likes, comments, reposts, views. Counters are independent of lifecycle
// state and are maintained with operations that stay correct under
// concurrent citizens: a unique (issue, user) index deduplicates likes,
// Mongo $inc and Redis INCR are atomic, so no update is ever lost.
package engagement

import (
	"context"
	"fmt"
	"time"

	"govx-be/apperrors"
	"govx-be/models"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ledger is the authoritative engagement counter store for issues.
type Ledger struct {
	issues   *mongo.Collection
	likes    *mongo.Collection
	comments *mongo.Collection
	rdb      *redis.Client
}

func NewLedger(issues, likes, comments *mongo.Collection, rdb *redis.Client) *Ledger {
	return &Ledger{issues: issues, likes: likes, comments: comments, rdb: rdb}
}

// Like records a like by one citizen. A citizen counts at most once per
// issue: a repeat like hits the unique index and is a no-op success, so N
// distinct citizens always produce a final count of exactly N.
func (l *Ledger) Like(ctx context.Context, issueID, userID primitive.ObjectID) (int64, bool, error) {
	like := models.Like{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		User:      userID,
		CreatedAt: time.Now(),
	}

	_, err := l.likes.InsertOne(ctx, like)
	liked := true
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return 0, false, err
		}
		liked = false
	}

	if liked {
		if _, err := l.issues.UpdateByID(ctx, issueID, bson.M{
			"$inc": bson.M{"engagement.likes": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		}); err != nil {
			log.WithError(err).Error("failed to bump like counter")
		}
	}

	count, err := l.likes.CountDocuments(ctx, bson.M{"issue": issueID})
	if err != nil {
		return 0, liked, err
	}
	return count, liked, nil
}

// Comment stores a citizen's comment and bumps the counter. Returns the
// stored comment and the new comment count.
func (l *Ledger) Comment(ctx context.Context, issueID, author primitive.ObjectID, text string) (*models.Comment, int64, error) {
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if _, err := l.comments.InsertOne(ctx, comment); err != nil {
		return nil, 0, err
	}

	if _, err := l.issues.UpdateByID(ctx, issueID, bson.M{
		"$inc": bson.M{"engagement.comments": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}); err != nil {
		log.WithError(err).Error("failed to bump comment counter")
	}

	count, err := l.comments.CountDocuments(ctx, bson.M{"issue": issueID})
	if err != nil {
		return &comment, 0, err
	}
	return &comment, count, nil
}

// Comments returns an issue's comments, newest first.
func (l *Ledger) Comments(ctx context.Context, issueID primitive.ObjectID, limit int64) ([]models.Comment, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := l.comments.Find(ctx, bson.M{"issue": issueID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Repost bumps the repost counter and returns the new count.
func (l *Ledger) Repost(ctx context.Context, issueID primitive.ObjectID) (int64, error) {
	var updated models.Issue
	err := l.issues.FindOneAndUpdate(ctx, bson.M{"_id": issueID},
		bson.M{"$inc": bson.M{"engagement.reposts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}
	return updated.Engagement.Reposts, nil
}

// View counts one view. Views are high-volume so the authoritative counter
// lives in Redis (atomic INCR); the Mongo snapshot is refreshed from it
// best-effort and read paths fall back to the snapshot when Redis is down.
func (l *Ledger) View(ctx context.Context, issueID primitive.ObjectID) int64 {
	if l.rdb == nil {
		return 0
	}

	total, err := l.rdb.Incr(ctx, viewKey(issueID)).Result()
	if err != nil {
		log.WithError(err).Warn("failed to count view")
		return 0
	}

	if _, err := l.issues.UpdateByID(ctx, issueID, bson.M{
		"$set": bson.M{"engagement.views": total},
	}); err != nil {
		log.WithError(err).Warn("failed to mirror view counter")
	}
	return total
}

func viewKey(issueID primitive.ObjectID) string {
	return fmt.Sprintf("engagement:%s:views", issueID.Hex())
}
