package lifecycle

import (
	"context"
	"time"

	"govx-be/apperrors"
	"govx-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Apply runs a transition against the issues collection. Concurrent actions
// on the same issue are serialized with an optimistic version check: the
// update only matches the document at the status and version we validated
// against, so of two racing staff actions exactly one commits. Unrelated
// issues never contend.
func Apply(ctx context.Context, issues *mongo.Collection, issueID primitive.ObjectID, req Request) (*models.Issue, models.TimelineEntry, error) {
	var issue models.Issue
	if err := issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.TimelineEntry{}, apperrors.ErrNotFound
		}
		return nil, models.TimelineEntry{}, err
	}

	entry, err := Step(issue.Status, req)
	if err != nil {
		return nil, models.TimelineEntry{}, err
	}

	set := bson.M{
		"status":    req.To,
		"updatedAt": time.Now(),
	}
	switch req.To {
	case models.Accepted, models.InProgress:
		set["assignedOfficer"] = req.Actor
	case models.Resolved:
		set["resolutionNote"] = entry.Note
		set["hasProof"] = len(req.ProofURLs) > 0
		if len(req.ProofURLs) > 0 {
			set["proofUrls"] = req.ProofURLs
		}
	}

	filter := bson.M{
		"_id":     issueID,
		"status":  issue.Status,
		"version": issue.Version,
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"timeline": entry},
		"$inc":  bson.M{"version": 1},
	}

	var updated models.Issue
	err = issues.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Someone else moved the issue between our read and write.
			return nil, models.TimelineEntry{}, apperrors.ErrConflict
		}
		return nil, models.TimelineEntry{}, err
	}

	return &updated, entry, nil
}
