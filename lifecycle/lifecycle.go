// Package lifecycle is the single authority over issue status transitions.
// Every code path that changes an issue's status goes through Step, so the
// state graph and its audit trail are enforced in one place.
package lifecycle

import (
	"strings"
	"time"

	"govx-be/apperrors"
	"govx-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// transitions is the state graph. Absent keys are terminal states.
var transitions = map[models.IssueStatus][]models.IssueStatus{
	models.Pending:     {models.UnderReview},
	models.UnderReview: {models.Accepted, models.Declined},
	models.Accepted:    {models.InProgress},
	models.InProgress:  {models.Resolved, models.Delayed},
	models.Delayed:     {models.InProgress},
}

// Request describes an attempted transition on an issue.
type Request struct {
	To        models.IssueStatus
	Actor     primitive.ObjectID
	ActorRole models.UserRole
	Note      string
	ProofURLs []string
	Now       time.Time
}

// CanTransition reports whether the state graph allows from -> to.
func CanTransition(from, to models.IssueStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s models.IssueStatus) bool {
	return len(transitions[s]) == 0
}

// InitialEntry is the timeline record written when a citizen submits an
// issue. Creation is the only lifecycle action a citizen may perform.
func InitialEntry(citizen primitive.ObjectID, now time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		ToState:   models.Pending,
		Actor:     citizen,
		ActorRole: string(models.RoleCitizen),
		Timestamp: now,
	}
}

// Step validates a requested transition against the current status and
// returns the timeline entry to append. It does not touch storage; the
// caller commits the entry together with the status change.
func Step(current models.IssueStatus, req Request) (models.TimelineEntry, error) {
	if req.ActorRole != models.RoleDepartment {
		return models.TimelineEntry{}, apperrors.ErrForbidden
	}

	if !CanTransition(current, req.To) {
		return models.TimelineEntry{}, &apperrors.InvalidTransitionError{
			From: string(current),
			To:   string(req.To),
		}
	}

	note := strings.TrimSpace(req.Note)
	switch req.To {
	case models.Declined:
		if note == "" {
			return models.TimelineEntry{}, apperrors.NewValidation("reason", "declining an issue requires a reason")
		}
	case models.Resolved:
		if note == "" {
			return models.TimelineEntry{}, apperrors.NewValidation("note", "resolving an issue requires a resolution note")
		}
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	return models.TimelineEntry{
		FromState: current,
		ToState:   req.To,
		Actor:     req.Actor,
		ActorRole: string(req.ActorRole),
		Timestamp: now,
		Note:      note,
	}, nil
}

// Annotation is a timeline record that does not change state, used for
// audited actions like manual triage assignment. Replay treats it as a
// no-op as long as it stays on the current state.
func Annotation(current models.IssueStatus, actor primitive.ObjectID, role models.UserRole, note string, now time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		FromState: current,
		ToState:   current,
		Actor:     actor,
		ActorRole: string(role),
		Timestamp: now,
		Note:      note,
	}
}

// Replay runs a stored timeline through the state graph and returns the
// final status. The first entry must enter Pending and each later entry
// must continue from where the previous one left off.
func Replay(timeline []models.TimelineEntry) (models.IssueStatus, error) {
	if len(timeline) == 0 {
		return "", apperrors.NewValidation("timeline", "timeline must not be empty")
	}
	if timeline[0].ToState != models.Pending {
		return "", &apperrors.InvalidTransitionError{
			From: string(timeline[0].FromState),
			To:   string(timeline[0].ToState),
		}
	}

	current := models.Pending
	for _, entry := range timeline[1:] {
		if entry.FromState == current && entry.ToState == current {
			continue // annotation, no state change
		}
		if entry.FromState != current || !CanTransition(current, entry.ToState) {
			return "", &apperrors.InvalidTransitionError{
				From: string(current),
				To:   string(entry.ToState),
			}
		}
		current = entry.ToState
	}
	return current, nil
}
