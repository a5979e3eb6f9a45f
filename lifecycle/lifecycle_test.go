package lifecycle

import (
	"errors"
	"testing"
	"time"

	"govx-be/apperrors"
	"govx-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	staffID   = primitive.NewObjectID()
	citizenID = primitive.NewObjectID()
)

func staffRequest(to models.IssueStatus, note string) Request {
	return Request{
		To:        to,
		Actor:     staffID,
		ActorRole: models.RoleDepartment,
		Note:      note,
		Now:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to models.IssueStatus
	}{
		{models.Pending, models.UnderReview},
		{models.UnderReview, models.Accepted},
		{models.UnderReview, models.Declined},
		{models.Accepted, models.InProgress},
		{models.InProgress, models.Resolved},
		{models.InProgress, models.Delayed},
		{models.Delayed, models.InProgress},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct {
		from, to models.IssueStatus
	}{
		{models.Pending, models.Accepted},
		{models.Pending, models.Resolved},
		{models.Resolved, models.Pending},
		{models.Resolved, models.InProgress},
		{models.Declined, models.UnderReview},
		{models.Declined, models.Pending},
		{models.Accepted, models.Resolved},
		{models.Delayed, models.Resolved},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []models.IssueStatus{models.Resolved, models.Declined} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []models.IssueStatus{models.Pending, models.UnderReview, models.Accepted, models.InProgress, models.Delayed} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestStepRejectsCitizens(t *testing.T) {
	req := staffRequest(models.UnderReview, "")
	req.ActorRole = models.RoleCitizen
	req.Actor = citizenID

	_, err := Step(models.Pending, req)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStepInvalidTransition(t *testing.T) {
	_, err := Step(models.Resolved, staffRequest(models.Pending, ""))

	var te *apperrors.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if te.From != string(models.Resolved) || te.To != string(models.Pending) {
		t.Errorf("error should name current state and target, got %+v", te)
	}
}

func TestDeclineRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := Step(models.UnderReview, staffRequest(models.Declined, reason))
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError for reason %q, got %v", reason, err)
		}
	}

	entry, err := Step(models.UnderReview, staffRequest(models.Declined, "duplicate of another report"))
	if err != nil {
		t.Fatalf("decline with reason failed: %v", err)
	}
	if entry.Note != "duplicate of another report" {
		t.Errorf("unexpected note %q", entry.Note)
	}
	if !IsTerminal(entry.ToState) {
		t.Error("declined must be terminal")
	}
}

func TestResolveRequiresNote(t *testing.T) {
	_, err := Step(models.InProgress, staffRequest(models.Resolved, ""))
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	entry, err := Step(models.InProgress, staffRequest(models.Resolved, "pothole filled"))
	if err != nil {
		t.Fatalf("resolve with note failed: %v", err)
	}
	if entry.FromState != models.InProgress || entry.ToState != models.Resolved {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestHappyPathTimeline(t *testing.T) {
	timeline := []models.TimelineEntry{InitialEntry(citizenID, time.Now())}
	current := models.Pending

	steps := []struct {
		to   models.IssueStatus
		note string
	}{
		{models.UnderReview, ""},
		{models.Accepted, "verified on site"},
		{models.InProgress, ""},
		{models.Delayed, "waiting for materials"},
		{models.InProgress, ""},
		{models.Resolved, "road resurfaced"},
	}

	for _, s := range steps {
		entry, err := Step(current, staffRequest(s.to, s.note))
		if err != nil {
			t.Fatalf("step %s -> %s failed: %v", current, s.to, err)
		}
		timeline = append(timeline, entry)
		current = entry.ToState
	}

	if current != models.Resolved {
		t.Fatalf("expected final state Resolved, got %s", current)
	}

	// The stored audit trail must replay cleanly through the state graph.
	final, err := Replay(timeline)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if final != models.Resolved {
		t.Errorf("replay ended in %s, want Resolved", final)
	}
}

func TestReplayRejectsBadTimelines(t *testing.T) {
	now := time.Now()

	if _, err := Replay(nil); err == nil {
		t.Error("empty timeline must be rejected")
	}

	// First entry must enter Pending.
	bad := []models.TimelineEntry{{ToState: models.Resolved, Timestamp: now}}
	if _, err := Replay(bad); err == nil {
		t.Error("timeline not starting at Pending must be rejected")
	}

	// A skipped state is a graph violation.
	skipping := []models.TimelineEntry{
		InitialEntry(citizenID, now),
		{FromState: models.Pending, ToState: models.Resolved, Timestamp: now},
	}
	_, err := Replay(skipping)
	var te *apperrors.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestReplayAllowsAnnotations(t *testing.T) {
	now := time.Now()
	timeline := []models.TimelineEntry{
		InitialEntry(citizenID, now),
		Annotation(models.Pending, staffID, models.RoleDepartment, "Routed to PWD as Drainage", now),
	}

	final, err := Replay(timeline)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if final != models.Pending {
		t.Errorf("annotation must not change state, got %s", final)
	}
}

func TestInitialEntry(t *testing.T) {
	entry := InitialEntry(citizenID, time.Now())
	if entry.ToState != models.Pending {
		t.Errorf("first timeline entry must enter Pending, got %s", entry.ToState)
	}
	if entry.ActorRole != string(models.RoleCitizen) {
		t.Errorf("issues are created by citizens, got role %s", entry.ActorRole)
	}
}
