package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"govx-be/apperrors"
	"govx-be/lifecycle"
	"govx-be/models"
	"govx-be/routing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// staffFromContext loads the department staff user behind the request.
func staffFromContext(c *gin.Context, ctx context.Context) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	staffID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var staff models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": staffID}).Decode(&staff); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	if staff.Role != models.RoleDepartment {
		c.JSON(http.StatusForbidden, gin.H{"error": "Department role required"})
		return nil, false
	}
	return &staff, true
}

// transitionIssue runs one lifecycle transition for the issue in the URL.
// All department actions funnel through here, so the state graph is
// enforced in a single place and every transition lands in the timeline.
func transitionIssue(c *gin.Context, to models.IssueStatus, note string, proofURLs []string) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, ok := staffFromContext(c, ctx)
	if !ok {
		return
	}

	updated, entry, err := lifecycle.Apply(ctx, issueCollection, issueID, lifecycle.Request{
		To:        to,
		Actor:     staff.ID,
		ActorRole: staff.Role,
		Note:      note,
		ProofURLs: proofURLs,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	// Notification dispatch is fire-and-forget: a broker or store failure
	// must never roll back or block the committed transition.
	go notify.IssueTransitioned(updated, entry)

	c.JSON(http.StatusOK, updated)
}

// ReviewIssue moves a pending issue under review
func ReviewIssue(c *gin.Context) {
	var input struct {
		Note string `json:"note,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.UnderReview, input.Note, nil)
}

// AcceptIssue accepts an issue for resolution
func AcceptIssue(c *gin.Context) {
	var input struct {
		Note string `json:"note,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.Accepted, input.Note, nil)
}

// DeclineIssue declines an issue. The reason is mandatory; the lifecycle
// engine rejects an empty one.
func DeclineIssue(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.Declined, input.Reason, nil)
}

// StartIssue moves an accepted issue into progress
func StartIssue(c *gin.Context) {
	var input struct {
		Note string `json:"note,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.InProgress, input.Note, nil)
}

// ResolveIssue resolves an issue with a mandatory resolution note. Proof
// images are encouraged but optional; without them the issue is resolved
// with hasProof=false and proof can be appended later.
func ResolveIssue(c *gin.Context) {
	var input struct {
		Note      string   `json:"note"`
		ProofURLs []string `json:"proofUrls,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.Resolved, input.Note, input.ProofURLs)
}

// DelayIssue marks an in-progress issue as delayed
func DelayIssue(c *gin.Context) {
	var input struct {
		Reason string `json:"reason,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.Delayed, input.Reason, nil)
}

// ResumeIssue returns a delayed issue to in progress
func ResumeIssue(c *gin.Context) {
	var input struct {
		Note string `json:"note,omitempty"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionIssue(c, models.InProgress, input.Note, nil)
}

// AssignIssue resolves the manual triage queue: department staff pick the
// category and the router assigns department and priority. Also used to
// correct a misrouted issue while it has not been accepted yet.
func AssignIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department, priority, err := routing.Route(models.IssueCategory(input.Category))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, ok := staffFromContext(c, ctx)
	if !ok {
		return
	}

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.Status != models.Pending && issue.Status != models.UnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Issues can only be reassigned before acceptance"})
		return
	}

	now := time.Now()
	annotation := lifecycle.Annotation(issue.Status, staff.ID, staff.Role,
		"Routed to "+string(department)+" as "+input.Category, now)

	filter := bson.M{"_id": issueID, "version": issue.Version}
	update := bson.M{
		"$set": bson.M{
			"category":   input.Category,
			"department": department,
			"priority":   priority,
			"triage":     false,
			"updatedAt":  now,
		},
		"$push": bson.M{"timeline": annotation},
		"$inc":  bson.M{"version": 1},
	}

	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apperrors.Respond(c, apperrors.ErrConflict)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign issue"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AppendProof attaches proof images to an already resolved issue. This is
// not a lifecycle transition; the issue stays Resolved.
func AppendProof(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		ProofURLs []string `json:"proofUrls" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, ok := staffFromContext(c, ctx); !ok {
		return
	}

	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": issueID, "status": models.Resolved},
		bson.M{
			"$set":  bson.M{"hasProof": true, "updatedAt": time.Now()},
			"$push": bson.M{"proofUrls": bson.M{"$each": input.ProofURLs}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "Proof can only be appended to a resolved issue"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to append proof"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// OverridePriority sets an explicit priority on an issue. Priority is set
// by the router at creation and only ever changed here.
func OverridePriority(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Priority string `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch models.IssuePriority(input.Priority) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, ok := staffFromContext(c, ctx); !ok {
		return
	}

	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"priority": input.Priority, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update priority"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetDepartmentIssues returns the staff member's work queue: issues routed
// to their department, or the manual triage queue with ?triage=true.
func GetDepartmentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, ok := staffFromContext(c, ctx)
	if !ok {
		return
	}

	status := c.Query("status")
	triage, _ := strconv.ParseBool(c.DefaultQuery("triage", "false"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if triage {
		filter["triage"] = true
	} else {
		filter["department"] = staff.Department
	}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"issues":      issues,
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}
