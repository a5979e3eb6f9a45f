package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"govx-be/apperrors"
	"govx-be/classifier"
	"govx-be/config"
	"govx-be/dispatcher"
	"govx-be/engagement"
	"govx-be/lifecycle"
	"govx-be/models"
	"govx-be/routing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var issueCollection *mongo.Collection = config.GetCollection("issues")
var likeCollection *mongo.Collection = config.GetCollection("likes")
var commentCollection *mongo.Collection = config.GetCollection("comments")
var notificationCollection *mongo.Collection = config.GetCollection("notifications")
var userCollection *mongo.Collection = config.GetCollection("users")

var (
	ledger          *engagement.Ledger
	notify          *dispatcher.Dispatcher
	imageClassifier *classifier.Client
)

// Setup wires the controllers' collaborators. Must run after ConnectRedis;
// bus may be nil when no broker is configured.
func Setup(bus dispatcher.Bus) {
	if err := models.EnsureLikeIndex(likeCollection); err != nil {
		log.Println("Error ensuring like index:", err)
	}
	if err := models.EnsureNotificationIndex(notificationCollection); err != nil {
		log.Println("Error ensuring notification index:", err)
	}

	ledger = engagement.NewLedger(issueCollection, likeCollection, commentCollection, config.RedisClient)
	notify = dispatcher.New(notificationCollection, bus)
	imageClassifier = classifier.NewClient(os.Getenv("CLASSIFIER_URL"), os.Getenv("CLASSIFIER_API_KEY"))
}

// CreateIssue handles the submission of a new issue: the photo is sent to
// the classifier, the router assigns a department and priority, and the
// issue enters the lifecycle as Pending. A classifier failure or a
// low-confidence verdict never fails the submission; the issue is created
// without a department and lands in the manual triage queue instead.
func CreateIssue(c *gin.Context) {
	// Extract user ID from context (set by auth middleware)
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reportedByID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,min=10,max=1000"`
		Category    string   `json:"category,omitempty"`
		Location    string   `json:"location" binding:"required,max=200"`
		ImageURL    *string  `json:"imageUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.IssueCategory(input.Category)
	confidence := 0.0

	switch {
	case input.Category != "":
		// Citizen picked a category; trust it if the router knows it.
		if !routing.Routable(category) && category != models.Other {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		confidence = 1.0
	case input.ImageURL != nil:
		result, cerr := imageClassifier.Classify(c.Request.Context(), *input.ImageURL, input.Description)
		if cerr != nil {
			var classErr *apperrors.ClassificationError
			if !errors.As(cerr, &classErr) {
				apperrors.Respond(c, cerr)
				return
			}
			log.Println("Classification fell back to manual triage:", cerr)
			category = models.Other
		} else {
			category = result.Category
			confidence = result.Confidence
		}
	default:
		category = models.Other
	}

	now := time.Now()
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Status:      models.Pending,
		Location:    input.Location,
		ImageURL:    input.ImageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ReportedBy:  reportedByID,
		Confidence:  confidence,
		Timeline:    []models.TimelineEntry{lifecycle.InitialEntry(reportedByID, now)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if department, priority, rerr := routing.Route(category); rerr == nil {
		issue.Department = department
		issue.Priority = priority
	} else {
		issue.Triage = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = issueCollection.InsertOne(ctx, issue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues handles retrieving all issues with filtering and pagination
func GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Parse query parameters
	category := c.Query("category")
	department := c.Query("department")
	status := c.Query("status")
	search := c.Query("search")
	sortParam := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	// Build query filter
	filter := bson.M{}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if department != "" && department != "all" {
		filter["department"] = department
	}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	// Calculate pagination
	skip := (page - 1) * limit

	// Sort options
	var sortOptions bson.D
	switch sortParam {
	case "oldest":
		sortOptions = bson.D{{Key: "createdAt", Value: 1}}
	case "engagement":
		sortOptions = bson.D{{Key: "engagement.likes", Value: -1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "createdAt", Value: -1}}
	}

	// Get total count for pagination
	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
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

// GetIssue retrieves an issue by its ID and counts the view
func GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	if views := ledger.View(ctx, issueID); views > 0 {
		issue.Engagement.Views = views
	}

	// Get reporter info
	var reporter models.User
	reportedByMap := map[string]interface{}{
		"id": issue.ReportedBy,
	}
	if err := userCollection.FindOne(ctx, bson.M{"_id": issue.ReportedBy}).Decode(&reporter); err == nil {
		reportedByMap["name"] = reporter.Name
		reportedByMap["email"] = reporter.Email
	}

	// Check if current user has liked (if authenticated)
	userHasLiked := false
	if userIDStr, exists := c.Get("user_id"); exists {
		if currentUserID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			count, err := likeCollection.CountDocuments(ctx, bson.M{
				"issue": issueID,
				"user":  currentUserID,
			})
			if err == nil && count > 0 {
				userHasLiked = true
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              issue.ID,
		"title":           issue.Title,
		"description":     issue.Description,
		"category":        issue.Category,
		"department":      issue.Department,
		"priority":        issue.Priority,
		"status":          issue.Status,
		"location":        issue.Location,
		"imageUrl":        issue.ImageURL,
		"latitude":        issue.Latitude,
		"longitude":       issue.Longitude,
		"reportedBy":      reportedByMap,
		"assignedOfficer": issue.AssignedOfficer,
		"confidence":      issue.Confidence,
		"triage":          issue.Triage,
		"resolutionNote":  issue.ResolutionNote,
		"hasProof":        issue.HasProof,
		"proofUrls":       issue.ProofURLs,
		"timeline":        issue.Timeline,
		"engagement":      issue.Engagement,
		"userHasLiked":    userHasLiked,
		"createdAt":       issue.CreatedAt,
		"updatedAt":       issue.UpdatedAt,
	})
}

// GetIssuesByUser retrieves all issues reported by the authenticated citizen
func GetIssuesByUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueCollection.Find(ctx, bson.M{"reportedBy": userObjID}, findOptions)
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

	c.JSON(http.StatusOK, issues)
}

// UpdateIssue allows the reporter to edit descriptive fields while the
// issue is still Pending. Status, department and priority are never
// touched here; those belong to the lifecycle engine and the router.
func UpdateIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       *string  `json:"title,omitempty"`
		Description *string  `json:"description,omitempty"`
		Location    *string  `json:"location,omitempty"`
		ImageURL    *string  `json:"imageUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	if issue.ReportedBy != userObjID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this issue"})
		return
	}

	if issue.Status != models.Pending {
		c.JSON(http.StatusConflict, gin.H{"error": "Issues can only be edited while still pending"})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		if len(*input.Description) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be at least 10 characters"})
			return
		}
		update["description"] = *input.Description
	}
	if input.Location != nil {
		update["location"] = *input.Location
	}
	if input.ImageURL != nil {
		update["imageUrl"] = input.ImageURL
	}
	if input.Latitude != nil {
		update["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		update["longitude"] = *input.Longitude
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// LikeIssue records a like by the authenticated citizen. Re-liking is a
// no-op; there is no unlike.
func LikeIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	count, liked, err := ledger.Like(ctx, issueID, userObjID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record like"})
		return
	}

	if liked {
		go notify.EngagementEvent(&issue, "like", count)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Like recorded",
		"liked":        liked,
		"likes":        count,
		"userHasLiked": true,
	})
}

// CommentIssue adds a comment by the authenticated citizen
func CommentIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required,max=500"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	comment, count, err := ledger.Comment(ctx, issueID, userObjID, input.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	go notify.EngagementEvent(&issue, "comment", count)

	c.JSON(http.StatusCreated, gin.H{
		"comment":  comment,
		"comments": count,
	})
}

// GetComments retrieves an issue's comments, newest first
func GetComments(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comments, err := ledger.Comments(ctx, issueID, int64(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// RepostIssue bumps the repost counter for an issue
func RepostIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := ledger.Repost(ctx, issueID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Repost recorded",
		"reposts": count,
	})
}

// GetIssueAnalytics returns analytical data about issues
func GetIssueAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Get issues by category using aggregation
	categoryPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$category",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}
	defer categoryCursor.Close(ctx)

	var issuesByCategory []bson.M
	if err := categoryCursor.All(ctx, &issuesByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category analytics"})
		return
	}

	// Get issues by department
	departmentPipeline := []bson.M{
		{
			"$match": bson.M{"department": bson.M{"$ne": ""}},
		},
		{
			"$group": bson.M{
				"_id":   "$department",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	departmentCursor, err := issueCollection.Aggregate(ctx, departmentPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get department analytics"})
		return
	}
	defer departmentCursor.Close(ctx)

	var issuesByDepartment []bson.M
	if err := departmentCursor.All(ctx, &issuesByDepartment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode department analytics"})
		return
	}

	// Get last 7 days data
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Get top engaged issues
	findOptions := options.Find().
		SetSort(bson.D{{Key: "engagement.likes", Value: -1}}).
		SetLimit(5)

	cursor, err := issueCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top issues"})
		return
	}
	defer cursor.Close(ctx)

	var topIssues []models.Issue
	if err := cursor.All(ctx, &topIssues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode top issues"})
		return
	}

	type TopEngagedIssue struct {
		ID         primitive.ObjectID `json:"id"`
		Title      string             `json:"title"`
		Category   string             `json:"category"`
		Department string             `json:"department"`
		Status     string             `json:"status"`
		Likes      int64              `json:"likes"`
		Comments   int64              `json:"comments"`
	}

	topEngaged := make([]TopEngagedIssue, 0, len(topIssues))
	for _, issue := range topIssues {
		topEngaged = append(topEngaged, TopEngagedIssue{
			ID:         issue.ID,
			Title:      issue.Title,
			Category:   string(issue.Category),
			Department: string(issue.Department),
			Status:     string(issue.Status),
			Likes:      issue.Engagement.Likes,
			Comments:   issue.Engagement.Comments,
		})
	}

	// Get total counts
	totalIssues, err := issueCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	openIssues, err := issueCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{
			string(models.Pending), string(models.UnderReview),
			string(models.Accepted), string(models.InProgress), string(models.Delayed),
		}},
	})
	if err != nil {
		openIssues = 0
	}

	resolvedIssues, err := issueCollection.CountDocuments(ctx, bson.M{"status": models.Resolved})
	if err != nil {
		resolvedIssues = 0
	}

	triageQueue, err := issueCollection.CountDocuments(ctx, bson.M{"triage": true})
	if err != nil {
		triageQueue = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesByCategory":   issuesByCategory,
		"issuesByDepartment": issuesByDepartment,
		"last7Days":          last7Days,
		"topEngagedIssues":   topEngaged,
		"totalIssues":        totalIssues,
		"openIssues":         openIssues,
		"resolvedIssues":     resolvedIssues,
		"triageQueue":        triageQueue,
	})
}

// RecentIssues returns the most recent issues that have latitude and longitude
func RecentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	limit := 19

	// Filter for issues that have both latitude and longitude
	filter := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}

	projection := bson.M{
		"_id":        1,
		"title":      1,
		"latitude":   1,
		"longitude":  1,
		"location":   1,
		"category":   1,
		"department": 1,
		"status":     1,
		"createdAt":  1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}
	defer cursor.Close(ctx)

	type IssueProjection struct {
		ID         primitive.ObjectID `bson:"_id" json:"id"`
		Title      string             `bson:"title" json:"title"`
		Latitude   *float64           `bson:"latitude" json:"latitude"`
		Longitude  *float64           `bson:"longitude" json:"longitude"`
		Location   string             `bson:"location" json:"location"`
		Category   string             `bson:"category" json:"category"`
		Department string             `bson:"department" json:"department"`
		Status     string             `bson:"status" json:"status"`
		CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	}

	var issues []IssueProjection
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode recent issues"})
		return
	}

	type IssueResponse struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Latitude   float64   `json:"latitude"`
		Longitude  float64   `json:"longitude"`
		Location   string    `json:"location"`
		Category   string    `json:"category,omitempty"`
		Department string    `json:"department,omitempty"`
		Status     string    `json:"status,omitempty"`
		CreatedAt  time.Time `json:"createdAt,omitempty"`
	}

	response := []IssueResponse{}
	for _, issue := range issues {
		if issue.Latitude != nil && issue.Longitude != nil {
			response = append(response, IssueResponse{
				ID:         issue.ID.Hex(),
				Title:      issue.Title,
				Latitude:   *issue.Latitude,
				Longitude:  *issue.Longitude,
				Location:   issue.Location,
				Category:   issue.Category,
				Department: issue.Department,
				Status:     issue.Status,
				CreatedAt:  issue.CreatedAt,
			})
		}
	}

	c.JSON(http.StatusOK, response)
}
