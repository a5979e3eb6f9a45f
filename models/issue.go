package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Pothole         IssueCategory = "Pothole"
	RoadDamage      IssueCategory = "RoadDamage"
	Garbage         IssueCategory = "Garbage"
	ParkMaintenance IssueCategory = "ParkMaintenance"
	Drainage        IssueCategory = "Drainage"
	BridgeRepair    IssueCategory = "BridgeRepair"
	Construction    IssueCategory = "Construction"
	PowerOutage     IssueCategory = "PowerOutage"
	StreetLight     IssueCategory = "StreetLight"
	CableDamage     IssueCategory = "CableDamage"
	WaterShortage   IssueCategory = "WaterShortage"
	PipeLeakage     IssueCategory = "PipeLeakage"
	Sewage          IssueCategory = "Sewage"
	TrafficSignal   IssueCategory = "TrafficSignal"
	RoadSafety      IssueCategory = "RoadSafety"
	Parking         IssueCategory = "Parking"
	FireSafety      IssueCategory = "FireSafety"
	EmergencyAccess IssueCategory = "EmergencyAccess"
	PublicHealth    IssueCategory = "PublicHealth"
	Sanitation      IssueCategory = "Sanitation"
	TreeCutting     IssueCategory = "TreeCutting"
	ParkDamage      IssueCategory = "ParkDamage"
	Other           IssueCategory = "Other"
)

// Department enum
type Department string

const (
	MunicipalCorporation Department = "Municipal Corporation"
	PWD                  Department = "PWD"
	ElectricityBoard     Department = "Electricity Board"
	WaterDepartment      Department = "Water Department"
	TrafficPolice        Department = "Traffic Police"
	FireDepartment       Department = "Fire Department"
	HealthDepartment     Department = "Health Department"
	ForestDepartment     Department = "Forest Department"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending     IssueStatus = "Pending"
	UnderReview IssueStatus = "Under Review"
	Accepted    IssueStatus = "Accepted"
	Declined    IssueStatus = "Declined"
	InProgress  IssueStatus = "In Progress"
	Resolved    IssueStatus = "Resolved"
	Delayed     IssueStatus = "Delayed"
)

// TimelineEntry is one immutable record in an issue's audit trail.
// Entries are only ever appended, never edited or removed.
type TimelineEntry struct {
	FromState IssueStatus        `bson:"fromState" json:"fromState"`
	ToState   IssueStatus        `bson:"toState" json:"toState"`
	Actor     primitive.ObjectID `bson:"actor" json:"actor"`
	ActorRole string             `bson:"actorRole" json:"actorRole"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
}

// Engagement holds the community interaction counters for an issue.
// Counters only grow and are maintained with atomic $inc updates.
type Engagement struct {
	Likes    int64 `bson:"likes" json:"likes"`
	Comments int64 `bson:"comments" json:"comments"`
	Reposts  int64 `bson:"reposts" json:"reposts"`
	Views    int64 `bson:"views" json:"views"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	Category        IssueCategory       `bson:"category" json:"category"`
	Department      Department          `bson:"department,omitempty" json:"department,omitempty"`
	Priority        IssuePriority       `bson:"priority,omitempty" json:"priority,omitempty"`
	Status          IssueStatus         `bson:"status" json:"status"`
	Location        string              `bson:"location" json:"location"`
	ImageURL        *string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Longitude       *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Latitude        *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	ReportedBy      primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	AssignedOfficer *primitive.ObjectID `bson:"assignedOfficer,omitempty" json:"assignedOfficer,omitempty"`
	Confidence      float64             `bson:"confidence" json:"confidence"`
	Triage          bool                `bson:"triage" json:"triage"`
	ResolutionNote  string              `bson:"resolutionNote,omitempty" json:"resolutionNote,omitempty"`
	HasProof        bool                `bson:"hasProof" json:"hasProof"`
	ProofURLs       []string            `bson:"proofUrls,omitempty" json:"proofUrls,omitempty"`
	Timeline        []TimelineEntry     `bson:"timeline" json:"timeline"`
	Engagement      Engagement          `bson:"engagement" json:"engagement"`
	Version         int64               `bson:"version" json:"-"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
