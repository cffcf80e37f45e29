package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Needed for pq.StringArray
	"gorm.io/gorm"
)

// Complaint statuses.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusRejected   = "REJECTED"
)

// Urgency tiers.
const (
	UrgencyLow    = "LOW"
	UrgencyMedium = "MEDIUM"
	UrgencyHigh   = "HIGH"
)

// Complaint represents a citizen-filed issue tracked through its status
// lifecycle. All status changes go through the lifecycle service; the
// Timeline association is the append-only audit log of those changes.
type Complaint struct {
	// ID is the unique identifier for the complaint (UUID).
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:text" json:"category"`
	Location    string `gorm:"type:text" json:"location"`
	// Urgency is one of LOW, MEDIUM, HIGH. It drives the SLA thresholds.
	Urgency string `gorm:"type:text;not null" json:"urgency"`
	// Status is one of PENDING, IN_PROGRESS, RESOLVED, REJECTED.
	Status string `gorm:"type:text;not null" json:"status"`
	// UserID is the citizen who filed the complaint and owns it.
	UserID string `gorm:"type:text;not null;index" json:"userId"`
	// AssignedTo is the officer currently responsible, if any.
	AssignedTo   *string        `gorm:"index" json:"assignedTo"`
	DepartmentID *string        `json:"departmentId"`
	Attachments  pq.StringArray `gorm:"type:text[]" json:"attachments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// ResolvedAt is stamped on the first transition to RESOLVED and is
	// never cleared or re-stamped afterwards.
	ResolvedAt *time.Time `json:"resolvedAt"`

	Timeline []TimelineEntry `gorm:"foreignKey:ComplaintID" json:"timeline"`
}

// BeforeCreate is a GORM hook that generates a UUID when none is set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// TimelineEntry is one immutable audit record of a complaint status event.
// Entries are only ever created, never updated; they are removed solely as
// a cascade when the parent complaint is deleted.
type TimelineEntry struct {
	ID          string `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"type:text;not null;index" json:"complaintId"`
	// Status is the complaint status at the time of the event.
	Status  string `gorm:"type:text;not null" json:"status"`
	Comment string `gorm:"type:text" json:"comment"`
	// UpdatedBy is the acting user's name, or SystemActor for events the
	// system itself records (registration seed, SLA escalation).
	UpdatedBy string    `gorm:"type:text;not null" json:"updatedBy"`
	CreatedAt time.Time `json:"timestamp"`
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// SystemActor marks timeline entries written by the system rather than a user.
const SystemActor = "SYSTEM"
