// Package sla runs the recurring escalation sweep over open complaints.
package sla

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"janmat/backend/internal/config"
	"janmat/backend/internal/models"
	"janmat/backend/internal/storage"
)

// EscalationComment is the timeline comment recorded for every breach.
const EscalationComment = "SLA Violated - Escalated to Supervisor"

// Producer publishes a notification envelope onto the durable queue.
type Producer interface {
	Publish(msg models.NotificationMessage) error
}

// Scheduler sweeps for complaints that outlived their urgency's SLA
// threshold and escalates each one. There is no already-escalated marker:
// a complaint that stays overdue is escalated again on every sweep until
// its status changes.
type Scheduler struct {
	Storage  storage.Storage
	Producer Producer
}

func NewScheduler(s storage.Storage, p Producer) *Scheduler {
	return &Scheduler{Storage: s, Producer: p}
}

// Start registers the hourly sweep and starts the cron runner. The
// returned cron can be stopped on shutdown.
func (s *Scheduler) Start() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(config.SLASchedule, func() {
		log.Println("Running SLA check...")
		s.Sweep(time.Now())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Sweep finds overdue complaints as of now and escalates each one.
// Complaints are processed independently: one failure is logged and the
// sweep moves on to the next.
func (s *Scheduler) Sweep(now time.Time) {
	overdue, err := s.Storage.FindOverdueComplaints(now)
	if err != nil {
		log.Printf("ERROR: SLA sweep aborted, overdue query failed: %v", err)
		return
	}

	for i := range overdue {
		s.escalate(&overdue[i])
	}
}

func (s *Scheduler) escalate(complaint *models.Complaint) {
	log.Printf("Escalating complaint %s", complaint.ID)

	entry := &models.TimelineEntry{
		ComplaintID: complaint.ID,
		Status:      complaint.Status,
		Comment:     EscalationComment,
		UpdatedBy:   models.SystemActor,
	}
	if err := s.Storage.AppendTimelineEntry(entry); err != nil {
		log.Printf("ERROR: Failed to record escalation for complaint %s: %v", complaint.ID, err)
		return
	}

	user, err := s.Storage.GetUserByID(complaint.UserID)
	if err != nil {
		log.Printf("WARNING: Owner lookup failed for complaint %s: %v", complaint.ID, err)
		return
	}
	if user.Email == "" {
		return
	}

	msg := models.NotificationMessage{
		Type:    models.NotifyEmail,
		To:      user.Email,
		Subject: "Complaint Escalated",
		Text:    fmt.Sprintf("Your complaint %q has been escalated due to SLA violation.", complaint.Title),
	}
	if err := s.Producer.Publish(msg); err != nil {
		log.Printf("WARNING: Escalation notification for %s dropped: %v", user.Email, err)
	}
}
