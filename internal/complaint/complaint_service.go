// Package complaint owns the complaint lifecycle: creation, status
// transitions with their audit trail, content edits, and deletion. Every
// committed transition also feeds the notification queue and the
// real-time push channel, both best-effort.
package complaint

import (
	"fmt"
	"log"
	"time"

	"janmat/backend/internal/apperr"
	"janmat/backend/internal/models"
	"janmat/backend/internal/storage"
)

// Producer publishes a notification envelope onto the durable queue.
type Producer interface {
	Publish(msg models.NotificationMessage) error
}

// Pusher fans a complaint update out to the owner's live sessions.
type Pusher interface {
	PushComplaint(userID string, complaint *models.Complaint)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Producer Producer
	Hub      Pusher
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, p Producer, hub Pusher) *Service {
	return &Service{Storage: s, Producer: p, Hub: hub}
}

// CreateInput are the citizen-supplied fields of a new complaint.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Urgency     string
	Attachments []string
}

// UpdateInput are the owner-editable content fields. Empty fields are
// left unchanged.
type UpdateInput struct {
	Title       string
	Description string
	Urgency     string
	Location    string
}

// Create registers a new complaint in PENDING with its seed timeline
// entry and enqueues a registration notification for the owner.
func (s *Service) Create(ownerID string, in CreateInput) (*models.Complaint, error) {
	if in.Category == "" {
		in.Category = PredictCategory(in.Title + " " + in.Description)
	}
	if in.Urgency == "" {
		in.Urgency = models.UrgencyMedium
	}

	complaint := &models.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Urgency:     in.Urgency,
		Status:      models.StatusPending,
		UserID:      ownerID,
		Attachments: in.Attachments,
	}
	seed := &models.TimelineEntry{
		Status:    models.StatusPending,
		Comment:   "Complaint registered",
		UpdatedBy: models.SystemActor,
	}

	if err := s.Storage.CreateComplaint(complaint, seed); err != nil {
		log.Printf("ERROR: Failed to create complaint for user %s: %v", ownerID, err)
		return nil, err
	}
	complaint.Timeline = []models.TimelineEntry{*seed}

	s.notifyOwner(ownerID, "Complaint Registered",
		fmt.Sprintf("Your complaint %q has been registered successfully.", complaint.Title))

	return complaint, nil
}

// Transition applies a status change. Any status is reachable from any
// other; the only systemic rule is that ResolvedAt is stamped on the
// first transition to RESOLVED and never cleared afterwards. The status
// update and its timeline entry commit as one atomic unit; the push and
// the notification happen after the commit and never roll it back.
func (s *Service) Transition(id, newStatus, comment, actor string) (*models.Complaint, error) {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	complaint.Status = newStatus
	if newStatus == models.StatusResolved && complaint.ResolvedAt == nil {
		now := time.Now()
		complaint.ResolvedAt = &now
	}

	entry := &models.TimelineEntry{
		ComplaintID: complaint.ID,
		Status:      newStatus,
		Comment:     comment,
		UpdatedBy:   actor,
	}

	if err := s.Storage.ApplyTransition(complaint, entry); err != nil {
		log.Printf("ERROR: Failed to apply transition on complaint %s: %v", id, err)
		return nil, err
	}
	complaint.Timeline = append(complaint.Timeline, *entry)

	if s.Hub != nil {
		s.Hub.PushComplaint(complaint.UserID, complaint)
	}

	s.notifyOwner(complaint.UserID, "Complaint Updated",
		fmt.Sprintf("Your complaint %q is now %s.", complaint.Title, newStatus))

	return complaint, nil
}

// Update applies content edits. Only the original owner may edit.
func (s *Service) Update(id, requesterID string, in UpdateInput) (*models.Complaint, error) {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != requesterID {
		return nil, apperr.Forbidden("Not authorized to update this complaint")
	}

	if in.Title != "" {
		complaint.Title = in.Title
	}
	if in.Description != "" {
		complaint.Description = in.Description
	}
	if in.Urgency != "" {
		complaint.Urgency = in.Urgency
	}
	if in.Location != "" {
		complaint.Location = in.Location
	}

	if err := s.Storage.UpdateComplaint(complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// Delete removes a complaint and its timeline. Only the original owner
// may delete.
func (s *Service) Delete(id, requesterID string) error {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if complaint.UserID != requesterID {
		return apperr.Forbidden("Not authorized to delete this complaint")
	}
	return s.Storage.DeleteComplaint(id)
}

// Get returns a complaint with its timeline.
func (s *Service) Get(id string) (*models.Complaint, error) {
	return s.Storage.GetComplaintByID(id)
}

// ListByOwner returns the citizen's own complaints, newest first.
func (s *Service) ListByOwner(ownerID string) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsByOwner(ownerID)
}

// ListAssigned returns the complaints assigned to an officer, newest first.
func (s *Service) ListAssigned(officerID string) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsAssigned(officerID)
}

// notifyOwner looks up the owner's contact addresses and fire-and-forget
// publishes the notification. Failures are logged and absorbed: the
// caller's state change already committed and must stand.
func (s *Service) notifyOwner(userID, subject, text string) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		log.Printf("WARNING: Cannot notify user %s: %v", userID, err)
		return
	}

	if user.Email != "" {
		msg := models.NotificationMessage{
			Type:    models.NotifyEmail,
			To:      user.Email,
			Subject: subject,
			Text:    text,
		}
		if err := s.Producer.Publish(msg); err != nil {
			log.Printf("WARNING: Notification for %s dropped: %v", user.Email, err)
		}
	}

	if user.TelegramChatID != "" {
		msg := models.NotificationMessage{
			Type:    models.NotifyTelegram,
			To:      user.TelegramChatID,
			Subject: subject,
			Text:    subject + ": " + text,
		}
		if err := s.Producer.Publish(msg); err != nil {
			log.Printf("WARNING: Telegram notification for user %s dropped: %v", userID, err)
		}
	}
}
