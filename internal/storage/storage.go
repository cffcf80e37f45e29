package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"janmat/backend/internal/apperr"
	"janmat/backend/internal/config"
	"janmat/backend/internal/models"
)

// Storage is the persistence boundary for the lifecycle service and the
// SLA sweep. The relational store must support atomic multi-row writes:
// a status transition commits the complaint row and its timeline entry as
// one unit or not at all.
type Storage interface {
	CreateComplaint(complaint *models.Complaint, seed *models.TimelineEntry) error
	GetComplaintByID(id string) (*models.Complaint, error)
	ApplyTransition(complaint *models.Complaint, entry *models.TimelineEntry) error
	UpdateComplaint(complaint *models.Complaint) error
	DeleteComplaint(id string) error
	ListComplaintsByOwner(userID string) ([]models.Complaint, error)
	ListComplaintsAssigned(officerID string) ([]models.Complaint, error)
	FindOverdueComplaints(now time.Time) ([]models.Complaint, error)
	AppendTimelineEntry(entry *models.TimelineEntry) error

	GetUserByID(id string) (*models.User, error)
	SaveUser(user *models.User) error
}

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// CreateComplaint inserts the complaint together with its seed timeline
// entry in one transaction.
func (s *Service) CreateComplaint(complaint *models.Complaint, seed *models.TimelineEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			return err
		}
		seed.ComplaintID = complaint.ID
		return tx.Create(seed).Error
	})
}

// GetComplaintByID loads a complaint with its timeline, oldest entry first.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint

	err := s.DB.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	}).First(&complaint, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Complaint not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &complaint, nil
}

// ApplyTransition persists an updated complaint and the timeline entry
// recording the transition as one atomic unit. A partial write where the
// status changes but no entry lands, or the reverse, must be impossible.
func (s *Service) ApplyTransition(complaint *models.Complaint, entry *models.TimelineEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		// The timeline association is written explicitly below; saving it
		// through the complaint would duplicate preloaded entries.
		if err := tx.Omit(clause.Associations).Save(complaint).Error; err != nil {
			return err
		}
		entry.ComplaintID = complaint.ID
		return tx.Create(entry).Error
	})
}

// UpdateComplaint saves content edits that do not touch the timeline.
func (s *Service) UpdateComplaint(complaint *models.Complaint) error {
	return s.DB.Omit(clause.Associations).Save(complaint).Error
}

// DeleteComplaint removes the timeline first, then the complaint, in one
// transaction. The ordering respects the foreign key.
func (s *Service) DeleteComplaint(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.TimelineEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Complaint{}, "id = ?", id).Error
	})
}

func (s *Service) ListComplaintsByOwner(userID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Preload("Timeline").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints for user %s: %v", userID, err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) ListComplaintsAssigned(officerID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Preload("Timeline").
		Where("assigned_to = ?", officerID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints assigned to %s: %v", officerID, err)
		return nil, err
	}
	return complaints, nil
}

// FindOverdueComplaints returns open complaints whose age exceeds the
// urgency-specific SLA threshold relative to now.
func (s *Service) FindOverdueComplaints(now time.Time) ([]models.Complaint, error) {
	var complaints []models.Complaint

	err := s.DB.
		Where("status IN ?", []string{models.StatusPending, models.StatusInProgress}).
		Where("(urgency = ? AND created_at < ?) OR (urgency = ? AND created_at < ?) OR (urgency = ? AND created_at < ?)",
			models.UrgencyHigh, now.Add(-config.SLAHighThreshold),
			models.UrgencyMedium, now.Add(-config.SLAMediumThreshold),
			models.UrgencyLow, now.Add(-config.SLALowThreshold),
		).
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to query overdue complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// AppendTimelineEntry writes a standalone timeline entry (SLA escalation).
func (s *Service) AppendTimelineEntry(entry *models.TimelineEntry) error {
	if err := s.DB.Create(entry).Error; err != nil {
		log.Printf("ERROR: Failed to append timeline entry for complaint %s: %v", entry.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}
