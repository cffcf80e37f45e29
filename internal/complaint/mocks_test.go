package complaint_test

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"janmat/backend/internal/models"
)

// MockStorage is a hand-written testify mock for storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(complaint *models.Complaint, seed *models.TimelineEntry) error {
	args := m.Called(complaint, seed)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyTransition(complaint *models.Complaint, entry *models.TimelineEntry) error {
	args := m.Called(complaint, entry)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) DeleteComplaint(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) ListComplaintsByOwner(userID string) ([]models.Complaint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsAssigned(officerID string) ([]models.Complaint, error) {
	args := m.Called(officerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) FindOverdueComplaints(now time.Time) ([]models.Complaint, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) AppendTimelineEntry(entry *models.TimelineEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockProducer records published envelopes.
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(msg models.NotificationMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

// MockHub records pushed updates.
type MockHub struct {
	mu     sync.Mutex
	pushed []*models.Complaint
}

func (m *MockHub) PushComplaint(userID string, complaint *models.Complaint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushed = append(m.pushed, complaint)
}

func (m *MockHub) Pushed() []*models.Complaint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Complaint(nil), m.pushed...)
}
