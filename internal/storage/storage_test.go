package storage_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"janmat/backend/internal/apperr"
	"janmat/backend/internal/models"
	"janmat/backend/internal/storage"
)

func newMockDB(t *testing.T) (*storage.Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return storage.NewStorageService(db), mock
}

func TestApplyTransition_CommitsComplaintAndEntryTogether(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "complaints" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "timeline_entries"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	complaint := &models.Complaint{
		ID:        "c1",
		Title:     "Pothole",
		Urgency:   models.UrgencyHigh,
		Status:    models.StatusInProgress,
		UserID:    "user_1",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	entry := &models.TimelineEntry{
		Status:    models.StatusInProgress,
		Comment:   "assigned",
		UpdatedBy: "officer1",
	}

	err := svc.ApplyTransition(complaint, entry)

	assert.NoError(t, err)
	assert.Equal(t, "c1", entry.ComplaintID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed timeline insert rolls the whole transition back: the status
// update never commits without its audit record.
func TestApplyTransition_RollsBackOnEntryFailure(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "complaints" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "timeline_entries"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	complaint := &models.Complaint{ID: "c1", Status: models.StatusInProgress, UserID: "user_1"}
	entry := &models.TimelineEntry{Status: models.StatusInProgress, UpdatedBy: "officer1"}

	err := svc.ApplyTransition(complaint, entry)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransition_RollsBackOnComplaintFailure(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "complaints" SET`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	complaint := &models.Complaint{ID: "c1", Status: models.StatusInProgress, UserID: "user_1"}
	entry := &models.TimelineEntry{Status: models.StatusInProgress, UpdatedBy: "officer1"}

	err := svc.ApplyTransition(complaint, entry)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComplaint_InsertsComplaintAndSeedTogether(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "complaints"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "timeline_entries"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	complaint := &models.Complaint{
		Title:   "Pothole",
		Urgency: models.UrgencyHigh,
		Status:  models.StatusPending,
		UserID:  "user_1",
	}
	seed := &models.TimelineEntry{
		Status:    models.StatusPending,
		Comment:   "Complaint registered",
		UpdatedBy: models.SystemActor,
	}

	err := svc.CreateComplaint(complaint, seed)

	assert.NoError(t, err)
	assert.NotEmpty(t, complaint.ID)
	assert.Equal(t, complaint.ID, seed.ComplaintID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Timeline entries go first, then the complaint, honoring the foreign key.
func TestDeleteComplaint_DeletesTimelineBeforeComplaint(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "timeline_entries"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "complaints"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.DeleteComplaint("c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetComplaintByID_MapsMissingRowToNotFound(t *testing.T) {
	svc, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "complaints"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetComplaintByID("missing")

	assert.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// The overdue query carries the exact urgency cutoffs: a HIGH complaint
// filed 24h01m ago is selected, one filed 23h59m ago is not, because the
// comparison is created_at strictly before now minus the threshold.
func TestFindOverdueComplaints_UsesUrgencyCutoffs(t *testing.T) {
	svc, mock := newMockDB(t)

	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "complaints" WHERE status IN ($1,$2) AND ((urgency = $3 AND created_at < $4) OR (urgency = $5 AND created_at < $6) OR (urgency = $7 AND created_at < $8))`,
	)).WithArgs(
		models.StatusPending, models.StatusInProgress,
		models.UrgencyHigh, now.Add(-24*time.Hour),
		models.UrgencyMedium, now.Add(-48*time.Hour),
		models.UrgencyLow, now.Add(-72*time.Hour),
	).WillReturnRows(sqlmock.NewRows([]string{"id", "title", "urgency", "status", "user_id", "created_at"}).
		AddRow("c1", "Pothole", models.UrgencyHigh, models.StatusPending, "user_1", now.Add(-25*time.Hour)))

	overdue, err := svc.FindOverdueComplaints(now)

	assert.NoError(t, err)
	if assert.Len(t, overdue, 1) {
		assert.Equal(t, "c1", overdue[0].ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
