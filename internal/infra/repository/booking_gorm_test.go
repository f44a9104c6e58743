package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tutor-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-marketplace/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestBookingRepositoryTeacherExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1 AND role = \$2`).
		WithArgs(7, "TEACHER").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.TeacherExists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListWindowsConverts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "day_of_week", "start_time", "end_time", "is_available"}).
		AddRow(1, 7, 1, "09:00", "12:00", true).
		AddRow(2, 7, 1, "13:00", "17:30", false)
	mock.ExpectQuery(`FROM "availability_windows" WHERE teacher_id = \$1 AND day_of_week = \$2 ORDER BY start_time ASC`).
		WillReturnRows(rows)

	windows, err := repo.ListWindows(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, domain.TimeOfDay{Hour: 9}, windows[0].Start)
	assert.Equal(t, domain.TimeOfDay{Hour: 17, Minute: 30}, windows[1].End)
	assert.True(t, windows[0].IsAvailable)
	assert.False(t, windows[1].IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListWindowsCorruptRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "day_of_week", "start_time", "end_time", "is_available"}).
		AddRow(3, 7, 1, "9am", "12:00", true)
	mock.ExpectQuery(`FROM "availability_windows"`).WillReturnRows(rows)

	_, err := repo.ListWindows(context.Background(), 7, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeOfDay)
}

func TestBookingRepositoryListActiveBookings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	start := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "start_time", "end_time"}).
		AddRow(11, start, start.Add(time.Hour))
	mock.ExpectQuery(`FROM "bookings" WHERE teacher_id = \$1 AND status IN \(\$2,\$3\)`).
		WithArgs(7, "PENDING", "CONFIRMED").
		WillReturnRows(rows)

	list, err := repo.ListActiveBookings(context.Background(), 7, domain.ActiveStatuses())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(11), list[0].BookingID)
	assert.True(t, list[0].Start.Equal(start))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryGetBookingNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	mock.ExpectQuery(`FROM "bookings" WHERE "bookings"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBooking(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepositoryWithTeacherLockCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.WithTeacherLock(context.Background(), 7, func(tx domain.Repository) error {
		ok, err := tx.TeacherExists(context.Background(), 7)
		if err != nil {
			return err
		}
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryWithTeacherLockRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithTeacherLock(context.Background(), 7, func(domain.Repository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceWindows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "availability_windows" WHERE teacher_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO "availability_windows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	windows := []models.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		{DayOfWeek: 3, StartTime: "14:00", EndTime: "18:00", IsAvailable: true},
	}
	require.NoError(t, repo.ReplaceWindows(context.Background(), 7, windows))
	assert.Equal(t, uint(7), windows[0].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceWithEmptySetOnlyDeletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "availability_windows"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceWindows(context.Background(), 7, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositorySaveReceipt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payment_receipts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`UPDATE "bookings" SET "payment_status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt := &models.PaymentReceipt{BookingID: 9, UploadedBy: 1, ObjectKey: "receipts/9/x.webp", Status: "PENDING"}
	b := &models.Booking{ID: 9, PaymentStatus: string(domain.PaymentSubmitted)}

	require.NoError(t, repo.SaveReceipt(context.Background(), receipt, b))
	assert.Equal(t, uint(5), receipt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
