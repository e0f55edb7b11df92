package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"protrack/models"
)

func setupMockDB(t *testing.T) (*GormStore, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, func() {
		sqlDB.Close()
	}
}

func TestGormStore_ListExpenses(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "category", "amount", "payment_mode", "notes", "created_at", "updated_at", "deleted_at"}).
			AddRow(2, 1, "2024-06-02", "Food", 120.5, "UPI", "", time.Now(), time.Now(), nil).
			AddRow(1, 1, "2024-06-01", "Travel", 40, "Cash", "bus", time.Now(), time.Now(), nil))

	list, err := s.ListExpenses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 120.5, list[0].Amount)
	assert.Equal(t, "bus", list[1].Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetExpense_NotFound(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetExpense(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateExpense(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	e := &models.Expense{UserID: 1, Date: "2024-06-01", Category: "Food", Amount: 10}
	require.NoError(t, s.CreateExpense(context.Background(), e))
	assert.Equal(t, uint(5), e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateExpense_NotFound(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.UpdateExpense(context.Background(), &models.Expense{ID: 3, UserID: 1, Date: "2024-06-01"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteExpense_SoftDelete(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteExpense(context.Background(), 1, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListTimeEntries_Normalizes(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `time_entries`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "activity", "start_time", "end_time", "hours", "minutes", "duration", "notes", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "2024-06-01", "Sleep", "22:30", "06:00", nil, nil, nil, "", time.Now(), time.Now(), nil).
			AddRow(2, 1, "2024-06-01", "Meetings", "10:00", "11:00", 1, 0, "1h", "", time.Now(), time.Now(), nil))

	list, err := s.ListTimeEntries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 7, list[0].Hours)
	assert.Equal(t, 30, list[0].Minutes)
	assert.Equal(t, "7h 30m", list[0].Duration)
	assert.Equal(t, "1h", list[1].Duration)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetBudget(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "created_at", "updated_at"}).
			AddRow(1, 1, 5000, time.Now(), time.Now()))

	amount, err := s.GetBudget(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)

	amount, err = s.GetBudget(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, amount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveBudget_Upsert(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveBudget(context.Background(), 1, 7500))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Import_RollsBack(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.Import(context.Background(),
		[]models.Expense{{UserID: 1, Date: "2024-06-01", Category: "Food", Amount: 1}},
		nil)
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ConsumePasswordReset_AlreadyUsed(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.ConsumePasswordReset(context.Background(), &models.PasswordReset{ID: 1, UserID: 1}, "hash")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
