package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prodash/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTask creates a medium-priority task with the given status and start date.
func CreateTestTask(t *testing.T, db *gorm.DB, userID uint, status models.TaskStatus, start time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		UserID:    userID,
		Title:     fmt.Sprintf("Test Task %d", nextID()),
		Status:    status,
		Priority:  models.TaskPriorityMedium,
		StartDate: start.UTC(),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestExpense creates an entry of the given type, category and amount.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, typ models.ExpenseType, category, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Currency:    "USD",
		Type:        typ,
		ExpenseDate: date.UTC(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestMeeting creates a one-hour meeting starting at start.
func CreateTestMeeting(t *testing.T, db *gorm.DB, userID uint, start time.Time) *models.MeetingSchedule {
	t.Helper()

	meeting := &models.MeetingSchedule{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Meeting %d", nextID()),
		Description: "Weekly sync",
		StartTime:   start.UTC(),
		EndTime:     start.Add(time.Hour).UTC(),
	}
	if err := db.Create(meeting).Error; err != nil {
		t.Fatalf("failed to create test meeting: %v", err)
	}
	return meeting
}

// CreateTestCountryLog creates a stay in country starting at entry.
func CreateTestCountryLog(t *testing.T, db *gorm.DB, userID uint, country string, entry time.Time) *models.CountryLog {
	t.Helper()

	log := &models.CountryLog{
		UserID:        userID,
		CountryName:   country,
		VisaType:      "Tourist Visa",
		EntryDate:     entry.UTC(),
		VisaLimitDays: 90,
	}
	if err := db.Create(log).Error; err != nil {
		t.Fatalf("failed to create test country log: %v", err)
	}
	return log
}
