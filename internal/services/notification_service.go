package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/logger"
	"prodash/internal/models"
)

// notificationService stores reminders for tasks and country logs.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Create inserts a notification.
func (s *notificationService) Create(notification *models.Notification) error {
	if notification.Message == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "notification message is required")
	}
	if err := s.db.Create(notification).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Reschedule moves the reminder of (sourceType, sourceID) to notifyAt and
// marks it unsent. A missing reminder is created when notifyAt is set.
func (s *notificationService) Reschedule(userID uint, sourceType string, sourceID uint, notifyAt *time.Time, title, message string) error {
	var existing models.Notification
	err := s.db.Where("user_id = ? AND source_type = ? AND source_id = ?", userID, sourceType, sourceID).
		Order("id DESC").
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notifyAt == nil {
			return nil
		}
		return s.Create(&models.Notification{
			UserID:     userID,
			SourceType: sourceType,
			SourceID:   sourceID,
			Title:      title,
			Message:    message,
			NotifyAt:   notifyAt,
		})
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"notify_at": notifyAt,
		"sent_at":   nil,
		"title":     title,
		"message":   message,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func taskReminder(task *models.Task) *models.Notification {
	return &models.Notification{
		UserID:     task.UserID,
		SourceType: models.NotificationSourceTask,
		SourceID:   task.ID,
		Title:      task.Title,
		Message:    taskReminderMessage(task),
		NotifyAt:   task.NotifyAt,
	}
}

func taskReminderMessage(task *models.Task) string {
	if task.NotifyAt == nil {
		return "You have a task to do"
	}
	return fmt.Sprintf("You have a task to do at %s", task.NotifyAt.UTC().Format(time.RFC3339))
}

const visaReminderTitle = "Visa Expiry Alert"

func visaReminder(log *models.CountryLog) *models.Notification {
	return &models.Notification{
		UserID:     log.UserID,
		SourceType: models.NotificationSourceCountryLog,
		SourceID:   log.ID,
		Title:      visaReminderTitle,
		Message:    visaReminderMessage(log),
		NotifyAt:   log.NotifyAt,
	}
}

func visaReminderMessage(log *models.CountryLog) string {
	visa := log.VisaType
	if visa == "" {
		visa = "visa"
	}
	if log.ExitDate == nil {
		return fmt.Sprintf("Reminder: Your %s for %s is about to expire", visa, log.CountryName)
	}
	return fmt.Sprintf("Reminder: Your %s will expire on %s", visa, log.ExitDate.UTC().Format("2006-01-02"))
}

// notifySafely runs a reminder side effect. Failures are logged and dropped:
// the parent record has already been written.
func notifySafely(op string, sourceType string, sourceID uint, fn func() error) {
	if err := fn(); err != nil {
		logger.Get().Errorw("notification side effect failed",
			"op", op,
			"source_type", sourceType,
			"source_id", sourceID,
			"error", err,
		)
	}
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
