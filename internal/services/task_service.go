package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
)

// taskService handles task-related business logic.
type taskService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB, notifications NotificationServicer) TaskServicer {
	return &taskService{db: db, notifications: notifications}
}

func validateTaskInput(input *TaskInput) error {
	if input.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if input.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date is required")
	}
	if input.Status == "" {
		input.Status = models.TaskStatusToDo
	}
	if _, ok := statusColumns[input.Status]; !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown task status")
	}
	switch input.Priority {
	case "":
		input.Priority = models.TaskPriorityMedium
	case models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown task priority")
	}
	return nil
}

// CreateTask creates a task and, when NotifyAt is set, its reminder.
func (s *taskService) CreateTask(userID uint, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate.UTC(),
		DueDate:     utcPtr(input.DueDate),
		NotifyAt:    utcPtr(input.NotifyAt),
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if task.NotifyAt != nil {
		notifySafely("create", models.NotificationSourceTask, task.ID, func() error {
			return s.notifications.Create(taskReminder(task))
		})
	}

	return task, nil
}

// GetTaskByID retrieves a task by ID for a specific user
func (s *taskService) GetTaskByID(userID, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &task, nil
}

// UpdateTask replaces the task's fields and reschedules its reminder when
// NotifyAt changed.
func (s *taskService) UpdateTask(userID, taskID uint, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task, err := s.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}
	previousNotifyAt := task.NotifyAt

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"status":      input.Status,
		"priority":    input.Priority,
		"start_date":  input.StartDate.UTC(),
		"due_date":    utcPtr(input.DueDate),
		"notify_at":   utcPtr(input.NotifyAt),
	}
	result := s.db.Model(&models.Task{}).Where("id = ? AND user_id = ?", taskID, userID).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTaskNotFound
	}

	task, err = s.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if !sameInstant(previousNotifyAt, task.NotifyAt) {
		notifySafely("reschedule", models.NotificationSourceTask, task.ID, func() error {
			return s.notifications.Reschedule(userID, models.NotificationSourceTask, task.ID,
				task.NotifyAt, task.Title, taskReminderMessage(task))
		})
	}

	return task, nil
}

// SoftDeleteTask hides a task from reads while keeping the row.
func (s *taskService) SoftDeleteTask(userID, taskID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// HardDeleteTask permanently removes a task, soft-deleted or not.
func (s *taskService) HardDeleteTask(userID, taskID uint) error {
	result := s.db.Unscoped().Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
