package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
	"prodash/internal/pagination"
)

// meetingService handles meeting-related business logic.
type meetingService struct {
	db *gorm.DB
}

// NewMeetingService creates a new MeetingServicer.
func NewMeetingService(db *gorm.DB) MeetingServicer {
	return &meetingService{db: db}
}

func validateMeetingInput(input MeetingInput) error {
	if input.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start_time and end_time are required")
	}
	if input.EndTime.Before(input.StartTime) {
		return apperrors.ErrInvalidTimeRange
	}
	return nil
}

// CreateMeeting schedules a meeting.
func (s *meetingService) CreateMeeting(userID uint, input MeetingInput) (*models.MeetingSchedule, error) {
	if err := validateMeetingInput(input); err != nil {
		return nil, err
	}

	meeting := &models.MeetingSchedule{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime.UTC(),
		EndTime:     input.EndTime.UTC(),
	}
	if err := s.db.Create(meeting).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return meeting, nil
}

// GetMeetingByID retrieves a meeting by ID for a specific user
func (s *meetingService) GetMeetingByID(userID, meetingID uint) (*models.MeetingSchedule, error) {
	var meeting models.MeetingSchedule
	if err := s.db.Where("id = ? AND user_id = ?", meetingID, userID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &meeting, nil
}

// UpdateMeeting replaces the meeting's fields.
func (s *meetingService) UpdateMeeting(userID, meetingID uint, input MeetingInput) (*models.MeetingSchedule, error) {
	if err := validateMeetingInput(input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"start_time":  input.StartTime.UTC(),
		"end_time":    input.EndTime.UTC(),
	}
	result := s.db.Model(&models.MeetingSchedule{}).Where("id = ? AND user_id = ?", meetingID, userID).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrMeetingNotFound
	}

	return s.GetMeetingByID(userID, meetingID)
}

// SoftDeleteMeeting hides a meeting from reads.
func (s *meetingService) SoftDeleteMeeting(userID, meetingID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", meetingID, userID).Delete(&models.MeetingSchedule{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

// HardDeleteMeeting permanently removes a meeting.
func (s *meetingService) HardDeleteMeeting(userID, meetingID uint) error {
	result := s.db.Unscoped().Where("id = ? AND user_id = ?", meetingID, userID).Delete(&models.MeetingSchedule{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

// GetMeetings retrieves a paginated list of meetings, optionally filtered by title.
func (s *meetingService) GetMeetings(userID uint, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.MeetingSchedule], error) {
	page.Defaults()
	if page.PageSize > pagination.MaxPageSize {
		return nil, apperrors.ErrPageSizeTooLarge
	}
	if !page.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "page and page_size must be positive")
	}
	if err := validateSortDir(filter.SortDir); err != nil {
		return nil, err
	}

	scoped := func() *gorm.DB {
		return s.db.Model(&models.MeetingSchedule{}).
			Where("user_id = ?", userID).
			Scopes(containsFold("title", filter.Query))
	}

	var totalItems int64
	if err := scoped().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var meetings []models.MeetingSchedule
	dir := filter.SortDir.SQL()
	if err := scoped().Order("created_at " + dir + ", id " + dir).
		Scopes(pagination.Paginate(page)).
		Find(&meetings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(meetings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GenerateICS renders one of the user's meetings as an iCalendar document.
func (s *meetingService) GenerateICS(userID, meetingID uint) (string, error) {
	meeting, err := s.GetMeetingByID(userID, meetingID)
	if err != nil {
		return "", err
	}
	return meetingCalendar(meeting)
}
