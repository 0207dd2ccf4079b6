package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
	"prodash/internal/pagination"
)

// countryLogService handles visa and country-stay records.
type countryLogService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewCountryLogService creates a new CountryLogServicer.
func NewCountryLogService(db *gorm.DB, notifications NotificationServicer) CountryLogServicer {
	return &countryLogService{db: db, notifications: notifications}
}

func validateCountryLogInput(input CountryLogInput) error {
	if input.CountryName == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "country_name is required")
	}
	if input.EntryDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "entry_date is required")
	}
	if input.ExitDate != nil && input.ExitDate.Before(input.EntryDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidTimeRange, "exit_date must not be before entry_date")
	}
	if input.VisaLimitDays < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "visa_limit_days must not be negative")
	}
	return nil
}

// CreateCountryLog records a stay and, when NotifyAt is set, a visa expiry reminder.
func (s *countryLogService) CreateCountryLog(userID uint, input CountryLogInput) (*models.CountryLog, error) {
	if err := validateCountryLogInput(input); err != nil {
		return nil, err
	}

	log := &models.CountryLog{
		UserID:        userID,
		CountryName:   input.CountryName,
		VisaType:      input.VisaType,
		EntryDate:     input.EntryDate.UTC(),
		ExitDate:      utcPtr(input.ExitDate),
		VisaLimitDays: input.VisaLimitDays,
		NotifyAt:      utcPtr(input.NotifyAt),
	}
	if err := s.db.Create(log).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if log.NotifyAt != nil {
		notifySafely("create", models.NotificationSourceCountryLog, log.ID, func() error {
			return s.notifications.Create(visaReminder(log))
		})
	}

	return log, nil
}

// GetCountryLogByID retrieves a country log by ID for a specific user
func (s *countryLogService) GetCountryLogByID(userID, logID uint) (*models.CountryLog, error) {
	var log models.CountryLog
	if err := s.db.Where("id = ? AND user_id = ?", logID, userID).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCountryLogNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &log, nil
}

// UpdateCountryLog replaces the log's fields and reschedules its reminder
// when NotifyAt changed.
func (s *countryLogService) UpdateCountryLog(userID, logID uint, input CountryLogInput) (*models.CountryLog, error) {
	if err := validateCountryLogInput(input); err != nil {
		return nil, err
	}

	existing, err := s.GetCountryLogByID(userID, logID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"country_name":    input.CountryName,
		"visa_type":       input.VisaType,
		"entry_date":      input.EntryDate.UTC(),
		"exit_date":       utcPtr(input.ExitDate),
		"visa_limit_days": input.VisaLimitDays,
		"notify_at":       utcPtr(input.NotifyAt),
	}
	result := s.db.Model(&models.CountryLog{}).Where("id = ? AND user_id = ?", logID, userID).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrCountryLogNotFound
	}

	log, err := s.GetCountryLogByID(userID, logID)
	if err != nil {
		return nil, err
	}

	if !sameInstant(existing.NotifyAt, log.NotifyAt) {
		notifySafely("reschedule", models.NotificationSourceCountryLog, log.ID, func() error {
			return s.notifications.Reschedule(userID, models.NotificationSourceCountryLog, log.ID,
				log.NotifyAt, visaReminderTitle, visaReminderMessage(log))
		})
	}

	return log, nil
}

// DeleteCountryLog permanently removes a country log.
func (s *countryLogService) DeleteCountryLog(userID, logID uint) error {
	result := s.db.Unscoped().Where("id = ? AND user_id = ?", logID, userID).Delete(&models.CountryLog{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCountryLogNotFound
	}
	return nil
}

// GetCountryLogs retrieves a paginated list of country logs, optionally
// filtered by country name.
func (s *countryLogService) GetCountryLogs(userID uint, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.CountryLog], error) {
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
		return s.db.Model(&models.CountryLog{}).
			Where("user_id = ?", userID).
			Scopes(containsFold("country_name", filter.Query))
	}

	var totalItems int64
	if err := scoped().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.CountryLog
	dir := filter.SortDir.SQL()
	if err := scoped().Order("created_at " + dir + ", id " + dir).
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(logs, page.Page, page.PageSize, totalItems)
	return &result, nil
}
