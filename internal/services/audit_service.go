package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prodash/internal/logger"
	"prodash/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutation. A failed write is logged and dropped; the request
// that caused it has already succeeded.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      auditChanges(action, changes),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType,
			"resource_id", resourceID,
		)
	}
}

// auditChanges encodes the change set, leaving the column NULL when there is
// nothing to record. Unencodable values are replaced by an empty object.
func auditChanges(action string, changes map[string]any) datatypes.JSON {
	if len(changes) == 0 {
		return nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Warnw("audit change set not encodable", "error", err, "action", action)
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}
