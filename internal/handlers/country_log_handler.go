package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prodash/internal/services"
)

// CountryLogHandler handles country and visa log requests.
type CountryLogHandler struct {
	countryLogService services.CountryLogServicer
	auditService      services.AuditServicer
}

// NewCountryLogHandler creates a new CountryLogHandler.
func NewCountryLogHandler(countryLogService services.CountryLogServicer, auditService services.AuditServicer) *CountryLogHandler {
	return &CountryLogHandler{countryLogService: countryLogService, auditService: auditService}
}

// CountryLogRequest is the payload for creating or replacing a country log.
type CountryLogRequest struct {
	CountryName   string     `json:"country_name" binding:"required,min=1,max=100"`
	VisaType      string     `json:"visa_type" binding:"max=100"`
	EntryDate     time.Time  `json:"entry_date" binding:"required"`
	ExitDate      *time.Time `json:"exit_date"`
	VisaLimitDays int        `json:"visa_limit_days" binding:"min=0"`
	NotifyAt      *time.Time `json:"notify_at"`
}

func (r CountryLogRequest) input() services.CountryLogInput {
	return services.CountryLogInput{
		CountryName:   r.CountryName,
		VisaType:      r.VisaType,
		EntryDate:     r.EntryDate,
		ExitDate:      r.ExitDate,
		VisaLimitDays: r.VisaLimitDays,
		NotifyAt:      r.NotifyAt,
	}
}

// CreateCountryLog handles recording a stay.
// @Summary     Create a country log
// @Description Record a stay; a visa expiry reminder is scheduled when notify_at is set
// @Tags        country-logs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CountryLogRequest true "Country log details"
// @Success     201 {object} models.CountryLog "Country log created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /country-logs [post]
func (h *CountryLogHandler) CreateCountryLog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CountryLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	log, err := h.countryLogService.CreateCountryLog(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_COUNTRY_LOG", "country_log", log.ID, c.ClientIP(),
		map[string]interface{}{"country_name": log.CountryName, "visa_type": log.VisaType})

	c.JSON(http.StatusCreated, gin.H{"country_log": log})
}

// GetCountryLogs handles listing country logs.
// @Summary     Get country logs
// @Tags        country-logs
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "asc or desc by creation time (default desc)"
// @Param       q         query string false "Case-insensitive country search"
// @Success     200 {object} pagination.PageResponse[models.CountryLog] "Paginated country logs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /country-logs [get]
func (h *CountryLogHandler) GetCountryLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.countryLogService.GetCountryLogs(userID, req.PageRequest, req.filter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCountryLog handles retrieving a specific country log.
// @Summary     Get country log by ID
// @Tags        country-logs
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Country log ID"
// @Success     200 {object} models.CountryLog "Country log details"
// @Failure     400 {object} ErrorResponse "Invalid country log ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Country log not found"
// @Router      /country-logs/{id} [get]
func (h *CountryLogHandler) GetCountryLog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	log, err := h.countryLogService.GetCountryLogByID(userID, logID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"country_log": log})
}

// UpdateCountryLog handles replacing a country log.
// @Summary     Update country log
// @Description Replace a country log; a changed notify_at reschedules the visa reminder
// @Tags        country-logs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Country log ID"
// @Param       request body CountryLogRequest true "Updated country log"
// @Success     200 {object} models.CountryLog "Updated country log"
// @Failure     400 {object} ErrorResponse "Invalid input or country log ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Country log not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /country-logs/{id} [put]
func (h *CountryLogHandler) UpdateCountryLog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CountryLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	log, err := h.countryLogService.UpdateCountryLog(userID, logID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_COUNTRY_LOG", "country_log", logID, c.ClientIP(),
		map[string]interface{}{"country_name": log.CountryName, "visa_type": log.VisaType})

	c.JSON(http.StatusOK, gin.H{"country_log": log})
}

// DeleteCountryLog permanently removes a country log.
// @Summary     Delete country log
// @Tags        country-logs
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Country log ID"
// @Success     200 {object} MessageResponse "Country log deleted"
// @Failure     400 {object} ErrorResponse "Invalid country log ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Country log not found"
// @Router      /country-logs/{id} [delete]
func (h *CountryLogHandler) DeleteCountryLog(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.countryLogService.DeleteCountryLog(userID, logID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_COUNTRY_LOG", "country_log", logID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Country log deleted successfully"})
}
