package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prodash/internal/pagination"
	"prodash/internal/services"
)

// MeetingHandler handles meeting schedule requests.
type MeetingHandler struct {
	meetingService services.MeetingServicer
	auditService   services.AuditServicer
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService services.MeetingServicer, auditService services.AuditServicer) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, auditService: auditService}
}

// MeetingRequest is the payload for creating or replacing a meeting.
type MeetingRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

func (r MeetingRequest) input() services.MeetingInput {
	return services.MeetingInput{
		Title:       r.Title,
		Description: r.Description,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// ListRequest is the query string shared by the meeting and country log lists.
type ListRequest struct {
	pagination.PageRequest
	Sort  pagination.SortDirection `form:"sort" binding:"omitempty,sort_dir"`
	Query string                   `form:"q" binding:"max=255"`
}

func (r ListRequest) filter() services.ListFilter {
	return services.ListFilter{SortDir: r.Sort, Query: r.Query}
}

// CreateMeeting handles scheduling a meeting.
// @Summary     Create a meeting
// @Tags        meetings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MeetingRequest true "Meeting details"
// @Success     201 {object} models.MeetingSchedule "Meeting created"
// @Failure     400 {object} ErrorResponse "Invalid input or time range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meeting-schedules [post]
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	meeting, err := h.meetingService.CreateMeeting(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_MEETING", "meeting_schedule", meeting.ID, c.ClientIP(),
		map[string]interface{}{"title": meeting.Title})

	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}

// GetMeetings handles listing meetings.
// @Summary     Get meetings
// @Tags        meetings
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "asc or desc by creation time (default desc)"
// @Param       q         query string false "Case-insensitive title search"
// @Success     200 {object} pagination.PageResponse[models.MeetingSchedule] "Paginated meetings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meeting-schedules [get]
func (h *MeetingHandler) GetMeetings(c *gin.Context) {
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

	result, err := h.meetingService.GetMeetings(userID, req.PageRequest, req.filter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMeeting handles retrieving a specific meeting.
// @Summary     Get meeting by ID
// @Tags        meetings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meeting ID"
// @Success     200 {object} models.MeetingSchedule "Meeting details"
// @Failure     400 {object} ErrorResponse "Invalid meeting ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meeting not found"
// @Router      /meeting-schedules/{id} [get]
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	meetingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	meeting, err := h.meetingService.GetMeetingByID(userID, meetingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

// DownloadICS exports a meeting as an iCalendar attachment.
// @Summary     Download meeting as ICS
// @Tags        meetings
// @Produce     text/calendar
// @Security    BearerAuth
// @Param       id path int true "Meeting ID"
// @Success     200 {string} string "iCalendar document"
// @Failure     400 {object} ErrorResponse "Invalid meeting ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meeting not found"
// @Failure     502 {object} ErrorResponse "Calendar generation failed"
// @Router      /meeting-schedules/{id}/ics [get]
func (h *MeetingHandler) DownloadICS(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	meetingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	body, err := h.meetingService.GenerateICS(userID, meetingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="meeting-%d.ics"`, meetingID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// UpdateMeeting handles replacing a meeting.
// @Summary     Update meeting
// @Tags        meetings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Meeting ID"
// @Param       request body MeetingRequest true "Updated meeting"
// @Success     200 {object} models.MeetingSchedule "Updated meeting"
// @Failure     400 {object} ErrorResponse "Invalid input or meeting ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Meeting not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /meeting-schedules/{id} [put]
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	meetingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(userID, meetingID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MEETING", "meeting_schedule", meetingID, c.ClientIP(),
		map[string]interface{}{"title": meeting.Title})

	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

// SoftDeleteMeeting hides a meeting.
// @Summary     Soft delete meeting
// @Tags        meetings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meeting ID"
// @Success     200 {object} MessageResponse "Meeting soft deleted"
// @Failure     404 {object} ErrorResponse "Meeting not found"
// @Router      /meeting-schedules/{id}/soft-delete [patch]
func (h *MeetingHandler) SoftDeleteMeeting(c *gin.Context) {
	h.deleteMeeting(c, h.meetingService.SoftDeleteMeeting, "SOFT_DELETE_MEETING", "Meeting soft deleted successfully")
}

// DeleteMeeting permanently removes a meeting.
// @Summary     Delete meeting
// @Tags        meetings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Meeting ID"
// @Success     200 {object} MessageResponse "Meeting deleted"
// @Failure     404 {object} ErrorResponse "Meeting not found"
// @Router      /meeting-schedules/{id} [delete]
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	h.deleteMeeting(c, h.meetingService.HardDeleteMeeting, "DELETE_MEETING", "Meeting deleted successfully")
}

func (h *MeetingHandler) deleteMeeting(c *gin.Context, del func(userID, meetingID uint) error, action, message string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	meetingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := del(userID, meetingID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "meeting_schedule", meetingID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
