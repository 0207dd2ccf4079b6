package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"prodash/internal/models"
	"prodash/internal/pagination"
	"prodash/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService, now: time.Now}
}

// ExpenseRequest is the payload for creating or replacing an expense.
// Amount accepts a JSON number or a decimal string.
type ExpenseRequest struct {
	Title       string             `json:"title" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal    `json:"amount" swaggertype:"string" example:"12.50"`
	Category    string             `json:"category" binding:"required,max=50"`
	Currency    string             `json:"currency" binding:"omitempty,iso4217"`
	Type        models.ExpenseType `json:"type" binding:"required,expense_type"`
	ExpenseDate time.Time          `json:"expense_date" binding:"required"`
	Note        string             `json:"note" binding:"max=1000"`
}

func (r ExpenseRequest) input() services.ExpenseInput {
	return services.ExpenseInput{
		Title:       r.Title,
		Amount:      r.Amount,
		Category:    r.Category,
		Currency:    r.Currency,
		Type:        r.Type,
		ExpenseDate: r.ExpenseDate,
		Note:        r.Note,
	}
}

// ExpenseListRequest holds the query string of GET /expenses.
type ExpenseListRequest struct {
	pagination.PageRequest
	MonthQuery
	Sort     pagination.SortDirection `form:"sort" binding:"omitempty,sort_dir"`
	Query    string                   `form:"q" binding:"max=255"`
	Category string                   `form:"category" binding:"max=50"`
	Type     models.ExpenseType       `form:"type" binding:"omitempty,expense_type"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Description Record an income or expense entry
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "type": expense.Type, "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing one month of expenses.
// @Summary     Get expenses
// @Description Get a page of the month's expenses with the month's analytics in additional_data
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       year      query int    false "Year (default current)"
// @Param       month     query int    false "Month 1-12 (default current)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "asc or desc by expense date (default desc)"
// @Param       q         query string false "Case-insensitive title search"
// @Param       category  query string false "Filter by category"
// @Param       type      query string false "income or expense"
// @Success     200 {object} services.ExpensePage "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	req.defaults(h.now())

	result, err := h.expenseService.GetExpenses(userID, req.PageRequest, services.ExpenseFilter{
		Year:     req.Year,
		Month:    req.Month,
		SortDir:  req.Sort,
		Query:    req.Query,
		Category: req.Category,
		Type:     req.Type,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpenseAnalytics returns the analytics of one month.
// @Summary     Get expense analytics
// @Description Category breakdown with change against the previous month, and monthly net income from January
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {object} services.ExpenseAnalytics "Analytics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/analytics [get]
func (h *ExpenseHandler) GetExpenseAnalytics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	q.defaults(h.now())

	analytics, err := h.expenseService.GetExpenseAnalytics(userID, q.Year, q.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles replacing an expense.
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Expense ID"
// @Param       request body ExpenseRequest true "Updated expense"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "type": expense.Type, "category": expense.Category})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// SoftDeleteExpense hides an expense from lists and analytics.
// @Summary     Soft delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense soft deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/soft-delete [patch]
func (h *ExpenseHandler) SoftDeleteExpense(c *gin.Context) {
	h.deleteExpense(c, h.expenseService.SoftDeleteExpense, "SOFT_DELETE_EXPENSE", "Expense soft deleted successfully")
}

// DeleteExpense permanently removes an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	h.deleteExpense(c, h.expenseService.HardDeleteExpense, "DELETE_EXPENSE", "Expense deleted successfully")
}

func (h *ExpenseHandler) deleteExpense(c *gin.Context, del func(userID, expenseID uint) error, action, message string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := del(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
