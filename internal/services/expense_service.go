package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
	"prodash/internal/pagination"
)

const defaultCurrency = "USD"

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func validateExpenseInput(input *ExpenseInput) error {
	if input.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if input.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !input.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most 2 decimal places")
	}
	if input.ExpenseDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense_date is required")
	}
	switch input.Type {
	case models.ExpenseTypeIncome, models.ExpenseTypeExpense:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'")
	}
	if input.Currency == "" {
		input.Currency = defaultCurrency
	}
	input.Currency = strings.ToUpper(input.Currency)
	return nil
}

// CreateExpense records an income or expense entry.
func (s *expenseService) CreateExpense(userID uint, input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(&input); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:      userID,
		Title:       input.Title,
		Amount:      input.Amount,
		Category:    input.Category,
		Currency:    input.Currency,
		Type:        input.Type,
		ExpenseDate: input.ExpenseDate.UTC(),
		Note:        input.Note,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the expense's fields.
func (s *expenseService) UpdateExpense(userID, expenseID uint, input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(&input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":        input.Title,
		"amount":       input.Amount,
		"category":     input.Category,
		"currency":     input.Currency,
		"type":         input.Type,
		"expense_date": input.ExpenseDate.UTC(),
		"note":         input.Note,
	}
	result := s.db.Model(&models.Expense{}).Where("id = ? AND user_id = ?", expenseID, userID).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrExpenseNotFound
	}

	return s.GetExpenseByID(userID, expenseID)
}

// SoftDeleteExpense hides an expense from reads and analytics.
func (s *expenseService) SoftDeleteExpense(userID, expenseID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// HardDeleteExpense permanently removes an expense.
func (s *expenseService) HardDeleteExpense(userID, expenseID uint) error {
	result := s.db.Unscoped().Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetExpenses returns one page of the month's expenses, newest first by
// default, together with the month's analytics.
func (s *expenseService) GetExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*ExpensePage, error) {
	page.Defaults()
	if page.PageSize > pagination.MaxPageSize {
		return nil, apperrors.ErrPageSizeTooLarge
	}
	if !page.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "page and page_size must be positive")
	}
	if err := validateYearMonth(filter.Year, filter.Month); err != nil {
		return nil, err
	}
	if err := validateSortDir(filter.SortDir); err != nil {
		return nil, err
	}

	var totalItems int64
	if err := s.monthExpenses(userID, filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	dir := filter.SortDir.SQL()
	if err := s.monthExpenses(userID, filter).
		Order("expense_date " + dir + ", id " + dir).
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	analytics, err := s.GetExpenseAnalytics(userID, filter.Year, filter.Month)
	if err != nil {
		return nil, err
	}

	return &ExpensePage{
		PageResponse:   pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems),
		AdditionalData: analytics,
	}, nil
}

// monthExpenses scopes a fresh query to the owner's live expenses in the
// filter's month.
func (s *expenseService) monthExpenses(userID uint, filter ExpenseFilter) *gorm.DB {
	from, to := monthWindow(filter.Year, filter.Month)
	db := s.db.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Scopes(inWindow("expense_date", from, to), containsFold("title", filter.Query))
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	return db
}
