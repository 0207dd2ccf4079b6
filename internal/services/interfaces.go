package services

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"prodash/internal/models"
	"prodash/internal/pagination"
)

// RegisterInput carries the fields of a sign-up request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(input RegisterInput) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	ClearRefreshTokenHash(userID uint) error
}

// TaskInput holds the writable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	StartDate   time.Time
	DueDate     *time.Time
	NotifyAt    *time.Time
}

// ViewMode selects how GetTasksByView shapes its result.
type ViewMode string

const (
	ViewBoard ViewMode = "board"
	ViewList  ViewMode = "list"
)

// TaskViewQuery selects the tasks of one month for a board or list view.
// Cursor and Limit only apply to the list view.
type TaskViewQuery struct {
	Mode     ViewMode
	Cursor   string
	Limit    int
	Year     int
	Month    int
	SortDir  pagination.SortDirection
	Query    string
	Status   models.TaskStatus
	Priority models.TaskPriority
}

// KanbanColumn is one status bucket of the board view.
type KanbanColumn struct {
	Title      string        `json:"title"`
	Items      []models.Task `json:"items"`
	TotalCount int           `json:"total_count"`
}

// KanbanView groups a month's tasks into the todo, in_progress and done columns.
type KanbanView struct {
	Columns    map[string]KanbanColumn `json:"columns"`
	TotalCount int                     `json:"total_count"`
}

// ScrollView is one page of the keyset-paginated list view. NextCursor is nil
// on the last page.
type ScrollView struct {
	Results     []models.Task `json:"results"`
	NextCursor  *string       `json:"next_cursor"`
	HasNextPage bool          `json:"has_next_page"`
	TotalCount  int64         `json:"total_count"`
}

// TaskView is the result of GetTasksByView; exactly one of Board and List is set.
type TaskView struct {
	Mode  ViewMode
	Board *KanbanView
	List  *ScrollView
}

// MarshalJSON renders whichever view is set.
func (v TaskView) MarshalJSON() ([]byte, error) {
	if v.Mode == ViewList {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Board)
}

// TaskServicer defines the contract for task-related business logic.
type TaskServicer interface {
	CreateTask(userID uint, input TaskInput) (*models.Task, error)
	GetTaskByID(userID, taskID uint) (*models.Task, error)
	UpdateTask(userID, taskID uint, input TaskInput) (*models.Task, error)
	SoftDeleteTask(userID, taskID uint) error
	HardDeleteTask(userID, taskID uint) error
	GetTasksByView(userID uint, query TaskViewQuery) (*TaskView, error)
}

// ExpenseInput holds the writable fields of an expense.
type ExpenseInput struct {
	Title       string
	Amount      decimal.Decimal
	Category    string
	Currency    string
	Type        models.ExpenseType
	ExpenseDate time.Time
	Note        string
}

// ExpenseFilter narrows the expense list of one month.
type ExpenseFilter struct {
	Year     int
	Month    int
	SortDir  pagination.SortDirection
	Query    string
	Category string
	Type     models.ExpenseType
}

// CategoryAmount is one slice of the category breakdown.
type CategoryAmount struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// ExpenseBreakdown totals a month's expenses by category. Change is the
// rounded percent change against the previous month's total.
type ExpenseBreakdown struct {
	Total      decimal.Decimal  `json:"total"`
	Change     int64            `json:"change"`
	Categories []CategoryAmount `json:"categories"`
}

// IncomeVsExpense is the net (income minus expense) of each month from
// January through the requested month. Change compares the last two months.
type IncomeVsExpense struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
	Change int64             `json:"change"`
}

// ExpenseAnalytics bundles the advisory reports shown next to the expense list.
type ExpenseAnalytics struct {
	ExpenseBreakdown ExpenseBreakdown `json:"expense_breakdown"`
	IncomeVsExpense  IncomeVsExpense  `json:"income_vs_expense"`
}

// ExpensePage is a page of expenses plus the month's analytics.
type ExpensePage struct {
	pagination.PageResponse[models.Expense]
	AdditionalData *ExpenseAnalytics `json:"additional_data"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID uint, input ExpenseInput) (*models.Expense, error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, input ExpenseInput) (*models.Expense, error)
	SoftDeleteExpense(userID, expenseID uint) error
	HardDeleteExpense(userID, expenseID uint) error
	GetExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*ExpensePage, error)
	GetExpenseAnalytics(userID uint, year, month int) (*ExpenseAnalytics, error)
}

// MeetingInput holds the writable fields of a meeting.
type MeetingInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// ListFilter is the search and ordering shared by the meeting and country
// log lists.
type ListFilter struct {
	SortDir pagination.SortDirection
	Query   string
}

// MeetingServicer defines the contract for meeting-related business logic.
type MeetingServicer interface {
	CreateMeeting(userID uint, input MeetingInput) (*models.MeetingSchedule, error)
	GetMeetingByID(userID, meetingID uint) (*models.MeetingSchedule, error)
	UpdateMeeting(userID, meetingID uint, input MeetingInput) (*models.MeetingSchedule, error)
	SoftDeleteMeeting(userID, meetingID uint) error
	HardDeleteMeeting(userID, meetingID uint) error
	GetMeetings(userID uint, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.MeetingSchedule], error)
	GenerateICS(userID, meetingID uint) (string, error)
}

// CountryLogInput holds the writable fields of a country log.
type CountryLogInput struct {
	CountryName   string
	VisaType      string
	EntryDate     time.Time
	ExitDate      *time.Time
	VisaLimitDays int
	NotifyAt      *time.Time
}

// CountryLogServicer defines the contract for country-log business logic.
type CountryLogServicer interface {
	CreateCountryLog(userID uint, input CountryLogInput) (*models.CountryLog, error)
	GetCountryLogByID(userID, logID uint) (*models.CountryLog, error)
	UpdateCountryLog(userID, logID uint, input CountryLogInput) (*models.CountryLog, error)
	DeleteCountryLog(userID, logID uint) error
	GetCountryLogs(userID uint, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.CountryLog], error)
}

// NotificationServicer records reminders tied to a task or country log.
// Notifications have no read or delete operations.
type NotificationServicer interface {
	Create(notification *models.Notification) error
	Reschedule(userID uint, sourceType string, sourceID uint, notifyAt *time.Time, title, message string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
