package handlers

import (
	"context"

	"prodash/internal/models"
	"prodash/internal/pagination"
	"prodash/internal/services"
	"prodash/internal/storage"
)

// --- mock user service ---

type mockUserService struct {
	registerFn              func(input services.RegisterInput) (*models.User, error)
	getUserByIDFn           func(id uint) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID uint, tokenHash string) error
	getRefreshTokenHashFn   func(userID uint) (string, error)
	clearRefreshTokenHashFn func(userID uint) error
}

func (m *mockUserService) Register(input services.RegisterInput) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(input)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(string) (*models.User, error) {
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(*models.User, string) bool { return true }

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID uint, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID uint) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) ClearRefreshTokenHash(userID uint) error {
	if m.clearRefreshTokenHashFn != nil {
		return m.clearRefreshTokenHashFn(userID)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock task service ---

type mockTaskService struct {
	createTaskFn     func(userID uint, input services.TaskInput) (*models.Task, error)
	getTaskByIDFn    func(userID, taskID uint) (*models.Task, error)
	updateTaskFn     func(userID, taskID uint, input services.TaskInput) (*models.Task, error)
	softDeleteTaskFn func(userID, taskID uint) error
	hardDeleteTaskFn func(userID, taskID uint) error
	getTasksByViewFn func(userID uint, query services.TaskViewQuery) (*services.TaskView, error)
}

func (m *mockTaskService) CreateTask(userID uint, input services.TaskInput) (*models.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(userID, input)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) GetTaskByID(userID, taskID uint) (*models.Task, error) {
	if m.getTaskByIDFn != nil {
		return m.getTaskByIDFn(userID, taskID)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) UpdateTask(userID, taskID uint, input services.TaskInput) (*models.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(userID, taskID, input)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) SoftDeleteTask(userID, taskID uint) error {
	if m.softDeleteTaskFn != nil {
		return m.softDeleteTaskFn(userID, taskID)
	}
	return nil
}

func (m *mockTaskService) HardDeleteTask(userID, taskID uint) error {
	if m.hardDeleteTaskFn != nil {
		return m.hardDeleteTaskFn(userID, taskID)
	}
	return nil
}

func (m *mockTaskService) GetTasksByView(userID uint, query services.TaskViewQuery) (*services.TaskView, error) {
	if m.getTasksByViewFn != nil {
		return m.getTasksByViewFn(userID, query)
	}
	return &services.TaskView{Mode: services.ViewBoard, Board: &services.KanbanView{}}, nil
}

var _ services.TaskServicer = (*mockTaskService)(nil)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn       func(userID uint, input services.ExpenseInput) (*models.Expense, error)
	getExpenseByIDFn      func(userID, expenseID uint) (*models.Expense, error)
	updateExpenseFn       func(userID, expenseID uint, input services.ExpenseInput) (*models.Expense, error)
	softDeleteExpenseFn   func(userID, expenseID uint) error
	hardDeleteExpenseFn   func(userID, expenseID uint) error
	getExpensesFn         func(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*services.ExpensePage, error)
	getExpenseAnalyticsFn func(userID uint, year, month int) (*services.ExpenseAnalytics, error)
}

func (m *mockExpenseService) CreateExpense(userID uint, input services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, input)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID uint, input services.ExpenseInput) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, input)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) SoftDeleteExpense(userID, expenseID uint) error {
	if m.softDeleteExpenseFn != nil {
		return m.softDeleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) HardDeleteExpense(userID, expenseID uint) error {
	if m.hardDeleteExpenseFn != nil {
		return m.hardDeleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) GetExpenses(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*services.ExpensePage, error) {
	if m.getExpensesFn != nil {
		return m.getExpensesFn(userID, page, filter)
	}
	return &services.ExpensePage{PageResponse: pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)}, nil
}

func (m *mockExpenseService) GetExpenseAnalytics(userID uint, year, month int) (*services.ExpenseAnalytics, error) {
	if m.getExpenseAnalyticsFn != nil {
		return m.getExpenseAnalyticsFn(userID, year, month)
	}
	return &services.ExpenseAnalytics{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

// --- mock meeting service ---

type mockMeetingService struct {
	createMeetingFn     func(userID uint, input services.MeetingInput) (*models.MeetingSchedule, error)
	getMeetingByIDFn    func(userID, meetingID uint) (*models.MeetingSchedule, error)
	updateMeetingFn     func(userID, meetingID uint, input services.MeetingInput) (*models.MeetingSchedule, error)
	softDeleteMeetingFn func(userID, meetingID uint) error
	hardDeleteMeetingFn func(userID, meetingID uint) error
	getMeetingsFn       func(userID uint, page pagination.PageRequest, filter services.ListFilter) (*pagination.PageResponse[models.MeetingSchedule], error)
	generateICSFn       func(userID, meetingID uint) (string, error)
}

func (m *mockMeetingService) CreateMeeting(userID uint, input services.MeetingInput) (*models.MeetingSchedule, error) {
	if m.createMeetingFn != nil {
		return m.createMeetingFn(userID, input)
	}
	return &models.MeetingSchedule{}, nil
}

func (m *mockMeetingService) GetMeetingByID(userID, meetingID uint) (*models.MeetingSchedule, error) {
	if m.getMeetingByIDFn != nil {
		return m.getMeetingByIDFn(userID, meetingID)
	}
	return &models.MeetingSchedule{}, nil
}

func (m *mockMeetingService) UpdateMeeting(userID, meetingID uint, input services.MeetingInput) (*models.MeetingSchedule, error) {
	if m.updateMeetingFn != nil {
		return m.updateMeetingFn(userID, meetingID, input)
	}
	return &models.MeetingSchedule{}, nil
}

func (m *mockMeetingService) SoftDeleteMeeting(userID, meetingID uint) error {
	if m.softDeleteMeetingFn != nil {
		return m.softDeleteMeetingFn(userID, meetingID)
	}
	return nil
}

func (m *mockMeetingService) HardDeleteMeeting(userID, meetingID uint) error {
	if m.hardDeleteMeetingFn != nil {
		return m.hardDeleteMeetingFn(userID, meetingID)
	}
	return nil
}

func (m *mockMeetingService) GetMeetings(userID uint, page pagination.PageRequest, filter services.ListFilter) (*pagination.PageResponse[models.MeetingSchedule], error) {
	if m.getMeetingsFn != nil {
		return m.getMeetingsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.MeetingSchedule{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockMeetingService) GenerateICS(userID, meetingID uint) (string, error) {
	if m.generateICSFn != nil {
		return m.generateICSFn(userID, meetingID)
	}
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

var _ services.MeetingServicer = (*mockMeetingService)(nil)

// --- mock country log service ---

type mockCountryLogService struct {
	createCountryLogFn  func(userID uint, input services.CountryLogInput) (*models.CountryLog, error)
	getCountryLogByIDFn func(userID, logID uint) (*models.CountryLog, error)
	updateCountryLogFn  func(userID, logID uint, input services.CountryLogInput) (*models.CountryLog, error)
	deleteCountryLogFn  func(userID, logID uint) error
	getCountryLogsFn    func(userID uint, page pagination.PageRequest, filter services.ListFilter) (*pagination.PageResponse[models.CountryLog], error)
}

func (m *mockCountryLogService) CreateCountryLog(userID uint, input services.CountryLogInput) (*models.CountryLog, error) {
	if m.createCountryLogFn != nil {
		return m.createCountryLogFn(userID, input)
	}
	return &models.CountryLog{}, nil
}

func (m *mockCountryLogService) GetCountryLogByID(userID, logID uint) (*models.CountryLog, error) {
	if m.getCountryLogByIDFn != nil {
		return m.getCountryLogByIDFn(userID, logID)
	}
	return &models.CountryLog{}, nil
}

func (m *mockCountryLogService) UpdateCountryLog(userID, logID uint, input services.CountryLogInput) (*models.CountryLog, error) {
	if m.updateCountryLogFn != nil {
		return m.updateCountryLogFn(userID, logID, input)
	}
	return &models.CountryLog{}, nil
}

func (m *mockCountryLogService) DeleteCountryLog(userID, logID uint) error {
	if m.deleteCountryLogFn != nil {
		return m.deleteCountryLogFn(userID, logID)
	}
	return nil
}

func (m *mockCountryLogService) GetCountryLogs(userID uint, page pagination.PageRequest, filter services.ListFilter) (*pagination.PageResponse[models.CountryLog], error) {
	if m.getCountryLogsFn != nil {
		return m.getCountryLogsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.CountryLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.CountryLogServicer = (*mockCountryLogService)(nil)

// --- mock image store ---

type mockImageStore struct {
	uploadFn func(ctx context.Context, data []byte, contentType string) (string, error)
}

func (m *mockImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, data, contentType)
	}
	return "http://images.test/img.png", nil
}

var _ storage.ImageStore = (*mockImageStore)(nil)
