package services

import (
	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/logger"
	"prodash/internal/models"
	"prodash/internal/pagination"
	"prodash/internal/pagination/cursor"
)

// kanbanColumn binds a board column key to the stored status it collects.
type kanbanColumn struct {
	key    string
	status models.TaskStatus
}

// kanbanColumns is the fixed board layout, in display order.
var kanbanColumns = []kanbanColumn{
	{key: "todo", status: models.TaskStatusToDo},
	{key: "in_progress", status: models.TaskStatusInProgress},
	{key: "done", status: models.TaskStatusDone},
}

// statusColumns maps every known status to its column key.
var statusColumns = func() map[models.TaskStatus]string {
	m := make(map[models.TaskStatus]string, len(kanbanColumns))
	for _, col := range kanbanColumns {
		m[col.status] = col.key
	}
	return m
}()

// GetTasksByView returns the tasks whose start date falls in the requested
// month, either bucketed by status (board) or as one keyset page (list).
// Bad parameters are rejected before any query runs.
func (s *taskService) GetTasksByView(userID uint, query TaskViewQuery) (*TaskView, error) {
	if query.Limit > pagination.MaxPageSize {
		return nil, apperrors.ErrPageSizeTooLarge
	}
	if query.Limit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be positive")
	}
	if query.Limit == 0 {
		query.Limit = pagination.DefaultPageSize
	}
	if err := validateYearMonth(query.Year, query.Month); err != nil {
		return nil, err
	}
	if err := validateSortDir(query.SortDir); err != nil {
		return nil, err
	}

	switch query.Mode {
	case ViewBoard, "":
		board, err := s.kanbanView(userID, query)
		if err != nil {
			return nil, err
		}
		return &TaskView{Mode: ViewBoard, Board: board}, nil
	case ViewList:
		var after *cursor.Position
		if query.Cursor != "" {
			pos, err := cursor.Decode(query.Cursor)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInvalidCursor, err)
			}
			after = &pos
		}
		list, err := s.scrollView(userID, query, after)
		if err != nil {
			return nil, err
		}
		return &TaskView{Mode: ViewList, List: list}, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "view mode must be 'board' or 'list'")
	}
}

// monthTasks scopes a query to the owner's live tasks in the month, with the
// optional search, status and priority filters.
func (s *taskService) monthTasks(userID uint, query TaskViewQuery) *gorm.DB {
	from, to := monthWindow(query.Year, query.Month)
	db := s.db.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Scopes(inWindow("start_date", from, to), containsFold("title", query.Query))
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Priority != "" {
		db = db.Where("priority = ?", query.Priority)
	}
	return db
}

func taskOrder(dir pagination.SortDirection) string {
	d := dir.SQL()
	return "start_date " + d + ", id " + d
}

func (s *taskService) kanbanView(userID uint, query TaskViewQuery) (*KanbanView, error) {
	var tasks []models.Task
	if err := s.monthTasks(userID, query).Order(taskOrder(query.SortDir)).Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bucketByStatus(tasks), nil
}

// bucketByStatus places each task in the column for its status. Every column
// is present even when empty. A task with an unknown status is logged and left
// out, so TotalCount always equals the sum of the column counts.
func bucketByStatus(tasks []models.Task) *KanbanView {
	items := make(map[string][]models.Task, len(kanbanColumns))
	total := 0
	for _, task := range tasks {
		key, ok := statusColumns[task.Status]
		if !ok {
			logger.Get().Warnw("task has unknown status, excluded from board",
				"task_id", task.ID,
				"status", task.Status,
			)
			continue
		}
		items[key] = append(items[key], task)
		total++
	}

	view := &KanbanView{
		Columns:    make(map[string]KanbanColumn, len(kanbanColumns)),
		TotalCount: total,
	}
	for _, col := range kanbanColumns {
		colItems := items[col.key]
		if colItems == nil {
			colItems = []models.Task{}
		}
		view.Columns[col.key] = KanbanColumn{
			Title:      string(col.status),
			Items:      colItems,
			TotalCount: len(colItems),
		}
	}
	return view
}

func (s *taskService) scrollView(userID uint, query TaskViewQuery, after *cursor.Position) (*ScrollView, error) {
	var total int64
	if err := s.monthTasks(userID, query).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	db := s.monthTasks(userID, query)
	if after != nil {
		db = db.Scopes(keysetAfter(query.SortDir, *after))
	}

	var tasks []models.Task
	if err := db.Order(taskOrder(query.SortDir)).Limit(query.Limit + 1).Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pageFromOverfetch(tasks, query.Limit, total), nil
}

// keysetAfter restricts the query to rows strictly after pos in the sort
// order (start_date, id).
func keysetAfter(dir pagination.SortDirection, pos cursor.Position) func(db *gorm.DB) *gorm.DB {
	op := "<"
	if dir.OrDefault() == pagination.SortAsc {
		op = ">"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(start_date "+op+" ? OR (start_date = ? AND id "+op+" ?))",
			pos.Timestamp, pos.Timestamp, pos.ID)
	}
}

// pageFromOverfetch trims a limit+1 fetch to limit rows. The extra row only
// signals that another page exists.
func pageFromOverfetch(tasks []models.Task, limit int, total int64) *ScrollView {
	view := &ScrollView{Results: tasks, TotalCount: total}
	if len(tasks) > limit {
		view.Results = tasks[:limit]
		view.HasNextPage = true
	}
	if view.Results == nil {
		view.Results = []models.Task{}
	}
	if view.HasNextPage && len(view.Results) > 0 {
		last := view.Results[len(view.Results)-1]
		next := cursor.Encode(last.StartDate, last.ID)
		view.NextCursor = &next
	}
	return view
}
