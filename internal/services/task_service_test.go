package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"prodash/internal/models"
	"prodash/internal/testutil"
)

var march2 = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

// failingNotifications simulates a reminder store that is down.
type failingNotifications struct{ calls int }

func (f *failingNotifications) Create(*models.Notification) error {
	f.calls++
	return errors.New("notification store unavailable")
}

func (f *failingNotifications) Reschedule(uint, string, uint, *time.Time, string, string) error {
	f.calls++
	return errors.New("notification store unavailable")
}

func countNotifications(t *testing.T, svc *taskService, sourceType string, sourceID uint) []models.Notification {
	t.Helper()
	var out []models.Notification
	if err := svc.db.Where("source_type = ? AND source_id = ?", sourceType, sourceID).Find(&out).Error; err != nil {
		t.Fatalf("query notifications: %v", err)
	}
	return out
}

func newTestTaskService(t *testing.T) (*taskService, *models.User, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTaskService(db, NewNotificationService(db)).(*taskService)
	user := testutil.CreateTestUser(t, db)
	return svc, user, func() { testutil.TeardownTestDB(t, db) }
}

func TestCreateTask(t *testing.T) {
	t.Run("valid_with_defaults", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		task, err := svc.CreateTask(user.ID, TaskInput{Title: "Write report", StartDate: march2})
		testutil.AssertNoError(t, err)

		if task.ID == 0 {
			t.Fatal("expected non-zero task ID")
		}
		if task.Status != models.TaskStatusToDo {
			t.Errorf("expected default status To Do, got %s", task.Status)
		}
		if task.Priority != models.TaskPriorityMedium {
			t.Errorf("expected default priority Medium, got %s", task.Priority)
		}
		if got := countNotifications(t, svc, models.NotificationSourceTask, task.ID); len(got) != 0 {
			t.Errorf("expected no reminder without notify_at, got %d", len(got))
		}
	})

	t.Run("creates_reminder", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		notifyAt := march2.Add(-time.Hour)
		task, err := svc.CreateTask(user.ID, TaskInput{Title: "Call bank", StartDate: march2, NotifyAt: &notifyAt})
		testutil.AssertNoError(t, err)

		reminders := countNotifications(t, svc, models.NotificationSourceTask, task.ID)
		if len(reminders) != 1 {
			t.Fatalf("expected 1 reminder, got %d", len(reminders))
		}
		r := reminders[0]
		if r.UserID != user.ID || r.Title != "Call bank" {
			t.Errorf("unexpected reminder %+v", r)
		}
		if !strings.HasPrefix(r.Message, "You have a task to do at 2025-03-02T08:00:00Z") {
			t.Errorf("unexpected message %q", r.Message)
		}
		if r.NotifyAt == nil || !r.NotifyAt.Equal(notifyAt) {
			t.Errorf("expected notify_at %v, got %v", notifyAt, r.NotifyAt)
		}
	})

	t.Run("reminder_failure_does_not_fail_create", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		notifications := &failingNotifications{}
		svc := NewTaskService(db, notifications)
		user := testutil.CreateTestUser(t, db)

		notifyAt := march2
		task, err := svc.CreateTask(user.ID, TaskInput{Title: "Pay rent", StartDate: march2, NotifyAt: &notifyAt})
		testutil.AssertNoError(t, err)

		if task.ID == 0 {
			t.Fatal("expected task to be stored")
		}
		if notifications.calls != 1 {
			t.Errorf("expected 1 notification attempt, got %d", notifications.calls)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		_, err := svc.CreateTask(user.ID, TaskInput{StartDate: march2})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_status", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		_, err := svc.CreateTask(user.ID, TaskInput{Title: "x", StartDate: march2, Status: "Blocked"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetTaskByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusDone, march2)

		got, err := svc.GetTaskByID(user.ID, task.ID)
		testutil.AssertNoError(t, err)
		if got.Title != task.Title {
			t.Errorf("expected title %q, got %q", task.Title, got.Title)
		}
	})

	t.Run("other_owner", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		other := testutil.CreateTestUser(t, svc.db)
		task := testutil.CreateTestTask(t, svc.db, other.ID, models.TaskStatusDone, march2)

		_, err := svc.GetTaskByID(user.ID, task.ID)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusToDo, march2)

		due := march2.AddDate(0, 0, 3)
		got, err := svc.UpdateTask(user.ID, task.ID, TaskInput{
			Title:     "Renamed",
			Status:    models.TaskStatusInProgress,
			Priority:  models.TaskPriorityHigh,
			StartDate: march2,
			DueDate:   &due,
		})
		testutil.AssertNoError(t, err)

		if got.Title != "Renamed" || got.Status != models.TaskStatusInProgress || got.Priority != models.TaskPriorityHigh {
			t.Errorf("unexpected task after update: %+v", got)
		}
		if got.DueDate == nil || !got.DueDate.Equal(due) {
			t.Errorf("expected due date %v, got %v", due, got.DueDate)
		}
	})

	t.Run("reschedules_existing_reminder", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		first := march2.Add(-time.Hour)
		task, err := svc.CreateTask(user.ID, TaskInput{Title: "Dentist", StartDate: march2, NotifyAt: &first})
		testutil.AssertNoError(t, err)

		second := march2.Add(-30 * time.Minute)
		_, err = svc.UpdateTask(user.ID, task.ID, TaskInput{Title: "Dentist", StartDate: march2, NotifyAt: &second})
		testutil.AssertNoError(t, err)

		reminders := countNotifications(t, svc, models.NotificationSourceTask, task.ID)
		if len(reminders) != 1 {
			t.Fatalf("expected the reminder to be updated in place, got %d rows", len(reminders))
		}
		if reminders[0].NotifyAt == nil || !reminders[0].NotifyAt.Equal(second) {
			t.Errorf("expected notify_at %v, got %v", second, reminders[0].NotifyAt)
		}
	})

	t.Run("creates_reminder_when_first_set", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusToDo, march2)

		notifyAt := march2.Add(-time.Hour)
		_, err := svc.UpdateTask(user.ID, task.ID, TaskInput{Title: "x", StartDate: march2, NotifyAt: &notifyAt})
		testutil.AssertNoError(t, err)

		if got := countNotifications(t, svc, models.NotificationSourceTask, task.ID); len(got) != 1 {
			t.Errorf("expected 1 reminder, got %d", len(got))
		}
	})

	t.Run("unchanged_notify_at_leaves_reminder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		notifications := &failingNotifications{}
		svc := NewTaskService(db, notifications)
		user := testutil.CreateTestUser(t, db)

		notifyAt := march2
		task, err := svc.CreateTask(user.ID, TaskInput{Title: "x", StartDate: march2, NotifyAt: &notifyAt})
		testutil.AssertNoError(t, err)
		same := notifyAt
		_, err = svc.UpdateTask(user.ID, task.ID, TaskInput{Title: "y", StartDate: march2, NotifyAt: &same})
		testutil.AssertNoError(t, err)

		if notifications.calls != 1 {
			t.Errorf("expected only the create attempt, got %d calls", notifications.calls)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()

		_, err := svc.UpdateTask(user.ID, 9999, TaskInput{Title: "x", StartDate: march2})
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("soft_delete_hides_task", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusToDo, march2)

		testutil.AssertNoError(t, svc.SoftDeleteTask(user.ID, task.ID))

		_, err := svc.GetTaskByID(user.ID, task.ID)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")

		var stored models.Task
		if err := svc.db.Unscoped().First(&stored, task.ID).Error; err != nil {
			t.Fatalf("expected row to remain: %v", err)
		}
		if !stored.IsDeleted() {
			t.Error("expected row to be flagged deleted")
		}
	})

	t.Run("soft_delete_twice", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusToDo, march2)

		testutil.AssertNoError(t, svc.SoftDeleteTask(user.ID, task.ID))
		testutil.AssertAppError(t, svc.SoftDeleteTask(user.ID, task.ID), "TASK_NOT_FOUND")
	})

	t.Run("hard_delete_removes_row", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		task := testutil.CreateTestTask(t, svc.db, user.ID, models.TaskStatusToDo, march2)

		testutil.AssertNoError(t, svc.HardDeleteTask(user.ID, task.ID))

		var count int64
		svc.db.Unscoped().Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected row to be gone, found %d", count)
		}
	})

	t.Run("other_owner_cannot_delete", func(t *testing.T) {
		svc, user, done := newTestTaskService(t)
		defer done()
		other := testutil.CreateTestUser(t, svc.db)
		task := testutil.CreateTestTask(t, svc.db, other.ID, models.TaskStatusToDo, march2)

		testutil.AssertAppError(t, svc.SoftDeleteTask(user.ID, task.ID), "TASK_NOT_FOUND")
		testutil.AssertAppError(t, svc.HardDeleteTask(user.ID, task.ID), "TASK_NOT_FOUND")

		_, err := svc.GetTaskByID(other.ID, task.ID)
		testutil.AssertNoError(t, err)
	})
}
