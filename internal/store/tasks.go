package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Task is a stored to-do item. DueDate is zero when the task has no deadline.
type Task struct {
	ID          int64
	Description string
	DueDate     time.Time
	Status      string
}

// Reminder classifies how urgently a task needs attention.
type Reminder int

const (
	ReminderNone Reminder = iota
	ReminderDueSoon
	ReminderOverdue
)

// Reminder classifies the task against the given instant: overdue when the
// due date has passed, due-soon when it falls within the next 24 hours.
func (t Task) Reminder(now time.Time) Reminder {
	if t.DueDate.IsZero() {
		return ReminderNone
	}
	if t.DueDate.Before(now) {
		return ReminderOverdue
	}
	if t.DueDate.Sub(now) < 24*time.Hour {
		return ReminderDueSoon
	}
	return ReminderNone
}

// AddTask inserts a pending task and returns its ID.
func (s *Store) AddTask(ctx context.Context, description string, due time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("task description is required")
	}

	var dueVal sql.NullString
	if !due.IsZero() {
		dueVal = sql.NullString{String: due.Format(time.RFC3339), Valid: true}
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO tasks (description, due_date) VALUES (?, ?)`, description, dueVal,
	)
	if err != nil {
		return 0, fmt.Errorf("add task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task insert id: %w", err)
	}
	return id, nil
}

// PendingTasks returns all pending tasks ordered by due date ascending.
func (s *Store) PendingTasks(ctx context.Context) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, description, due_date, status FROM tasks WHERE status = 'pending' ORDER BY due_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var (
			task   Task
			dueVal sql.NullString
		)
		if err := rows.Scan(&task.ID, &task.Description, &dueVal, &task.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if dueVal.Valid {
			due, err := time.Parse(time.RFC3339, dueVal.String)
			if err != nil {
				// Rows written by older builds may carry other layouts;
				// a bad date should not hide the task itself.
				due = time.Time{}
			}
			task.DueDate = due
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask removes a task by ID. Deleting an unknown ID is not an error.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
