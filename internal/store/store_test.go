package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "smarttask.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSeedsDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	testCases := []struct {
		key      string
		expected string
	}{
		{ConfigLicenseStatus, "UNLICENSED"},
		{ConfigQueryCount, "0"},
	}
	for _, tc := range testCases {
		value, err := s.GetConfig(ctx, tc.key)
		if err != nil {
			t.Fatalf("GetConfig(%q) error = %v", tc.key, err)
		}
		if value != tc.expected {
			t.Errorf("GetConfig(%q) = %q, expected %q", tc.key, value, tc.expected)
		}
	}

	period, err := s.GetConfig(ctx, ConfigLastQueryReset)
	if err != nil {
		t.Fatalf("GetConfig(last_query_reset) error = %v", err)
	}
	if period != time.Now().Format("2006-01") {
		t.Errorf("seeded reset period = %q, expected current month", period)
	}
}

func TestSeedDoesNotClobberExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smarttask.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.SetConfig(ctx, ConfigLicenseStatus, "PRO"); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	value, err := second.GetConfig(ctx, ConfigLicenseStatus)
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if value != "PRO" {
		t.Errorf("license after reopen = %q, expected %q", value, "PRO")
	}
}

func TestGetConfigMissingKey(t *testing.T) {
	s := openTestStore(t)

	value, err := s.GetConfig(context.Background(), "never_written")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if value != "" {
		t.Errorf("GetConfig(missing) = %q, expected empty string", value)
	}
}

func TestSaveAPIKeysSaveAllSemantics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{
		"OpenAI": "sk-one",
		"Claude": "ak-two",
	}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}

	// Clearing a field deletes the record, a new value upserts
	if err := s.SaveAPIKeys(ctx, map[string]string{
		"OpenAI": "",
		"Claude": "ak-updated",
		"Gemini": "gk-three",
	}); err != nil {
		t.Fatalf("SaveAPIKeys() second pass error = %v", err)
	}

	if _, ok, _ := s.GetAPIKey(ctx, "OpenAI"); ok {
		t.Error("expected OpenAI key to be deleted")
	}

	key, ok, err := s.GetAPIKey(ctx, "Claude")
	if err != nil || !ok {
		t.Fatalf("GetAPIKey(Claude) = (%v, %v), expected stored key", ok, err)
	}
	if key != "ak-updated" {
		t.Errorf("Claude key = %q, expected %q", key, "ak-updated")
	}

	services, err := s.ConfiguredServices(ctx)
	if err != nil {
		t.Fatalf("ConfiguredServices() error = %v", err)
	}
	expected := []string{"Claude", "Gemini"}
	if len(services) != len(expected) {
		t.Fatalf("ConfiguredServices() = %v, expected %v", services, expected)
	}
	for i := range expected {
		if services[i] != expected[i] {
			t.Errorf("services[%d] = %q, expected %q", i, services[i], expected[i])
		}
	}
}

func TestTasksLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	later := now.Add(48 * time.Hour)
	soon := now.Add(2 * time.Hour)
	id1, err := s.AddTask(ctx, "later task", later)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	id2, err := s.AddTask(ctx, "sooner task", soon)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}

	tasks, err := s.PendingTasks(ctx)
	if err != nil {
		t.Fatalf("PendingTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(tasks))
	}
	// Ordered by due date ascending
	if tasks[0].ID != id2 || tasks[1].ID != id1 {
		t.Errorf("task order = [%d, %d], expected [%d, %d]", tasks[0].ID, tasks[1].ID, id2, id1)
	}

	if err := s.DeleteTask(ctx, id2); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	tasks, err = s.PendingTasks(ctx)
	if err != nil {
		t.Fatalf("PendingTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != id1 {
		t.Errorf("expected only task %d to remain, got %v", id1, tasks)
	}
}

func TestAddTaskRequiresDescription(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.AddTask(context.Background(), "   ", time.Time{}); err == nil {
		t.Error("expected an error for a blank description")
	}
}

func TestTaskReminder(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		due      time.Time
		expected Reminder
	}{
		{"no due date", time.Time{}, ReminderNone},
		{"overdue", now.Add(-time.Hour), ReminderOverdue},
		{"due within a day", now.Add(6 * time.Hour), ReminderDueSoon},
		{"due later", now.Add(72 * time.Hour), ReminderNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task := Task{DueDate: tc.due}
			if got := task.Reminder(now); got != tc.expected {
				t.Errorf("Reminder() = %v, expected %v", got, tc.expected)
			}
		})
	}
}
