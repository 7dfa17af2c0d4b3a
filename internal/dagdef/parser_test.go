package dagdef

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validDag = `
dag_id: analytics_daily
description: Daily export pipeline
schedule: "0 9 * * *"
max_active_runs: 1
max_active_tasks: 3
tasks:
  - task_id: export
    type: shell
    command: "run-export --date {{ ds }}"
  - task_id: notify
    type: noop
    depends_on: [export]
`

const validWaiterDag = `
dag_id: ml-team_training
tasks:
  - task_id: wait_export
    type: waiter
    waits_for:
      dag_id: analytics_daily
      task_id: export
      timeout_sec: 300
      poll_interval_sec: 10
  - task_id: train
    type: shell
    command: "train-model"
    depends_on: [wait_export]
`

func TestParse_Valid(t *testing.T) {
	def, err := Parse([]byte(validDag))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.DagID != "analytics_daily" {
		t.Errorf("expected dag_id analytics_daily, got %s", def.DagID)
	}
	if def.Tenant() != "analytics" {
		t.Errorf("expected tenant analytics, got %s", def.Tenant())
	}
	if def.MaxActiveRuns != 1 || def.MaxActiveTasks != 3 {
		t.Errorf("limits not parsed: runs=%d tasks=%d", def.MaxActiveRuns, def.MaxActiveTasks)
	}
	if len(def.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(def.Tasks))
	}
	if def.Task("notify").DependsOn[0] != "export" {
		t.Error("notify should depend on export")
	}
}

func TestParse_WaiterTask(t *testing.T) {
	def, err := Parse([]byte(validWaiterDag))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wt := def.Task("wait_export").WaitsFor
	if wt == nil {
		t.Fatal("waits_for should be parsed")
	}
	ref, err := wt.Ref()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.String() != "analytics_daily.export" {
		t.Errorf("unexpected ref: %s", ref)
	}
	if wt.TimeoutSec != 300 || wt.PollIntervalSec != 10 {
		t.Errorf("timings not parsed: %+v", wt)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("dag_id: a_b\nretries: 5\ntasks: [{task_id: t, type: noop}]"))
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "empty dag_id",
			yaml: "tasks: [{task_id: t, type: noop}]",
			want: ErrEmptyDagID,
		},
		{
			name: "no tasks",
			yaml: "dag_id: a_b",
			want: ErrEmptyTasks,
		},
		{
			name: "empty task_id",
			yaml: "dag_id: a_b\ntasks: [{type: noop}]",
			want: ErrEmptyTaskID,
		},
		{
			name: "duplicate task_id",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: noop}, {task_id: t, type: noop}]",
			want: ErrDuplicateTaskID,
		},
		{
			name: "unknown type",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: python}]",
			want: ErrUnknownTaskType,
		},
		{
			name: "self dependency",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: noop, depends_on: [t]}]",
			want: ErrSelfDependency,
		},
		{
			name: "shell without command",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: shell}]",
			want: ErrMissingCommand,
		},
		{
			name: "waiter without target",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: waiter}]",
			want: ErrMissingWaitTarget,
		},
		{
			name: "waiter targets own dag",
			yaml: "dag_id: a_b\ntasks: [{task_id: t, type: waiter, waits_for: {dag_id: a_b, task_id: x}}]",
			want: ErrMissingWaitTarget,
		},
		{
			name: "bad schedule",
			yaml: "dag_id: a_b\nschedule: \"not cron\"\ntasks: [{task_id: t, type: noop}]",
			want: ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	if err := ValidateSchedule("*/5 * * * *"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSchedule("61 * * * *"); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestNextRun(t *testing.T) {
	from := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	next, err := NextRun("0 9 * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %s, got %s", want, next)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	write("good.yaml", validDag)
	write("bad.yaml", "dag_id: broken")
	write("_draft.yaml", "not even yaml: [")
	write("notes.txt", "ignored")

	results, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Отсортировано по имени файла: bad.yaml, good.yaml
	if results[0].Err == nil {
		t.Error("bad.yaml should fail validation")
	}
	if results[1].Err != nil {
		t.Errorf("good.yaml should pass, got %v", results[1].Err)
	}
	if results[1].Def == nil || results[1].Def.DagID != "analytics_daily" {
		t.Error("good.yaml definition should be returned")
	}
}
