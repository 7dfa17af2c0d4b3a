package domain

import "strings"

// Допустимые типы задач в DAG-файлах dev-стека.
const (
	// TaskTypeShell — shell-команда внутри контейнера стека.
	TaskTypeShell = "shell"

	// TaskTypeWaiter — ожидание задачи из другого DAG'а (см. internal/waiter).
	TaskTypeWaiter = "waiter"

	// TaskTypeNoop — пустая задача (маркеры, join-точки).
	TaskTypeNoop = "noop"
)

// DagDef — определение DAG'а из YAML-файла в dags/.
//
// Это авторский контент harness'а: файлы монтируются в контейнеры стека,
// а сам harness их парсит для валидации и lint-проверок.
type DagDef struct {
	// DagID — уникальный идентификатор DAG'а.
	// По конвенции: "{tenant}_{name}" (см. internal/lint).
	DagID string `yaml:"dag_id"`

	// Description — описание назначения DAG'а.
	Description string `yaml:"description,omitempty"`

	// Schedule — cron-выражение расписания ("0 9 * * *").
	// Пустое — DAG запускается только вручную.
	Schedule string `yaml:"schedule,omitempty"`

	// MaxActiveRuns — лимит одновременных runs этого DAG'а.
	// 0 — не задан (lint выдаст warning).
	MaxActiveRuns int `yaml:"max_active_runs,omitempty"`

	// MaxActiveTasks — лимит одновременных задач внутри run.
	// 0 — не задан (lint выдаст warning).
	MaxActiveTasks int `yaml:"max_active_tasks,omitempty"`

	// Tasks — задачи DAG'а.
	Tasks []TaskDef `yaml:"tasks"`
}

// TaskDef — определение задачи внутри DAG-файла.
type TaskDef struct {
	// TaskID — уникальный внутри DAG'а идентификатор задачи.
	TaskID string `yaml:"task_id"`

	// Type — тип задачи: "shell", "waiter", "noop".
	Type string `yaml:"type"`

	// Command — команда для type="shell".
	Command string `yaml:"command,omitempty"`

	// DependsOn — задачи, после которых запускается эта.
	DependsOn []string `yaml:"depends_on,omitempty"`

	// WaitsFor — целевая задача для type="waiter".
	WaitsFor *WaitTarget `yaml:"waits_for,omitempty"`
}

// WaitTarget — целевая ссылка и тайминги для waiter-задачи.
type WaitTarget struct {
	// DagID — идентификатор целевого DAG'а.
	DagID string `yaml:"dag_id"`

	// TaskID — идентификатор целевой задачи.
	TaskID string `yaml:"task_id"`

	// TimeoutSec — дедлайн ожидания в секундах (0 — значение по умолчанию).
	TimeoutSec int `yaml:"timeout_sec,omitempty"`

	// PollIntervalSec — интервал опроса в секундах (0 — значение по умолчанию).
	PollIntervalSec int `yaml:"poll_interval_sec,omitempty"`
}

// Ref возвращает TaskRef целевой задачи.
func (w *WaitTarget) Ref() (TaskRef, error) {
	return NewTaskRef(w.DagID, w.TaskID)
}

// Tenant возвращает tenant-префикс dag id ("" если конвенция не соблюдена).
func (d *DagDef) Tenant() string {
	tenant, _, ok := strings.Cut(d.DagID, "_")
	if !ok {
		return ""
	}
	return tenant
}

// Task возвращает задачу по id (nil, если не найдена).
func (d *DagDef) Task(taskID string) *TaskDef {
	for i := range d.Tasks {
		if d.Tasks[i].TaskID == taskID {
			return &d.Tasks[i]
		}
	}
	return nil
}
