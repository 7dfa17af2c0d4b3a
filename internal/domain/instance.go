package domain

import (
	"time"

	"github.com/google/uuid"
)

// DagRun — один запуск DAG'а, как он записан в метаданных стека.
//
// Harness никогда не создаёт и не изменяет runs — это делает
// планировщик стека. Мы только читаем их для waiter'а и `drydock status`.
type DagRun struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// DagID — идентификатор DAG'а.
	DagID string `json:"dag_id"`

	// LogicalDate — логическая дата запуска (ключ упорядочивания:
	// "последний run" — это run с максимальной LogicalDate).
	LogicalDate time.Time `json:"logical_date"`

	// State — текущий статус run.
	State DagRunState `json:"state"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// IsFinished возвращает true, если run завершён.
func (r *DagRun) IsFinished() bool {
	return r.State.IsTerminal()
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *DagRun) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// TaskInstance — одна попытка выполнения задачи внутри конкретного run.
//
// Это то, что waiter опрашивает в метаданных: instance несёт статус,
// номер попытки и текст ошибки при неудаче.
type TaskInstance struct {
	// ID — уникальный идентификатор instance.
	ID uuid.UUID `json:"id"`

	// RunID — ссылка на родительский run.
	RunID uuid.UUID `json:"run_id"`

	// DagID — идентификатор DAG'а (дублирует run для удобства выборок).
	DagID string `json:"dag_id"`

	// TaskID — идентификатор задачи внутри DAG'а.
	TaskID string `json:"task_id"`

	// Try — номер попытки (начиная с 1).
	Try int `json:"try"`

	// State — текущий статус instance.
	State TaskInstanceState `json:"state"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки при неудаче.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// Ref возвращает TaskRef этого instance.
func (t *TaskInstance) Ref() TaskRef {
	return TaskRef{DagID: t.DagID, TaskID: t.TaskID}
}

// IsFinished возвращает true, если instance завершён.
func (t *TaskInstance) IsFinished() bool {
	return t.State.IsTerminal()
}

// Duration возвращает продолжительность выполнения.
func (t *TaskInstance) Duration() time.Duration {
	if t.StartedAt == nil || t.FinishedAt == nil {
		return 0
	}
	return t.FinishedAt.Sub(*t.StartedAt)
}
