package dagdef

import "errors"

// Ошибки валидации определений DAG'ов.
var (
	// ErrEmptyDagID — определение без dag_id.
	ErrEmptyDagID = errors.New("dag has empty dag_id")

	// ErrEmptyTasks — DAG не содержит задач.
	ErrEmptyTasks = errors.New("dag has no tasks")

	// ErrEmptyTaskID — задача без id.
	ErrEmptyTaskID = errors.New("task has empty task_id")

	// ErrDuplicateTaskID — несколько задач с одинаковым id.
	ErrDuplicateTaskID = errors.New("duplicate task_id")

	// ErrUnknownTaskType — неизвестный тип задачи.
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrMissingDependency — depends_on ссылается на несуществующую задачу.
	ErrMissingDependency = errors.New("task depends on unknown task")

	// ErrSelfDependency — задача зависит от самой себя.
	ErrSelfDependency = errors.New("task depends on itself")

	// ErrCyclicDependency — обнаружен цикл в зависимостях.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrMissingCommand — shell-задача без команды.
	ErrMissingCommand = errors.New("shell task has no command")

	// ErrMissingWaitTarget — waiter-задача без целевой ссылки.
	ErrMissingWaitTarget = errors.New("waiter task has no waits_for target")

	// ErrInvalidSchedule — невалидное cron-выражение.
	ErrInvalidSchedule = errors.New("invalid schedule expression")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	DagID   string // id DAG'а, где произошла ошибка
	TaskID  string // id задачи (пусто для ошибок уровня DAG'а)
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	switch {
	case e.TaskID != "":
		return "task " + e.TaskID + ": " + e.Message
	case e.DagID != "":
		return "dag " + e.DagID + ": " + e.Message
	default:
		return e.Message
	}
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(dagID, taskID, field, message string, err error) *ValidationError {
	return &ValidationError{
		DagID:   dagID,
		TaskID:  taskID,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
