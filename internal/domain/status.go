package domain

// DagRunState — статус выполнения dag run.
//
// Жизненный цикл:
//
//	QUEUED → RUNNING → SUCCESS
//	                 ↘ FAILED
type DagRunState string

const (
	// DagRunQueued — run создан планировщиком, но ещё не начал выполняться.
	DagRunQueued DagRunState = "QUEUED"

	// DagRunRunning — run в процессе выполнения.
	DagRunRunning DagRunState = "RUNNING"

	// DagRunSuccess — run успешно завершён.
	DagRunSuccess DagRunState = "SUCCESS"

	// DagRunFailed — run завершился с ошибкой.
	DagRunFailed DagRunState = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s DagRunState) IsTerminal() bool {
	switch s {
	case DagRunSuccess, DagRunFailed:
		return true
	default:
		return false
	}
}

// TaskInstanceState — статус task instance в метаданных стека.
//
// Жизненный цикл:
//
//	NONE → SCHEDULED → QUEUED → RUNNING → SUCCESS
//	                                    ↘ FAILED
//	                                    ↘ UP_FOR_RETRY (→ обратно в QUEUED)
//	                          (или) → SKIPPED
type TaskInstanceState string

const (
	// TaskNone — instance ещё не создан (задача никогда не запускалась).
	TaskNone TaskInstanceState = "NONE"

	// TaskScheduled — instance запланирован, ожидает очереди.
	TaskScheduled TaskInstanceState = "SCHEDULED"

	// TaskQueued — instance в очереди executor'а.
	TaskQueued TaskInstanceState = "QUEUED"

	// TaskRunning — instance выполняется.
	TaskRunning TaskInstanceState = "RUNNING"

	// TaskSuccess — instance успешно завершён.
	TaskSuccess TaskInstanceState = "SUCCESS"

	// TaskFailed — instance завершился с ошибкой (после всех retry).
	TaskFailed TaskInstanceState = "FAILED"

	// TaskUpForRetry — instance упал, но будет перезапущен executor'ом.
	TaskUpForRetry TaskInstanceState = "UP_FOR_RETRY"

	// TaskSkipped — instance пропущен (branch/условие).
	TaskSkipped TaskInstanceState = "SKIPPED"
)

// IsTerminal возвращает true, если статус финальный.
// UP_FOR_RETRY не финальный: executor ещё сделает попытку.
func (s TaskInstanceState) IsTerminal() bool {
	switch s {
	case TaskSuccess, TaskFailed, TaskSkipped:
		return true
	default:
		return false
	}
}

// IsSuccess возвращает true, если задача завершилась успешно.
func (s TaskInstanceState) IsSuccess() bool {
	return s == TaskSuccess
}

// IsFailure возвращает true для финальных неуспешных статусов.
// SKIPPED считается неуспехом: ожидающий не может полагаться на результат.
func (s TaskInstanceState) IsFailure() bool {
	return s == TaskFailed || s == TaskSkipped
}
