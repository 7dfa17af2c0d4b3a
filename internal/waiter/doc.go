// Package waiter реализует межDAG-ожидание: задача одного DAG'а
// блокируется, пока задача другого DAG'а не достигнет финального статуса.
//
// Структура:
//   - waiter.go  — цикл опроса (Wait, Poll)
//   - errors.go  — различимые виды ошибок ожидания
//   - metrics.go — Prometheus метрики опросов
//
// Waiter — тонкий слой над метаданными стека: каждый опрос заново
// читает текущий статус целевой задачи через узкий read-only интерфейс
// StatusSource. Никакого состояния между опросами waiter не хранит,
// опрос идемпотентен и безопасен при повторах.
//
// Использование:
//
//	w := waiter.New(waiter.Config{
//	    Source: instanceRepo,
//	    Target: ref,          // (dag_id, task_id) целевой задачи
//	    Logger: logger,
//	})
//
//	if err := w.Wait(ctx); err != nil {
//	    switch {
//	    case errors.Is(err, waiter.ErrTargetNotFound): // конфигурационная ошибка
//	    case errors.Is(err, waiter.ErrTargetFailed):   // целевая задача упала
//	    case errors.Is(err, waiter.ErrWaitTimeout):    // дедлайн истёк
//	    }
//	}
package waiter
