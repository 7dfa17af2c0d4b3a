package waiter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Drydock/internal/domain"
	"github.com/shaiso/Drydock/internal/repo"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultTimeout      = 5 * time.Minute
)

// StatusSource — узкий read-only интерфейс к метаданным стека.
//
// Реализуется repo.InstanceRepo. Waiter получает его инъекцией:
// метаданные — внешняя зависимость, не глобальное состояние.
type StatusSource interface {
	// TaskRegistered проверяет, что целевая задача объявлена в стеке.
	TaskRegistered(ctx context.Context, ref domain.TaskRef) (bool, error)

	// LatestTaskInstance возвращает instance целевой задачи в самом
	// свежем run. repo.ErrNotFound — задача ещё ни разу не запускалась.
	LatestTaskInstance(ctx context.Context, ref domain.TaskRef) (*domain.TaskInstance, error)
}

// Outcome — классификация результата одного опроса.
type Outcome string

const (
	// OutcomePending — цель ещё не финальна (или instance ещё не создан).
	OutcomePending Outcome = "PENDING"

	// OutcomeSucceeded — цель достигла SUCCESS.
	OutcomeSucceeded Outcome = "SUCCESS"

	// OutcomeFailed — цель достигла неуспешного финального статуса.
	OutcomeFailed Outcome = "FAILED"
)

// Condition — результат одного опроса целевой задачи.
type Condition struct {
	// Outcome — классификация наблюдаемого статуса.
	Outcome Outcome

	// State — наблюдаемый статус instance (TaskNone, если instance нет).
	State domain.TaskInstanceState

	// Detail — текст ошибки целевой задачи (для OutcomeFailed).
	Detail string
}

// Waiter — операция ожидания одной целевой задачи.
//
// Создаётся один раз на waiter-задачу в определении DAG'а; всё состояние
// выполнения живёт в метаданных стека, сам Waiter между опросами
// ничего не запоминает.
type Waiter struct {
	src      StatusSource
	target   domain.TaskRef
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// Config — конфигурация Waiter.
type Config struct {
	// Source — доступ к метаданным (обязателен).
	Source StatusSource

	// Target — целевая задача (обязательна).
	Target domain.TaskRef

	// PollInterval — фиксированный интервал опроса (default: 10s).
	PollInterval time.Duration

	// Timeout — дедлайн ожидания (default: 5m).
	Timeout time.Duration

	// Logger (опционально; если nil — slog.Default).
	Logger *slog.Logger
}

// New создаёт Waiter для целевой задачи.
func New(cfg Config) (*Waiter, error) {
	if cfg.Source == nil {
		return nil, errors.New("waiter: nil status source")
	}
	if cfg.Target.IsZero() {
		return nil, fmt.Errorf("waiter: %w", domain.ErrEmptyDagID)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Waiter{
		src:      cfg.Source,
		target:   cfg.Target,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("target", cfg.Target.String()),
	}, nil
}

// Target возвращает целевую ссылку.
func (w *Waiter) Target() domain.TaskRef {
	return w.target
}

// Poll выполняет один опрос целевой задачи.
//
// Опрос идемпотентен: при неизменном статусе цели повторные вызовы
// возвращают одну и ту же классификацию.
func (w *Waiter) Poll(ctx context.Context) (Condition, error) {
	ti, err := w.src.LatestTaskInstance(ctx, w.target)
	if errors.Is(err, repo.ErrNotFound) {
		// Задача зарегистрирована, но ещё ни разу не попадала в run
		pollsTotal.WithLabelValues("pending").Inc()
		return Condition{Outcome: OutcomePending, State: domain.TaskNone}, nil
	}
	if err != nil {
		pollsTotal.WithLabelValues("error").Inc()
		return Condition{}, fmt.Errorf("poll %s: %w", w.target, err)
	}

	switch {
	case ti.State.IsSuccess():
		pollsTotal.WithLabelValues("success").Inc()
		return Condition{Outcome: OutcomeSucceeded, State: ti.State}, nil

	case ti.State.IsFailure():
		pollsTotal.WithLabelValues("failed").Inc()
		return Condition{Outcome: OutcomeFailed, State: ti.State, Detail: ti.Error}, nil

	default:
		pollsTotal.WithLabelValues("pending").Inc()
		return Condition{Outcome: OutcomePending, State: ti.State}, nil
	}
}

// Wait блокируется, пока целевая задача не достигнет финального статуса
// или не истечёт дедлайн.
//
// Политика: первый опрос сразу, далее фиксированный интервал без jitter
// (см. DESIGN.md). Транзиентные ошибки чтения метаданных не прерывают
// ожидание — они логируются, а следующий тик повторяет опрос; время
// таких ошибок засчитывается в дедлайн.
//
// Возвращает nil при SUCCESS цели, иначе одну из ошибок errors.go.
func (w *Waiter) Wait(ctx context.Context) error {
	start := time.Now()
	deadline := start.Add(w.timeout)

	// Fail fast: несуществующая цель — ошибка конфигурации,
	// ждать дедлайн бессмысленно.
	registered, err := w.src.TaskRegistered(ctx, w.target)
	if err != nil {
		return fmt.Errorf("check target %s: %w", w.target, err)
	}
	if !registered {
		waitsTotal.WithLabelValues("not_found").Inc()
		return fmt.Errorf("%w: %s", ErrTargetNotFound, w.target)
	}

	w.logger.Info("waiting for external task",
		"poll_interval", w.interval,
		"timeout", w.timeout,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastState := domain.TaskNone
	for {
		cond, err := w.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn("poll failed, will retry", "error", err)
		} else {
			lastState = cond.State

			switch cond.Outcome {
			case OutcomeSucceeded:
				waitsTotal.WithLabelValues("success").Inc()
				waitDuration.Observe(time.Since(start).Seconds())
				w.logger.Info("external task succeeded", "waited", time.Since(start))
				return nil

			case OutcomeFailed:
				waitsTotal.WithLabelValues("target_failed").Inc()
				waitDuration.Observe(time.Since(start).Seconds())
				if cond.Detail != "" {
					return fmt.Errorf("%w: %s is %s: %s", ErrTargetFailed, w.target, cond.State, cond.Detail)
				}
				return fmt.Errorf("%w: %s is %s", ErrTargetFailed, w.target, cond.State)
			}

			w.logger.Debug("external task not terminal", "state", cond.State)
		}

		if !time.Now().Before(deadline) {
			waitsTotal.WithLabelValues("timeout").Inc()
			waitDuration.Observe(time.Since(start).Seconds())
			if lastState == domain.TaskNone {
				return fmt.Errorf("%w: %s never ran within %s", ErrWaitTimeout, w.target, w.timeout)
			}
			return fmt.Errorf("%w: %s still %s after %s", ErrWaitTimeout, w.target, lastState, w.timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
