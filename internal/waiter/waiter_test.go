package waiter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Drydock/internal/domain"
	"github.com/shaiso/Drydock/internal/repo"
)

// fakeSource — StatusSource для тестов.
type fakeSource struct {
	mu         sync.Mutex
	registered bool
	instance   *domain.TaskInstance
	pollErrs   int // сколько первых опросов вернут ошибку
	polls      int
}

func (f *fakeSource) TaskRegistered(_ context.Context, _ domain.TaskRef) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered, nil
}

func (f *fakeSource) LatestTaskInstance(_ context.Context, _ domain.TaskRef) (*domain.TaskInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.pollErrs > 0 {
		f.pollErrs--
		return nil, errors.New("connection refused")
	}
	if f.instance == nil {
		return nil, repo.ErrNotFound
	}
	ti := *f.instance
	return &ti, nil
}

func (f *fakeSource) setState(state domain.TaskInstanceState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instance = &domain.TaskInstance{
		ID:     uuid.New(),
		RunID:  uuid.New(),
		DagID:  "analytics_daily",
		TaskID: "export",
		Try:    1,
		State:  state,
	}
}

func (f *fakeSource) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func mustRef(t *testing.T) domain.TaskRef {
	t.Helper()
	ref, err := domain.NewTaskRef("analytics_daily", "export")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ref
}

func newWaiter(t *testing.T, src StatusSource, interval, timeout time.Duration) *Waiter {
	t.Helper()
	w, err := New(Config{
		Source:       src,
		Target:       mustRef(t),
		PollInterval: interval,
		Timeout:      timeout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return w
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Target: domain.TaskRef{DagID: "a", TaskID: "b"}}); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := New(Config{Source: &fakeSource{}}); err == nil {
		t.Error("expected error for zero target")
	}
}

func TestNew_Defaults(t *testing.T) {
	w := newWaiter(t, &fakeSource{}, 0, 0)

	if w.interval != defaultPollInterval {
		t.Errorf("expected default interval %s, got %s", defaultPollInterval, w.interval)
	}
	if w.timeout != defaultTimeout {
		t.Errorf("expected default timeout %s, got %s", defaultTimeout, w.timeout)
	}
}

func TestWait_TargetAlreadySucceeded(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskSuccess)

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWait_TargetSucceedsAfterPolls(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskRunning)

	go func() {
		time.Sleep(30 * time.Millisecond)
		src.setState(domain.TaskSuccess)
	}()

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.pollCount() < 2 {
		t.Errorf("expected at least 2 polls, got %d", src.pollCount())
	}
}

func TestWait_TargetFailed(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskFailed)
	src.instance.Error = "boom"

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	err := w.Wait(context.Background())

	if !errors.Is(err, ErrTargetFailed) {
		t.Fatalf("expected ErrTargetFailed, got %v", err)
	}
	// Причина должна отличаться от таймаута
	if errors.Is(err, ErrWaitTimeout) {
		t.Error("target failure must not be classified as timeout")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected target error in message, got %q", err)
	}
}

func TestWait_SkippedIsFailure(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskSkipped)

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	if err := w.Wait(context.Background()); !errors.Is(err, ErrTargetFailed) {
		t.Fatalf("expected ErrTargetFailed for SKIPPED, got %v", err)
	}
}

func TestWait_TargetNotRegistered_FailsFast(t *testing.T) {
	src := &fakeSource{registered: false}

	w := newWaiter(t, src, 10*time.Millisecond, 5*time.Second)

	start := time.Now()
	err := w.Wait(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
	// Без ожидания полного таймаута
	if elapsed > 500*time.Millisecond {
		t.Errorf("not-found should fail immediately, took %s", elapsed)
	}
	if src.pollCount() != 0 {
		t.Errorf("expected no status polls, got %d", src.pollCount())
	}
}

func TestWait_Timeout_TargetNeverRan(t *testing.T) {
	src := &fakeSource{registered: true} // instance отсутствует

	w := newWaiter(t, src, 5*time.Millisecond, 30*time.Millisecond)
	err := w.Wait(context.Background())

	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "never ran") {
		t.Errorf("expected 'never ran' in message, got %q", err)
	}
}

func TestWait_Timeout_TargetStillRunning(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskRunning)

	w := newWaiter(t, src, 5*time.Millisecond, 30*time.Millisecond)
	err := w.Wait(context.Background())

	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
	if errors.Is(err, ErrTargetFailed) {
		t.Error("timeout must not be classified as target failure")
	}
	if !strings.Contains(err.Error(), string(domain.TaskRunning)) {
		t.Errorf("expected last observed state in message, got %q", err)
	}
}

func TestWait_TransientErrorsDoNotAbort(t *testing.T) {
	src := &fakeSource{registered: true, pollErrs: 2}
	src.setState(domain.TaskSuccess)

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.pollCount() < 3 {
		t.Errorf("expected retries after transient errors, got %d polls", src.pollCount())
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskRunning)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	w := newWaiter(t, src, 5*time.Millisecond, time.Minute)
	if err := w.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPoll_Idempotent(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskRunning)

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)

	// Повторные опросы при неизменном статусе классифицируются одинаково
	first, err := w.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		cond, err := w.Poll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cond != first {
			t.Errorf("poll %d: classification changed: %+v vs %+v", i, cond, first)
		}
	}
	if first.Outcome != OutcomePending {
		t.Errorf("expected PENDING for RUNNING target, got %s", first.Outcome)
	}
}

func TestPoll_NoInstanceIsPending(t *testing.T) {
	src := &fakeSource{registered: true}

	w := newWaiter(t, src, 5*time.Millisecond, time.Second)
	cond, err := w.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond.Outcome != OutcomePending || cond.State != domain.TaskNone {
		t.Errorf("expected pending/NONE, got %s/%s", cond.Outcome, cond.State)
	}
}

// Сценарий из практики: DAG A завершает задачу export, waiter DAG'а B
// с интервалом и таймаутом замечает успех в пределах одного интервала.
func TestWait_EndToEnd(t *testing.T) {
	src := &fakeSource{registered: true}
	src.setState(domain.TaskQueued)

	go func() {
		time.Sleep(25 * time.Millisecond)
		src.setState(domain.TaskRunning)
		time.Sleep(25 * time.Millisecond)
		src.setState(domain.TaskSuccess)
	}()

	w := newWaiter(t, src, 10*time.Millisecond, 300*time.Millisecond)

	start := time.Now()
	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("success should be observed within ~one interval, took %s", elapsed)
	}
}
